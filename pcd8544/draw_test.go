// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

func TestDevBounds(t *testing.T) {
	d, _ := newRecorded(t)
	if got, want := d.Bounds(), image.Rect(0, 0, 84, 48); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if d.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel() must be image1bit.BitModel")
	}
}

func TestDraw_fullFrame(t *testing.T) {
	d, r := newRecorded(t)
	img := image1bit.NewVerticalLSB(d.Bounds())
	img.SetBit(1, 9, image1bit.On)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	frame := make([]byte, pcd8544.Width*pcd8544.Banks)
	frame[pcd8544.Width+1] = 0x02
	if diff := cmp.Diff(r.Ops, concat(cmd(0x80, 0x40), data(frame...))); diff != "" {
		t.Errorf("Draw() difference (-got +want):\n%s", diff)
	}
}

func TestDraw_partial(t *testing.T) {
	d, s := newSim(t)
	if err := d.FillRect(0, 0, 83, 47); err != nil {
		t.Fatal(err)
	}
	// An opaque black source clears whole banks across the requested columns.
	black := &image.Uniform{color.Black}
	if err := d.Draw(image.Rect(10, 3, 20, 12), black, image.Point{}); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		x, y int
		want bool
	}{
		{9, 0, true},
		{10, 0, false},
		{19, 15, false},
		{20, 15, true},
		{15, 16, true},
	} {
		if got := s.Pixel(tc.x, tc.y); got != tc.want {
			t.Errorf("Pixel(%d, %d) = %t, want %t", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestDraw_sourceOffset(t *testing.T) {
	d, s := newSim(t)
	src := image.NewGray(image.Rect(0, 0, 100, 100))
	src.SetGray(50, 50, color.Gray{Y: 255})
	// Destination (30, 20) maps to source (50, 50).
	if err := d.Draw(image.Rect(30, 20, 40, 30), src, image.Pt(50, 50)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(lit(s), []image.Point{{30, 20}}); diff != "" {
		t.Errorf("Draw() difference (-got +want):\n%s", diff)
	}
}

func TestDraw_outside(t *testing.T) {
	d, r := newRecorded(t)
	if err := d.Draw(image.Rect(100, 100, 120, 120), &image.Uniform{color.White}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(r.Ops) != 0 {
		t.Errorf("drawing outside the display sent %v", r.Ops)
	}
}

func TestWrite(t *testing.T) {
	d, s := newSim(t)
	frame := make([]byte, pcd8544.Width*pcd8544.Banks)
	frame[0] = 0x80
	frame[len(frame)-1] = 0x01
	n, err := d.Write(frame)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(frame) {
		t.Errorf("Write() = %d, want %d", n, len(frame))
	}
	if diff := cmp.Diff(lit(s), []image.Point{{0, 7}, {83, 40}}); diff != "" {
		t.Errorf("Write() difference (-got +want):\n%s", diff)
	}
	if _, err := d.Write(frame[1:]); err == nil {
		t.Error("expected error for a short frame")
	}
}
