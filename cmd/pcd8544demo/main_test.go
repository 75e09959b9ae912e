// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"io"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/lcddevices/lcdsim"
	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

func TestToPanel(t *testing.T) {
	src := image.NewGray(image.Rect(10, 10, 12, 11))
	src.SetGray(10, 10, color.Gray{Y: 0x00})
	src.SetGray(11, 10, color.Gray{Y: 0xFF})
	img := toPanel(src)
	if got, want := img.Bounds(), image.Rect(0, 0, 2, 1); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	if img.BitAt(0, 0) != image1bit.On {
		t.Error("black must be a dark pixel")
	}
	if img.BitAt(1, 0) != image1bit.Off {
		t.Error("white must be a clear pixel")
	}
}

func TestVector(t *testing.T) {
	s := lcdsim.New(&lcdsim.Opts{W: io.Discard})
	dev, err := pcd8544.New(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := vector(dev); err != nil {
		t.Fatal(err)
	}
	// The background stays clear and the circle stroke is dark.
	if s.Pixel(0, 0) {
		t.Error("background pixel (0, 0) is dark")
	}
	if !s.Pixel(4, 24) {
		t.Error("circle pixel (4, 24) is clear")
	}
}
