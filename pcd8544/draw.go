// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit. image1bit.On
// is a dark pixel.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw implements display.Drawer.
//
// The controller memory is written a whole bank at a time, so r is extended
// up and down to multiples of 8 rows. The extra rows are taken from src like
// the rest of r; the ones src does not cover are turned off.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.Bounds() && img.Rect == r && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, image1bit encoding: fast path!
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.write(img.Pix)
	}

	a := r.Intersect(d.Bounds())
	if a.Empty() {
		return nil
	}
	a.Min.Y &^= 7
	a.Max.Y = (a.Max.Y + 7) &^ 7
	sp = sp.Add(a.Min.Sub(r.Min))

	// The conversion buffer only lives for this call.
	buf := image1bit.NewVerticalLSB(image.Rect(0, 0, a.Dx(), a.Dy()))
	draw.Src.Draw(buf, buf.Rect, src, sp)

	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	stride := a.Dx()
	for b := 0; b < a.Dy()/8; b++ {
		d.positionCursor(eh, a.Min.X, a.Min.Y/8+b)
		eh.data(buf.Pix[b*stride : (b+1)*stride]...)
	}
	d.last = cell{}
	return d.end(eh)
}

// Write writes a buffer of pixels to the display.
//
// The format is the controller's: Banks horizontal bands of Width bytes,
// each byte being 8 vertical pixels with the LSB on top.
//
// This function accepts the content of image1bit.VerticalLSB.Pix.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != Width*Banks {
		return 0, fmt.Errorf("pcd8544: invalid pixel stream length; expected %d bytes, got %d bytes", Width*Banks, len(pixels))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.write(pixels); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

func (d *Dev) write(pixels []byte) error {
	eh := d.begin()
	d.positionCursor(eh, 0, 0)
	eh.data(pixels...)
	d.last = cell{}
	return d.end(eh)
}
