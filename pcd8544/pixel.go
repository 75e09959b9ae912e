// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

// SetPixel turns on the pixel at (x, y).
//
// Pixels outside of the display are ignored and nothing is sent. Otherwise
// one cursor positioning pair and one data byte are sent, preceded by a
// function set command if the controller was halted.
//
// The byte written for the pixel also carries the pixels set by the
// immediately preceding SetPixel calls in the same bank column. Any other
// pixel of that column, e.g. set earlier before another column was written,
// is turned off.
func (d *Dev) SetPixel(x, y int) error {
	if !inBounds(x, y) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.setPixel(eh, x, y)
	return d.end(eh)
}

func (d *Dev) setPixel(eh *errorHandler, x, y int) {
	if !inBounds(x, y) {
		return
	}
	bank := y / 8
	if !d.last.valid || d.last.x != x || d.last.bank != bank {
		d.last = cell{x: x, bank: bank, valid: true}
	}
	d.last.bits |= 1 << uint(y&7)
	d.positionCursor(eh, x, bank)
	eh.data(d.last.bits)
}
