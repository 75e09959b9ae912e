// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

// Line draws a line from (x1, y1) to (x2, y2), both ends included.
//
// Line(a, b) and Line(b, a) turn on the same pixels. Parts of the line
// outside of the display are clipped.
func (d *Dev) Line(x1, y1, x2, y2 int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.line(eh, x1, y1, x2, y2)
	return d.end(eh)
}

// Rect draws the outline of the rectangle with corners (left, top) and
// (right, bottom), both included.
func (d *Dev) Rect(left, top, right, bottom int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.rect(eh, left, top, right, bottom)
	return d.end(eh)
}

// FillRect fills the rectangle spanning the |x1-x0| columns starting at x0
// toward x1, rows y0 to y1 included.
//
// The column at x1 is not drawn, so FillRect(x, y0, x, y1) draws nothing.
// Existing callers depend on this; use Line for the last column if needed.
func (d *Dev) FillRect(x0, y0, x1, y1 int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.fillRect(eh, x0, y0, x1, y1)
	return d.end(eh)
}

// line is an integer error accumulator line: the driving axis, the one with
// the larger delta, advances every pixel while the other one advances when
// the accumulated error crosses the driving delta.
func (d *Dev) line(eh *errorHandler, x1, y1, x2, y2 int) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	// Always walk the driving axis upward. The rounding then does not depend
	// on which end the caller passed first.
	if (dx >= dy && x2 < x1) || (dx < dy && y2 < y1) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	sx, sy := sign(x2-x1), sign(y2-y1)
	x, y := x1, y1
	if dx >= dy {
		num := dx / 2
		for i := 0; i <= dx; i++ {
			d.setPixel(eh, x, y)
			num += dy
			if num >= dx {
				num -= dx
				y += sy
			}
			x += sx
		}
		return
	}
	num := dy / 2
	for i := 0; i <= dy; i++ {
		d.setPixel(eh, x, y)
		num += dx
		if num >= dy {
			num -= dy
			x += sx
		}
		y += sy
	}
}

// rect sweeps the outline column by column. The top and bottom edges of a
// short rectangle share bank columns; writing them as two horizontal lines
// would have the second one erase the first.
func (d *Dev) rect(eh *errorHandler, left, top, right, bottom int) {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	d.line(eh, left, top, left, bottom)
	for x := left + 1; x < right; x++ {
		d.setPixel(eh, x, top)
		d.setPixel(eh, x, bottom)
	}
	if right != left {
		d.line(eh, right, top, right, bottom)
	}
}

func (d *Dev) fillRect(eh *errorHandler, x0, y0, x1, y1 int) {
	s := sign(x1 - x0)
	for n := abs(x1 - x0); n > 0; n-- {
		d.line(eh, x0, y0, x0, y1)
		x0 += s
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
