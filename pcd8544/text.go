// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"fmt"
)

// Text geometry. A glyph is 5 columns wide plus one blank column on each
// side, which gives 12 characters on each of the 6 text lines.
const (
	glyphWidth = 5
	CharWidth  = glyphWidth + 2
	Columns    = Width / CharWidth
)

// MoveTo moves the text cursor to a pixel column and a bank (text line).
func (d *Dev) MoveTo(column, bank int) error {
	if column < 0 || column >= Width || bank < 0 || bank >= Banks {
		return fmt.Errorf("pcd8544: invalid position (%d, %d)", column, bank)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.positionCursor(eh, column, bank)
	return d.end(eh)
}

// Print writes s at the text cursor using the built-in 5x7 font.
//
// Characters outside of printable ASCII are shown as '?'. Text wraps to the
// next line at the right edge, and back to the top after the last line.
func (d *Dev) Print(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	buf := make([]byte, 0, CharWidth)
	for _, r := range s {
		g := glyph(r)
		buf = append(buf[:0], 0)
		buf = append(buf, g[:]...)
		buf = append(buf, 0)
		eh.data(buf...)
	}
	// The glyphs overwrote whatever the cache describes.
	d.last = cell{}
	return d.end(eh)
}

func glyph(r rune) *[glyphWidth]byte {
	if r < firstGlyph || int(r-firstGlyph) >= len(font) {
		r = '?'
	}
	return &font[r-firstGlyph]
}
