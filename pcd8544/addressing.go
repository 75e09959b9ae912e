// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

// positionCursor moves the controller write cursor to a bank column.
//
// Each data byte advances the column; the cursor wraps to the next bank
// after the last column. Only clear and whole-bank transfers rely on that.
func (d *Dev) positionCursor(eh *errorHandler, column, bank int) {
	eh.command(_SETCOLUMN|byte(column), _SETBANK|byte(bank))
}

// inBounds reports whether (x, y) is a pixel of the display.
func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
