// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcd8544 controls a 84x48 monochrome LCD via a PCD8544 controller,
// the part found in Nokia 5110 and 3310 displays.
//
// The driver keeps no frame buffer. The display memory lives in the
// controller and is addressed as 6 horizontal banks of 84 one-byte columns;
// each byte covers 8 vertically stacked pixels, bit 0 being the topmost row
// of the bank. Drawing primitives (SetPixel, Line, Rect, FillRect) are
// translated directly into cursor positioning commands and data bytes.
//
// Since the controller memory cannot be read back, SetPixel only merges bits
// that are written consecutively into the same bank column. Writing a pixel
// into a cell after another cell was touched overwrites the other 7 pixels of
// that cell. Line, Rect and FillRect are ordered so that their own pixels
// never clobber each other.
//
// Coordinates outside of the display are silently dropped. This keeps the
// rasterization loops free of bound checks at the call sites.
//
// The controller can be driven over a 4-wire SPI port, where SCE is the chip
// select of the port, or by bit-banging 4 GPIO pins.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/Monochrome/Nokia5110.pdf
package pcd8544
