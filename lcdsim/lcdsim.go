// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim emulates a PCD8544 LCD controller and shows its panel on the
// terminal (stdout) using ANSI color codes.
//
// Dev is also an http.Handler streaming the panel to web browsers as MJPEG,
// which helps when the program runs on a headless board.
//
// Useful while you are waiting for your Nokia 5110 breakout to come by mail,
// and to verify what a drawing sequence actually leaves in display memory.
package lcdsim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

// DisplayMode is the display control setting of the basic instruction set.
type DisplayMode byte

// Display modes.
const (
	Blank   DisplayMode = 0x08
	AllOn   DisplayMode = 0x09
	Normal  DisplayMode = 0x0C
	Inverse DisplayMode = 0x0D
)

// State is the controller register state.
type State struct {
	PowerDown bool
	Vertical  bool // Vertical addressing: the cursor moves down first.
	Extended  bool // The extended instruction set is selected.
	Display   DisplayMode
	Vop       byte
	Bias      byte
	TempCoeff byte
	// Cursor position.
	X, Y int
}

// Opts represents the options available for the emulator.
type Opts struct {
	// W receives the rendered panel. Defaults to stdout.
	W io.Writer
	// Palette used to render pixels. Defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Ink and Background are the colors of a dark and a clear pixel. They
	// default to the usual grey-green panel.
	Ink, Background color.Color
	// Scale is the size in image pixels of a panel pixel served over HTTP.
	// Defaults to 4.
	Scale int
	// Format is the encoding served to HTTP clients that do not ask for one.
	Format Format

	_ struct{}
}

// Dev is a PCD8544 controller emulator. It implements pcd8544.Transport.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	ink     color.NRGBA
	bg      color.NRGBA
	scale   int
	format  Format

	mu      sync.Mutex
	state   State
	ram     [pcd8544.Banks * pcd8544.Width]byte
	buf     bytes.Buffer
	clients map[*client]struct{}
	frames  map[Format][]byte
}

// New returns an emulated controller in its power-on reset state: powered
// down, blank, horizontal addressing, memory undefined (zero here).
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.W,
		palette: *p,
		ink:     color.NRGBA{0x1E, 0x24, 0x1E, 0xFF},
		bg:      color.NRGBA{0x9B, 0xAC, 0x8F, 0xFF},
		scale:   opts.Scale,
		format:  opts.Format,
		state:   State{PowerDown: true, Display: Blank},
		clients: map[*client]struct{}{},
		frames:  map[Format][]byte{},
	}
	if d.scale <= 0 {
		d.scale = 4
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if opts.Ink != nil {
		d.ink = color.NRGBAModel.Convert(opts.Ink).(color.NRGBA)
	}
	if opts.Background != nil {
		d.bg = color.NRGBAModel.Convert(opts.Background).(color.NRGBA)
	}
	return d
}

func (d *Dev) String() string {
	return "lcdsim"
}

// Halt implements conn.Resource.
//
// It ends the HTTP streams and resets the terminal colors so it is not
// corrupted.
func (d *Dev) Halt() error {
	d.mu.Lock()
	d.terminateClientsLocked()
	d.mu.Unlock()
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// SendByte implements pcd8544.Transport.
func (d *Dev) SendByte(m pcd8544.Mode, b byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m == pcd8544.Data {
		d.writeData(b)
		return nil
	}
	d.command(b)
	return nil
}

// State returns a copy of the controller registers.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// RAM returns a copy of the display memory, in bank order.
func (d *Dev) RAM() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.ram))
	copy(out, d.ram[:])
	return out
}

// Pixel reports whether the memory bit for (x, y) is set, regardless of the
// display mode.
func (d *Dev) Pixel(x, y int) bool {
	if x < 0 || x >= pcd8544.Width || y < 0 || y >= pcd8544.Height {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bit(x, y)
}

// ColorModel implements image.Image.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, pcd8544.Width, pcd8544.Height)
}

// At implements image.Image. It returns what the panel shows: image1bit.On
// is a dark pixel.
func (d *Dev) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(d.Bounds())) {
		return image1bit.Off
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return image1bit.Bit(d.visible(x, y))
}

// Refresh renders the panel on the terminal and pushes a new frame to HTTP
// clients.
func (d *Dev) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishLocked()
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for y := 0; y < pcd8544.Height; y++ {
		for x := 0; x < pcd8544.Width; x++ {
			c := d.bg
			if d.visible(x, y) {
				c = d.ink
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) bit(x, y int) bool {
	return d.ram[y/8*pcd8544.Width+x]&(1<<uint(y&7)) != 0
}

func (d *Dev) visible(x, y int) bool {
	if d.state.PowerDown {
		return false
	}
	switch d.state.Display {
	case AllOn:
		return true
	case Normal:
		return d.bit(x, y)
	case Inverse:
		return !d.bit(x, y)
	default:
		return false
	}
}

// command decodes one instruction. Unknown and out of range instructions are
// ignored like the chip does.
func (d *Dev) command(b byte) {
	s := &d.state
	if b&0xF8 == 0x20 {
		// Function set is common to both instruction sets.
		s.PowerDown = b&0x04 != 0
		s.Vertical = b&0x02 != 0
		s.Extended = b&0x01 != 0
		return
	}
	if s.Extended {
		switch {
		case b&0x80 != 0:
			s.Vop = b & 0x7F
		case b&0xF8 == 0x10:
			s.Bias = b & 0x07
		case b&0xFC == 0x04:
			s.TempCoeff = b & 0x03
		}
		return
	}
	switch {
	case b&0x80 != 0:
		if x := int(b & 0x7F); x < pcd8544.Width {
			s.X = x
		}
	case b&0xF8 == 0x40:
		if y := int(b & 0x07); y < pcd8544.Banks {
			s.Y = y
		}
	case b&0xFA == 0x08:
		s.Display = DisplayMode(b)
	}
}

func (d *Dev) writeData(b byte) {
	s := &d.state
	d.ram[s.Y*pcd8544.Width+s.X] = b
	if s.Vertical {
		if s.Y++; s.Y == pcd8544.Banks {
			s.Y = 0
			if s.X++; s.X == pcd8544.Width {
				s.X = 0
			}
		}
		return
	}
	if s.X++; s.X == pcd8544.Width {
		s.X = 0
		if s.Y++; s.Y == pcd8544.Banks {
			s.Y = 0
		}
	}
}

var _ pcd8544.Transport = &Dev{}
var _ image.Image = &Dev{}
var _ fmt.Stringer = &Dev{}
