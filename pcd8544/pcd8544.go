// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Display geometry. It is fixed by the controller.
const (
	Width  = 84
	Height = 48
	// Banks is the number of 8 pixel high horizontal bands.
	Banks = Height / 8
)

// Instruction set. See datasheet table 1.
const (
	// Either instruction set.
	_FUNCTIONSET = 0x20
	_POWERDOWN   = 0x04 // Function set flag.
	_VERTICAL    = 0x02 // Function set flag; vertical addressing.
	_EXTENDED    = 0x01 // Function set flag; selects the extended set.

	// Basic instruction set (H=0).
	_DISPLAYBLANK   = 0x08
	_DISPLAYALLON   = 0x09
	_DISPLAYNORMAL  = 0x0C
	_DISPLAYINVERSE = 0x0D
	_SETBANK        = 0x40 // | bank, 0..5
	_SETCOLUMN      = 0x80 // | column, 0..83

	// Extended instruction set (H=1).
	_SETTEMPCOEFF = 0x04 // | 0..3
	_SETBIAS      = 0x10 // | 0..7
	_SETVOP       = 0x80 // | 0..127
)

var (
	// ErrInvalidContrast is returned when the operating voltage does not fit
	// in 7 bits.
	ErrInvalidContrast = errors.New("pcd8544: contrast must be between 0 and 127")
	// ErrNoBacklight is returned by SetBacklight when Opts.Backlight is nil.
	ErrNoBacklight = errors.New("pcd8544: no backlight pin")
)

// backlightFreq is the PWM frequency used to dim the backlight.
const backlightFreq = physic.KiloHertz

// DefaultOpts is the recommended default options. They match the usual
// Nokia 5110 breakout boards at 3.3V.
var DefaultOpts = Opts{
	Contrast:  0x30,
	Bias:      4,
	TempCoeff: 0,
}

// Opts defines the options for the device.
type Opts struct {
	// Contrast is the operating voltage (Vop) setting, 0 to 127. 40 to 60 is
	// usually a good range.
	Contrast byte
	// Bias is the bias system, 0 to 7. 4 is 1:48, the recommended mux rate.
	Bias byte
	// TempCoeff is the temperature coefficient, 0 to 3.
	TempCoeff byte
	// Inverse lights the pixels that are off.
	Inverse bool
	// Reset, if set, is pulsed low during initialization.
	Reset gpio.PinOut
	// Backlight, if set, is turned fully on during initialization. See
	// SetBacklight.
	Backlight gpio.PinOut
}

func (o *Opts) validate() error {
	if o.Contrast > 0x7F {
		return ErrInvalidContrast
	}
	if o.Bias > 7 {
		return fmt.Errorf("pcd8544: invalid bias %d", o.Bias)
	}
	if o.TempCoeff > 3 {
		return fmt.Errorf("pcd8544: invalid temperature coefficient %d", o.TempCoeff)
	}
	return nil
}

// NewSPI returns a Dev object that communicates over SPI to a PCD8544
// display controller.
//
// # Wiring
//
// Connect DIN to SPI_MOSI, CLK to SPI_CLK, SCE to SPI_CS. 'dc' is required,
// the controller has no 3-wire mode.
//
// The controller is clocked at up to 4MHz.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("pcd8544: dc pin is required")
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, err
	}
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return New(&spiTransport{c: c, dc: dc}, opts)
}

// NewGPIO returns a Dev object that bit-bangs the serial interface on 4
// GPIO pins.
func NewGPIO(pins *Pins, opts *Opts) (*Dev, error) {
	if pins.SCE == nil || pins.DC == nil || pins.DIN == nil || pins.SCLK == nil {
		return nil, errors.New("pcd8544: SCE, DC, DIN and SCLK pins are required")
	}
	t := &gpioTransport{pins: *pins}
	if err := t.idle(); err != nil {
		return nil, err
	}
	return New(t, opts)
}

// New returns a Dev object that talks to the controller through t.
//
// The controller is reset if opts.Reset is set, programmed and cleared.
// opts can be nil to use DefaultOpts.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	d := &Dev{t: t, opts: *opts}
	if err := d.reset(); err != nil {
		return nil, err
	}
	eh := &errorHandler{t: t}
	eh.command(initCmd(opts)...)
	d.clear(eh)
	if eh.err != nil {
		return nil, eh.err
	}
	if d.opts.Backlight != nil {
		if err := d.opts.Backlight.Out(gpio.High); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Dev is an open handle to the display controller.
//
// It is safe for concurrent use; each drawing call runs to completion before
// the next one starts.
type Dev struct {
	mu sync.Mutex
	t  Transport

	opts Opts

	// last is the write coalescing cache.
	last   cell
	halted bool
}

// cell is the accumulated content of one bank column, as last written by
// SetPixel.
type cell struct {
	x, bank int
	bits    byte
	valid   bool
}

func (d *Dev) String() string {
	return fmt.Sprintf("pcd8544.Dev{%v}", d.t)
}

// Clear turns off every pixel.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	d.clear(eh)
	return d.end(eh)
}

// SetContrast changes the operating voltage, between 0 and 127.
func (d *Dev) SetContrast(level byte) error {
	if level > 0x7F {
		return ErrInvalidContrast
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := &errorHandler{t: d.t}
	eh.command(_FUNCTIONSET|_EXTENDED, _SETVOP|level, _FUNCTIONSET)
	if eh.err == nil {
		d.opts.Contrast = level
		d.halted = false
	}
	return eh.err
}

// Invert the display (light pixels on a dark background).
func (d *Dev) Invert(inverse bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	eh := d.begin()
	eh.command(displayMode(inverse))
	if eh.err == nil {
		d.opts.Inverse = inverse
	}
	return d.end(eh)
}

// SetPower turns the controller on or puts it in power down mode. The
// display memory is retained while powered down.
func (d *Dev) SetPower(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setPower(on)
}

// Halt puts the controller in power down mode.
//
// Any drawing operation afterward powers it up again.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setPower(false)
}

// SetBacklight dims the backlight. gpio.DutyMax is fully on, 0 is off.
func (d *Dev) SetBacklight(duty gpio.Duty) error {
	bl := d.opts.Backlight
	if bl == nil {
		return ErrNoBacklight
	}
	switch {
	case duty <= 0:
		return bl.Out(gpio.Low)
	case duty >= gpio.DutyMax:
		return bl.Out(gpio.High)
	default:
		return bl.PWM(duty, backlightFreq)
	}
}

func (d *Dev) setPower(on bool) error {
	c := byte(_FUNCTIONSET)
	if !on {
		c |= _POWERDOWN
	}
	if err := d.t.SendByte(Command, c); err != nil {
		return err
	}
	d.halted = !on
	return nil
}

// reset pulses the reset line, if any. The controller needs at least 100ns
// low, which any GPIO write takes.
func (d *Dev) reset() error {
	if d.opts.Reset == nil {
		return nil
	}
	var ph pinHandler
	ph.out(d.opts.Reset, gpio.Low)
	ph.out(d.opts.Reset, gpio.High)
	return ph.err
}

// begin starts a write sequence, transparently leaving power down mode.
func (d *Dev) begin() *errorHandler {
	eh := &errorHandler{t: d.t}
	if d.halted {
		eh.command(_FUNCTIONSET)
		if eh.err == nil {
			d.halted = false
		}
	}
	return eh
}

// end finishes a write sequence. The coalescing cache cannot be trusted
// after a failed transfer.
func (d *Dev) end(eh *errorHandler) error {
	if eh.err != nil {
		d.last = cell{}
	}
	return eh.err
}

// clear relies on the cursor auto-increment to sweep the whole memory once.
func (d *Dev) clear(eh *errorHandler) {
	d.positionCursor(eh, 0, 0)
	eh.data(make([]byte, Width*Banks)...)
	d.last = cell{}
}

func initCmd(opts *Opts) []byte {
	return []byte{
		_FUNCTIONSET | _EXTENDED,       // Extended instruction set, horizontal addressing
		_SETVOP | opts.Contrast,        // Operating voltage
		_SETTEMPCOEFF | opts.TempCoeff, // Temperature coefficient
		_SETBIAS | opts.Bias,           // 4 is 1:48
		_FUNCTIONSET,                   // Back to the basic instruction set
		displayMode(opts.Inverse),      // Normal or inverse video
	}
}

func displayMode(inverse bool) byte {
	if inverse {
		return _DISPLAYINVERSE
	}
	return _DISPLAYNORMAL
}

var _ display.Drawer = &Dev{}
