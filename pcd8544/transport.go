// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Mode selects how the controller interprets a byte. It is the level of the
// D/C line while the byte is shifted in.
type Mode bool

const (
	// Command bytes program the controller.
	Command Mode = false
	// Data bytes are written to display memory at the cursor, which then
	// advances.
	Data Mode = true
)

func (m Mode) String() string {
	if m == Data {
		return "Data"
	}
	return "Command"
}

// Transport moves one byte into the controller.
//
// It is implemented by the SPI and GPIO transports of this package, and by
// the lcdsim emulator.
type Transport interface {
	SendByte(m Mode, b byte) error
}

// bulkSender is implemented by transports that can send a run of bytes in
// the same mode in a single transaction.
type bulkSender interface {
	SendBytes(m Mode, p []byte) error
}

// spiTransport is a 4-wire SPI connection. SCE is handled by the port's chip
// select.
type spiTransport struct {
	c  conn.Conn
	dc gpio.PinOut
}

func (s *spiTransport) String() string {
	return fmt.Sprintf("%s, %s", s.c, s.dc)
}

func (s *spiTransport) SendByte(m Mode, b byte) error {
	return s.SendBytes(m, []byte{b})
}

func (s *spiTransport) SendBytes(m Mode, p []byte) error {
	if err := s.dc.Out(gpio.Level(m)); err != nil {
		return err
	}
	return s.c.Tx(p, nil)
}

// Pins is the set of GPIO lines used when the controller is bit-banged.
type Pins struct {
	SCE  gpio.PinOut // Chip enable, active low.
	DC   gpio.PinOut // Low for command, high for data.
	DIN  gpio.PinOut // Serial data in.
	SCLK gpio.PinOut // Serial clock; data is sampled on the rising edge.
}

// gpioTransport shifts bytes out MSB first, asserting SCE around each byte.
type gpioTransport struct {
	pins Pins
}

func (g *gpioTransport) String() string {
	return fmt.Sprintf("%s, %s, %s, %s", g.pins.SCE, g.pins.DC, g.pins.DIN, g.pins.SCLK)
}

func (g *gpioTransport) SendByte(m Mode, b byte) error {
	var ph pinHandler
	ph.out(g.pins.DC, gpio.Level(m))
	ph.out(g.pins.SCE, gpio.Low)
	for i := 7; i >= 0; i-- {
		ph.out(g.pins.DIN, b&(1<<uint(i)) != 0)
		ph.out(g.pins.SCLK, gpio.High)
		ph.out(g.pins.SCLK, gpio.Low)
	}
	ph.out(g.pins.SCE, gpio.High)
	return ph.err
}

// idle puts the bus in its inactive state.
func (g *gpioTransport) idle() error {
	var ph pinHandler
	ph.out(g.pins.SCE, gpio.High)
	ph.out(g.pins.SCLK, gpio.Low)
	return ph.err
}
