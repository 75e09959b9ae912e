// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. Once a transfer failed,
// every following one is skipped.
type errorHandler struct {
	t   Transport
	err error
}

func (eh *errorHandler) command(c ...byte) {
	eh.send(Command, c)
}

func (eh *errorHandler) data(p ...byte) {
	eh.send(Data, p)
}

func (eh *errorHandler) send(m Mode, p []byte) {
	if eh.err != nil || len(p) == 0 {
		return
	}
	if b, ok := eh.t.(bulkSender); ok {
		eh.err = b.SendBytes(m, p)
		return
	}
	for _, v := range p {
		if eh.err = eh.t.SendByte(m, v); eh.err != nil {
			return
		}
	}
}

// pinHandler is the same for GPIO lines.
type pinHandler struct {
	err error
}

func (ph *pinHandler) out(p gpio.PinOut, l gpio.Level) {
	if ph.err != nil {
		return
	}
	ph.err = p.Out(l)
}
