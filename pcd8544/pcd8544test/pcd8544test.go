// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcd8544test is meant to be used to test drivers using a PCD8544
// transport.
package pcd8544test

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

// Op is one byte sent to the controller.
type Op struct {
	Mode pcd8544.Mode
	B    byte
}

func (o Op) String() string {
	return fmt.Sprintf("%s(0x%02X)", o.Mode, o.B)
}

// Cmd is a shorthand to build the expected command operations.
func Cmd(b ...byte) []Op {
	return ops(pcd8544.Command, b)
}

// Data is a shorthand to build the expected data operations.
func Data(b ...byte) []Op {
	return ops(pcd8544.Data, b)
}

func ops(m pcd8544.Mode, b []byte) []Op {
	out := make([]Op, len(b))
	for i, v := range b {
		out[i] = Op{Mode: m, B: v}
	}
	return out
}

// Record implements pcd8544.Transport and records everything written to it.
type Record struct {
	sync.Mutex
	Ops []Op
	// Err, if set, is returned by SendByte once FailAfter operations were
	// recorded.
	Err       error
	FailAfter int
}

func (r *Record) String() string {
	return "record"
}

// SendByte implements pcd8544.Transport.
func (r *Record) SendByte(m pcd8544.Mode, b byte) error {
	r.Lock()
	defer r.Unlock()
	if r.Err != nil && len(r.Ops) >= r.FailAfter {
		return r.Err
	}
	r.Ops = append(r.Ops, Op{Mode: m, B: b})
	return nil
}

// Reset forgets the recorded operations.
func (r *Record) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
}

var _ pcd8544.Transport = &Record{}
