// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package vcp opens the USB Virtual COM Port of a Prologix GPIB-USB
// controller.
package vcp

import (
	"time"

	"go.bug.st/serial"
)

// Port is the serial connection to the Prologix adapter.
type Port struct {
	p serial.Port
}

// New opens the serial device at the given baud rate with 8N1 framing and
// the given read timeout.
func New(device string, baud int, readTimeout time.Duration) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, err
	}
	return &Port{p: p}, nil
}

func (v *Port) Read(b []byte) (int, error)  { return v.p.Read(b) }
func (v *Port) Write(b []byte) (int, error) { return v.p.Write(b) }

// Flush discards unread input so a stale reply cannot leak into the next
// query.
func (v *Port) Flush() error { return v.p.ResetInputBuffer() }

// Close closes the serial device.
func (v *Port) Close() error { return v.p.Close() }
