// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package keithley drives a Keithley Model 2400 SourceMeter over SCPI for a
// battery discharge run: fixed voltage source below the cell voltage, so the
// instrument sinks current from the cell up to the compliance limit.
package keithley

import (
	"strconv"
	"strings"

	"github.com/gotmc/query"
	"github.com/pkg/errors"

	"github.com/benchkit/discharge"
)

// Transport is the command/query plumbing the driver needs. It is satisfied
// by *gpib.Controller.
type Transport interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
}

// SMU is a Model 2400 behind a SCPI transport. It implements
// discharge.Instrument.
type SMU struct {
	t Transport
}

// New returns a Model 2400 driver on the given transport.
func New(t Transport) *SMU { return &SMU{t: t} }

// Identify returns the instrument identification string.
func (s *SMU) Identify() (string, error) {
	idn, err := query.String(s.t, "*IDN?")
	if err != nil {
		return "", errors.Wrap(err, "identification query failed")
	}
	return strings.TrimSpace(idn), nil
}

// Configure resets the 2400 and puts it in fixed voltage source mode with
// the run's source level and compliance limit. The output stays off until
// SetOutput.
func (s *SMU) Configure(cfg discharge.Config) error {
	cmds := []string{
		"*RST",               // known state, output off
		"SOUR:FUNC VOLT",     // source voltage, sink the cell's current
		"SOUR:VOLT:MODE FIX", // fixed source level
		`SENS:FUNC "CURR:DC"`,
		"SENS:CURR:DC:RANG:AUTO ON",
		"FORM:ELEM VOLT,CURR", // READ? returns voltage,current
	}
	for _, cmd := range cmds {
		if err := s.t.Command(cmd); err != nil {
			return errors.Wrapf(err, "sending %q", cmd)
		}
	}
	if err := s.t.Command("SOUR:VOLT %G", cfg.SourceVoltage); err != nil {
		return errors.Wrap(err, "setting source voltage")
	}
	if err := s.t.Command("SENS:CURR:PROT %G", cfg.CurrentLimit); err != nil {
		return errors.Wrap(err, "setting compliance limit")
	}
	return nil
}

// Measure triggers one reading and returns the measured voltage and
// current.
func (s *SMU) Measure() (float64, float64, error) {
	resp, err := s.t.Query(":READ?")
	if err != nil {
		return 0, 0, errors.Wrap(err, "READ? failed")
	}
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) < 2 {
		return 0, 0, errors.Errorf("short READ? response %q", resp)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "bad voltage in READ? response %q", resp)
	}
	i, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "bad current in READ? response %q", resp)
	}
	return v, i, nil
}

// SetOutput enables or disables the instrument output.
func (s *SMU) SetOutput(on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	return errors.Wrapf(s.t.Command("OUTP %s", state), "setting output %s", state)
}

// OutputEnabled reports whether the instrument output is on.
func (s *SMU) OutputEnabled() (bool, error) {
	return query.Bool(s.t, "OUTP?")
}
