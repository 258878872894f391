// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package keithley

import (
	"errors"
	"fmt"
	"testing"

	"github.com/benchkit/discharge"
)

// fakeTransport records commands and serves scripted query responses.
type fakeTransport struct {
	cmds    []string
	replies map[string]string
	errOn   string // command or query that fails
}

func (f *fakeTransport) Command(format string, a ...any) error {
	cmd := format
	if len(a) > 0 {
		cmd = fmt.Sprintf(format, a...)
	}
	if cmd == f.errOn {
		return errors.New("transport fault")
	}
	f.cmds = append(f.cmds, cmd)
	return nil
}

func (f *fakeTransport) Query(cmd string) (string, error) {
	if cmd == f.errOn {
		return "", errors.New("transport fault")
	}
	return f.replies[cmd], nil
}

func testConfig() discharge.Config {
	return discharge.Config{
		SourceVoltage: 3.0,
		CurrentLimit:  0.5,
		CutoffVoltage: 2.8,
		OutputPath:    "run.csv",
	}
}

func TestConfigure(t *testing.T) {
	f := &fakeTransport{}
	if err := New(f).Configure(testConfig()); err != nil {
		t.Fatalf("Configure: %s", err)
	}
	want := []string{
		"*RST",
		"SOUR:FUNC VOLT",
		"SOUR:VOLT:MODE FIX",
		`SENS:FUNC "CURR:DC"`,
		"SENS:CURR:DC:RANG:AUTO ON",
		"FORM:ELEM VOLT,CURR",
		"SOUR:VOLT 3",
		"SENS:CURR:PROT 0.5",
	}
	if len(f.cmds) != len(want) {
		t.Fatalf("sent %d commands, want %d: %q", len(f.cmds), len(want), f.cmds)
	}
	for k, cmd := range f.cmds {
		if cmd != want[k] {
			t.Errorf("command %d = %q, want %q", k, cmd, want[k])
		}
	}
}

func TestConfigureFault(t *testing.T) {
	f := &fakeTransport{errOn: "SOUR:FUNC VOLT"}
	if err := New(f).Configure(testConfig()); err == nil {
		t.Error("no error for transport fault during setup")
	}
}

func TestMeasure(t *testing.T) {
	f := &fakeTransport{replies: map[string]string{
		":READ?": "9.000000E+00,-5.000000E-01\n",
	}}
	v, i, err := New(f).Measure()
	if err != nil {
		t.Fatalf("Measure: %s", err)
	}
	if v != 9.0 {
		t.Errorf("voltage = %g, want 9", v)
	}
	if i != -0.5 {
		t.Errorf("current = %g, want -0.5", i)
	}
}

func TestMeasureBadResponse(t *testing.T) {
	cases := []struct {
		name, resp string
	}{
		{"empty", ""},
		{"single field", "9.0"},
		{"garbage voltage", "volts,-0.5"},
		{"garbage current", "9.0,amps"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeTransport{replies: map[string]string{":READ?": tc.resp}}
			if _, _, err := New(f).Measure(); err == nil {
				t.Errorf("no error for response %q", tc.resp)
			}
		})
	}
}

func TestMeasureFault(t *testing.T) {
	f := &fakeTransport{errOn: ":READ?"}
	if _, _, err := New(f).Measure(); err == nil {
		t.Error("no error for transport fault")
	}
}

func TestSetOutput(t *testing.T) {
	f := &fakeTransport{}
	s := New(f)
	if err := s.SetOutput(true); err != nil {
		t.Fatalf("SetOutput: %s", err)
	}
	if err := s.SetOutput(false); err != nil {
		t.Fatalf("SetOutput: %s", err)
	}
	want := []string{"OUTP ON", "OUTP OFF"}
	if len(f.cmds) != 2 || f.cmds[0] != want[0] || f.cmds[1] != want[1] {
		t.Errorf("sent %q, want %q", f.cmds, want)
	}
}

func TestOutputEnabled(t *testing.T) {
	f := &fakeTransport{replies: map[string]string{"OUTP?": "1"}}
	on, err := New(f).OutputEnabled()
	if err != nil {
		t.Fatalf("OutputEnabled: %s", err)
	}
	if !on {
		t.Error("output reported off, want on")
	}
}

func TestIdentify(t *testing.T) {
	f := &fakeTransport{replies: map[string]string{
		"*IDN?": "KEITHLEY INSTRUMENTS INC.,MODEL 2400,1234567,C30\n",
	}}
	idn, err := New(f).Identify()
	if err != nil {
		t.Fatalf("Identify: %s", err)
	}
	if idn != "KEITHLEY INSTRUMENTS INC.,MODEL 2400,1234567,C30" {
		t.Errorf("idn = %q", idn)
	}
}
