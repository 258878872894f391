// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge

import "time"

// Sample is one measurement taken during a run. Samples are produced in
// acquisition order and never modified once written; elapsed times of
// successive samples never decrease.
type Sample struct {
	Elapsed time.Duration // since the first trigger of the run
	Voltage float64       // measured terminal voltage (V)
	Current float64       // measured current (A), negative when sinking
}

// Instrument is the capability the discharge loop needs from a source
// measure unit. The keithley package implements it for a Model 2400; the
// lib/sim package implements it with a scripted voltage sequence, so the
// loop is testable without hardware.
type Instrument interface {
	// Configure puts the instrument in the source mode and limits the run
	// calls for. The output stays disabled.
	Configure(cfg Config) error
	// Measure triggers one reading and returns the measured voltage and
	// current.
	Measure() (voltage, current float64, err error)
	// SetOutput enables or disables the instrument output.
	SetOutput(on bool) error
}

// SampleWriter receives samples as they are acquired.
type SampleWriter interface {
	Write(s Sample) error
}
