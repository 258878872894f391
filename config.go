// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge

import (
	"time"
)

// Config holds the parameters for a single discharge run. It is collected
// once before the run starts and is never modified afterwards.
type Config struct {
	SourceVoltage float64       // voltage the SMU sources while the cell discharges into it (V)
	CurrentLimit  float64       // compliance limit while sourcing (A)
	CutoffVoltage float64       // measured voltage at or below which the run ends (V)
	Interval      time.Duration // pacing between samples; zero means a tight loop
	OutputPath    string        // destination for the sample records
}

// Validate performs range sanity checks on the collected parameters. It does
// not second-guess values that are merely unusual, such as a cutoff above the
// source voltage, which simply ends the run after the first sample.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return &ConfigError{Param: "interval", Reason: "must not be negative"}
	}
	if c.CurrentLimit <= 0 {
		return &ConfigError{Param: "current limit", Reason: "must be greater than zero"}
	}
	if c.CutoffVoltage < 0 {
		return &ConfigError{Param: "cutoff voltage", Reason: "must not be negative"}
	}
	if c.SourceVoltage < 0 {
		return &ConfigError{Param: "source voltage", Reason: "must not be negative"}
	}
	if c.OutputPath == "" {
		return &ConfigError{Param: "output path", Reason: "must not be empty"}
	}
	return nil
}
