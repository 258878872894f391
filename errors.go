// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge

import "fmt"

// ConfigError reports an invalid or missing run parameter. A run with a
// ConfigError never starts.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bad parameter %s: %s", e.Param, e.Reason)
}

// InstrumentError reports a communication or range fault during instrument
// setup or measurement. It is fatal to the run; there is no automatic retry.
type InstrumentError struct {
	Op  string
	Err error
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("instrument %s: %s", e.Op, e.Err)
}

func (e *InstrumentError) Unwrap() error { return e.Err }

// IOError reports a fault writing the output file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("output %s: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
