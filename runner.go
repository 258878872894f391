// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package discharge runs a battery discharge test against a source measure
// unit: it repeatedly triggers a measurement, records a timestamped sample,
// and stops once the measured voltage falls to the configured cutoff or the
// operator cancels.
package discharge

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// State names a position in the run's lifecycle. A run moves
// Idle → Sourcing → Measuring, loops in Measuring, and ends in Cutoff
// (voltage reached the threshold) or Stopped (operator cancelled). A run
// aborted by an error keeps the state it failed in.
type State int

const (
	Idle State = iota
	Sourcing
	Measuring
	Cutoff
	Stopped
)

var stateDesc = map[State]string{
	Idle:      "idle",
	Sourcing:  "sourcing",
	Measuring: "measuring",
	Cutoff:    "cutoff reached",
	Stopped:   "stopped",
}

func (s State) String() string { return stateDesc[s] }

// Result summarizes a finished run.
type Result struct {
	State   State
	Samples []Sample      // in acquisition order, one per record written
	Elapsed time.Duration // first trigger to loop exit
}

// Run drives a full discharge: it configures the instrument, enables its
// output, and samples until the measured voltage reaches the cutoff or ctx
// is cancelled. Cancellation is observed at the top of each iteration and
// during the pacing sleep; a zero interval paces not at all. Whatever the
// exit path, the instrument output is forced off before Run returns, and
// any error from that shutdown is appended to the returned error.
//
// Every sample in the returned Result was written to w before the loop
// advanced, so on a measurement fault at trigger k exactly k-1 samples
// exist downstream.
func Run(ctx context.Context, cfg Config, inst Instrument, w SampleWriter) (Result, error) {
	res := Result{State: Idle}
	if err := cfg.Validate(); err != nil {
		return res, err
	}

	if err := inst.Configure(cfg); err != nil {
		return res, &InstrumentError{Op: "configure", Err: err}
	}
	if err := inst.SetOutput(true); err != nil {
		return res, &InstrumentError{Op: "output on", Err: err}
	}
	res.State = Sourcing

	start := time.Now()
	var runErr error

loop:
	for {
		select {
		case <-ctx.Done():
			res.State = Stopped
			break loop
		default:
		}

		res.State = Measuring
		v, i, err := inst.Measure()
		if err != nil {
			runErr = &InstrumentError{Op: "measure", Err: err}
			break loop
		}
		s := Sample{Elapsed: time.Since(start), Voltage: v, Current: i}
		if err := w.Write(s); err != nil {
			runErr = err
			break loop
		}
		res.Samples = append(res.Samples, s)

		if v <= cfg.CutoffVoltage {
			res.State = Cutoff
			break loop
		}

		if cfg.Interval > 0 {
			select {
			case <-ctx.Done():
				res.State = Stopped
				break loop
			case <-time.After(cfg.Interval):
			}
		}
	}
	res.Elapsed = time.Since(start)

	// The cell must never be left loaded once the loop exits.
	if err := inst.SetOutput(false); err != nil {
		runErr = multierr.Append(runErr, &InstrumentError{Op: "output off", Err: err})
	}
	return res, runErr
}
