// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge

import (
	"encoding/csv"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// csvHeader names the sample fields, in write order.
var csvHeader = []string{"elapsed_s", "voltage_v", "current_a"}

// CSVWriter appends samples to a CSV file as they are acquired. The header
// is written when the file is opened, and each record is flushed as soon as
// it is written, so an abort mid-run loses no completed samples. Records are
// never rewritten or reordered.
type CSVWriter struct {
	path string
	f    *os.File
	cw   *csv.Writer
}

// NewCSVWriter creates (or truncates) the file at path and writes the
// header. An unwritable path is reported as an IOError before any sample
// is taken.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	w := &CSVWriter{path: path, f: f, cw: csv.NewWriter(f)}
	if err := w.flushRecord(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Write appends one sample as a CSV record.
func (w *CSVWriter) Write(s Sample) error {
	return w.flushRecord([]string{
		strconv.FormatFloat(s.Elapsed.Seconds(), 'f', 3, 64),
		strconv.FormatFloat(s.Voltage, 'g', -1, 64),
		strconv.FormatFloat(s.Current, 'g', -1, 64),
	})
}

func (w *CSVWriter) flushRecord(rec []string) error {
	if err := w.cw.Write(rec); err != nil {
		return &IOError{Path: w.path, Err: err}
	}
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return &IOError{Path: w.path, Err: err}
	}
	return nil
}

// Close flushes buffered records and closes the file. It is called on every
// exit path, including cancellation and instrument faults.
func (w *CSVWriter) Close() error {
	w.cw.Flush()
	err := multierr.Append(w.cw.Error(), w.f.Close())
	if err != nil {
		return &IOError{Path: w.path, Err: err}
	}
	return nil
}
