// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// modelPoints is the length of the state-of-charge table, covering 100%
// down to 0% in even steps.
const modelPoints = 11

// Model is a battery model derived from a completed run, in the shape a
// battery simulator imports: the capacity discharged during the run plus a
// table of voltage over state of charge.
type Model struct {
	CapacityAh float64
	Points     []ModelPoint
}

// ModelPoint pairs a state of charge with the terminal voltage measured
// when the run had discharged to it.
type ModelPoint struct {
	SOC     float64 // percent, 100 at the first sample
	Voltage float64 // V
}

// BuildModel derives a Model from the samples of a completed run. Capacity
// is the trapezoidal integral of |current| over elapsed time; the table is
// sampled at even capacity steps. At least two samples and a nonzero
// integrated charge are required.
func BuildModel(samples []Sample) (Model, error) {
	if len(samples) < 2 {
		return Model{}, fmt.Errorf("battery model needs at least 2 samples, have %d", len(samples))
	}

	// cumulative discharged charge at each sample, in Ah
	cum := make([]float64, len(samples))
	for k := 1; k < len(samples); k++ {
		dt := (samples[k].Elapsed - samples[k-1].Elapsed).Hours()
		mean := (math.Abs(samples[k].Current) + math.Abs(samples[k-1].Current)) / 2
		cum[k] = cum[k-1] + dt*mean
	}
	total := cum[len(cum)-1]
	if total <= 0 {
		return Model{}, fmt.Errorf("battery model needs nonzero discharged charge")
	}

	m := Model{CapacityAh: total}
	k := 0
	for p := 0; p < modelPoints; p++ {
		want := total * float64(p) / float64(modelPoints-1)
		for k < len(cum)-1 && cum[k] < want {
			k++
		}
		m.Points = append(m.Points, ModelPoint{
			SOC:     100 * (1 - cum[k]/total),
			Voltage: samples[k].Voltage,
		})
	}
	return m, nil
}

// WriteCSV writes the model table to path, capacity first.
func (m Model) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	cw := csv.NewWriter(f)
	records := [][]string{
		{"capacity_ah", strconv.FormatFloat(m.CapacityAh, 'g', -1, 64)},
		{"soc_pct", "voltage_v"},
	}
	for _, p := range m.Points {
		records = append(records, []string{
			strconv.FormatFloat(p.SOC, 'f', 1, 64),
			strconv.FormatFloat(p.Voltage, 'g', -1, 64),
		})
	}
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			f.Close()
			return &IOError{Path: path, Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return &IOError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
