// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package discharge_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benchkit/discharge"
)

// constantDischarge builds n samples at 1 A with a linear voltage ramp from
// v0 down to v1 over the given duration.
func constantDischarge(n int, v0, v1 float64, d time.Duration) []discharge.Sample {
	samples := make([]discharge.Sample, n)
	for k := range samples {
		frac := float64(k) / float64(n-1)
		samples[k] = discharge.Sample{
			Elapsed: time.Duration(frac * float64(d)),
			Voltage: v0 + frac*(v1-v0),
			Current: -1.0,
		}
	}
	return samples
}

func TestBuildModel(t *testing.T) {
	// 1 A for one hour is 1 Ah
	samples := constantDischarge(11, 4.2, 3.0, time.Hour)
	m, err := discharge.BuildModel(samples)
	if err != nil {
		t.Fatalf("BuildModel: %s", err)
	}
	if math.Abs(m.CapacityAh-1.0) > 1e-9 {
		t.Errorf("capacity = %g Ah, want 1", m.CapacityAh)
	}
	if len(m.Points) != 11 {
		t.Fatalf("got %d model points, want 11", len(m.Points))
	}
	first, last := m.Points[0], m.Points[len(m.Points)-1]
	if first.SOC != 100 || first.Voltage != 4.2 {
		t.Errorf("first point = %+v, want SOC 100 at 4.2 V", first)
	}
	if math.Abs(last.SOC) > 1e-9 || last.Voltage != 3.0 {
		t.Errorf("last point = %+v, want SOC 0 at 3 V", last)
	}
	for k := 1; k < len(m.Points); k++ {
		if m.Points[k].SOC > m.Points[k-1].SOC {
			t.Errorf("SOC increased at point %d", k)
		}
	}
}

func TestBuildModelTooFewSamples(t *testing.T) {
	if _, err := discharge.BuildModel(nil); err == nil {
		t.Error("no error for empty run")
	}
	one := []discharge.Sample{{Voltage: 4.2, Current: -1}}
	if _, err := discharge.BuildModel(one); err == nil {
		t.Error("no error for single sample")
	}
}

func TestBuildModelNoCharge(t *testing.T) {
	samples := []discharge.Sample{
		{Elapsed: 0, Voltage: 4.2, Current: 0},
		{Elapsed: time.Hour, Voltage: 4.2, Current: 0},
	}
	if _, err := discharge.BuildModel(samples); err == nil {
		t.Error("no error for zero discharged charge")
	}
}

func TestModelWriteCSV(t *testing.T) {
	m, err := discharge.BuildModel(constantDischarge(5, 4.2, 3.0, time.Hour))
	if err != nil {
		t.Fatalf("BuildModel: %s", err)
	}
	path := filepath.Join(t.TempDir(), "model.csv")
	if err := m.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %s", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// capacity row, header row, one row per point
	if want := 2 + len(m.Points); len(lines) != want {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), want, b)
	}
	if !strings.HasPrefix(lines[0], "capacity_ah,") {
		t.Errorf("first line = %q, want capacity row", lines[0])
	}
	if lines[1] != "soc_pct,voltage_v" {
		t.Errorf("second line = %q, want header", lines[1])
	}
}
