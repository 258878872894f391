// Package sim provides a scripted stand-in for the bench hardware so the
// discharge loop can run without an instrument attached.
package sim

import (
	"fmt"

	"github.com/benchkit/discharge"
)

// Instrument replays a scripted voltage sequence, one value per trigger. It
// implements discharge.Instrument.
type Instrument struct {
	Voltages []float64 // successive voltage readings; the last value repeats
	Current  float64   // reported for every sample

	// FailAt makes the trigger with this 1-based index fail with a
	// scripted fault. Zero disables.
	FailAt int

	triggers   int
	output     bool
	configured bool
}

// Configure records that setup ran. It never fails.
func (s *Instrument) Configure(cfg discharge.Config) error {
	s.configured = true
	return nil
}

// Measure returns the next scripted voltage and the fixed current.
func (s *Instrument) Measure() (float64, float64, error) {
	s.triggers++
	if s.FailAt > 0 && s.triggers >= s.FailAt {
		return 0, 0, fmt.Errorf("scripted fault at trigger %d", s.triggers)
	}
	if len(s.Voltages) == 0 {
		return 0, 0, fmt.Errorf("no scripted voltages")
	}
	i := s.triggers - 1
	if i >= len(s.Voltages) {
		i = len(s.Voltages) - 1
	}
	return s.Voltages[i], s.Current, nil
}

// SetOutput records the requested output state.
func (s *Instrument) SetOutput(on bool) error {
	s.output = on
	return nil
}

// Output reports whether the scripted output is currently enabled.
func (s *Instrument) Output() bool { return s.output }

// Configured reports whether Configure has run.
func (s *Instrument) Configured() bool { return s.configured }

// Triggers reports how many measurements were attempted.
func (s *Instrument) Triggers() int { return s.triggers }
