// Package termio collects run parameters from the operator, one styled
// prompt per field, each with a default accepted by an empty line.
package termio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/benchkit/discharge"
)

var (
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// Prompter reads test parameters interactively. It implements the "supply a
// test configuration" seam: tests construct one over a strings.Reader
// instead of a terminal.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter reading answers from r and printing prompts to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

func (p *Prompter) ask(label, def string) (string, error) {
	fmt.Fprintf(p.w, "%s [%s]: ", LabelStyle.Render(label), ValueStyle.Render(def))
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", &discharge.ConfigError{Param: label, Reason: "no input"}
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Float64 prompts for a number. The answer is taken as given; a value that
// does not parse is a configuration error, not a reprompt.
func (p *Prompter) Float64(label string, def float64) (float64, error) {
	s, err := p.ask(label, strconv.FormatFloat(def, 'g', -1, 64))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &discharge.ConfigError{Param: label, Reason: fmt.Sprintf("not a number: %q", s)}
	}
	return v, nil
}

// Duration prompts for a duration in time.ParseDuration syntax, e.g. "2s"
// or "500ms".
func (p *Prompter) Duration(label string, def time.Duration) (time.Duration, error) {
	s, err := p.ask(label, def.String())
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &discharge.ConfigError{Param: label, Reason: fmt.Sprintf("not a duration: %q", s)}
	}
	return d, nil
}

// String prompts for a free-form value.
func (p *Prompter) String(label, def string) (string, error) {
	return p.ask(label, def)
}

// TestConfig collects the full run configuration from the operator.
func (p *Prompter) TestConfig() (discharge.Config, error) {
	var cfg discharge.Config
	var err error
	if cfg.SourceVoltage, err = p.Float64("Discharge source voltage (V)", 3.0); err != nil {
		return cfg, err
	}
	if cfg.CurrentLimit, err = p.Float64("Current compliance limit (A)", 0.5); err != nil {
		return cfg, err
	}
	if cfg.CutoffVoltage, err = p.Float64("Cutoff voltage (V)", 2.8); err != nil {
		return cfg, err
	}
	if cfg.Interval, err = p.Duration("Sample interval", time.Second); err != nil {
		return cfg, err
	}
	if cfg.OutputPath, err = p.String("Output file", "discharge.csv"); err != nil {
		return cfg, err
	}
	return cfg, nil
}
