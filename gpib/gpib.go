// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package gpib models a Prologix GPIB controller-in-charge reached over a
// serial Virtual COM Port. Instrument traffic goes through Command and
// Query; `++` commands addressed to the Prologix itself go through
// CommandController and QueryController.
package gpib

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Controller is a GPIB controller-in-charge talking to a single instrument
// at a fixed primary (and optional secondary) address.
type Controller struct {
	rw               io.ReadWriter
	r                *bufio.Reader
	primaryAddr      int
	hasSecondaryAddr bool
	secondaryAddr    int
	auto             bool
	usbTerm          byte
	eotChar          byte
	writeDelay       time.Duration
	debug            bool // if true, log traffic. Set via WithDebug().
}

// Option applies an option to the controller.
type Option func(*Controller)

// WithSecondaryAddress sets a secondary address, which must be in the range
// of 96 and 126, inclusive.
func WithSecondaryAddress(addr int) Option {
	return func(c *Controller) {
		c.hasSecondaryAddr = true
		c.secondaryAddr = addr
	}
}

// WithWriteDelay pauses for the given duration before each controller
// command. Some adapter firmware drops `++` commands that arrive back to
// back.
func WithWriteDelay(d time.Duration) Option {
	return func(c *Controller) { c.writeDelay = d }
}

// WithDebug causes commands and responses to be logged.
func WithDebug() Option { return func(c *Controller) { c.debug = true } }

// New creates a GPIB controller-in-charge for the instrument at the given
// address using the given Prologix driver, typically a Virtual COM Port
// (VCP). Enable clear to send the Selected Device Clear (SDC) message to the
// GPIB address during setup.
func New(rw io.ReadWriter, addr int, clear bool, opts ...Option) (*Controller, error) {
	c := Controller{
		rw:      rw,
		r:       bufio.NewReader(rw),
		usbTerm: '\n',
		eotChar: '\n',
	}
	c.primaryAddr = addr
	for _, opt := range opts {
		opt(&c)
	}

	if c.primaryAddr < 0 || c.primaryAddr > 30 {
		return nil, fmt.Errorf("invalid primary address %d (must be 0-30)", c.primaryAddr)
	}
	addrCmd := fmt.Sprintf("addr %d", c.primaryAddr)
	if c.hasSecondaryAddr {
		if c.secondaryAddr < 96 || c.secondaryAddr > 126 {
			return nil, fmt.Errorf("invalid secondary address %d (must be 96-126)", c.secondaryAddr)
		}
		addrCmd = fmt.Sprintf("addr %d %d", c.primaryAddr, c.secondaryAddr)
	}

	// Configure the Prologix GPIB controller.
	cmds := []string{
		"savecfg 0", // don't wear out the EPROM with what follows
		addrCmd,     // set the instrument address
		"mode 1",    // switch to controller mode
		"auto 0",    // turn off read-after-write
		"eoi 1",     // assert EOI with the last character
		"eos 0",     // GPIB termination CR+LF
		"read_tmo_ms 500",
		fmt.Sprintf("eot_char %d", c.eotChar),
		"eot_enable 1", // append eot_char when EOI detected
	}
	if clear {
		cmds = append(cmds, "clr")
	}
	for _, cmd := range cmds {
		if err := c.CommandController(cmd); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// Command formats according to a format specifier if arguments are provided
// and sends a SCPI/ASCII command to the instrument at the currently assigned
// GPIB address. Leading and trailing whitespace is removed before the USB
// terminator is appended.
func (c *Controller) Command(format string, a ...any) error {
	cmd := format
	if len(a) > 0 {
		cmd = fmt.Sprintf(format, a...)
	}
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), c.usbTerm)
	if c.debug {
		log.Printf("cmd %q", cmd)
	}
	_, err := io.WriteString(c.rw, cmd)
	return err
}

// Query sends the given SCPI/ASCII command to the instrument at the
// currently assigned GPIB address and reads its response. With
// read-after-write disabled the Prologix must be told to address the
// instrument to talk, so a `++read eoi` follows the command.
func (c *Controller) Query(cmd string) (string, error) {
	if err := c.Command(cmd); err != nil {
		return "", fmt.Errorf("error writing command: %s", err)
	}
	if !c.auto {
		if err := c.CommandController("read eoi"); err != nil {
			return "", fmt.Errorf("error sending read command: %s", err)
		}
	}
	s, err := c.r.ReadString(c.eotChar)
	if err == io.EOF && s != "" {
		return s, nil
	}
	return s, err
}

// CommandController sends the given command to the Prologix controller
// itself. Two plus signs are prepended so the command is not transmitted
// over GPIB, and the USB terminator is appended.
func (c *Controller) CommandController(cmd string) error {
	if c.writeDelay > 0 {
		time.Sleep(c.writeDelay)
	}
	cmd = fmt.Sprintf("++%s%c", strings.ToLower(strings.TrimSpace(cmd)), c.usbTerm)
	if c.debug {
		log.Printf("ctrl %q", cmd)
	}
	_, err := io.WriteString(c.rw, cmd)
	return err
}

// QueryController sends the given command to the Prologix controller and
// returns its response as a string.
func (c *Controller) QueryController(cmd string) (string, error) {
	if err := c.CommandController(cmd); err != nil {
		return "", err
	}
	s, err := c.r.ReadString(c.eotChar)
	if c.debug {
		log.Printf("ctrl read %q", s)
	}
	if err == io.EOF && s != "" {
		return s, nil
	}
	return s, err
}

// Version returns the firmware version string of the Prologix controller.
func (c *Controller) Version() (string, error) {
	s, err := c.QueryController("ver")
	return strings.TrimSpace(s), err
}

// InstrumentAddress returns the primary, and if set the secondary, GPIB
// address the controller currently talks to. A secondary address of 0 means
// none is set.
func (c *Controller) InstrumentAddress() (pad, sad int, err error) {
	s, err := c.QueryController("addr")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		_, err = fmt.Sscanf(fields[0], "%d", &pad)
	case 2:
		_, err = fmt.Sscanf(fields[0]+" "+fields[1], "%d %d", &pad, &sad)
	default:
		err = fmt.Errorf("unexpected addr response %q", s)
	}
	return pad, sad, err
}

// ClearDevice sends the Selected Device Clear (SDC) message to the current
// GPIB address.
func (c *Controller) ClearDevice() error {
	return c.CommandController("clr")
}

// FrontPanel returns the instrument to local front panel control when local
// is true, and locks the front panel out when false.
func (c *Controller) FrontPanel(local bool) error {
	if local {
		return c.CommandController("loc")
	}
	return c.CommandController("llo")
}
