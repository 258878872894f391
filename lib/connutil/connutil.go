// Package connutil wires the transport flags to a ready GPIB controller:
// flag registration, serial port discovery and open, controller setup, and
// a teardown that is safe on every exit path.
package connutil

import (
	"flag"
	"log"
	"time"

	"go.uber.org/multierr"

	"github.com/benchkit/discharge/driver/vcp"
	"github.com/benchkit/discharge/gpib"
	"github.com/benchkit/discharge/lib/find"
)

// Conn carries the transport configuration for one bench session.
type Conn struct {
	SerialPort string
	Baud       int
	GpibPAD    int
	GpibSAD    int
	Delay      time.Duration
	Verbose    bool

	tty     string
	finderr error
}

// AddFlags registers the transport flags; call before flag.Parse.
func (c *Conn) AddFlags() {
	c.tty, c.finderr = find.Find(find.Prologix)
	if c.finderr != nil {
		c.tty = "ttyUSB0"
	}

	if c.GpibPAD == 0 {
		c.GpibPAD = 24 // Model 2400 factory default
	}
	if c.GpibSAD == 0 {
		c.GpibSAD = 0xff // none
	}
	if c.Baud == 0 {
		c.Baud = 115200
	}
	if c.Delay == 0 {
		c.Delay = 100 * time.Millisecond
	}

	flag.StringVar(
		&c.SerialPort,
		"port",
		"/dev/"+c.tty,
		"Serial port for Prologix VCP GPIB controller",
	)
	flag.IntVar(&c.GpibPAD, "pad", c.GpibPAD, "GPIB primary address for the SourceMeter")
	flag.IntVar(&c.GpibSAD, "sad", c.GpibSAD, "GPIB secondary address (255 for none)")
	flag.IntVar(&c.Baud, "baud", c.Baud, "serial baud rate")
	flag.DurationVar(&c.Delay, "delay", c.Delay, "delay before controller commands")
	flag.BoolVar(&c.Verbose, "v", c.Verbose, "log controller traffic")
}

// Setup is to be called after flag.Parse. It opens the serial port and
// builds the GPIB controller. The returned cleanup restores front panel
// control, discards unread serial data, and closes the port; it is safe to
// call on every exit path.
func (c *Conn) Setup() (*gpib.Controller, func() error, error) {
	nocleanup := func() error { return nil }

	if c.finderr != nil && c.SerialPort == "/dev/ttyUSB0" {
		// only worth mentioning if the guess wasn't overridden via flag
		log.Printf("locating serial port failed, guessing: %s", c.finderr)
	}
	log.Printf("Serial port = %s", c.SerialPort)

	port, err := vcp.New(c.SerialPort, c.Baud, 30*time.Second)
	if err != nil {
		return nil, nocleanup, err
	}

	var opts []gpib.Option
	if c.Delay > 0 {
		opts = append(opts, gpib.WithWriteDelay(c.Delay))
	}
	if c.GpibSAD != 0xff {
		opts = append(opts, gpib.WithSecondaryAddress(c.GpibSAD))
	}
	if c.Verbose {
		opts = append(opts, gpib.WithDebug())
	}

	ctrl, err := gpib.New(port, c.GpibPAD, false, opts...)
	if err != nil {
		port.Close()
		return nil, nocleanup, err
	}

	cleanup := func() error {
		// Return local control to the front panel, then drop the port.
		var cerr error
		cerr = multierr.Append(cerr, ctrl.FrontPanel(true))
		cerr = multierr.Append(cerr, port.Flush())
		cerr = multierr.Append(cerr, port.Close())
		return cerr
	}
	return ctrl, cleanup, nil
}
