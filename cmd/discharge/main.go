// Copyright (c) 2026 The discharge developers. All rights reserved.
// Project site: https://github.com/benchkit/discharge
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Command discharge runs a battery discharge test on a Keithley Model 2400
// SourceMeter behind a Prologix GPIB-USB controller, recording one CSV
// record per sample and deriving a battery model from the finished run.
//
// Transport is configured by flags; test parameters by interactive prompts.
// Exit status: 0 on normal or cutoff completion, 1 on configuration,
// instrument, or file errors, 130 when the operator cancels.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/benchkit/discharge"
	"github.com/benchkit/discharge/keithley"
	"github.com/benchkit/discharge/lib/connutil"
	"github.com/benchkit/discharge/lib/termio"
)

const (
	exitOK        = 0
	exitErr       = 1
	exitCancelled = 130 // 128+SIGINT, same as a shell reports
)

const lithiumWarning = "WARNING: nothing here prevents discharging a lithium ion cell beyond " +
	"safe limits. Follow the manufacturer's limits for discharge current and cutoff voltage."

func main() { os.Exit(run()) }

func run() int {
	log.SetFlags(log.Lmicroseconds)

	var conn connutil.Conn
	conn.AddFlags()
	flag.Parse()

	fmt.Println(termio.WarnStyle.Render(lithiumWarning))
	cfg, err := termio.New(os.Stdin, os.Stdout).TestConfig()
	if err != nil {
		log.Printf("configuration: %s", err)
		return exitErr
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("configuration: %s", err)
		return exitErr
	}

	ctrl, cleanup, err := conn.Setup()
	if err != nil {
		log.Printf("controller setup: %s", err)
		return exitErr
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("teardown: %s", err)
		}
	}()

	smu := keithley.New(ctrl)
	idn, err := smu.Identify()
	if err != nil {
		log.Printf("instrument identification: %s", err)
		return exitErr
	}
	log.Printf("instrument: %s", idn)

	w, err := discharge.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		log.Printf("%s", err)
		return exitErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := discharge.Run(ctx, cfg, smu, w)
	if cerr := w.Close(); cerr != nil && runErr == nil {
		runErr = cerr
	}
	if runErr != nil {
		log.Printf("run aborted after %d samples: %s", len(res.Samples), runErr)
		return exitErr
	}

	if res.State == discharge.Stopped {
		log.Printf("cancelled after %d samples (%s)", len(res.Samples), res.Elapsed)
		return exitCancelled
	}
	log.Printf("%s after %d samples (%s)", res.State, len(res.Samples), res.Elapsed)

	model, err := discharge.BuildModel(res.Samples)
	if err != nil {
		log.Printf("battery model skipped: %s", err)
		return exitOK
	}
	mpath := modelPath(cfg.OutputPath)
	if err := model.WriteCSV(mpath); err != nil {
		log.Printf("%s", err)
		return exitErr
	}
	log.Printf("capacity %.4f Ah, model written to %s", model.CapacityAh, mpath)
	return exitOK
}

// modelPath places the model file next to the sample data:
// discharge.csv -> discharge-model.csv.
func modelPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-model" + ext
}
