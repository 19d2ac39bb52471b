// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// atxtbridge runs the AT/PS-2-to-XT keyboard protocol bridge against the
// GPIO pins of the host it is run on.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/nstenzel/atxtbridge"
	"github.com/nstenzel/atxtbridge/boards"
	"github.com/nstenzel/atxtbridge/driver"
	"github.com/nstenzel/atxtbridge/flags"
	_ "github.com/nstenzel/atxtbridge/nanopi"
	_ "github.com/nstenzel/atxtbridge/orangepi"
	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
)

// pinFlags holds the five -pin-* flags. When any of them is given they are
// used instead of board auto-detection.
type pinFlags struct {
	atClk, atData, xtClk, xtData, xtSense string
}

func (p pinFlags) any() bool {
	return p.atClk != "" || p.atData != "" || p.xtClk != "" || p.xtData != "" || p.xtSense != ""
}

// resolve looks up each named GPIO directly through gpioreg, bypassing
// board auto-detection entirely.
func (p pinFlags) resolve() (*signal.Pins, error) {
	lookup := func(flagName, name string) (gpio.PinIO, error) {
		if name == "" {
			return nil, fmt.Errorf("missing -%s", flagName)
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("-%s: no such GPIO %q", flagName, name)
		}
		return pin, nil
	}
	atClk, err := lookup("pin-at-clk", p.atClk)
	if err != nil {
		return nil, err
	}
	atData, err := lookup("pin-at-data", p.atData)
	if err != nil {
		return nil, err
	}
	xtClk, err := lookup("pin-xt-clk", p.xtClk)
	if err != nil {
		return nil, err
	}
	xtData, err := lookup("pin-xt-data", p.xtData)
	if err != nil {
		return nil, err
	}
	xtSense, err := lookup("pin-xt-sense", p.xtSense)
	if err != nil {
		return nil, err
	}
	return &signal.Pins{
		AtClk:   atClk,
		AtData:  atData,
		XtClk:   xtClk,
		XtData:  xtData,
		XtSense: xtSense,
	}, nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	timerDelay := flag.Bool("timer-delay", false, "use the hardware-timer delay backend instead of busy-wait")
	var pf pinFlags
	flag.StringVar(&pf.atClk, "pin-at-clk", "", "GPIO name for at_clk (overrides board auto-detection)")
	flag.StringVar(&pf.atData, "pin-at-data", "", "GPIO name for at_data")
	flag.StringVar(&pf.xtClk, "pin-xt-clk", "", "GPIO name for xt_clk")
	flag.StringVar(&pf.xtData, "pin-xt-data", "", "GPIO name for xt_data")
	flag.StringVar(&pf.xtSense, "pin-xt-sense", "", "GPIO name for xt_sense")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	// atxtbridge.Init() calls driverreg.Init(), which registers both the GPIO
	// backends (sysfs, gpioioctl) and the board wiring profiles (nanopi,
	// orangepi) in one pass, so there's no separate board-driver init step.
	if _, err := atxtbridge.Init(); err != nil {
		return fmt.Errorf("init GPIO backends and board drivers: %w", err)
	}

	pins, err := wire(pf)
	if err != nil {
		return err
	}

	b := &driver.Bridge{
		Pins: pins,
		CS:   &platform.CriticalSection{},
	}
	if *timerDelay {
		b.Delay = platform.TimerDelay{Timeout: &timeoutFlag}
	} else {
		b.Delay = platform.BusyDelay{}
	}
	b.Wire()

	log.Printf("atxtbridge: running")
	return b.Run()
}

// timeoutFlag backs the TIMEOUT flag platform.TimerDelay polls, mirroring
// the hardware-timer delay variant.
var timeoutFlag flags.Flag

// wire resolves the five logical signals either from the -pin-* flags, if
// any was given, or from whichever board profile auto-detected at Init.
func wire(pf pinFlags) (*signal.Pins, error) {
	if pf.any() {
		return pf.resolve()
	}
	pins, err := boards.Resolve()
	if err != nil {
		return nil, fmt.Errorf("no board auto-detected and no -pin-* flags given: %w", err)
	}
	return pins, nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "atxtbridge: %s.\n", err)
		os.Exit(1)
	}
}
