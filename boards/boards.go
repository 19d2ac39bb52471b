// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package boards resolves the bridge's five logical signals
// (AT_CLK, AT_DATA, XT_CLK, XT_DATA, XT_SENSE) into concrete GPIO pins.
// Board-specific packages (nanopi, orangepi) register these as pin aliases
// at driver-init time, the same way a per-board package aliases header pin
// numbers to SoC pin names; Resolve then looks them up through gpioreg
// regardless of which board registered them.
package boards

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/nstenzel/atxtbridge/signal"
)

// Alias names every board wiring profile registers via gpioreg.RegisterAlias.
const (
	AtClk   = "AT_CLK"
	AtData  = "AT_DATA"
	XtClk   = "XT_CLK"
	XtData  = "XT_DATA"
	XtSense = "XT_SENSE"
)

// Resolve looks up the five aliases and returns them as a signal.Pins. It
// fails if any board package registered only some of them, or none did --
// callers should fall back to explicit -pin-* flags in that case.
func Resolve() (*signal.Pins, error) {
	lookup := func(alias string) (gpio.PinIO, error) {
		p := gpioreg.ByName(alias)
		if p == nil {
			return nil, fmt.Errorf("boards: no pin registered for %s", alias)
		}
		return p, nil
	}
	clk, err := lookup(AtClk)
	if err != nil {
		return nil, err
	}
	data, err := lookup(AtData)
	if err != nil {
		return nil, err
	}
	xclk, err := lookup(XtClk)
	if err != nil {
		return nil, err
	}
	xdata, err := lookup(XtData)
	if err != nil {
		return nil, err
	}
	sense, err := lookup(XtSense)
	if err != nil {
		return nil, err
	}
	return &signal.Pins{
		AtClk:   clk,
		AtData:  data,
		XtClk:   xclk,
		XtData:  xdata,
		XtSense: sense,
	}, nil
}

// RegisterAliases aliases the five logical signal names onto the given
// physical pin names, as resolvable by gpioreg.ByName at the time this is
// called (normally from a board package's driverreg Init, after its GPIO
// backend has registered the physical pins). physical maps alias -> pin
// name, e.g. {AtClk: "GPIO11", ...}.
func RegisterAliases(physical map[string]string) error {
	for _, alias := range []string{AtClk, AtData, XtClk, XtData, XtSense} {
		name, ok := physical[alias]
		if !ok {
			return fmt.Errorf("boards: wiring profile missing %s", alias)
		}
		if err := gpioreg.RegisterAlias(alias, name); err != nil {
			return fmt.Errorf("boards: alias %s -> %s: %w", alias, name, err)
		}
	}
	return nil
}
