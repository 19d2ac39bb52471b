// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nanopi is the NanoPi NEO Air wiring profile: it maps the
// bridge's five logical signals onto that board's 24-pin header and
// registers the mapping as gpioreg aliases so package boards can resolve
// them without knowing which board is running.
package nanopi

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/driver/driverreg"

	"github.com/nstenzel/atxtbridge/boards"
	"github.com/nstenzel/atxtbridge/distro"
)

// Present reports whether a NanoPi board is detected.
func Present() bool {
	// Works for the NanoPi Neo Air; other NanoPi boards may need their own
	// DTModel prefix added here.
	return strings.HasPrefix(distro.DTModel(), "FriendlyARM")
}

const boardNeoAir = "NanoPi NEO Air"

// wiring maps each logical signal to the sysfs GPIO name carrying it on the
// NEO Air's header: at_clk/at_data on header pins PA1_5/PA1_3, xt_clk/
// xt_data/xt_sense on PA1_7/PA1_8/PA1_10, chosen to sit next to ground pins
// for short dongle wiring.
var wiring = map[string]string{
	boards.AtClk:   "GPIO11",
	boards.AtData:  "GPIO12",
	boards.XtClk:   "GPIO6",
	boards.XtData:  "GPIO1",
	boards.XtSense: "GPIO7",
}

// driver implements periph.Driver, following the usual per-board
// registration idiom: detect the board, then alias its physical pins onto
// the bridge's logical signal names.
type driver struct{}

func (d *driver) String() string { return "nanopi" }

func (d *driver) Prerequisites() []string { return nil }

// After ensures the sysfs GPIO backend has registered its pins before this
// driver tries to alias them.
func (d *driver) After() []string { return []string{"sysfs-gpio"} }

func (d *driver) Init() (bool, error) {
	if !Present() {
		return false, errors.New("nanopi: board not detected")
	}
	model := distro.DTModel()
	if !strings.Contains(model, boardNeoAir) {
		return true, fmt.Errorf("nanopi: unrecognized model %q", model)
	}
	return true, boards.RegisterAliases(wiring)
}

func init() {
	driverreg.MustRegister(&drv)
}

var drv driver
