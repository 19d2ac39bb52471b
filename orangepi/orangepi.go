// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package orangepi is the Orange Pi Zero wiring profile: it maps the
// bridge's five logical signals onto that board's 26-pin header and
// registers the mapping as gpioreg aliases so package boards can resolve
// them without knowing which board is running.
package orangepi

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/driver/driverreg"

	"github.com/nstenzel/atxtbridge/boards"
	"github.com/nstenzel/atxtbridge/distro"
)

// Present reports whether an Orange Pi board is detected.
func Present() bool {
	// Works for the Orange Pi Zero; other Orange Pi boards may need their
	// own DTModel prefix added here.
	return strings.HasPrefix(distro.DTModel(), "OrangePi")
}

const boardZero = "Orange Pi Zero"

// wiring maps each logical signal to the sysfs GPIO name carrying it on the
// Zero's header.
var wiring = map[string]string{
	boards.AtClk:   "GPIO12",
	boards.AtData:  "GPIO11",
	boards.XtClk:   "GPIO6",
	boards.XtData:  "GPIO1",
	boards.XtSense: "GPIO7",
}

// driver implements periph.Driver, following the usual per-board
// registration idiom: detect the board, then alias its physical pins onto
// the bridge's logical signal names.
type driver struct{}

func (d *driver) String() string { return "orangepi" }

func (d *driver) Prerequisites() []string { return nil }

// After ensures the sysfs GPIO backend has registered its pins before this
// driver tries to alias them.
func (d *driver) After() []string { return []string{"sysfs-gpio"} }

func (d *driver) Init() (bool, error) {
	if !Present() {
		return false, errors.New("orangepi: board not detected")
	}
	if !strings.Contains(distro.DTModel(), boardZero) {
		return true, fmt.Errorf("orangepi: unrecognized model %q", distro.DTModel())
	}
	return true, boards.RegisterAliases(wiring)
}

func init() {
	driverreg.MustRegister(&drv)
}

var drv driver
