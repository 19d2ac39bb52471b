// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package atxtbridge implements a bidirectional protocol bridge between an
// AT/PS-2 keyboard and an XT-protocol host, driven over GPIO.
//
// The bit-level engine, control state machine, and shared-state discipline
// between the clock-edge handler and the main loop live in this module's
// subpackages (atframe, inbuffer, flags, isr, atbus, xtbus, fsm, driver).
// GPIO access is supplied by the sysfs and gpioioctl packages, registered
// through periph.io/x/conn/v3/gpio/gpioreg the same way any periph host
// driver is.
package atxtbridge

import "periph.io/x/conn/v3/driver/driverreg"

// Init calls driverreg.Init() and returns it as-is.
//
// Calling atxtbridge.Init() guarantees that the GPIO backends implemented in
// this module (sysfs, gpioioctl) are registered before the bridge looks up
// its signal pins by name.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}
