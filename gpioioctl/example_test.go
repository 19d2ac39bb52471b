package gpioioctl_test

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

import (
	"fmt"
	"log"

	"github.com/nstenzel/atxtbridge"
	"github.com/nstenzel/atxtbridge/boards"
	"github.com/nstenzel/atxtbridge/driver"
	_ "github.com/nstenzel/atxtbridge/nanopi"
	"github.com/nstenzel/atxtbridge/platform"
)

// Example wires up the bridge against whichever board profile matched
// during init (nanopi, here) and starts it. Run blocks forever servicing
// the AT and XT buses, so a real program only calls it once at the end of
// main; this example stops early instead of hanging the test binary.
func Example() {
	// atxtbridge.Init() calls driverreg.Init(), registering both GPIO
	// backends and board wiring profiles in one pass.
	if _, err := atxtbridge.Init(); err != nil {
		log.Fatal(err)
	}

	pins, err := boards.Resolve()
	if err != nil {
		log.Fatal(err)
	}

	b := &driver.Bridge{
		Pins:  pins,
		CS:    &platform.CriticalSection{},
		Delay: platform.BusyDelay{},
	}
	b.Wire()

	go func() {
		if err := b.Run(); err != nil {
			log.Println("bridge stopped:", err)
		}
	}()
	b.Stop()

	fmt.Println("bridge wired")
}
