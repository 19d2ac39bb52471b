// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package boards_test

import (
	"testing"

	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/nstenzel/atxtbridge/boards"
	"github.com/nstenzel/atxtbridge/signal/signaltest"
)

func TestRegisterAliasesAndResolve(t *testing.T) {
	names := map[string]string{
		boards.AtClk:   "t-at-clk",
		boards.AtData:  "t-at-data",
		boards.XtClk:   "t-xt-clk",
		boards.XtData:  "t-xt-data",
		boards.XtSense: "t-xt-sense",
	}
	for _, n := range names {
		p := &signaltest.Pin{PinName: n, Bus: signaltest.NewBus()}
		if err := gpioreg.Register(p); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
		defer gpioreg.Unregister(n)
	}

	if err := boards.RegisterAliases(names); err != nil {
		t.Fatalf("RegisterAliases: %v", err)
	}
	defer func() {
		for alias := range names {
			gpioreg.Unregister(alias)
		}
	}()

	pins, err := boards.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pins.AtClk.Name() != names[boards.AtClk] {
		t.Errorf("AtClk = %s, want alias of %s", pins.AtClk.Name(), names[boards.AtClk])
	}
	if pins.XtSense.Name() != names[boards.XtSense] {
		t.Errorf("XtSense = %s, want alias of %s", pins.XtSense.Name(), names[boards.XtSense])
	}
}

func TestResolveMissingAliasFails(t *testing.T) {
	if _, err := boards.Resolve(); err == nil {
		t.Fatal("Resolve succeeded with no aliases registered")
	}
}

func TestRegisterAliasesRejectsIncompleteWiring(t *testing.T) {
	incomplete := map[string]string{boards.AtClk: "whatever"}
	if err := boards.RegisterAliases(incomplete); err == nil {
		t.Fatal("RegisterAliases accepted a wiring profile missing signals")
	}
}
