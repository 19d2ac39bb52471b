// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package signal_test

import (
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/nstenzel/atxtbridge/signal"
	"github.com/nstenzel/atxtbridge/signal/signaltest"
)

func newPins() (*signal.Pins, map[string]*signaltest.Bus) {
	buses := map[string]*signaltest.Bus{
		"at_clk":   signaltest.NewBus(),
		"at_data":  signaltest.NewBus(),
		"xt_clk":   signaltest.NewBus(),
		"xt_data":  signaltest.NewBus(),
		"xt_sense": signaltest.NewBus(),
	}
	mk := func(name string) *signaltest.Pin {
		return &signaltest.Pin{PinName: name, Bus: buses[name]}
	}
	return &signal.Pins{
		AtClk:   mk("at_clk"),
		AtData:  mk("at_data"),
		XtClk:   mk("xt_clk"),
		XtData:  mk("xt_data"),
		XtSense: mk("xt_sense"),
	}, buses
}

func TestIdleReleasesAllLines(t *testing.T) {
	pins, buses := newPins()
	buses["at_clk"].ForceLevel(gpio.Low)
	if err := pins.Idle(); err != nil {
		t.Fatal(err)
	}
	if !pins.AtClkHigh() {
		t.Error("at_clk not high after Idle")
	}
	if !pins.XtHostReleased() {
		t.Error("xt lines not high after Idle")
	}
}

func TestAtInhibitDrivesClkLow(t *testing.T) {
	pins, _ := newPins()
	if err := pins.AtInhibit(); err != nil {
		t.Fatal(err)
	}
	if pins.AtClkHigh() {
		t.Fatal("at_clk high after AtInhibit")
	}
	if err := pins.AtIdle(); err != nil {
		t.Fatal(err)
	}
	if !pins.AtClkHigh() {
		t.Fatal("at_clk not released by AtIdle")
	}
}

func TestXtOutXtIn(t *testing.T) {
	pins, _ := newPins()
	if err := pins.XtOut(); err != nil {
		t.Fatal(err)
	}
	if !pins.XtHostReleased() {
		t.Fatal("XtHostReleased false right after XtOut drives both high")
	}
	if err := pins.XtIn(); err != nil {
		t.Fatal(err)
	}
	if !pins.XtHostReleased() {
		t.Fatal("XtHostReleased false after XtIn (pulled-up input should read high)")
	}
}

func TestXtSenseLow(t *testing.T) {
	pins, buses := newPins()
	if pins.XtSenseLow() {
		t.Fatal("XtSenseLow true before asserting the line")
	}
	buses["xt_sense"].ForceLevel(gpio.Low)
	if !pins.XtSenseLow() {
		t.Fatal("XtSenseLow false after asserting the line")
	}
}

func TestAtDataLow(t *testing.T) {
	pins, buses := newPins()
	if pins.AtDataLow() {
		t.Fatal("AtDataLow true on an idle pulled-up line")
	}
	buses["at_data"].ForceLevel(gpio.Low)
	if !pins.AtDataLow() {
		t.Fatal("AtDataLow false after forcing the line low")
	}
}
