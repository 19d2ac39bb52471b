// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package atbus implements the AT transmitter orchestration (component G):
// the host-to-device handshake that inhibits the keyboard, presents the
// start bit, then hands the remaining bits off to the clock-edge handler
// and waits for the device's acknowledgement.
package atbus

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/nstenzel/atxtbridge/atframe"
	"github.com/nstenzel/atxtbridge/flags"
	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
)

// InhibitDuration is how long at_clk is held low as the keyboard
// "request to send" signal.
const InhibitDuration = 100

// StartBitDuration is how long at_data is held low presenting the start
// bit before at_clk is released to the keyboard.
const StartBitDuration = 33

// Transmitter drives the host-to-device handshake. The remaining 10 bits
// of the frame are shifted out by isr.Handler once HostMode is set; this
// type only performs the manual preamble and waits for the result.
type Transmitter struct {
	Pins  *signal.Pins
	Out   *atframe.KeyOut
	Flags *flags.Bridge
	CS    *platform.CriticalSection
	Delay platform.Delay
}

// SendByte frames b into Out and carries out the AT host-to-device
// handshake, blocking until the keyboard's ACK bit is observed.
func (t *Transmitter) SendByte(b byte) error {
	var err error
	t.CS.With(func(platform.Token) {
		t.Out.Put(b)
		t.Out.ShiftOut() // consume the start bit: this function drives it manually, below
		err = t.Pins.DisableAtClkInterrupt()
	})
	if err != nil {
		return fmt.Errorf("atbus: disable at_clk interrupt: %w", err)
	}

	for !t.Pins.AtClkHigh() {
		// Busy-wait for the keyboard to be idle before requesting the bus.
	}

	if err := t.Pins.AtInhibit(); err != nil {
		return fmt.Errorf("atbus: inhibit: %w", err)
	}
	t.Delay.Microseconds(InhibitDuration)

	if err := t.Pins.AtData.Out(gpio.Low); err != nil {
		return fmt.Errorf("atbus: present start bit: %w", err)
	}
	t.Delay.Microseconds(StartBitDuration)

	t.CS.With(func(platform.Token) {
		// Order matters: the handler must observe the interrupt enabled
		// before it can observe HostMode set.
		if err = t.Pins.EnableAtClkFallingEdge(); err != nil {
			return
		}
		t.Flags.HostMode.Set()
		t.Flags.DeviceAck.Clear()
	})
	if err != nil {
		return fmt.Errorf("atbus: re-enable at_clk interrupt: %w", err)
	}

	for !t.Flags.DeviceAck.IsSet() {
		// Busy-wait: an indefinite hang here if the keyboard never
		// acknowledges is accepted.
	}
	t.Flags.HostMode.Clear()
	return nil
}
