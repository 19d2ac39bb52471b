// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package xtbus implements the XT transmitter (component F): bit-banging
// one XT frame (two start bits, then 8 data bits LSB-first) with XT's
// ~55µs half-period clocking, honoring the host's pull-down hold-off.
package xtbus

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
)

// HalfPeriod is the XT bit-cell half-period: xt_clk is held low this long
// after xt_data is set.
const HalfPeriod = 55

// Transmitter drives one XT frame at a time. It awaits no acknowledgement
// from the host.
type Transmitter struct {
	Pins  *signal.Pins
	Delay platform.Delay
}

// SendByte waits for the host to release both XT lines, then shifts out a
// full XT frame: start bits 0, 1, then the 8 data bits of b, LSB-first.
func (t *Transmitter) SendByte(b byte) error {
	for !t.Pins.XtHostReleased() {
		// Busy-poll: the host may assert either line to hold the firmware
		// off indefinitely; that is intentional, with no timeout.
	}
	if err := t.Pins.XtOut(); err != nil {
		return fmt.Errorf("xtbus: switch to output: %w", err)
	}
	if err := t.sendBit(false); err != nil {
		return err
	}
	if err := t.sendBit(true); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		if err := t.sendBit((b>>i)&1 == 1); err != nil {
			return err
		}
	}
	if err := t.Pins.XtIn(); err != nil {
		return fmt.Errorf("xtbus: switch to input: %w", err)
	}
	return nil
}

// sendBit implements send_xt_bit: drive xt_data, pull xt_clk low, delay one
// half-period, release xt_clk high.
func (t *Transmitter) sendBit(bit bool) error {
	level := gpio.Low
	if bit {
		level = gpio.High
	}
	if err := t.Pins.XtData.Out(level); err != nil {
		return fmt.Errorf("xtbus: drive xt_data: %w", err)
	}
	if err := t.Pins.XtClk.Out(gpio.Low); err != nil {
		return fmt.Errorf("xtbus: pull xt_clk low: %w", err)
	}
	t.Delay.Microseconds(HalfPeriod)
	if err := t.Pins.XtClk.Out(gpio.High); err != nil {
		return fmt.Errorf("xtbus: release xt_clk: %w", err)
	}
	return nil
}
