// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package isr implements the clock-edge handler (component E): the routine
// that runs on every falling edge of at_clk, branching on HostMode to
// either shift a bit out to the keyboard or shift one in.
//
// On the target MCU this runs as a true interrupt handler with global
// interrupts masked, so it is implicitly atomic. A host process has no such
// primitive; callers must invoke OnFallingEdge only from inside a
// platform.CriticalSection, proven by the Token parameter, so it can never
// run concurrently with the main loop's own access to the same state.
package isr

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/nstenzel/atxtbridge/atframe"
	"github.com/nstenzel/atxtbridge/flags"
	"github.com/nstenzel/atxtbridge/inbuffer"
	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
)

// Handler runs one clock-edge cycle against the shared shift registers,
// buffer, flags and pins. It holds no state of its own.
type Handler struct {
	Pins   *signal.Pins
	In     *atframe.KeyIn
	Out    *atframe.KeyOut
	Buffer *inbuffer.Buffer
	Flags  *flags.Bridge
}

// OnFallingEdge runs the handler for one clock edge. Callers must hold a
// platform.CriticalSection Token; the whole call is budgeted at roughly one
// AT half-period (~30µs at a 10kHz AT clock), so it never blocks or
// allocates.
func (h *Handler) OnFallingEdge(_ platform.Token) error {
	if h.Flags.HostMode.IsSet() {
		return h.hostMode()
	}
	return h.deviceMode()
}

// hostMode is the micro-transmits-to-keyboard branch.
func (h *Handler) hostMode() error {
	if !h.Out.IsEmpty() {
		bit := h.Out.ShiftOut()
		level := gpio.Low
		if bit {
			level = gpio.High
		}
		if err := h.Pins.AtData.Out(level); err != nil {
			return fmt.Errorf("isr: drive at_data: %w", err)
		}
		if h.Out.IsEmpty() {
			if err := h.Pins.AtIdle(); err != nil {
				return fmt.Errorf("isr: at_idle after stop bit: %w", err)
			}
		}
		return nil
	}
	// KeyOut is empty: this edge is the keyboard's device-ACK pulse.
	if h.Pins.AtDataLow() {
		h.Flags.DeviceAck.Set()
		h.Out.Clear()
	}
	return nil
}

// deviceMode is the keyboard-transmits-to-micro branch.
func (h *Handler) deviceMode() error {
	bit := h.Pins.AtData.Read() == gpio.High
	h.In.ShiftIn(bit)
	if !h.In.IsFull() {
		return nil
	}
	if err := h.Pins.AtInhibit(); err != nil {
		return fmt.Errorf("isr: inhibit after full frame: %w", err)
	}
	h.Buffer.Put(h.In.Take())
	h.In.Clear()
	if err := h.Pins.AtIdle(); err != nil {
		return fmt.Errorf("isr: at_idle after full frame: %w", err)
	}
	return nil
}
