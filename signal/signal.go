// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package signal is the pin abstraction (component A): a typed view over
// the bridge's five logical signals, built directly on
// periph.io/x/conn/v3/gpio.PinIO so any backend implementing that interface
// -- this module's sysfs or gpioioctl packages, or a test fake -- can drive
// them.
package signal

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Pins is the set of physical pins wired to the bridge's five logical
// signals: the AT keyboard's clock and data lines, the XT host's clock and
// data lines, and the host's reset-request line.
type Pins struct {
	AtClk   gpio.PinIO
	AtData  gpio.PinIO
	XtClk   gpio.PinIO
	XtData  gpio.PinIO
	XtSense gpio.PinIO
}

// Idle configures all four bus lines as high-impedance inputs with
// pull-ups, so both buses float high, and xt_sense as a pulled-up input.
func (p *Pins) Idle() error {
	for _, pin := range []gpio.PinIO{p.AtClk, p.AtData, p.XtClk, p.XtData, p.XtSense} {
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return fmt.Errorf("signal: idle %s: %w", pin, err)
		}
	}
	return nil
}

// AtInhibit drives at_clk low: the "request to send" signal that holds the
// keyboard off while the micro prepares a host-to-device transmission.
func (p *Pins) AtInhibit() error {
	if err := p.AtClk.Out(gpio.Low); err != nil {
		return fmt.Errorf("signal: at_inhibit: %w", err)
	}
	return nil
}

// AtIdle releases both AT lines back to pulled-up inputs.
func (p *Pins) AtIdle() error {
	if err := p.AtClk.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("signal: at_idle at_clk: %w", err)
	}
	if err := p.AtData.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("signal: at_idle at_data: %w", err)
	}
	return nil
}

// XtOut switches both XT lines to outputs, driven high.
func (p *Pins) XtOut() error {
	if err := p.XtClk.Out(gpio.High); err != nil {
		return fmt.Errorf("signal: xt_out xt_clk: %w", err)
	}
	if err := p.XtData.Out(gpio.High); err != nil {
		return fmt.Errorf("signal: xt_out xt_data: %w", err)
	}
	return nil
}

// XtIn returns both XT lines to pulled-up inputs.
func (p *Pins) XtIn() error {
	if err := p.XtClk.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("signal: xt_in xt_clk: %w", err)
	}
	if err := p.XtData.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("signal: xt_in xt_data: %w", err)
	}
	return nil
}

// EnableAtClkFallingEdge arms at_clk for the falling-edge interrupt the
// clock-edge handler (package isr) runs on.
func (p *Pins) EnableAtClkFallingEdge() error {
	if err := p.AtClk.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("signal: enable at_clk interrupt: %w", err)
	}
	return nil
}

// DisableAtClkInterrupt releases edge detection on at_clk, leaving it a
// plain pulled-up input. The AT transmit orchestration (package atbus)
// disables the interrupt while it manually drives the start-bit sequence.
func (p *Pins) DisableAtClkInterrupt() error {
	if err := p.AtClk.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("signal: disable at_clk interrupt: %w", err)
	}
	return nil
}

// WaitForAtClkFallingEdge blocks until the next falling edge on at_clk, or
// until timeout elapses. timeout is passed to the pin's WaitForEdge as is,
// so what 0 means depends on the backend: gpioioctl and signaltest wait
// forever, sysfs returns at once. A host OS has no true
// interrupt controller, so the bridge's "ISR" is realized as a goroutine
// parked here, invoking isr.Handler on each edge it observes.
func (p *Pins) WaitForAtClkFallingEdge(timeout time.Duration) bool {
	return p.AtClk.WaitForEdge(timeout)
}

// AtClkHigh reports whether the keyboard has released at_clk (bus idle).
func (p *Pins) AtClkHigh() bool { return p.AtClk.Read() == gpio.High }

// AtDataLow reports whether the AT data line is being held low.
func (p *Pins) AtDataLow() bool { return p.AtData.Read() == gpio.Low }

// XtHostReleased reports whether the host has released both XT lines
// (neither pulled low to hold the firmware off).
func (p *Pins) XtHostReleased() bool {
	return p.XtClk.Read() == gpio.High && p.XtData.Read() == gpio.High
}

// XtSenseLow reports whether the host is asserting the XT reset-request
// line.
func (p *Pins) XtSenseLow() bool { return p.XtSense.Read() == gpio.Low }
