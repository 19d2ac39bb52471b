// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package driver is the main-loop glue (component I): it owns the
// clock-edge goroutine standing in for the AT interrupt, runs the boot
// sequence, and drives package fsm by executing each Cmd it emits against
// the AT/XT transmitters, LED state, and input buffer, feeding the result
// back as a ProcReply.
package driver

import (
	"fmt"
	"log"
	"time"

	"github.com/nstenzel/atxtbridge/atbus"
	"github.com/nstenzel/atxtbridge/atframe"
	"github.com/nstenzel/atxtbridge/flags"
	"github.com/nstenzel/atxtbridge/fsm"
	"github.com/nstenzel/atxtbridge/inbuffer"
	"github.com/nstenzel/atxtbridge/isr"
	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
	"github.com/nstenzel/atxtbridge/xtbus"
)

// resetByte is the AT command the keyboard interprets as a reset request;
// the keyboard answers with 0xFA then performs a BAT, reporting 0xAA.
const resetByte = 0xFF

// ledCmd prefixes an LED-set AT command; the mask byte follows roughly
// 3ms later.
const ledCmd = 0xED

// ledCmdDelay is the gap between the 0xED command byte and the mask byte.
const ledCmdDelay = 3 * time.Millisecond

// Bridge wires together every component built from the leaf packages and
// runs the control loop.
type Bridge struct {
	Pins  *signal.Pins
	CS    *platform.CriticalSection
	Delay platform.Delay
	Log   *log.Logger

	flags  flags.Bridge
	in     atframe.KeyIn
	out    atframe.KeyOut
	buf    inbuffer.Buffer
	handle isr.Handler
	atTx   atbus.Transmitter
	xtTx   xtbus.Transmitter

	stop chan struct{}
}

// Wire binds the shared state into the component instances. Call once
// after setting Pins, CS and Delay, before Run.
func (b *Bridge) Wire() {
	if b.Log == nil {
		b.Log = log.Default()
	}
	b.handle = isr.Handler{
		Pins:   b.Pins,
		In:     &b.in,
		Out:    &b.out,
		Buffer: &b.buf,
		Flags:  &b.flags,
	}
	b.atTx = atbus.Transmitter{
		Pins:  b.Pins,
		Out:   &b.out,
		Flags: &b.flags,
		CS:    b.CS,
		Delay: b.Delay,
	}
	b.xtTx = xtbus.Transmitter{
		Pins:  b.Pins,
		Delay: b.Delay,
	}
	b.stop = make(chan struct{})
}

// Run executes the boot sequence and then the FSM loop until Stop is
// called. It never returns nil under normal operation; callers intending a
// long-running bridge process should treat a non-nil return as fatal.
func (b *Bridge) Run() error {
	if err := b.Pins.Idle(); err != nil {
		return fmt.Errorf("driver: idle pins: %w", err)
	}
	if err := b.Pins.EnableAtClkFallingEdge(); err != nil {
		return fmt.Errorf("driver: arm at_clk: %w", err)
	}
	go b.edgeLoop()

	b.Log.Printf("driver: boot: resetting keyboard")
	if err := b.resetKeyboard(); err != nil {
		return fmt.Errorf("driver: boot reset: %w", err)
	}

	m := &fsm.Machine{}
	cmd := m.Entry()
	for {
		select {
		case <-b.stop:
			return nil
		default:
		}
		reply, err := b.exec(cmd)
		if err != nil {
			return fmt.Errorf("driver: exec %v in state %s: %w", cmd.Kind, m.State(), err)
		}
		cmd = m.Apply(reply)
	}
}

// Stop ends the FSM loop. Run returns nil once the in-flight Cmd completes,
// except that a pending WaitForKey is abandoned and Run returns its
// "stopped" error.
func (b *Bridge) Stop() { close(b.stop) }

// edgeLoop stands in for the AT clock-edge interrupt: on the target this is
// an ISR; on a host process it is a goroutine that parks on the next
// falling edge and runs the handler under the critical section.
func (b *Bridge) edgeLoop() {
	for {
		select {
		case <-b.stop:
			return
		default:
		}
		if !b.Pins.WaitForAtClkFallingEdge(100 * time.Millisecond) {
			continue
		}
		b.CS.With(func(tok platform.Token) {
			if err := b.handle.OnFallingEdge(tok); err != nil {
				b.Log.Printf("driver: clock-edge handler: %v", err)
			}
		})
	}
}

// resetKeyboard sends the AT reset byte and waits for its device ACK, the
// boot-time half of the bring-up sequence the FSM loop continues.
func (b *Bridge) resetKeyboard() error {
	return b.atTx.SendByte(resetByte)
}

// exec executes one Cmd and returns the ProcReply to feed back to the FSM.
func (b *Bridge) exec(cmd fsm.Cmd) (fsm.ProcReply, error) {
	switch cmd.Kind {
	case fsm.SendXTKey:
		if err := b.xtTx.SendByte(cmd.Byte); err != nil {
			return fsm.ProcReply{}, err
		}
		return fsm.ProcReply{Kind: fsm.Acked}, nil

	case fsm.ToggleLed:
		if err := b.sendLed(cmd.Byte); err != nil {
			return fsm.ProcReply{}, err
		}
		return fsm.ProcReply{Kind: fsm.Acked}, nil

	case fsm.ClearBuffer:
		b.CS.With(func(platform.Token) { b.buf.Flush() })
		return fsm.ProcReply{Kind: fsm.ClearedBuffer}, nil

	case fsm.WaitForKey:
		return b.waitForKey()

	default:
		return fsm.ProcReply{}, fmt.Errorf("unknown cmd kind %v", cmd.Kind)
	}
}

// sendLed transmits an LED-set command: 0xED, then the mask byte roughly
// 3ms later. It does not wait for the keyboard's 0xFA sub-acknowledgement
// between the two bytes beyond the ACK each already waits for inside
// SendByte.
func (b *Bridge) sendLed(mask byte) error {
	if err := b.atTx.SendByte(ledCmd); err != nil {
		return fmt.Errorf("led command byte: %w", err)
	}
	b.Delay.Microseconds(uint16(ledCmdDelay / time.Microsecond))
	if err := b.atTx.SendByte(mask); err != nil {
		return fmt.Errorf("led mask byte: %w", err)
	}
	return nil
}

// waitForKey implements the WaitForKey Cmd: busy-poll the input buffer and
// the host reset line; on host reset, re-run the keyboard reset and report
// KeyboardReset; otherwise extract and return the next scancode.
func (b *Bridge) waitForKey() (fsm.ProcReply, error) {
	for {
		select {
		case <-b.stop:
			return fsm.ProcReply{}, fmt.Errorf("stopped")
		default:
		}

		if b.Pins.XtSenseLow() {
			b.Log.Printf("driver: host reset requested")
			if err := b.resetKeyboard(); err != nil {
				return fsm.ProcReply{}, fmt.Errorf("host-reset: reset keyboard: %w", err)
			}
			if err := b.xtTx.SendByte(0xAA); err != nil {
				return fsm.ProcReply{}, fmt.Errorf("host-reset: forward BAT: %w", err)
			}
			return fsm.ProcReply{Kind: fsm.KeyboardReset}, nil
		}

		var word uint16
		var empty bool
		b.CS.With(func(platform.Token) {
			empty = b.buf.IsEmpty()
			if !empty {
				word = b.buf.Take()
			}
		})
		if empty {
			continue
		}
		return fsm.ProcReply{Kind: fsm.GrabbedKey, Byte: atframe.Scancode(word)}, nil
	}
}
