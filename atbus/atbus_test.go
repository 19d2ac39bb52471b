// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package atbus_test

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/nstenzel/atxtbridge/atbus"
	"github.com/nstenzel/atxtbridge/atframe"
	"github.com/nstenzel/atxtbridge/flags"
	"github.com/nstenzel/atxtbridge/inbuffer"
	"github.com/nstenzel/atxtbridge/isr"
	"github.com/nstenzel/atxtbridge/platform"
	"github.com/nstenzel/atxtbridge/signal"
	"github.com/nstenzel/atxtbridge/signal/signaltest"
)

// TestSendByteFullHandshake drives atbus.Transmitter against isr.Handler
// exactly the way driver.Bridge wires them in production: a goroutine
// plays the keyboard's role, answering each at_clk edge the way a real
// keyboard would during a host-to-device transmission (scenario S5's
// "firmware mid-send_byte_to_at_keyboard" setup, simplified to the
// non-contended case).
func TestSendByteFullHandshake(t *testing.T) {
	clkBus := signaltest.NewBus()
	dataBus := signaltest.NewBus()
	clk := &signaltest.Pin{PinName: "at_clk", Bus: clkBus}
	data := &signaltest.Pin{PinName: "at_data", Bus: dataBus}
	pins := &signal.Pins{AtClk: clk, AtData: data}

	var fl flags.Bridge
	var out atframe.KeyOut
	var cs platform.CriticalSection
	h := &isr.Handler{Pins: pins, In: &atframe.KeyIn{}, Out: &out, Buffer: &inbuffer.Buffer{}, Flags: &fl}
	tx := &atbus.Transmitter{Pins: pins, Out: &out, Flags: &fl, CS: &cs, Delay: platform.BusyDelay{}}

	// Keyboard-side goroutine: wait for the inhibit to end (at_clk released
	// with the interrupt re-armed), then clock the remaining 10 bits (the
	// start bit was already driven by SendByte itself), then pulse the ACK.
	keyboardDone := make(chan struct{})
	go func() {
		defer close(keyboardDone)
		for i := 0; i < 10; i++ {
			for !fl.HostMode.IsSet() {
				time.Sleep(time.Microsecond)
			}
			cs.With(func(tok platform.Token) { _ = h.OnFallingEdge(tok) })
		}
		// Final edge: keyboard pulls at_data low as its ACK.
		for !fl.HostMode.IsSet() {
			time.Sleep(time.Microsecond)
		}
		dataBus.ForceLevel(gpio.Low)
		cs.With(func(tok platform.Token) { _ = h.OnFallingEdge(tok) })
	}()

	if err := tx.SendByte(0x42); err != nil {
		t.Fatalf("SendByte: %v", err)
	}
	<-keyboardDone

	if fl.HostMode.IsSet() {
		t.Error("HostMode still set after SendByte returned")
	}
	if !out.IsEmpty() {
		t.Error("KeyOut not drained after full handshake")
	}
}
