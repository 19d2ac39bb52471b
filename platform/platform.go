// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package platform supplies two narrow platform-service abstractions beyond
// GPIO itself: a blocking microsecond delay, and a critical section that
// serializes the clock-edge handler against the main loop. A real MCU masks
// interrupts for the latter; a host process has no such primitive, so
// CriticalSection uses a mutex, and functions that touch state the edge
// handler also touches take a Token parameter to mark that they expect to
// run inside it. The compiler does not enforce this: a zero Token can be
// declared anywhere.
package platform

import (
	"runtime"
	"sync"
	"time"

	"github.com/nstenzel/atxtbridge/flags"
)

// Delay is a blocking microsecond delay, ±20% tolerance acceptable. Two
// implementations are provided, selected at construction time rather than
// at compile time, since a host binary has no reason to pick one at build
// time the way firmware does.
type Delay interface {
	Microseconds(us uint16)
}

// BusyDelay spins on time.Sleep. It never touches the Timeout flag.
type BusyDelay struct{}

// Microseconds blocks for approximately us microseconds.
func (BusyDelay) Microseconds(us uint16) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// TimerDelay arms a one-shot timer and polls the shared Timeout flag it
// sets on expiry, mirroring a hardware-timer delay backend.
type TimerDelay struct {
	Timeout *flags.Flag
}

// Microseconds blocks until the timer fires and Timeout observes set.
func (t TimerDelay) Microseconds(us uint16) {
	t.Timeout.Clear()
	timer := time.AfterFunc(time.Duration(us)*time.Microsecond, t.Timeout.Set)
	defer timer.Stop()
	for !t.Timeout.IsSet() {
		runtime.Gosched()
	}
}

// Token marks code running inside a CriticalSection: CriticalSection.With
// passes one to its callback. Its zero value can also be declared directly
// by any package, so holding a Token does not by itself prove the section
// is held.
type Token struct{ _ struct{} }

// CriticalSection serializes the clock-edge handler goroutine against the
// main loop's own access to the shared shift registers, input buffer, and
// pin state -- the host-process analog of globally masking interrupts.
type CriticalSection struct {
	mu sync.Mutex
}

// With runs f while holding the section, passing it the Token that proves
// exclusive access.
func (c *CriticalSection) With(f func(Token)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(Token{})
}
