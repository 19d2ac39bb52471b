// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package flags holds the three single-bit, single-producer/single-consumer
// booleans shared between the AT clock-edge handler and the main loop:
// HostMode, DeviceAck and Timeout. They are modeled as atomic.Bool rather
// than ambient package-level mutable variables so ownership is explicit at
// every call site.
package flags

import "sync/atomic"

// Flag is a release-store / acquire-load boolean. The zero value is false.
type Flag struct {
	v atomic.Bool
}

// Set stores true.
func (f *Flag) Set() { f.v.Store(true) }

// Clear stores false.
func (f *Flag) Clear() { f.v.Store(false) }

// IsSet loads the current value.
func (f *Flag) IsSet() bool { return f.v.Load() }

// Bridge bundles the three flags the ISR and main loop share.
//
// HostMode is true while the micro is driving the AT bus (transmitting to
// the keyboard); it selects which branch the clock-edge handler runs.
//
// DeviceAck is set by the handler once the keyboard has pulled data low at
// the end of a host-to-device byte, the AT ACK bit.
//
// Timeout is set by the delay backend's timer implementation when a
// programmed delay has elapsed; the busy-loop backend never touches it.
type Bridge struct {
	HostMode  Flag
	DeviceAck Flag
	Timeout   Flag
}
