// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package inbuffer implements the single-slot hand-off of one completed AT
// frame from the clock-edge handler to the main loop.
package inbuffer

// Buffer holds at most one pending AT frame word. It is not safe for
// concurrent use; the clock-edge handler and the main loop both mutate it
// only from within a critical section (see the platform package), so no
// internal lock is taken here.
type Buffer struct {
	present bool
	word    uint16
}

// Put stores w, overwriting any previously stored word. Under the AT
// inhibit protocol the keyboard is held off between a receive completing
// and the main loop consuming it, so Put should never observe present
// already true; if it does, the overwrite is accepted silently as a
// logically-impossible event rather than treated as an error.
func (b *Buffer) Put(w uint16) {
	b.word = w
	b.present = true
}

// Take returns the stored word and clears the slot. Calling Take when the
// buffer is empty is a programming error and panics.
func (b *Buffer) Take() uint16 {
	if !b.present {
		panic("inbuffer: Take on empty buffer")
	}
	b.present = false
	return b.word
}

// IsEmpty reports whether no word is currently pending.
func (b *Buffer) IsEmpty() bool { return !b.present }

// Flush clears any pending word without returning it, used after a
// host-initiated reset.
func (b *Buffer) Flush() { b.present = false }
