// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package inbuffer

import "testing"

func TestEmptyInitially(t *testing.T) {
	var b Buffer
	if !b.IsEmpty() {
		t.Fatal("zero-value Buffer not empty")
	}
}

func TestPutTake(t *testing.T) {
	var b Buffer
	b.Put(0x1234)
	if b.IsEmpty() {
		t.Fatal("IsEmpty true right after Put")
	}
	if got := b.Take(); got != 0x1234 {
		t.Errorf("Take() = %#04x, want 0x1234", got)
	}
	if !b.IsEmpty() {
		t.Fatal("IsEmpty false after Take")
	}
}

func TestPutOverwrite(t *testing.T) {
	var b Buffer
	b.Put(1)
	b.Put(2) // overwrite silently accepted under the inhibit protocol
	if got := b.Take(); got != 2 {
		t.Errorf("Take() = %d, want 2", got)
	}
}

func TestTakeOnEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Take on empty buffer did not panic")
		}
	}()
	var b Buffer
	b.Take()
}

func TestFlush(t *testing.T) {
	var b Buffer
	b.Put(7)
	b.Flush()
	if !b.IsEmpty() {
		t.Fatal("IsEmpty false after Flush")
	}
}
