// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package platform

import (
	"testing"
	"time"

	"github.com/nstenzel/atxtbridge/flags"
)

func TestBusyDelayBlocksApproximately(t *testing.T) {
	start := time.Now()
	BusyDelay{}.Microseconds(2000)
	if elapsed := time.Since(start); elapsed < 1500*time.Microsecond {
		t.Errorf("BusyDelay returned too early: %v", elapsed)
	}
}

func TestTimerDelaySetsTimeout(t *testing.T) {
	var timeout flags.Flag
	d := TimerDelay{Timeout: &timeout}
	d.Microseconds(1000)
	if !timeout.IsSet() {
		t.Fatal("Timeout flag not set after Microseconds returns")
	}
}

func TestCriticalSectionExcludes(t *testing.T) {
	var cs CriticalSection
	entered := false
	cs.With(func(Token) {
		entered = true
	})
	if !entered {
		t.Fatal("With did not invoke f")
	}
}

func TestCriticalSectionSerializes(t *testing.T) {
	var cs CriticalSection
	n := 0
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			cs.With(func(Token) {
				local := n
				local++
				n = local
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}
	if n != 50 {
		t.Errorf("n = %d, want 50 (critical section did not serialize)", n)
	}
}
