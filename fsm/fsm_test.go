// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fsm

import "testing"

// TestBootSequence walks the machine through the boot sequence's state table:
// wait for BAT, forward it, then the three fixed LED toggles into Steady.
func TestBootSequence(t *testing.T) {
	m := &Machine{}
	if got := m.Entry(); got.Kind != WaitForKey {
		t.Fatalf("initial Cmd = %v, want WaitForKey", got.Kind)
	}

	// GrabbedKey carries the byte the way driver.waitForKey actually reports
	// it: atframe.Scancode-reversed, so the real BAT byte 0xAA arrives here
	// as batScancode (0x55), not 0xAA.
	cmd := m.Apply(ProcReply{Kind: GrabbedKey, Byte: batScancode})
	if cmd.Kind != SendXTKey || cmd.Byte != 0xAA {
		t.Fatalf("after BAT: Cmd = %+v, want SendXTKey(0xAA)", cmd)
	}
	if m.State() != Start {
		t.Fatalf("state = %s, want Start", m.State())
	}

	wantMasks := []byte{0x02, 0x06, 0x00}
	for i, want := range wantMasks {
		cmd = m.Apply(ProcReply{Kind: Acked})
		if cmd.Kind != ToggleLed || cmd.Byte != want {
			t.Fatalf("led step %d: Cmd = %+v, want ToggleLed(%#02x)", i, cmd, want)
		}
	}

	cmd = m.Apply(ProcReply{Kind: Acked})
	if cmd.Kind != WaitForKey || m.State() != Steady {
		t.Fatalf("after LED init: Cmd = %+v, state = %s, want WaitForKey/Steady", cmd, m.State())
	}
}

func bootToSteady(t *testing.T) *Machine {
	t.Helper()
	m := &Machine{}
	m.Apply(ProcReply{Kind: GrabbedKey, Byte: batScancode})
	// One Acked for Start's BAT forward, then one for each of the three LED toggles.
	for i := 0; i < 4; i++ {
		m.Apply(ProcReply{Kind: Acked})
	}
	if m.State() != Steady {
		t.Fatalf("bootToSteady: state = %s, want Steady", m.State())
	}
	return m
}

func TestSteadyEmitsKey(t *testing.T) {
	m := bootToSteady(t)
	cmd := m.Apply(ProcReply{Kind: GrabbedKey, Byte: 0x38})
	if cmd.Kind != SendXTKey || cmd.Byte != 0x38 {
		t.Fatalf("Cmd = %+v, want SendXTKey(0x38)", cmd)
	}
	if m.State() != Emit {
		t.Fatalf("state = %s, want Emit", m.State())
	}
	cmd = m.Apply(ProcReply{Kind: Acked})
	if cmd.Kind != WaitForKey || m.State() != Steady {
		t.Fatalf("after Emit: Cmd = %+v, state = %s, want WaitForKey/Steady", cmd, m.State())
	}
}

func TestHostResetFromSteadyRestarts(t *testing.T) {
	m := bootToSteady(t)
	cmd := m.Apply(ProcReply{Kind: KeyboardReset})
	if cmd.Kind != ClearBuffer || m.State() != ClearBuf {
		t.Fatalf("after KeyboardReset: Cmd = %+v, state = %s, want ClearBuffer/ClearBuf", cmd, m.State())
	}
	cmd = m.Apply(ProcReply{Kind: ClearedBuffer})
	if cmd.Kind != WaitForKey || m.State() != ExpectBAT {
		t.Fatalf("after ClearedBuffer: Cmd = %+v, state = %s, want WaitForKey/ExpectBAT", cmd, m.State())
	}
}

func TestHostResetFromExpectBATFlushesBuffer(t *testing.T) {
	m := &Machine{}
	cmd := m.Apply(ProcReply{Kind: KeyboardReset})
	if cmd.Kind != ClearBuffer || m.State() != ClearBuf {
		t.Fatalf("after KeyboardReset: Cmd = %+v, state = %s, want ClearBuffer/ClearBuf", cmd, m.State())
	}
	cmd = m.Apply(ProcReply{Kind: ClearedBuffer})
	if cmd.Kind != WaitForKey || m.State() != ExpectBAT {
		t.Fatalf("after ClearedBuffer: Cmd = %+v, state = %s, want WaitForKey/ExpectBAT", cmd, m.State())
	}
}

func TestExpectBATIgnoresNonBATKey(t *testing.T) {
	m := &Machine{}
	cmd := m.Apply(ProcReply{Kind: GrabbedKey, Byte: 0x1C})
	if cmd.Kind != WaitForKey || m.State() != ExpectBAT {
		t.Fatalf("non-BAT key: Cmd = %+v, state = %s, want WaitForKey/ExpectBAT", cmd, m.State())
	}
}

func TestIllegalReplyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Apply with illegal reply did not panic")
		}
	}()
	m := bootToSteady(t)
	m.state = Start // Start only accepts Acked
	m.Apply(ProcReply{Kind: GrabbedKey, Byte: 1})
}
