// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fsm implements the control FSM (component H): a total Mealy
// machine that sequences keyboard power-on reset, LED initialization,
// steady-state key forwarding, and the host-reset branch. It holds no pins,
// timers, or buffers of its own -- package driver executes the Cmd each
// state emits and feeds the resulting ProcReply back in.
package fsm

import (
	"fmt"

	"github.com/nstenzel/atxtbridge/atframe"
)

// State names one node of the machine. The zero value, ExpectBAT, is also
// the state the host-reset branch flushes through on its way back to.
type State int

const (
	ExpectBAT State = iota
	Start
	LedInit1
	LedInit2
	LedInit3
	Steady
	Emit
	ClearBuf
)

func (s State) String() string {
	switch s {
	case ExpectBAT:
		return "ExpectBAT"
	case Start:
		return "Start"
	case LedInit1:
		return "LedInit1"
	case LedInit2:
		return "LedInit2"
	case LedInit3:
		return "LedInit3"
	case Steady:
		return "Steady"
	case Emit:
		return "Emit"
	case ClearBuf:
		return "ClearBuf"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// batScancode is the BAT byte (0xAA) as it arrives through WaitForKey:
// driver.waitForKey reports GrabbedKey bytes via atframe.Scancode, which
// bit-reverses the raw AT frame body the same way it does for every other
// key, so the wire byte 0xAA surfaces here as BitReverse8(0xAA) = 0x55.
// Comparing against the raw 0xAA would never match and the machine would
// never leave ExpectBAT.
var batScancode = atframe.BitReverse8(0xAA)

// CmdKind tags the variant held by a Cmd.
type CmdKind int

const (
	SendXTKey CmdKind = iota
	WaitForKey
	ToggleLed
	ClearBuffer
)

func (k CmdKind) String() string {
	switch k {
	case SendXTKey:
		return "SendXTKey"
	case WaitForKey:
		return "WaitForKey"
	case ToggleLed:
		return "ToggleLed"
	case ClearBuffer:
		return "ClearBuffer"
	default:
		return fmt.Sprintf("CmdKind(%d)", int(k))
	}
}

// Cmd is emitted by a state on entry, for package driver to execute.
type Cmd struct {
	Kind CmdKind
	Byte byte // valid for SendXTKey and ToggleLed
}

// ReplyKind tags the variant held by a ProcReply.
type ReplyKind int

const (
	// Acked answers SendXTKey and ToggleLed: the operation completed.
	Acked ReplyKind = iota
	// GrabbedKey answers WaitForKey: a scancode was pulled from the buffer.
	GrabbedKey
	// KeyboardReset answers WaitForKey: xt_sense went low and the driver
	// already re-ran the AT reset and forwarded the BAT to the host.
	KeyboardReset
	// ClearedBuffer answers ClearBuffer.
	ClearedBuffer
)

// ProcReply is what the driver reports back after executing a Cmd.
type ProcReply struct {
	Kind ReplyKind
	Byte byte // valid for GrabbedKey
}

// ledMask is the fixed three-step LED toggle sequence the boot sequence
// emits so a user can observe the bridge has come up: Num Lock on, then
// Caps+Num on, then all off.
var ledMask = [3]byte{0x02, 0x04 | 0x02, 0x00}

// Machine holds the current state. The zero value starts at ExpectBAT,
// matching the driver's boot sequence: it sends the AT reset byte itself,
// then asks the machine for its first Cmd.
type Machine struct {
	state   State
	pending byte // scancode grabbed in Steady, carried into Emit
}

// State reports the current state, for logging.
func (m *Machine) State() State { return m.state }

// Entry returns the Cmd the current state emits on entry. Call this once
// after construction and again after every Apply.
func (m *Machine) Entry() Cmd {
	switch m.state {
	case ExpectBAT:
		return Cmd{Kind: WaitForKey}
	case Start:
		return Cmd{Kind: SendXTKey, Byte: 0xAA}
	case LedInit1:
		return Cmd{Kind: ToggleLed, Byte: ledMask[0]}
	case LedInit2:
		return Cmd{Kind: ToggleLed, Byte: ledMask[1]}
	case LedInit3:
		return Cmd{Kind: ToggleLed, Byte: ledMask[2]}
	case Steady:
		return Cmd{Kind: WaitForKey}
	case Emit:
		return Cmd{Kind: SendXTKey, Byte: m.pending}
	case ClearBuf:
		return Cmd{Kind: ClearBuffer}
	default:
		panic(fmt.Sprintf("fsm: Entry: unhandled state %s", m.state))
	}
}

// Apply feeds back the reply to the Cmd last returned by Entry and advances
// the state, returning the Cmd the new state emits. The transition function
// is total for every valid (state, reply kind) pairing; any other pairing
// is a driver bug and panics.
func (m *Machine) Apply(reply ProcReply) Cmd {
	switch m.state {
	case ExpectBAT:
		switch reply.Kind {
		case GrabbedKey:
			if reply.Byte != batScancode {
				// Not a BAT byte: keep waiting for the real one.
				return m.Entry()
			}
			m.state = Start
		case KeyboardReset:
			m.state = ClearBuf
		default:
			panic(fmt.Sprintf("fsm: ExpectBAT: unexpected reply %v", reply.Kind))
		}
	case Start:
		if reply.Kind != Acked {
			panic(fmt.Sprintf("fsm: Start: unexpected reply %v", reply.Kind))
		}
		m.state = LedInit1
	case LedInit1:
		if reply.Kind != Acked {
			panic(fmt.Sprintf("fsm: LedInit1: unexpected reply %v", reply.Kind))
		}
		m.state = LedInit2
	case LedInit2:
		if reply.Kind != Acked {
			panic(fmt.Sprintf("fsm: LedInit2: unexpected reply %v", reply.Kind))
		}
		m.state = LedInit3
	case LedInit3:
		if reply.Kind != Acked {
			panic(fmt.Sprintf("fsm: LedInit3: unexpected reply %v", reply.Kind))
		}
		m.state = Steady
	case Steady:
		switch reply.Kind {
		case GrabbedKey:
			m.pending = reply.Byte
			m.state = Emit
		case KeyboardReset:
			m.state = ClearBuf
		default:
			panic(fmt.Sprintf("fsm: Steady: unexpected reply %v", reply.Kind))
		}
	case Emit:
		if reply.Kind != Acked {
			panic(fmt.Sprintf("fsm: Emit: unexpected reply %v", reply.Kind))
		}
		m.state = Steady
	case ClearBuf:
		if reply.Kind != ClearedBuffer {
			panic(fmt.Sprintf("fsm: ClearBuf: unexpected reply %v", reply.Kind))
		}
		m.state = ExpectBAT
	default:
		panic(fmt.Sprintf("fsm: Apply: unhandled state %s", m.state))
	}
	return m.Entry()
}
