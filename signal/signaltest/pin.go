// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package signaltest provides a fake gpio.PinIO for exercising the bridge
// packages without real hardware, generalizing the DummyGPIOLine pattern
// gpioioctl's own tests use into something every package under this module
// can import.
package signaltest

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is a fake gpio.PinIO backed by an in-memory level, with open-drain
// semantics: multiple Pins can share a Bus, and the bus reads low if any
// participant is driving it low, high otherwise -- modeling the AT and XT
// lines' pull-ups and open-drain outputs.
type Pin struct {
	PinName string
	Bus     *Bus

	mu        sync.Mutex
	direction gpio.Pull
	edge      gpio.Edge
	driving   bool
	level     gpio.Level
	edgeCh    chan struct{}
}

// Bus models a shared open-drain line: High unless some participant pin is
// driving Low.
type Bus struct {
	mu    sync.Mutex
	low   map[*Pin]bool
	level gpio.Level
}

// NewBus returns an idle (High) bus.
func NewBus() *Bus {
	return &Bus{low: map[*Pin]bool{}, level: gpio.High}
}

func (b *Bus) setDriving(p *Pin, drivingLow bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if drivingLow {
		b.low[p] = true
	} else {
		delete(b.low, p)
	}
	if len(b.low) > 0 {
		b.level = gpio.Low
	} else {
		b.level = gpio.High
	}
}

func (b *Bus) read() gpio.Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

// ForceLevel drives the bus directly, bypassing any Pin -- used to
// simulate the keyboard or host end of the wire from a test.
func (b *Bus) ForceLevel(l gpio.Level) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l == gpio.Low {
		b.low[nil] = true
	} else {
		delete(b.low, nil)
	}
	if len(b.low) > 0 {
		b.level = gpio.Low
	} else {
		b.level = gpio.High
	}
}

func (p *Pin) String() string   { return p.PinName }
func (p *Pin) Name() string     { return p.PinName }
func (p *Pin) Number() int      { return -1 }
func (p *Pin) Function() string { return "" }
func (p *Pin) Halt() error      { return nil }

func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.mu.Lock()
	p.direction = pull
	p.edge = edge
	p.driving = false
	p.mu.Unlock()
	p.Bus.setDriving(p, false)
	return nil
}

func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	p.driving = l == gpio.Low
	p.level = l
	p.mu.Unlock()
	p.Bus.setDriving(p, l == gpio.Low)
	return nil
}

func (p *Pin) Read() gpio.Level { return p.Bus.read() }

func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.direction
}

func (p *Pin) DefaultPull() gpio.Pull { return gpio.PullUp }

func (p *Pin) PWM(gpio.Duty, physic.Frequency) error { return nil }

// WaitForEdge blocks until Trigger is called or timeout elapses (0 means
// forever). It returns false on timeout.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	p.mu.Lock()
	if p.edgeCh == nil {
		p.edgeCh = make(chan struct{}, 1)
	}
	ch := p.edgeCh
	p.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Trigger wakes one pending WaitForEdge call, simulating a falling edge
// arriving on the line.
func (p *Pin) Trigger() {
	p.mu.Lock()
	if p.edgeCh == nil {
		p.edgeCh = make(chan struct{}, 1)
	}
	ch := p.edgeCh
	p.mu.Unlock()
	select {
	case ch <- struct{}{}:
	default:
	}
}
