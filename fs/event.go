// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fs exposes the small slice of Linux epoll used to turn a
// /sys/class/gpio/gpio*/value file descriptor into a blocking wait for the
// next edge interrupt.
package fs

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Event waits for an edge on a single file descriptor registered with
// epoll. The zero value is not ready for use; call MakeEvent first.
type Event struct {
	epFd int
	fd   int
}

// MakeEvent creates the epoll instance and registers fd for priority and
// error events, which is how the kernel signals a GPIO sysfs edge.
func (e *Event) MakeEvent(fd uintptr) error {
	epFd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	ev := unix.EpollEvent{Events: unix.EPOLLPRI | unix.EPOLLERR, Fd: int32(fd)}
	if err := unix.EpollCtl(epFd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
		_ = unix.Close(epFd)
		return err
	}
	e.epFd = epFd
	e.fd = int(fd)
	return nil
}

// Wait blocks until an edge fires or ms milliseconds elapse (-1 waits
// forever). It returns the number of ready events, as epoll_wait does.
func (e *Event) Wait(ms int) (int, error) {
	if e.epFd == 0 {
		return 0, errors.New("fs: event not initialized")
	}
	var events [1]unix.EpollEvent
	for {
		n, err := unix.EpollWait(e.epFd, events[:], ms)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}
