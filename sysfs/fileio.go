// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"os"
	"runtime"
)

// isLinux is true when running on a kernel that exposes /sys/class/gpio.
//
// The bridge only ever runs against real hardware on Linux; other GOOS
// values are for running the package's tests on a development machine.
const isLinux = runtime.GOOS == "linux"

// fileIO is the subset of *os.File used by Pin. It exists so tests can
// substitute an in-memory fake instead of touching /sys/class/gpio.
type fileIO interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
	Fd() uintptr
}

// fileIOOpen opens path with flag. It is a variable so a test can replace
// it with a fake.
var fileIOOpen = func(path string, flag int) (fileIO, error) {
	return os.OpenFile(path, flag, 0600)
}

// seekRead seeks to the beginning of f and reads into b.
func seekRead(f fileIO, b []byte) (int, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return 0, err
	}
	return f.Read(b)
}

// seekWrite seeks to the beginning of f and writes all of b.
func seekWrite(f fileIO, b []byte) error {
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := f.Write(b)
	return err
}

// isErrBusy returns true if err is the kernel's "device or resource busy",
// which /sys/class/gpio/export returns when a pin was already exported by a
// previous run of the bridge that didn't clean up after itself.
func isErrBusy(err error) bool {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err.Error() == "device or resource busy"
	}
	return false
}
