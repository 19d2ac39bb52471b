// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package distro exposes bits of identification about the host this process
// is running on, used to pick the right /sys/class/gpio symlink layout and
// header pinout for a board.
package distro

import (
	"os"
	"strings"
)

// DTModel returns the kernel-reported device tree model name, e.g.
// "FriendlyARM NanoPi NEO Air". It returns "" if the system has no
// device tree (non-ARM hosts, most CI runners).
func DTModel() string {
	b, err := os.ReadFile("/proc/device-tree/model")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\x00\n")
}
