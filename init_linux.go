// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package atxtbridge

import (
	// Make sure both GPIO backends are registered so gpioreg.ByName can
	// resolve whichever one the running kernel actually exposes.
	_ "github.com/nstenzel/atxtbridge/gpioioctl"
	_ "github.com/nstenzel/atxtbridge/sysfs"
)
