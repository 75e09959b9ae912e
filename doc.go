// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the PCD8544 LCD driver and its
// terminal emulator.
//
// See pcd8544 for the driver and lcdsim for a controller that renders on
// the terminal.
package devices
