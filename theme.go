// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import "periph.io/x/devices/v3/st7735/image16bit"

// Theme groups the colors consumed by the two-tone drawing calls.
type Theme struct {
	// Foreground is used when a two-tone call is passed true.
	Foreground image16bit.RGB565
	// Background is used when a two-tone call is passed false, and as the
	// initial screen color.
	Background image16bit.RGB565
	// Accent is not consumed by the driver itself; it is a slot for UI code
	// wanting a third, consistent highlight color.
	Accent image16bit.RGB565
}

// Predefined themes.
var (
	DefaultTheme   = Theme{image16bit.White, image16bit.Black, image16bit.Cyan}
	CyberpunkTheme = Theme{image16bit.Cyan, image16bit.DarkBlue, image16bit.Magenta}
	MatrixTheme    = Theme{image16bit.Green, image16bit.Black, image16bit.Lime}
	SunsetTheme    = Theme{image16bit.Orange, image16bit.Purple, image16bit.Yellow}
	OceanTheme     = Theme{image16bit.SkyBlue, image16bit.Navy, image16bit.Cyan}
	RetroTheme     = Theme{image16bit.Yellow, image16bit.Brown, image16bit.Orange}
	NeonTheme      = Theme{image16bit.Magenta, image16bit.Black, image16bit.Cyan}
)
