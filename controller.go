// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import (
	"time"

	"periph.io/x/devices/v3/st7735/image16bit"
)

// Commands
const (
	swReset                 byte = 0x01
	sleepOut                byte = 0x11
	normalDisplayOn         byte = 0x13
	displayInversionOff     byte = 0x20
	displayInversionOn      byte = 0x21
	displayOff              byte = 0x28
	displayOn               byte = 0x29
	columnAddressSet        byte = 0x2A
	rowAddressSet           byte = 0x2B
	memoryWrite             byte = 0x2C
	memoryAccessControl     byte = 0x36
	pixelFormatSet          byte = 0x3A
	frameRateControlNormal  byte = 0xB1
	frameRateControlIdle    byte = 0xB2
	frameRateControlPartial byte = 0xB3
	displayInversionControl byte = 0xB4
	powerControl1           byte = 0xC0
	powerControl2           byte = 0xC1
	powerControl3           byte = 0xC2
	powerControl4           byte = 0xC3
	powerControl5           byte = 0xC4
	vcomControl1            byte = 0xC5
	positiveGammaControl    byte = 0xE0
	negativeGammaControl    byte = 0xE1
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	delay(time.Duration)
}

// initDisplay runs the vendor power-on script. The order is mandated by the
// datasheet: power sequencing and sleep-out must precede display-on, and the
// pixel format must be selected before the first memory write. Delays are
// minimums.
func initDisplay(ctrl controller) {
	ctrl.sendCommand(swReset)
	ctrl.delay(150 * time.Millisecond)

	ctrl.sendCommand(sleepOut)
	ctrl.delay(120 * time.Millisecond)

	ctrl.sendCommand(frameRateControlNormal)
	ctrl.sendData([]byte{0x01, 0x2C, 0x2D})

	ctrl.sendCommand(frameRateControlIdle)
	ctrl.sendData([]byte{0x01, 0x2C, 0x2D})

	ctrl.sendCommand(frameRateControlPartial)
	ctrl.sendData([]byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D})

	// No display inversion, dot inversion in all modes.
	ctrl.sendCommand(displayInversionControl)
	ctrl.sendData([]byte{0x07})

	ctrl.sendCommand(powerControl1)
	ctrl.sendData([]byte{0xA2, 0x02, 0x84})

	ctrl.sendCommand(powerControl2)
	ctrl.sendData([]byte{0xC5})

	ctrl.sendCommand(powerControl3)
	ctrl.sendData([]byte{0x0A, 0x00})

	ctrl.sendCommand(powerControl4)
	ctrl.sendData([]byte{0x8A, 0x2A})

	ctrl.sendCommand(powerControl5)
	ctrl.sendData([]byte{0x8A, 0xEE})

	ctrl.sendCommand(vcomControl1)
	ctrl.sendData([]byte{0x0E})

	ctrl.sendCommand(displayInversionOff)

	// Row address order bottom-to-top, column order right-to-left, BGR panel
	// wiring. Matches the red-tab module orientation.
	ctrl.sendCommand(memoryAccessControl)
	ctrl.sendData([]byte{0xC8})

	// 16-bit RGB565.
	ctrl.sendCommand(pixelFormatSet)
	ctrl.sendData([]byte{0x05})
	ctrl.delay(10 * time.Millisecond)

	ctrl.sendCommand(positiveGammaControl)
	ctrl.sendData([]byte{
		0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D,
		0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10,
	})

	ctrl.sendCommand(negativeGammaControl)
	ctrl.sendData([]byte{
		0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D,
		0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10,
	})

	ctrl.sendCommand(normalDisplayOn)
	ctrl.delay(10 * time.Millisecond)

	ctrl.sendCommand(displayOn)
	ctrl.delay(100 * time.Millisecond)
}

// updateDisplay mirrors img to the panel as one windowed write covering the
// whole addressable area: column window, row window, then the full pixel
// burst.
func updateDisplay(ctrl controller, img *image16bit.Image) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	ctrl.sendCommand(columnAddressSet)
	ctrl.sendData([]byte{0x00, 0x00, byte((w - 1) >> 8), byte(w - 1)})

	ctrl.sendCommand(rowAddressSet)
	ctrl.sendData([]byte{0x00, 0x00, byte((h - 1) >> 8), byte(h - 1)})

	ctrl.sendCommand(memoryWrite)
	ctrl.sendData(img.Pix)
}
