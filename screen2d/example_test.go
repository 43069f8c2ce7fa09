// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen2d_test

import (
	"image"
	"log"

	"periph.io/x/devices/v3/st7735/image16bit"
	"periph.io/x/devices/v3/st7735/screen2d"
)

func Example() {
	// Emulate a small panel strip in the terminal; no hardware needed.
	d := screen2d.New(&screen2d.Opts{W: 32, H: 8})

	img := image16bit.NewImage(d.Bounds())
	img.Fill(image16bit.Navy)
	img.DrawRect(1, 1, 30, 6, image16bit.Cyan)
	img.DrawLine(1, 1, 30, 6, image16bit.Yellow)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
	_ = d.Halt()
}
