// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7735 controls a Sitronix ST7735 TFT LCD panel over 4-wire SPI.
//
// The driver owns a full RGB565 framebuffer in memory. Drawing calls mutate
// only the buffer; Update mirrors it to the panel as a single windowed
// write. The chip select is driven in software so the bus can be shared with
// other devices, as on boards that put a TFT and an SD card on the same SPI
// port.
//
// Datasheet:
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package st7735
