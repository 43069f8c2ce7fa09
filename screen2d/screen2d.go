// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a display.Drawer that renders an RGB565
// framebuffer to the terminal (stdout) using ANSI color codes.
//
// Useful to develop UI code for an ST7735 panel while the hardware is still
// in the mail.
package screen2d

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"periph.io/x/devices/v3/st7735/image16bit"
)

// Opts represents the options available for this display.
type Opts struct {
	W       int
	H       int
	Palette *ansi256.Palette
	// Writer overrides the output. Defaults to a colorable stdout.
	Writer io.Writer

	_ struct{}
}

// Dev is a 2D TFT panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette

	img *image16bit.Image
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Permits local testing of panel drawing code.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		palette: *p,
		img:     image16bit.NewImage(image.Rect(0, 0, opts.W, opts.H)),
	}
}

func (d *Dev) String() string {
	return "Screen2D"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Write accepts a full frame of big-endian RGB565 pixels and renders it.
//
// This matches the stream produced for the real panel's bulk memory write.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.img.Pix) {
		return 0, errors.New("screen2d: invalid RGB565 stream length")
	}
	copy(d.img.Pix, pixels)
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image16bit.RGB565Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.img, r, src, sp)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	b := d.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, _ := d.img.RGB565At(x, y).RGBA()
			c := color.NRGBA{byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8), 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
