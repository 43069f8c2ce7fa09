// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"

	"periph.io/x/devices/v3/st7735/image16bit"
)

// newDev opens a device against a recording SPI port.
func newDev(t *testing.T, opts *Opts) (*Dev, *spitest.Record) {
	t.Helper()
	port := &spitest.Record{}
	dev, err := NewSPI(port, &gpiotest.Pin{N: "DC"}, &gpiotest.Pin{N: "CS"}, &gpiotest.Pin{N: "RST"}, opts)
	if err != nil {
		t.Fatalf("NewSPI() failed: %v", err)
	}
	return dev, port
}

// ioFromRecords expands controller records to the per-transaction writes
// seen on the bus: one for the command byte, one for its parameters.
func ioFromRecords(rs []record) []conntest.IO {
	var ops []conntest.IO
	for _, r := range rs {
		ops = append(ops, conntest.IO{W: []byte{r.cmd}})
		if len(r.data) != 0 {
			ops = append(ops, conntest.IO{W: r.data})
		}
	}
	return ops
}

func TestNewSPIInitSequence(t *testing.T) {
	_, port := newDev(t, &Opts{W: 4, H: 4})

	// Full initialization script, then one presented frame cleared to the
	// theme background (black).
	want := ioFromRecords(initWant)
	want = append(want, ioFromRecords([]record{
		{cmd: columnAddressSet, data: []byte{0x00, 0x00, 0x00, 0x03}},
		{cmd: rowAddressSet, data: []byte{0x00, 0x00, 0x00, 0x03}},
		{cmd: memoryWrite, data: make([]byte, 4*4*2)},
	})...)

	if diff := cmp.Diff(port.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("init wire capture difference (-got +want):\n%s", diff)
	}
}

func TestNewSPIValidation(t *testing.T) {
	tests := []Opts{
		{W: 0, H: 160},
		{W: 128, H: 0},
		{W: -1, H: 160},
		{W: 128, H: 163},
		{W: 200, H: 160},
	}
	for _, opts := range tests {
		o := opts
		if _, err := NewSPI(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &o); err == nil {
			t.Errorf("NewSPI(%dx%d) did not fail", o.W, o.H)
		}
	}
}

func TestUpdateEndToEnd(t *testing.T) {
	// 128x160: fill black, draw a red rectangle outline with corners
	// (10,10) and (20,20), flush. The wire must carry the address window
	// for the whole frame and exactly width*height*2 pixel bytes.
	dev, port := newDev(t, nil)
	port.Ops = nil

	dev.FillColor(image16bit.Black)
	dev.DrawRectColor(10, 10, 20, 20, image16bit.Red)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	frame := make([]byte, 128*160*2)
	for y := 0; y < 160; y++ {
		for x := 0; x < 128; x++ {
			onEdge := (x == 10 || x == 20) && y >= 10 && y <= 20 ||
				(y == 10 || y == 20) && x >= 10 && x <= 20
			if onEdge {
				frame[(y*128+x)*2] = 0xF8
			}
		}
	}
	want := []conntest.IO{
		{W: []byte{columnAddressSet}},
		{W: []byte{0x00, 0x00, 0x00, 127}},
		{W: []byte{rowAddressSet}},
		{W: []byte{0x00, 0x00, 0x00, 159}},
		{W: []byte{memoryWrite}},
		{W: frame},
	}
	if diff := cmp.Diff(port.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("update wire capture difference (-got +want):\n%s", diff)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	dev, port := newDev(t, &Opts{W: 8, H: 8})

	dev.FillColor(image16bit.Teal)
	port.Ops = nil
	if err := dev.Update(); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	first := port.Ops

	port.Ops = nil
	if err := dev.Update(); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if diff := cmp.Diff(port.Ops, first, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("repeated Update() produced different wire bytes (-got +want):\n%s", diff)
	}
}

func TestThemeResolution(t *testing.T) {
	dev, _ := newDev(t, &Opts{W: 8, H: 8})

	dev.DrawPixel(0, 0, true)
	dev.DrawPixel(1, 0, false)
	if got := dev.buffer.RGB565At(0, 0); got != image16bit.White {
		t.Errorf("foreground pixel = %#04x, want white", got)
	}
	if got := dev.buffer.RGB565At(1, 0); got != image16bit.Black {
		t.Errorf("background pixel = %#04x, want black", got)
	}

	dev.SetTheme(MatrixTheme)
	if dev.Theme() != MatrixTheme {
		t.Errorf("Theme() = %v, want MatrixTheme", dev.Theme())
	}
	dev.Fill(true)
	if got := dev.buffer.RGB565At(3, 3); got != image16bit.Green {
		t.Errorf("themed fill = %#04x, want green", got)
	}
	dev.DrawLine(0, 0, 7, 7, false)
	if got := dev.buffer.RGB565At(7, 7); got != image16bit.Black {
		t.Errorf("themed line = %#04x, want black", got)
	}
}

func TestThemeDefaultFromZeroOpts(t *testing.T) {
	dev, _ := newDev(t, &Opts{W: 4, H: 4})
	if dev.Theme() != DefaultTheme {
		t.Errorf("Theme() = %v, want DefaultTheme", dev.Theme())
	}
}

func TestLegacyAdapters(t *testing.T) {
	// The boolean entry points must paint exactly like their color
	// counterparts called with the resolved theme color.
	legacy, _ := newDev(t, &Opts{W: 16, H: 16})
	direct, _ := newDev(t, &Opts{W: 16, H: 16})

	legacy.DrawRect(2, 2, 12, 12, true)
	legacy.DrawHLine(0, 14, 16, true)
	legacy.DrawVLine(14, 0, 16, false)
	direct.DrawRectColor(2, 2, 12, 12, image16bit.White)
	direct.DrawHLineColor(0, 14, 16, image16bit.White)
	direct.DrawVLineColor(14, 0, 16, image16bit.Black)

	if diff := cmp.Diff(legacy.buffer.Pix, direct.buffer.Pix); diff != "" {
		t.Errorf("legacy adapter difference (-legacy +direct):\n%s", diff)
	}
}

func TestSetPixelRGB(t *testing.T) {
	dev, _ := newDev(t, &Opts{W: 4, H: 4})
	dev.SetPixelRGB(1, 2, 0xFF, 0x00, 0x00)
	if got := dev.buffer.RGB565At(1, 2); got != image16bit.Red {
		t.Errorf("SetPixelRGB = %#04x, want red", got)
	}
	// Out of bounds is silently dropped.
	dev.SetPixelRGB(4, 4, 0xFF, 0xFF, 0xFF)
}

func TestDraw(t *testing.T) {
	dev, port := newDev(t, &Opts{W: 8, H: 8})
	port.Ops = nil

	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.Set(5, 5, color.RGBA{0xFF, 0x00, 0x00, 0xFF})
	if err := dev.Draw(dev.Bounds(), src, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if got := dev.buffer.RGB565At(5, 5); got != image16bit.Red {
		t.Errorf("buffer pixel = %#04x, want red", got)
	}
	if len(port.Ops) != 6 {
		t.Errorf("Draw() produced %d transactions, want 6", len(port.Ops))
	}
}

func TestDrawFastPath(t *testing.T) {
	dev, _ := newDev(t, &Opts{W: 8, H: 8})

	img := image16bit.NewImage(dev.Bounds())
	img.Fill(image16bit.Gold)
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if got := dev.buffer.RGB565At(0, 0); got != image16bit.Gold {
		t.Errorf("buffer pixel = %#04x, want gold", got)
	}
}

func TestInvert(t *testing.T) {
	dev, port := newDev(t, &Opts{W: 4, H: 4})
	port.Ops = nil

	if err := dev.Invert(true); err != nil {
		t.Fatalf("Invert(true) failed: %v", err)
	}
	if err := dev.Invert(false); err != nil {
		t.Fatalf("Invert(false) failed: %v", err)
	}
	want := []conntest.IO{
		{W: []byte{displayInversionOn}},
		{W: []byte{displayInversionOff}},
	}
	if diff := cmp.Diff(port.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("invert wire capture difference (-got +want):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	dev, port := newDev(t, &Opts{W: 4, H: 4})
	port.Ops = nil

	if err := dev.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	want := []conntest.IO{{W: []byte{displayOff}}}
	if diff := cmp.Diff(port.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("halt wire capture difference (-got +want):\n%s", diff)
	}

	if err := dev.Update(); err == nil {
		t.Error("Update() after Halt() did not fail")
	}
	if err := dev.Invert(true); err == nil {
		t.Error("Invert() after Halt() did not fail")
	}
	// The in-memory buffer stays writable.
	dev.SetPixel(0, 0, image16bit.White)
	if got := dev.buffer.RGB565At(0, 0); got != image16bit.White {
		t.Errorf("buffer pixel = %#04x, want white", got)
	}
}

func TestGeometry(t *testing.T) {
	dev, _ := newDev(t, nil)
	if dev.Width() != 128 || dev.Height() != 160 {
		t.Errorf("Width()xHeight() = %dx%d, want 128x160", dev.Width(), dev.Height())
	}
	if dev.Bounds() != image.Rect(0, 0, 128, 160) {
		t.Errorf("Bounds() = %v", dev.Bounds())
	}
	if dev.ColorModel() != image16bit.RGB565Model {
		t.Error("ColorModel() did not return RGB565Model")
	}
	if s := dev.String(); !strings.HasPrefix(s, "st7735.Dev{") || !strings.HasSuffix(s, "128x160}") {
		t.Errorf("String() = %q", s)
	}
}
