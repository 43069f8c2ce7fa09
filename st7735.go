// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/st7735/image16bit"
)

// The ST7735 frame memory is 132x162 regardless of the attached glass.
const maxDim = 162

// DefaultOpts is the recommended default options: the common 1.8" 128x160
// red-tab module.
var DefaultOpts = Opts{
	W:     128,
	H:     160,
	Speed: 12 * physic.MegaHertz,
	Theme: DefaultTheme,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// Speed is the SPI clock rate. Defaults to 12MHz, close to the chip's
	// minimum write cycle time.
	Speed physic.Frequency
	// Theme provides the colors resolved by the two-tone drawing calls. The
	// zero value selects DefaultTheme.
	Theme Theme
}

// Dev is an open handle to the display controller.
type Dev struct {
	// Communication.
	c   conn.Conn
	dc  gpio.PinOut
	cs  gpio.PinOut
	rst gpio.PinOut

	// Display size controlled by the ST7735.
	rect image.Rectangle

	// Mutable.
	buffer *image16bit.Image
	theme  Theme
	halted bool
}

// NewSPI returns a Dev object that communicates over 4-wire SPI to an ST7735
// display controller.
//
// The SPI port is configured write-only at opts.Speed, Mode0 (clock idles
// low, sampling on the leading edge), 8 bits per word.
//
// # Wiring
//
// Connect SDA to SPI_MOSI and SCL to SPI_CLK. The dc (data/command select),
// cs (chip select) and rst (reset) pins are driven in software and can be
// any output-capable GPIOs.
//
// NewSPI pulses rst, runs the panel initialization script and presents one
// frame cleared to the theme background, so the panel comes up blank rather
// than showing frame memory noise.
func NewSPI(p spi.Port, dc, cs, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.W > maxDim {
		return nil, fmt.Errorf("st7735: invalid width %d", opts.W)
	}
	if opts.H <= 0 || opts.H > maxDim {
		return nil, fmt.Errorf("st7735: invalid height %d", opts.H)
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultOpts.Speed
	}
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme
	}

	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		c:      c,
		dc:     dc,
		cs:     cs,
		rst:    rst,
		rect:   image.Rect(0, 0, opts.W, opts.H),
		buffer: image16bit.NewImage(image.Rect(0, 0, opts.W, opts.H)),
		theme:  theme,
	}

	// Control lines idle high before the reset pulse.
	eh := errorHandler{d: d}
	eh.dcOut(gpio.High)
	eh.csOut(gpio.High)
	if eh.err != nil {
		return nil, eh.err
	}

	if err := d.reset(); err != nil {
		return nil, err
	}

	initDisplay(&eh)
	if eh.err != nil {
		return nil, eh.err
	}

	d.buffer.Fill(theme.Background)
	if err := d.Update(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7735.Dev{%s, %s, %dx%d}", d.c, d.dc, d.rect.Dx(), d.rect.Dy())
}

// Width returns the panel width in pixels.
func (d *Dev) Width() int {
	return d.rect.Dx()
}

// Height returns the panel height in pixels.
func (d *Dev) Height() int {
	return d.rect.Dy()
}

// SetTheme replaces the colors resolved by the two-tone drawing calls.
//
// Pixels already drawn keep their color; only subsequent calls are affected.
func (d *Dev) SetTheme(t Theme) {
	d.theme = t
}

// Theme returns the current theme.
func (d *Dev) Theme() Theme {
	return d.theme
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image16bit.RGB565Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It renders src into the framebuffer and flushes synchronously; once it
// returns the panel is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*image16bit.Image); ok && r == d.rect && img.Rect == d.rect && sp == (image.Point{}) {
		// Exact size, full frame, native encoding: fast path.
		copy(d.buffer.Pix, img.Pix)
	} else {
		draw.Src.Draw(d.buffer, r, src, sp)
	}
	return d.Update()
}

// DrawPixel draws a pixel in the theme foreground or background color.
func (d *Dev) DrawPixel(x, y int, on bool) {
	d.SetPixel(x, y, d.onColor(on))
}

// SetPixel writes one packed color into the framebuffer. Out-of-bounds
// coordinates are silently dropped.
func (d *Dev) SetPixel(x, y int, c image16bit.RGB565) {
	d.buffer.SetRGB565(x, y, c)
}

// SetPixelRGB is SetPixel for an 8-bit-per-channel color, quantized with
// image16bit.New.
func (d *Dev) SetPixelRGB(x, y int, r, g, b byte) {
	d.buffer.SetRGB565(x, y, image16bit.New(r, g, b))
}

// Fill overwrites the framebuffer with the theme foreground or background
// color.
func (d *Dev) Fill(on bool) {
	d.FillColor(d.onColor(on))
}

// FillColor overwrites the framebuffer with c.
func (d *Dev) FillColor(c image16bit.RGB565) {
	d.buffer.Fill(c)
}

// FillRect fills the w×h rectangle at (x, y), clipped to the panel.
func (d *Dev) FillRect(x, y, w, h int, c image16bit.RGB565) {
	d.buffer.FillRect(x, y, w, h, c)
}

// DrawRect draws a rectangle outline in a theme color.
func (d *Dev) DrawRect(x1, y1, x2, y2 int, on bool) {
	d.DrawRectColor(x1, y1, x2, y2, d.onColor(on))
}

// DrawRectColor draws the outline of the rectangle with inclusive corners
// (x1, y1) and (x2, y2). Reversed corners draw nothing.
func (d *Dev) DrawRectColor(x1, y1, x2, y2 int, c image16bit.RGB565) {
	d.buffer.DrawRect(x1, y1, x2, y2, c)
}

// DrawHLine draws a horizontal line in a theme color.
func (d *Dev) DrawHLine(x, y, w int, on bool) {
	d.DrawHLineColor(x, y, w, d.onColor(on))
}

// DrawHLineColor draws a horizontal line of width w starting at (x, y).
func (d *Dev) DrawHLineColor(x, y, w int, c image16bit.RGB565) {
	d.buffer.DrawHLine(x, y, w, c)
}

// DrawVLine draws a vertical line in a theme color.
func (d *Dev) DrawVLine(x, y, h int, on bool) {
	d.DrawVLineColor(x, y, h, d.onColor(on))
}

// DrawVLineColor draws a vertical line of height h starting at (x, y).
func (d *Dev) DrawVLineColor(x, y, h int, c image16bit.RGB565) {
	d.buffer.DrawVLine(x, y, h, c)
}

// DrawLine draws a line in a theme color.
func (d *Dev) DrawLine(x1, y1, x2, y2 int, on bool) {
	d.DrawLineColor(x1, y1, x2, y2, d.onColor(on))
}

// DrawLineColor draws a line between (x1, y1) and (x2, y2) inclusive. Both
// argument orders paint the identical pixel set.
func (d *Dev) DrawLineColor(x1, y1, x2, y2 int, c image16bit.RGB565) {
	d.buffer.DrawLine(x1, y1, x2, y2, c)
}

// Update mirrors the whole framebuffer to the panel.
//
// The transfer is synchronous: once Update returns, the panel content equals
// the framebuffer content as of the call. There is no dirty-region
// tracking; every call transfers width*height*2 bytes.
func (d *Dev) Update() error {
	if d.halted {
		return errors.New("st7735: halted")
	}
	eh := errorHandler{d: d}
	updateDisplay(&eh, d.buffer)
	return eh.err
}

// Invert the display (negative vs positive image).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errors.New("st7735: halted")
	}
	c := displayInversionOff
	if invert {
		c = displayInversionOn
	}
	return d.sendCommand(c)
}

// Halt turns the display off.
//
// The device must be reinitialized with NewSPI to present frames again.
// Drawing calls still mutate the in-memory framebuffer.
func (d *Dev) Halt() error {
	if err := d.sendCommand(displayOff); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// reset performs the power-on pulse: 10ms high, 10ms low, then high with at
// least 120ms for the controller to leave its reset state.
func (d *Dev) reset() error {
	eh := errorHandler{d: d}
	eh.rstOut(gpio.High)
	time.Sleep(10 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(10 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(120 * time.Millisecond)
	return eh.err
}

func (d *Dev) onColor(on bool) image16bit.RGB565 {
	if on {
		return d.theme.Foreground
	}
	return d.theme.Background
}

// sendCommand transmits a single command byte with data/command select low.
// Every transaction is bracketed by the software chip select.
func (d *Dev) sendCommand(c byte) error {
	eh := errorHandler{d: d}
	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{c}, nil)
	eh.csOut(gpio.High)
	return eh.err
}

// sendData transmits parameter or pixel bytes with data/command select high.
func (d *Dev) sendData(b []byte) error {
	eh := errorHandler{d: d}
	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(b, nil)
	eh.csOut(gpio.High)
	return eh.err
}

// errorHandler is a wrapper for error management: after the first failure
// every subsequent call is a no-op, so multi-step bus sequences read
// straight-line.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err == nil {
		eh.err = eh.d.rst.Out(l)
	}
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err == nil {
		eh.err = eh.d.dc.Out(l)
	}
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err == nil {
		eh.err = eh.d.cs.Out(l)
	}
}

func (eh *errorHandler) cTx(w, r []byte) {
	if eh.err == nil {
		eh.err = eh.d.c.Tx(w, r)
	}
}

func (eh *errorHandler) sendCommand(c byte) {
	if eh.err == nil {
		eh.err = eh.d.sendCommand(c)
	}
}

func (eh *errorHandler) sendData(b []byte) {
	if eh.err == nil {
		eh.err = eh.d.sendData(b)
	}
}

func (eh *errorHandler) delay(t time.Duration) {
	if eh.err == nil {
		time.Sleep(t)
	}
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
