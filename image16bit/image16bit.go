// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image16bit implements the RGB565 pixel format used by small TFT
// controllers like the ST7735.
//
// Each pixel is 16 bits: 5 bits of red, 6 bits of green, 5 bits of blue,
// stored most-significant-byte first. The Image type doubles as the driver's
// framebuffer and carries the integer drawing primitives, so UI code can
// render entirely in memory and mirror the result to the panel in one write.
package image16bit

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB565 is a packed 16-bit color: RRRRRGGG GGGBBBBB.
type RGB565 uint16

// New quantizes an 8-bit-per-channel color to RGB565.
//
// The mapping is lossy: the low 3 bits of red and blue and the low 2 bits of
// green are discarded.
func New(r, g, b byte) RGB565 {
	return RGB565(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// RGBA implements color.Color. Channels are expanded by bit replication so
// that full intensity maps to 0xFFFF.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F
	r8 := r5<<3 | r5>>2
	g8 := g6<<2 | g6>>4
	b8 := b5<<3 | b5>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xFFFF
}

func toRGB565(c color.Color) color.Color {
	if p, ok := c.(RGB565); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return New(byte(r>>8), byte(g>>8), byte(b>>8))
}

// RGB565Model converts colors to RGB565. The conversion is deterministic.
var RGB565Model = color.ModelFunc(toRGB565)

// The panel palette from the reference board support package.
const (
	Black     RGB565 = 0x0000
	White     RGB565 = 0xFFFF
	Red       RGB565 = 0xF800
	Green     RGB565 = 0x07E0
	Blue      RGB565 = 0x001F
	Cyan      RGB565 = 0x07FF
	Magenta   RGB565 = 0xF81F
	Yellow    RGB565 = 0xFFE0
	Orange    RGB565 = 0xFC00
	Gray      RGB565 = 0x8410
	Pink      RGB565 = 0xF81F
	Purple    RGB565 = 0x780F
	Lime      RGB565 = 0x87E0
	Navy      RGB565 = 0x0010
	Teal      RGB565 = 0x0410
	Brown     RGB565 = 0x8200
	DarkGreen RGB565 = 0x0320
	DarkBlue  RGB565 = 0x0011
	SkyBlue   RGB565 = 0x5D1F
	Gold      RGB565 = 0xFEA0
)

// Image is an in-memory RGB565 framebuffer.
//
// It implements image.Image and draw.Image so the standard library and
// golang.org/x/image can render into it, and provides integer drawing
// primitives of its own. All primitives silently clip to the image bounds.
type Image struct {
	// Pix holds the pixels as big-endian RGB565 values, in row-major order
	// starting at the top-left corner.
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewImage returns an Image with all pixels set to black.
//
// The buffer is sized exactly r.Dx()*r.Dy()*2 bytes.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	stride := w * 2
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return RGB565Model
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// Opaque scans the entire image and reports whether it is fully opaque.
// RGB565 has no alpha channel, so it always is.
func (p *Image) Opaque() bool {
	return true
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the packed color of the pixel at (x, y), or black when
// out of bounds.
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	o := p.PixOffset(x, y)
	return RGB565(uint16(p.Pix[o])<<8 | uint16(p.Pix[o+1]))
}

// PixOffset returns the index into Pix of the first byte of the pixel at
// (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, RGB565Model.Convert(c).(RGB565))
}

// SetRGB565 writes one packed color. Out-of-bounds coordinates are a no-op.
// This is faster than Set as it skips the color conversion.
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	o := p.PixOffset(x, y)
	p.Pix[o] = byte(c >> 8)
	p.Pix[o+1] = byte(c)
}

// Fill overwrites every pixel with c.
func (p *Image) Fill(c RGB565) {
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < len(p.Pix); i += 2 {
		p.Pix[i] = hi
		p.Pix[i+1] = lo
	}
}

// FillRect fills the w×h rectangle whose top-left corner is at (x, y).
// The rectangle is intersected with the image bounds edge by edge; a
// non-positive extent fills nothing.
func (p *Image) FillRect(x, y, w, h int, c RGB565) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(p.Rect)
	if r.Empty() {
		return
	}
	hi, lo := byte(c>>8), byte(c)
	for j := r.Min.Y; j < r.Max.Y; j++ {
		o := p.PixOffset(r.Min.X, j)
		for i := r.Min.X; i < r.Max.X; i++ {
			p.Pix[o] = hi
			p.Pix[o+1] = lo
			o += 2
		}
	}
}

// DrawHLine draws a horizontal line of width w starting at (x, y).
func (p *Image) DrawHLine(x, y, w int, c RGB565) {
	p.FillRect(x, y, w, 1, c)
}

// DrawVLine draws a vertical line of height h starting at (x, y).
func (p *Image) DrawVLine(x, y, h int, c RGB565) {
	p.FillRect(x, y, 1, h, c)
}

// DrawLine draws a line between (x1, y1) and (x2, y2) inclusive, using
// integer Bresenham stepping. The endpoints are canonicalized first so both
// argument orders paint the identical pixel set. A zero-length line paints
// exactly one pixel.
func (p *Image) DrawLine(x1, y1, x2, y2 int, c RGB565) {
	if x1 > x2 || (x1 == x2 && y1 > y2) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	dx := x2 - x1
	dy := y2 - y1
	sy := 1
	if dy < 0 {
		dy = -dy
		sy = -1
	}
	err := dx - dy
	for {
		p.SetRGB565(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1++
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawRect draws the outline of the rectangle with inclusive corners
// (x1, y1) and (x2, y2). Reversed corners describe an empty region and draw
// nothing.
func (p *Image) DrawRect(x1, y1, x2, y2 int, c RGB565) {
	if x1 > x2 || y1 > y2 {
		return
	}
	p.DrawHLine(x1, y1, x2-x1+1, c)
	p.DrawHLine(x1, y2, x2-x1+1, c)
	p.DrawVLine(x1, y1, y2-y1+1, c)
	p.DrawVLine(x2, y1, y2-y1+1, c)
}

var _ image.Image = &Image{}
var _ draw.Image = &Image{}
