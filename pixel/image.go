package pixel

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/BeatGlow/paint/draw"
)

// Image is a drawable raster that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by the images in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Format16 is a packed 2-bytes per pixel layout.
type Format16 uint8

// Supported 16-bit layouts.
const (
	FormatCRGB15 Format16 = iota
	FormatCRGB16
	FormatCBGR15
	FormatCBGR16
)

func (f Format16) String() string {
	switch f {
	case FormatCRGB15:
		return "RGB555"
	case FormatCRGB16:
		return "RGB565"
	case FormatCBGR15:
		return "BGR555"
	case FormatCBGR16:
		return "BGR565"
	default:
		return "unknown"
	}
}

// Model returns the color model of the format.
func (f Format16) Model() color.Model {
	switch f {
	case FormatCRGB15:
		return CRGB15Model
	case FormatCBGR15:
		return CBGR15Model
	case FormatCBGR16:
		return CBGR16Model
	default:
		return CRGB16Model
	}
}

func (f Format16) pack(c color.Color) uint16 {
	switch v := f.Model().Convert(c).(type) {
	case CRGB15:
		return v.V
	case CBGR15:
		return v.V
	case CBGR16:
		return v.V
	case CRGB16:
		return v.V
	}
	return 0
}

func (f Format16) unpack(v uint16) color.Color {
	switch f {
	case FormatCRGB15:
		return CRGB15{v & 0x7fff}
	case FormatCBGR15:
		return CBGR15{v & 0x7fff}
	case FormatCBGR16:
		return CBGR16{v}
	default:
		return CRGB16{v}
	}
}

// Image16 is a 16-bits per pixel image in one of the packed RGB layouts.
type Image16 struct {
	Buffer
	Format Format16
	Order  binary.ByteOrder
}

// NewImage16 allocates a w×h image with big endian pixel order.
func NewImage16(w, h int, format Format16) *Image16 {
	return &Image16{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, w*2*h),
			Stride: w * 2,
		},
		Format: format,
		Order:  binary.BigEndian,
	}
}

func (p *Image16) ColorModel() color.Model {
	return p.Format.Model()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image16) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *Image16) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.Format.unpack(p.Order.Uint16(p.Pix[p.PixOffset(x, y):]))
}

func (p *Image16) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], p.Format.pack(c))
}

func (p *Image16) Fill(c color.Color) {
	value := make([]byte, 2)
	p.Order.PutUint16(value, p.Format.pack(c))
	for i, l := 0, len(p.Pix); i+1 < l; i += 2 {
		copy(p.Pix[i:], value)
	}
}

// Interface checks.
var (
	_ Image = (*Image16)(nil)
)
