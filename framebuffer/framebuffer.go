// Package framebuffer provides access to the operating system's native framebuffer
//
// This requires framebuffer device support in the operating system. The framebuffer
// can be opened with the [Open] call and used as a render target for a painting
// session, mirroring the canvas on an attached screen.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/paint/pixel"
)

// Errors
var (
	ErrNotSupported     = errors.New("framebuffer: not supported")
	ErrUnsupportedModel = errors.New("framebuffer: unsupported color model")
)

// FrameBuffer is a memory mapped framebuffer device.
type FrameBuffer struct {
	pixel.Image
	name  string
	close func() error
}

func (fb *FrameBuffer) String() string {
	size := fb.Bounds().Size()
	return fmt.Sprintf("framebuffer %s %dx%d", fb.name, size.X, size.Y)
}

// Close unmaps and closes the framebuffer device.
func (fb *FrameBuffer) Close() error {
	if fb.close == nil {
		return nil
	}
	err := fb.close()
	fb.close = nil
	return err
}

// Refresh is a no-op, writes to the mapped memory are visible immediately.
func (fb *FrameBuffer) Refresh() error {
	return nil
}

// rgba32 is a 32-bit per pixel image with configurable channel offsets, as
// reported by the device. It does not own its pixel memory.
type rgba32 struct {
	pixel.Buffer
	r, g, b, a int
}

func (p *rgba32) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *rgba32) offset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *rgba32) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	i := p.offset(x, y)
	c := color.RGBA{R: p.Pix[i+p.r], G: p.Pix[i+p.g], B: p.Pix[i+p.b], A: 0xff}
	if p.a >= 0 {
		c.A = p.Pix[i+p.a]
	}
	return c
}

func (p *rgba32) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	var (
		i = p.offset(x, y)
		v = color.RGBAModel.Convert(c).(color.RGBA)
	)
	p.Pix[i+p.r] = v.R
	p.Pix[i+p.g] = v.G
	p.Pix[i+p.b] = v.B
	if p.a >= 0 {
		p.Pix[i+p.a] = v.A
	}
}

func (p *rgba32) Fill(c color.Color) {
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			p.Set(x, y, c)
		}
	}
}

var _ pixel.Image = (*rgba32)(nil)
