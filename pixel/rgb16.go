package pixel

import (
	"image/color"
)

// Models for the packed 15- and 16-bit color types.
var (
	CRGB15Model color.Model = color.ModelFunc(crgb15Model)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
	CBGR15Model color.Model = color.ModelFunc(cbgr15Model)
	CBGR16Model color.Model = color.ModelFunc(cbgr16Model)
)

// CRGB15 represents a 15-bit 5-5-5 RGB color.
type CRGB15 struct {
	// CIgnore, 1, CRed, 5, CGreen, 5, CBlue, 5
	V uint16
}

func (c CRGB15) RGBA() (r, g, b, a uint32) {
	return expand555(c.V>>10, c.V>>5, c.V)
}

func crgb15Model(c color.Color) color.Color {
	if _, ok := c.(CRGB15); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return CRGB15{uint16((r&0xf800)>>1 | (g&0xf800)>>6 | (b&0xf800)>>11)}
}

// CBGR15 represents a 15-bit 5-5-5 BGR color.
type CBGR15 struct {
	// CIgnore, 1, CBlue, 5, CGreen, 5, CRed, 5
	V uint16
}

func (c CBGR15) RGBA() (r, g, b, a uint32) {
	return expand555(c.V, c.V>>5, c.V>>10)
}

func cbgr15Model(c color.Color) color.Color {
	if _, ok := c.(CBGR15); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return CBGR15{uint16((b&0xf800)>>1 | (g&0xf800)>>6 | (r&0xf800)>>11)}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	return expand565(c.V>>11, c.V>>5, c.V)
}

func crgb16Model(c color.Color) color.Color {
	if _, ok := c.(CRGB16); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return CRGB16{uint16(r&0xf800 | (g&0xfc00)>>5 | (b&0xf800)>>11)}
}

// CBGR16 represents a 16-bit 5-6-5 BGR color.
type CBGR16 struct {
	// CBlue, 5, CGreen, 6, CRed, 5
	V uint16
}

func (c CBGR16) RGBA() (r, g, b, a uint32) {
	return expand565(c.V, c.V>>5, c.V>>11)
}

func cbgr16Model(c color.Color) color.Color {
	if _, ok := c.(CBGR16); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return CBGR16{uint16(b&0xf800 | (g&0xfc00)>>5 | (r&0xf800)>>11)}
}

// expand555 scales three 5-bit components (in the low bits) to 16 bits.
func expand555(r, g, b uint16) (uint32, uint32, uint32, uint32) {
	return expand(r&0x1f, 5), expand(g&0x1f, 5), expand(b&0x1f, 5), 0xffff
}

// expand565 scales 5-, 6- and 5-bit components (in the low bits) to 16 bits.
func expand565(r, g, b uint16) (uint32, uint32, uint32, uint32) {
	return expand(r&0x1f, 5), expand(g&0x3f, 6), expand(b&0x1f, 5), 0xffff
}

// expand duplicates the high bits of an n-bit value into the low bits.
func expand(v uint16, n uint) uint32 {
	// Build the value at the top of the low byte.
	x := uint32(v) << (8 - n)
	x |= x >> n
	// Duplicate the whole value in the high byte.
	return x | x<<8
}
