package pixel

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color specification can't be parsed.
var ErrInvalidColor = errors.New("pixel: invalid color")

// Named colors, with Tk color values (Green is #008000, not #00ff00).
var (
	Black     = RGB{0x00, 0x00, 0x00}
	White     = RGB{0xff, 0xff, 0xff}
	Red       = RGB{0xff, 0x00, 0x00}
	Green     = RGB{0x00, 0x80, 0x00}
	Blue      = RGB{0x00, 0x00, 0xff}
	Yellow    = RGB{0xff, 0xff, 0x00}
	LightGray = RGB{0xd3, 0xd3, 0xd3}
)

var names = map[string]RGB{
	"black":     Black,
	"white":     White,
	"red":       Red,
	"green":     Green,
	"blue":      Blue,
	"yellow":    Yellow,
	"lightgray": LightGray,
	"lightgrey": LightGray,
}

// Palette is the default set of palette colors.
var Palette = []RGB{Red, Green, Blue, Yellow, Black, White}

// RGBModel converts any color to an opaque RGB.
var RGBModel color.Model = color.ModelFunc(rgbModel)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// String returns the color as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	return toRGB(c)
}

// toRGB un-premultiplies c and drops the alpha channel.
func toRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseColor parses a #rgb or #rrggbb hex color or one of the named colors.
func ParseColor(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := names[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}

	hex := v[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// Cell is the color of a grid cell. The zero value is an unset cell, which is
// rendered as white.
type Cell struct {
	RGB
	Valid bool
}

// Unset is the background cell color.
var Unset = Cell{}

// Set returns a cell holding the color c.
func Set(c RGB) Cell {
	return Cell{RGB: c, Valid: true}
}

// Color returns the color the cell renders as.
func (c Cell) Color() RGB {
	if !c.Valid {
		return White
	}
	return c.RGB
}

func (c Cell) RGBA() (r, g, b, a uint32) {
	return c.Color().RGBA()
}

func (c Cell) String() string {
	if !c.Valid {
		return "none"
	}
	return c.RGB.String()
}

// FromColor converts a color to a cell. Fully transparent colors are unset.
func FromColor(c color.Color) Cell {
	switch c := c.(type) {
	case Cell:
		return c
	case RGB:
		return Set(c)
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return Unset
	}
	return Set(toRGB(c))
}
