package panel

import (
	"fmt"
	"time"

	"github.com/BeatGlow/paint/pixel"
)

// Config describes an ST7789 panel on an SPI port.
type Config struct {
	// Port is the SPI port name, as in "SPI0.0"; an empty port disables the panel.
	Port string `toml:"port"`

	// DC is the data/command GPIO pin.
	DC string `toml:"dc"`

	// Reset is the reset GPIO pin.
	Reset string `toml:"reset"`

	// Width of the panel in pixels.
	Width int `toml:"width"`

	// Height of the panel in pixels.
	Height int `toml:"height"`

	// Rotation in degrees clockwise.
	Rotation int `toml:"rotation"`

	// SpeedHz is the SPI clock.
	SpeedHz int `toml:"speed_hz"`
}

// DefaultConfig matches the common 240×240 modules.
var DefaultConfig = Config{
	DC:      "GPIO24",
	Reset:   "GPIO25",
	Width:   240,
	Height:  240,
	SpeedHz: 40_000_000,
}

// Enabled reports whether a port is configured.
func (c Config) Enabled() bool {
	return c.Port != ""
}

// Validate checks size and rotation. Controller RAM is 240×320.
func (c Config) Validate() error {
	if c.Rotation%90 != 0 || c.Rotation < 0 || c.Rotation >= 360 {
		return fmt.Errorf("%w, got %d", ErrRotation, c.Rotation)
	}
	maxW, maxH := 240, 320
	if c.Rotation == 90 || c.Rotation == 270 {
		maxW, maxH = maxH, maxW
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxW || c.Height > maxH {
		return fmt.Errorf("%w %dx%d, maximum is %dx%d at %d°", ErrSize, c.Width, c.Height, maxW, maxH, c.Rotation)
	}
	return nil
}

// ST7789 commands.
const (
	st7789SLPOUT    = 0x11 // Sleep Out
	st7789INVON     = 0x21 // Display Inversion On
	st7789DISPOFF   = 0x28 // Display Off
	st7789DISPON    = 0x29 // Display On
	st7789CASET     = 0x2A // Column Address Set
	st7789RASET     = 0x2B // Row Address Set
	st7789RAMWR     = 0x2C // Memory Write
	st7789MADCTL    = 0x36 // Memory Data Access Control
	st7789COLMOD    = 0x3A // Interface Pixel Format
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// MADCTL bits.
const (
	st7789PageColumnOrder    byte = 1 << 5 // MV
	st7789ColumnAddressOrder byte = 1 << 6 // MX
	st7789PageAddressOrder   byte = 1 << 7 // MY
)

const (
	resetDelay    = 100 * time.Millisecond
	sleepOutDelay = 150 * time.Millisecond
	displayDelay  = 100 * time.Millisecond
)

var sleep = time.Sleep

// ST7789 is an RGB565 panel with a local frame buffer. Drawing only changes
// the buffer, Refresh sends it to the panel.
type ST7789 struct {
	*pixel.Image16
	c        Conn
	rotation int
}

// Open connects to the panel described by config and initializes it.
func Open(config *Config) (*ST7789, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c, err := OpenSPI(config.Port, config.DC, config.Reset, config.SpeedHz)
	if err != nil {
		return nil, err
	}
	d, err := New(c, config)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return d, nil
}

// New initializes a panel on an open connection.
func New(c Conn, config *Config) (*ST7789, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	d := &ST7789{
		Image16:  pixel.NewImage16(config.Width, config.Height, pixel.FormatCRGB16),
		c:        c,
		rotation: config.Rotation,
	}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}
	return d, nil
}

func (d *ST7789) String() string {
	size := d.Bounds().Size()
	return fmt.Sprintf("ST7789 %dx%d on %s", size.X, size.Y, d.c)
}

func (d *ST7789) commands(commands ...[]byte) error {
	for _, command := range commands {
		if err := d.c.Command(command[0], command[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (d *ST7789) init() error {
	if err := d.c.Reset(); err != nil {
		return err
	}
	if err := d.c.Command(st7789SLPOUT); err != nil {
		return err
	}
	sleep(sleepOutDelay)

	if err := d.commands(
		[]byte{st7789MADCTL, d.madctl()},
		[]byte{st7789COLMOD, 0x05}, // 16 bits per pixel, RGB565
		[]byte{st7789PORCTRL, 0x0C, 0x0C},
		[]byte{st7789GCTRL, 0x35},
		[]byte{st7789VCOMS, 0x1A},
		[]byte{st7789LCMCTRL, 0x2C},
		[]byte{st7789VDVVRHEN, 0x01},
		[]byte{st7789VRHS, 0x0B},
		[]byte{st7789VDVSET, 0x20},
		[]byte{st7789VCMOFSET, 0x20},
		[]byte{st7789FRCTR2, 0x0F}, // 60Hz
		[]byte{st7789PWCTRL1, 0xA4, 0xA1},
		[]byte{st7789INVON},
		[]byte{st7789PVGAMCTRL, 0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F},
		[]byte{st7789NVGAMCTRL, 0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F},
		[]byte{st7789DISPON},
	); err != nil {
		return err
	}
	sleep(displayDelay)
	return nil
}

func (d *ST7789) madctl() byte {
	switch d.rotation {
	case 90:
		return st7789ColumnAddressOrder | st7789PageColumnOrder
	case 180:
		return st7789ColumnAddressOrder | st7789PageAddressOrder
	case 270:
		return st7789PageAddressOrder | st7789PageColumnOrder
	default:
		return 0
	}
}

// Show turns the display on or off.
func (d *ST7789) Show(show bool) error {
	if show {
		return d.c.Command(st7789DISPON)
	}
	return d.c.Command(st7789DISPOFF)
}

// Refresh sends the frame buffer to the panel.
func (d *ST7789) Refresh() error {
	size := d.Bounds().Size()
	x1, y1 := size.X-1, size.Y-1
	if err := d.commands(
		[]byte{st7789CASET, 0, 0, byte(x1 >> 8), byte(x1)},
		[]byte{st7789RASET, 0, 0, byte(y1 >> 8), byte(y1)},
		[]byte{st7789RAMWR},
	); err != nil {
		return err
	}
	return d.c.Data(d.Pix)
}

// Close turns the display off and closes the connection.
func (d *ST7789) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

var _ pixel.Image = (*ST7789)(nil)
