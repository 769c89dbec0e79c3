// Package config loads and stores the painter configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/BeatGlow/paint"
	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/codec"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/panel"
	"github.com/BeatGlow/paint/pixel"
)

// File is the configuration file name inside the configuration directory.
const File = "config.toml"

// ErrInvalid is returned for configurations that can't start a session.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the painter configuration.
type Config struct {
	// GridSize is the number of cells per side.
	GridSize int `toml:"grid_size"`

	// CellPixelSize is the on-screen size of a cell in pixels.
	CellPixelSize int `toml:"cell_pixel_size"`

	// DisplaySize is the width and height of saved images in pixels.
	DisplaySize int `toml:"display_size"`

	// HistoryLimit caps the number of undo steps, zero is unbounded.
	HistoryLimit int `toml:"history_limit"`

	// Color is the initial brush color.
	Color pixel.RGB `toml:"color"`

	// BrushSize is the initial brush size.
	BrushSize int `toml:"brush_size"`

	// Palette are the colors offered in the palette.
	Palette []pixel.RGB `toml:"palette"`

	// SavePath is the default path for save and load.
	SavePath string `toml:"save_path"`

	// FrameBuffer is the framebuffer device to mirror the canvas on, if any.
	FrameBuffer string `toml:"framebuffer"`

	// Panel is an SPI panel to mirror the canvas on, if its port is set.
	Panel panel.Config `toml:"panel"`

	// Buttons maps GPIO pin names to actions.
	Buttons map[string]string `toml:"buttons"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		GridSize:      grid.DefaultSize,
		CellPixelSize: paint.DefaultConfig.CellPixelSize,
		DisplaySize:   codec.DefaultDisplaySize,
		Color:         pixel.Black,
		BrushSize:     brush.DefaultConfig.Size,
		Palette:       append([]pixel.RGB(nil), pixel.Palette...),
		SavePath:      "pixel-painter.png",
		Panel:         panel.DefaultConfig,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.GridSize <= 0:
		return fmt.Errorf("%w: grid size %d", ErrInvalid, c.GridSize)
	case c.CellPixelSize <= 0:
		return fmt.Errorf("%w: cell pixel size %d", ErrInvalid, c.CellPixelSize)
	case c.DisplaySize <= 0:
		return fmt.Errorf("%w: display size %d", ErrInvalid, c.DisplaySize)
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.HistoryLimit)
	case c.BrushSize <= 0:
		return fmt.Errorf("%w: brush size %d", ErrInvalid, c.BrushSize)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: empty palette", ErrInvalid)
	}
	if c.Panel.Enabled() {
		if err := c.Panel.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Session returns the session configuration.
func (c *Config) Session() *paint.Config {
	return &paint.Config{
		GridSize:      c.GridSize,
		CellPixelSize: c.CellPixelSize,
		DisplaySize:   c.DisplaySize,
		HistoryLimit:  c.HistoryLimit,
		Brush: brush.Config{
			Color: pixel.Set(c.Color),
			Size:  c.BrushSize,
		},
	}
}

// Load reads the configuration at path. Settings missing from the file keep
// their default values, a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes the configuration to path, creating its directory.
func Save(path string, c *Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Path returns the default configuration file path.
func Path() string {
	return filepath.Join(Dir(), File)
}

// Dir returns the configuration directory, $XDG_CONFIG_HOME/pixelpaint with
// a fallback to ~/.config/pixelpaint.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pixelpaint")
}
