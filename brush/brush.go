// Package brush stamps square brushes onto a grid.
package brush

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

// ErrSize is returned for brush sizes smaller than one cell.
var ErrSize = errors.New("brush: size must be positive")

// Sizes are the brush sizes offered by the brush size menu.
var Sizes = []int{1, 2, 3}

// Eraser is the color selected by the eraser.
var Eraser = pixel.Set(pixel.White)

// Config is the brush configuration of an editing session.
type Config struct {
	// Color painted by the brush.
	Color pixel.Cell

	// Size of the brush square in cells.
	Size int
}

// DefaultConfig is a single cell black brush.
var DefaultConfig = Config{
	Color: pixel.Set(pixel.Black),
	Size:  1,
}

func (c Config) String() string {
	return fmt.Sprintf("brush %d %s", c.Size, c.Color)
}

// Validate checks the brush size.
func (c Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w, got %d", ErrSize, c.Size)
	}
	return nil
}

// NextSize returns the size following size in Sizes, wrapping around.
func NextSize(size int) int {
	for i, v := range Sizes {
		if v == size {
			return Sizes[(i+1)%len(Sizes)]
		}
	}
	return Sizes[0]
}

// NextColor returns the palette color following current, wrapping around. A
// color that is not in the palette is followed by the first palette color.
func NextColor(palette []pixel.RGB, current pixel.Cell) pixel.Cell {
	if len(palette) == 0 {
		return current
	}
	for i, c := range palette {
		if pixel.Set(c) == current {
			return pixel.Set(palette[(i+1)%len(palette)])
		}
	}
	return pixel.Set(palette[0])
}

// Apply stamps a Size×Size square of Color with its top-left corner at
// (anchorRow, anchorCol), clipped to the grid. Cells are written in row major
// order and the returned record holds the color each cell had before, even if
// it was already painted with Color.
func Apply(g *grid.Grid, anchorRow, anchorCol int, cfg Config) (grid.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		n        = g.Size()
		r0, r1   = clip(anchorRow, cfg.Size, n)
		c0, c1   = clip(anchorCol, cfg.Size, n)
		rec      grid.Record
		capacity = (r1 - r0) * (c1 - c0)
	)
	if capacity > 0 {
		rec = make(grid.Record, 0, capacity)
	}
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			prior, err := g.Get(r, c)
			if err != nil {
				return rec, err
			}
			if err = g.Set(r, c, cfg.Color); err != nil {
				return rec, err
			}
			rec = append(rec, grid.Change{Row: r, Col: c, Color: prior})
		}
	}
	return rec, nil
}

// clip returns the half-open range [anchor, anchor+size) intersected with [0, n).
func clip(anchor, size, n int) (lo, hi int) {
	lo, hi = anchor, anchor+size
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return
}
