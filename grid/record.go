package grid

import (
	"fmt"

	"github.com/BeatGlow/paint/pixel"
)

// Change is a cell coordinate with a color. In a Record the color is the
// one to restore; in a render notification it is the cell's current color.
type Change struct {
	Row   int
	Col   int
	Color pixel.Cell
}

func (c Change) String() string {
	return fmt.Sprintf("(%d,%d,%s)", c.Row, c.Col, c.Color)
}

// Record is one reversible edit: the cells touched by a single brush
// application, in the order they were written. Each coordinate appears at
// most once.
type Record []Change

// Len is the number of touched cells.
func (r Record) Len() int {
	return len(r)
}

// Current returns the cells of r with their current colors in g.
func (r Record) Current(g *Grid) []Change {
	changes := make([]Change, 0, len(r))
	for _, c := range r {
		if cur, err := g.Get(c.Row, c.Col); err == nil {
			changes = append(changes, Change{Row: c.Row, Col: c.Col, Color: cur})
		}
	}
	return changes
}
