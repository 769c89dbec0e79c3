// Package grid implements the fixed size cell grid edited by the painter.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/paint/pixel"
)

// DefaultSize is the default number of cells per side.
const DefaultSize = 20

// Errors
var (
	ErrOutOfRange = errors.New("grid: cell out of range")
	ErrSize       = errors.New("grid: size must be positive")
	ErrSource     = errors.New("grid: fill source must be a non-empty rectangle")
)

// OutOfRangeError is returned when a cell coordinate is outside of the grid.
type OutOfRangeError struct {
	Row, Col int
	Size     int
}

func (err *OutOfRangeError) Error() string {
	return fmt.Sprintf("grid: cell (%d,%d) out of range [0,%d)", err.Row, err.Col, err.Size)
}

// Is reports ErrOutOfRange as the target.
func (err *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Grid is a square grid of cells. The dimensions never change after New.
type Grid struct {
	size  int
	cells []pixel.Cell
}

// New creates a size×size grid of unset cells.
func New(size int) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}
	return &Grid{
		size:  size,
		cells: make([]pixel.Cell, size*size),
	}, nil
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid %dx%d", g.size, g.size)
}

// Size is the number of cells per side.
func (g *Grid) Size() int {
	return g.size
}

// In reports whether (row, col) is inside the grid.
func (g *Grid) In(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

func (g *Grid) check(row, col int) error {
	if !g.In(row, col) {
		return &OutOfRangeError{Row: row, Col: col, Size: g.size}
	}
	return nil
}

// Get returns the cell at (row, col).
func (g *Grid) Get(row, col int) (pixel.Cell, error) {
	if err := g.check(row, col); err != nil {
		return pixel.Unset, err
	}
	return g.cells[row*g.size+col], nil
}

// Set updates the cell at (row, col).
func (g *Grid) Set(row, col int, c pixel.Cell) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	g.cells[row*g.size+col] = c
	return nil
}

// Fill replaces all cells with src, resampled to the grid size with nearest
// neighbor scaling. The rows of src must all have the same non-zero length.
// No cell is touched if src is rejected.
func (g *Grid) Fill(src [][]pixel.Cell) error {
	h := len(src)
	if h == 0 {
		return ErrSource
	}
	w := len(src[0])
	for _, row := range src {
		if w == 0 || len(row) != w {
			return ErrSource
		}
	}

	for r := 0; r < g.size; r++ {
		sr := Nearest(r, g.size, h)
		for c := 0; c < g.size; c++ {
			g.cells[r*g.size+c] = src[sr][Nearest(c, g.size, w)]
		}
	}
	return nil
}

// Clear unsets all cells.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = pixel.Unset
	}
}

// Rows returns a copy of the cells as a row major slice of rows.
func (g *Grid) Rows() [][]pixel.Cell {
	rows := make([][]pixel.Cell, g.size)
	for r := range rows {
		rows[r] = make([]pixel.Cell, g.size)
		copy(rows[r], g.cells[r*g.size:(r+1)*g.size])
	}
	return rows
}

// Changes returns every cell with its current color, in row major order.
func (g *Grid) Changes() []Change {
	changes := make([]Change, 0, len(g.cells))
	for i, c := range g.cells {
		changes = append(changes, Change{Row: i / g.size, Col: i % g.size, Color: c})
	}
	return changes
}

// Nearest maps index i of an n sized axis onto the nearest sample of an m
// sized axis, mapping sample centers the same way image scalers do.
func Nearest(i, n, m int) int {
	// (i + 0.5) * m / n, in integers.
	j := ((2*i + 1) * m) / (2 * n)
	if j >= m {
		j = m - 1
	}
	return j
}

// ColorModel implements image.Image.
func (g *Grid) ColorModel() color.Model {
	return pixel.RGBModel
}

// Bounds implements image.Image, one pixel per cell.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.size, g.size)
}

// At implements image.Image, unset cells are white.
func (g *Grid) At(x, y int) color.Color {
	if !g.In(y, x) {
		return color.Transparent
	}
	return g.cells[y*g.size+x].Color()
}

// Interface checks.
var (
	_ image.Image = (*Grid)(nil)
)
