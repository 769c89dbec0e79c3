// Package paint is a grid based pixel image editor engine.
//
// A [Session] owns a fixed size [grid.Grid], the brush configuration and the
// undo history. User interfaces feed it pointer and command events and
// receive the changed cells through a [Renderer] after each mutation.
//
// A Session is not safe for concurrent use; hosts deliver events from a
// single goroutine.
package paint

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/codec"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/history"
	"github.com/BeatGlow/paint/pixel"
)

// Errors
var (
	ErrCellPixelSize = errors.New("paint: cell pixel size must be positive")
)

// Renderer receives the cells changed by a grid mutation, with their current colors.
type Renderer interface {
	Render(changes []grid.Change)
}

// RendererFunc is an adapter to allow the use of an ordinary function as a Renderer.
type RendererFunc func(changes []grid.Change)

// Render calls f(changes).
func (f RendererFunc) Render(changes []grid.Change) {
	f(changes)
}

// Config is the session configuration.
type Config struct {
	// GridSize is the number of cells per side.
	GridSize int

	// CellPixelSize is the size of a cell in device pixels, used to map
	// pointer coordinates to cells.
	CellPixelSize int

	// DisplaySize is the width and height of saved images in pixels.
	DisplaySize int

	// HistoryLimit caps the number of undo steps, zero is unbounded.
	HistoryLimit int

	// Brush is the initial brush.
	Brush brush.Config
}

// DefaultConfig matches a 400 pixel canvas with 20×20 cells.
var DefaultConfig = Config{
	GridSize:      grid.DefaultSize,
	CellPixelSize: codec.DefaultDisplaySize / grid.DefaultSize,
	DisplaySize:   codec.DefaultDisplaySize,
	Brush:         brush.DefaultConfig,
}

// Session is one editing session.
type Session struct {
	grid      *grid.Grid
	history   *history.History
	brush     brush.Config
	cellSize  int
	codec     codec.Options
	renderers []Renderer
}

// New starts a session with an empty grid.
func New(config *Config, renderers ...Renderer) (*Session, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}

	g, err := grid.New(config.GridSize)
	if err != nil {
		return nil, err
	}
	if config.CellPixelSize <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrCellPixelSize, config.CellPixelSize)
	}
	if config.DisplaySize <= 0 {
		return nil, fmt.Errorf("%w, got %d", codec.ErrDisplaySize, config.DisplaySize)
	}
	if err = config.Brush.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		grid:      g,
		history:   history.New(config.HistoryLimit),
		brush:     config.Brush,
		cellSize:  config.CellPixelSize,
		codec:     codec.Options{DisplaySize: config.DisplaySize},
		renderers: renderers,
	}, nil
}

func (s *Session) String() string {
	undo, redo := s.history.Len()
	return fmt.Sprintf("paint session %s, %s, %d undo, %d redo", s.grid, s.brush, undo, redo)
}

// AddRenderer registers r for change notifications.
func (s *Session) AddRenderer(r Renderer) {
	s.renderers = append(s.renderers, r)
}

// Grid returns the session grid. Callers must not modify it.
func (s *Session) Grid() *grid.Grid {
	return s.grid
}

// Brush returns the current brush.
func (s *Session) Brush() brush.Config {
	return s.brush
}

// CellPixelSize is the device pixel size of a cell.
func (s *Session) CellPixelSize() int {
	return s.cellSize
}

// History returns the number of undo and redo steps available.
func (s *Session) History() (undo, redo int) {
	return s.history.Len()
}

func (s *Session) notify(changes []grid.Change) {
	if len(changes) == 0 {
		return
	}
	for _, r := range s.renderers {
		r.Render(changes)
	}
}

// PointerDown paints at device pixel coordinates (x, y). Negative
// coordinates are ignored.
func (s *Session) PointerDown(x, y int) error {
	if x < 0 || y < 0 {
		return nil
	}
	return s.Paint(y/s.cellSize, x/s.cellSize)
}

// Paint applies the brush with its top-left corner at (row, col) and records
// the edit.
func (s *Session) Paint(row, col int) error {
	rec, err := brush.Apply(s.grid, row, col, s.brush)
	if err != nil {
		return err
	}
	s.history.Record(rec)
	s.notify(rec.Current(s.grid))
	return nil
}

// Undo reverts the last edit, it returns false if there was nothing to undo.
func (s *Session) Undo() (bool, error) {
	rec, ok, err := s.history.Undo(s.grid)
	if !ok || err != nil {
		return false, err
	}
	s.notify(rec.Current(s.grid))
	return true, nil
}

// Redo reapplies the last undone edit, it returns false if there was nothing to redo.
func (s *Session) Redo() (bool, error) {
	rec, ok, err := s.history.Redo(s.grid)
	if !ok || err != nil {
		return false, err
	}
	s.notify(rec.Current(s.grid))
	return true, nil
}

// SelectColor changes the brush color.
func (s *Session) SelectColor(c pixel.Cell) {
	s.brush.Color = c
}

// Erase selects the eraser color.
func (s *Session) Erase() {
	s.brush.Color = brush.Eraser
}

// SelectBrushSize changes the brush size.
func (s *Session) SelectBrushSize(size int) error {
	cfg := s.brush
	cfg.Size = size
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.brush = cfg
	return nil
}

// Save writes the grid as an image to path.
func (s *Session) Save(path string) error {
	return codec.Save(path, s.grid, s.codec)
}

// Load replaces the grid contents with the image at path. Loading is not
// recorded in the history. On error the grid is left unchanged.
func (s *Session) Load(path string) error {
	cells, err := codec.Load(path, s.grid.Size())
	if err != nil {
		return err
	}
	if err = s.grid.Fill(cells); err != nil {
		return err
	}
	s.notify(s.grid.Changes())
	return nil
}
