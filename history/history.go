// Package history implements undo and redo of grid edits.
//
// An undo swaps the recorded colors back into the canvas and records the
// colors it replaced as a redo entry, and vice versa. Undo followed by redo
// therefore restores the exact canvas state from before the undo.
package history

import (
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

// Canvas is the cell storage history operates on. It is implemented by *grid.Grid.
type Canvas interface {
	Get(row, col int) (pixel.Cell, error)
	Set(row, col int, c pixel.Cell) error
}

// History holds the undo and redo stacks.
type History struct {
	limit int
	undo  []grid.Record
	redo  []grid.Record
}

// New returns an empty history holding at most limit undo records. A limit
// of zero or less is unbounded.
func New(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Record pushes an edit onto the undo stack and discards the redo stack.
func (h *History) Record(rec grid.Record) {
	h.undo = append(h.undo, rec)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		copy(h.undo, h.undo[drop:])
		for i := len(h.undo) - drop; i < len(h.undo); i++ {
			h.undo[i] = nil
		}
		h.undo = h.undo[:h.limit]
	}
	h.redo = h.redo[:0]
}

// Undo reverts the most recent edit. It returns the record pushed onto the
// redo stack, and false if there was nothing to undo.
func (h *History) Undo(c Canvas) (grid.Record, bool, error) {
	return swap(c, &h.undo, &h.redo)
}

// Redo reapplies the most recently undone edit. It returns the record pushed
// onto the undo stack, and false if there was nothing to redo.
func (h *History) Redo(c Canvas) (grid.Record, bool, error) {
	return swap(c, &h.redo, &h.undo)
}

// swap pops the top record of from, writes its colors into c in recorded
// order and pushes the replaced colors onto to. On error c and both stacks
// are left unchanged.
func swap(c Canvas, from, to *[]grid.Record) (grid.Record, bool, error) {
	n := len(*from)
	if n == 0 {
		return nil, false, nil
	}
	rec := (*from)[n-1]

	// Read every cell before writing any, so a bad coordinate can't leave
	// the canvas half restored.
	inverse := make(grid.Record, len(rec))
	for i, e := range rec {
		cur, err := c.Get(e.Row, e.Col)
		if err != nil {
			return nil, false, err
		}
		inverse[i] = grid.Change{Row: e.Row, Col: e.Col, Color: cur}
	}
	for _, e := range rec {
		if err := c.Set(e.Row, e.Col, e.Color); err != nil {
			return nil, false, err
		}
	}

	(*from)[n-1] = nil
	*from = (*from)[:n-1]
	*to = append(*to, inverse)
	return inverse, true, nil
}

// CanUndo reports whether there is an edit to undo.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether there is an edit to redo.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Len returns the number of records on the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Peek returns the record on top of the undo stack.
func (h *History) Peek() (grid.Record, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	return h.undo[len(h.undo)-1], true
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
