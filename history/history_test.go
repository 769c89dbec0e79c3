package history

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testApply(t *testing.T, h *History, g *grid.Grid, row, col int, c pixel.RGB, size int) grid.Record {
	t.Helper()
	rec, err := brush.Apply(g, row, col, brush.Config{Color: pixel.Set(c), Size: size})
	if err != nil {
		t.Fatal(err)
	}
	h.Record(rec)
	return rec
}

func testSame(t *testing.T, want, got [][]pixel.Cell) {
	t.Helper()
	for r := range want {
		for c := range want[r] {
			if want[r][c] != got[r][c] {
				t.Fatalf("cell (%d,%d): expected %s, got %s", r, c, want[r][c], got[r][c])
			}
		}
	}
}

func TestEmpty(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	if _, ok, err := h.Undo(g); ok || err != nil {
		t.Errorf("expected undo on empty history to be a no-op, got %t %v", ok, err)
	}
	if _, ok, err := h.Redo(g); ok || err != nil {
		t.Errorf("expected redo on empty history to be a no-op, got %t %v", ok, err)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("expected empty stacks")
	}
}

func TestScenario(t *testing.T) {
	var (
		g     = testGrid(t)
		h     = New(0)
		black = pixel.Set(pixel.Black)
	)

	testApply(t, h, g, 0, 0, pixel.Black, 1)
	if v, _ := g.Get(0, 0); v != black {
		t.Fatalf("expected (0,0) black, got %s", v)
	}
	top, ok := h.Peek()
	if !ok || len(top) != 1 || top[0] != (grid.Change{Row: 0, Col: 0, Color: pixel.Unset}) {
		t.Fatalf("expected undo stack top [(0,0,none)], got %v", top)
	}

	redo, ok, err := h.Undo(g)
	if err != nil || !ok {
		t.Fatalf("undo failed: %t %v", ok, err)
	}
	if v, _ := g.Get(0, 0); v.Valid {
		t.Errorf("expected (0,0) unset after undo, got %s", v)
	}
	if len(redo) != 1 || redo[0] != (grid.Change{Row: 0, Col: 0, Color: black}) {
		t.Errorf("expected redo record [(0,0,black)], got %v", redo)
	}
	if u, r := h.Len(); u != 0 || r != 1 {
		t.Errorf("expected stacks 0/1, got %d/%d", u, r)
	}

	if _, ok, err = h.Redo(g); err != nil || !ok {
		t.Fatalf("redo failed: %t %v", ok, err)
	}
	if v, _ := g.Get(0, 0); v != black {
		t.Errorf("expected (0,0) black after redo, got %s", v)
	}
	if u, r := h.Len(); u != 1 || r != 0 {
		t.Errorf("expected stacks 1/0, got %d/%d", u, r)
	}
}

func TestUndoRestores(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	testApply(t, h, g, 3, 3, pixel.Blue, 3)
	before := g.Rows()

	testApply(t, h, g, 4, 4, pixel.Red, 3)
	if _, ok, err := h.Undo(g); !ok || err != nil {
		t.Fatalf("undo failed: %t %v", ok, err)
	}
	testSame(t, before, g.Rows())
}

func TestInvolution(t *testing.T) {
	var (
		g      = testGrid(t)
		h      = New(0)
		rnd    = rand.New(rand.NewSource(1))
		colors = []pixel.RGB{pixel.Red, pixel.Green, pixel.Blue, pixel.Yellow}
	)
	for i := 0; i < 50; i++ {
		testApply(t, h, g, rnd.Intn(22)-1, rnd.Intn(22)-1, colors[rnd.Intn(len(colors))], 1+rnd.Intn(3))
	}
	final := g.Rows()

	var states [][][]pixel.Cell
	for h.CanUndo() {
		states = append(states, g.Rows())
		if _, ok, err := h.Undo(g); !ok || err != nil {
			t.Fatalf("undo failed: %t %v", ok, err)
		}
	}
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			if v, _ := g.Get(r, c); v.Valid {
				t.Fatalf("expected (%d,%d) unset after undoing everything, got %s", r, c, v)
			}
		}
	}

	for i := len(states) - 1; i >= 0; i-- {
		if _, ok, err := h.Redo(g); !ok || err != nil {
			t.Fatalf("redo failed: %t %v", ok, err)
		}
		testSame(t, states[i], g.Rows())
	}
	testSame(t, final, g.Rows())
	if h.CanRedo() {
		t.Error("expected redo stack to be empty")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	testApply(t, h, g, 0, 0, pixel.Red, 1)
	testApply(t, h, g, 1, 1, pixel.Red, 1)
	_, _, _ = h.Undo(g)
	_, _, _ = h.Undo(g)
	if !h.CanRedo() {
		t.Fatal("expected redo entries")
	}

	testApply(t, h, g, 5, 5, pixel.Green, 2)
	if _, ok, _ := h.Redo(g); ok {
		t.Error("expected redo to be unavailable after a new edit")
	}
	if u, r := h.Len(); u != 1 || r != 0 {
		t.Errorf("expected stacks 1/0, got %d/%d", u, r)
	}
}

func TestEmptyRecord(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	testApply(t, h, g, 0, 0, pixel.Red, 1)
	_, _, _ = h.Undo(g)
	testApply(t, h, g, 30, 30, pixel.Red, 1)
	if h.CanRedo() {
		t.Error("expected an edit outside the grid to clear the redo stack")
	}
	if _, ok, err := h.Undo(g); !ok || err != nil {
		t.Errorf("expected empty record to be undoable, got %t %v", ok, err)
	}
}

func TestLimit(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(2)
	)
	for i := 0; i < 5; i++ {
		testApply(t, h, g, i, i, pixel.Red, 1)
	}
	if u, _ := h.Len(); u != 2 {
		t.Fatalf("expected 2 undo records, got %d", u)
	}
	_, _, _ = h.Undo(g)
	_, _, _ = h.Undo(g)
	if _, ok, _ := h.Undo(g); ok {
		t.Error("expected the oldest records to be discarded")
	}
	if v, _ := g.Get(2, 2); !v.Valid {
		t.Error("expected discarded edits to stay painted")
	}
	if v, _ := g.Get(3, 3); v.Valid {
		t.Error("expected retained edits to be undone")
	}
}

func TestOutOfRange(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	_ = g.Set(0, 0, pixel.Set(pixel.Red))
	h.Record(grid.Record{
		{Row: 0, Col: 0, Color: pixel.Unset},
		{Row: 40, Col: 0, Color: pixel.Unset},
	})
	if _, ok, err := h.Undo(g); ok || !errors.Is(err, grid.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %t %v", ok, err)
	}
	if v, _ := g.Get(0, 0); v != pixel.Set(pixel.Red) {
		t.Errorf("expected failed undo to leave the grid untouched, got %s", v)
	}
	if u, r := h.Len(); u != 1 || r != 0 {
		t.Errorf("expected failed undo to leave the stacks untouched, got %d/%d", u, r)
	}
}

func TestClear(t *testing.T) {
	var (
		g = testGrid(t)
		h = New(0)
	)
	testApply(t, h, g, 0, 0, pixel.Red, 1)
	testApply(t, h, g, 0, 0, pixel.Red, 1)
	_, _, _ = h.Undo(g)
	h.Clear()
	if u, r := h.Len(); u != 0 || r != 0 {
		t.Errorf("expected empty stacks, got %d/%d", u, r)
	}
}
