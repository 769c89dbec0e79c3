package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/BeatGlow/paint"
	"github.com/BeatGlow/paint/pixel"
)

func testApp(t *testing.T, size int) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, size+2)

	config := paint.DefaultConfig
	config.GridSize = size
	s, err := paint.New(&config)
	if err != nil {
		t.Fatal(err)
	}
	a := New(screen, s, nil, filepath.Join(t.TempDir(), "test.png"))
	a.Redraw()
	return a, screen
}

func testBackground(t *testing.T, screen tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func testColor(c pixel.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func readLine(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		if ch == 0 {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func testClick(a *App, x, y int) {
	a.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func testKey(a *App, r rune) bool {
	return a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func TestPaint(t *testing.T) {
	a, screen := testApp(t, 4)

	if v := testBackground(t, screen, 0, 0); v != testColor(pixel.White) {
		t.Errorf("expected empty cell to be white, got %v", v)
	}

	testClick(a, 3, 2) // column 1, row 2
	v, _ := a.session.Grid().Get(2, 1)
	if v != pixel.Set(pixel.Black) {
		t.Fatalf("expected painted cell, got %s", v)
	}
	for _, x := range []int{2, 3} {
		if v := testBackground(t, screen, x, 2); v != testColor(pixel.Black) {
			t.Errorf("expected column %d black, got %v", x, v)
		}
	}
	if !strings.Contains(readLine(screen, 5), "undo 1 redo 0") {
		t.Errorf("unexpected status %q", readLine(screen, 5))
	}

	// Outside of the canvas.
	testClick(a, 70, 1)
	if undo, _ := a.session.History(); undo != 1 {
		t.Errorf("expected click outside of canvas to be ignored, got %d undo steps", undo)
	}
}

func TestPalette(t *testing.T) {
	a, screen := testApp(t, 4)
	for i, c := range pixel.Palette {
		if v := testBackground(t, screen, i*SwatchWidth+1, 4); v != testColor(c) {
			t.Errorf("swatch %d: expected %s, got %v", i, c, v)
		}
	}

	testClick(a, SwatchWidth*2, 4)
	if v := a.session.Brush().Color; v != pixel.Set(pixel.Palette[2]) {
		t.Errorf("expected %s, got %s", pixel.Palette[2], v)
	}
	if undo, _ := a.session.History(); undo != 0 {
		t.Error("expected palette pick not to be recorded")
	}
}

func TestKeys(t *testing.T) {
	a, screen := testApp(t, 4)
	testClick(a, 0, 0)

	testKey(a, 'u')
	if v := testBackground(t, screen, 0, 0); v != testColor(pixel.White) {
		t.Errorf("expected undo to restore white, got %v", v)
	}
	testKey(a, 'r')
	if v := testBackground(t, screen, 0, 0); v != testColor(pixel.Black) {
		t.Errorf("expected redo to paint black, got %v", v)
	}

	testKey(a, 'r')
	if !strings.Contains(readLine(screen, 5), "nothing to redo") {
		t.Errorf("unexpected status %q", readLine(screen, 5))
	}

	testKey(a, '3')
	if v := a.session.Brush().Size; v != 3 {
		t.Errorf("expected brush size 3, got %d", v)
	}
	a.Do("size")
	if v := a.session.Brush().Size; v != 1 {
		t.Errorf("expected brush size to wrap to 1, got %d", v)
	}

	testKey(a, 'e')
	if v := a.session.Brush().Color; v != pixel.Set(pixel.White) {
		t.Errorf("expected eraser, got %s", v)
	}
	testKey(a, 'c')
	if v := a.session.Brush().Color; v != pixel.Set(pixel.Palette[len(pixel.Palette)-1]) && v != pixel.Set(pixel.Palette[0]) {
		t.Errorf("unexpected next color %s", v)
	}

	if !testKey(a, 'q') {
		t.Error("expected q to quit")
	}
	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected escape to quit")
	}
}

func TestSaveLoad(t *testing.T) {
	a, screen := testApp(t, 4)
	a.session.SelectColor(pixel.Set(pixel.Red))
	testClick(a, 0, 0)
	testKey(a, 's')
	if !strings.Contains(readLine(screen, 5), "saved") {
		t.Fatalf("unexpected status %q", readLine(screen, 5))
	}

	testKey(a, 'u')
	testKey(a, 'l')
	if v := testBackground(t, screen, 0, 0); v != testColor(pixel.Red) {
		t.Errorf("expected loaded cell red, got %v", v)
	}
}

func TestStatusTruncated(t *testing.T) {
	a, screen := testApp(t, 4)
	screen.SetSize(10, 6)
	a.Redraw()
	line := readLine(screen, 5)
	if !strings.HasSuffix(line, "…") {
		t.Errorf("expected truncated status, got %q", line)
	}
}

func TestPost(t *testing.T) {
	a, _ := testApp(t, 4)
	var called bool
	a.HandleEvent(tcell.NewEventInterrupt(func() { called = true }))
	if !called {
		t.Error("expected posted function to run")
	}
}
