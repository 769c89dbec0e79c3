// Package tui is a terminal frontend for a paint session.
//
// Each grid cell is drawn as two terminal columns on one row, followed by a
// palette row and a status line. The left mouse button paints and picks
// palette colors.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/paint"
	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

// Layout in terminal cells.
const (
	CellWidth   = 2
	SwatchWidth = 3
)

// App binds a session to a terminal screen.
type App struct {
	screen   tcell.Screen
	session  *paint.Session
	palette  []pixel.RGB
	savePath string
	message  string
	log      *logrus.Entry
}

// New creates an app drawing on screen. The screen must be initialized.
func New(screen tcell.Screen, session *paint.Session, palette []pixel.RGB, savePath string) *App {
	if len(palette) == 0 {
		palette = pixel.Palette
	}
	a := &App{
		screen:   screen,
		session:  session,
		palette:  palette,
		savePath: savePath,
		log:      logrus.WithField("component", "tui"),
	}
	session.AddRenderer(a)
	return a
}

// Render implements paint.Renderer.
func (a *App) Render(changes []grid.Change) {
	for _, c := range changes {
		a.drawCell(c.Row, c.Col, c.Color)
	}
	a.drawStatus()
	a.screen.Show()
}

// Redraw draws the whole screen.
func (a *App) Redraw() {
	a.screen.Clear()
	g := a.session.Grid()
	for _, c := range g.Changes() {
		a.drawCell(c.Row, c.Col, c.Color)
	}
	a.drawPalette()
	a.drawStatus()
	a.screen.Show()
}

func style(c pixel.Cell) tcell.Style {
	v := c.Color()
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(v.R), int32(v.G), int32(v.B)))
}

func (a *App) drawCell(row, col int, c pixel.Cell) {
	s := style(c)
	for i := 0; i < CellWidth; i++ {
		a.screen.SetContent(col*CellWidth+i, row, ' ', nil, s)
	}
}

func (a *App) drawPalette() {
	y := a.session.Grid().Size()
	x := 0
	for _, c := range a.palette {
		s := style(pixel.Set(c))
		for i := 0; i < SwatchWidth; i++ {
			a.screen.SetContent(x+i, y, ' ', nil, s)
		}
		x += SwatchWidth
	}
}

// Status is the text of the status line.
func (a *App) Status() string {
	b := a.session.Brush()
	undo, redo := a.session.History()
	status := fmt.Sprintf("%s | undo %d redo %d", b, undo, redo)
	if a.message != "" {
		status += " | " + a.message
	}
	return status
}

func (a *App) drawStatus() {
	w, _ := a.screen.Size()
	y := a.session.Grid().Size() + 1
	text := runewidth.Truncate(a.Status(), w, "…")
	x := 0
	for _, r := range text {
		a.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

func (a *App) report(op string, err error) {
	if err != nil {
		a.log.WithError(err).WithField("op", op).Warn("command failed")
		a.message = op + ": " + err.Error()
	}
}

// Do executes a command by name: undo, redo, color, size, eraser or save.
func (a *App) Do(command string) {
	a.message = ""
	switch command {
	case "undo":
		ok, err := a.session.Undo()
		a.report(command, err)
		if !ok && err == nil {
			a.message = "nothing to undo"
		}
	case "redo":
		ok, err := a.session.Redo()
		a.report(command, err)
		if !ok && err == nil {
			a.message = "nothing to redo"
		}
	case "color":
		a.session.SelectColor(brush.NextColor(a.palette, a.session.Brush().Color))
	case "size":
		a.report(command, a.session.SelectBrushSize(brush.NextSize(a.session.Brush().Size)))
	case "eraser":
		a.session.Erase()
	case "save":
		a.save()
	case "load":
		a.load()
	default:
		a.log.WithField("command", command).Debug("ignored unknown command")
	}
	a.drawStatus()
	a.screen.Show()
}

func (a *App) save() {
	if err := a.session.Save(a.savePath); err != nil {
		a.report("save", err)
		return
	}
	a.log.WithField("path", a.savePath).Info("saved")
	a.message = "saved " + a.savePath
}

func (a *App) load() {
	if err := a.session.Load(a.savePath); err != nil {
		a.report("load", err)
		return
	}
	a.log.WithField("path", a.savePath).Info("loaded")
	a.message = "loaded " + a.savePath
}

func (a *App) click(x, y int) {
	size := a.session.Grid().Size()
	switch {
	case y < size && x < size*CellWidth:
		a.message = ""
		a.report("paint", a.session.Paint(y, x/CellWidth))
	case y == size && x < len(a.palette)*SwatchWidth:
		a.session.SelectColor(pixel.Set(a.palette[x/SwatchWidth]))
		a.drawStatus()
		a.screen.Show()
	}
}

// HandleEvent processes one terminal event, it returns true when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.Redraw()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.click(x, y)
		}
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyCtrlZ:
			a.Do("undo")
		case tcell.KeyCtrlY:
			a.Do("redo")
		case tcell.KeyRune:
			if ev.Modifiers()&tcell.ModCtrl != 0 {
				a.ctrl(ev.Rune())
				return false
			}
			return a.key(ev.Rune())
		}
	}
	return false
}

func (a *App) ctrl(r rune) {
	switch r {
	case 'z', 'Z':
		a.Do("undo")
	case 'y', 'Y':
		a.Do("redo")
	}
}

func (a *App) key(r rune) (quit bool) {
	switch r {
	case 'q':
		return true
	case 'u':
		a.Do("undo")
	case 'r':
		a.Do("redo")
	case 'c':
		a.Do("color")
	case 'e':
		a.Do("eraser")
	case 's':
		a.Do("save")
	case 'l':
		a.Do("load")
	case '1', '2', '3':
		a.message = ""
		a.report("size", a.session.SelectBrushSize(int(r-'0')))
		a.drawStatus()
		a.screen.Show()
	}
	return false
}

// Post schedules fn on the event goroutine.
func (a *App) Post(fn func()) error {
	return a.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run processes events until the user quits or the screen is finalized.
func (a *App) Run() {
	a.Redraw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if a.HandleEvent(ev) {
			return
		}
	}
}

// Help is the key binding summary.
func Help() string {
	return strings.Join([]string{
		"mouse: paint, pick palette color",
		"u/ctrl-z: undo   r/ctrl-y: redo",
		"1-3: brush size  c: next color  e: eraser",
		"s: save  l: load  q/esc: quit",
	}, "\n")
}
