package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/paint"
	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/config"
	"github.com/BeatGlow/paint/framebuffer"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/draw"
	"github.com/BeatGlow/paint/input"
	"github.com/BeatGlow/paint/panel"
	"github.com/BeatGlow/paint/render"
	"github.com/BeatGlow/paint/tui"
)

func main() {
	configFlag := flag.String("config", config.Path(), "Configuration file")
	gridFlag := flag.Int("grid", 0, "Grid size in cells (default: from configuration)")
	outputFlag := flag.String("o", "", "Image path for save and load (default: from configuration)")
	loadFlag := flag.String("load", "", "Image to load on start")
	exportFlag := flag.String("export", "", "Save to this image and exit, without user interface")
	fbFlag := flag.String("fb", "", "Framebuffer device to mirror the canvas on (default: from configuration)")
	buttonsFlag := flag.String("buttons", "", "GPIO buttons as PIN=action,... (default: from configuration)")
	headlessFlag := flag.Bool("headless", false, "Run without terminal interface, using buttons and framebuffer only")
	logFlag := flag.String("log", "", "Log file (default: stderr when headless, discarded otherwise)")
	writeConfigFlag := flag.Bool("write-config", false, "Write the effective configuration and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n%s\n\n", os.Args[0], tui.Help())
		flag.PrintDefaults()
	}
	flag.Parse()

	logFile := setupLogging(*logFlag, *headlessFlag || *exportFlag != "")
	if logFile != nil {
		defer logFile.Close()
	}

	c, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *gridFlag != 0 {
		c.GridSize = *gridFlag
	}
	if *outputFlag != "" {
		c.SavePath = *outputFlag
	}
	if *fbFlag != "" {
		c.FrameBuffer = *fbFlag
	}
	if *buttonsFlag != "" {
		if c.Buttons, err = parseButtons(*buttonsFlag); err != nil {
			fatal(err)
		}
	}
	if err = c.Validate(); err != nil {
		fatal(err)
	}
	if *writeConfigFlag {
		if err = config.Save(*configFlag, c); err != nil {
			fatal(err)
		}
		fmt.Printf("configuration written to %s\n", *configFlag)
		return
	}

	session, err := paint.New(c.Session())
	if err != nil {
		fatal(err)
	}
	logrus.WithField("session", session).Debug("session started")

	if *loadFlag != "" {
		if err = session.Load(*loadFlag); err != nil {
			fatal(err)
		}
	}

	if *exportFlag != "" {
		if err = session.Save(*exportFlag); err != nil {
			fatal(err)
		}
		logrus.WithField("path", *exportFlag).Info("exported")
		return
	}

	var mirrors []*render.Canvas
	if c.FrameBuffer != "" {
		fb, err := framebuffer.Open(c.FrameBuffer)
		if err != nil {
			fatal(err)
		}
		defer fb.Close()
		logrus.WithField("device", fb).Info("mirroring on framebuffer")
		mirrors = append(mirrors, mirror(session, fb))
	}

	if len(c.Buttons) > 0 || c.Panel.Enabled() {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
	}

	if c.Panel.Enabled() {
		p, err := panel.Open(&c.Panel)
		if err != nil {
			fatal(err)
		}
		defer p.Close()
		logrus.WithField("panel", p).Info("mirroring on panel")
		mirrors = append(mirrors, mirror(session, p))
	}
	for _, m := range mirrors {
		defer m.Close()
	}

	var buttons *input.Buttons
	if len(c.Buttons) > 0 {
		if buttons, err = input.Open(c.Buttons); err != nil {
			fatal(err)
		}
		defer buttons.Stop()
		logrus.WithField("buttons", c.Buttons).Info("watching buttons")
	}

	if *headlessFlag {
		runHeadless(session, c, buttons, mirrors)
		return
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(err)
	}
	if err = screen.Init(); err != nil {
		fatal(err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	app := tui.New(screen, session, c.Palette, c.SavePath)
	if buttons != nil {
		go func() {
			for a := range buttons.Events() {
				if err := app.Post(func() { app.Do(string(a)) }); err != nil {
					logrus.WithError(err).Warn("dropped button press")
				}
			}
		}()
	}
	app.Run()
}

// runHeadless serves button presses on the calling goroutine until interrupted.
func runHeadless(session *paint.Session, c *config.Config, buttons *input.Buttons, mirrors []*render.Canvas) {
	if buttons == nil {
		fatal(errors.New("headless mode requires buttons"))
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	fmt.Println("hit control-c to stop...")
	for {
		select {
		case <-signals:
			return
		case a, ok := <-buttons.Events():
			if !ok {
				return
			}
			log := logrus.WithField("action", a)
			if err := apply(session, c, a); err != nil {
				log.WithError(err).Warn("action failed")
			} else {
				log.Debug("action")
			}
			for _, m := range mirrors {
				m.Status(session.Brush())
			}
		}
	}
}

func apply(session *paint.Session, c *config.Config, a input.Action) error {
	switch a {
	case input.Undo:
		_, err := session.Undo()
		return err
	case input.Redo:
		_, err := session.Redo()
		return err
	case input.NextColor:
		session.SelectColor(brush.NextColor(c.Palette, session.Brush().Color))
	case input.NextSize:
		return session.SelectBrushSize(brush.NextSize(session.Brush().Size))
	case input.Eraser:
		session.Erase()
	case input.Save:
		return session.Save(c.SavePath)
	}
	return nil
}

// mirror renders the session on dst, scaled to fit.
func mirror(session *paint.Session, dst draw.Image) *render.Canvas {
	size := session.Grid().Size()
	cell := render.Fit(dst.Bounds(), size)
	if cell == 0 {
		fatal(fmt.Errorf("%s is too small for a %d×%d grid", dst, size, size))
	}
	m, err := render.NewCanvas(dst, size, cell)
	if err != nil {
		fatal(err)
	}
	log := logrus.WithField("mirror", fmt.Sprint(dst))
	session.AddRenderer(paint.RendererFunc(func(changes []grid.Change) {
		m.Render(changes)
		m.Status(session.Brush())
		if err := m.Err(); err != nil {
			log.WithError(err).Warn("refresh failed")
		}
	}))
	m.Redraw(session.Grid())
	m.Status(session.Brush())
	return m
}

// parseButtons parses "GPIO17=undo,GPIO27=redo".
func parseButtons(s string) (map[string]string, error) {
	m := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		pin, action, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || pin == "" {
			return nil, fmt.Errorf("invalid button %q, expected PIN=action", part)
		}
		if _, err := input.ParseAction(action); err != nil {
			return nil, err
		}
		m[pin] = action
	}
	return m, nil
}

func setupLogging(path string, console bool) *os.File {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("PAINT_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(err)
		}
		logrus.SetOutput(f)
		return f
	case console:
		logrus.SetOutput(os.Stderr)
	default:
		// The terminal belongs to the user interface.
		logrus.SetOutput(io.Discard)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
