// Package input maps hardware push buttons to editor commands.
//
// Buttons are GPIO pins wired to ground; each pin is configured with a pull-up
// and watched for falling edges. Presses are delivered on a channel so the host
// can process them on its event goroutine.
package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Errors
var (
	ErrAction = errors.New("input: unknown action")
	ErrPin    = errors.New("input: GPIO pin is invalid")
)

// Action is an editor command triggered by a button.
type Action string

// Supported actions.
const (
	Undo      Action = "undo"
	Redo      Action = "redo"
	NextColor Action = "color"
	NextSize  Action = "size"
	Eraser    Action = "eraser"
	Save      Action = "save"
)

var actions = []Action{Undo, Redo, NextColor, NextSize, Eraser, Save}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	v := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range actions {
		if a == v {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrAction, s)
}

const (
	// pollInterval bounds how long a watcher waits for an edge before
	// checking whether it should stop.
	pollInterval = 100 * time.Millisecond

	// DefaultDebounce is the minimum time between two presses of a button.
	DefaultDebounce = 50 * time.Millisecond
)

// Buttons watches a set of GPIO pins.
type Buttons struct {
	debounce time.Duration
	pins     []gpio.PinIn
	actions  []Action
	events   chan Action
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// Open looks up the pins by name, as in {"GPIO17": "undo"}, and starts watching them.
func Open(mapping map[string]string) (*Buttons, error) {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	pins := make(map[gpio.PinIn]Action, len(mapping))
	for _, name := range names {
		a, err := ParseAction(mapping[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pin := gpioreg.ByName(name)
		if pin == nil || pin == gpio.INVALID {
			return nil, fmt.Errorf("%w: %s", ErrPin, name)
		}
		pins[pin] = a
	}
	return Watch(pins, DefaultDebounce)
}

// Watch starts watching the given pins. Presses of the same button closer
// than debounce are ignored.
func Watch(pins map[gpio.PinIn]Action, debounce time.Duration) (*Buttons, error) {
	b := &Buttons{
		debounce: debounce,
		events:   make(chan Action, 8),
		stop:     make(chan struct{}),
	}
	for pin, a := range pins {
		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("input: %s: %w", pin, err)
		}
		b.pins = append(b.pins, pin)
		b.actions = append(b.actions, a)
	}
	for i := range b.pins {
		b.wg.Add(1)
		go b.watch(b.pins[i], b.actions[i])
	}
	return b, nil
}

// Events returns the channel button presses are delivered on. It is closed
// after Stop.
func (b *Buttons) Events() <-chan Action {
	return b.events
}

// Stop ends all watchers and closes the events channel.
func (b *Buttons) Stop() {
	b.once.Do(func() {
		close(b.stop)
		b.wg.Wait()
		close(b.events)
	})
}

func (b *Buttons) watch(pin gpio.PinIn, a Action) {
	defer b.wg.Done()
	var last time.Time
	for {
		select {
		case <-b.stop:
			return
		default:
		}

		if !pin.WaitForEdge(pollInterval) {
			continue
		}
		if pin.Read() != gpio.Low {
			// Released or bounced back up.
			continue
		}
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < b.debounce {
			continue
		}
		last = now

		select {
		case b.events <- a:
		case <-b.stop:
			return
		}
	}
}
