// Package panel drives small SPI TFT panels used to mirror the canvas.
package panel

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Errors
var (
	ErrDCPin    = errors.New("panel: data/command (DC) GPIO pin is invalid")
	ErrResetPin = errors.New("panel: reset GPIO pin is invalid")
	ErrSize     = errors.New("panel: invalid panel size")
	ErrRotation = errors.New("panel: rotation must be 0, 90, 180 or 270 degrees")
)

// Conn sends controller commands and pixel data.
type Conn interface {
	String() string

	// Close releases the connection.
	Close() error

	// Reset pulses the reset line.
	Reset() error

	// Command sends a command byte followed by its parameters.
	Command(cmd byte, params ...byte) error

	// Data sends pixel data.
	Data(data []byte) error
}

// DefaultBatchSize limits a single transfer when the port doesn't report a
// limit of its own.
const DefaultBatchSize = 4096

type spiConn struct {
	port      io.Closer
	bus       spi.Conn
	dc        gpio.PinOut
	reset     gpio.PinOut
	batchSize int
}

// OpenSPI connects to the SPI port (as in "SPI0.0" or "" for the first one)
// with the DC and reset pins given by name.
func OpenSPI(port, dc, reset string, speedHz int) (Conn, error) {
	dcPin := gpioreg.ByName(dc)
	if dcPin == nil || dcPin == gpio.INVALID {
		return nil, fmt.Errorf("%w: %q", ErrDCPin, dc)
	}
	resetPin := gpioreg.ByName(reset)
	if resetPin == nil || resetPin == gpio.INVALID {
		return nil, fmt.Errorf("%w: %q", ErrResetPin, reset)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	bus, err := p.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("panel: %s: %w", p, err)
	}
	return newConn(p, bus, dcPin, resetPin), nil
}

func newConn(port io.Closer, bus spi.Conn, dc, reset gpio.PinOut) *spiConn {
	c := &spiConn{
		port:      port,
		bus:       bus,
		dc:        dc,
		reset:     reset,
		batchSize: DefaultBatchSize,
	}
	if l, ok := bus.(conn.Limits); ok && l.MaxTxSize() > 0 {
		c.batchSize = l.MaxTxSize()
	}
	return c
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI %s", c.bus)
}

func (c *spiConn) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

func (c *spiConn) Reset() (err error) {
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err = c.reset.Out(level); err != nil {
			return
		}
		sleep(resetDelay)
	}
	return
}

func (c *spiConn) Command(cmd byte, params ...byte) error {
	if err := c.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := c.bus.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return c.Data(params)
}

func (c *spiConn) Data(data []byte) error {
	if err := c.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > c.batchSize {
			n = c.batchSize
		}
		if err := c.bus.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
