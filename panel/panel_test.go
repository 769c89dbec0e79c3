package panel

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/paint/pixel"
)

func init() {
	sleep = func(time.Duration) {}
}

type testOp struct {
	dc   gpio.Level
	data []byte
}

// testBus records transfers together with the DC level at the time.
type testBus struct {
	dc    *gpiotest.Pin
	ops   []testOp
	limit int
	err   error
}

func (b *testBus) String() string { return "test" }
func (b *testBus) Duplex() conn.Duplex { return conn.Half }
func (b *testBus) MaxTxSize() int { return b.limit }
func (b *testBus) TxPackets([]spi.Packet) error { return errors.New("not implemented") }

func (b *testBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.ops = append(b.ops, testOp{dc: b.dc.Read(), data: append([]byte(nil), w...)})
	return nil
}

type testCloser struct{ closed int }

func (c *testCloser) Close() error {
	c.closed++
	return nil
}

func testConn(t *testing.T, limit int) (*spiConn, *testBus, *testCloser) {
	t.Helper()
	var (
		dc    = &gpiotest.Pin{N: "DC"}
		reset = &gpiotest.Pin{N: "RST"}
		bus   = &testBus{dc: dc, limit: limit}
		port  = new(testCloser)
	)
	return newConn(port, bus, dc, reset), bus, port
}

func TestConn(t *testing.T) {
	c, bus, port := testConn(t, 4)
	if c.batchSize != 4 {
		t.Fatalf("expected batch size from port limits, got %d", c.batchSize)
	}

	if err := c.Command(0x2A, 1, 2, 3, 4, 5); err != nil {
		t.Fatal(err)
	}
	want := []testOp{
		{gpio.Low, []byte{0x2A}},
		{gpio.High, []byte{1, 2, 3, 4}},
		{gpio.High, []byte{5}},
	}
	if len(bus.ops) != len(want) {
		t.Fatalf("expected %d transfers, got %d", len(want), len(bus.ops))
	}
	for i, op := range want {
		if bus.ops[i].dc != op.dc || !bytes.Equal(bus.ops[i].data, op.data) {
			t.Errorf("transfer %d: expected %v %x, got %v %x", i, op.dc, op.data, bus.ops[i].dc, bus.ops[i].data)
		}
	}

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if v := c.reset.(*gpiotest.Pin).Read(); v != gpio.High {
		t.Errorf("expected reset released high, got %s", v)
	}

	if err := c.Close(); err != nil || port.closed != 1 {
		t.Errorf("expected port closed once, got %d (%v)", port.closed, err)
	}
}

func TestConnDefaultBatch(t *testing.T) {
	c, _, _ := testConn(t, 0)
	if c.batchSize != DefaultBatchSize {
		t.Errorf("expected default batch size, got %d", c.batchSize)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		Name   string
		Config Config
		Err    error
	}{
		{"default", DefaultConfig, nil},
		{"portrait", Config{Width: 240, Height: 320}, nil},
		{"landscape", Config{Width: 320, Height: 240, Rotation: 90}, nil},
		{"too wide", Config{Width: 320, Height: 240}, ErrSize},
		{"empty", Config{}, ErrSize},
		{"rotation", Config{Width: 240, Height: 240, Rotation: 45}, ErrRotation},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			err := test.Config.Validate()
			if test.Err == nil && err != nil {
				it.Errorf("unexpected error %v", err)
			} else if test.Err != nil && !errors.Is(err, test.Err) {
				it.Errorf("expected %v, got %v", test.Err, err)
			}
		})
	}
	if DefaultConfig.Enabled() {
		t.Error("expected default panel to be disabled")
	}
}

func TestST7789(t *testing.T) {
	c, bus, port := testConn(t, 0)
	config := DefaultConfig
	config.Width, config.Height = 4, 2
	config.Rotation = 90

	d, err := New(c, &config)
	if err != nil {
		t.Fatal(err)
	}
	if len(bus.ops) == 0 || bus.ops[0].data[0] != st7789SLPOUT {
		t.Fatalf("expected init to start with sleep out, got %v", bus.ops)
	}
	var madctl, colmod bool
	for i, op := range bus.ops {
		if op.dc != gpio.Low || i+1 >= len(bus.ops) {
			continue
		}
		switch op.data[0] {
		case st7789MADCTL:
			madctl = bus.ops[i+1].data[0] == st7789ColumnAddressOrder|st7789PageColumnOrder
		case st7789COLMOD:
			colmod = bus.ops[i+1].data[0] == 0x05
		}
	}
	if !madctl || !colmod {
		t.Errorf("expected rotation and pixel format to be set, madctl=%t colmod=%t", madctl, colmod)
	}
	if last := bus.ops[len(bus.ops)-1]; last.dc != gpio.Low || last.data[0] != st7789DISPON {
		t.Errorf("expected init to end with display on, got %v", last)
	}

	bus.ops = nil
	d.Set(0, 0, pixel.Red)
	if err = d.Refresh(); err != nil {
		t.Fatal(err)
	}
	// CASET, args, RASET, args, RAMWR, pixels
	if len(bus.ops) != 6 {
		t.Fatalf("expected 6 transfers, got %d", len(bus.ops))
	}
	if v := bus.ops[1].data; !bytes.Equal(v, []byte{0, 0, 0, 3}) {
		t.Errorf("unexpected column window %x", v)
	}
	if v := bus.ops[3].data; !bytes.Equal(v, []byte{0, 0, 0, 1}) {
		t.Errorf("unexpected row window %x", v)
	}
	pixels := bus.ops[5]
	if pixels.dc != gpio.High || len(pixels.data) != 4*2*2 {
		t.Fatalf("expected %d bytes of pixel data, got %d", 4*2*2, len(pixels.data))
	}
	if pixels.data[0] != 0xF8 || pixels.data[1] != 0x00 {
		t.Errorf("expected big endian RGB565 red, got %x", pixels.data[:2])
	}

	bus.ops = nil
	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if len(bus.ops) != 1 || bus.ops[0].data[0] != st7789DISPOFF {
		t.Errorf("expected display off on close, got %v", bus.ops)
	}
	if port.closed != 1 {
		t.Error("expected port to be closed")
	}
}

func TestST7789Error(t *testing.T) {
	c, bus, _ := testConn(t, 0)
	bus.err = errors.New("test")
	config := DefaultConfig
	if _, err := New(c, &config); !errors.Is(err, bus.err) {
		t.Errorf("expected bus error, got %v", err)
	}
}
