package vision

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2C is the real Bus over a Linux I2C adapter via periph.io.
type I2C struct {
	name string

	once sync.Once
	bus  i2c.BusCloser
	dev  *i2c.Dev
	err  error
}

// NewI2C creates a bus for the named adapter ("" picks the first one,
// "/dev/i2c-1" or "1" select a specific adapter). Nothing is opened
// until Begin.
func NewI2C(name string) *I2C {
	return &I2C{name: name}
}

// Begin initializes the periph host drivers and opens the adapter. Safe
// to call more than once; later calls return the first result.
func (b *I2C) Begin() error {
	b.once.Do(func() {
		if _, err := host.Init(); err != nil {
			b.err = fmt.Errorf("init periph host: %w", err)
			return
		}
		bus, err := i2creg.Open(b.name)
		if err != nil {
			b.err = fmt.Errorf("open i2c bus %q: %w", b.name, err)
			return
		}
		b.bus = bus
		b.dev = &i2c.Dev{Bus: bus, Addr: CameraAddr}
	})
	return b.err
}

// WriteByte sends one byte to the camera in a single write transaction.
func (b *I2C) WriteByte(v byte) error {
	if b.dev == nil {
		return fmt.Errorf("i2c bus not initialized")
	}
	if err := b.dev.Tx([]byte{v}, nil); err != nil {
		return fmt.Errorf("i2c write: %w", err)
	}
	return nil
}

// ReadBytes requests len(p) bytes from the camera. An I2C master clocks
// exactly the requested count, so a successful read is always complete.
func (b *I2C) ReadBytes(p []byte) (int, error) {
	if b.dev == nil {
		return -1, fmt.Errorf("i2c bus not initialized")
	}
	if err := b.dev.Tx(nil, p); err != nil {
		return -1, fmt.Errorf("i2c read: %w", err)
	}
	return len(p), nil
}

// Close releases the adapter.
func (b *I2C) Close() error {
	if b.bus == nil {
		return nil
	}
	return b.bus.Close()
}
