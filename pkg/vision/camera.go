package vision

import "fmt"

// Color identifies a detected color channel.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "none"
	}
}

// Box is a detection bounding box as reported by the camera.
type Box struct {
	X, Y, W, H uint8
}

// Camera reads detections from the ESP32-CAM. Each method is one
// self-contained bus transaction; the camera keeps no state between
// calls. Bus failures are never retried — the caller re-polls on its
// next cycle.
type Camera struct {
	bus      Bus
	trackReg byte
}

// Option configures a Camera.
type Option func(*Camera)

// WithTrackingRegister sets the channel ColorPosition reads. The stock
// clamp firmware publishes the tracked color at RegChannel1, the trace
// firmware at RegChannel2.
func WithTrackingRegister(reg byte) Option {
	return func(c *Camera) {
		c.trackReg = reg
	}
}

// NewCamera creates a camera over the given bus.
func NewCamera(bus Bus, opts ...Option) *Camera {
	c := &Camera{
		bus:      bus,
		trackReg: RegChannel1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin initializes the underlying bus. Call once at startup.
func (c *Camera) Begin() error {
	return c.bus.Begin()
}

// FaceDetect reports whether the camera currently sees a face. Requires
// the face-detection firmware on the camera.
func (c *Camera) FaceDetect() (bool, error) {
	var buf [boxLen]byte
	n, err := c.readRegister(RegChannel1, buf[:])
	if err != nil {
		return false, err
	}
	return n == boxLen && buf[2] > 0, nil
}

// ColorDetect polls the three color channels in fixed priority order
// (red, green, blue) and returns the first one reporting a target. A
// channel whose read fails is treated as empty and the remaining
// channels are still polled; the first failure is returned alongside
// ColorNone when nothing matched.
func (c *Camera) ColorDetect() (Color, error) {
	channels := []struct {
		reg   byte
		color Color
	}{
		{RegChannel0, ColorRed},
		{RegChannel1, ColorGreen},
		{RegChannel2, ColorBlue},
	}

	var firstErr error
	for _, ch := range channels {
		var buf [boxLen]byte
		n, err := c.readRegister(ch.reg, buf[:])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n == boxLen && buf[2] > 0 {
			return ch.color, nil
		}
	}
	return ColorNone, firstErr
}

// ColorPosition reads the tracked color's bounding box. The boolean is
// true only when the camera returned a full box with nonzero width; the
// box is zero otherwise.
func (c *Camera) ColorPosition() (Box, bool, error) {
	var buf [boxLen]byte
	n, err := c.readRegister(c.trackReg, buf[:])
	if err != nil {
		return Box{}, false, err
	}
	if n != boxLen || buf[2] == 0 {
		return Box{}, false, nil
	}
	return Box{X: buf[0], Y: buf[1], W: buf[2], H: buf[3]}, true, nil
}

// readRegister selects a register with a one-byte write, then reads
// len(p) bytes into p. Returns the byte count actually read; callers
// validate it against the expected payload size.
func (c *Camera) readRegister(reg byte, p []byte) (int, error) {
	if err := c.bus.WriteByte(reg); err != nil {
		return -1, fmt.Errorf("select register 0x%02x: %w", reg, err)
	}
	n, err := c.bus.ReadBytes(p)
	if err != nil {
		return -1, fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	return n, nil
}
