// Package control runs the hand's main loop: gesture playback plus
// camera polling.
package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/uhand/pkg/action"
	"github.com/gwillem/uhand/pkg/hand"
	"github.com/gwillem/uhand/pkg/vision"
)

// Mode selects the loop's reactive behavior.
type Mode string

const (
	// ModeManual plays only explicitly triggered gestures.
	ModeManual Mode = "manual"
	// ModeFace waves whenever the camera sees a face.
	ModeFace Mode = "face"
	// ModeClamp grips when the camera sees a color, one gesture per
	// color.
	ModeClamp Mode = "clamp"
	// ModeTrace rotates the wrist to follow the tracked color.
	ModeTrace Mode = "trace"
)

// Actuator receives joint-angle updates. *hand.Hand implements it.
type Actuator interface {
	Apply(ctx context.Context, angles map[hand.JointName]float64) error
}

// Detector is the camera surface the loop polls. *vision.Camera
// implements it.
type Detector interface {
	FaceDetect() (bool, error)
	ColorDetect() (vision.Color, error)
	ColorPosition() (vision.Box, bool, error)
}

// State represents one loop iteration's outcome.
type State struct {
	Angles    action.Frame
	Action    int
	Face      bool
	Color     vision.Color
	Timestamp time.Time
	Error     error
}

// Trace-mode wrist tracking: nudge the wrist while the target's X sits
// outside the center band.
const (
	traceCenterLow  = 100
	traceCenterHigh = 140
	traceStep       = 4 // degrees per loop iteration
)

// clampGestures maps a detected color to the gesture ModeClamp plays.
var clampGestures = map[vision.Color]int{
	vision.ColorRed:   action.Clench,
	vision.ColorGreen: action.Scissors,
	vision.ColorBlue:  action.ThumbsUp,
}

// Controller manages the control loop.
type Controller struct {
	hand Actuator
	cam  Detector
	mode Mode
	hz   int

	mu     sync.Mutex
	player *action.Player

	wrist       float64 // trace-mode wrist position
	lastApplied action.Frame
	applied     bool

	running bool
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the controller.
type Config struct {
	Actuator Actuator
	Detector Detector // may be nil in ModeManual
	Table    action.Table
	Mode     Mode
	Hz       int // loop frequency; the player gates itself to 10 Hz regardless
}

// NewController creates a new control loop.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Actuator == nil {
		return nil, fmt.Errorf("actuator is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeManual
	}
	if cfg.Mode != ModeManual && cfg.Detector == nil {
		return nil, fmt.Errorf("mode %q needs a camera", cfg.Mode)
	}
	if cfg.Table == nil {
		cfg.Table = action.Builtin()
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}

	return &Controller{
		hand:    cfg.Actuator,
		cam:     cfg.Detector,
		mode:    cfg.Mode,
		hz:      cfg.Hz,
		player:  action.NewPlayer(cfg.Table),
		wrist:   90,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// Trigger starts a named builtin gesture. Safe to call from outside the
// loop (e.g. the TUI goroutine).
func (c *Controller) Trigger(name string) error {
	num, ok := action.ByName(name)
	if !ok {
		return fmt.Errorf("unknown gesture %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.player.SetAction(num); err != nil {
		return err
	}
	c.log("Playing %s", name)
	return nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the loop frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Mode returns the loop's behavior mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start begins the control loop.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Control loop started at %d Hz, mode %s", c.hz, c.mode)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx)
		}
	}
}

func (c *Controller) step(ctx context.Context) {
	c.mu.Lock()
	c.player.Tick()
	angles := c.player.Angles()
	act := c.player.State()
	c.mu.Unlock()

	state := State{
		Angles:    angles,
		Action:    act,
		Timestamp: time.Now(),
	}

	if c.cam != nil {
		c.observe(act, &state)
		angles = state.Angles
	}

	// Push angles only when they change; the servo bus does not need
	// refreshing with identical targets.
	if !c.applied || angles != c.lastApplied {
		if err := c.apply(ctx, angles); err != nil {
			c.log("Write error: %v", err)
			state.Error = err
		} else {
			c.lastApplied = angles
			c.applied = true
		}
	}

	c.sendState(state)
}

// observe polls the camera and applies the mode's behavior. Only an
// idle player is interrupted; a gesture in progress always finishes.
func (c *Controller) observe(act int, state *State) {
	switch c.mode {
	case ModeFace:
		seen, err := c.cam.FaceDetect()
		if err != nil {
			c.log("Camera error: %v", err)
			return
		}
		state.Face = seen
		if seen && act == 0 {
			c.trigger(action.Wave, "face detected, waving")
		}

	case ModeClamp:
		color, err := c.cam.ColorDetect()
		if err != nil {
			c.log("Camera error: %v", err)
			return
		}
		state.Color = color
		if color != vision.ColorNone && act == 0 {
			c.trigger(clampGestures[color], fmt.Sprintf("%s detected, gripping", color))
		}

	case ModeTrace:
		box, ok, err := c.cam.ColorPosition()
		if err != nil {
			c.log("Camera error: %v", err)
			return
		}
		if act != 0 {
			return
		}
		if ok {
			switch {
			case int(box.X) < traceCenterLow:
				c.wrist -= traceStep
			case int(box.X) > traceCenterHigh:
				c.wrist += traceStep
			}
			if c.wrist < 0 {
				c.wrist = 0
			}
			if c.wrist > hand.MaxDegrees {
				c.wrist = hand.MaxDegrees
			}
		}
		// The tracker owns the wrist while the player is idle.
		state.Angles[action.NumJoints-1] = uint8(c.wrist)
	}
}

func (c *Controller) trigger(num int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.player.SetAction(num); err != nil {
		c.log("Trigger error: %v", err)
		return
	}
	c.log("%s", reason)
}

func (c *Controller) apply(ctx context.Context, angles action.Frame) error {
	targets := make(map[hand.JointName]float64, len(angles))
	for i, name := range hand.AllJoints() {
		targets[name] = float64(angles[i])
	}
	return c.hand.Apply(ctx, targets)
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	c.log("Control loop stopped")
}
