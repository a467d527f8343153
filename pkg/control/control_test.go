package control

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gwillem/uhand/pkg/action"
	"github.com/gwillem/uhand/pkg/hand"
	"github.com/gwillem/uhand/pkg/vision"
)

type fakeActuator struct {
	applied []map[hand.JointName]float64
	err     error
}

func (f *fakeActuator) Apply(_ context.Context, angles map[hand.JointName]float64) error {
	if f.err != nil {
		return f.err
	}
	cp := make(map[hand.JointName]float64, len(angles))
	for k, v := range angles {
		cp[k] = v
	}
	f.applied = append(f.applied, cp)
	return nil
}

type fakeDetector struct {
	face    bool
	faceErr error

	color    vision.Color
	colorErr error

	box    vision.Box
	boxOK  bool
	boxErr error
}

func (f *fakeDetector) FaceDetect() (bool, error) {
	return f.face, f.faceErr
}

func (f *fakeDetector) ColorDetect() (vision.Color, error) {
	return f.color, f.colorErr
}

func (f *fakeDetector) ColorPosition() (vision.Box, bool, error) {
	return f.box, f.boxOK, f.boxErr
}

// gatedStep waits out the player's tick gate, then runs one loop step.
func gatedStep(c *Controller) {
	time.Sleep(action.TickInterval + 10*time.Millisecond)
	c.step(context.Background())
}

func TestNewController_Validation(t *testing.T) {
	if _, err := NewController(Config{}); err == nil {
		t.Error("NewController without actuator should fail")
	}

	if _, err := NewController(Config{Actuator: &fakeActuator{}, Mode: ModeFace}); err == nil {
		t.Error("NewController in face mode without detector should fail")
	}

	c, err := NewController(Config{Actuator: &fakeActuator{}})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	if c.Hz() != 10 {
		t.Errorf("default Hz = %d, want 10", c.Hz())
	}
	if c.Mode() != ModeManual {
		t.Errorf("default mode = %q, want manual", c.Mode())
	}
}

func TestController_TriggerUnknownGesture(t *testing.T) {
	c, err := NewController(Config{Actuator: &fakeActuator{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Trigger("moonwalk"); err == nil {
		t.Error("Trigger(moonwalk) should fail")
	}
}

func TestController_StepAppliesTriggeredGesture(t *testing.T) {
	act := &fakeActuator{}
	c, err := NewController(Config{Actuator: act})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Trigger("clench"); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	// The player's first tick is never gated, so one step applies the
	// gesture's first frame.
	c.step(context.Background())

	if len(act.applied) == 0 {
		t.Fatal("actuator saw no writes")
	}
	last := act.applied[len(act.applied)-1]
	if last[hand.Index] != 90 || last[hand.Thumb] != 0 {
		t.Errorf("first clench frame applied %v, want index=90 thumb=0", last)
	}
}

func TestController_StepSkipsUnchangedAngles(t *testing.T) {
	act := &fakeActuator{}
	c, err := NewController(Config{Actuator: act})
	if err != nil {
		t.Fatal(err)
	}

	// Idle player: only the initial rest pose write should happen.
	for i := 0; i < 5; i++ {
		gatedStep(c)
	}

	if len(act.applied) != 1 {
		t.Errorf("actuator saw %d writes while idle, want 1", len(act.applied))
	}
}

func TestController_FaceModeWaves(t *testing.T) {
	det := &fakeDetector{face: true}
	c, err := NewController(Config{Actuator: &fakeActuator{}, Detector: det, Mode: ModeFace})
	if err != nil {
		t.Fatal(err)
	}

	c.step(context.Background())

	if got := c.player.State(); got != action.Wave {
		t.Errorf("player state = %d after face detection, want wave (%d)", got, action.Wave)
	}
}

func TestController_FaceModeIgnoresCameraError(t *testing.T) {
	det := &fakeDetector{faceErr: errors.New("bus stuck")}
	c, err := NewController(Config{Actuator: &fakeActuator{}, Detector: det, Mode: ModeFace})
	if err != nil {
		t.Fatal(err)
	}

	c.step(context.Background())

	if got := c.player.State(); got != 0 {
		t.Errorf("player state = %d after camera error, want idle", got)
	}
}

func TestController_ClampModeGripsPerColor(t *testing.T) {
	tests := []struct {
		color vision.Color
		want  int
	}{
		{vision.ColorRed, action.Clench},
		{vision.ColorGreen, action.Scissors},
		{vision.ColorBlue, action.ThumbsUp},
	}

	for _, tt := range tests {
		det := &fakeDetector{color: tt.color}
		c, err := NewController(Config{Actuator: &fakeActuator{}, Detector: det, Mode: ModeClamp})
		if err != nil {
			t.Fatal(err)
		}

		c.step(context.Background())

		if got := c.player.State(); got != tt.want {
			t.Errorf("player state = %d for %s, want %d", got, tt.color, tt.want)
		}
	}
}

func TestController_ClampModeDoesNotInterruptGesture(t *testing.T) {
	det := &fakeDetector{color: vision.ColorRed}
	c, err := NewController(Config{Actuator: &fakeActuator{}, Detector: det, Mode: ModeClamp})
	if err != nil {
		t.Fatal(err)
	}

	c.step(context.Background()) // triggers clench

	// A different color while the gesture is still playing must not
	// restart the player.
	det.color = vision.ColorBlue
	gatedStep(c)

	if got := c.player.State(); got != action.Clench {
		t.Errorf("player state = %d, want clench to keep playing", got)
	}
}

func TestController_TraceModeFollowsTarget(t *testing.T) {
	tests := []struct {
		name  string
		x     uint8
		check func(wrist float64) bool
	}{
		{"target left", 50, func(w float64) bool { return w < 90 }},
		{"target right", 200, func(w float64) bool { return w > 90 }},
		{"target centered", 120, func(w float64) bool { return w == 90 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := &fakeDetector{box: vision.Box{X: tt.x, W: 30, H: 30}, boxOK: true}
			act := &fakeActuator{}
			c, err := NewController(Config{Actuator: act, Detector: det, Mode: ModeTrace})
			if err != nil {
				t.Fatal(err)
			}

			c.step(context.Background())

			if !tt.check(c.wrist) {
				t.Errorf("wrist = %f after target at x=%d", c.wrist, tt.x)
			}
			if len(act.applied) == 0 {
				t.Fatal("actuator saw no writes")
			}
			got := act.applied[len(act.applied)-1][hand.WristRotate]
			if got != c.wrist {
				t.Errorf("applied wrist = %f, tracker at %f", got, c.wrist)
			}
		})
	}
}

func TestController_TraceModeWristStaysInRange(t *testing.T) {
	det := &fakeDetector{box: vision.Box{X: 255, W: 30, H: 30}, boxOK: true}
	c, err := NewController(Config{Actuator: &fakeActuator{}, Detector: det, Mode: ModeTrace})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		c.step(context.Background())
	}

	if c.wrist > hand.MaxDegrees {
		t.Errorf("wrist = %f, beyond %d degrees", c.wrist, hand.MaxDegrees)
	}
}

func TestController_ActuatorErrorReported(t *testing.T) {
	act := &fakeActuator{err: errors.New("port gone")}
	c, err := NewController(Config{Actuator: act})
	if err != nil {
		t.Fatal(err)
	}

	c.step(context.Background())

	select {
	case s := <-c.States():
		if s.Error == nil {
			t.Error("state carries no error after a failed write")
		}
	default:
		t.Error("no state published")
	}
}
