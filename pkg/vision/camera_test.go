package vision

import (
	"errors"
	"testing"
)

// fakeBus serves canned register payloads in place of the camera.
type fakeBus struct {
	regs      map[byte][]byte
	failWrite map[byte]bool
	readErr   error

	begun    bool
	selected byte
}

func (b *fakeBus) Begin() error {
	b.begun = true
	return nil
}

func (b *fakeBus) WriteByte(v byte) error {
	if b.failWrite[v] {
		return errors.New("nack")
	}
	b.selected = v
	return nil
}

func (b *fakeBus) ReadBytes(p []byte) (int, error) {
	if b.readErr != nil {
		return -1, b.readErr
	}
	payload := b.regs[b.selected]
	if len(payload) > len(p) {
		return -1, errors.New("device returned more bytes than requested")
	}
	return copy(p, payload), nil
}

func TestCamera_Begin(t *testing.T) {
	bus := &fakeBus{}
	cam := NewCamera(bus)
	if err := cam.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !bus.begun {
		t.Error("Begin did not reach the bus")
	}
}

func TestCamera_FaceDetect(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
	}{
		{"face present", []byte{120, 80, 40, 60}, true},
		{"zero width", []byte{120, 80, 0, 60}, false},
		{"short read", []byte{120, 80, 40}, false},
		{"empty read", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{regs: map[byte][]byte{RegChannel1: tt.payload}}
			cam := NewCamera(bus)

			got, err := cam.FaceDetect()
			if err != nil {
				t.Fatalf("FaceDetect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("FaceDetect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCamera_FaceDetect_BusFailure(t *testing.T) {
	bus := &fakeBus{failWrite: map[byte]bool{RegChannel1: true}}
	cam := NewCamera(bus)

	got, err := cam.FaceDetect()
	if err == nil {
		t.Fatal("FaceDetect succeeded on a failing bus")
	}
	if got {
		t.Error("FaceDetect() = true on a failing bus")
	}
}

func TestCamera_ColorDetect_Priority(t *testing.T) {
	box := []byte{100, 100, 30, 30}
	empty := []byte{0, 0, 0, 0}

	tests := []struct {
		name string
		regs map[byte][]byte
		want Color
	}{
		{
			name: "red wins over all",
			regs: map[byte][]byte{RegChannel0: box, RegChannel1: box, RegChannel2: box},
			want: ColorRed,
		},
		{
			name: "green when red empty",
			regs: map[byte][]byte{RegChannel0: empty, RegChannel1: box, RegChannel2: box},
			want: ColorGreen,
		},
		{
			name: "blue alone",
			regs: map[byte][]byte{RegChannel0: empty, RegChannel1: empty, RegChannel2: box},
			want: ColorBlue,
		},
		{
			name: "all empty",
			regs: map[byte][]byte{RegChannel0: empty, RegChannel1: empty, RegChannel2: empty},
			want: ColorNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(&fakeBus{regs: tt.regs})
			got, err := cam.ColorDetect()
			if err != nil {
				t.Fatalf("ColorDetect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ColorDetect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCamera_ColorDetect_ContinuesPastFailingChannel(t *testing.T) {
	bus := &fakeBus{
		regs:      map[byte][]byte{RegChannel1: {100, 100, 30, 30}},
		failWrite: map[byte]bool{RegChannel0: true},
	}
	cam := NewCamera(bus)

	got, err := cam.ColorDetect()
	if err != nil {
		t.Fatalf("ColorDetect failed despite a later match: %v", err)
	}
	if got != ColorGreen {
		t.Errorf("ColorDetect() = %v, want green", got)
	}
}

func TestCamera_ColorDetect_AllChannelsFailing(t *testing.T) {
	bus := &fakeBus{readErr: errors.New("bus stuck")}
	cam := NewCamera(bus)

	got, err := cam.ColorDetect()
	if err == nil {
		t.Fatal("ColorDetect succeeded on a dead bus")
	}
	if got != ColorNone {
		t.Errorf("ColorDetect() = %v on a dead bus, want none", got)
	}
}

func TestCamera_ColorPosition_RoundTrip(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{RegChannel1: {55, 66, 77, 88}}}
	cam := NewCamera(bus)

	box, ok, err := cam.ColorPosition()
	if err != nil {
		t.Fatalf("ColorPosition failed: %v", err)
	}
	if !ok {
		t.Fatal("ColorPosition() = false, want true")
	}
	if box != (Box{X: 55, Y: 66, W: 77, H: 88}) {
		t.Errorf("ColorPosition() box = %+v, want {55 66 77 88}", box)
	}
}

func TestCamera_ColorPosition_TrackingRegister(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{RegChannel2: {10, 20, 30, 40}}}
	cam := NewCamera(bus, WithTrackingRegister(RegChannel2))

	box, ok, err := cam.ColorPosition()
	if err != nil {
		t.Fatalf("ColorPosition failed: %v", err)
	}
	if !ok || box.W != 30 {
		t.Errorf("ColorPosition() = %+v, %v; want box from channel 2", box, ok)
	}
}

func TestCamera_ColorPosition_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"zero width", []byte{10, 20, 0, 40}},
		{"short read", []byte{10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{regs: map[byte][]byte{RegChannel1: tt.payload}}
			cam := NewCamera(bus)

			box, ok, err := cam.ColorPosition()
			if err != nil {
				t.Fatalf("ColorPosition failed: %v", err)
			}
			if ok {
				t.Error("ColorPosition() = true, want false")
			}
			if box != (Box{}) {
				t.Errorf("ColorPosition() box = %+v, want zero", box)
			}
		})
	}
}

func TestCamera_ColorPosition_OversizedResponse(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{RegChannel1: {1, 2, 3, 4, 5}}}
	cam := NewCamera(bus)

	_, ok, err := cam.ColorPosition()
	if err == nil {
		t.Fatal("ColorPosition accepted an oversized response")
	}
	if ok {
		t.Error("ColorPosition() = true on an oversized response")
	}
}
