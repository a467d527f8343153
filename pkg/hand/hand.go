package hand

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Hand represents the uHand's six bus servos.
type Hand struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
}

// NewHand creates and initializes a hand connection.
func NewHand(port string, cal Calibration) (*Hand, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := cal.ServoIDs()
	group := feetech.NewServoGroupByIDs(bus, ids...)

	return &Hand{
		bus:         bus,
		group:       group,
		calibration: cal,
	}, nil
}

// Close closes the hand's bus connection.
func (h *Hand) Close() error {
	return h.bus.Close()
}

// Enable enables torque on all servos.
func (h *Hand) Enable(ctx context.Context) error {
	return h.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (h *Hand) Disable(ctx context.Context) error {
	return h.group.DisableAll(ctx)
}

// Apply writes target angles (degrees, [0, 180]) to the named joints
// using a single sync write.
func (h *Hand) Apply(ctx context.Context, angles map[JointName]float64) error {
	rawPositions := make(feetech.PositionMap, len(angles))
	for name, deg := range angles {
		cal, ok := h.calibration[name]
		if !ok {
			continue
		}
		rawPositions[cal.ID] = cal.Raw(deg)
	}

	if err := h.group.SetPositions(ctx, rawPositions); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}

	return nil
}

// ReadAngles reads the current joint angles in degrees.
func (h *Hand) ReadAngles(ctx context.Context) (map[JointName]float64, error) {
	rawPositions, err := h.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	angles := make(map[JointName]float64, len(rawPositions))
	for id, raw := range rawPositions {
		name, cal, ok := h.calibration.ByID(id)
		if !ok {
			continue
		}
		angles[name] = cal.Degrees(raw)
	}

	return angles, nil
}
