package hand

// MaxDegrees is the top of the joint angle scale. Gestures address
// joints in degrees [0, 180]; calibration maps that onto each servo's
// usable raw range.
const MaxDegrees = 180

// ServoCalibration holds calibration data for a single servo.
type ServoCalibration struct {
	ID       int `json:"id"`
	RangeMin int `json:"range_min"`
	RangeMax int `json:"range_max"`
}

// Calibration holds calibration data for all servos, keyed by joint name.
type Calibration map[JointName]ServoCalibration

// Degrees converts a raw servo position to degrees in [0, 180].
func (c ServoCalibration) Degrees(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return float64(raw-c.RangeMin) / rangeSize * MaxDegrees
}

// Raw converts degrees to a raw servo position, clamping the input to
// the [0, 180] scale first.
func (c ServoCalibration) Raw(deg float64) int {
	if deg < 0 {
		deg = 0
	}
	if deg > MaxDegrees {
		deg = MaxDegrees
	}
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int(deg/MaxDegrees*rangeSize) + c.RangeMin
}

// ServoIDs returns the servo IDs for all calibrated joints, in joint
// order.
func (c Calibration) ServoIDs() []int {
	ids := make([]int, 0, len(c))
	for _, name := range AllJoints() {
		if sc, ok := c[name]; ok {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// ByID returns joint name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (JointName, ServoCalibration, bool) {
	for name, sc := range c {
		if sc.ID == id {
			return name, sc, true
		}
	}
	return "", ServoCalibration{}, false
}
