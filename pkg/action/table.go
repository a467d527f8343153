// Package action plays compiled-in gesture sequences for the hand.
package action

import "fmt"

// NumJoints is the number of controlled joints: five fingers plus the
// wrist rotation servo.
const NumJoints = 6

// Frame holds target angles in degrees for all joints, ordered thumb,
// index, middle, ring, pinky, wrist_rotate.
type Frame [NumJoints]uint8

// Sequence is the list of frames for one action, played in order with a
// fixed dwell time per frame.
type Sequence []Frame

// Table is a read-only set of actions. Action numbers are 1-based;
// 0 means idle.
type Table []Sequence

// Lookup returns the sequence for a 1-based action number.
func (t Table) Lookup(num int) (Sequence, error) {
	if num < 1 || num > len(t) {
		return nil, fmt.Errorf("action %d out of range (table has %d actions)", num, len(t))
	}
	return t[num-1], nil
}

// Builtin action numbers, matching the order of Builtin().
const (
	Clench = iota + 1
	Spread
	Wave
	Point
	Scissors
	ThumbsUp
)

var actionNames = map[string]int{
	"clench":   Clench,
	"spread":   Spread,
	"wave":     Wave,
	"point":    Point,
	"scissors": Scissors,
	"thumbsup": ThumbsUp,
}

// ByName resolves a builtin action name to its number.
func ByName(name string) (int, bool) {
	num, ok := actionNames[name]
	return num, ok
}

// Names returns the builtin action names, ordered by action number.
func Names() []string {
	names := make([]string, len(actionNames))
	for name, num := range actionNames {
		names[num-1] = name
	}
	return names
}

// Builtin returns the compiled-in gesture table. Finger angles: 0 is
// fully open, 180 fully curled. Wrist: 90 is centered.
func Builtin() Table {
	return Table{
		// clench: curl fingers in two steps, thumb last
		{
			{0, 90, 90, 90, 90, 90},
			{0, 180, 180, 180, 180, 90},
			{180, 180, 180, 180, 180, 90},
		},
		// spread: open everything
		{
			{0, 0, 0, 0, 0, 90},
		},
		// wave: rotate the wrist side to side with fingers open
		{
			{0, 0, 0, 0, 0, 30},
			{0, 0, 0, 0, 0, 150},
			{0, 0, 0, 0, 0, 30},
			{0, 0, 0, 0, 0, 150},
			{0, 0, 0, 0, 0, 90},
		},
		// point: index out, rest curled
		{
			{180, 0, 180, 180, 180, 90},
		},
		// scissors: index and middle out
		{
			{180, 0, 0, 180, 180, 90},
			{180, 30, 30, 180, 180, 90},
			{180, 0, 0, 180, 180, 90},
		},
		// thumbsup
		{
			{0, 180, 180, 180, 180, 90},
		},
	}
}
