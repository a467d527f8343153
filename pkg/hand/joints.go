// Package hand provides the servo driver for the uHand.
package hand

// JointName identifies a joint in the hand.
type JointName string

// Joint names, one per servo.
const (
	Thumb       JointName = "thumb"
	Index       JointName = "index"
	Middle      JointName = "middle"
	Ring        JointName = "ring"
	Pinky       JointName = "pinky"
	WristRotate JointName = "wrist_rotate"
)

// AllJoints returns all joint names in order (matching servo IDs 1-6
// and the action table's frame layout).
func AllJoints() []JointName {
	return []JointName{
		Thumb,
		Index,
		Middle,
		Ring,
		Pinky,
		WristRotate,
	}
}
