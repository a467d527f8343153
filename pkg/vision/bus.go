// Package vision reads detection results from an ESP32-CAM coprocessor
// over a two-wire bus.
//
// The camera firmware exposes one register per detection channel. Each
// register holds a 4-byte bounding box (x, y, w, h); a nonzero width
// means the channel currently sees a target.
package vision

// CameraAddr is the ESP32-CAM's fixed 7-bit bus address.
const CameraAddr = 0x52

// Detection registers. Which firmware is flashed on the camera decides
// what channel 1 carries: the face build publishes the face box there,
// the color builds publish the second color.
const (
	RegChannel0 = 0x00 // red bounding box
	RegChannel1 = 0x01 // green bounding box, or face box on the face build
	RegChannel2 = 0x02 // blue bounding box
)

// boxLen is the payload size of every detection register.
const boxLen = 4

// Bus is the two-wire transaction capability the camera needs. Inject a
// fake to test without hardware; use I2C for the real device.
type Bus interface {
	// Begin initializes the bus. Idempotent.
	Begin() error
	// WriteByte sends a single byte to the device in its own write
	// transaction.
	WriteByte(b byte) error
	// ReadBytes requests len(p) bytes from the device and fills p,
	// returning how many bytes actually arrived. A device answering
	// with more bytes than requested is an error.
	ReadBytes(p []byte) (int, error)
}
