// Package uhand controls a 6-servo robotic hand with an ESP32-CAM
// vision coprocessor.
//
// The hand plays compiled-in gesture sequences (an action table driven
// by a small two-phase state machine) and reacts to face or color
// detections read from the camera over I2C.
//
// # Installation
//
//	go install github.com/gwillem/uhand/cmd/uhand@latest
//
// # Usage
//
// First, run setup to locate the hand's servo bus and the camera:
//
//	uhand setup
//
// Then start the control loop:
//
//	uhand run --mode face
//
// Or play a single gesture:
//
//	uhand play wave
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/uhand: CLI with setup, run, play and detect commands
//   - cmd/uhand-scan: diagnostic port/bus scanner
//   - pkg/action: gesture table playback state machine
//   - pkg/vision: ESP32-CAM detection readout over I2C
//   - pkg/hand: servo driver and calibration
//   - pkg/control: the main control loop
package uhand
