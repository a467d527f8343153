package main

import (
	"fmt"

	"github.com/gwillem/uhand/pkg/hand"
	"github.com/gwillem/uhand/pkg/vision"
)

// openCamera builds and initializes the camera from the saved config.
func openCamera(cfg hand.CameraConfig) (*vision.Camera, error) {
	var opts []vision.Option
	if cfg.Track == "blue" {
		opts = append(opts, vision.WithTrackingRegister(vision.RegChannel2))
	}

	cam := vision.NewCamera(vision.NewI2C(cfg.Bus), opts...)
	if err := cam.Begin(); err != nil {
		return nil, fmt.Errorf("init camera: %w", err)
	}
	return cam, nil
}
