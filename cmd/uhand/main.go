package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Setup  SetupCommand  `command:"setup" description:"Find the hand and camera, calibrate the servos"`
	Run    RunCommand    `command:"run" description:"Start the control loop"`
	Play   PlayCommand   `command:"play" description:"Play one gesture and exit"`
	Detect DetectCommand `command:"detect" description:"Poll the camera and print detections"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "uHand - control CLI for the uHand robotic hand"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
