package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwillem/uhand/pkg/hand"
)

type DetectCommand struct {
	Interval time.Duration `long:"interval" default:"500ms" description:"Polling interval"`
	Face     bool          `long:"face" description:"Poll face detection instead of colors (needs the face firmware)"`
}

func (c *DetectCommand) Execute(args []string) error {
	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'uhand setup' first.")
		os.Exit(1)
	}
	if cfg.Camera.Bus == "" {
		fmt.Fprintln(os.Stderr, "No camera configured. Run 'uhand setup' first.")
		os.Exit(1)
	}

	cam, err := openCamera(cfg.Camera)
	if err != nil {
		return err
	}

	fmt.Printf("Polling camera on %s every %s, ctrl+c to stop.\n", cfg.Camera.Bus, c.Interval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			fmt.Println()
			return nil
		case <-ticker.C:
			if c.Face {
				seen, err := cam.FaceDetect()
				if err != nil {
					fmt.Printf("face: error: %v\n", err)
					continue
				}
				fmt.Printf("face: %v\n", seen)
				continue
			}

			color, err := cam.ColorDetect()
			if err != nil {
				fmt.Printf("color: error: %v\n", err)
				continue
			}
			if box, ok, err := cam.ColorPosition(); err == nil && ok {
				fmt.Printf("color: %-5s  box x=%d y=%d w=%d h=%d\n", color, box.X, box.Y, box.W, box.H)
			} else {
				fmt.Printf("color: %s\n", color)
			}
		}
	}
}
