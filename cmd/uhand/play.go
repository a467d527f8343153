package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gwillem/uhand/pkg/action"
	"github.com/gwillem/uhand/pkg/hand"
)

type PlayCommand struct {
	Args struct {
		Gesture string `positional-arg-name:"gesture" description:"Builtin gesture name"`
	} `positional-args:"yes" required:"yes"`
}

func (c *PlayCommand) Execute(args []string) error {
	num, ok := action.ByName(c.Args.Gesture)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown gesture %q. Available: %s\n",
			c.Args.Gesture, strings.Join(action.Names(), ", "))
		os.Exit(1)
	}

	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'uhand setup' first.")
		os.Exit(1)
	}
	if !cfg.Hand.IsCalibrated() {
		fmt.Fprintln(os.Stderr, "Hand not calibrated. Run 'uhand setup' first.")
		os.Exit(1)
	}

	h, err := hand.NewHand(cfg.Hand.Port, cfg.Hand.Calibration)
	if err != nil {
		return fmt.Errorf("open hand: %w", err)
	}
	defer h.Close()

	ctx := context.Background()
	if err := h.Enable(ctx); err != nil {
		return fmt.Errorf("enable servos: %w", err)
	}
	defer h.Disable(ctx)

	player := action.NewPlayer(action.Builtin())
	if err := player.SetAction(num); err != nil {
		return err
	}

	fmt.Printf("Playing %s...\n", c.Args.Gesture)

	// The raw polling loop: tick, push changed angles, repeat until
	// the player reports idle.
	var lastApplied action.Frame
	applied := false
	for player.State() != 0 {
		player.Tick()
		if angles := player.Angles(); !applied || angles != lastApplied {
			if err := apply(ctx, h, angles); err != nil {
				return err
			}
			lastApplied = angles
			applied = true
		}
		time.Sleep(20 * time.Millisecond)
	}

	fmt.Println("Done.")
	return nil
}

func apply(ctx context.Context, h *hand.Hand, angles action.Frame) error {
	targets := make(map[hand.JointName]float64, len(angles))
	for i, name := range hand.AllJoints() {
		targets[name] = float64(angles[i])
	}
	return h.Apply(ctx, targets)
}
