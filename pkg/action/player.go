package action

import (
	"fmt"
	"time"
)

// TickInterval is the minimum spacing between state machine steps.
// Tick may be called more often; extra calls are no-ops.
const TickInterval = 100 * time.Millisecond

// waitTicks is how many gated ticks the player dwells on a frame after
// applying it, giving the servos time to reach position (~300ms per
// frame including the apply tick).
const waitTicks = 2

type phase int

const (
	phaseApply phase = iota
	phaseWait
)

// Player steps through an action's frames at a fixed cadence, writing
// target angles into its output buffer. It is not safe for concurrent
// use: Tick and the angle readout belong to the single control loop.
type Player struct {
	table Table

	action int
	frame  int
	phase  phase
	waits  int

	lastTick time.Time
	now      func() time.Time

	angles Frame
}

// NewPlayer creates a player over a fixed action table. Angles start at
// the rest pose (fingers open, wrist centered).
func NewPlayer(table Table) *Player {
	return &Player{
		table:  table,
		now:    time.Now,
		angles: Frame{0, 0, 0, 0, 0, 90},
	}
}

// SetAction requests an action by 1-based number; 0 cancels any action
// in progress. Out-of-range numbers are rejected and leave the player
// untouched. A new request always restarts at the first frame, even
// when it overwrites an action mid-sequence.
func (p *Player) SetAction(num int) error {
	if num < 0 || num > len(p.table) {
		return fmt.Errorf("action %d out of range (table has %d actions)", num, len(p.table))
	}
	p.action = num
	p.frame = 0
	p.phase = phaseApply
	p.waits = 0
	return nil
}

// State returns the action currently playing, 0 when idle. Callers poll
// it to detect completion.
func (p *Player) State() int {
	return p.action
}

// Angles returns a copy of the player's output angles. They change only
// inside Tick.
func (p *Player) Angles() Frame {
	return p.angles
}

// Tick advances the state machine by at most one step. It must be
// called from the control loop at least every TickInterval; calls that
// arrive early are no-ops, so the loop may run faster than the gate.
func (p *Player) Tick() {
	if p.action == 0 {
		return
	}

	now := p.now()
	if now.Sub(p.lastTick) < TickInterval {
		return
	}
	p.lastTick = now

	frames := p.table[p.action-1]

	switch p.phase {
	case phaseApply:
		if p.frame < len(frames) {
			p.angles = frames[p.frame]
			p.phase = phaseWait
		} else {
			// sequence exhausted
			p.frame = 0
			p.action = 0
		}
	case phaseWait:
		p.waits++
		if p.waits > waitTicks {
			p.waits = 0
			p.frame++
			p.phase = phaseApply
		}
	}
}
