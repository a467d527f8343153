package action

import "fmt"

// Poser is the single-shot variant of Player for tables whose actions
// are single poses rather than sequences: one Tick applies the whole
// pose and clears the request immediately, with no cadence gate.
type Poser struct {
	table  []Frame
	pose   int
	angles Frame
}

// NewPoser creates a poser over a fixed pose table (one frame per
// action, 1-based like Player's).
func NewPoser(table []Frame) *Poser {
	return &Poser{
		table:  table,
		angles: Frame{0, 0, 0, 0, 0, 90},
	}
}

// SetPose requests a pose by 1-based number; 0 cancels.
func (p *Poser) SetPose(num int) error {
	if num < 0 || num > len(p.table) {
		return fmt.Errorf("pose %d out of range (table has %d poses)", num, len(p.table))
	}
	p.pose = num
	return nil
}

// State returns the pending pose, 0 when idle.
func (p *Poser) State() int {
	return p.pose
}

// Angles returns a copy of the poser's output angles.
func (p *Poser) Angles() Frame {
	return p.angles
}

// Tick applies the pending pose, if any, and marks it done.
func (p *Poser) Tick() {
	if p.pose == 0 {
		return
	}
	p.angles = p.table[p.pose-1]
	p.pose = 0
}
