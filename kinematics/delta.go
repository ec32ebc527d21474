package kinematics

import (
	"math"

	"scherzo/machine"
)

// Delta kinematics: a vertical tower stepper whose carriage height is the
// arm length's projection onto the tower after subtracting its horizontal
// offset from the effector.
type Delta struct {
	arm2    float64 // arm length squared
	towerX  float64
	towerY  float64
}

// NewDelta returns Delta kinematics for one tower, given its (squared) arm
// length and its horizontal position.
func NewDelta(arm2, towerX, towerY float64) *Delta {
	return &Delta{arm2: arm2, towerX: towerX, towerY: towerY}
}

// ActiveFlags reports that all three machine axes affect the carriage
// height.
func (k *Delta) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithY().WithZ()
}

// CalcPosition returns the tower carriage height for the effector position
// at moveTime.
func (k *Delta) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	dx := k.towerX - c.X
	dy := k.towerY - c.Y
	return math.Sqrt(k.arm2-dx*dx-dy*dy) + c.Z
}
