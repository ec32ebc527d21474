package kinematics

import (
	"math"

	"scherzo/machine"
)

// Winch kinematics: a cable-driven system where each stepper reels in or
// pays out the straight-line distance from a fixed anchor to the effector.
type Winch struct {
	anchorX, anchorY, anchorZ float64
}

// NewWinch returns Winch kinematics for one cable anchor.
func NewWinch(anchorX, anchorY, anchorZ float64) *Winch {
	return &Winch{anchorX: anchorX, anchorY: anchorY, anchorZ: anchorZ}
}

// ActiveFlags reports that all three machine axes affect cable length.
func (k *Winch) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithY().WithZ()
}

// CalcPosition returns the cable length from the anchor to the effector
// position at moveTime.
func (k *Winch) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	dx := k.anchorX - c.X
	dy := k.anchorY - c.Y
	dz := k.anchorZ - c.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
