package kinematics

import (
	"math"

	"scherzo/machine"
)

// Deltesian kinematics: a hybrid delta/Cartesian machine where one tower
// arm constrains X against Z and the other axis moves independently.
type Deltesian struct {
	arm2 float64
	armX float64
}

// NewDeltesian returns Deltesian kinematics for one tower, given its
// (squared) arm length and horizontal offset.
func NewDeltesian(arm2, armX float64) *Deltesian {
	return &Deltesian{arm2: arm2, armX: armX}
}

// ActiveFlags reports that X and Z motion affect the carriage height.
func (k *Deltesian) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithZ()
}

// CalcPosition returns the tower carriage height for the effector position
// at moveTime.
func (k *Deltesian) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	dx := k.armX - c.X
	return math.Sqrt(k.arm2-dx*dx) + c.Z
}
