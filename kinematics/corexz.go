package kinematics

import "scherzo/machine"

// CoreXZ kinematics: two motors share the X/Z belt diagonals, the vertical
// analogue of CoreXY used on some bed-slinger variants.
type CoreXZ struct {
	sign CoreXYSign
}

// NewCoreXZ returns CoreXZ kinematics for the given belt diagonal. Reuses
// CoreXYSign/ParseCoreXYSign since the plus/minus convention is identical.
func NewCoreXZ(sign CoreXYSign) *CoreXZ {
	return &CoreXZ{sign: sign}
}

// ActiveFlags reports that both X and Z motion affect this stepper.
func (k *CoreXZ) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithZ()
}

// CalcPosition returns X+Z or X-Z depending on the stepper's diagonal.
func (k *CoreXZ) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	if k.sign == CoreXYMinus {
		return c.X - c.Z
	}
	return c.X + c.Z
}
