package kinematics

import "scherzo/machine"

// CoreXYSign is which belt diagonal a CoreXY stepper drives: position is
// either X+Y or X-Y.
type CoreXYSign int

const (
	CoreXYPlus CoreXYSign = iota
	CoreXYMinus
)

// ParseCoreXYSign parses "+"/"plus" or "-"/"minus".
func ParseCoreXYSign(s string) (CoreXYSign, bool) {
	switch s {
	case "+", "plus":
		return CoreXYPlus, true
	case "-", "minus":
		return CoreXYMinus, true
	default:
		return 0, false
	}
}

// CoreXY kinematics: two motors share the X/Y belt diagonals.
type CoreXY struct {
	sign CoreXYSign
}

// NewCoreXY returns CoreXY kinematics for the given belt diagonal.
func NewCoreXY(sign CoreXYSign) *CoreXY {
	return &CoreXY{sign: sign}
}

// ActiveFlags reports that both X and Y motion affect this stepper.
func (k *CoreXY) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithY()
}

// CalcPosition returns X+Y or X-Y depending on the stepper's diagonal.
func (k *CoreXY) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	if k.sign == CoreXYMinus {
		return c.X - c.Y
	}
	return c.X + c.Y
}
