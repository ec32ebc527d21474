package kinematics

import (
	"math"
	"strings"

	"scherzo/machine"
)

// PolarAxis is which polar coordinate a stepper tracks.
type PolarAxis int

const (
	PolarRadius PolarAxis = iota
	PolarAngle
)

// ParsePolarAxis parses "r"/"radius" or "a"/"angle" case-insensitively.
func ParsePolarAxis(s string) (PolarAxis, bool) {
	switch strings.ToLower(s) {
	case "r", "radius":
		return PolarRadius, true
	case "a", "angle":
		return PolarAngle, true
	default:
		return 0, false
	}
}

// Polar kinematics: a bed that rotates under a radially-moving arm.
type Polar struct {
	axis      PolarAxis
	lastAngle float64
}

// NewPolar returns Polar kinematics for the given axis.
func NewPolar(axis PolarAxis) *Polar {
	return &Polar{axis: axis}
}

// ActiveFlags reports that both X and Y determine radius and angle.
func (k *Polar) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithY()
}

// CalcPosition returns the radius or angle of the effector position at
// moveTime.
func (k *Polar) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	if k.axis == PolarAngle {
		return math.Atan2(c.Y, c.X)
	}
	return math.Sqrt(c.X*c.X + c.Y*c.Y)
}

// PostStep is a placeholder for angle unwrapping across the +/-pi branch
// cut; lastAngle isn't consulted anywhere yet.
func (k *Polar) PostStep() {}
