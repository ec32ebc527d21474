package kinematics

import (
	"math"

	"scherzo/machine"
)

// RotaryDelta kinematics: three rotary shoulder arms driving a parallel
// linkage, solved via the law of cosines on the shoulder-to-effector
// distance.
type RotaryDelta struct {
	shoulderRadius float64
	shoulderHeight float64
	angle          float64
	upperArm       float64
	lowerArm       float64
}

// NewRotaryDelta returns RotaryDelta kinematics for one shoulder.
func NewRotaryDelta(shoulderRadius, shoulderHeight, angle, upperArm, lowerArm float64) *RotaryDelta {
	return &RotaryDelta{
		shoulderRadius: shoulderRadius,
		shoulderHeight: shoulderHeight,
		angle:          angle,
		upperArm:       upperArm,
		lowerArm:       lowerArm,
	}
}

// ActiveFlags reports that all three machine axes affect the shoulder
// angle.
func (k *RotaryDelta) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX().WithY().WithZ()
}

// CalcPosition returns the shoulder angle (arm angle plus the vertical
// angle from horizontal) that places the effector at moveTime's position.
func (k *RotaryDelta) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)

	shoulderX := k.shoulderRadius * math.Cos(k.angle)
	shoulderY := k.shoulderRadius * math.Sin(k.angle)

	dx := c.X - shoulderX
	dy := c.Y - shoulderY
	dz := c.Z - k.shoulderHeight

	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	cosAngle := (k.upperArm*k.upperArm + dist*dist - k.lowerArm*k.lowerArm) / (2.0 * k.upperArm * dist)
	shoulderAngle := math.Acos(cosAngle)

	horizDist := math.Sqrt(dx*dx + dy*dy)
	vertAngle := math.Atan2(dz, horizDist)
	return shoulderAngle + vertAngle
}
