package kinematics

import (
	"strings"

	"scherzo/machine"
)

// Axis names the single machine axis a Cartesian stepper drives.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis parses an axis name case-insensitively, reporting ok=false for
// anything but "x", "y", or "z".
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	case "z":
		return AxisZ, true
	default:
		return 0, false
	}
}

// Cartesian kinematics: each stepper drives exactly one machine axis 1:1.
type Cartesian struct {
	axis Axis
}

// NewCartesian returns Cartesian kinematics for the given axis.
func NewCartesian(axis Axis) *Cartesian {
	return &Cartesian{axis: axis}
}

// ActiveFlags reports the single axis this stepper depends on.
func (k *Cartesian) ActiveFlags() ActiveFlags {
	switch k.axis {
	case AxisX:
		return NewActiveFlags().WithX()
	case AxisY:
		return NewActiveFlags().WithY()
	default:
		return NewActiveFlags().WithZ()
	}
}

// CalcPosition returns the move's coordinate on this stepper's axis.
func (k *Cartesian) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	switch k.axis {
	case AxisX:
		return c.X
	case AxisY:
		return c.Y
	default:
		return c.Z
	}
}
