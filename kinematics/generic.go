package kinematics

import "scherzo/machine"

// Generic kinematics is a weighted sum of the machine axes, for belt or
// lead-screw arrangements that don't fit one of the named topologies.
type Generic struct {
	ax, ay, az float64
}

// NewGeneric returns generic linear kinematics with the given per-axis
// coefficients.
func NewGeneric(ax, ay, az float64) *Generic {
	return &Generic{ax: ax, ay: ay, az: az}
}

// ActiveFlags reports only the axes with a non-zero coefficient.
func (k *Generic) ActiveFlags() ActiveFlags {
	flags := NewActiveFlags()
	if k.ax != 0 {
		flags = flags.WithX()
	}
	if k.ay != 0 {
		flags = flags.WithY()
	}
	if k.az != 0 {
		flags = flags.WithZ()
	}
	return flags
}

// CalcPosition returns ax*X + ay*Y + az*Z.
func (k *Generic) CalcPosition(m machine.Move, moveTime float64) float64 {
	c := m.CoordAt(moveTime)
	return k.ax*c.X + k.ay*c.Y + k.az*c.Z
}
