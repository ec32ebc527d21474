// Package machine holds the shared numeric types used across the trapezoidal
// move queue, the iterative step solver, and the kinematics pack: a fixed
// machine-frame coordinate and a single trapezoid segment.
package machine

// Coord is a position or direction vector in the machine's Cartesian frame,
// in millimetres (or whatever consistent unit the planner uses upstream).
type Coord struct {
	X, Y, Z float64
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Scale returns c scaled by s.
func (c Coord) Scale(s float64) Coord {
	return Coord{c.X * s, c.Y * s, c.Z * s}
}
