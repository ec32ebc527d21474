// Package kinematics translates a trapezoidal move's XYZ coordinate into the
// scalar position a single stepper axis must track, for every printer
// topology the compute core supports. Each topology is a pure function of
// (Move, tau); none of them hold queue or scheduling state.
package kinematics

import "scherzo/machine"

// ActiveFlags marks which machine axes a stepper's motion actually depends
// on, so the iterative step solver can skip moves that can't move it.
type ActiveFlags uint8

const (
	FlagX ActiveFlags = 1 << iota
	FlagY
	FlagZ
)

// NewActiveFlags returns an empty flag set.
func NewActiveFlags() ActiveFlags { return 0 }

// WithX sets the X bit.
func (f ActiveFlags) WithX() ActiveFlags { return f | FlagX }

// WithY sets the Y bit.
func (f ActiveFlags) WithY() ActiveFlags { return f | FlagY }

// WithZ sets the Z bit.
func (f ActiveFlags) WithZ() ActiveFlags { return f | FlagZ }

// HasX reports whether the X bit is set.
func (f ActiveFlags) HasX() bool { return f&FlagX != 0 }

// HasY reports whether the Y bit is set.
func (f ActiveFlags) HasY() bool { return f&FlagY != 0 }

// HasZ reports whether the Z bit is set.
func (f ActiveFlags) HasZ() bool { return f&FlagZ != 0 }

// PositionCallback converts a move and a local time within it into the
// scalar position of the stepper axis this topology drives. The iterative
// step solver calls this at every secant-method iteration, so it must be
// cheap and side-effect free beyond the implementor's own state.
type PositionCallback interface {
	CalcPosition(m machine.Move, moveTime float64) float64
}

// PostCallback is called once per move after the step solver has finished
// generating steps for it. Every topology in this package does nothing
// here: Polar's PostStep is empty too, so no angle unwrapping happens.
type PostCallback interface {
	PostStep()
}

// NoopPost is the zero-value PostCallback used by every topology that has
// nothing to do after a move.
type NoopPost struct{}

// PostStep does nothing.
func (NoopPost) PostStep() {}
