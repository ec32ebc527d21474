package kinematics

import "scherzo/machine"

// Extruder kinematics: filament distance is pushed through the same
// trapezoidal queue machinery as a linear axis, by convention carried in
// the move's X component (AxesR = {1,0,0}) on a queue private to the
// extruder stepper. There is no geometry to solve — CalcPosition is the
// identity on X — but the dedicated type keeps extruder steppers
// configured and addressed the same way as every other kinematics
// topology.
type Extruder struct{}

// NewExtruder returns Extruder kinematics.
func NewExtruder() *Extruder { return &Extruder{} }

// ActiveFlags reports the single (synthetic) axis extruder moves ride on.
func (k *Extruder) ActiveFlags() ActiveFlags {
	return NewActiveFlags().WithX()
}

// CalcPosition returns the filament distance travelled at moveTime.
func (k *Extruder) CalcPosition(m machine.Move, moveTime float64) float64 {
	return m.CoordAt(moveTime).X
}
