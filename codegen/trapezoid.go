package codegen

import "math"

// trapezoidTiming computes a simplified, no-lookahead trapezoidal profile
// (start and end velocity both zero) for a single move of the given
// distance, capped at maxVel and accelerating/decelerating at accel. It
// returns the acceleration, cruise, and deceleration segment durations and
// the cruise velocity actually reached.
//
// Ported from the teacher's standalone/planner/planner.go
// calculateTrapezoid, generalized from a function that mutates a *Move in
// place into a pure function returning the same triangle-or-trapezoid
// decision.
func trapezoidTiming(distance, maxVel, accel float64) (accelT, cruiseT, decelT, cruiseVel float64) {
	if distance <= 0 || maxVel <= 0 {
		return 0, 0, 0, 0
	}
	if accel <= 0 {
		return 0, distance / maxVel, 0, maxVel
	}

	accelDist := (maxVel * maxVel) / (2.0 * accel)
	if accelDist*2.0 >= distance {
		// Can't reach maxVel before needing to decelerate again: triangle
		// profile peaking at whatever velocity the half-distance allows.
		accelDist = distance / 2.0
		cruiseVel = math.Sqrt(2.0 * accel * accelDist)
		accelT = cruiseVel / accel
		decelT = accelT
		return accelT, 0, decelT, cruiseVel
	}

	cruiseDist := distance - 2.0*accelDist
	cruiseVel = maxVel
	accelT = maxVel / accel
	cruiseT = cruiseDist / maxVel
	decelT = accelT
	return accelT, cruiseT, decelT, cruiseVel
}
