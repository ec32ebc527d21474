package planner

import (
	"fmt"

	"scherzo/config"
	"scherzo/kinematics"
)

// buildKinematics constructs the position callback and active-axis flags a
// stepper config names, reading topology-specific constants out of its
// Params map. This is the Go port's equivalent of the teacher's
// Manager.Initialize switch on config.Kinematics, generalized from
// "cartesian only" to every topology the kinematics package implements.
func buildKinematics(sc config.StepperConfig) (kinematics.PositionCallback, kinematics.ActiveFlags, error) {
	switch sc.Kinematics {
	case "cartesian_x":
		k := kinematics.NewCartesian(kinematics.AxisX)
		return k, k.ActiveFlags(), nil
	case "cartesian_y":
		k := kinematics.NewCartesian(kinematics.AxisY)
		return k, k.ActiveFlags(), nil
	case "cartesian_z":
		k := kinematics.NewCartesian(kinematics.AxisZ)
		return k, k.ActiveFlags(), nil
	case "corexy_plus":
		k := kinematics.NewCoreXY(kinematics.CoreXYPlus)
		return k, k.ActiveFlags(), nil
	case "corexy_minus":
		k := kinematics.NewCoreXY(kinematics.CoreXYMinus)
		return k, k.ActiveFlags(), nil
	case "corexz_plus":
		k := kinematics.NewCoreXZ(kinematics.CoreXYPlus)
		return k, k.ActiveFlags(), nil
	case "corexz_minus":
		k := kinematics.NewCoreXZ(kinematics.CoreXYMinus)
		return k, k.ActiveFlags(), nil
	case "delta":
		k := kinematics.NewDelta(sc.Params["arm2"], sc.Params["tower_x"], sc.Params["tower_y"])
		return k, k.ActiveFlags(), nil
	case "deltesian":
		k := kinematics.NewDeltesian(sc.Params["arm2"], sc.Params["arm_x"])
		return k, k.ActiveFlags(), nil
	case "rotary_delta":
		k := kinematics.NewRotaryDelta(
			sc.Params["shoulder_radius"], sc.Params["shoulder_height"],
			sc.Params["angle"], sc.Params["upper_arm"], sc.Params["lower_arm"])
		return k, k.ActiveFlags(), nil
	case "winch":
		k := kinematics.NewWinch(sc.Params["anchor_x"], sc.Params["anchor_y"], sc.Params["anchor_z"])
		return k, k.ActiveFlags(), nil
	case "polar_radius":
		k := kinematics.NewPolar(kinematics.PolarRadius)
		return k, k.ActiveFlags(), nil
	case "polar_angle":
		k := kinematics.NewPolar(kinematics.PolarAngle)
		return k, k.ActiveFlags(), nil
	case "generic":
		k := kinematics.NewGeneric(sc.Params["ax"], sc.Params["ay"], sc.Params["az"])
		return k, k.ActiveFlags(), nil
	case "extruder":
		k := kinematics.NewExtruder()
		return k, k.ActiveFlags(), nil
	default:
		return nil, 0, fmt.Errorf("planner: unknown kinematics topology %q", sc.Kinematics)
	}
}
