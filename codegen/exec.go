package codegen

import (
	"fmt"
	"math"

	"scherzo/config"
	"scherzo/machine"
	"scherzo/planner"
	"scherzo/stepcompress"
)

// Run schedules a compiled Program against p, starting at startTime, and
// returns the print time immediately after the last queued move.
// extruderName names the planner's extruder stepper (empty if the machine
// has none); E words on a move are ignored when it's empty.
//
// An OpMove with both XYZ and E components co-schedules the extruder as a
// single constant-velocity segment spanning the travel move's duration —
// the way a real toolhead extrudes alongside a travel move rather than
// running an independent profile — falling back to the extruder's own
// trapezoid for a pure retract/prime move with no XYZ component. This
// mirrors the "simplified, no lookahead" trapezoid already used for the
// travel axes (see trapezoidTiming), not full junction-deviation planning.
func Run[S stepcompress.CommandSink](prog *Program, p *planner.Planner[S], cfg *config.MachineConfig, extruderName string, startTime float64) (float64, error) {
	t := startTime
	pos := machine.Coord{}
	ePos := 0.0

	for _, op := range prog.Ops {
		switch op.Kind {
		case OpMove:
			dx, dy, dz := op.Target.X-pos.X, op.Target.Y-pos.Y, op.Target.Z-pos.Z
			dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

			xyzDuration := 0.0
			if dist > 1e-9 {
				accelT, cruiseT, decelT, cruiseVel := trapezoidTiming(dist, op.FeedRate, cfg.DefaultAccel)
				axesR := machine.Coord{X: dx / dist, Y: dy / dist, Z: dz / dist}
				p.QueueMove(t, accelT, cruiseT, decelT, pos, axesR, 0, cruiseVel, cfg.DefaultAccel)
				xyzDuration = accelT + cruiseT + decelT
			}

			if op.HasE && extruderName != "" {
				edist := math.Abs(op.EDist)
				sign := 1.0
				if op.EDist < 0 {
					sign = -1.0
				}

				switch {
				case xyzDuration > 1e-9:
					v := edist / xyzDuration * sign
					if err := p.QueueExtruderMove(extruderName, t, 0, xyzDuration, 0, ePos, v, v, 0); err != nil {
						return t, fmt.Errorf("codegen: line %d: %w", op.Line, err)
					}
				case edist > 1e-9:
					accelT, cruiseT, decelT, cruiseVel := trapezoidTiming(edist, op.FeedRate, cfg.DefaultAccel)
					if err := p.QueueExtruderMove(extruderName, t, accelT, cruiseT, decelT, ePos, 0, cruiseVel*sign, cfg.DefaultAccel*sign); err != nil {
						return t, fmt.Errorf("codegen: line %d: %w", op.Line, err)
					}
					if xyzDuration < accelT+cruiseT+decelT {
						xyzDuration = accelT + cruiseT + decelT
					}
				}
				ePos += op.EDist
			}

			pos = op.Target
			t += xyzDuration

		case OpHome, OpSetPosition:
			if op.HasPositionX || op.HasPositionY || op.HasPositionZ {
				p.SetPosition(t, op.Position)
				pos = op.Position
			}
			if op.HasPositionE && extruderName != "" {
				if err := p.SetExtruderPosition(extruderName, t, op.EPosition); err != nil {
					return t, fmt.Errorf("codegen: line %d: %w", op.Line, err)
				}
				ePos = op.EPosition
			}

		case OpSetTemperature:
			// No thermal simulation in this core; callers read
			// Program.TemperatureEvents() for job-status reporting instead.
		}
	}

	return t, nil
}
