package codegen

import (
	"scherzo/config"
	"scherzo/gcode"
	"scherzo/machine"
)

// Compile lowers stmts into a Program, resolving G90/G91 absolute-vs-
// relative positioning, M82/M83 absolute-vs-relative extrusion, and F
// feed-rate carry-over into each OpMove as it goes — the same state machine
// the teacher's Interpreter.Execute/executeG/executeM/doMove methods
// maintain, run once over the whole script instead of call-by-call.
// Statements whose first word isn't a recognized G/M verb are skipped
// rather than rejected, the way a host tolerates macros it doesn't need.
func Compile(stmts []gcode.Statement, cfg *config.MachineConfig) *Program {
	prog := &Program{}

	absolute := true
	extrudeRelative := false
	feedRate := cfg.DefaultVelocity
	pos := machine.Coord{}
	ePos := 0.0

	for _, st := range stmts {
		cmd, ok := st.Command()
		if !ok {
			continue
		}

		switch cmd {
		case "G0", "G1":
			if f, ok := st.Get('F'); ok {
				feedRate = f.AsFloat() / 60.0 // mm/min -> mm/s
			}

			target := pos
			if v, ok := st.Get('X'); ok {
				target.X = resolveAxis(absolute, pos.X, v.AsFloat())
			}
			if v, ok := st.Get('Y'); ok {
				target.Y = resolveAxis(absolute, pos.Y, v.AsFloat())
			}
			if v, ok := st.Get('Z'); ok {
				target.Z = resolveAxis(absolute, pos.Z, v.AsFloat())
			}

			hasE := false
			eDelta := 0.0
			if v, ok := st.Get('E'); ok {
				hasE = true
				if extrudeRelative {
					eDelta = v.AsFloat()
				} else {
					eDelta = v.AsFloat() - ePos
				}
			}

			dx, dy, dz := target.X-pos.X, target.Y-pos.Y, target.Z-pos.Z
			sqDist := dx*dx + dy*dy + dz*dz
			if sqDist < 1e-12 && eDelta*eDelta < 1e-12 {
				pos = target
				if hasE {
					ePos += eDelta
				}
				continue
			}

			prog.Ops = append(prog.Ops, Op{
				Kind: OpMove, Line: st.Line,
				Target: target, HasE: hasE, EDist: eDelta, FeedRate: feedRate,
			})
			pos = target
			if hasE {
				ePos += eDelta
			}

		case "G28":
			_, hasX := st.Get('X')
			_, hasY := st.Get('Y')
			_, hasZ := st.Get('Z')
			// A bare axis letter ("G28 Z") lexes as a text word, not a
			// letter word, so Get doesn't see it.
			for _, w := range st.Words {
				if w.HasLetter || w.Value.Kind != gcode.ValueText {
					continue
				}
				switch w.Value.Text {
				case "X":
					hasX = true
				case "Y":
					hasY = true
				case "Z":
					hasZ = true
				}
			}
			if !hasX && !hasY && !hasZ {
				hasX, hasY, hasZ = true, true, true
			}
			if hasX {
				pos.X = 0
			}
			if hasY {
				pos.Y = 0
			}
			if hasZ {
				pos.Z = 0
			}
			prog.Ops = append(prog.Ops, Op{
				Kind: OpHome, Line: st.Line,
				HomeX: hasX, HomeY: hasY, HomeZ: hasZ,
				Position:     pos,
				HasPositionX: hasX, HasPositionY: hasY, HasPositionZ: hasZ,
			})

		case "G90":
			absolute = true
		case "G91":
			absolute = false

		case "G92":
			op := Op{Kind: OpSetPosition, Line: st.Line}
			if v, ok := st.Get('X'); ok {
				pos.X = v.AsFloat()
				op.HasPositionX = true
			}
			if v, ok := st.Get('Y'); ok {
				pos.Y = v.AsFloat()
				op.HasPositionY = true
			}
			if v, ok := st.Get('Z'); ok {
				pos.Z = v.AsFloat()
				op.HasPositionZ = true
			}
			if v, ok := st.Get('E'); ok {
				ePos = v.AsFloat()
				op.HasPositionE = true
				op.EPosition = ePos
			}
			op.Position = pos
			if op.HasPositionX || op.HasPositionY || op.HasPositionZ || op.HasPositionE {
				prog.Ops = append(prog.Ops, op)
			}

		case "M82":
			extrudeRelative = false
		case "M83":
			extrudeRelative = true

		case "M104", "M109", "M140", "M190":
			v, ok := st.Get('S')
			if !ok {
				continue
			}
			heater := "extruder"
			if cmd == "M140" || cmd == "M190" {
				heater = "bed"
			}
			prog.Ops = append(prog.Ops, Op{
				Kind: OpSetTemperature, Line: st.Line,
				Heater: heater, Temp: v.AsFloat(), Wait: cmd == "M109" || cmd == "M190",
			})
		}
	}

	return prog
}

func resolveAxis(absolute bool, current, word float64) float64 {
	if absolute {
		return word
	}
	return current + word
}
