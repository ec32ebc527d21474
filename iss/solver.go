// Package iss implements the iterative step solver: for each stepper it
// walks the trapezoidal move queue's active moves and finds, by secant
// method with bisection/exponential-search fallback, the exact times the
// stepper's commanded position crosses each half-step boundary — handing
// each crossing to the step compressor. Ported from Klipper's itersolve.c
// by way of the scherzo-core Rust implementation.
package iss

import (
	"scherzo/kinematics"
	"scherzo/machine"
	"scherzo/stepcompress"
	"scherzo/tmq"
)

// seekTimeReset bounds the solver's initial exponential-search step and the
// reset window after a direction change.
const seekTimeReset = 0.000100

type timePos struct {
	time     float64
	position float64
}

// Solver generates step crossings for one stepper, driven by a kinematics
// topology's position callback and an optional post-step hook.
type Solver[S stepcompress.CommandSink] struct {
	stepDist      float64
	commandedPos  float64
	lastFlushTime float64
	lastMoveTime  float64

	activeFlags        kinematics.ActiveFlags
	genStepsPreActive  float64
	genStepsPostActive float64

	calcPositionCB kinematics.PositionCallback
	postCB         kinematics.PostCallback
}

// New returns a solver for one stepper. stepDist is the physical distance
// one step moves the axis; genStepsPreActive/genStepsPostActive extend step
// generation a little before/after the stepper's axes actually move, so a
// slow-settling mechanism (e.g. a CoreXY belt) doesn't miss a step right at
// the activity boundary.
func New[S stepcompress.CommandSink](
	stepDist float64,
	activeFlags kinematics.ActiveFlags,
	genStepsPreActive, genStepsPostActive float64,
	calcPositionCB kinematics.PositionCallback,
	postCB kinematics.PostCallback,
) *Solver[S] {
	return &Solver[S]{
		stepDist:           stepDist,
		activeFlags:        activeFlags,
		genStepsPreActive:  genStepsPreActive,
		genStepsPostActive: genStepsPostActive,
		calcPositionCB:     calcPositionCB,
		postCB:             postCB,
	}
}

// CommandedPos returns the stepper's last-solved commanded position.
func (s *Solver[S]) CommandedPos() float64 { return s.commandedPos }

// SetPosition rebases the solver's commanded position to the stepper
// position implied by the machine coordinate (x, y, z).
func (s *Solver[S]) SetPosition(x, y, z float64) {
	s.commandedPos = s.CalcPositionFromCoord(x, y, z)
}

// CalcPositionFromCoord evaluates the kinematics callback against a
// synthetic stationary move parked at (x, y, z), used to seed the solver's
// commanded position without any real queued motion.
func (s *Solver[S]) CalcPositionFromCoord(x, y, z float64) float64 {
	m := machine.Move{
		PrintTime: 0.0,
		MoveT:     1000.0,
		StartV:    0.0,
		HalfAccel: 0.0,
		StartPos:  machine.Coord{X: x, Y: y, Z: z},
		AxesR:     machine.Coord{},
	}
	return s.calcPositionCB.CalcPosition(m, 500.0)
}

// checkActive reports whether m can move this stepper at all, given the
// axes it's registered on.
func (s *Solver[S]) checkActive(m machine.Move) bool {
	return (s.activeFlags.HasX() && m.AxesR.X != 0.0) ||
		(s.activeFlags.HasY() && m.AxesR.Y != 0.0) ||
		(s.activeFlags.HasZ() && m.AxesR.Z != 0.0)
}

// genStepsRange runs the secant-method search for every half-step crossing
// of m's position callback within [absStart, absEnd], submitting each to sc.
func (s *Solver[S]) genStepsRange(sc *stepcompress.Compressor[S], m machine.Move, absStart, absEnd float64) error {
	halfStep := 0.5 * s.stepDist
	start := absStart - m.PrintTime
	end := absEnd - m.PrintTime

	if start < 0.0 {
		start = 0.0
	}
	if end > m.MoveT {
		end = m.MoveT
	}

	oldGuess := timePos{time: start, position: s.commandedPos}
	guess := oldGuess
	sdir := sc.GetLastDir()
	isDirChange := false
	haveBracket := false
	checkOscillate := false
	target := s.commandedPos
	if sdir {
		target += halfStep
	} else {
		target -= halfStep
	}
	lastTime := start
	lowTime := start
	highTime := start + seekTimeReset
	if highTime > end {
		highTime = end
	}

	for {
		guessDist := guess.position - target
		ogDist := oldGuess.position - target
		nextTime := (oldGuess.time*guessDist - guess.time*ogDist) / (guessDist - ogDist)

		if !(nextTime > lowTime && nextTime < highTime) {
			if haveBracket {
				nextTime = (lowTime + highTime) * 0.5
				checkOscillate = false
			} else if guess.time >= end {
				break
			} else {
				nextTime = highTime
				highTime = 2.0*highTime - lastTime
				if highTime > end {
					highTime = end
				}
			}
		}

		oldGuess = guess
		guess.time = nextTime
		guess.position = s.calcPositionCB.CalcPosition(m, nextTime)
		guessDist = guess.position - target

		if abs(guessDist) > 0.000000001 {
			relDist := guessDist
			if !sdir {
				relDist = -guessDist
			}

			if relDist > 0.0 {
				if haveBracket && oldGuess.time <= lowTime {
					if checkOscillate {
						oldGuess = guess
					}
					checkOscillate = true
				}
				highTime = guess.time
				haveBracket = true
			} else if relDist < -(halfStep + halfStep + 0.000000010) {
				sdir = !sdir
				if sdir {
					target += halfStep + halfStep
				} else {
					target -= halfStep + halfStep
				}
				lowTime = lastTime
				highTime = guess.time
				isDirChange = true
				haveBracket = true
				checkOscillate = false
			} else {
				lowTime = guess.time
			}

			if !haveBracket || highTime-lowTime > 0.000000001 {
				if !isDirChange && relDist >= -halfStep {
					if err := sc.Commit(); err != nil {
						return err
					}
				}
				continue
			}
		}

		dir := int32(0)
		if sdir {
			dir = 1
		}
		if err := sc.Append(dir, m.PrintTime, guess.time); err != nil {
			return err
		}
		if sdir {
			target += halfStep + halfStep
		} else {
			target -= halfStep + halfStep
		}

		seekTimeDelta := 1.5 * (guess.time - lastTime)
		if seekTimeDelta < 0.000000001 {
			seekTimeDelta = 0.000000001
		}
		if isDirChange && seekTimeDelta > seekTimeReset {
			seekTimeDelta = seekTimeReset
		}
		lastTime = guess.time
		lowTime = guess.time
		highTime = guess.time + seekTimeDelta
		if highTime > end {
			highTime = end
		}
		isDirChange = false
		haveBracket = false
		checkOscillate = false
	}

	if sdir {
		s.commandedPos = target - halfStep
	} else {
		s.commandedPos = target + halfStep
	}
	s.postCB.PostStep()
	return nil
}

// GenerateSteps walks trapq's active moves from the last flush up to
// flushTime, generating steps for every move that can actually move this
// stepper, plus a pre/post margin of genStepsPreActive/genStepsPostActive
// around each activity window so slow-settling mechanisms don't miss a
// step right at the boundary.
func (s *Solver[S]) GenerateSteps(sc *stepcompress.Compressor[S], trapq *tmq.Queue, flushTime float64) error {
	lastFlushTime := s.lastFlushTime
	s.lastFlushTime = flushTime

	moves := trapq.GetActiveMoves()
	if len(moves) == 0 {
		return nil
	}

	moveIdx := 0
	for moveIdx < len(moves) {
		m := moves[moveIdx]
		if lastFlushTime < m.PrintTime+m.MoveT {
			break
		}
		moveIdx++
	}
	if moveIdx >= len(moves) {
		return nil
	}

	forceStepsTime := s.lastMoveTime + s.genStepsPostActive
	skipCount := 0

	for moveIdx < len(moves) {
		m := moves[moveIdx]
		moveStart := m.PrintTime
		moveEnd := moveStart + m.MoveT

		if s.checkActive(m) {
			if skipCount > 0 && s.genStepsPreActive > 0.0 {
				absStart := moveStart - s.genStepsPreActive
				if absStart < lastFlushTime {
					absStart = lastFlushTime
				}
				if absStart < forceStepsTime {
					absStart = forceStepsTime
				}

				pmIdx := moveIdx
				for skipCount > 0 && pmIdx > 0 {
					pmIdx--
					if moves[pmIdx].PrintTime <= absStart {
						break
					}
					skipCount--
				}

				for pmIdx < moveIdx {
					if err := s.genStepsRange(sc, moves[pmIdx], absStart, flushTime); err != nil {
						return err
					}
					pmIdx++
				}
			}

			if err := s.genStepsRange(sc, m, lastFlushTime, flushTime); err != nil {
				return err
			}

			if moveEnd >= flushTime {
				s.lastMoveTime = flushTime
				return nil
			}

			skipCount = 0
			s.lastMoveTime = moveEnd
			forceStepsTime = s.lastMoveTime + s.genStepsPostActive
		} else {
			if moveStart < forceStepsTime {
				absEnd := forceStepsTime
				if absEnd > flushTime {
					absEnd = flushTime
				}
				if err := s.genStepsRange(sc, m, lastFlushTime, absEnd); err != nil {
					return err
				}
				skipCount = 1
			} else {
				skipCount++
			}
			if flushTime+s.genStepsPreActive <= moveEnd {
				return nil
			}
		}

		moveIdx++
	}

	return nil
}

// CheckActiveTime reports the print_time of the first unprocessed move
// that can actually move this stepper, or (0, false) if none is found
// before flushTime.
func (s *Solver[S]) CheckActiveTime(trapq *tmq.Queue, flushTime float64) (float64, bool) {
	moves := trapq.GetActiveMoves()
	if len(moves) == 0 {
		return 0, false
	}

	moveIdx := 0
	for moveIdx < len(moves) {
		m := moves[moveIdx]
		if s.lastFlushTime < m.PrintTime+m.MoveT {
			break
		}
		moveIdx++
	}

	for moveIdx < len(moves) {
		m := moves[moveIdx]
		if s.checkActive(m) {
			return m.PrintTime, true
		}
		if flushTime <= m.PrintTime+m.MoveT {
			return 0, false
		}
		moveIdx++
	}
	return 0, false
}

// IsActiveAxis reports whether this stepper is registered on the named
// axis ('x'/'X', 'y'/'Y', or 'z'/'Z').
func (s *Solver[S]) IsActiveAxis(axis byte) bool {
	switch axis {
	case 'x', 'X':
		return s.activeFlags.HasX()
	case 'y', 'Y':
		return s.activeFlags.HasY()
	case 'z', 'Z':
		return s.activeFlags.HasZ()
	default:
		return false
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
