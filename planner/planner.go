// Package planner ties the trapezoidal move queue to one iterative step
// solver and step compressor pair per stepper, and drives the scheduler
// tick loop spec.md §6 describes: finalize old moves, generate steps for
// every stepper up to the flush horizon, then flush each compressor.
// Grounded in the teacher's standalone/manager.go and
// standalone/planner/planner.go orchestration shape, generalized from a
// single simplified trapezoid-per-axis model to the full TMQ/ISS/SC
// pipeline.
package planner

import (
	"fmt"
	"sort"

	"scherzo/config"
	"scherzo/iss"
	"scherzo/kinematics"
	"scherzo/machine"
	"scherzo/stepcompress"
	"scherzo/tmq"
)

// Stepper bundles one physical stepper's solver and compressor, along with
// the trapq it reads moves from. Extruder steppers get a private queue per
// kinematics.Extruder's documented convention (filament distance rides its
// own queue, not the XYZ one); every other topology shares the planner's
// single XYZ queue.
type Stepper[S stepcompress.CommandSink] struct {
	Name     string
	OID      uint32
	Solver   *iss.Solver[S]
	Compress *stepcompress.Compressor[S]
	Queue    *tmq.Queue
}

// Planner owns the shared XYZ trapezoidal move queue, one private queue per
// extruder stepper, and every stepper's solver/compressor pair.
type Planner[S stepcompress.CommandSink] struct {
	trapq     *tmq.Queue
	extruders map[string]*tmq.Queue
	steppers  []*Stepper[S]
	cfg       *config.MachineConfig
}

// New builds a planner from cfg, constructing one Stepper per configured
// motor. sinkFor returns the command sink a given stepper's compressor
// should push into (an mcusim.MCU in tests, a real wire encoder in
// production).
func New[S stepcompress.CommandSink](cfg *config.MachineConfig, sinkFor func(name string, oid uint32) S) (*Planner[S], error) {
	names := make([]string, 0, len(cfg.Steppers))
	for name := range cfg.Steppers {
		names = append(names, name)
	}
	sort.Strings(names)

	p := &Planner[S]{trapq: tmq.New(), extruders: make(map[string]*tmq.Queue), cfg: cfg}
	for _, name := range names {
		sc := cfg.Steppers[name]
		cb, flags, err := buildKinematics(sc)
		if err != nil {
			return nil, fmt.Errorf("planner: stepper %q: %w", name, err)
		}

		solver := iss.New[S](sc.StepDist, flags, sc.GenStepsPreActive, sc.GenStepsPostActive, cb, kinematics.NoopPost{})

		compressor := stepcompress.New[S](sc.OID, sc.MaxError, sinkFor(name, sc.OID))
		compressor.SetTime(cfg.Scheduler.MCUTimeOffset, cfg.Scheduler.MCUFreq)
		compressor.SetInvertSdir(sc.InvertDir)

		queue := p.trapq
		if sc.Kinematics == "extruder" {
			queue = tmq.New()
			p.extruders[name] = queue
		}

		p.steppers = append(p.steppers, &Stepper[S]{
			Name: name, OID: sc.OID, Solver: solver, Compress: compressor, Queue: queue,
		})
	}
	return p, nil
}

// QueueMove appends one trapezoidal move segment to the shared XYZ queue.
func (p *Planner[S]) QueueMove(printTime, accelT, cruiseT, decelT float64, startPos, axesR machine.Coord, startV, cruiseV, accel float64) {
	p.trapq.Append(printTime, accelT, cruiseT, decelT, startPos, axesR, startV, cruiseV, accel)
}

// QueueExtruderMove appends one trapezoidal segment to the named extruder
// stepper's private queue. It returns an error if name isn't an extruder
// stepper.
func (p *Planner[S]) QueueExtruderMove(name string, printTime, accelT, cruiseT, decelT float64, startPos float64, startV, cruiseV, accel float64) error {
	q, ok := p.extruders[name]
	if !ok {
		return fmt.Errorf("planner: %q is not an extruder stepper", name)
	}
	q.Append(printTime, accelT, cruiseT, decelT, machine.Coord{X: startPos}, machine.Coord{X: 1}, startV, cruiseV, accel)
	return nil
}

// SetPosition rebases the shared XYZ queue and every non-extruder solver to
// pos at printTime, discarding any move history that could contradict the
// jump.
func (p *Planner[S]) SetPosition(printTime float64, pos machine.Coord) {
	p.trapq.SetPosition(printTime, pos)
	for _, st := range p.steppers {
		if _, ok := p.extruders[st.Name]; ok {
			continue
		}
		st.Solver.SetPosition(pos.X, pos.Y, pos.Z)
	}
}

// SetExtruderPosition rebases the named extruder's private queue and solver
// to dist at printTime (the G92 E<dist> convention).
func (p *Planner[S]) SetExtruderPosition(name string, printTime, dist float64) error {
	q, ok := p.extruders[name]
	if !ok {
		return fmt.Errorf("planner: %q is not an extruder stepper", name)
	}
	q.SetPosition(printTime, machine.Coord{X: dist})
	st := p.Stepper(name)
	st.Solver.SetPosition(dist, 0, 0)
	return nil
}

// Tick finalizes moves older than clearHistoryTime on every queue, generates
// steps for every stepper up to flushTime, and flushes each compressor's
// queue. This is the scheduler loop proper: finalize_moves -> per-stepper
// generate_steps -> flush.
func (p *Planner[S]) Tick(flushTime, clearHistoryTime float64) error {
	p.trapq.FinalizeMoves(clearHistoryTime, clearHistoryTime)
	for _, q := range p.extruders {
		q.FinalizeMoves(clearHistoryTime, clearHistoryTime)
	}

	for _, st := range p.steppers {
		if err := st.Solver.GenerateSteps(st.Compress, st.Queue, flushTime); err != nil {
			return fmt.Errorf("planner: stepper %q: %w", st.Name, err)
		}
	}

	for _, st := range p.steppers {
		if err := st.Compress.Flush(st.Compress.ClockForTime(flushTime)); err != nil {
			return fmt.Errorf("planner: stepper %q: %w", st.Name, err)
		}
		st.Compress.ExpireHistory(st.Compress.ClockForTime(clearHistoryTime))
	}
	return nil
}

// Stepper returns the named stepper's bundle, or nil if no such stepper is
// configured.
func (p *Planner[S]) Stepper(name string) *Stepper[S] {
	for _, st := range p.steppers {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// Steppers returns every stepper bundle in name order.
func (p *Planner[S]) Steppers() []*Stepper[S] {
	return p.steppers
}
