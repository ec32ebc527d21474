package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/config"
	"scherzo/machine"
	"scherzo/mcusim"
	"scherzo/planner"
)

func cartesianConfig() *config.MachineConfig {
	cfg := config.DefaultCartesianConfig()
	cfg.Scheduler.MCUFreq = 1_000_000.0
	return cfg
}

func TestPlannerGeneratesStepsForAllSteppers(t *testing.T) {
	sim := mcusim.New()
	cfg := cartesianConfig()

	p, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	require.NoError(t, err)

	p.QueueMove(0.0, 0.5, 0.5, 0.5,
		machine.Coord{}, machine.Coord{X: 10.0, Y: 10.0, Z: 1.0},
		0.0, 10.0, 20.0)

	require.NoError(t, p.Tick(1.5, 0.0))

	assert.NotZero(t, sim.Stepper(0).Position(), "x stepper should have stepped")
	assert.NotZero(t, sim.Stepper(1).Position(), "y stepper should have stepped")
}

func TestPlannerRejectsUnknownKinematics(t *testing.T) {
	cfg := cartesianConfig()
	cfg.Steppers["bogus"] = config.StepperConfig{OID: 9, Kinematics: "not-a-real-topology"}

	sim := mcusim.New()
	_, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	assert.Error(t, err)
}

func TestPlannerSetPositionRebasesSolvers(t *testing.T) {
	sim := mcusim.New()
	cfg := cartesianConfig()

	p, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	require.NoError(t, err)

	p.SetPosition(0.0, machine.Coord{X: 5.0, Y: 5.0, Z: 0.0})

	xStepper := p.Stepper("x")
	require.NotNil(t, xStepper)
	assert.Equal(t, 5.0, xStepper.Solver.CommandedPos())
}

func TestExtruderMovesOnPrivateQueue(t *testing.T) {
	sim := mcusim.New()
	cfg := cartesianConfig()

	p, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	require.NoError(t, err)

	require.NoError(t, p.QueueExtruderMove("e", 0.0, 0.1, 0.0, 0.1, 0.0, 0.0, 5.0, 50.0))
	require.Error(t, p.QueueExtruderMove("x", 0.0, 0.1, 0.0, 0.1, 0.0, 0.0, 5.0, 50.0),
		"x is not an extruder stepper")

	require.NoError(t, p.Tick(0.3, 0.0))

	eStepper := p.Stepper("e")
	require.NotNil(t, eStepper)
	assert.NotZero(t, sim.Stepper(eStepper.OID).Position(), "extruder should have stepped")
	assert.Zero(t, sim.Stepper(p.Stepper("x").OID).Position(), "x should be untouched by an extruder-only move")
}

func TestSetExtruderPositionRebasesOnlyExtruder(t *testing.T) {
	sim := mcusim.New()
	cfg := cartesianConfig()

	p, err := planner.New[*mcusim.MCU](cfg, func(name string, oid uint32) *mcusim.MCU {
		return sim
	})
	require.NoError(t, err)

	require.NoError(t, p.SetExtruderPosition("e", 0.0, 12.5))
	require.Error(t, p.SetExtruderPosition("y", 0.0, 12.5))

	eStepper := p.Stepper("e")
	require.NotNil(t, eStepper)
	assert.Equal(t, 12.5, eStepper.Solver.CommandedPos())
}
