package iss_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/iss"
	"scherzo/kinematics"
	"scherzo/machine"
	"scherzo/stepcompress"
	"scherzo/tmq"
)

type linearCallback struct{}

func (linearCallback) CalcPosition(m machine.Move, moveTime float64) float64 {
	moveDist := (m.StartV + m.HalfAccel*moveTime) * moveTime
	return m.StartPos.X + m.AxesR.X*moveDist
}

type oscillatingCallback struct{}

func (oscillatingCallback) CalcPosition(m machine.Move, moveTime float64) float64 {
	return math.Sin(moveTime*10.0) * 2.0
}

type coordCallback struct{}

func (coordCallback) CalcPosition(m machine.Move, _ float64) float64 {
	return m.StartPos.X + 2.0*m.StartPos.Y + 3.0*m.StartPos.Z
}

func TestGeneratesStepsForLinearMotion(t *testing.T) {
	solver := iss.New[*stepcompress.RecordingSink](
		0.1, kinematics.NewActiveFlags().WithX(), 0.0, 0.0,
		linearCallback{}, kinematics.NoopPost{})

	trapq := tmq.New()
	trapq.Append(0.0, 0.5, 0.5, 0.5,
		machine.Coord{}, machine.Coord{X: 10.0, Y: 10.0, Z: 10.0},
		0.0, 0.0, 20.0)

	sc := stepcompress.New[*stepcompress.RecordingSink](0, 1000, &stepcompress.RecordingSink{})
	sc.SetTime(0.0, 1_000_000.0)

	require.NoError(t, solver.GenerateSteps(sc, trapq, 1.5))
	assert.NotEmpty(t, sc.Sink().Commands, "expected some step commands")
}

func TestDetectsDirectionChanges(t *testing.T) {
	solver := iss.New[*stepcompress.RecordingSink](
		0.1, kinematics.NewActiveFlags().WithX(), 0.0, 0.0,
		oscillatingCallback{}, kinematics.NoopPost{})

	trapq := tmq.New()
	trapq.Append(0.0, 1.0, 0.0, 0.0,
		machine.Coord{}, machine.Coord{X: 1.0},
		0.0, 0.0, 0.0)

	sc := stepcompress.New[*stepcompress.RecordingSink](0, 1000, &stepcompress.RecordingSink{})
	sc.SetTime(0.0, 1_000_000.0)

	require.NoError(t, solver.GenerateSteps(sc, trapq, 1.0))

	dirChanges := 0
	for _, cmd := range sc.Sink().Commands {
		if _, ok := cmd.(stepcompress.SetNextStepDir); ok {
			dirChanges++
		}
	}
	assert.Greater(t, dirChanges, 1, "expected multiple direction changes")
}

func TestRespectsAxisFiltering(t *testing.T) {
	solver := iss.New[*stepcompress.RecordingSink](
		0.1, kinematics.NewActiveFlags().WithY(), 0.0, 0.0,
		linearCallback{}, kinematics.NoopPost{})

	trapq := tmq.New()
	trapq.Append(0.0, 0.5, 0.5, 0.5,
		machine.Coord{}, machine.Coord{X: 10.0},
		0.0, 0.0, 20.0)

	sc := stepcompress.New[*stepcompress.RecordingSink](0, 1000, &stepcompress.RecordingSink{})
	sc.SetTime(0.0, 1_000_000.0)

	require.NoError(t, solver.GenerateSteps(sc, trapq, 1.5))
	assert.Empty(t, sc.Sink().Commands, "expected no commands for filtered axis")
}

func TestCalculatesPositionFromCoordinates(t *testing.T) {
	solver := iss.New[*stepcompress.RecordingSink](
		0.1, kinematics.NewActiveFlags().WithX(), 0.0, 0.0,
		coordCallback{}, kinematics.NoopPost{})

	pos := solver.CalcPositionFromCoord(1.0, 2.0, 3.0)
	assert.Equal(t, 14.0, pos) // 1 + 2*2 + 3*3
}
