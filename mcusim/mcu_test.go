package mcusim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scherzo/mcusim"
	"scherzo/stepcompress"
)

func TestRoundTripStepCountMatchesPositionDelta(t *testing.T) {
	sim := mcusim.New()
	sc := stepcompress.New[*mcusim.MCU](0, 1000, sim)
	sc.SetTime(0.0, 1_000_000.0)

	const steps = 20
	for i := 0; i < steps; i++ {
		require.NoError(t, sc.Append(1, 0.0, float64(i)*0.001))
		require.NoError(t, sc.Commit())
	}
	require.NoError(t, sc.Flush(^uint64(0)))

	stepper := sim.Stepper(0)
	require.Equal(t, int64(steps), stepper.Position())
	require.Equal(t, sc.LastPosition(), stepper.Position())
}

func TestRoundTripReverseDirectionSubtracts(t *testing.T) {
	sim := mcusim.New()
	sc := stepcompress.New[*mcusim.MCU](0, 1000, sim)
	sc.SetTime(0.0, 1_000_000.0)

	for i := 0; i < 5; i++ {
		require.NoError(t, sc.Append(1, 0.0, float64(i)*0.001))
		require.NoError(t, sc.Commit())
	}
	for i := 5; i < 10; i++ {
		require.NoError(t, sc.Append(0, 0.0, float64(i)*0.001))
		require.NoError(t, sc.Commit())
	}
	require.NoError(t, sc.Flush(^uint64(0)))

	stepper := sim.Stepper(0)
	require.Equal(t, sc.LastPosition(), stepper.Position())
}

func TestMultipleSteppersTrackIndependently(t *testing.T) {
	sim := mcusim.New()
	scA := stepcompress.New[*mcusim.MCU](0, 1000, sim)
	scA.SetTime(0.0, 1_000_000.0)
	scB := stepcompress.New[*mcusim.MCU](1, 1000, sim)
	scB.SetTime(0.0, 1_000_000.0)

	require.NoError(t, scA.Append(1, 0.0, 0.0))
	require.NoError(t, scA.Commit())
	require.NoError(t, scA.Flush(^uint64(0)))

	require.NoError(t, scB.Append(1, 0.0, 0.0))
	require.NoError(t, scB.Commit())
	require.NoError(t, scB.Append(1, 0.0, 0.001))
	require.NoError(t, scB.Commit())
	require.NoError(t, scB.Flush(^uint64(0)))

	require.Equal(t, int64(1), sim.Stepper(0).Position())
	require.Equal(t, int64(2), sim.Stepper(1).Position())
}
