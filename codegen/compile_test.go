package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/codegen"
	"scherzo/config"
	"scherzo/gcode"
)

func mustParse(t *testing.T, src string) []gcode.Statement {
	t.Helper()
	stmts, err := gcode.Parse(src)
	require.NoError(t, err)
	return stmts
}

func TestCompileAbsoluteMoveResolvesFeedRate(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G1 X10 Y10 F3000\n"), cfg)

	require.Len(t, prog.Ops, 1)
	op := prog.Ops[0]
	assert.Equal(t, codegen.OpMove, op.Kind)
	assert.Equal(t, 10.0, op.Target.X)
	assert.Equal(t, 10.0, op.Target.Y)
	assert.Equal(t, 50.0, op.FeedRate, "3000 mm/min -> 50 mm/s")
}

func TestCompileRelativeModeAccumulates(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G91\nG1 X5\nG1 X5\n"), cfg)

	require.Len(t, prog.Ops, 2)
	assert.Equal(t, 5.0, prog.Ops[0].Target.X)
	assert.Equal(t, 10.0, prog.Ops[1].Target.X, "relative mode should accumulate onto the running position")
}

func TestCompileExtrusionAbsoluteThenRelative(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G1 X10 E5\nM83\nG1 X20 E2\n"), cfg)

	require.Len(t, prog.Ops, 2)
	assert.True(t, prog.Ops[0].HasE)
	assert.Equal(t, 5.0, prog.Ops[0].EDist, "absolute extrusion from position 0 is just the E word")
	assert.True(t, prog.Ops[1].HasE)
	assert.Equal(t, 2.0, prog.Ops[1].EDist, "M83 switches to relative extrusion")
}

func TestCompileHomeAllAxesWhenNoAxisWordGiven(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G28\n"), cfg)

	require.Len(t, prog.Ops, 1)
	op := prog.Ops[0]
	assert.Equal(t, codegen.OpHome, op.Kind)
	assert.True(t, op.HomeX && op.HomeY && op.HomeZ)
	assert.Equal(t, 0.0, op.Position.X)
}

func TestCompileHomeSingleAxisLeavesOthersCarriedOver(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G1 X10 Y10\nG28 Z\n"), cfg)

	require.Len(t, prog.Ops, 2)
	home := prog.Ops[1]
	assert.True(t, home.HomeZ)
	assert.False(t, home.HomeX || home.HomeY)
	assert.Equal(t, 10.0, home.Position.X, "X wasn't homed, should carry over from the prior move")
	assert.Equal(t, 0.0, home.Position.Z)
}

func TestCompileSetPositionOnlyTouchesNamedAxes(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G1 X10 Y10\nG92 E0\n"), cfg)

	require.Len(t, prog.Ops, 2)
	setPos := prog.Ops[1]
	assert.Equal(t, codegen.OpSetPosition, setPos.Kind)
	assert.True(t, setPos.HasPositionE)
	assert.False(t, setPos.HasPositionX || setPos.HasPositionY || setPos.HasPositionZ)
}

func TestCompileTemperatureCommandsCaptureWaitVariant(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "M104 S200\nM109 S210\nM140 S60\n"), cfg)

	temps := prog.TemperatureEvents()
	require.Len(t, temps, 3)
	assert.Equal(t, "extruder", temps[0].Heater)
	assert.False(t, temps[0].Wait)
	assert.True(t, temps[1].Wait)
	assert.Equal(t, "bed", temps[2].Heater)
}

func TestCompileSkipsDegenerateMoveButKeepsPosition(t *testing.T) {
	cfg := config.DefaultCartesianConfig()
	prog := codegen.Compile(mustParse(t, "G1 X10\nG1 X10\nG1 X11\n"), cfg)

	require.Len(t, prog.Ops, 2, "the repeated G1 X10 is a no-op move and should not emit an Op")
	assert.Equal(t, 11.0, prog.Ops[1].Target.X)
}
