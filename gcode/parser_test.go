package gcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/gcode"
)

func TestParsesSimpleMove(t *testing.T) {
	stmts, err := gcode.Parse("G1 X10.5 Y-3 F1500\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	cmd, ok := stmts[0].Command()
	require.True(t, ok)
	assert.Equal(t, "G1", cmd)

	x, ok := stmts[0].Get('X')
	require.True(t, ok)
	assert.InDelta(t, 10.5, x.AsFloat(), 1e-9)

	assert.Equal(t, 1500.0, stmts[0].GetFloat('F', 0))
	assert.Equal(t, 0.0, stmts[0].GetFloat('Z', 0), "Z absent, should fall back to default")
}

func TestParsesTrailingComment(t *testing.T) {
	stmts, err := gcode.Parse("G28 ; home all axes\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].HasComment)
	assert.Equal(t, "home all axes", stmts[0].Comment)
}

func TestParsesParenComment(t *testing.T) {
	stmts, err := gcode.Parse("G1 X1 (move to start) Y2\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].HasComment)
	assert.Equal(t, "move to start", stmts[0].Comment)

	y, ok := stmts[0].Get('Y')
	require.True(t, ok)
	assert.Equal(t, 2.0, y.AsFloat())
}

func TestParsesChecksum(t *testing.T) {
	stmts, err := gcode.Parse("N10 G1 X1*42\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].HasChecksum)
	assert.EqualValues(t, 42, stmts[0].Checksum)
}

func TestParsesNamedParameter(t *testing.T) {
	stmts, err := gcode.Parse("SET_VELOCITY_LIMIT VELOCITY=200 ACCEL=3000\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	v, ok := stmts[0].Param("VELOCITY")
	require.True(t, ok)
	assert.Equal(t, 200.0, v.AsFloat())
}

func TestParsesMultipleLines(t *testing.T) {
	stmts, err := gcode.Parse("G28\nG1 X10 Y10 F3000\nM400\n")
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	c0, _ := stmts[0].Command()
	c1, _ := stmts[1].Command()
	c2, _ := stmts[2].Command()
	assert.Equal(t, "G28", c0)
	assert.Equal(t, "G1", c1)
	assert.Equal(t, "M400", c2)
}

func TestRejectsMultipleComments(t *testing.T) {
	_, err := gcode.Parse("G1 (a) X1 (b)\n")
	require.Error(t, err)

	var parseErr *gcode.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestBlankLineProducesNoStatement(t *testing.T) {
	stmts, err := gcode.Parse("\n\nG1 X1\n\n")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
}
