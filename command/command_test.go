package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scherzo/command"
	"scherzo/protocol"
	"scherzo/stepcompress"
)

func TestQueueStepRoundTrips(t *testing.T) {
	out := protocol.NewScratchOutput()
	want := stepcompress.QueueStep{Oid: 3, Interval: 1500, Count: 42, Add: -7}

	command.EncodeQueueStep(out, want)
	data := out.Result()

	got, err := command.DecodeQueueStep(&data)
	require.NoError(t, err)
	assert.Equal(t, want.Oid, got.Oid)
	assert.Equal(t, want.Interval, got.Interval)
	assert.Equal(t, want.Count, got.Count)
	assert.Equal(t, want.Add, got.Add)
	assert.Empty(t, data, "expected all bytes consumed")
}

func TestSetNextStepDirRoundTrips(t *testing.T) {
	out := protocol.NewScratchOutput()
	want := stepcompress.SetNextStepDir{Oid: 1, Dir: true}

	command.EncodeSetNextStepDir(out, want)
	data := out.Result()

	got, err := command.DecodeSetNextStepDir(&data)
	require.NoError(t, err)
	assert.Equal(t, want.Oid, got.Oid)
	assert.Equal(t, want.Dir, got.Dir)
}

func TestEncodeDecodeDispatchesByID(t *testing.T) {
	out := protocol.NewScratchOutput()
	ok := command.Encode(out, stepcompress.QueueStep{Oid: 2, Interval: 100, Count: 1, Add: 0})
	require.True(t, ok)

	data := out.Result()
	cmd, err := command.Decode(&data)
	require.NoError(t, err)

	qs, ok := cmd.(stepcompress.QueueStep)
	require.True(t, ok)
	assert.Equal(t, uint32(2), qs.Oid)
}

func TestDecodeRejectsUnknownID(t *testing.T) {
	out := protocol.NewScratchOutput()
	protocol.EncodeVLQUint(out, 99)
	data := out.Result()

	_, err := command.Decode(&data)
	require.Error(t, err)

	var unknown *command.UnknownCommandError
	assert.ErrorAs(t, err, &unknown)
}
