package tmq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scherzo/machine"
	"scherzo/tmq"
)

func TestAppendsSegmentsAndUpdatesSentinel(t *testing.T) {
	q := tmq.New()
	q.Append(0.0, 1.0, 2.0, 1.0,
		machine.Coord{}, machine.Coord{X: 1.0},
		0.0, 1.0, 2.0)

	assert.Equal(t, 4, q.ActiveLen(), "initial null move + 3 segments")

	q.CheckSentinels()
	assert.Greater(t, q.TailSentinel().PrintTime, 0.0)
}

func TestInsertsNullMoveForGap(t *testing.T) {
	q := tmq.New()
	q.AddMove(machine.Move{PrintTime: 0.0, MoveT: 0.5})
	q.AddMove(machine.Move{PrintTime: 2.0, MoveT: 0.5})

	assert.Equal(t, 4, q.ActiveLen(), "initial null + m1 + gap null + m2")
}

func TestFinalizesIntoHistory(t *testing.T) {
	q := tmq.New()
	q.Append(0.0, 1.0, 0.0, 0.0,
		machine.Coord{}, machine.Coord{X: 1.0},
		0.5, 0.0, 1.0)

	q.FinalizeMoves(2.0, 0.0)
	assert.Equal(t, 0, q.ActiveLen())
	assert.GreaterOrEqual(t, q.HistoryLen(), 1)

	q.CheckSentinels()
	assert.Equal(t, machine.NeverTime, q.TailSentinel().PrintTime)
}

func TestExtractIncludesActiveAndHistory(t *testing.T) {
	q := tmq.New()
	q.Append(0.0, 0.5, 0.0, 0.0,
		machine.Coord{}, machine.Coord{X: 1.0},
		1.0, 0.0, 1.0)

	pulled := q.ExtractOld(4, 0.0, 2.0)
	assert.Len(t, pulled, 2, "should have null move + actual move")

	q.FinalizeMoves(2.0, 0.0)

	pulled2 := q.ExtractOld(4, 0.0, 2.0)
	assert.Len(t, pulled2, 1, "null moves filtered from history")
}

func TestSetPositionTruncatesHistory(t *testing.T) {
	q := tmq.New()
	q.Append(0.0, 0.5, 0.0, 0.0,
		machine.Coord{}, machine.Coord{X: 1.0},
		1.0, 0.0, 1.0)

	q.FinalizeMoves(2.0, 0.0)
	q.SetPosition(0.25, machine.Coord{X: 1.0, Y: 2.0, Z: 3.0})

	assert.GreaterOrEqual(t, q.HistoryLen(), 1)
	marker := q.GetHistoryMoves()[0]
	assert.Equal(t, 0.25, marker.PrintTime)
	assert.Equal(t, 1.0, marker.StartPos.X)
}
