// Package tmq implements the trapezoidal move queue: the deque of constant-
// acceleration segments that the planner appends to and the iterative step
// solver reads from. Ported from Klipper's trapq helper by way of the
// scherzo-core Rust implementation: a queue of active moves bracketed by a
// head and tail sentinel, with gap-filling null moves for numerical
// stability and an eviction history for diagnostics and position lookups.
package tmq

import "scherzo/machine"

// Queue holds the active move deque (including its head and tail sentinels)
// plus the evicted history, oldest-to-newest from the back.
type Queue struct {
	moves   []machine.Move // moves[0] is the head sentinel, moves[len-1] the tail
	history []machine.Move // history[0] is most recently evicted, history[len-1] oldest
}

// New returns an empty queue: a head sentinel at print_time -1 and a tail
// sentinel parked at NeverTime so nothing schedules against it yet.
func New() *Queue {
	return &Queue{
		moves: []machine.Move{
			{PrintTime: -1.0},
			{PrintTime: machine.NeverTime, MoveT: machine.NeverTime},
		},
	}
}

func (q *Queue) tailIndex() int { return len(q.moves) - 1 }

// CheckSentinels refreshes the tail sentinel's print_time and start position
// from the last real move, once add_move has marked it stale (print_time
// reset to zero).
func (q *Queue) CheckSentinels() {
	tailIdx := q.tailIndex()
	if q.moves[tailIdx].PrintTime != 0.0 {
		return
	}
	prevIdx := tailIdx - 1
	if prevIdx == 0 {
		q.moves[tailIdx].PrintTime = machine.NeverTime
		q.moves[tailIdx].MoveT = machine.NeverTime
		return
	}
	prev := q.moves[prevIdx]
	q.moves[tailIdx].PrintTime = prev.PrintTime + prev.MoveT
	q.moves[tailIdx].MoveT = 0.0
	q.moves[tailIdx].StartPos = prev.CoordAt(prev.MoveT)
}

// AddMove inserts a fully-prepared move before the tail sentinel, inserting
// a null move first to fill any gap since the previous move ended.
func (q *Queue) AddMove(m machine.Move) {
	tailIdx := q.tailIndex()
	prev := q.moves[tailIdx-1]
	if prev.PrintTime+prev.MoveT < m.PrintTime {
		null := machine.Move{StartPos: m.StartPos}
		if tailIdx-1 == 0 && m.PrintTime > machine.MaxNullMove {
			null.PrintTime = m.PrintTime - machine.MaxNullMove
		} else {
			null.PrintTime = prev.PrintTime + prev.MoveT
		}
		null.MoveT = m.PrintTime - null.PrintTime
		q.insertBeforeTail(null)
	}
	q.insertBeforeTail(m)
	// mark tail stale so CheckSentinels recomputes it
	tail := &q.moves[q.tailIndex()]
	tail.PrintTime = 0.0
	tail.MoveT = 0.0
}

func (q *Queue) insertBeforeTail(m machine.Move) {
	at := q.tailIndex()
	q.moves = append(q.moves, machine.Move{})
	copy(q.moves[at+1:], q.moves[at:])
	q.moves[at] = m
}

// Append builds and queues up to three segments (accel/cruise/decel) from
// the classic trapq_append parameterization, mirroring Klipper's C helper.
func (q *Queue) Append(printTime, accelT, cruiseT, decelT float64, startPos, axesR machine.Coord, startV, cruiseV, accel float64) {
	curTime := printTime
	curPos := startPos

	if accelT > 0.0 {
		m := machine.Move{
			PrintTime: curTime,
			MoveT:     accelT,
			StartV:    startV,
			HalfAccel: 0.5 * accel,
			StartPos:  curPos,
			AxesR:     axesR,
		}
		q.AddMove(m)
		curTime += accelT
		curPos = m.CoordAt(accelT)
	}

	if cruiseT > 0.0 {
		m := machine.Move{
			PrintTime: curTime,
			MoveT:     cruiseT,
			StartV:    cruiseV,
			HalfAccel: 0.0,
			StartPos:  curPos,
			AxesR:     axesR,
		}
		q.AddMove(m)
		curTime += cruiseT
		curPos = m.CoordAt(cruiseT)
	}

	if decelT > 0.0 {
		m := machine.Move{
			PrintTime: curTime,
			MoveT:     decelT,
			StartV:    cruiseV,
			HalfAccel: -0.5 * accel,
			StartPos:  curPos,
			AxesR:     axesR,
		}
		q.AddMove(m)
	}
}

// FinalizeMoves expires any active move that ends at or before printTime
// into history (dropping null moves), then trims history older than
// clearHistoryTime, always keeping at least the most recent entry.
func (q *Queue) FinalizeMoves(printTime, clearHistoryTime float64) {
	for len(q.moves) > 2 {
		m := q.moves[1]
		if m.PrintTime+m.MoveT > printTime {
			break
		}
		q.moves = append(q.moves[:1], q.moves[2:]...)
		if m.StartV != 0.0 || m.HalfAccel != 0.0 {
			q.history = append([]machine.Move{m}, q.history...)
		}
	}

	if len(q.moves) == 2 {
		tail := &q.moves[q.tailIndex()]
		tail.PrintTime = machine.NeverTime
		tail.MoveT = machine.NeverTime
	}

	if len(q.history) > 0 {
		latest := q.history[0]
		for len(q.history) > 1 {
			last := q.history[len(q.history)-1]
			if last.PrintTime+last.MoveT > clearHistoryTime {
				break
			}
			if last == latest {
				break
			}
			q.history = q.history[:len(q.history)-1]
		}
	}
}

// SetPosition records a position discontinuity at printTime: it flushes all
// pending moves into history, truncates history entries at or after
// printTime, and pushes a zero-length marker move recording the new
// position.
func (q *Queue) SetPosition(printTime float64, pos machine.Coord) {
	q.FinalizeMoves(machine.NeverTime, 0.0)

	for len(q.history) > 0 {
		first := &q.history[0]
		if first.PrintTime < printTime {
			if first.PrintTime+first.MoveT > printTime {
				first.MoveT = printTime - first.PrintTime
			}
			break
		}
		q.history = q.history[1:]
	}

	q.history = append([]machine.Move{{PrintTime: printTime, StartPos: pos}}, q.history...)
}

// ExtractOld returns up to max pulled moves (active then historical,
// most recent first) that overlap [startTime, endTime].
func (q *Queue) ExtractOld(max int, startTime, endTime float64) []machine.PullMove {
	var result []machine.PullMove

	for i := len(q.moves) - 2; i >= 1; i-- {
		m := q.moves[i]
		if m.PrintTime > endTime {
			continue
		}
		if m.PrintTime+m.MoveT < startTime {
			break
		}
		result = append(result, m.ToPullMove())
		if len(result) >= max {
			return result
		}
	}

	for _, m := range q.history {
		if m.PrintTime > endTime {
			continue
		}
		if m.PrintTime+m.MoveT < startTime {
			break
		}
		result = append(result, m.ToPullMove())
		if len(result) >= max {
			return result
		}
	}

	return result
}

// GetActiveMoves returns the in-flight moves, excluding sentinels, oldest
// first — the view the iterative step solver walks.
func (q *Queue) GetActiveMoves() []machine.Move {
	if len(q.moves) <= 2 {
		return nil
	}
	return q.moves[1 : len(q.moves)-1]
}

// GetHistoryMoves returns the history, most recently evicted first.
func (q *Queue) GetHistoryMoves() []machine.Move {
	return q.history
}

// ActiveLen is the number of in-flight moves, excluding sentinels.
func (q *Queue) ActiveLen() int {
	n := len(q.moves) - 2
	if n < 0 {
		return 0
	}
	return n
}

// HistoryLen is the number of evicted moves still retained.
func (q *Queue) HistoryLen() int { return len(q.history) }

// TailSentinel returns a copy of the current tail sentinel.
func (q *Queue) TailSentinel() machine.Move {
	return q.moves[q.tailIndex()]
}
