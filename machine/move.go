package machine

// NeverTime is the sentinel print_time carried by an empty queue's tail
// sentinel: a value so far in the future that every real comparison against
// it behaves as "not yet scheduled."
const NeverTime = 9_999_999_999_999_999.9

// MaxNullMove bounds how large a gap-filling null move can be when there is
// no preceding real segment to anchor it to; keeps early-queue numerics
// stable and matches the historical convention of a one-second cap.
const MaxNullMove = 1.0

// Move is one constant-acceleration trapezoid segment. Distance travelled at
// local time tau is (StartV + HalfAccel*tau)*tau; position is
// StartPos + AxesR*distance.
type Move struct {
	PrintTime float64
	MoveT     float64
	StartV    float64
	HalfAccel float64
	StartPos  Coord
	AxesR     Coord
}

// Distance returns the scalar distance travelled at local time tau.
func (m Move) Distance(tau float64) float64 {
	return (m.StartV + m.HalfAccel*tau) * tau
}

// CoordAt returns the toolhead position at local time tau.
func (m Move) CoordAt(tau float64) Coord {
	d := m.Distance(tau)
	return Coord{
		X: m.StartPos.X + m.AxesR.X*d,
		Y: m.StartPos.Y + m.AxesR.Y*d,
		Z: m.StartPos.Z + m.AxesR.Z*d,
	}
}

// IsNull reports whether m carries no kinematic motion (a gap-fill).
func (m Move) IsNull() bool {
	return m.StartV == 0 && m.HalfAccel == 0
}

// End returns the move's absolute end time.
func (m Move) End() float64 {
	return m.PrintTime + m.MoveT
}

// PullMove is the host-facing view of a queued or historical segment,
// exposing acceleration in its conventional (non-halved) form.
type PullMove struct {
	PrintTime float64
	MoveT     float64
	StartV    float64
	Accel     float64
	StartPos  Coord
	AxesR     Coord
}

func toPullMove(m Move) PullMove {
	return PullMove{
		PrintTime: m.PrintTime,
		MoveT:     m.MoveT,
		StartV:    m.StartV,
		Accel:     2 * m.HalfAccel,
		StartPos:  m.StartPos,
		AxesR:     m.AxesR,
	}
}

// ToPullMove converts m to its host-facing representation.
func (m Move) ToPullMove() PullMove {
	return toPullMove(m)
}
