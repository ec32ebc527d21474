package machine

import "fmt"

// MalformedPlanError describes a move that violates the append-time
// invariants (non-monotonic print_time, negative move_t). The trapezoidal
// move queue does not check these invariants and never returns this error:
// tmq.Queue.AddMove and Append insert every move as given.
type MalformedPlanError struct {
	Reason    string
	PrintTime float64
	MoveT     float64
}

func (e *MalformedPlanError) Error() string {
	return fmt.Sprintf("malformed plan: %s (print_time=%g move_t=%g)", e.Reason, e.PrintTime, e.MoveT)
}
