package stepcompress

import "fmt"

// InvalidSequenceError is returned when a compressed (interval, count, add)
// triple can never describe a valid step sequence (zero count, a
// non-advancing zero interval/add with more than one step, or an interval
// that doesn't fit the MCU's 32-bit clock field).
type InvalidSequenceError struct {
	Interval uint32
	Count    uint16
	Add      int16
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid sequence i=%d c=%d a=%d", e.Interval, e.Count, e.Add)
}

// PointOutOfRangeError is returned when re-verifying a compressed sequence
// finds a clock point outside the [min,max] error tolerance window it was
// supposed to satisfy.
type PointOutOfRangeError struct {
	Index    uint16
	Value    int64
	Min      int64
	Max      int64
	Interval uint32
	Count    uint16
	Add      int16
}

func (e *PointOutOfRangeError) Error() string {
	return fmt.Sprintf("point %d out of range: %d not in %d:%d for i=%d c=%d a=%d",
		e.Index, e.Value, e.Min, e.Max, e.Interval, e.Count, e.Add)
}

// IntervalOverflowError is returned when the running interval within a
// compressed sequence grows past what the MCU's clock field can hold.
type IntervalOverflowError struct {
	Index    uint16
	Interval uint32
	Count    uint16
	Add      int16
}

func (e *IntervalOverflowError) Error() string {
	return fmt.Sprintf("interval overflow at point %d for i=%d c=%d a=%d",
		e.Index, e.Interval, e.Count, e.Add)
}
