// Package command encodes and decodes the wire form of the step compressor's
// command stream (queue_step, set_next_step_dir) using the Klipper-style VLQ
// codec, and registers their dictionary format strings the same way the
// firmware's command registry does.
package command

import (
	"fmt"

	"scherzo/protocol"
	"scherzo/stepcompress"
)

// Command IDs, assigned in registration order the way the firmware's
// CommandRegistry hands out sequential IDs.
const (
	IDQueueStep      uint16 = 0
	IDSetNextStepDir uint16 = 1
	IDResetStepClock uint16 = 2
	IDStepperGetPos  uint16 = 3
)

// Formats mirrors the dictionary strings the firmware advertises to the
// host for these commands, in the same "name field=%type ..." shape.
var Formats = map[uint16]string{
	IDQueueStep:      "queue_step oid=%c interval=%u count=%hu add=%hi",
	IDSetNextStepDir: "set_next_step_dir oid=%c dir=%c",
	IDResetStepClock: "reset_step_clock oid=%c clock=%u",
	IDStepperGetPos:  "stepper_get_position oid=%c",
}

// EncodeQueueStep writes a queue_step command body (oid, interval, count,
// add — the order cmdQueueStep expects) to out.
func EncodeQueueStep(out protocol.OutputBuffer, qs stepcompress.QueueStep) {
	protocol.EncodeVLQUint(out, qs.Oid)
	protocol.EncodeVLQUint(out, qs.Interval)
	protocol.EncodeVLQUint(out, uint32(qs.Count))
	protocol.EncodeVLQInt(out, int32(qs.Add))
}

// DecodeQueueStep reads a queue_step command body written by
// EncodeQueueStep, advancing data past the consumed bytes.
func DecodeQueueStep(data *[]byte) (stepcompress.QueueStep, error) {
	var qs stepcompress.QueueStep

	oid, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return qs, err
	}
	interval, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return qs, err
	}
	count, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return qs, err
	}
	add, err := protocol.DecodeVLQInt(data)
	if err != nil {
		return qs, err
	}

	qs.Oid = oid
	qs.Interval = interval
	qs.Count = uint16(count)
	qs.Add = int16(add)
	return qs, nil
}

// EncodeSetNextStepDir writes a set_next_step_dir command body (oid, dir).
func EncodeSetNextStepDir(out protocol.OutputBuffer, sd stepcompress.SetNextStepDir) {
	protocol.EncodeVLQUint(out, sd.Oid)
	dir := uint32(0)
	if sd.Dir {
		dir = 1
	}
	protocol.EncodeVLQUint(out, dir)
}

// DecodeSetNextStepDir reads a set_next_step_dir command body written by
// EncodeSetNextStepDir, advancing data past the consumed bytes.
func DecodeSetNextStepDir(data *[]byte) (stepcompress.SetNextStepDir, error) {
	var sd stepcompress.SetNextStepDir

	oid, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return sd, err
	}
	dir, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return sd, err
	}

	sd.Oid = oid
	sd.Dir = dir != 0
	return sd, nil
}

// Encode writes cmd's wire body to out, prefixed with its command ID, the
// way the firmware frames a dispatched command. It returns false if cmd is
// a command type this package doesn't know how to encode.
func Encode(out protocol.OutputBuffer, cmd stepcompress.Command) bool {
	switch c := cmd.(type) {
	case stepcompress.QueueStep:
		protocol.EncodeVLQUint(out, uint32(IDQueueStep))
		EncodeQueueStep(out, c)
		return true
	case stepcompress.SetNextStepDir:
		protocol.EncodeVLQUint(out, uint32(IDSetNextStepDir))
		EncodeSetNextStepDir(out, c)
		return true
	default:
		return false
	}
}

// Decode reads one ID-prefixed command from data, advancing it past the
// consumed bytes.
func Decode(data *[]byte) (stepcompress.Command, error) {
	id, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	switch uint16(id) {
	case IDQueueStep:
		return DecodeQueueStep(data)
	case IDSetNextStepDir:
		return DecodeSetNextStepDir(data)
	default:
		return nil, &UnknownCommandError{ID: uint16(id)}
	}
}

// UnknownCommandError reports a command ID this package has no decoder for.
type UnknownCommandError struct {
	ID uint16
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command: unknown command id %d", e.ID)
}
