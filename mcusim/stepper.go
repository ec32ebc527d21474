// Package mcusim is an in-process virtual firmware: it applies a step
// compressor's queue_step/set_next_step_dir command stream to simulated
// steppers the same way the MCU's stepper_commands.go handlers would, minus
// any real hardware timer or GPIO. It exists so the command stream can be
// exercised end-to-end in tests without an attached board.
package mcusim

// VirtualStepper tracks one stepper's simulated position, mirroring the
// bookkeeping core.Stepper's stepperEventHandler does on every step pulse.
type VirtualStepper struct {
	Oid      uint32
	position int64
	forward  bool
}

// NewVirtualStepper returns a stepper starting at position zero, direction
// forward.
func NewVirtualStepper(oid uint32) *VirtualStepper {
	return &VirtualStepper{Oid: oid, forward: true}
}

// Position returns the stepper's current simulated position in steps.
func (s *VirtualStepper) Position() int64 { return s.position }

// setDir applies a set_next_step_dir command. dir true is the positive
// (forward) direction, matching Compressor.setNextStepDir's sdir != 0 test.
func (s *VirtualStepper) setDir(dir bool) {
	s.forward = dir
}

// queueStep applies a queue_step command's count, advancing position by
// +count if moving forward or -count if reversed.
func (s *VirtualStepper) queueStep(count uint16) {
	if s.forward {
		s.position += int64(count)
	} else {
		s.position -= int64(count)
	}
}
