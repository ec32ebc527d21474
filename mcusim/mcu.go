package mcusim

import "scherzo/stepcompress"

// MCU holds one VirtualStepper per object ID and dispatches commands to
// them, the way the firmware's CommandRegistry dispatches decoded wire
// commands to the stepper whose Oid matches.
type MCU struct {
	steppers map[uint32]*VirtualStepper
}

// New returns an MCU with no steppers registered yet; steppers are created
// lazily on first reference, same as GetStepper growing the registry as
// config_stepper commands arrive.
func New() *MCU {
	return &MCU{steppers: make(map[uint32]*VirtualStepper)}
}

// Stepper returns the virtual stepper for oid, creating it if this is the
// first command referencing it.
func (m *MCU) Stepper(oid uint32) *VirtualStepper {
	s, ok := m.steppers[oid]
	if !ok {
		s = NewVirtualStepper(oid)
		m.steppers[oid] = s
	}
	return s
}

// Push implements stepcompress.CommandSink, so a Compressor can drive an
// MCU directly as its sink.
func (m *MCU) Push(cmd stepcompress.Command) {
	switch c := cmd.(type) {
	case stepcompress.QueueStep:
		m.Stepper(c.Oid).queueStep(c.Count)
	case stepcompress.SetNextStepDir:
		m.Stepper(c.Oid).setDir(c.Dir)
	}
}
