package stepcompress

// Command is a wire command the step compressor emits: either a compressed
// run of steps or a direction change. It mirrors the MCU's queue_step and
// set_next_step_dir commands.
type Command interface {
	isCommand()
}

// QueueStep is a compressed arithmetic-progression run of steps: count
// steps starting at first_clock, each interval ticks apart, interval
// increasing by add each step.
type QueueStep struct {
	Oid        uint32
	FirstClock uint64
	LastClock  uint64
	Interval   uint32
	Count      uint16
	Add        int16
	ReqClock   uint64
	MinClock   uint64
}

func (QueueStep) isCommand() {}

// SetNextStepDir changes the direction the next queued steps will move.
type SetNextStepDir struct {
	Oid      uint32
	Dir      bool
	ReqClock uint64
}

func (SetNextStepDir) isCommand() {}

// CommandSink receives commands as the compressor emits them.
type CommandSink interface {
	Push(cmd Command)
}

// RecordingSink is a CommandSink that just accumulates every command it
// receives, useful for tests and for the in-process MCU simulator.
type RecordingSink struct {
	Commands []Command
}

// Push appends cmd to Commands.
func (s *RecordingSink) Push(cmd Command) {
	s.Commands = append(s.Commands, cmd)
}

// PullHistoryStep is the host-facing view of one retained compressed run.
type PullHistoryStep struct {
	FirstClock    uint64
	LastClock     uint64
	StartPosition int64
	StepCount     int32
	Interval      uint32
	Add            int16
}

type historyEntry struct {
	firstClock    uint64
	lastClock     uint64
	startPosition int64
	stepCount     int32
	interval      uint32
	add           int16
}

type stepMove struct {
	interval uint32
	count    uint16
	add      int16
}

type points struct {
	minp, maxp int64
}
