// Package stepcompress implements the step compressor: it takes a stream of
// (direction, step time) pairs from the iterative step solver and packs
// runs of steps into MCU queue_step commands — an arithmetic progression of
// clock ticks (first_clock, interval, count, add) chosen by bisection to
// reach as far as possible within a bounded clock error per step. Ported
// from Klipper's stepcompress.c by way of the scherzo-core Rust
// implementation.
package stepcompress

import "math"

const (
	queueStartSize = 1024
	clockDiffMax   = uint64(3) << 28
	quadraticDev   = int64(11) // (6 + 4*sqrt(2)) ~= 11.65, 11 is what upstream uses.
	sdsFilterTime  = 0.000750
)

func idivUp(n, d int64) int64 {
	if n >= 0 {
		return (n + d - 1) / d
	}
	return n / d
}

func idivDown(n, d int64) int64 {
	if n >= 0 {
		return n / d
	}
	return (n - d + 1) / d
}

// Compressor compresses one stepper's step stream into queue_step/
// set_next_step_dir commands, pushed to Sink as they're produced.
type Compressor[S CommandSink] struct {
	oid              uint32
	maxError         uint32
	mcuTimeOffset    float64
	mcuFreq          float64
	lastStepPrintTime float64
	lastStepClock    uint64

	sdir         int32 // -1 = unset, 0 = negative, 1 = positive
	invertSdir   bool
	nextStepClock *uint64
	nextStepDir  int32

	queue    []uint64
	queuePos int

	lastPosition int64
	history      []historyEntry // history[0] is most recent

	sink S
}

// New returns a compressor for stepper oid, tolerating up to maxError
// clock ticks of deviation per compressed run, pushing commands to sink.
func New[S CommandSink](oid uint32, maxError uint32, sink S) *Compressor[S] {
	return &Compressor[S]{
		oid:              oid,
		maxError:         maxError,
		lastStepPrintTime: -0.5,
		sdir:             -1,
		queue:            make([]uint64, 0, queueStartSize),
		sink:             sink,
	}
}

// SetTime establishes the MCU clock's time offset and frequency used to
// convert print-time step times into clock ticks.
func (c *Compressor[S]) SetTime(timeOffset, mcuFreq float64) {
	c.mcuTimeOffset = timeOffset
	c.mcuFreq = mcuFreq
	c.calcLastStepPrintTime()
}

// SetInvertSdir flips which logical direction maps to a high DIR pin.
func (c *Compressor[S]) SetInvertSdir(invert bool) {
	if c.invertSdir != invert {
		c.invertSdir = invert
		if c.sdir >= 0 {
			c.sdir ^= 1
		}
	}
}

// GetLastDir returns the last commanded step direction; false if no step
// has been committed yet.
func (c *Compressor[S]) GetLastDir() bool {
	if c.sdir < 0 {
		return false
	}
	return c.sdir != 0
}

// SetLastPosition flushes any pending steps and records last_position as
// the stepper's current absolute position at the given clock.
func (c *Compressor[S]) SetLastPosition(clock uint64, lastPosition int64) error {
	if err := c.Flush(^uint64(0)); err != nil {
		return err
	}
	c.lastPosition = lastPosition
	c.history = append([]historyEntry{{
		firstClock:    clock,
		lastClock:     clock,
		startPosition: lastPosition,
	}}, c.history...)
	return nil
}

// Reset flushes any pending steps and rebases the compressor on a fresh
// last_step_clock, forgetting the last commanded direction.
func (c *Compressor[S]) Reset(lastStepClock uint64) error {
	if err := c.Flush(^uint64(0)); err != nil {
		return err
	}
	c.lastStepClock = lastStepClock
	c.sdir = -1
	c.calcLastStepPrintTime()
	return nil
}

// Append records a candidate step in direction sdir at step_time within the
// move that started at print_time. The small-dead-slot filter rolls back a
// pending step if a direction reversal arrives too soon after it.
func (c *Compressor[S]) Append(sdir int32, printTime, stepTime float64) error {
	offset := printTime - c.lastStepPrintTime
	relSC := (stepTime + offset) * c.mcuFreq
	stepClock := c.lastStepClock + uint64(int64(relSC))

	if c.nextStepClock != nil {
		prevClock := *c.nextStepClock
		if sdir != c.nextStepDir {
			diff := int64(stepClock) - int64(prevClock)
			if float64(diff) < sdsFilterTime*c.mcuFreq {
				c.nextStepClock = nil
				c.nextStepDir = sdir
				return nil
			}
		}
		if err := c.queueAppend(); err != nil {
			return err
		}
	}

	c.nextStepClock = &stepClock
	c.nextStepDir = sdir
	return nil
}

// Commit pushes any pending step into the compression queue immediately,
// without waiting for a direction change or flush to force it.
func (c *Compressor[S]) Commit() error {
	if c.nextStepClock != nil {
		return c.queueAppend()
	}
	return nil
}

// Flush compresses and emits queued steps up to moveClock.
func (c *Compressor[S]) Flush(moveClock uint64) error {
	if c.nextStepClock != nil && moveClock >= *c.nextStepClock {
		if err := c.queueAppend(); err != nil {
			return err
		}
	}
	return c.queueFlush(moveClock)
}

// FindPastPosition returns the stepper's absolute position at the given
// clock, by walking history and (for runs with non-zero add) solving the
// quadratic step-count-vs-time relation.
func (c *Compressor[S]) FindPastPosition(clock uint64) int64 {
	lastPosition := c.lastPosition
	for _, entry := range c.history {
		if clock < entry.firstClock {
			lastPosition = entry.startPosition
			continue
		}
		if clock >= entry.lastClock {
			return entry.startPosition + int64(entry.stepCount)
		}

		interval := int64(entry.interval)
		add := int64(entry.add)
		ticks := (int64(clock) - int64(entry.firstClock)) + interval
		var offset int64
		if add == 0 {
			offset = int64(float64(ticks) / float64(interval))
		} else {
			a := 0.5 * float64(add)
			b := float64(interval) - 0.5*float64(add)
			cc := -float64(ticks)
			offset = int64((math.Sqrt(b*b-4.0*a*cc) - b) / (2.0 * a))
		}

		if entry.stepCount < 0 {
			return entry.startPosition - offset
		}
		return entry.startPosition + offset
	}
	return lastPosition
}

// ExtractOld returns up to max retained compressed runs overlapping
// [startClock, endClock).
func (c *Compressor[S]) ExtractOld(max int, startClock, endClock uint64) []PullHistoryStep {
	var res []PullHistoryStep
	for _, entry := range c.history {
		if startClock >= entry.lastClock || len(res) >= max {
			break
		}
		if endClock <= entry.firstClock {
			continue
		}
		res = append(res, PullHistoryStep{
			FirstClock:    entry.firstClock,
			LastClock:     entry.lastClock,
			StartPosition: entry.startPosition,
			StepCount:     entry.stepCount,
			Interval:      entry.interval,
			Add:           entry.add,
		})
	}
	return res
}

// ExpireHistory drops retained history entries that end at or before
// endClock.
func (c *Compressor[S]) ExpireHistory(endClock uint64) {
	for len(c.history) > 0 {
		back := c.history[len(c.history)-1]
		if back.lastClock > endClock {
			break
		}
		c.history = c.history[:len(c.history)-1]
	}
}

// LastPosition returns the stepper's absolute position as of the last
// flush.
func (c *Compressor[S]) LastPosition() int64 { return c.lastPosition }

// LastStepClock returns the clock of the last emitted step.
func (c *Compressor[S]) LastStepClock() uint64 { return c.lastStepClock }

// Sink returns the underlying command sink.
func (c *Compressor[S]) Sink() S { return c.sink }

// ClockForTime converts a print-time (seconds) into an absolute MCU clock
// tick, the forward direction of calcLastStepPrintTime's conversion. Hosts
// use this to turn a scheduler flush time into the clock argument Flush
// and ExpireHistory expect.
func (c *Compressor[S]) ClockForTime(t float64) uint64 {
	return uint64((t-c.mcuTimeOffset)*c.mcuFreq + 0.5)
}

// --- internals ---

func (c *Compressor[S]) calcLastStepPrintTime() {
	lsc := float64(c.lastStepClock)
	c.lastStepPrintTime = c.mcuTimeOffset + (lsc-0.5)/c.mcuFreq
}

func (c *Compressor[S]) minmaxPoint(idx int) points {
	lsc := int64(c.lastStepClock)
	point := int64(c.queue[idx]) - lsc
	var prevpoint int64
	if idx > c.queuePos {
		prevpoint = int64(c.queue[idx-1]) - lsc
	}
	maxError := (point - prevpoint) / 2
	if maxError > int64(c.maxError) {
		maxError = int64(c.maxError)
	}
	return points{minp: point - maxError, maxp: point}
}

func (c *Compressor[S]) compressBisectAdd() stepMove {
	queueLen := len(c.queue)
	qlast := c.queuePos + 65535
	if qlast > queueLen {
		qlast = queueLen
	}
	point := c.minmaxPoint(c.queuePos)
	outerMininterval := point.minp
	outerMaxinterval := point.maxp
	var add int64
	minadd := int64(-0x8000)
	maxadd := int64(0x7fff)
	var bestinterval int64
	bestadd := int64(1)
	bestcount := int64(1)
	bestreach := int64(math.MinInt64)
	var zerointerval, zerocount int64

	for {
		var nextpoint points
		nextmininterval := outerMininterval
		nextmaxinterval := outerMaxinterval
		interval := nextmaxinterval
		nextcount := int64(1)

		for {
			nextcount++
			if c.queuePos+int(nextcount) > qlast {
				count := nextcount - 1
				return stepMove{interval: uint32(interval), count: uint16(count), add: int16(add)}
			}
			nextpoint = c.minmaxPoint(c.queuePos + int(nextcount) - 1)
			nextaddfactor := nextcount * (nextcount - 1) / 2
			cc := add * nextaddfactor
			if nextmininterval*nextcount < nextpoint.minp-cc {
				nextmininterval = idivUp(nextpoint.minp-cc, nextcount)
			}
			if nextmaxinterval*nextcount > nextpoint.maxp-cc {
				nextmaxinterval = idivDown(nextpoint.maxp-cc, nextcount)
			}
			if nextmininterval > nextmaxinterval {
				break
			}
			interval = nextmaxinterval
		}

		count := nextcount - 1
		addfactor := count * (count - 1) / 2
		reach := add*addfactor + interval*count
		if reach > bestreach || (reach == bestreach && interval > bestinterval) {
			bestinterval = interval
			bestcount = count
			bestadd = add
			bestreach = reach
			if add == 0 {
				zerointerval = interval
				zerocount = count
			}
			if count > 0x200 {
				break
			}
		}

		nextaddfactor := nextcount * (nextcount - 1) / 2
		nextreach := add*nextaddfactor + interval*nextcount
		if nextreach < nextpoint.minp {
			minadd = add + 1
			outerMaxinterval = nextmaxinterval
		} else {
			maxadd = add - 1
			outerMininterval = nextmininterval
		}

		if count > 1 {
			errdelta := int64(c.maxError) * quadraticDev / (count * count)
			if minadd < add-errdelta {
				minadd = add - errdelta
			}
			if maxadd > add+errdelta {
				maxadd = add + errdelta
			}
		}

		cc := outerMaxinterval * nextcount
		if minadd*nextaddfactor < nextpoint.minp-cc {
			minadd = idivUp(nextpoint.minp-cc, nextaddfactor)
		}
		cc2 := outerMininterval * nextcount
		if maxadd*nextaddfactor > nextpoint.maxp-cc2 {
			maxadd = idivDown(nextpoint.maxp-cc2, nextaddfactor)
		}

		if minadd > maxadd {
			break
		}
		add = maxadd - (maxadd-minadd)/4
	}

	if zerocount+zerocount/16 >= bestcount {
		return stepMove{interval: uint32(zerointerval), count: uint16(zerocount), add: 0}
	}
	return stepMove{interval: uint32(bestinterval), count: uint16(bestcount), add: int16(bestadd)}
}

func (c *Compressor[S]) checkLine(mv stepMove) error {
	if mv.count == 0 || (mv.interval == 0 && mv.add == 0 && mv.count > 1) || mv.interval >= 0x80000000 {
		return &InvalidSequenceError{Interval: mv.interval, Count: mv.count, Add: mv.add}
	}

	interval := int64(mv.interval)
	var p int64
	for i := uint16(0); i < mv.count; i++ {
		point := c.minmaxPoint(c.queuePos + int(i))
		p += interval
		if p < point.minp || p > point.maxp {
			return &PointOutOfRangeError{
				Index: i + 1, Value: p, Min: point.minp, Max: point.maxp,
				Interval: mv.interval, Count: mv.count, Add: mv.add,
			}
		}
		if interval >= 0x80000000 {
			return &IntervalOverflowError{Index: i + 1, Interval: mv.interval, Count: mv.count, Add: mv.add}
		}
		interval += int64(mv.add)
	}
	return nil
}

func (c *Compressor[S]) addMove(firstClock uint64, mv stepMove) {
	addfactor := uint64(mv.count) * uint64(mv.count-1) / 2
	ticks := int64(mv.add)*int64(addfactor) + int64(mv.interval)*int64(mv.count-1)
	lastClock := firstClock + uint64(ticks)

	reqClock := c.lastStepClock
	minClock := reqClock
	if mv.count == 1 && firstClock >= c.lastStepClock+clockDiffMax {
		reqClock = firstClock
	}

	c.sink.Push(QueueStep{
		Oid: c.oid, FirstClock: firstClock, LastClock: lastClock,
		Interval: mv.interval, Count: mv.count, Add: mv.add,
		ReqClock: reqClock, MinClock: minClock,
	})
	c.lastStepClock = lastClock

	var stepCount int32
	if c.sdir != 0 {
		stepCount = int32(mv.count)
	} else {
		stepCount = -int32(mv.count)
	}
	entry := historyEntry{
		firstClock: firstClock, lastClock: lastClock,
		startPosition: c.lastPosition, stepCount: stepCount,
		interval: mv.interval, add: mv.add,
	}
	c.lastPosition += int64(stepCount)
	c.history = append([]historyEntry{entry}, c.history...)
}

func (c *Compressor[S]) queueFlush(moveClock uint64) error {
	if c.queuePos >= len(c.queue) {
		return nil
	}

	for c.lastStepClock < moveClock {
		mv := c.compressBisectAdd()
		if err := c.checkLine(mv); err != nil {
			return err
		}
		firstClock := c.lastStepClock + uint64(mv.interval)
		c.addMove(firstClock, mv)

		advance := int(mv.count)
		if c.queuePos+advance >= len(c.queue) {
			c.queue = c.queue[:0]
			c.queuePos = 0
			break
		}
		c.queuePos += advance
	}
	c.calcLastStepPrintTime()
	if c.queuePos > 0 && c.queuePos*2 > len(c.queue) {
		c.queue = append(c.queue[:0], c.queue[c.queuePos:]...)
		c.queuePos = 0
	}
	return nil
}

func (c *Compressor[S]) setNextStepDir(sdir int32) error {
	if c.sdir == sdir {
		return nil
	}
	if err := c.queueFlush(^uint64(0)); err != nil {
		return err
	}
	c.sdir = sdir
	invert := int32(0)
	if c.invertSdir {
		invert = 1
	}
	dir := (sdir ^ invert) != 0
	c.sink.Push(SetNextStepDir{Oid: c.oid, Dir: dir, ReqClock: c.lastStepClock})
	return nil
}

func (c *Compressor[S]) queueAppendFar() error {
	stepClock := *c.nextStepClock
	c.nextStepClock = nil
	lowClock := uint64(0)
	if stepClock > clockDiffMax {
		lowClock = stepClock - clockDiffMax
	}
	if err := c.queueFlush(lowClock + 1); err != nil {
		return err
	}
	if stepClock >= c.lastStepClock+clockDiffMax {
		mv := stepMove{interval: uint32(stepClock - c.lastStepClock), count: 1, add: 0}
		c.addMove(stepClock, mv)
		c.calcLastStepPrintTime()
		return nil
	}
	c.queue = append(c.queue, stepClock)
	return nil
}

func (c *Compressor[S]) queueAppendExtend() error {
	inUse := len(c.queue) - c.queuePos
	if inUse > 65535+2000 {
		flush := c.queue[len(c.queue)-65535] - c.lastStepClock
		if err := c.queueFlush(c.lastStepClock + flush); err != nil {
			return err
		}
	}

	if c.queuePos > 0 {
		c.queue = append(c.queue[:0], c.queue[c.queuePos:]...)
		c.queuePos = 0
	}
	return nil
}

func (c *Compressor[S]) queueAppend() error {
	if c.nextStepDir != c.sdir {
		if err := c.setNextStepDir(c.nextStepDir); err != nil {
			return err
		}
	}
	stepClock := *c.nextStepClock
	c.nextStepClock = nil
	if stepClock >= c.lastStepClock+clockDiffMax {
		c.nextStepClock = &stepClock
		return c.queueAppendFar()
	}
	if len(c.queue) == cap(c.queue) {
		if err := c.queueAppendExtend(); err != nil {
			return err
		}
	}
	c.queue = append(c.queue, stepClock)
	return nil
}
