// Package pipeline implements the Tomasulo control engine. Reservation
// Stations, Reorder Buffer, Register Alias Table, Functional Units, and
// Common Data Bus are each their own package; the Issue Unit, write-back,
// and speculation/flush logic live here, and Pipeline is the driver that
// orders their interaction into the fixed eight-stage cycle.
package pipeline

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/sarchlab/tomasulo-sim/cdb"
	"github.com/sarchlab/tomasulo-sim/emu"
	"github.com/sarchlab/tomasulo-sim/fu"
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rat"
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
	"github.com/sarchlab/tomasulo-sim/timing/latency"
	"github.com/sarchlab/tomasulo-sim/tracker"
)

// ErrWatchdogExceeded is returned by Run when max_cycles elapses without
// the program reaching completion.
var ErrWatchdogExceeded = errors.New("tomasulo-sim: watchdog cycle limit exceeded before completion")

// redirect is the driver-owned pending branch redirect: a program index
// (the label's index for BEQ/CALL, R1's value for RET) to apply at the
// start of the next cycle.
type redirect struct {
	target    int
	dist      int
	branchROB int
}

// Pipeline drives the Tomasulo core over a fixed program against a shared
// register file and memory image.
type Pipeline struct {
	regFile *emu.RegFile
	memory  *emu.Memory
	program *insts.Program

	rat     *rat.Table
	rob     *rob.Buffer
	classes [numClasses]classUnit
	latency *latency.Table
	tracker *tracker.Tracker

	logger logr.Logger

	pc int

	pendingRedirect *redirect
	pendingWB       []fu.Result

	cdb      cdb.Broadcast
	cdbValid bool

	cycle     int
	committed int
	flushes   int
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithLatencyTable overrides the default latency table.
func WithLatencyTable(t *latency.Table) Option {
	return func(p *Pipeline) { p.latency = t }
}

// WithLogger attaches a structured logger; one leveled record is emitted
// per stage transition (issue, dispatch, write-back, flush, commit).
// Default is logr.Discard(), so normal runs stay silent.
func WithLogger(l logr.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithLoadCache enriches the LOAD functional unit with a variable
// memory-phase latency instead of the fixed table figure.
func WithLoadCache(c fu.MemoryTimer) Option {
	return func(p *Pipeline) { p.classes[rs.ClassLoad].fu.WithCache(c) }
}

// WithStoreCache enriches the STORE functional unit the same way.
func WithStoreCache(c fu.MemoryTimer) Option {
	return func(p *Pipeline) { p.classes[rs.ClassStore].fu.WithCache(c) }
}

// NewPipeline creates a Pipeline over program, ready to run from
// instruction 0 against the given architectural state.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, program *insts.Program, opts ...Option) *Pipeline {
	p := &Pipeline{
		regFile: regFile,
		memory:  memory,
		program: program,
		rat:     &rat.Table{},
		rob:     &rob.Buffer{},
		classes: newClasses(),
		latency: latency.NewTable(),
		tracker: tracker.New(),
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats holds summary counters over the run so far.
type Stats struct {
	Cycles    int
	Committed int
	Flushes   int
}

// Stats returns the pipeline's running counters.
func (p *Pipeline) Stats() Stats {
	return Stats{Cycles: p.cycle, Committed: p.committed, Flushes: p.flushes}
}

// Cycle returns the current cycle number (0 before the first Tick).
func (p *Pipeline) Cycle() int { return p.cycle }

// Tick advances the core by exactly one cycle, in the fixed eight-stage
// order, and returns the resulting snapshot.
func (p *Pipeline) Tick() Snapshot {
	p.cycle++

	dispatchEligible := p.snapshotDispatchEligible()
	commitEligible := p.snapshotCommitEligible()

	p.applyRedirect() // stage 1

	p.issue() // stage 2

	p.cdb = cdb.Broadcast{}
	p.cdbValid = false // stage 3

	consumed := p.attemptBroadcast() // stage 4

	finishes := p.tickFUs() // stage 5
	p.pendingWB = append(p.pendingWB, finishes...)

	if !consumed && len(finishes) > 0 {
		p.attemptBroadcast() // stage 6
	}

	p.dispatch(dispatchEligible) // stage 7

	p.commit(commitEligible) // stage 8

	return p.Snapshot()
}

// IsComplete reports whether the core has nothing left in flight and
// nothing left to issue.
func (p *Pipeline) IsComplete() bool {
	if !p.rob.Empty() {
		return false
	}
	for class := range p.classes {
		cu := &p.classes[class]
		for i := range cu.rs.Slots {
			if cu.rs.Slots[i].Busy() {
				return false
			}
		}
		for i := range cu.fu.Units {
			if cu.fu.Units[i].Busy() {
				return false
			}
		}
	}
	return p.pc >= len(p.program.Instructions) && p.pendingRedirect == nil
}

// Run repeats Tick until the core completes or maxCycles elapses,
// returning ErrWatchdogExceeded in the latter case.
func (p *Pipeline) Run(maxCycles int) (Snapshot, error) {
	if p.IsComplete() {
		return p.Snapshot(), nil
	}
	var snap Snapshot
	for c := 0; c < maxCycles; c++ {
		snap = p.Tick()
		if p.IsComplete() {
			return snap, nil
		}
	}
	if p.IsComplete() {
		return snap, nil
	}
	return snap, ErrWatchdogExceeded
}
