// Package core provides a thin facade over the Tomasulo pipeline driver,
// bundling a register file, memory image, and program into a single
// runnable unit. It wraps timing/pipeline the way a caller typically
// wants to use it, without exposing every driver-internal type.
package core

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/tomasulo-sim/emu"
	"github.com/sarchlab/tomasulo-sim/fu"
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/timing/latency"
	"github.com/sarchlab/tomasulo-sim/timing/pipeline"
)

// Core bundles a Pipeline with the architectural state it operates over.
type Core struct {
	Pipeline *pipeline.Pipeline

	regFile *emu.RegFile
	memory  *emu.Memory
}

// Option configures a Core at construction time. It is a thin rename of
// pipeline.Option, so callers never need to import timing/pipeline
// directly just to configure one.
type Option = pipeline.Option

// WithLatencyTable overrides the default latency table.
func WithLatencyTable(t *latency.Table) Option { return pipeline.WithLatencyTable(t) }

// WithLogger attaches a structured logger to the pipeline.
func WithLogger(l logr.Logger) Option { return pipeline.WithLogger(l) }

// WithLoadCache enriches the LOAD functional unit with a variable memory
// timer instead of the fixed table figure.
func WithLoadCache(c fu.MemoryTimer) Option { return pipeline.WithLoadCache(c) }

// WithStoreCache enriches the STORE functional unit the same way.
func WithStoreCache(c fu.MemoryTimer) Option { return pipeline.WithStoreCache(c) }

// New creates a Core ready to run program from instruction 0 against a
// fresh register file and memory image.
func New(program *insts.Program, opts ...Option) *Core {
	return NewWithMemory(&emu.RegFile{}, emu.NewMemory(), program, opts...)
}

// NewWithMemory is New but against a caller-supplied register file and
// memory image. Callers that need to hand a cache's BackingStore the
// same memory the core will actually read and write (-cache in
// cmd/tomasim) build the emu.Memory themselves and pass it here instead
// of letting New create one it would never expose until after the
// cache was already wired to a different instance.
func NewWithMemory(regFile *emu.RegFile, memory *emu.Memory, program *insts.Program, opts ...Option) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, memory, program, opts...),
		regFile:  regFile,
		memory:   memory,
	}
}

// RegFile returns the core's architectural register file.
func (c *Core) RegFile() *emu.RegFile { return c.regFile }

// Memory returns the core's architectural memory image.
func (c *Core) Memory() *emu.Memory { return c.memory }

// Tick advances the core by one cycle and returns the resulting snapshot.
func (c *Core) Tick() pipeline.Snapshot {
	return c.Pipeline.Tick()
}

// IsComplete reports whether the core has nothing left in flight or to
// issue.
func (c *Core) IsComplete() bool {
	return c.Pipeline.IsComplete()
}

// Run ticks the core until completion or until maxCycles elapses,
// returning pipeline.ErrWatchdogExceeded in the latter case.
func (c *Core) Run(maxCycles int) (pipeline.Snapshot, error) {
	return c.Pipeline.Run(maxCycles)
}

// Stats returns the core's running counters.
func (c *Core) Stats() pipeline.Stats {
	return c.Pipeline.Stats()
}
