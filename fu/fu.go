// Package fu implements the Functional Unit pool: one in-flight
// instruction per unit, counting down a fixed (or cache-enriched)
// latency before handing a finished result to write-back.
package fu

import (
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
	"github.com/sarchlab/tomasulo-sim/timing/latency"
)

// Result is a finished computation ready for the write-back queue.
type Result struct {
	RSIndex int // index of the slot within its class pool
	Rob     int
	Op      insts.Op
	Value   rob.Value
}

// phase identifies which part of a LOAD/STORE's latency the unit is in.
type phase uint8

const (
	phaseNone phase = iota
	phaseAddress
	phaseMemory
)

// Unit is one Functional Unit: holds at most one in-flight instruction.
type Unit struct {
	busy bool

	rsIndex  int
	robIndex int
	op       insts.Op

	remaining uint64
	ph        phase

	// latched values computed at the address phase, consumed once the
	// memory phase (or the single phase, for non-memory ops) finishes.
	a, b, imm uint16
	addr      uint16
}

// Busy reports whether the unit holds an in-flight instruction.
func (u *Unit) Busy() bool { return u.busy }

// Dispatch begins executing an instruction on this (idle) unit. a/b are
// the resolved operand values (Vj/Vk); imm is the RS's captured
// immediate. latencyCycles is the class's total latency from Table;
// addressPhase is non-zero only for LOAD/STORE.
func (u *Unit) Dispatch(rsIndex, robIndex int, op insts.Op, a, b, imm uint16, latencyCycles, addressPhase uint64) {
	u.busy = true
	u.rsIndex = rsIndex
	u.robIndex = robIndex
	u.op = op
	u.a, u.b, u.imm = a, b, imm

	if addressPhase > 0 {
		u.ph = phaseAddress
		u.remaining = addressPhase
	} else {
		u.ph = phaseNone
		u.remaining = latencyCycles
	}
}

// Tick advances the unit by one cycle. memoryPhaseLatency is invoked only
// when an address phase just finished this cycle (LOAD/STORE), to decide
// how many cycles the memory phase takes; it receives the just-resolved
// address so a cache-backed implementation can model hit/miss latency.
// Returns a Result when the unit's full latency has elapsed this cycle.
func (u *Unit) Tick(memoryPhaseLatency func(addr uint16, isWrite bool) uint64) (Result, bool) {
	if !u.busy {
		return Result{}, false
	}

	u.remaining--
	if u.remaining > 0 {
		return Result{}, false
	}

	if u.ph == phaseAddress {
		switch u.op {
		case insts.OpLOAD:
			u.addr = u.a + uint16(u.imm)
		case insts.OpSTORE:
			u.addr = u.b + uint16(u.imm)
		}
		u.ph = phaseMemory
		u.remaining = memoryPhaseLatency(u.addr, u.op == insts.OpSTORE)
		return Result{}, false
	}

	res := u.finish()
	u.busy = false
	return res, true
}

func (u *Unit) finish() Result {
	base := Result{RSIndex: u.rsIndex, Rob: u.robIndex, Op: u.op}

	switch u.op {
	case insts.OpADD:
		base.Value = rob.Value{Kind: rob.ValueInteger, Integer: u.a + u.b}
	case insts.OpSUB:
		base.Value = rob.Value{Kind: rob.ValueInteger, Integer: u.a - u.b}
	case insts.OpNAND:
		base.Value = rob.Value{Kind: rob.ValueInteger, Integer: ^(u.a & u.b)}
	case insts.OpMUL:
		product := uint32(u.a) * uint32(u.b)
		base.Value = rob.Value{Kind: rob.ValueInteger, Integer: uint16(product)}
	case insts.OpLOAD:
		// Memory read value is latched by the caller (Execution Manager
		// owns the emu.Memory reference); Unit only tracks timing and
		// the resolved address.
		base.Value = rob.Value{Kind: rob.ValueInteger, Integer: u.addr}
	case insts.OpSTORE:
		base.Value = rob.Value{Kind: rob.ValueStore, Addr: u.addr, Store: u.a}
	case insts.OpBEQ:
		base.Value = rob.Value{Kind: rob.ValueNone}
	case insts.OpCALL:
		base.Value = rob.Value{Kind: rob.ValueCall}
	case insts.OpRET:
		base.Value = rob.Value{Kind: rob.ValueNone}
	}
	return base
}

// ResolvedAddress returns the address latched during the address phase,
// valid after Tick reports the memory phase has started. Used by the
// Execution Manager to perform the actual LOAD read, since Unit itself
// does not hold a memory reference.
func (u *Unit) ResolvedAddress() uint16 { return u.addr }

// Flush drops this unit's in-flight work if its RS index is in rsSet.
func (u *Unit) Flush(rsSet map[int]bool) {
	if u.busy && rsSet[u.rsIndex] {
		*u = Unit{}
	}
}

// Pool is a fixed-size collection of Units for one RS class.
type Pool struct {
	Class rs.Class
	Units []Unit

	// cache, when non-nil, supplies a variable memory-phase latency for
	// LOAD/STORE instead of the fixed table figure. Off by default.
	cache MemoryTimer
}

// MemoryTimer is implemented by timing/cache's enrichment wrapper; kept
// as a small interface here so fu never imports the cache/Akita stack.
type MemoryTimer interface {
	AccessLatency(addr uint16, isWrite bool) uint64
}

// NewPool allocates n units for class.
func NewPool(class rs.Class, n int) *Pool {
	return &Pool{Class: class, Units: make([]Unit, n)}
}

// WithCache wires an optional memory-hierarchy timer into the pool. Only
// meaningful for the LOAD/STORE pools.
func (p *Pool) WithCache(c MemoryTimer) *Pool {
	p.cache = c
	return p
}

// FreeUnit returns the index of an idle unit, or -1 if all are busy.
func (p *Pool) FreeUnit() int {
	for i := range p.Units {
		if !p.Units[i].Busy() {
			return i
		}
	}
	return -1
}

// Tick advances unit idx by one cycle, resolving the memory-phase
// latency from the fixed table or, if WithCache was set, from the cache.
func (p *Pool) Tick(idx int, table *latency.Table, op insts.Op) (Result, bool) {
	return p.Units[idx].Tick(func(addr uint16, isWrite bool) uint64 {
		if p.cache != nil {
			return p.cache.AccessLatency(addr, isWrite)
		}
		return table.GetLatency(op) - table.AddressPhase(op)
	})
}
