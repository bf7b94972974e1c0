// Package rob implements the Reorder Buffer: a bounded circular queue of
// in-flight instructions in program order. The head is the oldest
// in-flight instruction and the only one eligible to commit; the tail is
// where new instructions are allocated at Issue.
package rob

import (
	"github.com/rs/xid"

	"github.com/sarchlab/tomasulo-sim/insts"
)

// Capacity is the fixed ROB size.
const Capacity = 8

// ValueKind discriminates the payload a ROB entry's Value carries.
type ValueKind uint8

const (
	// ValueNone means readiness alone signals completion (STORE, BEQ, RET).
	ValueNone ValueKind = iota
	// ValueInteger is a 16-bit arithmetic or LOAD result.
	ValueInteger
	// ValueStore carries the address and word written by a STORE.
	ValueStore
	// ValueCall carries CALL's return address and branch target.
	ValueCall
)

// Value is the tagged-union result payload of a ROB entry.
type Value struct {
	Kind ValueKind

	// Integer is the result for ValueInteger.
	Integer uint16

	// Addr and Store hold the memory address and word for ValueStore.
	Addr  uint16
	Store uint16

	// ReturnAddr and Target hold CALL's return address and branch target
	// for ValueCall.
	ReturnAddr uint16
	Target     uint16
}

// Entry is one in-flight instruction tracked by the ROB.
type Entry struct {
	// InstrID is the static instruction id this entry came from (may
	// repeat across loop iterations; DynamicID disambiguates instances).
	InstrID int

	// DynamicID uniquely identifies this physical allocation, so a
	// re-issued loop instance with the same InstrID can be told apart
	// from its predecessors. Pure observability; does not affect
	// committed timing semantics.
	DynamicID xid.ID

	Op      insts.Op
	Dest    uint8
	HasDest bool

	Ready bool
	Value Value
}

// Buffer is the 8-slot circular Reorder Buffer.
type Buffer struct {
	entries [Capacity]Entry
	valid   [Capacity]bool

	head  int
	tail  int
	count int
}

// Full reports whether the buffer has no free slot.
func (b *Buffer) Full() bool {
	return b.count == Capacity
}

// Empty reports whether the buffer holds no in-flight instruction.
func (b *Buffer) Empty() bool {
	return b.count == 0
}

// Count returns the number of in-flight entries.
func (b *Buffer) Count() int {
	return b.count
}

// Head returns the index of the oldest in-flight entry. Only valid when
// !Empty().
func (b *Buffer) Head() int {
	return b.head
}

// Alloc reserves the tail slot for a new instruction and returns its ROB
// index. Caller must check !Full() first.
func (b *Buffer) Alloc(instrID int, op insts.Op, dest uint8, hasDest bool, dynamicID xid.ID) int {
	idx := b.tail
	b.entries[idx] = Entry{
		InstrID:   instrID,
		DynamicID: dynamicID,
		Op:        op,
		Dest:      dest,
		HasDest:   hasDest,
	}
	b.valid[idx] = true
	b.tail = (b.tail + 1) % Capacity
	b.count++
	return idx
}

// At returns a copy of the entry at idx. The caller is responsible for
// only reading live entries (see Distance).
func (b *Buffer) At(idx int) Entry {
	return b.entries[idx]
}

// Live reports whether idx refers to a currently allocated entry.
func (b *Buffer) Live(idx int) bool {
	return b.valid[idx]
}

// MarkReady records a write-back result for the entry at idx.
func (b *Buffer) MarkReady(idx int, value Value) {
	b.entries[idx].Ready = true
	b.entries[idx].Value = value
}

// Distance returns how many slots ahead of head idx sits, i.e. its
// program-order rank among in-flight entries (0 = head, the oldest).
// Used to arbitrate CDB access and branch-redirect precedence by circular
// distance rather than raw index comparison.
func (b *Buffer) Distance(idx int) int {
	return ((idx - b.head) + Capacity) % Capacity
}

// CommitHead pops the head entry, which must be Ready, and advances head.
// Returns the popped entry.
func (b *Buffer) CommitHead() Entry {
	idx := b.head
	e := b.entries[idx]
	b.valid[idx] = false
	b.entries[idx] = Entry{}
	b.head = (b.head + 1) % Capacity
	b.count--
	return e
}

// Discarded is one entry dropped by FlushFrom, paired with the ROB index
// it occupied so the caller can clear RAT/RS/FU references to it.
type Discarded struct {
	Idx   int
	Entry Entry
}

// FlushFrom discards every entry from idx (inclusive) through the current
// tail, shrinking the tail back to idx. Used when a branch misprediction
// invalidates speculatively issued instructions. Returns the discarded
// entries, oldest-discarded first.
func (b *Buffer) FlushFrom(idx int) []Discarded {
	if !b.valid[idx] {
		return nil
	}
	var discarded []Discarded
	for cur := idx; cur != b.tail; cur = (cur + 1) % Capacity {
		discarded = append(discarded, Discarded{Idx: cur, Entry: b.entries[cur]})
		b.valid[cur] = false
		b.entries[cur] = Entry{}
		b.count--
	}
	b.tail = idx
	return discarded
}

// Snapshot returns a copy of every live entry, oldest first, for
// debugging/tracing.
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, 0, b.count)
	for i, n := 0, b.count; i < n; i++ {
		idx := (b.head + i) % Capacity
		out = append(out, b.entries[idx])
	}
	return out
}
