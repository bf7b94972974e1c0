package cache

import (
	"github.com/sarchlab/tomasulo-sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches a word from the backing memory.
func (m *MemoryBacking) Read(addr uint16) uint16 {
	return m.memory.Read(addr)
}

// Write stores a word to the backing memory.
func (m *MemoryBacking) Write(addr uint16, value uint16) {
	m.memory.Write(addr, value)
}
