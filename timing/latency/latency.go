// Package latency provides per-opcode functional-unit timing lookups for
// the Tomasulo core, configurable via Config.
package latency

import (
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rs"
)

// Table provides instruction latency lookups backed by a Config.
type Table struct {
	config *Config
}

// NewTable creates a new latency table with the default latencies.
func NewTable() *Table {
	return &Table{config: DefaultConfig()}
}

// NewTableWithConfig creates a new latency table with custom latencies.
func NewTableWithConfig(config *Config) *Table {
	return &Table{config: config}
}

// GetLatency returns the total execution latency in cycles for op.
func (t *Table) GetLatency(op insts.Op) uint64 {
	switch op {
	case insts.OpADD, insts.OpSUB:
		return t.config.AddSubLatency
	case insts.OpNAND:
		return t.config.NANDLatency
	case insts.OpMUL:
		return t.config.MULLatency
	case insts.OpLOAD:
		return t.config.LoadLatency
	case insts.OpSTORE:
		return t.config.StoreLatency
	case insts.OpBEQ:
		return t.config.BEQLatency
	case insts.OpCALL, insts.OpRET:
		return t.config.CallRetLatency
	default:
		return 1
	}
}

// AddressPhase returns the address-computation portion of a LOAD or
// STORE's latency; the remainder is the memory phase (LOAD) or the
// deferred write (STORE).
func (t *Table) AddressPhase(op insts.Op) uint64 {
	switch op {
	case insts.OpLOAD:
		return t.config.LoadAddressPhase
	case insts.OpSTORE:
		return t.config.StoreAddressPhase
	default:
		return 0
	}
}

// Config returns the current latency configuration.
func (t *Table) Config() *Config {
	return t.config
}

// ClassLatency returns the latency for an entire RS/FU class, taking any
// representative opcode of that class (all opcodes of a class share one
// latency per the fixed pool table).
func (t *Table) ClassLatency(class rs.Class) uint64 {
	switch class {
	case rs.ClassLoad:
		return t.config.LoadLatency
	case rs.ClassStore:
		return t.config.StoreLatency
	case rs.ClassBEQ:
		return t.config.BEQLatency
	case rs.ClassCallRet:
		return t.config.CallRetLatency
	case rs.ClassAddSub:
		return t.config.AddSubLatency
	case rs.ClassNAND:
		return t.config.NANDLatency
	case rs.ClassMUL:
		return t.config.MULLatency
	default:
		return 1
	}
}
