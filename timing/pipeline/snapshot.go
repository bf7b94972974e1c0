package pipeline

import (
	"github.com/sarchlab/tomasulo-sim/cdb"
	"github.com/sarchlab/tomasulo-sim/emu"
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rat"
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
	"github.com/sarchlab/tomasulo-sim/tracker"
)

// RSStatus is one reservation station slot's externally visible state.
type RSStatus struct {
	Class     rs.Class
	Busy      bool
	Executing bool
	Op        insts.Op
	Rob       int
	VjReady   bool
	VjValue   uint16
	VjRob     int
	VkReady   bool
	VkValue   uint16
	VkRob     int
}

// FUStatus is one functional unit's externally visible state.
type FUStatus struct {
	Class rs.Class
	Busy  bool
}

// Snapshot is the complete externally observable machine state after a
// Tick, sufficient to render a trace line or the final timing table
// without reaching back into the pipeline's internals.
type Snapshot struct {
	Cycle    int
	PC       int
	Complete bool

	Registers [emu.NumRegs]uint16
	Memory    map[uint16]uint16

	RAT [rat.NumRegs]rat.Entry
	ROB []rob.Entry

	RS []RSStatus
	FU []FUStatus

	CDB       cdb.Broadcast
	CDBActive bool

	Stats Stats

	Timing []tracker.Row
}

// Snapshot captures the machine's current externally visible state.
func (p *Pipeline) Snapshot() Snapshot {
	var rsOut []RSStatus
	var fuOut []FUStatus
	for class := range p.classes {
		cu := &p.classes[class]
		for i := range cu.rs.Slots {
			s := &cu.rs.Slots[i]
			rsOut = append(rsOut, RSStatus{
				Class:     rs.Class(class),
				Busy:      s.Busy(),
				Executing: s.Executing(),
				Op:        s.Op,
				Rob:       s.Rob,
				VjReady:   s.Vj.Ready(),
				VjValue:   s.Vj.Value,
				VjRob:     s.Vj.Rob,
				VkReady:   s.Vk.Ready(),
				VkValue:   s.Vk.Value,
				VkRob:     s.Vk.Rob,
			})
		}
		for i := range cu.fu.Units {
			fuOut = append(fuOut, FUStatus{Class: rs.Class(class), Busy: cu.fu.Units[i].Busy()})
		}
	}

	return Snapshot{
		Cycle:     p.cycle,
		PC:        p.pc,
		Complete:  p.IsComplete(),
		Registers: p.regFile.Snapshot(),
		Memory:    p.memory.NonZero(),
		RAT:       p.rat.Snapshot(),
		ROB:       p.rob.Snapshot(),
		RS:        rsOut,
		FU:        fuOut,
		CDB:       p.cdb,
		CDBActive: p.cdbValid,
		Stats:     p.Stats(),
		Timing:    p.tracker.Rows(),
	}
}
