package pipeline

import (
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rob"
)

// snapshotCommitEligible records, before stage 1 runs, the contiguous run
// of ROB entries from the head that were already Ready as of the start of
// the cycle. Commit (stage 8) only ever retires entries from that
// snapshot: an entry marked ready by this same cycle's write-back is not
// yet committable, matching the same start-of-cycle visibility rule
// dispatch uses. The chain stops at the first non-ready entry, so a
// younger entry that completed early never commits ahead of program order.
func (p *Pipeline) snapshotCommitEligible() map[int]bool {
	out := make(map[int]bool)
	for i, n := 0, p.rob.Count(); i < n; i++ {
		idx := (p.rob.Head() + i) % rob.Capacity
		if !p.rob.At(idx).Ready {
			break
		}
		out[idx] = true
	}
	return out
}

// commit is stage 8: retire entries from the ROB head in program order,
// possibly several per cycle, for as long as the head was ready at the
// pre-cycle snapshot. One commit chain per cycle.
func (p *Pipeline) commit(readyAtStart map[int]bool) {
	for {
		if p.rob.Empty() {
			return
		}
		head := p.rob.Head()
		if !readyAtStart[head] {
			return
		}

		entry := p.rob.CommitHead()
		p.applyCommitEffect(entry)

		p.tracker.RecordCommit(entry.InstrID, p.cycle)
		p.logger.V(1).Info("commit", "cycle", p.cycle, "instr_id", entry.InstrID, "rob", head)
		p.committed++

		delete(readyAtStart, head)
	}
}

// applyCommitEffect performs the architectural write, if any, that
// retiring entry makes permanent. ADD/SUB/NAND/MUL/LOAD write their
// destination register; CALL writes its return address to R1; STORE,
// BEQ, and RET have no architectural register effect of their own (a
// STORE already wrote memory at write-back; BEQ/RET only retarget pc,
// already applied by stage 1 of this or an earlier cycle).
func (p *Pipeline) applyCommitEffect(entry rob.Entry) {
	switch entry.Op {
	case insts.OpADD, insts.OpSUB, insts.OpNAND, insts.OpMUL, insts.OpLOAD:
		p.regFile.WriteReg(entry.Dest, entry.Value.Integer)
	case insts.OpCALL:
		p.regFile.WriteReg(1, entry.Value.ReturnAddr)
	}
}
