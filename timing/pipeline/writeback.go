package pipeline

import (
	"github.com/sarchlab/tomasulo-sim/branch"
	"github.com/sarchlab/tomasulo-sim/cdb"
	"github.com/sarchlab/tomasulo-sim/fu"
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
)

// tickUnit advances one functional unit by a cycle and, for a LOAD that
// just finished, patches in the actual memory word: fu.Unit only tracks
// timing and the resolved address, since it holds no memory reference.
func (p *Pipeline) tickUnit(class rs.Class, unitIdx int) (fu.Result, bool) {
	cu := &p.classes[class]
	res, done := cu.fu.Tick(unitIdx, p.latency, representativeOp(class))
	if !done {
		return res, false
	}
	if res.Op == insts.OpLOAD {
		addr := cu.fu.Units[unitIdx].ResolvedAddress()
		res.Value = rob.Value{Kind: rob.ValueInteger, Integer: p.memory.Read(addr)}
	}
	instrID := p.rob.At(res.Rob).InstrID
	p.tracker.RecordExecuteFinish(instrID, p.cycle)
	return res, true
}

// tickFUs is stage 5: every busy unit counts down one cycle; units
// reaching zero latch a finished result.
func (p *Pipeline) tickFUs() []fu.Result {
	var out []fu.Result
	for class := range p.classes {
		cu := &p.classes[class]
		for i := range cu.fu.Units {
			if !cu.fu.Units[i].Busy() {
				continue
			}
			if res, done := p.tickUnit(rs.Class(class), i); done {
				out = append(out, res)
			}
		}
	}
	return out
}

// attemptBroadcast is one write-back pass (stage 4 or stage 6): arbitrate
// among queued finished results and, if any exist, broadcast the winner.
// Reports whether it consumed an entry.
func (p *Pipeline) attemptBroadcast() bool {
	if p.cdbValid {
		return false
	}
	idx, ok := cdb.Arbitrate(p.pendingWB, p.rob.Distance)
	if !ok {
		return false
	}

	res := p.pendingWB[idx]
	p.pendingWB = append(p.pendingWB[:idx], p.pendingWB[idx+1:]...)
	p.applyWriteback(res)
	return true
}

// applyWriteback performs the per-opcode write-back effects of §4.6:
// updating the ROB, forwarding to waiting RS slots, notifying the branch
// evaluator, performing a STORE's memory write, and releasing the
// producing RS slot.
func (p *Pipeline) applyWriteback(res fu.Result) {
	class := rs.ClassOf(res.Op)
	cu := &p.classes[class]
	slot := cu.rs.Slots[res.RSIndex]

	instrID := p.rob.At(res.Rob).InstrID

	switch res.Op {
	case insts.OpADD, insts.OpSUB, insts.OpNAND, insts.OpMUL, insts.OpLOAD:
		p.rob.MarkReady(res.Rob, res.Value)
		p.forwardInteger(res.Rob, res.Value.Integer)
		if e := p.rob.At(res.Rob); e.HasDest {
			p.rat.ClearIfMatches(e.Dest, res.Rob)
		}

	case insts.OpSTORE:
		p.memory.Write(res.Value.Addr, res.Value.Store)
		p.rob.MarkReady(res.Rob, rob.Value{Kind: rob.ValueNone})

	case insts.OpBEQ:
		outcome := branch.Evaluate(insts.OpBEQ, slot.Vj.Value, slot.Vk.Value, slot.Target, slot.PC)
		p.rob.MarkReady(res.Rob, rob.Value{Kind: rob.ValueNone})
		if outcome.Taken {
			// §4.7: a misprediction flushes everything younger than the
			// branch immediately, here at write-back; only the pc retarget
			// itself waits for next cycle's stage 1.
			p.flushFrom(res.Rob)
			p.requestRedirect(res.Rob, outcome.Target)
		}

	case insts.OpCALL:
		outcome := branch.Evaluate(insts.OpCALL, 0, 0, slot.Target, slot.PC)
		value := rob.Value{Kind: rob.ValueCall, ReturnAddr: outcome.ReturnAddr, Target: uint16(outcome.Target)}
		p.rob.MarkReady(res.Rob, value)
		p.forwardReturnAddr(res.Rob, outcome.ReturnAddr)
		if e := p.rob.At(res.Rob); e.HasDest {
			p.rat.ClearIfMatches(e.Dest, res.Rob)
		}
		p.flushFrom(res.Rob)
		p.requestRedirect(res.Rob, outcome.Target)

	case insts.OpRET:
		outcome := branch.Evaluate(insts.OpRET, slot.Vj.Value, 0, 0, slot.PC)
		p.rob.MarkReady(res.Rob, rob.Value{Kind: rob.ValueNone})
		p.flushFrom(res.Rob)
		p.requestRedirect(res.Rob, outcome.Target)
	}

	cu.rs.Slots[res.RSIndex].Release()

	p.tracker.RecordWrite(instrID, p.cycle)
	p.logger.V(1).Info("write-back", "cycle", p.cycle, "instr_id", instrID, "rob", res.Rob)

	p.cdb = cdb.Broadcast{Rob: res.Rob, Value: p.rob.At(res.Rob).Value, Op: res}
	p.cdbValid = true
}

// forwardInteger implements the non-composite half of tag forwarding:
// every busy RS slot waiting on rob gets its tag resolved to value.
func (p *Pipeline) forwardInteger(robIdx int, value uint16) {
	for class := range p.classes {
		cu := &p.classes[class]
		for i := range cu.rs.Slots {
			cu.rs.Slots[i].SourceUpdate(robIdx, value)
		}
	}
}

// forwardReturnAddr implements CALL's composite forwarding: only RET
// operands waiting on rob receive the return address.
func (p *Pipeline) forwardReturnAddr(robIdx int, value uint16) {
	cu := &p.classes[rs.ClassCallRet]
	for i := range cu.rs.Slots {
		s := &cu.rs.Slots[i]
		if s.Busy() && s.Op == insts.OpRET {
			s.SourceUpdate(robIdx, value)
		}
	}
}
