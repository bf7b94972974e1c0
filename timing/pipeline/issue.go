package pipeline

import (
	"github.com/rs/xid"

	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
)

// issue is stage 2: fetch the next instruction, and if its RS class has a
// free slot and the ROB is not full, allocate both and rename operands.
// Either precondition failing is a structural stall: no state changes,
// retried next cycle.
func (p *Pipeline) issue() {
	if p.pc >= len(p.program.Instructions) {
		return
	}
	inst := p.program.Instructions[p.pc]

	class := rs.ClassOf(inst.Op)
	cu := &p.classes[class]

	rsIdx := cu.rs.FreeSlot()
	if rsIdx < 0 {
		return
	}
	if p.rob.Full() {
		return
	}

	dest, hasDest := inst.DestReg()
	robIdx := p.rob.Alloc(inst.InstrID, inst.Op, dest, hasDest, xid.New())

	vj, hasVj, vk, hasVk := p.resolveOperands(inst)

	target := 0
	if inst.Op == insts.OpBEQ || inst.Op == insts.OpCALL {
		target = p.program.Labels[inst.Label]
	}

	cu.rs.Slots[rsIdx].Alloc(inst.Op, robIdx, vj, hasVj, vk, hasVk, inst.Imm, p.pc, target)

	if hasDest {
		p.rat.Rename(dest, robIdx)
	}

	p.tracker.RecordIssue(inst.InstrID, inst.Op.String(), p.cycle)
	p.logger.V(1).Info("issue", "cycle", p.cycle, "instr_id", inst.InstrID, "op", inst.Op.String(), "rob", robIdx)

	p.pc++
}

// resolveOperands resolves an instruction's source operands per opcode,
// consulting the RAT and, for a renamed source, the producing ROB entry.
func (p *Pipeline) resolveOperands(inst *insts.Instruction) (vj rs.Operand, hasVj bool, vk rs.Operand, hasVk bool) {
	switch inst.Op {
	case insts.OpADD, insts.OpSUB, insts.OpNAND, insts.OpMUL:
		vj, hasVj = p.resolveReg(inst.RB), true
		vk, hasVk = p.resolveReg(inst.RC), true
	case insts.OpLOAD:
		vj, hasVj = p.resolveReg(inst.RB), true
	case insts.OpSTORE:
		vj, hasVj = p.resolveReg(inst.RA), true
		vk, hasVk = p.resolveReg(inst.RB), true
	case insts.OpBEQ:
		vj, hasVj = p.resolveReg(inst.RA), true
		vk, hasVk = p.resolveReg(inst.RB), true
	case insts.OpRET:
		vj, hasVj = p.resolveReg(1), true
	}
	return
}

// resolveReg consults the RAT for reg: a clean register reads the
// register file now; a renamed register whose producer has already
// written back yields that value directly; otherwise the operand is a
// Waiting tag resolved later by CDB forwarding.
//
// A producer that is Ready but carries a ValueCall (a RET reading R1
// whose producing CALL already completed before RET was issued) is
// resolved directly from ReturnAddr rather than left Waiting: no further
// broadcast for an already-retired-from-the-CDB producer will ever arrive
// to resolve it otherwise.
func (p *Pipeline) resolveReg(reg uint8) rs.Operand {
	entry := p.rat.Lookup(reg)
	if !entry.Renamed {
		return rs.Operand{Kind: rs.OperandReady, Value: p.regFile.ReadReg(reg)}
	}

	e := p.rob.At(entry.Rob)
	if e.Ready {
		switch e.Value.Kind {
		case rob.ValueInteger:
			return rs.Operand{Kind: rs.OperandReady, Value: e.Value.Integer}
		case rob.ValueCall:
			return rs.Operand{Kind: rs.OperandReady, Value: e.Value.ReturnAddr}
		}
	}
	return rs.Operand{Kind: rs.OperandWaiting, Rob: entry.Rob}
}
