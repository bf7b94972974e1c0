package pipeline

import (
	"github.com/sarchlab/tomasulo-sim/rob"
	"github.com/sarchlab/tomasulo-sim/rs"
)

// requestRedirect records a pending branch redirect. The core predicts
// not-taken, so any taken BEQ, any CALL, and any RET is a misprediction
// discovered at write-back time. If two branches request redirects
// before either is applied, the older-by-ROB-order one wins.
func (p *Pipeline) requestRedirect(branchROB, target int) {
	dist := p.rob.Distance(branchROB)
	if p.pendingRedirect != nil && p.pendingRedirect.dist <= dist {
		return
	}
	p.pendingRedirect = &redirect{target: target, dist: dist, branchROB: branchROB}
}

// applyRedirect is stage 1: consume any pending redirect from the prior
// cycle and retarget the issue pointer before this cycle's Issue runs.
// The flush itself already happened immediately at the branch's
// write-back (§4.7 steps 1-2 run synchronously with the broadcast); only
// the pc retarget (step 4) is deferred to this stage.
func (p *Pipeline) applyRedirect() {
	r := p.pendingRedirect
	if r == nil {
		return
	}
	p.pendingRedirect = nil

	if r.target < 0 || r.target > len(p.program.Instructions) {
		p.logger.Info("invalid redirect, clamping to end of program", "target", r.target)
		p.pc = len(p.program.Instructions)
		return
	}

	p.pc = r.target
}

// flushFrom discards every ROB entry after branchROB (the branch itself
// survives and commits normally), and clears every RAT/RS/FU reference to
// a discarded entry.
func (p *Pipeline) flushFrom(branchROB int) {
	flushIdx := (branchROB + 1) % rob.Capacity
	discarded := p.rob.FlushFrom(flushIdx)
	if len(discarded) == 0 {
		return
	}
	p.flushes++

	discardedROB := make(map[int]bool, len(discarded))
	for _, d := range discarded {
		discardedROB[d.Idx] = true
		if d.Entry.HasDest {
			p.rat.ClearIfMatches(d.Entry.Dest, d.Idx)
		}
		p.tracker.MarkFlushed(d.Entry.InstrID)
		p.logger.V(1).Info("flush", "cycle", p.cycle, "instr_id", d.Entry.InstrID, "rob", d.Idx)
	}

	for class := range p.classes {
		cu := &p.classes[class]
		rsSet := make(map[int]bool)
		for i := range cu.rs.Slots {
			s := &cu.rs.Slots[i]
			if !s.Busy() {
				continue
			}
			if discardedROB[s.Rob] || waitsOnAny(s, discardedROB) {
				rsSet[i] = true
			}
		}
		for i := range rsSet {
			cu.rs.Slots[i].Release()
		}
		if len(rsSet) > 0 {
			for i := range cu.fu.Units {
				cu.fu.Units[i].Flush(rsSet)
			}
		}
	}

	kept := p.pendingWB[:0]
	for _, r := range p.pendingWB {
		if !discardedROB[r.Rob] {
			kept = append(kept, r)
		}
	}
	p.pendingWB = kept
}

func waitsOnAny(s *rs.Slot, robSet map[int]bool) bool {
	for k := range robSet {
		if s.WaitsOn(k) {
			return true
		}
	}
	return false
}
