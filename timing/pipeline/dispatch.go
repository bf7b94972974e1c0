package pipeline

import "github.com/sarchlab/tomasulo-sim/rs"

// eligibility snapshots, per class and slot index, whether a slot was
// Busy && Ready && !Executing as of the very start of the cycle, taken
// before stage 1 runs. Dispatch (stage 7) only ever acts on slots that
// were already eligible at that snapshot: an RS slot issued this same
// cycle, or one whose last Waiting tag was only forwarded by this same
// cycle's write-back, must wait until the following cycle to dispatch.
// The ordering guarantee in the concurrency model (write-back precedes
// dispatch in the stage list) describes the ceiling on what same-cycle
// visibility the stage order makes possible, not a floor that every
// forwarded operand must reach dispatch the instant it resolves; the
// snapshot below is what the driver actually realizes.
type eligibility [numClasses][]bool

func (p *Pipeline) snapshotDispatchEligible() eligibility {
	var out eligibility
	for class := range p.classes {
		cu := &p.classes[class]
		elig := make([]bool, len(cu.rs.Slots))
		for i := range cu.rs.Slots {
			s := &cu.rs.Slots[i]
			elig[i] = s.Busy() && s.Ready() && !s.Executing()
		}
		out[class] = elig
	}
	return out
}

// dispatch is stage 7: every RS slot eligible as of the start of the
// cycle, whose class still has a free FU unit, starts execution.
func (p *Pipeline) dispatch(elig eligibility) {
	for class := range p.classes {
		cu := &p.classes[class]
		for i := range cu.rs.Slots {
			if !elig[class][i] {
				continue
			}

			s := &cu.rs.Slots[i]
			// A branch flushed by this cycle's write-back may have released
			// a slot after the snapshot was taken.
			if !s.Busy() || s.Executing() {
				continue
			}
			unitIdx := cu.fu.FreeUnit()
			if unitIdx < 0 {
				continue
			}

			var a, b uint16
			if s.Vj.Ready() {
				a = s.Vj.Value
			}
			if s.Vk.Ready() {
				b = s.Vk.Value
			}
			imm := uint16(s.A)

			latencyTotal := p.latency.ClassLatency(rs.Class(class))
			addressPhase := p.latency.AddressPhase(s.Op)

			cu.fu.Units[unitIdx].Dispatch(i, s.Rob, s.Op, a, b, imm, latencyTotal, addressPhase)
			s.SetExecuting(true)

			instrID := p.rob.At(s.Rob).InstrID
			p.tracker.RecordExecuteStart(instrID, p.cycle)
			p.logger.V(1).Info("dispatch", "cycle", p.cycle, "instr_id", instrID, "rob", s.Rob)

			// The dispatch cycle itself counts as the unit's first latency
			// tick: stage 5 on a later cycle only ever sees the remaining
			// count, so without this immediate tick every unit would run
			// one cycle longer than its configured latency.
			if res, done := p.tickUnit(rs.Class(class), unitIdx); done {
				p.pendingWB = append(p.pendingWB, res)
			}
		}
	}
}
