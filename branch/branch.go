// Package branch provides the pure function that evaluates BEQ, CALL,
// and RET outcomes. It holds no state: the pipeline driver calls it at
// write-back time with the operand values an RS slot already resolved.
package branch

import "github.com/sarchlab/tomasulo-sim/insts"

// Outcome is the result of evaluating a control-flow instruction.
type Outcome struct {
	// Taken is always true for CALL and RET; for BEQ it is a == b.
	Taken bool

	// Target is the resolved instruction index to redirect to, when
	// Taken. For BEQ/CALL this is the label's index in the program; for
	// RET it is the return address carried in R1's value.
	Target int

	// ReturnAddr is the instruction index CALL's implicit return-address
	// write stores into R1 (the instruction immediately after the CALL).
	ReturnAddr uint16
}

// Evaluate computes the outcome of a BEQ/CALL/RET instruction.
//
//   - BEQ: a, b are rA/rB's values; labelTarget is the label's resolved
//     program index.
//   - CALL: labelTarget is the callee's resolved program index; pc is the
//     CALL's own instruction index (so ReturnAddr = pc+1).
//   - RET: a is R1's value, interpreted directly as the target index.
func Evaluate(op insts.Op, a, b uint16, labelTarget int, pc int) Outcome {
	switch op {
	case insts.OpBEQ:
		return Outcome{Taken: a == b, Target: labelTarget}
	case insts.OpCALL:
		return Outcome{Taken: true, Target: labelTarget, ReturnAddr: uint16(pc + 1)}
	case insts.OpRET:
		return Outcome{Taken: true, Target: int(a)}
	default:
		return Outcome{}
	}
}
