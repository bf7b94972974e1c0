package branch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/branch"
	"github.com/sarchlab/tomasulo-sim/insts"
)

var _ = Describe("Evaluate", func() {
	It("is not taken when BEQ's operands differ", func() {
		out := branch.Evaluate(insts.OpBEQ, 1, 2, 5, 10)
		Expect(out.Taken).To(BeFalse())
	})

	It("is taken with the label target when BEQ's operands match", func() {
		out := branch.Evaluate(insts.OpBEQ, 7, 7, 5, 10)
		Expect(out.Taken).To(BeTrue())
		Expect(out.Target).To(Equal(5))
	})

	It("CALL is always taken and records the next instruction as the return address", func() {
		out := branch.Evaluate(insts.OpCALL, 0, 0, 20, 9)
		Expect(out.Taken).To(BeTrue())
		Expect(out.Target).To(Equal(20))
		Expect(out.ReturnAddr).To(Equal(uint16(10)))
	})

	It("RET is always taken and targets R1's value directly", func() {
		out := branch.Evaluate(insts.OpRET, 42, 0, 0, 0)
		Expect(out.Taken).To(BeTrue())
		Expect(out.Target).To(Equal(42))
	})
})
