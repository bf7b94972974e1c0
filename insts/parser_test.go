package insts_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/insts"
)

var _ = Describe("Parse", func() {
	It("assigns sequential instr IDs starting at 1", func() {
		prog, err := insts.Parse(strings.NewReader(`
			LOAD R1, 0(R0)
			ADD R2, R1, R1
		`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(2))
		Expect(prog.Instructions[0].InstrID).To(Equal(1))
		Expect(prog.Instructions[1].InstrID).To(Equal(2))
	})

	It("ignores comments and blank lines", func() {
		prog, err := insts.Parse(strings.NewReader(`
			# this is a comment

			ADD R1, R2, R3 # trailing comment
		`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(1))
	})

	It("is case-insensitive on mnemonics and registers", func() {
		prog, err := insts.Parse(strings.NewReader("add r1, r2, r3"))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0].Op).To(Equal(insts.OpADD))
	})

	It("binds labels to the index of the next instruction", func() {
		prog, err := insts.Parse(strings.NewReader(`
			LOAD R1, 0(R0)
			L:
			ADD R2, R1, R1
			CALL L
		`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Labels["L"]).To(Equal(1))
	})

	It("parses LOAD/STORE indexed operands", func() {
		prog, err := insts.Parse(strings.NewReader("STORE R3, 12(R4)"))
		Expect(err).NotTo(HaveOccurred())
		in := prog.Instructions[0]
		Expect(in.Op).To(Equal(insts.OpSTORE))
		Expect(in.RA).To(Equal(uint8(3)))
		Expect(in.RB).To(Equal(uint8(4)))
		Expect(in.Imm).To(Equal(int16(12)))
	})

	It("parses BEQ with a symbolic label", func() {
		prog, err := insts.Parse(strings.NewReader(`
			BEQ R1, R2, L
			L:
			RET
		`))
		Expect(err).NotTo(HaveOccurred())
		in := prog.Instructions[0]
		Expect(in.Op).To(Equal(insts.OpBEQ))
		Expect(in.Label).To(Equal("L"))
	})

	It("parses CALL and RET", func() {
		prog, err := insts.Parse(strings.NewReader(`
			CALL F
			F:
			RET
		`))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0].Op).To(Equal(insts.OpCALL))
		Expect(prog.Instructions[1].Op).To(Equal(insts.OpRET))
	})

	It("rejects an out-of-range register", func() {
		_, err := insts.Parse(strings.NewReader("ADD R9, R0, R0"))
		Expect(err).To(HaveOccurred())
		var pe *insts.ParseError
		Expect(err).To(BeAssignableToTypeOf(pe))
	})

	It("rejects an undefined label", func() {
		_, err := insts.Parse(strings.NewReader("CALL NOWHERE"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a duplicate label", func() {
		_, err := insts.Parse(strings.NewReader(`
			L:
			ADD R1, R0, R0
			L:
			ADD R2, R0, R0
		`))
		Expect(err).To(HaveOccurred())
		var pe *insts.ParseError
		Expect(err).To(BeAssignableToTypeOf(pe))
	})

	It("rejects an unknown mnemonic", func() {
		_, err := insts.Parse(strings.NewReader("FROB R1, R2, R3"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Instruction", func() {
	It("reports source registers per opcode", func() {
		add := &insts.Instruction{Op: insts.OpADD, RA: 1, RB: 2, RC: 3}
		Expect(add.ReadsReg(2)).To(BeTrue())
		Expect(add.ReadsReg(3)).To(BeTrue())
		Expect(add.ReadsReg(1)).To(BeFalse())

		ret := &insts.Instruction{Op: insts.OpRET}
		Expect(ret.ReadsReg(1)).To(BeTrue())
		Expect(ret.ReadsReg(2)).To(BeFalse())
	})

	It("reports the destination register per opcode", func() {
		add := &insts.Instruction{Op: insts.OpADD, RA: 5}
		dest, ok := add.DestReg()
		Expect(ok).To(BeTrue())
		Expect(dest).To(Equal(uint8(5)))

		call := &insts.Instruction{Op: insts.OpCALL}
		dest, ok = call.DestReg()
		Expect(ok).To(BeTrue())
		Expect(dest).To(Equal(uint8(1)))

		store := &insts.Instruction{Op: insts.OpSTORE}
		_, ok = store.DestReg()
		Expect(ok).To(BeFalse())
	})
})
