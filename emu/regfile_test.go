package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/emu"
)

var _ = Describe("RegFile", func() {
	var f *emu.RegFile

	BeforeEach(func() {
		f = &emu.RegFile{}
	})

	It("reads R0 as 0 unconditionally", func() {
		Expect(f.ReadReg(0)).To(Equal(uint16(0)))
	})

	It("ignores writes to R0", func() {
		f.WriteReg(0, 42)
		Expect(f.ReadReg(0)).To(Equal(uint16(0)))
	})

	It("reads back a written register", func() {
		f.WriteReg(3, 1234)
		Expect(f.ReadReg(3)).To(Equal(uint16(1234)))
	})

	It("truncates writes to 16 bits via the uint16 parameter type", func() {
		f.WriteReg(1, 0xFFFF)
		Expect(f.ReadReg(1)).To(Equal(uint16(0xFFFF)))
	})

	It("snapshots all eight registers", func() {
		f.WriteReg(1, 10)
		f.WriteReg(7, 70)
		snap := f.Snapshot()
		Expect(snap[0]).To(Equal(uint16(0)))
		Expect(snap[1]).To(Equal(uint16(10)))
		Expect(snap[7]).To(Equal(uint16(70)))
	})
})
