package rat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/rat"
)

var _ = Describe("Table", func() {
	var t *rat.Table

	BeforeEach(func() {
		t = &rat.Table{}
	})

	It("starts with every register clean", func() {
		for reg := uint8(0); reg < rat.NumRegs; reg++ {
			Expect(t.Lookup(reg).Renamed).To(BeFalse())
		}
	})

	It("renames a register to a ROB index", func() {
		t.Rename(3, 5)
		e := t.Lookup(3)
		Expect(e.Renamed).To(BeTrue())
		Expect(e.Rob).To(Equal(5))
	})

	It("keeps R0 permanently clean even if renamed", func() {
		t.Rename(0, 2)
		Expect(t.Lookup(0).Renamed).To(BeFalse())
	})

	It("clears a rename that still matches at commit", func() {
		t.Rename(4, 7)
		t.ClearIfMatches(4, 7)
		Expect(t.Lookup(4).Renamed).To(BeFalse())
	})

	It("does not clear a rename superseded by a later instruction", func() {
		t.Rename(4, 7)
		t.Rename(4, 9)
		t.ClearIfMatches(4, 7)
		e := t.Lookup(4)
		Expect(e.Renamed).To(BeTrue())
		Expect(e.Rob).To(Equal(9))
	})

	It("snapshots all entries", func() {
		t.Rename(1, 2)
		snap := t.Snapshot()
		Expect(snap[1].Renamed).To(BeTrue())
		Expect(snap[1].Rob).To(Equal(2))
	})
})
