package tracker_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/tracker"
)

var _ = Describe("Tracker", func() {
	var tr *tracker.Tracker

	BeforeEach(func() {
		tr = tracker.New()
	})

	It("records all five stage cycles for an instruction", func() {
		tr.RecordIssue(1, "ADD", 2)
		tr.RecordExecuteStart(1, 3)
		tr.RecordExecuteFinish(1, 4)
		tr.RecordWrite(1, 5)
		tr.RecordCommit(1, 6)

		rows := tr.Rows()
		Expect(rows).To(HaveLen(1))
		Expect(rows[0]).To(Equal(tracker.Row{
			InstrID: 1, Mnemonic: "ADD",
			Issue: 2, ExecuteStart: 3, ExecuteFinish: 4, Write: 5, Commit: 6,
		}))
	})

	It("sorts rows ascending by instr_id", func() {
		tr.RecordIssue(3, "SUB", 1)
		tr.RecordIssue(1, "ADD", 1)
		tr.RecordIssue(2, "NAND", 1)

		rows := tr.Rows()
		Expect(rows[0].InstrID).To(Equal(1))
		Expect(rows[1].InstrID).To(Equal(2))
		Expect(rows[2].InstrID).To(Equal(3))
	})

	It("overwrites a prior dynamic instance's row on re-issue", func() {
		tr.RecordIssue(4, "ADD", 1)
		tr.RecordExecuteStart(4, 2)
		tr.RecordExecuteFinish(4, 3)
		tr.RecordWrite(4, 3)
		tr.RecordCommit(4, 4)

		// loop comes back around and re-issues instr_id 4
		tr.RecordIssue(4, "ADD", 10)

		rows := tr.Rows()
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Issue).To(Equal(10))
		Expect(rows[0].Commit).To(Equal(0))
	})

	It("marks a flushed instruction while preserving its last cycles", func() {
		tr.RecordIssue(7, "STORE", 1)
		tr.RecordExecuteStart(7, 2)
		tr.MarkFlushed(7)

		rows := tr.Rows()
		Expect(rows[0].Flushed).To(BeTrue())
		Expect(rows[0].ExecuteStart).To(Equal(2))
	})

	Describe("FormatCycle", func() {
		It("renders an unset stage as a dash", func() {
			Expect(tracker.FormatCycle(0)).To(Equal("-"))
		})

		It("renders a recorded cycle as its decimal value", func() {
			Expect(tracker.FormatCycle(42)).To(Equal("42"))
		})
	})
})
