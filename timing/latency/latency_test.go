package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rs"
	"github.com/sarchlab/tomasulo-sim/timing/latency"
)

var _ = Describe("Table", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	Describe("default latencies", func() {
		It("matches the fixed per-class latencies", func() {
			Expect(table.GetLatency(insts.OpADD)).To(Equal(uint64(2)))
			Expect(table.GetLatency(insts.OpSUB)).To(Equal(uint64(2)))
			Expect(table.GetLatency(insts.OpNAND)).To(Equal(uint64(1)))
			Expect(table.GetLatency(insts.OpMUL)).To(Equal(uint64(12)))
			Expect(table.GetLatency(insts.OpLOAD)).To(Equal(uint64(6)))
			Expect(table.GetLatency(insts.OpSTORE)).To(Equal(uint64(6)))
			Expect(table.GetLatency(insts.OpBEQ)).To(Equal(uint64(1)))
			Expect(table.GetLatency(insts.OpCALL)).To(Equal(uint64(1)))
			Expect(table.GetLatency(insts.OpRET)).To(Equal(uint64(1)))
		})

		It("splits LOAD into a 2-cycle address phase and 4-cycle memory phase", func() {
			Expect(table.AddressPhase(insts.OpLOAD)).To(Equal(uint64(2)))
			Expect(table.GetLatency(insts.OpLOAD) - table.AddressPhase(insts.OpLOAD)).To(Equal(uint64(4)))
		})
	})

	Describe("ClassLatency", func() {
		It("agrees with GetLatency for a representative opcode of each class", func() {
			Expect(table.ClassLatency(rs.ClassAddSub)).To(Equal(table.GetLatency(insts.OpADD)))
			Expect(table.ClassLatency(rs.ClassMUL)).To(Equal(table.GetLatency(insts.OpMUL)))
			Expect(table.ClassLatency(rs.ClassLoad)).To(Equal(table.GetLatency(insts.OpLOAD)))
		})
	})

	Describe("custom configuration", func() {
		It("honors a config loaded from JSON", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "latency.json")
			Expect(os.WriteFile(path, []byte(`{"mul_latency": 20}`), 0644)).To(Succeed())

			cfg, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.MULLatency).To(Equal(uint64(20)))
			// unset fields keep their default
			Expect(cfg.LoadLatency).To(Equal(uint64(6)))

			custom := latency.NewTableWithConfig(cfg)
			Expect(custom.GetLatency(insts.OpMUL)).To(Equal(uint64(20)))
		})

		It("honors a config loaded from YAML", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "latency.yaml")
			Expect(os.WriteFile(path, []byte("mul_latency: 20\nload_latency: 10\n"), 0644)).To(Succeed())

			cfg, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.MULLatency).To(Equal(uint64(20)))
			Expect(cfg.LoadLatency).To(Equal(uint64(10)))
		})

		It("round-trips through SaveConfig", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "out.json")
			cfg := latency.DefaultConfig()
			cfg.NANDLatency = 3
			Expect(cfg.SaveConfig(path)).To(Succeed())

			reloaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.NANDLatency).To(Equal(uint64(3)))
		})
	})

	Describe("Validate", func() {
		It("rejects a zero latency", func() {
			cfg := latency.DefaultConfig()
			cfg.MULLatency = 0
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("rejects an address phase that does not fit within the total latency", func() {
			cfg := latency.DefaultConfig()
			cfg.LoadAddressPhase = cfg.LoadLatency
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("accepts the defaults", func() {
			Expect(latency.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("Clone", func() {
		It("returns an independent copy", func() {
			cfg := latency.DefaultConfig()
			clone := cfg.Clone()
			clone.MULLatency = 999
			Expect(cfg.MULLatency).To(Equal(uint64(12)))
		})
	})
})
