package latency

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config holds the per-class functional-unit latencies in cycles.
type Config struct {
	// LoadLatency is the total LOAD latency: address phase + memory
	// phase. Default: 6 (2 address + 4 memory).
	LoadLatency uint64 `json:"load_latency" yaml:"load_latency"`

	// StoreLatency is the total STORE latency. Default: 6.
	StoreLatency uint64 `json:"store_latency" yaml:"store_latency"`

	// BEQLatency is the BEQ evaluation latency. Default: 1.
	BEQLatency uint64 `json:"beq_latency" yaml:"beq_latency"`

	// CallRetLatency is the CALL/RET evaluation latency. Default: 1.
	CallRetLatency uint64 `json:"call_ret_latency" yaml:"call_ret_latency"`

	// AddSubLatency is the ADD/SUB execution latency. Default: 2.
	AddSubLatency uint64 `json:"add_sub_latency" yaml:"add_sub_latency"`

	// NANDLatency is the NAND execution latency. Default: 1.
	NANDLatency uint64 `json:"nand_latency" yaml:"nand_latency"`

	// MULLatency is the MUL execution latency. Default: 12.
	MULLatency uint64 `json:"mul_latency" yaml:"mul_latency"`

	// LoadAddressPhase is how many of LoadLatency's cycles are the
	// address-computation phase; the remainder is the memory phase.
	// Default: 2.
	LoadAddressPhase uint64 `json:"load_address_phase" yaml:"load_address_phase"`

	// StoreAddressPhase is how many of StoreLatency's cycles are the
	// address-computation phase, mirroring LoadAddressPhase. Default: 2.
	StoreAddressPhase uint64 `json:"store_address_phase" yaml:"store_address_phase"`
}

// DefaultConfig returns the machine's fixed default latencies.
func DefaultConfig() *Config {
	return &Config{
		LoadLatency:       6,
		StoreLatency:      6,
		BEQLatency:        1,
		CallRetLatency:    1,
		AddSubLatency:     2,
		NANDLatency:       1,
		MULLatency:        12,
		LoadAddressPhase:  2,
		StoreAddressPhase: 2,
	}
}

// LoadConfig loads a Config from a JSON or YAML file, chosen by the file
// extension (".yaml"/".yml" for YAML, anything else for JSON). Fields
// absent from the file keep their DefaultConfig value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read latency config file: %w", err)
	}

	config := DefaultConfig()
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML latency config: %w", err)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON latency config: %w", err)
	}

	return config, nil
}

func isYAMLPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// SaveConfig writes a Config to path as JSON.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize latency config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write latency config file: %w", err)
	}
	return nil
}

// Validate checks every latency is positive and the phase splits fit
// within their total latencies.
func (c *Config) Validate() error {
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.BEQLatency == 0 {
		return fmt.Errorf("beq_latency must be > 0")
	}
	if c.CallRetLatency == 0 {
		return fmt.Errorf("call_ret_latency must be > 0")
	}
	if c.AddSubLatency == 0 {
		return fmt.Errorf("add_sub_latency must be > 0")
	}
	if c.NANDLatency == 0 {
		return fmt.Errorf("nand_latency must be > 0")
	}
	if c.MULLatency == 0 {
		return fmt.Errorf("mul_latency must be > 0")
	}
	if c.LoadAddressPhase == 0 || c.LoadAddressPhase >= c.LoadLatency {
		return fmt.Errorf("load_address_phase must be > 0 and < load_latency")
	}
	if c.StoreAddressPhase == 0 || c.StoreAddressPhase >= c.StoreLatency {
		return fmt.Errorf("store_address_phase must be > 0 and < store_latency")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
