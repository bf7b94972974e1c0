// Package loader reads an assembly source file from disk and hands it to
// the insts parser.
package loader

import (
	"fmt"
	"os"

	"github.com/sarchlab/tomasulo-sim/insts"
)

// Load reads path and parses it into a Program ready for issue.
func Load(path string) (*insts.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assembly file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := insts.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return prog, nil
}
