// Package emu provides the register file and memory primitives the
// Tomasulo core reads and writes. Both are trivial word arrays; all
// interesting behavior lives in the timing/pipeline package.
package emu

// NumRegs is the number of architectural registers.
const NumRegs = 8

// RegFile represents the 8x16-bit architectural register file. R0 always
// reads as 0 and ignores writes.
type RegFile struct {
	r [NumRegs]uint16
}

// ReadReg reads a register value. R0 always reads as 0.
func (f *RegFile) ReadReg(reg uint8) uint16 {
	if reg == 0 {
		return 0
	}
	return f.r[reg]
}

// WriteReg writes a value to a register. Writes to R0 are silently
// ignored.
func (f *RegFile) WriteReg(reg uint8, value uint16) {
	if reg == 0 {
		return
	}
	f.r[reg] = value
}

// Snapshot returns a copy of all eight registers, including R0 (always 0).
func (f *RegFile) Snapshot() [NumRegs]uint16 {
	return f.r
}
