// Package rat implements the Register Alias Table: for each architectural
// register, a pointer to either the register file (clean) or the ROB entry
// that will produce its next value (renamed).
package rat

// Entry holds the rename state of a single architectural register.
type Entry struct {
	// Renamed is true if this register's value comes from an in-flight
	// ROB entry rather than the register file.
	Renamed bool

	// Rob is the producing ROB index, valid only when Renamed is true.
	Rob int
}

// NumRegs mirrors emu.NumRegs; duplicated here to avoid an import cycle
// since emu never needs to know about renaming.
const NumRegs = 8

// Table is the 8-entry Register Alias Table. R0 is permanently clean.
type Table struct {
	entries [NumRegs]Entry
}

// Lookup reports the rename state of reg. R0 always reports clean.
func (t *Table) Lookup(reg uint8) Entry {
	if reg == 0 {
		return Entry{}
	}
	return t.entries[reg]
}

// Rename points reg at the ROB entry rob. Renaming R0 is a no-op: its
// register-file value is immutable.
func (t *Table) Rename(reg uint8, rob int) {
	if reg == 0 {
		return
	}
	t.entries[reg] = Entry{Renamed: true, Rob: rob}
}

// ClearIfMatches clears reg's rename if it still points at rob. Used at
// commit and at flush, where a later rename of the same register must not
// be clobbered by an earlier instruction's retirement.
func (t *Table) ClearIfMatches(reg uint8, rob int) {
	if reg == 0 {
		return
	}
	e := t.entries[reg]
	if e.Renamed && e.Rob == rob {
		t.entries[reg] = Entry{}
	}
}

// Snapshot returns a copy of all eight entries, for debugging/tracing.
func (t *Table) Snapshot() [NumRegs]Entry {
	return t.entries
}
