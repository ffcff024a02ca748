// Package core provides the architectural state shared across pipeline
// stages: the general-purpose register file, data/instruction memory, and
// the CSR file. None of it is pipelined — each is read combinationally by
// whichever stage needs it and written at that stage's commit phase, the
// same "read in ID, write in WB" / "access in MEM" split spec.md calls out.
package core

// RegFile is the 32 x 32-bit RV32I integer register file. Register x0 is
// hardwired to zero: writes to it are silently discarded and reads always
// return 0, regardless of what was last written.
type RegFile struct {
	x [32]uint32
}

// NewRegFile returns a register file with all registers, including x0,
// initialized to zero.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read returns the value of register idx (0-31). Reading x0 always yields
// 0.
func (r *RegFile) Read(idx uint32) uint32 {
	if idx == 0 {
		return 0
	}
	return r.x[idx&0x1f]
}

// Write sets register idx to value. Writes to x0 are no-ops, matching the
// hardwired-zero invariant; callers do not need to special-case rd==0
// themselves.
func (r *RegFile) Write(idx uint32, value uint32) {
	if idx == 0 {
		return
	}
	r.x[idx&0x1f] = value
}

// Reset clears every register to zero.
func (r *RegFile) Reset() {
	for i := range r.x {
		r.x[i] = 0
	}
}

// Snapshot returns a copy of all 32 registers, x0 included, for the
// external inspection API.
func (r *RegFile) Snapshot() [32]uint32 {
	return r.x
}
