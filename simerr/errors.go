// Package simerr defines the typed error kinds the simulator can raise, per
// the error-handling design in SPEC_FULL.md §7: CombinationalLoop,
// IllegalInstruction, MisalignedAccess, OutOfBoundsMemory, InvalidBinary,
// and CSRFault. Every error here implements the common Error interface so a
// caller can dispatch on Kind() without type-switching on every concrete
// struct, while still being able to errors.As() for the field detail (the
// faulting address, the unknown CSR, ...).
package simerr

import "fmt"

// Kind identifies which of the documented error categories an Error belongs
// to.
type Kind int

// The error kinds raised by this simulator.
const (
	KindCombinationalLoop Kind = iota
	KindIllegalInstruction
	KindMisalignedAccess
	KindOutOfBoundsMemory
	KindInvalidBinary
	KindCSRFault
)

func (k Kind) String() string {
	switch k {
	case KindCombinationalLoop:
		return "CombinationalLoop"
	case KindIllegalInstruction:
		return "IllegalInstruction"
	case KindMisalignedAccess:
		return "MisalignedAccess"
	case KindOutOfBoundsMemory:
		return "OutOfBoundsMemory"
	case KindInvalidBinary:
		return "InvalidBinary"
	case KindCSRFault:
		return "CSRFault"
	default:
		return "Unknown"
	}
}

// Error is implemented by every error type in this package. Cycle reports
// which committed cycle count the error surfaced at; errors raised by a
// stage's Process() are constructed without it (the stage has no kernel
// handle) and Stamp fills it in once the error reaches Pipeline.Step.
type Error interface {
	error
	Kind() Kind
	Cycle() uint64
}

// CombinationalLoopError is raised when a cycle's settle pass exceeds its
// bounded iteration count without reaching a fixed point. It indicates a
// wiring bug: some cycle in the module graph doesn't pass through a Reg
// boundary.
type CombinationalLoopError struct {
	Iterations  int
	ModuleCount int
	Cyc         uint64
}

func (e *CombinationalLoopError) Error() string {
	return fmt.Sprintf("combinational loop: settle pass did not converge after %d iterations (%d modules)",
		e.Iterations, e.ModuleCount)
}

// Kind implements Error.
func (e *CombinationalLoopError) Kind() Kind { return KindCombinationalLoop }

// Cycle implements Error.
func (e *CombinationalLoopError) Cycle() uint64 { return e.Cyc }

// IllegalInstructionError describes an unknown opcode/funct3/funct7
// combination, or an addressed CSR that is not implemented. The pipeline
// does not return it: an illegal instruction traps through the exception
// unit to mtvec, whatever mtvec holds.
type IllegalInstructionError struct {
	PC   uint32
	Word uint32
	Cyc  uint64
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction 0x%08x at pc=0x%08x", e.Word, e.PC)
}

// Kind implements Error.
func (e *IllegalInstructionError) Kind() Kind { return KindIllegalInstruction }

// Cycle implements Error.
func (e *IllegalInstructionError) Cycle() uint64 { return e.Cyc }

// MisalignedAccessError describes an instruction fetch, load, or store at
// a non-naturally-aligned address. The pipeline does not return it: a
// misaligned access traps through the exception unit to mtvec.
type MisalignedAccessError struct {
	PC     uint32
	Addr   uint32
	Access string // "fetch", "load", or "store"
	Cyc    uint64
}

func (e *MisalignedAccessError) Error() string {
	return fmt.Sprintf("misaligned %s access to 0x%08x at pc=0x%08x", e.Access, e.Addr, e.PC)
}

// Kind implements Error.
func (e *MisalignedAccessError) Kind() Kind { return KindMisalignedAccess }

// Cycle implements Error.
func (e *MisalignedAccessError) Cycle() uint64 { return e.Cyc }

// OutOfBoundsMemoryError is raised when an address falls outside the
// allocated memory array. Unlike the other machine-level errors, this is
// not a RISC-V exception (there is no MMU modeled) — it always surfaces
// directly to the caller.
type OutOfBoundsMemoryError struct {
	Addr    uint32
	Size    int
	MemSize int
	Cyc     uint64
}

func (e *OutOfBoundsMemoryError) Error() string {
	return fmt.Sprintf("out-of-bounds memory access at 0x%08x (size %d, memory is %d bytes)",
		e.Addr, e.Size, e.MemSize)
}

// Kind implements Error.
func (e *OutOfBoundsMemoryError) Kind() Kind { return KindOutOfBoundsMemory }

// Cycle implements Error.
func (e *OutOfBoundsMemoryError) Cycle() uint64 { return e.Cyc }

// InvalidBinaryError is raised synchronously from loading a program image:
// the file could not be read, or its contents do not fit in memory.
type InvalidBinaryError struct {
	Path   string
	Reason string
	Err    error
	Cyc    uint64
}

func (e *InvalidBinaryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid binary %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid binary %q: %s", e.Path, e.Reason)
}

// Kind implements Error.
func (e *InvalidBinaryError) Kind() Kind { return KindInvalidBinary }

// Cycle implements Error.
func (e *InvalidBinaryError) Cycle() uint64 { return e.Cyc }

// Unwrap exposes the underlying I/O error, if any, to errors.Is/As.
func (e *InvalidBinaryError) Unwrap() error { return e.Err }

// CSRFaultError is raised when a CSR instruction addresses a CSR number
// this core does not implement. It always manifests as an
// IllegalInstructionError at the architectural level (§7); this type exists
// so the CSR unit can report which address faulted before it is folded
// into the illegal-instruction trap.
type CSRFaultError struct {
	CSR uint32
	Cyc uint64
}

func (e *CSRFaultError) Error() string {
	return fmt.Sprintf("access to unimplemented CSR 0x%03x", e.CSR)
}

// Kind implements Error.
func (e *CSRFaultError) Kind() Kind { return KindCSRFault }

// Cycle implements Error.
func (e *CSRFaultError) Cycle() uint64 { return e.Cyc }

// Stamp records which cycle err surfaced at, for any of this package's
// concrete error types, and returns err unchanged for any other error
// (including nil). Pipeline.Step calls this once on a stage's Fault
// before returning it, since a stage's Process() has no kernel handle to
// read the cycle count from itself.
func Stamp(err error, cycle uint64) error {
	switch e := err.(type) {
	case *CombinationalLoopError:
		e.Cyc = cycle
	case *IllegalInstructionError:
		e.Cyc = cycle
	case *MisalignedAccessError:
		e.Cyc = cycle
	case *OutOfBoundsMemoryError:
		e.Cyc = cycle
	case *InvalidBinaryError:
		e.Cyc = cycle
	case *CSRFaultError:
		e.Cyc = cycle
	}
	return err
}
