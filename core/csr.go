package core

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
	"github.com/AlyanTheCodingLegend/rv32pipesim/simerr"
)

// CSRFile holds the minimal set of machine-mode control and status
// registers this core implements: mstatus, mtvec, mepc, mcause, mie, mip.
// Accessing any other CSR number raises a CSRFaultError, which the
// exception unit folds into an illegal-instruction trap.
type CSRFile struct {
	regs map[uint32]uint32
}

// NewCSRFile returns a CSR file with every implemented register initialized
// to zero.
func NewCSRFile() *CSRFile {
	f := &CSRFile{regs: make(map[uint32]uint32, 6)}
	f.Reset()
	return f
}

// IsImplementedCSR reports whether addr names one of the CSRs this core
// implements. It needs no CSRFile instance — the ID stage uses it to
// detect a CSR-fault statically, from the instruction word alone, the
// same way it detects any other illegal-instruction condition.
func IsImplementedCSR(addr uint32) bool {
	return implemented(addr)
}

func implemented(addr uint32) bool {
	switch addr {
	case isa.CSRMstatus, isa.CSRMtvec, isa.CSRMepc, isa.CSRMcause, isa.CSRMie, isa.CSRMip:
		return true
	default:
		return false
	}
}

// Read returns the value of CSR addr.
func (f *CSRFile) Read(addr uint32) (uint32, error) {
	if !implemented(addr) {
		return 0, &simerr.CSRFaultError{CSR: addr}
	}
	return f.regs[addr], nil
}

// Write sets CSR addr to value.
func (f *CSRFile) Write(addr uint32, value uint32) error {
	if !implemented(addr) {
		return &simerr.CSRFaultError{CSR: addr}
	}
	f.regs[addr] = value
	return nil
}

// Reset zeroes every implemented CSR.
func (f *CSRFile) Reset() {
	f.regs[isa.CSRMstatus] = 0
	f.regs[isa.CSRMtvec] = 0
	f.regs[isa.CSRMepc] = 0
	f.regs[isa.CSRMcause] = 0
	f.regs[isa.CSRMie] = 0
	f.regs[isa.CSRMip] = 0
}

// Mtvec returns the trap vector, used by the branch unit to redirect PC on
// exception entry without going through the general Read/error path.
func (f *CSRFile) Mtvec() uint32 { return f.regs[isa.CSRMtvec] }

// Mepc returns the saved exception PC, used by the branch unit on MRET.
func (f *CSRFile) Mepc() uint32 { return f.regs[isa.CSRMepc] }

// EnterTrap records the faulting PC and cause, as the exception unit does
// at the cycle a trap is taken.
func (f *CSRFile) EnterTrap(pc uint32, cause uint32) {
	f.regs[isa.CSRMepc] = pc
	f.regs[isa.CSRMcause] = cause
}
