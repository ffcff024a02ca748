package pipeline

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/core"
	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
)

// ExceptionUnit arbitrates the three fault sources the pipeline can raise
// in a single cycle and the MRET trap return. When more than one fault
// fires in the same cycle the earlier pipeline stage wins: IF misalign,
// then ID illegal/ECALL, then MEM misalign. It commits mepc/mcause to the
// CSR file directly when a fault is taken — the CSR file is not modeled
// as a Reg, so this one side effect happens outside the Reg-commit
// boundary; it is safe because it is a pure, idempotent function of
// this cycle's inputs.
type ExceptionUnit struct {
	csr *core.CSRFile

	PC            *sim.Port[uint32]     // npc: this cycle's fetch address
	IFMisaligned  *sim.Port[bool]       // from FetchStage, this cycle
	IDOut         *sim.Port[IDEXRecord] // DecodeStage's own output, this cycle
	EXMEMCur      *sim.Port[EXMEMRecord]
	MEMMisaligned *sim.Port[bool] // from MemStage, this cycle

	RaiseException *sim.Port[bool]
	TrapReturn     *sim.Port[bool]
}

// NewExceptionUnit creates an exception unit committing traps to csr.
func NewExceptionUnit(k *sim.Kernel, csr *core.CSRFile) *ExceptionUnit {
	return &ExceptionUnit{
		csr:            csr,
		PC:             sim.NewPort[uint32](k),
		IFMisaligned:   sim.NewPort[bool](k),
		IDOut:          sim.NewPort[IDEXRecord](k),
		EXMEMCur:       sim.NewPort[EXMEMRecord](k),
		MEMMisaligned:  sim.NewPort[bool](k),
		RaiseException: sim.NewPort[bool](k),
		TrapReturn:     sim.NewPort[bool](k),
	}
}

// Process implements sim.Module.
func (e *ExceptionUnit) Process() {
	if e.IFMisaligned.Read() {
		e.raise(e.PC.Read(), isa.McauseInstAddrMisaligned)
		e.TrapReturn.Write(false)
		return
	}

	id := e.IDOut.Read()
	if id.IsIllegal {
		e.raise(uint32(id.PC), isa.McauseIllegalInstruction)
		e.TrapReturn.Write(false)
		return
	}
	if id.IsECall {
		e.raise(uint32(id.PC), isa.McauseECallFromM)
		e.TrapReturn.Write(false)
		return
	}

	if e.MEMMisaligned.Read() {
		exmem := e.EXMEMCur.Read()
		cause := isa.McauseLoadAddrMisaligned
		if exmem.Mem == isa.MemStore {
			cause = isa.McauseStoreAddrMisaligned
		}
		e.raise(exmem.PC4-4, cause)
		e.TrapReturn.Write(false)
		return
	}

	e.RaiseException.Write(false)
	e.TrapReturn.Write(id.IsMRet)
}

func (e *ExceptionUnit) raise(pc uint32, cause uint32) {
	e.RaiseException.Write(true)
	e.csr.EnterTrap(pc, cause)
}
