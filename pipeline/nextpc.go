package pipeline

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/core"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
)

// NextPCUnit computes npc, the address IF fetches this very cycle: trap
// entry beats trap return beats a taken branch beats sequential pc+4,
// where pc is the PC register's Cur face — the PC of the instruction
// presently one stage behind, in ID. npc is exposed on NPC for FetchStage
// (and ExceptionUnit, for reporting an IF-misalignment's faulting
// address) to read directly; the PC register never feeds a fetch address
// on its own. npc also drives the PC register's Next face, but only when
// stall_pc is deasserted — while stalled, Next is left untouched and
// Reg's own hold behavior keeps PC from advancing, so npc keeps
// recomputing the same pc+4 target every stalled cycle.
type NextPCUnit struct {
	csr *core.CSRFile

	RaiseException *sim.Port[bool]
	TrapReturn     *sim.Port[bool]
	TakeBranch     *sim.Port[bool]
	BranchTarget   *sim.Port[uint32]
	StallPC        *sim.Port[bool]
	PCCur          *sim.Port[uint32]
	NPC            *sim.Port[uint32]
	PCNext         *sim.Port[uint32]
}

// NewNextPCUnit creates a next-PC unit reading trap targets from csr.
func NewNextPCUnit(k *sim.Kernel, csr *core.CSRFile) *NextPCUnit {
	return &NextPCUnit{
		csr:            csr,
		RaiseException: sim.NewPort[bool](k),
		TrapReturn:     sim.NewPort[bool](k),
		TakeBranch:     sim.NewPort[bool](k),
		BranchTarget:   sim.NewPort[uint32](k),
		StallPC:        sim.NewPort[bool](k),
		PCCur:          sim.NewPort[uint32](k),
		NPC:            sim.NewPort[uint32](k),
		PCNext:         sim.NewPort[uint32](k),
	}
}

// Process implements sim.Module.
func (n *NextPCUnit) Process() {
	var next uint32
	switch {
	case n.RaiseException.Read():
		next = n.csr.Mtvec()
	case n.TrapReturn.Read():
		next = n.csr.Mepc()
	case n.TakeBranch.Read():
		next = n.BranchTarget.Read()
	default:
		next = n.PCCur.Read() + 4
	}
	n.NPC.Write(next)

	if n.StallPC.Read() {
		return
	}
	n.PCNext.Write(next)
}
