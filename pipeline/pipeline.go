package pipeline

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/core"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
	"github.com/AlyanTheCodingLegend/rv32pipesim/simerr"
)

// Pipeline wires the five stages, the four pipeline registers, and the
// hazard/exception/next-PC units into a single settle-able module graph
// sitting on top of a Kernel, and exposes the cycle-level API the
// simulator facade drives: Step, Run, LoadBinary, Reset, and the read-outs
// a trace/disassembly layer needs.
type Pipeline struct {
	kernel *sim.Kernel

	mem *core.Memory
	rf  *core.RegFile
	csr *core.CSRFile

	pc *sim.Reg[uint32]

	fetch   *FetchStage
	decode  *DecodeStage
	execute *ExecuteStage
	memS    *MemStage
	wb      *WritebackStage

	ifid  *StageReg[IFIDRecord]
	idex  *StageReg[IDEXRecord]
	exmem *StageReg[EXMEMRecord]
	memwb *StageReg[MEMWBRecord]

	hazard *HazardUnit
	exc    *ExceptionUnit
	npc    *NextPCUnit
}

// New builds a pipeline from cfg, wires every port, and settles the comb
// graph once so reads are valid before the first Step.
func New(cfg Config) *Pipeline {
	k := sim.NewKernel()
	if cfg.MaxSettleIterations > 0 {
		k.SetMaxSettleIterations(cfg.MaxSettleIterations)
	}
	mem := core.NewMemory(cfg.MemorySize)
	rf := core.NewRegFile()
	csr := core.NewCSRFile()

	p := &Pipeline{
		kernel: k,
		mem:    mem,
		rf:     rf,
		csr:    csr,

		// Reset to -4 so the very first npc = pc+4 computes 0: the PC
		// register is never itself read as a fetch address (see wire),
		// only as the sequential-increment base the next-PC unit starts
		// from.
		pc: sim.NewReg[uint32](k, 0xFFFFFFFC),

		fetch:   NewFetchStage(k, mem),
		decode:  NewDecodeStage(k, rf),
		execute: NewExecuteStage(k, csr),
		memS:    NewMemStage(k, mem),
		wb:      NewWritebackStage(k, rf, csr),

		ifid:  NewStageReg[IFIDRecord](k, IFIDBubble),
		idex:  NewStageReg[IDEXRecord](k, IDEXRecord{}),
		exmem: NewStageReg[EXMEMRecord](k, EXMEMRecord{}),
		memwb: NewStageReg[MEMWBRecord](k, MEMWBRecord{}),

		hazard: NewHazardUnit(k),
		exc:    NewExceptionUnit(k, csr),
		npc:    NewNextPCUnit(k, csr),
	}

	p.wire()

	for _, m := range []sim.Module{
		p.fetch, p.ifid, p.decode, p.idex, p.execute, p.exmem,
		p.memS, p.memwb, p.wb, p.hazard, p.exc, p.npc,
	} {
		k.AddModule(m)
	}

	if err := k.Settle(); err != nil {
		panic(err)
	}
	return p
}

// wire connects every port. Read-wiring (a module reading another's
// output) uses sim.Connect. Where logic writes into a port another owner
// holds, the port is shared as a plain pointer or written directly, since
// Connect is for mirrored reads and panics on Write: the next-PC unit
// drives the PC register's Next face, and the flush glue below drives the
// next-PC unit's branch inputs and the IF/ID and ID/EX flush ports.
func (p *Pipeline) wire() {
	sim.Connect(p.ifid.In, p.fetch.Out)
	sim.Connect(p.ifid.Stall, p.hazard.StallIFID)

	sim.Connect(p.decode.In, p.ifid.Out())
	sim.Connect(p.idex.In, p.decode.Out)

	sim.Connect(p.execute.In, p.idex.Out())
	sim.Connect(p.exmem.In, p.execute.Out)

	sim.Connect(p.memS.In, p.exmem.Out())
	sim.Connect(p.memwb.In, p.memS.Out)

	sim.Connect(p.wb.In, p.memwb.Out())

	sim.Connect(p.hazard.IFID, p.ifid.Out())
	sim.Connect(p.hazard.IDEX, p.idex.Out())
	sim.Connect(p.hazard.EXMEM, p.exmem.Out())

	sim.Connect(p.exc.IFMisaligned, p.fetch.Misaligned)
	sim.Connect(p.exc.IDOut, p.decode.Out)
	sim.Connect(p.exc.EXMEMCur, p.exmem.Out())
	sim.Connect(p.exc.MEMMisaligned, p.memS.Misaligned)

	sim.Connect(p.npc.RaiseException, p.exc.RaiseException)
	sim.Connect(p.npc.TrapReturn, p.exc.TrapReturn)
	sim.Connect(p.npc.StallPC, p.hazard.StallPC)
	sim.Connect(p.npc.PCCur, p.pc.Cur)
	p.npc.PCNext = p.pc.Next

	// FetchStage and ExceptionUnit both key off npc (this cycle's fetch
	// address), not the PC register's Cur face directly — see nextpc.go.
	sim.Connect(p.fetch.PC, p.npc.NPC)
	sim.Connect(p.exc.PC, p.npc.NPC)

	flushIFID := sim.NewPort[bool](p.kernel)
	flushIDEX := sim.NewPort[bool](p.kernel)
	p.ifid.Flush = flushIFID
	p.idex.Flush = flushIDEX

	flushGlue := sim.ModuleFunc(func() {
		ex := p.execute.Out.Read()
		p.npc.TakeBranch.Write(ex.TakeBranch)
		p.npc.BranchTarget.Write(ex.ALURes)

		redirect := p.exc.RaiseException.Read() || p.exc.TrapReturn.Read() || ex.TakeBranch
		flushIFID.Write(redirect)
		flushIDEX.Write(redirect || p.hazard.FlushIDEX.Read())
	})
	p.kernel.AddModule(flushGlue)
}

// Reset returns memory, registers, CSRs, and the pipeline's own Regs to
// their reset state and re-settles the comb graph so read-outs are valid
// before the next Step.
func (p *Pipeline) Reset() error {
	p.mem.Reset()
	p.rf.Reset()
	p.csr.Reset()
	p.kernel.Reset()
	return p.kernel.Settle()
}

// LoadBinary copies a flat RV32I instruction/data image to address 0 and
// re-settles the comb graph so the first fetch's read-outs are valid. An
// image larger than memory is rejected with an InvalidBinaryError.
func (p *Pipeline) LoadBinary(data []byte) error {
	if len(data) > p.mem.Size() {
		return &simerr.InvalidBinaryError{Reason: "image does not fit in memory"}
	}
	if err := p.mem.LoadImage(data); err != nil {
		return err
	}
	return p.kernel.Settle()
}

// Step settles the pipeline for one cycle and, only if no stage faulted,
// commits every register and advances the cycle count. A fault (an
// OutOfBoundsMemoryError from Fetch/Mem, or a CSRFaultError from
// Writeback) leaves the cycle's pipeline registers and the cycle count
// uncommitted; register-file, CSR and memory writes a stage made while
// settling that cycle are not undone.
func (p *Pipeline) Step() error {
	if err := p.kernel.Settle(); err != nil {
		return err
	}
	if p.fetch.Fault != nil {
		return simerr.Stamp(p.fetch.Fault, p.kernel.Cycles())
	}
	if p.memS.Fault != nil {
		return simerr.Stamp(p.memS.Fault, p.kernel.Cycles())
	}
	if p.wb.Fault != nil {
		return simerr.Stamp(p.wb.Fault, p.kernel.Cycles())
	}
	p.kernel.CommitAndAdvance()
	return nil
}

// Run calls Step up to maxCycles times, stopping early on a Step error or
// when stop returns true after a completed cycle.
func (p *Pipeline) Run(maxCycles uint64, stop func() bool) (uint64, error) {
	var ran uint64
	for ran < maxCycles {
		if err := p.Step(); err != nil {
			return ran, err
		}
		ran++
		if stop != nil && stop() {
			break
		}
	}
	return ran, nil
}

// RunCombLogic re-settles the comb graph without advancing the clock.
func (p *Pipeline) RunCombLogic() error {
	return p.kernel.Settle()
}

// ReadReg returns the architectural value of register idx (x0..x31).
func (p *Pipeline) ReadReg(idx uint32) uint32 {
	return p.rf.Read(idx)
}

// ReadPC returns the address IF is fetching this cycle. This is npc, the
// next-PC unit's combinational output — not the PC register's Cur face,
// which trails one stage behind (see nextpc.go).
func (p *Pipeline) ReadPC() uint32 {
	return p.npc.NPC.Read()
}

// ReadDataMem and ReadInstMem both read the same unified backing store —
// this design has no split instruction/data cache — and exist as two
// names so callers can express intent the way a Harvard-style trace
// viewer would.
func (p *Pipeline) ReadDataMem(addr uint32, n int) ([]byte, error) {
	return p.mem.ReadRange(addr, n)
}

// ReadInstMem reads n bytes of the unified memory starting at addr.
func (p *Pipeline) ReadInstMem(addr uint32, n int) ([]byte, error) {
	return p.mem.ReadRange(addr, n)
}

// GetCycles returns the number of cycles committed so far.
func (p *Pipeline) GetCycles() uint64 {
	return p.kernel.Cycles()
}

// RegSnapshot returns a copy of all 32 architectural registers.
func (p *Pipeline) RegSnapshot() [32]uint32 {
	return p.rf.Snapshot()
}

// IFID, IDEX, EXMEM, and MEMWB return the current contents of each pipeline
// register, for a trace/disassembly layer to render.
func (p *Pipeline) IFID() IFIDRecord   { return p.ifid.Out().Read() }
func (p *Pipeline) IDEX() IDEXRecord   { return p.idex.Out().Read() }
func (p *Pipeline) EXMEM() EXMEMRecord { return p.exmem.Out().Read() }
func (p *Pipeline) MEMWB() MEMWBRecord { return p.memwb.Out().Read() }
