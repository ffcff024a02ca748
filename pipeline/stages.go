package pipeline

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/core"
	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
)

// FetchStage drives the instruction-memory read port with the current PC
// and assembles the fetched word into an IFIDRecord. An unaligned PC
// raises Misaligned instead of touching memory; an out-of-bounds PC
// records Fault, which Pipeline checks after every settle to abort the
// cycle the way §7 requires for OutOfBoundsMemory.
type FetchStage struct {
	mem *core.Memory

	PC         *sim.Port[uint32]
	Out        *sim.Port[IFIDRecord]
	Misaligned *sim.Port[bool]

	Fault error
}

// NewFetchStage creates a fetch stage reading from mem.
func NewFetchStage(k *sim.Kernel, mem *core.Memory) *FetchStage {
	return &FetchStage{
		mem:        mem,
		PC:         sim.NewPort[uint32](k),
		Out:        sim.NewPort[IFIDRecord](k),
		Misaligned: sim.NewPort[bool](k),
	}
}

// Process implements sim.Module.
func (s *FetchStage) Process() {
	s.Fault = nil
	pc := s.PC.Read()

	if pc&0x3 != 0 {
		s.Misaligned.Write(true)
		s.Out.Write(IFIDRecord{Inst: isa.NOPWord, PC: int32(pc)})
		return
	}
	s.Misaligned.Write(false)

	word, err := s.mem.Read32(pc)
	if err != nil {
		s.Fault = err
		return
	}
	s.Out.Write(IFIDRecord{Inst: word, PC: int32(pc)})
}

// DecodeStage decodes the IF/ID instruction into an IDEXRecord, reading
// rs1/rs2 from the register file and recognizing ECALL/MRET/illegal
// opcodes and CSR instructions.
type DecodeStage struct {
	rf *core.RegFile

	In  *sim.Port[IFIDRecord]
	Out *sim.Port[IDEXRecord]
}

// NewDecodeStage creates a decode stage reading from rf.
func NewDecodeStage(k *sim.Kernel, rf *core.RegFile) *DecodeStage {
	return &DecodeStage{
		rf:  rf,
		In:  sim.NewPort[IFIDRecord](k),
		Out: sim.NewPort[IDEXRecord](k),
	}
}

// Process implements sim.Module.
func (s *DecodeStage) Process() {
	ifid := s.In.Read()
	d := isa.Decode(ifid.Inst)

	rec := IDEXRecord{
		PC:     ifid.PC,
		Imm:    d.Imm,
		Rd:     d.Rd,
		RS1Idx: d.Rs1,
		RS2Idx: d.Rs2,
		Opcode: d.Opcode,
		Funct3: d.Funct3,
		Funct7: d.Funct7,
	}

	if isa.NeedsRS1(d.Opcode) {
		rec.RS1Val = s.rf.Read(d.Rs1)
	}
	if isa.NeedsRS2(d.Opcode) {
		rec.RS2Val = s.rf.Read(d.Rs2)
	}

	switch d.Opcode {
	case isa.OpOp, isa.OpOpImm, isa.OpAuipc, isa.OpLui:
		rec.We = true
		rec.WBSel = isa.WBAlu
	case isa.OpLoad:
		rec.We = true
		rec.WBSel = isa.WBMem
		rec.Mem = isa.MemLoad
	case isa.OpStore:
		rec.Mem = isa.MemStore
	case isa.OpBranch:
		rec.IsBranch = true
	case isa.OpJal, isa.OpJalr:
		rec.We = true
		rec.WBSel = isa.WBPC4
		rec.IsBranch = true
	case isa.OpSystem:
		switch {
		case ifid.Inst == isa.WordECALL || ifid.Inst == isa.WordEBREAK:
			rec.IsECall = true
		case ifid.Inst == isa.WordMRET:
			rec.IsMRet = true
		case d.IsCSR():
			if !core.IsImplementedCSR(d.CSRAddr) {
				rec.IsIllegal = true
				break
			}
			rec.We = true
			rec.WBSel = isa.WBCsr
			rec.CSRAddr = d.CSRAddr
			rec.CSRWe = true
			rec.CSRCmd = d.Funct3
			rec.CSRIsImm = d.IsImmediateCSR()
			if rec.CSRIsImm {
				rec.CSROperand = d.Zimm
			} else {
				rec.CSROperand = s.rf.Read(d.Rs1)
			}
		default:
			rec.IsIllegal = true
		}
	default:
		rec.IsIllegal = true
	}

	s.Out.Write(rec)
}

// ExecuteStage performs the RV32I ALU operation, branch-condition
// evaluation, effective-address calculation, and the CSR read/modify
// step for a CSR instruction.
type ExecuteStage struct {
	csr *core.CSRFile

	In  *sim.Port[IDEXRecord]
	Out *sim.Port[EXMEMRecord]
}

// NewExecuteStage creates an execute stage reading CSR old-values from csr.
func NewExecuteStage(k *sim.Kernel, csr *core.CSRFile) *ExecuteStage {
	return &ExecuteStage{
		csr: csr,
		In:  sim.NewPort[IDEXRecord](k),
		Out: sim.NewPort[EXMEMRecord](k),
	}
}

// Process implements sim.Module.
func (s *ExecuteStage) Process() {
	idex := s.In.Read()
	rec := EXMEMRecord{
		PC4:    uint32(idex.PC) + 4,
		RS2Val: idex.RS2Val,
		Rd:     idex.Rd,
		We:     idex.We,
		WBSel:  idex.WBSel,
		Mem:    idex.Mem,
		Funct3: idex.Funct3,
	}

	switch idex.Opcode {
	case isa.OpOp:
		rec.ALURes = aluExec(idex.Funct3, idex.Funct7, idex.RS1Val, idex.RS2Val)
	case isa.OpOpImm:
		funct7 := isa.Funct7Base
		if idex.Funct3 == isa.F3Srl && idex.Imm&0x400 != 0 {
			funct7 = isa.Funct7Alt // SRAI: bit 10 of the immediate mirrors funct7 bit 5
		}
		rec.ALURes = aluExec(idex.Funct3, funct7, idex.RS1Val, idex.Imm)
	case isa.OpAuipc:
		rec.ALURes = uint32(idex.PC) + idex.Imm
	case isa.OpLui:
		rec.ALURes = idex.Imm
	case isa.OpLoad, isa.OpStore:
		rec.ALURes = idex.RS1Val + idex.Imm
	case isa.OpBranch:
		rec.ALURes = uint32(idex.PC) + idex.Imm
		rec.TakeBranch = branchTaken(idex.Funct3, idex.RS1Val, idex.RS2Val)
	case isa.OpJal:
		rec.ALURes = uint32(idex.PC) + idex.Imm
		rec.TakeBranch = true
	case isa.OpJalr:
		rec.ALURes = (idex.RS1Val + idex.Imm) &^ 1
		rec.TakeBranch = true
	case isa.OpSystem:
		if idex.CSRWe {
			oldVal, err := s.csr.Read(idex.CSRAddr)
			if err == nil {
				rec.CSRReadVal = oldVal
				rec.CSRWe = true
				rec.CSRAddr = idex.CSRAddr
				rec.CSRWriteVal = csrApply(idex.CSRCmd, oldVal, idex.CSROperand)
			}
		}
	}

	s.Out.Write(rec)
}

// MemStage accesses data memory for loads and stores. A misaligned access
// is recorded on Misaligned and the memory is left untouched; the
// resulting MEMWB record's writeback is suppressed so the faulting
// instruction has no architectural effect, per §7's "same handling as
// illegal instruction".
type MemStage struct {
	mem *core.Memory

	In         *sim.Port[EXMEMRecord]
	Out        *sim.Port[MEMWBRecord]
	Misaligned *sim.Port[bool]

	Fault error
}

// NewMemStage creates a memory stage accessing mem.
func NewMemStage(k *sim.Kernel, mem *core.Memory) *MemStage {
	return &MemStage{
		mem:        mem,
		In:         sim.NewPort[EXMEMRecord](k),
		Out:        sim.NewPort[MEMWBRecord](k),
		Misaligned: sim.NewPort[bool](k),
	}
}

// Process implements sim.Module.
func (s *MemStage) Process() {
	s.Fault = nil
	exmem := s.In.Read()

	rec := MEMWBRecord{
		PC4:         exmem.PC4,
		ALURes:      exmem.ALURes,
		Rd:          exmem.Rd,
		We:          exmem.We,
		WBSel:       exmem.WBSel,
		CSRReadVal:  exmem.CSRReadVal,
		CSRAddr:     exmem.CSRAddr,
		CSRWe:       exmem.CSRWe,
		CSRWriteVal: exmem.CSRWriteVal,
	}

	if exmem.Mem != isa.MemNone {
		if !core.IsAligned(exmem.ALURes, exmem.Funct3) {
			s.Misaligned.Write(true)
			rec.We = false
			rec.CSRWe = false
			s.Out.Write(rec)
			return
		}
		s.Misaligned.Write(false)

		switch exmem.Mem {
		case isa.MemLoad:
			v, err := s.mem.LoadWidth(exmem.ALURes, exmem.Funct3)
			if err != nil {
				s.Fault = err
				return
			}
			rec.MemRdata = v
		case isa.MemStore:
			if err := s.mem.StoreWidth(exmem.ALURes, exmem.Funct3, exmem.RS2Val); err != nil {
				s.Fault = err
				return
			}
		}
	} else {
		s.Misaligned.Write(false)
	}

	s.Out.Write(rec)
}

// WritebackStage selects the writeback value by wb_sel and commits the
// register-file and CSR writes. Writes with rd=0 or we=false are no-ops;
// CSRWe similarly gates the CSR commit.
type WritebackStage struct {
	rf  *core.RegFile
	csr *core.CSRFile

	In *sim.Port[MEMWBRecord]

	Fault error
}

// NewWritebackStage creates a writeback stage committing to rf and csr.
func NewWritebackStage(k *sim.Kernel, rf *core.RegFile, csr *core.CSRFile) *WritebackStage {
	return &WritebackStage{rf: rf, csr: csr, In: sim.NewPort[MEMWBRecord](k)}
}

// Process implements sim.Module.
func (s *WritebackStage) Process() {
	s.Fault = nil
	memwb := s.In.Read()

	if memwb.We {
		var value uint32
		switch memwb.WBSel {
		case isa.WBAlu:
			value = memwb.ALURes
		case isa.WBPC4:
			value = memwb.PC4
		case isa.WBMem:
			value = memwb.MemRdata
		case isa.WBCsr:
			value = memwb.CSRReadVal
		}
		s.rf.Write(memwb.Rd, value)
	}

	if memwb.CSRWe {
		if err := s.csr.Write(memwb.CSRAddr, memwb.CSRWriteVal); err != nil {
			s.Fault = err
		}
	}
}
