// Package pipeline implements the classic RV32I 5-stage in-order pipeline
// (IF/ID/EX/MEM/WB) on top of the sim package's Port/Wire/Module/Reg
// substrate. Every stage, the hazard unit, the branch unit, and the
// exception unit are sim.Modules wired together by Pipeline; nothing here
// advances a clock directly — that is the sim.Kernel's job.
package pipeline

import "github.com/AlyanTheCodingLegend/rv32pipesim/isa"

// IFIDRecord is the IF/ID pipeline register payload. Its bubble value has
// Inst set to the canonical NOP word (ADDI x0,x0,0) and PC set to -4, per
// the reset/bubble invariant: a bubble must decode and execute exactly
// like a real NOP, not like a distinct "no instruction" sentinel.
type IFIDRecord struct {
	Inst uint32
	PC   int32
}

// IFIDBubble is the canonical IF/ID bubble/reset value.
var IFIDBubble = IFIDRecord{Inst: isa.NOPWord, PC: -4}

// IDEXRecord is the ID/EX pipeline register payload. Its zero value (We
// false, Mem MemNone) is observably equivalent to a NOP: WB and MEM do
// nothing with it.
type IDEXRecord struct {
	PC      int32
	RS1Val  uint32
	RS2Val  uint32
	Imm     uint32
	Rd      uint32
	RS1Idx  uint32
	RS2Idx  uint32
	Opcode  isa.Opcode
	Funct3  uint32
	Funct7  isa.Opcode
	We      bool
	WBSel   isa.WBSel
	Mem     isa.MemOp
	IsBranch bool

	CSRAddr    uint32
	CSRWe      bool
	CSRIsImm   bool
	CSROperand uint32 // rs1 value, or Zimm when CSRIsImm
	CSRCmd     uint32 // the CSR funct3 (CSRRW/RS/RC/WI/SI/CI)

	IsECall   bool
	IsMRet    bool
	IsIllegal bool
}

// EXMEMRecord is the EX/MEM pipeline register payload. Zero value is a
// bubble: We=false, Mem=MemNone, TakeBranch=false.
type EXMEMRecord struct {
	PC4        uint32
	ALURes     uint32
	RS2Val     uint32
	Rd         uint32
	We         bool
	WBSel      isa.WBSel
	Mem        isa.MemOp
	Funct3     uint32
	TakeBranch bool

	CSRAddr     uint32
	CSRWe       bool
	CSRWriteVal uint32
	CSRReadVal  uint32
}

// MEMWBRecord is the MEM/WB pipeline register payload. Zero value is a
// bubble: We=false.
type MEMWBRecord struct {
	PC4        uint32
	ALURes     uint32
	MemRdata   uint32
	Rd         uint32
	We         bool
	WBSel      isa.WBSel
	CSRReadVal uint32

	CSRAddr     uint32
	CSRWe       bool
	CSRWriteVal uint32
}
