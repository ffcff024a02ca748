// Package isa holds the RV32I constant tables this simulator decodes
// against: opcodes, funct3/funct7 encodings, CSR function codes, and the
// instruction-class membership sets used both by the ID stage decoder and
// the disassembler.
package isa

// Opcode is the 5-bit value in inst[6:2] (inst[1:0] is always 0b11 for a
// valid 32-bit RV32I instruction and is not carried here).
type Opcode uint32

// Opcodes, keyed by inst[6:2].
const (
	OpLoad   Opcode = 0b00000
	OpOpImm  Opcode = 0b00100
	OpAuipc  Opcode = 0b00101
	OpStore  Opcode = 0b01000
	OpOp     Opcode = 0b01100
	OpLui    Opcode = 0b01101
	OpBranch Opcode = 0b11000
	OpJalr   Opcode = 0b11001
	OpJal    Opcode = 0b11011
	OpSystem Opcode = 0b11100
)

// Funct3 values shared by OP / OP-IMM (ALU operation select).
const (
	F3Add   uint32 = 0b000 // also SUB, distinguished by funct7
	F3Sll   uint32 = 0b001
	F3Slt   uint32 = 0b010
	F3Sltu  uint32 = 0b011
	F3Xor   uint32 = 0b100
	F3Srl   uint32 = 0b101 // also SRA, distinguished by funct7
	F3Or    uint32 = 0b110
	F3And   uint32 = 0b111
)

// Funct3 values for BRANCH.
const (
	F3Beq  uint32 = 0b000
	F3Bne  uint32 = 0b001
	F3Blt  uint32 = 0b100
	F3Bge  uint32 = 0b101
	F3Bltu uint32 = 0b110
	F3Bgeu uint32 = 0b111
)

// Funct3 values for LOAD.
const (
	F3Lb  uint32 = 0b000
	F3Lh  uint32 = 0b001
	F3Lw  uint32 = 0b010
	F3Lbu uint32 = 0b100
	F3Lhu uint32 = 0b101
)

// Funct3 values for STORE.
const (
	F3Sb uint32 = 0b000
	F3Sh uint32 = 0b001
	F3Sw uint32 = 0b010
)

// Funct7 values distinguishing ADD/SUB and SRL/SRA.
const (
	Funct7Base Opcode = 0b0000000
	Funct7Alt  Opcode = 0b0100000
)

// CSR funct3 encodings (SYSTEM opcode, funct3 != 0).
const (
	CSRRW  uint32 = 0b001
	CSRRS  uint32 = 0b010
	CSRRC  uint32 = 0b011
	CSRRWI uint32 = 0b101
	CSRRSI uint32 = 0b110
	CSRRCI uint32 = 0b111
)

// SYSTEM funct3 == 0 instructions are distinguished by the full word.
const (
	WordECALL  uint32 = 0x00000073
	WordEBREAK uint32 = 0x00100073
	WordMRET   uint32 = 0x30200073
)

// NOPWord is the canonical NOP encoding: ADDI x0, x0, 0. Bubbles injected
// into IF/ID must decode to this word so they produce an all-zero,
// no-writeback IDEX_t downstream without the hazard/exception logic having
// to special-case "bubble" as a distinct concept from "real NOP".
const NOPWord uint32 = 0x00000013

// InstClass identifies which immediate-encoding family an opcode belongs to.
type InstClass int

// Instruction classes, used to select the immediate decode layout (§4.11).
const (
	ClassR InstClass = iota
	ClassI
	ClassS
	ClassB
	ClassU
	ClassJ
	ClassSystem
	ClassUnknown
)

// ClassOf returns the instruction-class family for a decoded opcode.
func ClassOf(op Opcode) InstClass {
	switch op {
	case OpOp:
		return ClassR
	case OpOpImm, OpLoad, OpJalr:
		return ClassI
	case OpStore:
		return ClassS
	case OpBranch:
		return ClassB
	case OpLui, OpAuipc:
		return ClassU
	case OpJal:
		return ClassJ
	case OpSystem:
		return ClassSystem
	default:
		return ClassUnknown
	}
}

// NeedsRS1 reports whether the ID stage must read rs1 for this opcode.
func NeedsRS1(op Opcode) bool {
	switch op {
	case OpOp, OpOpImm, OpLoad, OpStore, OpBranch, OpJalr:
		return true
	default:
		return false
	}
}

// NeedsRS2 reports whether the ID stage must read rs2 for this opcode.
func NeedsRS2(op Opcode) bool {
	switch op {
	case OpOp, OpStore, OpBranch:
		return true
	default:
		return false
	}
}

// MemOp identifies the memory-stage action for a decoded instruction.
type MemOp uint8

// MemOp values (IDEX_t.mem / EXMEM_t.mem).
const (
	MemNone MemOp = iota
	MemLoad
	MemStore
)

// WBSel identifies the writeback-value source (IDEX_t.wb_sel).
type WBSel uint8

// WBSel values.
const (
	WBAlu WBSel = iota
	WBPC4
	WBMem
	WBCsr
)

// CSR addresses this core implements.
const (
	CSRMstatus uint32 = 0x300
	CSRMie     uint32 = 0x304
	CSRMtvec   uint32 = 0x305
	CSRMepc    uint32 = 0x341
	CSRMcause  uint32 = 0x342
	CSRMip     uint32 = 0x344
)

// McauseIllegalInstruction and friends are the machine-cause codes this
// core raises. Values follow the RISC-V privileged spec's exception-code
// encoding (interrupt bit clear, low bits the cause).
const (
	McauseInstAddrMisaligned  uint32 = 0
	McauseIllegalInstruction  uint32 = 2
	McauseBreakpoint          uint32 = 3
	McauseLoadAddrMisaligned  uint32 = 4
	McauseStoreAddrMisaligned uint32 = 6
	McauseECallFromM          uint32 = 11
)

// ABIRegNames holds the 32 RISC-V ABI register names, indexed by register
// number (x0..x31), used by the disassembler for operand rendering.
var ABIRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}
