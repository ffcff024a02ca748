// Package disasm renders a decoded RV32I instruction word as a mnemonic and
// operand string, for trace output and interactive inspection. It mirrors
// isa.Decode's field extraction rather than re-deriving bit ranges itself.
package disasm

import (
	"fmt"

	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
)

// RegABIName returns the bare ABI name of register idx (e.g. "a0" for
// x10), the form the original disassembler's compact operand strings use.
func RegABIName(idx uint32) string {
	return isa.ABIRegNames[idx]
}

// RegTraceName renders a register index with both its number and ABI
// name, e.g. "x10(a0)" — the verbose form a cycle trace uses, as opposed
// to Disassemble's bare-ABI-name operand strings.
func RegTraceName(idx uint32) string {
	return fmt.Sprintf("x%d(%s)", idx, isa.ABIRegNames[idx])
}

// Disassemble returns the mnemonic and a human-readable operand string for
// word. An instruction this core doesn't recognize returns ("UNKNOWN", a
// description naming the raw word) rather than an error — disassembly is a
// display aid, not a decode-correctness check.
func Disassemble(word uint32) (mnemonic, operands string) {
	switch word {
	case isa.NOPWord:
		return "NOP", "nop"
	case isa.WordECALL:
		return "ECALL", "ecall"
	case isa.WordEBREAK:
		return "EBREAK", "ebreak"
	case isa.WordMRET:
		return "MRET", "mret"
	}

	if word&0x3 != 0x3 {
		return "UNKNOWN", fmt.Sprintf("unknown instruction (0x%08x)", word)
	}

	d := isa.Decode(word)
	rd, rs1, rs2 := RegABIName(d.Rd), RegABIName(d.Rs1), RegABIName(d.Rs2)
	imm := int32(d.Imm)

	switch d.Opcode {
	case isa.OpOp:
		name, ok := opName(d.Funct3, d.Funct7)
		if !ok {
			break
		}
		return name, fmt.Sprintf("%s %s, %s, %s", lower(name), rd, rs1, rs2)

	case isa.OpOpImm:
		shamt := d.Imm & 0x1f
		switch d.Funct3 {
		case isa.F3Add:
			return "ADDI", fmt.Sprintf("addi %s, %s, %d", rd, rs1, imm)
		case isa.F3Slt:
			return "SLTI", fmt.Sprintf("slti %s, %s, %d", rd, rs1, imm)
		case isa.F3Sltu:
			return "SLTIU", fmt.Sprintf("sltiu %s, %s, %d", rd, rs1, imm)
		case isa.F3Xor:
			return "XORI", fmt.Sprintf("xori %s, %s, %d", rd, rs1, imm)
		case isa.F3Or:
			return "ORI", fmt.Sprintf("ori %s, %s, %d", rd, rs1, imm)
		case isa.F3And:
			return "ANDI", fmt.Sprintf("andi %s, %s, %d", rd, rs1, imm)
		case isa.F3Sll:
			return "SLLI", fmt.Sprintf("slli %s, %s, %d", rd, rs1, shamt)
		case isa.F3Srl:
			if d.Imm&0x400 != 0 {
				return "SRAI", fmt.Sprintf("srai %s, %s, %d", rd, rs1, shamt)
			}
			return "SRLI", fmt.Sprintf("srli %s, %s, %d", rd, rs1, shamt)
		}

	case isa.OpLoad:
		name, ok := loadName(d.Funct3)
		if !ok {
			break
		}
		return name, fmt.Sprintf("%s %s, %d(%s)", lower(name), rd, imm, rs1)

	case isa.OpStore:
		name, ok := storeName(d.Funct3)
		if !ok {
			break
		}
		return name, fmt.Sprintf("%s %s, %d(%s)", lower(name), rs2, imm, rs1)

	case isa.OpBranch:
		name, ok := branchName(d.Funct3)
		if !ok {
			break
		}
		return name, fmt.Sprintf("%s %s, %s, %d", lower(name), rs1, rs2, imm)

	case isa.OpJal:
		return "JAL", fmt.Sprintf("jal %s, %d", rd, imm)

	case isa.OpJalr:
		return "JALR", fmt.Sprintf("jalr %s, %s, %d", rd, rs1, imm)

	case isa.OpLui:
		return "LUI", fmt.Sprintf("lui %s, 0x%x", rd, d.Imm>>12)

	case isa.OpAuipc:
		return "AUIPC", fmt.Sprintf("auipc %s, 0x%x", rd, d.Imm>>12)

	case isa.OpSystem:
		if d.IsCSR() {
			name, ok := csrName(d.Funct3)
			if !ok {
				break
			}
			if d.IsImmediateCSR() {
				return name, fmt.Sprintf("%s %s, 0x%03x, %d", lower(name), rd, d.CSRAddr, d.Zimm)
			}
			return name, fmt.Sprintf("%s %s, 0x%03x, %s", lower(name), rd, d.CSRAddr, rs1)
		}
	}

	return "UNKNOWN", fmt.Sprintf("unknown instruction (0x%08x)", word)
}

func opName(funct3 uint32, funct7 isa.Opcode) (string, bool) {
	if funct7 == isa.Funct7Alt {
		switch funct3 {
		case isa.F3Add:
			return "SUB", true
		case isa.F3Srl:
			return "SRA", true
		}
		return "", false
	}
	switch funct3 {
	case isa.F3Add:
		return "ADD", true
	case isa.F3Sll:
		return "SLL", true
	case isa.F3Slt:
		return "SLT", true
	case isa.F3Sltu:
		return "SLTU", true
	case isa.F3Xor:
		return "XOR", true
	case isa.F3Srl:
		return "SRL", true
	case isa.F3Or:
		return "OR", true
	case isa.F3And:
		return "AND", true
	}
	return "", false
}

func loadName(funct3 uint32) (string, bool) {
	switch funct3 {
	case isa.F3Lb:
		return "LB", true
	case isa.F3Lh:
		return "LH", true
	case isa.F3Lw:
		return "LW", true
	case isa.F3Lbu:
		return "LBU", true
	case isa.F3Lhu:
		return "LHU", true
	}
	return "", false
}

func storeName(funct3 uint32) (string, bool) {
	switch funct3 {
	case isa.F3Sb:
		return "SB", true
	case isa.F3Sh:
		return "SH", true
	case isa.F3Sw:
		return "SW", true
	}
	return "", false
}

func branchName(funct3 uint32) (string, bool) {
	switch funct3 {
	case isa.F3Beq:
		return "BEQ", true
	case isa.F3Bne:
		return "BNE", true
	case isa.F3Blt:
		return "BLT", true
	case isa.F3Bge:
		return "BGE", true
	case isa.F3Bltu:
		return "BLTU", true
	case isa.F3Bgeu:
		return "BGEU", true
	}
	return "", false
}

func csrName(funct3 uint32) (string, bool) {
	switch funct3 {
	case isa.CSRRW:
		return "CSRRW", true
	case isa.CSRRS:
		return "CSRRS", true
	case isa.CSRRC:
		return "CSRRC", true
	case isa.CSRRWI:
		return "CSRRWI", true
	case isa.CSRRSI:
		return "CSRRSI", true
	case isa.CSRRCI:
		return "CSRRCI", true
	}
	return "", false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
