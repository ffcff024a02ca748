package isa

import "github.com/AlyanTheCodingLegend/rv32pipesim/bits"

// Decoded holds every field the ID stage and the disassembler need from a
// 32-bit instruction word, decoded once per word. Fields that don't apply
// to a class (e.g. Rs2 for an I-type instruction) still hold whatever the
// raw bits happen to contain; callers gate their use on NeedsRS1/NeedsRS2
// or on Class.
type Decoded struct {
	Word   uint32
	Opcode Opcode
	Funct3 uint32
	Funct7 Opcode
	Rd     uint32
	Rs1    uint32
	Rs2    uint32
	Imm    uint32
	Class  InstClass

	// CSRAddr and Zimm are only meaningful when Opcode == OpSystem and
	// Funct3 != 0 (a CSR instruction); the CSR address occupies the same
	// bit range as an I-type immediate but is never sign-extended, and
	// Zimm is the 5-bit immediate CSRRWI/CSRRSI/CSRRCI encode in the rs1
	// field instead of reading a register.
	CSRAddr uint32
	Zimm    uint32
}

// Decode extracts every field of word, selecting the immediate encoding by
// instruction class.
func Decode(word uint32) Decoded {
	op := Opcode(bits.GetRange(word, 6, 2))
	d := Decoded{
		Word:   word,
		Opcode: op,
		Funct3: bits.GetRange(word, 14, 12),
		Funct7: Opcode(bits.GetRange(word, 31, 25)),
		Rd:     bits.GetRange(word, 11, 7),
		Rs1:    bits.GetRange(word, 19, 15),
		Rs2:    bits.GetRange(word, 24, 20),
		Class:  ClassOf(op),
	}
	d.Imm = immediateFor(d.Class, word)

	if op == OpSystem {
		d.CSRAddr = bits.GetRange(word, 31, 20)
		d.Zimm = d.Rs1
	}

	return d
}

func immediateFor(class InstClass, word uint32) uint32 {
	switch class {
	case ClassI:
		return bits.SignExtend(bits.GetRange(word, 31, 20), 12)
	case ClassS:
		imm := bits.GetRange(word, 31, 25)<<5 | bits.GetRange(word, 11, 7)
		return bits.SignExtend(imm, 12)
	case ClassB:
		imm := bits.GetRange(word, 31, 31)<<12 |
			bits.GetRange(word, 7, 7)<<11 |
			bits.GetRange(word, 30, 25)<<5 |
			bits.GetRange(word, 11, 8)<<1
		return bits.SignExtend(imm, 13)
	case ClassU:
		return bits.GetRange(word, 31, 12) << 12
	case ClassJ:
		imm := bits.GetRange(word, 31, 31)<<20 |
			bits.GetRange(word, 19, 12)<<12 |
			bits.GetRange(word, 20, 20)<<11 |
			bits.GetRange(word, 30, 21)<<1
		return bits.SignExtend(imm, 21)
	default:
		return 0
	}
}

// IsCSR reports whether d is a CSR instruction (SYSTEM opcode, nonzero
// funct3).
func (d Decoded) IsCSR() bool {
	return d.Opcode == OpSystem && d.Funct3 != 0
}

// IsImmediateCSR reports whether d is one of CSRRWI/CSRRSI/CSRRCI, which
// take their operand from Zimm rather than reading rs1.
func (d Decoded) IsImmediateCSR() bool {
	switch d.Funct3 {
	case CSRRWI, CSRRSI, CSRRCI:
		return true
	default:
		return false
	}
}
