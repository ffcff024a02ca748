package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
)

var _ = Describe("Decode", func() {
	It("decodes an R-type ADD x1, x2, x3", func() {
		d := isa.Decode(0x003100b3)
		Expect(d.Opcode).To(Equal(isa.OpOp))
		Expect(d.Rd).To(Equal(uint32(1)))
		Expect(d.Rs1).To(Equal(uint32(2)))
		Expect(d.Rs2).To(Equal(uint32(3)))
		Expect(d.Funct3).To(Equal(isa.F3Add))
		Expect(d.Funct7).To(Equal(isa.Funct7Base))
		Expect(d.Class).To(Equal(isa.ClassR))
	})

	It("sign-extends a negative I-type immediate (ADDI x1, x0, -1)", func() {
		d := isa.Decode(0xfff00093)
		Expect(d.Opcode).To(Equal(isa.OpOpImm))
		Expect(d.Imm).To(Equal(uint32(0xffffffff)))
	})

	It("decodes an S-type store offset (SW x1, -4(x2))", func() {
		// imm[11:5]=0x7f, rs2=1, rs1=2, funct3=SW, imm[4:0]=0x1c, opcode=STORE
		word := uint32(0b1111111_00001_00010_010_11100_0100011)
		d := isa.Decode(word)
		Expect(d.Opcode).To(Equal(isa.OpStore))
		Expect(int32(d.Imm)).To(Equal(int32(-4)))
	})

	It("decodes a B-type branch offset", func() {
		// BEQ x1, x2, +8: imm = 0b0000000001000 (8), encoded per RV32I B-type layout
		word := uint32(0b0000000_00010_00001_000_01000_1100011)
		d := isa.Decode(word)
		Expect(d.Opcode).To(Equal(isa.OpBranch))
		Expect(int32(d.Imm)).To(Equal(int32(8)))
	})

	It("decodes a U-type LUI immediate", func() {
		d := isa.Decode(0x123450b7) // LUI x1, 0x12345
		Expect(d.Opcode).To(Equal(isa.OpLui))
		Expect(d.Imm).To(Equal(uint32(0x12345000)))
	})

	It("decodes a J-type JAL offset", func() {
		// JAL x1, +4: imm bit2 set, which the J-type encoding places at word bit 22
		// (bits[30:21] holds imm[10:1], so word bit 21+k encodes imm bit 1+k).
		word := uint32(1)<<22 | uint32(0b00001)<<7 | uint32(isa.OpJal)<<2 | 0b11
		d := isa.Decode(word)
		Expect(d.Opcode).To(Equal(isa.OpJal))
		Expect(int32(d.Imm)).To(Equal(int32(4)))
	})

	It("extracts CSR address and zimm for a CSR instruction", func() {
		// CSRRWI x1, mtvec, 5
		word := uint32(isa.CSRMtvec)<<20 | uint32(5)<<15 | uint32(isa.CSRRWI)<<12 | uint32(1)<<7 | uint32(isa.OpSystem)<<2 | 0b11
		d := isa.Decode(word)
		Expect(d.IsCSR()).To(BeTrue())
		Expect(d.IsImmediateCSR()).To(BeTrue())
		Expect(d.CSRAddr).To(Equal(isa.CSRMtvec))
		Expect(d.Zimm).To(Equal(uint32(5)))
	})

	It("does not treat SYSTEM funct3==0 (ECALL/MRET/EBREAK) as a CSR instruction", func() {
		d := isa.Decode(isa.WordECALL)
		Expect(d.IsCSR()).To(BeFalse())
	})
})
