package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
)

var _ = Describe("ClassOf", func() {
	It("classifies R/I/S/B/U/J/SYSTEM opcodes", func() {
		Expect(isa.ClassOf(isa.OpOp)).To(Equal(isa.ClassR))
		Expect(isa.ClassOf(isa.OpOpImm)).To(Equal(isa.ClassI))
		Expect(isa.ClassOf(isa.OpLoad)).To(Equal(isa.ClassI))
		Expect(isa.ClassOf(isa.OpJalr)).To(Equal(isa.ClassI))
		Expect(isa.ClassOf(isa.OpStore)).To(Equal(isa.ClassS))
		Expect(isa.ClassOf(isa.OpBranch)).To(Equal(isa.ClassB))
		Expect(isa.ClassOf(isa.OpLui)).To(Equal(isa.ClassU))
		Expect(isa.ClassOf(isa.OpAuipc)).To(Equal(isa.ClassU))
		Expect(isa.ClassOf(isa.OpJal)).To(Equal(isa.ClassJ))
		Expect(isa.ClassOf(isa.OpSystem)).To(Equal(isa.ClassSystem))
	})

	It("reports ClassUnknown for an opcode with no RV32I meaning", func() {
		Expect(isa.ClassOf(isa.Opcode(0b10101))).To(Equal(isa.ClassUnknown))
	})
})

var _ = Describe("NeedsRS1 / NeedsRS2", func() {
	It("matches the hazard unit's register-usage table", func() {
		Expect(isa.NeedsRS1(isa.OpOp)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpOpImm)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpLoad)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpStore)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpBranch)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpJalr)).To(BeTrue())
		Expect(isa.NeedsRS1(isa.OpLui)).To(BeFalse())
		Expect(isa.NeedsRS1(isa.OpJal)).To(BeFalse())

		Expect(isa.NeedsRS2(isa.OpOp)).To(BeTrue())
		Expect(isa.NeedsRS2(isa.OpStore)).To(BeTrue())
		Expect(isa.NeedsRS2(isa.OpBranch)).To(BeTrue())
		Expect(isa.NeedsRS2(isa.OpOpImm)).To(BeFalse())
		Expect(isa.NeedsRS2(isa.OpJalr)).To(BeFalse())
	})
})

var _ = Describe("ABIRegNames", func() {
	It("names all 32 registers per the RISC-V calling convention", func() {
		Expect(isa.ABIRegNames[0]).To(Equal("zero"))
		Expect(isa.ABIRegNames[1]).To(Equal("ra"))
		Expect(isa.ABIRegNames[2]).To(Equal("sp"))
		Expect(isa.ABIRegNames[10]).To(Equal("a0"))
		Expect(isa.ABIRegNames[31]).To(Equal("t6"))
	})
})
