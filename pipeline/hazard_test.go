package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
)

var _ = Describe("HazardUnit", func() {
	var (
		k *sim.Kernel
		h *pipeline.HazardUnit
	)

	BeforeEach(func() {
		k = sim.NewKernel()
		h = pipeline.NewHazardUnit(k)
		k.AddModule(h)
	})

	write := func(ifid pipeline.IFIDRecord, idex pipeline.IDEXRecord, exmem pipeline.EXMEMRecord) {
		h.IFID.Write(ifid)
		h.IDEX.Write(idex)
		h.EXMEM.Write(exmem)
		Expect(k.Settle()).To(Succeed())
	}

	It("stalls when the decoding instruction reads a register ID/EX will write", func() {
		ifid := pipeline.IFIDRecord{Inst: add(3, 1, 2)} // reads x1, x2
		idex := pipeline.IDEXRecord{Rd: 1, We: true}
		write(ifid, idex, pipeline.EXMEMRecord{})

		Expect(h.StallPC.Read()).To(BeTrue())
		Expect(h.StallIFID.Read()).To(BeTrue())
		Expect(h.FlushIDEX.Read()).To(BeTrue())
	})

	It("stalls when the decoding instruction reads a register EX/MEM will write", func() {
		ifid := pipeline.IFIDRecord{Inst: add(3, 1, 2)}
		exmem := pipeline.EXMEMRecord{Rd: 2, We: true}
		write(ifid, pipeline.IDEXRecord{}, exmem)

		Expect(h.StallPC.Read()).To(BeTrue())
	})

	It("does not stall on a dependency through x0", func() {
		ifid := pipeline.IFIDRecord{Inst: add(3, 0, 2)} // reads x0, x2
		idex := pipeline.IDEXRecord{Rd: 0, We: true}
		write(ifid, idex, pipeline.EXMEMRecord{})

		Expect(h.StallPC.Read()).To(BeFalse())
	})

	It("does not stall when there is no hazard", func() {
		ifid := pipeline.IFIDRecord{Inst: addi(3, 1, 5)}
		idex := pipeline.IDEXRecord{Rd: 9, We: true}
		exmem := pipeline.EXMEMRecord{Rd: 10, We: true}
		write(ifid, idex, exmem)

		Expect(h.StallPC.Read()).To(BeFalse())
		Expect(h.StallIFID.Read()).To(BeFalse())
		Expect(h.FlushIDEX.Read()).To(BeFalse())
	})

	It("ignores a producer that will not write back", func() {
		ifid := pipeline.IFIDRecord{Inst: add(3, 1, 2)}
		idex := pipeline.IDEXRecord{Rd: 1, We: false}
		write(ifid, idex, pipeline.EXMEMRecord{})

		Expect(h.StallPC.Read()).To(BeFalse())
	})

	It("stalls a store that reads a register ID/EX is about to write", func() {
		ifid := pipeline.IFIDRecord{Inst: sw(1, 2, 0)} // reads x1, x2; writes nothing
		idex := pipeline.IDEXRecord{Rd: 1, We: true}
		write(ifid, idex, pipeline.EXMEMRecord{})

		// x1 is read by the store (rs1) so this one still hazards.
		Expect(h.StallPC.Read()).To(BeTrue())
	})
})

