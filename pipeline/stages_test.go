package pipeline_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlyanTheCodingLegend/rv32pipesim/core"
	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
	"github.com/AlyanTheCodingLegend/rv32pipesim/simerr"
)

var _ = Describe("FetchStage", func() {
	It("fetches the word at the given PC", func() {
		k := sim.NewKernel()
		mem := core.NewMemory(64)
		Expect(mem.LoadImage(encodeProgram(addi(1, 0, 5), addi(2, 0, 6)))).To(Succeed())
		f := pipeline.NewFetchStage(k, mem)
		k.AddModule(f)

		f.PC.Write(4)
		Expect(k.Settle()).To(Succeed())
		Expect(f.Out.Read().Inst).To(Equal(addi(2, 0, 6)))
		Expect(f.Misaligned.Read()).To(BeFalse())
		Expect(f.Fault).NotTo(HaveOccurred())
	})

	It("flags a misaligned PC without touching memory", func() {
		k := sim.NewKernel()
		mem := core.NewMemory(64)
		f := pipeline.NewFetchStage(k, mem)
		k.AddModule(f)

		f.PC.Write(6)
		Expect(k.Settle()).To(Succeed())
		Expect(f.Misaligned.Read()).To(BeTrue())
	})

	It("records a fault on an out-of-bounds PC", func() {
		k := sim.NewKernel()
		mem := core.NewMemory(16)
		f := pipeline.NewFetchStage(k, mem)
		k.AddModule(f)

		f.PC.Write(16)
		Expect(k.Settle()).To(Succeed())
		var oob *simerr.OutOfBoundsMemoryError
		Expect(errors.As(f.Fault, &oob)).To(BeTrue())
	})
})

var _ = Describe("DecodeStage", func() {
	var (
		k  *sim.Kernel
		rf *core.RegFile
		d  *pipeline.DecodeStage
	)

	BeforeEach(func() {
		k = sim.NewKernel()
		rf = core.NewRegFile()
		d = pipeline.NewDecodeStage(k, rf)
		k.AddModule(d)
	})

	decode := func(inst uint32) pipeline.IDEXRecord {
		d.In.Write(pipeline.IFIDRecord{Inst: inst, PC: 0})
		Expect(k.Settle()).To(Succeed())
		return d.Out.Read()
	}

	It("marks an ALU op as register-writing with an ALU writeback source", func() {
		rec := decode(add(3, 1, 2))
		Expect(rec.We).To(BeTrue())
		Expect(rec.WBSel).To(Equal(isa.WBAlu))
	})

	It("marks a load as memory-sourced", func() {
		rec := decode(lw(2, 1, 0))
		Expect(rec.We).To(BeTrue())
		Expect(rec.WBSel).To(Equal(isa.WBMem))
		Expect(rec.Mem).To(Equal(isa.MemLoad))
	})

	It("marks a store as a memory write with no register writeback", func() {
		rec := decode(sw(1, 2, 0))
		Expect(rec.We).To(BeFalse())
		Expect(rec.Mem).To(Equal(isa.MemStore))
	})

	It("recognizes ECALL", func() {
		rec := decode(isa.WordECALL)
		Expect(rec.IsECall).To(BeTrue())
	})

	It("recognizes MRET", func() {
		rec := decode(isa.WordMRET)
		Expect(rec.IsMRet).To(BeTrue())
	})

	It("flags a CSR instruction addressing an unimplemented CSR as illegal", func() {
		word := uint32(0x7ff)<<20 | uint32(1)<<15 | uint32(isa.CSRRWI)<<12 | uint32(1)<<7 | uint32(isa.OpSystem)<<2 | 0b11
		rec := decode(word)
		Expect(rec.IsIllegal).To(BeTrue())
	})

	It("populates CSR fields for an implemented CSR instruction", func() {
		word := uint32(isa.CSRMtvec)<<20 | uint32(5)<<15 | uint32(isa.CSRRWI)<<12 | uint32(1)<<7 | uint32(isa.OpSystem)<<2 | 0b11
		rec := decode(word)
		Expect(rec.IsIllegal).To(BeFalse())
		Expect(rec.CSRWe).To(BeTrue())
		Expect(rec.CSRAddr).To(Equal(isa.CSRMtvec))
		Expect(rec.CSROperand).To(Equal(uint32(5)))
	})

	It("flags an unrecognized opcode as illegal", func() {
		rec := decode(0b1111111) // a reserved opcode family, none of R/I/S/B/U/J/SYSTEM
		Expect(rec.IsIllegal).To(BeTrue())
	})
})

var _ = Describe("ExecuteStage", func() {
	var (
		k   *sim.Kernel
		csr *core.CSRFile
		e   *pipeline.ExecuteStage
	)

	BeforeEach(func() {
		k = sim.NewKernel()
		csr = core.NewCSRFile()
		e = pipeline.NewExecuteStage(k, csr)
		k.AddModule(e)
	})

	run := func(idex pipeline.IDEXRecord) pipeline.EXMEMRecord {
		e.In.Write(idex)
		Expect(k.Settle()).To(Succeed())
		return e.Out.Read()
	}

	It("executes an OP instruction through the ALU", func() {
		rec := run(pipeline.IDEXRecord{Opcode: isa.OpOp, Funct3: isa.F3Add, Funct7: isa.Funct7Base, RS1Val: 2, RS2Val: 3})
		Expect(rec.ALURes).To(Equal(uint32(5)))
	})

	It("computes a branch target and TakeBranch for a taken JAL", func() {
		rec := run(pipeline.IDEXRecord{PC: 100, Opcode: isa.OpJal, Imm: 8})
		Expect(rec.ALURes).To(Equal(uint32(108)))
		Expect(rec.TakeBranch).To(BeTrue())
	})

	It("evaluates a branch condition and computes the branch target", func() {
		rec := run(pipeline.IDEXRecord{PC: 100, Opcode: isa.OpBranch, Funct3: isa.F3Beq, Imm: 8, RS1Val: 7, RS2Val: 7})
		Expect(rec.TakeBranch).To(BeTrue())
		Expect(rec.ALURes).To(Equal(uint32(108)))
	})

	It("reads and applies a CSR read-modify-write", func() {
		Expect(csr.Write(isa.CSRMtvec, 0x10)).To(Succeed())
		rec := run(pipeline.IDEXRecord{
			Opcode: isa.OpSystem, CSRWe: true, CSRAddr: isa.CSRMtvec,
			CSRCmd: isa.CSRRS, CSROperand: 0x01,
		})
		Expect(rec.CSRReadVal).To(Equal(uint32(0x10)))
		Expect(rec.CSRWriteVal).To(Equal(uint32(0x11)))
	})
})

var _ = Describe("MemStage", func() {
	var (
		k   *sim.Kernel
		mem *core.Memory
		m   *pipeline.MemStage
	)

	BeforeEach(func() {
		k = sim.NewKernel()
		mem = core.NewMemory(64)
		m = pipeline.NewMemStage(k, mem)
		k.AddModule(m)
	})

	It("stores then loads a word at the same address", func() {
		m.In.Write(pipeline.EXMEMRecord{ALURes: 16, RS2Val: 0xdeadbeef, Mem: isa.MemStore, Funct3: isa.F3Sw})
		Expect(k.Settle()).To(Succeed())
		Expect(m.Misaligned.Read()).To(BeFalse())

		m.In.Write(pipeline.EXMEMRecord{ALURes: 16, We: true, Mem: isa.MemLoad, Funct3: isa.F3Lw, Rd: 1})
		Expect(k.Settle()).To(Succeed())
		Expect(m.Out.Read().MemRdata).To(Equal(uint32(0xdeadbeef)))
	})

	It("suppresses writeback on a misaligned access", func() {
		m.In.Write(pipeline.EXMEMRecord{ALURes: 15, We: true, Mem: isa.MemLoad, Funct3: isa.F3Lw, Rd: 1})
		Expect(k.Settle()).To(Succeed())
		Expect(m.Misaligned.Read()).To(BeTrue())
		Expect(m.Out.Read().We).To(BeFalse())
	})

	It("passes through a non-memory instruction untouched", func() {
		m.In.Write(pipeline.EXMEMRecord{ALURes: 99, We: true, Rd: 4})
		Expect(k.Settle()).To(Succeed())
		Expect(m.Misaligned.Read()).To(BeFalse())
		Expect(m.Out.Read().We).To(BeTrue())
	})
})

var _ = Describe("WritebackStage", func() {
	It("writes the ALU result for an ALU instruction", func() {
		k := sim.NewKernel()
		rf := core.NewRegFile()
		csr := core.NewCSRFile()
		w := pipeline.NewWritebackStage(k, rf, csr)
		k.AddModule(w)

		w.In.Write(pipeline.MEMWBRecord{We: true, Rd: 5, WBSel: isa.WBAlu, ALURes: 42})
		Expect(k.Settle()).To(Succeed())
		Expect(rf.Read(5)).To(Equal(uint32(42)))
	})

	It("writes the CSR file when CSRWe is set", func() {
		k := sim.NewKernel()
		rf := core.NewRegFile()
		csr := core.NewCSRFile()
		w := pipeline.NewWritebackStage(k, rf, csr)
		k.AddModule(w)

		w.In.Write(pipeline.MEMWBRecord{CSRWe: true, CSRAddr: isa.CSRMtvec, CSRWriteVal: 0x200})
		Expect(k.Settle()).To(Succeed())
		v, err := csr.Read(isa.CSRMtvec)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x200)))
	})
})
