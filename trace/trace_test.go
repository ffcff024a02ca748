package trace_test

import (
	"bytes"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
	"github.com/AlyanTheCodingLegend/rv32pipesim/trace"
)

var _ = Describe("Capture", func() {
	It("reports a Quiescent snapshot before anything is loaded", func() {
		p := pipeline.New(pipeline.Config{MemorySize: 4096})
		snap := trace.Capture(p)
		Expect(snap.Quiescent()).To(BeTrue())
		Expect(snap.PC).To(Equal(uint32(0)))
	})

	It("diffs two distinct cycles with go-cmp down to the changed fields", func() {
		p := pipeline.New(pipeline.Config{MemorySize: 4096})
		prog := []byte{
			0x93, 0x00, 0x50, 0x00, // addi x1, x0, 5
			0x13, 0x01, 0xa0, 0x00, // addi x2, x0, 10
		}
		Expect(p.LoadBinary(prog)).To(Succeed())

		before := trace.Capture(p)
		_, err := p.Run(10, nil)
		Expect(err).NotTo(HaveOccurred())
		after := trace.Capture(p)

		Expect(before).NotTo(Equal(after))
		diff := cmp.Diff(before, after)
		Expect(diff).NotTo(BeEmpty())
		Expect(after.Regs[1]).To(Equal(uint32(5)))
		Expect(after.Regs[2]).To(Equal(uint32(10)))
	})
})

var _ = Describe("WriteLine and WriteVerbose", func() {
	It("render without erroring and mention the fetched mnemonic", func() {
		p := pipeline.New(pipeline.Config{MemorySize: 4096})
		Expect(p.LoadBinary([]byte{0x93, 0x00, 0x50, 0x00})).To(Succeed())

		var buf bytes.Buffer
		snap := trace.Capture(p)
		Expect(trace.WriteLine(&buf, snap)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("cycle"))

		buf.Reset()
		Expect(trace.WriteVerbose(&buf, snap)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("[IF]"))
		Expect(buf.String()).To(ContainSubstring("[MEM/WB]"))
	})
})
