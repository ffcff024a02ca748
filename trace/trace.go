// Package trace renders the simulator's per-cycle state for human
// inspection and diff-based testing. It plays the role the teacher
// repo's cmd/m2sim verbose printf reporting and the original Python
// implementation's pyv/edu_logger.py play: a dedicated, human-readable
// cycle-by-cycle report, not a leveled/structured logging library — the
// domain (a handful of lines per cycle) doesn't call for one.
package trace

import (
	"fmt"
	"io"

	"github.com/AlyanTheCodingLegend/rv32pipesim/disasm"
	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
)

// Snapshot is the external, diff-able view of the pipeline's full state
// at a point in time: PC, all 32 registers, and the four pipeline
// register contents. It is a plain value (no pointers into the
// simulator's own state) so a caller can retain or compare two of them
// after the simulator has moved on, and so go-cmp's cmp.Diff can report a
// meaningful field-level difference between two cycles.
type Snapshot struct {
	Cycle uint64
	PC    uint32
	Regs  [32]uint32

	IFID  pipeline.IFIDRecord
	IDEX  pipeline.IDEXRecord
	EXMEM pipeline.EXMEMRecord
	MEMWB pipeline.MEMWBRecord
}

// Capture reads every field §6's snapshot() entry point exposes off a
// live pipeline.
func Capture(p *pipeline.Pipeline) Snapshot {
	return Snapshot{
		Cycle: p.GetCycles(),
		PC:    p.ReadPC(),
		Regs:  p.RegSnapshot(),
		IFID:  p.IFID(),
		IDEX:  p.IDEX(),
		EXMEM: p.EXMEM(),
		MEMWB: p.MEMWB(),
	}
}

// Quiescent reports whether the pipeline has drained: all four pipeline
// registers hold bubble/reset-equivalent values. A viewer can poll this
// to detect an endless self-loop the way §6 describes, though most
// programs simply keep committing instructions forever and this never
// fires.
func (s Snapshot) Quiescent() bool {
	return s.IFID == pipeline.IFIDBubble &&
		s.IDEX == (pipeline.IDEXRecord{}) &&
		s.EXMEM == (pipeline.EXMEMRecord{}) &&
		s.MEMWB == (pipeline.MEMWBRecord{})
}

// WriteLine renders a single compact summary line for s to w: the cycle
// number, PC, and the disassembly of the instruction sitting in IF/ID —
// the line format a CLI's default (non-verbose) run prints per cycle.
func WriteLine(w io.Writer, s Snapshot) error {
	mnemonic, ops := disasm.Disassemble(s.IFID.Inst)
	_, err := fmt.Fprintf(w, "cycle %-6d pc=0x%08x  [%s] %s\n", s.Cycle, s.PC, mnemonic, ops)
	return err
}

// WriteVerbose renders the full per-stage block edu_logger.py's
// _log_pipelined_cycle produces: one line per pipeline register plus a
// final register-file dump, used by the CLI's -v flag.
func WriteVerbose(w io.Writer, s Snapshot) error {
	mnemonic, ops := disasm.Disassemble(s.IFID.Inst)
	if _, err := fmt.Fprintf(w, "=== cycle %d ===\n", s.Cycle); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[IF]    pc=0x%08x fetching=0x%08x [%s] %s\n",
		s.PC, s.IFID.Inst, mnemonic, ops); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[ID/EX] pc=0x%08x opcode=0x%02x rd=%s rs1=%s rs2=%s\n",
		uint32(s.IDEX.PC), uint32(s.IDEX.Opcode), disasm.RegTraceName(s.IDEX.Rd),
		disasm.RegTraceName(s.IDEX.RS1Idx), disasm.RegTraceName(s.IDEX.RS2Idx)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[EX/MEM] pc4=0x%08x alu=0x%08x take_branch=%v mem=%v\n",
		s.EXMEM.PC4, s.EXMEM.ALURes, s.EXMEM.TakeBranch, s.EXMEM.Mem); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[MEM/WB] rd=%s we=%v alu=0x%08x mem_rdata=0x%08x\n",
		disasm.RegTraceName(s.MEMWB.Rd), s.MEMWB.We, s.MEMWB.ALURes, s.MEMWB.MemRdata); err != nil {
		return err
	}
	for i := 0; i < 32; i += 4 {
		if _, err := fmt.Fprintf(w, "  x%-2d=0x%08x x%-2d=0x%08x x%-2d=0x%08x x%-2d=0x%08x\n",
			i, s.Regs[i], i+1, s.Regs[i+1], i+2, s.Regs[i+2], i+3, s.Regs[i+3]); err != nil {
			return err
		}
	}
	return nil
}
