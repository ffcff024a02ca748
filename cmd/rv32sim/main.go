// Command rv32sim loads a flat RV32I binary and runs it on the 5-stage
// pipeline, printing a final register dump. It is a thin, flag-parsed
// CLI restricted to this spec's scope — no ELF, no timing-config JSON —
// grounded on the teacher's cmd/m2sim flag/err-reporting idiom.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlyanTheCodingLegend/rv32pipesim/disasm"
	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
	"github.com/AlyanTheCodingLegend/rv32pipesim/simulator"
	"github.com/AlyanTheCodingLegend/rv32pipesim/trace"
)

var (
	memSize    = flag.Int("mem", 1<<20, "memory size in bytes")
	maxCycles  = flag.Uint64("cycles", 1_000_000, "maximum cycles to run")
	verbose    = flag.Bool("v", false, "print a per-cycle trace")
	showBinary = flag.Bool("disasm", false, "print the disassembly of the loaded image and exit")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program.bin>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	programPath := flag.Arg(0)

	cfg := pipeline.DefaultConfig()
	cfg.MemorySize = *memSize
	sim := simulator.New(cfg)

	if err := sim.LoadBinary(programPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	if err := sim.RunCombLogic(); err != nil {
		fmt.Fprintf(os.Stderr, "Error settling initial state: %v\n", err)
		os.Exit(1)
	}

	if *showBinary {
		printDisassembly(sim)
		return
	}

	if *verbose {
		_ = trace.WriteVerbose(os.Stdout, sim.Snapshot())
	}

	ran, err := sim.Run(*maxCycles, func() bool {
		if *verbose {
			_ = trace.WriteVerbose(os.Stdout, sim.Snapshot())
		} else {
			_ = trace.WriteLine(os.Stdout, sim.Snapshot())
		}
		return false
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation stopped after %d cycles: %v\n", ran, err)
		os.Exit(1)
	}

	fmt.Printf("\nRan %d cycles\n", sim.GetCycles())
	fmt.Printf("Final PC: 0x%08x\n", sim.ReadPC())
	fmt.Println("Registers:")
	snap := sim.Snapshot()
	for i := 0; i < 32; i += 4 {
		fmt.Printf("  x%-2d=0x%08x x%-2d=0x%08x x%-2d=0x%08x x%-2d=0x%08x\n",
			i, snap.Regs[i], i+1, snap.Regs[i+1], i+2, snap.Regs[i+2], i+3, snap.Regs[i+3])
	}
}

// printDisassembly walks memory from address 0 until it hits unallocated
// memory or a run of trailing zero words, a heuristic for "end of the
// loaded image" since a flat binary has no header recording its own
// length.
func printDisassembly(sim *simulator.Simulator) {
	zeroRun := 0
	for addr := uint32(0); zeroRun < 4; addr += 4 {
		word, err := sim.ReadInstMem(addr, 4)
		if err != nil {
			break
		}
		w := uint32(word[0]) | uint32(word[1])<<8 | uint32(word[2])<<16 | uint32(word[3])<<24
		if w == 0 {
			zeroRun++
			continue
		}
		zeroRun = 0
		mnemonic, ops := disasm.Disassemble(w)
		fmt.Printf("0x%08x: %-8s %s\n", addr, mnemonic, ops)
	}
}
