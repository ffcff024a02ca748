// Package simulator is the External Interfaces façade §6 of the spec
// describes: it owns a pipeline.Pipeline and the loader/trace glue around
// it, and is the type a CLI or test harness actually constructs. It adds
// exactly one thing the Pipeline type itself doesn't track: the
// faulted latch §7 calls for — once Step or Run returns an error the
// simulator refuses further stepping until Reset clears it.
package simulator

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/loader"
	"github.com/AlyanTheCodingLegend/rv32pipesim/pipeline"
	"github.com/AlyanTheCodingLegend/rv32pipesim/simerr"
	"github.com/AlyanTheCodingLegend/rv32pipesim/trace"
)

// Error is the common interface every typed error this simulator raises
// implements (simerr's CombinationalLoop/IllegalInstruction/
// MisalignedAccess/OutOfBoundsMemory/InvalidBinary/CSRFault types): a
// Kind and the cycle it surfaced at. It is an alias, not a redeclaration,
// so a caller's errors.As against *simerr.OutOfBoundsMemoryError (etc.)
// still works unchanged.
type Error = simerr.Error

// Simulator wraps a pipeline.Pipeline with the faulted latch and
// convenience methods §6's programmatic API calls for.
type Simulator struct {
	pipe    *pipeline.Pipeline
	cfg     pipeline.Config
	faulted error
}

// New builds a Simulator from cfg.
func New(cfg pipeline.Config) *Simulator {
	return &Simulator{pipe: pipeline.New(cfg), cfg: cfg}
}

// NewDefault builds a Simulator from pipeline.DefaultConfig().
func NewDefault() *Simulator {
	return New(pipeline.DefaultConfig())
}

// LoadBinary reads the flat binary at path and loads it at address 0.
func (s *Simulator) LoadBinary(path string) error {
	data, err := loader.Load(path)
	if err != nil {
		return err
	}
	return s.LoadInstructions(data)
}

// LoadInstructions loads an in-memory flat image at address 0.
func (s *Simulator) LoadInstructions(data []byte) error {
	data, err := loader.LoadInstructions(data)
	if err != nil {
		return err
	}
	return s.pipe.LoadBinary(data)
}

// Reset returns every piece of architectural and pipeline state to its
// reset value and clears the faulted latch, per §7's "the caller may call
// reset() to recover".
func (s *Simulator) Reset() error {
	s.faulted = nil
	return s.pipe.Reset()
}

// Step runs exactly one cycle. Once any Step call fails, every subsequent
// Step (and Run) fails immediately with the same error until Reset is
// called — §7's "marks the simulator as faulted" propagation rule.
func (s *Simulator) Step() error {
	if s.faulted != nil {
		return s.faulted
	}
	if err := s.pipe.Step(); err != nil {
		s.faulted = err
		return err
	}
	return nil
}

// Run calls Step up to maxCycles times, stopping early on a Step error or
// when stop returns true after a completed cycle. A nil stop never stops
// the run early. A maxCycles of 0, or one above a positive
// cfg.MaxRunCycles, is replaced by cfg.MaxRunCycles.
func (s *Simulator) Run(maxCycles uint64, stop func() bool) (uint64, error) {
	if s.faulted != nil {
		return 0, s.faulted
	}
	if maxCycles == 0 || (s.cfg.MaxRunCycles > 0 && maxCycles > s.cfg.MaxRunCycles) {
		maxCycles = s.cfg.MaxRunCycles
	}
	var ran uint64
	for ran < maxCycles {
		if err := s.Step(); err != nil {
			return ran, err
		}
		ran++
		if stop != nil && stop() {
			break
		}
	}
	return ran, nil
}

// RunCombLogic re-settles the combinational graph without advancing the
// clock, so read-outs are valid immediately after a load.
func (s *Simulator) RunCombLogic() error {
	return s.pipe.RunCombLogic()
}

// ReadReg returns the architectural value of register idx (x0..x31).
func (s *Simulator) ReadReg(idx uint32) uint32 { return s.pipe.ReadReg(idx) }

// ReadPC returns the address IF is fetching this cycle.
func (s *Simulator) ReadPC() uint32 { return s.pipe.ReadPC() }

// ReadDataMem reads n bytes of memory starting at addr.
func (s *Simulator) ReadDataMem(addr uint32, n int) ([]byte, error) {
	return s.pipe.ReadDataMem(addr, n)
}

// ReadInstMem reads n bytes of memory starting at addr.
func (s *Simulator) ReadInstMem(addr uint32, n int) ([]byte, error) {
	return s.pipe.ReadInstMem(addr, n)
}

// GetCycles returns the number of cycles committed so far.
func (s *Simulator) GetCycles() uint64 { return s.pipe.GetCycles() }

// Snapshot returns the full diff-able pipeline state, per §6's
// snapshot() entry point.
func (s *Simulator) Snapshot() trace.Snapshot { return trace.Capture(s.pipe) }

// Faulted reports the error that put the simulator into its faulted
// latch, or nil if it is running cleanly.
func (s *Simulator) Faulted() error { return s.faulted }
