package sim

import "github.com/AlyanTheCodingLegend/rv32pipesim/simerr"

// register is the type-erased interface every Reg[T] satisfies, letting the
// kernel commit and reset registers of differing payload types uniformly.
type register interface {
	commit()
	resetReg()
}

// settleIterationFactor bounds the settle loop: settling is declared a
// combinational loop after settleIterationFactor * len(modules) passes
// without reaching a fixed point.
const settleIterationFactor = 1000

// Kernel orchestrates one cycle at a time: settle the combinational module
// graph to a fixed point, commit every register, advance the cycle count.
// It holds a non-owning view of the module graph (the Modules themselves,
// and any Regs/Ports they create, are owned by whatever constructed them);
// the kernel only needs enough of a handle on each to drive Process and
// Commit in the right order.
type Kernel struct {
	modules []Module
	regs    []register

	dirty bool
	cycle uint64

	// maxSettleIter overrides settleIterationFactor*len(modules) when
	// nonzero; set via SetMaxSettleIterations by a caller (pipeline.Config)
	// that wants a tighter or looser combinational-loop bound.
	maxSettleIter int
}

// NewKernel creates an empty kernel. Modules and Regs register themselves
// (via AddModule and NewReg) as they are constructed during wiring.
func NewKernel() *Kernel {
	return &Kernel{}
}

// SetMaxSettleIterations overrides the default settleIterationFactor-based
// bound on settle()'s fixed-point search. n <= 0 restores the default.
func (k *Kernel) SetMaxSettleIterations(n int) {
	k.maxSettleIter = n
}

// AddModule registers m as a settle participant. Modules must be added in
// an order such that, were the graph a DAG with Reg boundaries cut, earlier
// modules would not depend on later ones — not required for correctness
// (settle() iterates to a fixed point regardless of order) but it reduces
// the number of passes needed in the common case.
func (k *Kernel) AddModule(m Module) {
	k.modules = append(k.modules, m)
}

func (k *Kernel) addRegister(r register) {
	k.regs = append(k.regs, r)
}

func (k *Kernel) markDirty() {
	k.dirty = true
}

// Cycles returns the number of cycles committed so far.
func (k *Kernel) Cycles() uint64 {
	return k.cycle
}

// Reset returns every Reg to its reset value and zeroes the cycle counter.
// It does not re-settle the graph; callers that need up-to-date read-outs
// immediately after Reset should call RunCombLogic afterward.
func (k *Kernel) Reset() {
	for _, r := range k.regs {
		r.resetReg()
	}
	k.cycle = 0
}

// settle repeatedly calls Process on every registered module until a full
// pass produces no port-value change (a fixed point), or the iteration
// bound is exceeded, in which case it returns a CombinationalLoopError.
func (k *Kernel) settle() error {
	maxIter := k.maxSettleIter
	if maxIter <= 0 {
		maxIter = settleIterationFactor * len(k.modules)
	}
	if maxIter == 0 {
		maxIter = settleIterationFactor
	}

	for i := 0; i < maxIter; i++ {
		k.dirty = false
		for _, m := range k.modules {
			m.Process()
		}
		if !k.dirty {
			return nil
		}
	}

	return &simerr.CombinationalLoopError{Iterations: maxIter, ModuleCount: len(k.modules), Cyc: k.cycle}
}

// commit copies every Reg's Next into Cur.
func (k *Kernel) commit() {
	for _, r := range k.regs {
		r.commit()
	}
}

// Settle exposes the fixed-point combinational pass to callers (such as
// Pipeline.Step) that need to inspect module state between settling and
// committing — e.g. to discard a cycle on a memory fault without ever
// calling CommitAndAdvance.
func (k *Kernel) Settle() error {
	return k.settle()
}

// CommitAndAdvance copies every Reg's Next into Cur and advances the cycle
// counter. Paired with Settle so a caller can settle, inspect module Fault
// fields, and only then decide whether to commit.
func (k *Kernel) CommitAndAdvance() {
	k.commit()
	k.cycle++
}

// Step runs exactly one cycle: settle, then commit, then advance the cycle
// counter. If settling fails the cycle's registers are left uncommitted
// (the cycle is discarded) and the error is returned to the caller.
func (k *Kernel) Step() error {
	if err := k.settle(); err != nil {
		return err
	}
	k.CommitAndAdvance()
	return nil
}

// Run calls Step up to maxCycles times, stopping early (returning the
// error) if a Step fails, or if stop returns true after a completed cycle.
// A nil stop function never stops the run early.
func (k *Kernel) Run(maxCycles uint64, stop func() bool) (uint64, error) {
	var ran uint64
	for ran < maxCycles {
		if err := k.Step(); err != nil {
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
// clock or committing registers — used after loading a binary so that
// read-outs (e.g. the disassembly of the instruction at the reset PC) are
// valid before the first Step.
func (k *Kernel) RunCombLogic() error {
	return k.settle()
}
