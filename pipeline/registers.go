package pipeline

import "github.com/AlyanTheCodingLegend/rv32pipesim/sim"

// StageReg wraps a sim.Reg[T] with the stall/flush mux every pipeline
// register in this design shares: flush takes priority over stall; a
// stalled register is left untouched (Reg's own Next-defaults-to-Cur
// behavior gives the hold for free); otherwise IN is latched through.
type StageReg[T comparable] struct {
	reg   *sim.Reg[T]
	In    *sim.Port[T]
	Stall *sim.Port[bool]
	Flush *sim.Port[bool]

	bubble T
}

// NewStageReg creates a pipeline register owned by kernel k, resetting and
// flushing to bubble.
func NewStageReg[T comparable](k *sim.Kernel, bubble T) *StageReg[T] {
	return &StageReg[T]{
		reg:    sim.NewReg[T](k, bubble),
		In:     sim.NewPort[T](k),
		Stall:  sim.NewConstant(false),
		Flush:  sim.NewConstant(false),
		bubble: bubble,
	}
}

// Out is the register's read-only output face, valid for the rest of the
// current settle pass once Process has run.
func (r *StageReg[T]) Out() *sim.Port[T] {
	return r.reg.Cur
}

// Process implements sim.Module.
func (r *StageReg[T]) Process() {
	switch {
	case r.Flush.Read():
		r.reg.Next.Write(r.bubble)
	case r.Stall.Read():
		// hold: leave Next untouched, which already mirrors Cur from the
		// prior commit.
	default:
		r.reg.Next.Write(r.In.Read())
	}
}
