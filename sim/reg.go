package sim

// Reg is an edge-triggered storage element with two faces: Cur (read-only
// to the outside world during a cycle's settle pass) and Next (the write
// target for whatever logic computes this register's future value). At the
// clock edge the kernel copies Next's value into Cur; if nothing wrote
// Next during the cycle, it defaults to holding Cur's prior value — the
// "hold" behavior stalls rely on.
type Reg[T comparable] struct {
	Cur  *Port[T]
	Next *Port[T]
	reset T
}

// NewReg creates a register owned by kernel k with the given reset value,
// and registers it with k so the kernel's CommitAndAdvance and Reset reach
// it at the right time.
func NewReg[T comparable](k *Kernel, reset T) *Reg[T] {
	r := &Reg[T]{reset: reset}
	r.Cur = &Port[T]{kernel: k, value: reset}
	r.Next = &Port[T]{kernel: k, value: reset}
	if k != nil {
		k.addRegister(r)
	}
	return r
}

// commit copies Next into Cur, then re-primes Next to hold that same value
// by default for the following cycle.
func (r *Reg[T]) commit() {
	r.Cur.value = r.Next.value
	r.Next.value = r.Cur.value
}

// resetReg returns both faces to the reset value.
func (r *Reg[T]) resetReg() {
	r.Cur.value = r.reset
	r.Next.value = r.reset
}
