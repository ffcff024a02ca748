// Package sim is the datapath modeling substrate: Port, Wire, Module, Reg,
// and the Simulator kernel that settles a combinational module graph to a
// fixed point each cycle and commits registers at the clock edge. It is the
// general-purpose layer the RV32I pipeline (package pipeline) is built on;
// nothing in this package knows about RISC-V.
package sim

// Port is a signal endpoint carrying a value of type T. A Port is either
// driven directly by its owning Module's Process (via Write) or wired to
// mirror another Port's value (via Connect, the Go stand-in for pyv's
// `dst << src`). Reading always returns the most recently written value;
// writing the same value is idempotent and does not perturb the kernel's
// settle loop.
//
// T is constrained to comparable so Write can detect a real change without
// a reflection-based deep-equal; every payload type in this simulator
// (bool, uint32, and the plain-old-data IFID_t/IDEX_t/EXMEM_t/MEMWB_t
// aggregates) satisfies this trivially.
type Port[T comparable] struct {
	value   T
	kernel  *Kernel
	forward *Port[T]
}

// NewPort creates a port owned by the given kernel (nil is allowed for
// ports used outside a kernel, e.g. in unit tests of a single Module).
func NewPort[T comparable](k *Kernel) *Port[T] {
	return &Port[T]{kernel: k}
}

// NewConstant creates a read-only port that always returns v. It is never
// written by a module's Process and never participates in settling — the
// Go equivalent of pyv's Constant(value), used to tie off an unused
// stall/flush input.
func NewConstant[T comparable](v T) *Port[T] {
	return &Port[T]{value: v}
}

// Read returns the port's current value, following a Connect chain if one
// was established.
func (p *Port[T]) Read() T {
	if p.forward != nil {
		return p.forward.Read()
	}
	return p.value
}

// Write sets the port's value. Writing to a port that is itself the
// destination of a Connect is a wiring bug and panics immediately, the way
// writing to a pyv port with an established driver would be a programming
// error in that model too.
func (p *Port[T]) Write(v T) {
	if p.forward != nil {
		panic("sim: write to a port driven by Connect")
	}
	if p.value == v {
		return
	}
	p.value = v
	if p.kernel != nil {
		p.kernel.markDirty()
	}
}

// Connect makes dst mirror src: every Read on dst returns src.Read(). This
// is the Go equivalent of pyv's `dst << src` output-wiring idiom. dst must
// not already have been written to directly.
func Connect[T comparable](dst, src *Port[T]) {
	dst.forward = src
}
