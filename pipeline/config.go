package pipeline

// Config holds the handful of knobs New needs to build a pipeline,
// following the teacher's timing/latency TimingConfig pattern (a plain
// struct with a Default constructor) at a much smaller scope: this spec
// has no JSON-backed config file, just three values a caller sets
// programmatically or from CLI flags.
type Config struct {
	// MemorySize is the number of bytes of unified, byte-addressable
	// memory backing both instruction fetch and load/store.
	MemorySize int

	// MaxSettleIterations bounds how many passes a single cycle's
	// combinational settle may take before it's declared a
	// CombinationalLoopError. 0 falls back to the kernel's own
	// module-count-scaled default.
	MaxSettleIterations int

	// MaxRunCycles is the cycle budget Simulator.Run uses when a caller
	// passes 0, and, when positive, its ceiling for any larger request.
	MaxRunCycles uint64
}

// DefaultConfig returns the Config this package is built and tested
// against: 1 MiB of memory, the kernel's own settle bound, and a
// million-cycle run ceiling generous enough for any test program in this
// repo to either finish or hit a real fault first.
func DefaultConfig() Config {
	return Config{
		MemorySize:          1 << 20,
		MaxSettleIterations: 0,
		MaxRunCycles:        1_000_000,
	}
}
