// Package loader reads a flat RV32I program image from disk. Unlike the
// teacher's ELF loader this core has no notion of segments, sections, or
// an entry point distinct from address 0: a flat binary is instructions
// and initial data laid out exactly as they should appear in memory,
// loaded starting at address 0.
package loader

import (
	"os"

	"github.com/AlyanTheCodingLegend/rv32pipesim/simerr"
)

// Load reads the flat binary at path and returns its raw bytes, ready for
// Pipeline.LoadBinary. It wraps any I/O failure in an InvalidBinaryError
// so callers can errors.As for the path/reason, the same wrapping idiom
// as the teacher's ELF Load uses %w for debug/elf's errors.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simerr.InvalidBinaryError{Path: path, Reason: "could not read file", Err: err}
	}
	return data, nil
}

// LoadInstructions is Load's in-memory counterpart: it validates that
// data is a whole number of 4-byte words, the only shape a flat RV32I
// image can sensibly have, wrapping a short or misaligned image in an
// InvalidBinaryError rather than silently truncating it.
func LoadInstructions(data []byte) ([]byte, error) {
	if len(data)%4 != 0 {
		return nil, &simerr.InvalidBinaryError{
			Reason: "image length is not a multiple of 4 bytes",
		}
	}
	return data, nil
}
