package core

import "github.com/AlyanTheCodingLegend/rv32pipesim/simerr"

// DefaultMemorySize is the byte-array size NewMemory uses when given a
// non-positive size.
const DefaultMemorySize = 8 * 1024

// Memory is a flat, byte-addressable, little-endian RAM. It models two
// independent read ports (instruction fetch and data load) and one write
// port (data store); nothing in this type enforces port exclusivity beyond
// offering three separate methods for the three accesses the pipeline
// performs per cycle; pipeline wiring is responsible for calling the right
// one from the right stage.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zeroed Memory of size bytes.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the memory's capacity in bytes.
func (m *Memory) Size() int {
	return len(m.bytes)
}

// Reset zeroes every byte.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

func (m *Memory) bounds(addr uint32, size int) error {
	if int(addr)+size > len(m.bytes) || int64(addr)+int64(size) > int64(len(m.bytes)) {
		return &simerr.OutOfBoundsMemoryError{Addr: addr, Size: size, MemSize: len(m.bytes)}
	}
	return nil
}

// Read8 reads a single byte at addr.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	if err := m.bounds(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// Write8 writes a single byte at addr.
func (m *Memory) Write8(addr uint32, v uint8) error {
	if err := m.bounds(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = v
	return nil
}

// Read16 reads a little-endian halfword at addr.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	if err := m.bounds(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

// Write16 writes a little-endian halfword at addr.
func (m *Memory) Write16(addr uint32, v uint16) error {
	if err := m.bounds(addr, 2); err != nil {
		return err
	}
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
	return nil
}

// Read32 reads a little-endian word at addr.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	if err := m.bounds(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.bytes[addr]) |
		uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 |
		uint32(m.bytes[addr+3])<<24, nil
}

// Write32 writes a little-endian word at addr.
func (m *Memory) Write32(addr uint32, v uint32) error {
	if err := m.bounds(addr, 4); err != nil {
		return err
	}
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
	m.bytes[addr+2] = byte(v >> 16)
	m.bytes[addr+3] = byte(v >> 24)
	return nil
}

// LoadImage copies data into memory starting at address 0, the layout
// load_binary/load_instructions assume for a flat program image.
func (m *Memory) LoadImage(data []byte) error {
	if err := m.bounds(0, len(data)); err != nil {
		return err
	}
	copy(m.bytes, data)
	return nil
}

// ReadRange copies n bytes starting at addr, for the read_data_mem /
// read_inst_mem inspection API. It does not honor funct3 width/sign rules;
// those live in LoadWidth below.
func (m *Memory) ReadRange(addr uint32, n int) ([]byte, error) {
	if err := m.bounds(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.bytes[addr:int(addr)+n])
	return out, nil
}

// Alignment returns the mask of low address bits that must be zero for a
// memory access of the given funct3 width (0, 1 or 3). Byte accesses need
// no alignment.
func Alignment(funct3 uint32) uint32 {
	switch funct3 & 0x3 {
	case 0: // byte
		return 0
	case 1: // halfword
		return 1
	default: // word
		return 3
	}
}

// IsAligned reports whether addr satisfies the natural alignment for a
// memory access of the given funct3 width.
func IsAligned(addr uint32, funct3 uint32) bool {
	return addr&Alignment(funct3) == 0
}

// LoadWidth performs a load honoring the RV32I funct3 width/sign encoding
// (LB/LH/LW/LBU/LHU), returning the sign- or zero-extended 32-bit result.
// Callers must check IsAligned themselves; LoadWidth does not.
func (m *Memory) LoadWidth(addr uint32, funct3 uint32) (uint32, error) {
	switch funct3 {
	case 0x0: // LB
		v, err := m.Read8(addr)
		return uint32(int32(int8(v))), err
	case 0x1: // LH
		v, err := m.Read16(addr)
		return uint32(int32(int16(v))), err
	case 0x2: // LW
		return m.Read32(addr)
	case 0x4: // LBU
		v, err := m.Read8(addr)
		return uint32(v), err
	case 0x5: // LHU
		v, err := m.Read16(addr)
		return uint32(v), err
	default:
		panic("core: LoadWidth called with a non-load funct3")
	}
}

// StoreWidth performs a store honoring the RV32I funct3 width encoding
// (SB/SH/SW); the value is truncated to the store width.
func (m *Memory) StoreWidth(addr uint32, funct3 uint32, value uint32) error {
	switch funct3 {
	case 0x0: // SB
		return m.Write8(addr, uint8(value))
	case 0x1: // SH
		return m.Write16(addr, uint16(value))
	case 0x2: // SW
		return m.Write32(addr, value)
	default:
		panic("core: StoreWidth called with a non-store funct3")
	}
}
