package fastvm

import "github.com/holiman/uint256"

// Memory is the byte-addressable linear memory of one frame. It grows
// monotonically in 32-byte words, zero-filled, and never shrinks;
// expansion is the only way its size changes and is charged through
// memoryGasCost before Resize is invoked.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

func newMemory() *Memory {
	return &Memory{}
}

// Resize grows memory to at least size bytes, rounded up to a word.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	m.store = append(m.store, make([]byte, toWordSize(size)*32-uint64(len(m.store)))...)
}

// Set copies value into memory at offset. The caller has already
// resized; out-of-range writes are engine bugs.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a right-aligned 32-byte word at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// SetByte writes a single byte at offset.
func (m *Memory) SetByte(offset uint64, b byte) {
	m.store[offset] = b
}

// GetCopy returns a fresh copy of the memory slice [offset, offset+size).
func (m *Memory) GetCopy(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	cpy := make([]byte, size)
	copy(cpy, m.store[offset:offset+size])
	return cpy
}

// GetPtr returns a view into memory valid until the next write.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

func (m *Memory) Len() int {
	return len(m.store)
}
