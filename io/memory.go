package io

import (
	"iter"
)

const (
	MEMORY_SIZE = 0x10000 // Size of the 6502 address space.
)

// Memory is a flat, fully writable 64KiB address space.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

var _ Bus = (*Memory)(nil)

// Read returns the byte at address.
func (mem *Memory) Read(address uint16) uint8 {
	return mem.Data[address]
}

// Write stores value at address.
func (mem *Memory) Write(address uint16, value uint8) {
	mem.Data[address] = value
}

// Reset clears all of memory to zero.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

// Load copies a raw image into memory starting at base.
// The image must fit below the top of the address space.
func (mem *Memory) Load(base uint16, data []uint8) (err error) {
	if int(base)+len(data) > MEMORY_SIZE {
		err = &ErrLoadOverflow{Base: base, Length: len(data)}
		return
	}

	copy(mem.Data[base:], data)

	return
}

// Range returns an iterator over length bytes starting at address,
// wrapping at the top of memory.
func (mem *Memory) Range(address uint16, length int) iter.Seq2[uint16, uint8] {
	return func(yield func(address uint16, value uint8) bool) {
		for n := range length {
			here := address + uint16(n)
			if !yield(here, mem.Data[here]) {
				return
			}
		}
	}
}
