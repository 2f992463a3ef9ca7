// Package io provides the memory bus used by the 6502 core.
//
// The core only ever talks to a Bus. Memory is a flat 64KiB implementation
// suitable for hosts with no memory mapped devices, and Trace decorates any
// Bus with access logging and counters.
package io

// Bus is the byte addressable contract between the CPU and its host.
// Both operations are total over the 16-bit address space; mapping of
// addresses to RAM, ROM or devices is the host's responsibility.
type Bus interface {
	// Read returns the byte at address.
	Read(address uint16) uint8
	// Write stores value at address.
	Write(address uint16, value uint8)
}

// ReadWord reads a little-endian 16-bit word. The high byte address wraps
// modulo 65536.
func ReadWord(bus Bus, address uint16) uint16 {
	lo := uint16(bus.Read(address))
	hi := uint16(bus.Read(address + 1))
	return (hi << 8) | lo
}

// WriteWord writes a little-endian 16-bit word.
func WriteWord(bus Bus, address uint16, value uint16) {
	bus.Write(address, uint8(value&0xff))
	bus.Write(address+1, uint8(value>>8))
}
