package io

import (
	"log"
)

// Rom overlays read-only data on a Bus. Reads inside the image come from
// Data, writes inside the image are dropped. Everything else passes through.
type Rom struct {
	Bus     Bus     // Underlying bus.
	Verbose bool    // Set to log dropped writes.
	Base    uint16  // Address of Data[0].
	Data    []uint8 // ROM image. Empty for a pass-through.
}

var _ Bus = (*Rom)(nil)

func (rom *Rom) offset(address uint16) (index int, ok bool) {
	index = int(address) - int(rom.Base)
	ok = index >= 0 && index < len(rom.Data)
	return
}

// Load replaces the ROM image.
func (rom *Rom) Load(base uint16, data []uint8) (err error) {
	if int(base)+len(data) > MEMORY_SIZE {
		err = &ErrLoadOverflow{Base: base, Length: len(data)}
		return
	}

	rom.Base = base
	rom.Data = data
	return
}

// Read returns the ROM byte, or the underlying bus byte.
func (rom *Rom) Read(address uint16) uint8 {
	index, ok := rom.offset(address)
	if ok {
		return rom.Data[index]
	}

	return rom.Bus.Read(address)
}

// Write passes writes outside the image to the underlying bus.
func (rom *Rom) Write(address uint16, value uint8) {
	_, ok := rom.offset(address)
	if ok {
		if rom.Verbose {
			log.Printf("rom: write $%02x to $%04x dropped", value, address)
		}
		return
	}

	rom.Bus.Write(address, value)
}
