package io

import (
	"log"
)

// Access is a single recorded bus cycle.
type Access struct {
	Address uint16
	Value   uint8
	Write   bool
}

// Trace wraps a Bus, counting and optionally logging or recording
// every access that passes through it.
type Trace struct {
	Bus     Bus  // Underlying bus.
	Verbose bool // Set to log every access.
	Record  bool // Set to append every access to Accesses.

	Reads    int
	Writes   int
	Accesses []Access
}

var _ Bus = (*Trace)(nil)

// Read reads from the underlying bus.
func (tr *Trace) Read(address uint16) (value uint8) {
	value = tr.Bus.Read(address)
	tr.Reads++

	if tr.Verbose {
		log.Printf("bus: read  %04x -> %02x", address, value)
	}
	if tr.Record {
		tr.Accesses = append(tr.Accesses, Access{Address: address, Value: value})
	}

	return
}

// Write writes to the underlying bus.
func (tr *Trace) Write(address uint16, value uint8) {
	tr.Bus.Write(address, value)
	tr.Writes++

	if tr.Verbose {
		log.Printf("bus: write %04x <- %02x", address, value)
	}
	if tr.Record {
		tr.Accesses = append(tr.Accesses, Access{Address: address, Value: value, Write: true})
	}
}

// Reset clears the counters and the recorded accesses.
func (tr *Trace) Reset() {
	tr.Reads = 0
	tr.Writes = 0
	tr.Accesses = tr.Accesses[:0]
}
