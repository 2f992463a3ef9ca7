package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Tape register offsets.
const (
	TAPE_BASE   = uint16(0xf000) // Default base address.
	TAPE_DATA   = uint16(0)      // Read: next input byte. Write: output byte.
	TAPE_STATUS = uint16(1)      // Read: TAPE_EOF once input is exhausted.

	TAPE_EOF = uint8(0x80)
)

// Tape maps a byte stream onto two bus addresses, passing every other
// access through to the underlying bus.
type Tape struct {
	Bus    Bus    // Underlying bus.
	Base   uint16 // Address of TAPE_DATA.
	Input  io.Reader
	Output io.Writer

	Err error // First output error, if any.

	eof bool
}

var _ Bus = (*Tape)(nil)

// Defines returns an iter of defines for the tape registers.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TAPE_DATA":   fmt.Sprintf("0x%x", tc.Base+TAPE_DATA),
		"TAPE_STATUS": fmt.Sprintf("0x%x", tc.Base+TAPE_STATUS),
		"TAPE_EOF":    fmt.Sprintf("0x%x", TAPE_EOF),
	})
}

// Rewind clears the end of input condition.
func (tc *Tape) Rewind() {
	tc.eof = false
	tc.Err = nil
}

// Read reads the next input byte from TAPE_DATA; zero at end of input.
func (tc *Tape) Read(address uint16) (value uint8) {
	switch address {
	case tc.Base + TAPE_DATA:
		if tc.eof || tc.Input == nil {
			tc.eof = true
			return
		}
		var one [1]byte
		_, err := io.ReadFull(tc.Input, one[:])
		if err != nil {
			tc.eof = true
			return
		}
		value = one[0]
	case tc.Base + TAPE_STATUS:
		if tc.eof {
			value = TAPE_EOF
		}
	default:
		value = tc.Bus.Read(address)
	}

	return
}

// Write sends a byte written to TAPE_DATA to the output.
func (tc *Tape) Write(address uint16, value uint8) {
	switch address {
	case tc.Base + TAPE_DATA:
		if tc.Output == nil {
			return
		}
		_, err := tc.Output.Write([]byte{value})
		if err != nil && tc.Err == nil {
			tc.Err = err
		}
	case tc.Base + TAPE_STATUS:
		// read only
	default:
		tc.Bus.Write(address, value)
	}
}
