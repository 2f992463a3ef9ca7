// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package disasm

import (
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"strings"

	"github.com/ezrec/m6502/cpu"
	m6502io "github.com/ezrec/m6502/io"
)

// Policy selects how undecodable bytes are handled.
type Policy int

const (
	POLICY_ABORT = Policy(iota) // Stop at the first illegal opcode.
	POLICY_SKIP                 // Render the byte as data, and continue.
)

func (p Policy) String() string {
	switch p {
	case POLICY_ABORT:
		return "abort"
	case POLICY_SKIP:
		return "skip"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Line is a single disassembled instruction, or a run of data bytes.
type Line struct {
	Address     uint16          // Address of the first byte.
	Bytes       []uint8         // Bytes consumed.
	Instruction cpu.Instruction // Decoded instruction.
	Operand     cpu.Operand     // Decoded operand.
	Err         error           // Set if the bytes did not decode.
}

// Length returns the number of bytes consumed.
func (line Line) Length() int {
	return len(line.Bytes)
}

// Text returns the line without its address.
func (line Line) Text() string {
	if line.Err != nil || !line.Instruction.Defined() {
		values := make([]string, len(line.Bytes))
		for n, value := range line.Bytes {
			values[n] = fmt.Sprintf("$%02x", value)
		}
		return ".byte " + strings.Join(values, ",")
	}

	text := line.Instruction.Mnemonic.String()
	syntax := line.Operand.Syntax(line.Address)
	if len(syntax) > 0 {
		text += " " + syntax
	}

	return text
}

// String returns the line as "ADDRESS: MNEMONIC OPERAND".
func (line Line) String() string {
	return fmt.Sprintf("%04x: %v", line.Address, line.Text())
}

// Disassembler converts machine code to text.
type Disassembler struct {
	Verbose bool   // If set, logs each illegal opcode.
	Base    uint16 // Address of the first byte of the buffer.
	Policy  Policy // Illegal opcode handling.
}

// Lines iterates over the instructions in buf. The buffer is never
// modified. Under POLICY_ABORT the sequence ends after the first line
// with an error.
func (dis *Disassembler) Lines(buf []uint8) iter.Seq2[uint16, Line] {
	return func(yield func(address uint16, line Line) bool) {
		offset := 0
		for offset < len(buf) {
			address := dis.Base + uint16(offset)
			line := Line{
				Address:     address,
				Instruction: cpu.Decode(buf[offset]),
			}

			var err error
			line.Operand, err = cpu.DecodeOperand(line.Instruction.Mode, buf[offset:])
			switch {
			case !line.Instruction.Defined():
				line.Err = cpu.ErrIllegalOpcode{Opcode: buf[offset], Address: address}
				line.Operand.Length = 1
			case err != nil:
				// Consume the rest of the buffer.
				line.Err = ErrTruncated{Address: address, Instruction: line.Instruction}
				line.Operand.Length = len(buf) - offset
			}

			line.Bytes = slices.Clone(buf[offset : offset+line.Operand.Length])
			offset += line.Operand.Length

			if line.Err != nil && dis.Verbose {
				log.Printf("disasm: %v", line.Err)
			}

			if !yield(address, line) {
				return
			}

			if line.Err != nil && dis.Policy == POLICY_ABORT {
				return
			}
		}
	}
}

// Write writes the disassembly of buf, one line per instruction.
// Under POLICY_ABORT the first decode error is returned.
func (dis *Disassembler) Write(w io.Writer, buf []uint8) (err error) {
	for _, line := range dis.Lines(buf) {
		if line.Err != nil && dis.Policy == POLICY_ABORT {
			err = line.Err
			return
		}
		_, err = fmt.Fprintln(w, line.String())
		if err != nil {
			return
		}
	}

	return
}

// At disassembles the instruction at an address on a bus.
func At(bus m6502io.Bus, address uint16) (line Line) {
	buf := make([]uint8, 3)
	for n := range buf {
		buf[n] = bus.Read(address + uint16(n))
	}

	dis := &Disassembler{Base: address, Policy: POLICY_SKIP}
	for _, line = range dis.Lines(buf) {
		break
	}

	return
}
