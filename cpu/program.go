package cpu

import (
	"iter"

	"github.com/ezrec/m6502/io"
)

// Link is an operand that refers to a label defined later in the source.
type Link struct {
	Label    string // Label name.
	Offset   int    // Offset of the operand in the opcode bytes.
	Size     int    // Operand size, in bytes.
	Relative bool   // Set for branch displacements.
}

// Opcode is a single line of assembled source.
type Opcode struct {
	LineNo      int         // Source line number.
	Address     uint16      // Address of the first byte.
	Words       []string    // Source words, after expansion.
	Instruction Instruction // Instruction, if not a data directive.
	Bytes       []uint8     // Encoded bytes.
	Links       []Link      // Unresolved label references, if any.
}

type Program struct {
	Origin  uint16 // Address of the first opcode.
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that contains an address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && int(address-op.Address) < len(op.Bytes) {
			index := int(address - op.Address)
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  index,
			}
			break
		}
	}

	return
}

// Codes iterates over every assembled byte, with its address.
func (prog *Program) Codes() iter.Seq2[uint16, uint8] {
	return func(yield func(address uint16, code uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Bytes {
				if !yield(op.Address+uint16(n), code) {
					return
				}
			}
		}
	}
}

// Binary returns the program as a flat image, starting at the lowest
// address used. Gaps are zero filled.
func (prog *Program) Binary() (base uint16, bin []uint8) {
	if len(prog.Opcodes) == 0 {
		base = prog.Origin
		return
	}

	low := int(prog.Opcodes[0].Address)
	high := low
	for address := range prog.Codes() {
		low = min(low, int(address))
		high = max(high, int(address))
	}

	base = uint16(low)
	bin = make([]uint8, high-low+1)
	for address, code := range prog.Codes() {
		bin[int(address)-low] = code
	}

	return
}

// Load writes the program onto a bus.
func (prog *Program) Load(bus io.Bus) {
	for address, code := range prog.Codes() {
		bus.Write(address, code)
	}
}
