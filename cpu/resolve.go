package cpu

import (
	"fmt"

	"github.com/ezrec/m6502/io"
)

// Operand is the raw operand of an instruction, as encoded.
type Operand struct {
	Mode   Mode   // Addressing mode.
	Length int    // Instruction length in bytes, opcode included.
	Raw    uint16 // Operand bytes, little-endian.
}

// DecodeOperand decodes the operand of an instruction whose opcode is
// code[0]. No registers or memory are consulted.
func DecodeOperand(mode Mode, code []uint8) (op Operand, err error) {
	op = Operand{Mode: mode, Length: mode.Length()}

	if len(code) < op.Length {
		err = ErrTruncated
		return
	}

	switch op.Length {
	case 2:
		op.Raw = uint16(code[1])
	case 3:
		op.Raw = uint16(code[1]) | (uint16(code[2]) << 8)
	}

	return
}

// Target returns the branch target of a relative operand for an
// instruction located at pc.
func (op Operand) Target(pc uint16) uint16 {
	return pc + 2 + uint16(int16(int8(uint8(op.Raw))))
}

// Syntax returns the assembler syntax of the operand for an instruction
// located at pc. Implicit operands are empty.
func (op Operand) Syntax(pc uint16) string {
	switch op.Mode {
	case MODE_ACCUMULATOR:
		return "a"
	case MODE_IMMEDIATE:
		return fmt.Sprintf("#$%02x", op.Raw)
	case MODE_ZERO_PAGE:
		return fmt.Sprintf("$%02x", op.Raw)
	case MODE_ZERO_PAGE_X:
		return fmt.Sprintf("$%02x,x", op.Raw)
	case MODE_ZERO_PAGE_Y:
		return fmt.Sprintf("$%02x,y", op.Raw)
	case MODE_RELATIVE:
		return fmt.Sprintf("$%04x", op.Target(pc))
	case MODE_ABSOLUTE:
		return fmt.Sprintf("$%04x", op.Raw)
	case MODE_ABSOLUTE_X:
		return fmt.Sprintf("$%04x,x", op.Raw)
	case MODE_ABSOLUTE_Y:
		return fmt.Sprintf("$%04x,y", op.Raw)
	case MODE_INDIRECT:
		return fmt.Sprintf("($%04x)", op.Raw)
	case MODE_INDEXED_INDIRECT:
		return fmt.Sprintf("($%02x,x)", op.Raw)
	case MODE_INDIRECT_INDEXED:
		return fmt.Sprintf("($%02x),y", op.Raw)
	}
	return ""
}

// Resolved is an operand resolved against the register file and bus.
type Resolved struct {
	Operand
	Address uint16 // Effective address, for modes that reference memory.
	Value   uint8  // Immediate value, for MODE_IMMEDIATE.
}

// HasAddress returns true if the operand refers to a memory location.
func (res Resolved) HasAddress() bool {
	switch res.Mode {
	case MODE_UNDEFINED, MODE_IMPLICIT, MODE_ACCUMULATOR, MODE_IMMEDIATE:
		return false
	}
	return true
}

// readZeroPageWord reads a pointer from the zero page. The high byte
// wraps within the zero page.
func readZeroPageWord(bus io.Bus, zp uint8) uint16 {
	lo := uint16(bus.Read(uint16(zp)))
	hi := uint16(bus.Read(uint16(zp + 1)))
	return (hi << 8) | lo
}

// Resolve computes the effective operand of an instruction at pc. Operand
// bytes are read from pc+1 and pc+2. Resolution never fails; undefined
// instructions resolve to a one byte instruction with no operand.
func Resolve(bus io.Bus, pc uint16, mode Mode, x, y uint8) (res Resolved) {
	res.Mode = mode
	res.Length = mode.Length()

	switch res.Length {
	case 2:
		res.Raw = uint16(bus.Read(pc + 1))
	case 3:
		res.Raw = io.ReadWord(bus, pc+1)
	}

	switch mode {
	case MODE_UNDEFINED, MODE_IMPLICIT, MODE_ACCUMULATOR:
		// no operand
	case MODE_IMMEDIATE:
		res.Value = uint8(res.Raw)
	case MODE_ZERO_PAGE:
		res.Address = res.Raw
	case MODE_ZERO_PAGE_X:
		res.Address = uint16(uint8(res.Raw) + x)
	case MODE_ZERO_PAGE_Y:
		res.Address = uint16(uint8(res.Raw) + y)
	case MODE_RELATIVE:
		res.Address = res.Operand.Target(pc)
	case MODE_ABSOLUTE:
		res.Address = res.Raw
	case MODE_ABSOLUTE_X:
		res.Address = res.Raw + uint16(x)
	case MODE_ABSOLUTE_Y:
		res.Address = res.Raw + uint16(y)
	case MODE_INDIRECT:
		// The high byte of the pointer does not carry into the next page.
		lo := uint16(bus.Read(res.Raw))
		hi := uint16(bus.Read((res.Raw & 0xff00) | ((res.Raw + 1) & 0x00ff)))
		res.Address = (hi << 8) | lo
	case MODE_INDEXED_INDIRECT:
		res.Address = readZeroPageWord(bus, uint8(res.Raw)+x)
	case MODE_INDIRECT_INDEXED:
		res.Address = readZeroPageWord(bus, uint8(res.Raw)) + uint16(y)
	default:
		panic(ErrUnresolvedMode{Instruction: Instruction{Mode: mode}})
	}

	return
}
