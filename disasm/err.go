package disasm

import (
	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/translate"
)

var f = translate.From

// ErrTruncated is an instruction cut short by the end of the buffer.
type ErrTruncated struct {
	Address     uint16
	Instruction cpu.Instruction
}

func (err ErrTruncated) Error() string {
	return f("%v at $%04x truncated", err.Instruction.Mnemonic, err.Address)
}

func (err ErrTruncated) Unwrap() error {
	return cpu.ErrTruncated
}
