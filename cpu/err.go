package cpu

import (
	"errors"

	"github.com/ezrec/m6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted    = errors.New(f("cpu halted"))
	ErrTruncated = errors.New(f("instruction truncated"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrModeInvalid        = errors.New(f("addressing mode invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrIllegalOpcode is reported when an undefined opcode is decoded.
type ErrIllegalOpcode struct {
	Opcode  uint8
	Address uint16
}

func (err ErrIllegalOpcode) Error() string {
	return f("illegal opcode $%02x at $%04x", err.Opcode, err.Address)
}

func (err ErrIllegalOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrIllegalOpcode)
	return
}

// ErrUnresolvedMode is an instruction whose mnemonic and addressing mode
// have no execution semantics.
type ErrUnresolvedMode struct {
	Instruction Instruction
}

func (err ErrUnresolvedMode) Error() string {
	return f("unresolved addressing mode %v for %v", err.Instruction.Mode, err.Instruction.Mnemonic)
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperandRange is an operand value that does not fit its encoding.
type ErrOperandRange struct {
	Value int64
	Bytes int
}

func (err ErrOperandRange) Error() string {
	return f("operand %v does not fit in %v byte(s)", err.Value, err.Bytes)
}

// ErrBranchRange is a branch whose target is beyond a signed 8-bit
// displacement.
type ErrBranchRange struct {
	From   uint16
	Target uint16
}

func (err ErrBranchRange) Error() string {
	return f("branch from $%04x to $%04x out of range", err.From, err.Target)
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
