// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
)

// Mnemonic is an operation kind of the 6502 instruction set.
type Mnemonic int

const (
	OP_UNDEFINED = Mnemonic(iota)
	OP_ADC
	OP_AND
	OP_ASL
	OP_BCC
	OP_BCS
	OP_BEQ
	OP_BIT
	OP_BMI
	OP_BNE
	OP_BPL
	OP_BRK
	OP_BVC
	OP_BVS
	OP_CLC
	OP_CLD
	OP_CLI
	OP_CLV
	OP_CMP
	OP_CPX
	OP_CPY
	OP_DEC
	OP_DEX
	OP_DEY
	OP_EOR
	OP_INC
	OP_INX
	OP_INY
	OP_JMP
	OP_JSR
	OP_LDA
	OP_LDX
	OP_LDY
	OP_LSR
	OP_NOP
	OP_ORA
	OP_PHA
	OP_PHP
	OP_PLA
	OP_PLP
	OP_ROL
	OP_ROR
	OP_RTI
	OP_RTS
	OP_SBC
	OP_SEC
	OP_SED
	OP_SEI
	OP_STA
	OP_STX
	OP_STY
	OP_TAX
	OP_TAY
	OP_TSX
	OP_TXA
	OP_TXS
	OP_TYA
	op_count
)

var mnemonicText = [op_count]string{
	"???",
	"adc", "and", "asl", "bcc", "bcs", "beq", "bit", "bmi",
	"bne", "bpl", "brk", "bvc", "bvs", "clc", "cld", "cli",
	"clv", "cmp", "cpx", "cpy", "dec", "dex", "dey", "eor",
	"inc", "inx", "iny", "jmp", "jsr", "lda", "ldx", "ldy",
	"lsr", "nop", "ora", "pha", "php", "pla", "plp", "rol",
	"ror", "rti", "rts", "sbc", "sec", "sed", "sei", "sta",
	"stx", "sty", "tax", "tay", "tsx", "txa", "txs", "tya",
}

// String returns the three letter lowercase mnemonic.
func (m Mnemonic) String() string {
	if m < 0 || m >= op_count {
		return mnemonicText[OP_UNDEFINED]
	}
	return mnemonicText[m]
}

// IsBranch returns true for the conditional relative branches.
func (m Mnemonic) IsBranch() bool {
	switch m {
	case OP_BCC, OP_BCS, OP_BEQ, OP_BMI, OP_BNE, OP_BPL, OP_BVC, OP_BVS:
		return true
	}
	return false
}

// Mode is an addressing mode.
type Mode int

const (
	MODE_UNDEFINED        = Mode(iota)
	MODE_IMPLICIT         // no operand
	MODE_ACCUMULATOR      // a
	MODE_IMMEDIATE        // #$nn
	MODE_ZERO_PAGE        // $nn
	MODE_ZERO_PAGE_X      // $nn,x
	MODE_ZERO_PAGE_Y      // $nn,y
	MODE_RELATIVE         // $nnnn (branch target)
	MODE_ABSOLUTE         // $nnnn
	MODE_ABSOLUTE_X       // $nnnn,x
	MODE_ABSOLUTE_Y       // $nnnn,y
	MODE_INDIRECT         // ($nnnn)
	MODE_INDEXED_INDIRECT // ($nn,x)
	MODE_INDIRECT_INDEXED // ($nn),y
	mode_count
)

var modeText = [mode_count]string{
	MODE_UNDEFINED:        "undefined",
	MODE_IMPLICIT:         "implicit",
	MODE_ACCUMULATOR:      "accumulator",
	MODE_IMMEDIATE:        "immediate",
	MODE_ZERO_PAGE:        "zeropage",
	MODE_ZERO_PAGE_X:      "zeropage,x",
	MODE_ZERO_PAGE_Y:      "zeropage,y",
	MODE_RELATIVE:         "relative",
	MODE_ABSOLUTE:         "absolute",
	MODE_ABSOLUTE_X:       "absolute,x",
	MODE_ABSOLUTE_Y:       "absolute,y",
	MODE_INDIRECT:         "indirect",
	MODE_INDEXED_INDIRECT: "(indirect,x)",
	MODE_INDIRECT_INDEXED: "(indirect),y",
}

func (m Mode) String() string {
	if m < 0 || m >= mode_count {
		return modeText[MODE_UNDEFINED]
	}
	return modeText[m]
}

// Length returns the instruction length in bytes, opcode included.
// Undefined instructions are a single byte long.
func (m Mode) Length() int {
	switch m {
	case MODE_IMMEDIATE, MODE_ZERO_PAGE, MODE_ZERO_PAGE_X, MODE_ZERO_PAGE_Y,
		MODE_RELATIVE, MODE_INDEXED_INDIRECT, MODE_INDIRECT_INDEXED:
		return 2
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y, MODE_INDIRECT:
		return 3
	}
	return 1
}

// Instruction is a decoded opcode.
type Instruction struct {
	Mnemonic Mnemonic
	Mode     Mode
}

// Defined returns false for the illegal opcode sentinel.
func (in Instruction) Defined() bool {
	return in.Mnemonic != OP_UNDEFINED && in.Mode != MODE_UNDEFINED
}

func (in Instruction) String() string {
	return fmt.Sprintf("%v (%v)", in.Mnemonic, in.Mode)
}

// opcodeTable maps every opcode byte to its instruction. Entries not
// listed are the zero Instruction, which is the undefined sentinel.
var opcodeTable = [256]Instruction{
	0x00: {OP_BRK, MODE_IMPLICIT},
	0x01: {OP_ORA, MODE_INDEXED_INDIRECT},
	0x05: {OP_ORA, MODE_ZERO_PAGE},
	0x06: {OP_ASL, MODE_ZERO_PAGE},
	0x08: {OP_PHP, MODE_IMPLICIT},
	0x09: {OP_ORA, MODE_IMMEDIATE},
	0x0a: {OP_ASL, MODE_ACCUMULATOR},
	0x0d: {OP_ORA, MODE_ABSOLUTE},
	0x0e: {OP_ASL, MODE_ABSOLUTE},

	0x10: {OP_BPL, MODE_RELATIVE},
	0x11: {OP_ORA, MODE_INDIRECT_INDEXED},
	0x15: {OP_ORA, MODE_ZERO_PAGE_X},
	0x16: {OP_ASL, MODE_ZERO_PAGE_X},
	0x18: {OP_CLC, MODE_IMPLICIT},
	0x19: {OP_ORA, MODE_ABSOLUTE_Y},
	0x1d: {OP_ORA, MODE_ABSOLUTE_X},
	0x1e: {OP_ASL, MODE_ABSOLUTE_X},

	0x20: {OP_JSR, MODE_ABSOLUTE},
	0x21: {OP_AND, MODE_INDEXED_INDIRECT},
	0x24: {OP_BIT, MODE_ZERO_PAGE},
	0x25: {OP_AND, MODE_ZERO_PAGE},
	0x26: {OP_ROL, MODE_ZERO_PAGE},
	0x28: {OP_PLP, MODE_IMPLICIT},
	0x29: {OP_AND, MODE_IMMEDIATE},
	0x2a: {OP_ROL, MODE_ACCUMULATOR},
	0x2c: {OP_BIT, MODE_ABSOLUTE},
	0x2d: {OP_AND, MODE_ABSOLUTE},
	0x2e: {OP_ROL, MODE_ABSOLUTE},

	0x30: {OP_BMI, MODE_RELATIVE},
	0x31: {OP_AND, MODE_INDIRECT_INDEXED},
	0x35: {OP_AND, MODE_ZERO_PAGE_X},
	0x36: {OP_ROL, MODE_ZERO_PAGE_X},
	0x38: {OP_SEC, MODE_IMPLICIT},
	0x39: {OP_AND, MODE_ABSOLUTE_Y},
	0x3d: {OP_AND, MODE_ABSOLUTE_X},
	0x3e: {OP_ROL, MODE_ABSOLUTE_X},

	0x40: {OP_RTI, MODE_IMPLICIT},
	0x41: {OP_EOR, MODE_INDEXED_INDIRECT},
	0x45: {OP_EOR, MODE_ZERO_PAGE},
	0x46: {OP_LSR, MODE_ZERO_PAGE},
	0x48: {OP_PHA, MODE_IMPLICIT},
	0x49: {OP_EOR, MODE_IMMEDIATE},
	0x4a: {OP_LSR, MODE_ACCUMULATOR},
	0x4c: {OP_JMP, MODE_ABSOLUTE},
	0x4d: {OP_EOR, MODE_ABSOLUTE},
	0x4e: {OP_LSR, MODE_ABSOLUTE},

	0x50: {OP_BVC, MODE_RELATIVE},
	0x51: {OP_EOR, MODE_INDIRECT_INDEXED},
	0x55: {OP_EOR, MODE_ZERO_PAGE_X},
	0x56: {OP_LSR, MODE_ZERO_PAGE_X},
	0x58: {OP_CLI, MODE_IMPLICIT},
	0x59: {OP_EOR, MODE_ABSOLUTE_Y},
	0x5d: {OP_EOR, MODE_ABSOLUTE_X},
	0x5e: {OP_LSR, MODE_ABSOLUTE_X},

	0x60: {OP_RTS, MODE_IMPLICIT},
	0x61: {OP_ADC, MODE_INDEXED_INDIRECT},
	0x65: {OP_ADC, MODE_ZERO_PAGE},
	0x66: {OP_ROR, MODE_ZERO_PAGE},
	0x68: {OP_PLA, MODE_IMPLICIT},
	0x69: {OP_ADC, MODE_IMMEDIATE},
	0x6a: {OP_ROR, MODE_ACCUMULATOR},
	0x6c: {OP_JMP, MODE_INDIRECT},
	0x6d: {OP_ADC, MODE_ABSOLUTE},
	0x6e: {OP_ROR, MODE_ABSOLUTE},

	0x70: {OP_BVS, MODE_RELATIVE},
	0x71: {OP_ADC, MODE_INDIRECT_INDEXED},
	0x75: {OP_ADC, MODE_ZERO_PAGE_X},
	0x76: {OP_ROR, MODE_ZERO_PAGE_X},
	0x78: {OP_SEI, MODE_IMPLICIT},
	0x79: {OP_ADC, MODE_ABSOLUTE_Y},
	0x7d: {OP_ADC, MODE_ABSOLUTE_X},
	0x7e: {OP_ROR, MODE_ABSOLUTE_X},

	0x81: {OP_STA, MODE_INDEXED_INDIRECT},
	0x84: {OP_STY, MODE_ZERO_PAGE},
	0x85: {OP_STA, MODE_ZERO_PAGE},
	0x86: {OP_STX, MODE_ZERO_PAGE},
	0x88: {OP_DEY, MODE_IMPLICIT},
	0x8a: {OP_TXA, MODE_IMPLICIT},
	0x8c: {OP_STY, MODE_ABSOLUTE},
	0x8d: {OP_STA, MODE_ABSOLUTE},
	0x8e: {OP_STX, MODE_ABSOLUTE},

	0x90: {OP_BCC, MODE_RELATIVE},
	0x91: {OP_STA, MODE_INDIRECT_INDEXED},
	0x94: {OP_STY, MODE_ZERO_PAGE_X},
	0x95: {OP_STA, MODE_ZERO_PAGE_X},
	0x96: {OP_STX, MODE_ZERO_PAGE_Y},
	0x98: {OP_TYA, MODE_IMPLICIT},
	0x99: {OP_STA, MODE_ABSOLUTE_Y},
	0x9a: {OP_TXS, MODE_IMPLICIT},
	0x9d: {OP_STA, MODE_ABSOLUTE_X},

	0xa0: {OP_LDY, MODE_IMMEDIATE},
	0xa1: {OP_LDA, MODE_INDEXED_INDIRECT},
	0xa2: {OP_LDX, MODE_IMMEDIATE},
	0xa4: {OP_LDY, MODE_ZERO_PAGE},
	0xa5: {OP_LDA, MODE_ZERO_PAGE},
	0xa6: {OP_LDX, MODE_ZERO_PAGE},
	0xa8: {OP_TAY, MODE_IMPLICIT},
	0xa9: {OP_LDA, MODE_IMMEDIATE},
	0xaa: {OP_TAX, MODE_IMPLICIT},
	0xac: {OP_LDY, MODE_ABSOLUTE},
	0xad: {OP_LDA, MODE_ABSOLUTE},
	0xae: {OP_LDX, MODE_ABSOLUTE},

	0xb0: {OP_BCS, MODE_RELATIVE},
	0xb1: {OP_LDA, MODE_INDIRECT_INDEXED},
	0xb4: {OP_LDY, MODE_ZERO_PAGE_X},
	0xb5: {OP_LDA, MODE_ZERO_PAGE_X},
	0xb6: {OP_LDX, MODE_ZERO_PAGE_Y},
	0xb8: {OP_CLV, MODE_IMPLICIT},
	0xb9: {OP_LDA, MODE_ABSOLUTE_Y},
	0xba: {OP_TSX, MODE_IMPLICIT},
	0xbc: {OP_LDY, MODE_ABSOLUTE_X},
	0xbd: {OP_LDA, MODE_ABSOLUTE_X},
	0xbe: {OP_LDX, MODE_ABSOLUTE_Y},

	0xc0: {OP_CPY, MODE_IMMEDIATE},
	0xc1: {OP_CMP, MODE_INDEXED_INDIRECT},
	0xc4: {OP_CPY, MODE_ZERO_PAGE},
	0xc5: {OP_CMP, MODE_ZERO_PAGE},
	0xc6: {OP_DEC, MODE_ZERO_PAGE},
	0xc8: {OP_INY, MODE_IMPLICIT},
	0xc9: {OP_CMP, MODE_IMMEDIATE},
	0xca: {OP_DEX, MODE_IMPLICIT},
	0xcc: {OP_CPY, MODE_ABSOLUTE},
	0xcd: {OP_CMP, MODE_ABSOLUTE},
	0xce: {OP_DEC, MODE_ABSOLUTE},

	0xd0: {OP_BNE, MODE_RELATIVE},
	0xd1: {OP_CMP, MODE_INDIRECT_INDEXED},
	0xd5: {OP_CMP, MODE_ZERO_PAGE_X},
	0xd6: {OP_DEC, MODE_ZERO_PAGE_X},
	0xd8: {OP_CLD, MODE_IMPLICIT},
	0xd9: {OP_CMP, MODE_ABSOLUTE_Y},
	0xdd: {OP_CMP, MODE_ABSOLUTE_X},
	0xde: {OP_DEC, MODE_ABSOLUTE_X},

	0xe0: {OP_CPX, MODE_IMMEDIATE},
	0xe1: {OP_SBC, MODE_INDEXED_INDIRECT},
	0xe4: {OP_CPX, MODE_ZERO_PAGE},
	0xe5: {OP_SBC, MODE_ZERO_PAGE},
	0xe6: {OP_INC, MODE_ZERO_PAGE},
	0xe8: {OP_INX, MODE_IMPLICIT},
	0xe9: {OP_SBC, MODE_IMMEDIATE},
	0xea: {OP_NOP, MODE_IMPLICIT},
	0xec: {OP_CPX, MODE_ABSOLUTE},
	0xed: {OP_SBC, MODE_ABSOLUTE},
	0xee: {OP_INC, MODE_ABSOLUTE},

	0xf0: {OP_BEQ, MODE_RELATIVE},
	0xf1: {OP_SBC, MODE_INDIRECT_INDEXED},
	0xf5: {OP_SBC, MODE_ZERO_PAGE_X},
	0xf6: {OP_INC, MODE_ZERO_PAGE_X},
	0xf8: {OP_SED, MODE_IMPLICIT},
	0xf9: {OP_SBC, MODE_ABSOLUTE_Y},
	0xfd: {OP_SBC, MODE_ABSOLUTE_X},
	0xfe: {OP_INC, MODE_ABSOLUTE_X},
}

// encodeTable is the inverse of opcodeTable.
var encodeTable = func() (table map[Instruction]uint8) {
	table = make(map[Instruction]uint8, 151)
	for n, in := range opcodeTable {
		if in.Defined() {
			table[in] = uint8(n)
		}
	}
	return
}()

// Decode returns the instruction for an opcode byte. Illegal opcodes
// decode to the zero Instruction.
func Decode(opcode uint8) Instruction {
	return opcodeTable[opcode]
}

// Encode returns the opcode byte for an instruction, if one exists.
func Encode(in Instruction) (opcode uint8, ok bool) {
	opcode, ok = encodeTable[in]
	return
}

// Instructions iterates over every defined opcode in ascending order.
func Instructions() iter.Seq2[uint8, Instruction] {
	return func(yield func(opcode uint8, in Instruction) bool) {
		for n, in := range opcodeTable {
			if !in.Defined() {
				continue
			}
			if !yield(uint8(n), in) {
				return
			}
		}
	}
}

// Modes returns the addressing modes available to a mnemonic.
func (m Mnemonic) Modes() (modes []Mode) {
	for mode := MODE_IMPLICIT; mode < mode_count; mode++ {
		if _, ok := encodeTable[Instruction{m, mode}]; ok {
			modes = append(modes, mode)
		}
	}
	return
}
