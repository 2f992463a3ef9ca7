// Package cpu implements the MOS 6502 microprocessor and its assembler.
//
// The opcode table maps all 256 opcode bytes to a mnemonic and an
// addressing mode; bytes the 6502 does not define decode to an
// undefined sentinel. Operands are resolved against the register file
// and a memory bus before an instruction executes, so an instruction
// either completes or leaves the CPU untouched.
//
// The assembler accepts the same operand syntax the disassembler
// produces, plus labels, equates, macros, and compile-time expressions.
package cpu
