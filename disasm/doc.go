// Package disasm renders 6502 machine code as assembler text.
//
// Disassembly is lazy: Lines produces one Line per instruction as the
// caller ranges over it, and may be restarted at will. Bytes that do not
// decode either end the listing or are rendered as data, as selected by
// the Disassembler's Policy.
package disasm
