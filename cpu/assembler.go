// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = func() (equ map[string]string) {
	equ = maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return
}()

// mnemonicMap maps lower case mnemonic names.
var mnemonicMap = func() (table map[string]Mnemonic) {
	table = make(map[string]Mnemonic, op_count)
	for m := OP_ADC; m < op_count; m++ {
		table[m.String()] = m
	}
	return
}()

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass macro assembler for the 6502.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint16   // Address of the first byte, unless moved by .org
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint16   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	pc uint16 // Address of the next byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parseNumber parses a numeric literal.
// Accepts $hex, %binary, and anything strconv.ParseInt takes with base 0.
func parseNumber(word string) (value int64, err error) {
	text := word
	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
	}

	switch {
	case len(text) == 0:
		err = ErrParseNumber(word)
		return
	case text[0] == '$':
		value, err = strconv.ParseInt(text[1:], 16, 64)
	case text[0] == '%':
		value, err = strconv.ParseInt(text[1:], 2, 64)
	default:
		value, err = strconv.ParseInt(text, 0, 64)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if negative {
		value = -value
	}

	return
}

// valueOf evaluates an operand expression. If the expression is a label
// that has not been defined yet, known is false and label names it.
func (asm *Assembler) valueOf(word string) (value int64, label string, known bool, err error) {
	for depth := 0; depth < 16; depth++ {
		equate, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = equate
	}

	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	if reIdentifier.MatchString(word) {
		address, ok := asm.Label[word]
		if ok {
			value = int64(address)
			known = true
			return
		}
		label = word
		return
	}

	value, err = parseNumber(word)
	if err != nil {
		return
	}
	known = true

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		v, _, known, _err := asm.valueOf(key)
		if _err != nil || !known {
			// Ignore equates that are not numbers.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(int(address))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words, after expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.pc
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.pc = asm.Origin
	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint16, 16)
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	line = ""
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		lineno = op.LineNo
		for _, link := range op.Links {
			err = asm.link(op, link)
			if err != nil {
				return
			}
		}
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: slices.Clone(asm.Opcode),
	}
	if len(prog.Opcodes) > 0 {
		prog.Origin = prog.Opcodes[0].Address
	}

	return
}

// link resolves a forward label reference.
func (asm *Assembler) link(op *Opcode, link Link) (err error) {
	address, ok := asm.Label[link.Label]
	if !ok {
		err = ErrLabelMissing(link.Label)
		return
	}

	switch {
	case link.Relative:
		op.Bytes[link.Offset], err = branchOffset(op.Address, address)
	case link.Size == 1:
		if address > 0xff {
			err = &ErrOperandRange{Value: int64(address), Bytes: 1}
			return
		}
		op.Bytes[link.Offset] = uint8(address)
	default:
		op.Bytes[link.Offset] = uint8(address)
		op.Bytes[link.Offset+1] = uint8(address >> 8)
	}

	return
}

// branchOffset returns the displacement byte for a branch at from.
func branchOffset(from uint16, target uint16) (offset uint8, err error) {
	delta := int(target) - int(from+2)
	if delta < -128 || delta > 127 {
		err = &ErrBranchRange{From: from, Target: target}
		return
	}
	offset = uint8(int8(delta))
	return
}

// encodeValue appends a value as size bytes, little-endian, recording a
// link if the value is a label that is not yet known.
func (op *Opcode) encodeValue(value int64, label string, known bool, size int) (err error) {
	if !known {
		op.Links = append(op.Links, Link{Label: label, Offset: len(op.Bytes), Size: size})
		op.Bytes = append(op.Bytes, make([]uint8, size)...)
		return
	}

	limit := int64(1) << (8 * size)
	if value >= limit || value < -(limit>>1) {
		err = &ErrOperandRange{Value: value, Bytes: size}
		return
	}

	for n := range size {
		op.Bytes = append(op.Bytes, uint8(value>>(8*n)))
	}

	return
}

// hasMode returns true if the mnemonic supports an addressing mode.
func hasMode(m Mnemonic, mode Mode) (ok bool) {
	_, ok = Encode(Instruction{Mnemonic: m, Mode: mode})
	return
}

// parseOperand determines the addressing mode and value expression of
// an operand, in the syntax the disassembler produces.
func parseOperand(m Mnemonic, operand string) (zp Mode, abs Mode, expr string) {
	lower := strings.ToLower(operand)
	size := len(operand)

	switch {
	case operand == "":
		zp = MODE_IMPLICIT
		if !hasMode(m, MODE_IMPLICIT) {
			zp = MODE_ACCUMULATOR
		}
	case lower == "a":
		zp = MODE_ACCUMULATOR
	case strings.HasPrefix(operand, "#"):
		zp = MODE_IMMEDIATE
		expr = operand[1:]
	case strings.HasPrefix(operand, "(") && strings.HasSuffix(lower, ",x)"):
		zp = MODE_INDEXED_INDIRECT
		expr = operand[1 : size-3]
	case strings.HasPrefix(operand, "(") && strings.HasSuffix(lower, "),y"):
		zp = MODE_INDIRECT_INDEXED
		expr = operand[1 : size-3]
	case strings.HasPrefix(operand, "(") && strings.HasSuffix(operand, ")"):
		abs = MODE_INDIRECT
		expr = operand[1 : size-1]
	case strings.HasSuffix(lower, ",x"):
		zp, abs = MODE_ZERO_PAGE_X, MODE_ABSOLUTE_X
		expr = operand[:size-2]
	case strings.HasSuffix(lower, ",y"):
		zp, abs = MODE_ZERO_PAGE_Y, MODE_ABSOLUTE_Y
		expr = operand[:size-2]
	case m.IsBranch():
		zp = MODE_RELATIVE
		expr = operand
	default:
		zp, abs = MODE_ZERO_PAGE, MODE_ABSOLUTE
		expr = operand
	}

	if !hasMode(m, zp) {
		zp = MODE_UNDEFINED
	}
	if !hasMode(m, abs) {
		abs = MODE_UNDEFINED
	}

	// A literal written with a high byte selects the absolute form.
	if abs != MODE_UNDEFINED && isWideLiteral(expr) {
		zp = MODE_UNDEFINED
	}

	return
}

// isWideLiteral is true for hex literals of more than two digits, as in
// '$00f0' or '0x0010'.
func isWideLiteral(expr string) bool {
	expr = strings.TrimSpace(expr)

	var digits string
	switch {
	case strings.HasPrefix(expr, "$"):
		digits = expr[1:]
	case strings.HasPrefix(expr, "0x"), strings.HasPrefix(expr, "0X"):
		digits = expr[2:]
	default:
		return false
	}

	if len(digits) <= 2 {
		return false
	}

	_, err := strconv.ParseUint(digits, 16, 16)
	return err == nil
}

// parseInstruction encodes a mnemonic and its optional operand.
func (asm *Assembler) parseInstruction(op *Opcode, m Mnemonic, operand string) (err error) {
	zp, abs, expr := parseOperand(m, operand)

	var value int64
	var label string
	known := true
	switch {
	case len(expr) > 0:
		value, label, known, err = asm.valueOf(expr)
		if err != nil {
			return
		}
	case len(operand) > 0 && strings.ToLower(operand) != "a":
		err = ErrOpcodeValueMissing
		return
	}

	// Prefer the zero page form for short values that fit.
	mode := zp
	switch {
	case zp == MODE_UNDEFINED:
		mode = abs
	case abs == MODE_UNDEFINED:
		// only one choice
	case !known || value < 0 || value > 0xff:
		mode = abs
	}

	if mode == MODE_UNDEFINED {
		err = ErrModeInvalid
		return
	}

	op.Instruction = Instruction{Mnemonic: m, Mode: mode}
	opcode, _ := Encode(op.Instruction)
	op.Bytes = append(op.Bytes, opcode)

	switch {
	case mode == MODE_RELATIVE && !known:
		op.Links = append(op.Links, Link{Label: label, Offset: 1, Size: 1, Relative: true})
		op.Bytes = append(op.Bytes, 0)
	case mode == MODE_RELATIVE:
		var offset uint8
		offset, err = branchOffset(op.Address, uint16(value))
		if err != nil {
			return
		}
		op.Bytes = append(op.Bytes, offset)
	case mode == MODE_IMMEDIATE:
		err = op.encodeValue(value, label, known, 1)
	case mode.Length() == 2:
		if known && (value < 0 || value > 0xff) {
			err = &ErrOperandRange{Value: value, Bytes: 1}
			return
		}
		err = op.encodeValue(value, label, known, 1)
	case mode.Length() == 3:
		if known && (value < 0 || value > 0xffff) {
			err = &ErrOperandRange{Value: value, Bytes: 2}
			return
		}
		err = op.encodeValue(value, label, known, 2)
	}

	return
}

// parseData encodes a .byte or .word directive.
func (asm *Assembler) parseData(op *Opcode, size int, args []string) (err error) {
	var values []string
	for _, arg := range args {
		for _, value := range strings.Split(arg, ",") {
			if len(value) > 0 {
				values = append(values, value)
			}
		}
	}

	if len(values) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	for _, word := range values {
		var value int64
		var label string
		var known bool
		value, label, known, err = asm.valueOf(word)
		if err != nil {
			return
		}
		err = op.encodeValue(value, label, known, size)
		if err != nil {
			return
		}
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op := Opcode{LineNo: lineno, Address: asm.pc, Words: words}

	defer func() {
		if err != nil || len(op.Bytes) == 0 {
			return
		}
		asm.Opcode = append(asm.Opcode, op)
		asm.pc += uint16(len(op.Bytes))
	}()

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrDirectiveSyntax
			return
		}
		var value int64
		var known bool
		value, _, known, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if !known || value < 0 || value > 0xffff {
			err = ErrDirectiveSyntax
			return
		}
		asm.pc = uint16(value)
	case ".byte":
		err = asm.parseData(&op, 1, words[1:])
	case ".word":
		err = asm.parseData(&op, 2, words[1:])
	default:
		m, ok := mnemonicMap[strings.ToLower(words[0])]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var operand string
		if len(words) == 2 {
			operand = words[1]
		}
		err = asm.parseInstruction(&op, m, operand)
	}

	return
}
