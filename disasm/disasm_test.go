package disasm

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/io"
)

var testCode = []uint8{
	0xa9, 0x10, // lda #$10
	0x8d, 0x00, 0x02, // sta $0200
	0xb1, 0x20, // lda ($20),y
	0x0a,       // asl a
	0xd0, 0xfe, // bne *
	0x00, // brk
}

func TestDisassembler_Write(t *testing.T) {
	assert := assert.New(t)

	dis := &Disassembler{Base: 0x0600}
	out := &bytes.Buffer{}
	err := dis.Write(out, testCode)
	assert.NoError(err)

	assert.Equal(strings.Join([]string{
		"0600: lda #$10",
		"0602: sta $0200",
		"0605: lda ($20),y",
		"0607: asl a",
		"0608: bne $0608",
		"060a: brk",
		"",
	}, "\n"), out.String())
}

func TestDisassembler_Lines(t *testing.T) {
	assert := assert.New(t)

	buf := slices.Clone(testCode)
	dis := &Disassembler{}

	var total int
	var addresses []uint16
	for address, line := range dis.Lines(buf) {
		assert.Equal(address, line.Address)
		assert.NoError(line.Err)
		addresses = append(addresses, address)
		total += line.Length()
	}
	assert.Equal(len(buf), total)
	assert.Equal([]uint16{0, 2, 5, 7, 8, 10}, addresses)
	assert.Equal(testCode, buf)

	// Restartable, with early exit.
	var again []uint16
	for address := range dis.Lines(buf) {
		again = append(again, address)
		if len(again) == 2 {
			break
		}
	}
	assert.Equal(addresses[:2], again)
}

func TestDisassembler_Abort(t *testing.T) {
	assert := assert.New(t)

	buf := []uint8{0xa9, 0x10, 0xff, 0xea}
	dis := &Disassembler{Base: 0x0600}

	var lines []Line
	for _, line := range dis.Lines(buf) {
		lines = append(lines, line)
	}
	if assert.Equal(2, len(lines)) {
		assert.ErrorIs(lines[1].Err, cpu.ErrIllegalOpcode{})
	}

	out := &bytes.Buffer{}
	err := dis.Write(out, buf)
	var illegal cpu.ErrIllegalOpcode
	if assert.True(errors.As(err, &illegal)) {
		assert.Equal(uint8(0xff), illegal.Opcode)
		assert.Equal(uint16(0x0602), illegal.Address)
	}
	assert.Equal("0600: lda #$10\n", out.String())
}

func TestDisassembler_Skip(t *testing.T) {
	assert := assert.New(t)

	buf := []uint8{0xa9, 0x10, 0xff, 0xea}
	dis := &Disassembler{Base: 0x0600, Policy: POLICY_SKIP}

	out := &bytes.Buffer{}
	err := dis.Write(out, buf)
	assert.NoError(err)
	assert.Equal("0600: lda #$10\n0602: .byte $ff\n0603: nop\n", out.String())
}

func TestDisassembler_Truncated(t *testing.T) {
	assert := assert.New(t)

	buf := []uint8{0xea, 0xad, 0x00}

	dis := &Disassembler{Policy: POLICY_SKIP}
	out := &bytes.Buffer{}
	err := dis.Write(out, buf)
	assert.NoError(err)
	assert.Equal("0000: nop\n0001: .byte $ad,$00\n", out.String())

	var total int
	for _, line := range dis.Lines(buf) {
		total += line.Length()
	}
	assert.Equal(len(buf), total)

	dis.Policy = POLICY_ABORT
	err = dis.Write(&bytes.Buffer{}, buf)
	assert.ErrorIs(err, cpu.ErrTruncated)
	var truncated ErrTruncated
	if assert.True(errors.As(err, &truncated)) {
		assert.Equal(uint16(0x0001), truncated.Address)
	}
}

func TestDisassembler_Wrap(t *testing.T) {
	assert := assert.New(t)

	dis := &Disassembler{Base: 0xfffe}
	var addresses []uint16
	for address := range dis.Lines([]uint8{0xea, 0xea, 0xea}) {
		addresses = append(addresses, address)
	}
	assert.Equal([]uint16{0xfffe, 0xffff, 0x0000}, addresses)
}

func TestAt(t *testing.T) {
	assert := assert.New(t)

	mem := &io.Memory{}
	err := mem.Load(0xfffe, []uint8{0x4c, 0x34})
	assert.NoError(err)
	mem.Write(0x0000, 0x12)

	line := At(mem, 0xfffe)
	assert.Equal("fffe: jmp $1234", line.String())
	assert.Equal(3, line.Length())

	mem.Write(0x0300, 0x02)
	line = At(mem, 0x0300)
	assert.Error(line.Err)
	assert.Equal("0300: .byte $02", line.String())
}

// Every documented instruction reassembles to the bytes it came from.
func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	operands := [][2]uint8{
		{0x34, 0x12},
		{0x10, 0x00},
		{0xf0, 0x00},
	}

	for _, operand := range operands {
		for opcode, in := range cpu.Instructions() {
			code := []uint8{opcode, operand[0], operand[1]}[:in.Mode.Length()]

			dis := &Disassembler{Base: 0x0600}
			var text string
			for _, line := range dis.Lines(code) {
				text = line.Text()
			}

			asm := &cpu.Assembler{Origin: 0x0600}
			prog, err := asm.Parse(strings.NewReader(text))
			if !assert.NoError(err, text) {
				continue
			}
			_, bin := prog.Binary()
			assert.Equal(code, bin, text)
		}
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(testCode)
	f.Add([]uint8{0xff, 0x02, 0x20})
	f.Add([]uint8{})

	f.Fuzz(func(t *testing.T, buf []uint8) {
		assert := assert.New(t)

		before := slices.Clone(buf)
		dis := &Disassembler{Policy: POLICY_SKIP}

		var total int
		next := uint16(0)
		for address, line := range dis.Lines(buf) {
			assert.Equal(next, address)
			assert.NotEmpty(line.Text())
			assert.True(line.Length() > 0)
			total += line.Length()
			next += uint16(line.Length())
		}
		assert.Equal(len(buf), total)
		assert.Equal(before, buf)
	})
}
