package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m6502/io"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		".org $0600",
		"lda #$10",
		"sta $1234",
		"rts",
	}, "\n")))
	assert.NoError(err)

	dbg := prog.Debug(0x0600)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(2, dbg.LineNo)
		assert.Equal(0, dbg.Index)
		assert.Equal(Instruction{OP_LDA, MODE_IMMEDIATE}, dbg.Instruction)
	}

	dbg = prog.Debug(0x0604)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(2, dbg.Index)
		assert.Equal([]string{"sta", "$1234"}, dbg.Words)
	}

	dbg = prog.Debug(0x0606)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Origin: 0x0800,
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x0800, Bytes: []uint8{0xea}},
			{LineNo: 2, Address: 0x0803, Bytes: []uint8{0x60}},
			{LineNo: 3, Address: 0x07fe, Bytes: []uint8{0x01, 0x02}},
		},
	}

	base, bin := prog.Binary()
	assert.Equal(uint16(0x07fe), base)
	assert.Equal([]uint8{0x01, 0x02, 0xea, 0x00, 0x00, 0x60}, bin)

	var addresses []uint16
	for address := range prog.Codes() {
		addresses = append(addresses, address)
	}
	assert.Equal([]uint16{0x0800, 0x0803, 0x07fe, 0x07ff}, addresses)

	mem := &io.Memory{}
	prog.Load(mem)
	assert.Equal(uint8(0xea), mem.Read(0x0800))
	assert.Equal(uint8(0x60), mem.Read(0x0803))
	assert.Equal(uint8(0x02), mem.Read(0x07ff))

	empty := &Program{Origin: 0x1000}
	base, bin = empty.Binary()
	assert.Equal(uint16(0x1000), base)
	assert.Empty(bin)
}
