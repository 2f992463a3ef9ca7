package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m6502/io"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	mem := &io.Memory{}
	cpu := NewCpu(mem)
	assert.Equal(STACK_RESET, cpu.SP)

	cpu.push(0x12)
	cpu.push(0x34)
	assert.Equal(uint8(0xfb), cpu.SP)
	assert.Equal(uint8(0x12), mem.Read(0x01fd))
	assert.Equal(uint8(0x34), mem.Read(0x01fc))
	assert.Equal(uint8(0x34), cpu.Peek())

	assert.Equal(uint8(0x34), cpu.pop())
	assert.Equal(uint8(0x12), cpu.pop())
	assert.Equal(STACK_RESET, cpu.SP)
}

func TestStack_Word(t *testing.T) {
	assert := assert.New(t)

	mem := &io.Memory{}
	cpu := NewCpu(mem)

	cpu.push16(0x0602)
	assert.Equal(uint8(0x06), mem.Read(0x01fd))
	assert.Equal(uint8(0x02), mem.Read(0x01fc))
	assert.Equal(uint16(0x0602), cpu.pop16())
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	mem := &io.Memory{}
	cpu := NewCpu(mem)

	cpu.SP = 0x00
	cpu.push(0xaa)
	assert.Equal(uint8(0xff), cpu.SP)
	assert.Equal(uint8(0xaa), mem.Read(0x0100))
	assert.Equal(uint8(0), mem.Read(0x0200))

	assert.Equal(uint8(0xaa), cpu.pop())
	assert.Equal(uint8(0x00), cpu.SP)
}
