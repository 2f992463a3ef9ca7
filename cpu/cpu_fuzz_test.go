package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m6502/io"
)

func FuzzStep(f *testing.F) {
	for opcode := range 0x100 {
		f.Add(uint8(opcode), uint8(0x10), uint8(0x20), uint8(0), uint8(0), uint8(0), uint8(0))
	}
	f.Add(uint8(0xb1), uint8(0xff), uint8(0xff), uint8(0x80), uint8(0xff), uint8(0xff), uint8(0xff))

	f.Fuzz(func(t *testing.T, opcode uint8, lo uint8, hi uint8, a uint8, x uint8, y uint8, p uint8) {
		assert := assert.New(t)

		mem := &io.Memory{}
		for n := range len(mem.Data) {
			mem.Data[n] = uint8(n*7 + 3)
		}
		err := mem.Load(0x0600, []uint8{opcode, lo, hi})
		if err != nil {
			t.Fatal(err)
		}
		io.WriteWord(mem, VECTOR_RESET, 0x0600)

		trace := &io.Trace{Bus: mem, Record: true}
		cpu := NewCpu(trace)
		cpu.Reset()
		cpu.A = a
		cpu.X = x
		cpu.Y = y
		cpu.P = Status(p)&^FLAG_B | FLAG_R
		trace.Reset()

		before := cpu.Registers
		in := Decode(opcode)
		code_str := fmt.Sprintf("%02x %02x %02x (%v) cpu:%v", opcode, lo, hi, in, cpu)

		err = cpu.Tick()

		if !in.Defined() {
			assert.True(errors.Is(err, ErrIllegalOpcode{}), code_str)
			assert.Equal(before, cpu.Registers, code_str)
			assert.Equal(0, trace.Writes, code_str)
			return
		}

		assert.NoError(err, code_str)
		assert.Equal(1, cpu.Ticks, code_str)
		assert.True(cpu.P.Has(FLAG_R), code_str)
		assert.False(cpu.P.Has(FLAG_B), code_str)

		switch in.Mnemonic {
		case OP_JMP, OP_JSR, OP_RTS, OP_RTI, OP_BRK:
			// control flow
		case OP_BCC, OP_BCS, OP_BNE, OP_BEQ, OP_BPL, OP_BMI, OP_BVC, OP_BVS:
			target := Operand{Mode: in.Mode, Raw: uint16(lo)}.Target(0x0600)
			assert.Contains([]uint16{0x0602, target}, cpu.PC, code_str)
		default:
			assert.Equal(0x0600+uint16(in.Mode.Length()), cpu.PC, code_str)
		}

		switch in.Mnemonic {
		case OP_PHA, OP_PHP, OP_JSR, OP_BRK:
			for _, access := range trace.Accesses {
				if access.Write {
					assert.Equal(STACK_BASE, access.Address&0xff00, code_str)
				}
			}
		case OP_STA, OP_STX, OP_STY, OP_INC, OP_DEC, OP_ASL, OP_LSR, OP_ROL, OP_ROR:
			if in.Mode != MODE_ACCUMULATOR {
				assert.Equal(1, trace.Writes, code_str)
			}
		default:
			assert.Equal(0, trace.Writes, code_str)
		}
	})
}
