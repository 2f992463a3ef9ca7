// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m6502/io"
)

// Interrupt vectors.
const (
	VECTOR_NMI   = uint16(0xfffa) // Non-maskable interrupt
	VECTOR_RESET = uint16(0xfffc) // Reset
	VECTOR_IRQ   = uint16(0xfffe) // Maskable interrupt, and BRK
)

// Policy selects how the CPU handles an undefined opcode.
type Policy int

const (
	POLICY_STRICT = Policy(iota) // Halt with ErrIllegalOpcode.
	POLICY_NOP                   // Log, and skip one byte.
)

func (p Policy) String() string {
	switch p {
	case POLICY_STRICT:
		return "strict"
	case POLICY_NOP:
		return "nop"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

var _cpu_defines = map[string]string{
	"VECTOR_NMI":   fmt.Sprintf("0x%x", VECTOR_NMI),
	"VECTOR_RESET": fmt.Sprintf("0x%x", VECTOR_RESET),
	"VECTOR_IRQ":   fmt.Sprintf("0x%x", VECTOR_IRQ),
	"STACK_BASE":   fmt.Sprintf("0x%x", STACK_BASE),
	"FLAG_C":       fmt.Sprintf("0x%x", uint8(FLAG_C)),
	"FLAG_Z":       fmt.Sprintf("0x%x", uint8(FLAG_Z)),
	"FLAG_I":       fmt.Sprintf("0x%x", uint8(FLAG_I)),
	"FLAG_D":       fmt.Sprintf("0x%x", uint8(FLAG_D)),
	"FLAG_B":       fmt.Sprintf("0x%x", uint8(FLAG_B)),
	"FLAG_V":       fmt.Sprintf("0x%x", uint8(FLAG_V)),
	"FLAG_N":       fmt.Sprintf("0x%x", uint8(FLAG_N)),
}

// Registers is the 6502 register file.
type Registers struct {
	A  uint8  // Accumulator.
	X  uint8  // X index.
	Y  uint8  // Y index.
	SP uint8  // Stack pointer, an offset into page one.
	PC uint16 // Program counter.
	P  Status // Processor status.
}

// Cpu is the simulation context for a 6502 attached to a memory bus.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Bus io.Bus // Memory bus.
	Registers

	Policy    Policy // Undefined opcode handling.
	NoDecimal bool   // Ignore the D flag, as the 2A03 does.

	Halted bool // Set when an undefined opcode stopped the CPU.
	Ticks  int  // Instructions executed.
}

// NewCpu creates a new CPU attached to a bus.
// The CPU is not reset.
func NewCpu(bus io.Bus) (cpu *Cpu) {
	cpu = &Cpu{
		Bus: bus,
	}
	cpu.SP = STACK_RESET
	cpu.P = FLAG_R | FLAG_I

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("pc=%04x a=%02x x=%02x y=%02x sp=%02x p=%v",
		cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.P)
	if cpu.Halted {
		text += " halted"
	}
	return
}

// Reset the CPU state.
// - Clears A, X and Y.
// - Sets SP to 0xfd, and masks interrupts.
// - Loads PC from the reset vector.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = STACK_RESET
	cpu.P = FLAG_R | FLAG_I
	cpu.PC = io.ReadWord(cpu.Bus, VECTOR_RESET)
	cpu.Halted = false
	cpu.Ticks = 0

	if cpu.Verbose {
		log.Printf("cpu: reset, pc=%04x", cpu.PC)
	}
}

// setStatus loads P from a byte pulled off the stack.
func (cpu *Cpu) setStatus(value uint8) {
	cpu.P = (Status(value) &^ FLAG_B) | FLAG_R
}

// Interrupt requests an IRQ, or an NMI if nmi is set. A masked IRQ is
// ignored, and taken is false.
func (cpu *Cpu) Interrupt(nmi bool) (taken bool) {
	if !nmi && cpu.P.Has(FLAG_I) {
		return
	}

	vector := VECTOR_IRQ
	if nmi {
		vector = VECTOR_NMI
	}

	cpu.push16(cpu.PC)
	cpu.push(uint8((cpu.P &^ FLAG_B) | FLAG_R))
	cpu.P.Set(FLAG_I, true)
	cpu.PC = io.ReadWord(cpu.Bus, vector)

	if cpu.Verbose {
		log.Printf("cpu: interrupt via %04x to %04x", vector, cpu.PC)
	}

	taken = true
	return
}

// Tick executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.PC
	opcode := cpu.Bus.Read(pc)
	in := Decode(opcode)

	if !in.Defined() {
		illegal := ErrIllegalOpcode{Opcode: opcode, Address: pc}
		switch cpu.Policy {
		case POLICY_NOP:
			if cpu.Verbose {
				log.Printf("cpu: %v, skipped", illegal)
			}
			cpu.PC++
			cpu.Ticks++
		default:
			cpu.Halted = true
			err = errors.Join(illegal, ErrHalted)
		}
		return
	}

	res := Resolve(cpu.Bus, pc, in.Mode, cpu.X, cpu.Y)

	if cpu.Verbose {
		log.Printf("%04x: %v %v", pc, in.Mnemonic, res.Syntax(pc))
	}

	err = cpu.Execute(in, res)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// load fetches the value an instruction operates on.
func (cpu *Cpu) load(res Resolved) uint8 {
	switch res.Mode {
	case MODE_IMMEDIATE:
		return res.Value
	case MODE_ACCUMULATOR:
		return cpu.A
	}
	return cpu.Bus.Read(res.Address)
}

// modify performs a read-modify-write on the accumulator or memory.
func (cpu *Cpu) modify(res Resolved, op func(value uint8) uint8) {
	if res.Mode == MODE_ACCUMULATOR {
		cpu.A = op(cpu.A)
		return
	}
	cpu.Bus.Write(res.Address, op(cpu.Bus.Read(res.Address)))
}

// branch returns true if a conditional branch is taken.
func (cpu *Cpu) branch(op Mnemonic) (taken bool) {
	switch op {
	case OP_BCC:
		taken = !cpu.P.Has(FLAG_C)
	case OP_BCS:
		taken = cpu.P.Has(FLAG_C)
	case OP_BNE:
		taken = !cpu.P.Has(FLAG_Z)
	case OP_BEQ:
		taken = cpu.P.Has(FLAG_Z)
	case OP_BPL:
		taken = !cpu.P.Has(FLAG_N)
	case OP_BMI:
		taken = cpu.P.Has(FLAG_N)
	case OP_BVC:
		taken = !cpu.P.Has(FLAG_V)
	case OP_BVS:
		taken = cpu.P.Has(FLAG_V)
	}
	return
}

// Execute executes a decoded instruction at PC, with its resolved operand.
// An instruction that is not in the opcode table is rejected with
// ErrUnresolvedMode before any state changes.
func (cpu *Cpu) Execute(in Instruction, res Resolved) (err error) {
	if _, ok := Encode(in); !ok || res.Mode != in.Mode {
		err = ErrUnresolvedMode{Instruction: in}
		return
	}

	pc := cpu.PC
	next_pc := pc + uint16(res.Length)

	switch in.Mnemonic {
	// Loads and stores
	case OP_LDA:
		cpu.A = cpu.load(res)
		cpu.P.SetZN(cpu.A)
	case OP_LDX:
		cpu.X = cpu.load(res)
		cpu.P.SetZN(cpu.X)
	case OP_LDY:
		cpu.Y = cpu.load(res)
		cpu.P.SetZN(cpu.Y)
	case OP_STA:
		cpu.Bus.Write(res.Address, cpu.A)
	case OP_STX:
		cpu.Bus.Write(res.Address, cpu.X)
	case OP_STY:
		cpu.Bus.Write(res.Address, cpu.Y)

	// Arithmetic and logic
	case OP_ADC:
		cpu.adc(cpu.load(res))
	case OP_SBC:
		cpu.sbc(cpu.load(res))
	case OP_AND, OP_ORA, OP_EOR:
		cpu.A = doAlu(in.Mnemonic, cpu.A, cpu.load(res))
		cpu.P.SetZN(cpu.A)
	case OP_BIT:
		value := cpu.load(res)
		cpu.P.Set(FLAG_N, value&0x80 != 0)
		cpu.P.Set(FLAG_V, value&0x40 != 0)
		cpu.P.Set(FLAG_Z, cpu.A&value == 0)
	case OP_CMP:
		cpu.compare(cpu.A, cpu.load(res))
	case OP_CPX:
		cpu.compare(cpu.X, cpu.load(res))
	case OP_CPY:
		cpu.compare(cpu.Y, cpu.load(res))

	// Read-modify-write
	case OP_ASL, OP_LSR, OP_ROL, OP_ROR:
		cpu.modify(res, func(value uint8) uint8 {
			return cpu.shift(in.Mnemonic, value)
		})
	case OP_INC:
		cpu.modify(res, func(value uint8) uint8 {
			value++
			cpu.P.SetZN(value)
			return value
		})
	case OP_DEC:
		cpu.modify(res, func(value uint8) uint8 {
			value--
			cpu.P.SetZN(value)
			return value
		})

	// Register increments
	case OP_INX:
		cpu.X++
		cpu.P.SetZN(cpu.X)
	case OP_INY:
		cpu.Y++
		cpu.P.SetZN(cpu.Y)
	case OP_DEX:
		cpu.X--
		cpu.P.SetZN(cpu.X)
	case OP_DEY:
		cpu.Y--
		cpu.P.SetZN(cpu.Y)

	// Transfers
	case OP_TAX:
		cpu.X = cpu.A
		cpu.P.SetZN(cpu.X)
	case OP_TAY:
		cpu.Y = cpu.A
		cpu.P.SetZN(cpu.Y)
	case OP_TXA:
		cpu.A = cpu.X
		cpu.P.SetZN(cpu.A)
	case OP_TYA:
		cpu.A = cpu.Y
		cpu.P.SetZN(cpu.A)
	case OP_TSX:
		cpu.X = cpu.SP
		cpu.P.SetZN(cpu.X)
	case OP_TXS:
		cpu.SP = cpu.X

	// Stack
	case OP_PHA:
		cpu.push(cpu.A)
	case OP_PLA:
		cpu.A = cpu.pop()
		cpu.P.SetZN(cpu.A)
	case OP_PHP:
		cpu.push(uint8(cpu.P | FLAG_B | FLAG_R))
	case OP_PLP:
		cpu.setStatus(cpu.pop())

	// Flags
	case OP_CLC:
		cpu.P.Set(FLAG_C, false)
	case OP_SEC:
		cpu.P.Set(FLAG_C, true)
	case OP_CLI:
		cpu.P.Set(FLAG_I, false)
	case OP_SEI:
		cpu.P.Set(FLAG_I, true)
	case OP_CLD:
		cpu.P.Set(FLAG_D, false)
	case OP_SED:
		cpu.P.Set(FLAG_D, true)
	case OP_CLV:
		cpu.P.Set(FLAG_V, false)

	// Control flow
	case OP_BCC, OP_BCS, OP_BNE, OP_BEQ, OP_BPL, OP_BMI, OP_BVC, OP_BVS:
		if cpu.branch(in.Mnemonic) {
			next_pc = res.Address
		}
	case OP_JMP:
		next_pc = res.Address
	case OP_JSR:
		// Push the address of the last byte of the JSR.
		cpu.push16(pc + 2)
		next_pc = res.Address
	case OP_RTS:
		next_pc = cpu.pop16() + 1
	case OP_BRK:
		// BRK skips a padding byte.
		cpu.push16(pc + 2)
		cpu.push(uint8(cpu.P | FLAG_B | FLAG_R))
		cpu.P.Set(FLAG_I, true)
		next_pc = io.ReadWord(cpu.Bus, VECTOR_IRQ)
	case OP_RTI:
		cpu.setStatus(cpu.pop())
		next_pc = cpu.pop16()
	case OP_NOP:
		// pass
	default:
		err = ErrUnresolvedMode{Instruction: in}
		return
	}

	cpu.PC = next_pc

	return
}
