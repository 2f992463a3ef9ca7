package cpu

const (
	STACK_BASE  = uint16(0x0100) // Page one holds the stack.
	STACK_RESET = uint8(0xfd)    // Stack pointer after reset.
)

// push stores a byte at the stack pointer, then decrements it.
// The stack pointer wraps within page one.
func (cpu *Cpu) push(value uint8) {
	cpu.Bus.Write(STACK_BASE|uint16(cpu.SP), value)
	cpu.SP--
}

// pop increments the stack pointer, then loads the byte it points to.
func (cpu *Cpu) pop() (value uint8) {
	cpu.SP++
	value = cpu.Bus.Read(STACK_BASE | uint16(cpu.SP))
	return
}

// push16 pushes a word, high byte first.
func (cpu *Cpu) push16(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value & 0xff))
}

// pop16 pops a word, low byte first.
func (cpu *Cpu) pop16() (value uint16) {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	value = (hi << 8) | lo
	return
}

// Peek returns the byte on top of the stack without popping it.
func (cpu *Cpu) Peek() uint8 {
	return cpu.Bus.Read(STACK_BASE | uint16(cpu.SP+1))
}
