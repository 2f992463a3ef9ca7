package cpu

// doAlu performs the requested bitwise operation, and returns the output value.
func doAlu(op Mnemonic, input uint8, value uint8) (output uint8) {
	switch op {
	case OP_AND:
		output = input & value
	case OP_ORA:
		output = input | value
	case OP_EOR:
		output = input ^ value
	}

	return
}

// carry returns the carry flag as an addend.
func (cpu *Cpu) carry() uint16 {
	if cpu.P.Has(FLAG_C) {
		return 1
	}
	return 0
}

// decimal returns true when arithmetic is done in BCD.
func (cpu *Cpu) decimal() bool {
	return cpu.P.Has(FLAG_D) && !cpu.NoDecimal
}

// adcBinary adds value and carry to the accumulator.
func (cpu *Cpu) adcBinary(value uint8) {
	a := uint16(cpu.A)
	sum := a + uint16(value) + cpu.carry()
	result := uint8(sum)

	// Overflow when both inputs share a sign that the result does not.
	cpu.P.Set(FLAG_V, (uint8(a)^result)&(value^result)&0x80 != 0)
	cpu.P.Set(FLAG_C, sum > 0xff)
	cpu.A = result
	cpu.P.SetZN(result)
}

// adcDecimal is the NMOS BCD addition. Z is taken from the binary sum,
// N and V from the sum before the high nibble is adjusted.
func (cpu *Cpu) adcDecimal(value uint8) {
	a := uint16(cpu.A)
	b := uint16(value)
	c := cpu.carry()

	binary := uint8(a + b + c)

	lo := (a & 0x0f) + (b & 0x0f) + c
	if lo >= 0x0a {
		lo = ((lo + 0x06) & 0x0f) + 0x10
	}
	sum := (a & 0xf0) + (b & 0xf0) + lo

	cpu.P.Set(FLAG_N, sum&0x80 != 0)
	cpu.P.Set(FLAG_V, (a^sum)&(b^sum)&0x80 != 0)

	if sum >= 0xa0 {
		sum += 0x60
	}

	cpu.P.Set(FLAG_C, sum >= 0x100)
	cpu.P.Set(FLAG_Z, binary == 0)
	cpu.A = uint8(sum)
}

// sbcDecimal is the NMOS BCD subtraction. All flags are those of the
// binary subtraction; only the accumulator is decimal adjusted.
func (cpu *Cpu) sbcDecimal(value uint8) {
	a := int(cpu.A)
	b := int(value)
	c := int(cpu.carry())

	lo := (a & 0x0f) - (b & 0x0f) + c - 1
	if lo < 0 {
		lo = ((lo - 0x06) & 0x0f) - 0x10
	}
	result := (a & 0xf0) - (b & 0xf0) + lo
	if result < 0 {
		result -= 0x60
	}

	cpu.adcBinary(^value)
	cpu.A = uint8(result & 0xff)
}

// adc adds with carry.
func (cpu *Cpu) adc(value uint8) {
	if cpu.decimal() {
		cpu.adcDecimal(value)
	} else {
		cpu.adcBinary(value)
	}
}

// sbc subtracts with borrow; carry clear means borrow.
func (cpu *Cpu) sbc(value uint8) {
	if cpu.decimal() {
		cpu.sbcDecimal(value)
	} else {
		cpu.adcBinary(^value)
	}
}

// compare subtracts value from a register without storing the result.
func (cpu *Cpu) compare(register uint8, value uint8) {
	cpu.P.Set(FLAG_C, register >= value)
	cpu.P.SetZN(register - value)
}

// shift performs ASL, LSR, ROL or ROR, updating C, N and Z.
func (cpu *Cpu) shift(op Mnemonic, input uint8) (output uint8) {
	carry_in := uint8(cpu.carry())

	switch op {
	case OP_ASL:
		cpu.P.Set(FLAG_C, input&0x80 != 0)
		output = input << 1
	case OP_LSR:
		cpu.P.Set(FLAG_C, input&0x01 != 0)
		output = input >> 1
	case OP_ROL:
		cpu.P.Set(FLAG_C, input&0x80 != 0)
		output = (input << 1) | carry_in
	case OP_ROR:
		cpu.P.Set(FLAG_C, input&0x01 != 0)
		output = (input >> 1) | (carry_in << 7)
	}

	cpu.P.SetZN(output)

	return
}
