package cpu

import (
	"strings"
)

// Status flag masks, at their hardware bit positions.
const (
	FLAG_C = Status(1 << 0) // Carry
	FLAG_Z = Status(1 << 1) // Zero
	FLAG_I = Status(1 << 2) // Interrupt disable
	FLAG_D = Status(1 << 3) // Decimal mode
	FLAG_B = Status(1 << 4) // Break (only exists on the stack)
	FLAG_R = Status(1 << 5) // Reserved, always reads 1
	FLAG_V = Status(1 << 6) // Overflow
	FLAG_N = Status(1 << 7) // Negative
)

// Status is the processor status register.
type Status uint8

// Value returns the register as a byte. Bit 5 always reads as 1.
func (p Status) Value() uint8 {
	return uint8(p | FLAG_R)
}

// Has returns true if all of the flags in mask are set.
func (p Status) Has(mask Status) bool {
	return p&mask == mask
}

// Set sets or clears the flags in mask.
func (p *Status) Set(mask Status, on bool) {
	if on {
		*p |= mask
	} else {
		*p &^= mask
	}
	*p |= FLAG_R
}

// SetZN sets Z and N from a result byte.
func (p *Status) SetZN(value uint8) {
	p.Set(FLAG_Z, value == 0)
	p.Set(FLAG_N, value&0x80 != 0)
}

// String renders the flags as NV-BDIZC, upper case when set.
func (p Status) String() string {
	s := strings.Builder{}

	for n, name := range "NV-BDIZC" {
		mask := Status(0x80 >> n)
		switch {
		case name == '-':
			s.WriteRune('-')
		case p.Has(mask):
			s.WriteRune(name)
		default:
			s.WriteString(strings.ToLower(string(name)))
		}
	}

	return s.String()
}
