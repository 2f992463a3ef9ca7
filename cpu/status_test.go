package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert := assert.New(t)

	var p Status
	assert.Equal(uint8(0x20), p.Value())
	assert.Equal("nv-bdizc", p.String())

	p.Set(FLAG_C, true)
	p.Set(FLAG_N, true)
	assert.True(p.Has(FLAG_C | FLAG_N))
	assert.False(p.Has(FLAG_C | FLAG_Z))
	assert.Equal("Nv-bdizC", p.String())
	assert.Equal(uint8(0xa1), p.Value())

	p.Set(FLAG_C, false)
	assert.False(p.Has(FLAG_C))

	p.SetZN(0x00)
	assert.True(p.Has(FLAG_Z))
	assert.False(p.Has(FLAG_N))

	p.SetZN(0x80)
	assert.False(p.Has(FLAG_Z))
	assert.True(p.Has(FLAG_N))
}
