package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	tr := &Trace{Bus: mem, Record: true}

	tr.Write(0x0200, 0x42)
	assert.Equal(uint8(0x42), tr.Read(0x0200))
	assert.Equal(uint8(0x00), tr.Read(0x0201))

	assert.Equal(1, tr.Writes)
	assert.Equal(2, tr.Reads)
	assert.Equal([]Access{
		{Address: 0x0200, Value: 0x42, Write: true},
		{Address: 0x0200, Value: 0x42},
		{Address: 0x0201, Value: 0x00},
	}, tr.Accesses)

	// Writes reach the underlying bus.
	assert.Equal(uint8(0x42), mem.Read(0x0200))

	tr.Reset()
	assert.Equal(0, tr.Reads)
	assert.Equal(0, tr.Writes)
	assert.Empty(tr.Accesses)
}

func TestTrace_NoRecord(t *testing.T) {
	assert := assert.New(t)

	tr := &Trace{Bus: &Memory{}}
	tr.Write(0x10, 1)
	tr.Read(0x10)

	assert.Equal(1, tr.Writes)
	assert.Equal(1, tr.Reads)
	assert.Nil(tr.Accesses)
}
