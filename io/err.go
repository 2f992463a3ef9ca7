package io

import (
	"github.com/ezrec/m6502/translate"
)

var f = translate.From

// ErrLoadOverflow is returned when an image does not fit in memory.
type ErrLoadOverflow struct {
	Base   uint16
	Length int
}

func (err *ErrLoadOverflow) Error() string {
	return f("image of %v bytes at $%04x overflows memory", err.Length, err.Base)
}
