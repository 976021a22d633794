package emulator

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrCycleLimit = errors.New(f("maximum clock cycles exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%08x %v", err.Pc, err.Err)
	}
	return f("line %d (pc 0x%08x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
