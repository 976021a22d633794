package listing

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrFieldMissing = errors.New(f("missing address or word"))
	ErrSentinel     = errors.New(f("missing end sentinel"))
)

// ErrSyntax indicates the location of a malformed listing line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
