package cpu

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalt = errors.New(f("halt"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeFunct3 = errors.New(f("funct3"))
	ErrOpcodeFunct7 = errors.New(f("funct7"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDirectiveUnknown   = errors.New(f("unknown directive"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrImmediateAlign     = errors.New(f("offset must be even"))
	ErrTextOverflow       = errors.New(f("text segment overlaps data segment"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x (%07b)", uint32(eo), Code(eo).Opcode())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrImmediateRange reports an immediate that does not fit its field.
type ErrImmediateRange struct {
	Value int64
	Bits  int
}

func (err *ErrImmediateRange) Error() string {
	return f("immediate %d out of range for %d bits", err.Value, err.Bits)
}
