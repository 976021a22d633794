package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustCode(code Code, err error) Code {
	if err != nil {
		panic(err)
	}
	return code
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		code     Code
		expected uint32
	}){
		{"addi x1, x0, 5", mustCode(MakeCodeI(RV32IM["addi"], 1, 0, 5)), 0x00500093},
		{"add x3, x1, x2", MakeCodeR(RV32IM["add"], 3, 1, 2), 0x002081B3},
		{"sub x1, x2, x3", MakeCodeR(RV32IM["sub"], 1, 2, 3), 0x403100B3},
		{"mul x5, x6, x7", MakeCodeR(RV32IM["mul"], 5, 6, 7), 0x027302B3},
		{"srai x1, x1, 3", mustCode(MakeCodeI(RV32IM["srai"], 1, 1, 3)), 0x4030D093},
		{"lw x6, -4(x2)", mustCode(MakeCodeI(RV32IM["lw"], 6, 2, -4)), 0xFFC12303},
		{"sw x5, 8(x2)", mustCode(MakeCodeS(RV32IM["sw"], 2, 5, 8)), 0x00512423},
		{"beq x1, x2, -4", mustCode(MakeCodeSB(RV32IM["beq"], 1, 2, -4)), 0xFE208EE3},
		{"lui x5, 0x10000", mustCode(MakeCodeU(RV32IM["lui"], 5, 0x10000)), 0x100002B7},
		{"jal x1, 8", mustCode(MakeCodeUJ(RV32IM["jal"], 1, 8)), 0x008000EF},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, uint32(entry.code), entry.name)
	}
}

func TestMakeCodeErrors(t *testing.T) {
	assert := assert.New(t)

	var erange *ErrImmediateRange

	_, err := MakeCodeI(RV32IM["addi"], 1, 0, 4096)
	assert.True(errors.As(err, &erange))
	assert.Equal(int64(4096), erange.Value)
	assert.Equal(12, erange.Bits)

	_, err = MakeCodeI(RV32IM["addi"], 1, 0, -2049)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeI(RV32IM["slli"], 1, 0, 32)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeU(RV32IM["lui"], 1, -1)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeU(RV32IM["lui"], 1, 1<<20)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeSB(RV32IM["bne"], 1, 2, 3)
	assert.ErrorIs(err, ErrImmediateAlign)

	_, err = MakeCodeSB(RV32IM["bne"], 1, 2, 4096)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeUJ(RV32IM["jal"], 1, 1)
	assert.ErrorIs(err, ErrImmediateAlign)

	_, err = MakeCodeUJ(RV32IM["jal"], 1, 1<<20)
	assert.True(errors.As(err, &erange))

	_, err = MakeCodeI(RV32IM["addi"], 1, 0, 2047)
	assert.NoError(err)
	_, err = MakeCodeI(RV32IM["addi"], 1, 0, -2048)
	assert.NoError(err)
}

func TestSignedSelfInverse(t *testing.T) {
	assert := assert.New(t)

	for _, bits := range []int{12, 13, 20, 21} {
		lo := -(int64(1) << (bits - 1))
		hi := (int64(1) << (bits - 1)) - 1
		step := int64(1) << (bits - 10)
		for value := lo; value <= hi; value += step {
			field, err := EncodeSigned(value, bits)
			assert.NoError(err)
			assert.Equal(int32(value), SignExtend(field, bits), "bits %d value %d", bits, value)
		}
		field, err := EncodeSigned(hi, bits)
		assert.NoError(err)
		assert.Equal(int32(hi), SignExtend(field, bits))
	}
}

func TestScatteredImmediates(t *testing.T) {
	assert := assert.New(t)

	for offset := int64(-4096); offset <= 4094; offset += 2 {
		code, err := MakeCodeSB(RV32IM["blt"], 3, 4, offset)
		assert.NoError(err)
		assert.Equal(int32(offset), code.ImmSB())
		assert.Equal(uint32(3), code.Rs1())
		assert.Equal(uint32(4), code.Rs2())
	}

	for offset := int64(-1 << 20); offset < 1<<20; offset += 2 * 127 {
		code, err := MakeCodeUJ(RV32IM["jal"], 7, offset)
		assert.NoError(err)
		assert.Equal(int32(offset), code.ImmUJ())
		assert.Equal(uint32(7), code.Rd())
	}

	code, err := MakeCodeUJ(RV32IM["jal"], 0, (1<<20)-2)
	assert.NoError(err)
	assert.Equal(int32((1<<20)-2), code.ImmUJ())
}

func TestParseImmediate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word     string
		expected int64
		ok       bool
	}){
		{"0", 0, true},
		{"42", 42, true},
		{"-42", -42, true},
		{"+7", 7, true},
		{"0x10", 16, true},
		{"0XfF", 255, true},
		{"-0x800", -2048, true},
		{"0b101", 5, true},
		{"", 0, false},
		{"-", 0, false},
		{"0x", 0, false},
		{"12ab", 0, false},
		{"x1", 0, false},
		{"0b102", 0, false},
		{"0x7FFFFFFFFFFFFFFF", 0x7FFFFFFFFFFFFFFF, true},
		{"0xFFFFFFFFFFFFFFFF", 0, false},
		{"18446744073709551615", 0, false},
		{"-0x8000000000000000", 0, false},
	}

	for _, entry := range table {
		value, err := ParseImmediate(entry.word)
		if entry.ok {
			assert.NoError(err, entry.word)
			assert.Equal(entry.expected, value, entry.word)
		} else {
			assert.Equal(ErrParseNumber(entry.word), err, entry.word)
		}
	}
}

func TestBreakdown(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code     Code
		expected string
	}){
		{0x00500093, "0010011-000-NULL-00001-00000-NULL-000000000101"},
		{0x002081B3, "0110011-000-0000000-00011-00001-00010-NULL"},
		{0x00512423, "0100011-010-NULL-NULL-00010-00101-000000001000"},
		{0xFE208EE3, "1100011-000-NULL-NULL-00001-00010-1111111111100"},
		{0x100002B7, "0110111-NULL-NULL-00101-NULL-NULL-00010000000000000000"},
		{0x008000EF, "1101111-NULL-NULL-00001-NULL-NULL-000000000000000001000"},
		{0xdeadbe7f, "1111111-NULL-NULL-NULL-NULL-NULL-NULL"},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, entry.code.Breakdown(), "0x%08x", uint32(entry.code))
	}
}
