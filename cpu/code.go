package cpu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Code is a single 32-bit instruction word.
type Code uint32

// Opcode returns bits [6:0].
func (code Code) Opcode() uint32 {
	return uint32(code) & 0x7f
}

// Rd returns bits [11:7].
func (code Code) Rd() uint32 {
	return (uint32(code) >> 7) & 0x1f
}

// Funct3 returns bits [14:12].
func (code Code) Funct3() uint32 {
	return (uint32(code) >> 12) & 0x7
}

// Rs1 returns bits [19:15].
func (code Code) Rs1() uint32 {
	return (uint32(code) >> 15) & 0x1f
}

// Rs2 returns bits [24:20].
func (code Code) Rs2() uint32 {
	return (uint32(code) >> 20) & 0x1f
}

// Funct7 returns bits [31:25].
func (code Code) Funct7() uint32 {
	return (uint32(code) >> 25) & 0x7f
}

// ImmI returns the sign-extended I-format immediate.
func (code Code) ImmI() int32 {
	return SignExtend(uint32(code)>>20, 12)
}

// ImmS returns the sign-extended S-format immediate.
func (code Code) ImmS() int32 {
	word := uint32(code)
	field := ((word >> 25) << 5) | ((word >> 7) & 0x1f)
	return SignExtend(field, 12)
}

// ImmSB returns the sign-extended SB-format branch offset.
// imm[12] | imm[10:5] | ... | imm[4:1] | imm[11]
func (code Code) ImmSB() int32 {
	word := uint32(code)
	field := (((word >> 31) & 0x1) << 12) |
		(((word >> 7) & 0x1) << 11) |
		(((word >> 25) & 0x3f) << 5) |
		(((word >> 8) & 0xf) << 1)
	return SignExtend(field, 13)
}

// ImmU returns the U-format immediate, already shifted into bits [31:12].
func (code Code) ImmU() int32 {
	return int32(uint32(code) & 0xfffff000)
}

// ImmUJ returns the sign-extended UJ-format jump offset.
// imm[20] | imm[10:1] | imm[11] | imm[19:12]
func (code Code) ImmUJ() int32 {
	word := uint32(code)
	field := (((word >> 31) & 0x1) << 20) |
		(((word >> 12) & 0xff) << 12) |
		(((word >> 20) & 0x1) << 11) |
		(((word >> 21) & 0x3ff) << 1)
	return SignExtend(field, 21)
}

// SignExtend interprets the low 'bits' of field as a two's complement value.
func SignExtend(field uint32, bits int) int32 {
	shift := 32 - bits
	return int32(field<<shift) >> shift
}

// EncodeSigned range checks value against a signed field of 'bits' width,
// and returns its two's complement bit pattern.
func EncodeSigned(value int64, bits int) (field uint32, err error) {
	lo := -(int64(1) << (bits - 1))
	hi := (int64(1) << (bits - 1)) - 1
	if value < lo || value > hi {
		err = &ErrImmediateRange{Value: value, Bits: bits}
		return
	}

	field = uint32(value) & ((1 << bits) - 1)
	return
}

// EncodeUnsigned range checks value against an unsigned field of 'bits' width.
func EncodeUnsigned(value int64, bits int) (field uint32, err error) {
	if value < 0 || value > (int64(1)<<bits)-1 {
		err = &ErrImmediateRange{Value: value, Bits: bits}
		return
	}

	field = uint32(value)
	return
}

// ParseImmediate parses a decimal, 0x-prefixed hexadecimal or 0b-prefixed
// binary literal, with an optional leading sign.
func ParseImmediate(word string) (value int64, err error) {
	digits := word
	negative := false
	switch {
	case strings.HasPrefix(digits, "-"):
		negative = true
		digits = digits[1:]
	case strings.HasPrefix(digits, "+"):
		digits = digits[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		base = 16
		digits = digits[2:]
	case strings.HasPrefix(digits, "0b"), strings.HasPrefix(digits, "0B"):
		base = 2
		digits = digits[2:]
	}

	u64, perr := strconv.ParseUint(digits, base, 64)
	if perr != nil || len(digits) == 0 || u64 > math.MaxInt64 {
		err = ErrParseNumber(word)
		return
	}

	value = int64(u64)
	if negative {
		value = -value
	}

	return
}

// MakeCodeR creates an R-format instruction.
func MakeCodeR(m Mnemonic, rd, rs1, rs2 uint32) Code {
	return Code((m.Funct7 << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		(m.Funct3 << 12) | ((rd & 0x1f) << 7) | m.Opcode)
}

// MakeCodeI creates an I-format instruction. Shift mnemonics take a
// 5-bit shift amount and carry their funct7 in imm[11:5].
func MakeCodeI(m Mnemonic, rd, rs1 uint32, imm int64) (code Code, err error) {
	var field uint32
	if m.Shamt {
		field, err = EncodeUnsigned(imm, 5)
		field |= m.Funct7 << 5
	} else {
		field, err = EncodeSigned(imm, 12)
	}
	if err != nil {
		return
	}

	code = Code((field << 20) | ((rs1 & 0x1f) << 15) | (m.Funct3 << 12) | ((rd & 0x1f) << 7) | m.Opcode)
	return
}

// MakeCodeS creates an S-format instruction.
func MakeCodeS(m Mnemonic, rs1, rs2 uint32, imm int64) (code Code, err error) {
	field, err := EncodeSigned(imm, 12)
	if err != nil {
		return
	}

	code = Code(((field >> 5) << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		(m.Funct3 << 12) | ((field & 0x1f) << 7) | m.Opcode)
	return
}

// MakeCodeSB creates an SB-format (branch) instruction.
func MakeCodeSB(m Mnemonic, rs1, rs2 uint32, offset int64) (code Code, err error) {
	if offset&1 != 0 {
		err = ErrImmediateAlign
		return
	}
	field, err := EncodeSigned(offset, 13)
	if err != nil {
		return
	}

	code = Code((((field >> 12) & 0x1) << 31) |
		(((field >> 5) & 0x3f) << 25) |
		((rs2 & 0x1f) << 20) |
		((rs1 & 0x1f) << 15) |
		(m.Funct3 << 12) |
		(((field >> 1) & 0xf) << 8) |
		(((field >> 11) & 0x1) << 7) |
		m.Opcode)
	return
}

// MakeCodeU creates a U-format instruction from the unsigned upper 20 bits.
func MakeCodeU(m Mnemonic, rd uint32, imm int64) (code Code, err error) {
	field, err := EncodeUnsigned(imm, 20)
	if err != nil {
		return
	}

	code = Code((field << 12) | ((rd & 0x1f) << 7) | m.Opcode)
	return
}

// MakeCodeUJ creates a UJ-format (jal) instruction.
func MakeCodeUJ(m Mnemonic, rd uint32, offset int64) (code Code, err error) {
	if offset&1 != 0 {
		err = ErrImmediateAlign
		return
	}
	field, err := EncodeSigned(offset, 21)
	if err != nil {
		return
	}

	code = Code((((field >> 20) & 0x1) << 31) |
		(((field >> 1) & 0x3ff) << 21) |
		(((field >> 11) & 0x1) << 20) |
		(((field >> 12) & 0xff) << 12) |
		((rd & 0x1f) << 7) |
		m.Opcode)
	return
}

// Format returns the layout of the instruction word, by its opcode.
func (code Code) Format() (format Format, ok bool) {
	ok = true
	switch code.Opcode() {
	case OPCODE_OP:
		format = FORMAT_R
	case OPCODE_OP_IMM, OPCODE_LOAD, OPCODE_JALR:
		format = FORMAT_I
	case OPCODE_STORE:
		format = FORMAT_S
	case OPCODE_BRANCH:
		format = FORMAT_SB
	case OPCODE_LUI, OPCODE_AUIPC:
		format = FORMAT_U
	case OPCODE_JAL:
		format = FORMAT_UJ
	default:
		ok = false
	}
	return
}

// bin formats the low 'bits' of value as a zero padded binary string.
func bin(value uint32, bits int) string {
	return fmt.Sprintf("%0*b", bits, value&((1<<bits)-1))
}

// Breakdown returns the listing field annotation of the instruction:
// opcode-funct3-funct7-rd-rs1-rs2-imm, binary, with NULL for absent fields.
func (code Code) Breakdown() string {
	const null = "NULL"

	fields := [7]string{bin(code.Opcode(), 7), null, null, null, null, null, null}

	format, ok := code.Format()
	if !ok {
		return strings.Join(fields[:], "-")
	}

	if format.HasFunct3() {
		fields[1] = bin(code.Funct3(), 3)
	}

	switch format {
	case FORMAT_R:
		fields[2] = bin(code.Funct7(), 7)
		fields[3] = bin(code.Rd(), 5)
		fields[4] = bin(code.Rs1(), 5)
		fields[5] = bin(code.Rs2(), 5)
	case FORMAT_I:
		fields[3] = bin(code.Rd(), 5)
		fields[4] = bin(code.Rs1(), 5)
		fields[6] = bin(uint32(code.ImmI()), 12)
	case FORMAT_S:
		fields[4] = bin(code.Rs1(), 5)
		fields[5] = bin(code.Rs2(), 5)
		fields[6] = bin(uint32(code.ImmS()), 12)
	case FORMAT_SB:
		fields[4] = bin(code.Rs1(), 5)
		fields[5] = bin(code.Rs2(), 5)
		fields[6] = bin(uint32(code.ImmSB()), 13)
	case FORMAT_U:
		fields[3] = bin(code.Rd(), 5)
		fields[6] = bin(uint32(code.ImmU())>>12, 20)
	case FORMAT_UJ:
		fields[3] = bin(code.Rd(), 5)
		fields[6] = bin(uint32(code.ImmUJ()), 21)
	}

	return strings.Join(fields[:], "-")
}
