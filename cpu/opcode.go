package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Major opcodes, bits [6:0] of every instruction word.
const (
	OPCODE_LOAD   = uint32(0b0000011)
	OPCODE_OP_IMM = uint32(0b0010011)
	OPCODE_AUIPC  = uint32(0b0010111)
	OPCODE_STORE  = uint32(0b0100011)
	OPCODE_OP     = uint32(0b0110011)
	OPCODE_LUI    = uint32(0b0110111)
	OPCODE_BRANCH = uint32(0b1100011)
	OPCODE_JALR   = uint32(0b1100111)
	OPCODE_JAL    = uint32(0b1101111)
)

// Secondary selector values.
const (
	FUNCT7_BASE   = uint32(0b0000000)
	FUNCT7_ALT    = uint32(0b0100000) // sub, sra, srai
	FUNCT7_MULDIV = uint32(0b0000001) // mul, div, rem
)

//go:generate go tool stringer -linecomment -type=Format

// Format is an instruction bit-layout template.
type Format int

const (
	FORMAT_R  = Format(0) // R
	FORMAT_I  = Format(1) // I
	FORMAT_S  = Format(2) // S
	FORMAT_SB = Format(3) // SB
	FORMAT_U  = Format(4) // U
	FORMAT_UJ = Format(5) // UJ
)

// ImmediateBits returns the width of the format's immediate, as shown in
// listings and as range checked by the encoder. R-format has none.
func (format Format) ImmediateBits() int {
	switch format {
	case FORMAT_I, FORMAT_S:
		return 12
	case FORMAT_SB:
		return 13
	case FORMAT_U:
		return 20
	case FORMAT_UJ:
		return 21
	}
	return 0
}

// HasFunct3 is true for formats carrying a funct3 field.
func (format Format) HasFunct3() bool {
	switch format {
	case FORMAT_R, FORMAT_I, FORMAT_S, FORMAT_SB:
		return true
	}
	return false
}

//go:generate go tool stringer -linecomment -type=AluOp

// AluOp is the resolved operation tag driving the execute stage.
type AluOp int

const (
	ALU_OP_NONE  = AluOp(0)  // NONE
	ALU_OP_ADD   = AluOp(1)  // ADD
	ALU_OP_SUB   = AluOp(2)  // SUB
	ALU_OP_MUL   = AluOp(3)  // MUL
	ALU_OP_DIV   = AluOp(4)  // DIV
	ALU_OP_REM   = AluOp(5)  // REM
	ALU_OP_AND   = AluOp(6)  // AND
	ALU_OP_OR    = AluOp(7)  // OR
	ALU_OP_XOR   = AluOp(8)  // XOR
	ALU_OP_SLL   = AluOp(9)  // SLL
	ALU_OP_SRL   = AluOp(10) // SRL
	ALU_OP_SRA   = AluOp(11) // SRA
	ALU_OP_SLT   = AluOp(12) // SLT
	ALU_OP_LOAD  = AluOp(13) // LOAD
	ALU_OP_STORE = AluOp(14) // STORE
	ALU_OP_LUI   = AluOp(15) // LUI
	ALU_OP_AUIPC = AluOp(16) // AUIPC
	ALU_OP_JAL   = AluOp(17) // JAL
	ALU_OP_JALR  = AluOp(18) // JALR
	ALU_OP_BEQ   = AluOp(19) // BEQ
	ALU_OP_BNE   = AluOp(20) // BNE
	ALU_OP_BLT   = AluOp(21) // BLT
	ALU_OP_BGE   = AluOp(22) // BGE
)

// IsBranch is true for the conditional branch operations.
func (op AluOp) IsBranch() bool {
	return op >= ALU_OP_BEQ && op <= ALU_OP_BGE
}

//go:generate go tool stringer -linecomment -type=Size

// Size is the width of a memory access in bytes.
type Size int

const (
	SIZE_NONE   = Size(0) // -
	SIZE_BYTE   = Size(1) // BYTE
	SIZE_HALF   = Size(2) // HALF
	SIZE_WORD   = Size(4) // WORD
	SIZE_DOUBLE = Size(8) // DOUBLE
)

// sizeOf maps the load/store funct3 to the access width.
var sizeOf = map[uint32]Size{
	0b000: SIZE_BYTE,
	0b001: SIZE_HALF,
	0b010: SIZE_WORD,
	0b011: SIZE_DOUBLE,
}

// Mnemonic is a single entry of the mnemonic table.
type Mnemonic struct {
	Name   string
	Format Format
	Opcode uint32
	Funct3 uint32 // Only meaningful if Format.HasFunct3()
	Funct7 uint32 // R-format, and shift immediates (imm[11:5])
	Shamt  bool   // I-format shift: imm is a 5-bit shift amount
}

// Table maps instruction names to their encodings.
type Table map[string]Mnemonic

// Lookup finds a mnemonic by name.
func (table Table) Lookup(name string) (m Mnemonic, ok bool) {
	m, ok = table[name]
	return
}

// Matches is true if the instruction word carries the mnemonic's
// selector fields.
func (m Mnemonic) Matches(code Code) bool {
	if m.Opcode != code.Opcode() {
		return false
	}
	if m.Format.HasFunct3() && m.Funct3 != code.Funct3() {
		return false
	}
	if (m.Format == FORMAT_R || m.Shamt) && m.Funct7 != code.Funct7() {
		return false
	}
	return true
}

// Find returns the mnemonic matching an instruction word's selector fields.
// If more than one matches, the first by name is returned.
func (table Table) Find(code Code) (m Mnemonic, ok bool) {
	var found string
	for name, cand := range table {
		if !cand.Matches(code) {
			continue
		}
		if ok && name > found {
			continue
		}
		found, m, ok = name, cand, true
	}
	return
}

// All iterates over the table in name order.
func (table Table) All() iter.Seq2[string, Mnemonic] {
	return func(yield func(string, Mnemonic) bool) {
		for _, name := range slices.Sorted(maps.Keys(table)) {
			if !yield(name, table[name]) {
				return
			}
		}
	}
}

func makeR(name string, funct3, funct7 uint32) Mnemonic {
	return Mnemonic{Name: name, Format: FORMAT_R, Opcode: OPCODE_OP, Funct3: funct3, Funct7: funct7}
}

func makeI(name string, opcode, funct3 uint32) Mnemonic {
	return Mnemonic{Name: name, Format: FORMAT_I, Opcode: opcode, Funct3: funct3}
}

func makeShamt(name string, funct3, funct7 uint32) Mnemonic {
	return Mnemonic{Name: name, Format: FORMAT_I, Opcode: OPCODE_OP_IMM, Funct3: funct3, Funct7: funct7, Shamt: true}
}

func makeS(name string, funct3 uint32) Mnemonic {
	return Mnemonic{Name: name, Format: FORMAT_S, Opcode: OPCODE_STORE, Funct3: funct3}
}

func makeSB(name string, funct3 uint32) Mnemonic {
	return Mnemonic{Name: name, Format: FORMAT_SB, Opcode: OPCODE_BRANCH, Funct3: funct3}
}

// RV32IM is the supported instruction set. It is never modified.
var RV32IM = Table{
	"add": makeR("add", 0b000, FUNCT7_BASE),
	"sub": makeR("sub", 0b000, FUNCT7_ALT),
	"sll": makeR("sll", 0b001, FUNCT7_BASE),
	"slt": makeR("slt", 0b010, FUNCT7_BASE),
	"xor": makeR("xor", 0b100, FUNCT7_BASE),
	"srl": makeR("srl", 0b101, FUNCT7_BASE),
	"sra": makeR("sra", 0b101, FUNCT7_ALT),
	"or":  makeR("or", 0b110, FUNCT7_BASE),
	"and": makeR("and", 0b111, FUNCT7_BASE),
	"mul": makeR("mul", 0b000, FUNCT7_MULDIV),
	"div": makeR("div", 0b100, FUNCT7_MULDIV),
	"rem": makeR("rem", 0b110, FUNCT7_MULDIV),

	"addi": makeI("addi", OPCODE_OP_IMM, 0b000),
	"slti": makeI("slti", OPCODE_OP_IMM, 0b010),
	"xori": makeI("xori", OPCODE_OP_IMM, 0b100),
	"ori":  makeI("ori", OPCODE_OP_IMM, 0b110),
	"andi": makeI("andi", OPCODE_OP_IMM, 0b111),
	"slli": makeShamt("slli", 0b001, FUNCT7_BASE),
	"srli": makeShamt("srli", 0b101, FUNCT7_BASE),
	"srai": makeShamt("srai", 0b101, FUNCT7_ALT),

	"lb":   makeI("lb", OPCODE_LOAD, 0b000),
	"lh":   makeI("lh", OPCODE_LOAD, 0b001),
	"lw":   makeI("lw", OPCODE_LOAD, 0b010),
	"ld":   makeI("ld", OPCODE_LOAD, 0b011),
	"jalr": makeI("jalr", OPCODE_JALR, 0b000),

	"sb": makeS("sb", 0b000),
	"sh": makeS("sh", 0b001),
	"sw": makeS("sw", 0b010),
	"sd": makeS("sd", 0b011),

	"beq": makeSB("beq", 0b000),
	"bne": makeSB("bne", 0b001),
	"blt": makeSB("blt", 0b100),
	"bge": makeSB("bge", 0b101),

	"lui":   {Name: "lui", Format: FORMAT_U, Opcode: OPCODE_LUI},
	"auipc": {Name: "auipc", Format: FORMAT_U, Opcode: OPCODE_AUIPC},

	"jal": {Name: "jal", Format: FORMAT_UJ, Opcode: OPCODE_JAL},
}
