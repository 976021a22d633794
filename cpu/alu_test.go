package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	neg := func(v int32) uint32 { return uint32(v) }

	table := [](struct {
		op       AluOp
		a, b     uint32
		expected uint32
	}){
		{ALU_OP_ADD, 2, 3, 5},
		{ALU_OP_ADD, 0xffffffff, 1, 0},
		{ALU_OP_SUB, 2, 3, 0xffffffff},
		{ALU_OP_MUL, neg(-3), 7, neg(-21)},
		{ALU_OP_MUL, 0x10000, 0x10000, 0},
		{ALU_OP_DIV, neg(-7), 2, neg(-3)},
		{ALU_OP_DIV, 7, 0, 0},
		{ALU_OP_DIV, 0x80000000, neg(-1), 0x80000000},
		{ALU_OP_REM, neg(-7), 2, neg(-1)},
		{ALU_OP_REM, 7, 0, 0},
		{ALU_OP_REM, 0x80000000, neg(-1), 0},
		{ALU_OP_AND, 0xf0f0, 0xff00, 0xf000},
		{ALU_OP_OR, 0xf0f0, 0xff00, 0xfff0},
		{ALU_OP_XOR, 0xf0f0, 0xff00, 0x0ff0},
		{ALU_OP_SLL, 1, 33, 2},
		{ALU_OP_SRL, 0x80000000, 31, 1},
		{ALU_OP_SRA, 0x80000000, 31, 0xffffffff},
		{ALU_OP_SRA, 0x80000000, 0x20 | 4, 0xf8000000},
		{ALU_OP_SLT, neg(-1), 0, 1},
		{ALU_OP_SLT, 0, neg(-1), 0},
		{ALU_OP_LOAD, 0x1000_0000, neg(-4), 0x0fff_fffc},
		{ALU_OP_STORE, 8, 4, 12},
		{ALU_OP_LUI, 0x1234, 0xabcd_e000, 0xabcd_e000},
		{ALU_OP_AUIPC, 0x100, 0x1000, 0x1100},
		{ALU_OP_JAL, 0x100, neg(-8), 0xf8},
		{ALU_OP_JALR, 0x101, 4, 0x104},
		{ALU_OP_BEQ, 5, 5, 1},
		{ALU_OP_BEQ, 5, 6, 0},
		{ALU_OP_BNE, 5, 6, 1},
		{ALU_OP_BLT, neg(-5), 3, 1},
		{ALU_OP_BLT, 3, neg(-5), 0},
		{ALU_OP_BGE, 3, 3, 1},
		{ALU_OP_BGE, neg(-5), 3, 0},
		{ALU_OP_NONE, 1, 2, 0},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, Alu(entry.op, entry.a, entry.b), "%v 0x%x 0x%x", entry.op, entry.a, entry.b)
	}
}
