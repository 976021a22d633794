package cpu

// Alu performs the 32-bit two's complement operation 'op' on a and b.
// Shift amounts use only the low 5 bits of b. Division and remainder
// by zero yield zero. Branch operations yield 1 if taken, 0 otherwise.
func Alu(op AluOp, a, b uint32) (result uint32) {
	sa := int32(a)
	sb := int32(b)

	switch op {
	case ALU_OP_ADD, ALU_OP_LOAD, ALU_OP_STORE, ALU_OP_AUIPC, ALU_OP_JAL:
		result = a + b
	case ALU_OP_JALR:
		result = (a + b) &^ 1
	case ALU_OP_SUB:
		result = a - b
	case ALU_OP_MUL:
		result = uint32(sa * sb)
	case ALU_OP_DIV:
		switch {
		case sb == 0:
			result = 0
		case sa == -1<<31 && sb == -1:
			result = a
		default:
			result = uint32(sa / sb)
		}
	case ALU_OP_REM:
		switch {
		case sb == 0:
			result = 0
		case sa == -1<<31 && sb == -1:
			result = 0
		default:
			result = uint32(sa % sb)
		}
	case ALU_OP_AND:
		result = a & b
	case ALU_OP_OR:
		result = a | b
	case ALU_OP_XOR:
		result = a ^ b
	case ALU_OP_SLL:
		result = a << (b & 0x1f)
	case ALU_OP_SRL:
		result = a >> (b & 0x1f)
	case ALU_OP_SRA:
		result = uint32(sa >> (b & 0x1f))
	case ALU_OP_SLT:
		result = truth(sa < sb)
	case ALU_OP_LUI:
		result = b
	case ALU_OP_BEQ:
		result = truth(a == b)
	case ALU_OP_BNE:
		result = truth(a != b)
	case ALU_OP_BLT:
		result = truth(sa < sb)
	case ALU_OP_BGE:
		result = truth(sa >= sb)
	}

	return
}

func truth(cond bool) uint32 {
	if cond {
		return 1
	}
	return 0
}
