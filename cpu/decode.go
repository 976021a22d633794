package cpu

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -linecomment -type=MuxA,MuxB,MuxMa,MuxY

// MuxA selects the ALU's first operand.
type MuxA int

const (
	MUX_A_RS1 = MuxA(0) // rs1
	MUX_A_PC  = MuxA(1) // pc
)

// MuxB selects the ALU's second operand.
type MuxB int

const (
	MUX_B_RS2 = MuxB(0) // rs2
	MUX_B_IMM = MuxB(1) // imm
)

// MuxMa selects the memory address source.
type MuxMa int

const (
	MUX_MA_PC  = MuxMa(0) // pc
	MUX_MA_ALU = MuxMa(1) // alu
)

// MuxY selects the value routed to the destination register.
type MuxY int

const (
	MUX_Y_ALU    = MuxY(0) // alu
	MUX_Y_MEMORY = MuxY(1) // mdr
	MUX_Y_RETURN = MuxY(2) // pc+4
)

// Control is the control-signal bundle produced by the decode stage.
type Control struct {
	MuxA     MuxA
	MuxB     MuxB
	MuxMa    MuxMa
	MuxY     MuxY
	Branch   bool // PC may be redirected this cycle.
	MemRead  bool
	MemWrite bool
	RegWrite bool
	AluOp    AluOp
	Size     Size // Memory access width, if MemRead or MemWrite.
}

func (ctl Control) String() string {
	flag := func(name string, on bool) string {
		if on {
			return name
		}
		return "-"
	}
	return fmt.Sprintf("%v a:%v b:%v ma:%v y:%v %v %v %v %v %v",
		ctl.AluOp, ctl.MuxA, ctl.MuxB, ctl.MuxMa, ctl.MuxY,
		flag("br", ctl.Branch), flag("rd", ctl.MemRead), flag("wr", ctl.MemWrite),
		flag("wb", ctl.RegWrite), ctl.Size)
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Code    Code
	Name    string // Mnemonic name.
	Format  Format
	Opcode  uint32
	Funct3  uint32
	Funct7  uint32
	Rd      uint32
	Rs1     uint32
	Rs2     uint32
	Imm     int32 // Sign-extended immediate; U-format is pre-shifted.
	Control Control
}

// Decode maps an instruction word to its fields and control signals.
// Decoding is the exact inverse of the MakeCode* encoders.
func Decode(code Code) (inst Instruction, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	format, ok := code.Format()
	if !ok {
		err = ErrOpcodeDecode
		return
	}

	inst = Instruction{
		Code:   code,
		Format: format,
		Opcode: code.Opcode(),
	}

	if format.HasFunct3() {
		inst.Funct3 = code.Funct3()
	}

	switch format {
	case FORMAT_R:
		inst.Funct7 = code.Funct7()
		inst.Rd = code.Rd()
		inst.Rs1 = code.Rs1()
		inst.Rs2 = code.Rs2()
	case FORMAT_I:
		inst.Rd = code.Rd()
		inst.Rs1 = code.Rs1()
		inst.Imm = code.ImmI()
	case FORMAT_S:
		inst.Rs1 = code.Rs1()
		inst.Rs2 = code.Rs2()
		inst.Imm = code.ImmS()
	case FORMAT_SB:
		inst.Rs1 = code.Rs1()
		inst.Rs2 = code.Rs2()
		inst.Imm = code.ImmSB()
	case FORMAT_U:
		inst.Rd = code.Rd()
		inst.Imm = code.ImmU()
	case FORMAT_UJ:
		inst.Rd = code.Rd()
		inst.Imm = code.ImmUJ()
	}

	inst.Control, err = control(code)
	if err != nil {
		return
	}

	if m, ok := RV32IM.Find(code); ok {
		inst.Name = m.Name
		if m.Shamt {
			inst.Funct7 = m.Funct7
		}
	}

	return
}

// control resolves the ALU operation and the datapath selectors.
func control(code Code) (ctl Control, err error) {
	funct3 := code.Funct3()
	funct7 := code.Funct7()

	switch code.Opcode() {
	case OPCODE_OP:
		ctl = Control{MuxB: MUX_B_RS2, MuxY: MUX_Y_ALU, RegWrite: true}
		switch {
		case funct7 == FUNCT7_BASE:
			ctl.AluOp = [8]AluOp{ALU_OP_ADD, ALU_OP_SLL, ALU_OP_SLT, ALU_OP_NONE,
				ALU_OP_XOR, ALU_OP_SRL, ALU_OP_OR, ALU_OP_AND}[funct3]
		case funct7 == FUNCT7_ALT && funct3 == 0b000:
			ctl.AluOp = ALU_OP_SUB
		case funct7 == FUNCT7_ALT && funct3 == 0b101:
			ctl.AluOp = ALU_OP_SRA
		case funct7 == FUNCT7_MULDIV && funct3 == 0b000:
			ctl.AluOp = ALU_OP_MUL
		case funct7 == FUNCT7_MULDIV && funct3 == 0b100:
			ctl.AluOp = ALU_OP_DIV
		case funct7 == FUNCT7_MULDIV && funct3 == 0b110:
			ctl.AluOp = ALU_OP_REM
		default:
			err = ErrOpcodeFunct7
			return
		}
		if ctl.AluOp == ALU_OP_NONE {
			err = ErrOpcodeFunct3
			return
		}
	case OPCODE_OP_IMM:
		ctl = Control{MuxB: MUX_B_IMM, MuxY: MUX_Y_ALU, RegWrite: true}
		switch funct3 {
		case 0b000:
			ctl.AluOp = ALU_OP_ADD
		case 0b010:
			ctl.AluOp = ALU_OP_SLT
		case 0b100:
			ctl.AluOp = ALU_OP_XOR
		case 0b110:
			ctl.AluOp = ALU_OP_OR
		case 0b111:
			ctl.AluOp = ALU_OP_AND
		case 0b001:
			if funct7 != FUNCT7_BASE {
				err = ErrOpcodeFunct7
				return
			}
			ctl.AluOp = ALU_OP_SLL
		case 0b101:
			switch funct7 {
			case FUNCT7_BASE:
				ctl.AluOp = ALU_OP_SRL
			case FUNCT7_ALT:
				ctl.AluOp = ALU_OP_SRA
			default:
				err = ErrOpcodeFunct7
				return
			}
		default:
			err = ErrOpcodeFunct3
			return
		}
	case OPCODE_LOAD:
		size, ok := sizeOf[funct3]
		if !ok {
			err = ErrOpcodeFunct3
			return
		}
		ctl = Control{MuxB: MUX_B_IMM, MuxMa: MUX_MA_ALU, MuxY: MUX_Y_MEMORY,
			MemRead: true, RegWrite: true, AluOp: ALU_OP_LOAD, Size: size}
	case OPCODE_STORE:
		size, ok := sizeOf[funct3]
		if !ok {
			err = ErrOpcodeFunct3
			return
		}
		ctl = Control{MuxB: MUX_B_IMM, MuxMa: MUX_MA_ALU,
			MemWrite: true, AluOp: ALU_OP_STORE, Size: size}
	case OPCODE_BRANCH:
		ctl = Control{MuxB: MUX_B_RS2, Branch: true}
		switch funct3 {
		case 0b000:
			ctl.AluOp = ALU_OP_BEQ
		case 0b001:
			ctl.AluOp = ALU_OP_BNE
		case 0b100:
			ctl.AluOp = ALU_OP_BLT
		case 0b101:
			ctl.AluOp = ALU_OP_BGE
		default:
			err = ErrOpcodeFunct3
			return
		}
	case OPCODE_JALR:
		if funct3 != 0b000 {
			err = ErrOpcodeFunct3
			return
		}
		ctl = Control{MuxB: MUX_B_IMM, MuxY: MUX_Y_RETURN,
			Branch: true, RegWrite: true, AluOp: ALU_OP_JALR}
	case OPCODE_JAL:
		ctl = Control{MuxA: MUX_A_PC, MuxB: MUX_B_IMM, MuxY: MUX_Y_RETURN,
			Branch: true, RegWrite: true, AluOp: ALU_OP_JAL}
	case OPCODE_LUI:
		ctl = Control{MuxB: MUX_B_IMM, MuxY: MUX_Y_ALU, RegWrite: true, AluOp: ALU_OP_LUI}
	case OPCODE_AUIPC:
		ctl = Control{MuxA: MUX_A_PC, MuxB: MUX_B_IMM, MuxY: MUX_Y_ALU, RegWrite: true, AluOp: ALU_OP_AUIPC}
	default:
		err = ErrOpcodeDecode
	}

	return
}

func reg(index uint32) string {
	return fmt.Sprintf("x%d", index)
}

// String disassembles the instruction.
func (inst Instruction) String() string {
	name := inst.Name
	if len(name) == 0 {
		name = inst.Control.AluOp.String()
	}

	switch inst.Format {
	case FORMAT_R:
		return fmt.Sprintf("%v %v, %v, %v", name, reg(inst.Rd), reg(inst.Rs1), reg(inst.Rs2))
	case FORMAT_I:
		switch inst.Opcode {
		case OPCODE_LOAD, OPCODE_JALR:
			return fmt.Sprintf("%v %v, %d(%v)", name, reg(inst.Rd), inst.Imm, reg(inst.Rs1))
		}
		imm := inst.Imm
		if inst.Funct3 == 0b001 || inst.Funct3 == 0b101 {
			imm &= 0x1f
		}
		return fmt.Sprintf("%v %v, %v, %d", name, reg(inst.Rd), reg(inst.Rs1), imm)
	case FORMAT_S:
		return fmt.Sprintf("%v %v, %d(%v)", name, reg(inst.Rs2), inst.Imm, reg(inst.Rs1))
	case FORMAT_SB:
		return fmt.Sprintf("%v %v, %v, %d", name, reg(inst.Rs1), reg(inst.Rs2), inst.Imm)
	case FORMAT_U:
		return fmt.Sprintf("%v %v, 0x%x", name, reg(inst.Rd), uint32(inst.Imm)>>12)
	case FORMAT_UJ:
		return fmt.Sprintf("%v %v, %d", name, reg(inst.Rd), inst.Imm)
	}

	return fmt.Sprintf("0x%08x", uint32(inst.Code))
}
