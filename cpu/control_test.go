package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/rvsim/cpu"
)

var _ = Describe("Decode/Control Unit", func() {
	decode := func(code cpu.Code) cpu.Instruction {
		inst, err := cpu.Decode(code)
		Expect(err).ToNot(HaveOccurred())
		return inst
	}

	Describe("R-format", func() {
		// add x3, x1, x2 -> 0x002081B3
		It("should decode add x3, x1, x2", func() {
			inst := decode(0x002081B3)

			Expect(inst.Format).To(Equal(cpu.FORMAT_R))
			Expect(inst.Name).To(Equal("add"))
			Expect(inst.Rd).To(Equal(uint32(3)))
			Expect(inst.Rs1).To(Equal(uint32(1)))
			Expect(inst.Rs2).To(Equal(uint32(2)))

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_ADD))
			Expect(ctl.MuxA).To(Equal(cpu.MUX_A_RS1))
			Expect(ctl.MuxB).To(Equal(cpu.MUX_B_RS2))
			Expect(ctl.MuxY).To(Equal(cpu.MUX_Y_ALU))
			Expect(ctl.RegWrite).To(BeTrue())
			Expect(ctl.Branch).To(BeFalse())
			Expect(ctl.MemRead).To(BeFalse())
			Expect(ctl.MemWrite).To(BeFalse())
		})

		It("should resolve funct7 to ADD, SUB and MUL", func() {
			Expect(decode(0x00000033).Control.AluOp).To(Equal(cpu.ALU_OP_ADD))
			Expect(decode(0x40000033).Control.AluOp).To(Equal(cpu.ALU_OP_SUB))
			Expect(decode(0x02000033).Control.AluOp).To(Equal(cpu.ALU_OP_MUL))
		})

		It("should resolve the remaining operations", func() {
			Expect(decode(0x00001033).Control.AluOp).To(Equal(cpu.ALU_OP_SLL))
			Expect(decode(0x00002033).Control.AluOp).To(Equal(cpu.ALU_OP_SLT))
			Expect(decode(0x00004033).Control.AluOp).To(Equal(cpu.ALU_OP_XOR))
			Expect(decode(0x02004033).Control.AluOp).To(Equal(cpu.ALU_OP_DIV))
			Expect(decode(0x00005033).Control.AluOp).To(Equal(cpu.ALU_OP_SRL))
			Expect(decode(0x40005033).Control.AluOp).To(Equal(cpu.ALU_OP_SRA))
			Expect(decode(0x00006033).Control.AluOp).To(Equal(cpu.ALU_OP_OR))
			Expect(decode(0x02006033).Control.AluOp).To(Equal(cpu.ALU_OP_REM))
			Expect(decode(0x00007033).Control.AluOp).To(Equal(cpu.ALU_OP_AND))
		})
	})

	Describe("I-format", func() {
		// addi x1, x0, 5 -> 0x00500093
		It("should decode addi x1, x0, 5", func() {
			inst := decode(0x00500093)

			Expect(inst.Format).To(Equal(cpu.FORMAT_I))
			Expect(inst.Rd).To(Equal(uint32(1)))
			Expect(inst.Rs1).To(Equal(uint32(0)))
			Expect(inst.Imm).To(Equal(int32(5)))
			Expect(inst.Control.AluOp).To(Equal(cpu.ALU_OP_ADD))
			Expect(inst.Control.MuxB).To(Equal(cpu.MUX_B_IMM))
			Expect(inst.Control.MuxY).To(Equal(cpu.MUX_Y_ALU))
			Expect(inst.Control.RegWrite).To(BeTrue())
			Expect(inst.String()).To(Equal("addi x1, x0, 5"))
		})

		// lw x6, -4(x2) -> 0xFFC12303
		It("should decode lw x6, -4(x2)", func() {
			inst := decode(0xFFC12303)

			Expect(inst.Imm).To(Equal(int32(-4)))
			Expect(inst.Rs1).To(Equal(uint32(2)))
			Expect(inst.Rd).To(Equal(uint32(6)))

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_LOAD))
			Expect(ctl.MuxB).To(Equal(cpu.MUX_B_IMM))
			Expect(ctl.MuxMa).To(Equal(cpu.MUX_MA_ALU))
			Expect(ctl.MuxY).To(Equal(cpu.MUX_Y_MEMORY))
			Expect(ctl.MemRead).To(BeTrue())
			Expect(ctl.MemWrite).To(BeFalse())
			Expect(ctl.RegWrite).To(BeTrue())
			Expect(ctl.Size).To(Equal(cpu.SIZE_WORD))
		})

		It("should size loads by funct3", func() {
			Expect(decode(0x00000003).Control.Size).To(Equal(cpu.SIZE_BYTE))
			Expect(decode(0x00001003).Control.Size).To(Equal(cpu.SIZE_HALF))
			Expect(decode(0x00002003).Control.Size).To(Equal(cpu.SIZE_WORD))
			Expect(decode(0x00003003).Control.Size).To(Equal(cpu.SIZE_DOUBLE))
		})

		// srai x1, x1, 3 -> 0x4030D093
		It("should decode srai by imm[11:5]", func() {
			inst := decode(0x4030D093)

			Expect(inst.Name).To(Equal("srai"))
			Expect(inst.Control.AluOp).To(Equal(cpu.ALU_OP_SRA))
			Expect(inst.Funct7).To(Equal(cpu.FUNCT7_ALT))
			Expect(inst.String()).To(Equal("srai x1, x1, 3"))
		})

		It("should decode jalr as a jump with return", func() {
			inst := decode(0x00008067) // jalr x0, 0(x1)

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_JALR))
			Expect(ctl.Branch).To(BeTrue())
			Expect(ctl.MuxY).To(Equal(cpu.MUX_Y_RETURN))
			Expect(ctl.RegWrite).To(BeTrue())
		})
	})

	Describe("S-format", func() {
		// sw x5, 8(x2) -> 0x00512423
		It("should decode sw x5, 8(x2)", func() {
			inst := decode(0x00512423)

			Expect(inst.Format).To(Equal(cpu.FORMAT_S))
			Expect(inst.Rs1).To(Equal(uint32(2)))
			Expect(inst.Rs2).To(Equal(uint32(5)))
			Expect(inst.Imm).To(Equal(int32(8)))

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_STORE))
			Expect(ctl.MuxB).To(Equal(cpu.MUX_B_IMM))
			Expect(ctl.MuxMa).To(Equal(cpu.MUX_MA_ALU))
			Expect(ctl.MemWrite).To(BeTrue())
			Expect(ctl.MemRead).To(BeFalse())
			Expect(ctl.RegWrite).To(BeFalse())
			Expect(ctl.Size).To(Equal(cpu.SIZE_WORD))
			Expect(inst.String()).To(Equal("sw x5, 8(x2)"))
		})
	})

	Describe("SB-format", func() {
		// beq x1, x2, -4 -> 0xFE208EE3
		It("should decode beq x1, x2, -4", func() {
			inst := decode(0xFE208EE3)

			Expect(inst.Format).To(Equal(cpu.FORMAT_SB))
			Expect(inst.Imm).To(Equal(int32(-4)))
			Expect(inst.Rs1).To(Equal(uint32(1)))
			Expect(inst.Rs2).To(Equal(uint32(2)))

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_BEQ))
			Expect(ctl.MuxB).To(Equal(cpu.MUX_B_RS2))
			Expect(ctl.Branch).To(BeTrue())
			Expect(ctl.RegWrite).To(BeFalse())
			Expect(ctl.AluOp.IsBranch()).To(BeTrue())
		})

		It("should resolve the branch conditions", func() {
			Expect(decode(0x00001063).Control.AluOp).To(Equal(cpu.ALU_OP_BNE))
			Expect(decode(0x00004063).Control.AluOp).To(Equal(cpu.ALU_OP_BLT))
			Expect(decode(0x00005063).Control.AluOp).To(Equal(cpu.ALU_OP_BGE))
		})
	})

	Describe("U-format and UJ-format", func() {
		// lui x5, 0x10000 -> 0x100002B7
		It("should decode lui x5, 0x10000", func() {
			inst := decode(0x100002B7)

			Expect(inst.Format).To(Equal(cpu.FORMAT_U))
			Expect(inst.Imm).To(Equal(int32(0x10000000)))
			Expect(inst.Control.AluOp).To(Equal(cpu.ALU_OP_LUI))
			Expect(inst.String()).To(Equal("lui x5, 0x10000"))
		})

		It("should select the PC for auipc", func() {
			inst := decode(0x00001317) // auipc x6, 1

			Expect(inst.Control.AluOp).To(Equal(cpu.ALU_OP_AUIPC))
			Expect(inst.Control.MuxA).To(Equal(cpu.MUX_A_PC))
			Expect(inst.Control.MuxB).To(Equal(cpu.MUX_B_IMM))
		})

		// jal x1, 8 -> 0x008000EF
		It("should decode jal x1, 8", func() {
			inst := decode(0x008000EF)

			Expect(inst.Format).To(Equal(cpu.FORMAT_UJ))
			Expect(inst.Imm).To(Equal(int32(8)))
			Expect(inst.Rd).To(Equal(uint32(1)))

			ctl := inst.Control
			Expect(ctl.AluOp).To(Equal(cpu.ALU_OP_JAL))
			Expect(ctl.MuxA).To(Equal(cpu.MUX_A_PC))
			Expect(ctl.MuxY).To(Equal(cpu.MUX_Y_RETURN))
			Expect(ctl.Branch).To(BeTrue())
			Expect(inst.String()).To(Equal("jal x1, 8"))
		})
	})

	Describe("Unsupported words", func() {
		It("should reject unknown opcodes", func() {
			_, err := cpu.Decode(0x00000073)
			Expect(err).To(MatchError(cpu.ErrOpcodeDecode))
		})

		It("should reject unknown funct combinations", func() {
			_, err := cpu.Decode(0x7e000033)
			Expect(err).To(MatchError(cpu.ErrOpcodeFunct7))
		})
	})
})
