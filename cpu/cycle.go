package cpu

import (
	"log"
)

// Cycle is the record of a single instruction's trip through the datapath.
// It holds everything needed to commit the instruction's effects.
type Cycle struct {
	Pc          uint32      // Address of the instruction.
	Instruction Instruction // Decoded instruction and control signals.

	A         uint32 // ALU operand A.
	B         uint32 // ALU operand B.
	AluResult uint32 // ALU output.
	Taken     bool   // Branch or jump redirected the PC.
	NextPc    uint32 // Program counter for the following cycle.

	Address uint32 // Memory address, if accessing memory.
	Mdr     uint32 // Memory data register, for loads.
	Store   uint64 // Value to write, for stores.

	WriteBack uint32 // Value to write to rd, if RegWrite.
}

// Step runs one instruction through the fetch-decode-execute-memory-writeback
// datapath without modifying any state. The zero word returns ErrHalt.
func Step(pc uint32, code Code, regs Registers, mem Memory) (cycle Cycle, err error) {
	if code == 0 {
		err = ErrHalt
		return
	}

	cycle.Pc = pc

	cycle.Instruction, err = Decode(code)
	if err != nil {
		return
	}

	cycle.execute(&regs)
	cycle.access(&regs, mem)
	cycle.writeBack()

	return
}

// execute selects the ALU operands, computes the result and the next PC.
func (cycle *Cycle) execute(regs *Registers) {
	inst := &cycle.Instruction
	ctl := inst.Control

	rs1 := regs.Read(inst.Rs1)
	rs2 := regs.Read(inst.Rs2)

	switch ctl.MuxA {
	case MUX_A_PC:
		cycle.A = cycle.Pc
	default:
		cycle.A = rs1
	}

	switch ctl.MuxB {
	case MUX_B_IMM:
		cycle.B = uint32(inst.Imm)
	default:
		cycle.B = rs2
	}

	cycle.AluResult = Alu(ctl.AluOp, cycle.A, cycle.B)
	cycle.NextPc = cycle.Pc + 4

	if !ctl.Branch {
		return
	}

	switch {
	case ctl.AluOp.IsBranch():
		if cycle.AluResult != 0 {
			cycle.Taken = true
			cycle.NextPc = cycle.Pc + uint32(inst.Imm)
		}
	default:
		// jal, jalr: the ALU computes the target.
		cycle.Taken = true
		cycle.NextPc = cycle.AluResult
	}
}

// access performs the memory stage.
func (cycle *Cycle) access(regs *Registers, mem Memory) {
	ctl := cycle.Instruction.Control

	switch ctl.MuxMa {
	case MUX_MA_ALU:
		cycle.Address = cycle.AluResult
	default:
		cycle.Address = cycle.Pc
	}

	if ctl.MemRead {
		raw := mem.Read(cycle.Address, ctl.Size)
		switch ctl.Size {
		case SIZE_BYTE:
			cycle.Mdr = uint32(SignExtend(uint32(raw), 8))
		case SIZE_HALF:
			cycle.Mdr = uint32(SignExtend(uint32(raw), 16))
		default:
			// Doubleword loads keep the low 32 bits.
			cycle.Mdr = uint32(raw)
		}
	}

	if ctl.MemWrite {
		value := regs.Read(cycle.Instruction.Rs2)
		cycle.Store = uint64(value)
		if ctl.Size == SIZE_DOUBLE {
			cycle.Store = uint64(int64(int32(value)))
		}
	}
}

// writeBack selects the value routed to rd.
func (cycle *Cycle) writeBack() {
	switch cycle.Instruction.Control.MuxY {
	case MUX_Y_MEMORY:
		cycle.WriteBack = cycle.Mdr
	case MUX_Y_RETURN:
		cycle.WriteBack = cycle.Pc + 4
	default:
		cycle.WriteBack = cycle.AluResult
	}
}

func (cycle *Cycle) log() {
	inst := cycle.Instruction
	ctl := inst.Control

	log.Printf("cpu: decode 0x%08x: %v [%v]", cycle.Pc, inst, ctl)
	log.Printf("cpu: execute a:0x%08x b:0x%08x alu:0x%08x next:0x%08x", cycle.A, cycle.B, cycle.AluResult, cycle.NextPc)
	switch {
	case ctl.MemRead:
		log.Printf("cpu: memory read 0x%08x (%v): 0x%08x", cycle.Address, ctl.Size, cycle.Mdr)
	case ctl.MemWrite:
		log.Printf("cpu: memory write 0x%08x (%v): 0x%x", cycle.Address, ctl.Size, cycle.Store)
	}
	if ctl.RegWrite {
		log.Printf("cpu: writeback x%d = 0x%08x", inst.Rd, cycle.WriteBack)
	}
}
