package cpu

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Cpu is the simulation context for a single-cycle RV32IM processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint32          // Current program counter.
	Register Registers       // Register file.
	Memory   Memory          // Data memory.
	Text     map[uint32]Code // Instruction memory, by address.

	Ticks int // Executed cycles counter.

	image *Image // Image restored on Reset.
}

// NewCpu creates a new CPU with empty instruction and data memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Load installs a memory image, and resets the CPU.
func (cpu *Cpu) Load(image *Image) {
	cpu.image = image
	cpu.Reset()
}

// Reset the CPU state.
// - Restores instruction and data memory from the loaded image.
// - Clears the registers, and sets the stack pointer.
// - Zeros the cycle counter.
// - Sets the program counter to the start of the text segment.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register.Write(REG_SP, ARENA_STACK)
	cpu.Pc = ARENA_TEXT
	cpu.Ticks = 0

	cpu.Text = map[uint32]Code{}
	cpu.Memory = Memory{}
	if cpu.image != nil {
		for addr, code := range cpu.image.Text {
			cpu.Text[addr] = code
		}
		cpu.Memory.Load(cpu.image.Memory.Bytes())
	}
}

// Fetch returns the instruction word at the program counter.
// Absent instructions fetch as the zero word.
func (cpu *Cpu) Fetch() (code Code) {
	return cpu.Text[cpu.Pc]
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pc: 0x%08X\n", cpu.Pc)
	_ = cpu.Register.Dump(&sb)
	return sb.String()
}

// Dump writes the register file, followed by all populated memory bytes.
func (cpu *Cpu) Dump(w io.Writer) (err error) {
	err = cpu.Register.Dump(w)
	if err != nil {
		return
	}

	err = cpu.Memory.Dump(w)
	return
}

// Tick executes a single instruction cycle.
// Returns ErrHalt if the fetched word is zero; the CPU state is unchanged.
// On a decode error the CPU state is unchanged.
func (cpu *Cpu) Tick() (cycle Cycle, err error) {
	code := cpu.Fetch()

	if cpu.Verbose {
		log.Printf("cpu: fetch 0x%08x: 0x%08x", cpu.Pc, uint32(code))
	}

	cycle, err = Step(cpu.Pc, code, cpu.Register, cpu.Memory)
	if err != nil {
		if cpu.Verbose {
			log.Printf("cpu: 0x%08x: %v", cpu.Pc, err)
		}
		return
	}

	if cpu.Verbose {
		cycle.log()
	}

	cpu.Commit(cycle)

	return
}

// Commit applies the state changes of a completed cycle.
func (cpu *Cpu) Commit(cycle Cycle) {
	ctl := cycle.Instruction.Control

	if ctl.MemWrite {
		cpu.Memory.Write(cycle.Address, ctl.Size, cycle.Store)
	}

	if ctl.RegWrite {
		cpu.Register.Write(cycle.Instruction.Rd, cycle.WriteBack)
	}

	cpu.Pc = cycle.NextPc
	cpu.Ticks++
}
