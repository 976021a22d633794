// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/rvsim/cpu"
)

//go:generate go tool stringer -linecomment -type=Halt

// Halt is the reason the emulator stopped.
type Halt int

const (
	HALT_NONE        = Halt(0) // running
	HALT_NORMAL      = Halt(1) // normal
	HALT_DECODE      = Halt(2) // decode-error
	HALT_CYCLE_LIMIT = Halt(3) // cycle-limit-exceeded
)

// Emulator state. CPU + run loop.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Program listing, if known. Used for line numbers.

	Limit  int  // Cycle ceiling. Zero disables the ceiling.
	Halted Halt // Halt reason, or HALT_NONE while running.
}

// NewEmulator creates a new emulator, with an empty memory image.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:   cpu.NewCpu(),
		Limit: cpu.CYCLE_LIMIT,
	}

	return
}

// Load a memory image, and reset the emulator.
func (emu *Emulator) Load(img *cpu.Image) {
	emu.Program = nil
	emu.Cpu.Load(img)
	emu.Halted = HALT_NONE
}

// LoadProgram loads an assembled program, and resets the emulator.
func (emu *Emulator) LoadProgram(prog *cpu.Program) {
	emu.Cpu.Load(prog.Image())
	emu.Program = prog
	emu.Halted = HALT_NONE
}

// Reset the emulator state
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Halted = HALT_NONE
}

// Ticks returns the total executed cycles since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number for the instruction at pc,
// or 0 if unknown.
func (emu *Emulator) LineNo(pc uint32) int {
	if emu.Program == nil {
		return 0
	}

	op := emu.Program.Debug(pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single cycle of the emulator.
// done is set once the emulator has halted, for any reason; err is
// set if the reason was not a normal halt.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Halted != HALT_NONE {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.LineNo(pc), Err: err}
		}
		if done && emu.Verbose {
			log.Printf("emulator: halt %v after %d cycles", emu.Halted, emu.Cpu.Ticks)
		}
	}()

	_, err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalt) {
		err = nil
		done = true
		emu.Halted = HALT_NORMAL
		return
	}
	if err != nil {
		done = true
		emu.Halted = HALT_DECODE
		return
	}

	if emu.Limit > 0 && emu.Cpu.Ticks > emu.Limit {
		err = ErrCycleLimit
		done = true
		emu.Halted = HALT_CYCLE_LIMIT
		return
	}

	return
}

// Run ticks the emulator until it halts.
func (emu *Emulator) Run() (halt Halt, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
	}

	halt = emu.Halted
	return
}

// Dump writes the final register file and memory contents.
func (emu *Emulator) Dump(w io.Writer) (err error) {
	return emu.Cpu.Dump(w)
}
