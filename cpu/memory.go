package cpu

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/rvsim/internal"
)

// Memory is a sparse, byte-addressed memory. Absent bytes read as zero.
type Memory map[uint32]uint8

// Read returns 'size' bytes starting at addr, little-endian.
func (mem Memory) Read(addr uint32, size Size) (value uint64) {
	for n := range int(size) {
		value |= uint64(mem[addr+uint32(n)]) << (8 * n)
	}
	return
}

// Write stores the low 'size' bytes of value at addr, little-endian.
func (mem Memory) Write(addr uint32, size Size, value uint64) {
	for n := range int(size) {
		mem[addr+uint32(n)] = uint8(value >> (8 * n))
	}
}

// Load copies a sequence of address, byte pairs into memory.
func (mem Memory) Load(seq iter.Seq2[uint32, uint8]) {
	for addr, value := range seq {
		mem[addr] = value
	}
}

// Bytes iterates over all populated bytes, in ascending address order.
func (mem Memory) Bytes() iter.Seq2[uint32, uint8] {
	return internal.IterSeq2Sorted(mem)
}

// Dump writes one line per populated byte, in ascending address order.
func (mem Memory) Dump(w io.Writer) (err error) {
	for addr, value := range mem.Bytes() {
		_, err = fmt.Fprintf(w, "0x%08X: 0x%02X\n", addr, value)
		if err != nil {
			return
		}
	}
	return
}

// Clone returns an independent copy of memory.
func (mem Memory) Clone() (dup Memory) {
	dup = make(Memory, len(mem))
	dup.Load(mem.Bytes())
	return
}

// Registers is the integer register file. x0 is hardwired to zero.
type Registers [32]uint32

// Read returns the value of register 'index'.
func (regs *Registers) Read(index uint32) uint32 {
	if index == REG_ZERO {
		return 0
	}
	return regs[index&0x1f]
}

// Write sets register 'index'. Writes to x0 are discarded.
func (regs *Registers) Write(index uint32, value uint32) {
	if index == REG_ZERO {
		return
	}
	regs[index&0x1f] = value
}

// Dump writes the register file, four registers per line.
func (regs *Registers) Dump(w io.Writer) (err error) {
	for n, value := range regs {
		sep := " "
		if n%4 == 3 {
			sep = "\n"
		}
		_, err = fmt.Fprintf(w, "x%d: 0x%08X%s", n, value, sep)
		if err != nil {
			return
		}
	}
	return
}
