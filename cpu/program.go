package cpu

import (
	"iter"

	"github.com/ezrec/rvsim/internal"
)

// Opcode is a single assembled instruction, with its source.
type Opcode struct {
	LineNo  int      // Source line number.
	Address uint32   // Text segment address.
	Line    string   // Source line, comment stripped.
	Words   []string // Mnemonic and operands, after expansion.
	Code    Code     // Machine word.
}

// Program is the output of the assembler.
type Program struct {
	Opcodes []Opcode          // Instructions, in address order.
	Data    Memory            // Data segment.
	Label   map[string]uint32 // Resolved labels.
	End     uint32            // Address past the last instruction.
}

// Image is the loadable form of a program: the instruction map, and the
// initial memory contents.
type Image struct {
	Text   map[uint32]Code // Instruction words, by address.
	Memory Memory          // Initial memory, including the text bytes.
	End    uint32          // Address of the end sentinel.
}

// Debug returns the opcode at pc, or nil.
func (prog *Program) Debug(pc uint32) (op *Opcode) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Address == pc {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Codes iterates over the instruction words, by address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Address, op.Code) {
				return
			}
		}
	}
}

// textBytes iterates over the instruction words as little-endian bytes.
func (prog *Program) textBytes() iter.Seq2[uint32, uint8] {
	return func(yield func(addr uint32, value uint8) bool) {
		for pc, code := range prog.Codes() {
			for n := range 4 {
				if !yield(pc+uint32(n), uint8(uint32(code)>>(8*n))) {
					return
				}
			}
		}
	}
}

// Bytes iterates over the entire memory image: the text segment bytes,
// then the data segment bytes in ascending address order.
func (prog *Program) Bytes() iter.Seq2[uint32, uint8] {
	return internal.IterSeq2Concat(prog.textBytes(), prog.Data.Bytes())
}

// Image builds the instruction map and initial memory of the program.
func (prog *Program) Image() (img *Image) {
	img = &Image{
		Text:   make(map[uint32]Code, len(prog.Opcodes)),
		Memory: Memory{},
		End:    prog.End,
	}

	for pc, code := range prog.Codes() {
		img.Text[pc] = code
	}
	img.Memory.Load(prog.Bytes())

	return
}
