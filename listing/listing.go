// Package listing reads and writes the annotated machine-word listing
// exchanged between the assembler and the simulator.
//
// Each instruction line holds the address, the machine word, the source
// line and the field breakdown:
//
//	0x0 0x00500093 , addi x1, x0, 5 # 0010011-000-NULL-00001-00000-NULL-000000000101
//
// The instructions are followed by an end sentinel line, and then by the
// data segment, one byte per line:
//
//	0x00000004 0xdeadbeef , ends
//	0x10000000 0x2A
package listing

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/rvsim/cpu"
)

// Write writes the listing of a program.
func Write(w io.Writer, prog *cpu.Program) (err error) {
	bw := bufio.NewWriter(w)

	for _, op := range prog.Opcodes {
		_, err = fmt.Fprintf(bw, "0x%X 0x%08X , %s # %s\n", op.Address, uint32(op.Code), op.Line, op.Code.Breakdown())
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(bw, "0x%08X 0x%08x , ends\n", prog.End, cpu.SENTINEL)
	if err != nil {
		return
	}

	for addr, value := range prog.Data.Bytes() {
		_, err = fmt.Fprintf(bw, "0x%X 0x%02X\n", addr, value)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// sentinelTail follows the address and word of the end sentinel line.
var sentinelTail = []string{",", "ends"}

// parseHex parses a 0x prefixed hexadecimal field.
func parseHex(word string, bits int) (value uint64, err error) {
	digits, ok := strings.CutPrefix(word, "0x")
	if !ok {
		digits, ok = strings.CutPrefix(word, "0X")
	}
	if !ok {
		err = cpu.ErrParseNumber(word)
		return
	}

	value, err = strconv.ParseUint(digits, 16, bits)
	if err != nil {
		err = cpu.ErrParseNumber(word)
	}
	return
}

// Read loads a listing into an instruction map and memory image.
// Instruction words are also placed in memory, little-endian. Blank lines
// and lines starting with '#' are ignored. The sentinel line is the word
// 0xdeadbeef followed by ", ends"; the same word with a source line is an
// instruction (jal x29, -150038).
func Read(r io.Reader) (img *cpu.Image, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	img = &cpu.Image{
		Text:   map[uint32]cpu.Code{},
		Memory: cpu.Memory{},
	}

	ended := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 {
			err = ErrFieldMissing
			return
		}

		var addr, value uint64
		addr, err = parseHex(words[0], 32)
		if err != nil {
			return
		}

		if ended {
			value, err = parseHex(words[1], 8)
			if err != nil {
				return
			}
			img.Memory[uint32(addr)] = uint8(value)
			continue
		}

		value, err = parseHex(words[1], 32)
		if err != nil {
			return
		}

		if uint32(value) == cpu.SENTINEL && slices.Equal(words[2:], sentinelTail) {
			ended = true
			img.End = uint32(addr)
			continue
		}

		img.Text[uint32(addr)] = cpu.Code(value)
		img.Memory.Write(uint32(addr), cpu.SIZE_WORD, value)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if !ended {
		err = ErrSentinel
		return
	}

	return
}
