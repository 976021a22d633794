// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"ARENA_TEXT":  fmt.Sprintf("%#x", ARENA_TEXT),
	"ARENA_DATA":  fmt.Sprintf("%#x", ARENA_DATA),
	"ARENA_STACK": fmt.Sprintf("%#x", ARENA_STACK),
}

// Segment is the assembler's current output segment.
type Segment int

const (
	SEGMENT_TEXT = Segment(0) // .text
	SEGMENT_DATA = Segment(1) // .data
)

// dataWidth maps the data directives to their element width.
var dataWidth = map[string]Size{
	".byte":  SIZE_BYTE,
	".half":  SIZE_HALF,
	".word":  SIZE_WORD,
	".dword": SIZE_DOUBLE,
}

// statement is a text segment line awaiting encoding.
type statement struct {
	LineNo  int
	Address uint32
	Line    string // Source line, comment stripped.
	Text    string // Instruction text, labels removed.
}

// Assembler is a two pass assembler for RV32IM.
//
// Pass one assigns addresses, records labels and equates, and lays out
// the data segment. Pass two encodes every text segment instruction.
type Assembler struct {
	Verbose bool  // If set, verbosely logs the assembler actions.
	Table   Table // Mnemonic table. Defaults to RV32IM.

	Label    map[string]uint32 // Map of labels to addresses.
	Equate   map[string]string // Map of equates.
	Data     Memory            // Data segment.
	Warnings []error           // Non-fatal diagnostics of the last Parse.

	predefine  map[string]string // Predefines
	statements []statement
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// warn records a non-fatal diagnostic.
func (asm *Assembler) warn(lineno int, line string, err error) {
	err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
	log.Printf("%v", f("warning: %v", err))
	asm.Warnings = append(asm.Warnings, err)
}

// stripComment removes a '#' comment, ignoring '#' inside quotes.
func stripComment(text string) string {
	var quote byte
	escaped := false
	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case escaped:
			escaped = false
		case quote != 0 && ch == '\\':
			escaped = true
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '#':
			return text[:n]
		}
	}
	return text
}

// splitLabels removes all leading 'label:' declarations from a line.
func splitLabels(line string) (labels []string, rest string) {
	rest = line
	for {
		first := rest
		idx := strings.IndexAny(rest, " \t")
		if idx >= 0 {
			first = rest[:idx]
		}
		if !strings.HasSuffix(first, ":") || strings.ContainsAny(first, "\"'") {
			return
		}
		labels = append(labels, first[:len(first)-1])
		rest = strings.TrimSpace(rest[len(first):])
	}
}

// charLiterals matches 'c' and '\c' character literals.
var charLiterals = regexp.MustCompile(`'\\?[^']'`)

// expandChars replaces character literals with their decimal value.
func expandChars(line string) string {
	return charLiterals.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\x00"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%d", str[0])
	})
}

// intOf returns the integer value of an equate, if it has one.
func intOf(value string) (i64 int64, ok bool) {
	i64, err := ParseImmediate(value)
	ok = err == nil
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeUint(uint(addr))
	}
	for key, str := range asm.Equate {
		i64, ok := intOf(str)
		if !ok {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(i64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expandExpressions replaces every $(...) in a line with its decimal value.
// Parentheses inside the expression must balance.
func (asm *Assembler) expandExpressions(line string) (expanded string, err error) {
	var out strings.Builder
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			out.WriteString(line)
			break
		}
		out.WriteString(line[:start])

		depth := 0
		end := -1
		for n := start + 1; n < len(line) && end < 0; n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = n
				}
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value int64
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}
		fmt.Fprintf(&out, "%d", value)
		line = line[end+1:]
	}

	expanded = out.String()
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	if asm.Table == nil {
		asm.Table = RV32IM
	}

	asm.Label = map[string]uint32{}
	asm.Data = Memory{}
	asm.Warnings = nil
	asm.statements = nil
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	var lines []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	end, err := asm.layout(lines)
	if err != nil {
		return
	}

	opcodes, err := asm.encode()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: opcodes,
		Data:    asm.Data.Clone(),
		Label:   maps.Clone(asm.Label),
		End:     end,
	}

	return
}

// layout is the first pass: labels, equates, segments and data.
func (asm *Assembler) layout(lines []string) (end uint32, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	segment := SEGMENT_TEXT
	text := ARENA_TEXT
	data := ARENA_DATA

	for n, raw := range lines {
		lineno = n + 1
		line = strings.TrimSpace(stripComment(raw))

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, raw)
		}

		if len(line) == 0 {
			continue
		}

		labels, rest := splitLabels(line)
		for _, label := range labels {
			if len(label) == 0 {
				err = ErrLabelMissing(label)
				return
			}
			_, ok := asm.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			addr := text
			if segment == SEGMENT_DATA {
				addr = data
			}
			asm.Label[label] = addr
		}

		if len(rest) == 0 {
			continue
		}

		words := strings.Fields(rest)
		switch {
		case words[0] == ".text":
			segment = SEGMENT_TEXT
			continue
		case words[0] == ".data":
			segment = SEGMENT_DATA
			continue
		case words[0] == ".equ":
			// .equ CONST VALUE
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			_, ok := asm.Equate[words[1]]
			if ok {
				if _, system := sysEquate[words[1]]; !system {
					err = ErrEquateDuplicate
					return
				}
			}
			asm.Equate[words[1]] = words[2]
			continue
		}

		if segment == SEGMENT_DATA {
			data, err = asm.directive(lineno, line, rest, data)
			if err != nil {
				return
			}
			continue
		}

		if strings.HasPrefix(words[0], ".") {
			asm.warn(lineno, line, ErrDirectiveUnknown)
			continue
		}

		if text >= ARENA_DATA {
			err = ErrTextOverflow
			return
		}

		asm.statements = append(asm.statements, statement{
			LineNo:  lineno,
			Address: text,
			Line:    line,
			Text:    rest,
		})
		text += 4
	}

	end = text
	return
}

// directive lays out a single data segment directive at addr, and
// returns the next free data address.
func (asm *Assembler) directive(lineno int, line string, rest string, addr uint32) (next uint32, err error) {
	next = addr

	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	name, args := rest, ""
	if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
		name, args = rest[:idx], strings.TrimSpace(rest[idx:])
	}

	if name == ".asciz" || name == ".string" {
		if len(args) < 2 || args[0] != '"' || args[len(args)-1] != '"' {
			asm.warn(lineno, line, ErrDirectiveSyntax)
			return
		}
		str, uerr := strconv.Unquote(args)
		if uerr != nil {
			str = args[1 : len(args)-1]
		}
		for _, ch := range []byte(str) {
			asm.Data[next] = ch
			next++
		}
		asm.Data[next] = 0
		next++
		return
	}

	size, ok := dataWidth[name]
	if !ok {
		asm.warn(lineno, line, ErrDirectiveUnknown)
		return
	}

	args, err = asm.expandExpressions(expandChars(args))
	if err != nil {
		return
	}

	bits := int(size) * 8
	for _, word := range strings.FieldsFunc(args, isSeparator) {
		if equ, ok := asm.Equate[word]; ok {
			word = equ
		}
		value, perr := ParseImmediate(word)
		if perr != nil {
			asm.warn(lineno, line, perr)
			continue
		}
		if bits < 64 && (value < -(int64(1)<<(bits-1)) || value > (int64(1)<<bits)-1) {
			asm.warn(lineno, line, &ErrImmediateRange{Value: value, Bits: bits})
			continue
		}
		asm.Data.Write(next, size, uint64(value))
		next += uint32(size)
	}

	return
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

// operands splits instruction text into its mnemonic and operands.
// An 'imm(rs1)' operand becomes the two operands 'imm rs1'; paren
// reports that form was used.
func operands(text string) (name string, args []string, paren bool) {
	for _, word := range strings.FieldsFunc(text, isSeparator) {
		open := strings.IndexByte(word, '(')
		if open >= 0 && strings.HasSuffix(word, ")") {
			paren = true
			imm := word[:open]
			if len(imm) == 0 {
				imm = "0"
			}
			args = append(args, imm, word[open+1:len(word)-1])
			continue
		}
		args = append(args, word)
	}

	if len(args) > 0 {
		name = strings.ToLower(args[0])
		args = args[1:]
	}

	return
}

// pseudo rewrites a pseudo-instruction into its base instruction.
func pseudo(name string, args []string, paren bool) (string, []string, bool) {
	switch {
	case name == "nop" && len(args) == 0:
		return "addi", []string{"x0", "x0", "0"}, false
	case name == "mv" && len(args) == 2:
		return "addi", []string{args[0], args[1], "0"}, false
	case name == "li" && len(args) == 2:
		return "addi", []string{args[0], "x0", args[1]}, false
	case name == "not" && len(args) == 2:
		return "xori", []string{args[0], args[1], "-1"}, false
	case name == "neg" && len(args) == 2:
		return "sub", []string{args[0], "x0", args[1]}, false
	case name == "j" && len(args) == 1:
		return "jal", []string{"x0", args[0]}, false
	case name == "jal" && len(args) == 1:
		return "jal", []string{"x1", args[0]}, false
	case name == "jr" && len(args) == 1:
		return "jalr", []string{"x0", args[0], "0"}, false
	case name == "ret" && len(args) == 0:
		return "jalr", []string{"x0", "x1", "0"}, false
	case name == "beqz" && len(args) == 2:
		return "beq", []string{args[0], "x0", args[1]}, false
	case name == "bnez" && len(args) == 2:
		return "bne", []string{args[0], "x0", args[1]}, false
	case name == "bgt" && len(args) == 3:
		return "blt", []string{args[1], args[0], args[2]}, false
	case name == "ble" && len(args) == 3:
		return "bge", []string{args[1], args[0], args[2]}, false
	}

	return name, args, paren
}

// register parses a register name: x0..x31, or an ABI name.
func register(word string) (reg uint32, err error) {
	word = strings.ToLower(word)
	if index, ok := abiName[word]; ok {
		reg = index
		return
	}

	if strings.HasPrefix(word, "x") {
		index, perr := strconv.ParseUint(word[1:], 10, 8)
		if perr == nil && index < 32 {
			reg = uint32(index)
			return
		}
	}

	err = ErrParseRegister(word)
	return
}

// registers parses a list of register names.
func registers(words ...string) (regs []uint32, err error) {
	regs = make([]uint32, len(words))
	for n, word := range words {
		regs[n], err = register(word)
		if err != nil {
			return
		}
	}
	return
}

// target resolves a branch or jump target to a PC relative offset.
// Numeric literals are used as-is; labels resolve to 'label - address'.
func (asm *Assembler) target(word string, address uint32) (offset int64, err error) {
	offset, err = ParseImmediate(word)
	if err == nil {
		return
	}

	addr, ok := asm.Label[word]
	if ok {
		offset = int64(addr) - int64(address)
		err = nil
		return
	}

	if len(word) > 0 && strings.ContainsRune("+-0123456789", rune(word[0])) {
		return
	}

	err = ErrLabelMissing(word)
	return
}

// arity checks the operand count.
func arity(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// encode is the second pass: one machine word per statement.
func (asm *Assembler) encode() (opcodes []Opcode, err error) {
	for _, st := range asm.statements {
		var op Opcode
		op, err = asm.assemble(st)
		if err != nil {
			err = &ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: err}
			return
		}

		if asm.Verbose {
			log.Printf("0x%08x: 0x%08x %v", op.Address, uint32(op.Code), op.Words)
		}

		opcodes = append(opcodes, op)
	}

	return
}

// assemble encodes a single statement.
func (asm *Assembler) assemble(st statement) (op Opcode, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", st.LineNo)

	text, err := asm.expandExpressions(expandChars(st.Text))
	if err != nil {
		return
	}

	name, args, paren := operands(text)
	for n, word := range args {
		// Check for equate
		equate, ok := asm.Equate[word]
		if ok {
			args[n] = equate
		}
	}

	name, args, paren = pseudo(name, args, paren)

	op = Opcode{
		LineNo:  st.LineNo,
		Address: st.Address,
		Line:    st.Line,
		Words:   append([]string{name}, args...),
	}

	m, ok := asm.Table.Lookup(name)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var regs []uint32
	var imm int64

	switch m.Format {
	case FORMAT_R:
		// rd, rs1, rs2
		if err = arity(args, 3); err != nil {
			return
		}
		regs, err = registers(args...)
		if err != nil {
			return
		}
		op.Code = MakeCodeR(m, regs[0], regs[1], regs[2])
	case FORMAT_I:
		if err = arity(args, 3); err != nil {
			return
		}
		// rd, rs1, imm
		rd, rs1, word := args[0], args[1], args[2]
		if m.Opcode == OPCODE_LOAD || (m.Opcode == OPCODE_JALR && paren) {
			// rd, imm(rs1)
			rs1, word = args[2], args[1]
		}
		regs, err = registers(rd, rs1)
		if err != nil {
			return
		}
		imm, err = ParseImmediate(word)
		if err != nil {
			return
		}
		op.Code, err = MakeCodeI(m, regs[0], regs[1], imm)
	case FORMAT_S:
		// rs2, imm(rs1)
		if err = arity(args, 3); err != nil {
			return
		}
		regs, err = registers(args[0], args[2])
		if err != nil {
			return
		}
		imm, err = ParseImmediate(args[1])
		if err != nil {
			return
		}
		op.Code, err = MakeCodeS(m, regs[1], regs[0], imm)
	case FORMAT_SB:
		// rs1, rs2, target
		if err = arity(args, 3); err != nil {
			return
		}
		regs, err = registers(args[0], args[1])
		if err != nil {
			return
		}
		imm, err = asm.target(args[2], st.Address)
		if err != nil {
			return
		}
		op.Code, err = MakeCodeSB(m, regs[0], regs[1], imm)
	case FORMAT_U:
		// rd, imm
		if err = arity(args, 2); err != nil {
			return
		}
		regs, err = registers(args[0])
		if err != nil {
			return
		}
		imm, err = ParseImmediate(args[1])
		if err != nil {
			return
		}
		op.Code, err = MakeCodeU(m, regs[0], imm)
	case FORMAT_UJ:
		// rd, target
		if err = arity(args, 2); err != nil {
			return
		}
		regs, err = registers(args[0])
		if err != nil {
			return
		}
		imm, err = asm.target(args[1], st.Address)
		if err != nil {
			return
		}
		op.Code, err = MakeCodeUJ(m, regs[0], imm)
	default:
		err = ErrInstructionInvalid
	}

	return
}
