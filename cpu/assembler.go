// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the chip8 system.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
	Registers map[int]uint8     // Map of initial register values.

	addr int          // Current assembly address.
	used map[int]bool // Addresses holding generated code.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 {
		value = uint32(0xffffffff + (v64 + 1))
	} else {
		value = uint32(v64)
	}

	if invert {
		value = ^value
	}

	return
}

// registerOf returns the register index of a v0 - vF word.
func (asm *Assembler) registerOf(word string) (reg uint8, err error) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		err = ErrRegisterInvalid
		return
	}

	index, err := strconv.ParseUint(word[1:], 16, 8)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(index)
	return
}

// labelRe matches words that can name a label.
var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// targetOf returns either the numeric address of a word, or the
// label that must be linked to find it.
func (asm *Assembler) targetOf(word string) (addr uint16, label string, err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		if value > 0xfff {
			err = ErrTargetInvalid
			return
		}
		addr = uint16(value)
		return
	}

	if !labelRe.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
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
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0xffffffff || st_int64 < -int64(0x80000000) {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.addr
		words = words[1:]
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Registers = make(map[int]uint8)
	asm.used = make(map[int]bool)
	asm.Opcode = asm.Opcode[:0]
	asm.addr = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if addr > 0xfff {
			err = ErrTargetInvalid
			return
		}
		linked := &op.Codes[len(op.Codes)-1]
		*linked = Code((uint16(*linked) & 0xf000) | uint16(addr))
	}

	prog = &Program{
		Opcodes:   slices.Clone(asm.Opcode),
		Registers: maps.Clone(asm.Registers),
	}

	return
}

// emit places codes at the current address, and advances it.
func (asm *Assembler) emit(lineno int, words []string, codes []Code, label string) (err error) {
	end := asm.addr + 2*len(codes)
	if end > MEMORY_SIZE {
		err = ErrOrgInvalid
		return
	}

	for addr := asm.addr; addr < end; addr++ {
		if asm.used[addr] {
			err = ErrOpcodeOverlap
			return
		}
	}

	for addr := asm.addr; addr < end; addr++ {
		asm.used[addr] = true
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:    lineno,
		Addr:      asm.addr,
		Words:     words,
		Codes:     codes,
		LinkLabel: label,
	})
	asm.addr = end

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value uint32
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if value >= MEMORY_SIZE || (value&1) != 0 {
			err = ErrOrgInvalid
			return
		}
		asm.addr = int(value)
		return
	case ".reg":
		if len(words) != 3 {
			err = ErrRegSyntax
			return
		}
		var reg uint8
		reg, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		var value uint32
		value, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		if value > 0xff {
			err = ErrRegSyntax
			return
		}
		asm.Registers[int(reg)] = uint8(value)
		return
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if value > 0xffff {
				err = ErrParseNumber(word)
				return
			}
			codes = append(codes, Code(value))
		}
	case "halt":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeHalt())
	case "return":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeReturn())
	case "call":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var addr uint16
		addr, label, err = asm.targetOf(words[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeCall(addr))
	case "add":
		if len(words) < 3 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		var x, y uint8
		x, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		y, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAdd(x, y))
	default:
		err = ErrInstructionInvalid
		return
	}

	err = asm.emit(lineno, words, codes, label)

	return
}
