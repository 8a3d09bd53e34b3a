// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package redcode

import (
	"bufio"
	"errors"
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

// Incomplete is an operand whose value waits for the second pass.
type Incomplete struct {
	Index  int    // Index of the instruction holding the operand.
	Side   Side   // Which operand.
	Expr   string // Label or expression text.
	LineNo int    // Source line number.
	Line   string // Source line text.
}

// Assembler is a two pass Redcode assembler.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine  map[string]string
	Label      map[string]int    // Map of labels to instruction indexes.
	Equate     map[string]string // Map of equates to their expression text.
	Incomplete []Incomplete      // Operands resolved by the second pass.

	prog     *Program
	org      *Incomplete
	end      *Incomplete
	finished bool
}

var (
	reIdentifier = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reDivide     = regexp.MustCompile(`/+`)
)

// Predefine defines a new equate, or redefines an existing one, visible to
// every program parsed afterwards.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// currentIndex is the index the next instruction will be assembled at.
func (asm *Assembler) currentIndex() int {
	return len(asm.prog.Instructions)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			var syntaxErr ErrSyntax
			if !errors.As(err, &syntaxErr) {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			}
			prog = nil
		}
	}()

	asm.prog = &Program{}
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = make(map[string]string)
	}
	asm.Incomplete = asm.Incomplete[:0]
	asm.org = nil
	asm.end = nil
	asm.finished = false

	for !asm.finished && scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		code, comment, has_comment := strings.Cut(text, ";")
		line = strings.TrimSpace(code)
		if has_comment && len(line) == 0 {
			asm.parseComment(comment)
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Drop the line context for the link errors, they carry their own.
	line = ""
	lineno = 0

	if len(asm.prog.Instructions) == 0 {
		err = ErrProgramEmpty
		return
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = asm.prog
	asm.prog = nil

	return
}

// parseComment picks up the ';name' and ';author' metadata comments.
func (asm *Assembler) parseComment(comment string) {
	key, value, _ := strings.Cut(strings.TrimSpace(comment), " ")
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "name":
		asm.prog.Name = value
	case "author":
		asm.prog.Author = value
	}
}

// splitOpcode splits 'MOV.AB' into its opcode and optional modifier.
func splitOpcode(word string) (op Opcode, mod Modifier, has_mod bool, err error) {
	name, modifier, has_mod := strings.Cut(word, ".")
	op, err = ParseOpcode(name)
	if err != nil {
		return
	}
	if has_mod {
		mod, err = ParseModifier(modifier)
	}
	return
}

// isKeyword reports if the word starts the operation part of a line.
func isKeyword(word string) bool {
	switch strings.ToUpper(word) {
	case "ORG", "EQU", "END":
		return true
	}
	name, _, _ := strings.Cut(word, ".")
	_, err := ParseOpcode(name)
	return err == nil
}

// parseLine parses a single comment-free line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	rest := strings.ReplaceAll(line, "\t", " ")

	// Collect the labels in front of the operation.
	var labels []string
	var word string
	for len(rest) != 0 {
		word, rest, _ = strings.Cut(rest, " ")
		word = strings.TrimSpace(word)
		rest = strings.TrimSpace(rest)
		if len(word) == 0 {
			continue
		}
		if isKeyword(word) {
			break
		}
		label := strings.TrimSuffix(word, ":")
		if !reLabel.MatchString(label) {
			if len(labels) != 0 {
				// 'FOO 1, 2' is an unknown opcode, not two labels.
				err = ErrOpcodeMissing
			} else {
				err = ErrLabelInvalid
			}
			return
		}
		labels = append(labels, label)
		word = ""
	}

	keyword := strings.ToUpper(word)

	if keyword == "EQU" {
		if len(labels) == 0 || len(rest) == 0 {
			err = ErrEquateSyntax
			return
		}
		for _, label := range labels {
			err = asm.define(label)
			if err != nil {
				return
			}
			asm.Equate[label] = rest
		}
		return
	}

	for _, label := range labels {
		err = asm.define(label)
		if err != nil {
			return
		}
		asm.Label[label] = asm.currentIndex()
	}

	switch keyword {
	case "":
		// Only labels, or nothing at all.
		return
	case "ORG":
		if len(rest) == 0 {
			err = ErrOperandMissing
			return
		}
		if asm.org != nil {
			err = ErrOrgDuplicate
			return
		}
		asm.org = &Incomplete{Index: asm.currentIndex(), Expr: rest, LineNo: lineno, Line: line}
		return
	case "END":
		if len(rest) != 0 {
			asm.end = &Incomplete{Index: 0, Expr: rest, LineNo: lineno, Line: line}
		}
		asm.finished = true
		return
	}

	return asm.parseInstruction(word, rest, lineno, line)
}

// define checks that a label or equate name is new.
func (asm *Assembler) define(name string) (err error) {
	_, is_label := asm.Label[name]
	_, is_equate := asm.Equate[name]
	if is_label {
		err = ErrLabelDuplicate
	} else if is_equate {
		err = ErrEquateDuplicate
	}
	return
}

// parseInstruction assembles an opcode and its operand text.
func (asm *Assembler) parseInstruction(word string, rest string, lineno int, line string) (err error) {
	op, mod, has_mod, err := splitOpcode(word)
	if err != nil {
		return
	}

	var texts []string
	if len(rest) != 0 {
		texts = strings.Split(rest, ",")
	}
	switch {
	case len(texts) == 0:
		err = ErrOperandMissing
		return
	case len(texts) > 2:
		err = ErrOpcodeExtraArgs
		return
	}

	index := asm.currentIndex()
	ins := Instruction{Opcode: op}

	sides := []Side{SIDE_A, SIDE_B}
	if len(texts) == 1 {
		if op == OP_DAT {
			// A lone DAT operand is its B operand.
			sides = []Side{SIDE_B}
			ins.A = Operand{Mode: MODE_IMMEDIATE}
		} else {
			ins.B = Operand{Mode: MODE_DIRECT}
		}
	}

	for n, text := range texts {
		side := sides[n]
		var operand Operand
		var expr string
		operand, expr, err = parseOperand(text)
		if err != nil {
			return
		}
		if len(expr) != 0 {
			asm.Incomplete = append(asm.Incomplete, Incomplete{
				Index:  index,
				Side:   side,
				Expr:   expr,
				LineNo: lineno,
				Line:   line,
			})
		}
		if side == SIDE_A {
			ins.A = operand
		} else {
			ins.B = operand
		}
	}

	if has_mod {
		ins.Modifier = mod
	} else {
		ins.Modifier = DefaultModifier(op, ins.A.Mode, ins.B.Mode)
	}

	asm.prog.Instructions = append(asm.prog.Instructions, ins)
	asm.prog.LineNo = append(asm.prog.LineNo, lineno)

	return
}

// parseOperand splits an operand into its mode and either its numeric value,
// or the expression text that must wait for the second pass.
func parseOperand(text string) (operand Operand, expr string, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	operand.Mode = MODE_DIRECT
	mode, ok := ParseMode(text[0])
	if ok {
		operand.Mode = mode
		text = strings.TrimSpace(text[1:])
	} else if strings.ContainsRune("*{}", rune(text[0])) {
		err = ErrModeInvalid
		return
	}
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	value, perr := strconv.Atoi(text)
	if perr == nil {
		operand.Value = value
		return
	}

	expr = text
	return
}

// link is the second pass. Every incomplete operand, and the start offset,
// is evaluated now that all labels are known.
func (asm *Assembler) link() (err error) {
	for _, inc := range asm.Incomplete {
		var value int
		value, err = asm.evaluate(inc.Expr, inc.Index, nil)
		if err != nil {
			err = ErrSyntax{LineNo: inc.LineNo, Line: inc.Line, Err: err}
			return
		}
		asm.prog.Instructions[inc.Index].SetField(inc.Side, value)
	}

	start := asm.org
	if start == nil {
		start = asm.end
	}
	if start != nil {
		asm.prog.Start, err = asm.evaluate(start.Expr, start.Index, nil)
		if err != nil {
			err = ErrSyntax{LineNo: start.LineNo, Line: start.Line, Err: err}
			return
		}
	}

	return
}

// evaluate computes an operand expression for the instruction at 'index'.
// Labels evaluate to their offset from that instruction.
func (asm *Assembler) evaluate(expr string, index int, visiting []string) (value int, err error) {
	expr = strings.TrimSpace(expr)

	value, err = strconv.Atoi(expr)
	if err == nil {
		return
	}
	err = nil

	label, is_label := asm.Label[expr]
	if is_label {
		value = label - index
		return
	}

	pred := starlark.StringDict{}
	for _, name := range reIdentifier.FindAllString(expr, -1) {
		if _, ok := pred[name]; ok {
			continue
		}
		if label, ok := asm.Label[name]; ok {
			pred[name] = starlark.MakeInt(label - index)
			continue
		}
		equate, ok := asm.Equate[name]
		if !ok {
			err = ErrLabelMissing(name)
			return
		}
		if slices.Contains(visiting, name) {
			err = ErrEquateRecursive
			return
		}
		var equ int
		equ, err = asm.evaluate(equate, index, append(visiting, name))
		if err != nil {
			return
		}
		pred[name] = starlark.MakeInt(equ)
	}

	// Redcode division is integer division.
	prog := "rc=" + reDivide.ReplaceAllString(expr, "//") + "\n"

	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	dict, serr := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if serr != nil {
		if asm.Verbose {
			log.Printf("expr %v: %v", expr, serr)
		}
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value = int(st_int64)
	return
}

// Assemble is a convenience wrapper to assemble source text.
func Assemble(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// MustAssemble assembles source text, and panics on failure.
// It is intended for tests and built-in warriors.
func MustAssemble(source string) *Program {
	prog, err := Assemble(source)
	if err != nil {
		panic(fmt.Sprintf("redcode: %v", err))
	}
	return prog
}
