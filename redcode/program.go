package redcode

import (
	"fmt"
	"iter"
	"strings"
)

// Program is an assembled warrior.
type Program struct {
	Name         string        // Warrior name, from a ';name' comment.
	Author       string        // Warrior author, from an ';author' comment.
	Instructions []Instruction // Instructions, in load order.
	Start        int           // Offset of the first instruction to execute.
	LineNo       []int         // Source line number of each instruction.
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// Line returns the source line of an instruction, or 0 if unknown.
func (prog *Program) Line(index int) int {
	if index < 0 || index >= len(prog.LineNo) {
		return 0
	}
	return prog.LineNo[index]
}

// All iterates over the instructions, with their offset.
func (prog *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(offset int, ins Instruction) bool) {
		for n, ins := range prog.Instructions {
			if !yield(n, ins) {
				return
			}
		}
	}
}

// String returns a listing of the program that reassembles to an
// identical program.
func (prog *Program) String() string {
	var sb strings.Builder

	if len(prog.Name) != 0 {
		fmt.Fprintf(&sb, ";name %v\n", prog.Name)
	}
	if len(prog.Author) != 0 {
		fmt.Fprintf(&sb, ";author %v\n", prog.Author)
	}
	fmt.Fprintf(&sb, "ORG %d\n", prog.Start)
	for _, ins := range prog.Instructions {
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
