package redcode

import (
	"fmt"
)

// Operand is an addressing mode and a value.
type Operand struct {
	Mode  Mode
	Value int
}

func (o Operand) String() string {
	return fmt.Sprintf("%v%d", o.Mode, o.Value)
}

// Instruction is a single Redcode instruction.
type Instruction struct {
	Opcode   Opcode
	Modifier Modifier
	A        Operand
	B        Operand
}

// Empty returns the instruction that fills an unused core cell, DAT.F #0, #0
func Empty() Instruction {
	return Instruction{
		Opcode:   OP_DAT,
		Modifier: MOD_F,
		A:        Operand{Mode: MODE_IMMEDIATE},
		B:        Operand{Mode: MODE_IMMEDIATE},
	}
}

// Valid returns true if the opcode, modifier and both modes are in range.
func (ins Instruction) Valid() bool {
	return ins.Opcode.Valid() && ins.Modifier.Valid() && ins.A.Mode.Valid() && ins.B.Mode.Valid()
}

// Operand returns the A or B operand.
func (ins Instruction) Operand(side Side) Operand {
	if side == SIDE_A {
		return ins.A
	}
	return ins.B
}

// Field returns the value of the A or B field.
func (ins Instruction) Field(side Side) int {
	return ins.Operand(side).Value
}

// SetField sets the value of the A or B field.
func (ins *Instruction) SetField(side Side, value int) {
	if side == SIDE_A {
		ins.A.Value = value
	} else {
		ins.B.Value = value
	}
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%v.%v %v, %v", ins.Opcode, ins.Modifier, ins.A, ins.B)
}
