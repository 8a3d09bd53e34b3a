package redcode

import (
	"fmt"
	"strings"
)

// Opcode is the operation of an instruction.
type Opcode int

const (
	OP_DAT = Opcode(0)  // dat
	OP_MOV = Opcode(1)  // mov
	OP_ADD = Opcode(2)  // add
	OP_SUB = Opcode(3)  // sub
	OP_MUL = Opcode(4)  // mul
	OP_DIV = Opcode(5)  // div
	OP_MOD = Opcode(6)  // mod
	OP_JMP = Opcode(7)  // jmp
	OP_JMZ = Opcode(8)  // jmz
	OP_JMN = Opcode(9)  // jmn
	OP_DJN = Opcode(10) // djn
	OP_CMP = Opcode(11) // cmp
	OP_SEQ = Opcode(12) // seq, same as cmp
	OP_SLT = Opcode(13) // slt
	OP_SPL = Opcode(14) // spl
	OP_SNE = Opcode(15) // sne
	OP_NOP = Opcode(16) // nop

	opcodeCount = 17
)

var opcodeName = [opcodeCount]string{
	"DAT", "MOV", "ADD", "SUB", "MUL", "DIV", "MOD",
	"JMP", "JMZ", "JMN", "DJN", "CMP", "SEQ", "SLT",
	"SPL", "SNE", "NOP",
}

// Valid returns true if the opcode is a member of the instruction set.
func (op Opcode) Valid() bool {
	return op >= 0 && op < opcodeCount
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeName[op]
}

// ParseOpcode converts a mnemonic (in any letter case) into an Opcode.
func ParseOpcode(word string) (op Opcode, err error) {
	word = strings.ToUpper(word)
	for n, name := range opcodeName {
		if name == word {
			op = Opcode(n)
			return
		}
	}

	err = ErrOpcodeInvalid
	return
}

// Modifier selects which fields of the source and target an opcode uses.
type Modifier int

const (
	MOD_A  = Modifier(0) // a
	MOD_B  = Modifier(1) // b
	MOD_AB = Modifier(2) // ab
	MOD_BA = Modifier(3) // ba
	MOD_F  = Modifier(4) // f
	MOD_X  = Modifier(5) // x
	MOD_I  = Modifier(6) // i

	modifierCount = 7
)

var modifierName = [modifierCount]string{"A", "B", "AB", "BA", "F", "X", "I"}

// Valid returns true if the modifier is one of the seven modifiers.
func (mod Modifier) Valid() bool {
	return mod >= 0 && mod < modifierCount
}

func (mod Modifier) String() string {
	if !mod.Valid() {
		return fmt.Sprintf("Modifier(%d)", int(mod))
	}
	return modifierName[mod]
}

// ParseModifier converts a modifier name (in any letter case) into a Modifier.
func ParseModifier(word string) (mod Modifier, err error) {
	word = strings.ToUpper(word)
	for n, name := range modifierName {
		if name == word {
			mod = Modifier(n)
			return
		}
	}

	err = ErrModifierInvalid
	return
}

// Mode is an operand addressing mode.
type Mode int

const (
	MODE_IMMEDIATE     = Mode(0) // #
	MODE_DIRECT        = Mode(1) // $
	MODE_INDIRECT      = Mode(2) // @
	MODE_PREDECREMENT  = Mode(3) // <
	MODE_POSTINCREMENT = Mode(4) // >

	modeCount = 5
)

const modeSigil = "#$@<>"

// Valid returns true if the mode is one of the five addressing modes.
func (mode Mode) Valid() bool {
	return mode >= 0 && mode < modeCount
}

func (mode Mode) String() string {
	if !mode.Valid() {
		return "?"
	}
	return modeSigil[mode : mode+1]
}

// ParseMode converts an addressing mode sigil into a Mode.
func ParseMode(sigil byte) (mode Mode, ok bool) {
	n := strings.IndexByte(modeSigil, sigil)
	if n < 0 {
		return
	}

	mode = Mode(n)
	ok = true
	return
}

// Side selects the A or B operand of an instruction, and with it
// the A or B field of any instruction that operand refers to.
type Side int

const (
	SIDE_A = Side(0) // a
	SIDE_B = Side(1) // b
)

func (side Side) String() string {
	if side == SIDE_A {
		return "A"
	}
	return "B"
}

// DefaultModifier returns the modifier for an instruction written without one.
//
// JMP and SPL default to .A, as their .B and .BA forms take the jump
// destination from the B operand.
func DefaultModifier(op Opcode, a, b Mode) Modifier {
	switch op {
	case OP_DAT, OP_NOP:
		return MOD_F
	case OP_MOV, OP_CMP, OP_SEQ, OP_SNE:
		switch {
		case a == MODE_IMMEDIATE:
			return MOD_AB
		case b == MODE_IMMEDIATE:
			return MOD_B
		}
		return MOD_I
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		switch {
		case a == MODE_IMMEDIATE:
			return MOD_AB
		case b == MODE_IMMEDIATE:
			return MOD_B
		}
		return MOD_F
	case OP_SLT:
		if a == MODE_IMMEDIATE {
			return MOD_AB
		}
		return MOD_B
	case OP_JMP, OP_SPL:
		return MOD_A
	}

	return MOD_B
}
