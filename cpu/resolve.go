package cpu

import (
	"github.com/ezrec/mars/core"
	"github.com/ezrec/mars/redcode"
)

// Ref is a resolved operand.
//
// An immediate operand refers to the executing instruction itself, but reads
// of either of its fields yield the literal value of the operand.
type Ref struct {
	Addr      int  // Absolute, normalized, address of the referenced cell.
	Immediate bool // Set for an immediate operand.
	Value     int  // Literal value of an immediate operand.
}

// Resolve computes the operand on one side of the instruction at 'ip'.
// Pre-decrement and post-increment modes modify the pointer cell in the core,
// on behalf of 'owner'.
func (cpu *Cpu) Resolve(ip int, side redcode.Side, owner core.Owner) (ref Ref, err error) {
	mem := cpu.Core

	ip = mem.Normalize(ip)
	operand := mem.Read(ip).Operand(side)

	switch operand.Mode {
	case redcode.MODE_IMMEDIATE:
		ref = Ref{Addr: ip, Immediate: true, Value: operand.Value}
	case redcode.MODE_DIRECT:
		ref = Ref{Addr: mem.Normalize(ip + operand.Value)}
	case redcode.MODE_INDIRECT, redcode.MODE_PREDECREMENT, redcode.MODE_POSTINCREMENT:
		ptr := mem.Normalize(ip + operand.Value)
		if operand.Mode == redcode.MODE_PREDECREMENT {
			mem.SetField(ptr, side, mem.Field(ptr, side)-1, owner)
		}
		offset := mem.Field(ptr, side)
		if operand.Mode == redcode.MODE_POSTINCREMENT {
			mem.SetField(ptr, side, offset+1, owner)
		}
		ref = Ref{Addr: mem.Normalize(ptr + offset)}
	default:
		err = ErrModeInvalid
	}

	return
}

// field reads the A or B field a reference selects.
func (cpu *Cpu) field(ref Ref, side redcode.Side) int {
	if ref.Immediate {
		return ref.Value
	}
	return cpu.Core.Field(ref.Addr, side)
}

// fields is a source field, and the target field it acts on.
type fields struct {
	src redcode.Side
	dst redcode.Side
}

var (
	fieldsA  = []fields{{redcode.SIDE_A, redcode.SIDE_A}}
	fieldsB  = []fields{{redcode.SIDE_B, redcode.SIDE_B}}
	fieldsAB = []fields{{redcode.SIDE_A, redcode.SIDE_B}}
	fieldsBA = []fields{{redcode.SIDE_B, redcode.SIDE_A}}
	fieldsF  = []fields{{redcode.SIDE_A, redcode.SIDE_A}, {redcode.SIDE_B, redcode.SIDE_B}}
	fieldsX  = []fields{{redcode.SIDE_B, redcode.SIDE_A}, {redcode.SIDE_A, redcode.SIDE_B}}
)

// modifierFields returns the field pairs a modifier selects. F and I
// both act on the two fields positionally.
func modifierFields(mod redcode.Modifier) []fields {
	switch mod {
	case redcode.MOD_A:
		return fieldsA
	case redcode.MOD_B:
		return fieldsB
	case redcode.MOD_AB:
		return fieldsAB
	case redcode.MOD_BA:
		return fieldsBA
	case redcode.MOD_X:
		return fieldsX
	}
	return fieldsF
}

var (
	sidesA    = []redcode.Side{redcode.SIDE_A}
	sidesB    = []redcode.Side{redcode.SIDE_B}
	sidesBoth = []redcode.Side{redcode.SIDE_A, redcode.SIDE_B}
)

// targetSides returns the target fields a conditional jump tests.
func targetSides(mod redcode.Modifier) []redcode.Side {
	switch mod {
	case redcode.MOD_A, redcode.MOD_BA:
		return sidesA
	case redcode.MOD_B, redcode.MOD_AB:
		return sidesB
	}
	return sidesBoth
}
