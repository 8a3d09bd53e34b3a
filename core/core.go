// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package core implements the circular memory shared by all warriors.
package core

import (
	"errors"
	"iter"
	"slices"

	"github.com/ezrec/mars/redcode"
	"github.com/ezrec/mars/translate"
)

var f = translate.From

var (
	ErrInvalidSize = errors.New(f("core size must be positive"))
)

// Owner identifies the warrior that last wrote a cell.
type Owner int

// NOBODY owns a cell that no warrior has written.
const NOBODY = Owner(-1)

// Cell is a single location in the core.
type Cell struct {
	Index       int
	Instruction redcode.Instruction
	Owner       Owner
}

// Observer is called after a cell of the core has been modified.
// The cell is a copy.
type Observer func(cell Cell)

// Core is the fixed size circular memory of instructions.
type Core struct {
	cell      []Cell
	observers []Observer
}

// NewCore creates a new core of 'size' cells, all DAT.F #0, #0.
func NewCore(size int) (core *Core, err error) {
	if size <= 0 {
		err = ErrInvalidSize
		return
	}

	core = &Core{
		cell: make([]Cell, size),
	}

	core.Reset()

	return
}

// Size is the number of cells in the core.
func (core *Core) Size() int {
	return len(core.cell)
}

// Normalize folds any address, or field value, into [0, Size()).
func (core *Core) Normalize(addr int) int {
	size := len(core.cell)
	return ((addr % size) + size) % size
}

// Reset fills the core with the empty instruction, owned by nobody.
func (core *Core) Reset() {
	empty := redcode.Empty()
	for n := range core.cell {
		core.cell[n] = Cell{Index: n, Instruction: empty, Owner: NOBODY}
	}
}

// Observe registers an observer of cell changes.
func (core *Core) Observe(observer Observer) {
	core.observers = append(core.observers, observer)
}

func (core *Core) changed(cell *Cell) {
	for _, observer := range core.observers {
		observer(*cell)
	}
}

// Read returns a copy of the instruction at an address.
func (core *Core) Read(addr int) redcode.Instruction {
	return core.cell[core.Normalize(addr)].Instruction
}

// Owner returns the last writer of an address.
func (core *Core) Owner(addr int) Owner {
	return core.cell[core.Normalize(addr)].Owner
}

// Write stores a copy of an instruction, with normalized field values.
func (core *Core) Write(addr int, ins redcode.Instruction, owner Owner) {
	cell := &core.cell[core.Normalize(addr)]
	ins.A.Value = core.Normalize(ins.A.Value)
	ins.B.Value = core.Normalize(ins.B.Value)
	cell.Instruction = ins
	cell.Owner = owner
	core.changed(cell)
}

// Field returns the value of the A or B field at an address.
func (core *Core) Field(addr int, side redcode.Side) int {
	return core.cell[core.Normalize(addr)].Instruction.Field(side)
}

// SetField changes the A or B field value in place.
func (core *Core) SetField(addr int, side redcode.Side, value int, owner Owner) {
	cell := &core.cell[core.Normalize(addr)]
	cell.Instruction.SetField(side, core.Normalize(value))
	cell.Owner = owner
	core.changed(cell)
}

// Load writes a sequence of instructions starting at an absolute address.
func (core *Core) Load(base int, program []redcode.Instruction, owner Owner) {
	for n, ins := range program {
		core.Write(base+n, ins, owner)
	}
}

// Cells iterates over the cells of the core. The cells are copies.
func (core *Core) Cells() iter.Seq2[int, Cell] {
	return func(yield func(index int, cell Cell) bool) {
		for n, cell := range core.cell {
			if !yield(n, cell) {
				return
			}
		}
	}
}

// Snapshot returns a copy of every cell in the core.
func (core *Core) Snapshot() []Cell {
	return slices.Clone(core.cell)
}
