// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"

	"github.com/ezrec/mars/core"
	"github.com/ezrec/mars/redcode"
)

// Step is the outcome of executing one instruction.
type Step struct {
	Next       []int // Addresses the process continues at, if not terminated.
	Terminated bool  // Set if the executing process has died.
}

// Cpu is the execution engine for a core.
type Cpu struct {
	Verbose bool       // Set to enable verbose logging.
	Core    *core.Core // Core the instructions execute in.
}

// NewCpu creates an execution engine for a core.
func NewCpu(mem *core.Core) (cpu *Cpu) {
	cpu = &Cpu{
		Core: mem,
	}

	return
}

// next returns the single continuation address 'skip' cells past 'ip'.
func (cpu *Cpu) next(ip int, skip int) Step {
	return Step{Next: []int{cpu.Core.Normalize(ip + skip)}}
}

// validate checks the instruction can be executed.
func validate(ins redcode.Instruction) (err error) {
	switch {
	case !ins.Opcode.Valid():
		err = ErrOpcodeInvalid
	case !ins.Modifier.Valid():
		err = ErrModifierInvalid
	case !ins.A.Mode.Valid(), !ins.B.Mode.Valid():
		err = ErrModeInvalid
	}
	return
}

// Execute executes the instruction at 'ip' on behalf of the warrior 'owner'.
//
// A process that executes DAT, or divides by zero, is terminated; that is an
// ordinary outcome, reported in the Step. An error is only returned for an
// instruction that cannot be executed at all.
func (cpu *Cpu) Execute(owner core.Owner, ip int) (step Step, err error) {
	mem := cpu.Core

	ip = mem.Normalize(ip)
	ins := mem.Read(ip)

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()

	err = validate(ins)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04d: %v (%v)", ip, ins, owner)
	}

	a, err := cpu.Resolve(ip, redcode.SIDE_A, owner)
	if err != nil {
		return
	}
	b, err := cpu.Resolve(ip, redcode.SIDE_B, owner)
	if err != nil {
		return
	}

	mod := ins.Modifier

	switch ins.Opcode {
	case redcode.OP_DAT:
		step.Terminated = true
	case redcode.OP_MOV:
		cpu.doMov(owner, mod, a, b)
		step = cpu.next(ip, 1)
	case redcode.OP_ADD, redcode.OP_SUB, redcode.OP_MUL, redcode.OP_DIV, redcode.OP_MOD:
		if !cpu.doArith(owner, ins.Opcode, mod, a, b) {
			step.Terminated = true
			return
		}
		step = cpu.next(ip, 1)
	case redcode.OP_JMP:
		step.Next = []int{destination(mod, a, b)}
	case redcode.OP_JMZ:
		zero := true
		for _, side := range targetSides(mod) {
			zero = zero && cpu.field(b, side) == 0
		}
		step = cpu.jumpIf(zero, ip, a)
	case redcode.OP_JMN:
		nonzero := false
		for _, side := range targetSides(mod) {
			nonzero = nonzero || cpu.field(b, side) != 0
		}
		step = cpu.jumpIf(nonzero, ip, a)
	case redcode.OP_DJN:
		nonzero := false
		for _, side := range targetSides(mod) {
			value := mem.Normalize(cpu.field(b, side) - 1)
			mem.SetField(b.Addr, side, value, owner)
			nonzero = nonzero || value != 0
		}
		step = cpu.jumpIf(nonzero, ip, a)
	case redcode.OP_SPL:
		step.Next = []int{mem.Normalize(ip + 1), destination(mod, a, b)}
	case redcode.OP_CMP, redcode.OP_SEQ:
		step = cpu.skipIf(cpu.equal(mod, a, b), ip)
	case redcode.OP_SNE:
		step = cpu.skipIf(!cpu.equal(mod, a, b), ip)
	case redcode.OP_SLT:
		less := true
		for _, p := range modifierFields(mod) {
			less = less && cpu.field(a, p.src) < cpu.field(b, p.dst)
		}
		step = cpu.skipIf(less, ip)
	case redcode.OP_NOP:
		step = cpu.next(ip, 1)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// destination is where JMP and SPL transfer to. The .B and .BA modifiers
// take it from the B operand, all others from the A operand.
func destination(mod redcode.Modifier, a, b Ref) int {
	if mod == redcode.MOD_B || mod == redcode.MOD_BA {
		return b.Addr
	}
	return a.Addr
}

// jumpIf continues at the A operand if 'cond' holds, else at the next cell.
func (cpu *Cpu) jumpIf(cond bool, ip int, a Ref) Step {
	if cond {
		return Step{Next: []int{a.Addr}}
	}
	return cpu.next(ip, 1)
}

// skipIf skips the next instruction if 'cond' holds.
func (cpu *Cpu) skipIf(cond bool, ip int) Step {
	if cond {
		return cpu.next(ip, 2)
	}
	return cpu.next(ip, 1)
}

// doMov copies from the source to the target.
func (cpu *Cpu) doMov(owner core.Owner, mod redcode.Modifier, a, b Ref) {
	mem := cpu.Core

	if mod == redcode.MOD_I {
		mem.Write(b.Addr, mem.Read(a.Addr), owner)
		return
	}

	// Read every source field before the first write, so .X swaps cleanly
	// when source and target are the same cell.
	pairs := modifierFields(mod)
	values := make([]int, len(pairs))
	for n, p := range pairs {
		values[n] = cpu.field(a, p.src)
	}
	for n, p := range pairs {
		mem.SetField(b.Addr, p.dst, values[n], owner)
	}
}

// doArith applies an arithmetic opcode to the target. Nothing is written,
// and false returned, if any divisor is zero.
func (cpu *Cpu) doArith(owner core.Owner, op redcode.Opcode, mod redcode.Modifier, a, b Ref) (ok bool) {
	mem := cpu.Core

	pairs := modifierFields(mod)
	values := make([]int, len(pairs))
	for n, p := range pairs {
		values[n], ok = arith(op, cpu.field(b, p.dst), cpu.field(a, p.src))
		if !ok {
			return
		}
	}
	for n, p := range pairs {
		mem.SetField(b.Addr, p.dst, values[n], owner)
	}

	return
}

// arith computes 'target op source'. The result is not normalized.
func arith(op redcode.Opcode, target, source int) (value int, ok bool) {
	switch op {
	case redcode.OP_ADD:
		value = target + source
	case redcode.OP_SUB:
		value = target - source
	case redcode.OP_MUL:
		value = target * source
	case redcode.OP_DIV:
		if source == 0 {
			return
		}
		value = target / source
	case redcode.OP_MOD:
		if source == 0 {
			return
		}
		value = target % source
	default:
		return
	}

	ok = true
	return
}

// equal compares source and target for CMP, SEQ and SNE.
func (cpu *Cpu) equal(mod redcode.Modifier, a, b Ref) bool {
	if mod == redcode.MOD_I {
		return cpu.Core.Read(a.Addr) == cpu.Core.Read(b.Addr)
	}

	for _, p := range modifierFields(mod) {
		if cpu.field(a, p.src) != cpu.field(b, p.dst) {
			return false
		}
	}

	return true
}
