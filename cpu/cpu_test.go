package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mars/core"
	"github.com/ezrec/mars/redcode"
)

const testOwner = core.Owner(0)

// newTestCpu creates a cpu with a core of 'size', with the program lines
// loaded at address 0.
func newTestCpu(t *testing.T, size int, program ...string) (cpu *Cpu) {
	mem, err := core.NewCore(size)
	require.NoError(t, err)

	cpu = NewCpu(mem)
	if len(program) != 0 {
		prog, err := redcode.Assemble(strings.Join(program, "\n"))
		require.NoError(t, err)
		mem.Load(0, prog.Instructions, core.NOBODY)
	}

	return
}

// fieldsAt returns the A and B field values at an address.
func fieldsAt(cpu *Cpu, addr int) [2]int {
	ins := cpu.Core.Read(addr)
	return [2]int{ins.A.Value, ins.B.Value}
}

func TestExecute_Dat(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 16)

	for ip := range 16 {
		step, err := cpu.Execute(testOwner, ip)
		assert.NoError(err)
		assert.True(step.Terminated)
		assert.Empty(step.Next)
	}

	// Operands of a DAT are still evaluated.
	cpu = newTestCpu(t, 16,
		"DAT.F #0, >1",
		"DAT.F #0, #5",
	)
	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.True(step.Terminated)
	assert.Equal(6, cpu.Core.Field(1, redcode.SIDE_B))
}

func TestExecute_MovI(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 8000, "MOV.I #1, $2")

	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.False(step.Terminated)
	assert.Equal([]int{1}, step.Next)
	assert.Equal(cpu.Core.Read(0), cpu.Core.Read(2))
	assert.Equal(testOwner, cpu.Core.Owner(2))
}

func TestExecute_Mov(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		modifier string
		expected [2]int
		modes    string
	}{
		{"A", [2]int{5, 2}, "##"},
		{"B", [2]int{1, 7}, "##"},
		{"AB", [2]int{1, 5}, "##"},
		{"BA", [2]int{7, 2}, "##"},
		{"F", [2]int{5, 7}, "##"},
		{"X", [2]int{7, 5}, "##"},
		{"I", [2]int{5, 7}, "$@"},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, 8000,
			"MOV."+entry.modifier+" $1, $2",
			"DAT.F $5, @7",
			"DAT.F #1, #2",
		)

		step, err := cpu.Execute(testOwner, 0)
		assert.NoError(err, entry.modifier)
		assert.Equal([]int{1}, step.Next, entry.modifier)
		assert.Equal(entry.expected, fieldsAt(cpu, 2), entry.modifier)

		target := cpu.Core.Read(2)
		assert.Equal(entry.modes, target.A.Mode.String()+target.B.Mode.String(), entry.modifier)
	}
}

func TestExecute_MovX_Self(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100,
		"MOV.X $1, $1",
		"DAT.F #3, #9",
	)

	_, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([2]int{9, 3}, fieldsAt(cpu, 1))
}

func TestExecute_Arith(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op       string
		expected [2]int
	}{
		{"ADD.A", [2]int{15, 20}},
		{"ADD.B", [2]int{12, 24}},
		{"ADD.AB", [2]int{12, 23}},
		{"ADD.BA", [2]int{16, 20}},
		{"ADD.F", [2]int{15, 24}},
		{"ADD.X", [2]int{16, 23}},
		{"ADD.I", [2]int{15, 24}},
		{"SUB.F", [2]int{9, 16}},
		{"SUB.X", [2]int{8, 17}},
		{"SUB.BA", [2]int{8, 20}},
		{"MUL.F", [2]int{36, 80}},
		{"MUL.AB", [2]int{12, 60}},
		{"DIV.F", [2]int{4, 5}},
		{"DIV.X", [2]int{3, 6}},
		{"DIV.I", [2]int{4, 5}},
		{"MOD.F", [2]int{0, 0}},
		{"MOD.X", [2]int{0, 2}},
		{"MOD.B", [2]int{12, 0}},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, 8000,
			entry.op+" $1, $2",
			"DAT.F #3, #4",
			"DAT.F #12, #20",
		)

		step, err := cpu.Execute(testOwner, 0)
		assert.NoError(err, entry.op)
		assert.False(step.Terminated, entry.op)
		assert.Equal([]int{1}, step.Next, entry.op)
		assert.Equal(entry.expected, fieldsAt(cpu, 2), entry.op)
	}
}

func TestExecute_Arith_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100,
		"SUB.A $1, $2",
		"DAT.F #3, #4",
		"DAT.F #1, #0",
		"MUL.B $1, $2",
		"DAT.F #0, #30",
		"DAT.F #0, #7",
	)

	_, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(98, cpu.Core.Field(2, redcode.SIDE_A))

	_, err = cpu.Execute(testOwner, 3)
	assert.NoError(err)
	assert.Equal(10, cpu.Core.Field(5, redcode.SIDE_B))
}

func TestExecute_AddF_Immediate(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 10,
		"ADD.F #1, $2",
		"DAT.F #0, #0",
		"DAT.F @3, @3",
	)

	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{1}, step.Next)

	ins := cpu.Core.Read(2)
	assert.Equal(redcode.OP_DAT, ins.Opcode)
	assert.Equal(redcode.MOD_F, ins.Modifier)
	assert.Equal(redcode.Operand{Mode: redcode.MODE_INDIRECT, Value: 4}, ins.A)
	assert.Equal(redcode.Operand{Mode: redcode.MODE_INDIRECT, Value: 4}, ins.B)
}

func TestExecute_Arith_ImmediateTarget(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100, "ADD.AB #3, #4")

	_, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([2]int{3, 7}, fieldsAt(cpu, 0))
}

func TestExecute_DivideByZero(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []string{"DIV", "MOD"} {
		for _, mod := range []string{"A", "B", "AB", "BA", "F", "X", "I"} {
			name := op + "." + mod
			cpu := newTestCpu(t, 8000,
				name+" $1, $2",
				"DAT.F #0, #0",
				"DAT.F #12, #20",
			)

			step, err := cpu.Execute(testOwner, 0)
			assert.NoError(err, name)
			assert.True(step.Terminated, name)
			assert.Empty(step.Next, name)
			assert.Equal([2]int{12, 20}, fieldsAt(cpu, 2), name)
		}
	}

	// One zero divisor stops the other field too.
	cpu := newTestCpu(t, 8000,
		"DIV.F $1, $2",
		"DAT.F #2, #0",
		"DAT.F #12, #20",
	)
	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.True(step.Terminated)
	assert.Equal([2]int{12, 20}, fieldsAt(cpu, 2))
}

func TestExecute_Jmp(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 5, "JMP.A $7, $0")
	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{2}, step.Next)

	// Immediate operands do not move.
	cpu = newTestCpu(t, 5, "JMP.A #3, $0")
	step, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{0}, step.Next)

	// .B takes the destination from the B operand.
	cpu = newTestCpu(t, 20, "JMP.B $7, $3")
	step, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{3}, step.Next)

	// Backwards jumps wrap.
	cpu = newTestCpu(t, 20)
	cpu.Core.Write(1, redcode.Instruction{
		Opcode:   redcode.OP_JMP,
		Modifier: redcode.MOD_A,
		A:        redcode.Operand{Mode: redcode.MODE_DIRECT, Value: -3},
	}, testOwner)
	step, err = cpu.Execute(testOwner, 1)
	assert.NoError(err)
	assert.Equal([]int{18}, step.Next)
}

func TestExecute_Spl(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 3, "SPL.B #0, $2")
	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.False(step.Terminated)
	assert.Equal([]int{1, 2}, step.Next)

	cpu = newTestCpu(t, 8, "SPL.A $-2, $0")
	step, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{1, 6}, step.Next)
}

func TestExecute_Jmz_Jmn(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op     string
		target string
		jumped bool
	}{
		{"JMZ.A", "DAT.F #0, #1", true},
		{"JMZ.A", "DAT.F #1, #0", false},
		{"JMZ.BA", "DAT.F #0, #1", true},
		{"JMZ.B", "DAT.F #1, #0", true},
		{"JMZ.AB", "DAT.F #0, #1", false},
		{"JMZ.F", "DAT.F #0, #0", true},
		{"JMZ.F", "DAT.F #0, #1", false},
		{"JMZ.X", "DAT.F #1, #0", false},
		{"JMZ.I", "DAT.F #0, #0", true},
		{"JMN.A", "DAT.F #1, #0", true},
		{"JMN.A", "DAT.F #0, #1", false},
		{"JMN.B", "DAT.F #0, #1", true},
		{"JMN.AB", "DAT.F #1, #0", false},
		{"JMN.F", "DAT.F #0, #1", true},
		{"JMN.X", "DAT.F #1, #0", true},
		{"JMN.I", "DAT.F #0, #0", false},
	}

	for _, entry := range table {
		name := entry.op + " " + entry.target
		cpu := newTestCpu(t, 100,
			entry.op+" $5, $1",
			entry.target,
		)

		step, err := cpu.Execute(testOwner, 0)
		assert.NoError(err, name)
		if entry.jumped {
			assert.Equal([]int{5}, step.Next, name)
		} else {
			assert.Equal([]int{1}, step.Next, name)
		}
	}
}

func TestExecute_Djn(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op       string
		target   string
		expected [2]int
		jumped   bool
	}{
		{"DJN.B", "DAT.F #0, #2", [2]int{0, 1}, true},
		{"DJN.B", "DAT.F #0, #1", [2]int{0, 0}, false},
		{"DJN.A", "DAT.F #1, #5", [2]int{0, 5}, false},
		{"DJN.BA", "DAT.F #3, #5", [2]int{2, 5}, true},
		{"DJN.AB", "DAT.F #3, #0", [2]int{3, 99}, true},
		{"DJN.F", "DAT.F #1, #1", [2]int{0, 0}, false},
		{"DJN.F", "DAT.F #1, #2", [2]int{0, 1}, true},
		{"DJN.X", "DAT.F #2, #1", [2]int{1, 0}, true},
		{"DJN.I", "DAT.F #1, #1", [2]int{0, 0}, false},
	}

	for _, entry := range table {
		name := entry.op + " " + entry.target
		cpu := newTestCpu(t, 100,
			entry.op+" $5, $1",
			entry.target,
		)

		step, err := cpu.Execute(testOwner, 0)
		assert.NoError(err, name)
		assert.Equal(entry.expected, fieldsAt(cpu, 1), name)
		if entry.jumped {
			assert.Equal([]int{5}, step.Next, name)
		} else {
			assert.Equal([]int{1}, step.Next, name)
		}
	}
}

func TestExecute_Djn_Immediate(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100, "DJN.B $0, #2")

	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{0}, step.Next)
	assert.Equal(1, cpu.Core.Field(0, redcode.SIDE_B))

	step, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{1}, step.Next)
	assert.Equal(0, cpu.Core.Field(0, redcode.SIDE_B))
}

func TestExecute_Compare(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op      string
		source  string
		target  string
		skipped bool
	}{
		{"CMP.A", "DAT.F $5, #1", "DAT.F #5, #2", true},
		{"SEQ.A", "DAT.F $5, #1", "DAT.F #5, #2", true},
		{"CMP.A", "DAT.F $5, #1", "DAT.F #6, #1", false},
		{"CMP.B", "DAT.F #5, #1", "DAT.F #6, #1", true},
		{"CMP.AB", "DAT.F #5, #1", "DAT.F #6, #5", true},
		{"CMP.BA", "DAT.F #5, #1", "DAT.F #1, #5", true},
		{"CMP.F", "DAT.F #5, #1", "DAT.F #5, #1", true},
		{"CMP.F", "DAT.F #5, #1", "DAT.F #1, #5", false},
		{"CMP.X", "DAT.F #5, #1", "DAT.F #1, #5", true},
		{"CMP.I", "DAT.F #5, #1", "DAT.F #5, #1", true},
		{"CMP.I", "DAT.F #5, #1", "DAT.F $5, #1", false},
		{"CMP.I", "DAT.F #5, #1", "NOP.F #5, #1", false},
		{"CMP.I", "DAT.F #5, #1", "DAT.X #5, #1", false},
		{"SNE.A", "DAT.F $5, #1", "DAT.F #5, #2", false},
		{"SNE.A", "DAT.F $5, #1", "DAT.F #6, #2", true},
		{"SNE.I", "DAT.F #5, #1", "DAT.F $5, #1", true},
		{"SLT.A", "DAT.F #4, #9", "DAT.F #5, #0", true},
		{"SLT.A", "DAT.F #5, #9", "DAT.F #5, #0", false},
		{"SLT.B", "DAT.F #0, #1", "DAT.F #0, #2", true},
		{"SLT.AB", "DAT.F #1, #9", "DAT.F #0, #2", true},
		{"SLT.BA", "DAT.F #9, #1", "DAT.F #2, #0", true},
		{"SLT.F", "DAT.F #1, #1", "DAT.F #2, #2", true},
		{"SLT.F", "DAT.F #1, #3", "DAT.F #2, #2", false},
		{"SLT.I", "DAT.F #1, #1", "DAT.F #2, #1", false},
		{"SLT.X", "DAT.F #1, #3", "DAT.F #4, #2", true},
		{"SLT.X", "DAT.F #3, #1", "DAT.F #4, #2", false},
	}

	for _, entry := range table {
		name := entry.op + " " + entry.source + " " + entry.target
		cpu := newTestCpu(t, 100,
			entry.op+" $1, $2",
			entry.source,
			entry.target,
		)

		step, err := cpu.Execute(testOwner, 0)
		assert.NoError(err, name)
		if entry.skipped {
			assert.Equal([]int{2}, step.Next, name)
		} else {
			assert.Equal([]int{1}, step.Next, name)
		}
	}
}

func TestExecute_Compare_Immediate(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100, "CMP.AB #4, $1", "DAT.F #0, #4")
	step, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal([]int{2}, step.Next)
}

func TestExecute_Nop(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 4, "NOP.F $0, $0", "NOP.F $0, $0", "NOP.F $0, $0", "NOP.F $0, $0")
	before := cpu.Core.Snapshot()

	step, err := cpu.Execute(testOwner, 3)
	assert.NoError(err)
	assert.Equal([]int{0}, step.Next)
	assert.Equal(before, cpu.Core.Snapshot())
}

func TestResolve_Indirect(t *testing.T) {
	assert := assert.New(t)

	// The A operand follows the A field of the pointer.
	cpu := newTestCpu(t, 100,
		"MOV.I @1, $6",
		"DAT.F #2, #4",
		"DAT.F #0, #0",
		"NOP.F #3, #3",
		"DAT.F #0, #0",
		"SLT.A #5, #5",
	)
	_, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(cpu.Core.Read(3), cpu.Core.Read(6))

	// The B operand follows the B field of the pointer.
	cpu = newTestCpu(t, 100,
		"MOV.I $2, @1",
		"DAT.F #3, #4",
		"SPL.A #7, #7",
	)
	_, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(cpu.Core.Read(2), cpu.Core.Read(5))
	assert.Equal(redcode.Empty(), cpu.Core.Read(4))
}

func TestResolve_Predecrement(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100,
		"MOV.I $2, <1",
		"DAT.F #0, #5",
		"SPL.A #7, #7",
	)

	_, err := cpu.Execute(core.Owner(3), 0)
	assert.NoError(err)
	assert.Equal(4, cpu.Core.Field(1, redcode.SIDE_B))
	assert.Equal(core.Owner(3), cpu.Core.Owner(1))
	assert.Equal(cpu.Core.Read(2), cpu.Core.Read(5))

	// Resolution again observes the previous decrement.
	_, err = cpu.Execute(core.Owner(3), 0)
	assert.NoError(err)
	assert.Equal(3, cpu.Core.Field(1, redcode.SIDE_B))
	assert.Equal(cpu.Core.Read(2), cpu.Core.Read(4))
}

func TestResolve_Postincrement(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 100,
		"MOV.I $2, >1",
		"DAT.F #0, #5",
		"SPL.A #7, #7",
	)

	_, err := cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(6, cpu.Core.Field(1, redcode.SIDE_B))
	assert.Equal(cpu.Core.Read(2), cpu.Core.Read(6))

	_, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(7, cpu.Core.Field(1, redcode.SIDE_B))
	assert.Equal(cpu.Core.Read(2), cpu.Core.Read(7))

	// A side post-increment walks the A field.
	cpu = newTestCpu(t, 100,
		"MOV.A >1, $3",
		"DAT.F #1, #9",
		"DAT.F #42, #0",
	)
	_, err = cpu.Execute(testOwner, 0)
	assert.NoError(err)
	assert.Equal(2, cpu.Core.Field(1, redcode.SIDE_A))
	assert.Equal(9, cpu.Core.Field(1, redcode.SIDE_B))
	assert.Equal(42, cpu.Core.Field(3, redcode.SIDE_A))
}

func TestResolve_Immediate(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 10, "NOP.F #7, #3")

	ref, err := cpu.Resolve(10, redcode.SIDE_A, testOwner)
	assert.NoError(err)
	assert.Equal(Ref{Addr: 0, Immediate: true, Value: 7}, ref)
	assert.Equal(7, cpu.field(ref, redcode.SIDE_B))
}

func TestExecute_Invalid(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 10)

	cpu.Core.Write(0, redcode.Instruction{Opcode: redcode.Opcode(99)}, testOwner)
	_, err := cpu.Execute(testOwner, 0)
	assert.Error(err)
	assert.True(errors.Is(err, ErrOpcodeInvalid))
	assert.True(errors.Is(err, ErrOpcode{}))

	cpu.Core.Write(1, redcode.Instruction{Opcode: redcode.OP_MOV, Modifier: redcode.Modifier(-1)}, testOwner)
	_, err = cpu.Execute(testOwner, 1)
	assert.True(errors.Is(err, ErrModifierInvalid))

	cpu.Core.Write(2, redcode.Instruction{Opcode: redcode.OP_MOV, A: redcode.Operand{Mode: redcode.Mode(9)}}, testOwner)
	_, err = cpu.Execute(testOwner, 2)
	assert.True(errors.Is(err, ErrModeInvalid))
}
