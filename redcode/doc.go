// Package redcode implements the instruction set and the assembler for the
// Redcode battle language.
//
// An Instruction is an opcode, a modifier and two operands (A and B), each
// operand being an addressing mode and an integer value. Instructions are
// plain values: copying an Instruction copies both of its operands.
//
// The assembler is a two pass assembler. The first pass records labels,
// equates and every operand that refers to a label or an expression; the
// second pass resolves those operands relative to the instruction that
// uses them. Expressions are evaluated with Starlark.
package redcode
