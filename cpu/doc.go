// Package cpu implements the Redcode execution engine.
//
// The Cpu resolves the operands of the instruction at an address against the
// shared core, applies the opcode, and returns the addresses the executing
// process continues at. Pre-decrement and post-increment operands modify the
// pointer cell stored in the core, so later resolutions observe the change.
//
// Indirect addressing follows the field on the same side as the operand: an
// A operand follows the A field of its pointer cell, a B operand the B field.
package cpu
