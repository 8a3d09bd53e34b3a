package cpu

import (
	"errors"

	"github.com/ezrec/mars/redcode"
	"github.com/ezrec/mars/translate"
)

var f = translate.From

var (
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrModifierInvalid = errors.New(f("modifier invalid"))
	ErrModeInvalid     = errors.New(f("addressing mode invalid"))
)

// ErrOpcode is an instruction the engine cannot execute. This is never a
// warrior fault: the loader or the engine has broken an invariant.
type ErrOpcode redcode.Instruction

func (eo ErrOpcode) Error() string {
	return f("bad instruction %v", redcode.Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
