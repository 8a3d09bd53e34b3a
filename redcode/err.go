package redcode

import (
	"errors"

	"github.com/ezrec/mars/translate"
)

var f = translate.From

var (
	// Instruction decode errors
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrModifierInvalid = errors.New(f("modifier invalid"))
	ErrModeInvalid     = errors.New(f("addressing mode invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f("equ syntax"))
	ErrEquateDuplicate = errors.New(f("equ duplicated"))
	ErrEquateRecursive = errors.New(f("equ refers to itself"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOrgDuplicate    = errors.New(f("org duplicated"))
	ErrProgramEmpty    = errors.New(f("program has no instructions"))
)

// ErrLabelMissing is returned when an operand names a label that
// was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
