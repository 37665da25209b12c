package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrCpuHalted   = errors.New(f("cpu halted"))
	ErrCpuFaulted  = errors.New(f("cpu faulted"))
	ErrFetchBounds = errors.New(f("fetch out of bounds"))
	ErrStoreBounds = errors.New(f("store out of bounds"))
	ErrStackEmpty  = errors.New(f("stack empty"))
	ErrStackFull   = errors.New(f("stack full"))

	// Instruction decode errors
	ErrOpcodeUnimplemented = errors.New(f("opcode not implemented"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgInvalid         = errors.New(f(".org address invalid"))
	ErrRegSyntax          = errors.New(f(".reg syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeOverlap      = errors.New(f("opcode overlaps earlier code"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode carries the instruction word that faulted.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress carries the memory address of a bounds fault.
type ErrAddress uint16

func (ea ErrAddress) Error() string {
	return f("address 0x%03x", uint16(ea))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
