package cpu

import (
	"fmt"
)

// CodeClass is the operation class, the most significant nibble of a Code.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_SYS   = CodeClass(0x0) // sys
	CLASS_JUMP  = CodeClass(0x1) // jump
	CLASS_CALL  = CodeClass(0x2) // call
	CLASS_SKEQ  = CodeClass(0x3) // skeq
	CLASS_SKNE  = CodeClass(0x4) // skne
	CLASS_SKREQ = CodeClass(0x5) // skreq
	CLASS_LOAD  = CodeClass(0x6) // load
	CLASS_ADDK  = CodeClass(0x7) // addk
	CLASS_ALU   = CodeClass(0x8) // alu
	CLASS_SKRNE = CodeClass(0x9) // skrne
	CLASS_LOADI = CodeClass(0xa) // loadi
	CLASS_JUMPV = CodeClass(0xb) // jumpv
	CLASS_RAND  = CodeClass(0xc) // rand
	CLASS_DRAW  = CodeClass(0xd) // draw
	CLASS_KEY   = CodeClass(0xe) // key
	CLASS_MISC  = CodeClass(0xf) // misc
)

// CodeOp is a decoded operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_UNIMPLEMENTED = CodeOp(0) // unimplemented
	OP_HALT          = CodeOp(1) // halt
	OP_RETURN        = CodeOp(2) // return
	OP_CALL          = CodeOp(3) // call
	OP_ADD           = CodeOp(4) // add
)

// Field selectors within a class.
const (
	SYS_HALT   = 0x000 // CLASS_SYS address of halt
	SYS_RETURN = 0x0ee // CLASS_SYS address of return
	ALU_OP_ADD = 0x4   // CLASS_ALU sub-selector of add-with-carry
)

// opTable is the instruction table, in match priority order.
// Bits set in mask are fixed to the bits of match; the rest are operands.
var opTable = [...]struct {
	mask  uint16
	match uint16
	op    CodeOp
}{
	{0xffff, uint16(CLASS_SYS)<<12 | SYS_HALT, OP_HALT},
	{0xffff, uint16(CLASS_SYS)<<12 | SYS_RETURN, OP_RETURN},
	{0xf000, uint16(CLASS_CALL) << 12, OP_CALL},
	{0xf00f, uint16(CLASS_ALU)<<12 | ALU_OP_ADD, OP_ADD},
}

// Code is a single big-endian instruction word.
type Code uint16

// Instruction is a decoded Code.
// Only the operand fields used by Op are set.
type Instruction struct {
	Op   CodeOp
	Code Code
	X    uint8
	Y    uint8
	Addr uint16
}

// makeFields creates an instruction word from its four nibbles.
func makeFields(class CodeClass, x, y, d uint8) Code {
	return Code((uint16(class&0xf) << 12) | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(d&0xf))
}

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return Code(uint16(CLASS_SYS)<<12 | SYS_HALT)
}

// MakeCodeReturn creates a subroutine return instruction.
func MakeCodeReturn() Code {
	return Code(uint16(CLASS_SYS)<<12 | SYS_RETURN)
}

// MakeCodeCall creates a subroutine call to a 12-bit address.
func MakeCodeCall(addr uint16) Code {
	return Code(uint16(CLASS_CALL)<<12 | (addr & 0xfff))
}

// MakeCodeAdd creates an add-with-carry of register y into register x.
func MakeCodeAdd(x, y uint8) Code {
	return makeFields(CLASS_ALU, x, y, ALU_OP_ADD)
}

// Class returns the operation class from the instruction word.
func (code Code) Class() CodeClass {
	return CodeClass((uint16(code) >> 12) & 0xf)
}

// Fields splits the instruction word into its class, x, y and d nibbles,
// and the low 12 bits as an address.
func (code Code) Fields() (class CodeClass, x, y, d uint8, addr uint16) {
	word := uint16(code)
	class = code.Class()
	x = uint8((word >> 8) & 0xf)
	y = uint8((word >> 4) & 0xf)
	d = uint8((word >> 0) & 0xf)
	addr = word & 0xfff
	return
}

// Decode matches the instruction word against the instruction table.
// Words that match no entry decode as OP_UNIMPLEMENTED.
func (code Code) Decode() (inst Instruction) {
	inst = Instruction{Op: OP_UNIMPLEMENTED, Code: code}

	for _, entry := range opTable {
		if uint16(code)&entry.mask == entry.match {
			inst.Op = entry.op
			break
		}
	}

	_, x, y, _, addr := code.Fields()

	switch inst.Op {
	case OP_CALL:
		inst.Addr = addr
	case OP_ADD:
		inst.X = x
		inst.Y = y
	}

	return
}

// Bytes returns the instruction word as it is laid out in memory.
func (code Code) Bytes() [2]byte {
	return [2]byte{byte(code >> 8), byte(code)}
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	inst := code.Decode()

	switch inst.Op {
	case OP_HALT:
		return "halt"
	case OP_RETURN:
		return "return"
	case OP_CALL:
		return fmt.Sprintf("call 0x%03x", inst.Addr)
	case OP_ADD:
		return fmt.Sprintf("add v%X v%X", inst.X, inst.Y)
	}

	return fmt.Sprintf(".word 0x%04x", uint16(code))
}
