package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	class, x, y, d, addr := Code(0x8a3e).Fields()
	assert.Equal(CLASS_ALU, class)
	assert.Equal(uint8(0xa), x)
	assert.Equal(uint8(0x3), y)
	assert.Equal(uint8(0xe), d)
	assert.Equal(uint16(0xa3e), addr)

	class, x, y, d, addr = Code(0x2fff).Fields()
	assert.Equal(CLASS_CALL, class)
	assert.Equal(uint8(0xf), x)
	assert.Equal(uint8(0xf), y)
	assert.Equal(uint8(0xf), d)
	assert.Equal(uint16(0xfff), addr)
}

func TestCode_Decode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		inst Instruction
	}){
		{"halt", 0x0000, Instruction{Op: OP_HALT, Code: 0x0000}},
		{"return", 0x00ee, Instruction{Op: OP_RETURN, Code: 0x00ee}},
		{"call", 0x2100, Instruction{Op: OP_CALL, Code: 0x2100, Addr: 0x100}},
		{"call_zero", 0x2000, Instruction{Op: OP_CALL, Code: 0x2000, Addr: 0x000}},
		{"add", 0x8014, Instruction{Op: OP_ADD, Code: 0x8014, X: 0, Y: 1}},
		{"add_vf", 0x8ff4, Instruction{Op: OP_ADD, Code: 0x8ff4, X: 0xf, Y: 0xf}},
		{"alu_or", 0x8015, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x8015}},
		{"alu_ld", 0x8010, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x8010}},
		{"cls", 0x00e0, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x00e0}},
		{"sys", 0x0123, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x0123}},
		{"sys_ee", 0x01ee, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x01ee}},
		{"jump", 0x1200, Instruction{Op: OP_UNIMPLEMENTED, Code: 0x1200}},
		{"misc", 0xffff, Instruction{Op: OP_UNIMPLEMENTED, Code: 0xffff}},
	}

	for _, entry := range table {
		assert.Equal(entry.inst, entry.code.Decode(), entry.name)
	}
}

// Every word decodes to exactly the op its fields select.
func TestCode_Decode_All(t *testing.T) {
	assert := assert.New(t)

	counts := map[CodeOp]int{}

	for word := range 0x10000 {
		code := Code(word)
		class, _, _, d, _ := code.Fields()

		expect := OP_UNIMPLEMENTED
		switch {
		case word == 0x0000:
			expect = OP_HALT
		case word == 0x00ee:
			expect = OP_RETURN
		case class == CLASS_CALL:
			expect = OP_CALL
		case class == CLASS_ALU && d == ALU_OP_ADD:
			expect = OP_ADD
		}

		inst := code.Decode()
		if inst.Op != expect {
			assert.Equal(expect, inst.Op, "0x%04x", word)
		}
		assert.Equal(inst, code.Decode())
		counts[inst.Op]++
	}

	assert.Equal(1, counts[OP_HALT])
	assert.Equal(1, counts[OP_RETURN])
	assert.Equal(0x1000, counts[OP_CALL])
	assert.Equal(0x100, counts[OP_ADD])
	assert.Equal(0x10000-2-0x1000-0x100, counts[OP_UNIMPLEMENTED])
}

func TestCode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x0000), MakeCodeHalt())
	assert.Equal(Code(0x00ee), MakeCodeReturn())
	assert.Equal(Code(0x2100), MakeCodeCall(0x100))
	assert.Equal(Code(0x2abc), MakeCodeCall(0xfabc))
	assert.Equal(Code(0x8014), MakeCodeAdd(0, 1))
	assert.Equal(Code(0x8fe4), MakeCodeAdd(0xf, 0xe))
}

func TestCode_Bytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([2]byte{0x80, 0x14}, Code(0x8014).Bytes())
	assert.Equal([2]byte{0x00, 0xee}, MakeCodeReturn().Bytes())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("halt", Code(0x0000).String())
	assert.Equal("return", Code(0x00ee).String())
	assert.Equal("call 0x100", Code(0x2100).String())
	assert.Equal("add v0 v1", Code(0x8014).String())
	assert.Equal("add vA vF", Code(0x8af4).String())
	assert.Equal(".word 0x8015", Code(0x8015).String())
}

func TestCode_Enums(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("alu", CLASS_ALU.String())
	assert.Equal("misc", CLASS_MISC.String())
	assert.Equal("CodeClass(16)", CodeClass(16).String())
	assert.Equal("unimplemented", OP_UNIMPLEMENTED.String())
	assert.Equal("add", OP_ADD.String())
	assert.Equal("faulted", STATE_FAULTED.String())
}
