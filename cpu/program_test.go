package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x000, Words: []string{"call", "0x010"}, Codes: []Code{0x2010}},
			{LineNo: 2, Addr: 0x002, Words: []string{"halt"}, Codes: []Code{0x0000}},
			{LineNo: 4, Addr: 0x010, Words: []string{".word", "0x8014", "0x00ee"}, Codes: []Code{0x8014, 0x00ee}},
		},
		Registers: map[int]uint8{1: 7, 0xf: 1},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x002)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x012)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x004)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	bin := testProgram().Binary()
	assert.Equal([]byte{
		0x20, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x80, 0x14, 0x00, 0xee,
	}, bin)

	assert.Nil((&Program{}).Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	var addrs []uint16
	var codes []Code
	for addr, code := range testProgram().Codes() {
		addrs = append(addrs, addr)
		codes = append(codes, code)
	}
	assert.Equal([]uint16{0x000, 0x002, 0x010, 0x012}, addrs)
	assert.Equal([]Code{0x2010, 0x0000, 0x8014, 0x00ee}, codes)

	// Early termination
	count := 0
	for range testProgram().Codes() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}

func TestProgram_Preset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[2] = 2
	testProgram().Preset(cpu)

	assert.Equal(uint8(7), cpu.Register[1])
	assert.Equal(uint8(2), cpu.Register[2])
	assert.Equal(uint8(1), cpu.Register[0xf])
}

func TestProgram_Run(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	cpu := NewCpu()
	assert.NoError(cpu.Load(0, prog.Binary()))
	prog.Preset(cpu)

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(7), cpu.Register[0])
	assert.Equal(uint8(0), cpu.Register[0xf])
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	type word struct {
		addr uint16
		code Code
	}

	var words []word
	for addr, code := range Disassemble(0x200, []byte{0x21, 0x00, 0x80, 0x14, 0x00}) {
		words = append(words, word{addr, code})
	}

	assert.Equal([]word{
		{0x200, 0x2100},
		{0x202, 0x8014},
		{0x204, 0x0000},
	}, words)

	count := 0
	for range Disassemble(0, nil) {
		count++
	}
	assert.Equal(0, count)
}
