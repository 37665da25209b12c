package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

const testSource = `; v0 = 5 + 2 * (10 + 10)
.reg v0 5
.reg v1 10
    call sub
    call sub
    halt
.org 0x100
sub:
    add v0 v1
    add v0 v1
    return
`

func runApp(t *testing.T, args ...string) (out string, err error) {
	var buf bytes.Buffer

	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf

	err = app.Run(append([]string{"chip8"}, args...))
	out = buf.String()
	return
}

func writeFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func TestApp_Run_Asm(t *testing.T) {
	assert := assert.New(t)

	src := writeFile(t, "prog.asm", []byte(testSource))

	out, err := runApp(t, "run", "--asm", src)
	assert.NoError(err)
	assert.Contains(out, "state: halted\n")
	assert.Contains(out, "   v0: 2D\n")
	assert.Contains(out, "   vF: 00\n")
	assert.Contains(out, "stack: ---\n")
}

func TestApp_Run_Rom(t *testing.T) {
	assert := assert.New(t)

	rom := writeFile(t, "prog.ch8", []byte{0x22, 0x04, 0x00, 0x00, 0x80, 0x14, 0x00, 0xee})

	out, err := runApp(t, "run", "--rom", rom, "--origin", "512")
	assert.NoError(err)
	assert.Contains(out, "state: halted\n")
	assert.Contains(out, "   pc: 204\n")

	_, err = runApp(t, "run", "--rom", rom, "--origin", "512", "--entry", "516")
	assert.ErrorIs(err, cpu.ErrStackEmpty)

	_, err = runApp(t, "run", "--rom", rom, "--origin", "4096")
	assert.ErrorIs(err, ErrAddressRange)

	_, err = runApp(t, "run", "--rom", rom, "--origin", "513")
	assert.ErrorIs(err, ErrAddressRange)

	_, err = runApp(t, "run", "--rom", rom, "--origin", "512", "--entry", "517")
	assert.ErrorIs(err, ErrAddressRange)
}

func TestApp_Run_Source(t *testing.T) {
	assert := assert.New(t)

	src := writeFile(t, "prog.asm", []byte(testSource))

	_, err := runApp(t, "run")
	assert.ErrorIs(err, ErrSourceMissing)

	_, err = runApp(t, "run", "--asm", src, "--rom", src)
	assert.ErrorIs(err, ErrSourceExclusive)

	bad := writeFile(t, "bad.asm", []byte("jump 0x200\n"))
	_, err = runApp(t, "run", "--asm", bad)
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)
}

func TestApp_Run_Fault(t *testing.T) {
	assert := assert.New(t)

	src := writeFile(t, "fault.asm", []byte("add v0 v1\n.word 0x8015\n"))

	_, err := runApp(t, "run", "--asm", src)
	assert.ErrorIs(err, cpu.ErrOpcodeUnimplemented)
}

func TestApp_Asm(t *testing.T) {
	assert := assert.New(t)

	src := writeFile(t, "prog.asm", []byte(testSource))
	bin := filepath.Join(t.TempDir(), "prog.ch8")

	_, err := runApp(t, "asm", "--out", bin, src)
	assert.NoError(err)

	data, err := os.ReadFile(bin)
	assert.NoError(err)
	assert.Equal(0x106, len(data))
	assert.Equal([]byte{0x21, 0x00, 0x21, 0x00, 0x00, 0x00}, data[:6])
	assert.Equal([]byte{0x80, 0x14, 0x80, 0x14, 0x00, 0xee}, data[0x100:])

	_, err = runApp(t, "asm", "--out", bin)
	assert.ErrorIs(err, ErrArgMissing)

	_, err = runApp(t, "asm", src)
	assert.Error(err)
}

func TestApp_Dis(t *testing.T) {
	assert := assert.New(t)

	rom := writeFile(t, "prog.ch8", []byte{0x21, 0x00, 0x80, 0x14, 0x80, 0x15})

	out, err := runApp(t, "dis", "--origin", "512", rom)
	assert.NoError(err)
	assert.Equal(strings.Join([]string{
		"200: 2100  call 0x100",
		"202: 8014  add v0 v1",
		"204: 8015  .word 0x8015",
		"",
	}, "\n"), out)

	_, err = runApp(t, "dis")
	assert.ErrorIs(err, ErrArgMissing)

	_, err = runApp(t, "dis", "--origin", "513", rom)
	assert.ErrorIs(err, ErrAddressRange)
}

func TestApp_Defines(t *testing.T) {
	assert := assert.New(t)

	out, err := runApp(t, "defines")
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal([]string{
		".equ MEMORY_SIZE 0x1000",
		".equ REGISTER_COUNT 16",
		".equ REG_FLAG 0xf",
		".equ ROM_LIMIT 0x1000",
		".equ ROM_ORIGIN 0x0",
		".equ STACK_LIMIT 16",
	}, lines)
}
