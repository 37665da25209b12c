package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Opcodes   []Opcode
	Registers map[int]uint8 // Initial register values, by register index.
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the instruction at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+2*len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(addr) - op.Addr) / 2,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
// Gaps between origins are zero filled.
func (prog *Program) Binary() (bin []byte) {
	for addr, code := range prog.Codes() {
		end := int(addr) + 2
		if end > len(bin) {
			bin = append(bin, make([]byte, end-len(bin))...)
		}
		word := code.Bytes()
		copy(bin[addr:end], word[:])
	}

	return
}

// Codes iterates over the address and instruction of every generated code.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Addr)
			for n, code := range op.Codes {
				if !yield(addr+uint16(2*n), code) {
					return
				}
			}
		}
	}
}

// Preset copies the initial register values into the cpu.
func (prog *Program) Preset(cpu *Cpu) {
	for reg, value := range prog.Registers {
		cpu.Register[reg] = value
	}
}

// Disassemble iterates over the instruction words of a memory image
// placed at origin. A trailing odd byte is padded with zero.
func Disassemble(origin uint16, data []byte) iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for n := 0; n < len(data); n += 2 {
			word := uint16(data[n]) << 8
			if n+1 < len(data) {
				word |= uint16(data[n+1])
			}
			if !yield(origin+uint16(n), Code(word)) {
				return
			}
		}
	}
}
