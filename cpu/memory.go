package cpu

import (
	"errors"
)

const (
	MEMORY_SIZE = 4096 // Addressable bytes, 0x000 - 0xfff
)

// Memory is the flat, byte addressable memory of the CPU.
type Memory [MEMORY_SIZE]byte

// Fetch reads the big-endian instruction word at addr.
// Instructions are even aligned, and both bytes must be in memory.
func (mem *Memory) Fetch(addr uint16) (code Code, err error) {
	if (addr&1) != 0 || int(addr)+1 >= len(mem) {
		err = errors.Join(ErrFetchBounds, ErrAddress(addr))
		return
	}

	code = Code(uint16(mem[addr])<<8 | uint16(mem[addr+1]))
	return
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint16) (value byte, err error) {
	if int(addr) >= len(mem) {
		err = errors.Join(ErrFetchBounds, ErrAddress(addr))
		return
	}

	value = mem[addr]
	return
}

// Write stores a byte at addr.
func (mem *Memory) Write(addr uint16, value byte) (err error) {
	if int(addr) >= len(mem) {
		err = errors.Join(ErrStoreBounds, ErrAddress(addr))
		return
	}

	mem[addr] = value
	return
}

// Load copies data into memory starting at addr.
// Nothing is written if any of data would fall outside of memory.
func (mem *Memory) Load(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > len(mem) {
		err = errors.Join(ErrStoreBounds, ErrAddress(addr))
		return
	}

	copy(mem[addr:], data)
	return
}
