// Package cpu implements the interpreter core and assembler for the chip8 system.
//
// The CPU consists of a 16-bit program counter (PC), sixteen 8-bit registers
// (v0-vF, with vF doubling as the carry flag), a flat 4K byte memory, and a
// sixteen entry return-address stack. Instructions are 16-bit big-endian
// words, decoded into four nibble fields and a 12-bit address.
//
// Only the control-flow and arithmetic primitives are executed: halt, call,
// return and add-with-carry. Every other word decodes to an unimplemented
// instruction, which faults the CPU.
//
// The assembler provides a small assembly language for building program
// images, supporting labels, equates, origins, raw words and compile-time
// expression evaluation.
package cpu
