package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

const (
	REGISTER_COUNT = 16  // Register bank size.
	REG_FLAG       = 0xf // Carry flag register, vF.
)

// CpuState is the execution state of the CPU.
type CpuState int

//go:generate go tool stringer -linecomment -type=CpuState
const (
	STATE_RUNNING = CpuState(0) // running
	STATE_HALTED  = CpuState(1) // halted
	STATE_FAULTED = CpuState(2) // faulted
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
	"STACK_LIMIT":    fmt.Sprintf("%v", STACK_LIMIT),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"REG_FLAG":       fmt.Sprintf("%#x", REG_FLAG),
}

// Cpu is the interpreter state.
// It is owned by a single goroutine; nothing in it is safe for concurrent use.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint16                // Address of the next instruction to fetch.
	Register [REGISTER_COUNT]uint8 // Register bank, v0 - vF.
	Memory   Memory                // Program and data memory.
	Stack    Stack                 // Return address stack.
	State    CpuState              // Execution state.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new, zeroed, running CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%5s: %v\n", "state", cpu.State)
	fmt.Fprintf(&sb, "%5s: %03X\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		fmt.Fprintf(&sb, "%5s: %02X\n", fmt.Sprintf("v%X", n), val)
	}

	val, ok := cpu.Stack.Peek()
	if ok {
		fmt.Fprintf(&sb, "%5s: %03X (%v)\n", "stack", val, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&sb, "%5s: ---\n", "stack")
	}

	text = sb.String()
	return
}

// Reset the CPU state.
// - Clears the registers, memory, and stack.
// - Zeros the program counter and the tick counter.
// - Returns to the running state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.State = STATE_RUNNING
}

// Load copies data into memory at addr.
func (cpu *Cpu) Load(addr uint16, data []byte) error {
	return cpu.Memory.Load(addr, data)
}

// FetchCode fetches the instruction at the program counter, and
// advances the program counter past it.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	code, err = cpu.Memory.Fetch(cpu.Pc)
	if err != nil {
		return
	}

	cpu.Pc += 2
	return
}

// Tick executes a single fetch, decode and execute cycle.
// Any error faults the CPU.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		return ErrCpuHalted
	case STATE_FAULTED:
		return ErrCpuFaulted
	}

	defer func() {
		if err != nil {
			cpu.State = STATE_FAULTED
		}
	}()

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// Run ticks the CPU until it halts, or faults.
// A halt returns nil.
func (cpu *Cpu) Run() (err error) {
	for cpu.State == STATE_RUNNING {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	if cpu.State == STATE_FAULTED {
		err = ErrCpuFaulted
	}

	return
}

// Execute executes a single instruction.
// The program counter has already been advanced past it.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc-2, code)
	}

	inst := code.Decode()

	switch inst.Op {
	case OP_HALT:
		cpu.State = STATE_HALTED
	case OP_RETURN:
		err = cpu.doReturn()
	case OP_CALL:
		err = cpu.doCall(inst.Addr)
	case OP_ADD:
		cpu.doAdd(inst.X, inst.Y)
	default:
		err = ErrOpcodeUnimplemented
	}

	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// doCall pushes the return address, and jumps to addr.
func (cpu *Cpu) doCall(addr uint16) (err error) {
	if !cpu.Stack.Push(cpu.Pc) {
		err = ErrStackFull
		return
	}

	cpu.Pc = addr
	return
}

// doReturn pops the return address into the program counter.
func (cpu *Cpu) doReturn() (err error) {
	addr, ok := cpu.Stack.Pop()
	if !ok {
		err = ErrStackEmpty
		return
	}

	cpu.Pc = addr
	return
}

// doAdd adds vy into vx modulo 256, then sets vF to the carry.
// The carry is the final write, so it wins when x is vF.
func (cpu *Cpu) doAdd(x, y uint8) {
	sum := uint16(cpu.Register[x]) + uint16(cpu.Register[y])

	cpu.Register[x] = uint8(sum)
	cpu.Register[REG_FLAG] = uint8(sum >> 8)
}
