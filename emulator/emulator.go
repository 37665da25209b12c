// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"log"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

// Emulator state. CPU + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Assembled program listing, if any.

	Rom   io.Rom // Memory image loaded on reset.
	Entry uint16 // Initial program counter.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Rom.Defines(),
	)
}

// Reset the emulator state.
// - Clears the CPU.
// - Replaces the image with the assembled program, if there is one.
// - Loads the image, and presets registers.
// - Sets the program counter to the entry point.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Program != nil {
		emu.Rom.Origin = 0
		emu.Rom.Data = emu.Program.Binary()
	}

	emu.Cpu.Reset()

	err = emu.Rom.Load(emu.Cpu)
	if err != nil {
		return
	}

	if emu.Program != nil {
		emu.Program.Preset(emu.Cpu)
	}

	emu.Cpu.Pc = emu.Entry

	if emu.Verbose {
		log.Printf("emulator: %v bytes at 0x%03x, entry 0x%03x", len(emu.Rom.Data), emu.Rom.Origin, emu.Entry)
	}

	return
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() (code cpu.Code, err error) {
	return emu.Cpu.Memory.Fetch(emu.Cpu.Pc)
}

// LineNo returns the source line number of the instruction at the program counter.
// Zero means there is no program listing, or the address is not in it.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrCpuHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_HALTED

	return
}

// Run ticks the emulator until the CPU halts, or faults.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
