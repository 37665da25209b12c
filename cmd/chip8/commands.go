package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/translate"
)

var (
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Verbose mode",
	}
	AsmFlag = &cli.PathFlag{
		Name:    "asm",
		Aliases: []string{"c"},
		Usage:   "Assembly source to compile and run",
	}
	RomFlag = &cli.PathFlag{
		Name:    "rom",
		Aliases: []string{"r"},
		Usage:   "Raw memory image to run",
	}
	OriginFlag = &cli.UintFlag{
		Name:  "origin",
		Usage: "Load address of a raw memory image, word aligned",
	}
	EntryFlag = &cli.UintFlag{
		Name:        "entry",
		Usage:       "Initial program counter, word aligned",
		DefaultText: "origin",
	}
	OutFlag = &cli.PathFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "Memory image output",
		Required: true,
	}
	PProfCPUFlag = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "Enable pprof cpu profiling",
	}
)

var OutFilePerm = os.FileMode(0o644)

var f = translate.From

var (
	ErrSourceMissing   = errors.New(f("one of --asm or --rom is required"))
	ErrSourceExclusive = errors.New(f("--asm and --rom are mutually exclusive"))
	ErrArgMissing      = errors.New(f("missing file argument"))
	ErrAddressRange    = errors.New(f("address out of range"))
)

// address validates an address flag.
// Instructions are word aligned, so odd addresses are rejected.
func address(ctx *cli.Context, flag *cli.UintFlag) (addr uint16, err error) {
	value := ctx.Uint(flag.Name)
	if value >= cpu.MEMORY_SIZE || (value&1) != 0 {
		err = fmt.Errorf("--%v 0x%x: %w", flag.Name, value, ErrAddressRange)
		return
	}

	addr = uint16(value)
	return
}

// assemble compiles a source file, with the emulator defines predefined.
func assemble(emu *emulator.Emulator, path string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// loadRom reads a raw memory image file into the emulator.
func loadRom(emu *emulator.Emulator, path string) (err error) {
	err = emu.Rom.Unmarshal(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func Run(ctx *cli.Context) (err error) {
	if ctx.Bool(PProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	verbose := ctx.Bool(VerboseFlag.Name)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	origin, err := address(ctx, OriginFlag)
	if err != nil {
		return
	}
	emu.Rom.Origin = origin

	emu.Entry = origin
	if ctx.IsSet(EntryFlag.Name) {
		emu.Entry, err = address(ctx, EntryFlag)
		if err != nil {
			return
		}
	}

	switch {
	case ctx.IsSet(AsmFlag.Name) && ctx.IsSet(RomFlag.Name):
		return ErrSourceExclusive
	case ctx.IsSet(AsmFlag.Name):
		emu.Program, err = assemble(emu, ctx.Path(AsmFlag.Name), verbose)
	case ctx.IsSet(RomFlag.Name):
		err = loadRom(emu, ctx.Path(RomFlag.Name))
	default:
		return ErrSourceMissing
	}
	if err != nil {
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	if err != nil {
		log.Printf("fault: %v", err)
		log.Printf("cpu:\n%v", emu.Cpu.String())
		return
	}

	log.Printf("halted after %v instructions", emu.Cpu.Ticks)
	fmt.Fprint(ctx.App.Writer, emu.Cpu.String())

	return
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a program until it halts",
	Description: "Run an assembly source or raw memory image until it halts. The final CPU state is written to stdout.",
	Action:      Run,
	Flags: []cli.Flag{
		AsmFlag,
		RomFlag,
		OriginFlag,
		EntryFlag,
		VerboseFlag,
		PProfCPUFlag,
	},
}

func Asm(ctx *cli.Context) (err error) {
	if ctx.NArg() != 1 {
		return ErrArgMissing
	}

	emu := emulator.NewEmulator()
	prog, err := assemble(emu, ctx.Args().First(), ctx.Bool(VerboseFlag.Name))
	if err != nil {
		return
	}

	return os.WriteFile(ctx.Path(OutFlag.Name), prog.Binary(), OutFilePerm)
}

var AsmCommand = &cli.Command{
	Name:      "asm",
	Usage:     "Assemble a source file into a raw memory image",
	ArgsUsage: "SOURCE",
	Action:    Asm,
	Flags: []cli.Flag{
		OutFlag,
		VerboseFlag,
	},
}

func Dis(ctx *cli.Context) (err error) {
	if ctx.NArg() != 1 {
		return ErrArgMissing
	}

	emu := emulator.NewEmulator()
	emu.Rom.Origin, err = address(ctx, OriginFlag)
	if err != nil {
		return
	}

	err = loadRom(emu, ctx.Args().First())
	if err != nil {
		return
	}

	for addr, code := range cpu.Disassemble(emu.Rom.Origin, emu.Rom.Data) {
		fmt.Fprintf(ctx.App.Writer, "%03x: %04x  %v\n", addr, uint16(code), code)
	}

	return
}

var DisCommand = &cli.Command{
	Name:      "dis",
	Usage:     "Disassemble a raw memory image",
	ArgsUsage: "IMAGE",
	Action:    Dis,
	Flags: []cli.Flag{
		OriginFlag,
	},
}

func Defines(ctx *cli.Context) (err error) {
	emu := emulator.NewEmulator()
	for equ, value := range internal.IterSeq2Sorted(emu.Defines()) {
		fmt.Fprintf(ctx.App.Writer, ".equ %v %v\n", equ, value)
	}

	return
}

var DefinesCommand = &cli.Command{
	Name:   "defines",
	Usage:  "List the assembler predefined equates",
	Action: Defines,
}
