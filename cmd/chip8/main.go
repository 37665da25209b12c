// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "chip8"
	app.Usage = "chip8 interpreter core"
	app.Description = "Assemble, disassemble and run chip8 programs."
	app.Commands = []*cli.Command{
		RunCommand,
		AsmCommand,
		DisCommand,
		DefinesCommand,
	}

	return
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
