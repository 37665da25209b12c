package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Image errors
	ErrRomTooLarge = errors.New(f("rom too large"))
	ErrRomOrigin   = errors.New(f("rom origin invalid"))
)
