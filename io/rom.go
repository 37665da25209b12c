// Package io provides program images for the chip8 emulator.
// A Rom is a raw memory image, read from a file or any byte stream,
// and placed into memory at its origin address.
package io

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"maps"
)

const (
	ROM_LIMIT = 4096 // Addressable memory a Rom can occupy.
)

// Loader is anything that accepts a memory image at an address.
type Loader interface {
	Load(addr uint16, data []byte) error
}

// Rom is a raw program image.
type Rom struct {
	Origin uint16 // Address of the first byte of Data.
	Data   []byte
}

var _ io.ReaderFrom = (*Rom)(nil)

// Defines returns an iter of defines for the image.
func (rc *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"ROM_ORIGIN": fmt.Sprintf("%#x", rc.Origin),
		"ROM_LIMIT":  fmt.Sprintf("%#x", ROM_LIMIT),
	})
}

// space is the number of bytes available above the origin.
func (rc *Rom) space() (space int64, err error) {
	if int(rc.Origin) >= ROM_LIMIT {
		err = ErrRomOrigin
		return
	}

	space = ROM_LIMIT - int64(rc.Origin)
	return
}

// ReadFrom replaces the image with the contents of r.
// Images that do not fit above the origin are rejected.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	space, err := rc.space()
	if err != nil {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r, space+1))
	n = int64(len(data))
	if err != nil {
		return
	}

	if n > space {
		err = ErrRomTooLarge
		return
	}

	rc.Data = data
	return
}

// Unmarshal reads the image from a file in a file system.
func (rc *Rom) Unmarshal(filesys fs.FS, name string) (err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	_, err = rc.ReadFrom(inf)
	return
}

// Load writes the image into dst at the origin.
func (rc *Rom) Load(dst Loader) (err error) {
	space, err := rc.space()
	if err != nil {
		return
	}

	if int64(len(rc.Data)) > space {
		err = ErrRomTooLarge
		return
	}

	return dst.Load(rc.Origin, rc.Data)
}
