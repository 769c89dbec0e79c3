package codec

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

// Save exports the grid to path, in the format matching the path extension.
//
// The image is written to a temporary file next to path which is renamed
// into place once complete, so a failed save leaves any existing file intact.
func Save(path string, g *grid.Grid, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	if opts.DisplaySize == 0 {
		opts.DisplaySize = DefaultDisplaySize
	}
	img, err := Export(g, opts.DisplaySize)
	if err != nil {
		return err
	}

	path = filepath.Clean(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	name := f.Name()
	fail := func(err error) error {
		if ioErr, ok := err.(*IOError); ok {
			err = ioErr.Err
		}
		_ = f.Close()
		_ = os.Remove(name)
		return &IOError{Op: "save", Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	if err = Encode(w, img, format); err != nil {
		return fail(err)
	}
	if err = w.Flush(); err != nil {
		return fail(err)
	}
	if err = f.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(name)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	if err = os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load reads the image at path and resamples it to size×size cells.
func Load(path string, size int) ([][]pixel.Cell, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	cells, err := Decode(bufio.NewReader(f), size)
	if err != nil {
		if ioErr, ok := err.(*IOError); ok {
			ioErr.Op, ioErr.Path = "load", path
		}
		return nil, err
	}
	return cells, nil
}
