package fileutil

import (
	"io"
	"os"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// MaxFileSize bounds every settings layer, toolkit.toml, and context file
// the toolkit reads (4 MiB).
const MaxFileSize = 4 << 20

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads path, failing with ErrFileTooLarge when it is
// larger than MaxFileSize.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, errors.Wrap(ErrFileTooLarge, path)
	}

	return ReadAllWithLimit(f)
}

// ReadAllWithLimit reads r to EOF, failing with ErrFileTooLarge after
// MaxFileSize bytes. It is used for stdin, where no size is known ahead.
func ReadAllWithLimit(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
