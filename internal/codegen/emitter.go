package codegen

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/you-not-fish/widl/internal/errors"
)

// emitter wraps an io.Writer with helpers for emitting text blocks.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output.
func (e *emitter) emit(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitRaw writes a formatted string without a trailing newline.
func (e *emitter) emitRaw(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteFile creates path on fs, along with any missing parent
// directories, and fills it using write. If write or close fails the
// partially written file is removed before the error is returned.
func WriteFile(fs afero.Fs, path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
		if err != nil {
			_ = fs.Remove(path)
		}
	}()
	return write(f)
}
