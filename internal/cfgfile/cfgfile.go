// Package cfgfile overwrites game configuration files in place.
package cfgfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/creachadair/atomicfile"
	"github.com/rs/zerolog/log"

	"deadlockoptimizer/internal/fileattr"
)

// ErrDeclined is returned when the user refuses to make a read-only target
// writable.
var ErrDeclined = errors.New("overwrite of read-only file declined")

// Confirmer decides whether a read-only file may be made writable.
type Confirmer interface {
	ConfirmWritable(path string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(path string) bool

func (f ConfirmFunc) ConfirmWritable(path string) bool { return f(path) }

// AlwaysConfirm accepts every request.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// Writer replaces file contents. A nil Confirm declines every read-only target.
type Writer struct {
	Confirm Confirmer
}

// NewWriter returns a Writer that asks c before touching read-only files.
func NewWriter(c Confirmer) *Writer {
	return &Writer{Confirm: c}
}

// Overwrite replaces the content of path. When create is false a missing
// target is an error. The previous permission bits are kept.
func (w *Writer) Overwrite(path string, content []byte, create bool) error {
	mode := fs.FileMode(0o644)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return fmt.Errorf("failed to overwrite %s: %w", path, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", path, err)
	default:
		if info.IsDir() {
			return fmt.Errorf("failed to overwrite %s: is a directory", path)
		}
		mode = info.Mode().Perm()

		readOnly, err := fileattr.IsReadOnly(path)
		if err != nil {
			return err
		}
		if readOnly {
			if w.Confirm == nil || !w.Confirm.ConfirmWritable(path) {
				return fmt.Errorf("%s: %w", path, ErrDeclined)
			}
			if err := fileattr.SetReadOnly(path, false); err != nil {
				return err
			}
			log.Debug().Str("path", path).Msg("cleared read-only attribute")
			mode |= 0o200
		}
	}

	return WriteAtomic(path, content, mode)
}

// Mirror writes content to path and leaves it read-only. A read-only
// attribute left by an earlier run is cleared first.
func (w *Writer) Mirror(path string, content []byte) error {
	if err := fileattr.SetReadOnly(path, false); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := WriteAtomic(path, content, 0o644); err != nil {
		return err
	}
	return fileattr.SetReadOnly(path, true)
}

// WriteAtomic writes content to a temporary file next to path and renames it
// over path.
func WriteAtomic(path string, content []byte, mode fs.FileMode) error {
	f, err := atomicfile.New(path, mode)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	defer f.Cancel()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
