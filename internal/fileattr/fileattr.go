// Package fileattr toggles the read-only state of a file.
package fileattr

import "fmt"

// PermissionError reports a failed read-only query or change.
type PermissionError struct {
	Path string
	Op   string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// IsReadOnly reports whether path is marked read-only.
func IsReadOnly(path string) (bool, error) {
	ro, err := isReadOnly(path)
	if err != nil {
		return false, &PermissionError{Path: path, Op: "inspect", Err: err}
	}
	return ro, nil
}

// SetReadOnly marks path read-only, or writable when readOnly is false.
func SetReadOnly(path string, readOnly bool) error {
	op := "clear read-only on"
	if readOnly {
		op = "set read-only on"
	}
	if err := setReadOnly(path, readOnly); err != nil {
		return &PermissionError{Path: path, Op: op, Err: err}
	}
	return nil
}
