//go:build unix

package fileattr

import (
	"os"

	"golang.org/x/sys/unix"
)

// Mode bits are checked rather than access(2) so the answer does not depend on
// the caller being root.
func isReadOnly(path string) (bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return st.Mode&unix.S_IWUSR == 0, nil
}

func setReadOnly(path string, readOnly bool) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return &os.PathError{Op: "stat", Path: path, Err: err}
	}
	mode := uint32(st.Mode) & 0o7777
	if readOnly {
		mode &^= unix.S_IWUSR | unix.S_IWGRP | unix.S_IWOTH
	} else {
		mode |= unix.S_IWUSR
	}
	if err := unix.Chmod(path, mode); err != nil {
		return &os.PathError{Op: "chmod", Path: path, Err: err}
	}
	return nil
}
