//go:build !windows

package files

import "os"

// os.Rename replaces the destination atomically on POSIX filesystems.
func renameAtomic(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func isReparsePoint(string) (bool, error) {
	return false, nil
}
