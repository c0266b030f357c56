package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlinkPath is returned when a write target resolves through a link.
var ErrSymlinkPath = errors.New("refusing to write through a symlink")

// RejectSymlinkPath returns an error if any existing component of path is a
// symlink or reparse point. Components that do not exist yet are accepted.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for _, dir := range ancestors(abs) {
		info, err := os.Lstat(dir)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to access %s: %w", dir, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s (link at %s)", ErrSymlinkPath, path, dir)
		}
		reparse, err := isReparsePoint(dir)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", dir, err)
		}
		if reparse {
			return fmt.Errorf("%w: %s (reparse point at %s)", ErrSymlinkPath, path, dir)
		}
	}
	return nil
}

// ancestors lists every prefix of abs below the volume root, shortest first.
func ancestors(abs string) []string {
	var out []string
	for p := abs; ; {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		out = append(out, p)
		p = parent
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
