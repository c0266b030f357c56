package files

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ReadText reads at most limit bytes of UTF-8 text from r.
func ReadText(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("input is not valid UTF-8 text")
	}
	return string(data), nil
}

// ReadTextFile is ReadText for a regular file.
func ReadTextFile(path string, limit int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadText(f, limit)
}
