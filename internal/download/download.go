// Package download writes files fetched from Google services to the local
// download directory.
package download

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize caps the bytes accepted for one downloaded file (100MB).
const MaxSize = 100 * 1024 * 1024

// ErrTooLarge is returned when content exceeds MaxSize.
var ErrTooLarge = errors.New("download exceeds maximum size")

// DefaultDir returns ~/Downloads, or the working directory when the home
// directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// SanitizeFilename turns name into a single path element. Path separators
// and parent references are replaced; an empty result becomes "download".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "download"
	}
	return name
}

// Save writes data to dir/filename, creating dir when missing. An existing
// file is never overwritten: a numeric suffix is added to the name instead.
// It returns the absolute path written.
func Save(dir, filename string, data []byte) (string, error) {
	if int64(len(data)) > MaxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	f, path, err := create(dir, filename)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// SaveReader streams r to dir/filename with the same naming rules as Save.
// It returns the path written and the number of bytes copied.
func SaveReader(dir, filename string, r io.Reader) (string, int64, error) {
	f, path, err := create(dir, filename)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if err == nil && n > MaxSize {
		err = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, int64(MaxSize))
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, n, nil
}

func create(dir, filename string) (*os.File, string, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("invalid download directory %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create download directory: %w", err)
	}

	name := SanitizeFilename(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(abs, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("too many files named %q in %s", name, abs)
}
