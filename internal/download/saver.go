package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxSuffix bounds the name(N) probe for a free filename.
const maxSuffix = 1000

// Saver hands finished export content to the user.
type Saver interface {
	// Save stores content under filename and returns where it went.
	Save(ctx context.Context, filename string, content []byte) (string, error)
}

// FileSaver writes exports into a download directory.
type FileSaver struct {
	Dir  string
	Perm os.FileMode
}

// NewFileSaver returns a FileSaver writing 0644 files into dir.
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{Dir: dir, Perm: 0644}
}

// Save writes content to Dir/filename. An existing file is never
// overwritten: like a browser download, the name gains a "(1)", "(2)", ...
// suffix before the extension. The data goes to a temporary file that is
// synced and renamed into place; the temporary file is always released.
func (s *FileSaver) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid download filename %q", filename)
	}

	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", fmt.Errorf("resolve download directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".histexport-*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tempPath := f.Name()
	defer os.Remove(tempPath) // no-op once renamed

	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("sync export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return "", fmt.Errorf("set file permissions: %w", err)
	}

	target, err := claim(dir, filename)
	if err != nil {
		return "", err
	}
	// The placeholder reserved the name; the rename replaces it atomically.
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("move export into place: %w", err)
	}

	return target, nil
}

// claim reserves the first free variant of name in dir by creating an
// empty placeholder file.
func claim(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s(%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve %s: %w", candidate, err)
		}
		f.Close()
		return path, nil
	}
	return "", fmt.Errorf("no free filename for %s in %s", name, dir)
}
