package generate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileWriteError is returned when an artifact cannot be written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

// Writer puts artifacts on disk below Root, applying the overwrite policy:
// identical files are left alone, mutable kinds are never replaced.
type Writer struct {
	Root   string
	DryRun bool
}

// Write stores a and sets its Status.
func (w Writer) Write(a *Artifact) error {
	full := filepath.Join(w.Root, a.Path)
	existing, err := os.ReadFile(full)
	switch {
	case err == nil && bytes.Equal(existing, []byte(a.Content)):
		a.Status = StatusUnchanged
		return nil
	case err == nil && a.Kind.Mutable():
		a.Status = StatusSkipped
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return &FileWriteError{Path: a.Path, Err: err}
	}
	if w.DryRun {
		a.Status = StatusWritten
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &FileWriteError{Path: a.Path, Err: err}
	}
	if err := os.WriteFile(full, []byte(a.Content), 0o644); err != nil {
		return &FileWriteError{Path: a.Path, Err: err}
	}
	a.Status = StatusWritten
	return nil
}
