package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const DefaultDataDir = "user_data"

// Archive writes submissions as indented JSON files into a directory.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	if dir = strings.TrimSpace(dir); dir == "" {
		dir = DefaultDataDir
	}
	return &Archive{dir: dir}
}

func (a *Archive) Dir() string { return a.dir }

// Save writes the submission and returns the file path.
func (a *Archive) Save(sub Submission) (string, error) {
	fields, err := sub.Fields()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory %q: %w", a.dir, err)
	}

	path := filepath.Join(a.dir, sub.Filename())
	if err := WriteJSON(path, fields); err != nil {
		return "", err
	}

	return path, nil
}

// CheckWritable creates the directory if needed and probes it with a
// temporary file.
func (a *Archive) CheckWritable() error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %q: %w", a.dir, err)
	}

	file, err := os.CreateTemp(a.dir, ".probe_*")
	if err != nil {
		return fmt.Errorf("data directory %q is not writable: %w", a.dir, err)
	}
	name := file.Name()
	_ = file.Close()

	return os.Remove(name)
}

// WriteJSON encodes v with indentation into path, replacing any existing file.
func WriteJSON(path string, v any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}

	if err := encodeAndClose(file, v); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// encodeAndClose writes indented JSON and closes wc. A close failure is
// returned when encoding succeeded.
func encodeAndClose(wc io.WriteCloser, v any) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	enc := json.NewEncoder(wc)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
