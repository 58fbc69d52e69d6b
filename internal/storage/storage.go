// Package storage keeps uploaded project files on disk under one base
// directory, one folder per project named after the project ID and title.
// Database rows record only the stored file name; the folder is derived from
// the project's current ID and title, so a title rename moves the folder
// without touching any row.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrOutsideBase = errors.New("path escapes the storage directory")

type Store struct {
	base string
}

// New creates the base directory if needed and returns a Store rooted there.
func New(base string) (*Store, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{base: abs}, nil
}

// Base returns the absolute storage root.
func (s *Store) Base() string {
	return s.base
}

// DirName returns the folder name for one project.
func DirName(projectID, title string) string {
	return projectID + "-" + Sanitize(title)
}

// ProjectDir returns the absolute folder for one project without creating it.
func (s *Store) ProjectDir(projectID, title string) string {
	return filepath.Join(s.base, DirName(projectID, title))
}

// Save writes the reader's content into the project folder under a sanitized
// file name. Name collisions get a numeric suffix before the extension. It
// returns the stored name and the number of bytes written.
func (s *Store) Save(projectID, title, filename string, r io.Reader) (string, int64, error) {
	dir := s.ProjectDir(projectID, title)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create project directory: %w", err)
	}

	name := Sanitize(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for attempt := 0; ; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, attempt, ext)
		}

		full := filepath.Join(dir, candidate)
		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to create file: %w", err)
		}

		size, err := io.Copy(f, r)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(full)
			return "", 0, fmt.Errorf("failed to write file: %w", err)
		}

		return candidate, size, nil
	}
}

// Open opens a stored file by the name recorded at save time.
func (s *Store) Open(projectID, title, storedName string) (*os.File, error) {
	full, err := s.resolve(projectID, title, storedName)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(projectID, title, storedName string) error {
	full, err := s.resolve(projectID, title, storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RenameProjectDir moves a project folder after a title change. A folder that
// does not exist yet is not an error.
func (s *Store) RenameProjectDir(projectID, oldTitle, newTitle string) error {
	oldDir := s.ProjectDir(projectID, oldTitle)
	newDir := s.ProjectDir(projectID, newTitle)
	if oldDir == newDir {
		return nil
	}
	if err := os.Rename(oldDir, newDir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to rename project directory: %w", err)
	}
	return nil
}

func (s *Store) resolve(projectID, title, storedName string) (string, error) {
	full := filepath.Join(s.base, DirName(projectID, title), storedName)
	if !strings.HasPrefix(full, s.base+string(filepath.Separator)) {
		return "", ErrOutsideBase
	}
	return full, nil
}

// Sanitize strips directory components and replaces anything outside a safe
// character set so titles and file names cannot break out of their folder.
func Sanitize(name string) string {
	name = filepath.Base(filepath.ToSlash(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		default:
			b.WriteRune('-')
		}
	}

	out := strings.Trim(b.String(), " .")
	if out == "" {
		return "file"
	}
	return out
}
