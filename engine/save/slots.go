package save

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/serpens/engine/world"
)

// ErrBadName is returned for a save name that is empty or names a path.
var ErrBadName = errors.New("invalid save name")

// Slots manages the named saves kept under one directory.
type Slots struct {
	Dir string
}

func (s Slots) path(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(s.Dir, name), nil
}

// List returns the names of every save, sorted.
func (s Slots) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && s.Exists(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a save called name is present.
func (s Slots) Exists(name string) bool {
	dir, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, GameFile))
	return err == nil
}

// Save writes w under name, replacing any save already there.
func (s Slots) Save(w *world.World, name string) error {
	dir, err := s.path(name)
	if err != nil {
		return err
	}
	return Save(w, dir)
}

// Load reads the save called name.
func (s Slots) Load(name string) (*world.World, error) {
	dir, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if !s.Exists(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrNoSave)
	}
	return Load(dir)
}

// Delete removes the save called name.
func (s Slots) Delete(name string) error {
	dir, err := s.path(name)
	if err != nil {
		return err
	}
	if !s.Exists(name) {
		return fmt.Errorf("%q: %w", name, ErrNoSave)
	}
	return os.RemoveAll(dir)
}

// DeleteAll removes every save and returns how many were deleted.
func (s Slots) DeleteAll() (int, error) {
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		if err := s.Delete(name); err != nil {
			return i, err
		}
	}
	return len(names), nil
}
