package registry

import (
	"fmt"
	"io"
	"os"
	"sort"

	yaml "gopkg.in/yaml.v2"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// unsavable lists the switches that only make sense for a single invocation.
var unsavable = map[string]bool{
	"log":     true,
	"n":       true,
	"dry-run": true,
	"config":  true,
	"help":    true,
}

// Store holds switch defaults persisted between invocations.
type Store struct {
	path     string
	switches map[string]string
}

// New returns an empty store backed by path.
func New(path string) *Store {
	return &Store{path: path, switches: map[string]string{}}
}

// Load reads the store at path. A missing file is an empty store.
func Load(path string) (*Store, error) {
	s := New(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if err := config.LoadYAML(path, &s.switches); err != nil {
		return nil, fmt.Errorf("failed to read saved switches %q: %w", path, err)
	}
	if s.switches == nil {
		s.switches = map[string]string{}
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Savable reports whether a switch may be persisted.
func Savable(name string) bool {
	return !unsavable[name]
}

// Get returns the saved value of name.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.switches[name]
	return v, ok
}

// Set records value as the default of name.
func (s *Store) Set(name, value string) error {
	if !Savable(name) {
		return fmt.Errorf("switch %q cannot be saved", name)
	}
	s.switches[name] = value
	return nil
}

// Delete forgets the saved value of name.
func (s *Store) Delete(name string) {
	delete(s.switches, name)
}

// Clear forgets every saved value.
func (s *Store) Clear() {
	s.switches = map[string]string{}
}

// Names lists the saved switches in alphabetical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.switches))
	for name := range s.switches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the store back to its file. An empty store removes the file.
func (s *Store) Save() error {
	if len(s.switches) == 0 {
		if err := files.RemoveIfExists(s.path); err != nil {
			return fmt.Errorf("failed to remove saved switches %q: %w", s.path, err)
		}
		return nil
	}

	data, err := yaml.Marshal(s.switches)
	if err != nil {
		return fmt.Errorf("failed to encode saved switches: %w", err)
	}
	err = files.WriteFileAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write saved switches %q: %w", s.path, err)
	}
	return nil
}
