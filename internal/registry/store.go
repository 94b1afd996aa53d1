package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNotFound = errors.New("model not registered")

// Store persists manifests as JSON files under <base>/manifests.
type Store struct {
	base string
}

func NewStore(base string) *Store {
	return &Store{base: base}
}

func (s *Store) EnsureDirs() error {
	return os.MkdirAll(s.manifestsDir(), 0o755)
}

func (s *Store) manifestsDir() string {
	return filepath.Join(s.base, "manifests")
}

func (s *Store) manifestPath(name string) string {
	return filepath.Join(s.manifestsDir(), name+".json")
}

func (s *Store) Save(m *Manifest) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("manifest name is required")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.manifestPath(m.Name), data, 0o644)
}

func (s *Store) Load(name string) (*Manifest, error) {
	data, err := os.ReadFile(s.manifestPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}
	return &m, nil
}

func (s *Store) List() ([]Manifest, error) {
	ents, err := os.ReadDir(s.manifestsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Manifest, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		m, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *Store) Delete(name string) error {
	err := os.Remove(s.manifestPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}
