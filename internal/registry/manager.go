package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manager provides high-level operations for managing local models.
type Manager struct {
	store *Store
}

// NewManager creates a Manager and ensures the storage directories exist.
func NewManager(base string) (*Manager, error) {
	store := NewStore(base)
	if err := store.EnsureDirs(); err != nil {
		return nil, err
	}
	return &Manager{store: store}, nil
}

// DefaultBaseDir returns the default base directory (~/.tera).
func DefaultBaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tera")
}

// Add registers an existing model directory under a name. The directory must
// contain model.json and tokenizer.json.
func (m *Manager) Add(name, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, artifact := range []string{"model.json", "tokenizer.json"} {
		if _, err := os.Stat(filepath.Join(abs, artifact)); err != nil {
			return fmt.Errorf("model directory missing %s: %w", artifact, err)
		}
	}
	return m.store.Save(&Manifest{
		Name:    name,
		Path:    abs,
		AddedAt: time.Now(),
	})
}

func (m *Manager) Get(name string) (*Manifest, error) {
	return m.store.Load(name)
}

func (m *Manager) List() ([]Manifest, error) {
	return m.store.List()
}

func (m *Manager) Remove(name string) error {
	return m.store.Delete(name)
}

// Resolve turns a model name or directory path into an absolute artifact
// directory. An existing directory wins over the registry.
func (m *Manager) Resolve(nameOrPath string) (string, error) {
	if st, err := os.Stat(nameOrPath); err == nil && st.IsDir() {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return nameOrPath, nil
		}
		return abs, nil
	}
	manifest, err := m.store.Load(nameOrPath)
	if err != nil {
		return "", err
	}
	return manifest.Path, nil
}
