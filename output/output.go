// Package output provides destinations for generated files.
package output

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"idoc2raml/config"
)

// Sink receives generated files. Name is slash separated path relative to
// sink root. Implementations must be safe for concurrent use.
type Sink interface {
	WriteFile(name string, data []byte) error
}

// NameFunc maps record kind to file name (without directory).
type NameFunc func(kind string) (string, error)

// KindName returns NameFunc producing cleaned kind name with extension.
func KindName(ext string) NameFunc {
	return func(kind string) (string, error) {
		return config.CleanFileName(kind) + ext, nil
	}
}

// Dir writes files under root directory. Missing directories are created on
// first use of each, check-then-create is not atomic between processes.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) WriteFile(name string, data []byte) error {
	fname := filepath.Join(d.root, filepath.FromSlash(path.Clean(name)))

	dir := filepath.Dir(fname)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write file '%s': %w", fname, err)
	}
	return nil
}

// Memory keeps files in memory, later writes of the same name replace
// content but every write is counted.
type Memory struct {
	mu     sync.Mutex
	files  map[string][]byte
	order  []string
	writes int
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[name]; !exists {
		m.order = append(m.order, name)
	}
	m.files[name] = slices.Clone(data)
	m.writes++
	return nil
}

// Names returns names of stored files in order of first write.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// File returns content of stored file.
func (m *Memory) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Writes returns number of write operations performed.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
