package output

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
)

func TestDir_WriteFileCreatesDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	d := NewDir(root)

	if err := d.WriteFile("examples/A.json", []byte("{}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := d.WriteFile("A.raml", []byte("one")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// overwrite
	if err := d.WriteFile("A.raml", []byte("two")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "A.raml"))
	if err != nil || string(data) != "two" {
		t.Errorf("A.raml = %q, %v", data, err)
	}
	data, err = os.ReadFile(filepath.Join(root, "examples", "A.json"))
	if err != nil || string(data) != "{}" {
		t.Errorf("examples/A.json = %q, %v", data, err)
	}
}

func TestDir_WriteFileError(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// root is a regular file - nothing can be created under it
	d := NewDir(blocker)
	if err := d.WriteFile("A.raml", []byte("x")); err == nil {
		t.Error("expected error")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for _, name := range []string{"A", "B", "A", "C"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WriteFile(name, []byte(name))
		}()
	}
	wg.Wait()

	if m.Writes() != 4 {
		t.Errorf("Writes() = %d, want 4", m.Writes())
	}
	names := m.Names()
	slices.Sort(names)
	if !slices.Equal(names, []string{"A", "B", "C"}) {
		t.Errorf("Names() = %v", names)
	}
	if data, ok := m.File("B"); !ok || string(data) != "B" {
		t.Errorf("File(B) = %q, %v", data, ok)
	}
	if _, ok := m.File("Z"); ok {
		t.Error("File(Z) should not exist")
	}
}

func TestKindName(t *testing.T) {
	name, err := KindName(".raml")("ns:E1EDK01")
	if err != nil {
		t.Fatal(err)
	}
	if name != "ns_E1EDK01.raml" {
		t.Errorf("KindName() = %q", name)
	}
}
