package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

type zipItem struct {
	name    string
	content string
	dir     bool
	nonUTF8 bool
}

func makeZip(t *testing.T, items []zipItem) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, it := range items {
		hdr := &zip.FileHeader{Name: it.name, Method: zip.Deflate, NonUTF8: it.nonUTF8}
		if it.dir {
			hdr.SetMode(os.ModeDir | 0755)
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", it.name, err)
		}
		if !it.dir {
			if _, err := fw.Write([]byte(it.content)); err != nil {
				t.Fatalf("Failed to write %s: %v", it.name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath, prefix string) []string {
	t.Helper()
	var visited []string
	err := Walk(zipPath, prefix, nil, func(archive string, entry Entry) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, entry.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk_PrefixAndOrder(t *testing.T) {
	zipPath := makeZip(t, []zipItem{
		{name: "orders/", dir: true},
		{name: "orders/po10.xml", content: "<IDOC/>"},
		{name: "orders/po2.xml", content: "<IDOC/>"},
		{name: "orders/po1.xml", content: "<IDOC/>"},
		{name: "invoices/inv1.xml", content: "<IDOC/>"},
		{name: "readme.txt", content: "text"},
	})

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "orders/", want: []string{"orders/po1.xml", "orders/po2.xml", "orders/po10.xml"}},
		{prefix: "invoices/", want: []string{"invoices/inv1.xml"}},
		{prefix: "Orders/", want: nil},
		{prefix: "", want: []string{"invoices/inv1.xml", "orders/po1.xml", "orders/po2.xml", "orders/po10.xml", "readme.txt"}},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			if got := collect(t, zipPath, tt.prefix); !slices.Equal(got, tt.want) {
				t.Errorf("visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_EntryContent(t *testing.T) {
	zipPath := makeZip(t, []zipItem{{name: "doc.xml", content: "<IDOC><SEG/></IDOC>"}})

	err := Walk(zipPath, "", nil, func(_ string, entry Entry) error {
		rc, err := entry.File.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if string(data) != "<IDOC><SEG/></IDOC>" {
			t.Errorf("content = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t, []zipItem{
		{name: "a.xml"}, {name: "b.xml"}, {name: "c.xml"},
	})

	stopErr := errors.New("stop walking")
	visited := 0
	err := Walk(zipPath, "", nil, func(string, Entry) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2", visited)
	}
}

func TestWalk_CodePage(t *testing.T) {
	// "счет.xml" in cp866
	raw, err := charmap.CodePage866.NewEncoder().String("счет.xml")
	if err != nil {
		t.Fatal(err)
	}
	zipPath := makeZip(t, []zipItem{{name: raw, content: "<IDOC/>", nonUTF8: true}})

	var names []string
	err = Walk(zipPath, "", charmap.CodePage866, func(_ string, entry Entry) error {
		names = append(names, entry.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(names) != 1 || names[0] != "счет.xml" {
		t.Errorf("decoded names = %q, want [счет.xml]", names)
	}

	if got := collect(t, zipPath, ""); len(got) != 1 || got[0] != raw {
		t.Errorf("without code page names must stay raw, got %q", got)
	}
}

func TestWalk_Errors(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", "", nil, func(string, Entry) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalid := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalid, []byte("not a zip file"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Walk(invalid, "", nil, func(string, Entry) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := makeZip(t, []zipItem{{name: "ok.xml"}, {name: "../evil.xml"}})
		called := false
		err := Walk(zipPath, "", nil, func(string, Entry) error {
			called = true
			return nil
		})
		if err == nil {
			t.Error("Expected error for unsafe entry")
		}
		if called {
			t.Error("nothing should be visited when archive has unsafe entries")
		}
	})
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a/b.xml", true},
		{"a..b/c.xml", true},
		{"/etc/passwd", false},
		{`\windows\x`, false},
		{"a/../../b", false},
		{`a\..\b`, false},
		{"..", false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
