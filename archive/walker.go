// Package archive walks IDoc documents stored in zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Entry is a single regular file inside archive. Name is the path inside
// archive, decoded from legacy code page when one was requested.
type Entry struct {
	Name string
	File *zip.File
}

// WalkFunc is called for every entry visited by Walk. If an error is
// returned, processing stops and Walk returns that error.
type WalkFunc func(archive string, entry Entry) error

// Walk visits regular files of the archive whose (decoded) names start with
// prefix, in natural name order. When cp is not nil names not flagged as
// UTF-8 are converted from it. Absolute names and names with ".." components
// make Walk fail before anything is visited.
func Walk(archive, prefix string, cp encoding.Encoding, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	entries := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name := decodeName(f, cp)
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, dup := entries[name]; dup {
			// first one wins
			continue
		}
		entries[name] = f
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := walkFn(archive, Entry{Name: name, File: entries[name]}); err != nil {
			return err
		}
	}
	return nil
}

func decodeName(f *zip.File, cp encoding.Encoding) string {
	if cp == nil || !f.NonUTF8 {
		return f.Name
	}
	if n, err := cp.NewDecoder().String(f.Name); err == nil {
		return n
	}
	return f.Name
}

// isSafePath returns false for absolute paths and those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
