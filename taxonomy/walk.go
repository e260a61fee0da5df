// Package taxonomy derives the domain/subject/topic/subtopic hierarchy from
// the directory layout under a knowledge root.
package taxonomy

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Entry describes one regular file and its position in the taxonomy. Level
// fields beyond the file's actual directory depth stay empty.
type Entry struct {
	Domain   string
	Subject  string
	Topic    string
	Subtopic string
	Path     string
	Name     string
	Stem     string
	Ext      string
}

// Levels returns the populated level values in order.
func (e Entry) Levels() []string {
	all := []string{e.Domain, e.Subject, e.Topic, e.Subtopic}
	out := all[:0]
	for _, l := range all {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Walk lazily enumerates every regular file under root. Directories are
// descended into only while the current depth is below maxDepth; files found
// deeper keep only the first maxDepth level fields. Unreadable directories
// are skipped. The sequence can be ranged over more than once, re-reading
// the filesystem each time.
func Walk(root string, maxDepth int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		walkDir(root, nil, maxDepth, yield)
	}
}

func walkDir(dir string, parts []string, maxDepth int, yield func(Entry) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	for _, de := range entries {
		path := filepath.Join(dir, de.Name())
		if de.IsDir() {
			if len(parts) < maxDepth {
				if !walkDir(path, append(parts, de.Name()), maxDepth, yield) {
					return false
				}
			}
			continue
		}
		if !de.Type().IsRegular() {
			continue
		}
		if !yield(newEntry(path, de.Name(), parts)) {
			return false
		}
	}
	return true
}

// EntryFor derives the taxonomy entry for a single file under root without
// walking, e.g. for upload-triggered processing of one document.
func EntryFor(root, path string) (Entry, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Entry{}, err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	dirs := parts[:len(parts)-1]
	if len(dirs) > 4 {
		dirs = dirs[:4]
	}
	return newEntry(path, parts[len(parts)-1], dirs), nil
}

func newEntry(path, name string, parts []string) Entry {
	ext := filepath.Ext(name)
	e := Entry{
		Path: path,
		Name: name,
		Stem: strings.TrimSuffix(name, ext),
		Ext:  ext,
	}
	levels := []*string{&e.Domain, &e.Subject, &e.Topic, &e.Subtopic}
	for i, p := range parts {
		if i >= len(levels) {
			break
		}
		*levels[i] = p
	}
	return e
}
