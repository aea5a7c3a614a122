// Package zonefile handles the local <zone-name>_<zone-uuid>.txt files
// written by pull and read by push.
package zonefile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// DefaultDir is the zones directory, relative to the working directory
const DefaultDir = "zones"

// Extension is the zone file suffix
const Extension = ".txt"

// The name component runs up to the last underscore.
var namePattern = regexp.MustCompile(`^(.*)_(.*)\.txt$`)

// File is a zone file found on disk
type File struct {
	Path string
	Name string
	UUID string
}

// FileName returns the file name for a zone
func FileName(name, uuid string) string {
	return name + "_" + uuid + Extension
}

// ParseFileName splits a base file name into zone name and uuid
func ParseFileName(base string) (name, uuid string, ok bool) {
	m := namePattern.FindStringSubmatch(base)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// List returns the zone files in dir sorted by file name.
// Entries that are directories or do not follow the naming convention are skipped.
// A missing directory yields an empty list.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("failed to read zones directory %s: %w", dir, err)
	}

	files := []File{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, uuid, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		files = append(files, File{
			Path: filepath.Join(dir, entry.Name()),
			Name: name,
			UUID: uuid,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Write stores zone records in dir, replacing any existing file
func Write(dir, name, uuid string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create zones directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(name, uuid))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write zone file %s: %w", path, err)
	}
	return path, nil
}

// Read returns the raw content of a zone file
func Read(f File) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone file %s: %w", f.Path, err)
	}
	return data, nil
}
