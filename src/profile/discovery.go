package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

var ErrDirectoryNotFound = errors.New("directory not found")

// Candidate is a discovered file queued for checking.
type Candidate struct {
	Path    string
	Archive bool // .ipa bundle carrying an embedded profile
}

// Discover lists the files in dir whose names end with ext. When archives is
// set, .ipa bundles are returned as well. Subdirectories are not descended.
func Discover(dir, ext string, archives, sorted bool) ([]Candidate, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	profilePattern := "*" + ext
	archivePattern := "*" + ArchiveExtension

	var found []Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ok, err := doublestar.Match(profilePattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid extension %q: %w", ext, err)
		}
		if ok {
			found = append(found, Candidate{Path: filepath.Join(dir, name)})
			continue
		}
		if archives {
			if ok, _ := doublestar.Match(archivePattern, name); ok {
				found = append(found, Candidate{Path: filepath.Join(dir, name), Archive: true})
			}
		}
	}

	if sorted {
		sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	}
	return found, nil
}
