// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/modgraph/modgraph/pkg/modinfo"
)

// DefaultPatterns locates modules in a Terasology-style workspace.
var DefaultPatterns = []string{"modules/*"}

// ErrInvalidPattern is returned for a malformed discovery glob.
var ErrInvalidPattern = errors.New("invalid module pattern")

// Discover returns the directories under root that match one of patterns and
// contain metadataFile. Patterns are slash-separated doublestar globs relative
// to root ("modules/*", "libs/**"). The result is sorted and free of duplicates.
func Discover(root string, patterns []string, metadataFile string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if metadataFile == "" {
		metadataFile = modinfo.DefaultFileName
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%q: %w", pattern, ErrInvalidPattern)
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("discover modules with %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := fs.Stat(fsys, path.Join(match, metadataFile))
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			dirs = append(dirs, filepath.Join(root, filepath.FromSlash(match)))
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}
