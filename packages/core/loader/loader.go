package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches files such as "math.spec.txt" or "api.spec.js".
const DefaultPattern = "*.spec.*"

var (
	// ErrSpecificationNotFound means the target is neither a file nor a
	// readable directory.
	ErrSpecificationNotFound = errors.New("specification not found")

	ErrBadPattern = doublestar.ErrBadPattern
)

// Blob is the raw content of one discovered specification file.
type Blob struct {
	Path    string
	Content string
}

// Matches reports whether the base name of path satisfies pattern.
func Matches(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// Discover returns the specification files under root in discovery order.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSpecificationNotFound, root, err)
	}

	if info.Mode().IsRegular() {
		return []string{root}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a file or directory", ErrSpecificationNotFound, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Matches(pattern, path) {
			return nil
		}
		ok, err := isRegularFile(path, d)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecificationNotFound, err)
	}

	return files, nil
}

// isRegularFile follows a symlink to its target. Symlinked directories are
// reported as non-files so the walk never descends into them.
func isRegularFile(path string, d fs.DirEntry) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("cannot resolve symlink %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// Load reads every path in order.
func Load(paths []string) ([]Blob, error) {
	blobs := make([]Blob, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		blobs = append(blobs, Blob{Path: path, Content: string(content)})
	}
	return blobs, nil
}
