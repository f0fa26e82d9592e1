package indexer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidatePatterns checks the syntax of include and exclude globs.
func ValidatePatterns(include, exclude []string) error {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// DiscoverFiles walks rootDir applying include/exclude globs from opts.
// Returns a sorted slice of absolute file paths for deterministic output.
func DiscoverFiles(rootDir string, opts ScanOptions) ([]string, error) {
	if err := ValidatePatterns(opts.Include, opts.Exclude); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil // Continue walking on errors.
		}

		relPath := relativePath(absRoot, path)
		if relPath != "." && excluded(opts.Exclude, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !included(opts.Include, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// relativePath returns path relative to root with forward slashes, for
// pattern matching.
func relativePath(root, path string) string {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

func excluded(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
	}
	return false
}

func included(patterns []string, relPath string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if m, _ := doublestar.PathMatch(pattern, relPath); m {
			return true
		}
	}
	return false
}
