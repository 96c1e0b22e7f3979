package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/siyuan-infoblox/pyaz/pkg/errors"
)

// skippedDirs are directory names never descended into, besides hidden ones
var skippedDirs = map[string]bool{
	"__pycache__":   true,
	"build":         true,
	"dist":          true,
	"node_modules":  true,
	"site-packages": true,
	"venv":          true,
}

// IsPythonFile checks if a file is a Python source or stub file
func IsPythonFile(filename string) bool {
	return strings.HasSuffix(filename, ".py") || strings.HasSuffix(filename, ".pyi")
}

// FindPythonFiles recursively finds all Python source files in a directory,
// in lexical order
func FindPythonFiles(root string) ([]string, error) {
	var pyFiles []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip virtualenvs, caches and hidden directories (but not the root directory)
		if info.IsDir() && path != root {
			name := filepath.Base(path)
			if skippedDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && IsPythonFile(filepath.Base(path)) {
			pyFiles = append(pyFiles, path)
		}

		return nil
	})

	return pyFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// CompileExcludes compiles exclude patterns into regular expressions
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", errors.ErrMsgInvalidExclude, pattern, err)
		}
		excludes = append(excludes, re)
	}
	return excludes, nil
}

// FilterExcluded drops paths matching any of the exclude expressions
func FilterExcluded(paths []string, excludes []*regexp.Regexp) []string {
	if len(excludes) == 0 {
		return paths
	}

	kept := paths[:0:0]
	for _, path := range paths {
		excluded := false
		for _, re := range excludes {
			if re.MatchString(filepath.ToSlash(path)) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, path)
		}
	}
	return kept
}
