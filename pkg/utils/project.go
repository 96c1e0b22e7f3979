package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	pyprojectFile = "pyproject.toml"

	appNamesKey    = "tool.pyaz.app-names"
	projectNameKey = "project.name"
	poetryNameKey  = "tool.poetry.name"

	maxParentDirs = 20 // Prevent walking up forever on odd paths
)

// GetProjectAppNames finds the first-party package names for a Python file
// from the nearest pyproject.toml above it. An explicit
// [tool.pyaz] app-names list wins; otherwise the project name is used,
// normalized to an importable module name.
func GetProjectAppNames(filePath string) []string {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil
	}

	dir := absPath
	if isDir, err := IsDirectory(absPath); err != nil || !isDir {
		dir = filepath.Dir(absPath)
	}

	for range maxParentDirs {
		if names, ok := readPyproject(filepath.Join(dir, pyprojectFile)); ok {
			return names
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil
}

func readPyproject(path string) ([]string, bool) {
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, false
	}

	if names := v.GetStringSlice(appNamesKey); len(names) > 0 {
		return names, true
	}

	for _, key := range []string{projectNameKey, poetryNameKey} {
		if name := v.GetString(key); name != "" {
			return []string{ModuleName(name)}, true
		}
	}

	return nil, true
}

// ModuleName turns a distribution name such as "Flake8-Alphabetize" into the
// module name it is normally imported as, "flake8_alphabetize".
func ModuleName(distribution string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(strings.TrimSpace(distribution)))
}
