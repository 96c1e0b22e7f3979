package linter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/pyaz/pkg/alphabetize"
	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func codes(diags []alphabetize.Diagnostic) []alphabetize.Code {
	var out []alphabetize.Code
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestLinter_CheckSource(t *testing.T) {
	req := require.New(t)
	l := New(LinterConfig{AppNames: []string{"pg8000"}})

	diags, err := l.CheckSource(context.Background(), "x.py", []byte("import scramp\nfrom pg8000 import ARRAY\n"))
	req.NoError(err)
	req.Empty(diags)

	diags, err = l.CheckSource(context.Background(), "x.py", []byte("from pg8000 import ARRAY\nimport scramp\n"))
	req.NoError(err)
	req.Equal([]alphabetize.Diagnostic{{
		Pos:     pyast.Position{Line: 2, Column: 0},
		Code:    alphabetize.CodeWrongOrder,
		Message: "Import statements are in the wrong order. 'import scramp' should be before 'from pg8000 import ARRAY'",
		Checker: alphabetize.CheckerName,
	}}, diags)

	_, err = l.CheckSource(context.Background(), "x.py", []byte("import os\n)))\n"))
	req.ErrorIs(err, pyast.ErrSyntax)
}

func TestLinter_ProcessFile(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"good.py": "import decimal\nimport os\n",
		"bad.py":  "from datetime import timedelta, date\n",
	})
	l := New(LinterConfig{})

	t.Run("clean file", func(t *testing.T) {
		req := require.New(t)
		result := l.ProcessFile(context.Background(), filepath.Join(tempDir, "good.py"))
		req.NoError(result.Err)
		req.Empty(result.Diagnostics)
	})

	t.Run("file with problems", func(t *testing.T) {
		req := require.New(t)
		result := l.ProcessFile(context.Background(), filepath.Join(tempDir, "bad.py"))
		req.NoError(result.Err)
		req.Equal([]alphabetize.Code{alphabetize.CodeNamesOrder}, codes(result.Diagnostics))
	})

	t.Run("non-existent file", func(t *testing.T) {
		req := require.New(t)
		result := l.ProcessFile(context.Background(), "/non/existent/file.py")
		req.Error(result.Err)
		req.ErrorIs(result.Err, os.ErrNotExist)
	})
}

func TestLinter_ProcessPaths(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"pyproject.toml":          "[project]\nname = \"scramp\"\n",
		"scramp/__init__.py":      "from scramp.core import ScramClient\nimport os\n__all__ = ['ScramServer', 'ScramClient']\n",
		"scramp/core.py":          "import hmac\nfrom scramp.utils import b64enc\nfrom .utils import h\n",
		"scramp/utils.py":         "import base64\nimport hashlib\n",
		"scramp/broken.py":        "import os\n)))\n",
		"scramp/gen/model_pb2.py": "import zlib\nimport abc\n",
		"README.md":               "# scramp\n",
	})

	excludes := []*regexp.Regexp{regexp.MustCompile(`_pb2\.py$`)}
	l := New(LinterConfig{Parallel: 2, Excludes: excludes})

	utilsPath := filepath.Join(tempDir, "scramp", "utils.py")
	results, err := l.ProcessPaths(context.Background(), []string{tempDir, utilsPath})
	req.NoError(err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	req.Equal([]string{
		filepath.Join(tempDir, "scramp", "__init__.py"),
		filepath.Join(tempDir, "scramp", "broken.py"),
		filepath.Join(tempDir, "scramp", "core.py"),
		utilsPath,
	}, paths, "results must follow discovery order, without duplicates or excluded files")

	// scramp is first-party by pyproject.toml, so os must come first
	req.NoError(results[0].Err)
	req.Equal([]alphabetize.Code{alphabetize.CodeWrongOrder, alphabetize.CodeExportListOrd}, codes(results[0].Diagnostics))

	req.ErrorIs(results[1].Err, pyast.ErrSyntax)

	req.NoError(results[2].Err)
	req.Empty(results[2].Diagnostics)

	req.NoError(results[3].Err)
	req.Empty(results[3].Diagnostics)
}

func TestLinter_ProcessPaths_missing(t *testing.T) {
	req := require.New(t)
	l := New(LinterConfig{})
	_, err := l.ProcessPaths(context.Background(), []string{"/non/existent/path"})
	req.Error(err)
}

func TestLinter_ProcessFiles_orderUnderParallelism(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()

	var filePaths []string
	for i := range 40 {
		name := fmt.Sprintf("m%02d.py", i)
		content := "import os\n"
		if i%3 == 0 {
			content = "import sys\nimport os\n"
		}
		writeFiles(t, tempDir, map[string]string{name: content})
		filePaths = append(filePaths, filepath.Join(tempDir, name))
	}

	for _, parallel := range []int{1, 4, 16} {
		l := New(LinterConfig{AppNames: []string{"app"}, Parallel: parallel})
		results, err := l.ProcessFiles(context.Background(), filePaths)
		req.NoError(err)
		req.Len(results, len(filePaths))
		for i, r := range results {
			req.Equal(filePaths[i], r.Path)
			req.NoError(r.Err)
			if i%3 == 0 {
				req.Len(r.Diagnostics, 1, "parallel=%d file=%s", parallel, r.Path)
			} else {
				req.Empty(r.Diagnostics, "parallel=%d file=%s", parallel, r.Path)
			}
		}
	}
}

func TestLinter_ProcessFiles_cancelled(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{"a.py": "import os\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(LinterConfig{Parallel: 1})
	_, err := l.ProcessFiles(ctx, []string{filepath.Join(tempDir, "a.py")})
	req.ErrorIs(err, context.Canceled)
}

func TestNew_defaultParallel(t *testing.T) {
	req := require.New(t)
	req.Positive(New(LinterConfig{}).getParallel())
	req.Equal(3, New(LinterConfig{Parallel: 3}).getParallel())
}
