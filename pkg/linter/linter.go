package linter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/pyaz/pkg/alphabetize"
	"github.com/siyuan-infoblox/pyaz/pkg/errors"
	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
	"github.com/siyuan-infoblox/pyaz/pkg/utils"
)

type LinterConfig struct {
	AppNames []string         // first-party package names; inferred from pyproject.toml when empty
	Parallel int              // number of files checked at once, defaults to the CPU count
	Excludes []*regexp.Regexp // discovered files matching any of these are skipped
}

// FileResult is the outcome of checking one file
type FileResult struct {
	Path        string
	Diagnostics []alphabetize.Diagnostic
	Err         error
}

// linter runs the alphabetize checks over Python files
type linter struct {
	config   LinterConfig
	parsers  sync.Pool
	appNames *lru.Cache[string, []string] // directory -> inferred first-party names
}

// appNamesCacheSize bounds the per-directory cache of inferred names
const appNamesCacheSize = 1024

// New creates a new linter with the given configuration
func New(config LinterConfig) *linter {
	if config.Parallel <= 0 {
		config.Parallel = runtime.NumCPU()
	}
	// lru.New only fails for a non-positive size
	appNames, _ := lru.New[string, []string](appNamesCacheSize)
	return &linter{
		config: config,
		parsers: sync.Pool{
			New: func() any { return pyast.NewParser() },
		},
		appNames: appNames,
	}
}

func (l *linter) getParallel() int {
	return l.config.Parallel
}

// getAppNames returns the configured first-party names, or the ones
// declared by the project the file belongs to
func (l *linter) getAppNames(filePath string) []string {
	if len(l.config.AppNames) > 0 {
		return l.config.AppNames
	}

	dir := filepath.Dir(filePath)
	if cached, ok := l.appNames.Get(dir); ok {
		return cached
	}

	names := utils.GetProjectAppNames(filePath)
	l.appNames.Add(dir, names)
	slog.Debug("inferred first-party names", "dir", dir, "app_names", names)
	return names
}

// CheckSource parses and checks one Python source
func (l *linter) CheckSource(ctx context.Context, filePath string, src []byte) ([]alphabetize.Diagnostic, error) {
	parser := l.parsers.Get().(*pyast.Parser)
	defer l.parsers.Put(parser)

	mod, err := parser.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToParseFile, err)
	}

	cfg := alphabetize.Config{AppNames: l.getAppNames(filePath)}
	return alphabetize.Check(cfg, mod), nil
}

// ProcessFile checks a single Python file
func (l *linter) ProcessFile(ctx context.Context, filePath string) FileResult {
	result := FileResult{Path: filePath}

	src, err := os.ReadFile(filePath)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
		return result
	}

	result.Diagnostics, result.Err = l.CheckSource(ctx, filePath, src)
	if result.Err != nil {
		slog.Warn("skipping file", "path", filePath, "error", result.Err)
		return result
	}

	slog.Debug("checked file", "path", filePath, "diagnostics", len(result.Diagnostics))
	return result
}

// ProcessFiles checks files in parallel. Results come back in the order of
// filePaths whatever the scheduling; a file that fails does not stop the
// others.
func (l *linter) ProcessFiles(ctx context.Context, filePaths []string) ([]FileResult, error) {
	results := make([]FileResult, len(filePaths))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(l.getParallel())

	for i, filePath := range filePaths {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.ProcessFile(gctx, filePath)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// ProcessPaths expands files and directories into Python files and checks them
func (l *linter) ProcessPaths(ctx context.Context, paths []string) ([]FileResult, error) {
	filePaths, err := l.collectFiles(paths)
	if err != nil {
		return nil, err
	}
	return l.ProcessFiles(ctx, filePaths)
}

// collectFiles resolves paths to Python files, dropping duplicates and
// excluded files while keeping the command-line order
func (l *linter) collectFiles(paths []string) ([]string, error) {
	var filePaths []string
	seen := make(map[string]bool) // Track which files we've seen

	for _, path := range paths {
		isDir, err := utils.IsDirectory(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
		}

		found := []string{path}
		if isDir {
			found, err = utils.FindPythonFiles(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindPythonFiles, err)
			}
			if len(found) == 0 {
				slog.Info(fmt.Sprintf(errors.InfoMsgNoPythonFilesFound, path))
			} else {
				slog.Debug(fmt.Sprintf(errors.InfoMsgFoundPythonFiles, len(found), path))
			}
		}

		for _, filePath := range utils.FilterExcluded(found, l.config.Excludes) {
			if seen[filePath] {
				continue
			}
			seen[filePath] = true
			filePaths = append(filePaths, filePath)
		}
	}

	return filePaths, nil
}
