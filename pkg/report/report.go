// Package report renders linter results as text, JSON or YAML, and
// summarises them per code.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/siyuan-infoblox/pyaz/pkg/alphabetize"
	"github.com/siyuan-infoblox/pyaz/pkg/errors"
	"github.com/siyuan-infoblox/pyaz/pkg/linter"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted values of --format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownFormat, s)
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownColor, s)
}

// Apply sets the process-wide color switch. Auto keeps whatever
// fatih/color detected for stdout.
func (m ColorMode) Apply() {
	switch m {
	case ColorAlways:
		color.NoColor = false //nolint:reassign // the library exposes no other switch
	case ColorNever:
		color.NoColor = true //nolint:reassign // the library exposes no other switch
	}
}

// Problem is one diagnostic located in a file. Line and Column are 1-based.
type Problem struct {
	Path    string `json:"path" yaml:"path"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// FileError records a file that could not be checked.
type FileError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

type Report struct {
	Files    int         `json:"files" yaml:"files"`
	Problems []Problem   `json:"problems" yaml:"problems"`
	Errors   []FileError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New flattens per-file results. Files keep their order; problems within
// a file are ordered by position.
func New(results []linter.FileResult) Report {
	r := Report{Files: len(results), Problems: []Problem{}}
	for _, res := range results {
		if res.Err != nil {
			r.Errors = append(r.Errors, FileError{Path: res.Path, Error: res.Err.Error()})
			continue
		}

		diags := slices.Clone(res.Diagnostics)
		slices.SortStableFunc(diags, func(a, b alphabetize.Diagnostic) int {
			if a.Pos.Line != b.Pos.Line {
				return a.Pos.Line - b.Pos.Line
			}
			return a.Pos.Column - b.Pos.Column
		})

		for _, d := range diags {
			r.Problems = append(r.Problems, Problem{
				Path:    res.Path,
				Line:    d.Pos.Line,
				Column:  d.Pos.Column + 1,
				Code:    string(d.Code),
				Message: d.Message,
			})
		}
	}
	return r
}

// HasProblems reports whether anything should fail the run.
func (r Report) HasProblems() bool {
	return len(r.Problems) > 0 || len(r.Errors) > 0
}

// Write renders the report in the given format. Text output carries only the
// problems; file errors are left to the caller.
func (r Report) Write(w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatText:
		err = r.writeText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(r)
		if err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteReport, err)
	}
	return nil
}

func (r Report) writeText(w io.Writer) error {
	codeColor := color.New(color.FgRed, color.Bold)
	for _, p := range r.Problems {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", p.Path, p.Line, p.Column, codeColor.Sprint(p.Code), p.Message); err != nil {
			return err
		}
	}
	return nil
}

var codeDescriptions = map[alphabetize.Code]string{
	alphabetize.CodeWrongOrder:    "import statements in the wrong order",
	alphabetize.CodeNamesOrder:    "imported names in the wrong order",
	alphabetize.CodeCombine:       "import statements should be combined",
	alphabetize.CodeExportListOrd: "__all__ names in the wrong order",
}

// Statistics counts problems per code. Codes that never occurred are absent.
func (r Report) Statistics() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Problems {
		counts[p.Code]++
	}
	return counts
}

// WriteStatistics renders the per-code counts as a table.
func (r Report) WriteStatistics(w io.Writer) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Code", "Count", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	counts := r.Statistics()
	for _, code := range alphabetize.Codes {
		n, ok := counts[string(code)]
		if !ok {
			continue
		}
		table.Append([]string{string(code), fmt.Sprintf("%d", n), codeDescriptions[code]})
	}

	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", len(r.Problems)),
		fmt.Sprintf("%d files", r.Files),
	})

	table.Render()

	if _, err := w.Write(tableBuffer.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteReport, err)
	}
	return nil
}
