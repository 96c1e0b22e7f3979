// Package alphabetize checks that the top-level imports of a Python module
// are ordered, grouped and combined, and that its __all__ literal is sorted.
//
// The package is pure: it works on an already parsed pyast.Module, keeps no
// state between calls and never fails. Inputs it cannot analyze are skipped.
package alphabetize

import (
	"slices"

	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

// Check runs every rule over one module and returns the diagnostics in
// source order of the import statements, followed by the __all__ finding.
func Check(cfg Config, mod *pyast.Module) []Diagnostic {
	records, exportList := Extract(mod)

	diags := CheckRecords(cfg, records)
	if exportList != nil {
		if d, ok := CheckExportList(*exportList); ok {
			diags = append(diags, d)
		}
	}

	return diags
}

// CheckRecords applies the name-order rule to each record and the order and
// combine rules to each adjacent pair. The modules of a plain import count
// as its names. The combine rule is only considered for pairs that are in
// order.
func CheckRecords(cfg Config, records []ImportRecord) []Diagnostic {
	var diags []Diagnostic

	for i, cur := range records {
		if !cur.NamesSorted() {
			diags = append(diags, namesOrder(cur))
		}

		if i == 0 {
			continue
		}

		prev := records[i-1]
		switch {
		case Less(cfg, cur, prev):
			diags = append(diags, wrongOrder(prev, cur))
		case prev.SameOrigin(cur):
			diags = append(diags, combine(prev, cur))
		}
	}

	return diags
}

// CheckExportList reports whether the __all__ names are out of order and,
// if so, the diagnostic for it.
func CheckExportList(l ExportList) (Diagnostic, bool) {
	if slices.IsSorted(l.Names) {
		return Diagnostic{}, false
	}

	sorted := slices.Clone(l.Names)
	slices.Sort(sorted)

	return exportListOrder(l, sorted), true
}
