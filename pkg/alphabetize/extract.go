package alphabetize

import (
	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

// ExportListName is the module variable that declares the public names.
const ExportListName = "__all__"

// ExportList is an analyzable __all__ literal.
type ExportList struct {
	Names []string
	Pos   pyast.Position
}

// FindNodes returns the top-level import statements in source order and the
// list or tuple literal of the first top-level __all__ assignment that has
// one. Nothing below the top level is looked at.
func FindNodes(mod *pyast.Module) ([]pyast.Stmt, pyast.Expr) {
	var (
		imports    []pyast.Stmt
		exportList pyast.Expr
	)

	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *pyast.Import, *pyast.ImportFrom:
			imports = append(imports, stmt)
		case *pyast.Assign:
			if exportList != nil || !assignsExportList(s) {
				continue
			}
			if _, ok := pyast.Elements(s.Value); ok {
				exportList = s.Value
			}
		}
	}

	return imports, exportList
}

func assignsExportList(s *pyast.Assign) bool {
	for _, target := range s.Targets {
		if name, ok := target.(*pyast.Name); ok && name.ID == ExportListName {
			return true
		}
	}
	return false
}

// Extract projects a module into its import records and its export list.
// The export list is nil when there is no __all__ literal or when any of its
// elements is not a literal string.
func Extract(mod *pyast.Module) ([]ImportRecord, *ExportList) {
	stmts, exportExpr := FindNodes(mod)

	var records []ImportRecord
	for _, stmt := range stmts {
		if r, ok := NewImportRecord(stmt); ok {
			records = append(records, r)
		}
	}

	return records, newExportList(exportExpr)
}

func newExportList(expr pyast.Expr) *ExportList {
	elts, ok := pyast.Elements(expr)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(elts))
	for _, elt := range elts {
		str, ok := elt.(*pyast.Str)
		if !ok {
			return nil
		}
		names = append(names, str.Value)
	}

	return &ExportList{Names: names, Pos: expr.Pos()}
}
