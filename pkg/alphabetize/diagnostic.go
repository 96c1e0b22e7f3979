package alphabetize

import (
	"fmt"
	"strings"

	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

// CheckerName identifies this checker on every diagnostic it emits.
const CheckerName = "alphabetize"

// Code is a diagnostic code.
type Code string

const (
	CodeWrongOrder    Code = "AZ100" // import statements out of order
	CodeNamesOrder    Code = "AZ200" // names within a from-import out of order
	CodeCombine       Code = "AZ300" // adjacent same-origin from-imports
	CodeExportListOrd Code = "AZ400" // __all__ names out of order
)

// Codes lists every code in numeric order.
var Codes = []Code{CodeWrongOrder, CodeNamesOrder, CodeCombine, CodeExportListOrd}

// Message templates, one per code.
const (
	msgWrongOrder = "Import statements are in the wrong order. '%s' should be before '%s'"
	msgNamesOrder = "Imported names are in the wrong order. Should be %s"
	msgCombine    = "Import statements should be combined. '%s' should be combined with '%s'"
	msgExportList = "The names in the __all__ are in the wrong order. The order should be %s"
)

// Diagnostic is one finding. Diagnostics are values and never change after
// they are emitted.
type Diagnostic struct {
	Pos     pyast.Position
	Code    Code
	Message string
	Checker string
}

// Text returns the code followed by the message, as flake8 expects it.
func (d Diagnostic) Text() string {
	return string(d.Code) + " " + d.Message
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Pos.Line, d.Pos.Column, d.Text())
}

func newDiagnostic(pos pyast.Position, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Pos:     pos,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Checker: CheckerName,
	}
}

func wrongOrder(prev, cur ImportRecord) Diagnostic {
	return newDiagnostic(cur.Pos, CodeWrongOrder, msgWrongOrder, cur, prev)
}

func namesOrder(r ImportRecord) Diagnostic {
	sorted := r.SortedNames()
	names := make([]string, len(sorted))
	for i, n := range sorted {
		names[i] = n.Name
	}
	return newDiagnostic(r.Pos, CodeNamesOrder, msgNamesOrder, strings.Join(names, ", "))
}

func combine(prev, cur ImportRecord) Diagnostic {
	return newDiagnostic(cur.Pos, CodeCombine, msgCombine, prev, cur)
}

func exportListOrder(l ExportList, sorted []string) Diagnostic {
	return newDiagnostic(l.Pos, CodeExportListOrd, msgExportList, strings.Join(sorted, ", "))
}
