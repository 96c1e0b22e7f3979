package alphabetize

import (
	"slices"
	"strings"

	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

// Kind tells a plain import from a from-import.
type Kind int

const (
	KindPlain Kind = iota // import x
	KindFrom              // from x import y
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "import"
	case KindFrom:
		return "from"
	default:
		return "unknown"
	}
}

// ImportedName is one name of a from-import, or one module of a plain
// import, with its optional alias.
type ImportedName struct {
	Name  string
	Alias string
}

func (n ImportedName) String() string {
	if n.Alias == "" {
		return n.Name
	}
	return n.Name + " as " + n.Alias
}

// ImportRecord is one top-level import statement.
type ImportRecord struct {
	Kind    Kind
	Module  string         // first module of a plain import; the record is ordered by it
	Alias   string         // "as" name of that module
	Modules []ImportedName // every module of a plain import, as written
	Origin  string         // origin of a from-import, without leading dots
	Level   int            // leading dots of a relative from-import
	Names   []ImportedName // names of a from-import, as written
	Future  bool           // from __future__ import ...
	Pos     pyast.Position
}

// NewImportRecord projects an import statement into a record. It reports
// false for any other statement.
func NewImportRecord(stmt pyast.Stmt) (ImportRecord, bool) {
	switch s := stmt.(type) {
	case *pyast.Import:
		modules := importedNames(s.Names)
		if len(modules) == 0 {
			return ImportRecord{}, false
		}
		return ImportRecord{
			Kind:    KindPlain,
			Module:  modules[0].Name,
			Alias:   modules[0].Alias,
			Modules: modules,
			Pos:     s.Pos(),
		}, true

	case *pyast.ImportFrom:
		return ImportRecord{
			Kind:   KindFrom,
			Origin: s.Module,
			Level:  s.Level,
			Names:  importedNames(s.Names),
			Future: s.IsFuture(),
			Pos:    s.Pos(),
		}, true
	}

	return ImportRecord{}, false
}

func importedNames(aliases []pyast.Alias) []ImportedName {
	names := make([]ImportedName, 0, len(aliases))
	for _, alias := range aliases {
		names = append(names, ImportedName{Name: alias.Name, Alias: alias.AsName})
	}
	return names
}

// Path returns the dotted module path the record is ordered by: the module
// of a plain import, or the origin of a from-import including its dots.
func (r ImportRecord) Path() string {
	switch r.Kind {
	case KindFrom:
		return strings.Repeat(".", r.Level) + r.Origin
	default:
		return r.Module
	}
}

// String renders the record in canonical form, keeping the written name
// order.
func (r ImportRecord) String() string {
	var sb strings.Builder

	if r.Kind == KindFrom {
		sb.WriteString("from ")
		sb.WriteString(r.Path())
		sb.WriteByte(' ')
	}

	sb.WriteString("import ")
	for i, name := range r.written() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name.String())
	}

	return sb.String()
}

// SameOrigin reports whether both records are from-imports of the same
// module at the same relative level.
func (r ImportRecord) SameOrigin(other ImportRecord) bool {
	return r.Kind == KindFrom && other.Kind == KindFrom &&
		r.Level == other.Level && r.Origin == other.Origin
}

// written returns the names of a from-import, or the modules of a plain
// import, in source order.
func (r ImportRecord) written() []ImportedName {
	if r.Kind == KindFrom {
		return r.Names
	}
	if len(r.Modules) == 0 {
		return []ImportedName{{Name: r.Module, Alias: r.Alias}}
	}
	return r.Modules
}

// SortedNames returns a copy of the imported names, or of the modules of a
// plain import, ordered by name. Aliases do not take part in the order.
func (r ImportRecord) SortedNames() []ImportedName {
	sorted := slices.Clone(r.written())
	slices.SortStableFunc(sorted, compareNames)
	return sorted
}

// NamesSorted reports whether the imported names are already in order.
func (r ImportRecord) NamesSorted() bool {
	return slices.IsSortedFunc(r.written(), compareNames)
}

func compareNames(a, b ImportedName) int {
	return strings.Compare(a.Name, b.Name)
}
