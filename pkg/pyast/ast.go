// Package pyast is a read-only model of the top level of a Python module,
// holding just enough of each statement for import-order analysis.
package pyast

// FutureModule is the module name of the reserved future-semantics import.
const FutureModule = "__future__"

// Position is a source position: 1-based line, 0-based byte column.
type Position struct {
	Line   int
	Column int
}

// Pos returns the position itself so Position can be embedded in nodes.
func (p Position) Pos() Position {
	return p
}

// Module is a parsed source file. Body holds the top-level statements in
// source order; comments are not statements.
type Module struct {
	Body []Stmt
}

// Stmt is a top-level statement.
type Stmt interface {
	Pos() Position
	stmtNode()
}

// Alias is one imported name with its optional "as" name.
type Alias struct {
	Name   string
	AsName string
}

// Import is "import a.b, c as d".
type Import struct {
	Position
	Names []Alias
}

// ImportFrom is "from .a import b, c as d". Level counts the leading dots;
// Module excludes them and is empty for "from . import x".
type ImportFrom struct {
	Position
	Module string
	Level  int
	Names  []Alias
}

// Assign covers plain, chained and annotated assignments. Value is nil for
// a bare annotation.
type Assign struct {
	Position
	Targets []Expr
	Value   Expr
}

// Other is any statement the analysis does not look into.
type Other struct {
	Position
	Type string
}

func (*Import) stmtNode()     {}
func (*ImportFrom) stmtNode() {}
func (*Assign) stmtNode()     {}
func (*Other) stmtNode()      {}

// IsFuture reports whether the statement is a future import.
func (s *ImportFrom) IsFuture() bool {
	return s.Level == 0 && s.Module == FutureModule
}

// Expr is an expression node.
type Expr interface {
	Pos() Position
	exprNode()
}

// Name is an identifier reference.
type Name struct {
	Position
	ID string
}

// Str is a string literal whose value is fully known at parse time.
type Str struct {
	Position
	Value string
}

// List is a list display.
type List struct {
	Position
	Elts []Expr
}

// Tuple is a tuple display, parenthesized or not.
type Tuple struct {
	Position
	Elts []Expr
}

// Unknown is any other expression, including f-strings and bytes literals.
type Unknown struct {
	Position
	Type string
}

func (*Name) exprNode()    {}
func (*Str) exprNode()     {}
func (*List) exprNode()    {}
func (*Tuple) exprNode()   {}
func (*Unknown) exprNode() {}

// Elements returns the elements of a list or tuple display and whether expr
// is one.
func Elements(expr Expr) ([]Expr, bool) {
	switch e := expr.(type) {
	case *List:
		return e.Elts, true
	case *Tuple:
		return e.Elts, true
	default:
		return nil, false
	}
}
