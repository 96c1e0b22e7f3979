package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel parse errors.
var (
	ErrNoRootNode = errors.New("parser returned no root node")
	ErrSyntax     = errors.New("syntax error")
)

// Tree-sitter node types of the Python grammar that the builder looks at.
const (
	nodeAliasedImport       = "aliased_import"
	nodeAssignment          = "assignment"
	nodeComment             = "comment"
	nodeConcatenatedString  = "concatenated_string"
	nodeDottedName          = "dotted_name"
	nodeError               = "ERROR"
	nodeExpressionList      = "expression_list"
	nodeExpressionStatement = "expression_statement"
	nodeFutureImport        = "future_import_statement"
	nodeIdentifier          = "identifier"
	nodeImport              = "import_statement"
	nodeImportFrom          = "import_from_statement"
	nodeLineContinuation    = "line_continuation"
	nodeList                = "list"
	nodeParenthesizedExpr   = "parenthesized_expression"
	nodeRelativeImport      = "relative_import"
	nodeString              = "string"
	nodeTuple               = "tuple"
	nodeWildcardImport      = "wildcard_import"
	fieldAlias              = "alias"
	fieldLeft               = "left"
	fieldName               = "name"
	fieldRight              = "right"
	wildcardName            = "*"
)

var language = sitter.NewLanguage(python.GetLanguage())

// Parser turns Python source into a Module. A Parser holds a tree-sitter
// parser and must not be used from more than one goroutine at a time.
type Parser struct {
	ts *sitter.Parser
}

// NewParser creates a Parser for Python 3 source.
func NewParser() *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(language)

	return &Parser{ts: ts}
}

// Parse parses src and returns its top-level statements. Statements below
// the top level are never descended into.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Module, error) {
	tree, err := p.ts.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	if root.Type() == nodeError {
		return nil, fmt.Errorf("%w: unrecoverable input", ErrSyntax)
	}

	b := builder{src: src}
	mod := &Module{}

	for _, child := range b.namedChildren(root) {
		if child.Type() == nodeError {
			pos := position(child)
			return nil, fmt.Errorf("%w at line %d, column %d", ErrSyntax, pos.Line, pos.Column)
		}

		stmt, err := b.stmt(child)
		if err != nil {
			return nil, err
		}

		mod.Body = append(mod.Body, stmt)
	}

	return mod, nil
}

// ParseString is a convenience wrapper that parses src with a fresh Parser.
func ParseString(src string) (*Module, error) {
	return NewParser().Parse(context.Background(), []byte(src))
}

type builder struct {
	src []byte
}

func position(n sitter.Node) Position {
	pt := n.StartPoint()

	return Position{Line: int(pt.Row) + 1, Column: int(pt.Column)}
}

func (b *builder) text(n sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

// namedChildren returns the named children of n, dropping extras.
func (b *builder) namedChildren(n sitter.Node) []sitter.Node {
	var children []sitter.Node

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if t := child.Type(); t == nodeComment || t == nodeLineContinuation {
			continue
		}

		children = append(children, child)
	}

	return children
}

func (b *builder) stmt(n sitter.Node) (Stmt, error) {
	pos := position(n)

	switch n.Type() {
	case nodeImport:
		names, err := b.aliases(n.Type(), b.namedChildren(n))
		if err != nil {
			return nil, err
		}

		return &Import{Position: pos, Names: names}, nil

	case nodeFutureImport:
		names, err := b.aliases(n.Type(), b.namedChildren(n))
		if err != nil {
			return nil, err
		}

		return &ImportFrom{Position: pos, Module: FutureModule, Names: names}, nil

	case nodeImportFrom:
		children := b.namedChildren(n)
		if len(children) < 2 {
			return nil, fmt.Errorf("%w at line %d: incomplete from-import", ErrSyntax, pos.Line)
		}

		level, module := b.origin(children[0])

		names, err := b.aliases(n.Type(), children[1:])
		if err != nil {
			return nil, err
		}

		return &ImportFrom{Position: pos, Module: module, Level: level, Names: names}, nil

	case nodeExpressionStatement:
		children := b.namedChildren(n)
		if len(children) == 1 && children[0].Type() == nodeAssignment {
			return b.assign(pos, children[0]), nil
		}
	}

	return &Other{Position: pos, Type: n.Type()}, nil
}

// origin splits the module part of a from-import into its dot level and
// dotted path.
func (b *builder) origin(n sitter.Node) (int, string) {
	text := dotted(b.text(n))
	if n.Type() != nodeRelativeImport {
		return 0, text
	}

	trimmed := strings.TrimLeft(text, ".")

	return len(text) - len(trimmed), trimmed
}

func (b *builder) aliases(stmtType string, nodes []sitter.Node) ([]Alias, error) {
	names := make([]Alias, 0, len(nodes))

	for _, n := range nodes {
		switch n.Type() {
		case nodeDottedName:
			names = append(names, Alias{Name: dotted(b.text(n))})
		case nodeAliasedImport:
			alias := Alias{Name: dotted(b.text(n.ChildByFieldName(fieldName)))}
			if as := n.ChildByFieldName(fieldAlias); !as.IsNull() {
				alias.AsName = b.text(as)
			}

			names = append(names, alias)
		case nodeWildcardImport:
			names = append(names, Alias{Name: wildcardName})
		default:
			pos := position(n)
			return nil, fmt.Errorf("%w at line %d, column %d: unexpected %s in %s",
				ErrSyntax, pos.Line, pos.Column, n.Type(), stmtType)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s without names", ErrSyntax, stmtType)
	}

	return names, nil
}

// assign unrolls chained assignments ("a = b = value") into one Assign.
func (b *builder) assign(pos Position, n sitter.Node) *Assign {
	stmt := &Assign{Position: pos}

	for {
		stmt.Targets = append(stmt.Targets, b.expr(n.ChildByFieldName(fieldLeft)))

		right := n.ChildByFieldName(fieldRight)
		if right.IsNull() {
			return stmt
		}

		if right.Type() != nodeAssignment {
			stmt.Value = b.expr(right)
			return stmt
		}

		n = right
	}
}

func (b *builder) expr(n sitter.Node) Expr {
	pos := position(n)

	switch n.Type() {
	case nodeIdentifier:
		return &Name{Position: pos, ID: b.text(n)}

	case nodeString:
		if value, ok := stringLiteral(b.text(n)); ok {
			return &Str{Position: pos, Value: value}
		}

	case nodeConcatenatedString:
		var sb strings.Builder

		for _, part := range b.namedChildren(n) {
			value, ok := stringLiteral(b.text(part))
			if part.Type() != nodeString || !ok {
				return &Unknown{Position: pos, Type: n.Type()}
			}

			sb.WriteString(value)
		}

		return &Str{Position: pos, Value: sb.String()}

	case nodeList:
		return &List{Position: pos, Elts: b.exprs(n)}

	case nodeTuple, nodeExpressionList:
		return &Tuple{Position: pos, Elts: b.exprs(n)}

	case nodeParenthesizedExpr:
		if children := b.namedChildren(n); len(children) == 1 {
			return b.expr(children[0])
		}
	}

	return &Unknown{Position: pos, Type: n.Type()}
}

func (b *builder) exprs(n sitter.Node) []Expr {
	children := b.namedChildren(n)
	elts := make([]Expr, 0, len(children))

	for _, child := range children {
		elts = append(elts, b.expr(child))
	}

	return elts
}

// dotted drops the whitespace tree-sitter allows inside dotted names.
func dotted(s string) string {
	return strings.Join(strings.Fields(s), "")
}
