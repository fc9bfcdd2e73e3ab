package ast

import (
	"strings"

	"github.com/hintcheck/hintcheck/internal/lexer"
)

// Expr is an annotation expression node.
type Expr interface {
	Span() lexer.Span
	String() string
	exprNode()
}

// Name is a possibly-dotted type name, e.g. Employee or collections.abc.Sequence.
type Name struct {
	Parts []string
	span  lexer.Span
}

func NewName(parts []string, span lexer.Span) *Name {
	return &Name{Parts: parts, span: span}
}

func (n *Name) Span() lexer.Span { return n.span }
func (n *Name) String() string   { return strings.Join(n.Parts, ".") }
func (n *Name) exprNode()        {}

// Last returns the final segment of the name.
func (n *Name) Last() string { return n.Parts[len(n.Parts)-1] }

// Subscript is a parameterized type, e.g. Mapping[str, Employee].
type Subscript struct {
	Base *Name
	Args []Expr
	span lexer.Span
}

func NewSubscript(base *Name, args []Expr, span lexer.Span) *Subscript {
	return &Subscript{Base: base, Args: args, span: span}
}

func (s *Subscript) Span() lexer.Span { return s.span }
func (s *Subscript) String() string {
	var args []string
	for _, a := range s.Args {
		args = append(args, a.String())
	}
	return s.Base.String() + "[" + strings.Join(args, ", ") + "]"
}
func (s *Subscript) exprNode() {}

// List is a bracketed expression list, used for Callable parameter lists:
// Callable[[int, str], bool].
type List struct {
	Elems []Expr
	span  lexer.Span
}

func NewList(elems []Expr, span lexer.Span) *List {
	return &List{Elems: elems, span: span}
}

func (l *List) Span() lexer.Span { return l.span }
func (l *List) String() string {
	var elems []string
	for _, e := range l.Elems {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
func (l *List) exprNode() {}

// Str is a quoted name inside an annotation, i.e. a forward reference.
type Str struct {
	Value string
	span  lexer.Span
}

func NewStr(value string, span lexer.Span) *Str {
	return &Str{Value: value, span: span}
}

func (s *Str) Span() lexer.Span { return s.span }
func (s *Str) String() string   { return "'" + s.Value + "'" }
func (s *Str) exprNode()        {}
