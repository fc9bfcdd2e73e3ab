// Package parser turns raw annotation text into annotation expressions.
//
// The grammar is deliberately small:
//
//	expr  := name subscript? | string | list
//	name  := IDENT ('.' IDENT)*
//	list  := '[' expr (',' expr)* ']'
//	subscript := '[' expr (',' expr)* ']'
//
// Any parse failure marks the whole annotation malformed; the caller
// degrades the annotation to Any and keeps checking.
package parser

import (
	"fmt"

	"github.com/hintcheck/hintcheck/internal/ast"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/lexer"
)

// Parser parses one annotation expression.
type Parser struct {
	toks []lexer.Token
	pos  int

	Errors []diag.Diagnostic
}

// Parse parses annotation text located at the given manifest span. On
// failure it returns a nil expression and one or more diagnostics.
func Parse(input string, at diag.Span) (ast.Expr, []diag.Diagnostic) {
	l := lexer.New(input, at)
	toks := l.Tokens()

	p := &Parser{toks: toks}
	for _, lexErr := range l.Errors {
		p.Errors = append(p.Errors, lexErr.ToDiagnostic())
	}
	if len(p.Errors) > 0 {
		return nil, p.Errors
	}

	expr := p.parseExpr()
	if expr != nil && p.cur().Type != lexer.EOF {
		p.errorf(p.cur().Span, "unexpected %q after annotation expression", p.cur().Raw)
		expr = nil
	}
	if len(p.Errors) > 0 {
		return nil, p.Errors
	}
	return expr, nil
}

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(span lexer.Span, format string, args ...any) {
	p.Errors = append(p.Errors, diag.Diagnostic{
		Stage:    diag.StageParse,
		Severity: diag.SeverityError,
		Code:     diag.CodeMalformedAnnotation,
		Message:  fmt.Sprintf(format, args...),
		Span: diag.Span{
			Filename: span.Filename,
			Line:     span.Line,
			Column:   span.Column,
		},
	})
}

func (p *Parser) parseExpr() ast.Expr {
	switch p.cur().Type {
	case lexer.IDENT:
		name := p.parseName()
		if name == nil {
			return nil
		}
		if p.cur().Type == lexer.LBRACKET {
			args := p.parseBracketed()
			if args == nil {
				return nil
			}
			return ast.NewSubscript(name, args, name.Span())
		}
		return name
	case lexer.STRING:
		tok := p.advance()
		return ast.NewStr(tok.Value, tok.Span)
	case lexer.LBRACKET:
		span := p.cur().Span
		elems := p.parseBracketed()
		if elems == nil {
			return nil
		}
		return ast.NewList(elems, span)
	case lexer.EOF:
		p.errorf(p.cur().Span, "empty annotation")
		return nil
	default:
		p.errorf(p.cur().Span, "unexpected %q in annotation", p.cur().Raw)
		return nil
	}
}

func (p *Parser) parseName() *ast.Name {
	first := p.advance()
	parts := []string{first.Value}
	for p.cur().Type == lexer.DOT {
		p.advance()
		if p.cur().Type != lexer.IDENT {
			p.errorf(p.cur().Span, "expected identifier after '.'")
			return nil
		}
		parts = append(parts, p.advance().Value)
	}
	return ast.NewName(parts, first.Span)
}

// parseBracketed parses '[' expr (',' expr)* ']' and returns the elements.
// Empty brackets are malformed: Optional[] and friends carry no meaning.
func (p *Parser) parseBracketed() []ast.Expr {
	open := p.advance() // '['
	if p.cur().Type == lexer.RBRACKET {
		p.errorf(open.Span, "empty brackets in annotation")
		return nil
	}
	var elems []ast.Expr
	for {
		elem := p.parseExpr()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		switch p.cur().Type {
		case lexer.COMMA:
			p.advance()
		case lexer.RBRACKET:
			p.advance()
			return elems
		default:
			p.errorf(p.cur().Span, "expected ',' or ']' in annotation, found %q", p.cur().Raw)
			return nil
		}
	}
}
