package lexer

// TokenType represents the type of a token in an annotation expression.
type TokenType string

// Span represents the source location of a token within an annotation.
type Span struct {
	Filename string // manifest file the annotation came from, if any
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the annotation text
	End      int    // exclusive end index
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Raw   string // exact runes from the annotation text
	Value string // decoded value (for strings, same as Raw for others)
	Span  Span
}

// Token type constants
const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"  // Employee, Sequence, T, None, ...
	STRING TokenType = "STRING" // 'Employee', a forward reference

	COMMA    TokenType = ","
	DOT      TokenType = "."
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
)
