package lexer

import (
	"unicode"

	"github.com/hintcheck/hintcheck/internal/diag"
)

type ErrorKind int

const (
	ErrUnterminatedString ErrorKind = iota
	ErrIllegalRune
)

// Error is a lexical error found while scanning an annotation.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
// Any lexical error makes the whole annotation malformed.
func (e Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParse,
		Severity: diag.SeverityError,
		Code:     diag.CodeMalformedAnnotation,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
		},
	}
}

// Lexer scans a single annotation expression. Annotations are one-line
// strings, so line tracking is fixed to the position the annotation
// occupies in its manifest.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	filename string
	line     int // manifest line the annotation appears on
	baseCol  int // manifest column the annotation starts at

	Errors []Error
}

// New creates a lexer for annotation text. The span locates the annotation
// within its manifest so diagnostics can point at the right place.
func New(input string, at diag.Span) *Lexer {
	l := &Lexer{
		input:    []rune(input),
		pos:      -1,
		filename: at.Filename,
		line:     at.Line,
		baseCol:  at.Column,
	}
	l.read()
	return l
}

func (l *Lexer) addError(kind ErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, Error{Kind: kind, Message: msg, Span: span})
}

// read advances the lexer to the next character.
func (l *Lexer) read() {
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

// spanFrom builds a span covering [start, l.pos).
func (l *Lexer) spanFrom(start int) Span {
	return Span{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.baseCol + start,
		Start:    start,
		End:      l.pos,
	}
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	start := l.pos
	switch {
	case l.ch == 0:
		return Token{Type: EOF, Span: l.spanFrom(start)}
	case l.ch == ',':
		l.read()
		return Token{Type: COMMA, Raw: ",", Value: ",", Span: l.spanFrom(start)}
	case l.ch == '.':
		l.read()
		return Token{Type: DOT, Raw: ".", Value: ".", Span: l.spanFrom(start)}
	case l.ch == '[':
		l.read()
		return Token{Type: LBRACKET, Raw: "[", Value: "[", Span: l.spanFrom(start)}
	case l.ch == ']':
		l.read()
		return Token{Type: RBRACKET, Raw: "]", Value: "]", Span: l.spanFrom(start)}
	case l.ch == '\'' || l.ch == '"':
		return l.lexString()
	case isIdentStart(l.ch):
		return l.lexIdent()
	default:
		ch := l.ch
		l.read()
		span := l.spanFrom(start)
		l.addError(ErrIllegalRune, "illegal character "+string(ch)+" in annotation", span)
		return Token{Type: ILLEGAL, Raw: string(ch), Value: string(ch), Span: span}
	}
}

// Tokens scans the whole input. The final token is always EOF.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.read()
	}
}

func (l *Lexer) lexIdent() Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.read()
	}
	raw := string(l.input[start:l.pos])
	return Token{Type: IDENT, Raw: raw, Value: raw, Span: l.spanFrom(start)}
}

func (l *Lexer) lexString() Token {
	start := l.pos
	quote := l.ch
	l.read()
	var value []rune
	for l.ch != quote {
		if l.ch == 0 {
			span := l.spanFrom(start)
			l.addError(ErrUnterminatedString, "unterminated forward reference string", span)
			return Token{Type: ILLEGAL, Raw: string(l.input[start:l.pos]), Span: span}
		}
		value = append(value, l.ch)
		l.read()
	}
	l.read() // consume closing quote
	return Token{
		Type:  STRING,
		Raw:   string(l.input[start:l.pos]),
		Value: string(value),
		Span:  l.spanFrom(start),
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
