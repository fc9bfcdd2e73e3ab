package diag

import (
	"fmt"
	"sort"
)

// Stage identifies which checker phase produced the diagnostic.
type Stage string

const (
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageCheck   Stage = "check"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Annotation parsing and resolution
	CodeMalformedAnnotation Code = "MALFORMED_ANNOTATION"
	CodeUnresolvedName      Code = "UNRESOLVED_NAME"

	// Call-site checking
	CodeCompatibilityMismatch Code = "COMPATIBILITY_MISMATCH"
	CodeConstraintViolation   Code = "CONSTRAINT_VIOLATION"
	CodeArityMismatch         Code = "ARITY_MISMATCH"
	CodeUnknownCallee         Code = "UNKNOWN_CALLEE"
)

// Span represents a location in a manifest or annotation source.
type Span struct {
	Filename string
	Line     int
	Column   int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has location information.
func (s Span) IsValid() bool {
	return s.Line > 0
}

// Diagnostic is a checker finding surfaced to end-users. Diagnostics are
// purely additive: no finding ever aborts a checking pass.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span

	// Expected and Actual hold rendered type expressions for mismatch
	// diagnostics; Detail names the narrowest diverging sub-expression.
	Expected string
	Actual   string
	Detail   string

	Notes []string
	Help  string
}

// WithNote returns a copy of the diagnostic with an extra note attached.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// Sort orders diagnostics by filename, then line, then column. Equal
// positions keep their insertion order so a pass reports findings in the
// order it discovered them.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Span, diags[j].Span
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
