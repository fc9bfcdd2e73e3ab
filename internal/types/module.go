package types

import (
	"strings"

	"github.com/hintcheck/hintcheck/internal/diag"
)

// Annotation is raw annotation text plus the manifest position it came
// from. Parsing and resolution are deferred until a checking pass runs.
type Annotation struct {
	Text string
	Span diag.Span
}

// Param is one declared parameter of a function definition.
type Param struct {
	Name       string
	Annotation *Annotation // nil when the parameter is unannotated
	HasDefault bool
	// DefaultIsNone marks a literal None default, which can rewrite the
	// parameter type to Optional under the usual convention.
	DefaultIsNone bool
}

// FuncDef is a function definition as it appears in a module: raw
// annotations, not yet resolved.
type FuncDef struct {
	Name   string
	Params []Param
	Return *Annotation // nil when the return is unannotated
	Span   diag.Span
}

// CallSite is one call to be checked: the callee name and the declared
// types of the arguments, in positional order.
type CallSite struct {
	Callee string
	Args   []Annotation
	Span   diag.Span
}

// Module is the unit of checking: a scope snapshot plus the definitions
// and call sites found in one module. A module is consumed read-only;
// independent modules may be checked in parallel.
type Module struct {
	Name  string
	Scope *Scope
	Funcs []FuncDef
	Calls []CallSite
}

// SigParam is a resolved parameter of a Signature.
type SigParam struct {
	Name       string
	Type       Type
	HasDefault bool
}

// Signature is a fully resolved function signature. Immutable once
// constructed from a FuncDef.
type Signature struct {
	Name   string
	Params []SigParam
	Return Type
	Span   diag.Span
}

func (s *Signature) String() string {
	var params []string
	for _, p := range s.Params {
		rendered := p.Name + ": " + p.Type.String()
		if p.HasDefault {
			rendered += " = ..."
		}
		params = append(params, rendered)
	}
	return "def " + s.Name + "(" + strings.Join(params, ", ") + ") -> " + s.Return.String()
}

// MinArity returns how many arguments the signature requires, counting
// only parameters without defaults.
func (s *Signature) MinArity() int {
	n := 0
	for _, p := range s.Params {
		if !p.HasDefault {
			n++
		}
	}
	return n
}

// TypeVars returns the type variables appearing anywhere in the
// signature, in parameter declaration order.
func (s *Signature) TypeVars() []*TypeVar {
	var vars []*TypeVar
	for _, p := range s.Params {
		vars = CollectTypeVars(p.Type, vars)
	}
	return CollectTypeVars(s.Return, vars)
}
