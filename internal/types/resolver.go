package types

import (
	"fmt"

	"github.com/hintcheck/hintcheck/internal/ast"
	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
	"github.com/hintcheck/hintcheck/internal/parser"
)

// Resolver turns raw annotations into Type values against one scope
// snapshot. Resolution is pure apart from the forward-reference cache;
// every failure degrades to Any and is recorded as a diagnostic, so a
// pass always runs to completion.
type Resolver struct {
	scope  *Scope
	oracle hierarchy.Oracle
	opts   config.Options

	// refs caches resolved names for the lifetime of this resolver,
	// i.e. one scope snapshot. Failures are not cached so every use
	// site of a bad name gets its own diagnostic.
	refs      map[string]Type
	resolving map[string]bool // alias cycle guard

	Diags []diag.Diagnostic
}

// NewResolver creates a resolver over a scope snapshot.
func NewResolver(scope *Scope, oracle hierarchy.Oracle, opts config.Options) *Resolver {
	return &Resolver{
		scope:     scope,
		oracle:    oracle,
		opts:      opts,
		refs:      make(map[string]Type),
		resolving: make(map[string]bool),
	}
}

// ResolveAnnotation parses and resolves one annotation. Malformed text
// yields Any plus a diagnostic.
func (r *Resolver) ResolveAnnotation(a Annotation) Type {
	return r.resolveText(a.Text, a.Span)
}

// ResolveSignature resolves a function definition into an immutable
// Signature.
func (r *Resolver) ResolveSignature(def FuncDef) *Signature {
	sig := &Signature{Name: def.Name, Span: def.Span}
	for _, p := range def.Params {
		sig.Params = append(sig.Params, SigParam{
			Name:       p.Name,
			Type:       r.resolveParam(p, def.Span),
			HasDefault: p.HasDefault,
		})
	}
	if def.Return == nil {
		r.noteMissing("return of "+def.Name, def.Span)
		sig.Return = Any
	} else {
		sig.Return = r.ResolveAnnotation(*def.Return)
	}
	return sig
}

// ResolveRef resolves a forward reference against the scope snapshot.
// The referenced text may itself be a full annotation expression.
func (r *Resolver) ResolveRef(ref *ForwardRef, span diag.Span) Type {
	if cached, ok := r.refs[ref.Name]; ok {
		return cached
	}
	t := r.resolveText(ref.Name, span)
	if _, failed := t.(*AnyType); !failed {
		r.refs[ref.Name] = t
	}
	return t
}

func (r *Resolver) resolveParam(p Param, at diag.Span) Type {
	var t Type
	if p.Annotation == nil {
		r.noteMissing("parameter "+p.Name, at)
		t = Any
	} else {
		t = r.ResolveAnnotation(*p.Annotation)
	}
	// A None default widens the declared type to Optional. Deduplication
	// makes the rewrite idempotent, and Any already admits None.
	if p.DefaultIsNone && r.opts.DefaultNoneImpliesOptional {
		if _, isAny := t.(*AnyType); !isAny {
			t = r.unite(t, TypeNone)
		}
	}
	return t
}

func (r *Resolver) noteMissing(what string, span diag.Span) {
	if r.opts.TreatMissingAnnotationAsAny {
		return
	}
	r.Diags = append(r.Diags, diag.Diagnostic{
		Stage:    diag.StageResolve,
		Severity: diag.SeverityWarning,
		Code:     diag.CodeMalformedAnnotation,
		Message:  fmt.Sprintf("%s has no annotation, assuming Any", what),
		Span:     span,
	})
}

func (r *Resolver) resolveText(text string, span diag.Span) Type {
	expr, errs := parser.Parse(text, span)
	if len(errs) > 0 {
		r.Diags = append(r.Diags, errs...)
		return Any
	}
	return r.resolveExpr(expr)
}

func (r *Resolver) resolveExpr(e ast.Expr) Type {
	switch e := e.(type) {
	case *ast.Name:
		return r.resolveName(e.Last(), r.toDiagSpan(e))
	case *ast.Str:
		return r.ResolveRef(&ForwardRef{Name: e.Value}, r.toDiagSpan(e))
	case *ast.Subscript:
		return r.resolveSubscript(e)
	case *ast.List:
		r.malformed("bracketed list is only valid as Callable parameters", r.toDiagSpan(e))
		return Any
	default:
		r.malformed("unsupported annotation expression", r.toDiagSpan(e))
		return Any
	}
}

func (r *Resolver) resolveSubscript(e *ast.Subscript) Type {
	span := r.toDiagSpan(e)
	switch e.Base.Last() {
	case "Union":
		var members []Type
		for _, arg := range e.Args {
			members = append(members, r.resolveExpr(arg))
		}
		return r.unite(members...)
	case "Optional":
		if len(e.Args) != 1 {
			r.malformed(fmt.Sprintf("Optional takes exactly one argument, got %d", len(e.Args)), span)
			return Any
		}
		return r.unite(r.resolveExpr(e.Args[0]), TypeNone)
	case "Callable":
		return r.resolveCallable(e, span)
	default:
		return r.resolveGeneric(e, span)
	}
}

func (r *Resolver) resolveCallable(e *ast.Subscript, span diag.Span) Type {
	if len(e.Args) != 2 {
		r.malformed("Callable takes a parameter list and a return type", span)
		return Any
	}
	params, ok := e.Args[0].(*ast.List)
	if !ok {
		r.malformed("Callable parameters must be a bracketed list", span)
		return Any
	}
	c := &Callable{Return: r.resolveExpr(e.Args[1])}
	for _, p := range params.Elems {
		c.Params = append(c.Params, r.resolveExpr(p))
	}
	return c
}

func (r *Resolver) resolveGeneric(e *ast.Subscript, span diag.Span) Type {
	base := e.Base.Last()
	if !KnownContainer(base) {
		entry := r.scope.Lookup(base)
		switch {
		case entry == nil:
			r.unresolved(base, span)
			return Any
		case entry.Kind == EntryTypeVar:
			r.malformed(fmt.Sprintf("type variable %s cannot be parameterized", base), span)
			return Any
		}
	}
	var args []Type
	for _, arg := range e.Args {
		args = append(args, r.resolveExpr(arg))
	}
	return &Generic{Base: base, Args: args}
}

func (r *Resolver) resolveName(name string, span diag.Span) Type {
	switch name {
	case "Any":
		return Any
	case "None", "NoneType":
		// The literal None names the NoneType primitive, not an
		// absent-annotation marker.
		return TypeNone
	case "int":
		return TypeInt
	case "float":
		return TypeFloat
	case "bool":
		return TypeBool
	case "str":
		return TypeStr
	case "bytes":
		return TypeBytes
	}
	if cached, ok := r.refs[name]; ok {
		return cached
	}
	entry := r.scope.Lookup(name)
	if entry == nil {
		r.unresolved(name, span)
		return Any
	}
	switch entry.Kind {
	case EntryClass:
		t := &Class{Name: name}
		r.refs[name] = t
		return t
	case EntryAlias:
		if r.resolving[name] {
			r.malformed(fmt.Sprintf("alias %s refers to itself", name), span)
			return Any
		}
		r.resolving[name] = true
		t := r.resolveText(entry.Target, span)
		delete(r.resolving, name)
		r.refs[name] = t
		return t
	default: // EntryTypeVar
		tv := &TypeVar{Name: name}
		// Cache before resolving constraints so a self-referential
		// constraint terminates.
		r.refs[name] = tv
		for _, c := range entry.Constraints {
			tv.Constraints = append(tv.Constraints, r.resolveText(c, span))
		}
		return tv
	}
}

func (r *Resolver) unite(members ...Type) Type {
	return Unite(r.oracle, r.opts.CollapseAnyUnions, members...)
}

func (r *Resolver) unresolved(name string, span diag.Span) {
	r.Diags = append(r.Diags, diag.Diagnostic{
		Stage:    diag.StageResolve,
		Severity: diag.SeverityError,
		Code:     diag.CodeUnresolvedName,
		Message:  fmt.Sprintf("name %s is not defined in scope", name),
		Span:     span,
		Help:     fmt.Sprintf("declare %s as a class, alias, or typevar", name),
	})
}

func (r *Resolver) malformed(msg string, span diag.Span) {
	r.Diags = append(r.Diags, diag.Diagnostic{
		Stage:    diag.StageResolve,
		Severity: diag.SeverityError,
		Code:     diag.CodeMalformedAnnotation,
		Message:  msg,
		Span:     span,
	})
}

func (r *Resolver) toDiagSpan(e ast.Expr) diag.Span {
	s := e.Span()
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column}
}
