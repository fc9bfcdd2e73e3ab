package types

import (
	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
)

// Binding associates a type variable with the join of every type it has
// been unified with during one call-site resolution. A Binding set is
// owned exclusively by the Solve invocation that created it.
type Binding struct {
	Var  *TypeVar
	Type Type
}

// Solution holds the bindings produced by solving one call site.
type Solution struct {
	bindings map[string]Type
	order    []string
}

// Binding returns the type bound to the named variable, if any.
func (s *Solution) Binding(name string) (Type, bool) {
	t, ok := s.bindings[name]
	return t, ok
}

// Bindings returns all bindings in the order variables were first bound,
// which follows parameter declaration order.
func (s *Solution) Bindings() []Binding {
	out := make([]Binding, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Binding{Var: &TypeVar{Name: name}, Type: s.bindings[name]})
	}
	return out
}

// Apply substitutes the solved bindings into t. Variables the call never
// bound resolve to Any.
func (s *Solution) Apply(t Type) Type {
	subst := make(map[string]Type, len(s.bindings))
	for name, bound := range s.bindings {
		subst[name] = bound
	}
	for _, v := range CollectTypeVars(t, nil) {
		if _, ok := subst[v.Name]; !ok {
			subst[v.Name] = Any
		}
	}
	return Substitute(t, subst)
}

// Violation records a type joined into a variable that no declared
// constraint admits. Violations never stop solving; they surface as
// diagnostics while the remaining parameters are still processed.
type Violation struct {
	Var      *TypeVar
	Matched  Type
	ParamPos int
}

// Solver binds type variables for generic signatures at call sites.
type Solver struct {
	oracle hierarchy.Oracle
	compat *Compat
}

// NewSolver creates a solver over the given hierarchy.
func NewSolver(oracle hierarchy.Oracle, opts config.Options) *Solver {
	return &Solver{oracle: oracle, compat: NewCompat(oracle, opts)}
}

// Solve unifies each declared parameter type against the corresponding
// argument type in declaration order, producing a binding for every type
// variable the arguments touched plus any constraint violations.
func (s *Solver) Solve(sig *Signature, args []Type) (*Solution, []Violation) {
	sol := &Solution{bindings: make(map[string]Type)}
	var violations []Violation

	n := len(args)
	if len(sig.Params) < n {
		n = len(sig.Params)
	}
	for i := 0; i < n; i++ {
		s.unify(sig.Params[i].Type, args[i], sol, i, &violations)
	}
	return sol, violations
}

// ReturnType resolves the call's return type: the declared return with
// every variable replaced by its final binding, unbound variables by Any.
func (s *Solver) ReturnType(sig *Signature, sol *Solution) Type {
	return sol.Apply(sig.Return)
}

func (s *Solver) unify(param, arg Type, sol *Solution, pos int, violations *[]Violation) {
	switch param := param.(type) {
	case *TypeVar:
		s.bind(param, arg, sol, pos, violations)
	case *Generic:
		arg, ok := arg.(*Generic)
		if !ok || len(arg.Args) != len(param.Args) {
			return
		}
		if !s.compat.baseCompatible(arg.Base, param.Base) {
			return
		}
		for i := range param.Args {
			s.unify(param.Args[i], arg.Args[i], sol, pos, violations)
		}
	case *Union:
		// A member already satisfied without binding wins; otherwise the
		// first variable-bearing member absorbs the argument. Optional[T]
		// against str binds T to str this way.
		for _, m := range param.Members {
			if !HasTypeVars(m) && s.compat.Compatible(arg, m) {
				return
			}
		}
		for _, m := range param.Members {
			if HasTypeVars(m) {
				s.unify(m, arg, sol, pos, violations)
				return
			}
		}
	case *Callable:
		arg, ok := arg.(*Callable)
		if !ok || len(arg.Params) != len(param.Params) {
			return
		}
		for i := range param.Params {
			s.unify(param.Params[i], arg.Params[i], sol, pos, violations)
		}
		s.unify(param.Return, arg.Return, sol, pos, violations)
	}
}

func (s *Solver) bind(v *TypeVar, matched Type, sol *Solution, pos int, violations *[]Violation) {
	if len(v.Constraints) > 0 && !s.admits(v, matched) {
		*violations = append(*violations, Violation{Var: v, Matched: matched, ParamPos: pos})
	}
	current, bound := sol.bindings[v.Name]
	if !bound {
		sol.bindings[v.Name] = matched
		sol.order = append(sol.order, v.Name)
		return
	}
	sol.bindings[v.Name] = s.join(current, matched)
}

func (s *Solver) admits(v *TypeVar, t Type) bool {
	for _, c := range v.Constraints {
		if s.compat.Compatible(t, c) {
			return true
		}
	}
	return false
}

// join computes the least upper bound of two types under the
// compatibility ordering. Unrelated nominal classes meet at their
// nearest common ancestor when the hierarchy declares one, else at Any.
func (s *Solver) join(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if Equal(a, b) {
		return a
	}
	if _, ok := a.(*AnyType); ok {
		return Any
	}
	if _, ok := b.(*AnyType); ok {
		return Any
	}
	if ac, ok := a.(*Class); ok {
		if bc, ok := b.(*Class); ok {
			if s.oracle.IsDescendant(bc.Name, ac.Name) {
				return a
			}
			if s.oracle.IsDescendant(ac.Name, bc.Name) {
				return b
			}
			if nca, ok := s.oracle.NearestCommonAncestor(ac.Name, bc.Name); ok {
				return &Class{Name: nca}
			}
			return Any
		}
	}
	if ap, ok := a.(*Primitive); ok {
		if bp, ok := b.(*Primitive); ok {
			if (ap.Kind == Int && bp.Kind == Float) || (ap.Kind == Float && bp.Kind == Int) {
				return TypeFloat
			}
		}
	}
	return Any
}
