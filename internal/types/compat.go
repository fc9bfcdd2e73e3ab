package types

import (
	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
)

// Variance says how a container's type arguments participate in
// compatibility checks.
type Variance int

const (
	Invariant Variance = iota
	Covariant
)

// containerVariance is the fixed container-kind-to-variance table.
// Read-only container views are covariant; mutable containers are
// invariant. The table is declared, never inferred.
var containerVariance = map[string]Variance{
	"List":            Invariant,
	"Set":             Invariant,
	"Dict":            Invariant,
	"MutableSequence": Invariant,
	"MutableMapping":  Invariant,
	"Sequence":        Covariant,
	"Iterable":        Covariant,
	"Iterator":        Covariant,
	"AbstractSet":     Covariant,
	"FrozenSet":       Covariant,
	"Mapping":         Covariant,
	"Tuple":           Covariant,
}

// containerBases declares the subtyping between container kinds, e.g. a
// List is a Sequence. Like the variance table this is fixed, not inferred.
var containerBases = map[string][]string{
	"List":            {"MutableSequence"},
	"MutableSequence": {"Sequence"},
	"Tuple":           {"Sequence"},
	"Sequence":        {"Iterable"},
	"Set":             {"AbstractSet"},
	"FrozenSet":       {"AbstractSet"},
	"AbstractSet":     {"Iterable"},
	"Dict":            {"MutableMapping"},
	"MutableMapping":  {"Mapping"},
	"Mapping":         {"Iterable"},
	"Iterator":        {"Iterable"},
}

// KnownContainer reports whether base is one of the built-in container
// kinds the variance table covers.
func KnownContainer(base string) bool {
	_, ok := containerVariance[base]
	return ok
}

// containerDescends reports whether container kind a is a strict
// descendant of kind b in the fixed container hierarchy.
func containerDescends(a, b string) bool {
	for _, base := range containerBases[a] {
		if base == b || containerDescends(base, b) {
			return true
		}
	}
	return false
}

// Compat decides assignability between resolved types. The check is
// total and side-effect-free: it only ever answers true or false, and
// Explain pinpoints the narrowest diverging pair for diagnostics.
type Compat struct {
	oracle hierarchy.Oracle
	opts   config.Options
}

// NewCompat creates a compatibility checker over the given hierarchy.
func NewCompat(oracle hierarchy.Oracle, opts config.Options) *Compat {
	return &Compat{oracle: oracle, opts: opts}
}

// Compatible reports whether a value of type src is assignable to a
// target of type dst.
func (c *Compat) Compatible(src, dst Type) bool {
	if src == nil || dst == nil {
		return true
	}
	// Any absorbs in both directions.
	if _, ok := src.(*AnyType); ok {
		return true
	}
	if _, ok := dst.(*AnyType); ok {
		return true
	}
	// Unresolved forward references and free type variables already
	// produced their own diagnostics; treat them as Any here so one
	// fault is reported once.
	if isGradualHole(src) || isGradualHole(dst) {
		return true
	}

	// A union source distributes over the target: every member must be
	// assignable. The optimistic mode accepts a single good member.
	if u, ok := src.(*Union); ok {
		if c.opts.UnionDistributesOverSource {
			for _, m := range u.Members {
				if !c.Compatible(m, dst) {
					return false
				}
			}
			return true
		}
		for _, m := range u.Members {
			if c.Compatible(m, dst) {
				return true
			}
		}
		return false
	}
	// A union target is satisfied by any one member.
	if u, ok := dst.(*Union); ok {
		for _, m := range u.Members {
			if c.Compatible(src, m) {
				return true
			}
		}
		return false
	}

	switch dst := dst.(type) {
	case *Primitive:
		src, ok := src.(*Primitive)
		if !ok {
			return false
		}
		if src.Kind == dst.Kind {
			return true
		}
		// Numeric widening: an int is acceptable wherever a float is.
		return src.Kind == Int && dst.Kind == Float
	case *Class:
		switch src := src.(type) {
		case *Class:
			return src.Name == dst.Name || c.oracle.IsDescendant(src.Name, dst.Name)
		case *Generic:
			// Erased view of a parameterized type against a bare name.
			return c.baseCompatible(src.Base, dst.Name)
		}
		return false
	case *Generic:
		src, ok := src.(*Generic)
		if !ok {
			return false
		}
		if !c.baseCompatible(src.Base, dst.Base) {
			return false
		}
		if len(src.Args) != len(dst.Args) {
			return false
		}
		variance := containerVariance[dst.Base]
		for i := range dst.Args {
			if !c.argCompatible(src.Args[i], dst.Args[i], variance) {
				return false
			}
		}
		return true
	case *Callable:
		src, ok := src.(*Callable)
		if !ok {
			return false
		}
		if len(src.Params) != len(dst.Params) {
			return false
		}
		// Parameters are contravariant, the return is covariant.
		for i := range dst.Params {
			if !c.Compatible(dst.Params[i], src.Params[i]) {
				return false
			}
		}
		return c.Compatible(src.Return, dst.Return)
	default:
		return Equal(src, dst)
	}
}

func (c *Compat) argCompatible(src, dst Type, v Variance) bool {
	switch v {
	case Covariant:
		return c.Compatible(src, dst)
	default:
		// Invariant arguments must be mutually assignable, which keeps
		// Any acceptable in either position.
		return c.Compatible(src, dst) && c.Compatible(dst, src)
	}
}

// baseCompatible reports whether container or class base a may stand
// where base b is expected, consulting the fixed container hierarchy
// first and the nominal oracle otherwise.
func (c *Compat) baseCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if containerDescends(a, b) {
		return true
	}
	return c.oracle.IsDescendant(a, b)
}

func isGradualHole(t Type) bool {
	switch t.(type) {
	case *ForwardRef, *TypeVar:
		return true
	}
	return false
}

// Divergence is the narrowest incompatible pair found inside two types,
// used to focus diagnostics on the component that actually differs.
type Divergence struct {
	Expected Type
	Actual   Type
}

// Explain returns nil when src is assignable to dst, and otherwise the
// narrowest diverging sub-expression pair.
func (c *Compat) Explain(src, dst Type) *Divergence {
	if c.Compatible(src, dst) {
		return nil
	}
	// Union source: the first failing member carries the explanation.
	if u, ok := src.(*Union); ok && c.opts.UnionDistributesOverSource {
		for _, m := range u.Members {
			if d := c.Explain(m, dst); d != nil {
				return d
			}
		}
	}
	// Matching generic shells: descend into the first diverging argument.
	if sg, ok := src.(*Generic); ok {
		if dg, ok := dst.(*Generic); ok {
			if c.baseCompatible(sg.Base, dg.Base) && len(sg.Args) == len(dg.Args) {
				variance := containerVariance[dg.Base]
				for i := range dg.Args {
					if !c.argCompatible(sg.Args[i], dg.Args[i], variance) {
						if d := c.Explain(sg.Args[i], dg.Args[i]); d != nil {
							return d
						}
						return &Divergence{Expected: dg.Args[i], Actual: sg.Args[i]}
					}
				}
			}
		}
	}
	// Matching callable shells: the first diverging parameter, else the return.
	if sc, ok := src.(*Callable); ok {
		if dc, ok := dst.(*Callable); ok && len(sc.Params) == len(dc.Params) {
			for i := range dc.Params {
				if !c.Compatible(dc.Params[i], sc.Params[i]) {
					return &Divergence{Expected: dc.Params[i], Actual: sc.Params[i]}
				}
			}
			if !c.Compatible(sc.Return, dc.Return) {
				return &Divergence{Expected: dc.Return, Actual: sc.Return}
			}
		}
	}
	return &Divergence{Expected: dst, Actual: src}
}
