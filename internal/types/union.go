package types

import "github.com/hintcheck/hintcheck/internal/hierarchy"

// NewUnion builds a union from the given members, enforcing the union
// invariants: nested unions are flattened, duplicate members are dropped,
// and a single-member union collapses to the member itself.
func NewUnion(members ...Type) Type {
	flat := flatten(nil, members)
	if len(flat) == 0 {
		return Any
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Union{Members: flat}
}

// Optional returns Union[t, None]. Applying it to an already-optional
// type is a no-op thanks to member deduplication.
func Optional(t Type) Type {
	return NewUnion(t, TypeNone)
}

// IsOptional reports whether t is a union containing None.
func IsOptional(t Type) bool {
	u, ok := t.(*Union)
	return ok && u.Has(TypeNone)
}

// Unite builds a union with the full normalization the resolver applies:
// flattening and deduplication as in NewUnion, plus nominal absorption:
// a member that descends from another member disappears into it. With
// collapseAny set, a union containing Any collapses to Any; otherwise
// both are retained so diagnostics can show the full union.
func Unite(h hierarchy.Oracle, collapseAny bool, members ...Type) Type {
	flat := flatten(nil, members)
	if collapseAny {
		for _, m := range flat {
			if _, ok := m.(*AnyType); ok {
				return Any
			}
		}
	}
	var kept []Type
	for i, m := range flat {
		if absorbed(h, m, flat, i) {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return Any
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &Union{Members: kept}
}

// absorbed reports whether member i is a strict descendant of some other
// member, consulting the hierarchy for nominal classes.
func absorbed(h hierarchy.Oracle, m Type, all []Type, i int) bool {
	cls, ok := m.(*Class)
	if !ok || h == nil {
		return false
	}
	for j, other := range all {
		if i == j {
			continue
		}
		if o, ok := other.(*Class); ok && h.IsDescendant(cls.Name, o.Name) {
			return true
		}
	}
	return false
}

func flatten(acc []Type, members []Type) []Type {
	for _, m := range members {
		if m == nil {
			continue
		}
		if u, ok := m.(*Union); ok {
			acc = flatten(acc, u.Members)
			continue
		}
		if !containsEqual(acc, m) {
			acc = append(acc, m)
		}
	}
	return acc
}

func containsEqual(list []Type, t Type) bool {
	for _, v := range list {
		if Equal(v, t) {
			return true
		}
	}
	return false
}
