package types

// Substitute replaces type variables in t with their values from the map.
// Unmapped variables are left in place.
func Substitute(t Type, subst map[string]Type) Type {
	if t == nil {
		return nil
	}

	switch t := t.(type) {
	case *TypeVar:
		if replacement, ok := subst[t.Name]; ok {
			return replacement
		}
		return t
	case *Generic:
		var newArgs []Type
		changed := false
		for _, arg := range t.Args {
			newArg := Substitute(arg, subst)
			if newArg != arg {
				changed = true
			}
			newArgs = append(newArgs, newArg)
		}
		if !changed {
			return t
		}
		return &Generic{Base: t.Base, Args: newArgs}
	case *Union:
		var newMembers []Type
		changed := false
		for _, m := range t.Members {
			newM := Substitute(m, subst)
			if newM != m {
				changed = true
			}
			newMembers = append(newMembers, newM)
		}
		if !changed {
			return t
		}
		// Re-normalize: a substitution can introduce duplicates.
		return NewUnion(newMembers...)
	case *Callable:
		var newParams []Type
		changed := false
		for _, p := range t.Params {
			newParam := Substitute(p, subst)
			if newParam != p {
				changed = true
			}
			newParams = append(newParams, newParam)
		}
		newReturn := Substitute(t.Return, subst)
		if newReturn != t.Return {
			changed = true
		}
		if !changed {
			return t
		}
		return &Callable{Params: newParams, Return: newReturn}
	default:
		return t
	}
}

// CollectTypeVars appends, in left-to-right traversal order, every type
// variable appearing in t that is not already present in the list.
func CollectTypeVars(t Type, into []*TypeVar) []*TypeVar {
	switch t := t.(type) {
	case *TypeVar:
		for _, v := range into {
			if v.Name == t.Name {
				return into
			}
		}
		return append(into, t)
	case *Generic:
		for _, arg := range t.Args {
			into = CollectTypeVars(arg, into)
		}
	case *Union:
		for _, m := range t.Members {
			into = CollectTypeVars(m, into)
		}
	case *Callable:
		for _, p := range t.Params {
			into = CollectTypeVars(p, into)
		}
		into = CollectTypeVars(t.Return, into)
	}
	return into
}

// HasTypeVars reports whether t contains any type variable.
func HasTypeVars(t Type) bool {
	return len(CollectTypeVars(t, nil)) > 0
}
