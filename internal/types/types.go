package types

import "strings"

// Type represents a resolved annotation in the hintcheck type system.
type Type interface {
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// PrimitiveKind represents the kind of a primitive type.
type PrimitiveKind string

const (
	Int   PrimitiveKind = "int"
	Float PrimitiveKind = "float"
	Bool  PrimitiveKind = "bool"
	Str   PrimitiveKind = "str"
	Bytes PrimitiveKind = "bytes"
	None  PrimitiveKind = "None"
)

// Primitive represents a primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (p *Primitive) IsType()        {}

// Common primitive instances
var (
	TypeInt   = &Primitive{Kind: Int}
	TypeFloat = &Primitive{Kind: Float}
	TypeBool  = &Primitive{Kind: Bool}
	TypeStr   = &Primitive{Kind: Str}
	TypeBytes = &Primitive{Kind: Bytes}
	TypeNone  = &Primitive{Kind: None}
)

// AnyType is the absorbing element of the compatibility ordering: every
// type is compatible with Any and Any is compatible with every type.
type AnyType struct{}

func (a *AnyType) String() string { return "Any" }
func (a *AnyType) IsType()        {}

// Any is the sole AnyType instance.
var Any = &AnyType{}

// Class is a nominal reference into the external class hierarchy. The
// checker never models the hierarchy itself; it consults the oracle.
type Class struct {
	Name string
}

func (c *Class) String() string { return c.Name }
func (c *Class) IsType()        {}

// Generic represents a parameterized container type, e.g. Sequence[Employee].
// Type arguments are owned inline; no sharing.
type Generic struct {
	Base string
	Args []Type
}

func (g *Generic) String() string {
	var args []string
	for _, a := range g.Args {
		args = append(args, a.String())
	}
	return g.Base + "[" + strings.Join(args, ", ") + "]"
}
func (g *Generic) IsType() {}

// Union represents a union of types. Construct through NewUnion so the
// flattening and deduplication invariants hold.
type Union struct {
	Members []Type
}

func (u *Union) String() string {
	var members []string
	for _, m := range u.Members {
		members = append(members, m.String())
	}
	return "Union[" + strings.Join(members, ", ") + "]"
}
func (u *Union) IsType() {}

// Has reports whether the union contains a member structurally equal to t.
func (u *Union) Has(t Type) bool {
	for _, m := range u.Members {
		if Equal(m, t) {
			return true
		}
	}
	return false
}

// TypeVar is a type variable. Constraints, when present, are the fixed
// set of admissible types any binding must be compatible with.
type TypeVar struct {
	Name        string
	Constraints []Type
}

func (t *TypeVar) String() string {
	if len(t.Constraints) == 0 {
		return t.Name
	}
	var bounds []string
	for _, c := range t.Constraints {
		bounds = append(bounds, c.String())
	}
	return t.Name + "(" + strings.Join(bounds, ", ") + ")"
}
func (t *TypeVar) IsType() {}

// Callable represents a callable signature type.
type Callable struct {
	Params []Type
	Return Type
}

func (c *Callable) String() string {
	var params []string
	for _, p := range c.Params {
		params = append(params, p.String())
	}
	ret := "None"
	if c.Return != nil {
		ret = c.Return.String()
	}
	return "Callable[[" + strings.Join(params, ", ") + "], " + ret + "]"
}
func (c *Callable) IsType() {}

// ForwardRef is a type name given as text, resolved lazily against a
// scope. It holds only the name, never the target.
type ForwardRef struct {
	Name string
}

func (f *ForwardRef) String() string { return "'" + f.Name + "'" }
func (f *ForwardRef) IsType()        {}

// Equal reports structural equality of two types. Union members compare
// order-insensitively; everything else compares positionally.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch a := a.(type) {
	case *AnyType:
		_, ok := b.(*AnyType)
		return ok
	case *Primitive:
		if b, ok := b.(*Primitive); ok {
			return a.Kind == b.Kind
		}
	case *Class:
		if b, ok := b.(*Class); ok {
			return a.Name == b.Name
		}
	case *Generic:
		if b, ok := b.(*Generic); ok {
			if a.Base != b.Base || len(a.Args) != len(b.Args) {
				return false
			}
			for i := range a.Args {
				if !Equal(a.Args[i], b.Args[i]) {
					return false
				}
			}
			return true
		}
	case *Union:
		if b, ok := b.(*Union); ok {
			if len(a.Members) != len(b.Members) {
				return false
			}
			for _, m := range a.Members {
				if !b.Has(m) {
					return false
				}
			}
			return true
		}
	case *TypeVar:
		if b, ok := b.(*TypeVar); ok {
			return a.Name == b.Name
		}
	case *Callable:
		if b, ok := b.(*Callable); ok {
			if len(a.Params) != len(b.Params) {
				return false
			}
			for i := range a.Params {
				if !Equal(a.Params[i], b.Params[i]) {
					return false
				}
			}
			return Equal(a.Return, b.Return)
		}
	case *ForwardRef:
		if b, ok := b.(*ForwardRef); ok {
			return a.Name == b.Name
		}
	}
	return false
}
