package types

// EntryKind says what a scope name stands for.
type EntryKind int

const (
	EntryClass EntryKind = iota
	EntryAlias
	EntryTypeVar
)

// Entry is a named entity annotations can refer to. Entries are plain
// data; the resolver interprets them lazily, which is what lets a
// forward reference name a class declared later in the same scope.
type Entry struct {
	Name string
	Kind EntryKind

	// Target holds the aliased annotation text for alias entries.
	Target string
	// Constraints holds constraint annotation texts for typevar entries.
	Constraints []string
}

// Scope represents a module scope containing resolvable names. A checking
// pass operates over an immutable snapshot of the scope taken at pass
// start; nothing mutates a scope mid-pass.
type Scope struct {
	Parent  *Scope
	Entries map[string]*Entry
}

// NewScope creates a new scope with an optional parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:  parent,
		Entries: make(map[string]*Entry),
	}
}

// Insert adds an entry to the current scope.
func (s *Scope) Insert(name string, entry *Entry) {
	s.Entries[name] = entry
}

// InsertClass registers a class name.
func (s *Scope) InsertClass(name string) {
	s.Insert(name, &Entry{Name: name, Kind: EntryClass})
}

// InsertAlias registers a type alias for an annotation expression.
func (s *Scope) InsertAlias(name, target string) {
	s.Insert(name, &Entry{Name: name, Kind: EntryAlias, Target: target})
}

// InsertTypeVar registers a type variable with optional constraint
// annotations.
func (s *Scope) InsertTypeVar(name string, constraints ...string) {
	s.Insert(name, &Entry{Name: name, Kind: EntryTypeVar, Constraints: constraints})
}

// Lookup finds an entry in the current scope or any parent scope.
func (s *Scope) Lookup(name string) *Entry {
	if entry, ok := s.Entries[name]; ok {
		return entry
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}
