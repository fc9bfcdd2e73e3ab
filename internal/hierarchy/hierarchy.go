// Package hierarchy exposes the nominal class hierarchy the checker
// consults. The checker never constructs or mutates a hierarchy itself;
// it only asks descent and ancestry questions through the Oracle
// interface. The hierarchy must be fully built before any checking pass
// starts and is read-only from then on, so independent passes may share
// one oracle across goroutines.
package hierarchy

import "sort"

// Oracle answers nominal subtyping questions about class names.
type Oracle interface {
	// IsDescendant reports whether a is a strict descendant of b.
	IsDescendant(a, b string) bool
	// NearestCommonAncestor returns the closest class both a and b
	// descend from (or equal), and whether one exists.
	NearestCommonAncestor(a, b string) (string, bool)
}

// Table is a map-backed Oracle built from class declarations.
type Table struct {
	bases map[string][]string
}

// NewTable creates an empty hierarchy table.
func NewTable() *Table {
	return &Table{bases: make(map[string][]string)}
}

// Declare registers a class and its direct base classes. Declaring the
// same class twice merges the base lists.
func (t *Table) Declare(name string, bases ...string) {
	for _, b := range bases {
		if !contains(t.bases[name], b) {
			t.bases[name] = append(t.bases[name], b)
		}
	}
	if _, ok := t.bases[name]; !ok {
		t.bases[name] = nil
	}
}

// Knows reports whether the class was declared.
func (t *Table) Knows(name string) bool {
	_, ok := t.bases[name]
	return ok
}

// Classes returns all declared class names in sorted order.
func (t *Table) Classes() []string {
	names := make([]string, 0, len(t.bases))
	for name := range t.bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDescendant reports whether a is a strict descendant of b.
func (t *Table) IsDescendant(a, b string) bool {
	if a == b {
		return false
	}
	seen := map[string]bool{}
	return t.ancestorSearch(a, b, seen)
}

func (t *Table) ancestorSearch(from, target string, seen map[string]bool) bool {
	if seen[from] {
		return false
	}
	seen[from] = true
	for _, base := range t.bases[from] {
		if base == target || t.ancestorSearch(base, target, seen) {
			return true
		}
	}
	return false
}

// NearestCommonAncestor walks a's ancestry breadth-first, declaration
// order within each level, and returns the first class that b also
// equals or descends from. Breadth-first order keeps the result
// deterministic and as narrow as the declared hierarchy allows.
func (t *Table) NearestCommonAncestor(a, b string) (string, bool) {
	seen := map[string]bool{}
	queue := []string{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if cur == b || t.IsDescendant(b, cur) {
			return cur, true
		}
		queue = append(queue, t.bases[cur]...)
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
