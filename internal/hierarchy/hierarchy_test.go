package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// employees builds the hierarchy used across the checker tests:
//
//	object
//	└── Employee
//	    ├── Manager
//	    │   └── Director
//	    └── Engineer
func employees() *Table {
	t := NewTable()
	t.Declare("object")
	t.Declare("Employee", "object")
	t.Declare("Manager", "Employee")
	t.Declare("Engineer", "Employee")
	t.Declare("Director", "Manager")
	return t
}

func TestIsDescendant(t *testing.T) {
	h := employees()
	assert.True(t, h.IsDescendant("Manager", "Employee"))
	assert.True(t, h.IsDescendant("Director", "Employee"))
	assert.True(t, h.IsDescendant("Director", "object"))
	assert.False(t, h.IsDescendant("Employee", "Manager"))
	assert.False(t, h.IsDescendant("Engineer", "Manager"))
}

func TestIsDescendantIsStrict(t *testing.T) {
	h := employees()
	assert.False(t, h.IsDescendant("Employee", "Employee"))
}

func TestNearestCommonAncestorSiblings(t *testing.T) {
	h := employees()
	nca, ok := h.NearestCommonAncestor("Manager", "Engineer")
	assert.True(t, ok)
	assert.Equal(t, "Employee", nca)
}

func TestNearestCommonAncestorOfRelated(t *testing.T) {
	h := employees()
	nca, ok := h.NearestCommonAncestor("Director", "Manager")
	assert.True(t, ok)
	assert.Equal(t, "Manager", nca)

	nca, ok = h.NearestCommonAncestor("Manager", "Director")
	assert.True(t, ok)
	assert.Equal(t, "Manager", nca)
}

func TestNearestCommonAncestorSelf(t *testing.T) {
	h := employees()
	nca, ok := h.NearestCommonAncestor("Manager", "Manager")
	assert.True(t, ok)
	assert.Equal(t, "Manager", nca)
}

func TestNearestCommonAncestorNone(t *testing.T) {
	h := NewTable()
	h.Declare("A")
	h.Declare("B")
	_, ok := h.NearestCommonAncestor("A", "B")
	assert.False(t, ok)
}

func TestNearestCommonAncestorMultipleInheritance(t *testing.T) {
	h := NewTable()
	h.Declare("object")
	h.Declare("Reader", "object")
	h.Declare("Writer", "object")
	h.Declare("File", "Reader", "Writer")
	h.Declare("Socket", "Reader", "Writer")

	// Declaration order breaks the tie deterministically.
	nca, ok := h.NearestCommonAncestor("File", "Socket")
	assert.True(t, ok)
	assert.Equal(t, "Reader", nca)
}

func TestDeclareMergesBases(t *testing.T) {
	h := NewTable()
	h.Declare("C", "A")
	h.Declare("C", "B")
	h.Declare("C", "A") // duplicate, ignored
	assert.True(t, h.Knows("C"))
	assert.True(t, h.IsDescendant("C", "A"))
	assert.True(t, h.IsDescendant("C", "B"))
}

func TestCyclicDeclarationsDoNotHang(t *testing.T) {
	h := NewTable()
	h.Declare("A", "B")
	h.Declare("B", "A")
	assert.True(t, h.IsDescendant("A", "B"))
	assert.True(t, h.IsDescendant("B", "A"))
	_, ok := h.NearestCommonAncestor("A", "B")
	assert.True(t, ok)
}

func TestClassesSorted(t *testing.T) {
	h := employees()
	assert.Equal(t, []string{"Director", "Employee", "Engineer", "Manager", "object"}, h.Classes())
}
