package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/types"
)

const payrollYAML = `module: payroll
classes:
  - name: Employee
    bases: [object]
  - name: Manager
    bases: [Employee]
typevars:
  - name: AnyStr
    constraints: [str, bytes]
aliases:
  - name: Staff
    type: Sequence[Employee]
functions:
  - name: greet
    params:
      - name: e
        type: Employee
    return: str
  - name: assign
    params:
      - name: boss
        type: Manager
        default: "None"
calls:
  - callee: greet
    args: [Manager]
  - callee: greet
    args: [int]
`

func parsePayroll(t *testing.T) *Module {
	t.Helper()
	m, err := Parse([]byte(payrollYAML), "payroll.yaml")
	require.NoError(t, err)
	return m
}

func TestParseFields(t *testing.T) {
	m := parsePayroll(t)

	assert.Equal(t, "payroll", m.Name)
	assert.Equal(t, "payroll.yaml", m.Path)
	require.Len(t, m.Classes, 2)
	assert.Equal(t, []string{"Employee"}, m.Classes[1].Bases)
	require.Len(t, m.TypeVars, 1)
	assert.Equal(t, []string{"str", "bytes"}, m.TypeVars[0].Constraints)
	require.Len(t, m.Aliases, 1)
	require.Len(t, m.Functions, 2)
	require.Len(t, m.Calls, 2)
}

func TestParseCapturesPositions(t *testing.T) {
	m := parsePayroll(t)

	require.Len(t, m.Functions, 2)
	assert.Greater(t, m.Functions[0].Line, 0)
	assert.Greater(t, m.Functions[1].Line, m.Functions[0].Line)
	require.Len(t, m.Functions[0].Params, 1)
	assert.Greater(t, m.Functions[0].Params[0].Line, m.Functions[0].Line)
	assert.Greater(t, m.Calls[1].Line, m.Calls[0].Line)
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	_, err := Parse(nil, "empty.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = Parse([]byte("module: [unclosed"), "bad.yaml")
	require.Error(t, err)

	_, err = Parse([]byte("classes:\n  - name: A\n"), "anon.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module name")
}

func TestValidateNames(t *testing.T) {
	cases := []struct {
		name string
		mod  Module
	}{
		{"class", Module{Name: "m", Classes: []Class{{}}}},
		{"typevar", Module{Name: "m", TypeVars: []TypeVar{{}}}},
		{"alias", Module{Name: "m", Aliases: []Alias{{Name: "A"}}}},
		{"function", Module{Name: "m", Functions: []Function{{}}}},
		{"call", Module{Name: "m", Calls: []Call{{}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.mod.Validate())
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(payrollYAML), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "payroll", m.Name)
	assert.Equal(t, path, m.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildHierarchyRegistersUndeclaredBases(t *testing.T) {
	m := parsePayroll(t)
	h := BuildHierarchy(m)

	assert.True(t, h.Knows("object"), "base declared only as a parent")
	assert.True(t, h.IsDescendant("Manager", "Employee"))
	assert.True(t, h.IsDescendant("Manager", "object"))
	assert.False(t, h.IsDescendant("Employee", "Manager"))
}

func TestBuildHierarchyMergesModules(t *testing.T) {
	a := &Module{Name: "a", Classes: []Class{{Name: "Base"}}}
	b := &Module{Name: "b", Classes: []Class{{Name: "Derived", Bases: []string{"Base"}}}}

	h := BuildHierarchy(a, b)
	assert.True(t, h.IsDescendant("Derived", "Base"))
}

func TestProgramConversion(t *testing.T) {
	m := parsePayroll(t)
	mod := m.Program()

	assert.Equal(t, "payroll", mod.Name)
	require.Len(t, mod.Funcs, 2)
	require.Len(t, mod.Calls, 2)

	greet := mod.Funcs[0]
	require.Len(t, greet.Params, 1)
	require.NotNil(t, greet.Params[0].Annotation)
	assert.Equal(t, "Employee", greet.Params[0].Annotation.Text)
	assert.Equal(t, "payroll.yaml", greet.Params[0].Annotation.Span.Filename)
	require.NotNil(t, greet.Return)
	assert.Equal(t, "str", greet.Return.Text)

	assign := mod.Funcs[1]
	assert.True(t, assign.Params[0].HasDefault)
	assert.True(t, assign.Params[0].DefaultIsNone)
	assert.Nil(t, assign.Return)
}

func TestProgramScopeEntries(t *testing.T) {
	m := parsePayroll(t)
	scope := m.Program().Scope

	cls := scope.Lookup("Manager")
	require.NotNil(t, cls)
	assert.Equal(t, types.EntryClass, cls.Kind)

	tv := scope.Lookup("AnyStr")
	require.NotNil(t, tv)
	assert.Equal(t, types.EntryTypeVar, tv.Kind)
	assert.Equal(t, []string{"str", "bytes"}, tv.Constraints)

	alias := scope.Lookup("Staff")
	require.NotNil(t, alias)
	assert.Equal(t, types.EntryAlias, alias.Kind)
	assert.Equal(t, "Sequence[Employee]", alias.Target)
}

func TestManifestThroughChecker(t *testing.T) {
	m := parsePayroll(t)
	h := BuildHierarchy(m)

	diags, err := types.NewChecker(h, config.Default()).Check(m.Program())
	require.NoError(t, err)

	// greet(Manager) passes; greet(int) does not.
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeCompatibilityMismatch, diags[0].Code)
	assert.Equal(t, "payroll.yaml", diags[0].Span.Filename)
}
