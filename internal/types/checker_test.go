package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
)

func ann(text string, line int) Annotation {
	return Annotation{Text: text, Span: diag.Span{Filename: "payroll.yaml", Line: line, Column: 1}}
}

func annp(text string, line int) *Annotation {
	a := ann(text, line)
	return &a
}

// payrollModule builds the module most driver tests run against.
func payrollModule() *Module {
	return &Module{
		Name:  "payroll",
		Scope: employeeScope(),
		Funcs: []FuncDef{
			{
				Name:   "greet",
				Params: []Param{{Name: "e", Annotation: annp("Employee", 2)}},
				Return: annp("str", 2),
				Span:   diag.Span{Filename: "payroll.yaml", Line: 2, Column: 1},
			},
			{
				Name:   "notify",
				Params: []Param{{Name: "who", Annotation: annp("Union[Employee, Sequence[Employee]]", 5)}},
				Return: annp("None", 5),
				Span:   diag.Span{Filename: "payroll.yaml", Line: 5, Column: 1},
			},
			{
				Name:   "first",
				Params: []Param{{Name: "l", Annotation: annp("Sequence[T]", 8)}},
				Return: annp("T", 8),
				Span:   diag.Span{Filename: "payroll.yaml", Line: 8, Column: 1},
			},
		},
	}
}

func check(t *testing.T, mod *Module) []diag.Diagnostic {
	t.Helper()
	c := NewChecker(testHierarchy(), config.Default())
	diags, err := c.Check(mod)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, c.Phase(), "checker returns to idle after a pass")
	return diags
}

func TestCheckCleanCalls(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "greet", Args: []Annotation{ann("Manager", 10)}, Span: diag.Span{Line: 10}},
		{Callee: "notify", Args: []Annotation{ann("Union[Employee, Sequence[Employee]]", 11)}, Span: diag.Span{Line: 11}},
		{Callee: "first", Args: []Annotation{ann("Sequence[Employee]", 12)}, Span: diag.Span{Line: 12}},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckUnionArgumentAgainstNarrowParam(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{
			Callee: "greet",
			Args:   []Annotation{ann("Union[Employee, Sequence[Employee]]", 10)},
			Span:   diag.Span{Filename: "payroll.yaml", Line: 10, Column: 3},
		},
	}

	diags := check(t, mod)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeCompatibilityMismatch, diags[0].Code)
	assert.Equal(t, "Employee", diags[0].Expected)
	assert.Equal(t, "Union[Employee, Sequence[Employee]]", diags[0].Actual)
	assert.Equal(t, "Sequence[Employee]", diags[0].Detail, "narrowest diverging member")
	assert.Equal(t, 10, diags[0].Span.Line)
}

func TestCheckSameUnionAgainstUnionParamPasses(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "notify", Args: []Annotation{ann("Union[Employee, Sequence[Employee]]", 10)}},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckGenericCallBindsAndChecks(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		// T binds to Employee; List[Manager] is a Sequence[Employee].
		{Callee: "first", Args: []Annotation{ann("List[Manager]", 10)}},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckConstraintViolation(t *testing.T) {
	mod := payrollModule()
	mod.Funcs = append(mod.Funcs, FuncDef{
		Name:   "upper",
		Params: []Param{{Name: "s", Annotation: annp("AnyStr", 14)}},
		Return: annp("AnyStr", 14),
	})
	mod.Calls = []CallSite{
		{Callee: "upper", Args: []Annotation{ann("int", 20)}, Span: diag.Span{Line: 20}},
	}

	diags := check(t, mod)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.CodeConstraintViolation, diags[0].Code)
	assert.Contains(t, diags[0].Message, "AnyStr")
	require.Len(t, diags[0].Notes, 1)
	assert.Equal(t, "declared constraints: str, bytes", diags[0].Notes[0])
}

func TestCheckUnannotatedCodeIsAlwaysValid(t *testing.T) {
	mod := &Module{
		Name:  "legacy",
		Scope: NewScope(nil),
		Funcs: []FuncDef{
			{Name: "mystery", Params: []Param{{Name: "a"}, {Name: "b"}}},
		},
		Calls: []CallSite{
			{Callee: "mystery", Args: []Annotation{ann("int", 3), ann("str", 3)}},
		},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckUnknownCallee(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "missing", Span: diag.Span{Line: 9}},
	}

	diags := check(t, mod)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownCallee, diags[0].Code)
}

func TestCheckArityMismatch(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "greet", Args: []Annotation{ann("Employee", 9), ann("Employee", 9)}, Span: diag.Span{Line: 9}},
		{Callee: "greet", Span: diag.Span{Line: 10}},
	}

	diags := check(t, mod)
	require.Len(t, diags, 2)
	assert.Equal(t, diag.CodeArityMismatch, diags[0].Code)
	assert.Equal(t, diag.CodeArityMismatch, diags[1].Code)
}

func TestCheckDefaultedParamMayBeOmitted(t *testing.T) {
	mod := payrollModule()
	mod.Funcs = append(mod.Funcs, FuncDef{
		Name: "page",
		Params: []Param{
			{Name: "e", Annotation: annp("Employee", 16)},
			{Name: "urgent", Annotation: annp("bool", 16), HasDefault: true},
		},
	})
	mod.Calls = []CallSite{
		{Callee: "page", Args: []Annotation{ann("Employee", 20)}},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckNoneDefaultAcceptsNoneArgument(t *testing.T) {
	mod := payrollModule()
	mod.Funcs = append(mod.Funcs, FuncDef{
		Name: "assign",
		Params: []Param{
			{Name: "boss", Annotation: annp("Manager", 16), HasDefault: true, DefaultIsNone: true},
		},
	})
	mod.Calls = []CallSite{
		{Callee: "assign", Args: []Annotation{ann("None", 21)}},
	}
	assert.Empty(t, check(t, mod))
}

func TestCheckResolutionDiagnosticsSurface(t *testing.T) {
	mod := payrollModule()
	mod.Funcs = append(mod.Funcs, FuncDef{
		Name:   "bad",
		Params: []Param{{Name: "x", Annotation: annp("Nonexistent", 18)}},
	})
	mod.Calls = []CallSite{
		// The parameter degraded to Any, so the call itself is fine.
		{Callee: "bad", Args: []Annotation{ann("int", 22)}},
	}

	diags := check(t, mod)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnresolvedName, diags[0].Code)
}

func TestCheckDiagnosticsAreOrdered(t *testing.T) {
	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "greet", Args: []Annotation{ann("int", 30)}, Span: diag.Span{Filename: "payroll.yaml", Line: 30}},
		{Callee: "greet", Args: []Annotation{ann("int", 20)}, Span: diag.Span{Filename: "payroll.yaml", Line: 20}},
	}

	diags := check(t, mod)
	require.Len(t, diags, 2)
	assert.Equal(t, 20, diags[0].Span.Line)
	assert.Equal(t, 30, diags[1].Span.Line)
}

func TestCheckRejectsOverlappingPass(t *testing.T) {
	c := NewChecker(testHierarchy(), config.Default())
	mod := payrollModule()

	// Simulate a pass caught mid-flight on the same checker.
	c.phase.Store(int32(PhaseCheckingCallSites))
	_, err := c.Check(mod)
	assert.ErrorIs(t, err, ErrPassInProgress)

	// Once the in-flight pass finishes, the checker accepts work again.
	c.phase.Store(int32(PhaseIdle))
	_, err = c.Check(mod)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestCheckerIsReusableSequentially(t *testing.T) {
	c := NewChecker(testHierarchy(), config.Default())

	mod := payrollModule()
	mod.Calls = []CallSite{
		{Callee: "greet", Args: []Annotation{ann("int", 10)}, Span: diag.Span{Line: 10}},
	}

	first, err := c.Check(mod)
	require.NoError(t, err)
	second, err := c.Check(mod)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second), "passes are independent")
}

func TestPhaseStrings(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "resolving-signatures", PhaseResolvingSignatures.String())
	assert.Equal(t, "checking-call-sites", PhaseCheckingCallSites.String())
	assert.Equal(t, "reporting", PhaseReporting.String())
}
