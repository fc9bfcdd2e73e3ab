package types

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
)

// Phase is the checker's position in a single checking pass.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseResolvingSignatures
	PhaseCheckingCallSites
	PhaseReporting
)

func (p Phase) String() string {
	switch p {
	case PhaseResolvingSignatures:
		return "resolving-signatures"
	case PhaseCheckingCallSites:
		return "checking-call-sites"
	case PhaseReporting:
		return "reporting"
	default:
		return "idle"
	}
}

// ErrPassInProgress is returned when Check is invoked while another pass
// is still running on the same checker. A pass must complete or be
// abandoned before the next starts, so no caller ever observes
// partially-resolved forward references.
var ErrPassInProgress = errors.New("checking pass already in progress")

// Checker drives a best-effort checking pass over a module: it resolves
// every signature, then checks every call site, accumulating diagnostics.
// Absence of information is never an error; only explicit conflicts are.
type Checker struct {
	oracle hierarchy.Oracle
	opts   config.Options
	solver *Solver
	compat *Compat

	phase atomic.Int32
}

// NewChecker creates a checker over a fully built, read-only hierarchy.
func NewChecker(oracle hierarchy.Oracle, opts config.Options) *Checker {
	return &Checker{
		oracle: oracle,
		opts:   opts,
		solver: NewSolver(oracle, opts),
		compat: NewCompat(oracle, opts),
	}
}

// Phase reports where the checker currently is in its pass.
func (c *Checker) Phase() Phase {
	return Phase(c.phase.Load())
}

// Check runs one complete pass over the module and returns the ordered
// diagnostics. It fails only when invoked while a previous pass on this
// checker has not finished.
func (c *Checker) Check(mod *Module) ([]diag.Diagnostic, error) {
	if !c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseResolvingSignatures)) {
		return nil, ErrPassInProgress
	}
	defer c.phase.Store(int32(PhaseIdle))

	resolver := NewResolver(mod.Scope, c.oracle, c.opts)

	sigs := make(map[string]*Signature, len(mod.Funcs))
	for _, def := range mod.Funcs {
		sigs[def.Name] = resolver.ResolveSignature(def)
	}

	c.phase.Store(int32(PhaseCheckingCallSites))
	var diags []diag.Diagnostic
	for _, call := range mod.Calls {
		diags = append(diags, c.checkCall(call, sigs, resolver)...)
	}

	c.phase.Store(int32(PhaseReporting))
	diags = append(resolver.Diags, diags...)
	diag.Sort(diags)
	return diags, nil
}

func (c *Checker) checkCall(call CallSite, sigs map[string]*Signature, resolver *Resolver) []diag.Diagnostic {
	sig, ok := sigs[call.Callee]
	if !ok {
		return []diag.Diagnostic{{
			Stage:    diag.StageCheck,
			Severity: diag.SeverityError,
			Code:     diag.CodeUnknownCallee,
			Message:  fmt.Sprintf("call to undefined function %s", call.Callee),
			Span:     call.Span,
		}}
	}

	args := make([]Type, len(call.Args))
	for i, a := range call.Args {
		args[i] = resolver.ResolveAnnotation(a)
	}

	var diags []diag.Diagnostic
	if len(args) > len(sig.Params) || len(args) < sig.MinArity() {
		return append(diags, diag.Diagnostic{
			Stage:    diag.StageCheck,
			Severity: diag.SeverityError,
			Code:     diag.CodeArityMismatch,
			Message: fmt.Sprintf("%s takes %d argument(s), got %d",
				call.Callee, len(sig.Params), len(args)),
			Span: call.Span,
		})
	}

	params := make([]Type, len(args))
	for i := range args {
		params[i] = sig.Params[i].Type
	}

	// Generic signatures get their variables bound before the per-argument
	// compatibility check runs against the instantiated parameter types.
	if len(sig.TypeVars()) > 0 {
		sol, violations := c.solver.Solve(sig, args)
		for _, v := range violations {
			d := diag.Diagnostic{
				Stage:    diag.StageCheck,
				Severity: diag.SeverityError,
				Code:     diag.CodeConstraintViolation,
				Message: fmt.Sprintf("argument %d to %s binds %s to %s, which none of its constraints admit",
					v.ParamPos+1, call.Callee, v.Var.Name, v.Matched),
				Span:     call.Span,
				Expected: v.Var.String(),
				Actual:   v.Matched.String(),
			}
			diags = append(diags, d.WithNote("declared constraints: "+renderConstraints(v.Var)))
		}
		for i := range params {
			params[i] = sol.Apply(params[i])
		}
	}

	for i := range args {
		if c.compat.Compatible(args[i], params[i]) {
			continue
		}
		d := diag.Diagnostic{
			Stage:    diag.StageCheck,
			Severity: diag.SeverityError,
			Code:     diag.CodeCompatibilityMismatch,
			Message: fmt.Sprintf("argument %d to %s has incompatible type",
				i+1, call.Callee),
			Span:     call.Span,
			Expected: params[i].String(),
			Actual:   args[i].String(),
		}
		if div := c.compat.Explain(args[i], params[i]); div != nil {
			if !Equal(div.Actual, args[i]) || !Equal(div.Expected, params[i]) {
				d.Detail = div.Actual.String()
			}
		}
		diags = append(diags, d)
	}
	return diags
}

func renderConstraints(v *TypeVar) string {
	var names []string
	for _, c := range v.Constraints {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
