package testkit

import (
	"testing"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/term"
)

func TestCheckFreeVarsInvariant_HoldsForWellFormedTerms(t *testing.T) {
	x, f, y := ident.MakeName("x"), ident.MakeName("f"), ident.MakeName("y")
	n := term.Lam([]ident.Name{x}, term.Apply(term.Var(f), term.Var(x), term.Var(y)))
	if err := CheckFreeVarsInvariant(n); err != nil {
		t.Fatalf("CheckFreeVarsInvariant failed on a well-formed term: %v", err)
	}
}

func TestCheckFreeVarsInvariant_CatchesStaleAnnotation(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	good := term.Var(x)
	stale := abt.Var(y, good.Annotation())
	if err := CheckFreeVarsInvariant(stale); err == nil {
		t.Fatalf("CheckFreeVarsInvariant should reject a Var node carrying another name's annotation")
	}
}

func TestCheckAnnotationInvariant_HoldsForWellFormedTerms(t *testing.T) {
	x := ident.MakeName("x")
	n := term.Lam([]ident.Name{x}, term.Var(x))
	if err := CheckAnnotationInvariant(n); err != nil {
		t.Fatalf("CheckAnnotationInvariant failed: %v", err)
	}
}

// absChain builds a raw Abs chain (not wrapped in a Lam Tm node), the
// shape a MatchCase.Body must have for its leading binders to be visible
// to abt.AbsChain.
func absChain(names []ident.Name, body *abt.Node) *abt.Node {
	wrapped := body
	for i := len(names) - 1; i >= 0; i-- {
		wrapped = abt.Abs(names[i], wrapped, abt.Annotation{Free: wrapped.FreeVars().Without(names[i])})
	}
	return wrapped
}

func TestCheckAbsChainArity_HoldsWhenBodyBindsExactlyPatternArity(t *testing.T) {
	scrut, x, y := ident.MakeName("scrut"), ident.MakeName("x"), ident.MakeName("y")
	m := term.Match(term.Var(scrut),
		term.MatchCase{Pattern: term.Pattern{Names: []ident.Name{x, y}}, Body: absChain([]ident.Name{x, y}, term.Var(x))},
	)
	if err := CheckAbsChainArity(m); err != nil {
		t.Fatalf("CheckAbsChainArity failed on a correctly-shaped case: %v", err)
	}
}

func TestCheckAbsChainArity_CatchesArityMismatch(t *testing.T) {
	// term.Match itself panics on an arity mismatch at construction time,
	// so a malformed case has to be assembled the way the codec's decode
	// path does: a raw MatchData wrapped directly via abt.Tm, bypassing
	// the smart constructor. CheckAbsChainArity exists to catch exactly
	// this kind of term, however it was produced.
	scrut, x, y := ident.MakeName("scrut"), ident.MakeName("x"), ident.MakeName("y")
	mismatched := term.MatchCase{Pattern: term.Pattern{Names: []ident.Name{x, y}}, Body: absChain([]ident.Name{x}, term.Var(x))}
	shape := term.MatchData{Scrut: term.Var(scrut), Cases: []term.MatchCase{mismatched}}
	var free ident.Set
	for _, c := range shape.ToSequence() {
		free = free.Union(c.FreeVars())
	}
	m := abt.Tm(shape, abt.Annotation{Free: free})
	if err := CheckAbsChainArity(m); err == nil {
		t.Fatalf("CheckAbsChainArity should reject a case whose body binds fewer names than its pattern's arity")
	}
}
