package term

import (
	"testing"

	"github.com/akilegaspi/unison/internal/ident"
)

func TestBetaReduce1(t *testing.T) {
	x := ident.MakeName("x")
	got := BetaReduce1(x, Apply(Var(x), Var(x)), Unboxed(Int64Value(7)))
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 1 {
		t.Fatalf("BetaReduce1 result = %v, want Apply(7, 7)", got)
	}
	if v, _ := AsUnboxed(fn); v.IntValue != 7 {
		t.Fatalf("BetaReduce1 callee = %v, want 7", fn)
	}
	if v, _ := AsUnboxed(args[0]); v.IntValue != 7 {
		t.Fatalf("BetaReduce1 argument = %v, want 7", args[0])
	}
}

func TestBetaReduce2_LeftToRightWithShadowing(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	// Apply(Lam(x,y)(Apply(x,y)), y, x) — substituting x:=y first, then
	// y:=x, must not let the second substitution see the first's result
	// (that would collapse both to the same variable).
	got := BetaReduce2(x, y, Apply(Var(x), Var(y)), Var(y), Var(x))
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 1 {
		t.Fatalf("BetaReduce2 result = %v, want Apply(y, x)", got)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(y) {
		t.Fatalf("BetaReduce2 callee = %v, want y", fn)
	}
	if name, ok := args[0].AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("BetaReduce2 argument = %v, want x", args[0])
	}
}

func TestBetaReduce3_AllArgumentsApplied(t *testing.T) {
	x, y, z := ident.MakeName("x"), ident.MakeName("y"), ident.MakeName("z")
	body := Sequence(Var(x), Var(y), Var(z))
	got := BetaReduce3(x, y, z, body,
		Unboxed(Int64Value(1)), Unboxed(Int64Value(2)), Unboxed(Int64Value(3)))
	elems, ok := AsSequence(got)
	if !ok || len(elems) != 3 {
		t.Fatalf("BetaReduce3 result = %v, want a 3-element Sequence", got)
	}
	for i, want := range []int64{1, 2, 3} {
		v, ok := AsUnboxed(elems[i])
		if !ok || v.IntValue != want {
			t.Fatalf("BetaReduce3 element %d = %v, want %d", i, elems[i], want)
		}
	}
}
