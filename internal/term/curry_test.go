package term

import (
	"testing"

	"github.com/akilegaspi/unison/internal/ident"
)

func TestCurry_MultiArgLamBecomesChain(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	got := Curry(Lam([]ident.Name{x, y}, Apply(Var(x), Var(y))))

	outerBody, ok := AsLam(got)
	if !ok {
		t.Fatalf("Curry result = %v, want a Lam", got)
	}
	n1, rest, ok := outerBody.AsAbs()
	if !ok || !n1.Equal(x) {
		t.Fatalf("Curry outer binder = %v, want x", n1)
	}
	innerBody, ok := AsLam(rest)
	if !ok {
		t.Fatalf("Curry's first-argument body = %v, want a single-argument Lam", rest)
	}
	n2, innerRest, ok := innerBody.AsAbs()
	if !ok || !n2.Equal(y) {
		t.Fatalf("Curry inner binder = %v, want y", n2)
	}
	fn, args, ok := AsApply(innerRest)
	if !ok || len(args) != 1 {
		t.Fatalf("Curry innermost body = %v, want Apply(x, y)", innerRest)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("Curry innermost callee = %v, want x", fn)
	}
}

func TestCurry_MultiArgApplyBecomesLeftAssociatedChain(t *testing.T) {
	f, a, b, c := ident.MakeName("f"), ident.MakeName("a"), ident.MakeName("b"), ident.MakeName("c")
	got := Curry(Apply(Var(f), Var(a), Var(b), Var(c)))

	fn1, args1, ok := AsApply(got)
	if !ok || len(args1) != 1 {
		t.Fatalf("outer Curry Apply = %v, want unary", got)
	}
	if name, ok := args1[0].AsVar(); !ok || !name.Equal(c) {
		t.Fatalf("outermost arg = %v, want c", args1[0])
	}
	fn2, args2, ok := AsApply(fn1)
	if !ok || len(args2) != 1 {
		t.Fatalf("middle Curry Apply = %v, want unary", fn1)
	}
	if name, ok := args2[0].AsVar(); !ok || !name.Equal(b) {
		t.Fatalf("middle arg = %v, want b", args2[0])
	}
	fn3, args3, ok := AsApply(fn2)
	if !ok || len(args3) != 1 {
		t.Fatalf("innermost Curry Apply = %v, want unary", fn2)
	}
	if name, ok := args3[0].AsVar(); !ok || !name.Equal(a) {
		t.Fatalf("innermost arg = %v, want a", args3[0])
	}
	if name, ok := fn3.AsVar(); !ok || !name.Equal(f) {
		t.Fatalf("curried callee = %v, want f", fn3)
	}
}

func TestCurry_RecursesIntoOtherShapes(t *testing.T) {
	x, y, z := ident.MakeName("x"), ident.MakeName("y"), ident.MakeName("z")
	input := If(Var(x), Apply(Var(y), Var(z)), Var(x))
	got := Curry(input)
	cond, then, els, ok := AsIf(got)
	if !ok {
		t.Fatalf("Curry should recurse through If, got %v", got)
	}
	if name, ok := cond.AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("If cond = %v, want x", cond)
	}
	if _, args, ok := AsApply(then); !ok || len(args) != 1 {
		t.Fatalf("If then = %v, want a unary Apply", then)
	}
	if name, ok := els.AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("If else = %v, want x", els)
	}
}
