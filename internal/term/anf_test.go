package term

import (
	"context"
	"testing"

	"github.com/akilegaspi/unison/internal/ident"
)

func TestANF_ScenarioFromSpec(t *testing.T) {
	f, g, a := ident.MakeName("f"), ident.MakeName("g"), ident.MakeName("a")
	// ANF(Apply(Var(f), Apply(Var(g), Var(a)), Unboxed(1, Int64))) ->
	// Let(arg0 = Apply(Var(g), Var(a)))(Apply(Var(f), Var(arg0), Unboxed(1, Int64))).
	input := Apply(Var(f), Apply(Var(g), Var(a)), Unboxed(Int64Value(1)))
	got := ANF(context.Background(), input)

	bindName, bindExpr, body, ok := AsLet(got)
	if !ok {
		t.Fatalf("ANF result = %v, want a Let", got)
	}
	if bindName.String() != "arg0" {
		t.Fatalf("ANF binding name = %v, want arg0", bindName)
	}
	innerFn, innerArgs, ok := AsApply(bindExpr)
	if !ok || len(innerArgs) != 1 {
		t.Fatalf("ANF binding expr = %v, want Apply(g, a)", bindExpr)
	}
	if name, ok := innerFn.AsVar(); !ok || !name.Equal(g) {
		t.Fatalf("ANF binding expr callee = %v, want g", innerFn)
	}
	if name, ok := innerArgs[0].AsVar(); !ok || !name.Equal(a) {
		t.Fatalf("ANF binding expr arg = %v, want a", innerArgs[0])
	}

	fn, args, ok := AsApply(body)
	if !ok || len(args) != 2 {
		t.Fatalf("ANF body = %v, want Apply(f, arg0, 1)", body)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(f) {
		t.Fatalf("ANF body callee = %v, want f", fn)
	}
	if name, ok := args[0].AsVar(); !ok || !name.Equal(bindName) {
		t.Fatalf("ANF body first arg = %v, want %v", args[0], bindName)
	}
	if v, ok := AsUnboxed(args[1]); !ok || v.IntValue != 1 {
		t.Fatalf("ANF body second arg = %v, want Unboxed(1)", args[1])
	}
}

func TestANF_NonTrivialCalleeGetsNamed(t *testing.T) {
	g, a, b := ident.MakeName("g"), ident.MakeName("a"), ident.MakeName("b")
	// Apply(Apply(Var(g), Var(a)), Var(b)) — a non-trivial callee (itself
	// an Apply) must be let-bound before being called.
	input := Apply(Apply(Var(g), Var(a)), Var(b))
	got := ANF(context.Background(), input)

	name, expr, body, ok := AsLet(got)
	if !ok {
		t.Fatalf("ANF result = %v, want a Let", got)
	}
	fn, args, ok := AsApply(expr)
	if !ok || len(args) != 1 || func() bool { n, ok := fn.AsVar(); return !ok || !n.Equal(g) }() {
		t.Fatalf("ANF let-binding expr = %v, want Apply(g, a)", expr)
	}
	innerFn, innerArgs, ok := AsApply(body)
	if !ok || len(innerArgs) != 1 {
		t.Fatalf("ANF body = %v, want Apply(<fresh>, b)", body)
	}
	if n, ok := innerFn.AsVar(); !ok || !n.Equal(name) {
		t.Fatalf("ANF body callee = %v, want the fresh binding %v", innerFn, name)
	}
	if n, ok := innerArgs[0].AsVar(); !ok || !n.Equal(b) {
		t.Fatalf("ANF body arg = %v, want b", innerArgs[0])
	}
}

func TestANF_TrivialArgsLeftAlone(t *testing.T) {
	f, x := ident.MakeName("f"), ident.MakeName("x")
	input := Apply(Var(f), Var(x), Unboxed(BoolValue(true)))
	got := ANF(context.Background(), input)
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 2 {
		t.Fatalf("ANF with only trivial args should not introduce a Let, got %v", got)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(f) {
		t.Fatalf("ANF callee = %v, want f", fn)
	}
}
