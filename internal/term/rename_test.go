package term

import (
	"context"
	"testing"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

func TestSubst_NoOpWhenNameNotFree(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	body := Var(y)
	got := Subst(context.Background(), x, Unboxed(Int64Value(9)), body)
	if got != body {
		t.Fatalf("Subst on absent name should return t unchanged, got a new node")
	}
}

func TestSubst_ReplacesFreeOccurrences(t *testing.T) {
	x := ident.MakeName("x")
	s := Unboxed(Int64Value(42))
	got := Subst(context.Background(), x, s, Apply(Var(x), Var(x)))
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 1 {
		t.Fatalf("Subst result = %v, want Apply(42, 42)", got)
	}
	if v, ok := AsUnboxed(fn); !ok || v.IntValue != 42 {
		t.Fatalf("Subst did not replace callee, got %v", fn)
	}
	for _, a := range args {
		if v, ok := AsUnboxed(a); !ok || v.IntValue != 42 {
			t.Fatalf("Subst did not replace argument, got %v", a)
		}
	}
}

func TestSubst_AvoidsCaptureUnderLam(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	// subst(x, y, Lam([y], Apply(x, y))) must rename the binder so the
	// substituted y doesn't get captured by Lam's own y.
	t_ := Lam([]ident.Name{y}, Apply(Var(x), Var(y)))
	got := Subst(context.Background(), x, Var(y), t_)

	body, ok := AsLam(got)
	if !ok {
		t.Fatal("result is not a Lam")
	}
	boundName, inner, ok := body.AsAbs()
	if !ok {
		t.Fatal("Lam body has no Abs binder")
	}
	if boundName.Equal(y) {
		t.Fatalf("capture-avoiding subst should have renamed the binder away from y, got %v", boundName)
	}
	fn, args, ok := AsApply(inner)
	if !ok || len(args) != 1 {
		t.Fatalf("Lam body = %v, want Apply(y, <renamed>)", inner)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(y) {
		t.Fatalf("substituted callee = %v, want y", fn)
	}
	if name, ok := args[0].AsVar(); !ok || !name.Equal(boundName) {
		t.Fatalf("argument = %v, want the renamed binder %v", args[0], boundName)
	}
}

func TestSubst_FreeVarsEquation(t *testing.T) {
	x, y, z := ident.MakeName("x"), ident.MakeName("y"), ident.MakeName("z")
	s := Var(z)
	term := Apply(Var(x), Var(y))

	got := Subst(context.Background(), x, s, term)
	want := names(term.FreeVars())
	delete(want, "x")
	want["z"] = true

	if gotNames := names(got.FreeVars()); len(gotNames) != len(want) {
		t.Fatalf("freeVars(subst(x,s,t)) = %v, want %v", gotNames, want)
	} else {
		for n := range want {
			if !gotNames[n] {
				t.Fatalf("freeVars(subst(x,s,t)) = %v, want %v", gotNames, want)
			}
		}
	}
}

func TestRename_OnlyTouchesFreeOccurrences(t *testing.T) {
	x, y, z := ident.MakeName("x"), ident.MakeName("y"), ident.MakeName("z")
	// Lam([x], Apply(x, y)) — x here is bound, so renaming free x→z must
	// not touch it.
	shadowed := Lam([]ident.Name{x}, Apply(Var(x), Var(y)))
	got := Rename(x, z, shadowed)
	body, _ := AsLam(got)
	boundName, inner, _ := body.AsAbs()
	if !boundName.Equal(x) {
		t.Fatalf("Rename touched the shadowing binder: got %v, want x", boundName)
	}
	fn, _, _ := AsApply(inner)
	if name, _ := fn.AsVar(); !name.Equal(x) {
		t.Fatalf("Rename touched the bound occurrence: got %v, want x", name)
	}
}

func TestSubsts_ParallelNotSequential(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	// substs({x:y, y:x}, Apply(x,y)) must swap, not collapse to one name
	// as a sequential subst(x,y) then subst(y,x) would.
	got := Substs(map[ident.Name]*abt.Node{x: Var(y), y: Var(x)}, Apply(Var(x), Var(y)))
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 1 {
		t.Fatalf("Substs result = %v, want Apply(y, x)", got)
	}
	if name, _ := fn.AsVar(); !name.Equal(y) {
		t.Fatalf("callee after parallel substs = %v, want y", name)
	}
	if name, _ := args[0].AsVar(); !name.Equal(x) {
		t.Fatalf("argument after parallel substs = %v, want x", name)
	}
}
