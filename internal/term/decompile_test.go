package term

import (
	"context"
	"testing"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// stubValue is a minimal Value used only by these tests: its identity is
// its pointer, which is what fullyDecompile keys its ref→body map on.
type stubValue struct {
	ref      bool
	referent *stubValue
	unboxed  UnboxedValue
	hasUnbox bool
	term     *abt.Node
	hasTerm  bool
}

func (v *stubValue) IsReference() bool { return v.ref }
func (v *stubValue) Dereference() (Value, bool) {
	if !v.ref || v.referent == nil {
		return nil, false
	}
	return v.referent, true
}
func (v *stubValue) Unboxed() (UnboxedValue, bool) { return v.unboxed, v.hasUnbox }
func (v *stubValue) Term() (*abt.Node, bool)       { return v.term, v.hasTerm }

func TestFullyDecompile_ReferenceBecomesLetRecBinding(t *testing.T) {
	x := ident.MakeName("x")
	refName := ident.MakeName("r")
	closure := &stubValue{unboxed: Int64Value(5), hasUnbox: true}
	ref := &stubValue{ref: true, referent: closure}

	got := FullyDecompile(context.Background(), Apply(Var(x), Compiled(ref, refName)))

	bindings, body, ok := AsLetRec(got)
	if !ok {
		t.Fatalf("FullyDecompile result = %v, want a LetRec", got)
	}
	if len(bindings) != 1 || !bindings[0].Name.Equal(refName) {
		t.Fatalf("LetRec bindings = %v, want one binding named %v", bindings, refName)
	}
	if v, ok := AsUnboxed(bindings[0].Expr); !ok || v.IntValue != 5 {
		t.Fatalf("LetRec binding expr = %v, want Unboxed(5)", bindings[0].Expr)
	}
	fn, args, ok := AsApply(body)
	if !ok || len(args) != 1 {
		t.Fatalf("LetRec body = %v, want Apply(x, r)", body)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("LetRec body callee = %v, want x", fn)
	}
	if name, ok := args[0].AsVar(); !ok || !name.Equal(refName) {
		t.Fatalf("LetRec body arg = %v, want the reference's fresh name %v", args[0], refName)
	}
}

func TestFullyDecompile_SelfReferenceBecomesLetRecCycle(t *testing.T) {
	name := ident.MakeName("a")
	op := ident.MakeName("op")
	ref := &stubValue{ref: true}
	closure := &stubValue{hasTerm: true}
	ref.referent = closure
	// closure's own code calls back through the same reference: a cycle
	// in the value world that fullyDecompile must turn into a LetRec
	// binding that refers to itself.
	closure.term = Apply(Var(op), Compiled(ref, name))

	got := FullyDecompile(context.Background(), Compiled(ref, name))

	bindings, body, ok := AsLetRec(got)
	if !ok {
		t.Fatalf("FullyDecompile result = %v, want a LetRec", got)
	}
	if len(bindings) != 1 {
		t.Fatalf("LetRec bindings = %v, want exactly one", bindings)
	}
	bindName := bindings[0].Name
	fn, args, ok := AsApply(bindings[0].Expr)
	if !ok || len(args) != 1 {
		t.Fatalf("self-referential binding expr = %v, want Apply(op, <self>)", bindings[0].Expr)
	}
	if n, ok := fn.AsVar(); !ok || !n.Equal(op) {
		t.Fatalf("binding expr callee = %v, want op", fn)
	}
	if n, ok := args[0].AsVar(); !ok || !n.Equal(bindName) {
		t.Fatalf("binding expr should refer back to itself (%v), got %v", bindName, args[0])
	}
	if n, ok := body.AsVar(); !ok || !n.Equal(bindName) {
		t.Fatalf("continuation = %v, want Var(%v)", body, bindName)
	}
}

func TestFullyDecompile_InlineValueExpandedWithoutBinding(t *testing.T) {
	x, y := ident.MakeName("x"), ident.MakeName("y")
	inline := &stubValue{hasTerm: true, term: Var(y)}

	got := FullyDecompile(context.Background(), Apply(Var(x), Compiled(inline, ident.MakeName("unused"))))

	if _, _, ok := AsLetRec(got); ok {
		t.Fatalf("FullyDecompile should not wrap a LetRec when no reference was collected, got %v", got)
	}
	fn, args, ok := AsApply(got)
	if !ok || len(args) != 1 {
		t.Fatalf("FullyDecompile result = %v, want Apply(x, y)", got)
	}
	if name, ok := fn.AsVar(); !ok || !name.Equal(x) {
		t.Fatalf("callee = %v, want x", fn)
	}
	if name, ok := args[0].AsVar(); !ok || !name.Equal(y) {
		t.Fatalf("inline value should have been spliced in as y, got %v", args[0])
	}
}

func TestFullyDecompile_UnboxedLeafSplicedInline(t *testing.T) {
	literal := &stubValue{unboxed: BoolValue(true), hasUnbox: true}
	got := FullyDecompile(context.Background(), Compiled(literal, ident.MakeName("unused")))
	v, ok := AsUnboxed(got)
	if !ok || !v.BoolValue {
		t.Fatalf("FullyDecompile(Compiled(<true>)) = %v, want Unboxed(true)", got)
	}
}

func TestFullyDecompile_BinderNamesReserved(t *testing.T) {
	x := ident.MakeName("x")
	ref := &stubValue{ref: true}
	// The reference's own decompiled body happens to bind the same name
	// ("x") as the freshening target — usedNames must include binder
	// names inside collected bodies, not just their free variables
	// (which here is the empty set), or the fresh name would collide.
	closure := &stubValue{hasTerm: true, term: Lam([]ident.Name{x}, Var(x))}
	ref.referent = closure

	got := FullyDecompile(context.Background(), Compiled(ref, x))

	bindings, body, ok := AsLetRec(got)
	if !ok {
		t.Fatalf("FullyDecompile result = %v, want a LetRec", got)
	}
	if bindings[0].Name.Equal(x) {
		t.Fatalf("freshened reference name collides with the binder inside its own body: got %v", bindings[0].Name)
	}
	lamBody, ok := AsLam(bindings[0].Expr)
	if !ok {
		t.Fatalf("binding expr = %v, want the untouched Lam", bindings[0].Expr)
	}
	innerName, _, ok := lamBody.AsAbs()
	if !ok || !innerName.Equal(x) {
		t.Fatalf("inner Lam binder should remain x, got %v", innerName)
	}
	if name, ok := body.AsVar(); !ok || !name.Equal(bindings[0].Name) {
		t.Fatalf("continuation = %v, want Var(%v)", body, bindings[0].Name)
	}
}

func TestStripOuterCompiled(t *testing.T) {
	v := &stubValue{unboxed: Int64Value(1), hasUnbox: true}
	param, ok := StripOuterCompiled(Compiled(v, ident.MakeName("n")))
	if !ok || param != Value(v) {
		t.Fatalf("StripOuterCompiled = %v/%v, want the embedded Value", param, ok)
	}
	if _, ok := StripOuterCompiled(Var(ident.MakeName("x"))); ok {
		t.Fatalf("StripOuterCompiled should fail on a non-Compiled node")
	}
}
