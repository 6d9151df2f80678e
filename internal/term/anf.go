package term

import (
	"context"
	"fmt"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/trace"
)

// isTrivialArg reports whether n is already a variable, lambda, or
// unboxed literal — the three forms ANF leaves in place as an Apply
// operand (spec §4.4).
func isTrivialArg(n *abt.Node) bool {
	if _, ok := n.AsVar(); ok {
		return true
	}
	if _, ok := AsLam(n); ok {
		return true
	}
	if _, ok := AsUnboxed(n); ok {
		return true
	}
	return false
}

// isTrivialCallee reports whether n is one of the forms ANF allows as an
// Apply's function position without introducing a binding for it (spec
// §4.4): Var, Lam, Id, Constructor, or Request.
func isTrivialCallee(n *abt.Node) bool {
	if _, ok := n.AsVar(); ok {
		return true
	}
	if _, ok := AsLam(n); ok {
		return true
	}
	if _, ok := AsId(n); ok {
		return true
	}
	if _, ok := AsConstructor(n); ok {
		return true
	}
	if _, ok := AsRequest(n); ok {
		return true
	}
	return false
}

// ANF converts t to A-normal form: every non-trivial Apply operand (and,
// transitively, every non-trivial callee) is named by a fresh Let
// binding, so no Apply node nests another Apply in operand position
// (spec §4.4). It emits one ScopeTransform span on ctx's tracer covering
// the whole call; the recursive descent runs through the unexported anf
// so nested calls don't each open their own span.
func ANF(ctx context.Context, t *abt.Node) *abt.Node {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTransform, "ANF", trace.CurrentSpan(ctx).SpanID)
	result := anf(t)
	span.End("ok")
	return result
}

func anf(t *abt.Node) *abt.Node {
	switch t.Kind() {
	case abt.KindVar:
		return t
	case abt.KindAbs:
		name, body, _ := t.AsAbs()
		return absNode(name, anf(body))
	case abt.KindTm:
		if fn, args, ok := AsApply(t); ok {
			return anfApply(fn, args, t.FreeVars())
		}
		shape, _ := t.AsTm()
		return tm(shape.MapChildren(anf))
	default:
		return t
	}
}

func anfApply(fn *abt.Node, args []*abt.Node, outerFree ident.Set) *abt.Node {
	if !isTrivialCallee(fn) {
		fresh := ident.Freshen(ident.MakeName("f"), outerFree)
		return Let([]Binding{{Name: fresh, Expr: anf(fn)}}, anf(Apply(Var(fresh), args...)))
	}

	taken := outerFree
	var bindings []Binding
	sanitized := make([]*abt.Node, len(args))
	bindingIdx := 0
	for i, a := range args {
		if isTrivialArg(a) {
			sanitized[i] = a
			continue
		}
		base := ident.MakeName(fmt.Sprintf("arg%d", bindingIdx))
		fresh := ident.Freshen(base, taken)
		bindingIdx++
		taken = taken.Add(fresh)
		bindings = append(bindings, Binding{Name: fresh, Expr: anf(a)})
		sanitized[i] = Var(fresh)
	}

	result := Apply(fn, sanitized...)
	if len(bindings) == 0 {
		return result
	}
	return Let(bindings, result)
}
