package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// Curry rewrites every multi-argument Lam/Apply pair into a chain of
// single-argument Lam/Apply nodes: Lam([x1,...,xn], body) becomes
// Lam([x1], Lam([x2], ... Lam([xn], Curry(body)))), and a matching
// Apply(fn, a1, ..., an) becomes a left-associated chain of unary
// applications. Every other node recurses structurally.
func Curry(t *abt.Node) *abt.Node {
	switch t.Kind() {
	case abt.KindVar:
		return t
	case abt.KindAbs:
		name, body, _ := t.AsAbs()
		return absNode(name, Curry(body))
	case abt.KindTm:
		if body, ok := AsLam(t); ok {
			return curryLamBody(body)
		}
		if fn, args, ok := AsApply(t); ok {
			return curryApply(fn, args)
		}
		shape, _ := t.AsTm()
		return tm(shape.MapChildren(Curry))
	default:
		return t
	}
}

// curryLamBody walks a Lam's Abs chain, re-wrapping each bound name in
// its own single-argument Lam around the recursively curried remainder.
func curryLamBody(body *abt.Node) *abt.Node {
	name, inner, ok := body.AsAbs()
	if !ok {
		return Curry(body)
	}
	return Lam([]ident.Name{name}, curryLamBody(inner))
}

// curryApply left-associates a multi-argument application into a chain
// of unary Apply nodes: Apply(fn, a1, a2, a3) becomes
// Apply(Apply(Apply(fn, a1), a2), a3).
func curryApply(fn *abt.Node, args []*abt.Node) *abt.Node {
	cur := Curry(fn)
	for _, a := range args {
		cur = Apply(cur, Curry(a))
	}
	return cur
}
