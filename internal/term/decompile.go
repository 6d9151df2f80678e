package term

import (
	"context"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/trace"
)

// FullyDecompile removes every Compiled leaf from t, producing a
// self-contained term (spec §4.5). References become LetRec-bound
// variables — so self-references among the collected bodies surface as
// ordinary LetRec cycles — unboxed payloads are spliced in as literals,
// and inline compiled values are expanded in place. It emits one
// ScopeTransform span on ctx's tracer covering the whole call.
func FullyDecompile(ctx context.Context, t *abt.Node) *abt.Node {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTransform, "fullyDecompile", trace.CurrentSpan(ctx).SpanID)
	result := fullyDecompile(t)
	span.End("ok")
	return result
}

func fullyDecompile(t *abt.Node) *abt.Node {
	bodies := map[Value]*abt.Node{}
	refNames := map[Value]ident.Name{}
	var order []Value

	var collect func(n *abt.Node)
	var collectValue func(v Value)
	collect = func(n *abt.Node) {
		switch n.Kind() {
		case abt.KindVar:
			return
		case abt.KindAbs:
			_, body, _ := n.AsAbs()
			collect(body)
		case abt.KindTm:
			if c, name, ok := AsCompiled(n); ok {
				collectValue(c)
				if c.IsReference() {
					if _, seen := refNames[c]; !seen {
						refNames[c] = name
					}
				}
				return
			}
			shape, _ := n.AsTm()
			for _, child := range shape.ToSequence() {
				collect(child)
			}
		}
	}
	collectValue = func(v Value) {
		if v.IsReference() {
			if _, seen := bodies[v]; seen {
				return
			}
			referent, ok := v.Dereference()
			if !ok {
				return
			}
			body, isTerm := referent.Term()
			if !isTerm {
				if u, isUnboxed := referent.Unboxed(); isUnboxed {
					body = Unboxed(u)
				} else {
					return
				}
			}
			order = append(order, v)
			bodies[v] = body
			collect(body)
			return
		}
		if body, ok := v.Term(); ok {
			collect(body)
		}
	}
	collect(t)

	usedNames := collectAllNames(t)
	for _, v := range order {
		usedNames = usedNames.Union(collectAllNames(bodies[v]))
	}

	fresh := make(map[Value]ident.Name, len(order))
	for _, v := range order {
		name := ident.Freshen(refNames[v], usedNames)
		fresh[v] = name
		usedNames = usedNames.Add(name)
	}

	rewritten := rewriteCompiled(t, fresh)
	if len(order) == 0 {
		return rewritten
	}
	bindings := make([]Binding, len(order))
	for i, v := range order {
		bindings[i] = Binding{Name: fresh[v], Expr: rewriteCompiled(bodies[v], fresh)}
	}
	return LetRec(bindings, rewritten)
}

// rewriteCompiled is step 3's top-down rewrite: every Compiled leaf is
// replaced by a reference variable, a spliced literal, or its own
// recursively-rewritten inline body.
func rewriteCompiled(n *abt.Node, fresh map[Value]ident.Name) *abt.Node {
	switch n.Kind() {
	case abt.KindVar:
		return n
	case abt.KindAbs:
		name, body, _ := n.AsAbs()
		return absNode(name, rewriteCompiled(body, fresh))
	case abt.KindTm:
		if c, _, ok := AsCompiled(n); ok {
			return rewriteCompiledValue(n, c, fresh)
		}
		shape, _ := n.AsTm()
		return tm(shape.MapChildren(func(c *abt.Node) *abt.Node { return rewriteCompiled(c, fresh) }))
	default:
		return n
	}
}

func rewriteCompiledValue(n *abt.Node, c Value, fresh map[Value]ident.Name) *abt.Node {
	if c.IsReference() {
		if freshName, ok := fresh[c]; ok {
			return Var(freshName)
		}
		return n
	}
	if u, ok := c.Unboxed(); ok {
		return Unboxed(u)
	}
	if body, ok := c.Term(); ok {
		return rewriteCompiled(body, fresh)
	}
	return n
}

// collectAllNames gathers every name n mentions, bound or free, so
// freshening a reference's name never collides with anything already in
// scope anywhere in the term.
func collectAllNames(n *abt.Node) ident.Set {
	var out ident.Set
	var walk func(n *abt.Node)
	walk = func(n *abt.Node) {
		switch n.Kind() {
		case abt.KindVar:
			name, _ := n.AsVar()
			out = out.Add(name)
		case abt.KindAbs:
			name, body, _ := n.AsAbs()
			out = out.Add(name)
			walk(body)
		case abt.KindTm:
			shape, _ := n.AsTm()
			for _, c := range shape.ToSequence() {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// StripOuterCompiled unwraps a single leading Compiled node, returning
// its embedded Value. Unlike FullyDecompile this does not expand the
// value's code — it is used where only the top-level wrapper needs to
// be peeled off, e.g. a compiled definition handed straight to a cache
// lookup rather than to the term transforms.
func StripOuterCompiled(n *abt.Node) (Value, bool) {
	param, _, ok := AsCompiled(n)
	if !ok {
		return nil, false
	}
	return param, true
}
