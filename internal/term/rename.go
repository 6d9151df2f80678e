package term

import (
	"context"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/trace"
)

// Rename rewrites every free occurrence of from to to, recursing through
// Abs and Tm unchanged (spec §4.2). It does not handle capture — callers
// must ensure to is fresh for t. Within this package, subst and Substs
// pick to with ident.Freshen against the substitutes' free variables only.
func Rename(from, to ident.Name, t *abt.Node) *abt.Node {
	if !t.FreeVars().Contains(from) {
		return t
	}
	switch t.Kind() {
	case abt.KindVar:
		name, _ := t.AsVar()
		if name.Equal(from) {
			return Var(to)
		}
		return t
	case abt.KindAbs:
		name, body, _ := t.AsAbs()
		return absNode(name, Rename(from, to, body))
	case abt.KindTm:
		shape, _ := t.AsTm()
		return tm(shape.MapChildren(func(c *abt.Node) *abt.Node { return Rename(from, to, c) }))
	default:
		return t
	}
}

// Subst performs capture-avoiding substitution of s for every free
// occurrence of x in t (spec §4.2). It emits one ScopeTransform span on
// ctx's tracer covering the whole call; the recursive descent itself
// runs through the unexported subst so nested calls don't each open
// their own span.
func Subst(ctx context.Context, x ident.Name, s, t *abt.Node) *abt.Node {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTransform, "subst", trace.CurrentSpan(ctx).SpanID)
	result := subst(x, s, t)
	span.End("ok")
	return result
}

func subst(x ident.Name, s, t *abt.Node) *abt.Node {
	if !t.FreeVars().Contains(x) {
		return t
	}
	switch t.Kind() {
	case abt.KindVar:
		name, _ := t.AsVar()
		if name.Equal(x) {
			return s
		}
		return t
	case abt.KindAbs:
		name, body, _ := t.AsAbs()
		if s.FreeVars().Contains(name) {
			fresh := ident.Freshen(name, s.FreeVars())
			return absNode(fresh, subst(x, s, Rename(name, fresh, body)))
		}
		return absNode(name, subst(x, s, body))
	case abt.KindTm:
		shape, _ := t.AsTm()
		return tm(shape.MapChildren(func(c *abt.Node) *abt.Node { return subst(x, s, c) }))
	default:
		return t
	}
}

// Substs performs parallel capture-avoiding substitution: every x → s_x
// in subs is applied in a single pass, so no substitute can see the
// effect of another (spec §4.2). Binders captured by any substitute's
// free variables are α-renamed before descending.
func Substs(subs map[ident.Name]*abt.Node, t *abt.Node) *abt.Node {
	if len(subs) == 0 {
		return t
	}
	var taken ident.Set
	for _, s := range subs {
		taken = taken.Union(s.FreeVars())
	}
	return substsWith(subs, taken, t)
}

func substsWith(subs map[ident.Name]*abt.Node, taken ident.Set, t *abt.Node) *abt.Node {
	relevant := false
	for x := range subs {
		if t.FreeVars().Contains(x) {
			relevant = true
			break
		}
	}
	if !relevant {
		return t
	}
	switch t.Kind() {
	case abt.KindVar:
		name, _ := t.AsVar()
		if s, ok := subs[name]; ok {
			return s
		}
		return t
	case abt.KindAbs:
		name, body, _ := t.AsAbs()
		_, shadowed := subs[name]
		remaining := subs
		if shadowed {
			remaining = make(map[ident.Name]*abt.Node, len(subs)-1)
			for k, v := range subs {
				if !k.Equal(name) {
					remaining[k] = v
				}
			}
		}
		if taken.Contains(name) {
			fresh := ident.Freshen(name, taken)
			body = Rename(name, fresh, body)
			name = fresh
		}
		return absNode(name, substsWith(remaining, taken, body))
	case abt.KindTm:
		shape, _ := t.AsTm()
		return tm(shape.MapChildren(func(c *abt.Node) *abt.Node { return substsWith(subs, taken, c) }))
	default:
		return t
	}
}
