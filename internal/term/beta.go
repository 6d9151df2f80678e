package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// betaReduceN is the general n-ary β-reduction every betaReduce{1,2,3,4}
// wrapper below delegates to: Apply(Lam(names..., body), args...)
// reduces by substituting one argument at a time, left to right,
// re-wrapping the not-yet-substituted names as an intermediate
// single-argument lambda before each Subst call so capture avoidance
// picks up any renaming Subst had to perform on a later binder (spec
// §4.3: "building intermediate single-argument lambdas to preserve
// correct shadowing semantics").
func betaReduceN(names []ident.Name, body *abt.Node, args []*abt.Node) *abt.Node {
	cur := body
	remaining := append([]ident.Name(nil), names...)
	for i := range names {
		wrapped := absChain(remaining[i+1:], cur)
		reduced := subst(remaining[i], args[i], wrapped)
		tail, next := abt.AbsChain(reduced)
		remaining = append(remaining[:i+1], tail...)
		cur = next
	}
	return cur
}

// BetaReduce1 reduces Apply(Lam(name)(body), arg) (spec §4.3).
func BetaReduce1(name ident.Name, body, arg *abt.Node) *abt.Node {
	return subst(name, arg, body)
}

// BetaReduce2 reduces Apply(Lam(n1,n2)(body), a1, a2).
func BetaReduce2(n1, n2 ident.Name, body, a1, a2 *abt.Node) *abt.Node {
	return betaReduceN([]ident.Name{n1, n2}, body, []*abt.Node{a1, a2})
}

// BetaReduce3 reduces Apply(Lam(n1,n2,n3)(body), a1, a2, a3).
func BetaReduce3(n1, n2, n3 ident.Name, body, a1, a2, a3 *abt.Node) *abt.Node {
	return betaReduceN([]ident.Name{n1, n2, n3}, body, []*abt.Node{a1, a2, a3})
}

// BetaReduce4 reduces Apply(Lam(n1,n2,n3,n4)(body), a1, a2, a3, a4).
func BetaReduce4(n1, n2, n3, n4 ident.Name, body, a1, a2, a3, a4 *abt.Node) *abt.Node {
	return betaReduceN([]ident.Name{n1, n2, n3, n4}, body, []*abt.Node{a1, a2, a3, a4})
}
