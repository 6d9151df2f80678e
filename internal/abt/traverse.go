package abt

import "github.com/akilegaspi/unison/internal/ident"

// Map lifts f over every node's Annotation, leaving tree structure
// untouched. Spec §4.1 phrases this as "lift A→B over every annotation";
// since this kernel fixes the annotation representation to Annotation
// (see shape.go's package doc), the lift is A→A, which is the form every
// caller in this codebase actually needs.
func Map(n *Node, f func(Annotation) Annotation) *Node {
	switch n.Kind() {
	case KindVar:
		name, _ := n.AsVar()
		return Var(name, f(n.Annotation()))
	case KindAbs:
		name, body, _ := n.AsAbs()
		return Abs(name, Map(body, f), f(n.Annotation()))
	case KindTm:
		shape, _ := n.AsTm()
		shape2 := shape.MapChildren(func(c *Node) *Node { return Map(c, f) })
		return Tm(shape2, f(n.Annotation()))
	default:
		return n
	}
}

// unionFree unions the Free sets of a Tm node's (already-processed)
// children.
func unionFree(children []*Node) ident.Set {
	free := ident.Set(nil)
	for _, c := range children {
		free = free.Union(c.FreeVars())
	}
	return free
}

// AnnotateFree re-annotates the whole tree bottom-up with free-variable
// sets, per the invariants in spec §3.1: Var(n).Free = {n}; Abs(n,
// body).Free = body.Free \ {n}; Tm(shape).Free = union of children's
// Free. Existing Bound annotations (from a prior AnnotateBound pass) are
// discarded, since recomputing Free does not imply any binder-stack
// context.
func AnnotateFree(n *Node) *Node {
	switch n.Kind() {
	case KindVar:
		name, _ := n.AsVar()
		return Var(name, Annotation{Free: ident.NewSet(name)})
	case KindAbs:
		name, body, _ := n.AsAbs()
		body2 := AnnotateFree(body)
		return Abs(name, body2, Annotation{Free: body2.FreeVars().Without(name)})
	case KindTm:
		shape, _ := n.AsTm()
		shape2 := shape.MapChildren(AnnotateFree)
		return Tm(shape2, Annotation{Free: unionFree(shape2.ToSequence())})
	default:
		return n
	}
}

// AnnotateDown pushes caller state downward through the tree. f receives
// the parent's state and the current (pre-rewrite) node, and yields the
// state to hand to every immediate child plus the new annotation for the
// current node. Structure is left untouched; only annotations change.
func AnnotateDown[S any](n *Node, s0 S, f func(s S, n *Node) (S, Annotation)) *Node {
	childState, newAnn := f(s0, n)
	switch n.Kind() {
	case KindVar:
		name, _ := n.AsVar()
		return Var(name, newAnn)
	case KindAbs:
		name, body, _ := n.AsAbs()
		body2 := AnnotateDown(body, childState, f)
		return Abs(name, body2, newAnn)
	case KindTm:
		shape, _ := n.AsTm()
		shape2 := shape.MapChildren(func(c *Node) *Node { return AnnotateDown(c, childState, f) })
		return Tm(shape2, newAnn)
	default:
		return n
	}
}

// Monoid packages the zero element and associative combine operation
// AnnotateUp/FoldMap fold with.
type Monoid[M any] struct {
	Zero    M
	Combine func(a, b M) M
}

// isLeaf reports whether n has no recursive children: a Var always is;
// a Tm is iff its shape has zero children; an Abs never is (it always
// has exactly one child, its body).
func isLeaf(n *Node) bool {
	switch n.Kind() {
	case KindVar:
		return true
	case KindTm:
		shape, _ := n.AsTm()
		return len(shape.ToSequence()) == 0
	default:
		return false
	}
}

func children(n *Node) []*Node {
	switch n.Kind() {
	case KindAbs:
		_, body, _ := n.AsAbs()
		return []*Node{body}
	case KindTm:
		shape, _ := n.AsTm()
		return shape.ToSequence()
	default:
		return nil
	}
}

// FoldMap folds the tree bottom-up with Monoid m, applying f only at
// leaves (spec §4.1) and combining children's values at every interior
// node. Returns the root's value directly, without building an
// intermediate annotated tree — use AnnotateUp when the per-node values
// themselves are needed.
func FoldMap[M any](n *Node, f func(*Node) M, m Monoid[M]) M {
	if isLeaf(n) {
		return f(n)
	}
	acc := m.Zero
	for _, c := range children(n) {
		acc = m.Combine(acc, FoldMap(c, f, m))
	}
	return acc
}

// UpAnnotated is the parallel, bottom-up-annotated tree AnnotateUp
// produces: one node per input node, carrying the folded Monoid value and
// the same children (also annotated) in the same order.
type UpAnnotated[M any] struct {
	Node     *Node
	Value    M
	Children []*UpAnnotated[M]
}

// AnnotateUp is FoldMap's tree-shaped counterpart: spec §4.1 "bottom-up
// fold using Monoid M; f is applied only at leaves", but retaining every
// intermediate value rather than only the root's.
func AnnotateUp[M any](n *Node, f func(*Node) M, m Monoid[M]) *UpAnnotated[M] {
	if isLeaf(n) {
		return &UpAnnotated[M]{Node: n, Value: f(n)}
	}
	kids := children(n)
	annotated := make([]*UpAnnotated[M], len(kids))
	acc := m.Zero
	for i, c := range kids {
		annotated[i] = AnnotateUp(c, f, m)
		acc = m.Combine(acc, annotated[i].Value)
	}
	return &UpAnnotated[M]{Node: n, Value: acc, Children: annotated}
}

// rebuildVar, rebuildAbs and rebuildTm reconstruct a node with the same kind/payload but a freshly
// recomputed Free annotation derived from (possibly rewritten) children,
// keeping the spec §3.1 invariant intact regardless of what a rewriteDown/
// rewriteUp callback did to substructure. Bound is preserved from ann
// (rewriting never changes binder-stack context).
func rebuildVar(name ident.Name, ann Annotation) *Node {
	ann.Free = ident.NewSet(name)
	return Var(name, ann)
}

func rebuildAbs(name ident.Name, body *Node, ann Annotation) *Node {
	ann.Free = body.FreeVars().Without(name)
	return Abs(name, body, ann)
}

func rebuildTm(shape Shape, ann Annotation) *Node {
	ann.Free = unionFree(shape.ToSequence())
	return Tm(shape, ann)
}

// RewriteDown applies f to a node, then recurses into the children of
// whatever f returned (spec §4.1). After recursion, Free annotations are
// recomputed bottom-up so the result satisfies the same invariant
// AnnotateFree would produce, even though f itself need not preserve it.
func RewriteDown(n *Node, f func(*Node) *Node) *Node {
	n1 := f(n)
	switch n1.Kind() {
	case KindVar:
		name, _ := n1.AsVar()
		return rebuildVar(name, n1.Annotation())
	case KindAbs:
		name, body, _ := n1.AsAbs()
		body2 := RewriteDown(body, f)
		return rebuildAbs(name, body2, n1.Annotation())
	case KindTm:
		shape, _ := n1.AsTm()
		shape2 := shape.MapChildren(func(c *Node) *Node { return RewriteDown(c, f) })
		return rebuildTm(shape2, n1.Annotation())
	default:
		return n1
	}
}

// RewriteUp recurses into children first, then applies f to the
// rewritten node (spec §4.1) — the mirror image of RewriteDown.
func RewriteUp(n *Node, f func(*Node) *Node) *Node {
	var rebuilt *Node
	switch n.Kind() {
	case KindVar:
		name, _ := n.AsVar()
		rebuilt = rebuildVar(name, n.Annotation())
	case KindAbs:
		name, body, _ := n.AsAbs()
		body2 := RewriteUp(body, f)
		rebuilt = rebuildAbs(name, body2, n.Annotation())
	case KindTm:
		shape, _ := n.AsTm()
		shape2 := shape.MapChildren(func(c *Node) *Node { return RewriteUp(c, f) })
		rebuilt = rebuildTm(shape2, n.Annotation())
	default:
		rebuilt = n
	}
	return f(rebuilt)
}

// RewriteDownS is RewriteDown with a state threaded left-to-right across
// the entire pre-order walk, including across siblings within a single
// Tm's children (spec §4.1, via Shape.MapAccumulate).
func RewriteDownS[S any](n *Node, s0 S, f func(s S, n *Node) (S, *Node)) (S, *Node) {
	s1, n1 := f(s0, n)
	switch n1.Kind() {
	case KindVar:
		name, _ := n1.AsVar()
		return s1, rebuildVar(name, n1.Annotation())
	case KindAbs:
		name, body, _ := n1.AsAbs()
		s2, body2 := RewriteDownS(body, s1, f)
		return s2, rebuildAbs(name, body2, n1.Annotation())
	case KindTm:
		shape, _ := n1.AsTm()
		finalState, shape2 := shape.MapAccumulate(s1, func(s any, c *Node) (any, *Node) {
			s2, c2 := RewriteDownS(c, s.(S), f)
			return s2, c2
		})
		return finalState.(S), rebuildTm(shape2, n1.Annotation())
	default:
		return s1, n1
	}
}

// AnnotateBound re-annotates with (original, stack<Name>) where stack
// lists enclosing binders, innermost first (spec §4.1). The "original"
// half is whatever Free annotation n already carried; AnnotateBound only
// populates Bound.
func AnnotateBound(n *Node) *Node {
	return annotateBoundWith(n, nil)
}

func annotateBoundWith(n *Node, stack []ident.Name) *Node {
	switch n.Kind() {
	case KindVar:
		name, _ := n.AsVar()
		return Var(name, Annotation{Free: n.FreeVars(), Bound: stack})
	case KindAbs:
		name, body, _ := n.AsAbs()
		innerStack := make([]ident.Name, 0, len(stack)+1)
		innerStack = append(innerStack, name)
		innerStack = append(innerStack, stack...)
		body2 := annotateBoundWith(body, innerStack)
		return Abs(name, body2, Annotation{Free: n.FreeVars(), Bound: stack})
	case KindTm:
		shape, _ := n.AsTm()
		shape2 := shape.MapChildren(func(c *Node) *Node { return annotateBoundWith(c, stack) })
		return Tm(shape2, Annotation{Free: n.FreeVars(), Bound: stack})
	default:
		return n
	}
}
