// Package abt implements the generic abstract binding tree kernel: a tree
// with three node variants (Var, Abs, Tm) carrying an annotation at every
// node, plus the traversal suite spec'd for it (map, annotateFree,
// annotateDown, annotateUp, foldMap, rewriteDown, rewriteUp, rewriteDownS,
// annotateBound). Nodes are immutable; transformations return new trees
// that share unchanged subtrees by reference.
//
// Go has no first-class higher-kinded types, so the generic F<_> functor
// the specification parameterises the ABT over is realised the way design
// note §9(b) sanctions for languages without them: a single, fixed
// annotation representation (Annotation, below) shared by every node
// regardless of which traversal last touched it, rather than a type
// parameter that would need to vary across a Map from annotation type A to
// an unrelated type B. The per-language node shape F itself is still fully
// generic, expressed as the Shape interface per design note §9(a): the
// term package implements MapChildren/ToSequence/MapAccumulate once for
// its concrete node kinds, and every traversal below is written against
// that interface, never against a specific node kind.
package abt

import "github.com/akilegaspi/unison/internal/ident"

// Shape is the capability a per-language term shape F must provide so the
// kernel can traverse its recursive positions generically. Implementations
// live in package term (or any other consumer); abt never inspects shape
// contents beyond this interface.
type Shape interface {
	// MapChildren returns a copy of the shape with f applied to every
	// immediate child, in the same positions.
	MapChildren(f func(*Node) *Node) Shape

	// ToSequence enumerates immediate children in deterministic,
	// left-to-right order.
	ToSequence() []*Node

	// MapAccumulate threads state s through every immediate child in
	// ToSequence order, returning the final state and the rewritten
	// shape.
	MapAccumulate(s any, f func(s any, child *Node) (any, *Node)) (any, Shape)
}

// Kind distinguishes the three ABT node variants.
type Kind uint8

const (
	KindVar Kind = iota
	KindAbs
	KindTm
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "Var"
	case KindAbs:
		return "Abs"
	case KindTm:
		return "Tm"
	default:
		return "Unknown"
	}
}

// Annotation is the single, fixed per-node metadata payload (see the
// package doc for why it is fixed rather than generic). Free is the
// common instantiation spec §3.1 calls out explicitly; Bound is populated
// only by AnnotateBound and left empty everywhere else.
type Annotation struct {
	Free  ident.Set
	Bound []ident.Name
}

// Node is the ABT: a Var, an Abs binding a Name over a body, or a Tm
// holding a language-specific Shape whose recursive positions are further
// Nodes. Construction outside this package should go through smart
// constructors (package term) that keep Annotation consistent with
// children — the raw constructors below never appear in term's public
// API, matching spec §3.1's "raw constructors never appear in external
// APIs".
type Node struct {
	kind Kind

	varName ident.Name

	absName ident.Name
	absBody *Node

	shape Shape

	ann Annotation
}

// Var constructs a free/bound variable occurrence.
func Var(name ident.Name, ann Annotation) *Node {
	return &Node{kind: KindVar, varName: name, ann: ann}
}

// Abs constructs a binder node.
func Abs(name ident.Name, body *Node, ann Annotation) *Node {
	return &Node{kind: KindAbs, absName: name, absBody: body, ann: ann}
}

// Tm constructs a language-shape node.
func Tm(shape Shape, ann Annotation) *Node {
	return &Node{kind: KindTm, shape: shape, ann: ann}
}

// Kind reports which of the three variants n is.
func (n *Node) Kind() Kind { return n.kind }

// Annotation returns the node's annotation.
func (n *Node) Annotation() Annotation { return n.ann }

// FreeVars returns the node's free-variable annotation. Shorthand for
// Annotation().Free, since that is by far the most common access pattern.
func (n *Node) FreeVars() ident.Set { return n.ann.Free }

// AsVar returns (name, true) if n is a Var node.
func (n *Node) AsVar() (ident.Name, bool) {
	if n.kind != KindVar {
		return ident.Name{}, false
	}
	return n.varName, true
}

// AsAbs returns (name, body, true) if n is an Abs node.
func (n *Node) AsAbs() (ident.Name, *Node, bool) {
	if n.kind != KindAbs {
		return ident.Name{}, nil, false
	}
	return n.absName, n.absBody, true
}

// AsTm returns (shape, true) if n is a Tm node.
func (n *Node) AsTm() (Shape, bool) {
	if n.kind != KindTm {
		return nil, false
	}
	return n.shape, true
}

// AbsChain matches a run of zero or more leading Abs layers, returning the
// bound names in binding order (outermost first) and the first non-Abs
// node reached.
func AbsChain(n *Node) (names []ident.Name, inner *Node) {
	for {
		name, body, ok := n.AsAbs()
		if !ok {
			return names, n
		}
		names = append(names, name)
		n = body
	}
}
