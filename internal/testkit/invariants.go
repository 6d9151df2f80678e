package testkit

import (
	"fmt"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/term"
)

// CheckFreeVarsInvariant recomputes n's free-variable annotation from its
// children and confirms it matches the cached Annotation.Free at every
// node, bottom-up. A transform that forgets to recompute the annotation
// after rewriting children trips this check even though the rewritten
// term is otherwise well-formed.
func CheckFreeVarsInvariant(n *abt.Node) error {
	_, err := checkFreeVars(n)
	return err
}

func checkFreeVars(n *abt.Node) (ident.Set, error) {
	switch n.Kind() {
	case abt.KindVar:
		name, _ := n.AsVar()
		return requireEqual(n, ident.NewSet(name))
	case abt.KindAbs:
		name, body, _ := n.AsAbs()
		bodyFree, err := checkFreeVars(body)
		if err != nil {
			return nil, err
		}
		return requireEqual(n, bodyFree.Without(name))
	case abt.KindTm:
		shape, _ := n.AsTm()
		var union ident.Set
		for _, child := range shape.ToSequence() {
			childFree, err := checkFreeVars(child)
			if err != nil {
				return nil, err
			}
			union = union.Union(childFree)
		}
		return requireEqual(n, union)
	default:
		return nil, fmt.Errorf("checkFreeVars: unhandled node kind %v", n.Kind())
	}
}

func requireEqual(n *abt.Node, want ident.Set) (ident.Set, error) {
	got := n.FreeVars()
	if !setsEqual(got, want) {
		return nil, fmt.Errorf("free vars mismatch at %v: cached=%v, recomputed=%v", n.Kind(), got.ToSlice(), want.ToSlice())
	}
	return got, nil
}

func setsEqual(a, b ident.Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for n := range a {
		if !b.Contains(n) {
			return false
		}
	}
	return true
}

// CheckAnnotationInvariant re-derives n's free-variable annotations from
// scratch via abt.AnnotateFree and checks the result carries the same
// root free-variable set as n — i.e. n.Annotation() was not left stale by
// whatever built n.
func CheckAnnotationInvariant(n *abt.Node) error {
	recomputed := abt.AnnotateFree(n)
	if !setsEqual(n.FreeVars(), recomputed.FreeVars()) {
		return fmt.Errorf("annotation invariant violated: cached free vars %v, AnnotateFree gives %v", n.FreeVars().ToSlice(), recomputed.FreeVars().ToSlice())
	}
	return nil
}

// CheckAbsChainArity walks every Match node reachable from n and verifies
// spec's MatchCase invariant: the number of leading Abs layers on a
// case's body equals its pattern's arity.
func CheckAbsChainArity(n *abt.Node) error {
	var walk func(n *abt.Node) error
	walk = func(n *abt.Node) error {
		switch n.Kind() {
		case abt.KindVar:
			return nil
		case abt.KindAbs:
			_, body, _ := n.AsAbs()
			return walk(body)
		case abt.KindTm:
			if _, cases, ok := term.AsMatch(n); ok {
				for i, c := range cases {
					names, _ := abt.AbsChain(c.Body)
					if len(names) != c.Pattern.Arity() {
						return fmt.Errorf("match case %d: body has %d leading Abs layers, pattern arity is %d", i, len(names), c.Pattern.Arity())
					}
				}
			}
			shape, _ := n.AsTm()
			for _, child := range shape.ToSequence() {
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil
		default:
			return nil
		}
	}
	return walk(n)
}
