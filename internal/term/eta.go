package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// EtaNormalForm implements spec §4.3's η-normalisation: Lam(x)(Apply(f))
// with no arguments normalises to Lam(x)(f); Lam(x)(Apply(f, args...,
// Var(x))) with x not free in f or args collapses to Apply(f, args...)
// — recursively, since the result may itself be further η-reducible.
//
// t is the full surface Lam node (Tm(Lam_(Abs(x, body)))), not a bare
// Abs — a single-argument Lam is exactly a one-layer Abs chain, which is
// what AsLam's Body recovers.
func EtaNormalForm(t *abt.Node) *abt.Node {
	lamBody, ok := AsLam(t)
	if !ok {
		return t
	}
	name, body, ok := lamBody.AsAbs()
	if !ok {
		// 0-argument Lam: no binder to eta-eliminate.
		return t
	}
	fn, args, ok := AsApply(body)
	if !ok {
		return t
	}
	if len(args) == 0 {
		return EtaNormalForm(Lam([]ident.Name{name}, fn))
	}
	last := args[len(args)-1]
	lastName, ok := last.AsVar()
	if !ok || !lastName.Equal(name) {
		return t
	}
	init := args[:len(args)-1]
	if fn.FreeVars().Contains(name) {
		return t
	}
	for _, a := range init {
		if a.FreeVars().Contains(name) {
			return t
		}
	}
	// An Apply with zero arguments is not a well-formed term (spec §7.1:
	// "empty Apply collapsed into identity") — fn alone is the result.
	if len(init) == 0 {
		return EtaNormalForm(fn)
	}
	return Apply(fn, init...)
}
