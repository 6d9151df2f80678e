package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// asData returns n's Data payload and true if n is a Tm node of exactly
// the requested kind; every As* deconstructor below is a one-liner over
// this.
func asData[D Data](n *abt.Node) (D, bool) {
	shape, ok := n.AsTm()
	if !ok {
		var zero D
		return zero, false
	}
	d, ok := shape.(D)
	return d, ok
}

// AsLam returns Lam's body (still wrapped in its Abs chain) if n is a
// Lam node.
func AsLam(n *abt.Node) (body *abt.Node, ok bool) {
	d, ok := asData[LamData](n)
	if !ok {
		return nil, false
	}
	return d.Body, true
}

// AsApply returns Apply's function and arguments if n is an Apply node.
func AsApply(n *abt.Node) (fn *abt.Node, args []*abt.Node, ok bool) {
	d, ok := asData[ApplyData](n)
	if !ok {
		return nil, nil, false
	}
	return d.Fn, d.Args, true
}

// AsLetRec unwinds a Rec_/LetRec_ pair back into binding names,
// expressions, and the continuation body.
func AsLetRec(n *abt.Node) (bindings []Binding, body *abt.Node, ok bool) {
	rec, ok := asData[RecData](n)
	if !ok {
		return nil, nil, false
	}
	names, inner := abt.AbsChain(rec.Inner)
	lr, ok := asData[LetRecData](inner)
	if !ok || len(names) != len(lr.Bindings) {
		return nil, nil, false
	}
	bindings = make([]Binding, len(names))
	for i, name := range names {
		bindings[i] = Binding{Name: name, Expr: lr.Bindings[i]}
	}
	return bindings, lr.Body, true
}

// AsLet returns the head binding and continuation if n is a Let node.
// For a multi-binding chain built by Let, repeatedly deconstructing the
// returned body recovers the remaining bindings.
func AsLet(n *abt.Node) (name ident.Name, expr *abt.Node, body *abt.Node, ok bool) {
	d, ok := asData[LetData](n)
	if !ok {
		return ident.Name{}, nil, nil, false
	}
	bn, rest, ok := d.Body.AsAbs()
	if !ok {
		return ident.Name{}, nil, nil, false
	}
	return bn, d.Binding, rest, true
}

// AsIf returns the condition and branches if n is an If node.
func AsIf(n *abt.Node) (cond, then, els *abt.Node, ok bool) {
	d, ok := asData[IfData](n)
	if !ok {
		return nil, nil, nil, false
	}
	return d.Cond, d.Then, d.Else, true
}

// AsAnd returns the operands if n is an And node.
func AsAnd(n *abt.Node) (x, y *abt.Node, ok bool) {
	d, ok := asData[AndData](n)
	if !ok {
		return nil, nil, false
	}
	return d.X, d.Y, true
}

// AsOr returns the operands if n is an Or node.
func AsOr(n *abt.Node) (x, y *abt.Node, ok bool) {
	d, ok := asData[OrData](n)
	if !ok {
		return nil, nil, false
	}
	return d.X, d.Y, true
}

// AsMatch returns the scrutinee and cases if n is a Match node.
func AsMatch(n *abt.Node) (scrut *abt.Node, cases []MatchCase, ok bool) {
	d, ok := asData[MatchData](n)
	if !ok {
		return nil, nil, false
	}
	return d.Scrut, d.Cases, true
}

// AsHandle returns the handler and block if n is a Handle node.
func AsHandle(n *abt.Node) (handler, block *abt.Node, ok bool) {
	d, ok := asData[HandleData](n)
	if !ok {
		return nil, nil, false
	}
	return d.Handler, d.Block, true
}

// AsEffectPure returns the pure value if n is an EffectPure node.
func AsEffectPure(n *abt.Node) (v *abt.Node, ok bool) {
	d, ok := asData[EffectPureData](n)
	if !ok {
		return nil, false
	}
	return d.V, true
}

// AsEffectBind returns the operation identity, arguments, and
// continuation if n is an EffectBind node.
func AsEffectBind(n *abt.Node) (id Identifier, args []*abt.Node, k *abt.Node, ok bool) {
	d, ok := asData[EffectBindData](n)
	if !ok {
		return Identifier{}, nil, nil, false
	}
	return d.ID, d.Args, d.K, true
}

// AsRequest returns the operation identity if n is a Request node.
func AsRequest(n *abt.Node) (id Identifier, ok bool) {
	d, ok := asData[RequestData](n)
	if !ok {
		return Identifier{}, false
	}
	return d.ID, true
}

// AsConstructor returns the constructor identity if n is a Constructor
// node.
func AsConstructor(n *abt.Node) (id Identifier, ok bool) {
	d, ok := asData[ConstructorData](n)
	if !ok {
		return Identifier{}, false
	}
	return d.ID, true
}

// AsId returns the referenced name if n is an Id node.
func AsId(n *abt.Node) (name ident.Name, ok bool) {
	d, ok := asData[IdData](n)
	if !ok {
		return ident.Name{}, false
	}
	return d.Name, true
}

// AsUnboxed returns the literal value if n is an Unboxed node.
func AsUnboxed(n *abt.Node) (v UnboxedValue, ok bool) {
	d, ok := asData[UnboxedData](n)
	if !ok {
		return UnboxedValue{}, false
	}
	return d.Value, true
}

// AsText returns the literal text if n is a Text node.
func AsText(n *abt.Node) (s string, ok bool) {
	d, ok := asData[TextData](n)
	if !ok {
		return "", false
	}
	return d.Text, true
}

// AsSequence returns the elements if n is a Sequence node.
func AsSequence(n *abt.Node) (elems []*abt.Node, ok bool) {
	d, ok := asData[SequenceData](n)
	if !ok {
		return nil, false
	}
	return d.Seq, true
}

// AsCompiled returns the embedded value and name if n is a Compiled
// node.
func AsCompiled(n *abt.Node) (param Value, name ident.Name, ok bool) {
	d, ok := asData[CompiledData](n)
	if !ok {
		return nil, ident.Name{}, false
	}
	return d.Param, d.Name, true
}
