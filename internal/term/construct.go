package term

import (
	"fmt"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// tm builds a Tm node, computing its Free annotation from shape's
// children — the invariant spec §3.1 requires every smart constructor to
// maintain automatically.
func tm(shape abt.Shape) *abt.Node {
	var free ident.Set
	for _, c := range shape.ToSequence() {
		free = free.Union(c.FreeVars())
	}
	return abt.Tm(shape, abt.Annotation{Free: free})
}

// absNode builds an Abs node, computing its Free annotation from body.
func absNode(name ident.Name, body *abt.Node) *abt.Node {
	return abt.Abs(name, body, abt.Annotation{Free: body.FreeVars().Without(name)})
}

// absChain wraps body in nested Abs binders for names, outermost first:
// absChain([x,y], body) = Abs(x, Abs(y, body)).
func absChain(names []ident.Name, body *abt.Node) *abt.Node {
	wrapped := body
	for i := len(names) - 1; i >= 0; i-- {
		wrapped = absNode(names[i], wrapped)
	}
	return wrapped
}

// Var builds a variable occurrence.
func Var(name ident.Name) *abt.Node {
	return abt.Var(name, abt.Annotation{Free: ident.NewSet(name)})
}

// Lam builds Tm(Lam_(Abs(x1, … Abs(xn, body)))) (spec §3.2).
func Lam(names []ident.Name, body *abt.Node) *abt.Node {
	return tm(LamData{Body: absChain(names, body)})
}

// Apply builds Apply(fn, args...). A zero-argument Apply would collapse
// to nothing more than fn itself, so spec §7.1 treats constructing one as
// a programmer error rather than silently returning fn.
func Apply(fn *abt.Node, args ...*abt.Node) *abt.Node {
	if len(args) == 0 {
		panic(fmt.Errorf("term.Apply: called with zero args on %v", fn.Kind()))
	}
	return tm(ApplyData{Fn: fn, Args: args})
}

// Binding is one entry of a Let/LetRec binding list.
type Binding struct {
	Name ident.Name
	Expr *abt.Node
}

// Let builds a right-folded chain of Tm(Let_(ei, Abs(xi, …))) (spec
// §3.2): Let([(x1,e1),(x2,e2)], body) =
// Let_(e1, Abs(x1, Let_(e2, Abs(x2, body)))).
func Let(bindings []Binding, body *abt.Node) *abt.Node {
	wrapped := body
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		wrapped = tm(LetData{Binding: b.Expr, Body: absNode(b.Name, wrapped)})
	}
	return wrapped
}

// LetRec builds Tm(Rec_(Abs(x1,… Abs(xn, Tm(LetRec_([ei], body)))))) (spec
// §3.2): one Rec_ wrapping an Abs chain over every binding name, whose
// body is the inner LetRec_ holding every binding expression plus the
// continuation.
func LetRec(bindings []Binding, body *abt.Node) *abt.Node {
	names := make([]ident.Name, len(bindings))
	exprs := make([]*abt.Node, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
		exprs[i] = b.Expr
	}
	inner := tm(LetRecData{Bindings: exprs, Body: body})
	return tm(RecData{Inner: absChain(names, inner)})
}

// If builds If(c, then, else).
func If(cond, then, els *abt.Node) *abt.Node {
	return tm(IfData{Cond: cond, Then: then, Else: els})
}

// And builds And(x, y).
func And(x, y *abt.Node) *abt.Node { return tm(AndData{X: x, Y: y}) }

// Or builds Or(x, y).
func Or(x, y *abt.Node) *abt.Node { return tm(OrData{X: x, Y: y}) }

// Match builds Match(scrut, cases...). Each case's body must open with
// exactly as many leading Abs binders as its pattern's arity (spec §3.2);
// a mismatch — including a missing binder entirely — is a programmer
// error, not a recoverable one, so it panics rather than building a
// malformed Match.
func Match(scrut *abt.Node, cases ...MatchCase) *abt.Node {
	for i, c := range cases {
		names, _ := abt.AbsChain(c.Body)
		if len(names) != c.Pattern.Arity() {
			panic(fmt.Errorf("term.Match: case %d body has %d leading Abs binders, pattern arity is %d", i, len(names), c.Pattern.Arity()))
		}
	}
	return tm(MatchData{Scrut: scrut, Cases: cases})
}

// Handle builds Handle(handler, block).
func Handle(handler, block *abt.Node) *abt.Node {
	return tm(HandleData{Handler: handler, Block: block})
}

// EffectPure builds EffectPure(v).
func EffectPure(v *abt.Node) *abt.Node { return tm(EffectPureData{V: v}) }

// EffectBind builds EffectBind(id, ctor, args, k).
func EffectBind(id Identifier, args []*abt.Node, k *abt.Node) *abt.Node {
	return tm(EffectBindData{ID: id, Args: args, K: k})
}

// Request builds Request(id, ctor).
func Request(id Identifier) *abt.Node { return tm(RequestData{ID: id}) }

// Constructor builds Constructor(id, ctor).
func Constructor(id Identifier) *abt.Node { return tm(ConstructorData{ID: id}) }

// Id builds Id(id).
func Id(name ident.Name) *abt.Node { return tm(IdData{Name: name}) }

// Unboxed builds Unboxed(value, type).
func Unboxed(v UnboxedValue) *abt.Node { return tm(UnboxedData{Value: v}) }

// Text builds Text(txt).
func Text(s string) *abt.Node { return tm(TextData{Text: s}) }

// Sequence builds Sequence(seq...).
func Sequence(elems ...*abt.Node) *abt.Node { return tm(SequenceData{Seq: elems}) }

// Compiled builds Compiled(param, name).
func Compiled(param Value, name ident.Name) *abt.Node {
	return tm(CompiledData{Param: param, Name: name})
}
