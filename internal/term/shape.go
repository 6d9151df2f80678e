package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// Identifier pairs a plain name with the constructor it resolves to, for
// the Request/Constructor/EffectBind leaves that name an effect
// operation or data constructor by identity rather than by ABT binding.
type Identifier struct {
	Name ident.Name
	Ctor ident.CtorID
}

// mapChildrenFlat and mapAccumulateFlat implement abt.Shape's
// MapChildren/MapAccumulate for any Data type whose recursive positions
// can be flattened into a single ordered slice and rebuilt from one.
// Each Data type below supplies ToSequence (the flattening) and rebuild
// (the reconstruction); these two helpers do the rest once.
func mapChildrenFlat(flat []*abt.Node, rebuild func([]*abt.Node) abt.Shape, f func(*abt.Node) *abt.Node) abt.Shape {
	out := make([]*abt.Node, len(flat))
	for i, c := range flat {
		out[i] = f(c)
	}
	return rebuild(out)
}

func mapAccumulateFlat(flat []*abt.Node, rebuild func([]*abt.Node) abt.Shape, s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	out := make([]*abt.Node, len(flat))
	state := s0
	for i, c := range flat {
		var c2 *abt.Node
		state, c2 = f(state, c)
		out[i] = c2
	}
	return state, rebuild(out)
}

// ---- Lam ----

// LamData is the payload of Lam_(body): Lam's multi-argument surface
// form is macro-expanded into an Abs chain before reaching here, so Body
// is already that chain (or the inner expression, for a 0-ary Lam).
type LamData struct {
	Body *abt.Node
}

func (LamData) kind() Kind                       { return KindLam }
func (d LamData) ToSequence() []*abt.Node         { return []*abt.Node{d.Body} }
func (d LamData) rebuild(c []*abt.Node) abt.Shape { return LamData{Body: c[0]} }
func (d LamData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d LamData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- Apply ----

// ApplyData is the payload of Apply(fn, args...).
type ApplyData struct {
	Fn   *abt.Node
	Args []*abt.Node
}

func (ApplyData) kind() Kind { return KindApply }
func (d ApplyData) ToSequence() []*abt.Node {
	return append([]*abt.Node{d.Fn}, d.Args...)
}
func (d ApplyData) rebuild(c []*abt.Node) abt.Shape {
	return ApplyData{Fn: c[0], Args: c[1:]}
}
func (d ApplyData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d ApplyData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- LetRec (inner shape; see Rec for the outer Abs-chain wrapper) ----

// LetRecData is the payload of Tm(LetRec_(bindings, body)), always
// found as the innermost node of a Rec_'s Abs chain.
type LetRecData struct {
	Bindings []*abt.Node
	Body     *abt.Node
}

func (LetRecData) kind() Kind { return KindLetRec }
func (d LetRecData) ToSequence() []*abt.Node {
	return append(append([]*abt.Node{}, d.Bindings...), d.Body)
}
func (d LetRecData) rebuild(c []*abt.Node) abt.Shape {
	return LetRecData{Bindings: c[:len(c)-1], Body: c[len(c)-1]}
}
func (d LetRecData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d LetRecData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- Let ----

// LetData is the payload of Tm(Let_(binding, body)): one binding of a
// possibly right-folded chain (see the Let smart constructor).
type LetData struct {
	Binding *abt.Node
	Body    *abt.Node
}

func (LetData) kind() Kind                       { return KindLet }
func (d LetData) ToSequence() []*abt.Node         { return []*abt.Node{d.Binding, d.Body} }
func (d LetData) rebuild(c []*abt.Node) abt.Shape { return LetData{Binding: c[0], Body: c[1]} }
func (d LetData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d LetData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- Rec ----

// RecData is the payload of Tm(Rec_(inner)): inner is the Abs chain
// binding every LetRec name, terminating in a Tm(LetRecData).
type RecData struct {
	Inner *abt.Node
}

func (RecData) kind() Kind                       { return KindRec }
func (d RecData) ToSequence() []*abt.Node         { return []*abt.Node{d.Inner} }
func (d RecData) rebuild(c []*abt.Node) abt.Shape { return RecData{Inner: c[0]} }
func (d RecData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d RecData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- If / And / Or ----

type IfData struct {
	Cond, Then, Else *abt.Node
}

func (IfData) kind() Kind               { return KindIf }
func (d IfData) ToSequence() []*abt.Node { return []*abt.Node{d.Cond, d.Then, d.Else} }
func (d IfData) rebuild(c []*abt.Node) abt.Shape {
	return IfData{Cond: c[0], Then: c[1], Else: c[2]}
}
func (d IfData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d IfData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

type AndData struct{ X, Y *abt.Node }

func (AndData) kind() Kind                       { return KindAnd }
func (d AndData) ToSequence() []*abt.Node         { return []*abt.Node{d.X, d.Y} }
func (d AndData) rebuild(c []*abt.Node) abt.Shape { return AndData{X: c[0], Y: c[1]} }
func (d AndData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d AndData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

type OrData struct{ X, Y *abt.Node }

func (OrData) kind() Kind                       { return KindOr }
func (d OrData) ToSequence() []*abt.Node         { return []*abt.Node{d.X, d.Y} }
func (d OrData) rebuild(c []*abt.Node) abt.Shape { return OrData{X: c[0], Y: c[1]} }
func (d OrData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d OrData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- Match ----

// MatchData is the payload of Match(scrut, cases...). Each case
// contributes its Guard (if present) then its Body to the flattened
// child sequence; rebuild uses d.Cases' guard-presence to re-pair the
// rewritten children correctly.
type MatchData struct {
	Scrut *abt.Node
	Cases []MatchCase
}

func (MatchData) kind() Kind { return KindMatch }

func (d MatchData) ToSequence() []*abt.Node {
	out := make([]*abt.Node, 0, 1+2*len(d.Cases))
	out = append(out, d.Scrut)
	for _, c := range d.Cases {
		if c.Guard != nil {
			out = append(out, c.Guard)
		}
		out = append(out, c.Body)
	}
	return out
}

func (d MatchData) rebuild(flat []*abt.Node) abt.Shape {
	scrut := flat[0]
	rest := flat[1:]
	cases := make([]MatchCase, len(d.Cases))
	idx := 0
	for i, c := range d.Cases {
		nc := MatchCase{Pattern: c.Pattern}
		if c.Guard != nil {
			nc.Guard = rest[idx]
			idx++
		}
		nc.Body = rest[idx]
		idx++
		cases[i] = nc
	}
	return MatchData{Scrut: scrut, Cases: cases}
}

func (d MatchData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d MatchData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- Handle ----

type HandleData struct{ Handler, Block *abt.Node }

func (HandleData) kind() Kind                       { return KindHandle }
func (d HandleData) ToSequence() []*abt.Node         { return []*abt.Node{d.Handler, d.Block} }
func (d HandleData) rebuild(c []*abt.Node) abt.Shape { return HandleData{Handler: c[0], Block: c[1]} }
func (d HandleData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d HandleData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- EffectPure / EffectBind ----

type EffectPureData struct{ V *abt.Node }

func (EffectPureData) kind() Kind                       { return KindEffectPure }
func (d EffectPureData) ToSequence() []*abt.Node         { return []*abt.Node{d.V} }
func (d EffectPureData) rebuild(c []*abt.Node) abt.Shape { return EffectPureData{V: c[0]} }
func (d EffectPureData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d EffectPureData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// EffectBindData is the payload of EffectBind(id, ctor, args, k): id/ctor
// identify which effect operation is invoked, args are its operand
// expressions, and k is the continuation.
type EffectBindData struct {
	ID   Identifier
	Args []*abt.Node
	K    *abt.Node
}

func (EffectBindData) kind() Kind { return KindEffectBind }
func (d EffectBindData) ToSequence() []*abt.Node {
	return append(append([]*abt.Node{}, d.Args...), d.K)
}
func (d EffectBindData) rebuild(c []*abt.Node) abt.Shape {
	return EffectBindData{ID: d.ID, Args: c[:len(c)-1], K: c[len(c)-1]}
}
func (d EffectBindData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d EffectBindData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}

// ---- leaves: Request, Constructor, Id, Unboxed, Text, Compiled ----

// RequestData is the payload of Request(id, ctor): a leaf referring to
// an effect operation without invoking it.
type RequestData struct{ ID Identifier }

func (RequestData) kind() Kind                                              { return KindRequest }
func (RequestData) ToSequence() []*abt.Node                                 { return nil }
func (d RequestData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape       { return d }
func (d RequestData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// ConstructorData is the payload of Constructor(id, ctor): a leaf
// referring to a data constructor by identity.
type ConstructorData struct{ ID Identifier }

func (ConstructorData) kind() Kind                                        { return KindConstructor }
func (ConstructorData) ToSequence() []*abt.Node                           { return nil }
func (d ConstructorData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape { return d }
func (d ConstructorData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// IdData is the payload of Id(id): a leaf referring to a plain global
// identifier, distinct from a Var (which is an ABT-bound occurrence).
type IdData struct{ Name ident.Name }

func (IdData) kind() Kind                                        { return KindId }
func (IdData) ToSequence() []*abt.Node                            { return nil }
func (d IdData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape { return d }
func (d IdData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// UnboxedData is the payload of Unboxed(value, type): a leaf literal.
type UnboxedData struct{ Value UnboxedValue }

func (UnboxedData) kind() Kind                                        { return KindUnboxed }
func (UnboxedData) ToSequence() []*abt.Node                           { return nil }
func (d UnboxedData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape { return d }
func (d UnboxedData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// TextData is the payload of Text(txt): a leaf string literal.
type TextData struct{ Text string }

func (TextData) kind() Kind                                        { return KindText }
func (TextData) ToSequence() []*abt.Node                           { return nil }
func (d TextData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape { return d }
func (d TextData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// CompiledData is the payload of Compiled(param, name): a leaf embedding
// an already-compiled Value, carrying Name for fresh-naming during
// fullyDecompile.
type CompiledData struct {
	Param Value
	Name  ident.Name
}

func (CompiledData) kind() Kind                                        { return KindCompiled }
func (CompiledData) ToSequence() []*abt.Node                           { return nil }
func (d CompiledData) MapChildren(func(*abt.Node) *abt.Node) abt.Shape { return d }
func (d CompiledData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return s0, d
}

// ---- Sequence ----

// SequenceData is the payload of Sequence(seq...): a tuple-like
// fixed-arity container whose elements are all recursive positions.
// This is the shape exercised by huge-tuple codec round-trip scenarios.
type SequenceData struct{ Seq []*abt.Node }

func (SequenceData) kind() Kind               { return KindSequence }
func (d SequenceData) ToSequence() []*abt.Node { return d.Seq }
func (d SequenceData) rebuild(c []*abt.Node) abt.Shape {
	return SequenceData{Seq: c}
}
func (d SequenceData) MapChildren(f func(*abt.Node) *abt.Node) abt.Shape {
	return mapChildrenFlat(d.ToSequence(), d.rebuild, f)
}
func (d SequenceData) MapAccumulate(s0 any, f func(any, *abt.Node) (any, *abt.Node)) (any, abt.Shape) {
	return mapAccumulateFlat(d.ToSequence(), d.rebuild, s0, f)
}
