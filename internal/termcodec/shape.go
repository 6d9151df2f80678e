package termcodec

import (
	"fmt"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/diag"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/term"
)

// wrapTm, wrapAbs, and wrapVar rebuild the three abt.Node variants from
// their public primitives, recomputing the Free annotation the same way
// the term package's own (unexported) smart-constructor helpers do: by
// unioning children's FreeVars for Tm, and by removing the bound name
// for Abs. term.Data's per-kind rebuild method is unexported, but every
// Data struct's fields are exported, so decode never needs it — it just
// builds the matching struct literal and wraps it here.
func wrapTm(shape abt.Shape) *abt.Node {
	var free ident.Set
	for _, c := range shape.ToSequence() {
		free = free.Union(c.FreeVars())
	}
	return abt.Tm(shape, abt.Annotation{Free: free})
}

func wrapAbs(name ident.Name, body *abt.Node) *abt.Node {
	return abt.Abs(name, body, abt.Annotation{Free: body.FreeVars().Without(name)})
}

func wrapVar(name ident.Name) *abt.Node {
	return abt.Var(name, abt.Annotation{Free: ident.NewSet(name)})
}

// buildHeader builds the full reconstructive header for a non-reference
// node.
func buildHeader(g *abt.Node) (nodeHeader, error) {
	switch g.Kind() {
	case abt.KindVar:
		name, _ := g.AsVar()
		return nodeHeader{AbtKind: uint8(abtKindVar), VarName: name.String()}, nil
	case abt.KindAbs:
		name, _, _ := g.AsAbs()
		return nodeHeader{AbtKind: uint8(abtKindAbs), AbsName: name.String()}, nil
	case abt.KindTm:
		return buildTmHeader(g)
	default:
		return nodeHeader{}, diag.NewError(diag.CodecUnknownTermKind, 0, fmt.Sprintf("unknown abt.Kind %v", g.Kind()))
	}
}

func buildTmHeader(g *abt.Node) (nodeHeader, error) {
	k := term.KindOf(g)
	h := nodeHeader{AbtKind: uint8(abtKindTm), TermKind: uint8(k)}
	switch k {
	case term.KindLam, term.KindLet, term.KindRec, term.KindIf, term.KindAnd, term.KindOr,
		term.KindHandle, term.KindEffectPure, term.KindSequence:
		// Fixed arity (or, for Sequence, arity recovered by draining
		// children on decode) — no extra header metadata needed.
	case term.KindApply:
		_, args, _ := term.AsApply(g)
		h.ArgCount = len(args)
	case term.KindLetRec:
		// g is the inner Tm(LetRecData) node, not the outer Rec wrapper
		// term.AsLetRec expects, so its Bindings are read directly off
		// the shape rather than through that combined deconstructor.
		shape, _ := g.AsTm()
		lr, ok := shape.(term.LetRecData)
		if !ok {
			return nodeHeader{}, diag.NewError(diag.CodecTermShapeMismatch, 0, "KindLetRec node does not carry a LetRecData shape")
		}
		h.ArgCount = len(lr.Bindings)
	case term.KindEffectBind:
		id, args, _, _ := term.AsEffectBind(g)
		h.Identifier = identifierToHeader(id)
		h.ArgCount = len(args)
	case term.KindRequest:
		id, _ := term.AsRequest(g)
		h.Identifier = identifierToHeader(id)
	case term.KindConstructor:
		id, _ := term.AsConstructor(g)
		h.Identifier = identifierToHeader(id)
	case term.KindId:
		name, _ := term.AsId(g)
		h.Name = name.String()
	case term.KindUnboxed:
		v, _ := term.AsUnboxed(g)
		h.Unboxed = unboxedToHeader(v)
	case term.KindText:
		s, _ := term.AsText(g)
		h.Text = s
	case term.KindCompiled:
		param, name, _ := term.AsCompiled(g)
		h.Name = name.String()
		if v, ok := param.Unboxed(); ok {
			h.Unboxed = unboxedToHeader(v)
		}
		// An inline Term()-backed payload travels as a Foreach child,
		// not header state (see Adapter.Foreach).
	case term.KindMatch:
		_, cases, _ := term.AsMatch(g)
		h.Cases = make([]patternHeader, len(cases))
		for i, c := range cases {
			h.Cases[i] = patternToHeader(c.Pattern, c.Guard != nil)
		}
	default:
		return nodeHeader{}, diag.NewError(diag.CodecUnknownTermKind, 0, fmt.Sprintf("unhandled term.Kind %v", k))
	}
	return h, nil
}

// decodeTm rebuilds a Tm node from its header and decoded children,
// mirroring each Data type's ToSequence flattening in reverse.
func decodeTm(k term.Kind, h nodeHeader, nextChild func() (*abt.Node, bool)) (*abt.Node, error) {
	switch k {
	case term.KindLam:
		body, err := takeChildren(nextChild, 1)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.LamData{Body: body[0]}), nil

	case term.KindApply:
		kids, err := takeChildren(nextChild, 1+h.ArgCount)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.ApplyData{Fn: kids[0], Args: kids[1:]}), nil

	case term.KindLetRec:
		kids, err := takeChildren(nextChild, h.ArgCount+1)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.LetRecData{Bindings: kids[:len(kids)-1], Body: kids[len(kids)-1]}), nil

	case term.KindLet:
		kids, err := takeChildren(nextChild, 2)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.LetData{Binding: kids[0], Body: kids[1]}), nil

	case term.KindRec:
		kids, err := takeChildren(nextChild, 1)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.RecData{Inner: kids[0]}), nil

	case term.KindIf:
		kids, err := takeChildren(nextChild, 3)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.IfData{Cond: kids[0], Then: kids[1], Else: kids[2]}), nil

	case term.KindAnd:
		kids, err := takeChildren(nextChild, 2)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.AndData{X: kids[0], Y: kids[1]}), nil

	case term.KindOr:
		kids, err := takeChildren(nextChild, 2)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.OrData{X: kids[0], Y: kids[1]}), nil

	case term.KindMatch:
		scrut, ok := nextChild()
		if !ok {
			return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, "Match node is missing its scrutinee")
		}
		cases := make([]term.MatchCase, len(h.Cases))
		for i, ph := range h.Cases {
			var guard *abt.Node
			if ph.HasGuard {
				g, ok := nextChild()
				if !ok {
					return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, "Match case is missing its guard")
				}
				guard = g
			}
			body, ok := nextChild()
			if !ok {
				return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, "Match case is missing its body")
			}
			cases[i] = term.MatchCase{Pattern: headerToPattern(ph), Guard: guard, Body: body}
		}
		return wrapTm(term.MatchData{Scrut: scrut, Cases: cases}), nil

	case term.KindHandle:
		kids, err := takeChildren(nextChild, 2)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.HandleData{Handler: kids[0], Block: kids[1]}), nil

	case term.KindEffectPure:
		kids, err := takeChildren(nextChild, 1)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.EffectPureData{V: kids[0]}), nil

	case term.KindEffectBind:
		kids, err := takeChildren(nextChild, h.ArgCount+1)
		if err != nil {
			return nil, err
		}
		return wrapTm(term.EffectBindData{
			ID:   headerToIdentifier(h.Identifier),
			Args: kids[:len(kids)-1],
			K:    kids[len(kids)-1],
		}), nil

	case term.KindRequest:
		return wrapTm(term.RequestData{ID: headerToIdentifier(h.Identifier)}), nil

	case term.KindConstructor:
		return wrapTm(term.ConstructorData{ID: headerToIdentifier(h.Identifier)}), nil

	case term.KindId:
		return wrapTm(term.IdData{Name: ident.MakeName(h.Name)}), nil

	case term.KindUnboxed:
		return wrapTm(term.UnboxedData{Value: headerToUnboxed(h.Unboxed)}), nil

	case term.KindText:
		return wrapTm(term.TextData{Text: h.Text}), nil

	case term.KindSequence:
		var kids []*abt.Node
		for {
			c, ok := nextChild()
			if !ok {
				break
			}
			kids = append(kids, c)
		}
		return wrapTm(term.SequenceData{Seq: kids}), nil

	case term.KindCompiled:
		var param term.Value
		if h.Unboxed != nil {
			param = NewUnboxedCell(headerToUnboxed(h.Unboxed))
		} else {
			inner, ok := nextChild()
			if !ok {
				return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, "Compiled node is missing its inline term")
			}
			param = NewInlineTermCell(inner)
		}
		return wrapTm(term.CompiledData{Param: param, Name: ident.MakeName(h.Name)}), nil

	default:
		return nil, diag.NewError(diag.CodecUnknownTermKind, 0, fmt.Sprintf("unhandled term.Kind byte %d", k))
	}
}

func takeChildren(nextChild func() (*abt.Node, bool), n int) ([]*abt.Node, error) {
	kids := make([]*abt.Node, n)
	for i := 0; i < n; i++ {
		c, ok := nextChild()
		if !ok {
			return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, fmt.Sprintf("expected %d children, got %d", n, i))
		}
		kids[i] = c
	}
	return kids, nil
}
