package term

import "github.com/akilegaspi/unison/internal/abt"

// Kind enumerates the term layer's node shapes (spec's `F<R>` sum). Every
// Kind corresponds to exactly one Data type in shape.go, which is the Tm
// payload abt.Node.AsTm returns.
type Kind uint8

const (
	KindLam Kind = iota
	KindApply
	KindLetRec
	KindLet
	KindRec
	KindIf
	KindAnd
	KindOr
	KindMatch
	KindHandle
	KindEffectPure
	KindEffectBind
	KindRequest
	KindConstructor
	KindId
	KindUnboxed
	KindText
	KindSequence
	KindCompiled
)

func (k Kind) String() string {
	switch k {
	case KindLam:
		return "Lam"
	case KindApply:
		return "Apply"
	case KindLetRec:
		return "LetRec"
	case KindLet:
		return "Let"
	case KindRec:
		return "Rec"
	case KindIf:
		return "If"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindMatch:
		return "Match"
	case KindHandle:
		return "Handle"
	case KindEffectPure:
		return "EffectPure"
	case KindEffectBind:
		return "EffectBind"
	case KindRequest:
		return "Request"
	case KindConstructor:
		return "Constructor"
	case KindId:
		return "Id"
	case KindUnboxed:
		return "Unboxed"
	case KindText:
		return "Text"
	case KindSequence:
		return "Sequence"
	case KindCompiled:
		return "Compiled"
	default:
		return "Unknown"
	}
}

// Data is implemented by every term shape payload; it is the private
// marker the hir package uses under the name exprData, adapted here so
// KindOf can recover the Kind without a type switch at every call site.
type Data interface {
	abt.Shape
	kind() Kind
}

// KindOf reports n's term Kind. It panics if n is not a Tm node carrying
// a Data payload — a programmer error per spec §7.1, since every term
// node built through this package's smart constructors is a Tm, Var, or
// Abs and callers are expected to check Kind()/AsVar()/AsAbs() first.
func KindOf(n *abt.Node) Kind {
	shape, ok := n.AsTm()
	if !ok {
		panic("term: KindOf called on a non-Tm node")
	}
	d, ok := shape.(Data)
	if !ok {
		panic("term: Tm node does not carry a term.Data payload")
	}
	return d.kind()
}
