package termcodec

import (
	"fmt"
	"io"

	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/codec"
	"github.com/akilegaspi/unison/internal/diag"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/term"
)

// Adapter implements codec.GraphCodec[*abt.Node, *abt.Node] over
// internal/term's node shape. Reference and graph are the same concrete
// type here (Go's type parameters cannot express R as a proper subtype
// of G the way the specification's GraphCodec<G, R extends G> does — see
// the Open Question resolution in DESIGN.md), so AsReference/ToGraph are
// identity and Dereference rewraps the Value a Compiled reference points
// at into a fresh Compiled node for the codec to recurse into.
type Adapter struct{}

var _ codec.GraphCodec[*abt.Node, *abt.Node] = Adapter{}

// WriteBytePrefix writes g's full reconstructive header: enough bytes
// that, combined with g's Foreach children, nest() recovers g exactly.
func (Adapter) WriteBytePrefix(g *abt.Node, sink io.Writer) error {
	h, err := buildHeader(g)
	if err != nil {
		return err
	}
	return writeHeader(sink, h)
}

// BytePrefixLength and BytePrefixIndex are only ever called by the
// encoder for reference nodes (Compiled cells whose Value.IsReference()
// is true), to fill the wire's optional ref-metadata slot — an opaque,
// informational descriptor distinct from WriteBytePrefix's reconstructive
// header, since resolving a reference never needs it.
func (Adapter) BytePrefixLength(g *abt.Node) int {
	return len(refMetadataBytesFor(g))
}

func (Adapter) BytePrefixIndex(g *abt.Node, i int) byte {
	return refMetadataBytesFor(g)[i]
}

func refMetadataBytesFor(g *abt.Node) []byte {
	_, name, ok := term.AsCompiled(g)
	if !ok {
		panic("termcodec: ref-metadata requested for a non-Compiled node")
	}
	return refMetadataBytes(name)
}

// Foreach enumerates g's recursive positions: Abs's single body, a Tm
// node's abt.Shape.ToSequence() (every term.Kind but Compiled already
// flattens its recursive positions this way), or a non-reference
// Compiled leaf's inline term payload, which ToSequence cannot see
// because CompiledData.ToSequence always reports no children.
func (Adapter) Foreach(g *abt.Node, f func(*abt.Node)) {
	switch g.Kind() {
	case abt.KindVar:
		return
	case abt.KindAbs:
		_, body, _ := g.AsAbs()
		f(body)
	case abt.KindTm:
		if term.KindOf(g) == term.KindCompiled {
			param, _, _ := term.AsCompiled(g)
			if param.IsReference() {
				return
			}
			if inner, ok := param.Term(); ok {
				f(inner)
			}
			return
		}
		shape, _ := g.AsTm()
		for _, c := range shape.ToSequence() {
			f(c)
		}
	}
}

// IsReference reports whether g is a Compiled leaf whose embedded Value
// points at another cell rather than carrying an inline payload.
func (Adapter) IsReference(g *abt.Node) bool {
	if g.Kind() != abt.KindTm || term.KindOf(g) != term.KindCompiled {
		return false
	}
	param, _, _ := term.AsCompiled(g)
	return param.IsReference()
}

func (Adapter) AsReference(g *abt.Node) *abt.Node { return g }

func (Adapter) ToGraph(r *abt.Node) *abt.Node { return r }

// Dereference follows a Compiled reference node to the Value its target
// cell holds, rewrapped as a fresh Compiled node so the codec's encoder
// can recurse into it exactly as it would any other node (itself a
// reference again, if cells chain).
func (Adapter) Dereference(r *abt.Node) *abt.Node {
	param, name, ok := term.AsCompiled(r)
	if !ok {
		panic("termcodec: Dereference called on a non-Compiled node")
	}
	target, ok := param.Dereference()
	if !ok {
		panic("termcodec: Dereference called on an unresolved reference cell")
	}
	return wrapTm(term.CompiledData{Param: target, Name: name})
}

func (Adapter) StageDecoder(src io.Reader) codec.Decoder[*abt.Node, *abt.Node] {
	return &termDecoder{src: src}
}

// termDecoder implements codec.Decoder[*abt.Node, *abt.Node]. It reads
// its header directly off the shared stream (internal/codec hands it the
// same reader the decode engine uses for marker bytes), then dispatches
// on the header's abt/term kind to rebuild the node from decoded
// children plus header metadata.
type termDecoder struct {
	src io.Reader
}

func (d *termDecoder) Decode(nextChild func() (*abt.Node, bool)) (*abt.Node, error) {
	h, err := readHeader(d.src)
	if err != nil {
		return nil, err
	}
	switch abtKind(h.AbtKind) {
	case abtKindVar:
		return wrapVar(ident.MakeName(h.VarName)), nil
	case abtKindAbs:
		body, ok := nextChild()
		if !ok {
			return nil, diag.NewError(diag.CodecTermShapeMismatch, 0, "Abs node is missing its body child")
		}
		return wrapAbs(ident.MakeName(h.AbsName), body), nil
	case abtKindTm:
		return decodeTm(term.Kind(h.TermKind), h, nextChild)
	default:
		return nil, diag.NewError(diag.CodecUnknownTermKind, 0, fmt.Sprintf("unknown abt kind byte %d", h.AbtKind))
	}
}

// MakeReference builds a placeholder Compiled node wrapping an
// unresolved reference cell. It is recorded by internal/codec's decode
// engine before the referent is decoded, so a referent that points back
// at this same position (a cycle) resolves correctly.
func (d *termDecoder) MakeReference(pos uint64, prefix []byte) *abt.Node {
	return wrapTm(term.CompiledData{Param: NewReferenceCell(), Name: refNameFromMetadata(prefix)})
}

// SetReference resolves ref's placeholder cell to referent's own cell.
// referent is always itself a Compiled node: Adapter.Dereference only
// ever hands the encoder another Compiled node to recurse into, so
// whatever position ref's reference pointed at decodes back to one.
func (d *termDecoder) SetReference(ref *abt.Node, referent *abt.Node) {
	refParam, _, ok := term.AsCompiled(ref)
	if !ok {
		panic("termcodec: SetReference called with a non-Compiled reference node")
	}
	cell, ok := refParam.(*ValueCell)
	if !ok {
		panic("termcodec: reference node's Value is not a *ValueCell")
	}
	targetParam, _, ok := term.AsCompiled(referent)
	if !ok {
		panic("termcodec: SetReference's referent is not a Compiled node")
	}
	targetCell, ok := targetParam.(*ValueCell)
	if !ok {
		panic("termcodec: referent node's Value is not a *ValueCell")
	}
	cell.SetTarget(targetCell)
}
