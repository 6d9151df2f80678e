package termcodec

import (
	"encoding/binary"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/akilegaspi/unison/internal/diag"
	"github.com/akilegaspi/unison/internal/ident"
	"github.com/akilegaspi/unison/internal/term"
)

// abtKind mirrors abt.Kind's three variants for the wire; it is encoded
// as its own byte rather than reusing abt.Kind's Go type so the wire
// format never depends on that enum's in-memory representation.
type abtKind uint8

const (
	abtKindVar abtKind = 0
	abtKindAbs abtKind = 1
	abtKindTm  abtKind = 2
)

// identifierHeader is the wire form of term.Identifier.
type identifierHeader struct {
	Name        string `msgpack:"name"`
	CtorType    []byte `msgpack:"ctor_type"`
	CtorOrdinal uint32 `msgpack:"ctor_ordinal"`
}

func identifierToHeader(id term.Identifier) *identifierHeader {
	return &identifierHeader{
		Name:        id.Name.String(),
		CtorType:    append([]byte(nil), id.Ctor.Type[:]...),
		CtorOrdinal: id.Ctor.Ordinal,
	}
}

func headerToIdentifier(h *identifierHeader) term.Identifier {
	var ctorType ident.Hash
	copy(ctorType[:], h.CtorType)
	return term.Identifier{
		Name: ident.MakeName(h.Name),
		Ctor: ident.CtorID{Type: ctorType, Ordinal: h.CtorOrdinal},
	}
}

// unboxedHeader is the wire form of term.UnboxedValue.
type unboxedHeader struct {
	Type  uint8   `msgpack:"type"`
	Int   int64   `msgpack:"int,omitempty"`
	Float float64 `msgpack:"float,omitempty"`
	Bool  bool    `msgpack:"bool,omitempty"`
	Rune  int32   `msgpack:"rune,omitempty"`
}

func unboxedToHeader(v term.UnboxedValue) *unboxedHeader {
	return &unboxedHeader{
		Type:  uint8(v.Type),
		Int:   v.IntValue,
		Float: v.FloatValue,
		Bool:  v.BoolValue,
		Rune:  int32(v.RuneValue),
	}
}

func headerToUnboxed(h *unboxedHeader) term.UnboxedValue {
	return term.UnboxedValue{
		Type:       term.UnboxedType(h.Type),
		IntValue:   h.Int,
		FloatValue: h.Float,
		BoolValue:  h.Bool,
		RuneValue:  rune(h.Rune),
	}
}

// patternHeader is the wire form of term.Pattern plus the guard-presence
// bit MatchData's flattened ToSequence needs to re-pair decoded children
// into cases (MatchData.rebuild in internal/term/shape.go does the same
// pairing from the in-memory Cases slice it already has).
type patternHeader struct {
	HasCtor     bool     `msgpack:"has_ctor"`
	CtorType    []byte   `msgpack:"ctor_type,omitempty"`
	CtorOrdinal uint32   `msgpack:"ctor_ordinal,omitempty"`
	Names       []string `msgpack:"names"`
	HasGuard    bool     `msgpack:"has_guard"`
}

func patternToHeader(p term.Pattern, hasGuard bool) patternHeader {
	names := make([]string, len(p.Names))
	for i, n := range p.Names {
		names[i] = n.String()
	}
	h := patternHeader{HasCtor: p.HasCtor, Names: names, HasGuard: hasGuard}
	if p.HasCtor {
		h.CtorType = append([]byte(nil), p.Ctor.Type[:]...)
		h.CtorOrdinal = p.Ctor.Ordinal
	}
	return h
}

func headerToPattern(h patternHeader) term.Pattern {
	names := make([]ident.Name, len(h.Names))
	for i, n := range h.Names {
		names[i] = ident.MakeName(n)
	}
	p := term.Pattern{HasCtor: h.HasCtor, Names: names}
	if h.HasCtor {
		var ctorType ident.Hash
		copy(ctorType[:], h.CtorType)
		p.Ctor = ident.CtorID{Type: ctorType, Ordinal: h.CtorOrdinal}
	}
	return p
}

// nodeHeader is the full, reconstructive byte-prefix payload for a
// non-reference node: abt.Kind, and for Tm nodes the term.Kind plus
// whatever scalar metadata that kind's Data cannot recover from its
// decoded children alone.
type nodeHeader struct {
	AbtKind uint8 `msgpack:"abt_kind"`

	VarName string `msgpack:"var_name,omitempty"`
	AbsName string `msgpack:"abs_name,omitempty"`

	TermKind   uint8             `msgpack:"term_kind,omitempty"`
	ArgCount   int               `msgpack:"arg_count,omitempty"`
	Identifier *identifierHeader `msgpack:"identifier,omitempty"`
	Unboxed    *unboxedHeader    `msgpack:"unboxed,omitempty"`
	Text       string            `msgpack:"text,omitempty"`
	Name       string            `msgpack:"name,omitempty"`
	Cases      []patternHeader   `msgpack:"cases,omitempty"`
}

// writeHeader frames h as a 4-byte big-endian length followed by its
// msgpack encoding, so the decoder can read the exact header bytes off
// the shared stream with plain ReadFull calls instead of letting a
// streaming msgpack.Decoder buffer ahead of the wire's marker bytes.
func writeHeader(sink io.Writer, h nodeHeader) error {
	b, err := msgpack.Marshal(&h)
	if err != nil {
		return fmt.Errorf("termcodec: failed to marshal header: %w", err)
	}
	n, err := safecast.Conv[uint32](len(b))
	if err != nil {
		return diag.NewError(diag.CodecPositionOverflow, 0, fmt.Sprintf("header length %d overflows uint32", len(b)))
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], n)
	if _, err := sink.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = sink.Write(b)
	return err
}

func readHeader(src io.Reader) (nodeHeader, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(src, lenBuf[:]); err != nil {
		return nodeHeader{}, diag.NewError(diag.CodecTruncatedStream, 0, "stream ended while reading a term header length")
	}
	length, err := safecast.Conv[int](binary.BigEndian.Uint32(lenBuf[:]))
	if err != nil {
		return nodeHeader{}, diag.NewError(diag.CodecPositionOverflow, 0, "term header length overflows int")
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(src, payload); err != nil {
		return nodeHeader{}, diag.NewError(diag.CodecTruncatedStream, 0, "stream ended while reading a term header body")
	}
	var h nodeHeader
	if err := msgpack.Unmarshal(payload, &h); err != nil {
		return nodeHeader{}, fmt.Errorf("termcodec: failed to unmarshal header: %w", err)
	}
	return h, nil
}

// refMetadata is the opaque, informational payload written into the
// wire's ref-metadata slot for a Compiled reference node (spec §4.6's
// RefMetadata case). It plays no role in resolving the reference — that
// happens purely by stream position, per internal/codec's Seen/RefSeen
// mechanism — it exists so a reader inspecting the stream without fully
// decoding can see which name a reference was reached through.
type refMetadata struct {
	Name string `msgpack:"name"`
}

// refMetadataBytes msgpack-encodes the ref metadata for name. Marshal only fails
// on unsupported Go types, and refMetadata is a single string field, so
// this cannot fail in practice.
func refMetadataBytes(name ident.Name) []byte {
	b, err := msgpack.Marshal(&refMetadata{Name: name.String()})
	if err != nil {
		panic(fmt.Sprintf("termcodec: marshaling ref metadata failed: %v", err))
	}
	return b
}

// refNameFromMetadata recovers the Name a reference was reached through
// from its decoded ref-metadata bytes. The profile that encoded the
// stream may have omitted ref-metadata entirely (RefNoMetadata), in
// which case prefix is empty and the placeholder gets the zero Name.
func refNameFromMetadata(prefix []byte) ident.Name {
	if len(prefix) == 0 {
		return ident.Name{}
	}
	var meta refMetadata
	if err := msgpack.Unmarshal(prefix, &meta); err != nil {
		return ident.Name{}
	}
	return ident.MakeName(meta.Name)
}
