package codec

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"

	"github.com/akilegaspi/unison/internal/diag"
	"github.com/akilegaspi/unison/internal/trace"
)

// decodeState drives one Decode invocation: the byte-level marker state
// machine plus the position map from already-decoded byte offsets to
// their node, used to resolve Seen/RefSeen back-references (spec §4.6).
type decodeState[G comparable, R any] struct {
	codec    GraphCodec[G, R]
	dec      Decoder[G, R]
	src      *countingReader
	byPos    map[uint64]G
	maxDepth int
	depth    int
}

// Decode reads one full node graph from src. maxDepth <= 0 means
// unlimited nesting. It emits one ScopeTransform span on ctx's tracer
// covering the whole call.
func Decode[G comparable, R any](ctx context.Context, c GraphCodec[G, R], src io.Reader, maxDepth int) (G, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTransform, "codec.Decode", trace.CurrentSpan(ctx).SpanID)
	cr := newCountingReader(src)
	st := &decodeState[G, R]{
		codec:    c,
		src:      cr,
		byPos:    make(map[uint64]G),
		maxDepth: maxDepth,
	}
	st.dec = c.StageDecoder(cr)
	g, err := st.read1()
	detail := "ok"
	if err != nil {
		detail = "error"
	}
	span.End(detail)
	return g, err
}

func (d *decodeState[G, R]) read1() (G, error) {
	var zero G

	d.depth++
	defer func() { d.depth-- }()
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return zero, diag.NewError(diag.CodecMaxDepthExceeded, d.src.pos,
			fmt.Sprintf("nesting depth exceeded configured maximum of %d", d.maxDepth))
	}

	startPos := d.src.pos
	b, err := d.src.ReadByte()
	if err != nil {
		return zero, diag.NewError(diag.CodecTruncatedStream, startPos, "stream ended while expecting a node marker")
	}

	switch Marker(b) {
	case NestedStart:
		return d.readNested(startPos)
	case Seen:
		return d.readBackref(startPos)
	case RefSeen:
		return d.readBackref(startPos)
	case Ref:
		return d.readRef(startPos)
	case NestedEnd:
		return zero, diag.NewError(diag.CodecUnexpectedNestedEnd, startPos, "unexpected NestedEnd marker outside a nested node")
	default:
		return zero, diag.NewError(diag.CodecUnknownMarker, startPos, fmt.Sprintf("unknown marker byte 0x%02x", b))
	}
}

func (d *decodeState[G, R]) readBackref(startPos uint64) (G, error) {
	var zero G
	pos, err := d.readU64(startPos)
	if err != nil {
		return zero, err
	}
	g, ok := d.byPos[pos]
	if !ok {
		return zero, diag.NewError(diag.CodecDanglingBackref, startPos,
			fmt.Sprintf("back-reference points at byte offset %d, which was never recorded", pos)).
			WithNote(pos, "referenced position")
	}
	return g, nil
}

func (d *decodeState[G, R]) readNested(startPos uint64) (G, error) {
	var zero G
	invalidated := false
	reachedEnd := false
	var childErr error

	nextChild := func() (G, bool) {
		if invalidated {
			panic(fmt.Errorf("codec: nested child iterator used after its frame advanced past it"))
		}
		if reachedEnd {
			return zero, false
		}
		peeked, err := d.src.Peek(1)
		if err != nil {
			childErr = diag.NewError(diag.CodecUnterminatedNested, startPos,
				"stream ended before a NestedEnd marker closed this node")
			reachedEnd = true
			return zero, false
		}
		if Marker(peeked[0]) == NestedEnd {
			_, _ = d.src.ReadByte()
			reachedEnd = true
			return zero, false
		}
		child, err := d.read1()
		if err != nil {
			childErr = err
			reachedEnd = true
			return zero, false
		}
		return child, true
	}

	g, err := d.dec.Decode(nextChild)
	invalidated = true
	if childErr != nil {
		return zero, childErr
	}
	if err != nil {
		if _, ok := err.(diag.Diagnostic); ok {
			return zero, err
		}
		code := diag.CodecIOError
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			code = diag.CodecTruncatedStream
		}
		return zero, diag.NewError(code, startPos, err.Error())
	}
	if !reachedEnd {
		if derr := d.drainNested(startPos); derr != nil {
			return zero, derr
		}
	}

	d.byPos[startPos] = g
	return g, nil
}

// drainNested consumes any children the consumer's Decode call left
// unread, up to and including the NestedEnd marker. A well-behaved
// consumer that calls nextChild until it returns false never reaches
// this; it exists so a Decoder that only needs a fixed number of leading
// children (a shape the consumer fully determines from the prefix) does
// not leave the stream misaligned for the next sibling.
func (d *decodeState[G, R]) drainNested(startPos uint64) error {
	for {
		peeked, err := d.src.Peek(1)
		if err != nil {
			return diag.NewError(diag.CodecUnterminatedNested, startPos,
				"stream ended before a NestedEnd marker closed this node")
		}
		if Marker(peeked[0]) == NestedEnd {
			_, _ = d.src.ReadByte()
			return nil
		}
		if _, err := d.read1(); err != nil {
			return err
		}
	}
}

func (d *decodeState[G, R]) readRef(startPos uint64) (G, error) {
	var zero G
	metaByte, err := d.src.ReadByte()
	if err != nil {
		return zero, diag.NewError(diag.CodecTruncatedStream, startPos, "stream ended while reading ref-metadata tag")
	}

	var prefix []byte
	switch RefMetaTag(metaByte) {
	case RefMetadata:
		length, err := d.readPrefixLength(startPos)
		if err != nil {
			return zero, err
		}
		prefix = make([]byte, length)
		if err := d.src.ReadFull(prefix); err != nil {
			return zero, diag.NewError(diag.CodecTruncatedStream, startPos, "stream ended while reading ref-metadata prefix bytes")
		}
	case RefNoMetadata:
		// no bytes follow
	default:
		return zero, diag.NewError(diag.CodecRefMetadataMismatch, startPos,
			fmt.Sprintf("unknown ref-metadata tag 0x%02x", metaByte))
	}

	ref := d.dec.MakeReference(startPos, prefix)
	g := d.codec.ToGraph(ref)
	// Recorded before decoding the referent: a self- or mutually-cyclic
	// graph's referent may itself back-reference this position.
	d.byPos[startPos] = g

	referent, err := d.read1()
	if err != nil {
		return zero, err
	}
	d.dec.SetReference(ref, referent)
	return g, nil
}

func (d *decodeState[G, R]) readU64(startPos uint64) (uint64, error) {
	var buf [8]byte
	if err := d.src.ReadFull(buf[:]); err != nil {
		return 0, diag.NewError(diag.CodecTruncatedStream, startPos, "stream ended while reading a position")
	}
	return getU64BE(buf[:]), nil
}

func (d *decodeState[G, R]) readPrefixLength(startPos uint64) (int, error) {
	var buf [4]byte
	if err := d.src.ReadFull(buf[:]); err != nil {
		return 0, diag.NewError(diag.CodecTruncatedStream, startPos, "stream ended while reading a ref-metadata prefix length")
	}
	v := getU32BE(buf[:])
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, diag.NewError(diag.CodecPositionOverflow, startPos,
			fmt.Sprintf("ref-metadata prefix length %d does not fit this platform's int: %v", v, err))
	}
	return n, nil
}
