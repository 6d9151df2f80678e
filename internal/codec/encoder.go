package codec

import (
	"context"
	"io"

	"fortio.org/safecast"

	"github.com/akilegaspi/unison/internal/trace"
)

// Encoder writes a node graph to a sink, tracking an identity map from
// already-written nodes to their byte position so repeated or cyclic
// references collapse to a Seen/RefSeen marker (spec §4.6). One Encoder
// serves exactly one Encode call; its seen-map is not reused across
// invocations (spec §5).
type Encoder[G comparable, R any] struct {
	codec              GraphCodec[G, R]
	includeRefMetadata bool

	sink *countingWriter
	seen map[G]uint64
}

// NewEncoder constructs an Encoder writing to sink under the given
// ref-metadata policy (spec §4.6's includeRefMetadata flag).
func NewEncoder[G comparable, R any](c GraphCodec[G, R], sink io.Writer, includeRefMetadata bool) *Encoder[G, R] {
	return &Encoder[G, R]{
		codec:              c,
		includeRefMetadata: includeRefMetadata,
		sink:               &countingWriter{w: sink},
		seen:               make(map[G]uint64),
	}
}

// Encode writes g (and, transitively, every node it reaches) to the sink.
func (e *Encoder[G, R]) Encode(g G) error {
	return e.encode(g)
}

// Encode is the one-shot convenience form of NewEncoder(c, sink,
// includeRefMetadata).Encode(g). It emits one ScopeTransform span on
// ctx's tracer covering the whole call.
func Encode[G comparable, R any](ctx context.Context, c GraphCodec[G, R], sink io.Writer, includeRefMetadata bool, g G) error {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTransform, "codec.Encode", trace.CurrentSpan(ctx).SpanID)
	err := NewEncoder(c, sink, includeRefMetadata).Encode(g)
	detail := "ok"
	if err != nil {
		detail = "error"
	}
	span.End(detail)
	return err
}

func (e *Encoder[G, R]) encode(g G) error {
	if pos, ok := e.seen[g]; ok {
		marker := Seen
		if e.codec.IsReference(g) {
			marker = RefSeen
		}
		return e.writeSeen(marker, pos)
	}

	startPos := e.sink.pos
	e.seen[g] = startPos

	if e.codec.IsReference(g) {
		return e.encodeRef(g)
	}
	return e.encodeNested(g)
}

func (e *Encoder[G, R]) encodeNested(g G) error {
	if err := e.writeByte(byte(NestedStart)); err != nil {
		return err
	}
	if err := e.codec.WriteBytePrefix(g, e.sink); err != nil {
		return err
	}

	var childErr error
	e.codec.Foreach(g, func(child G) {
		if childErr != nil {
			return
		}
		childErr = e.encode(child)
	})
	if childErr != nil {
		return childErr
	}

	return e.writeByte(byte(NestedEnd))
}

func (e *Encoder[G, R]) encodeRef(g G) error {
	if err := e.writeByte(byte(Ref)); err != nil {
		return err
	}

	r := e.codec.AsReference(g)
	if e.includeRefMetadata {
		if err := e.writeByte(byte(RefMetadata)); err != nil {
			return err
		}
		length := e.codec.BytePrefixLength(g)
		u32len, err := safecast.Conv[uint32](length)
		if err != nil {
			return err
		}
		if err := e.writeU32(u32len); err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			if err := e.writeByte(e.codec.BytePrefixIndex(g, i)); err != nil {
				return err
			}
		}
	} else {
		if err := e.writeByte(byte(RefNoMetadata)); err != nil {
			return err
		}
	}

	return e.encode(e.codec.Dereference(r))
}

func (e *Encoder[G, R]) writeSeen(marker Marker, pos uint64) error {
	if err := e.writeByte(byte(marker)); err != nil {
		return err
	}
	return e.writeU64(pos)
}

func (e *Encoder[G, R]) writeByte(b byte) error {
	_, err := e.sink.Write([]byte{b})
	return err
}

func (e *Encoder[G, R]) writeU64(v uint64) error {
	var buf [8]byte
	putU64BE(buf[:], v)
	_, err := e.sink.Write(buf[:])
	return err
}

func (e *Encoder[G, R]) writeU32(v uint32) error {
	var buf [4]byte
	putU32BE(buf[:], v)
	_, err := e.sink.Write(buf[:])
	return err
}
