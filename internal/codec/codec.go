// Package codec implements the graph codec: a byte-level encoder and
// decoder for arbitrary node graphs, parameterised over a capability
// interface the consumer implements for its own node shape (spec §4.6,
// §6). It knows nothing about ABTs or terms — internal/termcodec is the
// adapter that wires internal/term's node shape into it.
package codec

import "io"

// GraphCodec is the capability a consumer implements to let this package
// walk and rebuild its node shape G. R is the type the decoder hands back
// for a not-yet-resolved back-reference; most consumers can simply
// instantiate R the same as G when a reference occurrence carries no
// lighter-weight representation of its own.
//
// G must be comparable: the encoder keys its seen-node map on node
// identity, per spec §5's "identity map... owned by that invocation".
type GraphCodec[G comparable, R any] interface {
	// WriteBytePrefix serialises g's opaque header to sink.
	WriteBytePrefix(g G, sink io.Writer) error

	// BytePrefixLength reports how many bytes WriteBytePrefix would write
	// for g, without writing them.
	BytePrefixLength(g G) int

	// BytePrefixIndex returns the i'th byte of g's header, for callers
	// that need it one byte at a time (the ref-metadata path writes a
	// length before the bytes themselves, so it cannot simply pipe
	// WriteBytePrefix straight to the sink).
	BytePrefixIndex(g G, i int) byte

	// Foreach enumerates g's children in encoding order.
	Foreach(g G, f func(child G))

	// IsReference reports whether g is a reference to another node
	// rather than a nested node with its own children.
	IsReference(g G) bool

	// AsReference narrows a node already known to satisfy IsReference
	// into its R-typed reference view.
	AsReference(g G) R

	// Dereference follows a reference to the node it points at.
	Dereference(r R) G

	// ToGraph widens a reference back into a plain G, for the decoder to
	// install at the position where the reference occurred.
	ToGraph(r R) G

	// StageDecoder returns a fresh Decoder bound to src, driven by this
	// package's decode loop.
	StageDecoder(src io.Reader) Decoder[G, R]
}

// Decoder is the consumer-implemented decode-side counterpart to
// GraphCodec. One is created per decode invocation via StageDecoder.
type Decoder[G any, R any] interface {
	// Decode builds a node from its header and children. nextChild
	// returns each child in turn and (G{}, false) once the node's
	// NestedEnd marker is reached.
	Decode(nextChild func() (G, bool)) (G, error)

	// MakeReference creates the R-typed placeholder for a reference
	// first encountered at byte offset pos, carrying prefix bytes
	// recovered from the stream's ref-metadata (nil if none was
	// written). The decode loop installs this placeholder before
	// decoding the referent, so a cyclic SetReference can succeed.
	MakeReference(pos uint64, prefix []byte) R

	// SetReference backfills ref's referent once it has been decoded.
	SetReference(ref R, referent G)
}
