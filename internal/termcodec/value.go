// Package termcodec adapts internal/term's node shape onto the generic
// graph codec in internal/codec: a codec.GraphCodec[*abt.Node, *abt.Node]
// whose byte prefix carries a term's kind and inline scalar payload, and
// whose Compiled leaves holding a reference Value are the codec's
// reference nodes (spec's "already
// compiled cell" boundary, left to the consumer by internal/term/value.go).
package termcodec

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/term"
)

// ValueCell is the concrete term.Value this package backs Compiled
// leaves with. A cell is in exactly one of three states, mirroring
// term.Value's contract: a reference to another cell, an inline literal,
// or an inline term that itself decompiles (and may embed further
// Compiled leaves).
type ValueCell struct {
	reference bool
	target    *ValueCell

	unboxed    term.UnboxedValue
	hasUnboxed bool

	inline *abt.Node
}

// NewReferenceCell returns a cell that points at another cell, to be
// filled in later by SetTarget. Decode uses this to create a forward
// placeholder before the referent has been read off the wire.
func NewReferenceCell() *ValueCell {
	return &ValueCell{reference: true}
}

// NewUnboxedCell returns a cell carrying an inline literal.
func NewUnboxedCell(v term.UnboxedValue) *ValueCell {
	return &ValueCell{unboxed: v, hasUnboxed: true}
}

// NewInlineTermCell returns a cell carrying an inline term payload.
func NewInlineTermCell(n *abt.Node) *ValueCell {
	return &ValueCell{inline: n}
}

// SetTarget resolves a reference cell to the cell it points at. Calling
// it on a non-reference cell is a programmer error.
func (c *ValueCell) SetTarget(target *ValueCell) {
	if !c.reference {
		panic("termcodec: SetTarget called on a non-reference cell")
	}
	c.target = target
}

func (c *ValueCell) IsReference() bool { return c.reference }

func (c *ValueCell) Dereference() (term.Value, bool) {
	if !c.reference || c.target == nil {
		return nil, false
	}
	return c.target, true
}

func (c *ValueCell) Unboxed() (term.UnboxedValue, bool) {
	if !c.hasUnboxed {
		return term.UnboxedValue{}, false
	}
	return c.unboxed, true
}

func (c *ValueCell) Term() (*abt.Node, bool) {
	if c.inline == nil {
		return nil, false
	}
	return c.inline, true
}
