package ident

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a content hash used to identify Compiled value cells and
// Constructor/Id targets without a shared mutable symbol table. The core
// never interprets a Hash beyond equality (spec §1: "does not interpret
// reference metadata").
type Hash [sha256.Size]byte

// HashBytes derives a Hash from arbitrary content bytes.
func HashBytes(b []byte) Hash {
	var h Hash
	sum := sha256.Sum256(b)
	copy(h[:], sum[:])
	return h
}

// String renders the hash as lowercase hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// CtorID opaquely identifies a data constructor: the hash of the data type
// it belongs to, plus the constructor's ordinal within that type. Two
// CtorIDs are equal iff both fields match; nothing about their internal
// structure is otherwise meaningful to abt/term.
type CtorID struct {
	Type    Hash
	Ordinal uint32
}

// Equal reports whether two constructor identifiers refer to the same
// constructor.
func (c CtorID) Equal(other CtorID) bool {
	return c.Type == other.Type && c.Ordinal == other.Ordinal
}
