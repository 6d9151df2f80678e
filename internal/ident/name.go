// Package ident provides the default identifier scheme consumed by the abt
// and term packages: structurally-equal names, content hashes, and opaque
// constructor identifiers. None of this is interpreted by the core — it
// exists so terms can be constructed and compared without requiring a
// caller-supplied symbol table.
package ident

import (
	"golang.org/x/text/unicode/norm"
)

// Name wraps a string with structural equality. Text is NFC-normalized on
// construction so two names that look identical compare equal regardless
// of how their source text was encoded.
type Name struct {
	text string
}

// MakeName normalizes s and returns the Name wrapping it.
func MakeName(s string) Name {
	return Name{text: norm.NFC.String(s)}
}

// String returns the underlying text.
func (n Name) String() string {
	return n.text
}

// IsZero reports whether n is the zero Name ("").
func (n Name) IsZero() bool {
	return n.text == ""
}

// Equal reports structural equality.
func (n Name) Equal(other Name) bool {
	return n.text == other.text
}

// Set is a free-variable / binder set keyed by Name.
type Set map[Name]struct{}

// NewSet builds a Set from the given names.
func NewSet(names ...Name) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether n is a member of s. The nil set contains nothing.
func (s Set) Contains(n Name) bool {
	_, ok := s[n]
	return ok
}

// Union returns a new Set containing every name in s or other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Without returns a new Set containing every name in s except n.
func (s Set) Without(n Name) Set {
	if !s.Contains(n) {
		return s
	}
	out := make(Set, len(s))
	for m := range s {
		if m != n {
			out[m] = struct{}{}
		}
	}
	return out
}

// Add returns a new Set containing every name in s plus n.
func (s Set) Add(n Name) Set {
	if s.Contains(n) {
		return s
	}
	out := make(Set, len(s)+1)
	for m := range s {
		out[m] = struct{}{}
	}
	out[n] = struct{}{}
	return out
}

// Len reports the number of members.
func (s Set) Len() int {
	return len(s)
}

// ToSlice returns the set's members in no particular order.
func (s Set) ToSlice() []Name {
	out := make([]Name, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}
