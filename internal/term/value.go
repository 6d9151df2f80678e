package term

import "github.com/akilegaspi/unison/internal/abt"

// Value is the value/reference abstraction spec §1 leaves to the
// consumer: a way to embed an already-compiled payload (or a pointer to
// one) inside a Compiled leaf without the term layer needing to know how
// compiled code is represented or stored.
//
// The concrete implementation backing Compiled nodes in this repo lives
// in package termcodec (ValueCell), so term itself only needs the
// capability, not the storage format. Implementations that back a
// Compiled leaf are expected to be comparable (e.g. a pointer or cell
// handle), since fullyDecompile keys its ref→body map on Value identity.
type Value interface {
	// IsReference reports whether this Value points at another compiled
	// cell rather than carrying an inline payload.
	IsReference() bool

	// Dereference follows a reference to the Value it points at. Ok is
	// false for inline (non-reference) values, or when the reference
	// cannot currently be resolved (e.g. not yet loaded from the cache).
	Dereference() (Value, bool)

	// Unboxed reports the literal this Value carries, if it is one.
	Unboxed() (UnboxedValue, bool)

	// Term reports the term this Value's compiled code decompiles to,
	// if it carries one inline (as opposed to a reference or a literal).
	// The returned term may itself contain Compiled leaves.
	Term() (*abt.Node, bool)
}

// UnboxedType tags the primitive kind an UnboxedValue carries.
type UnboxedType uint8

const (
	UnboxedInt64 UnboxedType = iota
	UnboxedFloat64
	UnboxedBool
	UnboxedRune
)

func (t UnboxedType) String() string {
	switch t {
	case UnboxedInt64:
		return "Int64"
	case UnboxedFloat64:
		return "Float64"
	case UnboxedBool:
		return "Bool"
	case UnboxedRune:
		return "Rune"
	default:
		return "Unknown"
	}
}

// UnboxedValue is a tagged-union literal value small enough to carry
// inline in a Tm node rather than through the Value/Reference
// abstraction. Only the field matching Type is meaningful.
type UnboxedValue struct {
	Type       UnboxedType
	IntValue   int64
	FloatValue float64
	BoolValue  bool
	RuneValue  rune
}

// Int64Value constructs an UnboxedValue holding an Int64.
func Int64Value(v int64) UnboxedValue { return UnboxedValue{Type: UnboxedInt64, IntValue: v} }

// Float64Value constructs an UnboxedValue holding a Float64.
func Float64Value(v float64) UnboxedValue { return UnboxedValue{Type: UnboxedFloat64, FloatValue: v} }

// BoolValue constructs an UnboxedValue holding a Bool.
func BoolValue(v bool) UnboxedValue { return UnboxedValue{Type: UnboxedBool, BoolValue: v} }

// RuneValue constructs an UnboxedValue holding a Rune.
func RuneValue(v rune) UnboxedValue { return UnboxedValue{Type: UnboxedRune, RuneValue: v} }

// Equal reports whether two unboxed values have the same type and
// payload.
func (u UnboxedValue) Equal(other UnboxedValue) bool {
	if u.Type != other.Type {
		return false
	}
	switch u.Type {
	case UnboxedInt64:
		return u.IntValue == other.IntValue
	case UnboxedFloat64:
		return u.FloatValue == other.FloatValue
	case UnboxedBool:
		return u.BoolValue == other.BoolValue
	case UnboxedRune:
		return u.RuneValue == other.RuneValue
	default:
		return false
	}
}
