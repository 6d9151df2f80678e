package term

import (
	"github.com/akilegaspi/unison/internal/abt"
	"github.com/akilegaspi/unison/internal/ident"
)

// Pattern describes the shape a MatchCase matches against. A pattern
// with no constructor is a wildcard/variable pattern; Names lists the
// pattern's binder names in the order they are bound by the leading Abs
// chain on the case's Body (spec §3.2: "the number of leading Abs layers
// on body equals pattern.arity").
type Pattern struct {
	Ctor    ident.CtorID
	HasCtor bool
	Names   []ident.Name
}

// Arity is the number of names this pattern binds.
func (p Pattern) Arity() int { return len(p.Names) }

// MatchCase is one arm of a Match term: a pattern, an optional guard
// (nil when absent), and a body whose leading Abs chain binds the
// pattern's names.
type MatchCase struct {
	Pattern Pattern
	Guard   *abt.Node
	Body    *abt.Node
}
