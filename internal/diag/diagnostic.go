package diag

import "fmt"

// Note attaches secondary context to a Diagnostic at another stream
// position — e.g. "reference declared here" alongside a dangling
// back-reference error.
type Note struct {
	Pos uint64
	Msg string
}

// Diagnostic describes a single malformed-input finding (spec §7.2).
// Implements error so it can be returned directly from Decode.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  uint64
	Notes    []Note
}

func (d Diagnostic) Error() string {
	return d.String()
}

// String renders "<severity> <code> at <pos>: <message>", the form used
// by both error messages and test fixtures.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s at 0x%x: %s", d.Severity, d.Code, d.Primary, d.Message)
}

