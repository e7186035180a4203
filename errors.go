package retrace

// SyntaxError reports a malformed pattern detected while parsing.
type SyntaxError struct {
	err string
}

func (e SyntaxError) Error() string {
	return e.err
}

var _ error = (*SyntaxError)(nil)

func newSyntaxError(err string) SyntaxError {
	return SyntaxError{err: err}
}

// ErrUnbalancedBrackets is returned when a pattern has a grouping or
// character-class construct that never closes, or a close that has no
// matching open.
var ErrUnbalancedBrackets = SyntaxError{err: "unbalanced brackets"}
