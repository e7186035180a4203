// Package retrace implements a small, self-contained regular expression
// engine: a hand-written parser turns pattern text into an AST, an optional
// bottom-up optimizer rewrites the AST, a Thompson-style lowerer turns the
// AST into a capture-annotated NFA, and two independent executors — one
// backtracking with captures, one subset-construction for acceptance only —
// run the NFA against input text.
package retrace

// Regexp is a compiled pattern, ready to match against input strings.
type Regexp struct {
	ast *AST
	nfa *NFA
}

// Compile parses pattern and lowers it to an NFA. When optimize is true,
// both the AST optimizer (§4.2) and the NFA optimizer (§4.4) run before the
// result is returned; §8 requires that this never changes which inputs are
// accepted or what they capture, only the size of the underlying automaton.
func Compile(pattern string, optimize bool) (*Regexp, error) {
	ast, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	nfa := Lower(ast, optimize)
	if optimize {
		nfa = OptimizeNFA(nfa)
	}
	if err := nfa.checkInvariants(); err != nil {
		return nil, err
	}
	return &Regexp{ast: ast, nfa: nfa}, nil
}

// String renders the compiled pattern back into pattern syntax.
func (re *Regexp) String() string {
	return re.ast.String()
}

// Accepts reports whether input matches re in full (both executors of §4.5
// are guaranteed to agree on this answer; Accepts uses the cheaper subset
// executor since no capture information is required).
func (re *Regexp) Accepts(input string) bool {
	return AcceptsSubset(re.nfa, input)
}

// Captures reports the capture spans of the first accepting path the
// backtracking executor finds, or nil if input does not match. Captures[0]
// always spans the whole match.
func (re *Regexp) Captures(input string) []Capture {
	return FindCaptures(re.nfa, input)
}

// NumGroups reports how many capture groups the pattern declares, including
// the implicit group 0 for the whole match.
func (re *Regexp) NumGroups() int {
	return re.nfa.NGroups
}
