package retrace

// Capture is a matched substring's half-open byte range [Start, End) into
// the original input. A group that never participated in the match is
// reported as Capture{-1, -1}.
type Capture struct {
	Start, End int
}

func unsetCapture() Capture { return Capture{Start: -1, End: -1} }

// pathKey identifies one (state, offset) pair visited along the current DFS
// path. It exists only to break pure-epsilon cycles; it is not a global
// memo table, so the same pair may be explored again later via a different
// path once the path that first visited it has been backtracked out of.
type pathKey struct {
	state, offset int
}

// backtrackMatcher runs the §4.5 backtracking executor over one NFA.
type backtrackMatcher struct {
	nfa     *NFA
	input   string
	visited map[pathKey]bool
}

// FindCaptures searches for an accepting path through nfa over input,
// exploring each state's outgoing transitions in declared order (so
// greedy/lazy quantifiers are resolved by transition order alone) and
// returns the capture spans of the first accepting path found, or nil if
// the input is rejected.
func FindCaptures(nfa *NFA, input string) []Capture {
	m := &backtrackMatcher{nfa: nfa, input: input, visited: make(map[pathKey]bool)}
	caps := make([]Capture, nfa.NGroups)
	for i := range caps {
		caps[i] = unsetCapture()
	}
	result, ok := m.search(nfa.Initial, 0, caps)
	if !ok {
		return nil
	}
	return result
}

// Accepts reports whether nfa matches input at all, ignoring captures.
func Accepts(nfa *NFA, input string) bool {
	return FindCaptures(nfa, input) != nil
}

func (m *backtrackMatcher) search(state, offset int, caps []Capture) ([]Capture, bool) {
	key := pathKey{state, offset}
	if m.visited[key] {
		return nil, false
	}
	m.visited[key] = true
	defer delete(m.visited, key)

	s := m.nfa.States[state]
	if s.Final && offset == len(m.input) {
		return caps, true
	}

	for _, t := range s.Out {
		if !t.Matcher.Match(m.input[offset:]) {
			continue
		}
		n := t.Matcher.Length()
		nextCaps := applyAnnotation(caps, t.Annotation, offset, offset+n)
		if result, ok := m.search(t.Target, offset+n, nextCaps); ok {
			return result, true
		}
	}
	return nil, false
}

// applyAnnotation returns a copy of caps with every group named in ann.Open
// opened at start and every group named in ann.Close closed at end. caps
// itself is never mutated, since backtracking requires each explored branch
// to see its own, independent capture snapshot.
func applyAnnotation(caps []Capture, ann *Annotation, start, end int) []Capture {
	if ann == nil {
		return caps
	}
	out := append([]Capture(nil), caps...)
	for _, g := range ann.Open {
		out[g].Start = start
	}
	for _, g := range ann.Close {
		out[g].End = end
	}
	return out
}
