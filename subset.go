package retrace

// AcceptsSubset decides acceptance via subset construction: a per-character
// advance over the set of all states reachable by epsilon-closure, ignoring
// every Annotation entirely. It exists to let §8's agreement property be
// checked against the backtracking executor — the two must always agree on
// acceptance, even though only the backtracking executor can report
// captures.
func AcceptsSubset(nfa *NFA, input string) bool {
	current := epsilonClosure(nfa, []int{nfa.Initial})

	for i := 0; i < len(input); i++ {
		rest := input[i:]
		next := make(map[int]bool)
		for state := range current {
			for _, t := range nfa.States[state].Out {
				if t.Matcher.Length() != 1 || !t.Matcher.Match(rest) {
					continue
				}
				next[t.Target] = true
			}
		}
		if len(next) == 0 {
			return false
		}
		current = epsilonClosure(nfa, setKeys(next))
	}

	for state := range current {
		if nfa.States[state].Final {
			return true
		}
	}
	return false
}

// epsilonClosure returns every state reachable from start by following zero
// or more unannotated-or-annotated Epsilon transitions; annotations are
// never inspected, only the underlying Matcher variant.
func epsilonClosure(nfa *NFA, start []int) map[int]bool {
	seen := make(map[int]bool, len(start))
	queue := append([]int(nil), start...)
	for _, s := range start {
		seen[s] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range nfa.States[cur].Out {
			if _, ok := t.Matcher.(Epsilon); !ok {
				continue
			}
			if !seen[t.Target] {
				seen[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}
	return seen
}

func setKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
