package retrace

// OptimizeNFA runs the §4.4 cleanup passes on a freshly lowered NFA: two
// right-to-left epsilon-splicing sweeps (merge a state into its single
// predecessor, then merge a state into its single successor), followed by
// unreachable- and dead-end-state deletion. Both sweeps preserve the
// relative order of surviving transitions at every state, since the
// backtracking executor's greedy/lazy semantics depend on that order.
func OptimizeNFA(nfa *NFA) *NFA {
	mergeIntoPredecessor(nfa)
	mergeIntoSuccessor(nfa)
	pruneUnreachable(nfa)
	return nfa
}

// isPlainEpsilon reports whether t is an unannotated epsilon transition —
// the only kind of edge these sweeps ever splice through.
func isPlainEpsilon(t Transition) bool {
	_, ok := t.Matcher.(Epsilon)
	return ok && t.Annotation == nil
}

// mergeIntoPredecessor splices out a state s that has exactly one incoming
// transition, itself a plain epsilon from p: every outgoing transition of s
// is rewired to originate at p instead, inserted at the exact position the
// spliced p->s edge occupied in p.Out, and s is left with no transitions
// (deleted by the later unreachable-state pass). Inserting at that position
// rather than appending matters whenever p has other sibling transitions:
// a disjunction's shared entry state sees its alternatives' edges in
// declared order, and splicing a middle alternative's entry epsilon must not
// reorder it past a later sibling, or the backtracking executor's greedy/
// lazy priority among alternatives silently changes. States are visited
// right-to-left so that an index freed by splicing earlier in the scan
// never invalidates indices still to be visited. A state that is Initial or
// Final is never spliced away, since neither its start-ness nor its
// accept-ness would survive the splice.
func mergeIntoPredecessor(nfa *NFA) {
	for i := len(nfa.States) - 1; i >= 0; i-- {
		s := nfa.States[i]
		if s.Initial || s.Final || len(s.In) != 1 || !isPlainEpsilon(s.In[0]) {
			continue
		}
		p := s.In[0].Target
		if p == i {
			continue
		}
		pos := removeMirrorAt(nfa, p, i, s.In[0])
		for k, out := range s.Out {
			target := out.Target
			if target == i {
				target = p
			}
			spliceInsertOut(nfa, p, target, out.Matcher, out.Annotation, pos+k)
		}
		clearState(nfa, i)
	}
}

// mergeIntoSuccessor is the mirror sweep: a state s with exactly one
// outgoing transition, itself a plain epsilon to n, has every incoming
// transition rewired to land on n instead, each inserted at the position
// its original p->s edge occupied in that predecessor's Out list (see
// mergeIntoPredecessor for why position, not append, is required).
func mergeIntoSuccessor(nfa *NFA) {
	for i := len(nfa.States) - 1; i >= 0; i-- {
		s := nfa.States[i]
		if s.Final || s.Initial || len(s.Out) != 1 || !isPlainEpsilon(s.Out[0]) {
			continue
		}
		n := s.Out[0].Target
		if n == i {
			continue
		}
		for _, in := range s.In {
			source := in.Target
			if source == i {
				source = n
			}
			pos := removeMirrorAt(nfa, source, i, in)
			spliceInsertOut(nfa, source, n, in.Matcher, in.Annotation, pos)
		}
		clearState(nfa, i)
	}
}

// removeMirrorAt finds, in p's Out list, the forward transition mirroring
// mirror (an In-list entry whose Target is p), removes it, and returns the
// index it occupied so the caller can insert replacement transitions at the
// same position.
func removeMirrorAt(nfa *NFA, p, target int, mirror Transition) int {
	out := nfa.States[p].Out
	pos := findMirrorIndex(out, target, mirror.Matcher, mirror.Annotation)
	if pos < 0 {
		return len(out)
	}
	nfa.States[p].Out = append(out[:pos], out[pos+1:]...)
	return pos
}

func findMirrorIndex(ts []Transition, target int, m Matcher, ann *Annotation) int {
	for idx, t := range ts {
		if t.Target == target && sameAnnotation(t.Annotation, ann) && matchersEqual(t.Matcher, m) {
			return idx
		}
	}
	return -1
}

// spliceInsertOut inserts a from->to transition into from's Out list at pos,
// preserving the order of every other transition already there, and adds
// its mirror to to's In list (In-list order carries no priority meaning, so
// that side is a plain append).
func spliceInsertOut(nfa *NFA, from, to int, m Matcher, ann *Annotation, pos int) {
	t := Transition{Matcher: m, Target: to, Annotation: ann}
	out := nfa.States[from].Out
	if pos < 0 || pos > len(out) {
		pos = len(out)
	}
	out = append(out, Transition{})
	copy(out[pos+1:], out[pos:])
	out[pos] = t
	nfa.States[from].Out = out
	nfa.States[to].In = append(nfa.States[to].In, Transition{Matcher: m, Target: from, Annotation: ann})
}

// clearState removes every transition touching i, both at i itself and at
// the states on the other end of its mirrors, so a spliced state is left
// fully isolated for the unreachable-state sweep to delete.
func clearState(nfa *NFA, i int) {
	s := nfa.States[i]
	for _, out := range s.Out {
		nfa.States[out.Target].In = removeMirror(nfa.States[out.Target].In, i, out)
	}
	for _, in := range s.In {
		nfa.States[in.Target].Out = removeMirror(nfa.States[in.Target].Out, i, in)
	}
	s.Out = nil
	s.In = nil
}

func removeMirror(ts []Transition, target int, want Transition) []Transition {
	out := make([]Transition, 0, len(ts))
	removed := false
	for _, t := range ts {
		if !removed && t.Target == target && sameAnnotation(t.Annotation, want.Annotation) && matchersEqual(t.Matcher, want.Matcher) {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}

// pruneUnreachable deletes every state not reachable forward from the
// initial state, then every remaining state that cannot reach a final
// state, and remaps all surviving indices to a dense range starting at 0 —
// the post-optimization full-reachability invariant of §3.
func pruneUnreachable(nfa *NFA) {
	n := len(nfa.States)
	reachable := make([]bool, n)
	queue := []int{nfa.Initial}
	reachable[nfa.Initial] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range nfa.States[cur].Out {
			if !reachable[t.Target] {
				reachable[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}

	liveFinal := make([]bool, n)
	queue = nil
	for i, s := range nfa.States {
		if reachable[i] && s.Final {
			liveFinal[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range nfa.States[cur].In {
			if reachable[t.Target] && !liveFinal[t.Target] {
				liveFinal[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}

	keep := make([]bool, n)
	for i := range nfa.States {
		keep[i] = reachable[i] && liveFinal[i]
	}

	remap := make([]int, n)
	newStates := make([]*State, 0, n)
	for i, s := range nfa.States {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(newStates)
		newStates = append(newStates, s)
	}

	for _, s := range newStates {
		s.Out = remapTransitions(s.Out, keep, remap)
		s.In = remapTransitions(s.In, keep, remap)
	}

	nfa.Initial = remap[nfa.Initial]
	nfa.States = newStates
}

func remapTransitions(ts []Transition, keep []bool, remap []int) []Transition {
	out := make([]Transition, 0, len(ts))
	for _, t := range ts {
		if !keep[t.Target] {
			continue
		}
		t.Target = remap[t.Target]
		out = append(out, t)
	}
	return out
}
