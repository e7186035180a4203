package retrace

import "fmt"

// Annotation marks the capture-group boundaries a transition carries. A
// nil *Annotation means "no annotation" (transparent to capture tracking).
type Annotation struct {
	Open  []int
	Close []int
}

func mergeAnnotation(opens, closes []int) *Annotation {
	if len(opens) == 0 && len(closes) == 0 {
		return nil
	}
	return &Annotation{Open: append([]int(nil), opens...), Close: append([]int(nil), closes...)}
}

// Transition is one edge of the NFA: it fires on Matcher, lands on Target,
// and optionally carries an Annotation. The same type represents both a
// forward transition (Target is the destination) and its mirror reverse
// transition (Target is the source) — see State.In/State.Out.
type Transition struct {
	Matcher    Matcher
	Target     int
	Annotation *Annotation
}

// State is one NFA state, addressed by its dense index in NFA.States.
type State struct {
	Initial bool
	Final   bool
	Out     []Transition
	In      []Transition
}

// NFA is a Thompson-style automaton with capture-group annotations. It
// owns its states; matchers are plain values shared by the transitions
// that carry them (character classes share their underlying, already
// normalized interval slice with the AST leaf they were lowered from —
// there is no separate arena, since Go values/interfaces make a
// per-transition heap allocation scheme unnecessary).
type NFA struct {
	States  []*State
	NGroups int
	Initial int
}

func newNFA() *NFA {
	return &NFA{}
}

func (nfa *NFA) addState() int {
	nfa.States = append(nfa.States, &State{})
	return len(nfa.States) - 1
}

// addTransition appends a forward transition from->to and its mirror
// reverse transition on to, maintaining invariant 1 of §3.
func (nfa *NFA) addTransition(from, to int, m Matcher, ann *Annotation) {
	nfa.States[from].Out = append(nfa.States[from].Out, Transition{Matcher: m, Target: to, Annotation: ann})
	nfa.States[to].In = append(nfa.States[to].In, Transition{Matcher: m, Target: from, Annotation: ann})
}

// checkInvariants verifies the mirror invariant (§3 inv. 1) and index
// validity (inv. 2): every forward transition has exactly one matching
// reverse transition and vice versa, and every target index is in range.
func (nfa *NFA) checkInvariants() error {
	n := len(nfa.States)
	for i, s := range nfa.States {
		for _, t := range s.Out {
			if t.Target < 0 || t.Target >= n {
				return fmt.Errorf("state %d: out-transition target %d out of range", i, t.Target)
			}
			mirrors := countMirrors(nfa.States[t.Target].In, i, t)
			if mirrors == 0 {
				return fmt.Errorf("state %d: out-transition to %d has no mirror reverse transition", i, t.Target)
			}
			if mirrors != countMirrors(s.Out, t.Target, t) {
				return fmt.Errorf("state %d: out-transitions to %d and their mirror reverse transitions differ in number", i, t.Target)
			}
		}
		for _, t := range s.In {
			if t.Target < 0 || t.Target >= n {
				return fmt.Errorf("state %d: in-transition source %d out of range", i, t.Target)
			}
			if countMirrors(nfa.States[t.Target].Out, i, t) == 0 {
				return fmt.Errorf("state %d: in-transition from %d has no mirror forward transition", i, t.Target)
			}
		}
	}
	return nil
}

func countMirrors(ts []Transition, target int, want Transition) int {
	n := 0
	for _, t := range ts {
		if t.Target == target && sameAnnotation(t.Annotation, want.Annotation) && matchersEqual(t.Matcher, want.Matcher) {
			n++
		}
	}
	return n
}

// matchersEqual compares two Matcher values by variant and payload. Matcher
// implementations are not compared with == because CharacterClass embeds a
// slice, which is not a comparable type.
func matchersEqual(a, b Matcher) bool {
	switch av := a.(type) {
	case Epsilon:
		_, ok := b.(Epsilon)
		return ok
	case Universal:
		_, ok := b.(Universal)
		return ok
	case Character:
		bv, ok := b.(Character)
		return ok && av.Char == bv.Char
	case CharacterClass:
		bv, ok := b.(CharacterClass)
		if !ok || av.Invert != bv.Invert || len(av.Intervals) != len(bv.Intervals) {
			return false
		}
		for i := range av.Intervals {
			if av.Intervals[i] != bv.Intervals[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameAnnotation(a, b *Annotation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return intSliceEqual(a.Open, b.Open) && intSliceEqual(a.Close, b.Close)
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
