package retrace

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestAddTransitionMaintainsMirror(t *testing.T) {
	nfa := newNFA()
	a := nfa.addState()
	b := nfa.addState()
	nfa.addTransition(a, b, Character{Char: 'x'}, nil)

	assert.NilError(t, nfa.checkInvariants())
	assert.Equal(t, len(nfa.States[a].Out), 1)
	assert.Equal(t, len(nfa.States[b].In), 1)
	assert.Equal(t, nfa.States[b].In[0].Target, a)
}

func TestCheckInvariantsCatchesOutOfRangeTarget(t *testing.T) {
	nfa := newNFA()
	nfa.addState()
	nfa.States[0].Out = append(nfa.States[0].Out, Transition{Matcher: Epsilon{}, Target: 5})
	assert.ErrorContains(t, nfa.checkInvariants(), "out of range")
}

func TestCheckInvariantsCatchesMissingMirror(t *testing.T) {
	nfa := newNFA()
	a := nfa.addState()
	b := nfa.addState()
	nfa.States[a].Out = append(nfa.States[a].Out, Transition{Matcher: Epsilon{}, Target: b})
	assert.ErrorContains(t, nfa.checkInvariants(), "no mirror")
}

func TestMatchersEqual(t *testing.T) {
	assert.Equal(t, matchersEqual(Epsilon{}, Epsilon{}), true)
	assert.Equal(t, matchersEqual(Epsilon{}, Universal{}), false)
	assert.Equal(t, matchersEqual(Character{Char: 'a'}, Character{Char: 'a'}), true)
	assert.Equal(t, matchersEqual(Character{Char: 'a'}, Character{Char: 'b'}), false)

	a := CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'c'}}}
	b := CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'c'}}}
	c := CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'c'}}, Invert: true}
	assert.Equal(t, matchersEqual(a, b), true)
	assert.Equal(t, matchersEqual(a, c), false)
}

func TestMergeAnnotationNilWhenEmpty(t *testing.T) {
	assert.Assert(t, mergeAnnotation(nil, nil) == nil)
	assert.Assert(t, mergeAnnotation([]int{}, []int{}) == nil)
	ann := mergeAnnotation([]int{1}, nil)
	assert.DeepEqual(t, ann, &Annotation{Open: []int{1}})
}
