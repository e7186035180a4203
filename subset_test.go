package retrace

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestAcceptsSubsetBasic(t *testing.T) {
	nfa := compileFor(t, "^a+$")
	assert.Equal(t, AcceptsSubset(nfa, "aaa"), true)
	assert.Equal(t, AcceptsSubset(nfa, ""), false)
	assert.Equal(t, AcceptsSubset(nfa, "aab"), false)
}

func TestAcceptsSubsetDisjunction(t *testing.T) {
	nfa := compileFor(t, "^cat|dog$")
	assert.Equal(t, AcceptsSubset(nfa, "cat"), true)
}

func TestAcceptsSubsetIgnoresAnnotations(t *testing.T) {
	// Acceptance must not depend on whether a capturing group is present.
	plain := compileFor(t, "^abc$")
	grouped := compileFor(t, "^<abc>$")
	for _, in := range []string{"abc", "ab", "abcd"} {
		assert.Equal(t, AcceptsSubset(plain, in), AcceptsSubset(grouped, in))
	}
}

func TestEpsilonClosureFollowsChain(t *testing.T) {
	nfa := newNFA()
	a := nfa.addState()
	b := nfa.addState()
	c := nfa.addState()
	nfa.addTransition(a, b, Epsilon{}, nil)
	nfa.addTransition(b, c, Epsilon{}, nil)
	closure := epsilonClosure(nfa, []int{a})
	assert.Equal(t, len(closure), 3)
	assert.Equal(t, closure[c], true)
}

func TestEpsilonClosureDoesNotFollowByteTransitions(t *testing.T) {
	nfa := newNFA()
	a := nfa.addState()
	b := nfa.addState()
	nfa.addTransition(a, b, Character{Char: 'x'}, nil)
	closure := epsilonClosure(nfa, []int{a})
	assert.Equal(t, len(closure), 1)
}
