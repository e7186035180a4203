package retrace

import (
	"testing"

	"gotest.tools/v3/assert"
)

func lower(t *testing.T, pattern string, optimize bool) *NFA {
	t.Helper()
	ast, err := Parse(pattern)
	assert.NilError(t, err)
	nfa := Lower(ast, optimize)
	assert.NilError(t, nfa.checkInvariants())
	return nfa
}

func TestLowerHasSingleInitialAndAtLeastOneFinal(t *testing.T) {
	nfa := lower(t, "a(b|c)*d", false)
	initials := 0
	finals := 0
	for _, s := range nfa.States {
		if s.Initial {
			initials++
		}
		if s.Final {
			finals++
		}
	}
	assert.Equal(t, initials, 1)
	assert.Assert(t, finals >= 1)
}

func TestLowerGroup0SpansWholeMatch(t *testing.T) {
	nfa := lower(t, "abc", false)
	assert.Equal(t, nfa.NGroups, 1)
	caps := FindCaptures(nfa, "abc")
	assert.Assert(t, caps != nil)
	assert.DeepEqual(t, caps[0], Capture{Start: 0, End: 3})
}

func TestLowerCapturingGroupAllocatesGroupIndex(t *testing.T) {
	nfa := lower(t, "a<bc>d", false)
	assert.Equal(t, nfa.NGroups, 2)
	caps := FindCaptures(nfa, "abcd")
	assert.Assert(t, caps != nil)
	assert.DeepEqual(t, caps[1], Capture{Start: 1, End: 3})
}

func TestLowerUnanchoredMatchesSubstring(t *testing.T) {
	nfa := lower(t, "b", false)
	assert.Equal(t, Accepts(nfa, "abc"), true)
	caps := FindCaptures(nfa, "abc")
	assert.Assert(t, caps != nil)
	assert.DeepEqual(t, caps[0], Capture{Start: 1, End: 2})
}

func TestLowerAnchoredRejectsSubstringOnlyMatch(t *testing.T) {
	nfa := lower(t, "^b$", false)
	assert.Equal(t, Accepts(nfa, "abc"), false)
	assert.Equal(t, Accepts(nfa, "b"), true)
}

func TestLowerKleeneStarAcceptsEmpty(t *testing.T) {
	nfa := lower(t, "^a*$", false)
	assert.Equal(t, Accepts(nfa, ""), true)
	assert.Equal(t, Accepts(nfa, "aaa"), true)
	assert.Equal(t, Accepts(nfa, "aab"), false)
}

func TestLowerAnchoredEmptyPatternMatchesOnlyEmptyInput(t *testing.T) {
	ast, err := Parse("^$")
	assert.NilError(t, err)
	nfa := Lower(ast, false)
	assert.NilError(t, nfa.checkInvariants())
	assert.Equal(t, Accepts(nfa, ""), true)
	assert.Equal(t, Accepts(nfa, "x"), false)
}

func TestLowerMultiplyExactCount(t *testing.T) {
	nfa := lower(t, "^a{3}$", false)
	assert.Equal(t, Accepts(nfa, "aaa"), true)
	assert.Equal(t, Accepts(nfa, "aa"), false)
	assert.Equal(t, Accepts(nfa, "aaaa"), false)
}

func TestLowerMultiplyBoundedRange(t *testing.T) {
	nfa := lower(t, "^a{2,4}$", false)
	assert.Equal(t, Accepts(nfa, "a"), false)
	assert.Equal(t, Accepts(nfa, "aa"), true)
	assert.Equal(t, Accepts(nfa, "aaaa"), true)
	assert.Equal(t, Accepts(nfa, "aaaaa"), false)
}

func TestLowerMultiplyUnboundedMinTwo(t *testing.T) {
	nfa := lower(t, "^a{2,}$", false)
	assert.Equal(t, Accepts(nfa, "a"), false)
	assert.Equal(t, Accepts(nfa, "aa"), true)
	assert.Equal(t, Accepts(nfa, "aaaaaa"), true)
}

func TestLowerLazyBoundedRangeMatchesMinimum(t *testing.T) {
	nfa := lower(t, "a{2,4}?", false)
	caps := FindCaptures(nfa, "aaaa")
	assert.Assert(t, caps != nil)
	assert.Equal(t, caps[0].End-caps[0].Start, 2)
}

func TestLowerGreedyBoundedRangeMatchesMaximum(t *testing.T) {
	nfa := lower(t, "^a{2,4}", false)
	caps := FindCaptures(nfa, "aaaa")
	assert.Assert(t, caps != nil)
	assert.Equal(t, caps[0].End-caps[0].Start, 4)
}

func TestLowerAgreesWithSubsetOnAcceptance(t *testing.T) {
	patterns := []string{"a", "a*", "a+", "a?", "(a|b)*c", "a{2,4}", "^a$", "[a-z]+"}
	inputs := []string{"", "a", "ab", "abac", "aaaa", "z", "Z"}
	for _, p := range patterns {
		nfa := lower(t, p, false)
		for _, in := range inputs {
			back := Accepts(nfa, in)
			sub := AcceptsSubset(nfa, in)
			assert.Equal(t, back, sub, "pattern=%q input=%q", p, in)
		}
	}
}
