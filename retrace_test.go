package retrace

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestCompileRejectsInvalidPattern(t *testing.T) {
	_, err := Compile("a{5,3}", false)
	assert.ErrorContains(t, err, "repeat maximum less than minimum")
}

func TestCompileAndAccepts(t *testing.T) {
	re, err := Compile("^[a-z]+@[a-z]+\\.[a-z]+$", false)
	assert.NilError(t, err)
	assert.Equal(t, re.Accepts("user@example.com"), true)
	assert.Equal(t, re.Accepts("not-an-email"), false)
}

func TestCompileOptimizedAndUnoptimizedAgreeOnAcceptance(t *testing.T) {
	patterns := []string{"a*b+c?", "(a|b)*c", "a{2,4}?", "^[a-z]+@[a-z]+\\.[a-z]+$"}
	inputs := []string{"", "a", "abac", "aaaab", "user@example.com"}
	for _, p := range patterns {
		plain, err := Compile(p, false)
		assert.NilError(t, err)
		optimized, err := Compile(p, true)
		assert.NilError(t, err)
		for _, in := range inputs {
			assert.Equal(t, plain.Accepts(in), optimized.Accepts(in), "pattern=%q input=%q", p, in)
		}
	}
}

func TestCompileOptimizedAndUnoptimizedAgreeOnCaptures(t *testing.T) {
	plain, err := Compile("<a+><b*>", false)
	assert.NilError(t, err)
	optimized, err := Compile("<a+><b*>", true)
	assert.NilError(t, err)

	for _, in := range []string{"a", "aaa", "aaabbb", "b"} {
		pc := plain.Captures(in)
		oc := optimized.Captures(in)
		assert.DeepEqual(t, pc, oc)
	}
}

func TestRegexpStringRendersPattern(t *testing.T) {
	re, err := Compile("^a*b$", false)
	assert.NilError(t, err)
	assert.Equal(t, re.String(), "^a*b$")
}

func TestRegexpNumGroups(t *testing.T) {
	re, err := Compile("<a><b>", false)
	assert.NilError(t, err)
	assert.Equal(t, re.NumGroups(), 3)
}
