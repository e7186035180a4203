package retrace

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestMatcherLength(t *testing.T) {
	assert.Equal(t, Epsilon{}.Length(), 0)
	assert.Equal(t, Universal{}.Length(), 1)
	assert.Equal(t, Character{Char: 'a'}.Length(), 1)
	assert.Equal(t, CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'z'}}}.Length(), 1)
}

func TestMatcherMatch(t *testing.T) {
	assert.Equal(t, Epsilon{}.Match(""), true)
	assert.Equal(t, Epsilon{}.Match("x"), true)

	assert.Equal(t, Universal{}.Match(""), false)
	assert.Equal(t, Universal{}.Match("x"), true)

	c := Character{Char: 'a'}
	assert.Equal(t, c.Match("a"), true)
	assert.Equal(t, c.Match("b"), false)
	assert.Equal(t, c.Match(""), false)

	class := CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'c'}}}
	assert.Equal(t, class.Match("b"), true)
	assert.Equal(t, class.Match("d"), false)

	inv := CharacterClass{Intervals: []Interval{{Lo: 'a', Hi: 'c'}}, Invert: true}
	assert.Equal(t, inv.Match("b"), false)
	assert.Equal(t, inv.Match("d"), true)
	assert.Equal(t, inv.Match(""), false)
}

func TestNormalizeIntervalsSortsAndMerges(t *testing.T) {
	norm := normalizeIntervals([]Interval{{Lo: 'd', Hi: 'f'}, {Lo: 'a', Hi: 'c'}})
	assert.DeepEqual(t, norm, []Interval{{Lo: 'a', Hi: 'f'}})
}

func TestNormalizeIntervalsReordersBackwardsEndpoints(t *testing.T) {
	// "[z-a]" style input: Lo > Hi must be swapped before normal form is built.
	norm := normalizeIntervals([]Interval{{Lo: 'z', Hi: 'a'}})
	assert.DeepEqual(t, norm, []Interval{{Lo: 'a', Hi: 'z'}})
}

func TestNormalizeIntervalsMergesAdjacent(t *testing.T) {
	norm := normalizeIntervals([]Interval{{Lo: 'a', Hi: 'c'}, {Lo: 'd', Hi: 'f'}})
	assert.DeepEqual(t, norm, []Interval{{Lo: 'a', Hi: 'f'}})
}

func TestIsSingletonClass(t *testing.T) {
	c, ok := isSingletonClass([]Interval{{Lo: 'x', Hi: 'x'}}, false)
	assert.Equal(t, ok, true)
	assert.Equal(t, c, byte('x'))

	_, ok = isSingletonClass([]Interval{{Lo: 'x', Hi: 'x'}}, true)
	assert.Equal(t, ok, false)

	_, ok = isSingletonClass([]Interval{{Lo: 'a', Hi: 'z'}}, false)
	assert.Equal(t, ok, false)
}
