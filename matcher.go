package retrace

import "sort"

// Matcher is the closed set of primitive acceptors carried by NFA
// transitions. Each variant consumes either zero or one byte of input.
type Matcher interface {
	// Length reports how many bytes of input a successful match consumes.
	Length() int
	// Match reports whether the first Length() bytes of s satisfy the matcher.
	// s may be shorter than Length(), in which case Match reports false.
	Match(s string) bool
}

// Epsilon matches the empty string; it never consumes input.
type Epsilon struct{}

func (Epsilon) Length() int         { return 0 }
func (Epsilon) Match(s string) bool { return true }

// Universal matches any single byte ("." in pattern syntax).
type Universal struct{}

func (Universal) Length() int         { return 1 }
func (Universal) Match(s string) bool { return len(s) > 0 }

// Character matches exactly one literal byte.
type Character struct {
	Char byte
}

func (m Character) Length() int         { return 1 }
func (m Character) Match(s string) bool { return len(s) > 0 && s[0] == m.Char }

// Interval is an inclusive byte range [Lo, Hi].
type Interval struct {
	Lo, Hi byte
}

func (iv Interval) covers(c byte) bool { return iv.Lo <= c && c <= iv.Hi }

// CharacterClass matches one byte against a normal-form set of intervals,
// optionally inverted.
type CharacterClass struct {
	Intervals []Interval
	Invert    bool
}

func (m CharacterClass) Length() int { return 1 }

func (m CharacterClass) Match(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	covered := false
	for _, iv := range m.Intervals {
		if iv.covers(c) {
			covered = true
			break
		}
	}
	return covered != m.Invert
}

// normalizeIntervals sorts, reorders, and merges the given intervals into
// the class normal form described in §3: endpoints ordered low-to-high,
// sorted by lo, mutually non-overlapping, and not mergeable (two intervals
// are merged whenever nextLo <= prevHi+1).
func normalizeIntervals(ivs []Interval) []Interval {
	fixed := make([]Interval, len(ivs))
	for i, iv := range ivs {
		if iv.Lo > iv.Hi {
			iv.Lo, iv.Hi = iv.Hi, iv.Lo
		}
		fixed[i] = iv
	}
	sort.Slice(fixed, func(i, j int) bool { return fixed[i].Lo < fixed[j].Lo })

	merged := make([]Interval, 0, len(fixed))
	for _, iv := range fixed {
		if len(merged) == 0 {
			merged = append(merged, iv)
			continue
		}
		last := &merged[len(merged)-1]
		if int(iv.Lo) <= int(last.Hi)+1 {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// isSingletonClass reports whether a normal-form, non-inverted class covers
// exactly one character.
func isSingletonClass(intervals []Interval, invert bool) (byte, bool) {
	if invert || len(intervals) != 1 {
		return 0, false
	}
	iv := intervals[0]
	if iv.Lo == iv.Hi {
		return iv.Lo, true
	}
	return 0, false
}
