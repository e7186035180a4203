package retrace

import "strings"

// NodeKind tags the closed set of AST node variants. Matcher leaves are
// folded into a single KindLeaf tag (the leaf's Matcher field carries the
// four-way matcher variant), so the AST itself has eight kinds, matching
// the four matcher kinds it wraps.
type NodeKind uint8

const (
	KindLeaf NodeKind = iota
	KindConcatenation
	KindDisjunction
	KindKleeneStar
	KindOneOrMore
	KindOneOrNone
	KindMultiply
	KindBracket
)

// Node is a tagged-variant AST node built by the parser and rewritten by
// the optimizer. Which fields are meaningful depends on Kind:
//
//   - KindLeaf: Matcher.
//   - KindConcatenation, KindDisjunction: Children (>= 2).
//   - KindKleeneStar, KindOneOrMore, KindOneOrNone: Child, Greedy.
//   - KindMultiply: Child, Greedy, Min, Max, Unbounded.
//   - KindBracket: Child, Capture.
type Node struct {
	Kind NodeKind

	Matcher Matcher

	Child    *Node
	Children []*Node

	Greedy    bool
	Capture   bool
	Min, Max  int
	Unbounded bool
}

func newLeaf(m Matcher) *Node {
	return &Node{Kind: KindLeaf, Matcher: m}
}

func newConcatenation(children []*Node) *Node {
	return &Node{Kind: KindConcatenation, Children: children}
}

func newDisjunction(children []*Node) *Node {
	return &Node{Kind: KindDisjunction, Children: children}
}

func newKleeneStar(child *Node, greedy bool) *Node {
	return &Node{Kind: KindKleeneStar, Child: child, Greedy: greedy}
}

func newOneOrMore(child *Node, greedy bool) *Node {
	return &Node{Kind: KindOneOrMore, Child: child, Greedy: greedy}
}

func newOneOrNone(child *Node, greedy bool) *Node {
	return &Node{Kind: KindOneOrNone, Child: child, Greedy: greedy}
}

func newMultiply(child *Node, min, max int, unbounded, greedy bool) *Node {
	return &Node{Kind: KindMultiply, Child: child, Min: min, Max: max, Unbounded: unbounded, Greedy: greedy}
}

func newBracket(child *Node, capture bool) *Node {
	return &Node{Kind: KindBracket, Child: child, Capture: capture}
}

// Priority is used only for unambiguous printing: leaves and brackets=0,
// quantifiers=1, concatenation=2, disjunction=3.
func (n *Node) Priority() int {
	switch n.Kind {
	case KindLeaf, KindBracket:
		return 0
	case KindKleeneStar, KindOneOrMore, KindOneOrNone, KindMultiply:
		return 1
	case KindConcatenation:
		return 2
	case KindDisjunction:
		return 3
	default:
		return 0
	}
}

// AcceptsEmpty implements the accept_epsilon structural predicate of §3.
func (n *Node) AcceptsEmpty() bool {
	switch n.Kind {
	case KindLeaf:
		return n.Matcher.Length() == 0
	case KindKleeneStar, KindOneOrNone:
		return true
	case KindMultiply:
		if n.Min == 0 {
			return true
		}
		return n.Child.AcceptsEmpty()
	case KindOneOrMore, KindBracket:
		return n.Child.AcceptsEmpty()
	case KindConcatenation:
		for _, c := range n.Children {
			if !c.AcceptsEmpty() {
				return false
			}
		}
		return true
	case KindDisjunction:
		for _, c := range n.Children {
			if c.AcceptsEmpty() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// AST wraps a parsed (and possibly optimized) root node together with the
// two consumed boundary anchors.
type AST struct {
	Root        *Node
	AnchorBegin bool
	AnchorEnd   bool
}

// String renders the AST back into pattern syntax. The rendering is
// unambiguous with respect to Priority: a child is wrapped in a
// non-capturing group whenever its priority exceeds what its position
// allows without one. It exists to support the print round-trip testable
// property, not as a general pretty-printing facility.
func (a *AST) String() string {
	var b strings.Builder
	if a.AnchorBegin {
		b.WriteByte('^')
	}
	b.WriteString(a.Root.String())
	if a.AnchorEnd {
		b.WriteByte('$')
	}
	return b.String()
}

func (n *Node) String() string {
	switch n.Kind {
	case KindLeaf:
		return matcherString(n.Matcher)
	case KindConcatenation:
		var b strings.Builder
		for _, c := range n.Children {
			b.WriteString(wrapIfAbove(c, 1))
		}
		return b.String()
	case KindDisjunction:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = wrapIfAbove(c, 2)
		}
		return strings.Join(parts, "|")
	case KindKleeneStar:
		return wrapIfAbove(n.Child, 1) + lazySuffix('*', n.Greedy)
	case KindOneOrMore:
		return wrapIfAbove(n.Child, 1) + lazySuffix('+', n.Greedy)
	case KindOneOrNone:
		return wrapIfAbove(n.Child, 0) + lazySuffix('?', n.Greedy)
	case KindMultiply:
		return wrapIfAbove(n.Child, 1) + multiplySuffix(n) + lazySuffixEmpty(n.Greedy)
	case KindBracket:
		open, close := byte('('), byte(')')
		if n.Capture {
			open, close = '<', '>'
		}
		return string(open) + n.Child.String() + string(close)
	default:
		return ""
	}
}

func lazySuffix(op byte, greedy bool) string {
	if greedy {
		return string(op)
	}
	return string(op) + "?"
}

func lazySuffixEmpty(greedy bool) string {
	if greedy {
		return ""
	}
	return "?"
}

func multiplySuffix(n *Node) string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(itoa(n.Min))
	if n.Unbounded {
		b.WriteByte(',')
	} else if n.Max != n.Min {
		b.WriteByte(',')
		b.WriteString(itoa(n.Max))
	}
	b.WriteByte('}')
	return b.String()
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// wrapIfAbove wraps n in a non-capturing group when its priority exceeds
// the priority the surrounding context can render without ambiguity.
func wrapIfAbove(n *Node, max int) string {
	s := n.String()
	if n.Priority() > max {
		return "(" + s + ")"
	}
	return s
}

const metaset = ".|*+?()<>[]{}\\^$"

func escapeLiteral(c byte) string {
	if strings.IndexByte(metaset, c) >= 0 {
		return "\\" + string(c)
	}
	return string(c)
}

func matcherString(m Matcher) string {
	switch v := m.(type) {
	case Epsilon:
		return "()"
	case Universal:
		return "."
	case Character:
		return escapeLiteral(v.Char)
	case CharacterClass:
		var b strings.Builder
		b.WriteByte('[')
		if v.Invert {
			b.WriteByte('^')
		}
		for _, iv := range v.Intervals {
			b.WriteString(escapeClassByte(iv.Lo))
			if iv.Hi != iv.Lo {
				b.WriteByte('-')
				b.WriteString(escapeClassByte(iv.Hi))
			}
		}
		b.WriteByte(']')
		return b.String()
	default:
		return ""
	}
}

func escapeClassByte(c byte) string {
	switch c {
	case '[', ']', '^', '-', '\\':
		return "\\" + string(c)
	default:
		return string(c)
	}
}
