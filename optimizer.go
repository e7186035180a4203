package retrace

// Optimize runs the bottom-up AST rewrites of §4.2 to a fixed point. A
// single bottom-up pass suffices given the chosen rewrite order: children
// are normalized before their parent is considered, and each node that can
// still change after its first rewrite is re-examined in a local loop.
func Optimize(a *AST) *AST {
	return &AST{
		Root:        optimizeNode(a.Root),
		AnchorBegin: a.AnchorBegin,
		AnchorEnd:   a.AnchorEnd,
	}
}

func optimizeNode(n *Node) *Node {
	switch n.Kind {
	case KindConcatenation:
		n = &Node{Kind: KindConcatenation, Children: optimizeChildren(n.Children)}
		n.Children = flatten(n.Children, KindConcatenation)
	case KindDisjunction:
		n = &Node{Kind: KindDisjunction, Children: optimizeChildren(n.Children)}
		n.Children = flatten(n.Children, KindDisjunction)
	case KindBracket:
		n = &Node{Kind: KindBracket, Child: optimizeNode(n.Child), Capture: n.Capture}
	case KindKleeneStar, KindOneOrMore, KindOneOrNone:
		n = &Node{Kind: n.Kind, Child: optimizeNode(n.Child), Greedy: n.Greedy}
		n = collapseQuantifierNesting(n)
	case KindMultiply:
		n = &Node{Kind: KindMultiply, Child: optimizeNode(n.Child), Greedy: n.Greedy, Min: n.Min, Max: n.Max, Unbounded: n.Unbounded}
		n = collapseExactMultiply(n)
		n = multiplyToPrimitive(n)
		if n.Kind == KindKleeneStar || n.Kind == KindOneOrMore || n.Kind == KindOneOrNone {
			n = collapseQuantifierNesting(n)
		}
	}
	return n
}

func optimizeChildren(children []*Node) []*Node {
	out := make([]*Node, len(children))
	for i, c := range children {
		out[i] = optimizeNode(c)
	}
	return out
}

// flatten replaces any child of kind that is itself of the same kind with
// its own children spliced in place. Scanning right-to-left and splicing
// avoids invalidating positions already visited.
func flatten(children []*Node, kind NodeKind) []*Node {
	out := make([]*Node, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.Kind == kind {
			out = append(out, reverse(c.Children)...)
		} else {
			out = append(out, c)
		}
	}
	return reverse(out)
}

func reverse(ns []*Node) []*Node {
	out := make([]*Node, len(ns))
	for i, n := range ns {
		out[len(ns)-1-i] = n
	}
	return out
}

// collapseExactMultiply folds Multiply{m}(Multiply{n}(C)) into Multiply{m*n}(C)
// whenever both layers are exact counts, repeating while the new child is
// itself an exact Multiply.
func collapseExactMultiply(n *Node) *Node {
	for n.Kind == KindMultiply && !n.Unbounded && n.Min == n.Max &&
		n.Child.Kind == KindMultiply && !n.Child.Unbounded && n.Child.Min == n.Child.Max {
		combined := n.Min * n.Child.Min
		n = newMultiply(n.Child.Child, combined, combined, false, n.Greedy)
	}
	return n
}

// multiplyToPrimitive rewrites the shapes of Multiply that have a simpler,
// dedicated node: unbounded-min-0 to KleeneStar, unbounded-min-1 to
// OneOrMore, and exact-min-0 (i.e. exact-count 0) to Epsilon.
func multiplyToPrimitive(n *Node) *Node {
	if n.Kind != KindMultiply {
		return n
	}
	switch {
	case n.Unbounded && n.Min == 0:
		return newKleeneStar(n.Child, n.Greedy)
	case n.Unbounded && n.Min == 1:
		return newOneOrMore(n.Child, n.Greedy)
	case !n.Unbounded && n.Min == 0 && n.Max == 0:
		return newLeaf(Epsilon{})
	default:
		return n
	}
}

func isSimpleQuantifier(n *Node) bool {
	switch n.Kind {
	case KindKleeneStar, KindOneOrMore, KindOneOrNone:
		return true
	default:
		return false
	}
}

// collapseQuantifierNesting repeatedly applies the Star/Plus/Opt nesting
// table of §4.2 until no rewrite applies.
func collapseQuantifierNesting(n *Node) *Node {
	for isSimpleQuantifier(n) && isSimpleQuantifier(n.Child) {
		next, changed := quantifierCollapseStep(n)
		if !changed {
			break
		}
		n = next
	}
	return n
}

func quantifierCollapseStep(n *Node) (*Node, bool) {
	outer := n.Kind
	inner := n.Child
	og, ig := n.Greedy, inner.Greedy
	child := inner.Child

	switch {
	case outer == KindKleeneStar && inner.Kind == KindKleeneStar:
		return newKleeneStar(child, og && ig), true
	case outer == KindKleeneStar && inner.Kind == KindOneOrMore:
		return newKleeneStar(child, og), true
	case outer == KindKleeneStar && inner.Kind == KindOneOrNone:
		return newKleeneStar(child, og && ig), true

	case outer == KindOneOrMore && inner.Kind == KindKleeneStar:
		return newKleeneStar(child, ig), true
	case outer == KindOneOrMore && inner.Kind == KindOneOrMore:
		return newOneOrMore(child, og || ig), true
	case outer == KindOneOrMore && inner.Kind == KindOneOrNone:
		if og || !ig {
			return newKleeneStar(child, og), true
		}
		return n, false

	case outer == KindOneOrNone && inner.Kind == KindKleeneStar:
		return newKleeneStar(child, og), true
	case outer == KindOneOrNone && inner.Kind == KindOneOrMore:
		if !og || ig {
			return newKleeneStar(child, og), true
		}
		return n, false
	case outer == KindOneOrNone && inner.Kind == KindOneOrNone:
		return newOneOrNone(child, og && ig), true
	}
	return n, false
}
