package retrace

// lowerCtx carries the running group-id allocator across the recursive
// descent of Lower.
type lowerCtx struct {
	nfa     *NFA
	nextGrp int
}

func (c *lowerCtx) allocGroup() int {
	g := c.nextGrp
	c.nextGrp++
	return g
}

// Lower performs the AST->NFA lowering of §4.3: a recursive, Thompson-style
// construction between a caller-chosen (from, to) pair, rooted at a global
// begin/end pair. If optimize is set, the AST optimizer runs first.
func Lower(a *AST, optimize bool) *NFA {
	if optimize {
		a = Optimize(a)
	}

	nfa := newNFA()
	begin := nfa.addState()
	end := nfa.addState()
	nfa.States[begin].Initial = true
	nfa.States[end].Final = true
	nfa.Initial = begin

	ctx := &lowerCtx{nfa: nfa, nextGrp: 1}
	ctx.build(a.Root, begin, end, []int{0}, []int{0})
	nfa.NGroups = ctx.nextGrp

	if !a.AnchorBegin {
		nfa.addTransition(begin, begin, Universal{}, nil)
	}
	if !a.AnchorEnd {
		nfa.addTransition(end, end, Universal{}, nil)
	}

	return nfa
}

func (c *lowerCtx) build(n *Node, from, to int, opens, closes []int) {
	switch n.Kind {
	case KindLeaf:
		c.nfa.addTransition(from, to, n.Matcher, mergeAnnotation(opens, closes))

	case KindConcatenation:
		k := len(n.Children)
		mids := make([]int, k-1)
		for i := range mids {
			mids[i] = c.nfa.addState()
		}
		prev := from
		for i, child := range n.Children {
			target := to
			if i < k-1 {
				target = mids[i]
			}
			var o, cl []int
			if i == 0 {
				o = opens
			}
			if i == k-1 {
				cl = closes
			}
			c.build(child, prev, target, o, cl)
			prev = target
		}

	case KindDisjunction:
		for _, alt := range n.Children {
			c.build(alt, from, to, opens, closes)
		}

	case KindKleeneStar:
		c.buildKleeneStar(n.Child, n.Greedy, from, to, opens, closes)

	case KindOneOrMore:
		c.buildOneOrMore(n.Child, n.Greedy, from, to, opens, closes)

	case KindOneOrNone:
		if n.Greedy {
			c.build(n.Child, from, to, opens, closes)
			c.nfa.addTransition(from, to, Epsilon{}, mergeAnnotation(opens, closes))
		} else {
			c.nfa.addTransition(from, to, Epsilon{}, mergeAnnotation(opens, closes))
			c.build(n.Child, from, to, opens, closes)
		}

	case KindMultiply:
		c.buildMultiply(n, from, to, opens, closes)

	case KindBracket:
		o, cl := opens, closes
		if n.Capture {
			g := c.allocGroup()
			o = append(append([]int{}, opens...), g)
			cl = append(append([]int{}, closes...), g)
		}
		c.build(n.Child, from, to, o, cl)
	}
}

func (c *lowerCtx) buildKleeneStar(child *Node, greedy bool, from, to int, opens, closes []int) {
	if child.AcceptsEmpty() {
		before := c.nfa.addState()
		after := c.nfa.addState()
		if greedy {
			c.nfa.addTransition(from, before, Epsilon{}, mergeAnnotation(opens, nil))
			c.nfa.addTransition(from, to, Epsilon{}, mergeAnnotation(opens, closes))
		} else {
			c.nfa.addTransition(from, to, Epsilon{}, mergeAnnotation(opens, closes))
			c.nfa.addTransition(from, before, Epsilon{}, mergeAnnotation(opens, nil))
		}
		c.build(child, before, after, nil, nil)
		if greedy {
			c.nfa.addTransition(after, before, Epsilon{}, nil)
			c.nfa.addTransition(after, to, Epsilon{}, mergeAnnotation(nil, closes))
		} else {
			c.nfa.addTransition(after, to, Epsilon{}, mergeAnnotation(nil, closes))
			c.nfa.addTransition(after, before, Epsilon{}, nil)
		}
		return
	}

	mid := c.nfa.addState()
	c.nfa.addTransition(from, mid, Epsilon{}, mergeAnnotation(opens, nil))
	if greedy {
		c.build(child, mid, mid, nil, nil)
		c.nfa.addTransition(mid, to, Epsilon{}, mergeAnnotation(nil, closes))
	} else {
		c.nfa.addTransition(mid, to, Epsilon{}, mergeAnnotation(nil, closes))
		c.build(child, mid, mid, nil, nil)
	}
}

func (c *lowerCtx) buildOneOrMore(child *Node, greedy bool, from, to int, opens, closes []int) {
	before := c.nfa.addState()
	after := c.nfa.addState()
	c.nfa.addTransition(from, before, Epsilon{}, mergeAnnotation(opens, nil))
	c.build(child, before, after, nil, nil)
	if greedy {
		c.nfa.addTransition(after, before, Epsilon{}, nil)
		c.nfa.addTransition(after, to, Epsilon{}, mergeAnnotation(nil, closes))
	} else {
		c.nfa.addTransition(after, to, Epsilon{}, mergeAnnotation(nil, closes))
		c.nfa.addTransition(after, before, Epsilon{}, nil)
	}
}

// buildMultiply handles every Multiply{min,max,unbounded,greedy} shape of
// §4.3: exact counts and bounded non-exact counts are built as a chain of
// slots with optional epsilon shortcuts to `to`; unbounded counts delegate
// to KleeneStar/OneOrMore for min 0/1 and otherwise chain the mandatory
// copies before a final loop-or-exit pair.
func (c *lowerCtx) buildMultiply(n *Node, from, to int, opens, closes []int) {
	if n.Unbounded {
		switch {
		case n.Min == 0:
			c.buildKleeneStar(n.Child, n.Greedy, from, to, opens, closes)
		case n.Min == 1:
			c.buildOneOrMore(n.Child, n.Greedy, from, to, opens, closes)
		default:
			prev := from
			for i := 0; i < n.Min-1; i++ {
				target := c.nfa.addState()
				var o []int
				if i == 0 {
					o = opens
				}
				c.build(n.Child, prev, target, o, nil)
				prev = target
			}
			afterState := c.nfa.addState()
			var oLast []int
			if n.Min-1 == 0 {
				oLast = opens
			}
			c.build(n.Child, prev, afterState, oLast, nil)
			if n.Greedy {
				c.nfa.addTransition(afterState, prev, Epsilon{}, nil)
				c.nfa.addTransition(afterState, to, Epsilon{}, mergeAnnotation(nil, closes))
			} else {
				c.nfa.addTransition(afterState, to, Epsilon{}, mergeAnnotation(nil, closes))
				c.nfa.addTransition(afterState, prev, Epsilon{}, nil)
			}
		}
		return
	}

	if n.Max == 0 {
		c.nfa.addTransition(from, to, Epsilon{}, mergeAnnotation(opens, closes))
		return
	}

	states := make([]int, n.Max+1)
	states[0] = from
	for i := 1; i < n.Max; i++ {
		states[i] = c.nfa.addState()
	}
	states[n.Max] = to

	for i := 0; i < n.Max; i++ {
		var o []int
		if i == 0 {
			o = opens
		}
		var cl []int
		if i == n.Max-1 {
			cl = closes
		}
		if i < n.Min {
			c.build(n.Child, states[i], states[i+1], o, cl)
			continue
		}
		shortcut := mergeAnnotation(o, closes)
		if n.Greedy {
			c.build(n.Child, states[i], states[i+1], o, cl)
			c.nfa.addTransition(states[i], to, Epsilon{}, shortcut)
		} else {
			c.nfa.addTransition(states[i], to, Epsilon{}, shortcut)
			c.build(n.Child, states[i], states[i+1], o, cl)
		}
	}
}
