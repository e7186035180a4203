package retrace

import "strconv"

// scope holds the state of one grouping level being parsed: the
// alternatives completed so far (split by '|') and the concatenation
// currently being accumulated. It plays the role of the "active insertion
// slot" described in §4.1 — the top of the parser's scope stack is always
// where the next atom or quantifier target lands.
type scope struct {
	capture bool
	alts    [][]*Node
	cur     []*Node
}

func (s *scope) append(n *Node) {
	s.cur = append(s.cur, n)
}

func concatFromSlice(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeaf(Epsilon{})
	case 1:
		return children[0]
	default:
		return newConcatenation(children)
	}
}

func (s *scope) finish() *Node {
	if len(s.alts) == 0 {
		return concatFromSlice(s.cur)
	}
	alts := make([]*Node, 0, len(s.alts)+1)
	for _, alt := range s.alts {
		alts = append(alts, concatFromSlice(alt))
	}
	alts = append(alts, concatFromSlice(s.cur))
	return newDisjunction(alts)
}

type parser struct {
	pattern string
	pos     int
}

// Parse compiles pattern into an AST without running the optimizer. See
// Compile for the end-to-end entry point most callers want.
func Parse(pattern string) (*AST, error) {
	p := &parser{pattern: pattern}
	ast := &AST{}

	if len(pattern) > 0 && pattern[0] == '^' {
		ast.AnchorBegin = true
		p.pos = 1
	}

	stack := []*scope{{}}

	for p.pos < len(pattern) {
		ch := pattern[p.pos]

		if ch == '$' && p.pos == len(pattern)-1 {
			ast.AnchorEnd = true
			p.pos++
			continue
		}

		switch ch {
		case '\\':
			lit, err := p.readEscapedLiteral()
			if err != nil {
				return nil, err
			}
			stack[len(stack)-1].append(newLeaf(lit))

		case '[':
			p.pos++
			cc, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			stack[len(stack)-1].append(cc)

		case '(', '<':
			capture := ch == '<'
			p.pos++
			stack = append(stack, &scope{capture: capture})

		case ')', '>':
			if len(stack) == 1 {
				return nil, ErrUnbalancedBrackets
			}
			top := stack[len(stack)-1]
			if top.capture != (ch == '>') {
				return nil, newSyntaxError("mismatched group delimiters")
			}
			p.pos++
			node := top.finish()
			stack = stack[:len(stack)-1]
			if top.capture {
				node = newBracket(node, true)
			}
			stack[len(stack)-1].append(node)

		case '|':
			p.pos++
			top := stack[len(stack)-1]
			top.alts = append(top.alts, top.cur)
			top.cur = nil

		case '*', '+', '?':
			if err := p.applyQuantifier(stack[len(stack)-1], ch); err != nil {
				return nil, err
			}

		case '{':
			if err := p.applyMultiply(stack[len(stack)-1]); err != nil {
				return nil, err
			}

		case '.':
			p.pos++
			stack[len(stack)-1].append(newLeaf(Universal{}))

		default:
			p.pos++
			stack[len(stack)-1].append(newLeaf(Character{Char: ch}))
		}
	}

	if len(stack) != 1 {
		return nil, ErrUnbalancedBrackets
	}
	ast.Root = stack[0].finish()
	return ast, nil
}

func (p *parser) readEscapedLiteral() (Matcher, error) {
	if p.pos+1 >= len(p.pattern) {
		return nil, newSyntaxError("trailing backslash")
	}
	c := p.pattern[p.pos+1]
	p.pos += 2
	return Character{Char: c}, nil
}

// readLazySuffix consumes a single trailing '?' immediately following a
// quantifier, flipping its greediness. This state is cleared after exactly
// one character, as required by §4.1's lazyModifier.
func (p *parser) readLazySuffix() bool {
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '?' {
		p.pos++
		return false
	}
	return true
}

func (p *parser) applyQuantifier(top *scope, ch byte) error {
	if len(top.cur) == 0 {
		return newSyntaxError("nothing to repeat")
	}
	p.pos++
	target := top.cur[len(top.cur)-1]
	greedy := p.readLazySuffix()

	var q *Node
	switch ch {
	case '*':
		q = newKleeneStar(target, greedy)
	case '+':
		q = newOneOrMore(target, greedy)
	case '?':
		q = newOneOrNone(target, greedy)
	}
	top.cur[len(top.cur)-1] = q
	return nil
}

func (p *parser) applyMultiply(top *scope) error {
	if len(top.cur) == 0 {
		return newSyntaxError("nothing to repeat")
	}
	start := p.pos
	p.pos++
	contentStart := p.pos
	for p.pos < len(p.pattern) && p.pattern[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.pattern) {
		p.pos = start
		return ErrUnbalancedBrackets
	}
	content := p.pattern[contentStart:p.pos]
	p.pos++

	min, max, unbounded, err := parseMultiplyContent(content)
	if err != nil {
		return err
	}

	target := top.cur[len(top.cur)-1]
	greedy := p.readLazySuffix()
	top.cur[len(top.cur)-1] = newMultiply(target, min, max, unbounded, greedy)
	return nil
}

func parseMultiplyContent(content string) (min, max int, unbounded bool, err error) {
	filtered := make([]byte, 0, len(content))
	commas := 0
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == ' ':
			continue
		case c == ',':
			commas++
			filtered = append(filtered, c)
		case c >= '0' && c <= '9':
			filtered = append(filtered, c)
		default:
			return 0, 0, false, newSyntaxError("invalid repeat count")
		}
	}
	if commas > 1 {
		return 0, 0, false, newSyntaxError("too many commas in repeat count")
	}

	if commas == 0 {
		if len(filtered) == 0 {
			return 0, 0, false, newSyntaxError("empty repeat count")
		}
		n, convErr := strconv.Atoi(string(filtered))
		if convErr != nil {
			return 0, 0, false, newSyntaxError("invalid repeat count")
		}
		return n, n, false, nil
	}

	commaIdx := -1
	for i, c := range filtered {
		if c == ',' {
			commaIdx = i
			break
		}
	}
	minPart := string(filtered[:commaIdx])
	maxPart := string(filtered[commaIdx+1:])
	if minPart == "" {
		return 0, 0, false, newSyntaxError("missing repeat minimum")
	}
	lo, convErr := strconv.Atoi(minPart)
	if convErr != nil {
		return 0, 0, false, newSyntaxError("invalid repeat count")
	}
	if maxPart == "" {
		return lo, 0, true, nil
	}
	hi, convErr := strconv.Atoi(maxPart)
	if convErr != nil {
		return 0, 0, false, newSyntaxError("invalid repeat count")
	}
	if hi < lo {
		return 0, 0, false, newSyntaxError("repeat maximum less than minimum")
	}
	return lo, hi, false, nil
}

// parseClass parses the contents of a character class, assuming p.pos is
// positioned just past the opening '['.
func (p *parser) parseClass() (*Node, error) {
	invert := false
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '^' {
		invert = true
		p.pos++
	}

	var intervals []Interval
	for {
		if p.pos >= len(p.pattern) {
			return nil, ErrUnbalancedBrackets
		}
		c := p.pattern[p.pos]
		if c == ']' {
			p.pos++
			break
		}
		if c == '[' {
			return nil, newSyntaxError("nested character class")
		}

		lo, err := p.readClassByte()
		if err != nil {
			return nil, err
		}

		if p.pos < len(p.pattern) && p.pattern[p.pos] == '-' {
			if p.pos+1 >= len(p.pattern) {
				return nil, ErrUnbalancedBrackets
			}
			if p.pattern[p.pos+1] == ']' {
				return nil, newSyntaxError("trailing dash in character class")
			}
			p.pos++
			hi, err := p.readClassByte()
			if err != nil {
				return nil, err
			}
			intervals = append(intervals, Interval{Lo: lo, Hi: hi})
		} else {
			intervals = append(intervals, Interval{Lo: lo, Hi: lo})
		}
	}

	norm := normalizeIntervals(intervals)
	if len(norm) == 0 {
		return nil, newSyntaxError("empty character class")
	}
	if c, ok := isSingletonClass(norm, invert); ok {
		return newLeaf(Character{Char: c}), nil
	}
	return newLeaf(CharacterClass{Intervals: norm, Invert: invert}), nil
}

func (p *parser) readClassByte() (byte, error) {
	if p.pos >= len(p.pattern) {
		return 0, ErrUnbalancedBrackets
	}
	c := p.pattern[p.pos]
	if c == '\\' {
		if p.pos+1 >= len(p.pattern) {
			return 0, newSyntaxError("trailing backslash")
		}
		c2 := p.pattern[p.pos+1]
		p.pos += 2
		return c2, nil
	}
	p.pos++
	return c, nil
}
