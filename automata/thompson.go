package automata

import "fmt"

// CompileRegex compiles a single regex pattern (in the dialect accepted
// by pass1LexAtoms) into a standalone NFA fragment sharing alphabet a.
// The returned NFA's Accept state carries no action; callers mark it via
// MarkAccept once they know which token the rule produces.
func CompileRegex(a *Alphabet, pattern string) (*NFA, error) {
	postfix, err := toPostfix(pattern)
	if err != nil {
		return nil, fmt.Errorf("automata: compiling %q: %w", pattern, err)
	}
	return thompsonBuild(a, postfix)
}

// thompsonBuild runs Thompson's construction over a postfix token
// stream, maintaining a stack of NFA fragments exactly as described in
// the classic algorithm: atoms push a 2-state fragment, operators pop
// their operands and push a new combined fragment.
func thompsonBuild(a *Alphabet, postfix []rtok) (*NFA, error) {
	var stack []*NFA

	push := func(n *NFA) { stack = append(stack, n) }
	pop := func() (*NFA, error) {
		if len(stack) == 0 {
			return nil, fmt.Errorf("automata: malformed postfix regex (stack underflow)")
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}

	for _, t := range postfix {
		switch t.kind {
		case rtChar:
			n := New(a)
			n.AddRuneTransition(n.Start, t.r, n.Accept)
			push(n)

		case rtAny:
			n := New(a)
			n.AddAnyTransition(n.Start, n.Accept)
			push(n)

		case rtClass:
			n := New(a)
			for r := range t.class {
				n.AddRuneTransition(n.Start, r, n.Accept)
			}
			push(n)

		case rtConcat:
			rhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhs, err := pop()
			if err != nil {
				return nil, err
			}
			push(concatFragments(lhs, rhs))

		case rtUnion:
			rhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhs, err := pop()
			if err != nil {
				return nil, err
			}
			push(unionFragments(lhs, rhs))

		case rtStar:
			inner, err := pop()
			if err != nil {
				return nil, err
			}
			push(starFragment(inner))

		case rtPlus:
			inner, err := pop()
			if err != nil {
				return nil, err
			}
			push(plusFragment(inner))

		case rtOpt:
			inner, err := pop()
			if err != nil {
				return nil, err
			}
			push(optFragment(inner))

		default:
			return nil, fmt.Errorf("automata: unexpected postfix token kind %d", t.kind)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("automata: malformed regex: %d fragments left on stack", len(stack))
	}
	return stack[0], nil
}

// concatFragments wires lhs.Accept --eps--> rhs.Start and returns a
// fragment spanning lhs.Start to rhs.Accept.
func concatFragments(lhs, rhs *NFA) *NFA {
	rhs.Renumber(len(lhs.States))
	lhs.Merge(rhs)
	lhs.AddEpsilon(lhs.Accept, rhs.Start)
	lhs.Accept = rhs.Accept
	return lhs
}

// unionFragments builds a new start/accept pair with epsilon edges to
// and from both operands: start -eps-> {lhs,rhs}.start, {lhs,rhs}.accept
// -eps-> accept.
func unionFragments(lhs, rhs *NFA) *NFA {
	result := New(lhs.Alphabet)

	offset := len(result.States)
	lhs.Renumber(offset)
	result.Merge(lhs)

	offset = len(result.States)
	rhs.Renumber(offset)
	result.Merge(rhs)

	result.AddEpsilon(result.Start, lhs.Start)
	result.AddEpsilon(result.Start, rhs.Start)
	result.AddEpsilon(lhs.Accept, result.Accept)
	result.AddEpsilon(rhs.Accept, result.Accept)
	return result
}

// starFragment implements A* (Kleene closure): new start/accept,
// start<->accept bypass, start->inner.start, inner.accept->accept,
// inner.accept->inner.start (loop).
func starFragment(inner *NFA) *NFA {
	result := New(inner.Alphabet)
	offset := len(result.States)
	inner.Renumber(offset)
	result.Merge(inner)

	result.AddEpsilon(result.Start, result.Accept)
	result.AddEpsilon(result.Start, inner.Start)
	result.AddEpsilon(inner.Accept, result.Accept)
	result.AddEpsilon(inner.Accept, inner.Start)
	return result
}

// plusFragment implements A+ (one or more): like star but without the
// start->accept bypass, so at least one iteration is required.
func plusFragment(inner *NFA) *NFA {
	result := New(inner.Alphabet)
	offset := len(result.States)
	inner.Renumber(offset)
	result.Merge(inner)

	result.AddEpsilon(result.Start, inner.Start)
	result.AddEpsilon(inner.Accept, result.Accept)
	result.AddEpsilon(inner.Accept, inner.Start)
	return result
}

// optFragment implements A? (zero or one): start->accept bypass plus
// start->inner.start->inner.accept->accept.
func optFragment(inner *NFA) *NFA {
	result := New(inner.Alphabet)
	offset := len(result.States)
	inner.Renumber(offset)
	result.Merge(inner)

	result.AddEpsilon(result.Start, inner.Start)
	result.AddEpsilon(inner.Accept, result.Accept)
	result.AddEpsilon(result.Start, result.Accept)
	return result
}

// UnionAll combines several independent NFA fragments (each typically a
// whole lexical rule already MarkAccept'ed) into one NFA via a shared
// start state with epsilon edges to each fragment. Accept states and
// their actions are preserved rather than merged, since LexerGen needs
// to recover which rule matched.
func UnionAll(a *Alphabet, fragments []*NFA) *NFA {
	result := New(a)
	// Only the start state of the two-state scaffold New() gives us is
	// used: every fragment keeps its own accept state, and result.Accept
	// is left unmarked with no edge into it, so it never matches.
	for _, frag := range fragments {
		offset := len(result.States)
		frag.Renumber(offset)
		result.Merge(frag)
		result.AddEpsilon(result.Start, frag.Start)
	}
	return result
}
