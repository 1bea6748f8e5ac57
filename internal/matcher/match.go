package matcher

import (
	"fmt"
	"strconv"
	"strings"
)

// Match evaluates node against src's current cursor. On success it
// returns the matched value and advances src.Cursor past what it
// consumed; on failure it returns (nil, false), leaves src.Cursor
// unchanged, and records an expectation at the failure position.
func Match(node *Node, src *Source) (any, bool) {
	switch node.Kind {
	case KindText:
		return matchText(node, src)
	case KindRegex:
		return matchRegex(node, src)
	case KindSymbol:
		return matchSymbol(node, src)
	case KindSequence:
		return matchSequence(node, src)
	case KindChoice:
		return matchChoice(node, src)
	case KindRepeat:
		return matchRepeat(node, src)
	case KindPredicate:
		// A bare Predicate is only ever reached here if it is matched
		// outside of the Sequence that owns it (not possible through the
		// DSL grammar, since ':' only attaches to a sequence item); the
		// empty prior list is a defensive fallback.
		return matchPredicateWithPrior(node, src, nil)
	default:
		panic(fmt.Sprintf("matcher: unknown node kind %d", node.Kind))
	}
}

func quoteLiteral(s string) string {
	return "'" + s + "'"
}

func matchText(n *Node, src *Source) (any, bool) {
	if strings.HasPrefix(src.Input[src.Cursor:], n.Literal) {
		pos := src.Cursor
		src.Cursor += len(n.Literal)
		if n.SkipWS {
			src.SkipWhitespace()
		}
		return TokenValue{Text: n.Literal, Pos: pos}, true
	}
	src.RecordExpectation(quoteLiteral(n.Literal))
	return nil, false
}

func matchRegex(n *Node, src *Source) (any, bool) {
	loc := n.Regex.FindStringIndex(src.Input[src.Cursor:])
	if loc == nil {
		src.RecordExpectation("/" + n.RegexSrc + "/")
		return nil, false
	}
	pos := src.Cursor
	text := src.Input[src.Cursor : src.Cursor+loc[1]]
	src.Cursor += loc[1]
	if n.SkipWS {
		src.SkipWhitespace()
	}
	return TokenValue{Text: text, Pos: pos}, true
}

func matchSymbol(n *Node, src *Source) (any, bool) {
	rule := n.Rule
	preSkip := src.Cursor
	hasDesc := rule.HasDescription()
	var snapshot, snapshotPos int
	if hasDesc {
		snapshot = src.ExpectationCount()
		snapshotPos = src.FurthestPos()
	}
	if rule.SkipWhitespace {
		src.SkipWhitespace()
	}
	val, ok := Match(rule.Body, src)
	if !ok {
		if hasDesc {
			if src.FurthestPos() > snapshotPos {
				// The body moved the furthest failure forward, which
				// discarded everything recorded before the snapshot.
				snapshot = 0
			}
			src.RecordExpectationTruncate(rule.Description, snapshot)
		}
		src.Cursor = preSkip
		return nil, false
	}
	return val, true
}

func matchSequence(n *Node, src *Source) (any, bool) {
	saved := src.Cursor
	var kept []any
	for _, item := range n.Items {
		var v any
		var ok bool
		if item.Node.Kind == KindPredicate {
			v, ok = matchPredicateWithPrior(item.Node, src, kept)
		} else {
			v, ok = Match(item.Node, src)
		}
		if !ok {
			src.Cursor = saved
			return nil, false
		}
		if item.Keep {
			kept = append(kept, v)
		}
	}
	if kept == nil {
		kept = []any{}
	}
	return n.ReplacementFn(kept), true
}

func matchChoice(n *Node, src *Source) (any, bool) {
	for _, alt := range n.Alternatives {
		if v, ok := Match(alt, src); ok {
			return v, true
		}
	}
	return nil, false
}

func matchRepeat(n *Node, src *Source) (any, bool) {
	var values []any
	for {
		if src.Cursor >= len(src.Input) && (n.ZeroOK || len(values) > 0) {
			break
		}
		saved := src.Cursor
		v, ok := Match(n.Base, src)
		if !ok {
			src.Cursor = saved
			break
		}
		values = append(values, v)
		if !n.MultipleOK {
			break
		}
	}
	if !n.ZeroOK && len(values) == 0 {
		return nil, false
	}
	if values == nil {
		values = []any{}
	}
	return values, true
}

func matchPredicateWithPrior(n *Node, src *Source, prior []any) (any, bool) {
	saved := src.Cursor
	v, ok := Match(n.Base, src)
	if !ok {
		src.Cursor = saved
		return nil, false
	}
	result := n.PredicateFn(v, prior)
	if result == nil {
		return v, true
	}
	switch r := result.(type) {
	case string:
		src.RecordExpectation(r)
	case RichFailure:
		src.RecordRichFailure(r)
	default:
		src.RecordExpectation(strconv.Quote(fmt.Sprintf("%v", r)))
	}
	src.Cursor = saved
	return nil, false
}
