package matcher

// LeftEdges returns every rule node reaches through a leftmost,
// zero-or-more-nullable-items prefix: the set of rules that would be
// entered without first consuming input. internal/validate uses this as
// the adjacency function for left-recursion cycle detection. It does not
// recurse into a referenced rule's body — that traversal belongs to the
// validator's own DFS over rules, not to a single node's edge set.
func LeftEdges(node *Node, ns *NullState) []*Rule {
	switch node.Kind {
	case KindSymbol:
		return []*Rule{node.Rule}
	case KindSequence:
		var edges []*Rule
		for _, item := range node.Items {
			edges = append(edges, LeftEdges(item.Node, ns)...)
			if Nullable(item.Node, ns) == No {
				break
			}
		}
		return edges
	case KindChoice:
		var edges []*Rule
		for _, alt := range node.Alternatives {
			edges = append(edges, LeftEdges(alt, ns)...)
		}
		return edges
	case KindRepeat, KindPredicate:
		return LeftEdges(node.Base, ns)
	default: // KindText, KindRegex
		return nil
	}
}

// HasNullableRepeat reports whether node contains (possibly nested via
// Sequence/Choice/Predicate/Repeat) any Repeat whose base is not
// definitely non-nullable. Used by the wildcard-over-nullable check.
func HasNullableRepeat(node *Node, ns *NullState) bool {
	switch node.Kind {
	case KindRepeat:
		if Nullable(node.Base, ns) != No {
			return true
		}
		return HasNullableRepeat(node.Base, ns)
	case KindPredicate:
		return HasNullableRepeat(node.Base, ns)
	case KindSequence:
		for _, item := range node.Items {
			if HasNullableRepeat(item.Node, ns) {
				return true
			}
		}
		return false
	case KindChoice:
		for _, alt := range node.Alternatives {
			if HasNullableRepeat(alt, ns) {
				return true
			}
		}
		return false
	default: // KindText, KindRegex, KindSymbol
		return false
	}
}
