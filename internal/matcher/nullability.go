package matcher

// Nullability is the three-valued fixpoint state of a rule's ability to
// match the empty string. It starts Unknown and only ever moves toward
// No or Yes as the validator iterates to a fixpoint.
type Nullability int

const (
	Unknown Nullability = iota
	No
	Yes
)

// NullState holds the in-progress nullability of every rule in a
// grammar while internal/validate iterates to a fixpoint.
type NullState struct {
	of map[*Rule]Nullability
}

// NewNullState seeds every rule in g as Unknown.
func NewNullState(g *Grammar) *NullState {
	s := &NullState{of: map[*Rule]Nullability{}}
	for _, name := range g.Order {
		s.of[g.Rules[name]] = Unknown
	}
	return s
}

// Of returns a rule's current nullability.
func (s *NullState) Of(r *Rule) Nullability {
	return s.of[r]
}

// Set updates a rule's current nullability.
func (s *NullState) Set(r *Rule, n Nullability) {
	s.of[r] = n
}

// Nullable computes a node's nullability given the current (possibly
// still-converging) rule nullabilities in s.
func Nullable(node *Node, s *NullState) Nullability {
	switch node.Kind {
	case KindText:
		return No
	case KindRegex:
		if node.Regex.MatchString("") {
			return Yes
		}
		return No
	case KindSymbol:
		return s.Of(node.Rule)
	case KindSequence:
		return nullableAll(itemNodes(node.Items), s)
	case KindChoice:
		return nullableAny(node.Alternatives, s)
	case KindRepeat:
		if node.ZeroOK {
			return Yes
		}
		return Nullable(node.Base, s)
	case KindPredicate:
		return Nullable(node.Base, s)
	default:
		return Unknown
	}
}

func itemNodes(items []Item) []*Node {
	nodes := make([]*Node, len(items))
	for i, it := range items {
		nodes[i] = it.Node
	}
	return nodes
}

// nullableAll combines nullability the way Sequence does: No as soon as
// any branch is definitely No, Yes only once every branch is Yes,
// Unknown while any branch remains undecided and none is No.
func nullableAll(nodes []*Node, s *NullState) Nullability {
	allYes := true
	for _, n := range nodes {
		switch Nullable(n, s) {
		case No:
			return No
		case Unknown:
			allYes = false
		}
	}
	if allYes {
		return Yes
	}
	return Unknown
}

// nullableAny combines nullability the way Choice does: Yes as soon as
// any alternative is definitely Yes, No only once every alternative is
// No, Unknown while any alternative remains undecided and none is Yes.
func nullableAny(nodes []*Node, s *NullState) Nullability {
	allNo := true
	for _, n := range nodes {
		switch Nullable(n, s) {
		case Yes:
			return Yes
		case Unknown:
			allNo = false
		}
	}
	if allNo {
		return No
	}
	return Unknown
}
