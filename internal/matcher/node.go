// Package matcher defines the compiled grammar graph: the seven matcher
// node kinds, the Rule and Grammar containers that own them, and the
// operations each kind supports (matching, nullability, left-reference
// walking, dumping). The kind set is closed and known at compile time, so
// each operation is a single dispatch function switching on Kind rather
// than a method set spread across an interface hierarchy.
package matcher

import "regexp"

// Kind tags which of the seven matcher node variants a Node is.
type Kind int

const (
	KindText Kind = iota
	KindRegex
	KindSymbol
	KindSequence
	KindChoice
	KindRepeat
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRegex:
		return "regex"
	case KindSymbol:
		return "symbol"
	case KindSequence:
		return "sequence"
	case KindChoice:
		return "choice"
	case KindRepeat:
		return "repeat"
	case KindPredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// Replacement transforms a sequence's kept item values into the value the
// sequence produces. Supplied by the host, bound by internal/bind.
type Replacement func(values []any) any

// Predicate gates a matched value against a caller-supplied check. It
// returns nil to accept, a string naming the expectation on rejection, or
// a RichFailure that renders its own diagnostic.
type Predicate func(value any, prior []any) any

// FormatLineFunc renders a message against the grammar's input at a byte
// position, using the same three-line format as every other diagnostic.
type FormatLineFunc func(message string, pos int) string

// RichFailure is returned by a Predicate to short-circuit the furthest
// failure's expectation list with a custom rendering.
type RichFailure interface {
	Message(formatLine FormatLineFunc) string
}

// Node is one matcher in the compiled grammar graph. Only the fields
// relevant to Kind are populated; see the seven constructors below.
type Node struct {
	Kind Kind

	// Text
	Literal string

	// Text, Regex
	SkipWS bool

	// Regex
	Regex    *regexp.Regexp
	RegexSrc string // original /.../  source, for Dump and descriptions

	// Symbol
	Rule *Rule

	// Sequence
	Items           []Item
	ReplacementName string
	ReplacementFn   Replacement

	// Choice
	Alternatives []*Node

	// Repeat
	Base       *Node
	ZeroOK     bool
	MultipleOK bool

	// Predicate (Base is reused from the Repeat fields above)
	PredicateName string
	PredicateFn   Predicate
}

// Item is a matcher plus whether its value contributes to its enclosing
// Sequence's kept-value list.
type Item struct {
	Node *Node
	Keep bool
}

// DefaultKeep reports the keep default for a freshly-parsed matcher,
// before any '!'/'-' prefix is applied: Text defaults to skip, every
// other kind defaults to keep.
func DefaultKeep(n *Node) bool {
	return n.Kind != KindText
}

// NewText builds a Text matcher for a literal string.
func NewText(literal string, skipWS bool) *Node {
	return &Node{Kind: KindText, Literal: literal, SkipWS: skipWS}
}

// NewRegex compiles pattern (already capture-stripped by the lexer) as an
// anchored matcher: the engine must test the pattern at the cursor, never
// search ahead for it.
func NewRegex(pattern string, skipWS bool) (*Node, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindRegex, Regex: re, RegexSrc: pattern, SkipWS: skipWS}, nil
}

// NewSymbol returns the single Symbol node owned by rule. Call sites
// should prefer Rule.SymbolNode so every reference to the same rule
// shares one Node, as spec.md requires.
func NewSymbol(rule *Rule) *Node {
	return &Node{Kind: KindSymbol, Rule: rule}
}

// NewSequence builds a Sequence matcher. ReplacementFn is nil until
// internal/bind assigns it.
func NewSequence(items []Item, replacementName string) *Node {
	return &Node{Kind: KindSequence, Items: items, ReplacementName: replacementName}
}

// NewChoice builds a Choice matcher trying alternatives in order.
func NewChoice(alternatives []*Node) *Node {
	return &Node{Kind: KindChoice, Alternatives: alternatives}
}

// NewRepeat builds a Repeat matcher. zeroOK,multipleOK encode '*'
// (true,true), '+' (false,true), '?' (true,false).
func NewRepeat(base *Node, zeroOK, multipleOK bool) *Node {
	return &Node{Kind: KindRepeat, Base: base, ZeroOK: zeroOK, MultipleOK: multipleOK}
}

// NewPredicate builds a Predicate matcher. PredicateFn is nil until
// internal/bind assigns it.
func NewPredicate(base *Node, predicateName string) *Node {
	return &Node{Kind: KindPredicate, Base: base, PredicateName: predicateName}
}
