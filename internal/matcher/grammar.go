package matcher

import "regexp"

// Rule is a named production: its body matcher, whether it absorbs
// trailing whitespace after its terminals, and an optional description
// used as the expectation text on failure instead of its internal
// matchers. A Rule is created (with a nil Body) the first time it is
// referenced; Body stays nil until the rule is actually defined, which
// the validator uses to detect undefined symbols.
type Rule struct {
	Name           string
	Description    string
	SkipWhitespace bool
	Body           *Node

	// SymbolNode is the single Symbol node every reference to this rule
	// shares, per spec.md's Rule/Symbol ownership invariant.
	SymbolNode *Node
}

// Defined reports whether the rule's body has been parsed yet.
func (r *Rule) Defined() bool {
	return r.Body != nil
}

// HasDescription reports whether the rule carries a <description>.
func (r *Rule) HasDescription() bool {
	return r.Description != ""
}

// Grammar is the compiled result of the DSL: every rule reachable from
// the start rule, keyed by name, plus the whitespace regex used by
// whitespace-skipping rules.
type Grammar struct {
	Rules map[string]*Rule
	// Order records rule names in first-reference order, so diagnostics
	// and dumps are deterministic instead of depending on map iteration.
	Order []string
	Start *Rule

	Whitespace    *regexp.Regexp
	WhitespaceSrc string
}

// defaultWhitespacePattern is used when the grammar source has no leading
// `whitespace /.../ ` declaration.
const defaultWhitespacePattern = `\s+`

// NewGrammar returns an empty Grammar with the default whitespace regex.
func NewGrammar() *Grammar {
	g := &Grammar{Rules: map[string]*Rule{}}
	g.SetWhitespace(defaultWhitespacePattern)
	return g
}

// SetWhitespace recompiles the grammar's whitespace regex, anchored at the
// cursor like every other regex matcher.
func (g *Grammar) SetWhitespace(pattern string) error {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return err
	}
	g.Whitespace = re
	g.WhitespaceSrc = pattern
	return nil
}

// Rule returns the named rule, creating it (undefined, with its owned
// Symbol node) on first reference. The first rule ever referenced becomes
// the grammar's start rule.
func (g *Grammar) Rule(name string) *Rule {
	if r, ok := g.Rules[name]; ok {
		return r
	}
	r := &Rule{Name: name}
	r.SymbolNode = NewSymbol(r)
	g.Rules[name] = r
	g.Order = append(g.Order, name)
	if g.Start == nil {
		g.Start = r
	}
	return r
}

// UndefinedRules returns the names of every referenced-but-never-defined
// rule, in first-reference order.
func (g *Grammar) UndefinedRules() []string {
	var names []string
	for _, name := range g.Order {
		if !g.Rules[name].Defined() {
			names = append(names, name)
		}
	}
	return names
}
