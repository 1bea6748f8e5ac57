package matcher

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func identity(values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func newSource(input string) *Source {
	return NewSource(input, regexp.MustCompile(`^\s+`))
}

func TestMatchTextSuccessAndFailure(t *testing.T) {
	n := NewText("hello", false)
	src := newSource("hello world")
	v, ok := Match(n, src)
	require.True(t, ok)
	require.Equal(t, TokenValue{Text: "hello", Pos: 0}, v)
	require.Equal(t, 5, src.Cursor)

	src2 := newSource("goodbye")
	_, ok = Match(n, src2)
	require.False(t, ok)
	require.Equal(t, 0, src2.Cursor)
	texts, rich := src2.Expectations()
	require.Nil(t, rich)
	require.Equal(t, []string{"'hello'"}, texts)
}

func TestMatchTextSkipsWhitespace(t *testing.T) {
	n := NewText("hi", true)
	src := newSource("hi   there")
	_, ok := Match(n, src)
	require.True(t, ok)
	require.Equal(t, 5, src.Cursor)
}

func TestMatchRegex(t *testing.T) {
	n, err := NewRegex(`[0-9]+`, false)
	require.NoError(t, err)
	src := newSource("123abc")
	v, ok := Match(n, src)
	require.True(t, ok)
	require.Equal(t, TokenValue{Text: "123", Pos: 0}, v)

	src2 := newSource("abc")
	_, ok = Match(n, src2)
	require.False(t, ok)
	texts, _ := src2.Expectations()
	require.Equal(t, []string{"/[0-9]+/"}, texts)
}

func TestMatchChoiceFirstSuccessWins(t *testing.T) {
	n := NewChoice([]*Node{NewText("one", false), NewText("two", false)})
	src := newSource("two")
	v, ok := Match(n, src)
	require.True(t, ok)
	require.Equal(t, TokenValue{Text: "two", Pos: 0}, v)
}

func TestMatchSequenceKeepFlags(t *testing.T) {
	seq := NewSequence([]Item{
		{Node: NewText("(", false), Keep: false},
		{Node: NewRegexMust(t, `[0-9]+`), Keep: true},
		{Node: NewText(")", false), Keep: false},
	}, "")
	seq.ReplacementFn = identity
	src := newSource("(42)")
	v, ok := Match(seq, src)
	require.True(t, ok)
	require.Equal(t, TokenValue{Text: "42", Pos: 1}, v)
}

func TestMatchSequenceFailureRestoresCursor(t *testing.T) {
	seq := NewSequence([]Item{
		{Node: NewText("a", false), Keep: true},
		{Node: NewText("b", false), Keep: true},
	}, "")
	seq.ReplacementFn = identity
	src := newSource("ac")
	_, ok := Match(seq, src)
	require.False(t, ok)
	require.Equal(t, 0, src.Cursor)
}

func TestMatchRepeatStar(t *testing.T) {
	n := NewRepeat(NewText("a", false), true, true)
	src := newSource("aaab")
	v, ok := Match(n, src)
	require.True(t, ok)
	require.Len(t, v.([]any), 3)
	require.Equal(t, 3, src.Cursor)

	src2 := newSource("b")
	v2, ok := Match(n, src2)
	require.True(t, ok)
	require.Equal(t, []any{}, v2)
}

func TestMatchRepeatPlusRequiresOne(t *testing.T) {
	n := NewRepeat(NewText("a", false), false, true)
	src := newSource("b")
	_, ok := Match(n, src)
	require.False(t, ok)
}

func TestMatchRepeatStopsAtEOF(t *testing.T) {
	n := NewRepeat(NewText("a", true), true, true)
	src := newSource("aaa")
	v, ok := Match(n, src)
	require.True(t, ok)
	require.Len(t, v.([]any), 3)
	require.Equal(t, 3, src.Cursor)
}

func TestMatchSymbolWithDescriptionReplacesExpectations(t *testing.T) {
	g := NewGrammar()
	r := g.Rule("word")
	r.Description = "a word"
	r.Body, _ = NewRegex(`[a-z]+`, false)
	r.SkipWhitespace = false

	src := newSource("123")
	_, ok := Match(r.SymbolNode, src)
	require.False(t, ok)
	texts, _ := src.Expectations()
	require.Equal(t, []string{"a word"}, texts)
}

// A Sequence body backtracks the cursor to the rule's entry position
// before matchSymbol ever sees the failure, even though the furthest
// failure happened deeper inside the body. The description must still
// replace the body's internal expectation in this case.
func TestMatchSymbolWithDescriptionReplacesExpectationsAfterSequenceBacktracks(t *testing.T) {
	g := NewGrammar()
	r := g.Rule("abc")
	r.Description = "an abc"
	r.SkipWhitespace = false
	r.Body = NewSequence([]Item{
		{Node: NewText("a", false), Keep: true},
		{Node: NewText("b", false), Keep: true},
		{Node: NewText("c", false), Keep: true},
	}, "")
	r.Body.ReplacementFn = identity

	src := newSource("ab")
	_, ok := Match(r.SymbolNode, src)
	require.False(t, ok)
	require.Equal(t, 2, src.FurthestPos())
	texts, _ := src.Expectations()
	require.Equal(t, []string{"an abc"}, texts)
}

// When this rule's own failure never reaches the furthest position already
// on record (some other matcher already failed deeper), its description
// must not displace that deeper expectation: the body's own internal
// failures are discarded by the ordinary cursor-behind-furthest rule before
// the description truncation ever runs.
func TestMatchSymbolWithDescriptionDoesNotOverrideADeeperFailure(t *testing.T) {
	g := NewGrammar()
	r := g.Rule("abc")
	r.Description = "an abc"
	r.SkipWhitespace = false
	r.Body = NewSequence([]Item{
		{Node: NewText("a", false), Keep: true},
		{Node: NewText("b", false), Keep: true},
	}, "")
	r.Body.ReplacementFn = identity

	src := newSource("a")
	src.Cursor = 2
	src.RecordExpectation("'z'") // a deeper failure recorded elsewhere first
	src.Cursor = 0

	// abc's own body only gets as far as position 1 ('a' matches, 'b'
	// fails there) before restoring to 0, never reaching position 2.
	_, ok := Match(r.SymbolNode, src)
	require.False(t, ok)
	require.Equal(t, 2, src.FurthestPos())
	texts, _ := src.Expectations()
	require.Equal(t, []string{"'z'"}, texts)
}

func TestMatchPredicateRejection(t *testing.T) {
	base := NewRegexMust(t, `[a-z]+`)
	pred := NewPredicate(base, "palindrome")
	pred.PredicateFn = func(value any, prior []any) any {
		tok := value.(TokenValue)
		if tok.Text == "level" {
			return nil
		}
		return "a palindrome"
	}
	seq := NewSequence([]Item{{Node: pred, Keep: true}}, "")
	seq.ReplacementFn = identity

	src := newSource("hello")
	_, ok := Match(seq, src)
	require.False(t, ok)
	texts, _ := src.Expectations()
	require.Equal(t, []string{"a palindrome"}, texts)

	src2 := newSource("level")
	v, ok := Match(seq, src2)
	require.True(t, ok)
	require.Equal(t, "level", v.(TokenValue).Text)
}

func TestSourceExpectationsSortedAndDeduped(t *testing.T) {
	src := newSource("x")
	src.RecordExpectation("'b'")
	src.RecordExpectation("'a'")
	src.RecordExpectation("'a'")
	texts, rich := src.Expectations()
	require.Nil(t, rich)
	require.Equal(t, []string{"'a'", "'b'"}, texts)
}

func TestSourceFurthestFailureWins(t *testing.T) {
	src := newSource("xy")
	src.RecordExpectation("'a'")
	src.Cursor = 1
	src.RecordExpectation("'b'")
	src.Cursor = 0
	src.RecordExpectation("'c'")
	texts, _ := src.Expectations()
	require.Equal(t, 1, src.FurthestPos())
	require.Equal(t, []string{"'b'"}, texts)
}

// NewRegexMust is a tiny test helper; production code always has an
// already-validated pattern by the time it reaches the matcher.
func NewRegexMust(t *testing.T, pattern string) *Node {
	t.Helper()
	n, err := NewRegex(pattern, false)
	require.NoError(t, err)
	return n
}
