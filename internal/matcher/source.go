package matcher

import (
	"regexp"
	"sort"
)

// TokenValue is what Text and Regex matchers produce: the matched text
// and the byte position it started at. Host replacement/predicate
// functions receive these for terminal items.
type TokenValue struct {
	Text string
	Pos  int
}

// expectation is one furthest-failure entry: either plain rendered text
// or a rich failure that will short-circuit the final report.
type expectation struct {
	text string
	rich RichFailure
}

// Source is the per-match scratch state: the input, the current cursor,
// and the furthest-failure record used to build the diagnostic on
// failure. A fresh Source is created for every call to Parser.Match and
// discarded at completion, per spec.md's resource model.
type Source struct {
	Input  string
	Cursor int

	whitespace *regexp.Regexp

	furthestPos  int
	expectations []expectation
}

// NewSource creates matching scratch state for input, using ws to skip
// whitespace inside whitespace-skipping rules.
func NewSource(input string, ws *regexp.Regexp) *Source {
	return &Source{Input: input, whitespace: ws}
}

// SkipWhitespace advances the cursor past a run of whitespace, if the
// grammar's whitespace regex matches at the current position.
func (s *Source) SkipWhitespace() {
	if s.whitespace == nil {
		return
	}
	if m := s.whitespace.FindStringIndex(s.Input[s.Cursor:]); m != nil && m[1] > 0 {
		s.Cursor += m[1]
	}
}

// ExpectationCount returns the number of expectations currently recorded
// at the furthest-failure position; used by Symbol to snapshot before
// dispatching to a described rule's body.
func (s *Source) ExpectationCount() int {
	return len(s.expectations)
}

// FurthestPos returns the rightmost position any matcher has failed at
// so far during this match.
func (s *Source) FurthestPos() int {
	return s.furthestPos
}

// RecordExpectation registers what failed at the current cursor, per
// spec.md §4.7's furthest-failure accumulation rule.
func (s *Source) RecordExpectation(text string) {
	s.record(expectation{text: text})
}

// RecordExpectationTruncate replaces whatever expectations the just-failed
// rule body contributed to the furthest-failure record (everything added
// since truncateTo, the snapshot taken before the body was dispatched, or 0
// when the body moved the furthest-failure position forward) with
// text, the rule's own description. This must not compare against the live
// cursor: by the time a described Symbol calls this, Sequence/Predicate
// backtracking has already restored src.Cursor to the rule's entry
// position, which is behind furthestPos whenever the body consumed input
// before failing deeper in. Whether the body's failure is part of the
// furthest-failure record is determined entirely by whether it pushed any
// expectations past the snapshot — if it did, those expectations are at
// furthestPos by construction and are replaced; if it didn't, some other,
// deeper failure owns the record and this description is correctly
// dropped.
func (s *Source) RecordExpectationTruncate(text string, truncateTo int) {
	if truncateTo < 0 || truncateTo > len(s.expectations) {
		return
	}
	if truncateTo == len(s.expectations) {
		// The body's own failure never reached the furthest-failure
		// position; some other matcher's expectation already owns it.
		return
	}
	s.expectations = append(s.expectations[:truncateTo], expectation{text: text})
}

// RecordRichFailure registers a self-formatting failure at the current
// cursor.
func (s *Source) RecordRichFailure(rf RichFailure) {
	s.record(expectation{rich: rf})
}

func (s *Source) record(e expectation) {
	switch {
	case s.Cursor > s.furthestPos:
		s.expectations = s.expectations[:0]
		s.furthestPos = s.Cursor
		s.expectations = append(s.expectations, e)
	case s.Cursor == s.furthestPos:
		s.expectations = append(s.expectations, e)
	default:
		// cursor is behind the furthest failure: a better report already
		// exists, so this one is discarded.
	}
}

// Expectations returns the plain-text expectations recorded at the
// furthest-failure position, deduplicated and sorted, and the rich
// failure recorded there (if any; it takes priority over plain text).
func (s *Source) Expectations() (texts []string, rich RichFailure) {
	for _, e := range s.expectations {
		if e.rich != nil {
			rich = e.rich
			continue
		}
		texts = append(texts, e.text)
	}
	sort.Strings(texts)
	deduped := texts[:0]
	for i, t := range texts {
		if i == 0 || t != texts[i-1] {
			deduped = append(deduped, t)
		}
	}
	return deduped, rich
}
