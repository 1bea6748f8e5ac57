// Package engine runs a compiled, bound grammar against an input string:
// it owns the top-level Source, the start-rule invocation, the
// unconsumed-trailing-input check, and turning a furthest-failure record
// into the three-line diagnostic string (spec.md §4.6–§4.8).
package engine

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/john-rochester/fast-parser/internal/errfmt"
	"github.com/john-rochester/fast-parser/internal/matcher"
)

// Result is the outcome of a single match: either a non-nil Value with an
// empty Err, or a nil Value with a non-empty Err, never both.
type Result struct {
	Value any
	Err   string
}

// Run matches input against g's start rule, fails with "expected end of
// input" if input remains unconsumed, and renders any failure through
// internal/errfmt.
func Run(g *matcher.Grammar, input string, log zerolog.Logger) Result {
	src := matcher.NewSource(input, g.Whitespace)
	value, ok := matcher.Match(g.Start.SymbolNode, src)
	if ok && src.Cursor < len(input) {
		src.RecordExpectation("end of input")
		ok = false
	}
	if ok {
		return Result{Value: value}
	}

	log.Trace().Int("pos", src.FurthestPos()).Msg("furthest failure")

	texts, rich := src.Expectations()
	if rich != nil {
		return Result{Err: rich.Message(func(message string, pos int) string {
			return errfmt.Format(message, input, pos)
		})}
	}
	return Result{Err: errfmt.Format(expectedMessage(texts), input, src.FurthestPos())}
}

func expectedMessage(texts []string) string {
	if len(texts) == 0 {
		return "no match"
	}
	return "expected " + oxfordJoin(texts, "or")
}

// oxfordJoin joins expectation texts the way internal/validate joins rule
// names, but with "or" rather than "and": "a", "a or b", "a, b, or c".
func oxfordJoin(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", " + conj + " " + items[len(items)-1]
	}
}
