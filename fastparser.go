// Package fastparser compiles a PEG-like grammar DSL into a matcher graph
// and runs a backtracking engine against input text. It is the public
// facade over internal/dslparser, internal/validate, internal/bind, and
// internal/engine.
package fastparser

import (
	"github.com/rs/zerolog"

	"github.com/john-rochester/fast-parser/internal/bind"
	"github.com/john-rochester/fast-parser/internal/dslparser"
	"github.com/john-rochester/fast-parser/internal/engine"
	"github.com/john-rochester/fast-parser/internal/errfmt"
	"github.com/john-rochester/fast-parser/internal/matcher"
	"github.com/john-rochester/fast-parser/internal/validate"
)

var logger = zerolog.Nop()

// SetLogger overrides the package's logger, disabled by default. The
// compiler logs at debug level; the engine logs the furthest-failure
// position of each failed match at trace level. Logging never affects control flow or returned values.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Token is a matched terminal's text and the byte position it started at.
type Token = matcher.TokenValue

// Replacement transforms a matched sequence's kept item values into the
// value the sequence produces.
type Replacement = matcher.Replacement

// Predicate gates a matched value, returning nil to accept, a string
// naming the expectation on rejection, or a RichFailure.
type Predicate = matcher.Predicate

// RichFailure lets a Predicate render its own diagnostic, short-circuiting
// the furthest failure's ordinary expectation list.
type RichFailure = matcher.RichFailure

// FormatLineFunc is handed to a RichFailure so it can render against the
// grammar's own three-line diagnostic shape.
type FormatLineFunc = matcher.FormatLineFunc

// Actions is the host's function tables, resolved against a grammar's
// named `%replacement` and `:predicate` references. Either map may be nil.
type Actions struct {
	Replacements map[string]Replacement
	Predicates   map[string]Predicate
}

// ConfigError reports a bad grammar or a missing action function — a
// configuration failure the caller cannot meaningfully continue past.
// Returned as an error rather than a panic, since Go surfaces this kind
// of synchronous failure through explicit returns.
type ConfigError struct {
	message string
}

func (e *ConfigError) Error() string { return e.message }

// MatchResult is the outcome of Parser.Match: either a non-nil Result
// with an empty Err, or a nil Result with a non-empty Err.
type MatchResult struct {
	Result any
	Err    string
}

// Parser is a compiled, action-bound grammar ready to match input.
// Concurrent Match/Actions calls on one Parser are not safe.
type Parser struct {
	grammar   *matcher.Grammar
	lastInput string
}

// CreateParser compiles grammarText, validates it, and binds the optional
// Actions table. Passing no Actions is valid for grammars that have no
// `%replacement` and no `:predicate` references.
func CreateParser(grammarText string, actions ...Actions) (*Parser, error) {
	g, err := dslparser.Parse(grammarText)
	if err != nil {
		return nil, &ConfigError{message: err.Error()}
	}
	if err := validate.Validate(g, logger); err != nil {
		return nil, &ConfigError{message: err.Error()}
	}

	p := &Parser{grammar: g}
	var act Actions
	if len(actions) > 0 {
		act = actions[0]
	}
	if err := p.Actions(act); err != nil {
		return nil, err
	}

	logger.Debug().Strs("rules", g.Order).Msg("grammar compiled")
	return p, nil
}

// Actions (re-)binds act against the compiled grammar, mutating each
// sequence's and predicate's function pointers in place. Re-binding
// identical actions produces a parser behaviourally identical to the
// first.
func (p *Parser) Actions(act Actions) error {
	t := bind.Tables{Replacements: act.Replacements, Predicates: act.Predicates}
	if err := bind.Bind(p.grammar, t); err != nil {
		return &ConfigError{message: err.Error()}
	}
	return nil
}

// Match runs the grammar's start rule against input. It is pure in input
// modulo retaining it for a subsequent Error call.
func (p *Parser) Match(input string) *MatchResult {
	p.lastInput = input
	result := engine.Run(p.grammar, input, logger)
	return &MatchResult{Result: result.Value, Err: result.Err}
}

// Error renders message against the byte position pos in the input from
// the most recent Match call, using the same three-line diagnostic shape
// as every parse failure. Useful for a host reporting its own errors
// (e.g. a downstream semantic check) at a position Match already saw.
func (p *Parser) Error(message string, pos int) string {
	return errfmt.Format(message, p.lastInput, pos)
}

// Dump renders the compiled matcher graph as an indented tree, for golden
// tests and debugging.
func (p *Parser) Dump() string {
	return matcher.Dump(p.grammar)
}
