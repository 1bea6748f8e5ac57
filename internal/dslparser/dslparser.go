// Package dslparser is a straight recursive-descent parser over the
// grammar DSL's token stream (spec.md §4.2), building a *matcher.Grammar.
// One function per production, no precedence climbing: the DSL's matcher
// production has no infix operators, so nothing here needs it.
package dslparser

import (
	"errors"

	"github.com/john-rochester/fast-parser/internal/lexer"
	"github.com/john-rochester/fast-parser/internal/matcher"
	"github.com/john-rochester/fast-parser/internal/token"
)

type parser struct {
	lex *lexer.Lexer
	g   *matcher.Grammar
}

// Parse compiles grammar source text into a Grammar. It does not run the
// validator; callers pass the result to internal/validate before use.
func Parse(src string) (*matcher.Grammar, error) {
	p := &parser{lex: lexer.New(src), g: matcher.NewGrammar()}

	if err := p.parsePreamble(); err != nil {
		return nil, err
	}

	ruleCount := 0
	for {
		if p.lex.Peek().Kind == token.EOF {
			break
		}
		if err := p.parseRule(); err != nil {
			return nil, err
		}
		ruleCount++
	}
	if err := p.lexError(); err != nil {
		return nil, err
	}
	if ruleCount == 0 {
		return nil, p.fail("empty grammar", 0)
	}
	return p.g, nil
}

// parsePreamble consumes an optional leading `'whitespace' REGEX`
// declaration. Lexically "whitespace" is just a SYMBOL token, so this
// needs two tokens of lookahead to tell a genuine preamble from a rule
// that happens to be named "whitespace".
func (p *parser) parsePreamble() error {
	first := p.lex.Next()
	if first.Kind != token.SYMBOL || first.Value != "whitespace" {
		p.lex.PushBack(first)
		return nil
	}
	second := p.lex.Next()
	if second.Kind != token.REGEX {
		p.lex.PushBack(second)
		p.lex.PushBack(first)
		return nil
	}
	if err := p.g.SetWhitespace(second.Value); err != nil {
		return p.fail("invalid whitespace regex: "+err.Error(), second.Pos)
	}
	return nil
}

func (p *parser) parseRule() error {
	head := p.lex.Next()
	if head.Kind != token.SYMBOL {
		if err := p.lexError(); err != nil {
			return err
		}
		return p.fail("expected rule name", head.Pos)
	}
	rule := p.g.Rule(head.Value)

	if desc := p.lex.Peek(); desc.Kind == token.DESCRIPTION {
		p.lex.Next()
		rule.Description = desc.Value
	}

	skipWhitespace := true
	if dot := p.lex.Peek(); dot.Kind == token.CHAR && dot.Value == "." {
		p.lex.Next()
		skipWhitespace = false
	}

	eq := p.lex.Next()
	if eq.Kind != token.CHAR || eq.Value != "=" {
		if err := p.lexError(); err != nil {
			return err
		}
		return p.fail("expected '='", eq.Pos)
	}

	body, err := p.parseChoice(skipWhitespace)
	if err != nil {
		return err
	}
	rule.SkipWhitespace = skipWhitespace
	rule.Body = body
	return nil
}

func (p *parser) parseChoice(skipWS bool) (*matcher.Node, error) {
	first, err := p.parseSequence(skipWS)
	if err != nil {
		return nil, err
	}
	alternatives := []*matcher.Node{first}
	for {
		bar := p.lex.Peek()
		if bar.Kind != token.CHAR || bar.Value != "|" {
			break
		}
		p.lex.Next()
		seq, err := p.parseSequence(skipWS)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, seq)
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return matcher.NewChoice(alternatives), nil
}

func (p *parser) parseSequence(skipWS bool) (*matcher.Node, error) {
	var items []matcher.Item
	for isMatcherStart(p.lex.Peek()) {
		item, err := p.parseItem(skipWS)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		next := p.lex.Peek()
		if err := p.lexError(); err != nil {
			return nil, err
		}
		return nil, p.fail("empty sequence", next.Pos)
	}

	replacementName := ""
	if pct := p.lex.Peek(); pct.Kind == token.CHAR && pct.Value == "%" {
		p.lex.Next()
		sym := p.lex.Next()
		if sym.Kind != token.SYMBOL {
			if err := p.lexError(); err != nil {
				return nil, err
			}
			return nil, p.fail("expected symbol after '%'", sym.Pos)
		}
		replacementName = sym.Value
	}
	return matcher.NewSequence(items, replacementName), nil
}

func (p *parser) parseItem(skipWS bool) (matcher.Item, error) {
	prefix := ""
	if t := p.lex.Peek(); t.Kind == token.CHAR && (t.Value == "!" || t.Value == "-") {
		p.lex.Next()
		prefix = t.Value
	}

	base, err := p.parseMatcher(skipWS)
	if err != nil {
		return matcher.Item{}, err
	}
	node := base

	switch t := p.lex.Peek(); {
	case t.Kind == token.CHAR && t.Value == "*":
		p.lex.Next()
		node = matcher.NewRepeat(node, true, true)
	case t.Kind == token.CHAR && t.Value == "+":
		p.lex.Next()
		node = matcher.NewRepeat(node, false, true)
	case t.Kind == token.CHAR && t.Value == "?":
		p.lex.Next()
		node = matcher.NewRepeat(node, true, false)
	}

	if colon := p.lex.Peek(); colon.Kind == token.CHAR && colon.Value == ":" {
		p.lex.Next()
		sym := p.lex.Next()
		if sym.Kind != token.SYMBOL {
			if err := p.lexError(); err != nil {
				return matcher.Item{}, err
			}
			return matcher.Item{}, p.fail("expected symbol after ':'", sym.Pos)
		}
		node = matcher.NewPredicate(node, sym.Value)
	}

	var keep bool
	switch prefix {
	case "!":
		keep = true
	case "-":
		keep = false
	default:
		keep = matcher.DefaultKeep(base)
	}
	return matcher.Item{Node: node, Keep: keep}, nil
}

func (p *parser) parseMatcher(skipWS bool) (*matcher.Node, error) {
	t := p.lex.Next()
	switch {
	case t.Kind == token.TEXT:
		return matcher.NewText(t.Value, skipWS), nil
	case t.Kind == token.REGEX:
		node, err := matcher.NewRegex(t.Value, skipWS)
		if err != nil {
			return nil, p.fail("invalid regex: "+err.Error(), t.Pos)
		}
		return node, nil
	case t.Kind == token.SYMBOL:
		return p.g.Rule(t.Value).SymbolNode, nil
	case t.Kind == token.CHAR && t.Value == "(":
		inner, err := p.parseChoice(skipWS)
		if err != nil {
			return nil, err
		}
		closeParen := p.lex.Next()
		if closeParen.Kind != token.CHAR || closeParen.Value != ")" {
			if err := p.lexError(); err != nil {
				return nil, err
			}
			return nil, p.fail("mismatched ')'", closeParen.Pos)
		}
		return inner, nil
	default:
		if err := p.lexError(); err != nil {
			return nil, err
		}
		return nil, p.fail("expected a matcher", t.Pos)
	}
}

// isMatcherStart reports whether t could begin an item: a bare matcher,
// or a '!'/'-' keep-prefix ahead of one.
func isMatcherStart(t token.Token) bool {
	switch t.Kind {
	case token.TEXT, token.REGEX, token.SYMBOL:
		return true
	case token.CHAR:
		switch t.Value {
		case "(", "!", "-":
			return true
		}
	}
	return false
}

func (p *parser) lexError() error {
	if err := p.lex.Err(); err != nil {
		return errors.New(p.lex.Message())
	}
	return nil
}

func (p *parser) fail(reason string, pos int) error {
	return errors.New(p.lex.FormatAt(reason, pos))
}
