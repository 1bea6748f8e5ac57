// Package lexer tokenises a grammar DSL source string into the token
// stream consumed by internal/dslparser.
package lexer

import (
	"regexp"
	"strings"

	"github.com/john-rochester/fast-parser/internal/errfmt"
	"github.com/john-rochester/fast-parser/internal/token"
)

var (
	reWhitespace = regexp.MustCompile(`^[ \t\r\n\v\f]+`)
	reSymbol     = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*`)
	reDesc       = regexp.MustCompile(`^<[^>]*>`)
)

// punctuation is every character the DSL accepts as a standalone CHAR
// token.
const punctuation = "=.|%!-:*+?()"

// Error is the latched lexing failure. Once set, Next always returns an
// EOF token; the original failure is available via Lexer.Err.
type Error struct {
	Reason string
	Pos    int
}

func (e *Error) Error() string { return e.Reason }

// Lexer scans a grammar source string into tokens, with a LIFO pushback
// stack.
type Lexer struct {
	src     string
	pos     int
	pending []token.Token // LIFO pushback stack
	err     *Error
}

// New creates a Lexer over the given grammar source text.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Err returns the first lexing error encountered, or nil if none has
// occurred yet.
func (l *Lexer) Err() *Error {
	return l.err
}

// Message renders the latched error, if any, through the shared
// three-line error formatter. Returns "" if no error has latched.
func (l *Lexer) Message() string {
	if l.err == nil {
		return ""
	}
	return errfmt.Format(l.err.Reason, l.src, l.err.Pos)
}

// FormatAt renders an arbitrary message against this lexer's source text,
// for callers (internal/dslparser) that detect a syntax error the lexer
// itself never saw, such as a misplaced token.
func (l *Lexer) FormatAt(message string, pos int) string {
	return errfmt.Format(message, l.src, pos)
}

// PushBack stacks a token to be replayed by the next call to Next. The
// parser needs at most two tokens of lookahead (for the whitespace
// preamble), but the stack is unbounded to keep the contract simple.
func (l *Lexer) PushBack(t token.Token) {
	l.pending = append(l.pending, t)
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Token {
	t := l.Next()
	l.PushBack(t)
	return t
}

// Next returns the next token in the stream. Once an error has latched,
// Next always returns an EOF token.
func (l *Lexer) Next() token.Token {
	if n := len(l.pending); n > 0 {
		t := l.pending[n-1]
		l.pending = l.pending[:n-1]
		return t
	}
	if l.err != nil {
		return token.Token{Kind: token.EOF, Pos: len(l.src)}
	}
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: l.pos}
	}
	start := l.pos
	rest := l.src[l.pos:]

	if m := reSymbol.FindString(rest); m != "" {
		l.pos += len(m)
		return token.Token{Kind: token.SYMBOL, Value: m, Pos: start}
	}
	if rest[0] == '\'' {
		return l.scanText(start)
	}
	if rest[0] == '/' {
		return l.scanRegex(start)
	}
	if m := reDesc.FindString(rest); m != "" {
		l.pos += len(m)
		return token.Token{Kind: token.DESCRIPTION, Value: m[1 : len(m)-1], Pos: start}
	}
	if strings.ContainsRune(punctuation, rune(rest[0])) {
		l.pos++
		return token.Token{Kind: token.CHAR, Value: string(rest[0]), Pos: start}
	}
	if rest[0] == '<' {
		l.fail("unterminated description", start)
		return token.Token{Kind: token.EOF, Pos: start}
	}
	l.fail("unexpected character '"+string(rest[0])+"'", start)
	return token.Token{Kind: token.EOF, Pos: start}
}

func (l *Lexer) skipWhitespace() {
	if m := reWhitespace.FindString(l.src[l.pos:]); m != "" {
		l.pos += len(m)
	}
}

// fail latches the first lexer error; subsequent calls are no-ops, since
// only the first error is ever surfaced.
func (l *Lexer) fail(reason string, pos int) {
	if l.err == nil {
		l.err = &Error{Reason: reason, Pos: pos}
	}
}

var textEscapes = map[byte]byte{
	'b': '\b', 'f': '\f', 't': '\t', 'v': '\v', 'r': '\r', 'n': '\n',
}

// scanText reads a single-quoted TEXT literal starting at l.pos, which
// must point at the opening quote.
func (l *Lexer) scanText(start int) token.Token {
	i := l.pos + 1
	var b strings.Builder
	for {
		if i >= len(l.src) {
			l.fail("unterminated text literal", start)
			return token.Token{Kind: token.EOF, Pos: start}
		}
		c := l.src[i]
		if c == '\'' {
			i++
			break
		}
		if c == '\\' && i+1 < len(l.src) {
			next := l.src[i+1]
			if next == '\'' {
				b.WriteByte('\'')
			} else if esc, ok := textEscapes[next]; ok {
				b.WriteByte(esc)
			} else {
				b.WriteByte(next)
			}
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	l.pos = i
	return token.Token{Kind: token.TEXT, Value: b.String(), Pos: start}
}

// scanRegex reads a /.../ delimited REGEX token starting at l.pos, which
// must point at the opening slash. Capturing groups are silently rewritten
// to non-capturing groups, since the engine never needs submatches.
func (l *Lexer) scanRegex(start int) token.Token {
	i := l.pos + 1
	var raw strings.Builder
	for {
		if i >= len(l.src) {
			l.fail("unterminated regex literal", start)
			return token.Token{Kind: token.EOF, Pos: start}
		}
		c := l.src[i]
		if c == '/' {
			i++
			break
		}
		if c == '\\' && i+1 < len(l.src) && l.src[i+1] == '/' {
			raw.WriteByte('/')
			i += 2
			continue
		}
		raw.WriteByte(c)
		i++
	}
	l.pos = i
	pattern := dropCaptures(raw.String())
	return token.Token{Kind: token.REGEX, Value: pattern, Pos: start}
}

// dropCaptures rewrites capturing groups "(" to non-capturing groups "(?:",
// leaving groups that are already non-capturing, character classes, and
// escape sequences untouched.
func dropCaptures(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
		case inClass:
			b.WriteByte(c)
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			b.WriteByte(c)
		case c == '(':
			if i+1 < len(pattern) && pattern[i+1] == '?' {
				b.WriteByte(c)
			} else {
				b.WriteString("(?:")
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
