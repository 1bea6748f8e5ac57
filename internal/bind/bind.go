// Package bind resolves a compiled grammar's named replacement and
// predicate references against a caller-supplied function table (spec.md
// §4.5), assigning the concrete functions each Sequence and Predicate
// node invokes at match time.
package bind

import (
	"fmt"

	"github.com/john-rochester/fast-parser/internal/matcher"
)

// Tables holds the two function tables a host supplies. Either may be
// nil, in which case it behaves as empty.
type Tables struct {
	Replacements map[string]matcher.Replacement
	Predicates   map[string]matcher.Predicate
}

// Error is raised when a grammar references a replacement or predicate
// name absent from the supplied Tables.
type Error struct {
	message string
}

func (e *Error) Error() string { return e.message }

// Bind walks every rule body in g, assigning each Sequence's
// ReplacementFn and each Predicate's PredicateFn. A Sequence with no
// named replacement gets the spec's default: identity-of-first-element
// when it has exactly one kept item, otherwise identity on the full kept
// list. Returns the first missing-function error encountered, if any.
func Bind(g *matcher.Grammar, t Tables) error {
	for _, name := range g.Order {
		r := g.Rules[name]
		if r.Body == nil {
			continue // undefined rule; the validator rejects this separately
		}
		if err := bindNode(r.Body, t); err != nil {
			return err
		}
	}
	return nil
}

func bindNode(n *matcher.Node, t Tables) error {
	switch n.Kind {
	case matcher.KindSequence:
		for _, item := range n.Items {
			if err := bindNode(item.Node, t); err != nil {
				return err
			}
		}
		if n.ReplacementName != "" {
			fn, ok := t.Replacements[n.ReplacementName]
			if !ok {
				return &Error{message: fmt.Sprintf("missing replacement function '%s'", n.ReplacementName)}
			}
			n.ReplacementFn = fn
		} else {
			n.ReplacementFn = defaultReplacement(n)
		}
	case matcher.KindChoice:
		for _, alt := range n.Alternatives {
			if err := bindNode(alt, t); err != nil {
				return err
			}
		}
	case matcher.KindRepeat:
		return bindNode(n.Base, t)
	case matcher.KindPredicate:
		if err := bindNode(n.Base, t); err != nil {
			return err
		}
		fn, ok := t.Predicates[n.PredicateName]
		if !ok {
			return &Error{message: fmt.Sprintf("missing predicate function '%s'", n.PredicateName)}
		}
		n.PredicateFn = fn
	}
	return nil
}

func defaultReplacement(n *matcher.Node) matcher.Replacement {
	kept := 0
	for _, item := range n.Items {
		if item.Keep {
			kept++
		}
	}
	if kept == 1 {
		return identityFirst
	}
	return identityAll
}

func identityFirst(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func identityAll(values []any) any {
	return values
}
