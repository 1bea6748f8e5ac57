// Package validate runs the static checks spec.md requires before a
// compiled grammar is ever matched against input: undefined symbols,
// nullability (computed to a fixpoint and needed by the later checks),
// left recursion, and wildcards over nullable bases.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/john-rochester/fast-parser/internal/errfmt"
	"github.com/john-rochester/fast-parser/internal/matcher"
	"github.com/rs/zerolog"
)

// Error is returned by Validate; its message is the single diagnostic
// string spec.md requires.
type Error struct {
	message string
}

func (e *Error) Error() string { return e.message }

// Diagnostic is one problem found by Diagnostics: the rule(s) it implicates,
// a short category slug, and the human-readable message Validate would fold
// into its single string. Exposed for tooling (e.g. an editor integration)
// that wants per-problem detail instead of one flattened diagnostic.
type Diagnostic struct {
	Rules    []string
	Category string
	Message  string
}

// Validate runs the four checks in order, short-circuiting on the first
// that finds a problem (later checks assume the grammar is fully defined
// and its nullability has converged). It returns nil if the grammar is
// well formed.
func Validate(g *matcher.Grammar, log zerolog.Logger) error {
	diags := Diagnostics(g, log)
	if len(diags) == 0 {
		return nil
	}
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return &Error{message: joinMultiple(msgs)}
}

// Diagnostics runs the same four checks as Validate but returns every
// problem found at the first failing stage as a typed Diagnostic slice,
// instead of flattening them into one string. Checks still short-circuit
// by stage (left recursion and wildcard-over-nullable both assume every
// rule is defined and nullability has converged), but every independent
// problem within a stage is reported together.
func Diagnostics(g *matcher.Grammar, log zerolog.Logger) []Diagnostic {
	if undefined := g.UndefinedRules(); len(undefined) > 0 {
		log.Debug().Strs("rules", undefined).Msg("undefined symbols")
		msg := "undefined rule" + plural(len(undefined)) + ": " + oxfordJoin(undefined, "and")
		if hint := suggestionHint(g, undefined); hint != "" {
			msg += "; " + hint
		}
		return []Diagnostic{{Rules: undefined, Category: "undefined", Message: msg}}
	}

	ns := computeNullability(g)
	log.Debug().Msg("nullability fixpoint converged")

	if cycles := detectLeftRecursion(g, ns); len(cycles) > 0 {
		diags := make([]Diagnostic, len(cycles))
		for i, c := range cycles {
			diags[i] = Diagnostic{
				Rules:    c,
				Category: "left-recursion",
				Message:  "left recursion in rule" + plural(len(c)) + " " + oxfordJoin(c, "and"),
			}
		}
		return diags
	}

	if bad := wildcardOverNullable(g, ns); len(bad) > 0 {
		return []Diagnostic{{
			Rules:    bad,
			Category: "wildcard-over-nullable",
			Message:  "wildcard over nullable matcher in rule" + plural(len(bad)) + " " + oxfordJoin(bad, "and"),
		}}
	}

	return nil
}

// computeNullability iterates Nullable over every rule until no rule's
// state changes, then conservatively resolves any rule still Unknown
// (only possible for a cycle whose base case never decides it) to Yes,
// exactly as spec.md §4.4 directs.
func computeNullability(g *matcher.Grammar) *matcher.NullState {
	ns := matcher.NewNullState(g)
	for {
		progress := false
		for _, name := range g.Order {
			r := g.Rules[name]
			if ns.Of(r) != matcher.Unknown {
				continue
			}
			if n := matcher.Nullable(r.Body, ns); n != matcher.Unknown {
				ns.Set(r, n)
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	for _, name := range g.Order {
		r := g.Rules[name]
		if ns.Of(r) == matcher.Unknown {
			ns.Set(r, matcher.Yes)
		}
	}
	return ns
}

// detectLeftRecursion walks every rule's leftmost-reachable rules looking
// for a cycle, using the classic white/gray/black DFS coloring. Each
// cycle found is reported as the set of rules on the DFS stack at the
// moment the cycle closed.
func detectLeftRecursion(g *matcher.Grammar, ns *matcher.NullState) [][]string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[*matcher.Rule]int{}
	var stack []*matcher.Rule
	var cycles [][]string
	seen := map[string]bool{}

	var dfs func(r *matcher.Rule)
	dfs = func(r *matcher.Rule) {
		color[r] = gray
		stack = append(stack, r)
		if r.Body != nil {
			for _, next := range matcher.LeftEdges(r.Body, ns) {
				switch color[next] {
				case white:
					dfs(next)
				case gray:
					idx := 0
					for i, s := range stack {
						if s == next {
							idx = i
							break
						}
					}
					cycle := ruleNames(stack[idx:])
					key := strings.Join(sortedCopy(cycle), "\x00")
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				case black:
					// already fully explored with no cycle back here
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[r] = black
	}

	for _, name := range g.Order {
		r := g.Rules[name]
		if color[r] == white {
			dfs(r)
		}
	}
	return cycles
}

func wildcardOverNullable(g *matcher.Grammar, ns *matcher.NullState) []string {
	var names []string
	for _, name := range g.Order {
		r := g.Rules[name]
		if r.Body != nil && matcher.HasNullableRepeat(r.Body, ns) {
			names = append(names, name)
		}
	}
	return names
}

// suggestionHint offers "did you mean" corrections for undefined rule names
// against the grammar's defined rules, using internal/errfmt's edit-distance
// search. Returns "" when nothing is close enough to suggest.
func suggestionHint(g *matcher.Grammar, undefined []string) string {
	defined := matcher.RuleNames(g)
	var hints []string
	for _, name := range undefined {
		if matches := errfmt.Suggest(name, defined); len(matches) > 0 {
			hints = append(hints, fmt.Sprintf("did you mean %s for %q?", oxfordJoin(quoteAll(matches), "or"), name))
		}
	}
	return strings.Join(hints, "; ")
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strconv.Quote(n)
	}
	return out
}

func ruleNames(rules []*matcher.Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// oxfordJoin joins names with commas and "<conj> " before the last item:
// "a", "a and b", "a, b, and c".
func oxfordJoin(names []string, conj string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + conj + " " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", " + conj + " " + names[len(names)-1]
	}
}

// joinMultiple flattens per-category messages collected via multierror
// into spec.md's single diagnostic string.
func joinMultiple(msgs []string) string {
	if len(msgs) == 1 {
		return msgs[0]
	}
	merr := &multierror.Error{}
	for _, m := range msgs {
		merr = multierror.Append(merr, fmt.Errorf("%s", m))
	}
	var b strings.Builder
	for i, e := range merr.Errors {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
