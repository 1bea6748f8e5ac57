package matcher

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders every rule in g as an indented tree of its matcher graph,
// for golden tests and debugging. Rules are listed in first-reference
// order so output is deterministic.
func Dump(g *Grammar) string {
	var b strings.Builder
	for _, name := range g.Order {
		r := g.Rules[name]
		op := "="
		if !r.SkipWhitespace {
			op = ".="
		}
		fmt.Fprintf(&b, "%s %s\n", name, op)
		if r.Body == nil {
			b.WriteString("  <undefined>\n")
			continue
		}
		dumpNode(&b, r.Body, 1)
	}
	return b.String()
}

func dumpNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case KindText:
		fmt.Fprintf(b, "%stext %q\n", indent, n.Literal)
	case KindRegex:
		fmt.Fprintf(b, "%sregex /%s/\n", indent, n.RegexSrc)
	case KindSymbol:
		fmt.Fprintf(b, "%ssymbol %s\n", indent, n.Rule.Name)
	case KindSequence:
		name := n.ReplacementName
		if name == "" {
			name = "<default>"
		}
		fmt.Fprintf(b, "%ssequence %%%s\n", indent, name)
		for _, item := range n.Items {
			mark := " "
			if !item.Keep {
				mark = "-"
			}
			fmt.Fprintf(b, "%s %s\n", indent, mark)
			dumpNode(b, item.Node, depth+1)
		}
	case KindChoice:
		fmt.Fprintf(b, "%schoice\n", indent)
		for _, alt := range n.Alternatives {
			dumpNode(b, alt, depth+1)
		}
	case KindRepeat:
		sym := repeatSymbol(n)
		fmt.Fprintf(b, "%srepeat %s\n", indent, sym)
		dumpNode(b, n.Base, depth+1)
	case KindPredicate:
		fmt.Fprintf(b, "%spredicate :%s\n", indent, n.PredicateName)
		dumpNode(b, n.Base, depth+1)
	}
}

func repeatSymbol(n *Node) string {
	switch {
	case n.ZeroOK && n.MultipleOK:
		return "*"
	case !n.ZeroOK && n.MultipleOK:
		return "+"
	default:
		return "?"
	}
}

// RuleNames returns every defined rule's name in g, sorted, for use in
// "did you mean" suggestions. A rule that was only referenced (never
// given a body) is excluded — suggesting one undefined name in place of
// another would not help the caller.
func RuleNames(g *Grammar) []string {
	names := make([]string, 0, len(g.Rules))
	for name, r := range g.Rules {
		if r.Defined() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
