package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/gllparse/gll/token"
)

// KindNamer renders a terminal kind as a human-readable name, e.g. for
// diagnostics and Dump output. Embedders normally supply their lexer's
// token-kind Stringer here.
type KindNamer func(token.Kind) string

// Dump writes a human-readable rendering of g to out: one block per nonterminal,
// its rules, then its first-set (or "initial terminals undetermined" if empty).
func (g *Grammar) Dump(out io.Writer, names KindNamer) {
	g.EachNonTerminal(func(nt *NonTerminal) {
		nt.Dump(out, names)
	})
}

// Dump writes a rendering of n to out.
func (n *NonTerminal) Dump(out io.Writer, names KindNamer) {
	fmt.Fprintf(out, "%s:\n", n.name)
	for _, r := range n.rules {
		fmt.Fprintf(out, "    ")
		r.dumpTo(out, names)
		fmt.Fprintln(out)
	}
	fs := n.FirstSet()
	if fs.Empty() {
		fmt.Fprintln(out, "    initial terminals undetermined")
		return
	}
	fmt.Fprintln(out, "    initial terminals:")
	for _, k := range fs.Keys() {
		fmt.Fprintf(out, "        %s -> rules %v\n", token.KindName(k, names), fs.byKind[k].All())
	}
}

func (r *Rule) dumpTo(out io.Writer, names KindNamer) {
	if r.IsEmpty() {
		fmt.Fprint(out, "<empty>")
	}
	for i := range r.components {
		r.components[i].dumpTo(out, names)
		fmt.Fprint(out, " ")
	}
	fmt.Fprintf(out, "[sz=%d;lr=%t;r=%t;d=%t]", r.Len(), r.IsLeftRecursive(), r.IsRecursive(), r.IsDelegate())
}

func (c *Component) dumpTo(out io.Writer, names KindNamer) {
	switch {
	case c.predicate != nil && c.isTerminal && c.terminal == token.KindNull:
		fmt.Fprint(out, "{pred}")
	case c.isTerminal:
		fmt.Fprint(out, token.KindName(c.terminal, names))
	default:
		fmt.Fprint(out, c.nonterminal.Name())
	}
	if c.optional {
		fmt.Fprint(out, "?")
	}
}

// String renders r for debugging/trace output.
func (r *Rule) String() string {
	names := func(k token.Kind) string { return fmt.Sprintf("tok(%d)", uint16(k)) }
	var b strings.Builder
	r.dumpTo(&b, names)
	return b.String()
}
