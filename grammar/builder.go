package grammar

import (
	"fmt"

	"github.com/gllparse/gll/token"
)

// Grammar is a named collection of nonterminals: the directed graph of
// nonterminals -> rules -> components the embedder hands to the engine,
// plus its default start symbol (the entry point the engine parses from).
type Grammar struct {
	Name         string
	nonterminals map[string]*NonTerminal
	order        []string
	start        *NonTerminal
}

// NewGrammar creates an empty, named Grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{Name: name, nonterminals: map[string]*NonTerminal{}}
}

// Add registers nt under its own name. The first nonterminal added becomes
// the default start symbol.
func (g *Grammar) Add(nt *NonTerminal) *NonTerminal {
	if _, exists := g.nonterminals[nt.name]; !exists {
		g.order = append(g.order, nt.name)
	}
	g.nonterminals[nt.name] = nt
	if g.start == nil {
		g.start = nt
	}
	return nt
}

// NonTerminal looks up a registered nonterminal by name.
func (g *Grammar) NonTerminal(name string) *NonTerminal { return g.nonterminals[name] }

// SetStart designates the nonterminal used as the default parse entry
// point.
func (g *Grammar) SetStart(nt *NonTerminal) { g.start = nt }

// Start returns the default entry-point nonterminal, if any.
func (g *Grammar) Start() *NonTerminal { return g.start }

// EachNonTerminal visits every registered nonterminal in declaration order.
func (g *Grammar) EachNonTerminal(fn func(*NonTerminal)) {
	for _, name := range g.order {
		fn(g.nonterminals[name])
	}
}

// --- Builder ---------------------------------------------------------------

// Builder assembles a Grammar fluently
// (b.LHS("Sum").N("Sum").T(PLUS).N("Product").End()). Unlike an LR grammar
// builder, slots here carry optional/predicate metadata rather than bare
// terminal values, reflecting the richer Component model below.
type Builder struct {
	g       *Grammar
	err     error
	pending map[string]Flags
}

// NewBuilder starts building a grammar named name.
func NewBuilder(name string) *Builder {
	return &Builder{g: NewGrammar(name), pending: map[string]Flags{}}
}

// Flags sets display/recursion flags for a (possibly not-yet-declared)
// nonterminal name, applied when it is first created (by LHS, N or OptN,
// whichever names it first).
func (b *Builder) Flags(name string, flags Flags) *Builder {
	b.pending[name] = flags
	return b
}

func (b *Builder) nonTerminal(name string) *NonTerminal {
	if nt := b.g.NonTerminal(name); nt != nil {
		return nt
	}
	nt := NewNonTerminal(name, b.pending[name])
	b.g.Add(nt)
	return nt
}

// LHS begins a new rule for the nonterminal named name, creating it if this
// is its first mention.
func (b *Builder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{b: b, nt: b.nonTerminal(name)}
}

// Grammar finalizes and returns the built Grammar, or the first error
// encountered while building it.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.g, nil
}

// RuleBuilder accumulates the components of one rule for a NonTerminal.
type RuleBuilder struct {
	b     *Builder
	nt    *NonTerminal
	comps []Component
	pred  Predicate
}

// T appends a terminal component matching kind.
func (rb *RuleBuilder) T(kind token.Kind) *RuleBuilder {
	rb.comps = append(rb.comps, T(kind))
	return rb
}

// OptT appends an optional terminal component.
func (rb *RuleBuilder) OptT(kind token.Kind) *RuleBuilder {
	rb.comps = append(rb.comps, Opt(T(kind)))
	return rb
}

// N appends a nonterminal component referencing the (possibly forward-
// declared) nonterminal named name.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.comps = append(rb.comps, N(rb.b.nonTerminal(name)))
	return rb
}

// OptN appends an optional nonterminal component.
func (rb *RuleBuilder) OptN(name string) *RuleBuilder {
	rb.comps = append(rb.comps, Opt(N(rb.b.nonTerminal(name))))
	return rb
}

// Pred appends a bare-predicate component.
func (rb *RuleBuilder) Pred(p Predicate) *RuleBuilder {
	rb.comps = append(rb.comps, Pred(p))
	return rb
}

// If attaches a guard predicate to the most recently appended component.
func (rb *RuleBuilder) If(p Predicate) *RuleBuilder {
	if len(rb.comps) == 0 {
		rb.b.err = fmt.Errorf("grammar: If() with no preceding component in rule for %q", rb.nt.Name())
		return rb
	}
	rb.comps[len(rb.comps)-1] = WithPredicate(rb.comps[len(rb.comps)-1], p)
	return rb
}

// End finalizes the rule and appends it to its nonterminal.
func (rb *RuleBuilder) End() *Builder {
	rb.nt.AddRules(NewRule(rb.comps...))
	return rb.b
}

// Epsilon finalizes an empty rule (always matches zero tokens).
func (rb *RuleBuilder) Epsilon() *Builder {
	rb.nt.AddRules(NewRule())
	return rb.b
}

// PreParse registers a pre-parse action on rb's nonterminal.
func (rb *RuleBuilder) PreParse(a Action) *RuleBuilder {
	rb.nt.AddPreParseAction(a)
	return rb
}

// PostParse registers a post-parse action on rb's nonterminal.
func (rb *RuleBuilder) PostParse(a Action) *RuleBuilder {
	rb.nt.AddPostParseAction(a)
	return rb
}
