/*
Package grammar implements the static description of a language: components
(terminal/nonterminal slots), rules (ordered sequences of components) and
nonterminals (named sets of rules), together with the derived first-set,
matches-empty and LL(1) analysis the engine uses to prune its parse.

Grammars are built with a Builder in a fluent style:

	b := grammar.NewBuilder("Expressions")
	b.LHS("Sum").N("Sum").T(PLUS).N("Product").End()
	b.LHS("Sum").N("Product").End()
	g, err := b.Grammar()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/token"
)

// tracer traces with key 'gll.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gll.grammar")
}

// State is the read-only view of engine state visible to grammar callbacks
// (predicates, pre-/post-parse actions). The engine's ParseState satisfies
// this interface; grammar never imports the engine package, breaking what would
// otherwise be a cyclic dependency.
type State interface {
	// Current returns the token the engine is currently positioned at.
	Current() *token.Token
	// Depth returns the current GSS recursion depth.
	Depth() int
}

// Predicate guards a Component; it is consulted before the component is
// matched and must be side-effect-free (or commutative) since the engine's
// worklist order is only partially deterministic under ambiguity.
type Predicate func(State) bool

// Action runs before a candidate rule is accepted (pre-parse) or after a
// rule completes (post-parse). Returning false rejects the rule/parse.
type Action func(State) bool

// --- Component -----------------------------------------------------------

// Component is one slot of a Rule: either a terminal, a nonterminal
// reference, or a bare predicate. Components are immutable once a Rule has
// been built.
type Component struct {
	terminal    token.Kind
	nonterminal *NonTerminal
	isTerminal  bool
	optional    bool
	predicate   Predicate

	rule  *Rule
	index int
}

// T creates a terminal Component matching kind.
func T(kind token.Kind) Component {
	return Component{terminal: kind, isTerminal: true}
}

// N creates a nonterminal Component referencing nt.
func N(nt *NonTerminal) Component {
	return Component{nonterminal: nt}
}

// Pred creates a bare-predicate Component (TOK_NULL with a predicate
// attached): the engine lets it match any single token, subject to the
// predicate; it yields no first-set contribution, so a rule starting with
// it is left out of prediction.
func Pred(p Predicate) Component {
	return Component{isTerminal: true, predicate: p}
}

// Opt marks c optional: a mismatch folds in an empty SPPF node instead of
// failing the rule.
func Opt(c Component) Component {
	c.optional = true
	return c
}

// WithPredicate attaches a guard predicate to c; a false result ends the
// rule with PredicateFailed when c is not optional.
func WithPredicate(c Component, p Predicate) Component {
	c.predicate = p
	return c
}

// IsTerminal reports whether c is a terminal slot (including a bare
// predicate, which uses token.KindNull as its terminal value).
func (c *Component) IsTerminal() bool { return c.isTerminal }

// IsNonTerminal reports whether c references a nonterminal.
func (c *Component) IsNonTerminal() bool { return !c.isTerminal }

// IsOptional reports whether a mismatch on c is tolerated.
func (c *Component) IsOptional() bool { return c.optional }

// Predicate returns c's guard, or nil.
func (c *Component) Predicate() Predicate { return c.predicate }

// Terminal returns c's terminal kind, or token.KindNull if c is a
// nonterminal.
func (c *Component) Terminal() token.Kind {
	if c.isTerminal {
		return c.terminal
	}
	return token.KindNull
}

// NonTerminal returns the nonterminal c refers to, or nil if c is a
// terminal.
func (c *Component) NonTerminal() *NonTerminal {
	if c.isTerminal {
		return nil
	}
	return c.nonterminal
}

// Rule returns the rule c belongs to.
func (c *Component) Rule() *Rule { return c.rule }

// Index returns c's position within its owning rule.
func (c *Component) Index() int { return c.index }

// IsRecursive reports whether c refers back to its own rule's nonterminal.
func (c *Component) IsRecursive() bool {
	return !c.isTerminal && c.rule != nil && c.nonterminal == c.rule.nonterminal
}

// --- Rule ------------------------------------------------------------

// Rule is an ordered sequence of components. A Rule with zero components
// matches only the empty string.
type Rule struct {
	components  []Component
	nonterminal *NonTerminal
	enabled     bool
	index       int
}

// NewRule builds an enabled Rule from comps; use Builder for fluent
// construction, or this directly when building rule lists programmatically.
func NewRule(comps ...Component) *Rule {
	r := &Rule{components: comps, enabled: true}
	r.rebind()
	return r
}

// Disable marks r as disabled: skipped during analysis and parsing.
func (r *Rule) Disable() { r.enabled = false }

// Enable re-enables a previously disabled rule.
func (r *Rule) Enable() { r.enabled = true }

func (r *Rule) rebind() {
	for i := range r.components {
		r.components[i].rule = r
		r.components[i].index = i
	}
}

// NonTerminal returns the nonterminal that owns r.
func (r *Rule) NonTerminal() *NonTerminal { return r.nonterminal }

// Index returns r's position within its owning nonterminal's rule list.
func (r *Rule) Index() int { return r.index }

// IsEnabled reports whether r participates in analysis and parsing.
func (r *Rule) IsEnabled() bool { return r.enabled }

// Len returns the number of components in r.
func (r *Rule) Len() int { return len(r.components) }

// Component returns the i-th component of r; i == r.Len() denotes the
// end-of-rule sentinel slot (see Slot).
func (r *Rule) Component(i int) *Component {
	if i < 0 || i >= len(r.components) {
		return nil
	}
	return &r.components[i]
}

// Components returns r's components in order.
func (r *Rule) Components() []Component { return r.components }

// IsEmpty reports whether r has zero components (always matches empty).
func (r *Rule) IsEmpty() bool { return len(r.components) == 0 }

// IsLeftRecursive reports whether r's first component refers back to r's own
// nonterminal.
func (r *Rule) IsLeftRecursive() bool {
	if r.IsEmpty() {
		return false
	}
	return r.components[0].NonTerminal() == r.nonterminal
}

// IsRecursive reports whether any component of r refers back to r's own
// nonterminal.
func (r *Rule) IsRecursive() bool {
	for i := range r.components {
		if r.components[i].NonTerminal() == r.nonterminal {
			return true
		}
	}
	return false
}

// IsDelegate reports whether r consists of exactly one nonterminal
// component ("N := M").
func (r *Rule) IsDelegate() bool {
	return len(r.components) == 1 && r.components[0].IsNonTerminal()
}

// MustHide reports whether a parsed node for r should be replaced by its
// single child per the delegate/transparent hiding rule.
func (r *Rule) MustHide() bool {
	if r.nonterminal == nil {
		return false
	}
	return r.nonterminal.IsTransparent() ||
		(r.IsDelegate() && r.nonterminal.HideIfDelegate())
}

// MatchesEmpty reports whether r can match zero tokens, without regard to
// whether other rules of the same nonterminal do.
func (r *Rule) MatchesEmpty() bool {
	for i := range r.components {
		c := &r.components[i]
		if c.optional {
			continue
		}
		if c.isTerminal {
			return false
		}
		if nt := c.NonTerminal(); nt != nil && !nt.MatchesEmpty() {
			return false
		}
	}
	return true
}

// Slot identifies one component position within one rule: a "grammar slot"
// in a rule. Pos == Rule.Len() denotes the end-of-rule sentinel,
// i.e. the point at which the rule has completed. Slot replaces the
// original's pointer-into-vector identity scheme with an (address,index)
// pair, which remains stable across any growth of the rule's component
// slice.
type Slot struct {
	Rule *Rule
	Pos  int
}

// AtEnd reports whether s is the end-of-rule sentinel.
func (s Slot) AtEnd() bool { return s.Pos >= s.Rule.Len() }

// Component returns the component at s, or nil at the end sentinel.
func (s Slot) Component() *Component { return s.Rule.Component(s.Pos) }

// Advance returns the slot one position further into the same rule.
func (s Slot) Advance() Slot { return Slot{Rule: s.Rule, Pos: s.Pos + 1} }

// IsLast reports whether s refers to the final component of its rule (i.e.
// advancing it reaches the end sentinel).
func (s Slot) IsLast() bool { return s.Pos == s.Rule.Len()-1 }
