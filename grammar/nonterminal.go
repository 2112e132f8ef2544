package grammar

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"golang.org/x/exp/slices"

	"github.com/gllparse/gll/token"
)

// Flags configure display/recursion behaviour of a NonTerminal.
type Flags uint

const (
	// Transparent nonterminals are always hidden from the SPPF: any node
	// labelled by one is replaced by its sole packed child's symbol child.
	Transparent Flags = 1 << iota
	// HideIfDelegate hides a node only when the matching rule is a single
	// -nonterminal delegation ("N := M").
	HideIfDelegate
	// KeepRecursion preserves self-recursive SPPF children rather than
	// flattening them into a single sequence.
	KeepRecursion
)

// RuleIndices is the ordered list of rule indices recorded for one first-set
// terminal key. Backed by arraylist so that appends (including the
// left-recursion broadcast, see analyze.go) preserve encounter order —
// §4.1's "Tie-breaks" require this.
type RuleIndices struct {
	list *arraylist.List
}

func newRuleIndices() *RuleIndices {
	return &RuleIndices{list: arraylist.New()}
}

// Len returns the number of rule indices recorded.
func (ri *RuleIndices) Len() int {
	if ri == nil {
		return 0
	}
	return ri.list.Size()
}

// At returns the i-th recorded rule index.
func (ri *RuleIndices) At(i int) int {
	v, _ := ri.list.Get(i)
	return v.(int)
}

// All returns the recorded rule indices as a slice, in order.
func (ri *RuleIndices) All() []int {
	if ri == nil {
		return nil
	}
	out := make([]int, ri.list.Size())
	for i, v := range ri.list.Values() {
		out[i] = v.(int)
	}
	return out
}

func (ri *RuleIndices) push(idx int) { ri.list.Add(idx) }

func (ri *RuleIndices) pushAll(idxs []int) {
	for _, idx := range idxs {
		ri.list.Add(idx)
	}
}

// FirstSet maps terminal kinds that may legally begin a derivation of a
// nonterminal to the rule indices that can begin with that terminal.
// token.KindNull is used as a key meaning "this rule may match empty".
// An empty FirstSet means "no useful prediction, try every rule".
type FirstSet struct {
	byKind map[token.Kind]*RuleIndices
	order  []token.Kind
}

func newFirstSet() *FirstSet {
	return &FirstSet{byKind: map[token.Kind]*RuleIndices{}}
}

// Empty reports whether the set carries no predictions at all.
func (f *FirstSet) Empty() bool { return f == nil || len(f.byKind) == 0 }

// Lookup returns the rule indices recorded for kind, if any.
func (f *FirstSet) Lookup(kind token.Kind) (*RuleIndices, bool) {
	if f == nil {
		return nil, false
	}
	ri, ok := f.byKind[kind]
	return ri, ok
}

// Keys returns the terminal kinds carried by the set, sorted ascending for
// deterministic diagnostic rendering (the original's std::map<TokenKind,...>
// iterates in this order natively; Go map iteration does not, so we sort
// explicitly here).
func (f *FirstSet) Keys() []token.Kind {
	if f == nil {
		return nil
	}
	out := append([]token.Kind(nil), f.order...)
	slices.Sort(out)
	return out
}

func (f *FirstSet) entry(kind token.Kind) *RuleIndices {
	ri, ok := f.byKind[kind]
	if !ok {
		ri = newRuleIndices()
		f.byKind[kind] = ri
		f.order = append(f.order, kind)
	}
	return ri
}

func (f *FirstSet) clear() {
	f.byKind = map[token.Kind]*RuleIndices{}
	f.order = nil
}

// --- NonTerminal -----------------------------------------------------------

// NonTerminal is a named ordered set of rules, plus display flags,
// pre-/post-parse action lists and the lazily computed first-set /
// matches-empty / LL(1) analysis.
//
// Rules are held as pointers so that appending further rules never
// invalidates a Slot captured from an earlier Rule.
type NonTerminal struct {
	name  string
	rules []*Rule
	flags Flags

	preParse  []Action
	postParse []Action

	analyzed     bool
	first        *FirstSet
	isLL1        bool
	matchesEmpty bool
}

// NewNonTerminal creates a nonterminal named name with the given rules and
// flags. Each rule is bound to this nonterminal and assigned its index.
func NewNonTerminal(name string, flags Flags, rules ...*Rule) *NonTerminal {
	nt := &NonTerminal{name: name, flags: flags}
	nt.AddRules(rules...)
	return nt
}

// Name returns the nonterminal's grammar name.
func (n *NonTerminal) Name() string { return n.name }

// IsTransparent reports the Transparent flag.
func (n *NonTerminal) IsTransparent() bool { return n.flags&Transparent != 0 }

// HideIfDelegate reports the HideIfDelegate flag.
func (n *NonTerminal) HideIfDelegate() bool { return n.flags&HideIfDelegate != 0 }

// KeepRecursion reports the KeepRecursion flag.
func (n *NonTerminal) KeepRecursion() bool { return n.flags&KeepRecursion != 0 }

// Rules returns n's rules in declaration order.
func (n *NonTerminal) Rules() []*Rule { return n.rules }

// Rule returns the i-th rule, or nil if out of range.
func (n *NonTerminal) Rule(i int) *Rule {
	if i < 0 || i >= len(n.rules) {
		return nil
	}
	return n.rules[i]
}

// Len returns the number of rules.
func (n *NonTerminal) Len() int { return len(n.rules) }

// AddRules appends rules to n, binding each to n and to its index, and
// invalidates the memoized analysis, since adding a rule can change every
// derived property.
func (n *NonTerminal) AddRules(rules ...*Rule) {
	for _, r := range rules {
		if r == nil {
			continue
		}
		r.nonterminal = n
		r.index = len(n.rules)
		n.rules = append(n.rules, r)
	}
	n.invalidate()
}

func (n *NonTerminal) invalidate() {
	n.analyzed = false
	n.first = nil
}

// AddPreParseAction registers a pre-parse guard, appended after any already
// registered.
func (n *NonTerminal) AddPreParseAction(a Action) { n.preParse = append(n.preParse, a) }

// AddPostParseAction registers a post-parse guard, prepended before any
// already registered.
func (n *NonTerminal) AddPostParseAction(a Action) {
	n.postParse = append([]Action{a}, n.postParse...)
}

// InvokePreParseActions runs every registered pre-parse action; the rule is
// skipped if any returns false.
func (n *NonTerminal) InvokePreParseActions(st State) bool {
	ok := true
	for _, a := range n.preParse {
		ok = a(st) && ok
	}
	return ok
}

// InvokePostParseActions runs every registered post-parse action.
func (n *NonTerminal) InvokePostParseActions(st State) bool {
	ok := true
	for _, a := range n.postParse {
		ok = a(st) && ok
	}
	return ok
}

// ensureAnalyzed lazily runs the first-set/matches-empty/LL(1) analysis.
func (n *NonTerminal) ensureAnalyzed() {
	if n.analyzed {
		return
	}
	n.analyze(map[*NonTerminal]bool{})
}

// FirstSet returns n's (possibly empty) first-set mapping.
func (n *NonTerminal) FirstSet() *FirstSet {
	n.ensureAnalyzed()
	return n.first
}

// MatchesEmpty reports whether some enabled rule of n can match zero
// tokens.
func (n *NonTerminal) MatchesEmpty() bool {
	n.ensureAnalyzed()
	return n.matchesEmpty
}

// IsLL1 reports whether every terminal key in n's first-set maps to exactly
// one rule.
func (n *NonTerminal) IsLL1() bool {
	n.ensureAnalyzed()
	return n.isLL1
}
