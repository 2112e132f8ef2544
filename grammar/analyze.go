package grammar

import "github.com/gllparse/gll/token"

// analysisStatus is the result of analyzing one rule, mirroring the
// original's InitStatus: OK, IS_LR (self-left-recursive) or INDETERMINATE
// (depends on a lone predicate, or a sub-nonterminal whose first-set could
// not be determined).
type analysisStatus int

const (
	statusOK analysisStatus = iota
	statusLeftRecursive
	statusIndeterminate
)

// analyze computes n's first-set, matches-empty and LL(1) flags by visiting
// every enabled rule left to right.
// visited guards against infinite recursion through mutually-referencing
// nonterminals; a nonterminal already on the visiting stack is treated as
// already analyzed for the purposes of this call (its partial results will
// be finished by the outer call).
func (n *NonTerminal) analyze(visited map[*NonTerminal]bool) analysisStatus {
	if visited[n] {
		return statusOK
	}
	visited[n] = true

	n.isLL1 = true
	n.matchesEmpty = false
	n.first = newFirstSet()

	var leftRecursive []int
	status := statusOK

	for _, r := range n.rules {
		if !r.enabled {
			continue
		}
		s := n.analyzeRule(visited, r)
		switch s {
		case statusLeftRecursive:
			leftRecursive = append(leftRecursive, r.index)
		case statusOK:
			// nothing to record
		default:
			// An indeterminate rule poisons the whole nonterminal's
			// first-set (already cleared by analyzeRule) and stops
			// further rule analysis, exactly as the original does.
			leftRecursive = nil
			status = s
		}
		if status != statusOK {
			break
		}
	}

	// Left-recursive rules are broadcast into every terminal's rule list,
	// appended after the non-left-recursive indices already there
	// (ties broadcast the left-recursive rule after whatever was already there).
	if len(leftRecursive) > 0 {
		for _, k := range n.first.order {
			n.first.byKind[k].pushAll(leftRecursive)
		}
	}

	n.analyzed = true
	return status
}

// analyzeRule walks one rule's components left to right, updating n's
// first-set as it goes, and reports the rule's analysis status.
func (n *NonTerminal) analyzeRule(visited map[*NonTerminal]bool, r *Rule) analysisStatus {
	ruleMatchesEmpty := true
	dependsOnLonePredicate := false
	subProdIndeterminate := false

	for i := range r.components {
		c := &r.components[i]
		other := c.NonTerminal()

		if c.IsTerminal() {
			ruleMatchesEmpty = ruleMatchesEmpty && c.optional
			t := c.Terminal()
			if t == token.KindNull {
				if c.predicate != nil {
					dependsOnLonePredicate = true
				}
			} else {
				n.updateFirstSet(t, r)
			}
		} else if other != nil {
			// Must run before touching other's analysis: for a
			// self-left-recursive component other == n, and n is still
			// mid-analysis here (n.analyzed is false), so other.matchesEmpty
			// below reads the field directly rather than going through
			// MatchesEmpty(), which would re-enter analyze with a fresh
			// visited map and recurse without bound.
			if other == n {
				n.isLL1 = false
				return statusLeftRecursive
			}

			if !other.analyzed {
				other.analyze(visited)
			}

			ruleMatchesEmpty = ruleMatchesEmpty && (c.optional || other.matchesEmpty)

			if other.first.Empty() {
				subProdIndeterminate = true
				break
			}

			for _, k := range other.first.order {
				n.updateFirstSet(k, r)
			}
		}

		if !ruleMatchesEmpty {
			break
		}
	}

	if dependsOnLonePredicate || subProdIndeterminate {
		n.isLL1 = false
		n.first.clear()
		return statusIndeterminate
	}
	if ruleMatchesEmpty {
		n.updateFirstSet(token.KindNull, r)
		n.matchesEmpty = true
	}
	return statusOK
}

// updateFirstSet records that rule r may begin (or, for token.KindNull,
// match empty) with terminal t, and maintains the running LL(1) flag: a
// nonterminal stops being LL(1) the moment any key ends up with more than
// one rule index.
func (n *NonTerminal) updateFirstSet(t token.Kind, r *Rule) {
	ri := n.first.entry(t)
	n.isLL1 = n.isLL1 && ri.Len() == 0
	ri.push(r.index)
}
