/*
Package engine implements the GLL parsing algorithm itself: a worklist of
descriptors (R), a visited-set (U) and popped-set (P) as described by the
GLL papers, driving a Graph-Structured Stack (package gss) and building an
SPPF (package sppf) as it goes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package engine

import (
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/diag"
	"github.com/gllparse/gll/gss"
	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// tracer traces with key 'gll.engine'; debug trace lines (ENTER, RESUME,
// FINISH, FAIL, NORULE, IGNORE, XCFAIL) are emitted at Debug level so
// embedders opt in with tracing.Select("gll.engine").SetTraceLevel(...).
func tracer() tracing.Trace {
	return tracing.Select("gll.engine")
}

// KindNamer renders a terminal kind for diagnostics; see grammar.KindNamer.
type KindNamer = grammar.KindNamer

// Parser drives one GLL parse of a token stream against a grammar. A
// Parser is reusable across parses: each call to Parse resets its internal
// R/U/P/GSS/SPPF state but keeps its grammar, lexer binding, error limit
// and registered diagnostic sinks.
type Parser struct {
	start *grammar.NonTerminal
	names KindNamer

	stream *token.Stream
	report *diag.Reporter
	debug  bool

	// reset at the start of every Parse call
	gssGraph *gss.Graph
	forest   *sppf.Forest
	matched  *sppf.Node
	popped   map[*gss.Node][]*sppf.Node
	visited  map[visitedKey]bool
	r        *linkedliststack.Stack

	recoveryPos *token.Token
	mismatches  []mismatch
}

// New creates a Parser that parses start's language, reporting diagnostics
// through report (created fresh if nil) and naming terminals with names
// (used only for diagnostic text; may be nil).
func New(start *grammar.NonTerminal, names KindNamer) *Parser {
	return &Parser{
		start:  start,
		names:  names,
		report: diag.NewReporter(diag.DefaultErrorLimit),
	}
}

// SetLexer binds p to read tokens from lexer.
func (p *Parser) SetLexer(lexer token.Lexer) {
	p.stream = token.NewStream(lexer)
}

// SetDebug toggles ENTER/RESUME/FINISH/... trace lines.
func (p *Parser) SetDebug(on bool) { p.debug = on }

// DebugEnabled reports whether debug tracing is on.
func (p *Parser) DebugEnabled() bool { return p.debug }

// Reporter returns the diagnostic reporter p reports through.
func (p *Parser) Reporter() *diag.Reporter { return p.report }

// Parse runs one parse of the token stream starting at start (or, if start
// is nil, at the stream's first token), returning the
// root SPPF node of the longest successful top-level match, or nil if none
// was found — in which case a diagnostic describing the farthest failure
// has already been reported.
func (p *Parser) Parse(start *token.Token) (*sppf.Node, error) {
	if start == nil {
		var err error
		start, err = p.stream.First()
		if err != nil {
			return nil, err
		}
	}

	p.gssGraph = gss.NewGraph()
	p.forest = sppf.NewForest()
	p.matched = nil
	p.popped = map[*gss.Node][]*sppf.Node{}
	p.visited = map[visitedKey]bool{}
	p.r = linkedliststack.New()
	p.recoveryPos = nil
	p.mismatches = nil
	p.report.Reset()

	u1 := p.gssGraph.CreateStart(start)
	u1.AddChild(p.gssGraph.Root(), nil)

	if !p.beginNonTerminal(p.start, u1, start, 0) {
		p.recoveryPos = start
		p.mismatches = append(p.mismatches, mismatch{
			d:    descriptor{gssHead: u1, inputPos: start},
			kind: mismatchNoRule,
		})
	}

	for !p.r.Empty() {
		v, _ := p.r.Pop()
		d := v.(descriptor)
		if err := p.step(&d); err != nil {
			return nil, err
		}
	}

	if p.matched == nil && p.recoveryPos != nil && len(p.mismatches) > 0 {
		p.reportFailure(p.mismatches[0])
	}

	return p.matched, nil
}

// nextToken advances the stream from pos (or returns the first token if
// pos is nil).
func (p *Parser) nextToken(pos *token.Token) (*token.Token, error) {
	return p.stream.After(pos)
}

// getNonTerminal returns the nonterminal a NO_RULE mismatch should blame:
// the one beginNonTerminal failed to start a rule for, not the rule that
// was trying to call it. d.slot is the slot of the calling rule at the
// position of the failing component, mirroring the original's use of
// GrammarAddress (a pointer to the failing Component) rather than the
// rule it belongs to.
func (p *Parser) getNonTerminal(d *descriptor) *grammar.NonTerminal {
	if d.slot.Rule == nil {
		return p.start
	}
	return d.slot.Component().NonTerminal()
}

// beginNonTerminal tries every rule of nonterminal that could legally begin
// at inputPos's token, per its first-set, falling back to trying every
// enabled rule when the first-set is indeterminate. It reports whether at
// least one rule was started.
func (p *Parser) beginNonTerminal(nonterminal *grammar.NonTerminal, gssHead *gss.Node, inputPos *token.Token, depth int) bool {
	terms := nonterminal.FirstSet()
	count := 0

	if terms.Empty() {
		for _, r := range nonterminal.Rules() {
			if !r.IsEnabled() {
				continue
			}
			if p.beginRule(r, gssHead, inputPos, depth, false) {
				count++
			}
		}
	} else {
		if ri, ok := terms.Lookup(inputPos.Kind); ok {
			if !nonterminal.MatchesEmpty() && ri.Len() == 1 {
				if p.beginRule(nonterminal.Rule(ri.At(0)), gssHead, inputPos, depth, true) {
					return true
				}
			} else {
				for _, ir := range ri.All() {
					if p.beginRule(nonterminal.Rule(ir), gssHead, inputPos, depth, false) {
						count++
					}
				}
			}
		}
		if nonterminal.MatchesEmpty() {
			if ri, ok := terms.Lookup(token.KindNull); ok {
				for _, ir := range ri.All() {
					if p.beginRule(nonterminal.Rule(ir), gssHead, inputPos, depth, false) {
						count++
					}
				}
			}
		}
	}

	if p.debug && count == 0 {
		tracer().Debugf("%*sNORULE %s @ %d", depth*4, "", nonterminal.Name(), inputPos.Offset)
	}
	return count > 0
}

func (p *Parser) beginRule(rule *grammar.Rule, gssHead *gss.Node, inputPos *token.Token, depth int, immediate bool) bool {
	state := &ParseState{parser: p, start: p.start, rule: rule, pos: inputPos, depth: depth}
	if !rule.NonTerminal().InvokePreParseActions(state) {
		return false
	}

	d := descriptor{slot: grammar.Slot{Rule: rule, Pos: 0}, gssHead: gssHead, inputPos: inputPos, depth: depth}
	if immediate {
		p.step(&d)
	} else {
		p.add(d)
	}
	return true
}

// add implements "if {L, u, w} not in Uj add {L, u, j, w} to R".
func (p *Parser) add(d descriptor) {
	k := visitedKey{inputPos: d.inputPos, slot: d.slot, gssHead: d.gssHead, sppf: d.sppf}
	if p.visited[k] {
		if p.debug {
			tracer().Debugf("%*sIGNORE %s @ %d", d.depth*4, "", p.describeSlot(d), d.inputPos.Offset)
		}
		return
	}
	p.visited[k] = true
	p.r.Push(d)
}

func (p *Parser) describeSlot(d descriptor) string {
	if d.slot.Rule == nil {
		return p.start.Name()
	}
	return d.slot.Rule.NonTerminal().Name()
}

// step processes one descriptor: match as many components of its rule as
// possible without returning to the main loop, then either continue via a
// nonterminal sub-parse (create+beginNonTerminal) or finish/fail the rule.
func (p *Parser) step(d *descriptor) error {
	if d.slot.Rule == nil {
		return nil // L0 sentinel: nothing to do
	}
	rule := d.slot.Rule

	if !d.slot.AtEnd() {
		if d.advance {
			// Advance now, before tracing, so the reported offset is the
			// one this step actually resumes at.
			next, err := p.nextToken(d.inputPos)
			if err != nil {
				return err
			}
			d.inputPos = next
			d.advance = false
		}

		if p.debug {
			verb := "RESUME"
			if d.slot.Pos == 0 {
				verb = "ENTER"
			}
			tracer().Debugf("%*s%s %s.%d[%d] @ %d", d.depth*4, "", verb, rule.NonTerminal().Name(), rule.Index(), d.slot.Pos, d.inputPos.Offset)
		}
	}

	for !d.slot.AtEnd() {
		if d.advance {
			next, err := p.nextToken(d.inputPos)
			if err != nil {
				return err
			}
			d.inputPos = next
			d.advance = false
		}

		comp := d.slot.Component()

		if pred := comp.Predicate(); pred != nil {
			state := &ParseState{parser: p, start: p.start, rule: rule, pos: d.inputPos, depth: d.depth, node: d.sppf}
			if !pred(state) && !comp.IsOptional() {
				p.endRule(d, mismatchPredicate)
				return nil
			}
		}

		if comp.IsTerminal() {
			terminal := comp.Terminal()
			if terminal == token.KindNull || terminal == d.inputPos.Kind {
				tNode := p.forest.GetNodeT(d.inputPos)
				if d.slot.Pos == 0 && rule.Len() >= 2 {
					d.sppf = tNode
				} else {
					d.sppf = p.forest.GetNodeP(d.slot, d.sppf, tNode)
				}
				d.advance = true
			} else if !comp.IsOptional() {
				p.endRule(d, mismatchTerminal)
				return nil
			} else {
				d.sppf = p.forest.GetNodeP(d.slot, d.sppf, p.forest.GetEmptyNodeAt(d.inputPos))
			}
		} else {
			returnSlot := d.slot.Advance()
			nonterminal := comp.NonTerminal()

			skipOptional := comp.IsOptional() && !nonterminal.MatchesEmpty() &&
				!p.wasVisited(returnSlot, d.gssHead, d.inputPos, d.sppf)
			ok := false

			if p.test(d.inputPos, nonterminal, returnSlot) {
				newHead := p.create(d.slot, d.gssHead, d.inputPos, d.sppf, d.depth+1)
				ok = p.beginNonTerminal(nonterminal, newHead, d.inputPos, d.depth+1)
			} else if p.debug {
				tracer().Debugf("%*sNORULE %s @ %d", d.depth*4, "", nonterminal.Name(), d.inputPos.Offset)
			}

			ok = ok || skipOptional
			if !ok {
				p.endRule(d, mismatchNoRule)
				return nil
			}
			if !skipOptional {
				return nil // control returns to the main loop, as GLL's "goto L0"
			}
			d.sppf = p.forest.GetNodeP(d.slot, d.sppf, p.forest.GetEmptyNodeAt(d.inputPos))
		}

		d.slot = d.slot.Advance()
	}

	if d.sppf == nil {
		// An empty rule never enters the loop body above, so nothing ever
		// builds it an SPPF node; stand in with the empty match at its
		// current position.
		d.sppf = p.forest.GetEmptyNodeAt(d.inputPos)
	}

	if p.endRule(d, mismatchNone) {
		p.pop(d.gssHead, d.sppf, d.depth)
	}
	return nil
}

func (p *Parser) endRule(d *descriptor, kind mismatchKind) bool {
	rule := d.slot.Rule

	if kind == mismatchNone {
		state := &ParseState{parser: p, start: p.start, rule: rule, pos: d.inputPos, depth: d.depth, node: d.sppf}
		if !rule.NonTerminal().InvokePostParseActions(state) {
			kind = mismatchPostAction
		}
	}

	if kind != mismatchNone {
		if p.recoveryPos == nil || d.inputPos.Offset >= p.recoveryPos.Offset {
			p.recoveryPos = d.inputPos
			p.mismatches = append([]mismatch{{d: *d, kind: kind}}, p.mismatches...)
		}
	}

	if p.debug {
		switch kind {
		case mismatchNone:
			tracer().Debugf("%*sFINISH %s.%d @ %d", d.depth*4, "", rule.NonTerminal().Name(), rule.Index(), d.sppf.EndOffset())
		case mismatchPostAction:
			tracer().Debugf("%*sXCFAIL %s.%d @ %d", d.depth*4, "", rule.NonTerminal().Name(), rule.Index(), d.inputPos.Offset)
		default:
			tracer().Debugf("%*sFAIL   %s.%d[%d] @ %d", d.depth*4, "", rule.NonTerminal().Name(), rule.Index(), d.slot.Pos, d.inputPos.Offset)
		}
	}

	return kind == mismatchNone
}

// pop implements "pop(u, z)" from the GLL papers: record (gssHead,
// parsedNode) in P, then replay it down every edge gssHead already has.
func (p *Parser) pop(gssHead *gss.Node, parsedNode *sppf.Node, depth int) {
	p.popped[gssHead] = append(p.popped[gssHead], parsedNode)

	for _, edge := range gssHead.Children() {
		returnSlot, hasReturn := gssHead.ReturnSlot()
		var y *sppf.Node

		if hasReturn {
			y = p.forest.GetNodeP(returnSlot, edge.SPPF, sppf.HideDelegateOrTransparent(parsedNode))
			returnSlot = returnSlot.Advance()
		} else {
			if p.matched == nil || parsedNode.LastToken().Offset > p.matched.LastToken().Offset {
				p.matched = parsedNode
			}
			// gssHead has no return slot (it is the top-level node): the
			// resulting descriptor would be an unconditional L0 no-op, so
			// it is never enqueued.
			continue
		}

		p.add(descriptor{
			slot:     returnSlot,
			gssHead:  edge.Child,
			inputPos: parsedNode.LastToken(),
			sppf:     y,
			depth:    depth - 1,
			advance:  !parsedNode.Empty(),
		})
	}
}

// create implements the GLL papers' "create(L, u, i, w)": get-or-create the
// GSS node labelled (returnSlot, inputPos), link gssHead as its child
// carrying sppfNode, and replay any already-popped nodes down a freshly
// created edge — the "node reuse" step that makes GLL handle left recursion
// without looping forever.
func (p *Parser) create(returnSlot grammar.Slot, gssHead *gss.Node, inputPos *token.Token, sppfNode *sppf.Node, depth int) *gss.Node {
	v, vCreated := p.gssGraph.Create(returnSlot, inputPos)
	_, edgeCreated := v.AddChild(gssHead, sppfNode)

	if edgeCreated && !vCreated {
		for _, z := range p.popped[v] {
			y := p.forest.GetNodeP(returnSlot, sppfNode, sppf.HideDelegateOrTransparent(z))
			p.add(descriptor{
				slot:     returnSlot.Advance(),
				gssHead:  gssHead,
				inputPos: z.LastToken(),
				sppf:     y,
				depth:    depth - 1,
				advance:  !z.Empty(),
			})
		}
	}
	return v
}

func (p *Parser) wasVisited(slot grammar.Slot, gssHead *gss.Node, inputPos *token.Token, sppfNode *sppf.Node) bool {
	return p.visited[visitedKey{inputPos: inputPos, slot: slot, gssHead: gssHead, sppf: sppfNode}]
}

// test implements the GLL papers' predictive "test" function: can
// nonterminal legally begin at inputPos, given what follows it
// (trailingSlot, used when nonterminal might match empty)?
func (p *Parser) test(inputPos *token.Token, nonterminal *grammar.NonTerminal, trailingSlot grammar.Slot) bool {
	terms := nonterminal.FirstSet()
	if terms.Empty() {
		return true
	}
	if _, ok := terms.Lookup(inputPos.Kind); ok {
		return true
	}
	return nonterminal.MatchesEmpty() && p.testFollow(inputPos, trailingSlot)
}

func (p *Parser) testFollow(inputPos *token.Token, slot grammar.Slot) bool {
	if slot.Rule == nil {
		return true
	}
	for !slot.AtEnd() {
		comp := slot.Component()
		switch {
		case comp.IsTerminal():
			if comp.Terminal() == inputPos.Kind {
				return true
			} else if !comp.IsOptional() {
				return false
			}
		case comp.IsNonTerminal():
			return p.test(inputPos, comp.NonTerminal(), slot.Advance())
		default:
			if !comp.IsOptional() {
				return true
			}
		}
		slot = slot.Advance()
	}
	return true
}

func (p *Parser) reportFailure(m mismatch) {
	switch m.kind {
	case mismatchNone, mismatchPredicate, mismatchPostAction:
		return
	case mismatchNoRule:
		nt := p.getNonTerminal(&m.d)
		var kinds []token.Kind
		for _, k := range nt.FirstSet().Keys() {
			if k != token.KindEOF {
				kinds = append(kinds, k)
			}
		}
		p.report.Report(diag.Error, "no-rule", p.recoveryPos, "%s", diag.FormatExpected(kinds, p.names))
	case mismatchTerminal:
		kind := m.d.slot.Component().Terminal()
		p.report.Report(diag.Error, "terminal-mismatch", p.recoveryPos, "%s", diag.FormatExpected([]token.Kind{kind}, p.names))
	}
}
