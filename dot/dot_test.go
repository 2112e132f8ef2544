package dot

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

func setup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.dot")
	t.Cleanup(teardown)
}

const kindNum token.Kind = token.KindUserMin

func tok(offset token.Offset, spelling string) *token.Token {
	return token.New(kindNum, spelling, offset, 1, int(offset)+1)
}

func TestWriteRendersTerminalAndNonTerminalNodes(t *testing.T) {
	setup(t)
	forest := sppf.NewForest()
	a := tok(0, "7")
	tNode := forest.GetNodeT(a)

	nt := grammar.NewNonTerminal("Num", 0)
	rule := grammar.NewRule(grammar.T(kindNum))
	nt.AddRules(rule)
	slot := grammar.Slot{Rule: rule, Pos: 0}

	top := forest.GetNodeP(slot, nil, tNode)

	var buf strings.Builder
	if err := Write(&buf, top); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "digraph {\n    graph [ordering=out]\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Num") {
		t.Fatalf("expected the nonterminal's name to appear in the graph: %q", out)
	}
	if !strings.Contains(out, "'7'") {
		t.Fatalf("expected the matched spelling to appear in the graph: %q", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Fatalf("expected the graph to close with '}': %q", out)
	}
}

// TestWriteMarksAmbiguousAlternativesAsPackedPoints builds one symbol node
// with two packed children — two rules of the same nonterminal both
// matching the same single token — and checks that Write gives each packed
// alternative a point shape and a headlabel distinguishing it, and that the
// shared terminal child underneath both is written only once.
func TestWriteMarksAmbiguousAlternativesAsPackedPoints(t *testing.T) {
	setup(t)
	forest := sppf.NewForest()
	shared := forest.GetNodeT(tok(0, "x"))

	nt := grammar.NewNonTerminal("Ambiguous", 0)
	r1 := grammar.NewRule(grammar.T(kindNum))
	r2 := grammar.NewRule(grammar.T(kindNum))
	nt.AddRules(r1, r2)

	top1 := forest.GetNodeP(grammar.Slot{Rule: r1, Pos: 0}, nil, shared)
	top2 := forest.GetNodeP(grammar.Slot{Rule: r2, Pos: 0}, nil, shared)
	if top1 != top2 {
		t.Fatalf("expected both rules to canonicalize onto the same symbol node")
	}
	if len(top1.Children()) != 2 {
		t.Fatalf("expected 2 packed alternatives, got %d", len(top1.Children()))
	}

	var buf strings.Builder
	if err := Write(&buf, top1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if strings.Count(out, "shape=point") != 2 {
		t.Fatalf("expected 2 packed nodes rendered as points, got:\n%s", out)
	}
	if strings.Count(out, "headlabel=") != 2 {
		t.Fatalf("expected each packed edge to carry a headlabel, got:\n%s", out)
	}
	if strings.Count(out, "label=\"0 'x'\"") != 1 {
		t.Fatalf("expected the shared terminal to be written only once, got:\n%s", out)
	}
}
