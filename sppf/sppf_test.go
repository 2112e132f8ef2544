package sppf

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/token"
)

const (
	kindPlus token.Kind = token.KindUserMin
	kindNum  token.Kind = token.KindUserMin + 1
)

func setup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.sppf")
	t.Cleanup(teardown)
}

// tok chains a tiny token sequence num '+' num, as a Sum := Sum '+' Product
// rule would see it.
func tokens() (num1, plus, num2 *token.Token) {
	num1 = token.New(kindNum, "1", 0, 1, 1)
	plus = token.New(kindPlus, "+", 1, 1, 2)
	num2 = token.New(kindNum, "2", 2, 1, 3)
	num1.SetNext(plus)
	plus.SetNext(num2)
	return
}

func TestGetNodeTCanonicalizes(t *testing.T) {
	setup(t)
	f := NewForest()
	num1, _, _ := tokens()

	a := f.GetNodeT(num1)
	b := f.GetNodeT(num1)
	if a != b {
		t.Fatalf("GetNodeT should canonicalize repeated calls for the same token, got distinct nodes")
	}
	if !a.IsTerminal() || a.Empty() {
		t.Fatalf("expected a non-empty terminal node, got %v", a)
	}
	if a.Terminal() != kindNum {
		t.Fatalf("expected terminal kind %v, got %v", kindNum, a.Terminal())
	}
}

func TestGetEmptyNodeAt(t *testing.T) {
	setup(t)
	f := NewForest()
	num1, _, _ := tokens()

	e1 := f.GetEmptyNodeAt(num1)
	e2 := f.GetEmptyNodeAt(num1)
	if e1 != e2 {
		t.Fatalf("GetEmptyNodeAt should canonicalize by position")
	}
	if !e1.Empty() {
		t.Fatalf("expected an empty node")
	}
	if e1.StartOffset() != e1.EndOffset() {
		t.Fatalf("an empty node's start and end offsets must coincide")
	}
}

// buildSumPlusProduct builds the SPPF for "Sum := Sum '+' Product" having
// matched num1 as an (improperly typed, but sufficient for this test) Sum
// and num2 as Product, and checks the resulting symbol node's shape.
func buildSumPlusProduct(t *testing.T) (*Forest, *Node, *grammar.NonTerminal) {
	f := NewForest()
	num1, plus, num2 := tokens()

	sum := grammar.NewNonTerminal("Sum", 0)
	product := grammar.NewNonTerminal("Product", 0)
	rule := grammar.NewRule(grammar.N(sum), grammar.T(kindPlus), grammar.N(product))
	sum.AddRules(rule)

	leftSum := f.GetNodeT(num1) // stand-in terminal "Sum"
	slot0 := grammar.Slot{Rule: rule, Pos: 0}
	p0 := f.GetNodeP(slot0, nil, leftSum)

	plusNode := f.GetNodeT(plus)
	slot1 := grammar.Slot{Rule: rule, Pos: 1}
	p1 := f.GetNodeP(slot1, p0, plusNode)

	rightProduct := f.GetNodeT(num2) // stand-in terminal "Product"
	slot2 := grammar.Slot{Rule: rule, Pos: 2}
	top := f.GetNodeP(slot2, p1, rightProduct)

	if !top.IsNonTerminal() || top.NonTerminal() != sum {
		t.Fatalf("expected a Sum symbol node at the top, got %v", top)
	}
	if top.StartOffset() != num1.Offset || top.EndOffset() != num2.EndOffset() {
		t.Fatalf("expected top node to span num1..num2, got [%d,%d)", top.StartOffset(), top.EndOffset())
	}
	return f, top, sum
}

func TestGetNodePBuildsSymbolNode(t *testing.T) {
	setup(t)
	buildSumPlusProduct(t)
}

func TestGetNodePIsHashConsed(t *testing.T) {
	setup(t)
	f := NewForest()
	num1, plus, num2 := tokens()

	sum := grammar.NewNonTerminal("Sum", 0)
	product := grammar.NewNonTerminal("Product", 0)
	rule := grammar.NewRule(grammar.N(sum), grammar.T(kindPlus), grammar.N(product))
	sum.AddRules(rule)

	run := func() *Node {
		leftSum := f.GetNodeT(num1)
		p0 := f.GetNodeP(grammar.Slot{Rule: rule, Pos: 0}, nil, leftSum)
		plusNode := f.GetNodeT(plus)
		p1 := f.GetNodeP(grammar.Slot{Rule: rule, Pos: 1}, p0, plusNode)
		rightProduct := f.GetNodeT(num2)
		return f.GetNodeP(grammar.Slot{Rule: rule, Pos: 2}, p1, rightProduct)
	}

	a := run()
	b := run()
	if a != b {
		t.Fatalf("two identical derivations should hash-cons to the same node")
	}
}

func TestSymbolWalkerFlattensBinarisation(t *testing.T) {
	setup(t)
	_, top, _ := buildSumPlusProduct(t)

	w := NewSymbolWalker(top, nil)
	var seen []*Node
	for w.Next() {
		seen = append(seen, w.Node())
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 flattened subcomponents (Sum, '+', Product), got %d", len(seen))
	}
	if seen[1].Terminal() != kindPlus {
		t.Fatalf("expected the middle subcomponent to be the '+' terminal, got %v", seen[1])
	}
}

// TestNonTerminalWalkerSkipsTerminals confirms NonTerminalWalker stops only
// on nonterminal subcomponents, matching NonTerminalWalkerTemplate::operator++
// (SPPF.cxx), which loops while the current node is not isNonTerminal().
// Unlike buildSumPlusProduct, which stands its Sum/Product operands in with
// bare terminal nodes, this builds an actual "Num := NUM" nonterminal for
// each operand so the '+' terminal has real nonterminal neighbours to skip
// past.
func TestNonTerminalWalkerSkipsTerminals(t *testing.T) {
	setup(t)
	f := NewForest()
	num1, plus, num2 := tokens()

	num := grammar.NewNonTerminal("Num", 0)
	numRule := grammar.NewRule(grammar.T(kindNum))
	num.AddRules(numRule)
	numSlot := grammar.Slot{Rule: numRule, Pos: 0}

	leftNum := f.GetNodeP(numSlot, nil, f.GetNodeT(num1))
	rightNum := f.GetNodeP(numSlot, nil, f.GetNodeT(num2))

	sum := grammar.NewNonTerminal("Sum", 0)
	rule := grammar.NewRule(grammar.N(num), grammar.T(kindPlus), grammar.N(num))
	sum.AddRules(rule)

	p0 := f.GetNodeP(grammar.Slot{Rule: rule, Pos: 0}, nil, leftNum)
	p1 := f.GetNodeP(grammar.Slot{Rule: rule, Pos: 1}, p0, f.GetNodeT(plus))
	top := f.GetNodeP(grammar.Slot{Rule: rule, Pos: 2}, p1, rightNum)

	w := NewNonTerminalWalker(top, nil)
	var seen []*Node
	for w.Next() {
		seen = append(seen, w.Node())
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 nonterminal subcomponents (Num, Num), got %d", len(seen))
	}
	for _, n := range seen {
		if !n.IsNonTerminal() || n.NonTerminal() != num {
			t.Fatalf("expected both subcomponents to be Num nodes, got %v", n)
		}
	}
}

func TestAddChildPrependsPackedAfterNonPacked(t *testing.T) {
	setup(t)
	parent := &Node{kind: NonTerminalKind}
	leaf := &Node{kind: TerminalKind}
	parent.AddChild(leaf)

	packed := &Node{kind: PackedKind}
	parent.AddChild(packed)

	if parent.FirstChild() != packed {
		t.Fatalf("a packed child appended after an existing child must be surfaced first")
	}
}

func TestHideDelegateOrTransparent(t *testing.T) {
	setup(t)
	f := NewForest()
	num1, _, _ := tokens()

	inner := grammar.NewNonTerminal("Atom", 0)
	outer := grammar.NewNonTerminal("Expr", grammar.HideIfDelegate)
	delegateRule := grammar.NewRule(grammar.N(inner))
	outer.AddRules(delegateRule)

	atomNode := f.GetNodeT(num1)
	slot := grammar.Slot{Rule: delegateRule, Pos: 0}
	parsed := f.GetNodeP(slot, nil, atomNode)

	hidden := HideDelegateOrTransparent(parsed)
	if hidden != atomNode {
		t.Fatalf("expected delegate rule to be hidden in favour of its single child, got %v", hidden)
	}
}
