package gss

import (
	"testing"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

func tok(offset token.Offset) *token.Token {
	return token.New(token.KindUserMin, "x", offset, 1, 1)
}

func TestGraphRootIsDistinguishedAndHasNoReturnSlot(t *testing.T) {
	g := NewGraph()
	root := g.Root()
	if !root.IsRoot() {
		t.Fatalf("Root() should report IsRoot")
	}
	if _, ok := root.ReturnSlot(); ok {
		t.Fatalf("root should have no return slot")
	}
	if root.String() != "u0" {
		t.Fatalf("got %q, want u0", root.String())
	}
}

func TestCreateStartIsIdempotentAndDistinctFromRoot(t *testing.T) {
	g := NewGraph()
	pos := tok(0)
	u1 := g.CreateStart(pos)
	if u1.IsRoot() {
		t.Fatalf("the start node is not the root")
	}
	if _, ok := u1.ReturnSlot(); ok {
		t.Fatalf("the start node should have no return slot either")
	}
	if u1.InputPos() != pos {
		t.Fatalf("expected the start node's position to be pos")
	}
	again := g.CreateStart(pos)
	if again != u1 {
		t.Fatalf("CreateStart should return the same node for the same position")
	}
}

func TestCreateMergesOnReturnSlotAndPosition(t *testing.T) {
	g := NewGraph()
	rule := grammar.NewRule(grammar.T(token.KindUserMin))
	slotA := grammar.Slot{Rule: rule, Pos: 0}
	slotB := grammar.Slot{Rule: rule, Pos: 1}
	pos := tok(5)

	n1, created1 := g.Create(slotA, pos)
	if !created1 {
		t.Fatalf("expected the first Create to report a new node")
	}
	n2, created2 := g.Create(slotA, pos)
	if created2 {
		t.Fatalf("expected the second Create with the same key to report no new node")
	}
	if n1 != n2 {
		t.Fatalf("expected the same (slot, pos) pair to merge to the same node")
	}

	n3, created3 := g.Create(slotB, pos)
	if !created3 || n3 == n1 {
		t.Fatalf("a different return slot must get its own node")
	}

	n4, created4 := g.Create(slotA, tok(6))
	if !created4 || n4 == n1 {
		t.Fatalf("the same slot at a different position must get its own node")
	}
}

func TestCreateStartAndCreateNeverCollideDespiteSharedNoReturnLabel(t *testing.T) {
	g := NewGraph()
	pos := tok(0)
	u1 := g.CreateStart(pos)
	// Slot{} (zero Rule, Pos 0) is the key CreateStart uses internally with
	// hasReturn=false; Create always passes hasReturn=true, so even the
	// zero Slot at the same position must not collide with u1.
	n, created := g.Create(grammar.Slot{}, pos)
	if !created {
		t.Fatalf("expected a fresh node for Create despite sharing pos with the start node")
	}
	if n == u1 {
		t.Fatalf("Create and CreateStart must never merge, they carry different hasReturn labels")
	}
}

func TestAddChildDeduplicatesIdenticalEdgesButKeepsDistinctOnes(t *testing.T) {
	g := NewGraph()
	parent := g.CreateStart(tok(0))
	child := g.CreateStart(tok(1))
	var sp1, sp2 *sppf.Node // nil is a valid, distinguishable SPPF value here

	edge1, isNew1 := parent.AddChild(child, sp1)
	if !isNew1 {
		t.Fatalf("expected the first edge to be new")
	}
	edge2, isNew2 := parent.AddChild(child, sp1)
	if isNew2 {
		t.Fatalf("expected an identical (child, sppf) edge to be deduplicated")
	}
	if edge1 != edge2 {
		t.Fatalf("expected the deduplicated edge to be the same one")
	}
	if len(parent.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(parent.Children()))
	}

	other := g.CreateStart(tok(2))
	if _, isNew3 := parent.AddChild(other, sp2); !isNew3 {
		t.Fatalf("a different child should always be a new edge")
	}
	if len(parent.Children()) != 2 {
		t.Fatalf("got %d children, want 2", len(parent.Children()))
	}
}
