/*
Package gss implements the Graph-Structured Stack the engine threads
through a parse: a DAG of Nodes, each labelled with a return slot and an
input position, linked by Edges that each carry the SPPF node built for
whatever was parsed along that edge so far.

A GSS node is uniquely identified by its (return slot, input position)
pair; Graph.Create returns the existing node for a pair it has already
seen, which is what lets the engine merge parses that have reconverged on
the same remaining work.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package gss

import (
	"fmt"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// Edge is one link from a GSS node down to a child it was created from,
// carrying the SPPF node parsed along that edge (nil for the sentinel edge
// from the top-level start node to the root node).
type Edge struct {
	Child *Node
	SPPF  *sppf.Node
}

// Node is one node of the graph-structured stack. The graph's root node
// ("u0" in the GLL papers) has no return slot and no input position;
// Node.IsRoot reports this.
type Node struct {
	returnSlot grammar.Slot
	hasReturn  bool
	pos        *token.Token
	valid      bool // false only for u0

	children []Edge
}

// ReturnSlot returns the slot parsing should resume at when this node is
// popped to, and ok=false for the root node or the distinguished top-level
// node (both of which have no return slot).
func (n *Node) ReturnSlot() (grammar.Slot, bool) { return n.returnSlot, n.hasReturn }

// InputPos returns the input position this node is labelled with.
func (n *Node) InputPos() *token.Token { return n.pos }

// IsRoot reports whether n is the graph's distinguished root node (u0),
// which carries neither a return slot nor an input position.
func (n *Node) IsRoot() bool { return !n.valid }

// Children returns n's outgoing edges, in the order they were added.
func (n *Node) Children() []Edge { return n.children }

// AddChild records an edge from n down to child carrying sppfNode, unless
// an identical edge (same child, same SPPF node) already exists. It
// reports the edge and whether it was newly created — the engine only
// replays n's popped set down a freshly created edge.
func (n *Node) AddChild(child *Node, sppfNode *sppf.Node) (*Edge, bool) {
	for i := range n.children {
		if n.children[i].Child == child && n.children[i].SPPF == sppfNode {
			return &n.children[i], false
		}
	}
	n.children = append(n.children, Edge{Child: child, SPPF: sppfNode})
	return &n.children[len(n.children)-1], true
}

func (n *Node) String() string {
	if n.IsRoot() {
		return "u0"
	}
	if !n.hasReturn {
		return fmt.Sprintf("u1@%v", n.pos)
	}
	return fmt.Sprintf("(%v, %v)", n.returnSlot, n.pos)
}

type key struct {
	slot      grammar.Slot
	hasReturn bool
	pos       *token.Token
}

// Graph owns every GSS node created during one parse.
type Graph struct {
	nodes map[key]*Node
	root  *Node
}

// NewGraph creates an empty Graph, already containing its distinguished
// root node (see Root).
func NewGraph() *Graph {
	g := &Graph{nodes: map[key]*Node{}}
	g.root = &Node{valid: false}
	return g
}

// Root returns the graph's distinguished root node ("u0"), the unique node
// with no return slot and no input position, which every top-level parse
// attempt bottoms out at.
func (g *Graph) Root() *Node { return g.root }

// Create returns the GSS node labelled (returnSlot, pos), creating it if
// this is the first time that pair has been seen. hasReturn distinguishes
// a node with a real return slot from the top-level node created with
// CreateStart, which shares the "no return slot" label with the root but a
// real input position.
func (g *Graph) Create(returnSlot grammar.Slot, pos *token.Token) (*Node, bool) {
	return g.create(returnSlot, true, pos)
}

// CreateStart returns the graph's distinguished top-level node ("u1" in the
// GLL papers), labelled with no return slot and the position parsing
// started at.
func (g *Graph) CreateStart(pos *token.Token) *Node {
	n, _ := g.create(grammar.Slot{}, false, pos)
	return n
}

func (g *Graph) create(slot grammar.Slot, hasReturn bool, pos *token.Token) (*Node, bool) {
	k := key{slot: slot, hasReturn: hasReturn, pos: pos}
	if n, ok := g.nodes[k]; ok {
		return n, false
	}
	n := &Node{returnSlot: slot, hasReturn: hasReturn, pos: pos, valid: true}
	g.nodes[k] = n
	return n, true
}
