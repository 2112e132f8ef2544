package sppf

import "github.com/gllparse/gll/token"

// Direction selects which way a walker steps through a node's children.
type Direction int

const (
	// LtoR walks children left to right (the default).
	LtoR Direction = 1
	// RtoL walks children right to left.
	RtoL Direction = -1
)

// Pruner resolves an ambiguity: given a symbol or intermediate node with
// more than one packed child, it chooses which one a walker should follow.
// Returning an out-of-range index is equivalent to returning 0.
type Pruner interface {
	Prune(n *Node) int
}

type firstAlternative struct{}

// Prune always selects the first packed child encountered, i.e. whichever
// alternative parsed first.
func (firstAlternative) Prune(*Node) int { return 0 }

// FirstAlternative is the default Pruner: it never asks the caller to
// disambiguate and always walks the first packed child of an ambiguous
// node.
var FirstAlternative Pruner = firstAlternative{}

// RawWalker walks an SPPF literally, one child at a time, including packed
// and intermediate nodes — the binarised structure the engine actually
// built. Most callers want SymbolWalker, NonTerminalWalker or
// SubProductionWalker instead, which hide that binarisation.
type RawWalker struct {
	start *Node
	node  *Node
	trail []trailEntry
}

type trailEntry struct {
	parent *Node
	index  int
}

// NewRawWalker creates a walker positioned at start.
func NewRawWalker(start *Node) *RawWalker {
	return &RawWalker{start: start, node: start}
}

// Node returns the node the walker is currently positioned at.
func (w *RawWalker) Node() *Node { return w.node }

// Start returns the node the walker was created (or last Reset) at.
func (w *RawWalker) Start() *Node { return w.start }

// Reset repositions the walker at newStart, which becomes its new start.
func (w *RawWalker) Reset(newStart *Node) {
	w.start = newStart
	w.node = newStart
	w.trail = w.trail[:0]
}

// WalkDown moves to the first (or last, with dir == RtoL) child of the
// current node, stopping and reporting false if it has none or if doing so
// would step past stopAt.
func (w *RawWalker) WalkDown(dir Direction, stopAt *Node) bool {
	children := w.node.children
	if len(children) == 0 {
		return false
	}
	idx := 0
	if dir == RtoL {
		idx = len(children) - 1
	}
	if children[idx] == stopAt {
		return false
	}
	w.trail = append(w.trail, trailEntry{parent: w.node, index: idx})
	w.node = children[idx]
	return true
}

// WalkSibling moves to the next (or previous, with dir == RtoL) child of the
// walker's current parent, stopping and reporting false at the end of the
// child list or at stopAt.
func (w *RawWalker) WalkSibling(dir Direction, stopAt *Node) bool {
	if len(w.trail) == 0 {
		return false
	}
	top := &w.trail[len(w.trail)-1]
	next := top.index + int(dir)
	if next < 0 || next >= len(top.parent.children) {
		return false
	}
	if top.parent.children[next] == stopAt {
		return false
	}
	top.index = next
	w.node = top.parent.children[next]
	return true
}

// Backtrack moves back up to the parent of the current node, never past the
// walker's start. It reports whether it moved.
func (w *RawWalker) Backtrack() bool {
	if len(w.trail) == 0 {
		return false
	}
	top := w.trail[len(w.trail)-1]
	w.trail = w.trail[:len(w.trail)-1]
	w.node = top.parent
	return true
}

// --- SymbolWalker ------------------------------------------------------

// SymbolWalker iterates the immediate symbol-level subcomponents of a
// starting node — its rule's matched components, terminal and nonterminal
// alike, in order — transparently skipping over the intermediate and packed
// nodes the engine inserted to binarise the parse. Where a subcomponent was
// ambiguous (more than one packed alternative), pruner picks which
// derivation to expose; nil selects FirstAlternative.
type SymbolWalker struct {
	finish *Node
	pruner Pruner
	items  []*Node
	pos    int
}

// NewSymbolWalker creates a walker over start's immediate symbol
// subcomponents.
func NewSymbolWalker(start *Node, pruner Pruner) *SymbolWalker {
	if pruner == nil {
		pruner = FirstAlternative
	}
	w := &SymbolWalker{finish: start, pruner: pruner}
	w.items = symbolChildren(start, pruner)
	w.pos = -1
	return w
}

// Next advances to the next subcomponent, reporting whether one exists.
func (w *SymbolWalker) Next() bool {
	if w.pos+1 >= len(w.items) {
		return false
	}
	w.pos++
	return true
}

// Node returns the subcomponent the walker is currently positioned at, or
// nil before the first call to Next or after iteration has ended.
func (w *SymbolWalker) Node() *Node {
	if w.pos < 0 || w.pos >= len(w.items) {
		return nil
	}
	return w.items[w.pos]
}

// Len returns the number of subcomponents start was matched against.
func (w *SymbolWalker) Len() int { return len(w.items) }

// --- NonTerminalWalker -----------------------------------------------------

// NonTerminalWalker iterates the immediate nonterminal subcomponents of a
// starting node only, skipping past any terminal subcomponent in between
// (as well as the intermediate/packed nodes SymbolWalker already hides).
// Where a subcomponent was ambiguous, pruner picks which derivation to
// expose; nil selects FirstAlternative.
type NonTerminalWalker struct {
	items []*Node
	pos   int
}

// NewNonTerminalWalker creates a walker over start's immediate nonterminal
// subcomponents.
func NewNonTerminalWalker(start *Node, pruner Pruner) *NonTerminalWalker {
	all := symbolChildren(start, resolvePruner(pruner))
	items := make([]*Node, 0, len(all))
	for _, n := range all {
		if n.IsNonTerminal() {
			items = append(items, n)
		}
	}
	return &NonTerminalWalker{items: items, pos: -1}
}

// Next advances to the next nonterminal subcomponent, reporting whether one
// exists.
func (w *NonTerminalWalker) Next() bool {
	if w.pos+1 >= len(w.items) {
		return false
	}
	w.pos++
	return true
}

// Node returns the nonterminal subcomponent the walker is currently
// positioned at, or nil before the first call to Next or after iteration
// has ended.
func (w *NonTerminalWalker) Node() *Node {
	if w.pos < 0 || w.pos >= len(w.items) {
		return nil
	}
	return w.items[w.pos]
}

// Len returns the number of nonterminal subcomponents start was matched
// against.
func (w *NonTerminalWalker) Len() int { return len(w.items) }

func resolvePruner(pruner Pruner) Pruner {
	if pruner == nil {
		return FirstAlternative
	}
	return pruner
}

// symbolChildren returns the flattened, in-rule-order sequence of symbol
// (terminal or nonterminal) nodes that the binarised subtree rooted at n
// represents, resolving ambiguity at each packed fork with pruner.
//
// n may itself already be a symbol node with non-packed children (an
// empty-match placeholder, or a flattened self-recursion chain installed by
// Forest.GetNodeP): in that case its children already are symbol nodes, so
// they are returned directly without descending through a packed layer.
func symbolChildren(n *Node, pruner Pruner) []*Node {
	if n == nil || !n.HasChildren() {
		return nil
	}
	first := n.FirstChild()
	if !first.IsPacked() {
		// Already flattened (self-recursion) or a two-child empty/optional
		// shape produced without an intervening packed node.
		return n.children
	}

	packed := first
	if len(n.children) > 1 {
		idx := pruner.Prune(n)
		if idx < 0 || idx >= len(n.children) {
			idx = 0
		}
		packed = n.children[idx]
	}

	var out []*Node
	for _, c := range packed.children {
		if c.IsIntermediate() {
			out = append(out, symbolChildren(c, pruner)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// --- SubProductionWalker -----------------------------------------------------

// SubProductionWalker behaves like NonTerminalWalker, except that on
// creation it first descends through nonterminal subcomponents covering
// exactly the same token range as the starting node — the "N := M" delegate
// chains that Forest.HideDelegateOrTransparent did not collapse because the
// owning nonterminal was not marked Transparent/HideIfDelegate — until it
// reaches a node whose own extent is a strict subset of the original
// start's. From that point on it walks that node's subcomponents exactly
// like a NonTerminalWalker.
type SubProductionWalker struct {
	*NonTerminalWalker
	root *Node
}

// NewSubProductionWalker creates a walker, first descending through any
// chain of single nonterminal children that do not narrow start's token
// range.
func NewSubProductionWalker(start *Node, pruner Pruner) *SubProductionWalker {
	if pruner == nil {
		pruner = FirstAlternative
	}
	root := start
	for {
		children := symbolChildren(root, pruner)
		if len(children) != 1 || !children[0].IsNonTerminal() {
			break
		}
		if sameExtent(children[0], start) {
			root = children[0]
			continue
		}
		break
	}
	return &SubProductionWalker{NonTerminalWalker: NewNonTerminalWalker(root, pruner), root: root}
}

// Root returns the node the walker settled on after descending through any
// same-extent delegate chain.
func (w *SubProductionWalker) Root() *Node { return w.root }

func sameExtent(a, b *Node) bool {
	return extentKey(a) == extentKey(b)
}

func extentKey(n *Node) [2]token.Offset {
	return [2]token.Offset{n.StartOffset(), n.EndOffset()}
}
