package sppf

import (
	"fmt"

	"github.com/cnf/structhash"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/token"
)

// Forest owns every Node produced during one parse, and hash-conses symbol
// and intermediate nodes so that structurally identical derivations share
// one Node — the property that makes an SPPF "shared" rather than a bare
// parse tree per derivation.
//
// Packed nodes are not globally hash-consed: the original scans a parent's
// existing children for a matching packed node instead (see findOrCreatePacked),
// since a packed node's identity is only ever meaningful relative to its
// parent.
type Forest struct {
	nodes map[key]*Node
}

// NewForest creates an empty Forest.
func NewForest() *Forest {
	return &Forest{nodes: map[key]*Node{}}
}

func (f *Forest) intern(k key) (*Node, bool) {
	if n, ok := f.nodes[k]; ok {
		return n, false
	}
	n := &Node{kind: k.kind, label: k.label, first: k.first, last: k.last}
	f.nodes[k] = n
	return n, true
}

// GetNodeT returns the canonical terminal symbol node for tok, creating it
// if this is the first time tok has been matched.
func (f *Forest) GetNodeT(tok *token.Token) *Node {
	n, _ := f.intern(key{kind: TerminalKind, first: tok, last: tok})
	return n
}

// GetEmptyNodeAt returns the canonical empty-match node positioned at pos
// (the token that would have come next had anything matched).
func (f *Forest) GetEmptyNodeAt(pos *token.Token) *Node {
	n, _ := f.intern(key{kind: TerminalKind, first: nil, last: pos})
	return n
}

// findOrCreatePacked returns the packed child of parent labelled with slot
// and pivot (honouring empty), creating it if no such child exists yet; a
// newly created node is not attached to parent here, the caller does that
// via AddChild. The bool result reports whether a new node was created.
func (f *Forest) findOrCreatePacked(parent *Node, slot grammar.Slot, pivot *token.Token, empty bool) (*Node, bool) {
	for _, c := range parent.children {
		if !c.IsPacked() || c.Slot() != slot {
			continue
		}
		if empty && c.Empty() && c.last == pivot {
			return c, false
		}
		if !empty && !c.Empty() && c.first == pivot {
			return c, false
		}
	}
	packed := &Node{kind: PackedKind, label: slot}
	if !empty {
		packed.first = pivot
	}
	packed.last = pivot
	return packed, true
}

// GetNodeP builds (or retrieves the already-built) parent node for having
// just matched slot's component, with left being the SPPF built so far for
// everything before it in the rule (nil if slot is the rule's first
// component) and right being the node just produced for the component
// itself.
//
// This is the central binarisation step: it decides the parent's token
// extent from left and right, canonicalizes a symbol node when slot is the
// rule's last component or an intermediate node otherwise, flattens a
// self-recursive intermediate chain into a single sequence of children
// unless the owning nonterminal requests KeepRecursion, and finally attaches
// a (possibly freshly created) packed node carrying left and right.
func (f *Forest) GetNodeP(slot grammar.Slot, left, right *Node) *Node {
	rule := slot.Rule
	onLastSlot := slot.IsLast()

	var leftExtent *token.Token
	switch {
	case left != nil && !left.Empty():
		leftExtent = left.first
	case left != nil && !right.Empty():
		leftExtent = left.last
	case left != nil:
		leftExtent = nil
	case !right.Empty():
		leftExtent = right.first
	default:
		leftExtent = nil
	}

	var rightExtent, pivot *token.Token
	if right.Empty() {
		pivot = right.last
		if left != nil {
			rightExtent = left.last
		} else {
			rightExtent = right.last
		}
	} else {
		pivot = right.first
		rightExtent = right.last
	}

	var parent *Node
	if onLastSlot {
		parent, _ = f.intern(key{kind: NonTerminalKind, label: rule.NonTerminal(), first: leftExtent, last: rightExtent})
	} else {
		parent, _ = f.intern(key{kind: IntermediateKind, label: slot, first: leftExtent, last: rightExtent})

		if left == nil && right.IsNonTerminal() && right.NonTerminal() == rule.NonTerminal() &&
			slot.Component().IsRecursive() && !rule.NonTerminal().KeepRecursion() {
			for _, c := range right.children {
				parent.AddChild(c)
			}
			return parent
		}
	}

	packed, created := f.findOrCreatePacked(parent, slot, pivot, right.Empty())
	if created {
		if left != nil {
			packed.AddChild(left)
		}
		packed.AddChild(right)
		parent.AddChild(packed)
	}
	return parent
}

// HideDelegateOrTransparent replaces parsed with the symbol node it hides
// behind, if parsed's sole packed child comes from a delegate or
// transparent rule (see grammar.Rule.MustHide): "N := M" collapses straight
// to the SPPF already built for M, and a Transparent nonterminal's node is
// never visible at all. It returns parsed unchanged otherwise, and nil if
// parsed is nil.
func HideDelegateOrTransparent(parsed *Node) *Node {
	if parsed == nil {
		return nil
	}
	result := parsed
	child := parsed.FirstChild()
	if child != nil && child.IsPacked() && child == parsed.LastChild() {
		if rule := child.Rule(); rule != nil && rule.MustHide() {
			if child.FirstChild() == child.LastChild() {
				grandchild := child.FirstChild()
				if grandchild != nil && grandchild.IsSymbol() {
					result = grandchild
				}
			}
		}
	}
	return result
}

type hashable struct {
	Kind  uint8
	Label string
	First uint32
	Last  uint32
}

// Hash returns a stable content hash of n, suitable for external
// fingerprinting (e.g. DOT node identifiers); it is not used for in-process
// canonicalization, which relies on native Go map keys instead (see key).
func (n *Node) Hash() string {
	var label string
	switch l := n.label.(type) {
	case *grammar.NonTerminal:
		label = l.Name()
	case grammar.Slot:
		label = fmt.Sprintf("%p#%d", l.Rule, l.Pos)
	}
	h := hashable{Kind: uint8(n.kind), Label: label}
	if n.first != nil {
		h.First = n.first.Offset
	}
	if n.last != nil {
		h.Last = n.last.Offset
	}
	sum, err := structhash.Hash(h, 1)
	if err != nil {
		return fmt.Sprintf("sppf-hash-error:%v", err)
	}
	return sum
}
