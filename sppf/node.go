/*
Package sppf implements Shared Packed Parse Forests: the compact,
ambiguity-preserving parse result built by the engine as it runs.

An SPPF is made of Nodes of four kinds. Symbol nodes (NonTerminalKind,
TerminalKind) represent a matched terminal or nonterminal, labelled with the
range of tokens they cover (possibly empty). Intermediate nodes tie together
a partially matched rule during binarisation and are labelled with a grammar
slot. Packed nodes represent one complete parse of their parent — more than
one packed child under the same parent means the input was ambiguous at that
point — and are also labelled with a slot, plus the pivot token where their
left child ends and right child begins.

Nodes are built exclusively through a Forest, which hash-conses symbol and
intermediate nodes so that structurally identical derivations always share
the same Node.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sppf

import (
	"fmt"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/token"
)

// Kind identifies what a Node represents.
type Kind uint8

const (
	// NonTerminalKind nodes are labelled with the nonterminal they matched.
	NonTerminalKind Kind = iota
	// TerminalKind nodes are labelled with the single token they matched;
	// they never have children.
	TerminalKind
	// PackedKind nodes represent one complete parse of their parent, and are
	// labelled with a grammar slot plus a pivot token.
	PackedKind
	// IntermediateKind nodes tie together a partially matched rule during
	// binarisation, and are labelled with a grammar slot.
	IntermediateKind
)

func (k Kind) String() string {
	switch k {
	case NonTerminalKind:
		return "nonterminal"
	case TerminalKind:
		return "terminal"
	case PackedKind:
		return "packed"
	case IntermediateKind:
		return "intermediate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// AuxData is arbitrary data an embedder may attach to a Node with
// SetAux/Aux, e.g. an evaluated value or an AST fragment.
type AuxData interface{}

// Node is one SPPF node. Nodes are immutable except for their child list
// (which only ever grows, never shrinks or reorders once a child is
// appended) and their attached AuxData.
type Node struct {
	kind  Kind
	label interface{} // *grammar.NonTerminal, grammar.Slot, or nil (terminal)

	first, last *token.Token // first == nil means "matches empty"

	children []*Node
	aux      AuxData
}

// Kind returns n's kind.
func (n *Node) Kind() Kind { return n.kind }

// IsNonTerminal reports whether n is a nonterminal symbol node.
func (n *Node) IsNonTerminal() bool { return n.kind == NonTerminalKind }

// IsTerminal reports whether n is a terminal symbol node.
func (n *Node) IsTerminal() bool { return n.kind == TerminalKind }

// IsSymbol reports whether n is a terminal or nonterminal symbol node.
func (n *Node) IsSymbol() bool { return n.kind == NonTerminalKind || n.kind == TerminalKind }

// IsPacked reports whether n is a packed node.
func (n *Node) IsPacked() bool { return n.kind == PackedKind }

// IsIntermediate reports whether n is an intermediate node.
func (n *Node) IsIntermediate() bool { return n.kind == IntermediateKind }

// NonTerminal returns the nonterminal n is labelled with, or nil.
func (n *Node) NonTerminal() *grammar.NonTerminal {
	if n.kind != NonTerminalKind {
		return nil
	}
	nt, _ := n.label.(*grammar.NonTerminal)
	return nt
}

// Terminal returns the token kind n is labelled with, or token.KindNull if n
// is not a terminal symbol node.
func (n *Node) Terminal() token.Kind {
	if n.kind != TerminalKind || n.Empty() {
		return token.KindNull
	}
	return n.first.Kind
}

// Slot returns the grammar slot n is labelled with, for intermediate and
// packed nodes; the zero Slot otherwise.
func (n *Node) Slot() grammar.Slot {
	s, _ := n.label.(grammar.Slot)
	return s
}

// Rule returns the rule associated with n's slot, for intermediate and
// packed nodes, or nil.
func (n *Node) Rule() *grammar.Rule {
	if s, ok := n.label.(grammar.Slot); ok {
		return s.Rule
	}
	return nil
}

// Component returns the component associated with n's slot, for
// intermediate and packed nodes, or nil.
func (n *Node) Component() *grammar.Component {
	if s, ok := n.label.(grammar.Slot); ok {
		return s.Component()
	}
	return nil
}

// Empty reports whether n covers zero tokens.
func (n *Node) Empty() bool { return n.first == nil }

// FirstToken returns the first token n covers, or nil if Empty.
func (n *Node) FirstToken() *token.Token { return n.first }

// LastToken returns the last token n covers (even when Empty, in which case
// it is the token immediately following the empty match, used as a
// position marker).
func (n *Node) LastToken() *token.Token { return n.last }

// StartOffset returns the byte offset n's match starts at.
func (n *Node) StartOffset() token.Offset {
	if n.first != nil {
		return n.first.Offset
	}
	if n.last != nil {
		return n.last.Offset
	}
	return 0
}

// EndOffset returns the byte offset one past n's match.
func (n *Node) EndOffset() token.Offset {
	if n.last != nil && n.first != nil {
		return n.last.EndOffset()
	}
	return n.StartOffset()
}

// Children returns n's children in order. Do not mutate the returned slice.
func (n *Node) Children() []*Node { return n.children }

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// FirstChild returns n's first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns n's last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// AddChild appends child to n's child list, unless child is a packed node
// and n already has children, in which case it is prepended — ensuring an
// ambiguity introduced later in the parse still surfaces as the first
// packed alternative seen by a walker, matching the construction order of
// the original.
func (n *Node) AddChild(child *Node) {
	if child == n {
		panic("sppf: node cannot be its own child")
	}
	if child.kind == PackedKind && len(n.children) > 0 {
		n.children = append([]*Node{child}, n.children...)
		return
	}
	n.children = append(n.children, child)
}

// Aux returns the auxiliary data attached to n, or nil.
func (n *Node) Aux() AuxData { return n.aux }

// SetAux attaches data to n for later retrieval via Aux.
func (n *Node) SetAux(data AuxData) { n.aux = data }

// Is reports whether n is a symbol node labelled with the given terminal
// kind.
func (n *Node) Is(kind token.Kind) bool {
	return n.kind == TerminalKind && n.Terminal() == kind
}

// IsNonTerminalOf reports whether n itself is a nonterminal symbol node
// labelled with nt; n's children are not inspected.
func (n *Node) IsNonTerminalOf(nt *grammar.NonTerminal) bool {
	return n.kind == NonTerminalKind && n.NonTerminal() == nt
}

// Find searches depth-first for the nearest descendant (or n itself)
// labelled with nt, stopping after maxDepth levels (a negative maxDepth
// means unbounded). It returns nil if none is found.
func (n *Node) Find(nt *grammar.NonTerminal, maxDepth int) *Node {
	if n == nil {
		return nil
	}
	if n.IsNonTerminalOf(nt) {
		return n
	}
	if maxDepth == 0 {
		return nil
	}
	next := maxDepth - 1
	for _, c := range n.children {
		if found := c.Find(nt, next); found != nil {
			return found
		}
	}
	return nil
}

// content renders up to maxTokens of spelling covered by n, or all of it
// when maxTokens < 0; used by String and diagnostics.
func (n *Node) content(maxTokens int) string {
	if n.Empty() {
		return ""
	}
	var b []byte
	t := n.first
	for i := 0; t != nil && t != n.last.Next() && (maxTokens < 0 || i < maxTokens); i, t = i+1, t.Next() {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t.Spelling...)
	}
	return string(b)
}

func (n *Node) String() string {
	switch n.kind {
	case NonTerminalKind:
		return fmt.Sprintf("%s[%d..%d]", n.NonTerminal().Name(), n.StartOffset(), n.EndOffset())
	case TerminalKind:
		return fmt.Sprintf("%v", n.last)
	case PackedKind:
		return fmt.Sprintf("packed@%v", n.Slot())
	case IntermediateKind:
		return fmt.Sprintf("intermediate@%v[%d..%d]", n.Slot(), n.StartOffset(), n.EndOffset())
	default:
		return "<invalid sppf node>"
	}
}

// key is the hash-consing key for symbol and intermediate nodes: structural
// equality of (kind, label, first, last) implies pointer equality of the
// canonicalized Node, which is exactly the contract a walker needs of
// Node.Hash.
type key struct {
	kind        Kind
	label       interface{}
	first, last *token.Token
}
