/*
Package dot renders an SPPF as a GraphViz DOT graph for visual inspection.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package dot

import (
	"fmt"
	"io"
	"os"

	"github.com/gllparse/gll/sppf"
)

// Write renders the SPPF rooted at root as a DOT graph to w, visiting every
// node reachable from root exactly once (SPPFNode::writeDOTGraph).
func Write(w io.Writer, root *sppf.Node) error {
	bw := &errWriter{w: w}
	fmt.Fprintln(bw, "digraph {")
	fmt.Fprintln(bw, "    graph [ordering=out]")
	writeNodes(bw, root, map[*sppf.Node]bool{})
	fmt.Fprintln(bw, "}")
	return bw.err
}

// WriteFile renders the SPPF rooted at root to a DOT file at path,
// overwriting it if it exists (SPPFNode::writeDOTGraphFile).
func WriteFile(path string, root *sppf.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, root)
}

// writeNodes is the DFS of SPPFNode::writeDOTNodes, guarded against
// revisiting a node reached by more than one path (the original's
// Parser::GLL variant instead iterates a flat sppf_nodes_ arena; walking
// the tree with a visited set gets the same "every node written once"
// result without needing the engine's own bookkeeping).
func writeNodes(w io.Writer, n *sppf.Node, seen map[*sppf.Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	writeNode(w, n)
	for _, c := range n.Children() {
		writeNodes(w, c, seen)
	}
}

func writeNode(w io.Writer, n *sppf.Node) {
	id := nodeID(n)
	fmt.Fprintf(w, "    %s [label=%q", id, label(n))
	switch n.Kind() {
	case sppf.IntermediateKind:
		fmt.Fprint(w, ";shape=box")
	case sppf.PackedKind:
		fmt.Fprint(w, ";shape=point")
	}
	fmt.Fprintln(w, "]")

	for _, c := range n.Children() {
		fmt.Fprintf(w, "    %s -> %s", id, nodeID(c))
		if c.IsPacked() {
			fmt.Fprintf(w, " [headlabel=%q]", nodeID(c))
		}
		fmt.Fprintln(w, ";")
	}
}

func nodeID(n *sppf.Node) string {
	return fmt.Sprintf("N%p", n)
}

func label(n *sppf.Node) string {
	switch n.Kind() {
	case sppf.TerminalKind:
		if n.Empty() {
			return fmt.Sprintf("%d (empty)", n.StartOffset())
		}
		return fmt.Sprintf("%d '%s'", n.StartOffset(), n.FirstToken().Spelling)

	case sppf.NonTerminalKind:
		name := "?"
		if nt := n.NonTerminal(); nt != nil {
			name = nt.Name()
		}
		if n.Empty() {
			return fmt.Sprintf("%s\n(empty @ %d)", name, n.StartOffset())
		}
		return fmt.Sprintf("%s\n%d '%s' - %d '%s'", name,
			n.StartOffset(), n.FirstToken().Spelling,
			n.EndOffset(), n.LastToken().Spelling)

	case sppf.IntermediateKind:
		head := "?"
		if rule := n.Rule(); rule != nil {
			head = fmt.Sprintf("%s.%d", rule.NonTerminal().Name(), rule.Index())
			if c := n.Component(); c != nil {
				head += fmt.Sprintf("[%d]", c.Index())
			}
		}
		if n.Empty() {
			return fmt.Sprintf("%s\n(empty @ %d)", head, n.StartOffset())
		}
		return fmt.Sprintf("%s\n%d '%s' - %d '%s'", head,
			n.StartOffset(), n.FirstToken().Spelling,
			n.EndOffset(), n.LastToken().Spelling)

	case sppf.PackedKind:
		return fmt.Sprintf("%v", n.Slot())

	default:
		return ""
	}
}

// errWriter lets writeNodes ignore per-call fmt.Fprint errors and surface
// the first one at the end of Write, rather than threading an error return
// through every recursive call.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
