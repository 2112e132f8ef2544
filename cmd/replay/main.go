/*
Command replay is an interactive shell around the arithmetic language in
package calc: every line typed is parsed and evaluated immediately, the way
calc's own CLI does non-interactively, plus a couple of colon-commands to
inspect the most recent parse's forest.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/calc"
	"github.com/gllparse/gll/diag"
	"github.com/gllparse/gll/dot"
	"github.com/gllparse/gll/engine"
	"github.com/gllparse/gll/sppf"
)

func main() {
	tlevel := flag.String("trace", "Error", "trace level [Debug|Info|Error]")
	flag.Parse()

	tracing.Select("gll.engine").SetTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("replay: type an expression, or :tree / :dot FILE / :quit")

	repl, err := readline.New("replay> ")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(3)
	}
	defer repl.Close()

	sh := &shell{repl: repl}
	sh.loop()
}

// shell holds the state a colon-command inspects: the SPPF rooted at the
// most recently successful parse.
type shell struct {
	repl     *readline.Instance
	lastSPPF *sppf.Node
}

func (sh *shell) loop() {
	for {
		line, err := sh.repl.Readline()
		if err != nil { // io.EOF, or ^C with no content
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if sh.command(line) {
				break
			}
			continue
		}
		sh.evalLine(line)
	}
	pterm.Info.Println("bye")
}

// command handles a colon-command, reporting whether the shell should quit.
func (sh *shell) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":tree":
		sh.printTree()
	case ":dot":
		if len(fields) != 2 {
			pterm.Error.Println(":dot needs a file path")
			return false
		}
		sh.writeDot(fields[1])
	default:
		pterm.Error.Println("unknown command: " + fields[0])
	}
	return false
}

// evalLine parses and evaluates one arithmetic expression, printing the
// result or its diagnostics exactly as calc's own CLI wrapper does, and
// remembers the parse forest for a later :tree or :dot.
func (sh *shell) evalLine(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	g, err := calc.BuildGrammar()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("building grammar: %v", err))
		return
	}
	p := engine.New(g.NonTerminal(calc.StartSymbol), calc.Names)

	var diags []diag.Diagnostic
	p.Reporter().AddSink(diag.SinkFunc(func(d diag.Diagnostic) {
		diags = append(diags, d)
	}))

	adapter, err := calc.NewLexerAdapter()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("compiling lexer: %v", err))
		return
	}
	lexer, err := calc.Scanner(adapter, []byte(line))
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("scanning: %v", err))
		return
	}
	p.SetLexer(lexer)

	root, err := p.Parse(nil)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("parsing: %v", err))
		return
	}
	for _, d := range diags {
		pterm.Error.Println(fmt.Sprintf("%s at column %d", d.Text, d.Column))
	}
	if root == nil {
		return
	}
	sh.lastSPPF = root

	v, err := calc.Eval(root)
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.Success.Println(fmt.Sprintf("%.1f", v))
}

// printTree renders the last successful parse's forest as a pterm tree,
// the same way trepl renders a TeREx AST with pterm.DefaultTree.
func (sh *shell) printTree() {
	if sh.lastSPPF == nil {
		pterm.Error.Println("no successful parse yet")
		return
	}
	root := leveledNode(sh.lastSPPF, pterm.LeveledList{}, 0)
	tree := pterm.NewTreeFromLeveledList(root)
	pterm.DefaultTree.WithRoot(tree).Render()
}

// leveledNode flattens n's binarised subtree (packed/intermediate nodes
// included) into a pterm.LeveledList, one entry per node at its depth.
func leveledNode(n *sppf.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if n == nil {
		return ll
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.String()})
	for _, c := range n.Children() {
		ll = leveledNode(c, ll, level+1)
	}
	return ll
}

func (sh *shell) writeDot(path string) {
	if sh.lastSPPF == nil {
		pterm.Error.Println("no successful parse yet")
		return
	}
	if err := dot.WriteFile(path, sh.lastSPPF); err != nil {
		pterm.Error.Println(fmt.Sprintf("writing dot file: %v", err))
		return
	}
	pterm.Info.Println("wrote " + path)
}

func traceLevel(s string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(s)
}
