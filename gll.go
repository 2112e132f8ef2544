package gll

import (
	"github.com/gllparse/gll/diag"
	"github.com/gllparse/gll/engine"
	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// Parse wires a grammar, a lexer and a diagnostic sink together and runs the
// GLL engine to completion, the way cmd/calc's own run() and cmd/replay's
// evalLine() each do by hand against the sub-packages directly. It is the
// single-call entry point for a caller that has no need to reach into
// engine.Parser itself (set a custom error limit, inspect the reporter's
// farthest-failure position mid-parse, and so on).
func Parse(start *grammar.NonTerminal, names engine.KindNamer, lexer token.Lexer, sink diag.Sink, debug bool) (*sppf.Node, error) {
	p := engine.New(start, names)
	p.SetDebug(debug)
	p.SetLexer(lexer)
	if sink != nil {
		p.Reporter().AddSink(sink)
	}
	return p.Parse(nil)
}
