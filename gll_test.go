package gll

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gllparse/gll/calc"
	"github.com/gllparse/gll/diag"
)

func TestParseRunsEndToEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.engine")
	t.Cleanup(teardown)

	g, err := calc.BuildGrammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	adapter, err := calc.NewLexerAdapter()
	if err != nil {
		t.Fatalf("compiling lexer: %v", err)
	}
	lexer, err := calc.Scanner(adapter, []byte("1+2*3\n"))
	if err != nil {
		t.Fatalf("scanning: %v", err)
	}

	var diags []diag.Diagnostic
	root, err := Parse(g.NonTerminal(calc.StartSymbol), calc.Names, lexer,
		diag.SinkFunc(func(d diag.Diagnostic) { diags = append(diags, d) }), false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if root == nil {
		t.Fatalf("expected a successful parse")
	}

	v, err := calc.Eval(root)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestParseWithNilSinkStillReportsFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.engine")
	t.Cleanup(teardown)

	g, err := calc.BuildGrammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	adapter, err := calc.NewLexerAdapter()
	if err != nil {
		t.Fatalf("compiling lexer: %v", err)
	}
	lexer, err := calc.Scanner(adapter, []byte("1 2\n"))
	if err != nil {
		t.Fatalf("scanning: %v", err)
	}

	root, err := Parse(g.NonTerminal(calc.StartSymbol), calc.Names, lexer, nil, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root != nil {
		t.Fatalf("expected no parse for invalid input")
	}
}
