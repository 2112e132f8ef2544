/*
Command calc parses and evaluates one line of arithmetic: +, -, *, /, unary
sign, parentheses, and decimal/hex/binary number literals. It exists as an
end-to-end demonstration of the engine/grammar/sppf/diag packages working
together.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/calc"
	"github.com/gllparse/gll/diag"
	"github.com/gllparse/gll/engine"
)

func main() {
	debug := flag.Bool("debug", false, "trace ENTER/RESUME/FINISH descriptor steps")
	tlevel := flag.String("trace", "Error", "trace level [Debug|Info|Error]")
	flag.Parse()

	tracing.Select("gll.engine").SetTraceLevel(traceLevel(*tlevel))

	line := strings.Join(flag.Args(), " ")
	if line == "" {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(2)
		}
		line = string(input)
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	result, diags, err := run(line, *debug)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	if len(diags) > 0 {
		for _, d := range diags {
			pterm.Error.Println(fmt.Sprintf("%s at column %d", d.Text, d.Column))
		}
		os.Exit(1)
	}
	pterm.Success.Println(fmt.Sprintf("%.1f", result))
}

// run parses and evaluates line, returning either a value or the
// diagnostics describing why parsing failed.
func run(line string, debug bool) (float64, []diag.Diagnostic, error) {
	g, err := calc.BuildGrammar()
	if err != nil {
		return 0, nil, fmt.Errorf("calc: building grammar: %w", err)
	}

	p := engine.New(g.NonTerminal(calc.StartSymbol), calc.Names)
	p.SetDebug(debug)

	var diags []diag.Diagnostic
	p.Reporter().AddSink(diag.SinkFunc(func(d diag.Diagnostic) {
		diags = append(diags, d)
	}))

	adapter, err := calc.NewLexerAdapter()
	if err != nil {
		return 0, nil, fmt.Errorf("calc: compiling lexer: %w", err)
	}
	lexer, err := calc.Scanner(adapter, []byte(line))
	if err != nil {
		return 0, nil, fmt.Errorf("calc: scanning: %w", err)
	}
	p.SetLexer(lexer)

	root, err := p.Parse(nil)
	if err != nil {
		return 0, nil, fmt.Errorf("calc: parsing: %w", err)
	}
	if root == nil {
		return 0, diags, nil
	}

	v, err := calc.Eval(root)
	if err != nil {
		return 0, nil, err
	}
	return v, nil, nil
}

func traceLevel(s string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(s)
}
