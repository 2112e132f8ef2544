package calc

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

func setup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.engine")
	t.Cleanup(teardown)
}

func TestNamesRendersEveryDeclaredKind(t *testing.T) {
	cases := map[token.Kind]string{
		KindNumber:  "number",
		KindPlus:    "+",
		KindMinus:   "-",
		KindStar:    "*",
		KindSlash:   "/",
		KindLParen:  "(",
		KindRParen:  ")",
		KindNewline: "newline",
	}
	for k, want := range cases {
		if got := Names(k); got != want {
			t.Fatalf("Names(%v): got %q, want %q", k, got, want)
		}
	}
	if got := Names(token.KindEOF); got != "" {
		t.Fatalf("Names(KindEOF): got %q, want empty", got)
	}
}

func TestTokenKindsAreDistinctAndUserDefined(t *testing.T) {
	kinds := []token.Kind{KindNumber, KindPlus, KindMinus, KindStar, KindSlash, KindLParen, KindRParen, KindNewline}
	seen := map[token.Kind]bool{}
	for _, k := range kinds {
		if k < token.KindUserMin {
			t.Fatalf("kind %v is below token.KindUserMin", k)
		}
		if seen[k] {
			t.Fatalf("kind %v declared more than once", k)
		}
		seen[k] = true
	}
}

func scanAll(t *testing.T, input string) []token.Token {
	t.Helper()
	adapter, err := NewLexerAdapter()
	if err != nil {
		t.Fatalf("NewLexerAdapter: %v", err)
	}
	lexer, err := Scanner(adapter, []byte(input))
	if err != nil {
		t.Fatalf("Scanner: %v", err)
	}
	var toks []token.Token
	for {
		var tok token.Token
		if err := lexer.Lex(&tok); err != nil {
			t.Fatalf("Lex: %v", err)
		}
		toks = append(toks, tok)
		if tok.IsEOF() {
			return toks
		}
	}
}

func TestLexerTokenizesOperatorsNumbersAndParens(t *testing.T) {
	setup(t)
	toks := scanAll(t, "12 + (3.5 * 0xff) - 0b10\n")
	var kinds []token.Kind
	var spellings []string
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
		spellings = append(spellings, tk.Spelling)
	}
	wantKinds := []token.Kind{
		KindNumber, KindPlus, KindLParen, KindNumber, KindStar, KindNumber,
		KindRParen, KindMinus, KindNumber, KindNewline, token.KindEOF,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("got %d tokens %v, want %d: %v", len(kinds), spellings, len(wantKinds), wantKinds)
	}
	for i, want := range wantKinds {
		if kinds[i] != want {
			t.Fatalf("token %d: got kind %v (%q), want %v", i, kinds[i], spellings[i], want)
		}
	}
	if toks[3].Spelling != "3.5" || toks[5].Spelling != "0xff" || toks[8].Spelling != "0b10" {
		t.Fatalf("unexpected literal spellings: %v", spellings)
	}
}

func TestLexerSkipsSpacesAndTabsOnly(t *testing.T) {
	setup(t)
	toks := scanAll(t, "1\t 2\n")
	if len(toks) != 4 || toks[0].Spelling != "1" || toks[1].Spelling != "2" || toks[2].Kind != KindNewline {
		t.Fatalf("got %+v", toks)
	}
}

func TestBuildGrammarSetsStartAndDefinesEveryNonterminal(t *testing.T) {
	g, err := BuildGrammar()
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	if g.Start() == nil || g.Start().Name() != StartSymbol {
		t.Fatalf("expected the start symbol to be %q", StartSymbol)
	}
	for _, name := range []string{StartSymbol, "TopCont", "Factor", "Expr", "Cont"} {
		if g.NonTerminal(name) == nil {
			t.Fatalf("expected a nonterminal named %q", name)
		}
	}
}

func TestParseNumberDecimalHexAndBinary(t *testing.T) {
	cases := []struct {
		spelling string
		want     float64
	}{
		{"42", 42},
		{"3.5", 3.5},
		{"0xff", 255},
		{"0xFF", 255},
		{"0b101", 5},
	}
	for _, c := range cases {
		tok := token.New(KindNumber, c.spelling, 0, 1, 1)
		got, err := parseNumber(tok)
		if err != nil {
			t.Fatalf("parseNumber(%q): %v", c.spelling, err)
		}
		if got != c.want {
			t.Fatalf("parseNumber(%q): got %v, want %v", c.spelling, got, c.want)
		}
	}
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	tok := token.New(KindNumber, "0xzz", 0, 1, 1)
	if _, err := parseNumber(tok); err == nil {
		t.Fatalf("expected an error for an invalid hex literal")
	}
}

// numberFactorRule locates Factor's "Factor -> NUMBER" alternative, the one
// a bare numeric literal matches.
func numberFactorRule(t *testing.T, g *grammar.Grammar) *grammar.Rule {
	t.Helper()
	factor := g.NonTerminal("Factor")
	for _, r := range factor.Rules() {
		if r.Len() == 1 && r.Component(0).IsTerminal() && r.Component(0).Terminal() == KindNumber {
			return r
		}
	}
	t.Fatalf("no Factor -> NUMBER rule found")
	return nil
}

// numberNode builds the Factor-shaped SPPF node a real parse produces when
// it matches a single numeric literal, the same way engine itself does:
// a terminal node for the literal, wrapped into a NonTerminalKind node via
// the rule's last (and only) slot.
func numberNode(t *testing.T, g *grammar.Grammar, forest *sppf.Forest, spelling string) *sppf.Node {
	t.Helper()
	rule := numberFactorRule(t, g)
	slot := grammar.Slot{Rule: rule, Pos: 0}
	tok := token.New(KindNumber, spelling, 0, 1, 1)
	return forest.GetNodeP(slot, nil, forest.GetNodeT(tok))
}

func TestFoldAppliesMultiplyBeforeAdd(t *testing.T) {
	g, err := BuildGrammar()
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	forest := sppf.NewForest()

	// 1 + 2*3 - 4/2 == 1 + 6 - 2 == 5.
	terms := []term{
		{op: KindPlus, operand: numberNode(t, g, forest, "2")},
		{op: KindStar, operand: numberNode(t, g, forest, "3")},
		{op: KindMinus, operand: numberNode(t, g, forest, "4")},
		{op: KindSlash, operand: numberNode(t, g, forest, "2")},
	}
	got, err := fold(1, terms)
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if got != 5 {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestFoldDivisionByZeroIsAnError(t *testing.T) {
	g, err := BuildGrammar()
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	forest := sppf.NewForest()

	_, err = fold(1, []term{{op: KindSlash, operand: numberNode(t, g, forest, "0")}})
	if err == nil {
		t.Fatalf("expected division by zero to be reported")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("unexpected error: %v", err)
	}
}
