package calc

import "github.com/gllparse/gll/grammar"

// StartSymbol names the grammar's entry point; the debug trace requirement
// (ENTER arithmetic-expr before any FINISH) depends on this exact name.
const StartSymbol = "arithmetic-expr"

// BuildGrammar assembles the arithmetic grammar. Precedence between '*'/'/'
// and '+'/'-' is not expressed structurally (there is no separate Term
// tier) — both bind at the same flat Cont/TopCont level, and eval.go
// recovers precedence semantically with a two-pass fold over the matched
// operator/operand sequence. This keeps each nonterminal's first set a
// single flat set of operator spellings, which is what lets NO_RULE
// diagnostics name every legal continuation in one list instead of
// splitting it across grammar tiers.
//
// A NEWLINE terminates the top-level expression; Cont (used for the body
// of a parenthesized sub-expression) terminates on an empty match instead,
// leaving the closing ')' for Factor's own paren rule to consume.
func BuildGrammar() (*grammar.Grammar, error) {
	b := grammar.NewBuilder("arithmetic")

	b.LHS(StartSymbol).N("Factor").N("TopCont").End()

	b.LHS("TopCont").T(KindPlus).N("Factor").N("TopCont").End()
	b.LHS("TopCont").T(KindMinus).N("Factor").N("TopCont").End()
	b.LHS("TopCont").T(KindStar).N("Factor").N("TopCont").End()
	b.LHS("TopCont").T(KindSlash).N("Factor").N("TopCont").End()
	b.LHS("TopCont").T(KindNewline).End()

	b.LHS("Factor").T(KindNumber).End()
	b.LHS("Factor").T(KindLParen).N("Expr").T(KindRParen).End()
	b.LHS("Factor").T(KindPlus).N("Factor").End()
	b.LHS("Factor").T(KindMinus).N("Factor").End()

	b.LHS("Expr").N("Factor").N("Cont").End()

	b.LHS("Cont").T(KindPlus).N("Factor").N("Cont").End()
	b.LHS("Cont").T(KindMinus).N("Factor").N("Cont").End()
	b.LHS("Cont").T(KindStar).N("Factor").N("Cont").End()
	b.LHS("Cont").T(KindSlash).N("Factor").N("Cont").End()
	b.LHS("Cont").Epsilon()

	g, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	g.SetStart(g.NonTerminal(StartSymbol))
	return g, nil
}
