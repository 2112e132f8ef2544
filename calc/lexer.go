package calc

import (
	lexmachine "github.com/timtadh/lexmachine"

	lmadapter "github.com/gllparse/gll/lexer/lexmachine"
	"github.com/gllparse/gll/token"
)

// NewLexerAdapter compiles the DFA once; Scanner (below) creates one
// token.Lexer per input off of it.
func NewLexerAdapter() (*lmadapter.Adapter, error) {
	return lmadapter.NewAdapter(func(lx *lexmachine.Lexer) {
		lx.Add([]byte(`[ \t]+`), lmadapter.Skip)
		lx.Add([]byte(`0[xX][0-9a-fA-F]+`), lmadapter.MakeToken(KindNumber))
		lx.Add([]byte(`0[bB][01]+`), lmadapter.MakeToken(KindNumber))
		lx.Add([]byte(`[0-9]+(\.[0-9]+)?`), lmadapter.MakeToken(KindNumber))
		lx.Add([]byte(`\+`), lmadapter.MakeToken(KindPlus))
		lx.Add([]byte(`-`), lmadapter.MakeToken(KindMinus))
		lx.Add([]byte(`\*`), lmadapter.MakeToken(KindStar))
		lx.Add([]byte(`/`), lmadapter.MakeToken(KindSlash))
		lx.Add([]byte(`\(`), lmadapter.MakeToken(KindLParen))
		lx.Add([]byte(`\)`), lmadapter.MakeToken(KindRParen))
		lx.Add([]byte(`\n`), lmadapter.MakeToken(KindNewline))
	})
}

// Scanner creates a token.Lexer over input, ready to hand to
// engine.Parser.SetLexer.
func Scanner(adapter *lmadapter.Adapter, input []byte) (token.Lexer, error) {
	return adapter.Scanner(input)
}
