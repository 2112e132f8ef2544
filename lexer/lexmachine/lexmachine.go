/*
Package lexmachine adapts github.com/timtadh/lexmachine's DFA-based scanner
to token.Lexer. Unlike lexer.PatternLexer (tried-in-order regexp rules,
longest match wins at each position) this compiles every rule into a
single DFA up front, which is what makes it suitable for grammars with many
keyword-like terminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lexmachine

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/gllparse/gll/token"
)

// tracer traces with key 'gll.lexer.lexmachine'.
func tracer() tracing.Trace {
	return tracing.Select("gll.lexer.lexmachine")
}

// Adapter owns a compiled lexmachine DFA. Build one with NewAdapter, then
// create a Scanner per input.
type Adapter struct {
	lexer *lexmachine.Lexer
}

// NewAdapter runs init against a fresh lexmachine.Lexer — the caller adds
// its rules with lexer.Add(pattern, MakeToken(kind)) or lexer.Add(pattern,
// Skip) — then compiles the DFA.
func NewAdapter(init func(*lexmachine.Lexer)) (*Adapter, error) {
	lx := lexmachine.NewLexer()
	init(lx)
	if err := lx.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return &Adapter{lexer: lx}, nil
}

// Scanner creates a token.Lexer over input.
func (a *Adapter) Scanner(input []byte) (*Scanner, error) {
	s, err := a.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: s, Error: logError}, nil
}

// Scanner adapts one lexmachine.Scanner run to token.Lexer.
type Scanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ token.Lexer = (*Scanner)(nil)

// SetErrorHandler installs h as the handler invoked when the DFA rejects
// input outright (rather than simply finding no rule to apply); nil resets
// it to a tracer-backed default.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	s.Error = h
}

// Lex implements token.Lexer.
func (s *Scanner) Lex(tok *token.Token) error {
	raw, err, eof := s.scanner.Next()
	for err != nil {
		s.Error(err)
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			s.scanner.TC = ui.FailTC
		}
		raw, err, eof = s.scanner.Next()
	}
	if eof {
		*tok = token.Token{Kind: token.KindEOF}
		return nil
	}

	lmTok := raw.(*lexmachine.Token)
	*tok = token.Token{
		Kind: token.Kind(lmTok.Type),
		// TC is lexmachine's absolute byte offset into the input where the
		// match started; StartColumn/EndColumn only count columns within a
		// line and would misreport position past the first line.
		Offset:   token.Offset(lmTok.TC),
		Length:   uint32(len(lmTok.Lexeme)),
		Line:     lmTok.StartLine,
		Column:   lmTok.StartColumn,
		Spelling: string(lmTok.Lexeme),
	}
	return nil
}

func logError(err error) {
	tracer().Errorf("scanner error: %v", err)
}

// MakeToken builds a lexmachine.Action that wraps a match into a token of
// kind.
func MakeToken(kind token.Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

// Skip is a lexmachine.Action that discards a match (whitespace, comments).
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}
