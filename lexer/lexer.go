/*
Package lexer supplements the engine with a reference Lex implementation: a
regular-expression-table scanner. Rules are tried in declaration order at
the current input position; the longest match wins, ties going to
whichever rule was declared first.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lexer

import (
	"bytes"
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/token"
)

// tracer traces with key 'gll.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("gll.lexer")
}

// Action customizes the token a matched Rule produces; it receives the token
// pre-filled with Kind, Offset, Length, Line, Column and Spelling (the raw
// match text), and may rewrite any of them. Setting Kind to token.KindNull
// makes the lexer swallow the match and continue scanning, the same
// convention PatternLexer::lex uses to implement skip rules (whitespace,
// comments).
type Action func(tok *token.Token)

// Rule is one entry of a PatternLexer's table: a regular expression, the
// token kind it produces by default, and an optional Action to customize or
// suppress that default.
type Rule struct {
	pattern string
	re      *regexp.Regexp
	kind    token.Kind
	action  Action
	enabled bool
}

// NewRule compiles pattern (a Go regexp, implicitly anchored at the current
// scan position) into a Rule that produces tokens of kind.
func NewRule(pattern string, kind token.Kind) Rule {
	re := regexp.MustCompile(`\A(?:` + pattern + `)`)
	re.Longest()
	return Rule{pattern: pattern, re: re, kind: kind, enabled: true}
}

// WithAction attaches action to r, run after a match to customize the
// produced token (e.g. parse a number's value, or discard the match by
// setting Kind to token.KindNull).
func WithAction(r Rule, action Action) Rule {
	r.action = action
	return r
}

// Skip is an Action that discards whatever matched — the rule contributes no
// token, as if it were whitespace or a comment.
func Skip(tok *token.Token) { tok.Kind = token.KindNull }

// Disabled returns a copy of r excluded from matching, mirroring
// PatternLexer::Rule's ExplicitBool enable flag.
func Disabled(r Rule) Rule {
	r.enabled = false
	return r
}

// PatternLexer scans an input buffer against an ordered table of Rules,
// implementing token.Lexer.
type PatternLexer struct {
	rules []Rule
	src   []byte
	pos   int
	line  int
	col   int
}

var _ token.Lexer = (*PatternLexer)(nil)

// New reads all of input and returns a PatternLexer that scans it against
// rules, tried in the order given.
func New(input io.Reader, rules ...Rule) (*PatternLexer, error) {
	src, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	return &PatternLexer{rules: rules, src: src, line: 1, col: 1}, nil
}

// Lex implements token.Lexer: it finds the longest rule match at the current
// position, advances past it, and fills tok. A position none of the rules
// match produces a single-rune token.KindNull token (rather than erroring),
// so that a caller's diagnostics — or token.Stream's livelock detector, if
// the same garbage recurs — can report it; PatternLexer otherwise has no
// notion of a lexical error distinct from "no rule fired".
func (lx *PatternLexer) Lex(tok *token.Token) error {
	for {
		if lx.pos >= len(lx.src) {
			*tok = token.Token{Kind: token.KindEOF, Offset: token.Offset(lx.pos), Line: lx.line, Column: lx.col}
			return nil
		}

		remaining := lx.src[lx.pos:]
		bestLen := -1
		var bestRule *Rule
		for i := range lx.rules {
			r := &lx.rules[i]
			if !r.enabled {
				continue
			}
			loc := r.re.FindIndex(remaining)
			if loc == nil {
				continue
			}
			if loc[1] > bestLen {
				bestLen = loc[1]
				bestRule = r
			}
		}

		if bestRule == nil {
			_, sz := utf8.DecodeRune(remaining)
			*tok = token.Token{
				Kind:     token.KindNull,
				Offset:   token.Offset(lx.pos),
				Length:   uint32(sz),
				Line:     lx.line,
				Column:   lx.col,
				Spelling: string(remaining[:sz]),
			}
			lx.advance(sz)
			tracer().Debugf("no rule matched at offset %d, skipping %d byte(s)", tok.Offset, sz)
			return nil
		}

		matched := remaining[:bestLen]
		*tok = token.Token{
			Kind:     bestRule.kind,
			Offset:   token.Offset(lx.pos),
			Length:   uint32(bestLen),
			Line:     lx.line,
			Column:   lx.col,
			Spelling: string(matched),
		}
		lx.advance(bestLen)
		if bestRule.action != nil {
			bestRule.action(tok)
		}
		if tok.Kind != token.KindNull {
			return nil
		}
		// rule asked to be skipped: loop and scan the next token
	}
}

func (lx *PatternLexer) advance(n int) {
	matched := lx.src[lx.pos : lx.pos+n]
	if nl := bytes.Count(matched, []byte("\n")); nl > 0 {
		lx.line += nl
		lx.col = len(matched) - bytes.LastIndexByte(matched, '\n')
	} else {
		lx.col += n
	}
	lx.pos += n
}
