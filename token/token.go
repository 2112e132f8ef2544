/*
Package token implements the lexeme type shared by every other package in
this module.

A Token is an immutable record of one lexeme: its kind, its byte offset and
length within the input, its line/column, a handful of bit flags and a link
to the next token read. Tokens are chained into a singly-linked Stream by
whichever Lexer fed them to the engine; the engine itself never mutates a
Token's Kind or Offset once created.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package token

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gll.token'.
func tracer() tracing.Trace {
	return tracing.Select("gll.token")
}

// Kind is a token's type, i.e. its grammatical "meaning". Values below
// KindUserMin are reserved for this package; embedders define their own
// kinds at or above KindUserMin.
type Kind uint16

const (
	// KindNull expresses "empty token" or "any token" depending on context;
	// never a valid kind for an actually-read token.
	KindNull Kind = 0
	// KindEOF represents end of input.
	KindEOF Kind = 1
	// KindUserMin is the first language-specific kind value.
	KindUserMin Kind = 0x0400
)

// Flags is a 16-bit bitfield attached to every Token. The low two bits are
// reserved for this package; bits 8-15 are available for language-specific
// use (TF_USER_MIN in the original C++ source).
type Flags uint16

const (
	// SpaceBefore marks a token immediately preceded by whitespace.
	SpaceBefore Flags = 1 << 0
	// StartsLine marks a token that is the first on its source line.
	StartsLine Flags = 1 << 1
	// UserMin is the first language-specific flag bit.
	UserMin Flags = 1 << 8
)

// Offset is a byte offset into the original input.
type Offset = uint32

// Token is one lexeme. Token values are allocated once by a Lexer and never
// mutated by the parsing engine; the engine only ever follows Next links.
type Token struct {
	Kind     Kind
	Offset   Offset
	Length   uint32
	Line     int
	Column   int
	Flags    Flags
	Spelling string // owned by the lexer's storage arena

	next *Token
}

// New creates a Token with the given kind and spelling at offset, line and
// column.
func New(kind Kind, spelling string, offset Offset, line, column int) *Token {
	return &Token{
		Kind:     kind,
		Offset:   offset,
		Length:   uint32(len(spelling)),
		Line:     line,
		Column:   column,
		Spelling: spelling,
	}
}

// Next returns the token chained after this one, or nil if none has been
// read yet.
func (t *Token) Next() *Token {
	if t == nil {
		return nil
	}
	return t.next
}

// SetNext links t to following, as done by the Stream that owns t while
// demanding tokens from a Lexer. Not for use by embedders.
func (t *Token) SetNext(following *Token) { t.next = following }

// IsEOF reports whether t represents end of input.
func (t *Token) IsEOF() bool { return t == nil || t.Kind == KindEOF }

// EndOffset returns the offset one past the last byte of t.
func (t *Token) EndOffset() Offset {
	if t == nil {
		return 0
	}
	return t.Offset + t.Length
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Spelling != "" {
		return fmt.Sprintf("%d:%q@%d", t.Kind, t.Spelling, t.Offset)
	}
	return fmt.Sprintf("%d@%d", t.Kind, t.Offset)
}

// KindName renders a Kind using a language-specific naming function, falling
// back to a numeric rendering; used by diagnostics when no Stringer has been
// registered for TOK_NULL/TOK_EOF.
func KindName(k Kind, names func(Kind) string) string {
	switch k {
	case KindNull:
		return "<null>"
	case KindEOF:
		return "end of input"
	default:
		if names != nil {
			if n := names(k); n != "" {
				return n
			}
		}
		return fmt.Sprintf("token(%d)", uint16(k))
	}
}

// --- Stream ------------------------------------------------------------

// Lexer is the capability interface consumed by the core. It must populate
// tok with kind/offset/line/column/length/flags/spelling and, on end of
// input, set Kind = KindEOF. On an unrecoverable error it should set
// Kind = KindNull and emit a diagnostic through whatever sink it was
// configured with; Stream treats three consecutive KindNull reads at the
// same offset as a fatal "lexer not returning tokens" condition.
type Lexer interface {
	Lex(tok *Token) error
}

// Stream owns the singly-linked list of tokens read so far for one parse.
// It lazily demands tokens from a Lexer and exposes them by position,
// mirroring Parser::nextToken in the original C++ source.
type Stream struct {
	lexer     Lexer
	first     *Token
	last      *Token
	nullSeen  int
	nullAt    Offset
}

// NewStream creates a token stream drawing from lexer.
func NewStream(lexer Lexer) *Stream {
	return &Stream{lexer: lexer}
}

// SetLexer rebinds the stream to a new lexer without discarding buffered
// tokens already read.
func (s *Stream) SetLexer(lexer Lexer) { s.lexer = lexer }

// Reset empties the buffered token list, preserving the lexer binding.
func (s *Stream) Reset() {
	s.first, s.last = nil, nil
	s.nullSeen, s.nullAt = 0, 0
}

// First returns the first token, lazily reading it if necessary.
func (s *Stream) First() (*Token, error) {
	if s.first == nil {
		t, err := s.read()
		if err != nil {
			return nil, err
		}
		s.first, s.last = t, t
	}
	return s.first, nil
}

// After returns the token following pos, lazily invoking the lexer if pos is
// the last token read so far. pos == nil returns the first token.
func (s *Stream) After(pos *Token) (*Token, error) {
	if pos == nil {
		return s.First()
	}
	if n := pos.Next(); n != nil {
		return n, nil
	}
	if pos != s.last {
		// pos belongs to a stream that has since been Reset; nothing to
		// chain onto.
		return nil, nil
	}
	t, err := s.read()
	if err != nil {
		return nil, err
	}
	pos.SetNext(t)
	s.last = t
	return t, nil
}

func (s *Stream) read() (*Token, error) {
	var t Token
	if err := s.lexer.Lex(&t); err != nil {
		return nil, err
	}
	if t.Kind == KindNull {
		if t.Offset == s.nullAt {
			s.nullSeen++
		} else {
			s.nullSeen = 1
			s.nullAt = t.Offset
		}
		if s.nullSeen >= 3 {
			return nil, fmt.Errorf("token: lexer not returning tokens at offset %d", t.Offset)
		}
	} else {
		s.nullSeen = 0
	}
	tracer().Debugf("token.Stream read %v", &t)
	return &t, nil
}
