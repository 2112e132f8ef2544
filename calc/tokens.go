/*
Package calc implements a small arithmetic language — +, -, *, /, unary
sign, parentheses, decimal/hex/binary number literals — as a worked
example wiring grammar, engine, sppf and diag together end to end.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package calc

import "github.com/gllparse/gll/token"

// Terminal kinds for the arithmetic language: two-operand precedence is
// resolved after parsing (see eval.go), so the grammar itself only needs to
// tell operators apart from each other and from numbers, parens and the
// line terminator.
const (
	KindNumber token.Kind = token.KindUserMin + iota
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindLParen
	KindRParen
	KindNewline
)

// Names renders a terminal kind for diagnostics, passed to engine.New and
// grammar.Dump as a grammar.KindNamer.
func Names(k token.Kind) string {
	switch k {
	case KindNumber:
		return "number"
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindStar:
		return "*"
	case KindSlash:
		return "/"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	case KindNewline:
		return "newline"
	default:
		return ""
	}
}
