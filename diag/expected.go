package diag

import (
	"strings"

	"github.com/gllparse/gll/token"
)

// FormatExpected renders a sorted, deduplicated list of terminal kinds as an
// "expected X, Y or Z" clause, quoting single-character spellings (e.g.
// '+') the way a lexer's KindNamer would render an operator token.
// token.KindEOF is rendered as "end of input"; token.KindNull is skipped
// (it never denotes something a caller should expect to see).
func FormatExpected(kinds []token.Kind, names func(token.Kind) string) string {
	terms := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if k == token.KindNull {
			continue
		}
		terms = append(terms, quoteIfOperator(token.KindName(k, names)))
	}
	return "expected " + joinExpected(terms)
}

func quoteIfOperator(name string) string {
	if len([]rune(name)) != 1 {
		return name
	}
	if name == "'" {
		return `'\''`
	}
	return "'" + name + "'"
}

// joinExpected joins terms the way the original's report() does: plain
// commas between all but the last two, and "or" (with no preceding comma)
// between the last two.
func joinExpected(terms []string) string {
	switch len(terms) {
	case 0:
		return "<nothing>"
	case 1:
		return terms[0]
	case 2:
		return terms[0] + " or " + terms[1]
	default:
		return strings.Join(terms[:len(terms)-1], ", ") + " or " + terms[len(terms)-1]
	}
}
