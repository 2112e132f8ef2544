package calc

import (
	"fmt"
	"strconv"

	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// Eval walks the SPPF rooted at root (the result of a successful parse
// against StartSymbol) and computes its arithmetic value.
func Eval(root *sppf.Node) (float64, error) {
	return evalTopLevel(root)
}

// term is one '+'/'-'/'*'/'/' operation and its right-hand operand, as
// matched by a single TopCont/Cont alternative.
type term struct {
	op      token.Kind
	operand *sppf.Node
}

// evalTopLevel handles both arithmetic-expr (Factor TopCont) and Expr
// (Factor Cont): both rules have the identical two-symbol shape, so one
// function covers both.
func evalTopLevel(node *sppf.Node) (float64, error) {
	items := symbolChildren(node)
	if len(items) != 2 {
		return 0, fmt.Errorf("calc: %s: expected Factor and a continuation, got %d children", node, len(items))
	}
	first, err := evalFactor(items[0])
	if err != nil {
		return 0, err
	}
	terms, err := collectTerms(items[1])
	if err != nil {
		return 0, err
	}
	return fold(first, terms)
}

// evalFactor handles Factor's four alternatives: a bare number, a
// parenthesized sub-expression, or a unary '+'/'-' applied recursively.
func evalFactor(node *sppf.Node) (float64, error) {
	items := symbolChildren(node)
	switch len(items) {
	case 1:
		return parseNumber(items[0].FirstToken())
	case 2:
		v, err := evalFactor(items[1])
		if err != nil {
			return 0, err
		}
		if items[0].Terminal() == KindMinus {
			return -v, nil
		}
		return v, nil
	case 3:
		return evalTopLevel(items[1])
	default:
		return 0, fmt.Errorf("calc: %s: unexpected Factor shape with %d children", node, len(items))
	}
}

// collectTerms flattens a TopCont/Cont node into the flat list of
// operations it matched, recursing through the right-recursive chain. A
// bare terminal node (Cont's empty alternative, at any depth of the chain)
// or a single-child continuation (TopCont's trailing NEWLINE) both mean
// "no more terms".
func collectTerms(node *sppf.Node) ([]term, error) {
	if node == nil || node.IsTerminal() {
		return nil, nil
	}
	items := symbolChildren(node)
	if len(items) == 1 {
		return nil, nil
	}
	if len(items) != 3 {
		return nil, fmt.Errorf("calc: %s: unexpected continuation shape with %d children", node, len(items))
	}
	rest, err := collectTerms(items[2])
	if err != nil {
		return nil, err
	}
	return append([]term{{op: items[0].Terminal(), operand: items[1]}}, rest...), nil
}

// fold applies standard precedence by folding in two passes over the
// matched term sequence: '*'/'/' bind first, then '+'/'-', each left to
// right — the grammar itself is flat, so precedence is entirely a
// semantic property of how fold combines an already-parsed sequence.
func fold(first float64, terms []term) (float64, error) {
	values := make([]float64, 1, len(terms)+1)
	values[0] = first
	ops := make([]token.Kind, 0, len(terms))
	for _, t := range terms {
		v, err := evalFactor(t.operand)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
		ops = append(ops, t.op)
	}

	reducedValues := values[:1:1]
	var reducedOps []token.Kind
	for i, op := range ops {
		switch op {
		case KindStar:
			reducedValues[len(reducedValues)-1] *= values[i+1]
		case KindSlash:
			if values[i+1] == 0 {
				return 0, fmt.Errorf("calc: division by zero")
			}
			reducedValues[len(reducedValues)-1] /= values[i+1]
		default:
			reducedValues = append(reducedValues, values[i+1])
			reducedOps = append(reducedOps, op)
		}
	}

	result := reducedValues[0]
	for i, op := range reducedOps {
		switch op {
		case KindPlus:
			result += reducedValues[i+1]
		case KindMinus:
			result -= reducedValues[i+1]
		}
	}
	return result, nil
}

// symbolChildren flattens node's immediate symbol-level subcomponents,
// ambiguity in this grammar never survives to eval time (every rule here
// is LL(1) on its own terminal), so the default FirstAlternative pruner is
// always correct.
func symbolChildren(node *sppf.Node) []*sppf.Node {
	w := sppf.NewSymbolWalker(node, nil)
	items := make([]*sppf.Node, 0, w.Len())
	for w.Next() {
		items = append(items, w.Node())
	}
	return items
}

func parseNumber(tok *token.Token) (float64, error) {
	s := tok.Spelling
	switch {
	case len(s) > 1 && (s[1] == 'x' || s[1] == 'X') && s[0] == '0':
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("calc: invalid hex literal %q: %w", s, err)
		}
		return float64(n), nil
	case len(s) > 1 && (s[1] == 'b' || s[1] == 'B') && s[0] == '0':
		n, err := strconv.ParseUint(s[2:], 2, 64)
		if err != nil {
			return 0, fmt.Errorf("calc: invalid binary literal %q: %w", s, err)
		}
		return float64(n), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("calc: invalid number literal %q: %w", s, err)
		}
		return f, nil
	}
}
