package engine

import (
	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// ParseState is the view of in-progress parsing passed to predicates and
// pre-/post-parse actions; it satisfies grammar.State. Embedders that need
// more than Current/Depth can recover the concrete type with a type
// assertion to reach Rule, Node and Parser.
type ParseState struct {
	parser *Parser
	start  *grammar.NonTerminal
	rule   *grammar.Rule
	pos    *token.Token
	depth  int
	node   *sppf.Node
}

// Current returns the token the engine is currently positioned at.
func (s *ParseState) Current() *token.Token { return s.pos }

// Depth returns the current GSS recursion depth.
func (s *ParseState) Depth() int { return s.depth }

// Rule returns the rule being matched when this state was built.
func (s *ParseState) Rule() *grammar.Rule { return s.rule }

// Node returns the SPPF node accumulated so far for the rule being
// matched, or nil before its first component has matched.
func (s *ParseState) Node() *sppf.Node { return s.node }

// Parser returns the engine driving this parse.
func (s *ParseState) Parser() *Parser { return s.parser }

// Start returns the grammar's entry-point nonterminal.
func (s *ParseState) Start() *grammar.NonTerminal { return s.start }
