/*
Package gll is a Generalized LL (GLL) parsing engine: it accepts any
context-free grammar, including ambiguous and left-recursive ones, and
produces a Shared Packed Parse Forest (SPPF) compactly representing every
derivation. Package structure is as follows:

■ token: Token, Kind and the linked input stream a Lexer produces tokens
into.

■ grammar: Component, Rule, NonTerminal, Grammar and the fluent Builder
used to assemble one, plus first-set analysis.

■ sppf: the parse forest itself — hash-consed nodes, the binarising
get_node_t/get_node_p construction, and walkers that hide that
binarisation from a consumer.

■ gss: the graph-structured stack the engine threads descriptors through
to share work between ambiguous derivations.

■ diag: diagnostics — severities, a Sink consumers implement to receive
them, and a Reporter tracking farthest-failure position and dedup.

■ engine: the GLL driving loop itself, turning a grammar, a lexer and a
start symbol into an SPPF root.

■ lexer and lexer/lexmachine: two concrete implementations of token.Lexer,
a regexp-table scanner and a DFA-compiled lexmachine adapter.

■ dot: GraphViz/DOT export of an SPPF, for inspecting a parse by eye.

■ calc and cmd/calc, cmd/replay: a worked arithmetic-language example
wiring all of the above together, as a non-interactive calculator and an
interactive shell.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gll
