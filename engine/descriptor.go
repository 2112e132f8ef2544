package engine

import (
	"github.com/gllparse/gll/gss"
	"github.com/gllparse/gll/grammar"
	"github.com/gllparse/gll/sppf"
	"github.com/gllparse/gll/token"
)

// descriptor is one work item of R: "resume parsing at slot from gssHead,
// positioned at inputPos, with sppf accumulated so far for the current
// rule". advance defers consuming a token until the descriptor is actually
// processed, so that debug traces report the offset it was matched at
// rather than the offset it was predicted at.
type descriptor struct {
	slot     grammar.Slot
	gssHead  *gss.Node
	inputPos *token.Token
	sppf     *sppf.Node
	depth    int
	advance  bool
}

// visitedKey is what distinguishes entries of U, the set of descriptors
// already added to R at some point during the current parse.
type visitedKey struct {
	inputPos *token.Token
	slot     grammar.Slot
	gssHead  *gss.Node
	sppf     *sppf.Node
}

// mismatchKind classifies why a rule stopped matching, mirroring the
// original's Mismatch::Kind; used to decide what a reported diagnostic
// should say.
type mismatchKind uint8

const (
	mismatchNone mismatchKind = iota
	mismatchNoRule
	mismatchTerminal
	mismatchPredicate
	mismatchPostAction
)

// mismatch records one failed derivation attempt, kept around so that once
// the whole parse fails, the engine can report the single mismatch that
// reached farthest into the input.
type mismatch struct {
	d    descriptor
	kind mismatchKind
}
