package diag

import (
	"fmt"

	"github.com/gllparse/gll/token"
)

// errorLimitID identifies the synthesized Fatal diagnostic a Reporter emits
// once its error limit is reached.
type errorLimitID struct{}

// DefaultErrorLimit matches the original's DEFAULT_ERROR_LIMIT.
const DefaultErrorLimit = 20

type dedupKey struct {
	id     ID
	offset token.Offset
}

// Reporter is what the engine reports diagnostics through. It fans
// diagnostics out to registered Sinks, deduplicates repeated (id, offset)
// reports within one parse, tracks the farthest input position any
// diagnostic concerned (used for error-recovery positioning), and
// synthesizes a Fatal diagnostic once ErrorLimit errors have been reported.
type Reporter struct {
	emitter    Emitter
	counter    Counter
	ErrorLimit int

	seen     map[dedupKey]bool
	farthest *token.Token
	limitHit bool
}

// NewReporter creates a Reporter with the given error limit; limit <= 0
// disables the limit.
func NewReporter(limit int) *Reporter {
	return &Reporter{ErrorLimit: limit, seen: map[dedupKey]bool{}}
}

// AddSink registers s to receive future diagnostics.
func (r *Reporter) AddSink(s Sink) { r.emitter.AddSink(s) }

// Reset clears dedup state, farthest-failure tracking and counts, as the
// engine does at the start of every parse.
func (r *Reporter) Reset() {
	r.seen = map[dedupKey]bool{}
	r.farthest = nil
	r.limitHit = false
	r.counter.Reset()
}

// Farthest returns the token farthest into the input that any diagnostic so
// far has concerned, or nil if none has been reported this parse.
func (r *Reporter) Farthest() *token.Token { return r.farthest }

// Counter exposes the running per-severity tallies.
func (r *Reporter) Counter() *Counter { return &r.counter }

// LimitReached reports whether the error limit has already fired.
func (r *Reporter) LimitReached() bool { return r.limitHit }

// Report records a diagnostic at tok's position, deduplicating repeated
// (id, offset) pairs within this parse (a Reset clears the dedup table).
// It does nothing once the error limit has already fired, except for the
// synthesized limit diagnostic itself.
func (r *Reporter) Report(severity Severity, id ID, tok *token.Token, format string, args ...interface{}) {
	if r.limitHit {
		return
	}
	r.track(tok)

	offset, length, line, column := At(tok)
	key := dedupKey{id: id, offset: offset}
	if r.seen[key] {
		return
	}
	r.seen[key] = true

	d := Diagnostic{
		Severity: severity,
		ID:       id,
		Offset:   offset,
		Length:   length,
		Line:     line,
		Column:   column,
		Text:     fmt.Sprintf(format, args...),
	}
	r.counter.OnDiagnostic(d)
	r.emitter.OnDiagnostic(d)

	if severity >= Error && r.ErrorLimit > 0 && r.counter.ErrorCount() >= r.ErrorLimit {
		r.limitHit = true
		fatal := Diagnostic{
			Severity: Fatal,
			ID:       errorLimitID{},
			Offset:   offset,
			Line:     line,
			Column:   column,
			Text:     fmt.Sprintf("too many errors (limit %d), aborting", r.ErrorLimit),
		}
		r.counter.OnDiagnostic(fatal)
		r.emitter.OnDiagnostic(fatal)
	}
}

func (r *Reporter) track(tok *token.Token) {
	if tok == nil {
		return
	}
	if r.farthest == nil || tok.Offset >= r.farthest.Offset {
		r.farthest = tok
	}
}
