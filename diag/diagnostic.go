/*
Package diag implements diagnostic reporting for the parsing engine:
severities, a stable per-kind identity used for deduplication, a Sink
interface embedders implement to receive diagnostics, and a Reporter that
the engine uses to track the farthest point the parse failed at, deduplicate
repeated reports, and enforce an error limit.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package diag

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/gllparse/gll/token"
)

// tracer traces with key 'gll.diag'.
func tracer() tracing.Trace {
	return tracing.Select("gll.diag")
}

// Severity classifies a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ID is a diagnostic's stable identity, used to deduplicate repeated reports
// at the same input offset. Embedders typically use a small int or string
// constant; this package reserves none for itself except the unexported
// ID the Reporter uses for its error-limit Fatal diagnostic.
type ID interface{}

// Diagnostic is one reportable event: a severity, a stable ID, the input
// range it concerns, and rendered text.
type Diagnostic struct {
	Severity    Severity
	ID          ID
	Offset      token.Offset
	Length      uint32
	Line        int
	Column      int
	Text        string
}

// At returns tok's offset, length, line and column, the values of a
// Diagnostic's position fields (all zero for a nil tok).
func At(tok *token.Token) (offset token.Offset, length uint32, line, column int) {
	if tok == nil {
		return 0, 0, 0, 0
	}
	return tok.Offset, tok.Length, tok.Line, tok.Column
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Text)
	}
	return fmt.Sprintf("@%d: %s: %s", d.Offset, d.Severity, d.Text)
}

// Sink receives diagnostics as they are emitted.
type Sink interface {
	OnDiagnostic(Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Diagnostic)

// OnDiagnostic implements Sink.
func (f SinkFunc) OnDiagnostic(d Diagnostic) { f(d) }

// Counter is a Sink that merely tallies diagnostics by severity, in the
// original's DiagnosticCounter style.
type Counter struct {
	info, warning, nonFatalErrors, fatalErrors int
}

// OnDiagnostic implements Sink.
func (c *Counter) OnDiagnostic(d Diagnostic) {
	switch d.Severity {
	case Info:
		c.info++
	case Warning:
		c.warning++
	case Fatal:
		c.fatalErrors++
	default:
		c.nonFatalErrors++
	}
}

// Reset zeroes all counts.
func (c *Counter) Reset() { *c = Counter{} }

// InfoCount returns the number of Info diagnostics seen.
func (c *Counter) InfoCount() int { return c.info }

// WarningCount returns the number of Warning diagnostics seen.
func (c *Counter) WarningCount() int { return c.warning }

// ErrorCount returns the number of Error-or-worse diagnostics seen.
func (c *Counter) ErrorCount() int { return c.nonFatalErrors + c.fatalErrors }

// FatalCount returns the number of Fatal diagnostics seen.
func (c *Counter) FatalCount() int { return c.fatalErrors }

// TotalCount returns the number of diagnostics of any severity seen.
func (c *Counter) TotalCount() int { return c.info + c.warning + c.ErrorCount() }

// Emitter fans a diagnostic out to every registered Sink. It is itself a
// Sink, so emitters can be nested.
type Emitter struct {
	sinks []Sink
}

// AddSink registers a Sink to receive future diagnostics.
func (e *Emitter) AddSink(s Sink) { e.sinks = append(e.sinks, s) }

// OnDiagnostic implements Sink, fanning d out to every registered sink.
func (e *Emitter) OnDiagnostic(d Diagnostic) {
	tracer().Debugf("diag: %s", d)
	for _, s := range e.sinks {
		s.OnDiagnostic(d)
	}
}
