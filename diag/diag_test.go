package diag

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/gllparse/gll/token"
)

func setup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gll.diag")
	t.Cleanup(teardown)
}

type recording struct {
	got []Diagnostic
}

func (r *recording) OnDiagnostic(d Diagnostic) { r.got = append(r.got, d) }

func TestReporterDeduplicatesByIDAndOffset(t *testing.T) {
	setup(t)
	r := NewReporter(0)
	var rec recording
	r.AddSink(&rec)

	tok := token.New(token.KindUserMin, "x", 4, 1, 5)
	r.Report(Error, "no-rule", tok, "unexpected %s", "x")
	r.Report(Error, "no-rule", tok, "unexpected %s", "x")

	if len(rec.got) != 1 {
		t.Fatalf("expected the repeated report at the same (id, offset) to be deduplicated, got %d diagnostics", len(rec.got))
	}
}

func TestReporterTracksFarthestFailure(t *testing.T) {
	setup(t)
	r := NewReporter(0)

	near := token.New(token.KindUserMin, "a", 0, 1, 1)
	far := token.New(token.KindUserMin, "b", 10, 1, 11)

	r.Report(Error, "a", near, "near")
	r.Report(Error, "b", far, "far")
	r.Report(Error, "c", near, "near again")

	if r.Farthest() != far {
		t.Fatalf("expected farthest failure to remain at offset 10, got %v", r.Farthest())
	}
}

func TestReporterErrorLimit(t *testing.T) {
	setup(t)
	r := NewReporter(2)
	var rec recording
	r.AddSink(&rec)

	tok := token.New(token.KindUserMin, "x", 0, 1, 1)
	r.Report(Error, "e1", tok, "first")
	r.Report(Error, "e2", token.New(token.KindUserMin, "y", 1, 1, 2), "second")
	r.Report(Error, "e3", token.New(token.KindUserMin, "z", 2, 1, 3), "third")

	if !r.LimitReached() {
		t.Fatalf("expected the error limit to have fired")
	}
	last := rec.got[len(rec.got)-1]
	if last.Severity != Fatal {
		t.Fatalf("expected a synthesized Fatal diagnostic once the limit fires, got %v", last.Severity)
	}
	// the third Report call should have been absorbed into the limit check,
	// not emitted as an ordinary error
	if rec.got[len(rec.got)-2].Severity == Error && len(rec.got) != 3 {
		t.Fatalf("expected exactly 3 diagnostics (2 errors + 1 synthesized fatal), got %d", len(rec.got))
	}
}

func TestFormatExpectedQuotesSingleCharacterOperators(t *testing.T) {
	setup(t)
	names := func(k token.Kind) string {
		switch k {
		case token.KindUserMin:
			return "+"
		case token.KindUserMin + 1:
			return "number"
		default:
			return ""
		}
	}
	got := FormatExpected([]token.Kind{token.KindUserMin, token.KindUserMin + 1}, names)
	want := "expected '+' or number"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatExpectedThreeOrMore(t *testing.T) {
	setup(t)
	names := func(k token.Kind) string {
		switch k {
		case token.KindUserMin:
			return "a"
		case token.KindUserMin + 1:
			return "b"
		case token.KindUserMin + 2:
			return "c"
		default:
			return ""
		}
	}
	got := FormatExpected([]token.Kind{token.KindUserMin, token.KindUserMin + 1, token.KindUserMin + 2}, names)
	want := "expected 'a', 'b' or 'c'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
