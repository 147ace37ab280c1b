package lexer

import (
	"testing"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/source"
)

func TestSectionsSplitAtNonCedarLines(t *testing.T) {
	lines := []source.Line{
		{Text: "a: i64 = 1;", Cat: source.CatCedar},
		{Text: "int x;", Cat: source.CatLegacy},
		{Text: "b: i64 = 2;", Cat: source.CatCedar},
	}
	errors := diagnostic.NewList()
	toks := NewTokens(errors)
	toks.Lex(lines)

	if errors.HasErrors() {
		t.Fatalf("unexpected lex errors")
	}
	starts := toks.SectionStarts()
	if len(starts) != 2 || starts[0] != 1 || starts[1] != 3 {
		t.Fatalf("section starts = %v, want [1 3]", starts)
	}
	if got := toks.Map()[3][0].Text; got != "b" {
		t.Errorf("second section starts with %q, want b", got)
	}
}

func TestUnterminatedRawStringReportsOnce(t *testing.T) {
	lines := []source.Line{
		{Text: `x: _ = R"end(never closed`, Cat: source.CatCedar},
		{Text: "still not closed", Cat: source.CatRawstring},
	}
	errors := diagnostic.NewList()
	toks := NewTokens(errors)
	toks.Lex(lines)

	if errors.Len() != 1 {
		t.Fatalf("error count = %d, want exactly 1", errors.Len())
	}
	e := errors.Entries()[0]
	if e.Msg != "raw string literal is never terminated" {
		t.Errorf("message = %q", e.Msg)
	}
	if e.Pos.Line != 1 || e.Pos.Column != 8 {
		t.Errorf("position = %d:%d, want 1:8 at the opening delimiter", e.Pos.Line, e.Pos.Column)
	}
}

func TestUnterminatedStreamCommentReportsOnce(t *testing.T) {
	lines := []source.Line{
		{Text: "x: i64 = 1; /* begin", Cat: source.CatCedar},
		{Text: "never ends", Cat: source.CatComment},
	}
	errors := diagnostic.NewList()
	toks := NewTokens(errors)
	toks.Lex(lines)

	if errors.Len() != 1 {
		t.Fatalf("error count = %d, want exactly 1", errors.Len())
	}
	e := errors.Entries()[0]
	if e.Msg != "stream comment is never terminated" {
		t.Errorf("message = %q", e.Msg)
	}
	if e.Pos.Line != 1 || e.Pos.Column != 13 {
		t.Errorf("position = %d:%d, want 1:13", e.Pos.Line, e.Pos.Column)
	}
}

func TestCommentSpillPastSectionStaysInSection(t *testing.T) {
	lines := []source.Line{
		{Text: "a: i64 = 1; /* spill", Cat: source.CatCedar},
		{Text: "over */ int x;", Cat: source.CatLegacy},
		{Text: "b: i64 = 2;", Cat: source.CatCedar},
	}
	errors := diagnostic.NewList()
	toks := NewTokens(errors)
	toks.Lex(lines)

	if errors.HasErrors() {
		t.Fatalf("unexpected lex errors")
	}
	if got := toks.NumUnprintedComments(); got != 1 {
		t.Errorf("comment count = %d, want 1", got)
	}
}
