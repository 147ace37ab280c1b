package diagnostic

import (
	"strings"
	"testing"

	"github.com/cedar-lang/cedarfront/internal/position"
)

func pos(line, col int) position.Pos {
	return position.Pos{Line: line, Column: col}
}

func TestDuplicatesCoalesce(t *testing.T) {
	l := NewList()
	l.AddError(pos(3, 1), "bad token")
	l.AddError(pos(3, 1), "bad token")
	l.AddError(pos(3, 1), "other message")
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}

	// a differing flag is a different entry
	l.Add(Entry{Pos: pos(3, 1), Msg: "bad token", Fallback: true})
	if l.Len() != 3 {
		t.Errorf("Len() = %d after fallback variant, want 3", l.Len())
	}
}

func TestFallbackSuppressedByBetterDiagnostic(t *testing.T) {
	l := NewList()
	l.Add(Entry{Pos: pos(5, 10), Msg: "invalid statement", Fallback: true})
	l.AddError(pos(5, 3), "expected ; after the declaration")

	var b strings.Builder
	l.Print(&b, "test.cedar")
	out := b.String()
	if strings.Contains(out, "invalid statement") {
		t.Errorf("fallback printed despite a better diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "expected ; after the declaration") {
		t.Errorf("missing real diagnostic:\n%s", out)
	}
}

func TestFallbackPrintedWhenAlone(t *testing.T) {
	l := NewList()
	l.Add(Entry{Pos: pos(7, 1), Msg: "invalid statement", Fallback: true})

	var b strings.Builder
	l.Print(&b, "")
	if !strings.Contains(b.String(), "invalid statement") {
		t.Errorf("lone fallback was not printed:\n%s", b.String())
	}
}

func TestPrintSortedByPosition(t *testing.T) {
	l := NewList()
	l.AddError(pos(9, 1), "third")
	l.AddError(pos(2, 5), "first")
	l.AddError(pos(2, 9), "second")

	var b strings.Builder
	l.Print(&b, "f.cedar")
	out := b.String()
	i1 := strings.Index(out, "first")
	i2 := strings.Index(out, "second")
	i3 := strings.Index(out, "third")
	if i1 < 0 || i2 < 0 || i3 < 0 || !(i1 < i2 && i2 < i3) {
		t.Errorf("entries not sorted by position:\n%s", out)
	}
}

func TestInternalEntryNotesCompilerBug(t *testing.T) {
	l := NewList()
	l.Add(Entry{Pos: pos(1, 1), Msg: "impossible state", Internal: true})

	var b strings.Builder
	l.Print(&b, "f.cedar")
	if !strings.Contains(b.String(), "internal compiler error") {
		t.Errorf("internal marker missing:\n%s", b.String())
	}
}
