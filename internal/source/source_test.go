package source

import (
	"strings"
	"testing"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/position"
)

func pos(line, col int) position.Pos {
	return position.Pos{Line: line, Column: col}
}

func loadString(t *testing.T, text string) (*File, *diagnostic.List, bool) {
	t.Helper()
	errors := diagnostic.NewList()
	f := NewFile(errors)
	ok := f.Load(strings.NewReader(text))
	return f, errors, ok
}

func expectCategories(t *testing.T, text string, want []Category) *File {
	t.Helper()
	f, _, ok := loadString(t, text)
	if !ok {
		t.Fatal("Load failed")
	}
	lines := f.Lines()
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, cat := range want {
		if lines[i].Cat != cat {
			t.Errorf("line %d %q classified %v, want %v", i+1, lines[i].Text, lines[i].Cat, cat)
		}
	}
	return f
}

func TestClassifyCategories(t *testing.T) {
	text := strings.Join([]string{
		"",
		"#include <vector>",
		"// a comment",
		"/* block",
		"   still block */",
		"import std;",
		"void legacy_fn() { }",
		"main: () = {",
		"    x := 0;",
		"}",
	}, "\n")
	f := expectCategories(t, text, []Category{
		CatEmpty,
		CatPreprocessor,
		CatComment,
		CatComment,
		CatComment,
		CatImport,
		CatLegacy,
		CatCedar,
		CatCedar,
		CatCedar,
	})
	if !f.HasCedar() || !f.HasLegacy() {
		t.Errorf("HasCedar() = %v, HasLegacy() = %v, want true true", f.HasCedar(), f.HasLegacy())
	}
}

func TestCedarDefinitionEndsAtTopLevelSemicolon(t *testing.T) {
	text := strings.Join([]string{
		"x: i64 = 5;",
		"void after() { }",
	}, "\n")
	expectCategories(t, text, []Category{CatCedar, CatLegacy})
}

func TestCedarDefinitionEndsAtClosingBrace(t *testing.T) {
	text := strings.Join([]string{
		"f: () = {",
		"    if x { g(); }",
		"}",
		"int done;",
	}, "\n")
	expectCategories(t, text, []Category{CatCedar, CatCedar, CatCedar, CatLegacy})
}

func TestScopedNameIsNotADefinition(t *testing.T) {
	// a leading identifier followed by :: stays legacy
	text := "ns::fn();"
	expectCategories(t, text, []Category{CatLegacy})
}

func TestRawStringLinesInsideCedar(t *testing.T) {
	text := strings.Join([]string{
		`s: _ = R"x(one`,
		"two",
		`three)x";`,
	}, "\n")
	expectCategories(t, text, []Category{CatCedar, CatRawstring, CatRawstring})
}

func TestRequiresDirective(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"satisfied", "//cedar:requires >= 0.9", false},
		{"unsatisfied", "//cedar:requires >= 2.0", true},
		{"invalid", "//cedar:requires not-a-version", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errors, ok := loadString(t, tt.spec+"\nx: i64 = 5;\n")
			if !ok {
				t.Fatal("Load failed")
			}
			if errors.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", errors.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestOverlongLineRejected(t *testing.T) {
	_, errors, ok := loadString(t, strings.Repeat("x", MaxLineLength+1))
	if ok {
		t.Fatal("Load accepted an overlong line")
	}
	if !errors.HasErrors() {
		t.Error("no diagnostic for an overlong line")
	}
}

func TestUnbalancedBraceAtEOF(t *testing.T) {
	_, errors, ok := loadString(t, "void f() {\n")
	if !ok {
		t.Fatal("Load failed")
	}
	if !errors.HasErrors() {
		t.Error("no diagnostic for an unmatched { at end of file")
	}
}

func TestBraceTrackerMismatch(t *testing.T) {
	errors := diagnostic.NewList()
	tr := NewBraceTracker(errors)
	tr.FoundCloseBrace(pos(1, 1))
	if !errors.HasErrors() {
		t.Error("no diagnostic for } with no matching {")
	}
}

func TestBraceTrackerPreprocessorImbalance(t *testing.T) {
	// an #if/#else pair may open the same brace twice, only one close
	// follows and that must not be an error
	errors := diagnostic.NewList()
	tr := NewBraceTracker(errors)
	tr.FoundPreIf(pos(1, 1))
	tr.FoundOpenBrace(pos(2, 1))
	tr.FoundPreElse(pos(3, 1))
	tr.FoundOpenBrace(pos(4, 1))
	tr.FoundPreEndif(pos(5, 1))
	tr.FoundCloseBrace(pos(6, 1))
	tr.FoundEOF(pos(7, 1))
	if errors.HasErrors() {
		t.Error("unexpected diagnostics for preprocessor-conditional braces")
	}
}
