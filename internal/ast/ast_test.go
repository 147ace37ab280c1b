package ast

import (
	"testing"

	"github.com/cedar-lang/cedarfront/internal/lexer"
)

func identExpr(name string) *PostfixExpression {
	return &PostfixExpression{Expr: &PrimaryExpression{
		Kind:       PrimaryIdentifier,
		Identifier: &lexer.Token{Text: name, Kind: lexer.Identifier},
	}}
}

func TestCaptureGroupDedup(t *testing.T) {
	var g CaptureGroup

	x := identExpr("x")
	first := g.Add(x)
	if first.Sym != "_0" {
		t.Errorf("first capture sym = %q, want _0", first.Sym)
	}

	// same node again
	if again := g.Add(x); again != first {
		t.Error("adding the same expression node produced a new entry")
	}
	if len(g.Members) != 1 {
		t.Fatalf("got %d members, want 1", len(g.Members))
	}

	// a different node spelled the same
	if bySpelling := g.Add(identExpr("x")); bySpelling.Sym != "_0" {
		t.Errorf("same-spelling capture sym = %q, want _0", bySpelling.Sym)
	}
	if len(g.Members) != 1 {
		t.Fatalf("got %d members after same-spelling add, want 1", len(g.Members))
	}

	y := g.Add(identExpr("y"))
	if y.Sym != "_1" {
		t.Errorf("second capture sym = %q, want _1", y.Sym)
	}
	if len(g.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(g.Members))
	}

	g.Remove(x)
	if len(g.Members) != 1 || g.Members[0].Sym != "_1" {
		t.Errorf("Remove left %d members, want just the y capture", len(g.Members))
	}
}

func memberStatement(name string) *Statement {
	d := &Declaration{
		Identifier: &UnqualifiedID{Identifier: &lexer.Token{Text: name, Kind: lexer.Identifier}},
		Kind:       DeclObject,
		ObjectType: &TypeID{Unqualified: &UnqualifiedID{Identifier: &lexer.Token{Text: "i64", Kind: lexer.FixedType}}},
	}
	return &Statement{Kind: StmtDeclaration, Declaration: d}
}

func typeWithMembers(names ...string) *Declaration {
	typ := &Declaration{
		Identifier:  &UnqualifiedID{Identifier: &lexer.Token{Text: "T", Kind: lexer.Identifier}},
		Kind:        DeclType,
		TypeDecl:    &TypeBody{Keyword: &lexer.Token{Text: "type", Kind: lexer.Keyword}},
		Initializer: &Statement{Kind: StmtCompound, Compound: &CompoundStatement{}},
	}
	for _, name := range names {
		typ.AddTypeMember(memberStatement(name))
	}
	return typ
}

func memberNames(typ *Declaration) []string {
	var out []string
	for _, m := range typ.TypeScopeDeclarations(AllMembers) {
		out = append(out, m.Name().Text)
	}
	return out
}

func TestDeferredMemberRemoval(t *testing.T) {
	typ := typeWithMembers("f", "g", "h")
	members := typ.TypeScopeDeclarations(AllMembers)
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}

	if !typ.TypeMemberMarkForRemoval(members[1]) {
		t.Fatal("could not mark g for removal")
	}

	// marked members stay visible until the sweep
	if got := memberNames(typ); len(got) != 3 {
		t.Fatalf("before sweep got %v, want all three members", got)
	}

	typ.TypeRemoveMarkedMembers()
	got := memberNames(typ)
	if len(got) != 2 || got[0] != "f" || got[1] != "h" {
		t.Fatalf("after sweep got %v, want [f h]", got)
	}

	// sweeping with nothing marked is a no-op
	typ.TypeRemoveMarkedMembers()
	if got := memberNames(typ); len(got) != 2 {
		t.Fatalf("second sweep changed members to %v", got)
	}
}

func TestMarkForeignMemberFails(t *testing.T) {
	a := typeWithMembers("f")
	b := typeWithMembers("g")
	if a.TypeMemberMarkForRemoval(b.TypeScopeDeclarations(AllMembers)[0]) {
		t.Error("marked a member belonging to a different type")
	}
}

func TestRemoveAllMembers(t *testing.T) {
	typ := typeWithMembers("f", "g")
	typ.TypeRemoveAllMembers()
	if got := memberNames(typ); len(got) != 0 {
		t.Errorf("members remain after RemoveAllMembers: %v", got)
	}
}

func TestAddTypeMemberWiresLinks(t *testing.T) {
	typ := typeWithMembers("f")
	m := typ.TypeScopeDeclarations(AllMembers)[0]
	if m.Parent != typ {
		t.Error("member Parent not set")
	}
	if m.MyStatement == nil || m.MyStatement.Declaration != m {
		t.Error("member MyStatement not wired")
	}
	if m.MyStatement.CompoundParent != typ.Initializer.Compound {
		t.Error("member statement CompoundParent not wired")
	}
}

func TestToPassingStyle(t *testing.T) {
	tests := []struct {
		text string
		want PassingStyle
	}{
		{"in", PassIn},
		{"copy", PassCopy},
		{"inout", PassInout},
		{"out", PassOut},
		{"move", PassMove},
		{"forward", PassForward},
		{"this", PassInvalid},
	}
	for _, tt := range tests {
		tok := &lexer.Token{Text: tt.text, Kind: lexer.Keyword}
		if got := ToPassingStyle(tok); got != tt.want {
			t.Errorf("ToPassingStyle(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
