package lexer

import (
	"testing"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
)

func lexOneLine(t *testing.T, line string) ([]Token, []Comment, *diagnostic.List) {
	t.Helper()
	var (
		tokens   []Token
		comments []Comment
		state    State
	)
	errors := diagnostic.NewList()
	LexLine(line, 1, &state, &tokens, &comments, errors)
	if state.InMultiline() {
		t.Fatalf("LexLine(%q) left a multi-line construct open", line)
	}
	return tokens, comments, errors
}

func tokenTexts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i := range tokens {
		out[i] = tokens[i].Text
	}
	return out
}

func expectTokens(t *testing.T, line string, want []string) []Token {
	t.Helper()
	tokens, _, errors := lexOneLine(t, line)
	if errors.HasErrors() {
		t.Fatalf("LexLine(%q) reported errors", line)
	}
	got := tokenTexts(tokens)
	if len(got) != len(want) {
		t.Fatalf("LexLine(%q) = %q, want %q", line, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LexLine(%q) token %d = %q, want %q", line, i, got[i], want[i])
		}
	}
	return tokens
}

func TestOperatorLongestMatch(t *testing.T) {
	tests := []struct {
		line string
		want []string
		kind []Lexeme
	}{
		{"a <<= b", []string{"a", "<<=", "b"}, []Lexeme{Identifier, LeftShiftEq, Identifier}},
		{"a << b", []string{"a", "<<", "b"}, []Lexeme{Identifier, LeftShift, Identifier}},
		{"a<=>b", []string{"a", "<=>", "b"}, []Lexeme{Identifier, Spaceship, Identifier}},
		{"a<=b", []string{"a", "<=", "b"}, []Lexeme{Identifier, LessEq, Identifier}},
		{"a<b", []string{"a", "<", "b"}, []Lexeme{Identifier, Less, Identifier}},
		{"i++;", []string{"i", "++", ";"}, []Lexeme{Identifier, PlusPlus, Semicolon}},
		{"x ||= y", []string{"x", "||=", "y"}, []Lexeme{Identifier, LogicalOrEq, Identifier}},
		{"a::b", []string{"a", "::", "b"}, []Lexeme{Identifier, Scope, Identifier}},
		{"v...", []string{"v", "..."}, []Lexeme{Identifier, Ellipsis}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens := expectTokens(t, tt.line, tt.want)
			for i, k := range tt.kind {
				if tokens[i].Kind != k {
					t.Errorf("token %d kind = %v, want %v", i, tokens[i].Kind, k)
				}
			}
		})
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		line string
		want Lexeme
	}{
		{"1000", DecimalLiteral},
		{"1'000'000", DecimalLiteral},
		{"0b1010", BinaryLiteral},
		{"0b10'10", BinaryLiteral},
		{"0x1F", HexadecimalLiteral},
		{"0xFF'FF", HexadecimalLiteral},
		{"3.14", FloatLiteral},
		{"1.5e-3", FloatLiteral},
		{"2e8", FloatLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens, _, errors := lexOneLine(t, tt.line)
			if errors.HasErrors() {
				t.Fatalf("unexpected errors for %q", tt.line)
			}
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1: %q", len(tokens), tokenTexts(tokens))
			}
			if tokens[0].Kind != tt.want || tokens[0].Text != tt.line {
				t.Errorf("got %v %q, want %v %q", tokens[0].Kind, tokens[0].Text, tt.want, tt.line)
			}
		})
	}
}

func TestUserDefinedLiteralSuffix(t *testing.T) {
	tokens := expectTokens(t, "10ms", []string{"10", "ms"})
	if tokens[0].Kind != DecimalLiteral || tokens[1].Kind != UserDefinedLiteralSuffix {
		t.Errorf("kinds = %v %v, want DecimalLiteral UserDefinedLiteralSuffix",
			tokens[0].Kind, tokens[1].Kind)
	}
}

func TestMalformedLiteralRecovers(t *testing.T) {
	tokens, _, errors := lexOneLine(t, "0b2 + x")
	if !errors.HasErrors() {
		t.Fatal("expected an error for a binary literal with no digits")
	}
	// the remainder of the line still lexes
	texts := tokenTexts(tokens)
	if len(texts) < 3 || texts[len(texts)-1] != "x" {
		t.Errorf("lexing did not recover, tokens %q", texts)
	}
}

func TestStringInterpolation(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`"hello"`, `"hello"`},
		{`"x is (x)$"`, `("x is " + cedar::to_text(x))`},
		{`"(a)$ end"`, `(cedar::to_text(a) + " end")`},
		{`"a (x)$ b (y.f())$ c"`, `("a " + cedar::to_text(x) + " b " + cedar::to_text(y.f()) + " c")`},
		{`"no capture (x) here"`, `"no capture (x) here"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens, _, errors := lexOneLine(t, tt.line)
			if errors.HasErrors() {
				t.Fatalf("unexpected errors for %q", tt.line)
			}
			if len(tokens) != 1 || tokens[0].Kind != StringLiteral {
				t.Fatalf("got %q, want one string literal", tokenTexts(tokens))
			}
			if tokens[0].Text != tt.want {
				t.Errorf("expanded to %q, want %q", tokens[0].Text, tt.want)
			}
		})
	}
}

func TestCharacterLiterals(t *testing.T) {
	tokens := expectTokens(t, `'a' '\n'`, []string{"'a'", `'\n'`})
	for i := range tokens {
		if tokens[i].Kind != CharacterLiteral {
			t.Errorf("token %d kind = %v, want CharacterLiteral", i, tokens[i].Kind)
		}
	}
}

func TestRawStringAcrossLines(t *testing.T) {
	var (
		tokens   []Token
		comments []Comment
		state    State
	)
	errors := diagnostic.NewList()
	LexLine(`x: _ = R"x(first`, 1, &state, &tokens, &comments, errors)
	if state.RawString == nil {
		t.Fatal("raw string did not stay open across the line")
	}
	LexLine(`second)x";`, 2, &state, &tokens, &comments, errors)
	if state.InMultiline() {
		t.Fatal("raw string did not close")
	}
	if errors.HasErrors() {
		t.Fatal("unexpected errors")
	}

	texts := tokenTexts(tokens)
	want := []string{"x", ":", "_", "=", "R\"x(first\nsecond)x\"", ";"}
	if len(texts) != len(want) {
		t.Fatalf("tokens = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, texts[i], want[i])
		}
	}
	lit := tokens[4]
	if lit.Kind != StringLiteral {
		t.Errorf("raw string kind = %v, want StringLiteral", lit.Kind)
	}
	if lit.Pos.Line != 1 || lit.Pos.Column != 8 {
		t.Errorf("raw string position = %v, want 1:8", lit.Pos)
	}
}

func TestInterpolatedRawString(t *testing.T) {
	tokens, _, errors := lexOneLine(t, `$R"(ab(c)$de)"`)
	if errors.HasErrors() {
		t.Fatal("unexpected errors")
	}
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1", len(tokens))
	}
	want := `(R"(ab)" + cedar::to_text(c) + R"(de)")`
	if tokens[0].Text != want {
		t.Errorf("expanded to %q, want %q", tokens[0].Text, want)
	}
}

func TestStreamCommentAcrossLines(t *testing.T) {
	var (
		tokens   []Token
		comments []Comment
		state    State
	)
	errors := diagnostic.NewList()
	LexLine("a /* begin", 1, &state, &tokens, &comments, errors)
	if !state.InComment {
		t.Fatal("stream comment did not stay open")
	}
	LexLine("still inside", 2, &state, &tokens, &comments, errors)
	LexLine("end */ b", 3, &state, &tokens, &comments, errors)
	if state.InComment {
		t.Fatal("stream comment did not close")
	}

	texts := tokenTexts(tokens)
	if len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Fatalf("tokens = %q, want [a b]", texts)
	}
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0]
	if c.Kind != StreamComment {
		t.Errorf("comment kind = %v, want StreamComment", c.Kind)
	}
	if c.Text != "/* begin\nstill inside\nend */" {
		t.Errorf("comment text = %q", c.Text)
	}
	if c.Start.Line != 1 || c.End.Line != 3 {
		t.Errorf("comment span = %v..%v, want lines 1..3", c.Start, c.End)
	}
}

func TestOperatorFunctionNames(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"operator<=>:", "operator<=>"},
		{"operator=:", "operator="},
		{"operator():", "operator()"},
		{"operator[]:", "operator[]"},
		{"operator<<:", "operator<<"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			tokens, _, _ := lexOneLine(t, tt.line)
			if len(tokens) != 2 || tokens[0].Text != tt.want || tokens[0].Kind != Identifier {
				t.Errorf("tokens = %q, want [%q :]", tokenTexts(tokens), tt.want)
			}
		})
	}
}

func TestMultiwordKeywords(t *testing.T) {
	tokens := expectTokens(t, "unsigned long long int x", []string{"unsigned long long int", "x"})
	if tokens[0].Kind != MultiKeyword {
		t.Errorf("kind = %v, want MultiKeyword", tokens[0].Kind)
	}
}

func TestKeywordAndFixedTypeClassification(t *testing.T) {
	tokens := expectTokens(t, "if x is i32", []string{"if", "x", "is", "i32"})
	wantKinds := []Lexeme{Keyword, Identifier, Keyword, FixedType}
	for i, k := range wantKinds {
		if tokens[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, tokens[i].Kind, k)
		}
	}
}

// Every token's text, re-lexed alone, must yield a single token of the
// same kind and text. Inputs avoid interpolation captures, whose tokens
// are rewritten at lex time.
func TestTokenRoundTrip(t *testing.T) {
	lines := []string{
		"f: (x: i64, inout y: i64) -> i64 = { return x * y + 1'000; }",
		`greet: () = { print("hello"); }`,
		"c: _ = a <=> b;",
		"w: unsigned long long = 0xFF'00;",
		"operator<=>: (this, that) -> cedar::strong_ordering;",
	}
	for _, line := range lines {
		tokens, _, errors := lexOneLine(t, line)
		if errors.HasErrors() {
			t.Fatalf("unexpected errors for %q", line)
		}
		for _, tok := range tokens {
			again, _, errs := lexOneLine(t, tok.Text)
			if errs.HasErrors() {
				t.Errorf("re-lexing %q reported errors", tok.Text)
				continue
			}
			if len(again) != 1 {
				t.Errorf("re-lexing %q yielded %d tokens, want 1", tok.Text, len(again))
				continue
			}
			if again[0].Text != tok.Text || again[0].Kind != tok.Kind {
				t.Errorf("re-lexing %q = %v %q, want %v %q",
					tok.Text, again[0].Kind, again[0].Text, tok.Kind, tok.Text)
			}
		}
	}
}

func TestGeneratedBufferStableAddresses(t *testing.T) {
	buf := NewGeneratedBuffer()
	var ptrs []*Token
	for i := 0; i < 1000; i++ {
		ptrs = append(ptrs, buf.Append(Token{Text: "t", Kind: Identifier}))
	}
	if buf.Len() != 1000 {
		t.Fatalf("Len() = %d, want 1000", buf.Len())
	}
	for i, p := range ptrs {
		if p.Text != "t" {
			t.Fatalf("token %d moved or was overwritten", i)
		}
	}
}
