package lexer

import (
	"fmt"

	"github.com/cedar-lang/cedarfront/internal/position"
)

// Token is a single lexed token. Text owns its characters, so tokens
// synthesized by string expansion or metafunctions carry their own
// storage and outlive the source line they came from.
type Token struct {
	Text string
	Pos  position.Pos
	Kind Lexeme
}

// NewToken builds a token at the given position.
func NewToken(text string, pos position.Pos, kind Lexeme) Token {
	return Token{Text: text, Pos: pos, Kind: kind}
}

// String returns the token text.
func (t Token) String() string { return t.Text }

// Position returns the token's source position.
func (t Token) Position() position.Pos { return t.Pos }

// Length returns the token text length in bytes.
func (t Token) Length() int { return len(t.Text) }

// Is reports whether the token spells the given text. Token equality is
// textual, two tokens with the same spelling compare equal regardless of
// where they were lexed.
func (t *Token) Is(text string) bool { return t.Text == text }

// Equal reports whether two tokens have the same spelling.
func (t *Token) Equal(other *Token) bool {
	return other != nil && t.Text == other.Text
}

// SetKind reclassifies the token. The parser uses this for contextual
// reinterpretation, such as treating a keyword as an identifier.
func (t *Token) SetKind(k Lexeme) { t.Kind = k }

// RemovePrefixIf strips prefix from the token text when present and
// shifts the position right by the removed length.
func (t *Token) RemovePrefixIf(prefix string) {
	if len(prefix) > 0 && len(t.Text) > len(prefix) && t.Text[:len(prefix)] == prefix {
		t.Text = t.Text[len(prefix):]
		t.Pos.ShiftColumn(len(prefix))
	}
}

// Dump formats the token for debug listings.
func (t Token) Dump() string {
	return fmt.Sprintf("%s: %s %q", t.Pos, t.Kind, t.Text)
}

// CommentKind distinguishes the two comment forms.
type CommentKind int

const (
	// LineComment is a // comment running to end of line.
	LineComment CommentKind = iota
	// StreamComment is a /* */ comment, possibly spanning lines.
	StreamComment
)

// Comment is a source comment preserved alongside the token stream.
// Emitted is set once a downstream consumer has printed it, so a
// comment is reproduced at most once.
type Comment struct {
	Kind    CommentKind
	Start   position.Pos
	End     position.Pos
	Text    string
	Emitted bool
}
