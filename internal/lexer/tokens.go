package lexer

import (
	"fmt"
	"io"
	"sort"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/source"
)

// generatedChunkSize is the capacity of one GeneratedBuffer chunk.
const generatedChunkSize = 64

// GeneratedBuffer stores tokens synthesized after lexing, such as
// those produced by metafunction splices. Tokens are appended into
// fixed-capacity chunks that are never reallocated, so the pointer
// returned by Append stays valid for the life of the buffer.
type GeneratedBuffer struct {
	chunks [][]Token
}

// NewGeneratedBuffer returns an empty buffer.
func NewGeneratedBuffer() *GeneratedBuffer {
	return &GeneratedBuffer{}
}

// Append stores a token and returns a stable pointer to it.
func (b *GeneratedBuffer) Append(t Token) *Token {
	n := len(b.chunks)
	if n == 0 || len(b.chunks[n-1]) == generatedChunkSize {
		b.chunks = append(b.chunks, make([]Token, 0, generatedChunkSize))
		n++
	}
	chunk := append(b.chunks[n-1], t)
	b.chunks[n-1] = chunk
	return &chunk[len(chunk)-1]
}

// Len returns the number of stored tokens.
func (b *GeneratedBuffer) Len() int {
	if len(b.chunks) == 0 {
		return 0
	}
	return (len(b.chunks)-1)*generatedChunkSize + len(b.chunks[len(b.chunks)-1])
}

// Tokens lexes a classified source file into a map from the first line
// of each contiguous Cedar section to that section's token stream.
type Tokens struct {
	errors    *diagnostic.List
	grammar   map[int][]Token
	comments  []Comment
	generated *GeneratedBuffer
}

// NewTokens returns an empty token store reporting into errors.
func NewTokens(errors *diagnostic.List) *Tokens {
	return &Tokens{
		errors:    errors,
		grammar:   make(map[int][]Token),
		generated: NewGeneratedBuffer(),
	}
}

// Lex tokenizes every Cedar section of lines. lines is 0-based storage
// for 1-based line numbers, as produced by source.File.
func (t *Tokens) Lex(lines []source.Line) {
	state := State{}
	section := -1
	var toks []Token

	flush := func() {
		if section >= 0 && len(toks) > 0 {
			t.grammar[section] = toks
		}
		section = -1
		toks = nil
	}

	for idx, line := range lines {
		lineno := idx + 1
		switch line.Cat {
		case source.CatCedar, source.CatRawstring:
			if section < 0 {
				section = lineno
			}
			LexLine(line.Text, lineno, &state, &toks, &t.comments, t.errors)
		default:
			if state.InMultiline() {
				// comment or raw string spilling past the section
				LexLine(line.Text, lineno, &state, &toks, &t.comments, t.errors)
				continue
			}
			flush()
		}
	}
	flush()

	if state.RawString != nil {
		t.errors.AddError(state.RawString.Start, "raw string literal is never terminated")
	}
	if state.InComment {
		t.errors.AddError(state.CurrentCommentStart, "stream comment is never terminated")
	}
}

// Map returns the per-section token streams keyed by starting line.
func (t *Tokens) Map() map[int][]Token { return t.grammar }

// SectionStarts returns the section keys in ascending order.
func (t *Tokens) SectionStarts() []int {
	keys := make([]int, 0, len(t.grammar))
	for k := range t.grammar {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Comments returns the comments gathered during lexing. The slice is
// shared so callers may mark entries as emitted.
func (t *Tokens) Comments() []Comment { return t.comments }

// NumUnprintedComments counts comments not yet emitted downstream.
func (t *Tokens) NumUnprintedComments() int {
	n := 0
	for i := range t.comments {
		if !t.comments[i].Emitted {
			n++
		}
	}
	return n
}

// Generated returns the buffer for synthesized tokens.
func (t *Tokens) Generated() *GeneratedBuffer { return t.generated }

// DebugPrint writes every section's tokens to w.
func (t *Tokens) DebugPrint(w io.Writer) {
	for _, start := range t.SectionStarts() {
		fmt.Fprintf(w, "--- section starting at line %d\n", start)
		for _, tok := range t.grammar[start] {
			fmt.Fprintf(w, "  %s\n", tok.Dump())
		}
	}
}
