// Package diagnostic provides the shared error list for the cedarfront
// compiler. Every stage (loader, lexer, parser, reflection) appends to
// one List, which is printed sorted by source position at the end.
package diagnostic

import (
	"fmt"
	"io"
	"sort"

	"github.com/cedar-lang/cedarfront/internal/position"
)

// Entry represents a single user-readable error message.
//
// Internal entries describe conditions that indicate a bug in the
// compiler rather than in the program being compiled. Fallback entries
// are low-priority restatements ("unexpected token") that are printed
// only when no better diagnosis exists nearby.
type Entry struct {
	Pos      position.Pos
	Msg      string
	Internal bool
	Fallback bool
}

// String returns the formatted message without a file prefix.
func (e Entry) String() string {
	msg := fmt.Sprintf("%s: error: %s", e.Pos, e.Msg)
	if e.Internal {
		msg += "\n  internal compiler error - please report this"
	}
	return msg
}

// Print writes the entry prefixed with the given file name.
func (e Entry) Print(w io.Writer, file string) {
	if file != "" {
		fmt.Fprintf(w, "%s(%s): error: %s\n", file, e.Pos, e.Msg)
	} else {
		fmt.Fprintf(w, "(%s): error: %s\n", e.Pos, e.Msg)
	}
	if e.Internal {
		fmt.Fprintf(w, "  internal compiler error - please report this\n")
	}
}

// List is an append-only collection of entries shared by reference
// down the whole compilation call stack.
type List struct {
	entries []Entry
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{entries: make([]Entry, 0)}
}

// Add appends an entry, coalescing exact duplicates
// (same position, message, and flags).
func (l *List) Add(e Entry) {
	for _, have := range l.entries {
		if have == e {
			return
		}
	}
	l.entries = append(l.entries, e)
}

// AddError appends a plain error entry at pos.
func (l *List) AddError(pos position.Pos, msg string) {
	l.Add(Entry{Pos: pos, Msg: msg})
}

// Len returns the number of recorded entries.
func (l *List) Len() int {
	return len(l.entries)
}

// HasErrors returns true if anything was recorded.
func (l *List) HasErrors() bool {
	return len(l.entries) > 0
}

// Entries returns the recorded entries in insertion order.
func (l *List) Entries() []Entry {
	return l.entries
}

// emittable filters out fallback entries that are shadowed by a
// non-fallback entry at a comparable point (same line).
func (l *List) emittable() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Fallback && l.hasBetterAt(e.Pos) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// hasBetterAt reports whether a non-fallback entry exists on the
// same line as pos.
func (l *List) hasBetterAt(pos position.Pos) bool {
	for _, e := range l.entries {
		if !e.Fallback && e.Pos.Line == pos.Line {
			return true
		}
	}
	return false
}

// Print writes all emittable entries to w, sorted by position,
// each prefixed with the source file name.
func (l *List) Print(w io.Writer, file string) {
	out := l.emittable()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos.Before(out[j].Pos)
	})
	for _, e := range out {
		e.Print(w, file)
	}
}
