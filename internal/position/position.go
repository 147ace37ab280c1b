// Package position provides unified source code position tracking
// for the cedarfront compiler. Positions are line-oriented because
// the front end lexes one classified source line at a time.
package position

import "fmt"

// Pos represents a single point in source code.
type Pos struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// IsValid returns true if the position is valid.
func (p Pos) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// After returns true if this position comes after other.
func (p Pos) After(other Pos) bool {
	return other.Before(p)
}

// Compare returns -1, 0, or +1 ordering p against other.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.Before(other):
		return -1
	case other.Before(p):
		return 1
	default:
		return 0
	}
}

// ShiftColumn moves the position right by offset columns.
// Used when expanded literal text changes downstream token columns.
func (p *Pos) ShiftColumn(offset int) {
	p.Column += offset
}

// Span represents a range of source code between two positions.
type Span struct {
	Start Pos // starting position (inclusive)
	End   Pos // ending position (inclusive)
}

// IsValid returns true if the span is valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && !s.End.Before(s.Start)
}

// String returns a string representation of the span.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start.String(), s.End.String())
}

// Contains returns true if the span contains the given position.
func (s Span) Contains(pos Pos) bool {
	if !s.IsValid() || !pos.IsValid() {
		return false
	}
	return !pos.Before(s.Start) && !s.End.Before(pos)
}
