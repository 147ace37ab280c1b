package lexer

import (
	"strings"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// AddsSequences says which ends of a regenerated string literal receive
// the delimiter sequences. The values form a bitmask.
type AddsSequences int

const (
	NoEnds      AddsSequences = 0
	OnBeginning AddsSequences = 1
	OnEnd       AddsSequences = 2
	OnBothEnds  AddsSequences = OnBeginning | OnEnd
)

type stringPartKind int

const (
	partString stringPartKind = iota
	partCode
)

type stringPart struct {
	kind stringPartKind
	text string
}

// StringParts is the decomposition of an interpolated string literal
// into alternating literal and code segments. Generate reassembles the
// segments into a single expression, placing the begin and end
// delimiter sequences only where the placement strategy asks for them.
type StringParts struct {
	beginSeq string
	endSeq   string
	strategy AddsSequences
	parts    []stringPart
}

// NewStringParts builds an empty decomposition with the given delimiter
// sequences and placement strategy.
func NewStringParts(beginSeq, endSeq string, strategy AddsSequences) *StringParts {
	return &StringParts{beginSeq: beginSeq, endSeq: endSeq, strategy: strategy}
}

// AddString appends a literal segment. Adjacent literal segments merge.
func (p *StringParts) AddString(text string) {
	if n := len(p.parts); n > 0 && p.parts[n-1].kind == partString {
		p.parts[n-1].text += text
		return
	}
	p.parts = append(p.parts, stringPart{partString, text})
}

// AddCode appends a code segment.
func (p *StringParts) AddCode(text string) {
	p.parts = append(p.parts, stringPart{partCode, text})
}

// Clear discards all segments.
func (p *StringParts) Clear() { p.parts = nil }

// IsExpanded reports whether any code segment is present.
func (p *StringParts) IsExpanded() bool {
	for _, part := range p.parts {
		if part.kind == partCode {
			return true
		}
	}
	return false
}

// Generate reassembles the segments. Literal segments are wrapped in the
// delimiter sequences, except that the delimiters facing the literal's
// outer boundary appear only when the strategy includes that end.
// Segments are joined with " + ".
func (p *StringParts) Generate() string {
	if len(p.parts) == 0 {
		var b strings.Builder
		if p.strategy&OnBeginning != 0 {
			b.WriteString(p.beginSeq)
		}
		if p.strategy&OnEnd != 0 {
			b.WriteString(p.endSeq)
		}
		return b.String()
	}

	var b strings.Builder
	last := len(p.parts) - 1
	for i, part := range p.parts {
		if i > 0 {
			b.WriteString(" + ")
		}
		if part.kind == partCode {
			b.WriteString(part.text)
			continue
		}
		if i > 0 || p.strategy&OnBeginning != 0 {
			b.WriteString(p.beginSeq)
		}
		b.WriteString(part.text)
		if i < last || p.strategy&OnEnd != 0 {
			b.WriteString(p.endSeq)
		}
	}
	return b.String()
}

// findCapture scans text starting at the '(' at index open and returns
// the index just past the matching ')', or -1 when the parentheses are
// unbalanced. Nested parentheses and quoted sections are honored.
func findCapture(text string, open int) int {
	depth := 0
	i := open
	for i < len(text) {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\\':
			i++
		case '"':
			i++
			for i < len(text) && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
		case '\'':
			i++
			for i < len(text) && text[i] != '\'' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
		}
		i++
	}
	return -1
}

// splitInterpolation decomposes body into literal and code segments.
// A capture is "(" expression ")" followed immediately by "$". The
// capture's expression is wrapped in a to-text call. Returns false on a
// capture whose parentheses never balance.
func splitInterpolation(body string, parts *StringParts) bool {
	lit := 0
	i := 0
	for i < len(body) {
		c := body[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c != '(' {
			i++
			continue
		}
		end := findCapture(body, i)
		if end < 0 {
			return false
		}
		if end >= len(body) || body[end] != '$' {
			i = end
			continue
		}
		if lit < i {
			parts.AddString(body[lit:i])
		}
		parts.AddCode("cedar::to_text(" + body[i+1:end-1] + ")")
		i = end + 1
		lit = i
	}
	if lit < len(body) {
		parts.AddString(body[lit:])
	}
	return true
}

// ExpandStringLiteral rewrites an interpolated string literal, including
// its surrounding quotes, into a parenthesized concatenation expression.
// Text without any "(expr)$" capture is returned unchanged.
func ExpandStringLiteral(text string, errors *diagnostic.List, pos position.Pos) string {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, ")$") {
		return text
	}

	parts := NewStringParts(`"`, `"`, OnBothEnds)
	if !splitInterpolation(body, parts) {
		errors.AddError(pos, "unbalanced parentheses in string interpolation capture")
		return text
	}
	if !parts.IsExpanded() {
		return text
	}
	return "(" + parts.Generate() + ")"
}

// ExpandRawStringLiteral decomposes the body of an interpolated raw
// string literal. openingSeq and closingSeq are the full delimiter
// sequences, such as R"x( and )x". The strategy controls delimiter
// placement at the outer ends, so multi-line pieces can be regenerated
// without duplicating boundary delimiters.
func ExpandRawStringLiteral(openingSeq, closingSeq string, strategy AddsSequences, body string, errors *diagnostic.List, pos position.Pos) *StringParts {
	parts := NewStringParts(openingSeq, closingSeq, strategy)
	if !splitInterpolation(body, parts) {
		errors.AddError(pos, "unbalanced parentheses in raw string interpolation capture")
		parts.Clear()
		parts.AddString(body)
	}
	return parts
}
