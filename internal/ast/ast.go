// Package ast defines the Cedar syntax tree. Nodes own their children
// and keep pointers into the token streams produced by the lexer, so a
// tree is valid for as long as its token store is.
package ast

import (
	"fmt"

	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Position() position.Pos
}

// PassingStyle is how a parameter, argument, or return value is passed.
type PassingStyle int

const (
	PassInvalid PassingStyle = iota
	PassIn
	PassCopy
	PassInout
	PassOut
	PassMove
	PassForward
)

var passingStyleNames = map[PassingStyle]string{
	PassInvalid: "invalid",
	PassIn:      "in",
	PassCopy:    "copy",
	PassInout:   "inout",
	PassOut:     "out",
	PassMove:    "move",
	PassForward: "forward",
}

func (p PassingStyle) String() string {
	if name, ok := passingStyleNames[p]; ok {
		return name
	}
	return "invalid"
}

// ToPassingStyle maps a keyword token to its passing style, or
// PassInvalid when the token is not a passing-style keyword.
func ToPassingStyle(t *lexer.Token) PassingStyle {
	if t == nil {
		return PassInvalid
	}
	switch t.Text {
	case "in":
		return PassIn
	case "copy":
		return PassCopy
	case "inout":
		return PassInout
	case "out":
		return PassOut
	case "move":
		return PassMove
	case "forward":
		return PassForward
	}
	return PassInvalid
}

// Accessibility is a member's declared access level.
type Accessibility int

const (
	AccessDefault Accessibility = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

var accessibilityNames = map[Accessibility]string{
	AccessDefault:   "default",
	AccessPublic:    "public",
	AccessProtected: "protected",
	AccessPrivate:   "private",
}

func (a Accessibility) String() string {
	if name, ok := accessibilityNames[a]; ok {
		return name
	}
	return "default"
}

// Capture is one $ capture site inside a declaration or contract.
// Sym is the stable synthetic name assigned to the captured value.
type Capture struct {
	Expr *PostfixExpression
	Sym  string
}

// CaptureGroup collects the captures of one capturing construct. Add is
// idempotent, registering the same capture subtree twice, whether by
// node identity or by spelling, yields a single entry.
type CaptureGroup struct {
	Members []Capture
}

// Add registers a capture and returns its entry.
func (g *CaptureGroup) Add(expr *PostfixExpression) *Capture {
	text := expr.ToString()
	for i := range g.Members {
		if g.Members[i].Expr == expr || g.Members[i].Expr.ToString() == text {
			return &g.Members[i]
		}
	}
	g.Members = append(g.Members, Capture{
		Expr: expr,
		Sym:  fmt.Sprintf("_%d", len(g.Members)),
	})
	return &g.Members[len(g.Members)-1]
}

// Remove drops the entry for expr, if present.
func (g *CaptureGroup) Remove(expr *PostfixExpression) {
	for i := range g.Members {
		if g.Members[i].Expr == expr {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return
		}
	}
}

// Empty reports whether no capture is registered.
func (g *CaptureGroup) Empty() bool { return len(g.Members) == 0 }

// TranslationUnit is the root of a parsed file. Declarations are
// append-only, parse results accumulate in source order.
type TranslationUnit struct {
	Declarations []*Declaration
}

// Add appends a top-level declaration.
func (tu *TranslationUnit) Add(d *Declaration) {
	tu.Declarations = append(tu.Declarations, d)
}

// Position returns the position of the first declaration.
func (tu *TranslationUnit) Position() position.Pos {
	if len(tu.Declarations) > 0 {
		return tu.Declarations[0].Position()
	}
	return position.Pos{}
}
