// Package parser implements the recursive descent parser for Cedar.
// It consumes the token streams produced by the lexer and builds the
// syntax tree defined in the ast package. Parse results accumulate in
// a translation unit owned by the parser.
package parser

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// MetafunctionApplier applies the metafunctions named on a type
// declaration once the declaration has been parsed. The parser is
// handed back so the applier can run re-entrant parses of generated
// source. Returning false aborts the declaration.
type MetafunctionApplier interface {
	ApplyTypeMetafunctions(p *Parser, n *ast.Declaration) bool
}

// Parser holds all parsing state. A parser may be reused across calls
// to Parse, the translation unit accumulates.
type Parser struct {
	errors *diagnostic.List
	tu     *ast.TranslationUnit
	gen    *lexer.GeneratedBuffer

	tokens []lexer.Token
	pos    int

	currentDeclarations  []*ast.Declaration
	currentCaptureGroups []*ast.CaptureGroup

	applier MetafunctionApplier

	// angle operators are suspended while parsing template arguments
	allowAngleOperators bool
}

// New returns a parser reporting into errors.
func New(errors *diagnostic.List) *Parser {
	return &Parser{
		errors:              errors,
		tu:                  &ast.TranslationUnit{},
		allowAngleOperators: true,
	}
}

// Clone returns a fresh parser sharing this parser's error list and
// metafunction applier but none of its cursor or scope state. The
// reflection layer uses clones for re-entrant parses.
func (p *Parser) Clone() *Parser {
	c := New(p.errors)
	c.applier = p.applier
	c.gen = p.gen
	return c
}

// SetMetafunctionApplier installs the metafunction capability.
func (p *Parser) SetMetafunctionApplier(a MetafunctionApplier) { p.applier = a }

// Tree returns the accumulated translation unit.
func (p *Parser) Tree() *ast.TranslationUnit { return p.tu }

// Errors returns the shared error list.
func (p *Parser) Errors() *diagnostic.List { return p.errors }

// Parse parses a token stream as a declaration sequence, appending the
// results to the translation unit. gen receives tokens synthesized
// during the parse. Reports whether the stream parsed without error.
func (p *Parser) Parse(tokens []lexer.Token, gen *lexer.GeneratedBuffer) bool {
	p.tokens = tokens
	p.gen = gen
	p.pos = 0

	ok := true
	for !p.done() {
		d := p.declaration(true, false, false, nil)
		if d == nil {
			ok = false
			if !p.skipToNextDeclaration() {
				break
			}
			continue
		}
		p.tu.Add(d)
	}
	return ok
}

// ParseOneDeclaration parses a single statement, usually a declaration,
// from a generated token stream. The result is not added to the
// translation unit. Returns nil on a parse error.
func (p *Parser) ParseOneDeclaration(tokens []lexer.Token, gen *lexer.GeneratedBuffer) *ast.Statement {
	p.tokens = tokens
	p.gen = gen
	p.pos = 0
	return p.statement(true)
}

// DeclarationsInRange returns the accumulated top-level declarations
// whose position falls within the line range spanned by tokens.
func (p *Parser) DeclarationsInRange(tokens []lexer.Token) []*ast.Declaration {
	if len(tokens) == 0 {
		return nil
	}
	first := tokens[0].Pos.Line
	last := tokens[len(tokens)-1].Pos.Line
	var out []*ast.Declaration
	for _, d := range p.tu.Declarations {
		if d.Pos.Line >= first && d.Pos.Line <= last {
			out = append(out, d)
		}
	}
	return out
}

// Visit walks the accumulated translation unit.
func (p *Parser) Visit(v ast.Visitor) {
	ast.Walk(v, p.tu, 0)
}

// ----- cursor primitives -----

var eofToken = lexer.Token{Kind: lexer.None}

func (p *Parser) done() bool { return p.pos >= len(p.tokens) }

// curr returns the token under the cursor, or a None token at end of
// input. The None token is never stored into the tree.
func (p *Parser) curr() *lexer.Token {
	if p.done() {
		return &eofToken
	}
	return &p.tokens[p.pos]
}

// peek returns the token n positions ahead, or nil.
func (p *Parser) peek(n int) *lexer.Token {
	if p.pos+n < 0 || p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

func (p *Parser) next() {
	if !p.done() {
		p.pos++
	}
}

// ----- error reporting and recovery -----

func (p *Parser) errPos() position.Pos {
	if !p.done() {
		return p.curr().Pos
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Pos
	}
	return position.Pos{}
}

// error reports a parse error at the cursor. With includeCurrToken the
// offending token's spelling is appended. fallback entries are shown
// only when no better diagnostic exists for the same line.
func (p *Parser) error(msg string, includeCurrToken, fallback bool) {
	if includeCurrToken && !p.done() {
		msg += " (at '" + p.curr().Text + "')"
	}
	p.errors.Add(diagnostic.Entry{Pos: p.errPos(), Msg: msg, Fallback: fallback})
}

// skipToNextDeclaration advances past the current malformed
// declaration: to just after the next top-level semicolon or the close
// of the current brace nest. Reports whether more input remains.
func (p *Parser) skipToNextDeclaration() bool {
	depth := 0
	for !p.done() {
		switch p.curr().Kind {
		case lexer.LeftBrace:
			depth++
		case lexer.RightBrace:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				p.next()
				if !p.done() && p.curr().Kind == lexer.Semicolon {
					p.next()
				}
				return !p.done()
			}
		case lexer.Semicolon:
			if depth == 0 {
				p.next()
				return !p.done()
			}
		}
		p.next()
	}
	return false
}

// ----- scope guards -----

// pushDeclaration makes d the innermost open declaration. The returned
// func pops it, suitable for defer so the pop runs on every exit path.
func (p *Parser) pushDeclaration(d *ast.Declaration) func() {
	p.currentDeclarations = append(p.currentDeclarations, d)
	return func() {
		p.currentDeclarations = p.currentDeclarations[:len(p.currentDeclarations)-1]
	}
}

// currentDeclaration returns the innermost open declaration, or nil.
func (p *Parser) currentDeclaration() *ast.Declaration {
	if len(p.currentDeclarations) == 0 {
		return nil
	}
	return p.currentDeclarations[len(p.currentDeclarations)-1]
}

// pushCaptureGroup makes g the active capture group for $ operators.
// The returned func pops it.
func (p *Parser) pushCaptureGroup(g *ast.CaptureGroup) func() {
	p.currentCaptureGroups = append(p.currentCaptureGroups, g)
	return func() {
		p.currentCaptureGroups = p.currentCaptureGroups[:len(p.currentCaptureGroups)-1]
	}
}

// currentCaptureGroup returns the active capture group, or nil.
func (p *Parser) currentCaptureGroup() *ast.CaptureGroup {
	if len(p.currentCaptureGroups) == 0 {
		return nil
	}
	return p.currentCaptureGroups[len(p.currentCaptureGroups)-1]
}
