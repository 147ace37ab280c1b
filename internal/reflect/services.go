// Package reflect implements the metafunction layer: typed views over
// declaration nodes, a compiler services handle for re-entrant snippet
// parsing, and the built-in metafunction catalogue. Metafunctions run
// while their type declaration is still being parsed and may splice
// newly parsed members into its body.
package reflect

import (
	"io"
	"os"
	"strings"

	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/parser"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// CompilerServices is the capability handed to a metafunction. It
// bundles the shared error list, the generated token and declaration
// buffers, a private parser for re-entrant parses, and the invocation's
// name and arguments.
type CompilerServices struct {
	errors     *diagnostic.List
	errorsMark int

	gen            *lexer.GeneratedBuffer
	generatedDecls *[]*ast.Statement
	parser         *parser.Parser

	target *ast.Declaration
	pos    position.Pos

	name     string
	args     []string
	argsUsed bool

	hardFailed bool

	out io.Writer
}

func newCompilerServices(p *parser.Parser, gen *lexer.GeneratedBuffer, decls *[]*ast.Statement, target *ast.Declaration, pos position.Pos, name string, args []string) *CompilerServices {
	return &CompilerServices{
		errors:         p.Errors(),
		errorsMark:     p.Errors().Len(),
		gen:            gen,
		generatedDecls: decls,
		parser:         p.Clone(),
		target:         target,
		pos:            pos,
		name:           name,
		args:           args,
		out:            os.Stdout,
	}
}

// Tokenize lexes generated source text. The text may span several
// lines. Tokens are positioned at the invocation site so diagnostics
// against generated code land near their cause.
func (c *CompilerServices) Tokenize(text string) []lexer.Token {
	var (
		tokens   []lexer.Token
		comments []lexer.Comment
		state    lexer.State
	)
	lineno := c.pos.Line
	for _, line := range strings.Split(text, "\n") {
		lexer.LexLine(line, lineno, &state, &tokens, &comments, c.errors)
		lineno++
	}
	if state.InMultiline() {
		c.Error("generated source ends inside an unterminated literal or comment")
		return nil
	}
	return tokens
}

// ParseStatement lexes and parses one statement of generated source.
// The resulting statement is recorded in the shared generated
// declarations buffer. Returns nil on a lex or parse error.
func (c *CompilerServices) ParseStatement(text string) *ast.Statement {
	tokens := c.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	s := c.parser.ParseOneDeclaration(tokens, c.gen)
	if s == nil {
		return nil
	}
	*c.generatedDecls = append(*c.generatedDecls, s)
	return s
}

// ParseAndAddDeclaration parses generated source and splices it into
// the body of the declaration under metafunction processing.
func (c *CompilerServices) ParseAndAddDeclaration(text string) bool {
	s := c.ParseStatement(text)
	if s == nil {
		c.Error("invalid generated member: " + text)
		return false
	}
	return c.target.AddTypeMember(s)
}

// Require hard-fails the compilation when cond is false. Reports
// whether cond held.
func (c *CompilerServices) Require(cond bool, msg string) bool {
	if cond {
		return true
	}
	c.hardFailed = true
	c.errors.AddError(c.pos, c.name+": "+msg)
	return false
}

// Error reports a diagnostic at the invocation site without aborting.
func (c *CompilerServices) Error(msg string) {
	c.errors.AddError(c.pos, c.name+": "+msg)
}

// Name returns the metafunction name being applied.
func (c *CompilerServices) Name() string { return c.name }

// ArgumentCount returns the number of arguments passed to the
// metafunction. Counting does not mark the arguments as used.
func (c *CompilerServices) ArgumentCount() int { return len(c.args) }

// GetArgument returns argument i, marking the argument list as used.
func (c *CompilerServices) GetArgument(i int) (string, bool) {
	c.argsUsed = true
	if i < 0 || i >= len(c.args) {
		return "", false
	}
	return c.args[i], true
}

// ArgumentsWereUsed reports whether any argument was consulted.
func (c *CompilerServices) ArgumentsWereUsed() bool { return c.argsUsed }

// ReportedAnything reports whether this invocation added diagnostics.
func (c *CompilerServices) ReportedAnything() bool {
	return c.errors.Len() > c.errorsMark
}

// HardFailed reports whether a Require failed.
func (c *CompilerServices) HardFailed() bool { return c.hardFailed }

// SetOutput redirects the print metafunction's output.
func (c *CompilerServices) SetOutput(w io.Writer) { c.out = w }
