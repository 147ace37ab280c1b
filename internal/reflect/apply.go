package reflect

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/parser"
)

// Metafunction inspects and mutates one type declaration. Built-in
// catalogue entries and user-registered extensions share this shape.
type Metafunction func(c *CompilerServices, t TypeDeclaration)

// Applier owns the metafunction registry and the shared generated
// declaration buffer. It implements parser.MetafunctionApplier.
type Applier struct {
	gen            *lexer.GeneratedBuffer
	generatedDecls []*ast.Statement
	registry       map[string]Metafunction
}

// NewApplier returns an applier appending generated tokens to gen.
func NewApplier(gen *lexer.GeneratedBuffer) *Applier {
	return &Applier{gen: gen}
}

// Register installs a user-supplied metafunction. Registered names are
// consulted only when the built-in catalogue has no entry.
func (a *Applier) Register(name string, fn Metafunction) {
	if a.registry == nil {
		a.registry = map[string]Metafunction{}
	}
	a.registry[name] = fn
}

// GeneratedDeclarations returns all statements synthesized by
// metafunctions so far, in creation order.
func (a *Applier) GeneratedDeclarations() []*ast.Statement { return a.generatedDecls }

func (a *Applier) lookup(name string) Metafunction {
	if fn, ok := builtins[name]; ok {
		return fn
	}
	return a.registry[name]
}

// ApplyTypeMetafunctions runs the metafunctions listed on n, left to
// right. Each runs to completion, including any re-entrant parses,
// before the next begins. Returns false when a metafunction is unknown
// or hard-fails, aborting the enclosing declaration.
func (a *Applier) ApplyTypeMetafunctions(p *parser.Parser, n *ast.Declaration) bool {
	for _, mf := range n.Metafunctions {
		name, args := metafunctionNameAndArguments(mf)
		fn := a.lookup(name)
		if fn == nil {
			p.Errors().AddError(mf.Position(), "unknown metafunction: "+name)
			return false
		}

		c := newCompilerServices(p, a.gen, &a.generatedDecls, n, mf.Position(), name, args)
		fn(c, TypeDeclaration{Declaration{n: n, c: c}})
		if c.hardFailed {
			return false
		}
		if len(args) > 0 && !c.argsUsed {
			c.Error("arguments were passed but the metafunction does not use arguments")
		}
	}
	return true
}

// metafunctionNameAndArguments splits an applied metafunction id into
// its bare name and the textual template arguments, so @name<a, b> is
// looked up as name with arguments a and b.
func metafunctionNameAndArguments(mf *ast.IDExpression) (string, []string) {
	var id *ast.UnqualifiedID
	switch {
	case mf.Unqualified != nil:
		id = mf.Unqualified
	case mf.Qualified != nil && len(mf.Qualified.Terms) > 0:
		id = mf.Qualified.Terms[len(mf.Qualified.Terms)-1].ID
	}
	if id == nil {
		return mf.ToString(), nil
	}
	var args []string
	for i := range id.TemplateArguments {
		args = append(args, id.TemplateArguments[i].ToString())
	}
	return id.Identifier.Text, args
}
