package parser

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/lexer"
)

// statement parses one statement. With semicolonRequired, statement
// forms that end in an expression must be terminated by a semicolon.
func (p *Parser) statement(semicolonRequired bool) *ast.Statement {
	if p.done() {
		p.error("expected a statement", false, false)
		return nil
	}
	n := &ast.Statement{}

	// a labeled loop: name : while / do / for
	if p.curr().Kind == lexer.Identifier && p.peek(1) != nil && p.peek(1).Kind == lexer.Colon {
		if kw := p.peek(2); kw != nil && isIterationKeyword(kw) {
			label := p.curr()
			p.next()
			p.next()
			it := p.iterationStatement(label)
			if it == nil {
				return nil
			}
			n.Kind = ast.StmtIteration
			n.Iteration = it
			return n
		}
	}

	t := p.curr()
	switch t.Text {
	case "if":
		sel := p.selectionStatement()
		if sel == nil {
			return nil
		}
		n.Kind = ast.StmtSelection
		n.Selection = sel
		return n

	case "return":
		ret := p.returnStatement()
		if ret == nil {
			return nil
		}
		n.Kind = ast.StmtReturn
		n.Return = ret
		return n

	case "while", "do", "for":
		it := p.iterationStatement(nil)
		if it == nil {
			return nil
		}
		n.Kind = ast.StmtIteration
		n.Iteration = it
		return n

	case "break", "continue":
		jump := p.jumpStatement()
		if jump == nil {
			return nil
		}
		n.Kind = ast.StmtJump
		n.Jump = jump
		return n

	case "using":
		using := p.usingStatement()
		if using == nil {
			return nil
		}
		n.Kind = ast.StmtUsing
		n.Using = using
		return n

	case "assert":
		c := p.contract()
		if c == nil {
			return nil
		}
		if !p.expectSemicolon(semicolonRequired, "assert") {
			return nil
		}
		n.Kind = ast.StmtContract
		n.Contract = c
		return n

	case "inspect":
		insp := p.inspectExpression()
		if insp == nil {
			return nil
		}
		n.Kind = ast.StmtInspect
		n.Inspect = insp
		return n
	}

	if t.Kind == lexer.LeftBrace {
		cs := p.compoundStatement()
		if cs == nil {
			return nil
		}
		n.Kind = ast.StmtCompound
		n.Compound = cs
		return n
	}

	if p.isDeclarationStart() {
		d := p.declaration(semicolonRequired, false, false, n)
		if d == nil {
			return nil
		}
		n.Kind = ast.StmtDeclaration
		n.Declaration = d
		return n
	}

	e := p.expression()
	if e == nil {
		p.error("invalid statement", true, true)
		return nil
	}
	es := &ast.ExpressionStatement{Expr: e}
	if !p.done() && p.curr().Kind == lexer.Semicolon {
		es.HasSemicolon = true
		p.next()
	} else if semicolonRequired {
		p.error("expected ; at the end of the statement", true, false)
		return nil
	}
	n.Kind = ast.StmtExpression
	n.Expression = es
	return n
}

func isIterationKeyword(t *lexer.Token) bool {
	switch t.Text {
	case "while", "do", "for":
		return true
	}
	return false
}

// isDeclarationStart reports whether the cursor begins a declaration:
// a name followed by a colon, or a bare colon for an unnamed one.
func (p *Parser) isDeclarationStart() bool {
	t := p.curr()
	at := 0
	switch t.Text {
	case "public", "protected", "private":
		at = 1
		t = p.peek(1)
		if t == nil {
			return false
		}
	}
	if t.Kind != lexer.Identifier {
		return false
	}
	nt := p.peek(at + 1)
	return nt != nil && nt.Kind == lexer.Colon
}

func (p *Parser) expectSemicolon(required bool, after string) bool {
	if !p.done() && p.curr().Kind == lexer.Semicolon {
		p.next()
		return true
	}
	if required {
		p.error("expected ; after "+after, true, false)
		return false
	}
	return true
}

// compoundStatement parses a braced statement sequence. The cursor is
// on the opening brace.
func (p *Parser) compoundStatement() *ast.CompoundStatement {
	if p.curr().Kind != lexer.LeftBrace {
		p.error("expected {", true, false)
		return nil
	}
	n := &ast.CompoundStatement{Open: p.curr().Pos}
	p.next()

	for !p.done() && p.curr().Kind != lexer.RightBrace {
		s := p.statement(true)
		if s == nil {
			return nil
		}
		n.Add(s)
	}
	if p.done() {
		p.error("unexpected end of input, expected } to close the block", false, false)
		return nil
	}
	n.Close = p.curr().Pos
	p.next()
	return n
}

// selectionStatement parses an if statement. The false branch node is
// always built so downstream passes can attach to it.
func (p *Parser) selectionStatement() *ast.SelectionStatement {
	n := &ast.SelectionStatement{Keyword: p.curr()}
	p.next()

	if !p.done() && p.curr().Text == "constexpr" {
		n.IsConstexpr = true
		p.next()
	}

	cond := p.logicalOrExpression()
	if cond == nil {
		p.error("invalid if condition", true, false)
		return nil
	}
	n.Cond = cond

	tb := p.compoundStatement()
	if tb == nil {
		return nil
	}
	n.TrueBranch = tb
	n.FalseBranch = &ast.CompoundStatement{}

	if !p.done() && p.curr().Text == "else" {
		n.ElsePos = p.curr().Pos
		n.HasSourceFalseBranch = true
		p.next()
		if !p.done() && p.curr().Text == "if" {
			nested := p.statement(false)
			if nested == nil {
				return nil
			}
			n.FalseBranch.Add(nested)
		} else {
			fb := p.compoundStatement()
			if fb == nil {
				return nil
			}
			n.FalseBranch = fb
		}
	}
	return n
}

func (p *Parser) returnStatement() *ast.ReturnStatement {
	n := &ast.ReturnStatement{Keyword: p.curr()}
	p.next()

	if !p.done() && p.curr().Kind != lexer.Semicolon {
		e := p.expression()
		if e == nil {
			p.error("invalid return expression", true, false)
			return nil
		}
		n.Expr = e
	}
	if p.done() || p.curr().Kind != lexer.Semicolon {
		p.error("expected ; after the return statement", true, false)
		return nil
	}
	p.next()
	return n
}

// iterationStatement parses while, do, and for loops. while and do
// carry a condition and compound body, for iterates a range with a
// loop parameter. Any form takes an optional next clause.
func (p *Parser) iterationStatement(label *lexer.Token) *ast.IterationStatement {
	n := &ast.IterationStatement{Label: label, Keyword: p.curr()}
	p.next()

	switch n.Keyword.Text {
	case "while":
		cond := p.logicalOrExpression()
		if cond == nil {
			p.error("a while loop requires a condition", true, false)
			return nil
		}
		n.Cond = cond
		if !p.parseNextClause(n) {
			return nil
		}
		body := p.compoundStatement()
		if body == nil {
			return nil
		}
		n.Compound = body
		return n

	case "do":
		body := p.compoundStatement()
		if body == nil {
			return nil
		}
		n.Compound = body
		if p.done() || p.curr().Text != "while" {
			p.error("a do loop requires a trailing while condition", true, false)
			return nil
		}
		p.next()
		cond := p.logicalOrExpression()
		if cond == nil {
			p.error("invalid do loop condition", true, false)
			return nil
		}
		n.Cond = cond
		if !p.parseNextClause(n) {
			return nil
		}
		if p.done() || p.curr().Kind != lexer.Semicolon {
			p.error("expected ; after the do loop condition", true, false)
			return nil
		}
		p.next()
		return n

	case "for":
		rng := p.expression()
		if rng == nil {
			p.error("a for loop requires a range to iterate", true, false)
			return nil
		}
		n.Range = rng
		if !p.parseNextClause(n) {
			return nil
		}
		if p.done() || p.curr().Text != "do" {
			p.error("a for loop requires 'do' before its body", true, false)
			return nil
		}
		p.next()
		if p.done() || p.curr().Kind != lexer.LeftParen {
			p.error("a for loop body requires a ( parameter )", true, false)
			return nil
		}
		p.next()
		param := p.parameterDeclaration(false, false)
		if param == nil {
			return nil
		}
		n.Parameter = param
		if p.done() || p.curr().Kind != lexer.RightParen {
			p.error("expected ) after the for loop parameter", true, false)
			return nil
		}
		p.next()
		body := p.statement(false)
		if body == nil {
			return nil
		}
		n.Body = body
		return n
	}

	p.error("invalid iteration statement", true, false)
	return nil
}

func (p *Parser) parseNextClause(n *ast.IterationStatement) bool {
	if p.done() || p.curr().Text != "next" {
		return true
	}
	p.next()
	e := p.assignmentExpression()
	if e == nil {
		p.error("invalid expression after next", true, false)
		return false
	}
	n.NextExpr = e
	return true
}

func (p *Parser) jumpStatement() *ast.JumpStatement {
	n := &ast.JumpStatement{Keyword: p.curr()}
	p.next()
	if !p.done() && p.curr().Kind == lexer.Identifier {
		n.Label = p.curr()
		p.next()
	}
	if p.done() || p.curr().Kind != lexer.Semicolon {
		p.error("expected ; after "+n.Keyword.Text, true, false)
		return nil
	}
	p.next()
	return n
}

func (p *Parser) usingStatement() *ast.UsingStatement {
	n := &ast.UsingStatement{Keyword: p.curr()}
	p.next()
	if !p.done() && p.curr().Text == "namespace" {
		n.ForNamespace = true
		p.next()
	}
	id := p.idExpression()
	if id == nil {
		p.error("invalid name in using statement", true, false)
		return nil
	}
	n.ID = id
	if p.done() || p.curr().Kind != lexer.Semicolon {
		p.error("expected ; after the using statement", true, false)
		return nil
	}
	p.next()
	return n
}

// contract parses a pre, post, or assert contract. The cursor is on
// the contract keyword. The contract's condition and message may use
// $ captures, which register into the contract's own group.
func (p *Parser) contract() *ast.Contract {
	n := &ast.Contract{Kind: p.curr()}
	p.next()
	defer p.pushCaptureGroup(&n.Captures)()

	if !p.done() && p.curr().Kind == lexer.Less {
		p.next()
		cat := p.idExpression()
		if cat == nil {
			p.error("invalid contract group after <", true, false)
			return nil
		}
		n.Category = cat
		if p.done() || p.curr().Kind != lexer.Greater {
			p.error("expected > after the contract group", true, false)
			return nil
		}
		p.next()
	}

	if p.done() || p.curr().Kind != lexer.LeftParen {
		p.error("expected ( to open the "+n.Kind.Text+" contract", true, false)
		return nil
	}
	n.Open = p.curr().Pos
	p.next()

	cond := p.logicalOrExpression()
	if cond == nil {
		p.error("invalid "+n.Kind.Text+" contract condition", true, false)
		return nil
	}
	n.Cond = cond

	if !p.done() && p.curr().Kind == lexer.Comma {
		p.next()
		if p.done() || p.curr().Kind != lexer.StringLiteral {
			p.error("a contract message must be a string literal", true, false)
			return nil
		}
		n.Message = p.curr()
		p.next()
	}

	if p.done() || p.curr().Kind != lexer.RightParen {
		p.error("expected ) to close the "+n.Kind.Text+" contract", true, false)
		return nil
	}
	p.next()
	return n
}

// inspectExpression parses an inspect over a sequence of is and as
// alternatives. The cursor is on the inspect keyword.
func (p *Parser) inspectExpression() *ast.InspectExpression {
	n := &ast.InspectExpression{Keyword: p.curr()}
	p.next()

	if !p.done() && p.curr().Text == "constexpr" {
		n.IsConstexpr = true
		p.next()
	}

	e := p.expression()
	if e == nil {
		p.error("invalid inspect subject", true, false)
		return nil
	}
	n.Expr = e

	if !p.done() && p.curr().Kind == lexer.Arrow {
		p.next()
		t := p.typeID()
		if t == nil {
			p.error("invalid inspect result type after ->", true, false)
			return nil
		}
		n.ResultType = t
	}

	if p.done() || p.curr().Kind != lexer.LeftBrace {
		p.error("expected { to open the inspect body", true, false)
		return nil
	}
	n.Open = p.curr().Pos
	p.next()

	for !p.done() && p.curr().Kind != lexer.RightBrace {
		alt := p.alternative()
		if alt == nil {
			return nil
		}
		n.Alternatives = append(n.Alternatives, alt)
	}
	if p.done() {
		p.error("unexpected end of input, expected } to close the inspect body", false, false)
		return nil
	}
	n.Close = p.curr().Pos
	p.next()
	return n
}

// alternative parses one inspect arm: an optional binding name, is or
// as, a type or value pattern, and an = body.
func (p *Parser) alternative() *ast.Alternative {
	n := &ast.Alternative{}

	if p.curr().Kind == lexer.Identifier && p.peek(1) != nil && p.peek(1).Kind == lexer.Colon {
		n.Name = &ast.UnqualifiedID{Identifier: p.curr()}
		p.next()
		p.next()
	}

	t := p.curr()
	if t.Text != "is" && t.Text != "as" {
		p.error("an inspect alternative must begin with is or as", true, false)
		return nil
	}
	n.IsAs = t
	p.next()

	save := p.pos
	if typ := p.typeID(); typ != nil && !p.done() && p.curr().Kind == lexer.Assignment {
		n.Type = typ
	} else {
		p.pos = save
		pattern := p.postfixExpression()
		if pattern == nil {
			p.error("invalid inspect alternative pattern", true, false)
			return nil
		}
		n.Pattern = pattern
	}

	if p.done() || p.curr().Kind != lexer.Assignment {
		p.error("expected = before the alternative's body", true, false)
		return nil
	}
	n.EqualSign = p.curr().Pos
	p.next()

	s := p.statement(true)
	if s == nil {
		return nil
	}
	n.Stmt = s
	return n
}
