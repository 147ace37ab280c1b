package parser

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// expression parses the full expression grammar, rooted at the
// assignment rung.
func (p *Parser) expression() *ast.Expression {
	assign := p.assignmentExpression()
	if assign == nil {
		return nil
	}
	return &ast.Expression{
		Assign:            assign,
		NumSubexpressions: countSubexpressions(assign),
	}
}

func countSubexpressions(b *ast.BinaryExpression) int {
	if b == nil {
		return 0
	}
	n := len(b.Terms)
	n += countSubexpressions(b.Lhs)
	for i := range b.Terms {
		n += countSubexpressions(b.Terms[i].Expr)
	}
	return n
}

// binaryExpression parses one rung of the ladder: a first operand from
// term followed by a flat (operator, operand) list for the operators
// isOp accepts.
func (p *Parser) binaryExpression(level ast.Level, isOp func(*lexer.Token) bool, term func() *ast.BinaryExpression) *ast.BinaryExpression {
	lhs := term()
	if lhs == nil {
		return nil
	}
	n := &ast.BinaryExpression{Level: level, Lhs: lhs}
	for !p.done() && isOp(p.curr()) {
		op := p.curr()
		p.next()
		rhs := term()
		if rhs == nil {
			p.error("invalid expression after "+op.Text, true, false)
			return nil
		}
		n.Terms = append(n.Terms, ast.BinaryTerm{Op: op, Expr: rhs})
	}
	return n
}

// multiplicativeExpression is the bottom rung, wrapping is-as
// expressions directly.
func (p *Parser) multiplicativeExpression() *ast.BinaryExpression {
	lhs := p.isAsExpression()
	if lhs == nil {
		return nil
	}
	n := &ast.BinaryExpression{Level: ast.Multiplicative, IsAs: lhs}
	for !p.done() {
		switch p.curr().Kind {
		case lexer.Multiply, lexer.Slash, lexer.Modulo:
		default:
			return n
		}
		op := p.curr()
		p.next()
		rhs := p.isAsExpression()
		if rhs == nil {
			p.error("invalid expression after "+op.Text, true, false)
			return nil
		}
		n.Terms = append(n.Terms, ast.BinaryTerm{Op: op, IsAs: rhs})
	}
	return n
}

func (p *Parser) additiveExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Additive, func(t *lexer.Token) bool {
		return t.Kind == lexer.Plus || t.Kind == lexer.Minus
	}, p.multiplicativeExpression)
}

func (p *Parser) shiftExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Shift, func(t *lexer.Token) bool {
		if !p.allowAngleOperators {
			return false
		}
		return t.Kind == lexer.LeftShift || t.Kind == lexer.RightShift
	}, p.additiveExpression)
}

func (p *Parser) compareExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Compare, func(t *lexer.Token) bool {
		return t.Kind == lexer.Spaceship
	}, p.shiftExpression)
}

func (p *Parser) relationalExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Relational, func(t *lexer.Token) bool {
		if !p.allowAngleOperators {
			return false
		}
		switch t.Kind {
		case lexer.Less, lexer.LessEq, lexer.Greater, lexer.GreaterEq:
			return true
		}
		return false
	}, p.compareExpression)
}

func (p *Parser) equalityExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Equality, func(t *lexer.Token) bool {
		return t.Kind == lexer.EqualComparison || t.Kind == lexer.NotEqualComparison
	}, p.relationalExpression)
}

func (p *Parser) bitAndExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.BitAnd, func(t *lexer.Token) bool {
		return t.Kind == lexer.Ampersand
	}, p.equalityExpression)
}

func (p *Parser) bitXorExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.BitXor, func(t *lexer.Token) bool {
		return t.Kind == lexer.Caret
	}, p.bitAndExpression)
}

func (p *Parser) bitOrExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.BitOr, func(t *lexer.Token) bool {
		return t.Kind == lexer.Pipe
	}, p.bitXorExpression)
}

func (p *Parser) logicalAndExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.LogicalAnd, func(t *lexer.Token) bool {
		return t.Kind == lexer.LogicalAnd
	}, p.bitOrExpression)
}

func (p *Parser) logicalOrExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.LogicalOr, func(t *lexer.Token) bool {
		return t.Kind == lexer.LogicalOr
	}, p.logicalAndExpression)
}

func (p *Parser) assignmentExpression() *ast.BinaryExpression {
	return p.binaryExpression(ast.Assignment, func(t *lexer.Token) bool {
		switch t.Kind {
		case lexer.Assignment, lexer.MultiplyEq, lexer.SlashEq, lexer.ModuloEq,
			lexer.PlusEq, lexer.MinusEq, lexer.RightShiftEq, lexer.LeftShiftEq,
			lexer.AmpersandEq, lexer.CaretEq, lexer.PipeEq,
			lexer.LogicalOrEq, lexer.LogicalAndEq, lexer.TildeEq:
			return true
		}
		return false
	}, p.logicalOrExpression)
}

// isAsExpression parses a prefix expression followed by is and as
// applications. An is term takes a type or a value pattern, an as term
// takes a type.
func (p *Parser) isAsExpression() *ast.IsAsExpression {
	pre := p.prefixExpression()
	if pre == nil {
		return nil
	}
	n := &ast.IsAsExpression{Expr: pre}
	for !p.done() && p.curr().Kind == lexer.Keyword &&
		(p.curr().Text == "is" || p.curr().Text == "as") {
		op := p.curr()
		p.next()
		term := ast.IsAsTerm{Op: op}
		if op.Text == "as" {
			t := p.typeID()
			if t == nil {
				p.error("'as' must be followed by a type", true, false)
				return nil
			}
			term.Type = t
		} else {
			save := p.pos
			if t := p.typeID(); t != nil {
				term.Type = t
			} else {
				p.pos = save
				e := p.expression()
				if e == nil {
					p.error("'is' must be followed by a type or a value pattern", true, false)
					return nil
				}
				term.Expr = e
			}
		}
		n.Ops = append(n.Ops, term)
	}
	return n
}

// prefixExpression parses leading !, -, and + operators.
func (p *Parser) prefixExpression() *ast.PrefixExpression {
	var ops []*lexer.Token
	for !p.done() {
		switch p.curr().Kind {
		case lexer.Not, lexer.Minus, lexer.Plus:
			ops = append(ops, p.curr())
			p.next()
			continue
		}
		break
	}
	post := p.postfixExpression()
	if post == nil {
		if len(ops) > 0 {
			p.error("invalid expression after prefix operator "+ops[len(ops)-1].Text, true, false)
		}
		return nil
	}
	return &ast.PrefixExpression{Ops: ops, Expr: post}
}

// adjacent reports whether token b starts immediately after token a on
// the same line, with no intervening whitespace.
func adjacent(a, b *lexer.Token) bool {
	return a != nil && b != nil && a.Pos.Line == b.Pos.Line &&
		a.Pos.Column+len(a.Text) == b.Pos.Column
}

// startsExpression reports whether t could begin an operand.
func startsExpression(t *lexer.Token) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case lexer.Identifier, lexer.FixedType, lexer.MultiKeyword, lexer.LeftParen:
		return true
	}
	if t.Kind.IsLiteral() {
		return true
	}
	switch t.Text {
	case "true", "false", "nullptr", "inspect", "this", "that", "new":
		return true
	}
	return false
}

// isPostfixUnary disambiguates *, &, and ~ between postfix unary and
// binary use. A postfix operator hugs its operand: no whitespace before
// it, and it is not glued to a following operand.
func (p *Parser) isPostfixUnary(t *lexer.Token) bool {
	prev := p.peek(-1)
	if !adjacent(prev, t) {
		return false
	}
	nt := p.peek(1)
	if nt != nil && adjacent(t, nt) && startsExpression(nt) {
		return false
	}
	return true
}

// postfixExpression parses a primary expression and its postfix
// operations: unary operators, calls, indexing, member access, and the
// $ capture operator.
func (p *Parser) postfixExpression() *ast.PostfixExpression {
	prim := p.primaryExpression()
	if prim == nil {
		return nil
	}
	n := &ast.PostfixExpression{Expr: prim}

	for !p.done() {
		t := p.curr()
		switch t.Kind {
		case lexer.PlusPlus, lexer.MinusMinus:
			p.next()
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t})

		case lexer.Multiply, lexer.Ampersand, lexer.Tilde:
			if !p.isPostfixUnary(t) {
				return n
			}
			p.next()
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t})

		case lexer.Dollar:
			p.next()
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t})
			group := p.currentCaptureGroup()
			if group == nil {
				p.error("a $ capture must appear inside a declaration or contract that can capture", false, false)
				return nil
			}
			n.CapGrp = group
			group.Add(n)

		case lexer.Dot:
			p.next()
			id := p.idExpression()
			if id == nil {
				p.error("invalid member name after .", true, false)
				return nil
			}
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t, ID: id})

		case lexer.LeftParen:
			list, closeTok := p.expressionList(lexer.RightParen, false)
			if list == nil {
				return nil
			}
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t, List: list, CloseOp: closeTok})

		case lexer.LeftBracket:
			list, closeTok := p.expressionList(lexer.RightBracket, false)
			if list == nil {
				return nil
			}
			n.Ops = append(n.Ops, ast.PostfixOp{Op: t, List: list, CloseOp: closeTok})

		default:
			return n
		}
	}
	return n
}

// expressionList parses a bracketed, comma-separated argument list with
// optional out and move passing prefixes. The cursor is on the opening
// bracket. Returns the list and the closing token.
func (p *Parser) expressionList(closeKind lexer.Lexeme, insideInitializer bool) (*ast.ExpressionList, *lexer.Token) {
	open := p.curr()
	p.next()
	n := &ast.ExpressionList{Open: open, InsideInitializer: insideInitializer}

	if !p.done() && p.curr().Kind != closeKind {
		for {
			term := ast.ExpressionListTerm{Pass: ast.PassIn}
			if p.curr().Kind == lexer.Keyword {
				switch p.curr().Text {
				case "out", "move":
					term.Pass = ast.ToPassingStyle(p.curr())
					p.next()
				}
			}
			e := p.expression()
			if e == nil {
				p.error("invalid expression in list", true, false)
				return nil, nil
			}
			term.Expr = e
			n.Terms = append(n.Terms, term)
			if p.done() || p.curr().Kind != lexer.Comma {
				break
			}
			p.next()
		}
	}

	if p.done() || p.curr().Kind != closeKind {
		p.error("expected "+lexer.CloseOf(open.Kind).String()+" to close the list", true, false)
		return nil, nil
	}
	closeTok := p.curr()
	p.next()
	n.Close = closeTok
	return n, closeTok
}

// primaryExpression parses the bottom of the expression grammar.
func (p *Parser) primaryExpression() *ast.PrimaryExpression {
	if p.done() {
		return nil
	}
	t := p.curr()

	if t.Kind.IsLiteral() && t.Kind != lexer.UserDefinedLiteralSuffix {
		lit := &ast.Literal{Tok: t}
		p.next()
		if !p.done() && p.curr().Kind == lexer.UserDefinedLiteralSuffix {
			lit.Suffix = p.curr()
			p.next()
		}
		return &ast.PrimaryExpression{Kind: ast.PrimaryLiteral, Lit: lit}
	}

	switch t.Text {
	case "true", "false", "nullptr":
		p.next()
		return &ast.PrimaryExpression{Kind: ast.PrimaryLiteral, Lit: &ast.Literal{Tok: t}}
	case "inspect":
		insp := p.inspectExpression()
		if insp == nil {
			return nil
		}
		return &ast.PrimaryExpression{Kind: ast.PrimaryInspect, Inspect: insp}
	case "this", "that":
		p.next()
		return &ast.PrimaryExpression{Kind: ast.PrimaryIdentifier, Identifier: t}
	}

	switch t.Kind {
	case lexer.LeftParen:
		list, _ := p.expressionList(lexer.RightParen, false)
		if list == nil {
			return nil
		}
		return &ast.PrimaryExpression{Kind: ast.PrimaryExpressionList, List: list}

	case lexer.FixedType, lexer.MultiKeyword:
		p.next()
		return &ast.PrimaryExpression{Kind: ast.PrimaryIdentifier, Identifier: t}

	case lexer.Ellipsis:
		// the pack-expansion operand of a fold expression
		p.next()
		return &ast.PrimaryExpression{Kind: ast.PrimaryIdentifier, Identifier: t}

	case lexer.Identifier, lexer.Scope:
		id := p.idExpression()
		if id == nil {
			return nil
		}
		return &ast.PrimaryExpression{Kind: ast.PrimaryIDExpression, ID: id}

	case lexer.Colon:
		d := p.unnamedDeclaration(t.Pos, nil, false, false, false, nil)
		if d == nil {
			return nil
		}
		return &ast.PrimaryExpression{Kind: ast.PrimaryDeclaration, Decl: d}
	}

	return nil
}

// idExpression parses a qualified or unqualified name use.
func (p *Parser) idExpression() *ast.IDExpression {
	pos := p.curr().Pos
	q, u := p.idChain()
	switch {
	case q != nil:
		return &ast.IDExpression{Pos: pos, Qualified: q}
	case u != nil:
		return &ast.IDExpression{Pos: pos, Unqualified: u}
	}
	return nil
}

// idChain parses a name in a single pass, returning a ::-qualified
// chain or a lone unqualified name. The leading name is parsed once
// and kept either way: rewinding it would re-run its template
// argument list, and a >> already split in place must not be consumed
// a second time.
func (p *Parser) idChain() (*ast.QualifiedID, *ast.UnqualifiedID) {
	save := p.pos

	var lead *lexer.Token
	if p.curr().Kind == lexer.Scope {
		lead = p.curr()
		p.next()
	}
	id := p.unqualifiedID()
	if id == nil {
		p.pos = save
		return nil, nil
	}
	if lead == nil && (p.done() || p.curr().Kind != lexer.Scope) {
		return nil, id
	}

	var q ast.QualifiedID
	q.Terms = append(q.Terms, ast.QualifiedIDTerm{Scope: lead, ID: id})
	for !p.done() && p.curr().Kind == lexer.Scope {
		sc := p.curr()
		p.next()
		id2 := p.unqualifiedID()
		if id2 == nil {
			p.error("invalid name after ::", true, false)
			return nil, nil
		}
		q.Terms = append(q.Terms, ast.QualifiedIDTerm{Scope: sc, ID: id2})
	}
	return &q, nil
}

// unqualifiedID parses a name with an optional template argument list.
// An unparsable argument list backtracks, leaving < as an operator.
func (p *Parser) unqualifiedID() *ast.UnqualifiedID {
	t := p.curr()
	switch t.Kind {
	case lexer.Identifier, lexer.FixedType, lexer.MultiKeyword:
	default:
		return nil
	}
	n := &ast.UnqualifiedID{Identifier: t}
	p.next()

	if !p.done() && p.curr().Kind == lexer.Less {
		save := p.pos
		open := p.curr().Pos
		p.next()

		prev := p.allowAngleOperators
		p.allowAngleOperators = false
		args, closePos, ok := p.templateArguments()
		p.allowAngleOperators = prev

		if ok {
			n.OpenAngle = open
			n.CloseAngle = closePos
			n.TemplateArguments = args
		} else {
			p.pos = save
		}
	}
	return n
}

// templateArguments parses the arguments after a < up to the matching
// >. Each argument is tried as a type first, then as an expression. A
// >> token closing two nested lists is split in place.
func (p *Parser) templateArguments() (args []ast.TemplateArgument, closePos position.Pos, ok bool) {
	if !p.done() && p.curr().Kind == lexer.Greater {
		closePos = p.curr().Pos
		p.next()
		return nil, closePos, true
	}
	var comma position.Pos
	for {
		arg := ast.TemplateArgument{Comma: comma}
		save := p.pos
		if t := p.typeID(); t != nil && p.atTemplateArgumentEnd() {
			arg.Type = t
		} else {
			p.pos = save
			e := p.expression()
			if e == nil || !p.atTemplateArgumentEnd() {
				return nil, position.Pos{}, false
			}
			arg.Expr = e
		}
		args = append(args, arg)

		if p.curr().Kind == lexer.Comma {
			comma = p.curr().Pos
			p.next()
			continue
		}
		break
	}

	if p.curr().Kind == lexer.RightShift {
		// split >> so the enclosing list sees its closing >
		closePos = p.curr().Pos
		tok := &p.tokens[p.pos]
		tok.Text = ">"
		tok.Kind = lexer.Greater
		tok.Pos.ShiftColumn(1)
		return args, closePos, true
	}
	if p.curr().Kind != lexer.Greater {
		return nil, position.Pos{}, false
	}
	closePos = p.curr().Pos
	p.next()
	return args, closePos, true
}

func (p *Parser) atTemplateArgumentEnd() bool {
	switch p.curr().Kind {
	case lexer.Comma, lexer.Greater, lexer.RightShift:
		return true
	}
	return false
}

// typeID parses a type name: const and * qualifiers followed by a
// qualified name, an unqualified name, or a builtin type keyword.
// Returns nil with the cursor unmoved when no type is present.
func (p *Parser) typeID() *ast.TypeID {
	if p.done() {
		return nil
	}
	save := p.pos
	n := &ast.TypeID{Pos: p.curr().Pos}

	for !p.done() {
		t := p.curr()
		if (t.Kind == lexer.Keyword && t.Text == "const") || t.Kind == lexer.Multiply {
			n.PCQualifiers = append(n.PCQualifiers, t)
			p.next()
			continue
		}
		break
	}

	switch p.curr().Kind {
	case lexer.FixedType, lexer.MultiKeyword:
		n.Keyword = p.curr()
		p.next()
	case lexer.Identifier, lexer.Scope:
		q, u := p.idChain()
		switch {
		case q != nil:
			n.Qualified = q
		case u != nil:
			n.Unqualified = u
		default:
			p.pos = save
			return nil
		}
	default:
		p.pos = save
		return nil
	}
	return n
}
