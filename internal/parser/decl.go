package parser

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// synthToken stores a synthesized token in the generated buffer and
// returns a stable pointer to it.
func (p *Parser) synthToken(text string, pos position.Pos, kind lexer.Lexeme) *lexer.Token {
	tok := lexer.Token{Text: text, Pos: pos, Kind: kind}
	if p.gen != nil {
		return p.gen.Append(tok)
	}
	t := tok
	return &t
}

// deducedType builds the wildcard type for declarations whose type is
// deduced from their initializer.
func (p *Parser) deducedType(pos position.Pos) *ast.TypeID {
	tok := p.synthToken("_", pos, lexer.Identifier)
	return &ast.TypeID{Pos: pos, Unqualified: &ast.UnqualifiedID{Identifier: tok}}
}

// declaration parses a declaration with an optional access specifier
// and name. The cursor is on the access specifier, the name, or the
// colon of an unnamed declaration.
func (p *Parser) declaration(semicolonRequired, isParameter, isTemplateParameter bool, myStmt *ast.Statement) *ast.Declaration {
	if p.done() {
		p.error("expected a declaration", false, false)
		return nil
	}
	start := p.curr().Pos

	access := ast.AccessDefault
	switch p.curr().Text {
	case "public":
		access = ast.AccessPublic
		p.next()
	case "protected":
		access = ast.AccessProtected
		p.next()
	case "private":
		access = ast.AccessPrivate
		p.next()
	}

	var id *ast.UnqualifiedID
	if p.curr().Kind != lexer.Colon {
		if p.curr().Kind != lexer.Identifier {
			p.error("expected a declaration name", true, true)
			return nil
		}
		id = &ast.UnqualifiedID{Identifier: p.curr()}
		p.next()
		if p.done() || p.curr().Kind != lexer.Colon {
			p.error("expected : after the declaration name", true, false)
			return nil
		}
	}

	n := p.unnamedDeclaration(start, id, semicolonRequired, isParameter, isTemplateParameter, myStmt)
	if n == nil {
		return nil
	}
	n.Access = access
	return n
}

// unnamedDeclaration parses everything after a declaration's name. The
// cursor is on the colon. The declaration is pushed as the innermost
// open declaration and capture scope while its signature and
// initializer parse, so nested declarations and $ captures attach to
// it.
func (p *Parser) unnamedDeclaration(start position.Pos, id *ast.UnqualifiedID, semicolonRequired, isParameter, isTemplateParameter bool, myStmt *ast.Statement) *ast.Declaration {
	n := &ast.Declaration{
		Pos:                 start,
		Identifier:          id,
		IsParameter:         isParameter,
		IsTemplateParameter: isTemplateParameter,
		MyStatement:         myStmt,
		Parent:              p.currentDeclaration(),
	}
	defer p.pushDeclaration(n)()
	defer p.pushCaptureGroup(&n.Captures)()

	if p.curr().Kind != lexer.Colon {
		p.error("expected : to begin the declaration", true, false)
		return nil
	}
	p.next()

	if !p.done() && p.curr().Kind == lexer.Less {
		tp := p.parameterDeclarationList(false, true, lexer.Less, lexer.Greater)
		if tp == nil {
			return nil
		}
		n.TemplateParams = tp
	}

	for !p.done() && p.curr().Kind == lexer.At {
		p.next()
		// union is a keyword everywhere except as a metafunction name
		if !p.done() && p.curr().Kind == lexer.Keyword && p.curr().Is("union") {
			p.curr().SetKind(lexer.Identifier)
		}
		mf := p.idExpression()
		if mf == nil {
			p.error("invalid metafunction name after @", true, false)
			return nil
		}
		n.Metafunctions = append(n.Metafunctions, mf)
	}

	if !p.done() && p.curr().Kind == lexer.Ellipsis {
		n.IsVariadic = true
		p.next()
	}

	final := false
	if !p.done() && p.curr().Text == "final" &&
		p.peek(1) != nil && p.peek(1).Text == "type" {
		final = true
		p.next()
	}

	switch {
	case p.done():
		p.error("unexpected end of input in declaration", false, false)
		return nil

	case p.curr().Kind == lexer.LeftParen:
		ft := p.functionType(n)
		if ft == nil {
			return nil
		}
		n.Kind = ast.DeclFunction
		n.Function = ft

	case p.curr().Text == "type":
		n.Kind = ast.DeclType
		n.TypeDecl = &ast.TypeBody{Keyword: p.curr(), Final: final}
		p.next()

	case p.curr().Text == "namespace":
		n.Kind = ast.DeclNamespace
		n.Namespace = &ast.NamespaceBody{Keyword: p.curr()}
		p.next()

	case p.curr().Kind == lexer.Assignment || p.curr().Kind == lexer.EqualComparison:
		n.Kind = ast.DeclObject
		n.ObjectType = p.deducedType(start)

	default:
		t := p.typeID()
		if t == nil {
			p.error("unexpected text in declaration, expected a type, (, 'type', or 'namespace'", true, true)
			return nil
		}
		n.Kind = ast.DeclObject
		n.ObjectType = t
	}

	if !p.done() && p.curr().Text == "requires" {
		n.RequiresPos = p.curr().Pos
		p.next()
		rc := p.logicalOrExpression()
		if rc == nil {
			p.error("invalid requires clause", true, false)
			return nil
		}
		n.RequiresClause = rc
	}

	switch {
	case !p.done() && p.curr().Kind == lexer.EqualComparison:
		n.EqualSign = p.curr().Pos
		p.next()
		switch n.Kind {
		case ast.DeclType:
			return p.finishTypeAlias(n, semicolonRequired)
		case ast.DeclNamespace:
			return p.finishNamespaceAlias(n, semicolonRequired)
		case ast.DeclObject:
			return p.finishObjectAlias(n, semicolonRequired)
		case ast.DeclFunction:
			n.IsConstexpr = true
			if !p.declInitializer(n, semicolonRequired) {
				return nil
			}
		}

	case !p.done() && p.curr().Kind == lexer.Assignment:
		n.EqualSign = p.curr().Pos
		p.next()
		if !p.declInitializer(n, semicolonRequired) {
			return nil
		}

	case !p.done() && p.curr().Kind == lexer.LeftBrace && n.Kind == ast.DeclFunction:
		n.TerseNoEquals = true
		if !p.declInitializer(n, semicolonRequired) {
			return nil
		}

	default:
		if !p.expectSemicolon(semicolonRequired, "the declaration") {
			return nil
		}
	}

	if n.Kind == ast.DeclType && len(n.Metafunctions) > 0 {
		if p.applier == nil {
			p.error("metafunctions are not available in this configuration", false, false)
			return nil
		}
		if !p.applier.ApplyTypeMetafunctions(p, n) {
			return nil
		}
	}
	return n
}

// declInitializer parses the = initializer: a braced body or a
// statement.
func (p *Parser) declInitializer(n *ast.Declaration, semicolonRequired bool) bool {
	if p.done() {
		p.error("unexpected end of input, expected an initializer", false, false)
		return false
	}
	if p.curr().Kind == lexer.LeftBrace {
		cs := p.compoundStatement()
		if cs == nil {
			return false
		}
		n.Initializer = &ast.Statement{Kind: ast.StmtCompound, Compound: cs}
		return true
	}
	s := p.statement(semicolonRequired)
	if s == nil {
		return false
	}
	n.Initializer = s
	return true
}

func (p *Parser) finishTypeAlias(n *ast.Declaration, semicolonRequired bool) *ast.Declaration {
	target := p.typeID()
	if target == nil {
		p.error("a type alias must refer to a type", true, false)
		return nil
	}
	n.Alias = &ast.Alias{Keyword: n.TypeDecl.Keyword, Kind: ast.AliasType, TypeInit: target}
	n.Kind = ast.DeclAlias
	n.TypeDecl = nil
	if !p.expectSemicolon(semicolonRequired, "the alias") {
		return nil
	}
	return n
}

func (p *Parser) finishNamespaceAlias(n *ast.Declaration, semicolonRequired bool) *ast.Declaration {
	target := p.idExpression()
	if target == nil {
		p.error("a namespace alias must refer to a namespace", true, false)
		return nil
	}
	n.Alias = &ast.Alias{Keyword: n.Namespace.Keyword, Kind: ast.AliasNamespace, IDInit: target}
	n.Kind = ast.DeclAlias
	n.Namespace = nil
	if !p.expectSemicolon(semicolonRequired, "the alias") {
		return nil
	}
	return n
}

func (p *Parser) finishObjectAlias(n *ast.Declaration, semicolonRequired bool) *ast.Declaration {
	e := p.expression()
	if e == nil {
		p.error("an alias must have an initializer", true, false)
		return nil
	}
	alias := &ast.Alias{Kind: ast.AliasObject, ExprInit: e}
	if n.ObjectType != nil && !n.ObjectType.IsWildcard() {
		alias.Type = n.ObjectType
	}
	n.Alias = alias
	n.Kind = ast.DeclAlias
	n.ObjectType = nil
	if !p.expectSemicolon(semicolonRequired, "the alias") {
		return nil
	}
	return n
}

// parameterDeclaration parses one parameter: passing style, modifier,
// and the underlying declaration. Bare this and that parameters carry
// a deduced type. In template lists a bare name declares a type
// parameter.
func (p *Parser) parameterDeclaration(isReturns, isTemplate bool) *ast.ParameterDeclaration {
	if p.done() {
		p.error("expected a parameter declaration", false, false)
		return nil
	}
	n := &ast.ParameterDeclaration{Pos: p.curr().Pos, Pass: ast.PassIn}
	if isReturns {
		n.Pass = ast.PassOut
	}

	// passing style and modifier may appear in either order
	passSeen := false
	for !p.done() && p.curr().Kind == lexer.Keyword {
		if ps := ast.ToPassingStyle(p.curr()); ps != ast.PassInvalid && !passSeen {
			n.Pass = ps
			passSeen = true
			p.next()
			continue
		}
		if m := ast.ToParameterModifier(p.curr()); m != ast.ModNone && n.Mod == ast.ModNone {
			n.Mod = m
			p.next()
			continue
		}
		break
	}
	if p.done() {
		p.error("unexpected end of input in parameter declaration", false, false)
		return nil
	}

	if t := p.curr(); t.Text == "this" || t.Text == "that" {
		p.next()
		if !p.done() && p.curr().Kind == lexer.Colon {
			d := p.unnamedDeclaration(t.Pos, &ast.UnqualifiedID{Identifier: t}, false, true, isTemplate, nil)
			if d == nil {
				return nil
			}
			n.Decl = d
			return n
		}
		n.Decl = &ast.Declaration{
			Pos:         t.Pos,
			Identifier:  &ast.UnqualifiedID{Identifier: t},
			Kind:        ast.DeclObject,
			ObjectType:  p.deducedType(t.Pos),
			Parent:      p.currentDeclaration(),
			IsParameter: true,
		}
		return n
	}

	if isTemplate && p.curr().Kind == lexer.Identifier &&
		(p.peek(1) == nil || p.peek(1).Kind != lexer.Colon) {
		// bare template parameter name declares a type parameter
		t := p.curr()
		p.next()
		n.Decl = &ast.Declaration{
			Pos:                 t.Pos,
			Identifier:          &ast.UnqualifiedID{Identifier: t},
			Kind:                ast.DeclType,
			TypeDecl:            &ast.TypeBody{Keyword: p.synthToken("type", t.Pos, lexer.Keyword)},
			Parent:              p.currentDeclaration(),
			IsTemplateParameter: true,
		}
		return n
	}

	d := p.declaration(false, true, isTemplate, nil)
	if d == nil {
		return nil
	}
	n.Decl = d
	return n
}

// parameterDeclarationList parses a bracketed parameter sequence.
// Function parameters use ( ), template parameters use < >.
func (p *Parser) parameterDeclarationList(isReturns, isTemplate bool, openKind, closeKind lexer.Lexeme) *ast.ParameterList {
	if p.curr().Kind != openKind {
		p.error("expected "+bracketSpelling(openKind)+" to open the parameter list", true, false)
		return nil
	}
	n := &ast.ParameterList{Open: p.curr().Pos}
	p.next()

	for !p.done() && p.curr().Kind != closeKind {
		param := p.parameterDeclaration(isReturns, isTemplate)
		if param == nil {
			return nil
		}
		param.Ordinal = len(n.Params)
		n.Params = append(n.Params, param)
		if !p.done() && p.curr().Kind == lexer.Comma {
			p.next()
			continue
		}
		break
	}

	if p.done() || p.curr().Kind != closeKind {
		p.error("expected "+bracketSpelling(closeKind)+" to close the parameter list", true, false)
		return nil
	}
	n.Close = p.curr().Pos
	p.next()
	return n
}

func bracketSpelling(k lexer.Lexeme) string {
	switch k {
	case lexer.LeftParen:
		return "("
	case lexer.RightParen:
		return ")"
	case lexer.Less:
		return "<"
	case lexer.Greater:
		return ">"
	}
	return k.String()
}

// functionType parses a function signature: parameters, an optional
// throws, an optional return, and trailing pre and post contracts.
func (p *Parser) functionType(myDecl *ast.Declaration) *ast.FunctionType {
	n := &ast.FunctionType{MyDecl: myDecl}

	params := p.parameterDeclarationList(false, false, lexer.LeftParen, lexer.RightParen)
	if params == nil {
		return nil
	}
	n.Parameters = params

	if !p.done() && p.curr().Text == "throws" {
		n.Throws = true
		p.next()
	}

	if !p.done() && p.curr().Kind == lexer.Arrow {
		p.next()
		if !p.done() && p.curr().Kind == lexer.Keyword {
			switch ps := ast.ToPassingStyle(p.curr()); ps {
			case ast.PassForward, ast.PassMove:
				n.ReturnPass = ps
				p.next()
			}
		}
		if !p.done() && p.curr().Kind == lexer.LeftParen {
			rl := p.parameterDeclarationList(true, false, lexer.LeftParen, lexer.RightParen)
			if rl == nil {
				return nil
			}
			n.ReturnList = rl
			n.Returns = ast.ReturnsList
		} else {
			t := p.typeID()
			if t == nil {
				p.error("invalid return type after ->", true, false)
				return nil
			}
			n.ReturnType = t
			n.Returns = ast.ReturnsType
		}
	}

	for !p.done() && (p.curr().Text == "pre" || p.curr().Text == "post") {
		c := p.contract()
		if c == nil {
			return nil
		}
		n.Contracts = append(n.Contracts, c)
	}
	return n
}
