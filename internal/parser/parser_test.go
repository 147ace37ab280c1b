package parser

import (
	"strings"
	"testing"

	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/lexer"
)

func lexLines(t *testing.T, src string) []lexer.Token {
	t.Helper()
	var (
		tokens   []lexer.Token
		comments []lexer.Comment
		state    lexer.State
	)
	errors := diagnostic.NewList()
	for i, line := range strings.Split(src, "\n") {
		lexer.LexLine(line, i+1, &state, &tokens, &comments, errors)
	}
	if errors.HasErrors() {
		for _, e := range errors.Entries() {
			t.Log(e.String())
		}
		t.Fatalf("test source failed to lex")
	}
	if state.InMultiline() {
		t.Fatalf("test source left the lexer inside a multi-line construct")
	}
	return tokens
}

func parseSource(t *testing.T, src string) (*ast.TranslationUnit, *diagnostic.List, bool) {
	t.Helper()
	tokens := lexLines(t, src)
	p := New(diagnostic.NewList())
	ok := p.Parse(tokens, lexer.NewGeneratedBuffer())
	return p.Tree(), p.Errors(), ok
}

func mustParse(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	tu, errors, ok := parseSource(t, src)
	if !ok || errors.HasErrors() {
		for _, e := range errors.Entries() {
			t.Log(e.String())
		}
		t.Fatalf("parse failed")
	}
	return tu
}

// initializerExpr digs the expression out of a declaration of the form
// name: _ = expr;
func initializerExpr(t *testing.T, d *ast.Declaration) *ast.BinaryExpression {
	t.Helper()
	if d.Initializer == nil || d.Initializer.Kind != ast.StmtExpression {
		t.Fatalf("declaration %q has no expression initializer", d.Name().Text)
	}
	return d.Initializer.Expression.Expr.Assign
}

// firstBusyRung descends through rungs that carry no operators.
func firstBusyRung(b *ast.BinaryExpression) *ast.BinaryExpression {
	for len(b.Terms) == 0 && b.Lhs != nil {
		b = b.Lhs
	}
	return b
}

func identText(t *testing.T, b *ast.BinaryExpression) string {
	t.Helper()
	tok := b.GetIdentifier()
	if tok == nil {
		t.Fatalf("expected a single identifier, got %q", b.ToString())
	}
	return tok.Text
}

func TestMultiplicationBindsTighterThanAddition(t *testing.T) {
	tu := mustParse(t, "v: _ = a + b * c;")
	add := firstBusyRung(initializerExpr(t, tu.Declarations[0]))

	if add.Level != ast.Additive {
		t.Fatalf("operator rung = %v, want additive", add.Level)
	}
	if add.TermsSize() != 1 || add.Terms[0].Op.Text != "+" {
		t.Fatalf("additive terms = %d, want one + term", add.TermsSize())
	}
	if got := identText(t, add.Lhs); got != "a" {
		t.Errorf("left operand = %q, want a", got)
	}

	mul := add.Terms[0].Expr
	if mul.Level != ast.Multiplicative || mul.TermsSize() != 1 {
		t.Fatalf("right operand of + is not a single multiplication: %q", mul.ToString())
	}
	if got := mul.IsAs.GetIdentifier(); got == nil || got.Text != "b" {
		t.Errorf("multiplication left operand is not b")
	}
	if mul.Terms[0].Op.Text != "*" {
		t.Errorf("multiplication operator = %q, want *", mul.Terms[0].Op.Text)
	}
	if got := mul.Terms[0].IsAs.GetIdentifier(); got == nil || got.Text != "c" {
		t.Errorf("multiplication right operand is not c")
	}
}

func TestRelationalBindsTighterThanEquality(t *testing.T) {
	tu := mustParse(t, "v: _ = a < b == c;")
	eq := firstBusyRung(initializerExpr(t, tu.Declarations[0]))

	if eq.Level != ast.Equality {
		t.Fatalf("operator rung = %v, want equality", eq.Level)
	}
	if eq.TermsSize() != 1 || eq.Terms[0].Op.Text != "==" {
		t.Fatalf("equality terms = %d, want one == term", eq.TermsSize())
	}
	if got := identText(t, eq.Terms[0].Expr); got != "c" {
		t.Errorf("== right operand = %q, want c", got)
	}

	rel := firstBusyRung(eq.Lhs)
	if rel.Level != ast.Relational || rel.TermsSize() != 1 || rel.Terms[0].Op.Text != "<" {
		t.Fatalf("== left operand is not a single < comparison: %q", rel.ToString())
	}
	if got := identText(t, rel.Lhs); got != "a" {
		t.Errorf("< left operand = %q, want a", got)
	}
	if got := identText(t, rel.Terms[0].Expr); got != "b" {
		t.Errorf("< right operand = %q, want b", got)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	tu := mustParse(t, "main: () -> i64 = { return 0; }")
	d := tu.Declarations[0]

	if !d.IsFunction() || !d.HasNameText("main") {
		t.Fatalf("expected a function named main")
	}
	if d.Function.Returns != ast.ReturnsType || d.Function.ReturnType.ToString() != "i64" {
		t.Errorf("declared return type is not i64")
	}
	if d.Initializer == nil || d.Initializer.Kind != ast.StmtCompound {
		t.Fatalf("function body is not a compound statement")
	}
	body := d.Initializer.Compound.Statements
	if len(body) != 1 || body[0].Kind != ast.StmtReturn || body[0].Return.Expr == nil {
		t.Errorf("body should hold a single return with a value")
	}
}

func TestObjectDeclarations(t *testing.T) {
	tu := mustParse(t, "x: i64 = 5;\ny := 5;")

	x := tu.Declarations[0]
	if !x.IsObject() || x.ObjectType.ToString() != "i64" || !x.HasInitializer() {
		t.Errorf("x should be an initialized i64 object")
	}

	y := tu.Declarations[1]
	if !y.IsObject() || !y.ObjectType.IsWildcard() {
		t.Errorf("y should be an object with a deduced type")
	}
	if !y.HasInitializer() {
		t.Errorf("y should carry its initializer")
	}
}

func TestNamespaceDeclaration(t *testing.T) {
	tu := mustParse(t, "util: namespace = {\n    pi: i64 = 3;\n}")
	d := tu.Declarations[0]

	if !d.IsNamespace() || !d.HasNameText("util") {
		t.Fatalf("expected a namespace named util")
	}
	body := d.Initializer.Compound.Statements
	if len(body) != 1 || body[0].Kind != ast.StmtDeclaration {
		t.Fatalf("namespace body should hold one declaration")
	}
	if !body[0].Declaration.HasNameText("pi") {
		t.Errorf("namespace member = %q, want pi", body[0].Declaration.Name().Text)
	}
}

func TestAliasForms(t *testing.T) {
	tu := mustParse(t, "MyInt: type == i64;\nlib: namespace == util;\nthree: == 3;")

	ta := tu.Declarations[0]
	if !ta.IsTypeAlias() || ta.Alias.TypeInit.ToString() != "i64" {
		t.Errorf("MyInt should be a type alias for i64")
	}

	na := tu.Declarations[1]
	if !na.IsNamespaceAlias() || na.Alias.IDInit == nil {
		t.Errorf("lib should be a namespace alias")
	}

	oa := tu.Declarations[2]
	if !oa.IsObjectAlias() || oa.Alias.ExprInit == nil {
		t.Errorf("three should be an object alias")
	}
}

func TestTypeDeclarationMembers(t *testing.T) {
	tu := mustParse(t, `point: type = {
    public x: i64 = 0;
    y: i64 = 0;
    magnitude: (this) -> i64 = { return 0; }
}`)
	d := tu.Declarations[0]
	if !d.IsType() {
		t.Fatalf("point should be a type declaration")
	}

	members := d.TypeScopeDeclarations(ast.AllMembers)
	if len(members) != 3 {
		t.Fatalf("member count = %d, want 3", len(members))
	}
	if !members[0].HasNameText("x") || !members[0].IsPublic() {
		t.Errorf("x should be a public member")
	}
	if !members[1].HasNameText("y") || !members[1].IsDefaultAccess() {
		t.Errorf("y should have default access")
	}
	if !members[2].IsFunction() || !members[2].IsFunctionWithThis() {
		t.Errorf("magnitude should be a member function taking this")
	}

	funcs := d.TypeScopeDeclarations(ast.FunctionMembers)
	if len(funcs) != 1 || !funcs[0].HasNameText("magnitude") {
		t.Errorf("function member filter should select magnitude only")
	}
}

func TestValueSetFunctionDetection(t *testing.T) {
	tu := mustParse(t, `box: type = {
    operator=: (out this, that) = { }
    operator=: (inout this, move that) = { }
}`)
	vs := tu.Declarations[0].FindDeclaredValueSetFunctions()

	if vs.OutThisInThat == nil {
		t.Errorf("copy construction not detected")
	}
	if vs.InoutThisMoveThat == nil {
		t.Errorf("move assignment not detected")
	}
	if vs.OutThisMoveThat != nil || vs.InoutThisInThat != nil {
		t.Errorf("undeclared value-set functions reported as present")
	}
}

func TestNestedTemplateArgumentsSplitRightShift(t *testing.T) {
	tu := mustParse(t, "v: _ = f<a, g<b>>(0);")

	mul := firstBusyRung(initializerExpr(t, tu.Declarations[0]))
	if mul.Level != ast.Multiplicative {
		t.Fatalf("initializer is not a single postfix term")
	}
	prim := mul.IsAs.Expr.Expr.Expr
	if prim.Kind != ast.PrimaryIDExpression {
		t.Fatalf("call target is not a name")
	}
	u := prim.ID.Unqualified
	if u == nil || !u.HasTemplateArguments() || len(u.TemplateArguments) != 2 {
		t.Fatalf("f should carry two template arguments")
	}
	inner := u.TemplateArguments[1]
	if inner.Type == nil || inner.Type.Unqualified == nil ||
		!inner.Type.Unqualified.HasTemplateArguments() {
		t.Errorf("second argument should be the nested template g<b>")
	}
}

func TestUnqualifiedTemplateIDParsesOnce(t *testing.T) {
	tu := mustParse(t, "v: _ = f<a, g<b>>(0);\nw: _ = m::f<a, g<b>>(0);")

	for i, name := range []string{"v", "w"} {
		mul := firstBusyRung(initializerExpr(t, tu.Declarations[i]))
		if mul.Level != ast.Multiplicative || mul.TermsSize() != 0 {
			t.Fatalf("%s: initializer is not a single postfix term", name)
		}
		post := mul.IsAs.Expr.Expr
		if len(post.Ops) != 1 || post.Ops[0].Op.Kind != lexer.LeftParen {
			t.Fatalf("%s: template-id is not called once", name)
		}
	}

	prim := firstBusyRung(initializerExpr(t, tu.Declarations[1])).IsAs.Expr.Expr.Expr
	q := prim.ID.Qualified
	if q == nil || len(q.Terms) != 2 {
		t.Fatalf("m::f should parse as a two-term qualified name")
	}
	last := q.Terms[1].ID
	if !last.HasTemplateArguments() || len(last.TemplateArguments) != 2 {
		t.Errorf("qualified f should carry two template arguments")
	}
}

func TestPostfixUnaryAdjacency(t *testing.T) {
	tu := mustParse(t, "v: _ = p*;\nw: _ = a * b;")

	deref := firstBusyRung(initializerExpr(t, tu.Declarations[0]))
	if deref.TermsSize() != 0 {
		t.Fatalf("p* should not parse as a binary expression")
	}
	post := deref.IsAs.Expr.Expr
	if len(post.Ops) != 1 || post.Ops[0].Op.Text != "*" {
		t.Errorf("p* should carry one postfix * operation")
	}

	mul := firstBusyRung(initializerExpr(t, tu.Declarations[1]))
	if mul.Level != ast.Multiplicative || mul.TermsSize() != 1 {
		t.Fatalf("a * b should parse as one multiplication")
	}
	if got := mul.Terms[0].IsAs.GetIdentifier(); got == nil || got.Text != "b" {
		t.Errorf("multiplication right operand is not b")
	}
}

func TestContractCaptures(t *testing.T) {
	tu := mustParse(t, "f: (x: i64) = {\n    assert(y$ > 0);\n}")
	stmt := tu.Declarations[0].Initializer.Compound.Statements[0]

	if stmt.Kind != ast.StmtContract {
		t.Fatalf("assert did not parse as a contract")
	}
	c := stmt.Contract
	if len(c.Captures.Members) != 1 {
		t.Fatalf("capture count = %d, want 1", len(c.Captures.Members))
	}
	got := c.Captures.Members[0]
	if got.Sym != "_0" {
		t.Errorf("capture symbol = %q, want _0", got.Sym)
	}
	if got.Expr.CapGrp != &c.Captures {
		t.Errorf("captured expression is not linked to the contract's group")
	}
}

func TestDeclarationCaptures(t *testing.T) {
	tu := mustParse(t, "x: i64 = y$;")
	d := tu.Declarations[0]
	if len(d.Captures.Members) != 1 {
		t.Fatalf("capture count = %d, want 1", len(d.Captures.Members))
	}
}

func TestUnnamedDeclarationExpression(t *testing.T) {
	tu := mustParse(t, "f: () = {\n    g(:() = { h(); });\n}")
	stmt := tu.Declarations[0].Initializer.Compound.Statements[0]
	if stmt.Kind != ast.StmtExpression {
		t.Fatalf("call did not parse as an expression statement")
	}

	call := firstBusyRung(stmt.Expression.Expr.Assign)
	post := call.IsAs.Expr.Expr
	if len(post.Ops) != 1 || post.Ops[0].List == nil {
		t.Fatalf("g should carry one call operation")
	}
	arg := post.Ops[0].List.Terms[0].Expr
	lambda := firstBusyRung(arg.Assign).IsAs.Expr.Expr.Expr
	if lambda.Kind != ast.PrimaryDeclaration || !lambda.Decl.IsFunction() {
		t.Errorf("call argument should be an unnamed function")
	}
}

func TestIterationStatements(t *testing.T) {
	tu := mustParse(t, `f: (items: _) = {
    i := 0;
    while i < 10 next i++ { g(i); }
    do { g(i); } while i < 10;
    for items next i++ do (item: _) { g(item); }
}`)
	body := tu.Declarations[0].Initializer.Compound.Statements
	if len(body) != 4 {
		t.Fatalf("statement count = %d, want 4", len(body))
	}

	keywords := []string{"while", "do", "for"}
	for i, want := range keywords {
		s := body[i+1]
		if s.Kind != ast.StmtIteration {
			t.Fatalf("statement %d is not an iteration statement", i+1)
		}
		if got := s.Iteration.Keyword.Text; got != want {
			t.Errorf("loop keyword = %q, want %q", got, want)
		}
	}
	if body[1].Iteration.NextExpr == nil {
		t.Errorf("while loop lost its next clause")
	}
	if body[3].Iteration.Parameter == nil || body[3].Iteration.Range == nil {
		t.Errorf("for loop lost its range or parameter")
	}
}

func TestInspectExpression(t *testing.T) {
	tu := mustParse(t, `classify: (x: i64) -> i64 = {
    return inspect x -> i64 {
        is 0 = 1;
        is _ = 2;
    };
}`)
	ret := tu.Declarations[0].Initializer.Compound.Statements[0]
	prim := firstBusyRung(ret.Return.Expr.Assign).IsAs.Expr.Expr.Expr
	if prim.Kind != ast.PrimaryInspect {
		t.Fatalf("return value is not an inspect expression")
	}

	insp := prim.Inspect
	if insp.ResultType == nil || insp.ResultType.ToString() != "i64" {
		t.Errorf("inspect result type is not i64")
	}
	if len(insp.Alternatives) != 2 {
		t.Fatalf("alternative count = %d, want 2", len(insp.Alternatives))
	}
	if insp.Alternatives[0].Pattern == nil {
		t.Errorf("is 0 should match by value pattern")
	}
	if insp.Alternatives[1].Type == nil || !insp.Alternatives[1].Type.IsWildcard() {
		t.Errorf("is _ should match the wildcard type")
	}
}

func TestErrorRecoveryAfterBadDeclaration(t *testing.T) {
	tu, errors, ok := parseSource(t, "bad: ) = { }\ngood: i64 = 1;")

	if ok || !errors.HasErrors() {
		t.Fatalf("malformed declaration should report an error")
	}
	if len(tu.Declarations) != 1 || !tu.Declarations[0].HasNameText("good") {
		t.Fatalf("the declaration after the error did not parse")
	}
}

func TestDeclarationAfterBadRawStringDelimiter(t *testing.T) {
	var (
		tokens   []lexer.Token
		comments []lexer.Comment
		state    lexer.State
	)
	lexErrors := diagnostic.NewList()
	src := []string{
		`x: _ = R"bad delim(oops)bad delim";`,
		`y: i64 = 5;`,
	}
	for i, line := range src {
		lexer.LexLine(line, i+1, &state, &tokens, &comments, lexErrors)
	}
	if lexErrors.Len() != 1 {
		t.Fatalf("lex errors = %d, want 1", lexErrors.Len())
	}

	p := New(diagnostic.NewList())
	if !p.Parse(tokens, lexer.NewGeneratedBuffer()) || p.Errors().HasErrors() {
		for _, e := range p.Errors().Entries() {
			t.Log(e.String())
		}
		t.Fatalf("declarations after the bad literal should still parse")
	}
	tu := p.Tree()
	if len(tu.Declarations) != 2 {
		t.Fatalf("declarations = %d, want 2", len(tu.Declarations))
	}
	if !tu.Declarations[1].HasNameText("y") {
		t.Errorf("second declaration should be y, parsed on its own")
	}
}

func TestMetafunctionsUnavailableWithoutApplier(t *testing.T) {
	_, errors, ok := parseSource(t, "t: @value type = { }")

	if ok {
		t.Fatalf("metafunction use without an applier should fail")
	}
	found := false
	for _, e := range errors.Entries() {
		if strings.Contains(e.Msg, "metafunctions are not available") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing applier was not diagnosed")
	}
}

func TestParseOneDeclaration(t *testing.T) {
	tokens := lexLines(t, "inc: (x: i64) -> i64 = { return x + 1; }")
	p := New(diagnostic.NewList())

	s := p.ParseOneDeclaration(tokens, lexer.NewGeneratedBuffer())
	if s == nil || s.Kind != ast.StmtDeclaration {
		t.Fatalf("expected a declaration statement")
	}
	if !s.Declaration.IsFunction() || !s.Declaration.HasNameText("inc") {
		t.Errorf("expected a function named inc")
	}
	if len(p.Tree().Declarations) != 0 {
		t.Errorf("a single parsed declaration must not join the translation unit")
	}
}

func TestDeclarationsInRange(t *testing.T) {
	p := New(diagnostic.NewList())
	gen := lexer.NewGeneratedBuffer()

	all := lexLines(t, "a: i64 = 1;\nb: i64 = 2;\nc: i64 = 3;")
	if !p.Parse(all, gen) {
		t.Fatalf("parse failed")
	}

	var second []lexer.Token
	for _, tok := range all {
		if tok.Pos.Line == 2 {
			second = append(second, tok)
		}
	}
	got := p.DeclarationsInRange(second)
	if len(got) != 1 || !got[0].HasNameText("b") {
		t.Fatalf("range query should select exactly b")
	}
	if got := p.DeclarationsInRange(nil); got != nil {
		t.Errorf("empty token range should select nothing")
	}
}

func TestFoldExpressionIdentity(t *testing.T) {
	tu := mustParse(t, "v: _ = args + ...;\nw: _ = a + b;")
	if len(tu.Declarations) != 2 {
		t.Fatalf("declarations = %d, want 2", len(tu.Declarations))
	}
	fold := initializerExpr(t, tu.Declarations[0])
	if !fold.IsFoldExpression() {
		t.Error("args + ... not recognized as a fold expression")
	}
	if fold.IsIdentifier() {
		t.Error("fold expression reported as a bare identifier")
	}
	plain := initializerExpr(t, tu.Declarations[1])
	if plain.IsFoldExpression() {
		t.Error("a + b recognized as a fold expression")
	}
}
