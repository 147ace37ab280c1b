package ast

import (
	"strings"

	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// TemplateArgument is one template argument, an expression or a type.
type TemplateArgument struct {
	Comma position.Pos
	Expr  *Expression
	Type  *TypeID
}

func (a *TemplateArgument) ToString() string {
	switch {
	case a.Type != nil:
		return a.Type.ToString()
	case a.Expr != nil:
		return a.Expr.ToString()
	}
	return ""
}

// UnqualifiedID is a name with optional template arguments.
type UnqualifiedID struct {
	Identifier        *lexer.Token
	OpenAngle         position.Pos
	CloseAngle        position.Pos
	TemplateArguments []TemplateArgument
}

func (n *UnqualifiedID) Position() position.Pos { return n.Identifier.Pos }

func (n *UnqualifiedID) HasTemplateArguments() bool { return n.OpenAngle.IsValid() }

func (n *UnqualifiedID) ToString() string {
	var b strings.Builder
	b.WriteString(n.Identifier.Text)
	if n.HasTemplateArguments() {
		b.WriteByte('<')
		for i := range n.TemplateArguments {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(n.TemplateArguments[i].ToString())
		}
		b.WriteByte('>')
	}
	return b.String()
}

// QualifiedIDTerm is one segment of a qualified name. Scope is the ::
// token preceding the segment, nil only for a leading segment without
// global qualification.
type QualifiedIDTerm struct {
	Scope *lexer.Token
	ID    *UnqualifiedID
}

// QualifiedID is a ::-separated chain of name segments.
type QualifiedID struct {
	Terms []QualifiedIDTerm
}

func (n *QualifiedID) Position() position.Pos {
	if len(n.Terms) == 0 {
		return position.Pos{}
	}
	if n.Terms[0].Scope != nil {
		return n.Terms[0].Scope.Pos
	}
	return n.Terms[0].ID.Position()
}

func (n *QualifiedID) ToString() string {
	var b strings.Builder
	for _, t := range n.Terms {
		if t.Scope != nil {
			b.WriteString("::")
		}
		b.WriteString(t.ID.ToString())
	}
	return b.String()
}

// IDExpression is a use of a name, qualified or not.
type IDExpression struct {
	Pos         position.Pos
	Qualified   *QualifiedID
	Unqualified *UnqualifiedID
}

func (n *IDExpression) Position() position.Pos { return n.Pos }

func (n *IDExpression) IsQualified() bool   { return n.Qualified != nil }
func (n *IDExpression) IsUnqualified() bool { return n.Unqualified != nil }

// Identifier returns the name token of an unqualified id, or nil.
func (n *IDExpression) Identifier() *lexer.Token {
	if n.Unqualified != nil {
		return n.Unqualified.Identifier
	}
	return nil
}

func (n *IDExpression) ToString() string {
	switch {
	case n.Qualified != nil:
		return n.Qualified.ToString()
	case n.Unqualified != nil:
		return n.Unqualified.ToString()
	}
	return ""
}

// Literal is a literal token with an optional user-defined suffix.
type Literal struct {
	Tok    *lexer.Token
	Suffix *lexer.Token
}

func (n *Literal) Position() position.Pos { return n.Tok.Pos }

func (n *Literal) ToString() string {
	if n.Suffix != nil {
		return n.Tok.Text + n.Suffix.Text
	}
	return n.Tok.Text
}

// TypeID names a type: qualifiers followed by a qualified name, an
// unqualified name, or a builtin type keyword.
type TypeID struct {
	Pos          position.Pos
	PCQualifiers []*lexer.Token // const and * in source order
	Qualified    *QualifiedID
	Unqualified  *UnqualifiedID
	Keyword      *lexer.Token
}

func (n *TypeID) Position() position.Pos { return n.Pos }

// IsWildcard reports whether the type is the deduction wildcard _.
func (n *TypeID) IsWildcard() bool {
	return n.Unqualified != nil && n.Unqualified.Identifier.Text == "_"
}

// IsPointerQualified reports whether any * qualifier is present.
func (n *TypeID) IsPointerQualified() bool {
	for _, q := range n.PCQualifiers {
		if q.Text == "*" {
			return true
		}
	}
	return false
}

func (n *TypeID) ToString() string {
	var b strings.Builder
	for _, q := range n.PCQualifiers {
		b.WriteString(q.Text)
		b.WriteByte(' ')
	}
	switch {
	case n.Qualified != nil:
		b.WriteString(n.Qualified.ToString())
	case n.Unqualified != nil:
		b.WriteString(n.Unqualified.ToString())
	case n.Keyword != nil:
		b.WriteString(n.Keyword.Text)
	}
	return b.String()
}

// ExpressionListTerm is one argument with its passing style.
type ExpressionListTerm struct {
	Pass PassingStyle
	Expr *Expression
}

// ExpressionList is a parenthesized, comma-separated argument list.
type ExpressionList struct {
	Open              *lexer.Token
	Close             *lexer.Token
	InsideInitializer bool
	Terms             []ExpressionListTerm
}

func (n *ExpressionList) Position() position.Pos {
	if n.Open != nil {
		return n.Open.Pos
	}
	if len(n.Terms) > 0 {
		return n.Terms[0].Expr.Position()
	}
	return position.Pos{}
}

func (n *ExpressionList) ToString() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range n.Terms {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.Pass != PassIn && t.Pass != PassInvalid {
			b.WriteString(t.Pass.String())
			b.WriteByte(' ')
		}
		b.WriteString(t.Expr.ToString())
	}
	b.WriteByte(')')
	return b.String()
}

// PrimaryKind tags the alternatives of a primary expression.
type PrimaryKind int

const (
	PrimaryEmpty PrimaryKind = iota
	PrimaryIdentifier
	PrimaryExpressionList
	PrimaryIDExpression
	PrimaryDeclaration
	PrimaryInspect
	PrimaryLiteral
)

// PrimaryExpression is the bottom of the expression grammar. Exactly
// the field selected by Kind is set.
type PrimaryExpression struct {
	Kind       PrimaryKind
	Identifier *lexer.Token
	List       *ExpressionList
	ID         *IDExpression
	Decl       *Declaration
	Inspect    *InspectExpression
	Lit        *Literal
}

func (n *PrimaryExpression) Position() position.Pos {
	switch n.Kind {
	case PrimaryIdentifier:
		return n.Identifier.Pos
	case PrimaryExpressionList:
		return n.List.Position()
	case PrimaryIDExpression:
		return n.ID.Position()
	case PrimaryDeclaration:
		return n.Decl.Position()
	case PrimaryInspect:
		return n.Inspect.Position()
	case PrimaryLiteral:
		return n.Lit.Position()
	}
	return position.Pos{}
}

func (n *PrimaryExpression) IsIdentifier() bool {
	return n.Kind == PrimaryIdentifier ||
		(n.Kind == PrimaryIDExpression && n.ID.IsUnqualified() && !n.ID.Unqualified.HasTemplateArguments())
}

func (n *PrimaryExpression) IsIDExpression() bool { return n.Kind == PrimaryIDExpression }
func (n *PrimaryExpression) IsLiteral() bool      { return n.Kind == PrimaryLiteral }

// IsFoldExpression reports whether the primary is the `...` pack
// expansion operand.
func (n *PrimaryExpression) IsFoldExpression() bool {
	return n.Kind == PrimaryIdentifier && n.Identifier.Kind == lexer.Ellipsis
}

func (n *PrimaryExpression) IsExpressionList() bool { return n.Kind == PrimaryExpressionList }

func (n *PrimaryExpression) GetExpressionList() *ExpressionList { return n.List }

// GetIdentifier returns the single name token, or nil when the primary
// is not a plain name.
func (n *PrimaryExpression) GetIdentifier() *lexer.Token {
	switch n.Kind {
	case PrimaryIdentifier:
		return n.Identifier
	case PrimaryIDExpression:
		return n.ID.Identifier()
	}
	return nil
}

func (n *PrimaryExpression) ToString() string {
	switch n.Kind {
	case PrimaryIdentifier:
		return n.Identifier.Text
	case PrimaryExpressionList:
		return n.List.ToString()
	case PrimaryIDExpression:
		return n.ID.ToString()
	case PrimaryLiteral:
		return n.Lit.ToString()
	case PrimaryInspect:
		return "inspect"
	case PrimaryDeclaration:
		return ":(declaration)"
	}
	return ""
}

// PostfixOp is one postfix operation: a unary postfix operator, a call
// or index with its argument list, or a member access.
type PostfixOp struct {
	Op      *lexer.Token
	ID      *IDExpression   // for member access
	List    *ExpressionList // for calls and indexing
	CloseOp *lexer.Token    // closing ) or ]
}

// PostfixExpression is a primary expression with postfix operations.
// CapGrp is set when the expression ends in a $ capture, pointing at
// the group that registered it.
type PostfixExpression struct {
	Expr   *PrimaryExpression
	Ops    []PostfixOp
	CapGrp *CaptureGroup
}

func (n *PostfixExpression) Position() position.Pos { return n.Expr.Position() }

func (n *PostfixExpression) IsIdentifier() bool {
	return len(n.Ops) == 0 && n.Expr.IsIdentifier()
}

func (n *PostfixExpression) IsIDExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsIDExpression()
}

func (n *PostfixExpression) IsLiteral() bool {
	return len(n.Ops) == 0 && n.Expr.IsLiteral()
}

func (n *PostfixExpression) IsExpressionList() bool {
	return len(n.Ops) == 0 && n.Expr.IsExpressionList()
}

func (n *PostfixExpression) IsFoldExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsFoldExpression()
}

func (n *PostfixExpression) GetExpressionList() *ExpressionList {
	if !n.IsExpressionList() {
		return nil
	}
	return n.Expr.GetExpressionList()
}

func (n *PostfixExpression) GetIdentifier() *lexer.Token {
	if len(n.Ops) != 0 {
		return nil
	}
	return n.Expr.GetIdentifier()
}

func (n *PostfixExpression) ToString() string {
	var b strings.Builder
	b.WriteString(n.Expr.ToString())
	for _, op := range n.Ops {
		switch {
		case op.List != nil:
			b.WriteString(op.List.ToString())
		case op.ID != nil:
			b.WriteString(op.Op.Text)
			b.WriteString(op.ID.ToString())
		default:
			b.WriteString(op.Op.Text)
		}
	}
	return b.String()
}

// PrefixExpression is zero or more prefix operators over a postfix
// expression.
type PrefixExpression struct {
	Ops  []*lexer.Token
	Expr *PostfixExpression
}

func (n *PrefixExpression) Position() position.Pos {
	if len(n.Ops) > 0 {
		return n.Ops[0].Pos
	}
	return n.Expr.Position()
}

func (n *PrefixExpression) IsIdentifier() bool {
	return len(n.Ops) == 0 && n.Expr.IsIdentifier()
}

func (n *PrefixExpression) IsIDExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsIDExpression()
}

func (n *PrefixExpression) IsLiteral() bool {
	return len(n.Ops) == 0 && n.Expr.IsLiteral()
}

func (n *PrefixExpression) IsExpressionList() bool {
	return len(n.Ops) == 0 && n.Expr.IsExpressionList()
}

func (n *PrefixExpression) IsFoldExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsFoldExpression()
}

func (n *PrefixExpression) GetExpressionList() *ExpressionList {
	if !n.IsExpressionList() {
		return nil
	}
	return n.Expr.GetExpressionList()
}

func (n *PrefixExpression) GetIdentifier() *lexer.Token {
	if len(n.Ops) != 0 {
		return nil
	}
	return n.Expr.GetIdentifier()
}

func (n *PrefixExpression) ToString() string {
	var b strings.Builder
	for _, op := range n.Ops {
		b.WriteString(op.Text)
	}
	b.WriteString(n.Expr.ToString())
	return b.String()
}

// IsAsTerm is one is or as application.
type IsAsTerm struct {
	Op   *lexer.Token
	Type *TypeID     // is or as with a type
	Expr *Expression // is with a value pattern
}

// IsAsExpression is a prefix expression with is and as applications.
type IsAsExpression struct {
	Expr *PrefixExpression
	Ops  []IsAsTerm
}

func (n *IsAsExpression) Position() position.Pos { return n.Expr.Position() }

func (n *IsAsExpression) IsIdentifier() bool {
	return len(n.Ops) == 0 && n.Expr.IsIdentifier()
}

func (n *IsAsExpression) IsIDExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsIDExpression()
}

func (n *IsAsExpression) IsLiteral() bool {
	return len(n.Ops) == 0 && n.Expr.IsLiteral()
}

func (n *IsAsExpression) IsExpressionList() bool {
	return len(n.Ops) == 0 && n.Expr.IsExpressionList()
}

func (n *IsAsExpression) IsFoldExpression() bool {
	return len(n.Ops) == 0 && n.Expr.IsFoldExpression()
}

func (n *IsAsExpression) GetExpressionList() *ExpressionList {
	if !n.IsExpressionList() {
		return nil
	}
	return n.Expr.GetExpressionList()
}

func (n *IsAsExpression) GetIdentifier() *lexer.Token {
	if len(n.Ops) != 0 {
		return nil
	}
	return n.Expr.GetIdentifier()
}

func (n *IsAsExpression) ToString() string {
	var b strings.Builder
	b.WriteString(n.Expr.ToString())
	for _, op := range n.Ops {
		b.WriteByte(' ')
		b.WriteString(op.Op.Text)
		b.WriteByte(' ')
		switch {
		case op.Type != nil:
			b.WriteString(op.Type.ToString())
		case op.Expr != nil:
			b.WriteString(op.Expr.ToString())
		}
	}
	return b.String()
}

// Level identifies one rung of the binary expression ladder, from the
// tightest binding to the loosest.
type Level int

const (
	Multiplicative Level = iota
	Additive
	Shift
	Compare
	Relational
	Equality
	BitAnd
	BitXor
	BitOr
	LogicalAnd
	LogicalOr
	Assignment
)

var levelNames = map[Level]string{
	Multiplicative: "multiplicative",
	Additive:       "additive",
	Shift:          "shift",
	Compare:        "compare",
	Relational:     "relational",
	Equality:       "equality",
	BitAnd:         "bit-and",
	BitXor:         "bit-xor",
	BitOr:          "bit-or",
	LogicalAnd:     "logical-and",
	LogicalOr:      "logical-or",
	Assignment:     "assignment",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// BinaryTerm is one (operator, operand) pair of a binary expression.
// The operand is an is-as expression on the multiplicative rung and a
// next-tighter binary expression everywhere else.
type BinaryTerm struct {
	Op   *lexer.Token
	IsAs *IsAsExpression
	Expr *BinaryExpression
}

func (t *BinaryTerm) ToString() string {
	if t.IsAs != nil {
		return t.IsAs.ToString()
	}
	return t.Expr.ToString()
}

func (t *BinaryTerm) IsFoldExpression() bool {
	if t.IsAs != nil {
		return t.IsAs.IsFoldExpression()
	}
	return t.Expr.IsFoldExpression()
}

// BinaryExpression is one rung of the expression ladder: a first
// operand followed by a flat, left-associative (operator, operand)
// list. The multiplicative rung holds its operands as is-as
// expressions directly.
type BinaryExpression struct {
	Level Level
	IsAs  *IsAsExpression   // first operand, multiplicative rung
	Lhs   *BinaryExpression // first operand, all other rungs
	Terms []BinaryTerm
}

func (n *BinaryExpression) Position() position.Pos {
	if n.IsAs != nil {
		return n.IsAs.Position()
	}
	return n.Lhs.Position()
}

// TermsSize returns the number of (operator, operand) pairs.
func (n *BinaryExpression) TermsSize() int { return len(n.Terms) }

func (n *BinaryExpression) inner() interface {
	IsIdentifier() bool
	IsIDExpression() bool
	IsLiteral() bool
	IsExpressionList() bool
	IsFoldExpression() bool
	GetExpressionList() *ExpressionList
	GetIdentifier() *lexer.Token
	ToString() string
} {
	if n.IsAs != nil {
		return n.IsAs
	}
	return n.Lhs
}

func (n *BinaryExpression) IsIdentifier() bool {
	return len(n.Terms) == 0 && n.inner().IsIdentifier()
}

func (n *BinaryExpression) IsIDExpression() bool {
	return len(n.Terms) == 0 && n.inner().IsIDExpression()
}

func (n *BinaryExpression) IsLiteral() bool {
	return len(n.Terms) == 0 && n.inner().IsLiteral()
}

func (n *BinaryExpression) IsExpressionList() bool {
	return len(n.Terms) == 0 && n.inner().IsExpressionList()
}

// IsFoldExpression reports whether any operand on this rung or below
// is the `...` pack expansion.
func (n *BinaryExpression) IsFoldExpression() bool {
	if n.inner().IsFoldExpression() {
		return true
	}
	for i := range n.Terms {
		if n.Terms[i].IsFoldExpression() {
			return true
		}
	}
	return false
}

func (n *BinaryExpression) GetExpressionList() *ExpressionList {
	if !n.IsExpressionList() {
		return nil
	}
	return n.inner().GetExpressionList()
}

func (n *BinaryExpression) GetIdentifier() *lexer.Token {
	if len(n.Terms) != 0 {
		return nil
	}
	return n.inner().GetIdentifier()
}

func (n *BinaryExpression) ToString() string {
	var b strings.Builder
	b.WriteString(n.inner().ToString())
	for i := range n.Terms {
		b.WriteByte(' ')
		b.WriteString(n.Terms[i].Op.Text)
		b.WriteByte(' ')
		b.WriteString(n.Terms[i].ToString())
	}
	return b.String()
}

// Expression is the grammar's expression entry point, rooted at the
// assignment rung.
type Expression struct {
	Assign            *BinaryExpression
	NumSubexpressions int
}

func (n *Expression) Position() position.Pos { return n.Assign.Position() }

func (n *Expression) IsIdentifier() bool     { return n.Assign.IsIdentifier() }
func (n *Expression) IsIDExpression() bool   { return n.Assign.IsIDExpression() }
func (n *Expression) IsLiteral() bool        { return n.Assign.IsLiteral() }
func (n *Expression) IsExpressionList() bool { return n.Assign.IsExpressionList() }
func (n *Expression) IsFoldExpression() bool { return n.Assign.IsFoldExpression() }

func (n *Expression) GetExpressionList() *ExpressionList { return n.Assign.GetExpressionList() }
func (n *Expression) GetIdentifier() *lexer.Token        { return n.Assign.GetIdentifier() }

func (n *Expression) ToString() string { return n.Assign.ToString() }
