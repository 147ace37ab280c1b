package ast

import (
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// StatementKind tags the alternatives of a statement.
type StatementKind int

const (
	StmtInvalid StatementKind = iota
	StmtExpression
	StmtCompound
	StmtSelection
	StmtDeclaration
	StmtReturn
	StmtIteration
	StmtUsing
	StmtContract
	StmtInspect
	StmtJump
)

var statementKindNames = map[StatementKind]string{
	StmtInvalid:     "invalid",
	StmtExpression:  "expression",
	StmtCompound:    "compound",
	StmtSelection:   "selection",
	StmtDeclaration: "declaration",
	StmtReturn:      "return",
	StmtIteration:   "iteration",
	StmtUsing:       "using",
	StmtContract:    "contract",
	StmtInspect:     "inspect",
	StmtJump:        "jump",
}

func (k StatementKind) String() string {
	if name, ok := statementKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Statement is a tagged union over the statement forms. Exactly the
// field selected by Kind is set. Emitted records that a downstream
// consumer has already printed the statement, MarkedForRemoval queues
// the statement for a later physical sweep of its enclosing body.
type Statement struct {
	Kind        StatementKind
	Expression  *ExpressionStatement
	Compound    *CompoundStatement
	Selection   *SelectionStatement
	Declaration *Declaration
	Return      *ReturnStatement
	Iteration   *IterationStatement
	Using       *UsingStatement
	Contract    *Contract
	Inspect     *InspectExpression
	Jump        *JumpStatement

	Parameters     *ParameterList     // optional leading parameter list
	CompoundParent *CompoundStatement // enclosing compound, nil at top level

	Emitted          bool
	MarkedForRemoval bool
}

func (n *Statement) Position() position.Pos {
	switch n.Kind {
	case StmtExpression:
		return n.Expression.Position()
	case StmtCompound:
		return n.Compound.Position()
	case StmtSelection:
		return n.Selection.Position()
	case StmtDeclaration:
		return n.Declaration.Position()
	case StmtReturn:
		return n.Return.Position()
	case StmtIteration:
		return n.Iteration.Position()
	case StmtUsing:
		return n.Using.Position()
	case StmtContract:
		return n.Contract.Position()
	case StmtInspect:
		return n.Inspect.Position()
	case StmtJump:
		return n.Jump.Position()
	}
	return position.Pos{}
}

// ToString renders the statement's expression text. Only expression,
// return, and declaration-initializer statements render, other forms
// yield an empty string.
func (n *Statement) ToString() string {
	switch n.Kind {
	case StmtExpression:
		return n.Expression.Expr.ToString()
	case StmtReturn:
		if n.Return.Expr != nil {
			return n.Return.Expr.ToString()
		}
	}
	return ""
}

// ExpressionStatement is an expression evaluated for effect.
type ExpressionStatement struct {
	Expr         *Expression
	HasSemicolon bool
}

func (n *ExpressionStatement) Position() position.Pos { return n.Expr.Position() }

// CompoundStatement is a braced statement sequence.
type CompoundStatement struct {
	Open       position.Pos
	Close      position.Pos
	Statements []*Statement
}

func (n *CompoundStatement) Position() position.Pos { return n.Open }

// Add appends a statement and records its parent.
func (n *CompoundStatement) Add(s *Statement) {
	s.CompoundParent = n
	n.Statements = append(n.Statements, s)
}

// RemoveMarked physically removes statements queued for removal.
func (n *CompoundStatement) RemoveMarked() {
	kept := n.Statements[:0]
	for _, s := range n.Statements {
		if !s.MarkedForRemoval {
			kept = append(kept, s)
		}
	}
	n.Statements = kept
}

// SelectionStatement is an if statement. The false branch is always
// present in the tree, HasSourceFalseBranch records whether the source
// spelled an else.
type SelectionStatement struct {
	IsConstexpr          bool
	Keyword              *lexer.Token
	Cond                 *BinaryExpression // logical-or rung
	TrueBranch           *CompoundStatement
	FalseBranch          *CompoundStatement
	HasSourceFalseBranch bool
	ElsePos              position.Pos
}

func (n *SelectionStatement) Position() position.Pos { return n.Keyword.Pos }

// IterationStatement is a while, do, or for loop. Keyword selects the
// form: while and do use Cond and Compound, for uses Range, Parameter,
// and Body. NextExpr is the optional next clause of any form.
type IterationStatement struct {
	Label     *lexer.Token
	Keyword   *lexer.Token
	NextExpr  *BinaryExpression // assignment rung
	Cond      *BinaryExpression // logical-or rung
	Compound  *CompoundStatement
	Range     *Expression
	Parameter *ParameterDeclaration
	Body      *Statement
}

func (n *IterationStatement) Position() position.Pos {
	if n.Label != nil {
		return n.Label.Pos
	}
	return n.Keyword.Pos
}

// ForWithIn reports whether this is a for loop over a range.
func (n *IterationStatement) ForWithIn() bool { return n.Keyword.Text == "for" }

// ReturnStatement returns an optional expression.
type ReturnStatement struct {
	Keyword *lexer.Token
	Expr    *Expression
}

func (n *ReturnStatement) Position() position.Pos { return n.Keyword.Pos }

// JumpStatement is a break or continue, optionally labeled.
type JumpStatement struct {
	Keyword *lexer.Token
	Label   *lexer.Token
}

func (n *JumpStatement) Position() position.Pos { return n.Keyword.Pos }

// UsingStatement brings a name or namespace into scope.
type UsingStatement struct {
	Keyword      *lexer.Token
	ForNamespace bool
	ID           *IDExpression
}

func (n *UsingStatement) Position() position.Pos { return n.Keyword.Pos }

// Contract is a pre, post, or assert contract. Captures collects the $
// captures inside the condition and message.
type Contract struct {
	Captures CaptureGroup
	Kind     *lexer.Token
	Open     position.Pos
	Category *IDExpression     // optional contract group name
	Cond     *BinaryExpression // logical-or rung
	Message  *lexer.Token      // optional string literal
}

func (n *Contract) Position() position.Pos { return n.Kind.Pos }

// Alternative is one arm of an inspect expression.
type Alternative struct {
	Name      *UnqualifiedID // optional binding name
	IsAs      *lexer.Token
	Type      *TypeID
	Pattern   *PostfixExpression // value pattern, when no type
	EqualSign position.Pos
	Stmt      *Statement
}

func (n *Alternative) Position() position.Pos { return n.IsAs.Pos }

// InspectExpression matches a value against a sequence of alternatives.
type InspectExpression struct {
	IsConstexpr  bool
	Keyword      *lexer.Token
	Expr         *Expression
	ResultType   *TypeID // optional -> result type
	Open         position.Pos
	Close        position.Pos
	Alternatives []*Alternative
}

func (n *InspectExpression) Position() position.Pos { return n.Keyword.Pos }
