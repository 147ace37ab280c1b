package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/cedar-lang/cedarfront/internal/lexer"
)

// Visitor receives Start before a node's children are walked and End
// after. depth is the nesting level from the walk's entry point.
type Visitor interface {
	Start(n Node, depth int)
	End(n Node, depth int)
}

// Walk traverses the tree rooted at n in source order.
func Walk(v Visitor, n Node, depth int) {
	if n == nil {
		return
	}
	v.Start(n, depth)
	defer v.End(n, depth)
	d := depth + 1

	switch node := n.(type) {
	case *TranslationUnit:
		for _, decl := range node.Declarations {
			Walk(v, decl, d)
		}

	case *Declaration:
		if node.Identifier != nil {
			Walk(v, node.Identifier, d)
		}
		for _, mf := range node.Metafunctions {
			Walk(v, mf, d)
		}
		if node.TemplateParams != nil {
			Walk(v, node.TemplateParams, d)
		}
		if node.RequiresClause != nil {
			Walk(v, node.RequiresClause, d)
		}
		switch node.Kind {
		case DeclFunction:
			Walk(v, node.Function, d)
		case DeclObject:
			if node.ObjectType != nil {
				Walk(v, node.ObjectType, d)
			}
		case DeclType:
			Walk(v, node.TypeDecl, d)
		case DeclNamespace:
			Walk(v, node.Namespace, d)
		case DeclAlias:
			Walk(v, node.Alias, d)
		}
		if node.Initializer != nil {
			Walk(v, node.Initializer, d)
		}

	case *FunctionType:
		Walk(v, node.Parameters, d)
		if node.ReturnType != nil {
			Walk(v, node.ReturnType, d)
		}
		if node.ReturnList != nil {
			Walk(v, node.ReturnList, d)
		}
		for _, c := range node.Contracts {
			Walk(v, c, d)
		}

	case *TypeBody, *NamespaceBody:
		// leaf markers

	case *Alias:
		switch node.Kind {
		case AliasType:
			Walk(v, node.TypeInit, d)
		case AliasNamespace:
			Walk(v, node.IDInit, d)
		case AliasObject:
			if node.Type != nil {
				Walk(v, node.Type, d)
			}
			Walk(v, node.ExprInit, d)
		}

	case *ParameterList:
		for _, p := range node.Params {
			Walk(v, p, d)
		}

	case *ParameterDeclaration:
		Walk(v, node.Decl, d)

	case *Statement:
		if node.Parameters != nil {
			Walk(v, node.Parameters, d)
		}
		switch node.Kind {
		case StmtExpression:
			Walk(v, node.Expression, d)
		case StmtCompound:
			Walk(v, node.Compound, d)
		case StmtSelection:
			Walk(v, node.Selection, d)
		case StmtDeclaration:
			Walk(v, node.Declaration, d)
		case StmtReturn:
			Walk(v, node.Return, d)
		case StmtIteration:
			Walk(v, node.Iteration, d)
		case StmtUsing:
			Walk(v, node.Using, d)
		case StmtContract:
			Walk(v, node.Contract, d)
		case StmtInspect:
			Walk(v, node.Inspect, d)
		case StmtJump:
			Walk(v, node.Jump, d)
		}

	case *ExpressionStatement:
		Walk(v, node.Expr, d)

	case *CompoundStatement:
		for _, s := range node.Statements {
			Walk(v, s, d)
		}

	case *SelectionStatement:
		Walk(v, node.Cond, d)
		Walk(v, node.TrueBranch, d)
		if node.HasSourceFalseBranch {
			Walk(v, node.FalseBranch, d)
		}

	case *IterationStatement:
		if node.NextExpr != nil {
			Walk(v, node.NextExpr, d)
		}
		if node.Cond != nil {
			Walk(v, node.Cond, d)
		}
		if node.Compound != nil {
			Walk(v, node.Compound, d)
		}
		if node.Range != nil {
			Walk(v, node.Range, d)
		}
		if node.Parameter != nil {
			Walk(v, node.Parameter, d)
		}
		if node.Body != nil {
			Walk(v, node.Body, d)
		}

	case *ReturnStatement:
		if node.Expr != nil {
			Walk(v, node.Expr, d)
		}

	case *JumpStatement:
		// leaf

	case *UsingStatement:
		Walk(v, node.ID, d)

	case *Contract:
		if node.Category != nil {
			Walk(v, node.Category, d)
		}
		Walk(v, node.Cond, d)

	case *InspectExpression:
		Walk(v, node.Expr, d)
		if node.ResultType != nil {
			Walk(v, node.ResultType, d)
		}
		for _, alt := range node.Alternatives {
			Walk(v, alt, d)
		}

	case *Alternative:
		if node.Name != nil {
			Walk(v, node.Name, d)
		}
		if node.Type != nil {
			Walk(v, node.Type, d)
		}
		if node.Pattern != nil {
			Walk(v, node.Pattern, d)
		}
		Walk(v, node.Stmt, d)

	case *Expression:
		Walk(v, node.Assign, d)

	case *BinaryExpression:
		if node.IsAs != nil {
			Walk(v, node.IsAs, d)
		} else {
			Walk(v, node.Lhs, d)
		}
		for i := range node.Terms {
			t := &node.Terms[i]
			Walk(v, t.Op, d)
			if t.IsAs != nil {
				Walk(v, t.IsAs, d)
			} else {
				Walk(v, t.Expr, d)
			}
		}

	case *IsAsExpression:
		Walk(v, node.Expr, d)
		for i := range node.Ops {
			op := &node.Ops[i]
			Walk(v, op.Op, d)
			if op.Type != nil {
				Walk(v, op.Type, d)
			}
			if op.Expr != nil {
				Walk(v, op.Expr, d)
			}
		}

	case *PrefixExpression:
		for _, op := range node.Ops {
			Walk(v, op, d)
		}
		Walk(v, node.Expr, d)

	case *PostfixExpression:
		Walk(v, node.Expr, d)
		for i := range node.Ops {
			op := &node.Ops[i]
			Walk(v, op.Op, d)
			if op.ID != nil {
				Walk(v, op.ID, d)
			}
			if op.List != nil {
				Walk(v, op.List, d)
			}
		}

	case *PrimaryExpression:
		switch node.Kind {
		case PrimaryIdentifier:
			Walk(v, node.Identifier, d)
		case PrimaryExpressionList:
			Walk(v, node.List, d)
		case PrimaryIDExpression:
			Walk(v, node.ID, d)
		case PrimaryDeclaration:
			Walk(v, node.Decl, d)
		case PrimaryInspect:
			Walk(v, node.Inspect, d)
		case PrimaryLiteral:
			Walk(v, node.Lit, d)
		}

	case *ExpressionList:
		for i := range node.Terms {
			Walk(v, node.Terms[i].Expr, d)
		}

	case *Literal:
		Walk(v, node.Tok, d)
		if node.Suffix != nil {
			Walk(v, node.Suffix, d)
		}

	case *IDExpression:
		if node.Qualified != nil {
			Walk(v, node.Qualified, d)
		}
		if node.Unqualified != nil {
			Walk(v, node.Unqualified, d)
		}

	case *QualifiedID:
		for i := range node.Terms {
			Walk(v, node.Terms[i].ID, d)
		}

	case *UnqualifiedID:
		Walk(v, node.Identifier, d)
		for i := range node.TemplateArguments {
			arg := &node.TemplateArguments[i]
			if arg.Type != nil {
				Walk(v, arg.Type, d)
			}
			if arg.Expr != nil {
				Walk(v, arg.Expr, d)
			}
		}

	case *TypeID:
		if node.Qualified != nil {
			Walk(v, node.Qualified, d)
		}
		if node.Unqualified != nil {
			Walk(v, node.Unqualified, d)
		}
		if node.Keyword != nil {
			Walk(v, node.Keyword, d)
		}

	case *lexer.Token:
		// leaf
	}
}

// Printer is a Visitor that writes an indented tree dump.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// Start writes one line per node.
func (p *Printer) Start(n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *lexer.Token:
		fmt.Fprintf(p.w, "%s%s %q\n", indent, node.Kind, node.Text)
	case *Declaration:
		name := ""
		if node.HasName() {
			name = " " + node.Name().Text
		}
		fmt.Fprintf(p.w, "%sdeclaration(%s)%s\n", indent, node.Kind, name)
	case *Statement:
		fmt.Fprintf(p.w, "%sstatement(%s)\n", indent, node.Kind)
	case *BinaryExpression:
		fmt.Fprintf(p.w, "%sbinary(%s)\n", indent, node.Level)
	default:
		fmt.Fprintf(p.w, "%s%s\n", indent, nodeName(n))
	}
}

// End is a no-op for the printer.
func (p *Printer) End(n Node, depth int) {}

func nodeName(n Node) string {
	switch n.(type) {
	case *TranslationUnit:
		return "translation-unit"
	case *FunctionType:
		return "function-type"
	case *TypeBody:
		return "type-body"
	case *NamespaceBody:
		return "namespace-body"
	case *Alias:
		return "alias"
	case *ParameterList:
		return "parameter-list"
	case *ParameterDeclaration:
		return "parameter"
	case *ExpressionStatement:
		return "expression-statement"
	case *CompoundStatement:
		return "compound-statement"
	case *SelectionStatement:
		return "selection-statement"
	case *IterationStatement:
		return "iteration-statement"
	case *ReturnStatement:
		return "return-statement"
	case *JumpStatement:
		return "jump-statement"
	case *UsingStatement:
		return "using-statement"
	case *Contract:
		return "contract"
	case *InspectExpression:
		return "inspect-expression"
	case *Alternative:
		return "alternative"
	case *Expression:
		return "expression"
	case *IsAsExpression:
		return "is-as-expression"
	case *PrefixExpression:
		return "prefix-expression"
	case *PostfixExpression:
		return "postfix-expression"
	case *PrimaryExpression:
		return "primary-expression"
	case *ExpressionList:
		return "expression-list"
	case *Literal:
		return "literal"
	case *IDExpression:
		return "id-expression"
	case *QualifiedID:
		return "qualified-id"
	case *UnqualifiedID:
		return "unqualified-id"
	case *TypeID:
		return "type-id"
	}
	return "node"
}
