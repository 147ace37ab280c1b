package ast

import (
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// ParameterModifier is an optional modifier on a parameter, used on the
// this parameter for dispatch control and on ordinary parameters for
// implicit conversion control.
type ParameterModifier int

const (
	ModNone ParameterModifier = iota
	ModImplicit
	ModVirtual
	ModOverride
	ModFinal
)

var parameterModifierNames = map[ParameterModifier]string{
	ModNone:     "",
	ModImplicit: "implicit",
	ModVirtual:  "virtual",
	ModOverride: "override",
	ModFinal:    "final",
}

func (m ParameterModifier) String() string { return parameterModifierNames[m] }

// ToParameterModifier maps a keyword token to its modifier, or ModNone.
func ToParameterModifier(t *lexer.Token) ParameterModifier {
	if t == nil {
		return ModNone
	}
	switch t.Text {
	case "implicit":
		return ModImplicit
	case "virtual":
		return ModVirtual
	case "override":
		return ModOverride
	case "final":
		return ModFinal
	}
	return ModNone
}

// ParameterDeclaration is one parameter: a passing style, an optional
// modifier, and the underlying declaration carrying name and type.
type ParameterDeclaration struct {
	Pos     position.Pos
	Pass    PassingStyle
	Mod     ParameterModifier
	Decl    *Declaration
	Ordinal int
}

func (n *ParameterDeclaration) Position() position.Pos { return n.Pos }

// Name returns the parameter's name token, or nil when unnamed.
func (n *ParameterDeclaration) Name() *lexer.Token {
	if n.Decl == nil {
		return nil
	}
	return n.Decl.Name()
}

// HasName reports whether the parameter is named s.
func (n *ParameterDeclaration) HasName(s string) bool {
	name := n.Name()
	return name != nil && name.Text == s
}

// ParameterList is a parenthesized parameter sequence.
type ParameterList struct {
	Open   position.Pos
	Close  position.Pos
	Params []*ParameterDeclaration
}

func (n *ParameterList) Position() position.Pos { return n.Open }

// ReturnsKind tags a function's return specification.
type ReturnsKind int

const (
	ReturnsNone ReturnsKind = iota
	ReturnsType
	ReturnsList
)

// FunctionType is the signature of a function declaration.
type FunctionType struct {
	MyDecl     *Declaration
	Parameters *ParameterList
	Throws     bool
	Returns    ReturnsKind
	ReturnType *TypeID       // single declared return type
	ReturnPass PassingStyle  // passing style of the declared return
	ReturnList *ParameterList // named multiple returns
	Contracts  []*Contract
}

func (n *FunctionType) Position() position.Pos { return n.Parameters.Position() }

func (n *FunctionType) ParameterCount() int {
	if n.Parameters == nil {
		return 0
	}
	return len(n.Parameters.Params)
}

func (n *FunctionType) parameter(i int) *ParameterDeclaration {
	if n.Parameters == nil || i >= len(n.Parameters.Params) {
		return nil
	}
	return n.Parameters.Params[i]
}

// IsFunctionWithThis reports whether the first parameter is this.
func (n *FunctionType) IsFunctionWithThis() bool {
	p := n.parameter(0)
	return p != nil && p.HasName("this")
}

// IsVirtualFunction reports whether the this parameter carries a
// dispatch modifier.
func (n *FunctionType) IsVirtualFunction() bool {
	p := n.parameter(0)
	return p != nil && p.HasName("this") &&
		(p.Mod == ModVirtual || p.Mod == ModOverride || p.Mod == ModFinal)
}

// MakeVirtual marks the this parameter virtual. Reports whether the
// function has a this parameter to mark.
func (n *FunctionType) MakeVirtual() bool {
	p := n.parameter(0)
	if p == nil || !p.HasName("this") {
		return false
	}
	if p.Mod == ModNone {
		p.Mod = ModVirtual
	}
	return true
}

// IsConstructor reports whether the first parameter is out this.
func (n *FunctionType) IsConstructor() bool {
	p := n.parameter(0)
	return p != nil && p.HasName("this") && p.Pass == PassOut
}

// IsDefaultConstructor reports an out this function with no other
// parameters.
func (n *FunctionType) IsDefaultConstructor() bool {
	return n.IsConstructor() && n.ParameterCount() == 1
}

// IsConstructorWithThat reports a two-parameter constructor taking that.
func (n *FunctionType) IsConstructorWithThat() bool {
	p := n.parameter(1)
	return n.IsConstructor() && n.ParameterCount() == 2 && p.HasName("that")
}

func (n *FunctionType) IsConstructorWithInThat() bool {
	return n.IsConstructorWithThat() && n.parameter(1).Pass == PassIn
}

func (n *FunctionType) IsConstructorWithMoveThat() bool {
	return n.IsConstructorWithThat() && n.parameter(1).Pass == PassMove
}

// IsAssignment reports an operator= taking inout this.
func (n *FunctionType) IsAssignment() bool {
	p := n.parameter(0)
	return n.MyDecl != nil && n.MyDecl.HasNameText("operator=") &&
		p != nil && p.HasName("this") && p.Pass == PassInout
}

func (n *FunctionType) IsAssignmentWithThat() bool {
	p := n.parameter(1)
	return n.IsAssignment() && n.ParameterCount() == 2 && p.HasName("that")
}

func (n *FunctionType) IsAssignmentWithInThat() bool {
	return n.IsAssignmentWithThat() && n.parameter(1).Pass == PassIn
}

func (n *FunctionType) IsAssignmentWithMoveThat() bool {
	return n.IsAssignmentWithThat() && n.parameter(1).Pass == PassMove
}

// IsDestructor reports an operator= whose only parameter is move this.
func (n *FunctionType) IsDestructor() bool {
	p := n.parameter(0)
	return n.MyDecl != nil && n.MyDecl.HasNameText("operator=") &&
		n.ParameterCount() == 1 && p.HasName("this") && p.Pass == PassMove
}

var comparisonFunctionNames = map[string]bool{
	"operator<=>": true, "operator==": true, "operator!=": true,
	"operator<": true, "operator>": true, "operator<=": true,
	"operator>=": true,
}

// IsComparison reports whether the function is a comparison operator.
func (n *FunctionType) IsComparison() bool {
	return n.MyDecl != nil && n.MyDecl.Name() != nil &&
		comparisonFunctionNames[n.MyDecl.Name().Text]
}

// IsSwap reports a swap function taking inout this, inout that.
func (n *FunctionType) IsSwap() bool {
	p0, p1 := n.parameter(0), n.parameter(1)
	return n.MyDecl != nil && n.MyDecl.HasNameText("swap") &&
		n.ParameterCount() == 2 &&
		p0.HasName("this") && p0.Pass == PassInout &&
		p1.HasName("that") && p1.Pass == PassInout
}

// HasDeclaredReturnType reports whether any return is declared.
func (n *FunctionType) HasDeclaredReturnType() bool { return n.Returns != ReturnsNone }

// TypeBody is the body marker of a type declaration.
type TypeBody struct {
	Keyword *lexer.Token
	Final   bool
}

func (n *TypeBody) Position() position.Pos { return n.Keyword.Pos }

// NamespaceBody is the body marker of a namespace declaration.
type NamespaceBody struct {
	Keyword *lexer.Token
}

func (n *NamespaceBody) Position() position.Pos { return n.Keyword.Pos }

// AliasKind tags the alternatives of an alias declaration.
type AliasKind int

const (
	AliasInvalid AliasKind = iota
	AliasType
	AliasNamespace
	AliasObject
)

// Alias is a == alias declaration: a type alias, a namespace alias, or
// an object alias with an optional declared type.
type Alias struct {
	Keyword  *lexer.Token
	Kind     AliasKind
	Type     *TypeID // declared type of an object alias
	TypeInit *TypeID
	IDInit   *IDExpression
	ExprInit *Expression
}

func (n *Alias) Position() position.Pos {
	switch {
	case n.Keyword != nil:
		return n.Keyword.Pos
	case n.Type != nil:
		return n.Type.Position()
	case n.ExprInit != nil:
		return n.ExprInit.Position()
	}
	return position.Pos{}
}

// DeclarationKind tags the alternatives of a declaration.
type DeclarationKind int

const (
	DeclInvalid DeclarationKind = iota
	DeclFunction
	DeclObject
	DeclType
	DeclNamespace
	DeclAlias
)

var declarationKindNames = map[DeclarationKind]string{
	DeclInvalid:   "invalid",
	DeclFunction:  "function",
	DeclObject:    "object",
	DeclType:      "type",
	DeclNamespace: "namespace",
	DeclAlias:     "alias",
}

func (k DeclarationKind) String() string {
	if name, ok := declarationKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Declaration is a named or unnamed declaration. Exactly the payload
// selected by Kind is set. Parent links to the enclosing declaration,
// MyStatement to the statement wrapping this declaration inside its
// parent's body.
type Declaration struct {
	Pos        position.Pos
	Identifier *UnqualifiedID
	Kind       DeclarationKind
	Function   *FunctionType
	ObjectType *TypeID
	TypeDecl   *TypeBody
	Namespace  *NamespaceBody
	Alias      *Alias

	Metafunctions  []*IDExpression
	TemplateParams *ParameterList
	RequiresPos    position.Pos
	RequiresClause *BinaryExpression
	EqualSign      position.Pos
	Initializer    *Statement
	Captures       CaptureGroup

	Access              Accessibility
	IsVariadic          bool
	IsConstexpr         bool // declared with == rather than =
	TerseNoEquals       bool // terse function body with no = sign
	IsParameter         bool
	IsTemplateParameter bool

	Parent      *Declaration
	MyStatement *Statement

	MemberFunctionGenerationDisabled bool
}

func (n *Declaration) Position() position.Pos { return n.Pos }

// Name returns the declared name token, or nil for unnamed.
func (n *Declaration) Name() *lexer.Token {
	if n.Identifier == nil {
		return nil
	}
	return n.Identifier.Identifier
}

// HasName reports whether the declaration is named.
func (n *Declaration) HasName() bool { return n.Name() != nil }

// HasNameText reports whether the declaration is named s.
func (n *Declaration) HasNameText(s string) bool {
	name := n.Name()
	return name != nil && name.Text == s
}

func (n *Declaration) IsFunction() bool  { return n.Kind == DeclFunction }
func (n *Declaration) IsObject() bool    { return n.Kind == DeclObject }
func (n *Declaration) IsType() bool      { return n.Kind == DeclType }
func (n *Declaration) IsNamespace() bool { return n.Kind == DeclNamespace }
func (n *Declaration) IsAlias() bool     { return n.Kind == DeclAlias }

func (n *Declaration) IsTypeAlias() bool {
	return n.Kind == DeclAlias && n.Alias.Kind == AliasType
}

func (n *Declaration) IsNamespaceAlias() bool {
	return n.Kind == DeclAlias && n.Alias.Kind == AliasNamespace
}

func (n *Declaration) IsObjectAlias() bool {
	return n.Kind == DeclAlias && n.Alias.Kind == AliasObject
}

func (n *Declaration) IsPublic() bool        { return n.Access == AccessPublic }
func (n *Declaration) IsProtected() bool     { return n.Access == AccessProtected }
func (n *Declaration) IsPrivate() bool       { return n.Access == AccessPrivate }
func (n *Declaration) IsDefaultAccess() bool { return n.Access == AccessDefault }

func (n *Declaration) MakePublic()    { n.Access = AccessPublic }
func (n *Declaration) MakeProtected() { n.Access = AccessProtected }
func (n *Declaration) MakePrivate()   { n.Access = AccessPrivate }

// HasInitializer reports whether a = initializer is present.
func (n *Declaration) HasInitializer() bool { return n.Initializer != nil }

func (n *Declaration) IsGlobal() bool          { return n.Parent == nil }
func (n *Declaration) ParentIsType() bool      { return n.Parent != nil && n.Parent.IsType() }
func (n *Declaration) ParentIsNamespace() bool { return n.Parent != nil && n.Parent.IsNamespace() }
func (n *Declaration) ParentIsFunction() bool  { return n.Parent != nil && n.Parent.IsFunction() }

// Function signature queries, false for non-function declarations.

func (n *Declaration) IsFunctionWithThis() bool {
	return n.IsFunction() && n.Function.IsFunctionWithThis()
}

func (n *Declaration) IsVirtualFunction() bool {
	return n.IsFunction() && n.Function.IsVirtualFunction()
}

func (n *Declaration) IsConstructor() bool {
	return n.IsFunction() && n.Function.IsConstructor()
}

func (n *Declaration) IsDefaultConstructor() bool {
	return n.IsFunction() && n.Function.IsDefaultConstructor()
}

func (n *Declaration) IsConstructorWithThat() bool {
	return n.IsFunction() && n.Function.IsConstructorWithThat()
}

func (n *Declaration) IsAssignment() bool {
	return n.IsFunction() && n.Function.IsAssignment()
}

func (n *Declaration) IsDestructor() bool {
	return n.IsFunction() && n.Function.IsDestructor()
}

func (n *Declaration) IsComparisonFunction() bool {
	return n.IsFunction() && n.Function.IsComparison()
}

// MakeFunctionVirtual marks a member function virtual. Reports whether
// the declaration is a function with a this parameter.
func (n *Declaration) MakeFunctionVirtual() bool {
	return n.IsFunction() && n.Function.MakeVirtual()
}

// typeBodyStatements returns the statement list of a type or namespace
// declaration body, or nil.
func (n *Declaration) typeBodyStatements() *CompoundStatement {
	if n.Initializer == nil || n.Initializer.Kind != StmtCompound {
		return nil
	}
	return n.Initializer.Compound
}

// DeclarationFilter selects members when enumerating a type's scope.
type DeclarationFilter int

const (
	AllMembers DeclarationFilter = iota
	FunctionMembers
	ObjectMembers
	TypeMembers
	AliasMembers
)

// TypeScopeDeclarations returns the member declarations of a type or
// namespace body that match the filter, in declaration order. Members
// marked for removal are still included until they are swept.
func (n *Declaration) TypeScopeDeclarations(filter DeclarationFilter) []*Declaration {
	body := n.typeBodyStatements()
	if body == nil {
		return nil
	}
	var out []*Declaration
	for _, s := range body.Statements {
		if s.Kind != StmtDeclaration {
			continue
		}
		d := s.Declaration
		switch filter {
		case FunctionMembers:
			if !d.IsFunction() {
				continue
			}
		case ObjectMembers:
			if !d.IsObject() {
				continue
			}
		case TypeMembers:
			if !d.IsType() {
				continue
			}
		case AliasMembers:
			if !d.IsAlias() {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// AddTypeMember appends a parsed declaration statement to this type's
// body, wiring parent and statement links. Reports whether the
// statement was a declaration that could be added.
func (n *Declaration) AddTypeMember(s *Statement) bool {
	body := n.typeBodyStatements()
	if body == nil || s == nil || s.Kind != StmtDeclaration {
		return false
	}
	s.Declaration.Parent = n
	s.Declaration.MyStatement = s
	body.Add(s)
	return true
}

// TypeMemberMarkForRemoval queues a member for removal. The member
// stays visible to scope enumeration until RemoveMarkedMembers runs.
func (n *Declaration) TypeMemberMarkForRemoval(member *Declaration) bool {
	if member.MyStatement == nil || member.Parent != n {
		return false
	}
	member.MyStatement.MarkedForRemoval = true
	return true
}

// TypeRemoveMarkedMembers physically removes all members queued for
// removal from this type's body.
func (n *Declaration) TypeRemoveMarkedMembers() {
	if body := n.typeBodyStatements(); body != nil {
		body.RemoveMarked()
	}
}

// TypeRemoveAllMembers empties this type's body.
func (n *Declaration) TypeRemoveAllMembers() {
	if body := n.typeBodyStatements(); body != nil {
		body.Statements = nil
	}
}

// TypeDisableMemberFunctionGeneration suppresses downstream synthesis
// of defaulted member functions for this type.
func (n *Declaration) TypeDisableMemberFunctionGeneration() {
	n.MemberFunctionGenerationDisabled = true
}

// IsTypeFinal reports whether a type declaration is final.
func (n *Declaration) IsTypeFinal() bool {
	return n.IsType() && n.TypeDecl.Final
}

// MakeTypeFinal marks a type declaration final. Reports whether the
// declaration is a type.
func (n *Declaration) MakeTypeFinal() bool {
	if !n.IsType() {
		return false
	}
	n.TypeDecl.Final = true
	return true
}

// IsPolymorphic reports whether any member function is virtual.
func (n *Declaration) IsPolymorphic() bool {
	for _, m := range n.TypeScopeDeclarations(FunctionMembers) {
		if m.IsVirtualFunction() {
			return true
		}
	}
	return false
}

// ValueSetFunctions is the result of scanning a type for its declared
// value-set functions, the four constructor and assignment shapes over
// this and that.
type ValueSetFunctions struct {
	OutThisInThat     *Declaration
	OutThisMoveThat   *Declaration
	InoutThisInThat   *Declaration
	InoutThisMoveThat *Declaration
}

// Empty reports whether no value-set function was found.
func (v ValueSetFunctions) Empty() bool {
	return v.OutThisInThat == nil && v.OutThisMoveThat == nil &&
		v.InoutThisInThat == nil && v.InoutThisMoveThat == nil
}

// FindDeclaredValueSetFunctions scans this type's member functions and
// classifies the declared value-set functions by their this and that
// passing styles.
func (n *Declaration) FindDeclaredValueSetFunctions() ValueSetFunctions {
	var v ValueSetFunctions
	for _, m := range n.TypeScopeDeclarations(FunctionMembers) {
		f := m.Function
		switch {
		case f.IsConstructorWithInThat():
			v.OutThisInThat = m
		case f.IsConstructorWithMoveThat():
			v.OutThisMoveThat = m
		case f.IsAssignmentWithInThat():
			v.InoutThisInThat = m
		case f.IsAssignmentWithMoveThat():
			v.InoutThisMoveThat = m
		}
	}
	return v
}

// InitializerToString renders the initializer's expression text, empty
// when there is none or the initializer is not an expression.
func (n *Declaration) InitializerToString() string {
	if n.Initializer == nil {
		return ""
	}
	return n.Initializer.ToString()
}
