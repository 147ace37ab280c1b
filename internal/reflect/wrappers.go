package reflect

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// Declaration is a typed, non-owning view over one declaration node
// for the duration of a metafunction invocation.
type Declaration struct {
	n *ast.Declaration
	c *CompilerServices
}

func (d Declaration) Position() position.Pos { return d.n.Position() }

// Name returns the declared name, empty for unnamed declarations.
func (d Declaration) Name() string {
	if t := d.n.Name(); t != nil {
		return t.Text
	}
	return ""
}

func (d Declaration) HasName(s string) bool { return d.n.HasNameText(s) }

func (d Declaration) IsFunction() bool  { return d.n.IsFunction() }
func (d Declaration) IsObject() bool    { return d.n.IsObject() }
func (d Declaration) IsType() bool      { return d.n.IsType() }
func (d Declaration) IsNamespace() bool { return d.n.IsNamespace() }
func (d Declaration) IsAlias() bool     { return d.n.IsAlias() }

func (d Declaration) IsPublic() bool        { return d.n.IsPublic() }
func (d Declaration) IsProtected() bool     { return d.n.IsProtected() }
func (d Declaration) IsPrivate() bool       { return d.n.IsPrivate() }
func (d Declaration) IsDefaultAccess() bool { return d.n.IsDefaultAccess() }

func (d Declaration) MakePublic()    { d.n.MakePublic() }
func (d Declaration) MakeProtected() { d.n.MakeProtected() }
func (d Declaration) MakePrivate()   { d.n.MakePrivate() }

func (d Declaration) HasInitializer() bool        { return d.n.HasInitializer() }
func (d Declaration) InitializerToString() string { return d.n.InitializerToString() }

// AsFunction narrows to a function view, failing when the node is not
// a function declaration.
func (d Declaration) AsFunction() (FunctionDeclaration, bool) {
	if !d.n.IsFunction() {
		return FunctionDeclaration{}, false
	}
	return FunctionDeclaration{d}, true
}

func (d Declaration) AsObject() (ObjectDeclaration, bool) {
	if !d.n.IsObject() {
		return ObjectDeclaration{}, false
	}
	return ObjectDeclaration{d}, true
}

func (d Declaration) AsType() (TypeDeclaration, bool) {
	if !d.n.IsType() {
		return TypeDeclaration{}, false
	}
	return TypeDeclaration{d}, true
}

func (d Declaration) AsAlias() (AliasDeclaration, bool) {
	if !d.n.IsAlias() {
		return AliasDeclaration{}, false
	}
	return AliasDeclaration{d}, true
}

// FunctionDeclaration is the narrowed view over a function.
type FunctionDeclaration struct {
	Declaration
}

func (d FunctionDeclaration) HasThis() bool              { return d.n.IsFunctionWithThis() }
func (d FunctionDeclaration) IsVirtual() bool            { return d.n.IsVirtualFunction() }
func (d FunctionDeclaration) MakeVirtual() bool          { return d.n.MakeFunctionVirtual() }
func (d FunctionDeclaration) IsConstructor() bool        { return d.n.IsConstructor() }
func (d FunctionDeclaration) IsDefaultConstructor() bool { return d.n.IsDefaultConstructor() }
func (d FunctionDeclaration) IsConstructorWithThat() bool {
	return d.n.IsConstructorWithThat()
}
func (d FunctionDeclaration) IsAssignment() bool { return d.n.IsAssignment() }
func (d FunctionDeclaration) IsDestructor() bool { return d.n.IsDestructor() }
func (d FunctionDeclaration) IsComparison() bool { return d.n.IsComparisonFunction() }

func (d FunctionDeclaration) ParameterCount() int {
	return d.n.Function.ParameterCount()
}

func (d FunctionDeclaration) HasDeclaredReturnType() bool {
	return d.n.Function.HasDeclaredReturnType()
}

// ObjectDeclaration is the narrowed view over an object.
type ObjectDeclaration struct {
	Declaration
}

// TypeToString renders the declared type, "_" for deduced.
func (d ObjectDeclaration) TypeToString() string { return d.n.ObjectType.ToString() }

func (d ObjectDeclaration) HasWildcardType() bool { return d.n.ObjectType.IsWildcard() }

// AliasDeclaration is the narrowed view over an alias.
type AliasDeclaration struct {
	Declaration
}

func (d AliasDeclaration) IsTypeAlias() bool      { return d.n.IsTypeAlias() }
func (d AliasDeclaration) IsNamespaceAlias() bool { return d.n.IsNamespaceAlias() }
func (d AliasDeclaration) IsObjectAlias() bool    { return d.n.IsObjectAlias() }

// TypeDeclaration is the narrowed view over a type. It carries the
// structural mutators metafunctions use to synthesize members.
type TypeDeclaration struct {
	Declaration
}

func (d TypeDeclaration) wrap(members []*ast.Declaration) []Declaration {
	out := make([]Declaration, 0, len(members))
	for _, m := range members {
		out = append(out, Declaration{n: m, c: d.c})
	}
	return out
}

// GetMembers returns all member declarations in declaration order,
// including members already marked for removal but not yet swept.
func (d TypeDeclaration) GetMembers() []Declaration {
	return d.wrap(d.n.TypeScopeDeclarations(ast.AllMembers))
}

func (d TypeDeclaration) GetMemberFunctions() []Declaration {
	return d.wrap(d.n.TypeScopeDeclarations(ast.FunctionMembers))
}

func (d TypeDeclaration) GetMemberObjects() []Declaration {
	return d.wrap(d.n.TypeScopeDeclarations(ast.ObjectMembers))
}

func (d TypeDeclaration) GetMemberTypes() []Declaration {
	return d.wrap(d.n.TypeScopeDeclarations(ast.TypeMembers))
}

func (d TypeDeclaration) GetMemberAliases() []Declaration {
	return d.wrap(d.n.TypeScopeDeclarations(ast.AliasMembers))
}

// AddMember parses source as one member declaration and splices it
// into this type's body.
func (d TypeDeclaration) AddMember(source string) bool {
	s := d.c.ParseStatement(source)
	if s == nil {
		d.c.Error("invalid generated member: " + source)
		return false
	}
	if !d.n.AddTypeMember(s) {
		d.c.Error("generated source is not a member declaration: " + source)
		return false
	}
	return true
}

// MarkMemberForRemoval queues a member for removal. The member stays
// visible until RemoveMarkedMembers sweeps.
func (d TypeDeclaration) MarkMemberForRemoval(m Declaration) bool {
	return d.n.TypeMemberMarkForRemoval(m.n)
}

func (d TypeDeclaration) RemoveMarkedMembers() { d.n.TypeRemoveMarkedMembers() }

func (d TypeDeclaration) RemoveAllMembers() { d.n.TypeRemoveAllMembers() }

func (d TypeDeclaration) DisableMemberFunctionGeneration() {
	d.n.TypeDisableMemberFunctionGeneration()
}

func (d TypeDeclaration) IsFinal() bool   { return d.n.IsTypeFinal() }
func (d TypeDeclaration) MakeFinal() bool { return d.n.MakeTypeFinal() }

func (d TypeDeclaration) IsPolymorphic() bool { return d.n.IsPolymorphic() }

// ValueSetFunctions reports which of the four canonical construct and
// assign shapes over this and that the type declares.
type ValueSetFunctions struct {
	OutThisInThat     *Declaration
	OutThisMoveThat   *Declaration
	InoutThisInThat   *Declaration
	InoutThisMoveThat *Declaration
}

// Empty reports whether none of the four shapes is declared.
func (v ValueSetFunctions) Empty() bool {
	return v.OutThisInThat == nil && v.OutThisMoveThat == nil &&
		v.InoutThisInThat == nil && v.InoutThisMoveThat == nil
}

// QueryDeclaredValueSetFunctions scans the type's member functions and
// classifies the declared value-set functions.
func (d TypeDeclaration) QueryDeclaredValueSetFunctions() ValueSetFunctions {
	found := d.n.FindDeclaredValueSetFunctions()
	wrap := func(n *ast.Declaration) *Declaration {
		if n == nil {
			return nil
		}
		return &Declaration{n: n, c: d.c}
	}
	return ValueSetFunctions{
		OutThisInThat:     wrap(found.OutThisInThat),
		OutThisMoveThat:   wrap(found.OutThisMoveThat),
		InoutThisInThat:   wrap(found.InoutThisInThat),
		InoutThisMoveThat: wrap(found.InoutThisMoveThat),
	}
}

// bodyStatements exposes the raw member statement list. Enum
// metafunctions need it to harvest bare-identifier enumerators that
// parse as expression statements rather than declarations.
func (d TypeDeclaration) bodyStatements() []*ast.Statement {
	if d.n.Initializer == nil || d.n.Initializer.Kind != ast.StmtCompound {
		return nil
	}
	return d.n.Initializer.Compound.Statements
}
