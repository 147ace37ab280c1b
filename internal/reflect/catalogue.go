package reflect

import (
	"github.com/cedar-lang/cedarfront/internal/ast"
)

// builtins is the fixed metafunction catalogue. User registrations are
// consulted only for names missing here.
var builtins map[string]Metafunction

func init() {
	builtins = map[string]Metafunction{
		"interface":        metaInterface,
		"polymorphic_base": metaPolymorphicBase,

		"ordered":           func(c *CompilerServices, t TypeDeclaration) { orderedImpl(c, t, "strong") },
		"weakly_ordered":    func(c *CompilerServices, t TypeDeclaration) { orderedImpl(c, t, "weak") },
		"partially_ordered": func(c *CompilerServices, t TypeDeclaration) { orderedImpl(c, t, "partial") },

		"copyable":    metaCopyable,
		"basic_value": metaBasicValue,
		"value":       metaValue,
		"weakly_ordered_value": func(c *CompilerServices, t TypeDeclaration) {
			metaBasicValue(c, t)
			if !c.hardFailed {
				orderedImpl(c, t, "weak")
			}
		},
		"partially_ordered_value": func(c *CompilerServices, t TypeDeclaration) {
			metaBasicValue(c, t)
			if !c.hardFailed {
				orderedImpl(c, t, "partial")
			}
		},

		"struct": metaStruct,

		"basic_enum": metaCedarEnum,
		"enum":       metaCedarEnum,
		"cedar_enum": metaCedarEnum,
		"flag_enum":  metaFlagEnum,

		"union": metaUnion,
		"print": metaPrint,
	}
}

// metaInterface forces every member function public and virtual,
// forbids data members and copying, and adds a virtual destructor if
// the type declares none.
func metaInterface(c *CompilerServices, t TypeDeclaration) {
	hasDestructor := false
	for _, m := range t.GetMembers() {
		if m.IsObject() {
			c.Require(false, "an interface may not contain data members")
			return
		}
		f, ok := m.AsFunction()
		if !ok {
			continue
		}
		if !c.Require(!f.IsConstructorWithThat() && !f.IsAssignment(),
			"an interface may not copy or move; consider a virtual clone function instead") {
			return
		}
		m.MakePublic()
		f.MakeVirtual()
		if f.IsDestructor() {
			hasDestructor = true
		}
	}
	if !hasDestructor {
		t.AddMember("operator=: (virtual move this) = { }")
	}
	t.DisableMemberFunctionGeneration()
}

// metaPolymorphicBase makes a type safe to use as a base by reference:
// non-copyable, with a destructor that is either public and virtual or
// protected and nonvirtual.
func metaPolymorphicBase(c *CompilerServices, t TypeDeclaration) {
	hasDestructor := false
	for _, m := range t.GetMembers() {
		f, ok := m.AsFunction()
		if !ok {
			continue
		}
		if !c.Require(!f.IsConstructorWithThat() && !f.IsAssignment(),
			"a polymorphic_base type may not copy or move; it is intended to be used by reference") {
			return
		}
		if !f.IsDestructor() {
			continue
		}
		hasDestructor = true
		if m.IsDefaultAccess() {
			m.MakePublic()
		}
		if m.IsPublic() {
			f.MakeVirtual()
			continue
		}
		if !c.Require(m.IsProtected() && !f.IsVirtual(),
			"a polymorphic_base type's destructor must be public and virtual, or protected and nonvirtual") {
			return
		}
	}
	if !hasDestructor {
		t.AddMember("operator=: (virtual move this) = { }")
	}
}

// orderedImpl synthesizes a three-way comparison with the requested
// ordering category unless the type declares one.
func orderedImpl(c *CompilerServices, t TypeDeclaration, category string) {
	for _, m := range t.GetMemberFunctions() {
		if m.HasName("operator<=>") {
			return
		}
	}
	t.AddMember("operator<=>: (this, that) -> cedar::" + category + "_ordering;")
}

// metaCopyable synthesizes any missing combination of the four
// construct and assign shapes over this and that.
func metaCopyable(c *CompilerServices, t TypeDeclaration) {
	v := t.QueryDeclaredValueSetFunctions()
	if v.OutThisInThat == nil {
		t.AddMember("operator=: (out this, that) = { }")
	}
	if v.OutThisMoveThat == nil {
		t.AddMember("operator=: (out this, move that) = { }")
	}
	if v.InoutThisInThat == nil {
		t.AddMember("operator=: (inout this, that) = { }")
	}
	if v.InoutThisMoveThat == nil {
		t.AddMember("operator=: (inout this, move that) = { }")
	}
}

// metaBasicValue is copyable plus public default construction, with no
// protected or virtual functions.
func metaBasicValue(c *CompilerServices, t TypeDeclaration) {
	metaCopyable(c, t)
	hasDefaultConstructor := false
	for _, m := range t.GetMemberFunctions() {
		f, _ := m.AsFunction()
		if f.IsDefaultConstructor() {
			hasDefaultConstructor = true
		}
		if !c.Require(!f.IsVirtual(), "a value type may not have virtual functions") {
			return
		}
		if !c.Require(!m.IsProtected(), "a value type may not have protected functions") {
			return
		}
	}
	if !hasDefaultConstructor {
		t.AddMember("operator=: (out this) = { }")
	}
}

func metaValue(c *CompilerServices, t TypeDeclaration) {
	metaBasicValue(c, t)
	if !c.hardFailed {
		orderedImpl(c, t, "strong")
	}
}

// metaStruct validates a pure data aggregate: no virtual dispatch, no
// user-written construction, assignment, or destruction, all members
// public. It synthesizes nothing, so reapplying it to a conforming
// type is a no-op.
func metaStruct(c *CompilerServices, t TypeDeclaration) {
	for _, m := range t.GetMembers() {
		if f, ok := m.AsFunction(); ok {
			if !c.Require(!f.IsVirtual(), "a struct may not have virtual functions") {
				return
			}
			if !c.Require(!m.HasName("operator="),
				"a struct may not have user-defined construction, assignment, or destruction") {
				return
			}
		}
		if m.IsDefaultAccess() {
			m.MakePublic()
		}
		if !c.Require(m.IsPublic(), "all struct members must be public") {
			return
		}
	}
}

// metaPrint dumps the declaration tree to the services output stream.
func metaPrint(c *CompilerServices, t TypeDeclaration) {
	ast.Walk(ast.NewPrinter(c.out), t.n, 0)
}
