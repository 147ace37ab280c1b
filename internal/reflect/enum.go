package reflect

import (
	"strconv"

	"github.com/cedar-lang/cedarfront/internal/ast"
)

// enumerator is one harvested enum constant: its name and the value
// text it will be initialized with.
type enumerator struct {
	name  string
	value string
}

func metaCedarEnum(c *CompilerServices, t TypeDeclaration) {
	buildEnum(c, t, false)
}

func metaFlagEnum(c *CompilerServices, t TypeDeclaration) {
	buildEnum(c, t, true)
}

// buildEnum turns a type body of named values into a closed, totally
// ordered value type over an underlying integer. Enumerators without
// an explicit value continue from the previous one: plus one normally,
// doubling for flag enums. Member functions written by the user are
// kept; the enumerator statements themselves are marked and swept
// through the deferred removal machinery.
func buildEnum(c *CompilerServices, t TypeDeclaration, flags bool) {
	typeName := t.Name()
	if !c.Require(typeName != "", "an enum type must have a name") {
		return
	}

	underlying := "i64"
	if flags {
		underlying = "u64"
	}
	if arg, ok := c.GetArgument(0); ok {
		underlying = arg
	}

	var enumerators []enumerator
	for _, s := range t.bodyStatements() {
		switch s.Kind {
		case ast.StmtDeclaration:
			d := s.Declaration
			if !d.IsObject() {
				// user-written member functions survive untouched
				continue
			}
			if !c.Require(d.HasName(), "an enumerator must have a name") {
				return
			}
			enumerators = append(enumerators, enumerator{
				name:  d.Name().Text,
				value: d.InitializerToString(),
			})
			s.MarkedForRemoval = true

		case ast.StmtExpression:
			e := s.Expression.Expr
			id := e.GetIdentifier()
			if !c.Require(id != nil, "unexpected statement in enum body, expected an enumerator name") {
				return
			}
			enumerators = append(enumerators, enumerator{name: id.Text})
			s.MarkedForRemoval = true

		default:
			c.Require(false, "unexpected statement in enum body")
			return
		}
	}
	if !c.Require(len(enumerators) > 0, "an enum must have at least one enumerator") {
		return
	}
	if !resolveEnumValues(c, enumerators, flags) {
		return
	}

	t.RemoveMarkedMembers()
	t.DisableMemberFunctionGeneration()

	t.AddMember("value_: " + underlying + ";")
	t.AddMember("operator=: (out this, v: " + underlying + ") = { value_ = v; }")
	t.AddMember("to_underlying: (this) -> " + underlying + " = { return value_; }")
	for _, en := range enumerators {
		t.AddMember("public " + en.name + ": " + typeName + " == " + typeName + "(" + en.value + ");")
	}
	if flags {
		t.AddMember("public none: " + typeName + " == " + typeName + "(0);")
		t.AddMember("operator|: (this, that) -> " + typeName + " = { return " + typeName + "(value_ | that.value_); }")
		t.AddMember("operator&: (this, that) -> " + typeName + " = { return " + typeName + "(value_ & that.value_); }")
		t.AddMember("has: (this, flag: " + typeName + ") -> bool = { return (value_ & flag.value_) != 0; }")
	}

	metaCopyable(c, t)
	orderedImpl(c, t, "strong")
}

// resolveEnumValues fills in missing enumerator values from the next
// value rule and validates explicit ones.
func resolveEnumValues(c *CompilerServices, enumerators []enumerator, flags bool) bool {
	next := int64(0)
	if flags {
		next = 1
	}
	for i := range enumerators {
		en := &enumerators[i]
		if en.value != "" {
			v, err := strconv.ParseInt(en.value, 0, 64)
			if flags {
				if !c.Require(err == nil, "a flag_enum enumerator value must be an integral constant") {
					return false
				}
				if !c.Require(v > 0 && v&(v-1) == 0, "a flag_enum enumerator value must be a power of two") {
					return false
				}
			}
			if err == nil {
				next = v
			}
		} else {
			en.value = strconv.FormatInt(next, 10)
		}
		if flags {
			next *= 2
		} else {
			next++
		}
	}
	return true
}
