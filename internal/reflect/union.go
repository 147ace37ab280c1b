package reflect

import "strconv"

// metaUnion rebuilds a type as a safe discriminated union: the object
// members become the alternative set, and access goes through
// tag-checked accessors.
func metaUnion(c *CompilerServices, t TypeDeclaration) {
	type alternative struct {
		name     string
		typeText string
	}
	var alts []alternative
	for _, m := range t.GetMembers() {
		o, ok := m.AsObject()
		if !ok {
			c.Require(false, "a union may contain only object alternatives")
			return
		}
		if !c.Require(m.Name() != "", "a union alternative must have a name") {
			return
		}
		if !c.Require(!o.HasWildcardType(), "a union alternative must have a declared type") {
			return
		}
		alts = append(alts, alternative{name: m.Name(), typeText: o.TypeToString()})
	}
	if !c.Require(len(alts) > 0, "a union must have at least one alternative") {
		return
	}

	t.RemoveAllMembers()
	t.DisableMemberFunctionGeneration()

	t.AddMember("tag_: i64 = -1;")
	for i, alt := range alts {
		tag := strconv.Itoa(i)
		t.AddMember("is_" + alt.name + ": (this) -> bool = { return tag_ == " + tag + "; }")
		t.AddMember(alt.name + ": (this) -> " + alt.typeText + " pre(tag_ == " + tag + ");")
		t.AddMember("set_" + alt.name + ": (inout this, v: " + alt.typeText + ") = { tag_ = " + tag + "; }")
	}
	t.AddMember("operator=: (out this) = { }")
	t.AddMember("operator=: (move this) = { }")
}
