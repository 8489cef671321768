package scope

import "github.com/groovy/groovy-eclipse-sub042/internal/types"

// access is the point a visibility question is asked from.
type access struct {
	class types.TypeID // NoTypeID at unit level
	pkg   string
}

func (t *Table) accessAt(s ScopeID) access {
	return access{class: t.EnclosingClass(s), pkg: t.packageOf(s)}
}

// CanSeeType reports whether typ is accessible from s. Arrays are checked
// through their leaf; types that are not classes are always visible.
func (t *Table) CanSeeType(s ScopeID, typ types.TypeID) bool {
	return t.canSeeType(t.accessAt(s), typ)
}

// CanSeeField reports whether f is accessible from s through receiver
// (NoTypeID for an implicit or static access).
func (t *Table) CanSeeField(s ScopeID, f types.FieldID, receiver types.TypeID) bool {
	info := t.in.FieldRaw(f)
	return t.canSeeMember(t.accessAt(s), info.Declaring, info.Modifiers, receiver)
}

// CanSeeMethod reports whether m is accessible from s through receiver.
func (t *Table) CanSeeMethod(s ScopeID, m types.MethodID, receiver types.TypeID) bool {
	return t.canSeeMethod(t.accessAt(s), m, receiver)
}

func (t *Table) canSeeMethod(a access, m types.MethodID, receiver types.TypeID) bool {
	info := t.in.MethodRaw(m)
	if info.Selector == types.ConstructorName {
		// a protected constructor is not reachable through subclassing
		receiver = types.NoTypeID
	}
	return t.canSeeMember(a, info.Declaring, info.Modifiers, receiver)
}

func (t *Table) canSeeType(a access, typ types.TypeID) bool {
	in := t.in
	c := in.LeafComponent(typ)
	if !in.IsClassLike(c) {
		switch in.KindOf(c) {
		case types.KindParameterized, types.KindRaw:
			c = in.GenericOf(c)
		default:
			return true
		}
	}
	if in.KindOf(c) == types.KindMissing {
		return true
	}
	for cur := c; cur != types.NoTypeID; cur = in.Enclosing(cur) {
		mods, enc := in.ClassModifiers(cur), in.Enclosing(cur)
		if enc == types.NoTypeID {
			if !mods.IsPublic() && in.Package(cur) != a.pkg {
				return false
			}
			continue
		}
		if !t.canSeeMember(a, enc, mods, types.NoTypeID) {
			return false
		}
	}
	return true
}

// canSeeMember applies the access rules to a member of declaring with mods.
func (t *Table) canSeeMember(a access, declaring types.TypeID, mods types.Modifiers, receiver types.TypeID) bool {
	in := t.in
	if mods.IsPublic() || declaring == types.NoTypeID {
		return true
	}
	declaring = in.GenericOf(declaring)
	if mods.IsPrivate() {
		return a.class != types.NoTypeID && in.Outermost(a.class) == in.Outermost(declaring)
	}
	if in.Package(declaring) == a.pkg {
		return true
	}
	if !mods.IsProtected() {
		return false
	}
	for c := a.class; c != types.NoTypeID; c = in.Enclosing(c) {
		if !t.isSubclass(c, declaring) {
			continue
		}
		if mods.IsStatic() || receiver == types.NoTypeID || t.isSubclass(in.Erasure(receiver), c) {
			return true
		}
	}
	return false
}

// isSubclass walks the erased supertype graph of sub looking for sup.
func (t *Table) isSubclass(sub, sup types.TypeID) bool {
	in := t.in
	sub, sup = in.GenericOf(sub), in.GenericOf(sup)
	seen := make(map[types.TypeID]bool)
	var walk func(c types.TypeID) bool
	walk = func(c types.TypeID) bool {
		c = in.GenericOf(c)
		if c == sup {
			return true
		}
		if c == types.NoTypeID || seen[c] || !in.IsClassLike(c) {
			return false
		}
		seen[c] = true
		if walk(in.Superclass(c)) {
			return true
		}
		for _, it := range in.Interfaces(c) {
			if walk(it) {
				return true
			}
		}
		return false
	}
	return walk(sub)
}
