package typesys

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// widening lists the primitive widening conversions.
var widening = map[types.BaseKind][]types.BaseKind{
	types.BaseByte:  {types.BaseShort, types.BaseInt, types.BaseLong, types.BaseFloat, types.BaseDouble},
	types.BaseShort: {types.BaseInt, types.BaseLong, types.BaseFloat, types.BaseDouble},
	types.BaseChar:  {types.BaseInt, types.BaseLong, types.BaseFloat, types.BaseDouble},
	types.BaseInt:   {types.BaseLong, types.BaseFloat, types.BaseDouble},
	types.BaseLong:  {types.BaseFloat, types.BaseDouble},
	types.BaseFloat: {types.BaseDouble},
}

// IsWideningPrimitive reports from -> to primitive widening.
func (s *System) IsWideningPrimitive(from, to types.TypeID) bool {
	f, t := s.in.BaseKindOf(from), s.in.BaseKindOf(to)
	for _, k := range widening[f] {
		if k == t {
			return true
		}
	}
	return false
}

// IsSubtype reports sub <: sup. Primitive subtyping follows widening.
func (s *System) IsSubtype(sub, sup types.TypeID) bool {
	return s.isSubtype(sub, sup, 0)
}

const maxDepth = 32

func (s *System) isSubtype(sub, sup types.TypeID, depth int) bool {
	if sub == types.NoTypeID || sup == types.NoTypeID || depth > maxDepth {
		return false
	}
	sub, sup = s.in.Prototype(sub), s.in.Prototype(sup)
	if sub == sup {
		return true
	}
	in := s.in
	subKind, supKind := in.KindOf(sub), in.KindOf(sup)
	if subKind == types.KindBase || supKind == types.KindBase {
		if sub == in.Builtins().Null {
			return in.IsReference(sup)
		}
		return in.IsPrimitive(sub) && in.IsPrimitive(sup) && s.IsWideningPrimitive(sub, sup)
	}
	if subKind == types.KindProblem || supKind == types.KindProblem {
		return false
	}

	switch supKind {
	case types.KindIntersection:
		for _, m := range in.IntersectionMembers(sup) {
			if !s.isSubtype(sub, m, depth+1) {
				return false
			}
		}
		return true
	case types.KindCapture:
		if c, _ := in.CaptureInfo(sup); c.Lower != types.NoTypeID && s.isSubtype(sub, c.Lower, depth+1) {
			return true
		}
	}

	switch subKind {
	case types.KindTypeVar, types.KindCapture, types.KindIntersection:
		for _, b := range s.upperBounds(sub) {
			if s.isSubtype(b, sup, depth+1) {
				return true
			}
		}
		return false
	case types.KindArray:
		return s.arraySubtype(sub, sup, depth)
	}
	if sup == s.object() {
		return true
	}
	switch supKind {
	case types.KindTypeVar, types.KindCapture, types.KindArray, types.KindWildcard:
		return false
	}

	proj := s.AsSuper(sub, sup)
	if proj == types.NoTypeID {
		return false
	}
	if supKind != types.KindParameterized {
		return true
	}
	if in.KindOf(proj) == types.KindRaw {
		return false
	}
	formal, actual := in.TypeArgs(sup), s.argsOf(proj)
	if len(formal) != len(actual) {
		return len(formal) == 0
	}
	for i := range formal {
		if !s.contains(formal[i], actual[i], depth+1) {
			return false
		}
	}
	if enc := in.EnclosingType(sup); enc != types.NoTypeID && in.KindOf(enc) == types.KindParameterized {
		if pe := in.EnclosingType(proj); pe != types.NoTypeID {
			return s.isSubtype(pe, enc, depth+1)
		}
	}
	return true
}

func (s *System) arraySubtype(sub, sup types.TypeID, depth int) bool {
	in := s.in
	if in.KindOf(sup) != types.KindArray {
		if sup == s.object() {
			return true
		}
		for _, it := range s.env.ArraySupertypes() {
			if in.GenericOf(sup) == it && in.KindOf(sup) != types.KindParameterized {
				return true
			}
		}
		return false
	}
	se, pe := in.ElementType(sub), in.ElementType(sup)
	if in.IsPrimitive(se) || in.IsPrimitive(pe) {
		return se == pe
	}
	return s.isSubtype(se, pe, depth+1)
}

// upperBounds returns the bounds a type variable, capture or intersection
// is known to be a subtype of.
func (s *System) upperBounds(t types.TypeID) []types.TypeID {
	in := s.in
	switch in.KindOf(t) {
	case types.KindTypeVar:
		if bs := in.TypeVarBounds(t); len(bs) > 0 {
			return bs
		}
	case types.KindCapture:
		c, _ := in.CaptureInfo(t)
		if len(c.Upper) > 0 {
			return c.Upper
		}
		if w, ok := in.WildcardInfo(c.Wildcard); ok && w.Kind == types.WildExtends {
			return []types.TypeID{w.Bound}
		}
	case types.KindIntersection:
		return in.IntersectionMembers(t)
	}
	return []types.TypeID{s.object()}
}

// argsOf returns the type arguments of a parameterized type; a generic
// declaration stands for itself parameterized by its own variables.
func (s *System) argsOf(t types.TypeID) []types.TypeID {
	if s.in.KindOf(t) == types.KindParameterized {
		return s.in.TypeArgs(t)
	}
	if s.in.IsClassLike(t) {
		return s.in.TypeVars(t)
	}
	return nil
}

// Contains reports whether the type argument actual is contained by
// formal.
func (s *System) Contains(formal, actual types.TypeID) bool {
	return s.contains(formal, actual, 0)
}

func (s *System) contains(formal, actual types.TypeID, depth int) bool {
	in := s.in
	fw, fok := in.WildcardInfo(formal)
	aw, aok := in.WildcardInfo(actual)
	if !fok {
		return !aok && s.Same(formal, actual)
	}
	switch fw.Kind {
	case types.WildUnbound:
		return true
	case types.WildExtends:
		switch {
		case !aok:
			return s.isSubtype(actual, fw.Bound, depth+1)
		case aw.Kind == types.WildExtends:
			return s.isSubtype(aw.Bound, fw.Bound, depth+1)
		default:
			return fw.Bound == s.object()
		}
	case types.WildSuper:
		switch {
		case !aok:
			return s.isSubtype(fw.Bound, actual, depth+1)
		case aw.Kind == types.WildSuper:
			return s.isSubtype(fw.Bound, aw.Bound, depth+1)
		}
	}
	return false
}

// DirectSupertypes returns the supertypes of t with its type arguments
// substituted. Raw types have raw supertypes. Interfaces list the root
// class last when they declare no super-interfaces.
func (s *System) DirectSupertypes(t types.TypeID) []types.TypeID {
	in := s.in
	switch in.KindOf(t) {
	case types.KindClass, types.KindMissing:
		return s.declaredSupers(t)
	case types.KindParameterized:
		m := subst.ForParameterized(in, t)
		return subst.Types(s, m, s.declaredSupers(in.GenericOf(t)))
	case types.KindRaw:
		supers := s.declaredSupers(in.GenericOf(t))
		out := make([]types.TypeID, len(supers))
		for i, sup := range supers {
			out[i] = s.RawOf(sup)
		}
		return out
	case types.KindTypeVar, types.KindCapture, types.KindIntersection:
		return s.upperBounds(t)
	case types.KindArray:
		return append([]types.TypeID{s.object()}, s.env.ArraySupertypes()...)
	}
	return nil
}

func (s *System) declaredSupers(decl types.TypeID) []types.TypeID {
	var out []types.TypeID
	if sup := s.in.Superclass(decl); sup != types.NoTypeID {
		out = append(out, sup)
	}
	out = append(out, s.in.Interfaces(decl)...)
	if len(out) == 0 && decl != s.object() {
		out = append(out, s.object())
	}
	return out
}

// RawOf erases t to a raw type when its declaration is generic.
func (s *System) RawOf(t types.TypeID) types.TypeID {
	decl := s.in.Erasure(t)
	if s.in.IsGeneric(decl) {
		return s.in.Raw(decl, types.NoTypeID)
	}
	return decl
}

// AsSuper projects t onto the declaration of sup: the supertype of t whose
// generic is sup's generic, with arguments substituted. NoTypeID when sup is
// not a supertype of t.
func (s *System) AsSuper(t, sup types.TypeID) types.TypeID {
	target := s.in.GenericOf(sup)
	if s.in.KindOf(sup) == types.KindArray {
		return types.NoTypeID
	}
	return s.asSuper(t, target, map[types.TypeID]bool{})
}

func (s *System) asSuper(t, target types.TypeID, seen map[types.TypeID]bool) types.TypeID {
	t = s.in.Prototype(t)
	if t == types.NoTypeID || seen[t] {
		return types.NoTypeID
	}
	seen[t] = true
	switch s.in.KindOf(t) {
	case types.KindClass, types.KindMissing, types.KindParameterized, types.KindRaw:
		if s.in.GenericOf(t) == target {
			return t
		}
	case types.KindArray:
		if target == s.object() {
			return target
		}
		for _, it := range s.env.ArraySupertypes() {
			if it == target {
				return target
			}
		}
		return types.NoTypeID
	case types.KindBase, types.KindProblem, types.KindWildcard:
		return types.NoTypeID
	}
	for _, sup := range s.DirectSupertypes(t) {
		if r := s.asSuper(sup, target, seen); r != types.NoTypeID {
			return r
		}
	}
	return types.NoTypeID
}

// IsInterfaceType reports interface declarations and their
// parameterizations.
func (s *System) IsInterfaceType(t types.TypeID) bool {
	return s.in.IsInterface(t)
}

// BoxOf returns the box of a primitive.
func (s *System) BoxOf(t types.TypeID) types.TypeID { return s.env.Box(t) }

// UnboxOf returns the primitive of a box, looking through type variable
// bounds.
func (s *System) UnboxOf(t types.TypeID) types.TypeID {
	if p := s.env.Unbox(t); p != types.NoTypeID {
		return p
	}
	switch s.in.KindOf(t) {
	case types.KindTypeVar, types.KindCapture:
		for _, b := range s.upperBounds(t) {
			if p := s.env.Unbox(b); p != types.NoTypeID {
				return p
			}
		}
	}
	return types.NoTypeID
}

// Known forwards to the environment.
func (s *System) Known(k env.Known) types.TypeID { return s.env.Known(k) }
