package typesys

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// MethodIn views m as a member of receiver. A parameterized receiver
// substitutes the declaring type's variables, a raw receiver erases the
// whole signature, anything else returns m. Static methods are never
// rewritten.
func (s *System) MethodIn(receiver types.TypeID, m types.MethodID) types.MethodID {
	in := s.in
	info := in.Method(m)
	if info.Modifiers.IsStatic() || !in.IsValidMethod(m) {
		return m
	}
	proj := s.AsSuper(receiver, info.Declaring)
	kind := in.KindOf(proj)
	if kind != types.KindParameterized && kind != types.KindRaw {
		return m
	}
	key := memberKey{receiver: proj, member: uint32(m)}
	if id, ok := s.methodViews[key]; ok {
		return id
	}
	base := types.MethodSignature{Params: info.Params, Return: info.Return, Thrown: info.Thrown}
	var id types.MethodID
	if kind == types.KindRaw {
		sig, _ := subst.Signature(s, subst.Erase(in), base)
		id = in.DeriveMethod(m, types.VariantMemberOfRaw, proj, sig, nil)
	} else {
		sig, _ := subst.Signature(s, subst.ForParameterized(in, proj), base)
		sig.TypeVars = info.TypeVars
		id = in.DeriveMethod(m, types.VariantMemberOfParameterized, proj, sig, nil)
	}
	s.methodViews[key] = id
	return id
}

// FieldIn views f as a member of receiver, substituting or erasing its type
// like MethodIn.
func (s *System) FieldIn(receiver types.TypeID, f types.FieldID) types.FieldID {
	in := s.in
	info := in.Field(f)
	if info.Modifiers.IsStatic() || info.Problem != types.NoProblem {
		return f
	}
	proj := s.AsSuper(receiver, info.Declaring)
	var typ types.TypeID
	switch in.KindOf(proj) {
	case types.KindParameterized:
		typ = subst.Type(s, subst.ForParameterized(in, proj), info.Type)
	case types.KindRaw:
		typ = subst.Type(s, subst.Erase(in), info.Type)
	default:
		return f
	}
	key := memberKey{receiver: proj, member: uint32(f)}
	if id, ok := s.fieldViews[key]; ok {
		return id
	}
	id := in.FieldOf(f, proj, typ)
	s.fieldViews[key] = id
	return id
}
