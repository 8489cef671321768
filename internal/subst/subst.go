package subst

import (
	"slices"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Env gives substitution access to the arena and to glb, which is needed
// when an intersection's bounds change.
type Env interface {
	Types() *types.Interner
	// GLB returns the greatest lower bound members of ts, or nil when the
	// set is unsatisfiable.
	GLB(ts []types.TypeID) []types.TypeID
}

type plainEnv struct{ in *types.Interner }

func (p plainEnv) Types() *types.Interner               { return p.in }
func (p plainEnv) GLB(ts []types.TypeID) []types.TypeID { return ts }

// Plain wraps an interner with a glb that keeps bounds as given.
func Plain(in *types.Interner) Env {
	return plainEnv{in: in}
}

// Type applies m to t.
func Type(env Env, m Mapping, t types.TypeID) types.TypeID {
	if m == nil || t == types.NoTypeID {
		return t
	}
	s := substituter{env: env, in: env.Types(), m: m}
	return s.typ(t)
}

// Types applies m to every element. The input slice is returned when no
// element changed.
func Types(env Env, m Mapping, ts []types.TypeID) []types.TypeID {
	if m == nil || len(ts) == 0 {
		return ts
	}
	s := substituter{env: env, in: env.Types(), m: m}
	return s.list(ts)
}

// Signature applies m to the parameter, return and thrown types of sig.
// changed reports whether any part differs.
func Signature(env Env, m Mapping, sig types.MethodSignature) (out types.MethodSignature, changed bool) {
	out = sig
	out.Params = Types(env, m, sig.Params)
	out.Return = Type(env, m, sig.Return)
	out.Thrown = Types(env, m, sig.Thrown)
	changed = out.Return != sig.Return || !sameSlice(out.Params, sig.Params) || !sameSlice(out.Thrown, sig.Thrown)
	return out, changed
}

func sameSlice(a, b []types.TypeID) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

type substituter struct {
	env Env
	in  *types.Interner
	m   Mapping
}

func (s *substituter) list(ts []types.TypeID) []types.TypeID {
	var out []types.TypeID
	for i, t := range ts {
		r := s.typ(t)
		if r != t && out == nil {
			out = slices.Clone(ts)
		}
		if out != nil {
			out[i] = r
		}
	}
	if out == nil {
		return ts
	}
	return out
}

func (s *substituter) reannotate(orig, result types.TypeID) types.TypeID {
	if result == orig || !s.in.IsAnnotated(orig) || s.in.IsAnnotated(result) {
		return result
	}
	return s.in.Annotate(result, s.in.TypeAnnotations(orig))
}

func (s *substituter) typ(t types.TypeID) types.TypeID {
	proto := s.in.Prototype(t)
	var r types.TypeID
	switch s.in.KindOf(proto) {
	case types.KindTypeVar:
		r = proto
		if v, ok := s.m.Lookup(proto); ok {
			r = v
		}
	case types.KindClass:
		r = s.generic(proto)
	case types.KindParameterized:
		r = s.parameterized(proto)
	case types.KindRaw:
		r = s.raw(proto)
	case types.KindArray:
		info, _ := s.in.ArrayInfo(proto)
		leaf := s.typ(info.Leaf)
		r = proto
		if leaf != info.Leaf {
			r = s.in.Array(leaf, info.Dims)
		}
	case types.KindWildcard:
		r = s.wildcard(proto)
	case types.KindIntersection:
		r = s.intersection(proto)
	default:
		// base, missing, capture and problem types carry no variables
		return t
	}
	if r == proto {
		return t
	}
	return s.reannotate(t, r)
}

// memberOfRaw reports a non-static member type whose enclosing type became
// raw; rawness propagates to the member.
func (s *substituter) memberOfRaw(generic, enclosing types.TypeID) bool {
	return enclosing != types.NoTypeID &&
		s.in.IsRaw(enclosing) &&
		!s.in.ClassModifiers(generic).IsStatic()
}

func (s *substituter) enclosing(generic types.TypeID) types.TypeID {
	enc := s.in.Enclosing(generic)
	if enc == types.NoTypeID || s.in.ClassModifiers(generic).IsStatic() || s.in.IsInterface(generic) {
		return types.NoTypeID
	}
	return enc
}

// generic treats a generic declaration as parameterized by its own type
// variables.
func (s *substituter) generic(t types.TypeID) types.TypeID {
	origEnc := s.enclosing(t)
	enc := origEnc
	if origEnc != types.NoTypeID {
		enc = s.typ(origEnc)
		if s.memberOfRaw(t, enc) {
			return s.in.Raw(t, enc)
		}
	}
	tvs := s.in.TypeVars(t)
	args := s.list(tvs)
	if sameSlice(args, tvs) && enc == origEnc {
		return t
	}
	if s.m.IsRaw() && len(tvs) > 0 {
		return s.in.Raw(t, enc)
	}
	if len(tvs) == 0 && s.in.KindOf(enc) != types.KindParameterized {
		return t
	}
	return s.in.Parameterized(t, args, enc)
}

func (s *substituter) parameterized(t types.TypeID) types.TypeID {
	info, _ := s.in.ParamInfo(t)
	enc := info.Enclosing
	if enc != types.NoTypeID {
		enc = s.typ(enc)
		if enc != info.Enclosing && s.memberOfRaw(info.Generic, enc) {
			return s.in.Raw(info.Generic, enc)
		}
	}
	if s.m.IsRaw() {
		return s.in.Raw(info.Generic, enc)
	}
	args := s.list(info.Args)
	if sameSlice(args, info.Args) && enc == info.Enclosing {
		return t
	}
	return s.in.Parameterized(info.Generic, args, enc)
}

func (s *substituter) raw(t types.TypeID) types.TypeID {
	info, _ := s.in.ParamInfo(t)
	if info.Enclosing == types.NoTypeID {
		return t
	}
	enc := s.typ(info.Enclosing)
	if enc == info.Enclosing {
		return t
	}
	return s.in.Raw(info.Generic, enc)
}

func (s *substituter) wildcard(t types.TypeID) types.TypeID {
	w, _ := s.in.WildcardInfo(t)
	if w.Kind == types.WildUnbound {
		return t
	}
	bound := s.typ(w.Bound)
	others := s.list(w.OtherBounds)
	if bound == w.Bound && sameSlice(others, w.OtherBounds) {
		return t
	}
	if len(others) > 0 {
		all := append([]types.TypeID{bound}, others...)
		if glb := s.env.GLB(all); len(glb) > 0 {
			bound, others = glb[0], glb[1:]
		}
	}
	return s.in.Wildcard(w.Generic, w.Rank, w.Kind, bound, others)
}

func (s *substituter) intersection(t types.TypeID) types.TypeID {
	members := s.in.IntersectionMembers(t)
	out := s.list(members)
	if sameSlice(out, members) {
		return t
	}
	changed := 0
	for i := range members {
		if out[i] != members[i] {
			changed++
		}
	}
	if changed > 1 {
		if glb := s.env.GLB(out); len(glb) > 0 {
			out = glb
		}
	}
	return s.in.Intersection(out)
}
