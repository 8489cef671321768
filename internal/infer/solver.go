package infer

import (
	"slices"

	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

const maxDepth = 16

type varBounds struct {
	eq, lower, upper []types.TypeID
}

func (b *varBounds) empty() bool {
	return len(b.eq) == 0 && len(b.lower) == 0 && len(b.upper) == 0
}

func addBound(list *[]types.TypeID, t types.TypeID) {
	if t != types.NoTypeID && !slices.Contains(*list, t) {
		*list = append(*list, t)
	}
}

type solver struct {
	e    *Engine
	in   *types.Interner
	vars []types.TypeID
	idx  map[types.TypeID]int
	b    []varBounds
}

func newSolver(e *Engine, vars []types.TypeID) *solver {
	s := &solver{e: e, in: e.in, vars: vars, idx: make(map[types.TypeID]int, len(vars)), b: make([]varBounds, len(vars))}
	for i, v := range vars {
		s.idx[v] = i
	}
	return s
}

func (s *solver) varIndex(t types.TypeID) (int, bool) {
	i, ok := s.idx[s.in.Prototype(t)]
	return i, ok
}

func (s *solver) mentions(t types.TypeID) bool {
	for _, v := range s.vars {
		if mentionsVar(s.in, t, v, 0) {
			return true
		}
	}
	return false
}

func mentionsVar(in *types.Interner, t, v types.TypeID, depth int) bool {
	if t == types.NoTypeID || depth > maxDepth {
		return false
	}
	t = in.Prototype(t)
	if t == v {
		return true
	}
	switch in.KindOf(t) {
	case types.KindArray:
		return mentionsVar(in, in.LeafComponent(t), v, depth+1)
	case types.KindParameterized:
		for _, a := range in.TypeArgs(t) {
			if mentionsVar(in, a, v, depth+1) {
				return true
			}
		}
		enc := in.EnclosingType(t)
		return in.KindOf(enc) == types.KindParameterized && mentionsVar(in, enc, v, depth+1)
	case types.KindWildcard:
		w, _ := in.WildcardInfo(t)
		return mentionsVar(in, w.Bound, v, depth+1)
	case types.KindIntersection:
		for _, m := range in.IntersectionMembers(t) {
			if mentionsVar(in, m, v, depth+1) {
				return true
			}
		}
	}
	return false
}

// sub reduces a << f: the argument type a must convert to formal f.
func (s *solver) sub(a, f types.TypeID, depth int) {
	in := s.in
	if a == types.NoTypeID || depth > maxDepth || !s.mentions(f) {
		return
	}
	if a == in.Builtins().Null {
		return
	}
	if in.IsPrimitive(a) {
		if a = s.e.sys.BoxOf(a); a == types.NoTypeID {
			return
		}
	}
	if i, ok := s.varIndex(f); ok {
		addBound(&s.b[i].lower, a)
		return
	}
	switch in.KindOf(f) {
	case types.KindArray:
		if in.KindOf(a) == types.KindArray {
			if el := in.ElementType(a); in.IsReference(el) {
				s.sub(el, in.ElementType(f), depth+1)
			}
		}
	case types.KindParameterized:
		p := s.e.sys.AsSuper(a, f)
		if in.KindOf(p) != types.KindParameterized {
			return
		}
		s.args(in.TypeArgs(p), in.TypeArgs(f), depth)
	}
}

// args matches actual type arguments against formal ones that mention the
// inference variables.
func (s *solver) args(actual, formal []types.TypeID, depth int) {
	in := s.in
	for i := 0; i < len(actual) && i < len(formal); i++ {
		fa, pa := formal[i], actual[i]
		fw, fIsWild := in.WildcardInfo(fa)
		pw, pIsWild := in.WildcardInfo(pa)
		switch {
		case !fIsWild:
			if !pIsWild {
				s.same(pa, fa, depth+1)
			}
		case fw.Kind == types.WildExtends:
			switch {
			case !pIsWild:
				s.sub(pa, fw.Bound, depth+1)
			case pw.Kind == types.WildExtends:
				s.sub(pw.Bound, fw.Bound, depth+1)
			}
		case fw.Kind == types.WildSuper:
			switch {
			case !pIsWild:
				s.super(pa, fw.Bound, depth+1)
			case pw.Kind == types.WildSuper:
				s.super(pw.Bound, fw.Bound, depth+1)
			}
		}
	}
}

// super reduces a >> f: formal f must convert to a.
func (s *solver) super(a, f types.TypeID, depth int) {
	in := s.in
	if a == types.NoTypeID || depth > maxDepth || !s.mentions(f) {
		return
	}
	if i, ok := s.varIndex(f); ok {
		addBound(&s.b[i].upper, a)
		return
	}
	switch in.KindOf(f) {
	case types.KindArray:
		if in.KindOf(a) == types.KindArray {
			s.super(in.ElementType(a), in.ElementType(f), depth+1)
		}
	case types.KindParameterized:
		if in.KindOf(a) != types.KindParameterized {
			return
		}
		p := s.e.sys.AsSuper(f, a)
		if in.KindOf(p) != types.KindParameterized {
			return
		}
		formal, actual := in.TypeArgs(p), in.TypeArgs(a)
		for i := 0; i < len(formal) && i < len(actual); i++ {
			aw, aIsWild := in.WildcardInfo(actual[i])
			if _, fIsWild := in.WildcardInfo(formal[i]); fIsWild {
				continue
			}
			switch {
			case !aIsWild:
				s.same(actual[i], formal[i], depth+1)
			case aw.Kind == types.WildExtends:
				s.super(aw.Bound, formal[i], depth+1)
			case aw.Kind == types.WildSuper:
				s.sub(aw.Bound, formal[i], depth+1)
			}
		}
	}
}

// same reduces a = f.
func (s *solver) same(a, f types.TypeID, depth int) {
	in := s.in
	if a == types.NoTypeID || depth > maxDepth || !s.mentions(f) {
		return
	}
	if i, ok := s.varIndex(f); ok {
		if in.KindOf(a) != types.KindWildcard {
			addBound(&s.b[i].eq, a)
		}
		return
	}
	switch in.KindOf(f) {
	case types.KindArray:
		if in.KindOf(a) == types.KindArray {
			s.same(in.ElementType(a), in.ElementType(f), depth+1)
		}
	case types.KindParameterized:
		if in.KindOf(a) != types.KindParameterized || in.GenericOf(a) != in.GenericOf(f) {
			return
		}
		fa, aa := in.TypeArgs(f), in.TypeArgs(a)
		for i := 0; i < len(fa) && i < len(aa); i++ {
			fw, fIsWild := in.WildcardInfo(fa[i])
			aw, aIsWild := in.WildcardInfo(aa[i])
			switch {
			case !fIsWild && !aIsWild:
				s.same(aa[i], fa[i], depth+1)
			case fIsWild && aIsWild && fw.Kind == aw.Kind && fw.Kind != types.WildUnbound:
				s.same(aw.Bound, fw.Bound, depth+1)
			}
		}
	}
}

// solve picks one type per variable in declaration order: an equality
// bound, else the lub of the lower bounds, else the glb of the upper
// bounds, else the declared bound.
func (s *solver) solve() ([]types.TypeID, bool) {
	in := s.in
	sys := s.e.sys
	out := make([]types.TypeID, len(s.vars))
	for i, b := range s.b {
		switch {
		case len(b.eq) > 0:
			for _, t := range b.eq[1:] {
				if !sys.Same(t, b.eq[0]) {
					return nil, false
				}
			}
			out[i] = b.eq[0]
		case len(b.lower) > 0:
			out[i] = sys.LUB(b.lower)
		case len(b.upper) > 0:
			out[i] = sys.GLBType(b.upper)
		}
		if out[i] == types.NoTypeID {
			continue
		}
		for _, u := range b.upper {
			if !sys.Strict(out[i], u).OK() {
				return nil, false
			}
		}
	}
	// unconstrained variables take their declared bound
	for i, v := range s.vars {
		if out[i] != types.NoTypeID {
			continue
		}
		var resolved []types.TypeID
		var vars []types.TypeID
		for j := range s.vars {
			if out[j] != types.NoTypeID {
				vars = append(vars, s.vars[j])
				resolved = append(resolved, out[j])
			}
		}
		m := subst.NewMap(vars, resolved)
		var bounds []types.TypeID
		for _, b := range in.TypeVarBounds(v) {
			b = subst.Type(sys, m, b)
			if s.mentions(b) {
				b = sys.RawOf(b)
			}
			bounds = append(bounds, b)
		}
		out[i] = sys.GLBType(bounds)
		if out[i] == types.NoTypeID {
			out[i] = in.Object()
		}
	}
	return out, true
}
