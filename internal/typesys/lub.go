package typesys

import (
	"slices"
	"strconv"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// GLB implements subst.Env. It flattens intersections, drops members that
// are supertypes of other members and orders the class member first. Two
// unrelated classes make the set unsatisfiable and yield nil.
func (s *System) GLB(ts []types.TypeID) []types.TypeID {
	var flat []types.TypeID
	for _, t := range ts {
		if t == types.NoTypeID {
			continue
		}
		if s.in.KindOf(t) == types.KindIntersection {
			flat = append(flat, s.in.IntersectionMembers(t)...)
			continue
		}
		flat = append(flat, t)
	}
	var out []types.TypeID
	for i, t := range flat {
		redundant := false
		for j, u := range flat {
			if i == j {
				continue
			}
			if s.Same(t, u) {
				if j < i {
					redundant = true
					break
				}
				continue
			}
			if s.IsSubtype(u, t) {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	class := -1
	for i, t := range out {
		if !s.isClassBound(t) {
			continue
		}
		if class >= 0 {
			return nil
		}
		class = i
	}
	if class > 0 {
		c := out[class]
		out = append(out[:class], out[class+1:]...)
		out = append([]types.TypeID{c}, out...)
	}
	return out
}

// GLBType returns the greatest lower bound of ts as a single type, or
// NoTypeID when unsatisfiable.
func (s *System) GLBType(ts []types.TypeID) types.TypeID {
	return s.in.Intersection(s.GLB(ts))
}

// LUB returns the least upper bound of ts. Null types are ignored and
// primitives are boxed. A recursive lub of the same set is cut off and
// surfaces as an unbounded wildcard argument.
func (s *System) LUB(ts []types.TypeID) types.TypeID {
	span := trace.Begin(s.tracer, trace.ScopeBinding, "typesys.lub", 0)
	r := s.lub(ts)
	if s.tracer.Enabled() {
		span.End(s.in.String(r))
	}
	return r
}

func (s *System) lub(ts []types.TypeID) types.TypeID {
	in := s.in
	null := in.Builtins().Null
	var set []types.TypeID
	for _, t := range ts {
		if t == types.NoTypeID || t == null {
			continue
		}
		if in.IsPrimitive(t) {
			if b := s.BoxOf(t); b != types.NoTypeID {
				t = b
			}
		}
		if !slices.ContainsFunc(set, func(u types.TypeID) bool { return s.Same(t, u) }) {
			set = append(set, t)
		}
	}
	switch len(set) {
	case 0:
		return null
	case 1:
		return set[0]
	}
	for _, t := range set {
		ok := true
		for _, u := range set {
			if !s.IsSubtype(u, t) {
				ok = false
				break
			}
		}
		if ok {
			return t
		}
	}

	key := lubKey(set)
	if slices.Contains(s.lubStack, key) {
		return types.NoTypeID
	}
	s.lubStack = append(s.lubStack, key)
	defer func() { s.lubStack = s.lubStack[:len(s.lubStack)-1] }()

	if r, ok := s.arrayLUB(set); ok {
		return r
	}

	mec := s.minimalErasedCandidates(set)
	var candidates []types.TypeID
	for _, g := range mec {
		if !in.IsGeneric(g) {
			candidates = append(candidates, g)
			continue
		}
		var params []types.TypeID
		for _, t := range set {
			if p := s.AsSuper(t, g); p != types.NoTypeID {
				params = append(params, p)
			}
		}
		candidates = append(candidates, s.lci(g, params))
	}
	s.sortCandidates(candidates)
	if len(candidates) > 1 && !s.isClassBound(candidates[0]) {
		candidates = append([]types.TypeID{s.object()}, candidates...)
	}
	if len(candidates) == 0 {
		return s.object()
	}
	return in.Intersection(candidates)
}

// arrayLUB handles sets made only of arrays: reference element types
// recurse, mixed primitive arrays fall back to the array supertypes.
func (s *System) arrayLUB(set []types.TypeID) (types.TypeID, bool) {
	in := s.in
	elems := make([]types.TypeID, 0, len(set))
	for _, t := range set {
		if in.KindOf(t) != types.KindArray {
			return types.NoTypeID, false
		}
		elems = append(elems, in.ElementType(t))
	}
	for _, e := range elems {
		if in.IsPrimitive(e) {
			supers := append([]types.TypeID{s.object()}, s.env.ArraySupertypes()...)
			return in.Intersection(supers), true
		}
	}
	el := s.lub(elems)
	if el == types.NoTypeID {
		el = s.object()
	}
	return in.Array(el, 1), true
}

// erasedSupertypes lists the erased supertypes of t, t's erasure first.
func (s *System) erasedSupertypes(t types.TypeID) []types.TypeID {
	var out []types.TypeID
	seen := map[types.TypeID]bool{}
	queue := []types.TypeID{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		e := s.in.Erasure(cur)
		if s.in.KindOf(cur) == types.KindIntersection || s.in.KindOf(cur) == types.KindTypeVar || s.in.KindOf(cur) == types.KindCapture {
			queue = append(queue, s.upperBounds(cur)...)
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		queue = append(queue, s.DirectSupertypes(cur)...)
	}
	return out
}

func (s *System) minimalErasedCandidates(set []types.TypeID) []types.TypeID {
	ec := s.erasedSupertypes(set[0])
	for _, t := range set[1:] {
		est := s.erasedSupertypes(t)
		ec = slices.DeleteFunc(ec, func(e types.TypeID) bool { return !slices.Contains(est, e) })
	}
	var mec []types.TypeID
	for _, v := range ec {
		minimal := true
		for _, w := range ec {
			if w != v && s.IsSubtype(w, v) {
				minimal = false
				break
			}
		}
		if minimal {
			mec = append(mec, v)
		}
	}
	return mec
}

// lci is the least containing invocation of parameterizations of g.
func (s *System) lci(g types.TypeID, params []types.TypeID) types.TypeID {
	in := s.in
	for _, p := range params {
		if in.KindOf(p) != types.KindParameterized {
			return in.Raw(g, types.NoTypeID)
		}
	}
	if len(params) == 0 {
		return in.Raw(g, types.NoTypeID)
	}
	args := slices.Clone(in.TypeArgs(params[0]))
	for _, p := range params[1:] {
		next := in.TypeArgs(p)
		for i := range args {
			if i < len(next) {
				args[i] = s.lcta(g, i, args[i], next[i])
			}
		}
	}
	return in.Parameterized(g, args, in.EnclosingType(params[0]))
}

// lcta is the least containing type argument of two arguments at rank i.
func (s *System) lcta(g types.TypeID, rank int, a, b types.TypeID) types.TypeID {
	in := s.in
	aw, aIsWild := in.WildcardInfo(a)
	bw, bIsWild := in.WildcardInfo(b)
	if !aIsWild && bIsWild {
		a, b = b, a
		aw, bw = bw, aw
		aIsWild, bIsWild = bIsWild, aIsWild
	}
	extends := func(ts ...types.TypeID) types.TypeID {
		bound := s.lub(ts)
		if bound == types.NoTypeID || bound == s.object() {
			return in.Wildcard(g, rank, types.WildUnbound, types.NoTypeID, nil)
		}
		return in.Wildcard(g, rank, types.WildExtends, bound, nil)
	}
	super := func(ts ...types.TypeID) types.TypeID {
		bound := s.GLBType(ts)
		if bound == types.NoTypeID {
			return in.Wildcard(g, rank, types.WildUnbound, types.NoTypeID, nil)
		}
		return in.Wildcard(g, rank, types.WildSuper, bound, nil)
	}
	switch {
	case !aIsWild:
		if s.Same(a, b) {
			return a
		}
		return extends(a, b)
	case !bIsWild:
		switch aw.Kind {
		case types.WildExtends:
			return extends(b, aw.Bound)
		case types.WildSuper:
			return super(b, aw.Bound)
		}
	case aw.Kind == types.WildExtends && bw.Kind == types.WildExtends:
		return extends(aw.Bound, bw.Bound)
	case aw.Kind == types.WildSuper && bw.Kind == types.WildSuper:
		return super(aw.Bound, bw.Bound)
	case aw.Kind != types.WildUnbound && bw.Kind != types.WildUnbound && s.Same(aw.Bound, bw.Bound):
		return aw.Bound
	}
	return in.Wildcard(g, rank, types.WildUnbound, types.NoTypeID, nil)
}

// sortCandidates orders classes first, then by qualified name so that lub
// does not depend on argument order.
func (s *System) sortCandidates(cs []types.TypeID) {
	slices.SortStableFunc(cs, func(a, b types.TypeID) int {
		ca, cb := s.isClassBound(a), s.isClassBound(b)
		if ca != cb {
			if ca {
				return -1
			}
			return 1
		}
		if c := strings.Compare(s.in.String(a), s.in.String(b)); c != 0 {
			return c
		}
		return int(a) - int(b)
	})
}

func lubKey(set []types.TypeID) string {
	ids := slices.Clone(set)
	slices.Sort(ids)
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}

var _ subst.Env = (*System)(nil)
