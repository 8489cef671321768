package typesys

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Capture applies capture conversion to a parameterized type with wildcard
// arguments. Each call creates fresh captures. Other types are returned
// unchanged.
func (s *System) Capture(t types.TypeID) types.TypeID {
	in := s.in
	if in.KindOf(t) != types.KindParameterized {
		return t
	}
	info, _ := in.ParamInfo(t)
	hasWildcard := false
	for _, a := range info.Args {
		if in.KindOf(a) == types.KindWildcard {
			hasWildcard = true
			break
		}
	}
	if !hasWildcard {
		return t
	}

	s.captures++
	site := s.captures
	args := make([]types.TypeID, len(info.Args))
	for i, a := range info.Args {
		if in.KindOf(a) != types.KindWildcard {
			args[i] = a
			continue
		}
		args[i] = in.Capture(a, site<<8|uint32(i&0xff))
	}
	tvs := in.TypeVars(info.Generic)
	m := subst.NewMap(tvs, args)
	for i, a := range info.Args {
		w, ok := in.WildcardInfo(a)
		if !ok {
			continue
		}
		var declared []types.TypeID
		if i < len(tvs) {
			declared = subst.Types(s, m, in.TypeVarBounds(tvs[i]))
		}
		var upper []types.TypeID
		lower := types.NoTypeID
		switch w.Kind {
		case types.WildExtends:
			upper = s.GLB(append([]types.TypeID{w.Bound}, declared...))
			if upper == nil {
				upper = []types.TypeID{w.Bound}
			}
		case types.WildSuper:
			upper = declared
			lower = w.Bound
		default:
			upper = declared
		}
		in.SetCaptureBounds(args[i], upper, lower)
	}
	return in.Parameterized(info.Generic, args, info.Enclosing)
}
