package types

// Erasure returns the erasure of id. Results are memoized per binding.
func (in *Interner) Erasure(id TypeID) TypeID {
	if e, ok := in.erasures[id]; ok {
		return e
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	var e TypeID
	switch tt.Kind {
	case KindBase:
		e = id
	case KindProblem:
		e = id
		if c := in.Closest(id); c != id {
			e = in.Erasure(c)
		}
	case KindClass, KindMissing:
		e = in.Prototype(id)
	case KindParameterized, KindRaw:
		e = in.params[tt.Payload].Generic
	case KindArray:
		info := in.arrays[tt.Payload]
		e = in.Array(in.Erasure(info.Leaf), info.Dims)
	case KindTypeVar:
		// provisional entry breaks bound cycles
		in.erasures[id] = in.object
		e = in.Erasure(in.FirstBound(id))
	case KindWildcard:
		w := in.wildcards[tt.Payload]
		e = in.object
		if w.Kind == WildExtends {
			e = in.Erasure(w.Bound)
		}
	case KindIntersection:
		e = in.Erasure(in.intersections[tt.Payload].Members[0])
	case KindCapture:
		c := in.captures[tt.Payload]
		switch {
		case len(c.Upper) > 0:
			in.erasures[id] = in.object
			e = in.Erasure(c.Upper[0])
		default:
			e = in.Erasure(c.Wildcard)
		}
	default:
		e = id
	}
	if e == NoTypeID {
		e = in.object
	}
	in.erasures[id] = e
	return e
}

// ErasedEqual reports whether a and b have the same erasure.
func (in *Interner) ErasedEqual(a, b TypeID) bool {
	return in.Erasure(a) == in.Erasure(b)
}

// IsReifiable reports whether the type is fully available at run time.
func (in *Interner) IsReifiable(id TypeID) bool {
	switch in.KindOf(id) {
	case KindBase, KindClass, KindMissing, KindRaw:
		return true
	case KindArray:
		return in.IsReifiable(in.LeafComponent(id))
	case KindParameterized:
		for _, a := range in.TypeArgs(id) {
			if !in.IsUnboundWildcard(a) {
				return false
			}
		}
		if enc := in.EnclosingType(id); enc != NoTypeID && in.KindOf(enc) == KindParameterized {
			return in.IsReifiable(enc)
		}
		return true
	}
	return false
}

// NeedsUncheckedConversion reports whether passing from (raw or generic) to
// the parameterized target requires an unchecked conversion.
func (in *Interner) NeedsUncheckedConversion(from, to TypeID) bool {
	if in.KindOf(to) != KindParameterized {
		return false
	}
	switch in.KindOf(from) {
	case KindRaw:
		return true
	case KindClass:
		return in.IsGeneric(from)
	}
	return false
}
