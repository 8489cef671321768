package overload

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/infer"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// mostSpecific keeps the candidates that are at least as specific as every
// other one. A single survivor wins; several survivors must be
// override-equivalent and are reduced by declaring type or, for unrelated
// abstract methods, merged into one with the intersection of their thrown
// exceptions.
func (r *Resolver) mostSpecific(inv invocation, found []candidate) types.MethodID {
	var maximal []candidate
	for i, c := range found {
		best := true
		for j, o := range found {
			if i != j && !r.moreSpecific(c, o, len(inv.args)) {
				best = false
				break
			}
		}
		if best {
			maximal = append(maximal, c)
		}
	}
	switch len(maximal) {
	case 0:
		return r.problem(inv, types.Ambiguous, found[0].method)
	case 1:
		return maximal[0].method
	}
	return r.pickEquivalent(inv, maximal)
}

// MostSpecific is the public form of the most-specific choice over
// methods already known to be applicable at level.
func (r *Resolver) MostSpecific(methods []types.MethodID, level Level, args []types.TypeID) types.MethodID {
	if len(methods) == 0 {
		return types.NoMethodID
	}
	found := make([]candidate, len(methods))
	for i, m := range methods {
		found[i] = candidate{method: m, base: m, level: level}
	}
	info := r.in.Method(methods[0])
	return r.mostSpecific(invocation{selector: info.Selector, declaring: info.Declaring, args: args}, found)
}

// moreSpecific reports whether c1 is at least as specific as c2 for n
// arguments. A generic c2 has its type variables inferred from c1's
// parameter types first.
func (r *Resolver) moreSpecific(c1, c2 candidate, n int) bool {
	in := r.in
	varargs := c1.level == VarargsCompatible
	p1 := in.Method(c1.method).Params
	target := c2.method
	if base := in.Method(c2.base); len(base.TypeVars) > 0 && r.features.Generics {
		k := n
		if varargs {
			k = max(n, len(p1))
		}
		args, ok := infer.ExpandFormals(in, p1, k, varargs)
		if !ok {
			return false
		}
		target = r.inferrer.Infer(c2.base, infer.Call{Args: args, Varargs: varargs})
		if target == types.NoMethodID || !in.IsValidMethod(target) {
			return false
		}
	}
	p2 := in.Method(target).Params

	k := n
	if varargs {
		k = max(n, len(p1), len(p2))
	}
	f1, ok1 := infer.ExpandFormals(in, p1, k, varargs)
	f2, ok2 := infer.ExpandFormals(in, p2, k, varargs)
	if !ok1 || !ok2 {
		return false
	}
	for i := range f1 {
		if !r.sys.IsSubtype(f1[i], f2[i]) {
			return false
		}
	}
	return true
}

func (r *Resolver) pickEquivalent(inv invocation, maximal []candidate) types.MethodID {
	in := r.in
	first := in.Method(maximal[0].method)
	for _, c := range maximal[1:] {
		if !r.sameErasedParams(first.Params, in.Method(c.method).Params) {
			return r.problem(inv, types.Ambiguous, maximal[0].method)
		}
	}

	var concrete []candidate
	for _, c := range maximal {
		if !in.Method(c.method).Modifiers.IsAbstract() {
			concrete = append(concrete, c)
		}
	}
	switch {
	case len(concrete) == 1:
		return concrete[0].method
	case len(concrete) > 1:
		if c, ok := r.mostDerived(concrete); ok {
			return c.method
		}
		return r.problem(inv, types.Ambiguous, concrete[0].method)
	}
	if c, ok := r.mostDerived(maximal); ok {
		return c.method
	}
	return r.mergeAbstract(inv, maximal)
}

func (r *Resolver) sameErasedParams(a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if r.in.Erasure(a[i]) != r.in.Erasure(b[i]) {
			return false
		}
	}
	return true
}

// mostDerived finds the candidate whose declaring type is a subtype of all
// other declaring types.
func (r *Resolver) mostDerived(cs []candidate) (candidate, bool) {
	for _, c := range cs {
		d := r.in.Erasure(r.in.Method(c.method).Declaring)
		ok := true
		for _, o := range cs {
			od := r.in.Erasure(r.in.Method(o.method).Declaring)
			if od != d && !r.sys.IsSubtype(d, od) {
				ok = false
				break
			}
		}
		if ok {
			return c, true
		}
	}
	return candidate{}, false
}

// mergeAbstract handles abstract methods inherited from unrelated
// interfaces: the one with the most specific return type is chosen and its
// thrown list becomes the intersection of all thrown lists.
func (r *Resolver) mergeAbstract(inv invocation, cs []candidate) types.MethodID {
	in := r.in
	chosen := -1
	for i, c := range cs {
		ret := in.Method(c.method).Return
		ok := true
		for _, o := range cs {
			oret := in.Method(o.method).Return
			if !r.sys.Same(ret, oret) && !r.sys.IsSubtype(ret, oret) {
				ok = false
				break
			}
		}
		if ok {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		return r.problem(inv, types.Ambiguous, cs[0].method)
	}

	var thrown []types.TypeID
	for _, c := range cs {
		for _, e := range in.Method(c.method).Thrown {
			if r.thrownByAll(e, cs) && !containsSame(r, thrown, e) {
				thrown = append(thrown, e)
			}
		}
	}
	info := in.Method(cs[chosen].method)
	if len(thrown) == len(info.Thrown) && r.sameList(thrown, info.Thrown) {
		return cs[chosen].method
	}
	return in.DeriveMethod(cs[chosen].method, types.VariantMostSpecificException, info.Declaring, types.MethodSignature{
		TypeVars: info.TypeVars,
		Params:   info.Params,
		Return:   info.Return,
		Thrown:   thrown,
	}, info.TypeArgs)
}

func (r *Resolver) thrownByAll(e types.TypeID, cs []candidate) bool {
	for _, c := range cs {
		covered := false
		for _, t := range r.in.Method(c.method).Thrown {
			if r.sys.IsSubtype(e, t) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func (r *Resolver) sameList(a, b []types.TypeID) bool {
	for i := range a {
		if !r.sys.Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

func containsSame(r *Resolver, list []types.TypeID, t types.TypeID) bool {
	for _, u := range list {
		if r.sys.Same(u, t) {
			return true
		}
	}
	return false
}
