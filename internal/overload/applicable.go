package overload

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/infer"
	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

// candidate is an applicable method. base is the method before inference.
type candidate struct {
	method    types.MethodID
	base      types.MethodID
	level     Level
	unchecked bool
}

func (r *Resolver) phases() []Level {
	levels := []Level{Compatible}
	if r.features.Autobox {
		levels = append(levels, AutoboxCompatible)
	}
	if r.features.Varargs {
		levels = append(levels, VarargsCompatible)
	}
	return levels
}

// applicable runs the phases and returns the candidates of the first phase
// that has any. When none applies, a type-argument problem found on the way
// is returned instead.
func (r *Resolver) applicable(methods []types.MethodID, inv invocation) ([]candidate, types.MethodID) {
	problem := types.NoMethodID
	for _, level := range r.phases() {
		var found []candidate
		for _, m := range methods {
			c, ok := r.check(m, inv, level)
			if !ok {
				if problem == types.NoMethodID && c.method != types.NoMethodID && !r.in.IsValidMethod(c.method) {
					problem = c.method
				}
				continue
			}
			found = append(found, c)
		}
		if len(found) > 0 {
			return found, types.NoMethodID
		}
	}
	return nil, problem
}

// Applicability reports the level at which m accepts args, with the
// instantiated method.
func (r *Resolver) Applicability(m types.MethodID, args []types.TypeID, site Site) (types.MethodID, Level) {
	inv := invocation{selector: r.in.Method(m).Selector, declaring: r.in.Method(m).Declaring, args: args, site: site}
	for _, level := range r.phases() {
		if c, ok := r.check(m, inv, level); ok {
			return c.method, level
		}
	}
	return types.NoMethodID, NotCompatible
}

func (r *Resolver) check(m types.MethodID, inv invocation, level Level) (candidate, bool) {
	in := r.in
	varargs := level == VarargsCompatible
	info := in.Method(m)
	if !in.IsValidMethod(m) {
		return candidate{}, false
	}
	if varargs {
		if !in.IsVarargs(m) || len(inv.args) < info.Arity-1 {
			return candidate{}, false
		}
	} else if info.Arity != len(inv.args) {
		return candidate{}, false
	}

	cm := r.compatible(m, inv.args, inv.site, varargs)
	if cm == types.NoMethodID || !in.IsValidMethod(cm) {
		return candidate{method: cm}, false
	}
	formals, ok := infer.ExpandFormals(in, in.Method(cm).Params, len(inv.args), varargs)
	if !ok {
		return candidate{}, false
	}
	c := candidate{method: cm, base: m, level: level}
	for i, a := range inv.args {
		conv := r.convert(a, formals[i], level)
		if !conv.OK() {
			return candidate{}, false
		}
		if conv == typesys.ConvUnchecked {
			c.unchecked = true
		}
	}
	return c, true
}

func (r *Resolver) convert(from, to types.TypeID, level Level) typesys.Conversion {
	if level == Compatible || !r.features.Autobox {
		return r.sys.Strict(from, to)
	}
	return r.sys.Loose(from, to)
}

// ComputeCompatibleMethod instantiates m for args at site: generic methods
// go through the inferrer, others come back unchanged. NoMethodID means m
// cannot be instantiated for the call.
func (r *Resolver) ComputeCompatibleMethod(m types.MethodID, args []types.TypeID, site Site) types.MethodID {
	varargs := r.in.IsVarargs(m) && r.in.Method(m).Arity != len(args)
	return r.compatible(m, args, site, varargs)
}

func (r *Resolver) compatible(m types.MethodID, args []types.TypeID, site Site, varargs bool) types.MethodID {
	in := r.in
	info := in.Method(m)
	if len(info.TypeVars) == 0 {
		return m
	}
	if !r.features.Generics {
		return r.erased(m, info)
	}
	return r.inferrer.Infer(m, infer.Call{
		Args:     args,
		TypeArgs: site.TypeArgs,
		Varargs:  varargs,
		Expected: site.Expected,
	})
}

// erased is the view of a generic method when generics are disabled.
func (r *Resolver) erased(m types.MethodID, info types.MethodInfo) types.MethodID {
	sig, _ := subst.Signature(r.sys, subst.Erase(r.in), types.MethodSignature{
		Params: info.Params,
		Return: info.Return,
		Thrown: info.Thrown,
	})
	return r.in.DeriveMethod(m, types.VariantMemberOfRaw, info.Declaring, sig, nil)
}
