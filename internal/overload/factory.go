package overload

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/infer"
	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// StaticFactory returns the synthetic static method standing in for ctor
// during diamond inference. Its type variables are fresh copies of the
// class variables followed by the constructor's own; it takes the
// constructor's parameters and returns the class parameterized by the
// fresh variables.
func (r *Resolver) StaticFactory(ctor types.MethodID) types.MethodID {
	if f, ok := r.factories[ctor]; ok {
		return f
	}
	in := r.in
	info := in.Method(ctor)
	class := in.GenericOf(info.Declaring)
	classVars := in.TypeVars(class)

	fresh := make([]types.TypeID, len(classVars))
	for i, tv := range classVars {
		tvInfo, _ := in.TypeVarInfo(tv)
		fresh[i] = in.NewTypeVar(tvInfo.Name, i, types.NoTypeID)
	}
	m := subst.NewMap(classVars, fresh)
	for i, tv := range classVars {
		bounds := subst.Types(r.sys, m, in.TypeVarBounds(tv))
		if in.BeginTypeVar(fresh[i]) {
			in.SetTypeVarBounds(fresh[i], bounds)
			in.EndTypeVar(fresh[i], types.SlotResolved)
		}
	}

	ret := class
	if len(fresh) > 0 {
		ret = in.Parameterized(class, fresh, types.NoTypeID)
	}
	sig, _ := subst.Signature(r.sys, m, types.MethodSignature{Params: info.Params, Thrown: info.Thrown})
	vars := append(append([]types.TypeID(nil), fresh...), info.TypeVars...)
	mods := types.ModStatic | types.ModSynthetic | info.Modifiers&(types.ModVarargs|types.AccessMask)

	f := in.NewResolvedMethod(types.MethodInfo{
		Selector:   in.SimpleName(class),
		Declaring:  class,
		Modifiers:  mods,
		Params:     sig.Params,
		ParamNames: info.ParamNames,
		Return:     ret,
		TypeVars:   vars,
		Thrown:     sig.Thrown,
		Variant:    types.VariantStaticFactory,
		Original:   ctor,
		Decl:       info.Decl,
	})
	for _, v := range fresh {
		in.SetTypeVarMethod(v, f)
	}
	r.factories[ctor] = f
	return f
}

// ResolveDiamond resolves a diamond allocation of generic with args. The
// constructors compete as static factories; the winner's inferred class
// arguments give the allocated type, and the constructor is returned as a
// member of that type.
func (r *Resolver) ResolveDiamond(generic types.TypeID, args []types.TypeID, site Site) (types.TypeID, types.MethodID) {
	in := r.in
	class := in.GenericOf(generic)
	ctors := in.Constructors(class)
	factories := make([]types.MethodID, len(ctors))
	for i, c := range ctors {
		factories[i] = r.StaticFactory(c)
	}
	inner := site
	if site.CanSee != nil {
		inner.CanSee = func(f types.MethodID) bool { return site.CanSee(in.Method(f).Original) }
	}
	winner := r.Select(types.ConstructorName, class, factories, args, inner)
	if !in.IsValidMethod(winner) {
		info := in.Method(winner)
		closest := info.Closest
		if closest != types.NoMethodID {
			closest = in.OriginalMethod(closest)
		}
		return types.NoTypeID, in.NewProblemMethod(types.ConstructorName, class, args, info.Problem, closest)
	}

	n := len(in.TypeVars(class))
	typeArgs := in.Method(winner).TypeArgs
	alloc := class
	if n > 0 && len(typeArgs) >= n {
		alloc = in.Parameterized(class, typeArgs[:n], types.NoTypeID)
	}
	ctor := r.sys.MethodIn(alloc, in.OriginalMethod(winner))
	if len(typeArgs) > n {
		ctor = r.inferrer.Infer(ctor, infer.Call{TypeArgs: typeArgs[n:]})
	}
	return alloc, ctor
}
