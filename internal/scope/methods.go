package scope

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/overload"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// ResolveMethod resolves selector invoked on receiver with argument types
// args. Candidates are the methods of the receiver's classes, then of its
// interfaces, viewed through the receiver; overridden signatures are
// dropped before overload selection.
func (t *Table) ResolveMethod(s ScopeID, receiver types.TypeID, selector string, args []types.TypeID, site Site) types.MethodID {
	t.rec.Lookup("method")
	span := trace.Begin(t.tracer, trace.ScopeBinding, "scope.resolve_method", 0).WithExtra("selector", selector)
	a := t.accessAt(s)
	var m types.MethodID
	if !t.canSeeType(a, receiver) {
		t.problem(types.ReceiverTypeNotVisible)
		m = t.in.NewProblemMethod(selector, receiver, args, types.ReceiverTypeNotVisible, types.NoMethodID)
	} else {
		m = t.ov.Select(selector, receiver, t.collectMethods(receiver, selector), args, t.overloadSite(a, receiver, site))
	}
	if t.tracer.Enabled() {
		span.End(t.in.MethodReason(m).String())
	}
	return m
}

// ResolveImplicitMethod resolves an unqualified invocation. The innermost
// enclosing class that has a method named selector decides; instance
// methods found from a static context or a constructor-call prologue are
// problems. Static imports are consulted last.
func (t *Table) ResolveImplicitMethod(s ScopeID, selector string, args []types.TypeID, site Site) types.MethodID {
	t.rec.Lookup("method")
	span := trace.Begin(t.tracer, trace.ScopeBinding, "scope.resolve_implicit_method", 0).WithExtra("selector", selector)
	m := t.resolveImplicit(s, selector, args, site)
	if t.tracer.Enabled() {
		span.End(t.in.MethodReason(m).String())
	}
	return m
}

func (t *Table) resolveImplicit(s ScopeID, selector string, args []types.TypeID, site Site) types.MethodID {
	in := t.in
	a := t.accessAt(s)
	var static, ctorCall bool
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		switch sc.Kind {
		case ScopeBlock, ScopeMethod:
			if sc.CtorCall {
				ctorCall = true
			}
			if sc.Static {
				static = true
			}
		case ScopeClass:
			cands := t.collectMethods(sc.Class, selector)
			if len(cands) > 0 {
				m := t.ov.Select(selector, sc.Class, cands, args, t.overloadSite(a, types.NoTypeID, site))
				if !in.IsValidMethod(m) || in.Method(m).Modifiers.IsStatic() {
					return m
				}
				switch {
				case static:
					t.problem(types.NonStaticReferenceInStaticContext)
					return in.NewProblemMethod(selector, sc.Class, args, types.NonStaticReferenceInStaticContext, m)
				case ctorCall:
					t.problem(types.NonStaticReferenceInConstructorInvocation)
					return in.NewProblemMethod(selector, sc.Class, args, types.NonStaticReferenceInConstructorInvocation, m)
				}
				return m
			}
			if sc.Static {
				static = true
			}
			ctorCall = false
		case ScopeUnit:
			if cands := t.staticImportMethods(sc, selector); len(cands) > 0 {
				return t.ov.Select(selector, in.MethodRaw(cands[0]).Declaring, cands, args, t.overloadSite(a, types.NoTypeID, site))
			}
		}
	}
	t.problem(types.NotFound)
	return in.NewProblemMethod(selector, t.EnclosingClass(s), args, types.NotFound, types.NoMethodID)
}

// ResolveConstructor resolves "new typ(args)" for a class, raw or
// parameterized type.
func (t *Table) ResolveConstructor(s ScopeID, typ types.TypeID, args []types.TypeID, site Site) types.MethodID {
	t.rec.Lookup("constructor")
	in := t.in
	class := in.GenericOf(typ)
	ctors := in.Constructors(class)
	cands := make([]types.MethodID, len(ctors))
	for i, c := range ctors {
		cands[i] = t.sys.MethodIn(typ, c)
	}
	return t.ov.Select(types.ConstructorName, typ, cands, args, t.overloadSite(t.accessAt(s), types.NoTypeID, site))
}

// ResolveDiamond resolves "new C<>(args)": the constructors of generic
// compete as synthesized static factories and the winner's inferred
// arguments parameterize the allocated type.
func (t *Table) ResolveDiamond(s ScopeID, generic types.TypeID, args []types.TypeID, site Site) (types.TypeID, types.MethodID) {
	t.rec.Lookup("constructor")
	if !t.opts.Features.Diamond || !t.in.IsGeneric(generic) {
		raw := t.in.GenericOf(generic)
		if t.in.IsGeneric(raw) {
			raw = t.in.Raw(raw, types.NoTypeID)
		}
		return raw, t.ResolveConstructor(s, raw, args, site)
	}
	return t.ov.ResolveDiamond(generic, args, t.overloadSite(t.accessAt(s), types.NoTypeID, site))
}

// ResolveField resolves receiver.name.
func (t *Table) ResolveField(s ScopeID, receiver types.TypeID, name string, site Site) types.FieldID {
	t.rec.Lookup("field")
	in := t.in
	if in.KindOf(receiver) == types.KindArray && name == "length" {
		return t.env.ArrayLength()
	}
	a := t.accessAt(s)
	if !t.canSeeType(a, receiver) {
		t.problem(types.ReceiverTypeNotVisible)
		return in.NewProblemField(name, receiver, types.ReceiverTypeNotVisible, types.NoFieldID)
	}
	f, reason, closest := t.lookupField(receiver, name, a, receiver)
	if reason != types.NoProblem {
		t.problem(reason)
		return in.NewProblemField(name, receiver, reason, closest)
	}
	return t.sys.FieldIn(receiver, f)
}

func (t *Table) overloadSite(a access, receiver types.TypeID, site Site) overload.Site {
	return overload.Site{
		TypeArgs:    site.TypeArgs,
		Expected:    site.Expected,
		CanSee:      func(m types.MethodID) bool { return t.canSeeMethod(a, t.in.OriginalMethod(m), receiver) },
		TypeVisible: func(typ types.TypeID) bool { return t.canSeeType(a, typ) },
	}
}

// collectMethods lists the methods named selector that a value of type
// receiver has, as views through receiver. Classes come before interfaces;
// a method whose erased signature is already present from a subtype is
// overridden and left out.
func (t *Table) collectMethods(receiver types.TypeID, selector string) []types.MethodID {
	in := t.in
	if in.KindOf(receiver) == types.KindArray && selector == "clone" {
		return []types.MethodID{t.env.ArrayClone(receiver)}
	}
	var classes, interfaces []types.TypeID
	seen := make(map[types.TypeID]bool)
	var walk func(c types.TypeID)
	walk = func(c types.TypeID) {
		c = in.GenericOf(c)
		if c == types.NoTypeID || seen[c] || !in.IsClassLike(c) {
			return
		}
		seen[c] = true
		if in.IsInterface(c) {
			interfaces = append(interfaces, c)
		} else {
			classes = append(classes, c)
		}
		if selector == types.ConstructorName {
			return
		}
		walk(in.Superclass(c))
		for _, it := range in.Interfaces(c) {
			walk(it)
		}
	}
	for _, root := range t.searchRoots(receiver) {
		walk(root)
	}
	if len(classes) == 0 && selector != types.ConstructorName {
		walk(in.Object())
	}

	var out []types.MethodID
	for _, c := range append(classes, interfaces...) {
		for _, m := range in.MethodsNamed(c, selector) {
			view := t.sys.MethodIn(receiver, m)
			if t.overridden(view, out) {
				continue
			}
			out = append(out, view)
		}
	}
	return out
}

// overridden reports whether an already collected method from a subtype
// has the same erased parameters as m.
func (t *Table) overridden(m types.MethodID, collected []types.MethodID) bool {
	in := t.in
	info := in.Method(m)
	for _, o := range collected {
		oi := in.Method(o)
		if len(oi.Params) != len(info.Params) {
			continue
		}
		same := true
		for i := range oi.Params {
			if !in.ErasedEqual(oi.Params[i], info.Params[i]) {
				same = false
				break
			}
		}
		if same && t.isSubclass(t.declaringOf(o), t.declaringOf(m)) {
			return true
		}
	}
	return false
}

func (t *Table) declaringOf(m types.MethodID) types.TypeID {
	return t.in.MethodRaw(t.in.OriginalMethod(m)).Declaring
}

// staticImportMethods lists the static methods named selector imported by
// a unit.
func (t *Table) staticImportMethods(sc *Scope, selector string) []types.MethodID {
	var out []types.MethodID
	for _, imp := range sc.Unit.Imports {
		if !imp.Static || (!imp.OnDemand && imp.Simple() != selector) {
			continue
		}
		owner := imp.Name
		if !imp.OnDemand {
			owner = imp.Qualifier()
		}
		typ := t.canonical(strings.Split(owner, "."))
		if typ == types.NoTypeID {
			continue
		}
		for _, m := range t.collectMethods(typ, selector) {
			if t.in.Method(m).Modifiers.IsStatic() {
				out = append(out, m)
			}
		}
	}
	return out
}
