package scope

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Mask selects the binding categories a name lookup may answer with.
type Mask uint8

const (
	MaskVariable Mask = 1 << iota
	MaskType
	MaskPackage
)

// BindingKind classifies a name lookup result.
type BindingKind uint8

const (
	BindNone BindingKind = iota
	BindLocal
	BindField
	BindType
	BindPackage
)

func (k BindingKind) String() string {
	switch k {
	case BindLocal:
		return "local"
	case BindField:
		return "field"
	case BindType:
		return "type"
	case BindPackage:
		return "package"
	default:
		return "none"
	}
}

// Binding is the answer to a name lookup. Problem is non-zero for problem
// bindings; Field or Type then hold the problem binding itself.
type Binding struct {
	Kind    BindingKind
	Local   LocalID
	Field   types.FieldID
	Type    types.TypeID
	Package string
	// Depth counts the class boundaries crossed to reach the binding.
	Depth   int
	Problem types.ProblemReason
}

// IsValid reports a non-problem binding.
func (b Binding) IsValid() bool {
	return b.Kind != BindNone && b.Problem == types.NoProblem
}

// Site positions a lookup. Locals declared after Pos are not visible; a
// zero Pos sees every local declared so far.
type Site struct {
	Pos      uint32
	TypeArgs []types.TypeID
	Expected types.TypeID
}

// ResolveName resolves a simple name. Variables win over types and types
// over packages, as far as mask admits them.
func (t *Table) ResolveName(s ScopeID, name string, mask Mask, site Site) Binding {
	t.rec.Lookup("name")
	span := trace.Begin(t.tracer, trace.ScopeBinding, "scope.resolve_name", 0).WithExtra("name", name)
	b := t.resolveName(s, name, mask, site)
	span.End(b.Kind.String())
	return b
}

func (t *Table) resolveName(s ScopeID, name string, mask Mask, site Site) Binding {
	if mask&MaskVariable != 0 {
		if b := t.resolveVariable(s, name, site); b.Kind != BindNone {
			return b
		}
	}
	if mask&(MaskType|MaskPackage) != 0 {
		b := t.ResolveTypeOrPackage(s, name)
		if b.Kind == BindPackage && mask&MaskPackage != 0 || b.Kind == BindType && mask&MaskType != 0 {
			return b
		}
	}
	if mask&MaskVariable != 0 {
		return t.fieldProblem(Binding{}, name, types.NotFound, types.NoFieldID)
	}
	return t.typeProblem(name, types.NotFound, types.NoTypeID)
}

// resolveVariable walks outward over locals and the fields of enclosing
// classes. The innermost class declaring or inheriting a visible field
// decides. Nothing found is a BindNone result.
func (t *Table) resolveVariable(s ScopeID, name string, site Site) Binding {
	in := t.in
	a := t.accessAt(s)
	var (
		depth    int
		static   bool
		ctorCall bool
		hidden   types.FieldID
	)
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		switch sc.Kind {
		case ScopeBlock, ScopeMethod:
			if l := t.findLocal(sc, name, site.Pos); l.IsValid() {
				return Binding{Kind: BindLocal, Local: l, Type: t.Locals.Get(l).Type, Depth: depth}
			}
			if sc.CtorCall {
				ctorCall = true
			}
			if sc.Static {
				static = true
			}
		case ScopeClass:
			f, reason, closest := t.lookupField(sc.Class, name, a, types.NoTypeID)
			switch reason {
			case types.NoProblem:
				b := Binding{Kind: BindField, Field: t.sys.FieldIn(sc.Class, f), Depth: depth}
				b.Type = in.Field(b.Field).Type
				if !in.FieldRaw(f).Modifiers.IsStatic() {
					switch {
					case static:
						return t.fieldProblem(b, name, types.NonStaticReferenceInStaticContext, f)
					case ctorCall:
						return t.fieldProblem(b, name, types.NonStaticReferenceInConstructorInvocation, f)
					}
				}
				if t.opts.Compliance.InheritedHidesEnclosing() && in.FieldRaw(f).Declaring != sc.Class &&
					t.enclosingDeclares(sc.Parent, name, site) {
					return t.fieldProblem(b, name, types.InheritedNameHidesEnclosingName, f)
				}
				return b
			case types.Ambiguous:
				return t.fieldProblem(Binding{Kind: BindField, Depth: depth}, name, types.Ambiguous, closest)
			case types.NotVisible:
				if hidden == types.NoFieldID {
					hidden = closest
				}
			}
			if sc.Static {
				static = true
			}
			ctorCall = false
			depth++
		case ScopeUnit:
			if f := t.staticImportField(sc, name, a); f != types.NoFieldID {
				return Binding{Kind: BindField, Field: f, Type: in.Field(f).Type, Depth: depth}
			}
		}
	}
	if hidden != types.NoFieldID {
		return t.fieldProblem(Binding{Kind: BindField, Depth: depth}, name, types.NotVisible, hidden)
	}
	return Binding{}
}

func (t *Table) fieldProblem(b Binding, name string, reason types.ProblemReason, closest types.FieldID) Binding {
	t.problem(reason)
	declaring := types.NoTypeID
	if closest != types.NoFieldID {
		declaring = t.in.FieldRaw(closest).Declaring
	}
	b.Kind = BindField
	b.Field = t.in.NewProblemField(name, declaring, reason, closest)
	b.Problem = reason
	return b
}

func (t *Table) findLocal(sc *Scope, name string, pos uint32) LocalID {
	for i := len(sc.Locals) - 1; i >= 0; i-- {
		l := t.Locals.Get(sc.Locals[i])
		if l.Name == name && (pos == 0 || l.Span.Start <= pos) {
			return sc.Locals[i]
		}
	}
	return NoLocalID
}

// enclosingDeclares reports whether a scope from s outward declares name
// itself: a local or a field declared (not inherited) by a class.
func (t *Table) enclosingDeclares(s ScopeID, name string, site Site) bool {
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		switch sc.Kind {
		case ScopeBlock, ScopeMethod:
			if t.findLocal(sc, name, site.Pos).IsValid() {
				return true
			}
		case ScopeClass:
			if t.in.FieldNamed(sc.Class, name) != types.NoFieldID {
				return true
			}
		}
	}
	return false
}

// lookupField finds a field named name in class or its supertypes, the
// superclass chain first. A field that is not visible does not hide one
// further up; when only invisible fields exist the result is NotVisible
// with the first of them as closest match. Two visible fields reached
// through different interfaces are Ambiguous.
func (t *Table) lookupField(class types.TypeID, name string, a access, receiver types.TypeID) (types.FieldID, types.ProblemReason, types.FieldID) {
	in := t.in
	seen := make(map[types.TypeID]bool)
	var hidden types.FieldID
	var visit func(c types.TypeID) []types.FieldID
	visit = func(c types.TypeID) []types.FieldID {
		c = in.GenericOf(in.Erasure(c))
		if c == types.NoTypeID || seen[c] || !in.IsClassLike(c) {
			return nil
		}
		seen[c] = true
		if f := in.FieldNamed(c, name); f != types.NoFieldID {
			info := in.FieldRaw(f)
			if t.canSeeMember(a, info.Declaring, info.Modifiers, receiver) {
				return []types.FieldID{f}
			}
			if hidden == types.NoFieldID {
				hidden = f
			}
		}
		if found := visit(in.Superclass(c)); len(found) > 0 {
			return found
		}
		var found []types.FieldID
		for _, it := range in.Interfaces(c) {
			for _, f := range visit(it) {
				if !containsField(found, f) {
					found = append(found, f)
				}
			}
		}
		return found
	}
	var found []types.FieldID
	for _, c := range t.searchRoots(class) {
		for _, f := range visit(c) {
			if !containsField(found, f) {
				found = append(found, f)
			}
		}
		if len(found) > 0 {
			break
		}
	}
	switch {
	case len(found) == 1:
		return found[0], types.NoProblem, types.NoFieldID
	case len(found) > 1:
		return types.NoFieldID, types.Ambiguous, found[0]
	case hidden != types.NoFieldID:
		return types.NoFieldID, types.NotVisible, hidden
	}
	return types.NoFieldID, types.NotFound, types.NoFieldID
}

func containsField(fs []types.FieldID, f types.FieldID) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// searchRoots returns the classes whose members a value of type t has:
// the erasure of a class type, the bounds of a variable, the members of an
// intersection.
func (t *Table) searchRoots(typ types.TypeID) []types.TypeID {
	in := t.in
	switch in.KindOf(typ) {
	case types.KindTypeVar:
		var out []types.TypeID
		for _, b := range in.TypeVarBounds(typ) {
			out = append(out, t.searchRoots(b)...)
		}
		if len(out) == 0 {
			out = append(out, in.Object())
		}
		return out
	case types.KindIntersection:
		var out []types.TypeID
		for _, m := range in.IntersectionMembers(typ) {
			out = append(out, t.searchRoots(m)...)
		}
		return out
	case types.KindCapture:
		info, _ := in.CaptureInfo(typ)
		var out []types.TypeID
		for _, b := range info.Upper {
			out = append(out, t.searchRoots(b)...)
		}
		if len(out) == 0 {
			out = append(out, in.Object())
		}
		return out
	case types.KindArray:
		return []types.TypeID{in.Object()}
	}
	return []types.TypeID{in.GenericOf(in.Erasure(typ))}
}

// staticImportField finds name among the static imports of a unit.
func (t *Table) staticImportField(sc *Scope, name string, a access) types.FieldID {
	for _, imp := range sc.Unit.Imports {
		if !imp.Static {
			continue
		}
		owner := imp.Name
		if !imp.OnDemand {
			if imp.Simple() != name {
				continue
			}
			owner = imp.Qualifier()
		}
		typ := t.canonical(strings.Split(owner, "."))
		if typ == types.NoTypeID {
			continue
		}
		if f, reason, _ := t.lookupField(typ, name, a, types.NoTypeID); reason == types.NoProblem && t.in.FieldRaw(f).Modifiers.IsStatic() {
			return f
		}
	}
	return types.NoFieldID
}

// ResolveTypeOrPackage resolves a simple type or package name. At each
// class level member types beat type variables, except while that class's
// own supertypes are being resolved, when only its type variables and
// declared member types are consulted.
func (t *Table) ResolveTypeOrPackage(s ScopeID, name string) Binding {
	t.rec.Lookup("type")
	in := t.in
	a := t.accessAt(s)
	var hidden types.TypeID
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		switch sc.Kind {
		case ScopeMethod:
			for _, tv := range t.methodVars[sc.Method] {
				if info, _ := in.TypeVarInfo(tv); info.Name == name {
					return Binding{Kind: BindType, Type: tv}
				}
			}
		case ScopeClass:
			c := sc.Class
			boot := in.HierarchyState(c) == types.SlotResolving
			if boot {
				if tv := t.classTypeVar(c, name); tv != types.NoTypeID {
					return Binding{Kind: BindType, Type: tv}
				}
			}
			mt, reason := t.memberType(c, name, a, !boot)
			if reason == types.NoProblem {
				return Binding{Kind: BindType, Type: mt}
			}
			if reason == types.NotVisible && hidden == types.NoTypeID {
				hidden = mt
			}
			if !boot {
				if tv := t.classTypeVar(c, name); tv != types.NoTypeID {
					return Binding{Kind: BindType, Type: tv}
				}
			}
		case ScopeUnit:
			b := t.unitType(sc, name, a)
			if b.Problem == types.NotFound && hidden != types.NoTypeID {
				return t.typeProblem(name, types.NotVisible, hidden)
			}
			return b
		}
	}
	return t.typeProblem(name, types.NotFound, types.NoTypeID)
}

func (t *Table) typeProblem(name string, reason types.ProblemReason, closest types.TypeID) Binding {
	t.problem(reason)
	return Binding{Kind: BindType, Type: t.in.NewProblemType(name, reason, closest), Problem: reason}
}

// classTypeVar finds a declared type variable of a class without
// completing its hierarchy.
func (t *Table) classTypeVar(c types.TypeID, name string) types.TypeID {
	info, _ := t.in.Class(c)
	for _, tv := range info.TypeVars {
		if ti, _ := t.in.TypeVarInfo(tv); ti.Name == name {
			return tv
		}
	}
	return types.NoTypeID
}

// memberType finds a member type declared by c or, when inherited is set,
// by one of its supertypes. A NotVisible result carries the hidden type.
func (t *Table) memberType(c types.TypeID, name string, a access, inherited bool) (types.TypeID, types.ProblemReason) {
	in := t.in
	var hidden types.TypeID
	seen := make(map[types.TypeID]bool)
	var visit func(c types.TypeID, top bool) types.TypeID
	visit = func(c types.TypeID, top bool) types.TypeID {
		c = in.GenericOf(c)
		if c == types.NoTypeID || seen[c] || !in.IsClassLike(c) {
			return types.NoTypeID
		}
		seen[c] = true
		if mt := t.declaredMemberType(c, name); mt != types.NoTypeID {
			if t.canSeeType(a, mt) {
				return mt
			}
			if hidden == types.NoTypeID {
				hidden = mt
			}
		}
		if top && !inherited {
			return types.NoTypeID
		}
		if mt := visit(in.Superclass(c), false); mt != types.NoTypeID {
			return mt
		}
		for _, it := range in.Interfaces(c) {
			if mt := visit(it, false); mt != types.NoTypeID {
				return mt
			}
		}
		return types.NoTypeID
	}
	if mt := visit(c, true); mt != types.NoTypeID {
		return mt, types.NoProblem
	}
	if hidden != types.NoTypeID {
		return hidden, types.NotVisible
	}
	return types.NoTypeID, types.NotFound
}

// declaredMemberType reads member types of source classes from their
// declaration so that type lookups never complete member slots.
func (t *Table) declaredMemberType(c types.TypeID, name string) types.TypeID {
	if cd, ok := t.in.Decl(c).(*classDecl); ok {
		for _, m := range cd.decl.Members {
			if m.Name == name {
				return m.Binding
			}
		}
		return types.NoTypeID
	}
	return t.in.MemberTypeNamed(c, name)
}

// unitType resolves a simple name at unit level: single-type imports, the
// current package, on-demand imports including java.lang, then packages.
func (t *Table) unitType(sc *Scope, name string, a access) Binding {
	u := sc.Unit
	for _, imp := range u.Imports {
		if imp.OnDemand || imp.Simple() != name {
			continue
		}
		parts := strings.Split(imp.Name, ".")
		if imp.Static {
			owner := t.canonical(parts[:len(parts)-1])
			if owner == types.NoTypeID {
				continue
			}
			if mt, reason := t.memberType(owner, name, a, true); reason == types.NoProblem {
				return Binding{Kind: BindType, Type: mt}
			}
			continue
		}
		if typ := t.canonical(parts); typ != types.NoTypeID {
			return Binding{Kind: BindType, Type: typ}
		}
	}
	if typ := t.env.LookupQualified(u.Package, name); typ != types.NoTypeID {
		return Binding{Kind: BindType, Type: typ}
	}

	var found []types.TypeID
	var hidden types.TypeID
	consider := func(typ types.TypeID) {
		if typ == types.NoTypeID {
			return
		}
		if !t.canSeeType(a, typ) {
			if hidden == types.NoTypeID {
				hidden = typ
			}
			return
		}
		for _, f := range found {
			if f == typ {
				return
			}
		}
		found = append(found, typ)
	}
	for _, imp := range u.Imports {
		if !imp.OnDemand {
			continue
		}
		parts := strings.Split(imp.Name, ".")
		if owner := t.canonical(parts); owner != types.NoTypeID {
			if mt, reason := t.memberType(owner, name, a, imp.Static); reason != types.NotFound {
				consider(mt)
			}
			continue
		}
		if !imp.Static {
			consider(t.env.LookupQualified(imp.Name, name))
		}
	}
	consider(t.env.LookupQualified("java.lang", name))
	switch {
	case len(found) == 1:
		return Binding{Kind: BindType, Type: found[0]}
	case len(found) > 1:
		return t.typeProblem(name, types.Ambiguous, found[0])
	}
	if t.env.IsPackage(name) {
		return Binding{Kind: BindPackage, Package: name}
	}
	if hidden != types.NoTypeID {
		return t.typeProblem(name, types.NotVisible, hidden)
	}
	return t.typeProblem(name, types.NotFound, types.NoTypeID)
}

// canonical finds a class by its fully qualified dotted parts, trying the
// longest package prefix first. Imports resolve this way so that they never
// depend on each other.
func (t *Table) canonical(parts []string) types.TypeID {
	for i := len(parts) - 1; i >= 0; i-- {
		pkg := strings.Join(parts[:i], ".")
		if typ := t.env.LookupQualified(pkg, parts[i:]...); typ != types.NoTypeID {
			return typ
		}
	}
	return types.NoTypeID
}

// ResolveQualifiedType resolves a dotted type name. The first segment is
// looked up as a type or package; packages extend until a class is found;
// the remaining segments name member types.
func (t *Table) ResolveQualifiedType(s ScopeID, parts []string) types.TypeID {
	in := t.in
	if len(parts) == 0 {
		return types.NoTypeID
	}
	a := t.accessAt(s)
	full := strings.Join(parts, ".")
	b := t.ResolveTypeOrPackage(s, parts[0])
	var typ types.TypeID
	i := 1
	switch {
	case b.Kind == BindPackage:
		pkg := b.Package
		for ; i < len(parts); i++ {
			if id := t.env.LookupQualified(pkg, parts[i]); id != types.NoTypeID {
				typ = id
				i++
				break
			}
			pkg += "." + parts[i]
		}
		if typ == types.NoTypeID {
			return t.typeProblem(full, types.NotFound, types.NoTypeID).Type
		}
		if !t.canSeeType(a, typ) {
			return t.typeProblem(full, types.NotVisible, typ).Type
		}
	case b.Problem != types.NoProblem:
		if b.Problem == types.NotFound && len(parts) > 1 {
			if typ := t.canonical(parts); typ != types.NoTypeID {
				return typ
			}
		}
		if len(parts) == 1 {
			return b.Type
		}
		return t.typeProblem(full, b.Problem, in.Closest(b.Type)).Type
	default:
		typ = b.Type
	}
	for ; i < len(parts); i++ {
		if in.KindOf(typ) == types.KindTypeVar {
			return t.typeProblem(full, types.NotFound, typ).Type
		}
		mt, reason := t.memberType(typ, parts[i], a, true)
		if reason != types.NoProblem {
			closest := typ
			if reason == types.NotVisible {
				closest = mt
			}
			return t.typeProblem(full, reason, closest).Type
		}
		typ = mt
	}
	return typ
}

// ResolveTypeRef resolves a type as written: primitives, qualified names,
// type arguments with wildcards, and array dimensions. A wrong number of
// type arguments is TypeArgumentArityMismatch with the generic type as
// closest match; a generic type without arguments is raw.
func (t *Table) ResolveTypeRef(s ScopeID, ref *decl.TypeRef) types.TypeID {
	return t.resolveRef(s, ref, nil)
}

// resolveRef is ResolveTypeRef with an optional tolerance context: when
// ctx is set, unknown names become missing types instead of problems.
func (t *Table) resolveRef(s ScopeID, ref *decl.TypeRef, ctx *sigCtx) types.TypeID {
	in := t.in
	if ref == nil {
		return types.NoTypeID
	}
	if bk, ok := types.BaseKindByName(ref.Name); ok && bk != types.BaseNull {
		return in.Array(in.Base(bk), ref.Dims)
	}
	typ := t.ResolveQualifiedType(s, ref.Parts())
	switch in.KindOf(typ) {
	case types.KindProblem:
		if ctx == nil || in.Reason(typ) != types.NotFound {
			return in.Array(typ, ref.Dims)
		}
		ctx.missing = true
		return in.Array(t.env.MissingType(t.missingName(s, ref.Name)), ref.Dims)
	case types.KindMissing:
		if ctx != nil {
			ctx.missing = true
		}
		return in.Array(typ, ref.Dims)
	case types.KindTypeVar:
		return in.Array(typ, ref.Dims)
	}

	tvs := in.TypeVars(typ)
	switch {
	case len(ref.Args) > 0:
		if len(tvs) != len(ref.Args) {
			t.problem(types.TypeArgumentArityMismatch)
			return in.NewProblemType(ref.String(), types.TypeArgumentArityMismatch, typ)
		}
		args := make([]types.TypeID, len(ref.Args))
		for i, arg := range ref.Args {
			args[i] = t.typeArg(s, typ, i, arg, ctx)
		}
		typ = in.Parameterized(typ, args, types.NoTypeID)
	case len(tvs) > 0 && t.opts.Features.Generics:
		typ = in.Raw(typ, types.NoTypeID)
	}
	return in.Array(typ, ref.Dims)
}

func (t *Table) typeArg(s ScopeID, generic types.TypeID, rank int, arg *decl.TypeArg, ctx *sigCtx) types.TypeID {
	if !arg.Wildcard {
		return t.resolveRef(s, arg.Type, ctx)
	}
	if arg.Type == nil {
		return t.in.Wildcard(generic, rank, types.WildUnbound, types.NoTypeID, nil)
	}
	kind := types.WildExtends
	if arg.BoundKind == types.WildSuper {
		kind = types.WildSuper
	}
	return t.in.Wildcard(generic, rank, kind, t.resolveRef(s, arg.Type, ctx), nil)
}
