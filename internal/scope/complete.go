package scope

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var _ env.SourceCompleter = (*Table)(nil)

// SourceSupertypes resolves the extends and implements clauses of a source
// class against its own class scope.
func (t *Table) SourceSupertypes(id types.TypeID) (types.TypeID, []types.TypeID) {
	cd, ok := t.in.Decl(id).(*classDecl)
	if !ok {
		return types.NoTypeID, nil
	}
	span := trace.Begin(t.tracer, trace.ScopeBinding, "scope.source_supertypes", 0).
		WithExtra("type", t.in.QualifiedName(id))
	defer span.End("")

	t.classAnnotations(id, cd)
	td := cd.decl
	var (
		superclass types.TypeID
		interfaces []types.TypeID
	)
	switch td.Kind {
	case types.SortEnum:
		enum := t.env.Known(env.KnownEnum)
		superclass = enum
		if t.in.IsGeneric(enum) {
			superclass = t.in.Parameterized(enum, []types.TypeID{id}, types.NoTypeID)
		}
	case types.SortRecord:
		superclass = t.env.Known(env.KnownRecord)
	case types.SortAnnotation:
		interfaces = append(interfaces, t.env.Known(env.KnownAnnotation))
	}
	if td.Super != nil && td.Kind == types.SortClass {
		superclass = t.supertype(cd.scope, td.Super)
	}
	for _, ref := range td.Interfaces {
		if it := t.supertype(cd.scope, ref); it != types.NoTypeID {
			interfaces = append(interfaces, it)
		}
	}
	return superclass, interfaces
}

// supertype resolves one supertype reference. Unknown names degrade to
// missing types; other problems to their closest match.
func (t *Table) supertype(s ScopeID, ref *decl.TypeRef) types.TypeID {
	var ctx sigCtx
	typ := t.signatureType(&ctx, s, ref)
	return t.closestValid(typ)
}

// closestValid replaces a problem type by its closest match, NoTypeID when
// there is none.
func (t *Table) closestValid(typ types.TypeID) types.TypeID {
	if t.in.KindOf(typ) != types.KindProblem {
		return typ
	}
	if c := t.in.Closest(typ); c != typ {
		return c
	}
	return types.NoTypeID
}

// SourceMembers creates the fields, methods and member types of a source
// class, including the implicit members of enums, records and classes
// without constructors. Signatures stay unresolved.
func (t *Table) SourceMembers(id types.TypeID) ([]types.FieldID, []types.MethodID, []types.TypeID) {
	cd, ok := t.in.Decl(id).(*classDecl)
	if !ok {
		return nil, nil, nil
	}
	t.classAnnotations(id, cd)
	for enc := t.in.Enclosing(id); enc != types.NoTypeID; enc = t.in.Enclosing(enc) {
		if ecd, ok := t.in.Decl(enc).(*classDecl); ok {
			t.classAnnotations(enc, ecd)
		}
	}
	t.packageAnnotations(cd.unit.Package)
	td, cs := cd.decl, cd.scope
	iface := td.IsInterface()

	var fields []types.FieldID
	if td.Kind == types.SortEnum {
		for _, name := range td.Constants {
			fields = append(fields, t.in.NewResolvedField(types.FieldInfo{
				Name:      name,
				Declaring: id,
				Modifiers: types.ModPublic | types.ModStatic | types.ModFinal | types.ModEnum,
				Type:      id,
			}))
		}
	}
	for _, p := range td.Components {
		fields = append(fields, t.in.NewField(types.FieldInfo{
			Name:      p.Name,
			Declaring: id,
			Modifiers: types.ModPrivate | types.ModFinal,
			Decl:      &fieldDecl{ref: p.Type, scope: cs},
		}))
	}
	for _, fd := range td.Fields {
		mods := fd.Modifiers
		if iface {
			mods |= types.ModPublic | types.ModStatic | types.ModFinal
		}
		f := t.in.NewField(types.FieldInfo{
			Name:      fd.Name,
			Declaring: id,
			Modifiers: mods,
			Constant:  fd.Constant,
			Decl:      &fieldDecl{decl: fd, ref: fd.Type, scope: cs},
		})
		if annots := t.annotations(cs, fd.Annotations); annots != nil {
			t.in.SetFieldAnnotations(f, annots)
		}
		fd.Binding = f
		fields = append(fields, f)
	}

	var methods []types.MethodID
	hasCtor := false
	declared := make(map[string]bool, len(td.Methods))
	for _, md := range td.Methods {
		mods := md.Modifiers
		if iface && !md.Constructor {
			if !mods.IsPrivate() {
				mods |= types.ModPublic
			}
			if !mods.IsStatic() && !mods.IsDefault() && !mods.IsPrivate() {
				mods |= types.ModAbstract
			}
		}
		if md.Varargs() {
			mods |= types.ModVarargs
		}
		if md.Constructor {
			hasCtor = true
		} else if len(md.Params) == 0 {
			declared[md.Name] = true
		}
		methods = append(methods, t.declareMethod(id, cs, md, mods))
	}
	if td.Kind == types.SortRecord {
		for _, p := range td.Components {
			if declared[p.Name] {
				continue
			}
			accessor := &decl.MethodDecl{Name: p.Name, Modifiers: types.ModPublic, Result: p.Type, Span: p.Span}
			methods = append(methods, t.declareMethod(id, cs, accessor, types.ModPublic))
		}
	}
	if !hasCtor && !iface {
		methods = append(methods, t.implicitConstructor(id, cs, td))
	}
	if td.Kind == types.SortEnum {
		methods = append(methods,
			t.in.NewResolvedMethod(types.MethodInfo{
				Selector:  "values",
				Declaring: id,
				Modifiers: types.ModPublic | types.ModStatic,
				Return:    t.in.Array(id, 1),
			}),
			t.in.NewResolvedMethod(types.MethodInfo{
				Selector:   "valueOf",
				Declaring:  id,
				Modifiers:  types.ModPublic | types.ModStatic,
				Params:     []types.TypeID{t.env.Known(env.KnownString)},
				ParamNames: []string{"name"},
				Return:     id,
			}))
	}

	memberTypes := make([]types.TypeID, 0, len(td.Members))
	for _, m := range td.Members {
		memberTypes = append(memberTypes, m.Binding)
	}
	return fields, methods, memberTypes
}

func (t *Table) implicitConstructor(id types.TypeID, cs ScopeID, td *decl.TypeDecl) types.MethodID {
	access := t.in.ClassModifiers(id) & types.AccessMask
	switch td.Kind {
	case types.SortEnum:
		access = types.ModPrivate
	case types.SortRecord:
		canonical := &decl.MethodDecl{
			Name:        types.ConstructorName,
			Constructor: true,
			Params:      td.Components,
			Span:        td.Span,
		}
		return t.declareMethod(id, cs, canonical, access)
	}
	return t.in.NewResolvedMethod(types.MethodInfo{
		Selector:  types.ConstructorName,
		Declaring: id,
		Modifiers: access,
	})
}

func (t *Table) declareMethod(owner types.TypeID, cs ScopeID, md *decl.MethodDecl, mods types.Modifiers) types.MethodID {
	selector := md.Name
	if md.Constructor {
		selector = types.ConstructorName
	}
	names := make([]string, len(md.Params))
	for i, p := range md.Params {
		names[i] = p.Name
	}
	payload := &methodDecl{decl: md}
	m := t.in.NewMethod(types.MethodInfo{
		Selector:   selector,
		Declaring:  owner,
		Modifiers:  mods,
		Arity:      len(md.Params),
		ParamNames: names,
		Decl:       payload,
	})
	ms := t.Scopes.New(Scope{
		Kind:       ScopeMethod,
		Parent:     cs,
		Span:       md.Span,
		MethodDecl: md,
		Method:     m,
		Static:     mods.IsStatic(),
	})
	payload.scope = ms
	t.methodScopes[m] = ms
	if len(md.TypeParams) > 0 {
		tvs := make([]types.TypeID, len(md.TypeParams))
		for i, tp := range md.TypeParams {
			tvs[i] = t.in.NewTypeVar(tp.Name, i, types.NoTypeID)
			t.in.SetTypeVarDecl(tvs[i], &typeParamDecl{param: tp, scope: ms})
			t.in.SetTypeVarMethod(tvs[i], m)
		}
		t.methodVars[m] = tvs
	}
	if annots := t.annotations(cs, md.Annotations); annots != nil {
		t.in.SetMethodAnnotations(m, annots)
	}
	md.Binding = m
	return m
}

// SourceTypeVarBounds resolves the declared bounds of a source type
// variable in the scope of its declaring class or method.
func (t *Table) SourceTypeVarBounds(tv types.TypeID) []types.TypeID {
	info, _ := t.in.TypeVarInfo(tv)
	pd, ok := info.Decl.(*typeParamDecl)
	if !ok || len(pd.param.Bounds) == 0 {
		return nil
	}
	var ctx sigCtx
	bounds := make([]types.TypeID, 0, len(pd.param.Bounds))
	for _, b := range pd.param.Bounds {
		if typ := t.closestValid(t.signatureType(&ctx, pd.scope, b)); typ != types.NoTypeID {
			bounds = append(bounds, typ)
		}
	}
	return bounds
}

// SourceMethod resolves parameter, return and thrown types of a source
// method in its method scope.
func (t *Table) SourceMethod(m types.MethodID) types.MethodSignature {
	md, ok := t.in.MethodRaw(m).Decl.(*methodDecl)
	if !ok {
		return types.MethodSignature{}
	}
	var ctx sigCtx
	d := md.decl
	ms := types.MethodSignature{TypeVars: t.methodVars[m]}
	ms.Params = make([]types.TypeID, len(d.Params))
	for i, p := range d.Params {
		typ := t.signatureType(&ctx, md.scope, p.Type)
		if p.Varargs {
			typ = t.in.Array(typ, 1)
		}
		ms.Params[i] = typ
	}
	switch {
	case d.Constructor:
	case d.Result == nil:
		ms.Return = t.in.Builtins().Void
	default:
		ms.Return = t.signatureType(&ctx, md.scope, d.Result)
	}
	for _, ref := range d.Throws {
		ms.Thrown = append(ms.Thrown, t.signatureType(&ctx, md.scope, ref))
	}
	if ctx.missing {
		ms.Flags |= types.MemberHasMissingType
	}
	return ms
}

// SourceField resolves the declared type of a source field.
func (t *Table) SourceField(f types.FieldID) types.TypeID {
	fd, ok := t.in.FieldRaw(f).Decl.(*fieldDecl)
	if !ok || fd.ref == nil {
		return types.NoTypeID
	}
	var ctx sigCtx
	return t.signatureType(&ctx, fd.scope, fd.ref)
}

// sigCtx collects tolerance state while resolving a declaration header.
type sigCtx struct {
	missing bool
}

// signatureType resolves a reference in a member signature. A name that
// cannot be found becomes a missing type in the current package, so that
// signatures stay usable.
func (t *Table) signatureType(ctx *sigCtx, s ScopeID, ref *decl.TypeRef) types.TypeID {
	if ref == nil {
		return types.NoTypeID
	}
	return t.resolveRef(s, ref, ctx)
}

// missingName guesses the binary name of an unknown reference: qualified
// names are taken as written, simple names land in the current package.
func (t *Table) missingName(s ScopeID, name string) string {
	if strings.Contains(name, ".") {
		return strings.ReplaceAll(name, ".", "/")
	}
	if pkg := t.packageOf(s); pkg != "" {
		return strings.ReplaceAll(pkg, ".", "/") + "/" + name
	}
	return name
}
