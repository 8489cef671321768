package env

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/sig"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// CompleteHierarchy resolves type variables and supertypes of a class.
func (e *Environment) CompleteHierarchy(id types.TypeID) {
	if !e.in.BeginHierarchy(id) {
		return
	}
	e.rec.Completion("hierarchy")
	span := trace.Begin(e.tracer, trace.ScopeBinding, "env.complete_hierarchy", 0).
		WithExtra("type", e.in.QualifiedName(id))

	var (
		superclass types.TypeID
		interfaces []types.TypeID
		missing    bool
	)
	switch decl := e.in.Decl(id).(type) {
	case *binary.Descriptor:
		superclass, interfaces, missing = e.binaryHierarchy(id, decl)
	default:
		if e.source != nil {
			superclass, interfaces = e.source.SourceSupertypes(id)
		}
		superclass, interfaces = e.checkSupertypes(id, superclass, interfaces)
	}
	if superclass == types.NoTypeID && id != e.in.Object() && !e.in.IsInterface(id) {
		superclass = e.in.Object()
	}
	for _, t := range append([]types.TypeID{superclass}, interfaces...) {
		if e.in.HasFlag(t, types.HasMissingType) {
			missing = true
		}
	}
	if missing {
		e.in.AddFlags(id, types.HasMissingType)
	}
	e.in.SetSupertypes(id, superclass, interfaces)

	final := types.SlotResolved
	if e.breakCycles(id) {
		final = types.SlotProblem
	}
	e.in.EndHierarchy(id, final)
	span.End(final.String())
}

func (e *Environment) binaryHierarchy(id types.TypeID, d *binary.Descriptor) (types.TypeID, []types.TypeID, bool) {
	ctx := &resolveCtx{owner: id, hierarchy: true}
	isInterface := d.Sort == types.SortInterface || d.Sort == types.SortAnnotation
	var (
		superclass types.TypeID
		interfaces []types.TypeID
	)
	if d.Signature != "" {
		cs, err := sig.ParseClass(d.Signature)
		if err == nil {
			e.in.SetTypeVars(id, e.declareTypeVars(id, cs.TypeParams, false))
			if cs.Super != nil && !isInterface && d.Name != objectName {
				superclass = e.fromSig(ctx, cs.Super)
			}
			for _, it := range cs.Interfaces {
				interfaces = append(interfaces, e.fromSig(ctx, it))
			}
			return superclass, interfaces, ctx.missing
		}
		// a malformed signature degrades to the erased names
		trace.Point(e.tracer, trace.ScopeBinding, "env.bad_signature", err.Error(), 0)
	}
	if d.Super != "" && !isInterface {
		superclass = e.classByName(ctx, d.Super)
	}
	for _, name := range d.Interfaces {
		interfaces = append(interfaces, e.classByName(ctx, name))
	}
	return superclass, interfaces, ctx.missing
}

// checkSupertypes replaces supertypes of the wrong sort with the root class.
func (e *Environment) checkSupertypes(id, superclass types.TypeID, interfaces []types.TypeID) (types.TypeID, []types.TypeID) {
	if superclass != types.NoTypeID && e.in.KindOf(e.in.GenericOf(superclass)) == types.KindClass {
		decl := e.in.GenericOf(superclass)
		if e.in.IsInterface(decl) || e.in.ClassModifiers(decl).IsFinal() || e.in.IsInterface(id) {
			e.record(FindingIllegalSuper, id, e.in.QualifiedName(decl))
			e.in.AddFlags(id, types.HierarchyHasProblems)
			superclass = types.NoTypeID
		}
	}
	kept := interfaces[:0:0]
	for _, it := range interfaces {
		decl := e.in.GenericOf(it)
		if e.in.KindOf(decl) == types.KindClass && !e.in.IsInterface(decl) {
			e.record(FindingIllegalSuper, id, e.in.QualifiedName(decl))
			e.in.AddFlags(id, types.HierarchyHasProblems)
			continue
		}
		kept = append(kept, it)
	}
	return superclass, kept
}

// breakCycles cuts every direct supertype edge of id that leads back to id
// and marks all classes on the cycle. It reports whether an edge was cut.
func (e *Environment) breakCycles(id types.TypeID) bool {
	info, _ := e.in.Class(id)
	superclass, interfaces := info.Superclass, info.Interfaces
	cut := false
	if superclass != types.NoTypeID {
		if path := e.pathTo(e.in.GenericOf(superclass), id, map[types.TypeID]bool{}); path != nil {
			e.markCycle(id, path)
			superclass = e.in.Object()
			if superclass == id {
				superclass = types.NoTypeID
			}
			cut = true
		}
	}
	kept := interfaces[:0:0]
	for _, it := range interfaces {
		if path := e.pathTo(e.in.GenericOf(it), id, map[types.TypeID]bool{}); path != nil {
			e.markCycle(id, path)
			cut = true
			continue
		}
		kept = append(kept, it)
	}
	if cut {
		e.in.SetSupertypes(id, superclass, kept)
	}
	return cut
}

// pathTo returns the declarations from from up to target, nil when target
// is not a supertype of from.
func (e *Environment) pathTo(from, target types.TypeID, seen map[types.TypeID]bool) []types.TypeID {
	if from == target {
		return []types.TypeID{from}
	}
	if seen[from] || !e.in.IsClassLike(from) {
		return nil
	}
	seen[from] = true
	next := append([]types.TypeID{e.in.Superclass(from)}, e.in.Interfaces(from)...)
	for _, s := range next {
		if s == types.NoTypeID {
			continue
		}
		if path := e.pathTo(e.in.GenericOf(s), target, seen); path != nil {
			return append([]types.TypeID{from}, path...)
		}
	}
	return nil
}

func (e *Environment) markCycle(id types.TypeID, path []types.TypeID) {
	for _, t := range path {
		e.in.AddFlags(t, types.HierarchyHasProblems)
	}
	e.in.AddFlags(id, types.HierarchyHasProblems)
	e.record(FindingHierarchyCycle, id, e.in.QualifiedName(id))
}

// CompleteMembers creates the member bindings of a class. Their signature
// slots stay unresolved.
func (e *Environment) CompleteMembers(id types.TypeID) {
	if !e.in.BeginMembers(id) {
		return
	}
	e.rec.Completion("members")
	span := trace.Begin(e.tracer, trace.ScopeBinding, "env.complete_members", 0).
		WithExtra("type", e.in.QualifiedName(id))

	var (
		fields      []types.FieldID
		methods     []types.MethodID
		memberTypes []types.TypeID
	)
	switch decl := e.in.Decl(id).(type) {
	case *binary.Descriptor:
		fields, methods, memberTypes = e.binaryMembers(id, decl)
	default:
		if e.source != nil {
			fields, methods, memberTypes = e.source.SourceMembers(id)
		}
	}
	if e.nonNullDefault(id) {
		for _, m := range methods {
			e.in.AddMethodFlags(m, types.MemberNonNullDefault)
		}
	}
	e.in.SetMembers(id, fields, methods, memberTypes)
	e.in.EndMembers(id, types.SlotResolved)
	span.End("")
}

func (e *Environment) binaryMembers(id types.TypeID, d *binary.Descriptor) ([]types.FieldID, []types.MethodID, []types.TypeID) {
	fields := make([]types.FieldID, 0, len(d.Fields))
	for i := range d.Fields {
		fd := &d.Fields[i]
		if fd.Modifiers.IsSynthetic() {
			continue
		}
		var constant any
		if fd.Constant != nil {
			constant = fd.Constant.Go()
		}
		f := e.in.NewField(types.FieldInfo{
			Name:      fd.Name,
			Declaring: id,
			Modifiers: fd.Modifiers,
			Constant:  constant,
			Decl:      fd,
		})
		if annots := convertAnnotations(fd.Annotations); annots != nil {
			e.in.SetFieldAnnotations(f, annots)
		}
		fields = append(fields, f)
	}
	methods := make([]types.MethodID, 0, len(d.Methods))
	for i := range d.Methods {
		md := &d.Methods[i]
		if md.Name == "<clinit>" || md.Modifiers.IsSynthetic() || md.Modifiers.IsBridge() {
			continue
		}
		desc := e.parseDescriptor(d.Name, md)
		m := e.in.NewMethod(types.MethodInfo{
			Selector:   md.Name,
			Declaring:  id,
			Modifiers:  md.Modifiers,
			Arity:      len(e.dropOuterParam(id, md, desc.Params)),
			ParamNames: md.ParamNames,
			Decl:       md,
		})
		if annots := convertAnnotations(md.AnnotationsAt(binary.PosDeclaration, -1)); annots != nil {
			e.in.SetMethodAnnotations(m, annots)
		}
		methods = append(methods, m)
	}
	var memberTypes []types.TypeID
	for _, name := range d.MemberTypes {
		if mt := e.LookupType(name); mt != types.NoTypeID {
			memberTypes = append(memberTypes, mt)
		}
	}
	return fields, methods, memberTypes
}

func (e *Environment) parseDescriptor(owner string, md *binary.MethodDescriptor) *sig.Method {
	desc, err := sig.ParseMethod(md.Descriptor)
	if err != nil {
		panic(&Abort{Name: owner + "." + md.Name, Err: err})
	}
	return desc
}

// dropOuterParam removes the synthetic enclosing-instance parameter that
// constructors of inner classes carry in their erased descriptor. Generic
// signatures never include it.
func (e *Environment) dropOuterParam(owner types.TypeID, md *binary.MethodDescriptor, params []*sig.Type) []*sig.Type {
	if md.Name != types.ConstructorName || len(params) == 0 {
		return params
	}
	enc := e.in.Enclosing(owner)
	if enc == types.NoTypeID || e.in.ClassModifiers(owner).IsStatic() {
		return params
	}
	if params[0].Kind == sig.KindClass && params[0].BinaryName() == e.in.BinaryNameOf(enc) {
		return params[1:]
	}
	return params
}

// CompleteMethod resolves the signature of a method.
func (e *Environment) CompleteMethod(m types.MethodID) {
	if !e.in.BeginMethod(m) {
		return
	}
	e.rec.Completion("method")
	info := e.in.MethodRaw(m)
	switch md := info.Decl.(type) {
	case *binary.MethodDescriptor:
		e.in.EndMethod(m, e.binaryMethod(m, info, md), types.SlotResolved)
	default:
		if e.source == nil {
			e.in.EndMethod(m, types.MethodSignature{}, types.SlotProblem)
			return
		}
		ms := e.source.SourceMethod(m)
		e.in.EndMethod(m, ms, types.SlotResolved)
	}
	if e.in.MethodRaw(m).Flags&types.MemberHasMissingType != 0 {
		e.in.AddFlags(info.Declaring, types.HasMissingType)
	}
}

func (e *Environment) binaryMethod(m types.MethodID, info types.MethodInfo, md *binary.MethodDescriptor) types.MethodSignature {
	owner := info.Declaring
	ctx := &resolveCtx{owner: owner}
	var ms *sig.Method
	if md.Signature != "" {
		parsed, err := sig.ParseMethod(md.Signature)
		if err == nil {
			ms = parsed
		} else {
			trace.Point(e.tracer, trace.ScopeBinding, "env.bad_signature", err.Error(), 0)
		}
	}
	if ms == nil {
		desc := e.parseDescriptor(e.in.BinaryNameOf(owner), md)
		desc.Params = e.dropOuterParam(owner, md, desc.Params)
		ms = desc
	}

	var out types.MethodSignature
	out.TypeVars = e.declareTypeVars(owner, ms.TypeParams, true)
	for _, tv := range out.TypeVars {
		e.in.SetTypeVarMethod(tv, m)
	}
	ctx.methodVars = out.TypeVars
	out.Params = make([]types.TypeID, len(ms.Params))
	for i, p := range ms.Params {
		out.Params[i] = e.fromSig(ctx, p)
	}
	if md.Name != types.ConstructorName {
		out.Return = e.fromSig(ctx, ms.Return)
	}
	if len(ms.Throws) > 0 {
		for _, t := range ms.Throws {
			out.Thrown = append(out.Thrown, e.fromSig(ctx, t))
		}
	} else {
		for _, name := range md.Exceptions {
			out.Thrown = append(out.Thrown, e.classByName(ctx, name))
		}
	}
	if ctx.missing || e.anyMissing(out.Params) || e.anyMissing(out.Thrown) || e.anyMissing([]types.TypeID{out.Return}) {
		out.Flags |= types.MemberHasMissingType
	}
	return out
}

// CompleteField resolves the declared type of a field.
func (e *Environment) CompleteField(f types.FieldID) {
	if !e.in.BeginField(f) {
		return
	}
	e.rec.Completion("field")
	info := e.in.FieldRaw(f)
	var (
		typ   types.TypeID
		flags types.MemberFlags
	)
	switch fd := info.Decl.(type) {
	case *binary.FieldDescriptor:
		ctx := &resolveCtx{owner: info.Declaring}
		src := fd.Signature
		if src == "" {
			src = fd.Descriptor
		}
		st, err := sig.ParseType(src)
		if err != nil {
			panic(&Abort{Name: e.in.BinaryNameOf(info.Declaring) + "." + fd.Name, Err: err})
		}
		typ = e.fromSig(ctx, st)
		if ctx.missing {
			flags |= types.MemberHasMissingType
		}
	default:
		if e.source == nil {
			e.in.EndField(f, types.NoTypeID, 0, types.SlotProblem)
			return
		}
		typ = e.source.SourceField(f)
	}
	if e.anyMissing([]types.TypeID{typ}) {
		flags |= types.MemberHasMissingType
	}
	if flags&types.MemberHasMissingType != 0 {
		e.in.AddFlags(info.Declaring, types.HasMissingType)
	}
	e.in.EndField(f, typ, flags, types.SlotResolved)
}

// CompleteTypeVar resolves the bounds of a type variable.
func (e *Environment) CompleteTypeVar(tv types.TypeID) {
	if !e.in.BeginTypeVar(tv) {
		return
	}
	e.rec.Completion("typevar")
	info, _ := e.in.TypeVarInfo(tv)
	var bounds []types.TypeID
	switch decl := info.Decl.(type) {
	case *typeVarDecl:
		ctx := &resolveCtx{owner: decl.owner}
		if decl.vars != nil {
			ctx.methodVars = *decl.vars
		}
		for _, b := range decl.param.Bounds() {
			bounds = append(bounds, e.fromSig(ctx, b))
		}
		if ctx.missing {
			e.in.MarkTypeVarMissing(tv)
		}
	default:
		if e.source != nil {
			bounds = e.source.SourceTypeVarBounds(tv)
		}
	}
	if e.anyMissing(bounds) {
		e.in.MarkTypeVarMissing(tv)
	}
	if info, _ := e.in.TypeVarInfo(tv); info.Flags&types.MemberHasMissingType != 0 && info.DeclType != types.NoTypeID {
		e.in.AddFlags(info.DeclType, types.HasMissingType)
	}
	e.in.SetTypeVarBounds(tv, bounds)
	e.in.EndTypeVar(tv, types.SlotResolved)
}

// anyMissing reports whether a type mentions a missing class, looking
// through arrays and type arguments.
func (e *Environment) anyMissing(ts []types.TypeID) bool {
	for _, t := range ts {
		if e.mentionsMissing(t, 0) {
			return true
		}
	}
	return false
}

func (e *Environment) mentionsMissing(t types.TypeID, depth int) bool {
	if t == types.NoTypeID || depth > 8 {
		return false
	}
	switch e.in.KindOf(t) {
	case types.KindMissing:
		return true
	case types.KindArray:
		return e.mentionsMissing(e.in.LeafComponent(t), depth+1)
	case types.KindParameterized, types.KindRaw:
		if e.in.KindOf(e.in.GenericOf(t)) == types.KindMissing {
			return true
		}
		for _, a := range e.in.TypeArgs(t) {
			if e.mentionsMissing(a, depth+1) {
				return true
			}
		}
		return e.mentionsMissing(e.in.EnclosingType(t), depth+1)
	case types.KindWildcard:
		w, _ := e.in.WildcardInfo(t)
		return e.mentionsMissing(w.Bound, depth+1)
	}
	return false
}
