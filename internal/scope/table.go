// Package scope is the lexical scope chain. A Table owns the scope and
// local arenas of every declared compilation unit, answers name, type and
// member queries against them and completes source classes lazily for the
// lookup environment.
package scope

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/metrics"
	"github.com/groovy/groovy-eclipse-sub042/internal/overload"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

// Table is the scope chain of one environment. It is not safe for
// concurrent use.
type Table struct {
	env    *env.Environment
	in     *types.Interner
	sys    *typesys.System
	ov     *overload.Resolver
	opts   config.Options
	tracer trace.Tracer
	rec    metrics.Recorder

	Scopes *Scopes
	Locals *Locals

	units        []ScopeID
	classScopes  map[types.TypeID]ScopeID
	methodScopes map[types.MethodID]ScopeID
	methodVars   map[types.MethodID][]types.TypeID
	annotated    map[types.TypeID]bool
}

// Producer payloads stored in the binding model's Decl slots.
type (
	classDecl struct {
		decl  *decl.TypeDecl
		unit  *decl.Unit
		scope ScopeID
	}
	typeParamDecl struct {
		param *decl.TypeParam
		scope ScopeID
	}
	methodDecl struct {
		decl  *decl.MethodDecl
		scope ScopeID
	}
	fieldDecl struct {
		decl  *decl.FieldDecl
		ref   *decl.TypeRef
		scope ScopeID
	}
)

// New creates a table over ov's type system and installs it as the
// environment's source completer.
func New(ov *overload.Resolver) *Table {
	sys := ov.System()
	e := sys.Env()
	t := &Table{
		env:          e,
		in:           sys.Types(),
		sys:          sys,
		ov:           ov,
		opts:         e.Config(),
		tracer:       e.Tracer(),
		rec:          e.Metrics(),
		Scopes:       NewScopes(0),
		Locals:       NewLocals(0),
		classScopes:  make(map[types.TypeID]ScopeID),
		methodScopes: make(map[types.MethodID]ScopeID),
		methodVars:   make(map[types.MethodID][]types.TypeID),
		annotated:    make(map[types.TypeID]bool),
	}
	e.SetSourceCompleter(t)
	return t
}

// System returns the type system.
func (t *Table) System() *typesys.System { return t.sys }

// Resolver returns the overload resolver.
func (t *Table) Resolver() *overload.Resolver { return t.ov }

// Units returns the unit scopes in declaration order.
func (t *Table) Units() []ScopeID { return t.units }

// Get returns the scope for id, nil when invalid.
func (t *Table) Get(id ScopeID) *Scope { return t.Scopes.Get(id) }

// DeclareUnit registers every class of u with the environment, attaches
// their type variables and builds the unit and class scopes. Nothing is
// resolved yet.
func (t *Table) DeclareUnit(u *decl.Unit) ScopeID {
	us := t.Scopes.New(Scope{Kind: ScopeUnit, Unit: u, Span: source.Span{File: u.File}})
	t.units = append(t.units, us)
	if len(u.PackageAnnotations) > 0 {
		info := &decl.TypeDecl{Name: packageInfo, Kind: types.SortInterface, Annotations: u.PackageAnnotations}
		id := t.env.DeclareClass(types.ClassInfo{
			Package:   u.Package,
			Name:      packageInfo,
			Sort:      types.SortInterface,
			Modifiers: types.ModInterface | types.ModAbstract | types.ModSynthetic,
			Decl:      &classDecl{decl: info, unit: u, scope: us},
		})
		info.Binding = id
	}
	for _, td := range u.Types {
		t.declareType(u, td, types.NoTypeID, us)
	}
	return us
}

func (t *Table) declareType(u *decl.Unit, td *decl.TypeDecl, enclosing types.TypeID, parent ScopeID) types.TypeID {
	mods := td.Modifiers
	switch td.Kind {
	case types.SortInterface:
		mods |= types.ModInterface | types.ModAbstract
	case types.SortAnnotation:
		mods |= types.ModInterface | types.ModAnnotation | types.ModAbstract
	case types.SortEnum:
		mods |= types.ModEnum
	case types.SortRecord:
		mods |= types.ModRecord | types.ModFinal
	}
	if enclosing != types.NoTypeID {
		// member interfaces, enums and records are implicitly static
		if td.Kind != types.SortClass || t.in.IsInterface(enclosing) {
			mods |= types.ModStatic
		}
		if t.in.IsInterface(enclosing) {
			mods |= types.ModPublic
		}
	}
	cd := &classDecl{decl: td, unit: u}
	id := t.env.DeclareClass(types.ClassInfo{
		Package:   u.Package,
		Name:      td.Name,
		Enclosing: enclosing,
		Sort:      td.Kind,
		Modifiers: mods,
		Decl:      cd,
	})
	td.Binding = id
	cs := t.Scopes.New(Scope{
		Kind:     ScopeClass,
		Parent:   parent,
		Span:     td.Span,
		TypeDecl: td,
		Class:    id,
		Static:   mods.IsStatic(),
	})
	cd.scope = cs
	t.classScopes[id] = cs

	tvs := make([]types.TypeID, len(td.TypeParams))
	for i, tp := range td.TypeParams {
		tvs[i] = t.in.NewTypeVar(tp.Name, i, id)
		t.in.SetTypeVarDecl(tvs[i], &typeParamDecl{param: tp, scope: cs})
	}
	t.in.SetTypeVars(id, tvs)

	for _, member := range td.Members {
		t.declareType(u, member, id, cs)
	}
	return id
}

// ClassScope returns the scope of a source class body.
func (t *Table) ClassScope(class types.TypeID) ScopeID {
	return t.classScopes[t.in.GenericOf(class)]
}

// MethodScope returns the scope of a source method, creating its members
// on demand.
func (t *Table) MethodScope(m types.MethodID) ScopeID {
	m = t.in.OriginalMethod(m)
	if s, ok := t.methodScopes[m]; ok {
		return s
	}
	t.in.Methods(t.in.MethodRaw(m).Declaring)
	return t.methodScopes[m]
}

// OpenBlock allocates a block scope under parent.
func (t *Table) OpenBlock(parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(Scope{Kind: ScopeBlock, Parent: parent, Span: span})
}

// OpenCtorCall allocates the block holding the arguments of an explicit
// constructor invocation.
func (t *Table) OpenCtorCall(parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(Scope{Kind: ScopeBlock, Parent: parent, Span: span, CtorCall: true})
}

// DeclareLocal adds a local variable to a method or block scope.
func (t *Table) DeclareLocal(s ScopeID, l Local) LocalID {
	l.Scope = s
	id := t.Locals.New(l)
	if sc := t.Scopes.Get(s); sc != nil {
		sc.Locals = append(sc.Locals, id)
	}
	return id
}

// BeginBody declares the parameters of a source method and returns the
// method scope. Calling it twice is harmless.
func (t *Table) BeginBody(m types.MethodID) ScopeID {
	s := t.MethodScope(m)
	sc := t.Scopes.Get(s)
	if sc == nil || sc.MethodDecl == nil || len(sc.Locals) > 0 {
		return s
	}
	info := t.in.Method(sc.Method)
	for i, p := range sc.MethodDecl.Params {
		typ := types.NoTypeID
		if i < len(info.Params) {
			typ = info.Params[i]
		}
		t.DeclareLocal(s, Local{Name: p.Name, Type: typ, Final: p.Final, Param: true, Span: p.Span})
	}
	return s
}

// EnclosingClass returns the innermost class binding around s.
func (t *Table) EnclosingClass(s ScopeID) types.TypeID {
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		if sc.Kind == ScopeClass {
			return sc.Class
		}
	}
	return types.NoTypeID
}

// EnclosingMethod returns the innermost method binding around s.
func (t *Table) EnclosingMethod(s ScopeID) types.MethodID {
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		switch sc.Kind {
		case ScopeMethod:
			return sc.Method
		case ScopeClass:
			return types.NoMethodID
		}
	}
	return types.NoMethodID
}

// UnitOf returns the unit declaration around s.
func (t *Table) UnitOf(s ScopeID) *decl.Unit {
	for sc := t.Scopes.Get(s); sc != nil; sc = t.Scopes.Get(sc.Parent) {
		if sc.Kind == ScopeUnit {
			return sc.Unit
		}
	}
	return nil
}

// packageOf returns the package of the unit around s.
func (t *Table) packageOf(s ScopeID) string {
	if u := t.UnitOf(s); u != nil {
		return u.Package
	}
	return ""
}

func (t *Table) problem(reason types.ProblemReason) {
	t.rec.Problem(reason.String())
}
