package driver

import (
	"fmt"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/scope"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

// checker resolves one unit and reports its problems.
type checker struct {
	s    *Session
	tab  *scope.Table
	in   *types.Interner
	sys  *typesys.System
	env  *env.Environment
	unit *decl.Unit

	problems int
}

// checkUnit resolves the headers of every class of u and, for checked
// units, their bodies. A fatal abort ends the unit with ResFatalAbort;
// bindings completed before it stay valid.
func (s *Session) checkUnit(u *decl.Unit, us scope.ScopeID, checked bool) (sum UnitSummary) {
	in := s.Types()
	sum = UnitSummary{Path: u.Path, File: u.File, Package: u.Package, Checked: checked}
	u.Walk(func(td, _ *decl.TypeDecl) {
		sum.Types = append(sum.Types, in.QualifiedName(td.Binding))
	})
	if !checked {
		return sum
	}

	span := trace.Begin(s.tracer, trace.ScopeUnit, "driver.check_unit", s.pass.ID()).WithExtra("path", u.Path)
	c := &checker{s: s, tab: s.Table, in: in, sys: s.System(), env: s.Env, unit: u}
	defer func() {
		if r := recover(); r != nil {
			a, ok := env.AsAbort(r)
			if !ok {
				panic(r)
			}
			trace.Point(s.tracer, trace.ScopeUnit, "driver.abort", a.Error(), span.ID())
			c.report(diag.ResFatalAbort, source.Span{File: u.File}, fmt.Sprintf("resolution of %s aborted: %v", u.Path, a))
			sum.Aborted = true
		}
		sum.Problems = c.problems
		span.End(fmt.Sprintf("%d problems", c.problems))
	}()

	c.imports(us)
	u.Walk(func(td, _ *decl.TypeDecl) {
		c.header(td)
	})
	u.Walk(func(td, _ *decl.TypeDecl) {
		c.bodies(td)
	})
	return sum
}

func (c *checker) report(code diag.Code, sp source.Span, msg string) {
	c.problems++
	diag.ReportError(c.s.reporter, code, sp, msg).Emit()
}

// imports checks that every import names a type, a package or a static
// member.
func (c *checker) imports(us scope.ScopeID) {
	for _, imp := range c.unit.Imports {
		parts := strings.Split(imp.Name, ".")
		switch {
		case imp.Static:
			ownerParts := parts
			if !imp.OnDemand {
				ownerParts = parts[:len(parts)-1]
			}
			owner := c.tab.ResolveQualifiedType(us, ownerParts)
			if c.in.KindOf(owner) == types.KindProblem {
				c.typeProblem(owner, imp.Span)
				continue
			}
			if imp.OnDemand {
				continue
			}
			name := imp.Simple()
			if c.in.FieldNamed(owner, name) == types.NoFieldID &&
				len(c.in.MethodsNamed(owner, name)) == 0 &&
				c.in.MemberTypeNamed(owner, name) == types.NoTypeID {
				c.report(diag.ResNotFound, imp.Span, fmt.Sprintf("the import %s cannot be resolved", imp.Name))
			}
		case imp.OnDemand:
			if c.env.IsPackage(imp.Name) {
				continue
			}
			if typ := c.tab.ResolveQualifiedType(us, parts); c.in.KindOf(typ) == types.KindProblem {
				c.report(diag.ResNotFound, imp.Span, fmt.Sprintf("the import %s cannot be resolved", imp.Name))
			}
		default:
			if typ := c.tab.ResolveQualifiedType(us, parts); c.in.KindOf(typ) == types.KindProblem {
				c.typeProblem(typ, imp.Span)
			}
		}
	}
}

// header completes the class and re-resolves every reference of its
// declaration so that problems get a position.
func (c *checker) header(td *decl.TypeDecl) {
	id := td.Binding
	cs := c.tab.ClassScope(id)
	in := c.in

	in.Superclass(id)
	in.Interfaces(id)
	if td.Super != nil {
		c.typeRef(cs, td.Super)
	}
	for _, ref := range td.Interfaces {
		c.typeRef(cs, ref)
	}
	for _, tp := range td.TypeParams {
		for _, b := range tp.Bounds {
			c.typeRef(cs, b)
		}
	}
	c.annotations(cs, td.Annotations)
	if td.Kind == types.SortAnnotation {
		c.container(id, td)
	}

	in.Fields(id)
	for _, fd := range td.Fields {
		if fd.Binding != types.NoFieldID {
			in.Field(fd.Binding)
		}
		c.typeRef(cs, fd.Type)
		c.annotations(cs, fd.Annotations)
	}
	for _, md := range td.Methods {
		if md.Binding == types.NoMethodID {
			continue
		}
		in.Method(md.Binding)
		ms := c.tab.MethodScope(md.Binding)
		for _, tp := range md.TypeParams {
			for _, b := range tp.Bounds {
				c.typeRef(ms, b)
			}
		}
		for _, p := range md.Params {
			c.typeRef(ms, p.Type)
		}
		if md.Result != nil {
			c.typeRef(ms, md.Result)
		}
		for _, t := range md.Throws {
			c.typeRef(ms, t)
		}
		c.annotations(ms, md.Annotations)
	}
}

// typeRef resolves ref in s and reports every problem nested in it. It
// returns the resolved type, NoTypeID when it is a problem.
func (c *checker) typeRef(s scope.ScopeID, ref *decl.TypeRef) types.TypeID {
	if ref == nil {
		return types.NoTypeID
	}
	typ := c.tab.ResolveTypeRef(s, ref)
	if c.reportNested(typ, ref.Span) {
		return types.NoTypeID
	}
	return typ
}

// reportNested reports the problem types inside typ and tells whether
// there was one.
func (c *checker) reportNested(typ types.TypeID, sp source.Span) bool {
	in := c.in
	switch in.KindOf(typ) {
	case types.KindProblem:
		c.typeProblem(typ, sp)
		return true
	case types.KindArray:
		return c.reportNested(in.LeafComponent(typ), sp)
	case types.KindParameterized:
		bad := false
		for _, a := range in.TypeArgs(typ) {
			if c.reportNested(a, sp) {
				bad = true
			}
		}
		return bad
	case types.KindWildcard:
		if w, ok := in.WildcardInfo(typ); ok && w.Bound != types.NoTypeID {
			return c.reportNested(w.Bound, sp)
		}
	}
	return false
}

// annotations resolves annotation types and validates the containers of
// annotations repeated on one element.
func (c *checker) annotations(s scope.ScopeID, list []*decl.Annotation) {
	seen := make(map[types.TypeID]int, len(list))
	for _, a := range list {
		typ := c.tab.ResolveQualifiedType(s, strings.Split(a.Name, "."))
		if c.in.KindOf(typ) == types.KindProblem {
			c.typeProblem(typ, a.Span)
			continue
		}
		seen[typ]++
		if seen[typ] != 2 {
			continue
		}
		if container, reason := c.env.ContainerAnnotation(typ); reason != types.NoProblem {
			c.report(diag.ResDefectiveContainerAnnotationType, a.Span,
				fmt.Sprintf("@%s cannot be repeated: %s", a.Name, reasonMessage(reason, "type", c.in.QualifiedName(container))))
		}
	}
}

// container validates the @Repeatable container of a source annotation
// type.
func (c *checker) container(id types.TypeID, td *decl.TypeDecl) {
	container, reason := c.env.ContainerAnnotation(id)
	if reason == types.NoProblem {
		return
	}
	sp := td.Span
	for _, a := range td.Annotations {
		if a.Name == "Repeatable" || strings.HasSuffix(a.Name, ".Repeatable") {
			sp = a.Span
		}
	}
	name := "<unknown>"
	if container != types.NoTypeID {
		name = c.in.QualifiedName(container)
	}
	c.report(diag.ResDefectiveContainerAnnotationType, sp,
		fmt.Sprintf("%s is not a valid container annotation type for %s", name, c.in.QualifiedName(id)))
}
