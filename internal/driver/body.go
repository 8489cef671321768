package driver

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/scope"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// bodies walks field initializers and method bodies of td.
func (c *checker) bodies(td *decl.TypeDecl) {
	id := td.Binding
	cs := c.tab.ClassScope(id)
	for _, fd := range td.Fields {
		if fd.Init == nil || fd.Binding == types.NoFieldID {
			continue
		}
		init := c.tab.OpenBlock(cs, fd.Span)
		c.tab.Get(init).Static = fd.Modifiers.IsStatic() || td.IsInterface()
		c.expr(init, fd.Init, c.in.Field(fd.Binding).Type)
	}
	for _, md := range td.Methods {
		if md.Body == nil || md.Binding == types.NoMethodID {
			continue
		}
		ms := c.tab.BeginBody(md.Binding)
		c.block(ms, md.Body)
	}
}

func (c *checker) block(s scope.ScopeID, b *decl.Block) {
	bs := c.tab.OpenBlock(s, b.Span)
	for _, st := range b.Stmts {
		c.stmt(bs, st)
	}
}

func (c *checker) stmt(s scope.ScopeID, st decl.Stmt) {
	switch st := st.(type) {
	case *decl.Block:
		c.block(s, st)
	case *decl.LocalDecl:
		typ := types.NoTypeID
		if st.Type != nil {
			typ = c.typeRef(s, st.Type)
		}
		if st.Init != nil {
			init := c.expr(s, st.Init, typ)
			if st.Type == nil {
				typ = c.sys.Capture(init)
			}
		}
		c.tab.DeclareLocal(s, scope.Local{Name: st.Name, Type: typ, Final: st.Final, Span: st.Span})
	case *decl.ExprStmt:
		c.expr(s, st.X, types.NoTypeID)
	case *decl.Return:
		if st.X == nil {
			return
		}
		expected := types.NoTypeID
		if m := c.tab.EnclosingMethod(s); m != types.NoMethodID {
			expected = c.in.Method(m).Return
		}
		c.expr(s, st.X, expected)
	case *decl.CtorCall:
		cs := c.tab.OpenCtorCall(s, st.Span)
		args, ok := c.args(cs, st.Args)
		class := c.tab.EnclosingClass(s)
		target := c.thisType(class)
		if st.Super {
			target = c.in.Superclass(class)
		}
		if !ok || target == types.NoTypeID {
			return
		}
		m := c.tab.ResolveConstructor(cs, target, args, scope.Site{Pos: st.Span.Start})
		if !c.in.IsValidMethod(m) {
			c.methodProblem(m, st.Span)
		}
	}
}

// args types an argument list; ok is false when some argument has no
// usable type, in which case no invocation is resolved.
func (c *checker) args(s scope.ScopeID, xs []decl.Expr) ([]types.TypeID, bool) {
	out := make([]types.TypeID, len(xs))
	ok := true
	for i, x := range xs {
		out[i] = c.expr(s, x, types.NoTypeID)
		if out[i] == types.NoTypeID {
			ok = false
		}
	}
	return out, ok
}

// expr types x in s, reporting the problems it meets. NoTypeID means the
// type is unknown; callers then stay silent to avoid follow-up reports.
func (c *checker) expr(s scope.ScopeID, x decl.Expr, expected types.TypeID) types.TypeID {
	in := c.in
	site := scope.Site{Pos: x.Pos().Start, Expected: expected}
	switch x := x.(type) {
	case *decl.Literal:
		return c.literal(x)
	case *decl.Name:
		return c.name(s, x, false)
	case *decl.This:
		if x.Qualifier == "" {
			return c.thisType(c.tab.EnclosingClass(s))
		}
		typ := c.tab.ResolveQualifiedType(s, strings.Split(x.Qualifier, "."))
		if in.KindOf(typ) == types.KindProblem {
			c.typeProblem(typ, x.Span)
			return types.NoTypeID
		}
		return c.thisType(typ)
	case *decl.Call:
		return c.call(s, x, site)
	case *decl.New:
		return c.alloc(s, x, site)
	case *decl.Select:
		recv := c.receiver(s, x.X)
		if recv == types.NoTypeID || !in.IsReference(recv) {
			return types.NoTypeID
		}
		return c.field(s, recv, x.Name, x.Span.Start, x)
	case *decl.Cond:
		c.expr(s, x.Cond, in.Builtins().Boolean)
		a := c.expr(s, x.Then, expected)
		b := c.expr(s, x.Else, expected)
		return c.condType(a, b)
	case *decl.Cast:
		typ := c.typeRef(s, x.Type)
		c.expr(s, x.X, types.NoTypeID)
		return typ
	case *decl.Assign:
		target := c.expr(s, x.Target, types.NoTypeID)
		c.expr(s, x.Value, target)
		return target
	case *decl.NewArray:
		typ := c.typeRef(s, x.Type)
		elem := types.NoTypeID
		if typ != types.NoTypeID {
			elem = in.ElementType(typ)
		}
		for _, e := range x.Elems {
			c.expr(s, e, elem)
		}
		return typ
	}
	return types.NoTypeID
}

func (c *checker) literal(x *decl.Literal) types.TypeID {
	b := c.in.Builtins()
	switch x.Kind {
	case decl.LitInt:
		return b.Int
	case decl.LitLong:
		return b.Long
	case decl.LitFloat:
		return b.Float
	case decl.LitDouble:
		return b.Double
	case decl.LitChar:
		return b.Char
	case decl.LitBool:
		return b.Boolean
	case decl.LitString:
		return c.env.Known(env.KnownString)
	case decl.LitNull:
		return b.Null
	}
	return types.NoTypeID
}

// thisType is the type of "this" inside class: the class parameterized by
// its own type variables.
func (c *checker) thisType(class types.TypeID) types.TypeID {
	if class == types.NoTypeID {
		return types.NoTypeID
	}
	if tvs := c.in.TypeVars(class); len(tvs) > 0 {
		return c.in.Parameterized(class, tvs, types.NoTypeID)
	}
	return class
}

// receiver types the target of a field access or method call. A simple
// name there may also denote a type.
func (c *checker) receiver(s scope.ScopeID, x decl.Expr) types.TypeID {
	if n, ok := x.(*decl.Name); ok {
		return c.name(s, n, true)
	}
	return c.expr(s, x, types.NoTypeID)
}

// name types a simple or dotted name. The leading segment of a dotted name
// or a receiver may be a variable, a type or a package; packages extend
// until a type is found and the remaining segments select fields. A lone
// name in value position is a variable.
func (c *checker) name(s scope.ScopeID, x *decl.Name, receiver bool) types.TypeID {
	in := c.in
	parts := strings.Split(x.Name, ".")
	site := scope.Site{Pos: x.Span.Start}

	var typ types.TypeID
	pkg := ""
	i := 1
	switch {
	case parts[0] == "super":
		typ = in.Superclass(c.tab.EnclosingClass(s))
	case len(parts) == 1 && !receiver:
		b := c.tab.ResolveName(s, parts[0], scope.MaskVariable, site)
		return c.bindingType(b, x)
	default:
		b := c.tab.ResolveName(s, parts[0], scope.MaskVariable|scope.MaskType|scope.MaskPackage, site)
		if b.Kind == scope.BindPackage {
			pkg = b.Package
			break
		}
		typ = c.bindingType(b, x)
	}
	for ; pkg != "" && i < len(parts); i++ {
		if id := c.env.LookupQualified(pkg, parts[i]); id != types.NoTypeID {
			typ = id
			i++
			break
		}
		pkg += "." + parts[i]
	}
	if pkg != "" && typ == types.NoTypeID {
		c.report(CodeFor(types.NotFound), x.Span, reasonMessage(types.NotFound, "type", strings.Join(parts, ".")))
		return types.NoTypeID
	}
	for ; i < len(parts) && typ != types.NoTypeID; i++ {
		if !in.IsReference(typ) {
			return types.NoTypeID
		}
		if in.IsClassLike(typ) {
			if mt := in.MemberTypeNamed(in.GenericOf(typ), parts[i]); mt != types.NoTypeID && i < len(parts)-1 {
				typ = mt
				continue
			}
		}
		typ = c.field(s, typ, parts[i], x.Span.Start, x)
	}
	return typ
}

// bindingType reports a problem binding or returns the type of a valid
// one.
func (c *checker) bindingType(b scope.Binding, x *decl.Name) types.TypeID {
	if b.Problem != types.NoProblem {
		switch b.Kind {
		case scope.BindField:
			c.fieldProblem(b.Field, "variable", x.Span)
		default:
			c.typeProblem(b.Type, x.Span)
		}
		return types.NoTypeID
	}
	switch b.Kind {
	case scope.BindLocal:
		return c.tab.Locals.Get(b.Local).Type
	case scope.BindField:
		return c.in.Field(b.Field).Type
	case scope.BindType:
		return b.Type
	}
	return types.NoTypeID
}

func (c *checker) field(s scope.ScopeID, recv types.TypeID, name string, pos uint32, x decl.Expr) types.TypeID {
	f := c.tab.ResolveField(s, recv, name, scope.Site{Pos: pos})
	if c.in.FieldReason(f) != types.NoProblem {
		c.fieldProblem(f, "field", x.Pos())
		return types.NoTypeID
	}
	return c.in.Field(f).Type
}

func (c *checker) call(s scope.ScopeID, x *decl.Call, site scope.Site) types.TypeID {
	in := c.in
	var recv types.TypeID
	if x.Receiver != nil {
		recv = c.receiver(s, x.Receiver)
		if recv == types.NoTypeID || !in.IsReference(recv) {
			c.args(s, x.Args)
			return types.NoTypeID
		}
	}
	for _, ta := range x.TypeArgs {
		site.TypeArgs = append(site.TypeArgs, c.typeRef(s, ta))
	}
	args, ok := c.args(s, x.Args)
	if !ok {
		return types.NoTypeID
	}
	var m types.MethodID
	if x.Receiver == nil {
		m = c.tab.ResolveImplicitMethod(s, x.Name, args, site)
	} else {
		m = c.tab.ResolveMethod(s, recv, x.Name, args, site)
	}
	if !in.IsValidMethod(m) {
		c.methodProblem(m, x.Span)
		return types.NoTypeID
	}
	return in.Method(m).Return
}

func (c *checker) alloc(s scope.ScopeID, x *decl.New, site scope.Site) types.TypeID {
	in := c.in
	typ := c.typeRef(s, x.Type)
	args, ok := c.args(s, x.Args)
	if typ == types.NoTypeID || !ok {
		return typ
	}
	var m types.MethodID
	if x.Diamond {
		typ, m = c.tab.ResolveDiamond(s, in.GenericOf(typ), args, site)
	} else {
		m = c.tab.ResolveConstructor(s, typ, args, site)
	}
	if !in.IsValidMethod(m) {
		c.methodProblem(m, x.Span)
	}
	return typ
}

// condType is the type of a conditional expression: equal types stay,
// a primitive widens to the other, a null branch takes the other branch
// and references meet in their lub.
func (c *checker) condType(a, b types.TypeID) types.TypeID {
	in := c.in
	null := in.Builtins().Null
	switch {
	case a == types.NoTypeID || b == types.NoTypeID:
		return types.NoTypeID
	case c.sys.Same(a, b):
		return a
	case a == null:
		return c.box(b)
	case b == null:
		return c.box(a)
	case in.IsPrimitive(a) && in.IsPrimitive(b):
		if c.sys.IsWideningPrimitive(a, b) {
			return b
		}
		if c.sys.IsWideningPrimitive(b, a) {
			return a
		}
		return types.NoTypeID
	}
	return c.sys.LUB([]types.TypeID{c.box(a), c.box(b)})
}

func (c *checker) box(t types.TypeID) types.TypeID {
	if c.in.IsPrimitive(t) {
		return c.sys.BoxOf(t)
	}
	return t
}
