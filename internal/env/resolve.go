package env

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/sig"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// resolveCtx is threaded through signature resolution instead of ambient
// state. hierarchy is set while resolving supertypes: argument-less class
// references then stay plain declarations so that no other hierarchy is
// forced to complete.
type resolveCtx struct {
	owner      types.TypeID
	methodVars []types.TypeID
	hierarchy  bool
	missing    bool
}

var baseByDescriptor = map[byte]types.BaseKind{
	'Z': types.BaseBoolean,
	'B': types.BaseByte,
	'C': types.BaseChar,
	'S': types.BaseShort,
	'I': types.BaseInt,
	'J': types.BaseLong,
	'F': types.BaseFloat,
	'D': types.BaseDouble,
	'V': types.BaseVoid,
}

// fromSig turns a parsed signature type into a binding.
func (e *Environment) fromSig(ctx *resolveCtx, t *sig.Type) types.TypeID {
	if t == nil {
		return types.NoTypeID
	}
	switch t.Kind {
	case sig.KindBase:
		return e.in.Base(baseByDescriptor[t.Base])
	case sig.KindArray:
		dims, leaf := t.Dims()
		return e.in.Array(e.fromSig(ctx, leaf), dims)
	case sig.KindTypeVar:
		return e.typeVarNamed(ctx, t.Var)
	case sig.KindClass:
		return e.classFromSig(ctx, t)
	}
	return types.NoTypeID
}

func (e *Environment) classFromSig(ctx *resolveCtx, t *sig.Type) types.TypeID {
	var (
		name   string
		result types.TypeID
	)
	for i, seg := range t.Segments {
		if i == 0 {
			name = seg.Name
		} else {
			name += "$" + seg.Name
		}
		decl := e.classByName(ctx, name)
		enclosing := result
		if enclosing != types.NoTypeID && e.in.ClassModifiers(decl).IsStatic() {
			enclosing = types.NoTypeID
		}
		switch {
		case len(seg.Args) > 0:
			args := make([]types.TypeID, len(seg.Args))
			for rank, a := range seg.Args {
				args[rank] = e.argFromSig(ctx, decl, rank, a)
			}
			result = e.in.Parameterized(decl, args, enclosing)
		case enclosing != types.NoTypeID && e.in.KindOf(enclosing) == types.KindParameterized:
			result = e.in.Parameterized(decl, nil, enclosing)
		case !ctx.hierarchy && e.in.IsGeneric(decl):
			result = e.in.Raw(decl, enclosing)
		default:
			result = decl
		}
	}
	return result
}

func (e *Environment) argFromSig(ctx *resolveCtx, generic types.TypeID, rank int, a sig.Arg) types.TypeID {
	switch a.Wild {
	case '*':
		return e.in.Wildcard(generic, rank, types.WildUnbound, types.NoTypeID, nil)
	case '+':
		return e.in.Wildcard(generic, rank, types.WildExtends, e.fromSig(ctx, a.Type), nil)
	case '-':
		return e.in.Wildcard(generic, rank, types.WildSuper, e.fromSig(ctx, a.Type), nil)
	default:
		return e.fromSig(ctx, a.Type)
	}
}

// typeVarNamed looks a variable up in the method, then the owner and its
// non-static enclosing classes.
func (e *Environment) typeVarNamed(ctx *resolveCtx, name string) types.TypeID {
	for _, tv := range ctx.methodVars {
		if info, _ := e.in.TypeVarInfo(tv); info.Name == name {
			return tv
		}
	}
	for cur := ctx.owner; cur != types.NoTypeID; cur = e.in.Enclosing(cur) {
		if tv := e.in.TypeVarNamed(cur, name); tv != types.NoTypeID {
			return tv
		}
		if e.in.ClassModifiers(cur).IsStatic() {
			break
		}
	}
	ctx.missing = true
	return e.in.NewProblemType(name, types.NotFound, types.NoTypeID)
}

// typeVarDecl is the payload of a binary type variable until its bounds are
// resolved. vars points at the sibling list so that F-bounds resolve.
type typeVarDecl struct {
	param sig.TypeParam
	owner types.TypeID
	vars  *[]types.TypeID
}

func (e *Environment) declareTypeVars(owner types.TypeID, params []sig.TypeParam, method bool) []types.TypeID {
	if len(params) == 0 {
		return nil
	}
	tvs := make([]types.TypeID, len(params))
	var methodVars *[]types.TypeID
	if method {
		methodVars = &tvs
	}
	declType := owner
	if method {
		declType = types.NoTypeID
	}
	for i, p := range params {
		tvs[i] = e.in.NewTypeVar(p.Name, i, declType)
		e.in.SetTypeVarDecl(tvs[i], &typeVarDecl{param: p, owner: owner, vars: methodVars})
	}
	return tvs
}
