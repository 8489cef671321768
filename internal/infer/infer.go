// Package infer instantiates generic methods at invocation sites. The
// engine collects equality, lower and upper bounds for each method type
// variable from the argument types (and optionally from the assignment
// target), resolves them in declaration order and checks the declared
// bounds against the result.
package infer

import (
	"strconv"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/subst"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Call describes one invocation of a candidate method.
type Call struct {
	Args []types.TypeID
	// TypeArgs are explicit method type arguments; inference is skipped
	// when present.
	TypeArgs []types.TypeID
	// Varargs spreads trailing arguments over the element type of the last
	// parameter.
	Varargs bool
	// Expected is the assignment target, consulted for variables the
	// arguments leave unconstrained.
	Expected types.TypeID
}

// Engine is the default method type-variable inference.
type Engine struct {
	sys   *typesys.System
	in    *types.Interner
	cache map[string]types.MethodID
}

// New returns an engine over sys.
func New(sys *typesys.System) *Engine {
	return &Engine{sys: sys, in: sys.Types(), cache: make(map[string]types.MethodID)}
}

// Infer returns m instantiated for call. Non-generic methods and members of
// raw types come back unchanged. NoMethodID means the call cannot
// instantiate m. Explicit type arguments that violate the declared bounds
// produce a problem method.
func (e *Engine) Infer(m types.MethodID, call Call) types.MethodID {
	in := e.in
	info := in.Method(m)
	if len(info.TypeVars) == 0 || info.Variant == types.VariantMemberOfRaw {
		return m
	}
	if len(call.TypeArgs) > 0 {
		return e.explicit(m, info, call)
	}

	formals, ok := expandFormals(in, info.Params, len(call.Args), call.Varargs)
	if !ok {
		return types.NoMethodID
	}
	s := newSolver(e, info.TypeVars)
	for i, a := range call.Args {
		s.sub(a, formals[i], 0)
	}
	if call.Expected != types.NoTypeID && info.Return != types.NoTypeID && s.mentions(info.Return) {
		for i := range s.vars {
			if s.b[i].empty() && mentionsVar(in, info.Return, s.vars[i], 0) {
				s.super(call.Expected, info.Return, 0)
				break
			}
		}
	}
	inferred, ok := s.solve()
	if !ok {
		return types.NoMethodID
	}
	if !e.boundsHold(info, inferred) {
		return types.NoMethodID
	}
	return e.instantiate(m, info, inferred)
}

// explicit instantiates m with the invocation's own type arguments.
// Problem methods carry the invocation's argument types.
func (e *Engine) explicit(m types.MethodID, info types.MethodInfo, call Call) types.MethodID {
	if len(call.TypeArgs) != len(info.TypeVars) {
		return e.in.NewProblemMethod(info.Selector, info.Declaring, call.Args, types.TypeArgumentArityMismatch, m)
	}
	if !e.boundsHold(info, call.TypeArgs) {
		return e.in.NewProblemMethod(info.Selector, info.Declaring, call.Args, types.ParameterizedMethodTypeMismatch, m)
	}
	return e.instantiate(m, info, call.TypeArgs)
}

// boundsHold checks every inferred argument against its declared bounds
// after substitution. Unchecked conversion is accepted.
func (e *Engine) boundsHold(info types.MethodInfo, args []types.TypeID) bool {
	m := e.mapping(info, args)
	for i, tv := range info.TypeVars {
		for _, b := range e.in.TypeVarBounds(tv) {
			if b == e.in.Object() {
				continue
			}
			if !e.sys.Strict(args[i], subst.Type(e.sys, m, b)).OK() {
				return false
			}
		}
	}
	return true
}

// mapping maps the method variables to args, composed with the declaring
// type's own arguments when the method is a member of a parameterization.
func (e *Engine) mapping(info types.MethodInfo, args []types.TypeID) subst.Mapping {
	m := subst.NewMap(info.TypeVars, args)
	if e.in.KindOf(info.Declaring) == types.KindParameterized {
		return subst.Compose(e.sys, m, subst.ForParameterized(e.in, info.Declaring))
	}
	return m
}

func (e *Engine) instantiate(m types.MethodID, info types.MethodInfo, args []types.TypeID) types.MethodID {
	key := instKey(m, args)
	if id, ok := e.cache[key]; ok {
		return id
	}
	sig, _ := subst.Signature(e.sys, subst.NewMap(info.TypeVars, args), types.MethodSignature{
		Params: info.Params,
		Return: info.Return,
		Thrown: info.Thrown,
	})
	id := e.in.DeriveMethod(m, types.VariantGenericInvocation, info.Declaring, sig, args)
	e.cache[key] = id
	return id
}

func instKey(m types.MethodID, args []types.TypeID) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(m), 10))
	for _, a := range args {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return sb.String()
}

// expandFormals lines the parameters up with n arguments. With varargs the
// last parameter's element type covers the trailing arguments, including
// none.
func expandFormals(in *types.Interner, params []types.TypeID, n int, varargs bool) ([]types.TypeID, bool) {
	if !varargs {
		return params, len(params) == n
	}
	if len(params) == 0 || n < len(params)-1 {
		return nil, false
	}
	fixed := len(params) - 1
	elem := in.ElementType(params[fixed])
	if elem == types.NoTypeID {
		return nil, false
	}
	out := make([]types.TypeID, n)
	copy(out, params[:fixed])
	for i := fixed; i < n; i++ {
		out[i] = elem
	}
	return out, true
}

// ExpandFormals is expandFormals for callers outside inference.
func ExpandFormals(in *types.Interner, params []types.TypeID, n int, varargs bool) ([]types.TypeID, bool) {
	return expandFormals(in, params, n, varargs)
}
