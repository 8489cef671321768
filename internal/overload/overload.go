// Package overload selects the method an invocation refers to. Candidates
// are tried in three phases (strict, loose with boxing, variable arity) and
// only the first phase that finds applicable methods counts. Among those the
// most specific one wins.
package overload

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/infer"
	"github.com/groovy/groovy-eclipse-sub042/internal/metrics"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

// Level is the applicability level of a candidate.
type Level uint8

const (
	NotCompatible Level = iota
	Compatible
	AutoboxCompatible
	VarargsCompatible
)

func (l Level) String() string {
	switch l {
	case Compatible:
		return "compatible"
	case AutoboxCompatible:
		return "autobox"
	case VarargsCompatible:
		return "varargs"
	default:
		return "incompatible"
	}
}

// Inferrer instantiates generic candidates for a call.
type Inferrer interface {
	Infer(m types.MethodID, call infer.Call) types.MethodID
}

// Site describes the invocation being resolved.
type Site struct {
	// TypeArgs are explicit method type arguments.
	TypeArgs []types.TypeID
	// Expected is the assignment target of the call, if any.
	Expected types.TypeID
	// CanSee filters candidates by visibility; nil admits all.
	CanSee func(types.MethodID) bool
	// TypeVisible checks the element type of a variable-arity winner; nil
	// admits all.
	TypeVisible func(types.TypeID) bool
}

// Options configures a Resolver. Zero values fall back to the
// environment's tracer and recorder and to infer.Engine.
type Options struct {
	Features config.Features
	Inferrer Inferrer
	Tracer   trace.Tracer
	Metrics  metrics.Recorder
}

// Resolver runs overload resolution over one type system.
type Resolver struct {
	sys       *typesys.System
	in        *types.Interner
	features  config.Features
	inferrer  Inferrer
	tracer    trace.Tracer
	rec       metrics.Recorder
	factories map[types.MethodID]types.MethodID
}

// New creates a resolver.
func New(sys *typesys.System, opts Options) *Resolver {
	if opts.Inferrer == nil {
		opts.Inferrer = infer.New(sys)
	}
	if opts.Tracer == nil {
		opts.Tracer = sys.Env().Tracer()
	}
	if opts.Metrics == nil {
		opts.Metrics = sys.Env().Metrics()
	}
	return &Resolver{
		sys:       sys,
		in:        sys.Types(),
		features:  opts.Features,
		inferrer:  opts.Inferrer,
		tracer:    opts.Tracer,
		rec:       opts.Metrics,
		factories: make(map[types.MethodID]types.MethodID),
	}
}

// System returns the type system the resolver works on.
func (r *Resolver) System() *typesys.System { return r.sys }

type invocation struct {
	selector  string
	declaring types.TypeID
	args      []types.TypeID
	site      Site
}

func (r *Resolver) problem(inv invocation, reason types.ProblemReason, closest types.MethodID) types.MethodID {
	r.rec.Problem(reason.String())
	return r.in.NewProblemMethod(inv.selector, inv.declaring, inv.args, reason, closest)
}

// Select picks the method among methods that an invocation of selector
// with argument types args resolves to. methods should already be views
// through the receiver (typesys.MethodIn). The result is a problem method
// when nothing or more than one method fits.
func (r *Resolver) Select(selector string, declaring types.TypeID, methods []types.MethodID, args []types.TypeID, site Site) types.MethodID {
	span := trace.Begin(r.tracer, trace.ScopeBinding, "overload.select", 0).WithExtra("selector", selector)
	r.rec.Candidates(len(methods))
	inv := invocation{selector: selector, declaring: declaring, args: args, site: site}
	result := r.selectMethod(inv, methods)
	if r.tracer.Enabled() {
		span.End(r.in.MethodReason(result).String())
	}
	return result
}

func (r *Resolver) selectMethod(inv invocation, methods []types.MethodID) types.MethodID {
	in := r.in
	if len(methods) == 0 {
		return r.problem(inv, types.NotFound, types.NoMethodID)
	}
	var visible, hidden []types.MethodID
	for _, m := range methods {
		if inv.site.CanSee != nil && !inv.site.CanSee(m) {
			hidden = append(hidden, m)
			continue
		}
		visible = append(visible, m)
	}

	found, typeProblem := r.applicable(visible, inv)
	if len(found) == 0 {
		if typeProblem != types.NoMethodID {
			r.rec.Problem(in.MethodReason(typeProblem).String())
			return typeProblem
		}
		if len(hidden) > 0 {
			if h, _ := r.applicable(hidden, inv); len(h) > 0 {
				return r.problem(inv, types.NotVisible, h[0].method)
			}
		}
		return r.problem(inv, types.NotFound, closestByArity(in, methods, len(inv.args)))
	}

	winner := found[0].method
	if len(found) > 1 {
		winner = r.mostSpecific(inv, found)
	}
	if found[0].level == VarargsCompatible && in.IsValidMethod(winner) && inv.site.TypeVisible != nil {
		params := in.Method(winner).Params
		if elem := in.ElementType(params[len(params)-1]); elem != types.NoTypeID && !inv.site.TypeVisible(in.Erasure(elem)) {
			return r.problem(inv, types.VarargsElementTypeNotVisible, winner)
		}
	}
	return winner
}

func closestByArity(in *types.Interner, methods []types.MethodID, n int) types.MethodID {
	for _, m := range methods {
		if in.Method(m).Arity == n {
			return m
		}
	}
	return methods[0]
}
