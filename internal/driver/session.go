package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
	"github.com/groovy/groovy-eclipse-sub042/internal/overload"
	"github.com/groovy/groovy-eclipse-sub042/internal/scope"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

// Session holds one lookup environment with its declared sources. It is
// not safe for concurrent use once declared.
type Session struct {
	opts   Options
	tracer trace.Tracer
	span   *trace.Span
	pass   *trace.Span

	RunID string
	Timer *observ.Timer
	Files *source.FileSet
	Bag   *diag.Bag

	Env   *env.Environment
	Table *scope.Table

	reporter diag.Reporter
	provider binary.Provider
	closers  []func() error

	inputs    []input
	units     []*decl.Unit
	scopes    []scope.ScopeID
	declSpans map[types.TypeID]source.Span
	summaries []UnitSummary
	findings  int

	queryScope scope.ScopeID
}

// input is one loaded source file. Source path files are declared but not
// checked.
type input struct {
	path    string
	file    source.FileID
	checked bool
}

// Close releases the class path and the descriptor cache.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Provider returns the binary provider chain of the session.
func (s *Session) Provider() binary.Provider { return s.provider }

// Units returns the declared units in input order.
func (s *Session) Units() []*decl.Unit { return s.units }

// Types returns the session's interner.
func (s *Session) Types() *types.Interner { return s.Env.Types() }

// System returns the type system of the session.
func (s *Session) System() *typesys.System { return s.Table.System() }

func (s *Session) declare() {
	idx := s.begin("bind")
	s.Env = env.New(types.NewInterner(), s.provider, env.Options{
		Config:  s.opts.Config,
		Tracer:  s.tracer,
		Metrics: s.opts.Metrics,
	})
	sys := typesys.New(s.Env)
	s.Table = scope.New(overload.New(sys, overload.Options{Features: s.opts.Config.Features}))
	s.declSpans = make(map[types.TypeID]source.Span)
	s.scopes = make([]scope.ScopeID, len(s.units))
	for i, u := range s.units {
		if u == nil {
			continue
		}
		s.scopes[i] = s.Table.DeclareUnit(u)
		u.Walk(func(td, _ *decl.TypeDecl) {
			s.declSpans[td.Binding] = td.Span
		})
	}
	s.end(idx, fmt.Sprintf("%d classes", len(s.declSpans)))
}

// CheckUnits resolves the headers and bodies of every checked unit and
// reports the findings of the environment.
func (s *Session) CheckUnits(ctx context.Context) error {
	idx := s.begin("check")
	defer func() { s.end(idx, fmt.Sprintf("%d units", len(s.summaries))) }()

	for i, u := range s.units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if u == nil {
			continue
		}
		sum := s.checkUnit(u, s.scopes[i], s.inputs[i].checked)
		s.summaries = append(s.summaries, sum)
	}
	s.reportFindings()
	return nil
}

// LookupClass finds a class by qualified source name, such as
// "java.util.Map.Entry" or "com.example.Outer.Inner".
func (s *Session) LookupClass(name string) (types.TypeID, error) {
	if s.Table == nil {
		return types.NoTypeID, errors.New("session is not declared")
	}
	var (
		id  types.TypeID
		err error
	)
	s.guard(func() {
		id = s.Table.ResolveQualifiedType(s.rootScope(), strings.Split(name, "."))
	}, &err)
	if err != nil {
		return types.NoTypeID, err
	}
	if in := s.Types(); in.KindOf(id) == types.KindProblem {
		return types.NoTypeID, fmt.Errorf("%s: %s", name, in.Reason(id))
	}
	return id, nil
}

// rootScope is a unit scope in the unnamed package without imports; it
// sees fully qualified names only.
func (s *Session) rootScope() scope.ScopeID {
	if s.queryScope == scope.NoScopeID {
		s.queryScope = s.Table.DeclareUnit(&decl.Unit{File: source.FileID(0)})
	}
	return s.queryScope
}

// guard runs fn and turns a fatal abort into an error.
func (s *Session) guard(fn func(), errp *error) {
	defer func() {
		if r := recover(); r != nil {
			a, ok := env.AsAbort(r)
			if !ok {
				panic(r)
			}
			*errp = a
		}
	}()
	fn()
}

// Query runs fn against the session's table; a fatal abort inside fn is
// returned as the error.
func (s *Session) Query(fn func()) (err error) {
	s.guard(fn, &err)
	return err
}
