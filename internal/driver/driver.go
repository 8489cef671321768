// Package driver runs jbind over a set of Java sources: it loads the class
// path, parses the sources in parallel, declares every unit in one lookup
// environment and resolves headers and method bodies unit by unit,
// collecting problem bindings as diagnostics.
package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/metrics"
	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
)

// Options configure one run.
type Options struct {
	Config config.Options
	// Tracer receives driver, pass, unit and binding spans; nil disables
	// tracing unless ctx carries one.
	Tracer trace.Tracer
	// Metrics collects resolution counters; nil creates a private registry.
	Metrics *metrics.Registry
	// Observer is notified at phase boundaries.
	Observer observ.Observer
	// Timings appends an OBS6001 diagnostic with the phase report.
	Timings bool
	// Provider, when set, is consulted before the class path.
	Provider binary.Provider
}

// UnitSummary describes the outcome for one compilation unit.
type UnitSummary struct {
	Path    string
	File    source.FileID
	Package string
	// Types lists the qualified names of the declared classes.
	Types []string
	// Checked is false for units pulled in from the source path only.
	Checked  bool
	Problems int
	Aborted  bool
}

// Result is the outcome of Check.
type Result struct {
	RunID   string
	FileSet *source.FileSet
	Bag     *diag.Bag
	Units   []UnitSummary
	Metrics *metrics.Registry
	Timer   *observ.Timer
}

// Check resolves every source found under paths. Files and directories are
// accepted; directories are searched recursively for .java files. Semantic
// problems land in the result's bag; the error is reserved for failures
// that prevent the run itself.
func Check(ctx context.Context, opts Options, paths []string) (*Result, error) {
	s, err := Open(ctx, opts, paths)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.CheckUnits(ctx); err != nil {
		return nil, err
	}
	return s.Finish(), nil
}

// Open loads, parses and declares the sources under paths without
// checking them. The session answers resolution queries afterwards; the
// caller closes it.
func Open(ctx context.Context, opts Options, paths []string) (*Session, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Session{
		opts:   opts,
		RunID:  uuid.NewString(),
		Timer:  observ.NewTimer(opts.Observer),
		Files:  source.NewFileSet(),
		Bag:    diag.NewBag(opts.Config.MaxDiagnostics),
		tracer: opts.Tracer,
	}
	s.reporter = diag.NewDedupReporter(diag.BagReporter{Bag: s.Bag})
	s.span = trace.Begin(s.tracer, trace.ScopeDriver, "driver.check", trace.ParentID(ctx)).
		WithExtra("run_id", s.RunID)

	if err := s.load(ctx, paths); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.parse(ctx); err != nil {
		s.Close()
		return nil, err
	}
	s.declare()
	return s, nil
}

func (s *Session) begin(name string) observ.Mark {
	s.pass = trace.Begin(s.tracer, trace.ScopePass, "driver."+name, s.span.ID())
	return s.Timer.Start(name)
}

func (s *Session) end(m observ.Mark, note string) {
	s.Timer.Stop(m, note)
	s.pass.End(note)
}

// Finish records the run's timings and summaries and returns the result.
// The session stays usable for queries.
func (s *Session) Finish() *Result {
	s.Bag.Prune(s.opts.Config.MinSeverity)
	if s.opts.Timings {
		if d, err := timingDiagnostic(s.RunID, s.Timer.Report()); err == nil {
			s.Bag.Force(d)
		}
	}
	s.Bag.Sort()
	s.span.End(fmt.Sprintf("%d diagnostics", s.Bag.Len()))
	return &Result{
		RunID:   s.RunID,
		FileSet: s.Files,
		Bag:     s.Bag,
		Units:   s.summaries,
		Metrics: s.opts.Metrics,
		Timer:   s.Timer,
	}
}
