package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/javasrc"
)

type parseResult struct {
	unit  *decl.Unit
	diags []diag.Diagnostic
}

// parse reads every input in parallel. Each worker owns a parser; results
// are stored by input index so no locking is needed.
func (s *Session) parse(ctx context.Context) error {
	idx := s.begin("parse")
	errs := 0
	defer func() { s.end(idx, fmt.Sprintf("%d files, %d syntax errors", len(s.inputs), errs)) }()

	s.units = make([]*decl.Unit, len(s.inputs))
	if len(s.inputs) == 0 {
		return nil
	}
	jobs := s.opts.Config.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(s.inputs))

	results := make([]parseResult, len(s.inputs))
	next := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(next)
		for i := range s.inputs {
			select {
			case next <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for range jobs {
		g.Go(func() error {
			p := javasrc.NewParser(s.Files)
			defer p.Close()
			for i := range next {
				u, diags, err := p.Parse(gctx, s.inputs[i].file)
				if err != nil {
					return err
				}
				results[i] = parseResult{unit: u, diags: diags}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for i, r := range results {
		s.units[i] = r.unit
		for _, d := range r.diags {
			s.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
			errs++
		}
	}
	return nil
}
