// Package metrics counts resolution work: lookups by kind, problem bindings
// by reason, lazy slot completions and overload candidate set sizes.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Recorder receives resolution events. Implementations must be cheap; the
// resolver calls them on hot paths.
type Recorder interface {
	Lookup(kind string)
	Problem(reason string)
	Completion(slot string)
	Candidates(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Lookup(string)     {}
func (Nop) Problem(string)    {}
func (Nop) Completion(string) {}
func (Nop) Candidates(int)    {}

// Registry is a Recorder backed by a private prometheus registry.
type Registry struct {
	reg         *prometheus.Registry
	lookups     *prometheus.CounterVec
	problems    *prometheus.CounterVec
	completions *prometheus.CounterVec
	candidates  prometheus.Histogram
}

// New builds a registry with the jbind resolution collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jbind",
			Subsystem: "resolve",
			Name:      "lookups_total",
			Help:      "Name and member lookups by kind",
		}, []string{"kind"}),
		problems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jbind",
			Subsystem: "resolve",
			Name:      "problems_total",
			Help:      "Problem bindings produced by reason",
		}, []string{"reason"}),
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jbind",
			Subsystem: "env",
			Name:      "completions_total",
			Help:      "Lazy slot completions by slot kind",
		}, []string{"slot"}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jbind",
			Subsystem: "overload",
			Name:      "candidates",
			Help:      "Candidate methods considered per invocation",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

func (r *Registry) Lookup(kind string)     { r.lookups.WithLabelValues(kind).Inc() }
func (r *Registry) Problem(reason string)  { r.problems.WithLabelValues(reason).Inc() }
func (r *Registry) Completion(slot string) { r.completions.WithLabelValues(slot).Inc() }
func (r *Registry) Candidates(n int)       { r.candidates.Observe(float64(n)) }

// Gatherer exposes the underlying registry, e.g. for promhttp.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteText dumps every collected family in the text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Counts returns the lookup/problem/completion totals keyed by
// "<family>/<label>" for summaries.
func (r *Registry) Counts() (map[string]float64, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				if h := m.GetHistogram(); h != nil {
					out[mf.GetName()+"/count"] = float64(h.GetSampleCount())
				}
				continue
			}
			label := ""
			if pairs := m.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}
			out[mf.GetName()+"/"+label] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}
