// Package observ records how long the driver phases take and tells an
// optional observer about phase boundaries.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Status is the boundary an Event reports.
type Status uint8

const (
	Started Status = iota
	Finished
)

// Event is sent to an Observer when a phase starts or finishes. Elapsed
// is set on Finished.
type Event struct {
	Phase   string
	Status  Status
	Elapsed time.Duration
}

// Observer receives phase events on the goroutine that runs the phases.
type Observer func(Event)

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
	done  bool
}

// Mark identifies a started phase.
type Mark int

// Timer records consecutive phases. It is not safe for concurrent use.
type Timer struct {
	phases   []phase
	observer Observer
}

// NewTimer returns a timer that forwards boundaries to obs, which may be
// nil.
func NewTimer(obs Observer) *Timer {
	return &Timer{phases: make([]phase, 0, 4), observer: obs}
}

// Start opens phase name.
func (t *Timer) Start(name string) Mark {
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	t.notify(Event{Phase: name, Status: Started})
	return Mark(len(t.phases) - 1)
}

// Stop closes the phase opened by m. Stopping twice keeps the first
// measurement.
func (t *Timer) Stop(m Mark, note string) time.Duration {
	if int(m) < 0 || int(m) >= len(t.phases) || t.phases[m].done {
		return 0
	}
	p := &t.phases[m]
	p.dur = time.Since(p.start)
	p.note = note
	p.done = true
	t.notify(Event{Phase: p.name, Status: Finished, Elapsed: p.dur})
	return p.dur
}

func (t *Timer) notify(ev Event) {
	if t.observer != nil {
		t.observer(ev)
	}
}

// PhaseReport is the serialized form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the whole run.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists the finished phases in start order.
func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		if !p.done {
			continue
		}
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "%-6s %8.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%-6s %8.1f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
