package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open Begin/End pair. The zero-ID span returned for filtered
// scopes ignores every call.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

var disabled = &Span{}

// Begin opens a span of scope under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{Time: s.started, Kind: KindSpanBegin, Scope: scope, SpanID: s.id, ParentID: parent, Name: name})
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s.tracer != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	d := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  d,
		Attrs:    s.attrs,
	})
	return d
}

// ID is 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event; it bypasses scope filtering and is meant
// for rare events such as aborts.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}

type tracerKey struct{}
type parentKey struct{}

// FromContext returns the tracer stored by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentID returns the span recorded by WithSpan, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(parentKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

func WithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, parentKey{}, span.ID())
}
