// Package trace provides the tracing subsystem of jbind.
//
// Tracing follows the resolution pipeline: driver phases, per-unit checking
// and the demand-driven completion of bindings. It is the main tool for
// finding out why a lookup took a particular path or why a run stalls.
//
// # Usage
//
//	jbind check --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Levels gate scopes: LevelPhase emits driver and pass events, LevelDetail
// adds per-unit events, LevelDebug adds binding-level events (hierarchy
// completion, overload selection, lub computation).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "bind", parentID)
//	defer span.End("")
package trace
