// Package env is the lookup environment: it owns the binding arena, finds
// classes by name through a binary provider or the source declarations,
// completes lazy slots on first demand, creates missing types and carries
// the single fatal abort used when a provider fails.
package env

import (
	"errors"
	"fmt"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/metrics"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// SourceCompleter resolves the slots of source classes. The scope table
// implements it; every method is called at most once per slot.
type SourceCompleter interface {
	SourceSupertypes(id types.TypeID) (superclass types.TypeID, interfaces []types.TypeID)
	SourceMembers(id types.TypeID) (fields []types.FieldID, methods []types.MethodID, memberTypes []types.TypeID)
	SourceTypeVarBounds(tv types.TypeID) []types.TypeID
	SourceMethod(m types.MethodID) types.MethodSignature
	SourceField(f types.FieldID) types.TypeID
}

// Options configure an Environment.
type Options struct {
	Config  config.Options
	Tracer  trace.Tracer
	Metrics metrics.Recorder
}

// FindingKind classifies structural anomalies discovered while completing
// bindings. They are not problem bindings; the driver reports them.
type FindingKind uint8

const (
	FindingMissingType FindingKind = iota + 1
	FindingHierarchyCycle
	FindingIllegalSuper
	FindingDefectiveContainer
)

func (k FindingKind) String() string {
	switch k {
	case FindingMissingType:
		return "missing-type"
	case FindingHierarchyCycle:
		return "hierarchy-cycle"
	case FindingIllegalSuper:
		return "illegal-super"
	case FindingDefectiveContainer:
		return "defective-container"
	default:
		return "unknown"
	}
}

// Finding is one recorded anomaly. Type is the binding it was found on and
// Name the offending type name.
type Finding struct {
	Kind FindingKind
	Type types.TypeID
	Name string
}

// Abort is the panic value raised when a provider fails with anything other
// than binary.ErrNotFound. The driver recovers it at the unit boundary.
type Abort struct {
	Name string
	Err  error
}

func (a *Abort) Error() string {
	return fmt.Sprintf("reading %s: %v", a.Name, a.Err)
}

func (a *Abort) Unwrap() error { return a.Err }

// AsAbort reports whether a recovered panic value is an Abort.
func AsAbort(recovered any) (*Abort, bool) {
	if err, ok := recovered.(error); ok {
		var a *Abort
		if errors.As(err, &a) {
			return a, true
		}
	}
	return nil, false
}

// Environment is the lookup environment. It is not safe for concurrent use.
type Environment struct {
	in       *types.Interner
	provider binary.Provider
	source   SourceCompleter
	opts     config.Options
	tracer   trace.Tracer
	rec      metrics.Recorder

	byName   map[string]types.TypeID
	missing  map[string]types.TypeID
	notFound map[string]bool
	packages map[string]bool
	listed   bool

	known       [knownCount]types.TypeID
	arrayLength types.FieldID
	arrayClone  map[types.TypeID]types.MethodID
	containers  map[types.TypeID]containerResult

	nonNull  []string
	findings []Finding
}

// New builds an environment over in and installs itself as the completer.
// A nil provider finds nothing.
func New(in *types.Interner, provider binary.Provider, opts Options) *Environment {
	if provider == nil {
		provider = binary.NewMemoryProvider()
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	e := &Environment{
		in:         in,
		provider:   provider,
		opts:       opts.Config,
		tracer:     opts.Tracer,
		rec:        opts.Metrics,
		byName:     make(map[string]types.TypeID, 256),
		missing:    make(map[string]types.TypeID),
		notFound:   make(map[string]bool),
		packages:   map[string]bool{"": true},
		arrayClone: make(map[types.TypeID]types.MethodID),
		containers: make(map[types.TypeID]containerResult),
		nonNull:    opts.Config.NonNullAnnotations(),
	}
	in.SetCompleter(e)
	if obj := e.LookupType(objectName); obj == types.NoTypeID {
		in.SetObject(e.MissingType(objectName))
	}
	return e
}

// Types returns the arena.
func (e *Environment) Types() *types.Interner { return e.in }

// Config returns the run options.
func (e *Environment) Config() config.Options { return e.opts }

// Tracer returns the tracer spans are emitted to.
func (e *Environment) Tracer() trace.Tracer { return e.tracer }

// Metrics returns the resolution recorder.
func (e *Environment) Metrics() metrics.Recorder { return e.rec }

// SetSourceCompleter installs the resolver for source classes.
func (e *Environment) SetSourceCompleter(sc SourceCompleter) { e.source = sc }

// Findings returns the anomalies recorded so far.
func (e *Environment) Findings() []Finding { return e.findings }

func (e *Environment) record(kind FindingKind, id types.TypeID, name string) {
	e.findings = append(e.findings, Finding{Kind: kind, Type: id, Name: name})
}
