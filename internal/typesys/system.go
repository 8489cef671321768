// Package typesys implements the relations between types: subtyping with
// argument containment, supertype projection, capture conversion, method
// invocation conversions, and least upper / greatest lower bounds.
package typesys

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// System answers type relation queries for one environment. It implements
// subst.Env.
type System struct {
	env    *env.Environment
	in     *types.Interner
	tracer trace.Tracer

	// lub calls in progress, keyed by their sorted argument list
	lubStack []string
	captures uint32

	methodViews map[memberKey]types.MethodID
	fieldViews  map[memberKey]types.FieldID
}

type memberKey struct {
	receiver types.TypeID
	member   uint32
}

// New binds a System to an environment.
func New(e *env.Environment) *System {
	return &System{
		env:         e,
		in:          e.Types(),
		tracer:      e.Tracer(),
		methodViews: make(map[memberKey]types.MethodID),
		fieldViews:  make(map[memberKey]types.FieldID),
	}
}

// Types implements subst.Env.
func (s *System) Types() *types.Interner { return s.in }

// Env returns the lookup environment.
func (s *System) Env() *env.Environment { return s.env }

// Same reports type identity, ignoring type-use annotations.
func (s *System) Same(a, b types.TypeID) bool {
	return s.in.Same(a, b)
}

func (s *System) object() types.TypeID { return s.in.Object() }

// isClassBound reports a class (not interface) type usable as the class
// member of an intersection.
func (s *System) isClassBound(t types.TypeID) bool {
	switch s.in.KindOf(t) {
	case types.KindClass, types.KindMissing, types.KindParameterized, types.KindRaw:
		return !s.in.IsInterface(t)
	case types.KindArray:
		return true
	}
	return false
}
