package scope

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

type (
	// ScopeID identifies a scope in a Table.
	ScopeID uint32
	// LocalID identifies a local variable or parameter.
	LocalID uint32
)

const (
	NoScopeID ScopeID = 0
	NoLocalID LocalID = 0
)

// IsValid reports whether the id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// IsValid reports whether the id refers to an allocated local.
func (id LocalID) IsValid() bool { return id != NoLocalID }

// ScopeKind enumerates the lexical scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeUnit              // compilation unit: imports and package
	ScopeClass             // class body
	ScopeMethod            // method or constructor, holds parameters
	ScopeBlock             // braced block
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUnit:
		return "unit"
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is one lexical scope. Class and Method scopes link both the
// declaration and its binding.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Span   source.Span

	Unit       *decl.Unit     // unit scopes
	TypeDecl   *decl.TypeDecl // class scopes
	Class      types.TypeID
	MethodDecl *decl.MethodDecl // method scopes
	Method     types.MethodID

	// Static marks a static method, a static initializer or a static
	// nested class: instance members of enclosing classes are unreachable
	// from inside.
	Static bool
	// CtorCall marks the argument list of an explicit this(...) or
	// super(...) call.
	CtorCall bool

	Locals []LocalID
}

// Local is a local variable or parameter. Locals are visible to lookups
// positioned at or after Span.Start.
type Local struct {
	Name  string
	Type  types.TypeID
	Scope ScopeID
	Final bool
	Param bool
	Span  source.Span
}

// Scopes stores all allocated scopes in a slice arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with an optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{data: make([]Scope, 1, capacity+1)} // index 0 is NoScopeID
}

// New allocates a scope and returns its ID.
func (s *Scopes) New(sc Scope) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	s.data = append(s.data, sc)
	return ScopeID(value)
}

// Get returns the scope pointer or nil if the ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Locals stores local variables in a slice arena.
type Locals struct {
	data []Local
}

// NewLocals creates an arena with an optional capacity hint.
func NewLocals(capacity uint32) *Locals {
	if capacity == 0 {
		capacity = 64
	}
	return &Locals{data: make([]Local, 1, capacity+1)}
}

// New allocates a local and returns its ID.
func (l *Locals) New(v Local) LocalID {
	value, err := safecast.Conv[uint32](len(l.data))
	if err != nil {
		panic(fmt.Errorf("locals arena overflow: %w", err))
	}
	l.data = append(l.data, v)
	return LocalID(value)
}

// Get returns the local pointer or nil if the ID is invalid.
func (l *Locals) Get(id LocalID) *Local {
	if !id.IsValid() || int(id) >= len(l.data) {
		return nil
	}
	return &l.data[id]
}

// Len reports the number of locals excluding the sentinel.
func (l *Locals) Len() int { return len(l.data) - 1 }
