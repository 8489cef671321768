package types

// SlotState is the resolution state of one cross-reference slot
// (hierarchy, members, a signature, a field type, type-variable bounds).
// Transitions are Unresolved -> Resolving -> Resolved|Problem, never back.
type SlotState uint8

const (
	SlotUnresolved SlotState = iota
	SlotResolving
	SlotResolved
	SlotProblem
)

func (s SlotState) String() string {
	switch s {
	case SlotUnresolved:
		return "unresolved"
	case SlotResolving:
		return "resolving"
	case SlotResolved:
		return "resolved"
	case SlotProblem:
		return "problem"
	default:
		return "invalid"
	}
}

// Done reports whether the slot reached a final state.
func (s SlotState) Done() bool {
	return s == SlotResolved || s == SlotProblem
}

// advance moves *s to next when the transition is allowed.
func advance(s *SlotState, next SlotState) bool {
	switch {
	case *s == SlotUnresolved && next == SlotResolving,
		*s == SlotUnresolved && next.Done(),
		*s == SlotResolving && next.Done():
		*s = next
		return true
	}
	return false
}

// ClassFlags are structural anomaly and bookkeeping markers of a class.
type ClassFlags uint16

const (
	// HasMissingType: some supertype, bound or member signature names a
	// missing type.
	HasMissingType ClassFlags = 1 << iota
	// HierarchyHasProblems: the supertype graph is cyclic or a supertype
	// could not be resolved.
	HierarchyHasProblems
	// TypeVarsConnected: type variables are attached and visible to lookups.
	TypeVarsConnected
	// MembersSorted: fields and methods are sorted by name.
	MembersSorted
	// IsMemberType: declared inside another type.
	IsMemberType
	// IsLocalType: declared inside a block.
	IsLocalType
	// NonNullByDefault: null-default propagation applies to members.
	NonNullByDefault
	// ContainerChecked: repeatable container validation already ran.
	ContainerChecked
)

// MemberFlags mark fields and methods.
type MemberFlags uint8

const (
	MemberHasMissingType MemberFlags = 1 << iota
	MemberNonNullDefault
	MemberConstructor
)
