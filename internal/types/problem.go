package types

import "fmt"

// ProblemReason says why a lookup produced a problem binding.
type ProblemReason uint8

const (
	NoProblem ProblemReason = iota
	NotFound
	Ambiguous
	NotVisible
	ReceiverTypeNotVisible
	InheritedNameHidesEnclosingName
	NonStaticReferenceInStaticContext
	NonStaticReferenceInConstructorInvocation
	TypeArgumentArityMismatch
	ParameterizedMethodTypeMismatch
	VarargsElementTypeNotVisible
	DefectiveContainerAnnotationType
	IllegalSuperType
)

var reasonNames = [...]string{
	NoProblem:                                 "NoProblem",
	NotFound:                                  "NotFound",
	Ambiguous:                                 "Ambiguous",
	NotVisible:                                "NotVisible",
	ReceiverTypeNotVisible:                    "ReceiverTypeNotVisible",
	InheritedNameHidesEnclosingName:           "InheritedNameHidesEnclosingName",
	NonStaticReferenceInStaticContext:         "NonStaticReferenceInStaticContext",
	NonStaticReferenceInConstructorInvocation: "NonStaticReferenceInConstructorInvocation",
	TypeArgumentArityMismatch:                 "TypeArgumentArityMismatch",
	ParameterizedMethodTypeMismatch:           "ParameterizedMethodTypeMismatch",
	VarargsElementTypeNotVisible:              "VarargsElementTypeNotVisible",
	DefectiveContainerAnnotationType:          "DefectiveContainerAnnotationType",
	IllegalSuperType:                          "IllegalSuperType",
}

func (r ProblemReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("ProblemReason(%d)", r)
}

// ProblemInfo describes a problem type binding.
type ProblemInfo struct {
	Name    string
	Reason  ProblemReason
	Closest TypeID
}

// NewProblemType creates a problem type for name. closest may be NoTypeID.
func (in *Interner) NewProblemType(name string, reason ProblemReason, closest TypeID) TypeID {
	slot := appendSlot(&in.problems, ProblemInfo{Name: name, Reason: reason, Closest: closest})
	return in.internRaw(Type{Kind: KindProblem, Payload: slot})
}

// ProblemInfo returns the problem record of id.
func (in *Interner) ProblemInfo(id TypeID) (ProblemInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindProblem {
		return ProblemInfo{}, false
	}
	return in.problems[tt.Payload], true
}

// Reason returns the problem reason of a type, NoProblem for valid types.
func (in *Interner) Reason(id TypeID) ProblemReason {
	if info, ok := in.ProblemInfo(id); ok {
		return info.Reason
	}
	return NoProblem
}

// IsValid reports whether id names a usable type. Missing types are valid
// bindings carrying HasMissingType.
func (in *Interner) IsValid(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind != KindProblem
}

// Closest returns the closest match of a problem type, or id itself.
func (in *Interner) Closest(id TypeID) TypeID {
	if info, ok := in.ProblemInfo(id); ok && info.Closest != NoTypeID {
		return info.Closest
	}
	return id
}
