package types

import (
	"fmt"

	"fortio.org/safecast"
)

// FieldID identifies a field binding.
type FieldID uint32

// MethodID identifies a method binding.
type MethodID uint32

const (
	NoFieldID  FieldID  = 0
	NoMethodID MethodID = 0
)

// ConstructorName is the selector shared by all constructors.
const ConstructorName = "<init>"

// MethodVariant says how a method binding was derived.
type MethodVariant uint8

const (
	// VariantOriginal is a declared method.
	VariantOriginal MethodVariant = iota
	// VariantGenericInvocation substitutes the method's own type variables.
	VariantGenericInvocation
	// VariantMemberOfParameterized views a member through a parameterized
	// declaring type.
	VariantMemberOfParameterized
	// VariantMemberOfRaw is a member seen through a raw type (erased).
	VariantMemberOfRaw
	// VariantStaticFactory is the synthetic factory used for diamond
	// inference.
	VariantStaticFactory
	// VariantMostSpecificException intersects the thrown lists of
	// override-equivalent abstract candidates.
	VariantMostSpecificException
	// VariantProblem carries a resolution failure.
	VariantProblem
)

func (v MethodVariant) String() string {
	switch v {
	case VariantGenericInvocation:
		return "generic-invocation"
	case VariantMemberOfParameterized:
		return "parameterized-member"
	case VariantMemberOfRaw:
		return "raw-member"
	case VariantStaticFactory:
		return "static-factory"
	case VariantMostSpecificException:
		return "most-specific-exception"
	case VariantProblem:
		return "problem"
	default:
		return "original"
	}
}

// FieldInfo is the side-table record of a field.
type FieldInfo struct {
	Name        string
	Declaring   TypeID
	Modifiers   Modifiers
	Type        TypeID
	State       SlotState
	Flags       MemberFlags
	Constant    any
	Annotations []Annotation
	Original    FieldID
	Problem     ProblemReason
	Closest     FieldID
	Decl        any
}

// MethodInfo is the side-table record of a method or constructor. Return is
// NoTypeID for constructors. Original points at the declared method for
// derived variants.
type MethodInfo struct {
	Selector    string
	Declaring   TypeID
	Modifiers   Modifiers
	Arity       int
	Params      []TypeID
	ParamNames  []string
	Return      TypeID
	TypeVars    []TypeID
	Thrown      []TypeID
	State       SlotState
	Flags       MemberFlags
	Annotations []Annotation

	Variant  MethodVariant
	Original MethodID
	TypeArgs []TypeID
	Problem  ProblemReason
	Closest  MethodID
	Decl     any
}

func nextMemberID[T ~uint32, E any](table []E) T {
	n, err := safecast.Conv[uint32](len(table))
	if err != nil {
		panic(fmt.Errorf("member table overflow: %w", err))
	}
	return T(n)
}

// --- fields ---

// NewField allocates a field with an unresolved type slot.
func (in *Interner) NewField(info FieldInfo) FieldID {
	id := nextMemberID[FieldID](in.fields)
	info.State = SlotUnresolved
	in.fields = append(in.fields, info)
	return id
}

// NewResolvedField allocates a field whose type is already known.
func (in *Interner) NewResolvedField(info FieldInfo) FieldID {
	id := nextMemberID[FieldID](in.fields)
	info.State = SlotResolved
	in.fields = append(in.fields, info)
	return id
}

// NewProblemField allocates a field carrying a lookup failure.
func (in *Interner) NewProblemField(name string, declaring TypeID, reason ProblemReason, closest FieldID) FieldID {
	id := nextMemberID[FieldID](in.fields)
	in.fields = append(in.fields, FieldInfo{
		Name: name, Declaring: declaring, State: SlotProblem, Problem: reason, Closest: closest,
	})
	return id
}

func (in *Interner) validField(id FieldID) bool {
	return id != NoFieldID && int(id) < len(in.fields)
}

// Field returns the field record, completing its type on first demand.
func (in *Interner) Field(id FieldID) FieldInfo {
	if !in.validField(id) {
		return FieldInfo{}
	}
	if in.fields[id].State == SlotUnresolved && in.completer != nil {
		in.completer.CompleteField(id)
	}
	return in.fields[id]
}

// FieldRaw returns the field record without completing it.
func (in *Interner) FieldRaw(id FieldID) FieldInfo {
	if !in.validField(id) {
		return FieldInfo{}
	}
	return in.fields[id]
}

// FieldState returns the type slot state of a field.
func (in *Interner) FieldState(id FieldID) SlotState {
	if !in.validField(id) {
		return SlotProblem
	}
	return in.fields[id].State
}

// BeginField moves the field type slot to Resolving.
func (in *Interner) BeginField(id FieldID) bool {
	return in.validField(id) && advance(&in.fields[id].State, SlotResolving)
}

// EndField records the resolved type and finalizes the slot.
func (in *Interner) EndField(id FieldID, typ TypeID, flags MemberFlags, final SlotState) {
	if !in.validField(id) {
		return
	}
	f := &in.fields[id]
	f.Type = typ
	f.Flags |= flags
	advance(&f.State, final)
}

// SetFieldAnnotations records declaration annotations.
func (in *Interner) SetFieldAnnotations(id FieldID, annots []Annotation) {
	if in.validField(id) {
		in.fields[id].Annotations = annots
	}
}

// FieldReason returns the problem reason of a field binding.
func (in *Interner) FieldReason(id FieldID) ProblemReason {
	if !in.validField(id) {
		return NotFound
	}
	return in.fields[id].Problem
}

// FieldOf returns a derived field seen through a parameterized or raw
// receiver. Derived fields share name and modifiers with the original.
func (in *Interner) FieldOf(original FieldID, declaring, typ TypeID) FieldID {
	f := in.Field(original)
	f.Declaring = declaring
	f.Type = typ
	f.Original = in.OriginalField(original)
	return in.NewResolvedField(f)
}

// OriginalField follows the Original chain of a derived field.
func (in *Interner) OriginalField(id FieldID) FieldID {
	for in.validField(id) && in.fields[id].Original != NoFieldID {
		id = in.fields[id].Original
	}
	return id
}

// FieldCount returns the number of field records including the sentinel.
func (in *Interner) FieldCount() int { return len(in.fields) }

// --- methods ---

// NewMethod allocates a method whose signature slot is unresolved.
func (in *Interner) NewMethod(info MethodInfo) MethodID {
	id := nextMemberID[MethodID](in.methods)
	info.State = SlotUnresolved
	if info.Selector == ConstructorName {
		info.Flags |= MemberConstructor
	}
	in.methods = append(in.methods, info)
	return id
}

// NewResolvedMethod allocates a method with a resolved signature.
func (in *Interner) NewResolvedMethod(info MethodInfo) MethodID {
	id := nextMemberID[MethodID](in.methods)
	info.State = SlotResolved
	info.Arity = len(info.Params)
	info.Params = cloneIDs(info.Params)
	info.Thrown = cloneIDs(info.Thrown)
	info.TypeVars = cloneIDs(info.TypeVars)
	if info.Selector == ConstructorName {
		info.Flags |= MemberConstructor
	}
	in.methods = append(in.methods, info)
	return id
}

// NewProblemMethod allocates a problem method binding. closest may be
// NoMethodID.
func (in *Interner) NewProblemMethod(selector string, declaring TypeID, args []TypeID, reason ProblemReason, closest MethodID) MethodID {
	id := nextMemberID[MethodID](in.methods)
	in.methods = append(in.methods, MethodInfo{
		Selector:  selector,
		Declaring: declaring,
		Params:    cloneIDs(args),
		Arity:     len(args),
		State:     SlotProblem,
		Variant:   VariantProblem,
		Problem:   reason,
		Closest:   closest,
	})
	return id
}

func (in *Interner) validMethod(id MethodID) bool {
	return id != NoMethodID && int(id) < len(in.methods)
}

// Method returns the method record, completing its signature on first
// demand.
func (in *Interner) Method(id MethodID) MethodInfo {
	if !in.validMethod(id) {
		return MethodInfo{}
	}
	if in.methods[id].State == SlotUnresolved && in.completer != nil {
		in.completer.CompleteMethod(id)
	}
	return in.methods[id]
}

// MethodRaw returns the method record without completing it.
func (in *Interner) MethodRaw(id MethodID) MethodInfo {
	if !in.validMethod(id) {
		return MethodInfo{}
	}
	return in.methods[id]
}

// MethodState returns the signature slot state.
func (in *Interner) MethodState(id MethodID) SlotState {
	if !in.validMethod(id) {
		return SlotProblem
	}
	return in.methods[id].State
}

// BeginMethod moves the signature slot to Resolving.
func (in *Interner) BeginMethod(id MethodID) bool {
	return in.validMethod(id) && advance(&in.methods[id].State, SlotResolving)
}

// MethodSignature carries the resolved parts of a method signature.
type MethodSignature struct {
	TypeVars []TypeID
	Params   []TypeID
	Return   TypeID
	Thrown   []TypeID
	Flags    MemberFlags
}

// EndMethod records the resolved signature and finalizes the slot.
func (in *Interner) EndMethod(id MethodID, sig MethodSignature, final SlotState) {
	if !in.validMethod(id) {
		return
	}
	m := &in.methods[id]
	m.TypeVars = cloneIDs(sig.TypeVars)
	m.Params = cloneIDs(sig.Params)
	m.Arity = len(sig.Params)
	m.Return = sig.Return
	m.Thrown = cloneIDs(sig.Thrown)
	m.Flags |= sig.Flags
	advance(&m.State, final)
}

// SetMethodAnnotations records declaration annotations.
func (in *Interner) SetMethodAnnotations(id MethodID, annots []Annotation) {
	if in.validMethod(id) {
		in.methods[id].Annotations = annots
	}
}

// AddMethodFlags sets member flags.
func (in *Interner) AddMethodFlags(id MethodID, f MemberFlags) {
	if in.validMethod(id) {
		in.methods[id].Flags |= f
	}
}

// MethodReason returns the problem reason of a method binding.
func (in *Interner) MethodReason(id MethodID) ProblemReason {
	if !in.validMethod(id) {
		return NotFound
	}
	return in.methods[id].Problem
}

// IsValidMethod reports a non-problem method binding.
func (in *Interner) IsValidMethod(id MethodID) bool {
	return in.validMethod(id) && in.methods[id].Problem == NoProblem
}

// OriginalMethod follows the Original chain of a derived method.
func (in *Interner) OriginalMethod(id MethodID) MethodID {
	for in.validMethod(id) && in.methods[id].Original != NoMethodID {
		id = in.methods[id].Original
	}
	return id
}

// DeriveMethod allocates a resolved variant of original with the given
// signature parts. The selector, modifiers and names are inherited.
func (in *Interner) DeriveMethod(original MethodID, variant MethodVariant, declaring TypeID, sig MethodSignature, typeArgs []TypeID) MethodID {
	base := in.Method(original)
	return in.NewResolvedMethod(MethodInfo{
		Selector:    base.Selector,
		Declaring:   declaring,
		Modifiers:   base.Modifiers,
		Params:      sig.Params,
		ParamNames:  base.ParamNames,
		Return:      sig.Return,
		TypeVars:    sig.TypeVars,
		Thrown:      sig.Thrown,
		Flags:       base.Flags | sig.Flags,
		Annotations: base.Annotations,
		Variant:     variant,
		Original:    in.OriginalMethod(original),
		TypeArgs:    cloneIDs(typeArgs),
		Decl:        base.Decl,
	})
}

// IsConstructor reports constructors.
func (in *Interner) IsConstructor(id MethodID) bool {
	return in.validMethod(id) && in.methods[id].Flags&MemberConstructor != 0
}

// IsVarargs reports methods whose last parameter is variable arity.
func (in *Interner) IsVarargs(id MethodID) bool {
	return in.validMethod(id) && in.methods[id].Modifiers.IsVarargs()
}

// MethodCount returns the number of method records including the sentinel.
func (in *Interner) MethodCount() int { return len(in.methods) }
