package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the base types.
type Builtins struct {
	Boolean TypeID
	Byte    TypeID
	Char    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID
	Void    TypeID
	Null    TypeID
}

// Completer fills unresolved slots on first demand. The lookup environment
// installs one; without it every slot reads as empty.
type Completer interface {
	CompleteHierarchy(id TypeID)
	CompleteMembers(id TypeID)
	CompleteTypeVar(id TypeID)
	CompleteMethod(id MethodID)
	CompleteField(id FieldID)
}

// Interner is the arena of type, field and method bindings. Structural types
// (arrays, parameterizations, raw types, wildcards, intersections) are
// interned so that equal descriptors share one TypeID; declarations, type
// variables and captures are created fresh.
type Interner struct {
	types []Type
	index map[string]TypeID

	classes       []ClassInfo
	arrays        []ArrayInfo
	params        []ParamInfo
	typeVars      []TypeVarInfo
	wildcards     []WildcardInfo
	intersections []IntersectionInfo
	captures      []CaptureInfo
	problems      []ProblemInfo
	overlays      []Overlay

	fields  []FieldInfo
	methods []MethodInfo

	erasures map[TypeID]TypeID
	keys     map[TypeID]string

	builtins  Builtins
	bases     map[BaseKind]TypeID
	object    TypeID
	completer Completer
}

// NewInterner constructs an arena seeded with the base types.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[string]TypeID, 256),
		erasures: make(map[TypeID]TypeID, 256),
		keys:     make(map[TypeID]string, 256),
		bases:    make(map[BaseKind]TypeID, 10),
	}
	// slot 0 of every table is the invalid sentinel
	in.types = append(in.types, Type{Kind: KindInvalid})
	in.classes = append(in.classes, ClassInfo{})
	in.arrays = append(in.arrays, ArrayInfo{})
	in.params = append(in.params, ParamInfo{})
	in.typeVars = append(in.typeVars, TypeVarInfo{})
	in.wildcards = append(in.wildcards, WildcardInfo{})
	in.intersections = append(in.intersections, IntersectionInfo{})
	in.captures = append(in.captures, CaptureInfo{})
	in.problems = append(in.problems, ProblemInfo{})
	in.overlays = append(in.overlays, Overlay{})
	in.fields = append(in.fields, FieldInfo{})
	in.methods = append(in.methods, MethodInfo{})

	b := &in.builtins
	dst := [...]*TypeID{
		BaseBoolean: &b.Boolean,
		BaseByte:    &b.Byte,
		BaseChar:    &b.Char,
		BaseShort:   &b.Short,
		BaseInt:     &b.Int,
		BaseLong:    &b.Long,
		BaseFloat:   &b.Float,
		BaseDouble:  &b.Double,
		BaseVoid:    &b.Void,
		BaseNull:    &b.Null,
	}
	for kind := BaseBoolean; kind <= BaseNull; kind++ {
		id := in.intern(fmt.Sprintf("B%c", kind.Descriptor()), Type{Kind: KindBase, Payload: uint32(kind)})
		*dst[kind] = id
		in.bases[kind] = id
	}
	return in
}

// Builtins returns TypeIDs for the base types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Base returns the TypeID of a base kind.
func (in *Interner) Base(kind BaseKind) TypeID {
	return in.bases[kind]
}

// SetCompleter installs the lazy resolver.
func (in *Interner) SetCompleter(c Completer) {
	in.completer = c
}

// SetObject records the root class. It is the superclass of missing types
// and the erasure of unbounded type variables.
func (in *Interner) SetObject(id TypeID) {
	in.object = id
}

// Object returns the root class, NoTypeID before SetObject.
func (in *Interner) Object() TypeID {
	return in.object
}

// Len returns the number of type records including the sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

// intern returns the TypeID registered under key, creating it when absent.
func (in *Interner) intern(key string, t Type) TypeID {
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// internRaw adds the descriptor without consulting the index.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	return id
}

// Lookup returns the record for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup returns the record or panics.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// KindOf returns the variant of id, KindInvalid for unknown IDs.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// BaseKindOf returns the base kind of a base type.
func (in *Interner) BaseKindOf(id TypeID) BaseKind {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindBase {
		return BaseInvalid
	}
	return BaseKind(tt.Payload)
}

// IsBase reports whether id is a primitive, void or null.
func (in *Interner) IsBase(id TypeID) bool {
	return in.KindOf(id) == KindBase
}

// IsPrimitive reports a base type other than void and null.
func (in *Interner) IsPrimitive(id TypeID) bool {
	k := in.BaseKindOf(id)
	return k != BaseInvalid && k != BaseVoid && k != BaseNull
}

// IsReference reports whether values of id are references.
func (in *Interner) IsReference(id TypeID) bool {
	switch in.KindOf(id) {
	case KindInvalid, KindBase:
		return id == in.builtins.Null
	default:
		return true
	}
}

// IsClassLike reports a declaration binding (class or missing).
func (in *Interner) IsClassLike(id TypeID) bool {
	switch in.KindOf(id) {
	case KindClass, KindMissing:
		return true
	}
	return false
}

func appendSlot[T any](table *[]T, v T) uint32 {
	n, err := safecast.Conv[uint32](len(*table))
	if err != nil {
		panic(fmt.Errorf("side table overflow: %w", err))
	}
	*table = append(*table, v)
	return n
}

func cloneIDs[T ~uint32](ids []T) []T {
	if len(ids) == 0 {
		return nil
	}
	out := make([]T, len(ids))
	copy(out, ids)
	return out
}
