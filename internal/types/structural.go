package types

import (
	"strconv"
	"strings"
)

// ArrayInfo describes an array type by its non-array leaf and dimensions.
type ArrayInfo struct {
	Leaf TypeID
	Dims int
}

// ParamInfo describes a parameterized or raw type. Raw types have no Args.
// A member type viewed through a parameterized enclosing type may have an
// empty Args with a non-zero Enclosing.
type ParamInfo struct {
	Generic   TypeID
	Args      []TypeID
	Enclosing TypeID
}

// TypeVarInfo describes a type variable. DeclType or DeclMethod names the
// declaring element; DeclMethod is backfilled when the method completes.
type TypeVarInfo struct {
	Name       string
	Rank       int
	DeclType   TypeID
	DeclMethod MethodID
	Bounds     []TypeID
	State      SlotState
	Flags      MemberFlags
	Decl       any
}

// WildcardInfo describes a wildcard type argument at position Rank of
// Generic. OtherBounds holds additional intersection bounds.
type WildcardInfo struct {
	Generic     TypeID
	Rank        int
	Kind        WildcardKind
	Bound       TypeID
	OtherBounds []TypeID
}

// IntersectionInfo lists the members of an intersection, class first.
type IntersectionInfo struct {
	Members []TypeID
}

// CaptureInfo describes the capture of a wildcard at one site.
type CaptureInfo struct {
	Wildcard TypeID
	Position uint32
	Upper    []TypeID
	Lower    TypeID
	Bounded  bool
}

type keyBuilder struct{ sb strings.Builder }

func newKey(prefix string) *keyBuilder {
	k := &keyBuilder{}
	k.sb.WriteString(prefix)
	return k
}

func (k *keyBuilder) id(v uint32) *keyBuilder {
	k.sb.WriteByte(':')
	k.sb.WriteString(strconv.FormatUint(uint64(v), 10))
	return k
}

func (k *keyBuilder) ids(vs []TypeID) *keyBuilder {
	k.sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			k.sb.WriteByte(',')
		}
		k.sb.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	k.sb.WriteByte(']')
	return k
}

func (k *keyBuilder) String() string { return k.sb.String() }

// --- arrays ---

// Array returns the array of leaf with dims dimensions. An array leaf is
// flattened so that Array(Array(T, 1), 2) == Array(T, 3).
func (in *Interner) Array(leaf TypeID, dims int) TypeID {
	if dims <= 0 {
		return leaf
	}
	if tt, ok := in.Lookup(leaf); ok && tt.Kind == KindArray {
		info := in.arrays[tt.Payload]
		leaf, dims = info.Leaf, dims+info.Dims
	}
	key := newKey("A").id(uint32(leaf)).id(uint32(dims)).String() //nolint:gosec // dims is small
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.arrays, ArrayInfo{Leaf: leaf, Dims: dims})
	return in.intern(key, Type{Kind: KindArray, Payload: slot})
}

// ArrayInfo returns the array record of id.
func (in *Interner) ArrayInfo(id TypeID) (ArrayInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return ArrayInfo{}, false
	}
	return in.arrays[tt.Payload], true
}

// Dimensions returns the array depth of id (0 for non-arrays).
func (in *Interner) Dimensions(id TypeID) int {
	info, _ := in.ArrayInfo(id)
	return info.Dims
}

// LeafComponent returns the non-array leaf of id, or id itself.
func (in *Interner) LeafComponent(id TypeID) TypeID {
	if info, ok := in.ArrayInfo(id); ok {
		return info.Leaf
	}
	return id
}

// ElementType returns the component type of an array, NoTypeID otherwise.
func (in *Interner) ElementType(id TypeID) TypeID {
	info, ok := in.ArrayInfo(id)
	if !ok {
		return NoTypeID
	}
	return in.Array(info.Leaf, info.Dims-1)
}

// --- parameterized and raw ---

// Parameterized returns the parameterization of generic with args inside
// enclosing (NoTypeID for top-level or static member types).
func (in *Interner) Parameterized(generic TypeID, args []TypeID, enclosing TypeID) TypeID {
	generic = in.GenericOf(generic)
	key := newKey("P").id(uint32(generic)).id(uint32(enclosing)).ids(args).String()
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.params, ParamInfo{Generic: generic, Args: cloneIDs(args), Enclosing: enclosing})
	return in.intern(key, Type{Kind: KindParameterized, Payload: slot})
}

// Raw returns the raw type of generic inside enclosing.
func (in *Interner) Raw(generic TypeID, enclosing TypeID) TypeID {
	generic = in.GenericOf(generic)
	key := newKey("R").id(uint32(generic)).id(uint32(enclosing)).String()
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.params, ParamInfo{Generic: generic, Enclosing: enclosing})
	return in.intern(key, Type{Kind: KindRaw, Payload: slot})
}

// ParamInfo returns the record of a parameterized or raw type.
func (in *Interner) ParamInfo(id TypeID) (ParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindParameterized && tt.Kind != KindRaw) {
		return ParamInfo{}, false
	}
	return in.params[tt.Payload], true
}

// GenericOf returns the declaration behind a parameterized or raw type, the
// prototype of a class binding, and id itself for anything else.
func (in *Interner) GenericOf(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindParameterized, KindRaw:
		return in.params[tt.Payload].Generic
	case KindClass, KindMissing:
		if tt.Proto != NoTypeID {
			return tt.Proto
		}
	}
	return id
}

// TypeArgs returns the type arguments of a parameterized type.
func (in *Interner) TypeArgs(id TypeID) []TypeID {
	info, _ := in.ParamInfo(id)
	return info.Args
}

// EnclosingType returns the enclosing type of a parameterized/raw type, or
// the enclosing declaration of a member class.
func (in *Interner) EnclosingType(id TypeID) TypeID {
	if info, ok := in.ParamInfo(id); ok {
		if info.Enclosing != NoTypeID {
			return info.Enclosing
		}
		return in.Enclosing(info.Generic)
	}
	return in.Enclosing(id)
}

// IsRaw reports raw types.
func (in *Interner) IsRaw(id TypeID) bool {
	return in.KindOf(id) == KindRaw
}

// --- type variables ---

// NewTypeVar allocates a type variable declared by declType at rank.
func (in *Interner) NewTypeVar(name string, rank int, declType TypeID) TypeID {
	slot := appendSlot(&in.typeVars, TypeVarInfo{Name: name, Rank: rank, DeclType: declType})
	return in.internRaw(Type{Kind: KindTypeVar, Payload: slot})
}

// TypeVarInfo returns the record of a type variable without completing it.
func (in *Interner) TypeVarInfo(id TypeID) (TypeVarInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeVar {
		return TypeVarInfo{}, false
	}
	return in.typeVars[tt.Payload], true
}

func (in *Interner) typeVarSlot(id TypeID) (uint32, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeVar {
		return 0, false
	}
	return tt.Payload, true
}

// SetTypeVarDecl stores the producer payload used to resolve bounds.
func (in *Interner) SetTypeVarDecl(id TypeID, decl any) {
	if slot, ok := in.typeVarSlot(id); ok {
		in.typeVars[slot].Decl = decl
	}
}

// SetTypeVarMethod backfills the declaring method of a type variable.
func (in *Interner) SetTypeVarMethod(id TypeID, m MethodID) {
	if slot, ok := in.typeVarSlot(id); ok {
		in.typeVars[slot].DeclMethod = m
	}
}

// BeginTypeVar moves the bounds slot to Resolving.
func (in *Interner) BeginTypeVar(id TypeID) bool {
	slot, ok := in.typeVarSlot(id)
	return ok && advance(&in.typeVars[slot].State, SlotResolving)
}

// SetTypeVarBounds records the bounds, first bound first.
func (in *Interner) SetTypeVarBounds(id TypeID, bounds []TypeID) {
	if slot, ok := in.typeVarSlot(id); ok {
		in.typeVars[slot].Bounds = cloneIDs(bounds)
	}
}

// MarkTypeVarMissing flags a bound that names a missing type.
func (in *Interner) MarkTypeVarMissing(id TypeID) {
	if slot, ok := in.typeVarSlot(id); ok {
		in.typeVars[slot].Flags |= MemberHasMissingType
	}
}

// EndTypeVar finalizes the bounds slot.
func (in *Interner) EndTypeVar(id TypeID, final SlotState) {
	if slot, ok := in.typeVarSlot(id); ok {
		advance(&in.typeVars[slot].State, final)
	}
}

// TypeVarBounds returns the bounds of a type variable, completing them on
// first demand. An unbounded variable returns nil.
func (in *Interner) TypeVarBounds(id TypeID) []TypeID {
	slot, ok := in.typeVarSlot(id)
	if !ok {
		return nil
	}
	if in.typeVars[slot].State == SlotUnresolved && in.completer != nil {
		in.completer.CompleteTypeVar(id)
	}
	return in.typeVars[slot].Bounds
}

// FirstBound returns the first bound of a type variable or the root class.
func (in *Interner) FirstBound(id TypeID) TypeID {
	if bounds := in.TypeVarBounds(id); len(bounds) > 0 {
		return bounds[0]
	}
	return in.object
}

// --- wildcards ---

// Wildcard returns the wildcard at rank of generic.
func (in *Interner) Wildcard(generic TypeID, rank int, kind WildcardKind, bound TypeID, others []TypeID) TypeID {
	if kind == WildUnbound {
		bound, others = NoTypeID, nil
	}
	key := newKey("W").id(uint32(generic)).id(uint32(rank)).id(uint32(kind)).id(uint32(bound)).ids(others).String() //nolint:gosec // rank is small
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.wildcards, WildcardInfo{
		Generic: generic, Rank: rank, Kind: kind, Bound: bound, OtherBounds: cloneIDs(others),
	})
	return in.intern(key, Type{Kind: KindWildcard, Payload: slot})
}

// WildcardInfo returns the wildcard record of id.
func (in *Interner) WildcardInfo(id TypeID) (WildcardInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindWildcard {
		return WildcardInfo{}, false
	}
	return in.wildcards[tt.Payload], true
}

// IsUnboundWildcard reports "?".
func (in *Interner) IsUnboundWildcard(id TypeID) bool {
	info, ok := in.WildcardInfo(id)
	return ok && info.Kind == WildUnbound
}

// --- intersections ---

// Intersection returns the intersection of members. A single member is
// returned as is.
func (in *Interner) Intersection(members []TypeID) TypeID {
	switch len(members) {
	case 0:
		return NoTypeID
	case 1:
		return members[0]
	}
	key := newKey("I").ids(members).String()
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.intersections, IntersectionInfo{Members: cloneIDs(members)})
	return in.intern(key, Type{Kind: KindIntersection, Payload: slot})
}

// IntersectionMembers returns the members of an intersection type.
func (in *Interner) IntersectionMembers(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindIntersection {
		return nil
	}
	return in.intersections[tt.Payload].Members
}

// --- captures ---

// Capture returns the capture of wildcard at position. The same pair always
// yields the same capture; bounds are filled by SetCaptureBounds.
func (in *Interner) Capture(wildcard TypeID, position uint32) TypeID {
	key := newKey("C").id(uint32(wildcard)).id(position).String()
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.captures, CaptureInfo{Wildcard: wildcard, Position: position})
	return in.intern(key, Type{Kind: KindCapture, Payload: slot})
}

// CaptureInfo returns the capture record of id.
func (in *Interner) CaptureInfo(id TypeID) (CaptureInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindCapture {
		return CaptureInfo{}, false
	}
	return in.captures[tt.Payload], true
}

// SetCaptureBounds records the upper bounds and lower bound of a capture.
// The first call wins.
func (in *Interner) SetCaptureBounds(id TypeID, upper []TypeID, lower TypeID) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindCapture || in.captures[tt.Payload].Bounded {
		return
	}
	c := &in.captures[tt.Payload]
	c.Upper = cloneIDs(upper)
	c.Lower = lower
	c.Bounded = true
}
