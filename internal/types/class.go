package types

import (
	"slices"
	"sort"
	"strings"
)

// ClassInfo is the side-table record of a class declaration. The hierarchy
// slot covers type variables and supertypes; the members slot covers fields,
// methods and member types. Decl is the producer payload used by the
// completer (a binary descriptor or a source declaration).
type ClassInfo struct {
	Package     string
	Name        string
	BinaryName  string
	Enclosing   TypeID
	Sort        ClassSort
	Origin      Origin
	Modifiers   Modifiers
	Flags       ClassFlags
	Annotations []Annotation

	Hierarchy  SlotState
	TypeVars   []TypeID
	Superclass TypeID
	Interfaces []TypeID

	Members     SlotState
	Fields      []FieldID
	Methods     []MethodID
	MemberTypes []TypeID

	Decl any
}

// RegisterClass allocates a class binding with unresolved slots.
func (in *Interner) RegisterClass(info ClassInfo) TypeID {
	info.Hierarchy = SlotUnresolved
	info.Members = SlotUnresolved
	if info.Origin == 0 {
		info.Origin = OriginSource
	}
	if info.Enclosing != NoTypeID {
		info.Flags |= IsMemberType
	}
	slot := appendSlot(&in.classes, info)
	return in.internRaw(Type{Kind: KindClass, Payload: slot})
}

// RegisterMissing allocates a missing type. Its hierarchy is the root class
// and it has no members.
func (in *Interner) RegisterMissing(pkg, name, binaryName string) TypeID {
	slot := appendSlot(&in.classes, ClassInfo{
		Package:    pkg,
		Name:       name,
		BinaryName: binaryName,
		Origin:     OriginMissing,
		Modifiers:  ModPublic,
		Flags:      HasMissingType | TypeVarsConnected | MembersSorted,
		Hierarchy:  SlotResolved,
		Superclass: in.object,
		Members:    SlotResolved,
	})
	return in.internRaw(Type{Kind: KindMissing, Payload: slot})
}

func (in *Interner) classSlot(id TypeID) (uint32, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindClass && tt.Kind != KindMissing) {
		return 0, false
	}
	return tt.Payload, true
}

// Class returns a snapshot of the class record without completing it.
func (in *Interner) Class(id TypeID) (ClassInfo, bool) {
	slot, ok := in.classSlot(id)
	if !ok {
		return ClassInfo{}, false
	}
	return in.classes[slot], true
}

// Decl returns the producer payload of a class.
func (in *Interner) Decl(id TypeID) any {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Decl
	}
	return nil
}

// ClassModifiers returns the modifiers of a class binding.
func (in *Interner) ClassModifiers(id TypeID) Modifiers {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Modifiers
	}
	return 0
}

// SetClassModifiers replaces the modifiers (used when a binary inner class
// attribute refines them).
func (in *Interner) SetClassModifiers(id TypeID, mods Modifiers) {
	if slot, ok := in.classSlot(id); ok {
		in.classes[slot].Modifiers = mods
	}
}

// SortOf returns the declaration flavour.
func (in *Interner) SortOf(id TypeID) ClassSort {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Sort
	}
	return SortClass
}

// IsInterface reports interfaces and annotation types.
func (in *Interner) IsInterface(id TypeID) bool {
	s := in.SortOf(in.GenericOf(id))
	return in.IsClassLike(in.GenericOf(id)) && (s == SortInterface || s == SortAnnotation)
}

// Package returns the package of a class ("" for the default package).
func (in *Interner) Package(id TypeID) string {
	if slot, ok := in.classSlot(in.GenericOf(id)); ok {
		return in.classes[slot].Package
	}
	return ""
}

// SimpleName returns the source name of a class.
func (in *Interner) SimpleName(id TypeID) string {
	if slot, ok := in.classSlot(in.GenericOf(id)); ok {
		return in.classes[slot].Name
	}
	return ""
}

// Enclosing returns the enclosing declaration of a member type.
func (in *Interner) Enclosing(id TypeID) TypeID {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Enclosing
	}
	return NoTypeID
}

// Outermost returns the top-level class enclosing id.
func (in *Interner) Outermost(id TypeID) TypeID {
	cur := in.GenericOf(id)
	for {
		enc := in.Enclosing(cur)
		if enc == NoTypeID {
			return cur
		}
		cur = enc
	}
}

// QualifiedName returns the dotted source name, e.g. java.util.Map.Entry.
func (in *Interner) QualifiedName(id TypeID) string {
	slot, ok := in.classSlot(in.GenericOf(id))
	if !ok {
		return ""
	}
	c := in.classes[slot]
	if c.Enclosing != NoTypeID {
		return in.QualifiedName(c.Enclosing) + "." + c.Name
	}
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Flags returns the class flags.
func (in *Interner) Flags(id TypeID) ClassFlags {
	if slot, ok := in.classSlot(in.GenericOf(id)); ok {
		return in.classes[slot].Flags
	}
	return 0
}

// HasFlag reports whether all bits of f are set on the class.
func (in *Interner) HasFlag(id TypeID, f ClassFlags) bool {
	return in.Flags(id)&f == f
}

// AddFlags sets flag bits. Flags are never cleared.
func (in *Interner) AddFlags(id TypeID, f ClassFlags) {
	if slot, ok := in.classSlot(id); ok {
		in.classes[slot].Flags |= f
	}
}

// ClassAnnotations returns the declaration annotations of a class.
func (in *Interner) ClassAnnotations(id TypeID) []Annotation {
	if slot, ok := in.classSlot(in.GenericOf(id)); ok {
		return in.classes[slot].Annotations
	}
	return nil
}

// SetClassAnnotations records declaration annotations once.
func (in *Interner) SetClassAnnotations(id TypeID, annots []Annotation) {
	if slot, ok := in.classSlot(id); ok && in.classes[slot].Annotations == nil {
		in.classes[slot].Annotations = annots
	}
}

// --- hierarchy slot ---

// HierarchyState returns the state of the hierarchy slot.
func (in *Interner) HierarchyState(id TypeID) SlotState {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Hierarchy
	}
	return SlotResolved
}

// BeginHierarchy moves the slot to Resolving. It returns false when the slot
// is already past Unresolved, in which case the caller must not complete it.
func (in *Interner) BeginHierarchy(id TypeID) bool {
	slot, ok := in.classSlot(id)
	return ok && advance(&in.classes[slot].Hierarchy, SlotResolving)
}

// SetTypeVars attaches the declared type variables. They count as connected
// once the hierarchy slot is finalized.
func (in *Interner) SetTypeVars(id TypeID, tvs []TypeID) {
	if slot, ok := in.classSlot(id); ok {
		in.classes[slot].TypeVars = cloneIDs(tvs)
	}
}

// SetSupertypes records the superclass and super-interfaces.
func (in *Interner) SetSupertypes(id TypeID, superclass TypeID, interfaces []TypeID) {
	if slot, ok := in.classSlot(id); ok {
		in.classes[slot].Superclass = superclass
		in.classes[slot].Interfaces = cloneIDs(interfaces)
	}
}

// EndHierarchy finalizes the hierarchy slot with SlotResolved or SlotProblem
// and marks the type variables connected.
func (in *Interner) EndHierarchy(id TypeID, final SlotState) {
	if slot, ok := in.classSlot(id); ok {
		advance(&in.classes[slot].Hierarchy, final)
		in.classes[slot].Flags |= TypeVarsConnected
	}
}

func (in *Interner) ensureHierarchy(id TypeID) (uint32, bool) {
	slot, ok := in.classSlot(id)
	if !ok {
		return 0, false
	}
	if in.classes[slot].Hierarchy == SlotUnresolved && in.completer != nil {
		in.completer.CompleteHierarchy(in.Prototype(id))
	}
	return slot, true
}

// Superclass returns the declared superclass of a class binding, completing
// the hierarchy on first demand. Interfaces and the root class return
// NoTypeID.
func (in *Interner) Superclass(id TypeID) TypeID {
	slot, ok := in.ensureHierarchy(id)
	if !ok {
		return NoTypeID
	}
	return in.classes[slot].Superclass
}

// Interfaces returns the declared super-interfaces of a class binding.
func (in *Interner) Interfaces(id TypeID) []TypeID {
	slot, ok := in.ensureHierarchy(id)
	if !ok {
		return nil
	}
	return in.classes[slot].Interfaces
}

// TypeVars returns the declared type variables of a class binding. Source
// classes attach them at declaration; binary classes on hierarchy
// completion.
func (in *Interner) TypeVars(id TypeID) []TypeID {
	slot, ok := in.classSlot(id)
	if !ok {
		return nil
	}
	if in.classes[slot].TypeVars == nil {
		slot, _ = in.ensureHierarchy(id)
	}
	return in.classes[slot].TypeVars
}

// IsGeneric reports whether a class declares type variables.
func (in *Interner) IsGeneric(id TypeID) bool {
	return in.IsClassLike(id) && len(in.TypeVars(id)) > 0
}

// TypeVarNamed finds a declared type variable of a class by name.
func (in *Interner) TypeVarNamed(id TypeID, name string) TypeID {
	for _, tv := range in.TypeVars(id) {
		if in.typeVars[in.types[tv].Payload].Name == name {
			return tv
		}
	}
	return NoTypeID
}

// --- members slot ---

// MembersState returns the state of the members slot.
func (in *Interner) MembersState(id TypeID) SlotState {
	if slot, ok := in.classSlot(id); ok {
		return in.classes[slot].Members
	}
	return SlotResolved
}

// BeginMembers moves the members slot to Resolving.
func (in *Interner) BeginMembers(id TypeID) bool {
	slot, ok := in.classSlot(id)
	return ok && advance(&in.classes[slot].Members, SlotResolving)
}

// SetMembers records fields, methods and member types.
func (in *Interner) SetMembers(id TypeID, fields []FieldID, methods []MethodID, memberTypes []TypeID) {
	slot, ok := in.classSlot(id)
	if !ok {
		return
	}
	c := &in.classes[slot]
	c.Fields = cloneIDs(fields)
	c.Methods = cloneIDs(methods)
	c.MemberTypes = cloneIDs(memberTypes)
	c.Flags &^= MembersSorted
}

// AddMethod appends a method after members were set.
func (in *Interner) AddMethod(id TypeID, m MethodID) {
	if slot, ok := in.classSlot(id); ok {
		in.classes[slot].Methods = append(in.classes[slot].Methods, m)
		in.classes[slot].Flags &^= MembersSorted
	}
}

// EndMembers finalizes the members slot.
func (in *Interner) EndMembers(id TypeID, final SlotState) {
	if slot, ok := in.classSlot(id); ok {
		advance(&in.classes[slot].Members, final)
	}
}

func (in *Interner) ensureMembers(id TypeID) (uint32, bool) {
	slot, ok := in.classSlot(id)
	if !ok {
		return 0, false
	}
	if in.classes[slot].Members == SlotUnresolved && in.completer != nil {
		in.completer.CompleteMembers(in.Prototype(id))
	}
	return slot, true
}

// sortMembers orders fields and methods by name so that lookups can binary
// search. Methods keep declaration order within one selector.
func (in *Interner) sortMembers(slot uint32) {
	c := &in.classes[slot]
	if c.Flags&MembersSorted != 0 {
		return
	}
	sort.SliceStable(c.Fields, func(i, j int) bool {
		return in.fields[c.Fields[i]].Name < in.fields[c.Fields[j]].Name
	})
	sort.SliceStable(c.Methods, func(i, j int) bool {
		return in.methods[c.Methods[i]].Selector < in.methods[c.Methods[j]].Selector
	})
	sort.SliceStable(c.MemberTypes, func(i, j int) bool {
		return in.SimpleName(c.MemberTypes[i]) < in.SimpleName(c.MemberTypes[j])
	})
	if c.Members.Done() {
		c.Flags |= MembersSorted
	}
}

// Fields returns the declared fields of a class binding.
func (in *Interner) Fields(id TypeID) []FieldID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return nil
	}
	return in.classes[slot].Fields
}

// Methods returns the declared methods and constructors of a class binding.
func (in *Interner) Methods(id TypeID) []MethodID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return nil
	}
	return in.classes[slot].Methods
}

// MemberTypes returns the declared member types of a class binding.
func (in *Interner) MemberTypes(id TypeID) []TypeID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return nil
	}
	return in.classes[slot].MemberTypes
}

// MethodsNamed returns the contiguous range of methods called selector.
// The result aliases the member list and must not be modified.
func (in *Interner) MethodsNamed(id TypeID, selector string) []MethodID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return nil
	}
	in.sortMembers(slot)
	ms := in.classes[slot].Methods
	lo := sort.Search(len(ms), func(i int) bool { return in.methods[ms[i]].Selector >= selector })
	hi := lo
	for hi < len(ms) && in.methods[ms[hi]].Selector == selector {
		hi++
	}
	return ms[lo:hi:hi]
}

// Constructors returns the constructors of a class binding.
func (in *Interner) Constructors(id TypeID) []MethodID {
	return in.MethodsNamed(id, ConstructorName)
}

// FieldNamed finds a declared field by name.
func (in *Interner) FieldNamed(id TypeID, name string) FieldID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return NoFieldID
	}
	in.sortMembers(slot)
	fs := in.classes[slot].Fields
	i := sort.Search(len(fs), func(i int) bool { return in.fields[fs[i]].Name >= name })
	if i < len(fs) && in.fields[fs[i]].Name == name {
		return fs[i]
	}
	return NoFieldID
}

// MemberTypeNamed finds a declared member type by simple name.
func (in *Interner) MemberTypeNamed(id TypeID, name string) TypeID {
	slot, ok := in.ensureMembers(id)
	if !ok {
		return NoTypeID
	}
	in.sortMembers(slot)
	mts := in.classes[slot].MemberTypes
	i := sort.Search(len(mts), func(i int) bool { return in.SimpleName(mts[i]) >= name })
	if i < len(mts) && in.SimpleName(mts[i]) == name {
		return mts[i]
	}
	return NoTypeID
}

// IsEnclosedBy reports whether inner is outer or nested inside it.
func (in *Interner) IsEnclosedBy(inner, outer TypeID) bool {
	outer = in.GenericOf(outer)
	for cur := in.GenericOf(inner); cur != NoTypeID; cur = in.Enclosing(cur) {
		if cur == outer {
			return true
		}
	}
	return false
}

// BinaryNameOf returns the slash-separated binary name of a class.
func (in *Interner) BinaryNameOf(id TypeID) string {
	slot, ok := in.classSlot(in.GenericOf(id))
	if !ok {
		return ""
	}
	c := in.classes[slot]
	if c.BinaryName != "" {
		return c.BinaryName
	}
	if c.Enclosing != NoTypeID {
		return in.BinaryNameOf(c.Enclosing) + "$" + c.Name
	}
	if c.Package == "" {
		return c.Name
	}
	return strings.ReplaceAll(c.Package, ".", "/") + "/" + c.Name
}

// ClassesByOrigin lists class bindings of one origin in creation order.
func (in *Interner) ClassesByOrigin(origin Origin) []TypeID {
	var out []TypeID
	for i, tt := range in.types {
		if tt.Kind == KindClass && tt.Proto == NoTypeID && in.classes[tt.Payload].Origin == origin {
			out = append(out, TypeID(i)) //nolint:gosec // bounded by internRaw
		}
	}
	return slices.Clip(out)
}
