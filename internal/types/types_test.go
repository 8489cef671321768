package types

import (
	"testing"
)

type fixture struct {
	in      *Interner
	object  TypeID
	str     TypeID
	list    TypeID
	listVar TypeID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	in := NewInterner()
	object := in.RegisterClass(ClassInfo{Package: "java.lang", Name: "Object", Modifiers: ModPublic})
	in.SetObject(object)
	in.BeginHierarchy(object)
	in.EndHierarchy(object, SlotResolved)
	str := in.RegisterClass(ClassInfo{Package: "java.lang", Name: "String", Modifiers: ModPublic | ModFinal})
	list := in.RegisterClass(ClassInfo{Package: "java.util", Name: "List", Sort: SortInterface, Modifiers: ModPublic | ModInterface})
	tv := in.NewTypeVar("E", 0, list)
	in.SetTypeVars(list, []TypeID{tv})
	return fixture{in: in, object: object, str: str, list: list, listVar: tv}
}

func TestBuiltinsAreDistinctAndOrdered(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	seen := map[TypeID]bool{}
	for _, id := range []TypeID{b.Boolean, b.Byte, b.Char, b.Short, b.Int, b.Long, b.Float, b.Double, b.Void, b.Null} {
		if id == NoTypeID || seen[id] {
			t.Fatalf("builtin id %d is zero or duplicated", id)
		}
		seen[id] = true
	}
	if b.Boolean != 1 || b.Null != 10 {
		t.Fatalf("unexpected builtin layout: boolean=%d null=%d", b.Boolean, b.Null)
	}
	if !in.IsPrimitive(b.Int) || in.IsPrimitive(b.Void) || in.IsPrimitive(b.Null) {
		t.Fatalf("primitive classification is wrong")
	}
	if !in.IsReference(b.Null) || in.IsReference(b.Int) {
		t.Fatalf("null must be a reference type, int must not")
	}
}

func TestStructuralTypesAreInterned(t *testing.T) {
	f := newFixture(t)
	in := f.in

	a1 := in.Array(f.str, 1)
	a2 := in.Array(in.Array(f.str, 1), 1)
	if a2 != in.Array(f.str, 2) {
		t.Fatalf("nested arrays must flatten")
	}
	if a1 != in.Array(f.str, 1) {
		t.Fatalf("equal arrays must share an id")
	}
	if in.ElementType(a2) != a1 || in.LeafComponent(a2) != f.str {
		t.Fatalf("array accessors disagree")
	}

	p1 := in.Parameterized(f.list, []TypeID{f.str}, NoTypeID)
	p2 := in.Parameterized(f.list, []TypeID{f.str}, NoTypeID)
	if p1 != p2 {
		t.Fatalf("List<String> interned twice: %d vs %d", p1, p2)
	}
	if in.Parameterized(p1, []TypeID{f.object}, NoTypeID) == p1 {
		t.Fatalf("different arguments must not share an id")
	}
	if in.GenericOf(p1) != f.list || in.GenericOf(in.Raw(f.list, NoTypeID)) != f.list {
		t.Fatalf("GenericOf must return the declaration")
	}

	w := in.Wildcard(f.list, 0, WildExtends, f.str, nil)
	if w != in.Wildcard(f.list, 0, WildExtends, f.str, nil) {
		t.Fatalf("wildcards must be interned")
	}
	if in.Intersection([]TypeID{f.str}) != f.str {
		t.Fatalf("singleton intersection must collapse")
	}
}

func TestSlotTransitionsAreMonotonic(t *testing.T) {
	s := SlotUnresolved
	if !advance(&s, SlotResolving) || s != SlotResolving {
		t.Fatalf("unresolved -> resolving must succeed")
	}
	if advance(&s, SlotUnresolved) {
		t.Fatalf("resolving -> unresolved must fail")
	}
	if !advance(&s, SlotResolved) {
		t.Fatalf("resolving -> resolved must succeed")
	}
	if advance(&s, SlotProblem) || advance(&s, SlotResolving) {
		t.Fatalf("resolved is final")
	}
}

type countingCompleter struct {
	in        *Interner
	hierarchy int
	members   int
}

func (c *countingCompleter) CompleteHierarchy(id TypeID) {
	c.hierarchy++
	c.in.BeginHierarchy(id)
	c.in.SetSupertypes(id, c.in.Object(), nil)
	c.in.EndHierarchy(id, SlotResolved)
}

func (c *countingCompleter) CompleteMembers(id TypeID) {
	c.members++
	c.in.BeginMembers(id)
	var ms []MethodID
	for _, name := range []string{"size", "add", "add", "get"} {
		ms = append(ms, c.in.NewResolvedMethod(MethodInfo{Selector: name, Declaring: id}))
	}
	c.in.SetMembers(id, nil, ms, nil)
	c.in.EndMembers(id, SlotResolved)
}

func (c *countingCompleter) CompleteTypeVar(TypeID)  {}
func (c *countingCompleter) CompleteMethod(MethodID) {}
func (c *countingCompleter) CompleteField(FieldID)   {}

func TestLazyCompletionRunsOnce(t *testing.T) {
	f := newFixture(t)
	c := &countingCompleter{in: f.in}
	f.in.SetCompleter(c)

	for range 3 {
		if f.in.Superclass(f.str) != f.object {
			t.Fatalf("superclass of String must be Object")
		}
	}
	if c.hierarchy != 1 {
		t.Fatalf("hierarchy completed %d times, want 1", c.hierarchy)
	}

	adds := f.in.MethodsNamed(f.str, "add")
	if len(adds) != 2 {
		t.Fatalf("MethodsNamed(add) = %d, want 2", len(adds))
	}
	if got := f.in.MethodsNamed(f.str, "remove"); len(got) != 0 {
		t.Fatalf("MethodsNamed(remove) = %v, want empty", got)
	}
	_ = f.in.Methods(f.str)
	if c.members != 1 {
		t.Fatalf("members completed %d times, want 1", c.members)
	}
	if !f.in.HasFlag(f.str, MembersSorted) {
		t.Fatalf("resolved members must be marked sorted after lookup")
	}
}

func TestAnnotatedCloneSharesSlots(t *testing.T) {
	f := newFixture(t)
	c := &countingCompleter{in: f.in}
	f.in.SetCompleter(c)

	nn := []Annotation{{Type: "org.example.NonNull"}}
	clone := f.in.Annotate(f.str, nn)
	if clone == f.str || f.in.Prototype(clone) != f.str {
		t.Fatalf("clone must be distinct and point at its prototype")
	}
	if f.in.Annotate(clone, nn) != clone {
		t.Fatalf("equal annotations must reuse the clone")
	}
	_ = f.in.Superclass(clone)
	_ = f.in.Superclass(f.str)
	if c.hierarchy != 1 {
		t.Fatalf("clone and prototype must share one completion, got %d", c.hierarchy)
	}
	if !f.in.Same(clone, f.str) || f.in.Erasure(clone) != f.str {
		t.Fatalf("clone must erase to its prototype")
	}
	if got := f.in.String(clone); got != "@org.example.NonNull java.lang.String" {
		t.Fatalf("String(clone) = %q", got)
	}
}

func TestMissingTypeIsValid(t *testing.T) {
	f := newFixture(t)
	m := f.in.RegisterMissing("com.acme", "Gone", "com/acme/Gone")
	if !f.in.IsValid(m) {
		t.Fatalf("missing types are valid bindings")
	}
	if f.in.Superclass(m) != f.object {
		t.Fatalf("missing type superclass must be Object")
	}
	if !f.in.HasFlag(m, HasMissingType) {
		t.Fatalf("missing type must carry HasMissingType")
	}
	if len(f.in.Methods(m)) != 0 {
		t.Fatalf("missing type has no members")
	}
	p := f.in.NewProblemType("Nope", NotFound, NoTypeID)
	if f.in.IsValid(p) || f.in.Reason(p) != NotFound {
		t.Fatalf("problem types are invalid and keep their reason")
	}
}

func TestErasureAndSignatures(t *testing.T) {
	f := newFixture(t)
	in := f.in
	ls := in.Parameterized(f.list, []TypeID{in.Wildcard(f.list, 0, WildExtends, f.str, nil)}, NoTypeID)

	cases := []struct {
		id        TypeID
		erasure   TypeID
		signature string
		str       string
	}{
		{ls, f.list, "Ljava/util/List<+Ljava/lang/String;>;", "java.util.List<? extends java.lang.String>"},
		{f.listVar, f.object, "TE;", "E"},
		{in.Array(ls, 2), in.Array(f.list, 2), "[[Ljava/util/List<+Ljava/lang/String;>;", "java.util.List<? extends java.lang.String>[][]"},
		{in.Builtins().Int, in.Builtins().Int, "I", "int"},
	}
	for _, tc := range cases {
		if got := in.Erasure(tc.id); got != tc.erasure {
			t.Errorf("Erasure(%s) = %s, want %s", in.String(tc.id), in.String(got), in.String(tc.erasure))
		}
		if got := in.Signature(tc.id); got != tc.signature {
			t.Errorf("Signature = %q, want %q", got, tc.signature)
		}
		if got := in.String(tc.id); got != tc.str {
			t.Errorf("String = %q, want %q", got, tc.str)
		}
	}
}

func TestBoundedTypeVarErasure(t *testing.T) {
	f := newFixture(t)
	in := f.in
	cmp := in.RegisterClass(ClassInfo{Package: "java.lang", Name: "Comparable", Sort: SortInterface})
	tv := in.NewTypeVar("T", 0, cmp)
	in.BeginTypeVar(tv)
	in.SetTypeVarBounds(tv, []TypeID{in.Parameterized(cmp, []TypeID{tv}, NoTypeID)})
	in.EndTypeVar(tv, SlotResolved)
	if got := in.Erasure(tv); got != cmp {
		t.Fatalf("erasure of T extends Comparable<T> = %s", in.String(got))
	}
}

func TestMethodStringAndDescriptor(t *testing.T) {
	f := newFixture(t)
	in := f.in
	m := in.NewResolvedMethod(MethodInfo{
		Selector:  "format",
		Declaring: f.str,
		Modifiers: ModPublic | ModStatic | ModVarargs,
		Params:    []TypeID{f.str, in.Array(f.object, 1)},
		Return:    f.str,
	})
	if got := in.MethodString(m); got != "format(String, Object...)" {
		t.Fatalf("MethodString = %q", got)
	}
	if got := in.MethodDescriptor(m); got != "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;" {
		t.Fatalf("MethodDescriptor = %q", got)
	}
	ctor := in.NewResolvedMethod(MethodInfo{Selector: ConstructorName, Declaring: f.str})
	if !in.IsConstructor(ctor) || in.MethodDescriptor(ctor) != "()V" {
		t.Fatalf("constructor classification or descriptor wrong")
	}
}
