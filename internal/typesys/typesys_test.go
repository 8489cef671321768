package typesys

import (
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

func newSystem(t *testing.T, extra ...*binary.Descriptor) *System {
	t.Helper()
	core := binary.CoreLibrary()
	for _, d := range extra {
		core.Add(d)
	}
	e := env.New(types.NewInterner(), core, env.Options{Config: config.Default()})
	return New(e)
}

func (s *System) mustType(t *testing.T, name string) types.TypeID {
	t.Helper()
	id := s.env.LookupType(name)
	if id == types.NoTypeID {
		t.Fatalf("%s not found", name)
	}
	return id
}

func unrelatedPair() []*binary.Descriptor {
	return []*binary.Descriptor{
		binary.NewInterface("p/I1").Build(),
		binary.NewInterface("p/I2").Build(),
		binary.NewClass("p/A").Implements("p/I1", "p/I2").Build(),
		binary.NewClass("p/B").Implements("p/I2", "p/I1").Build(),
	}
}

func TestLUBOfSingleTypeIsIdentity(t *testing.T) {
	s := newSystem(t)
	str := s.mustType(t, "java/lang/String")
	if got := s.LUB([]types.TypeID{str, str}); got != str {
		t.Fatalf("lub(String, String) = %s", s.in.String(got))
	}
	obj := s.object()
	if got := s.LUB([]types.TypeID{str, obj}); got != obj {
		t.Fatalf("lub(String, Object) = %s", s.in.String(got))
	}
}

func TestLUBOfUnrelatedInterfacesStartsWithObject(t *testing.T) {
	s := newSystem(t, unrelatedPair()...)
	a, b := s.mustType(t, "p/A"), s.mustType(t, "p/B")
	got := s.LUB([]types.TypeID{a, b})
	if s.in.KindOf(got) != types.KindIntersection {
		t.Fatalf("lub(A, B) = %s, want an intersection", s.in.String(got))
	}
	members := s.in.IntersectionMembers(got)
	if len(members) != 3 || members[0] != s.object() {
		t.Fatalf("lub(A, B) = %s, want Object & I1 & I2", s.in.String(got))
	}
	if members[1] != s.mustType(t, "p/I1") || members[2] != s.mustType(t, "p/I2") {
		t.Fatalf("interfaces out of order: %s", s.in.String(got))
	}
}

func TestLUBIsSymmetric(t *testing.T) {
	s := newSystem(t, unrelatedPair()...)
	pairs := [][2]string{
		{"p/A", "p/B"},
		{"java/lang/Integer", "java/lang/String"},
		{"java/lang/Integer", "java/lang/Double"},
		{"java/util/ArrayList", "java/lang/String"},
	}
	for _, p := range pairs {
		x, y := s.mustType(t, p[0]), s.mustType(t, p[1])
		xy := s.LUB([]types.TypeID{x, y})
		yx := s.LUB([]types.TypeID{y, x})
		if xy != yx {
			t.Fatalf("lub(%s, %s) = %s but reversed = %s", p[0], p[1], s.in.String(xy), s.in.String(yx))
		}
	}
}

func TestLUBRecursionYieldsWildcard(t *testing.T) {
	s := newSystem(t)
	integer, double := s.mustType(t, "java/lang/Integer"), s.mustType(t, "java/lang/Double")
	got := s.LUB([]types.TypeID{integer, double})
	members := s.in.IntersectionMembers(got)
	if len(members) != 2 || members[0] != s.mustType(t, "java/lang/Number") {
		t.Fatalf("lub(Integer, Double) = %s", s.in.String(got))
	}
	cmp := members[1]
	if s.in.GenericOf(cmp) != s.mustType(t, "java/lang/Comparable") {
		t.Fatalf("second member = %s", s.in.String(cmp))
	}
	args := s.in.TypeArgs(cmp)
	if len(args) != 1 || !s.in.IsUnboundWildcard(args[0]) {
		t.Fatalf("Comparable argument = %s, want ?", s.in.String(cmp))
	}
}

func TestLUBIgnoresNullAndBoxes(t *testing.T) {
	s := newSystem(t)
	b := s.in.Builtins()
	got := s.LUB([]types.TypeID{b.Int, b.Null})
	if got != s.mustType(t, "java/lang/Integer") {
		t.Fatalf("lub(int, null) = %s", s.in.String(got))
	}
	if got := s.LUB([]types.TypeID{b.Null}); got != b.Null {
		t.Fatalf("lub(null) = %s", s.in.String(got))
	}
}

func TestLUBOfArrays(t *testing.T) {
	s := newSystem(t)
	str := s.in.Array(s.mustType(t, "java/lang/String"), 1)
	sb := s.in.Array(s.mustType(t, "java/lang/StringBuilder"), 1)
	got := s.LUB([]types.TypeID{str, sb})
	if s.in.KindOf(got) != types.KindArray {
		t.Fatalf("lub(String[], StringBuilder[]) = %s", s.in.String(got))
	}
	ints := s.in.Array(s.in.Builtins().Int, 1)
	mixed := s.LUB([]types.TypeID{ints, str})
	if s.in.KindOf(mixed) != types.KindIntersection || s.in.IntersectionMembers(mixed)[0] != s.object() {
		t.Fatalf("lub(int[], String[]) = %s", s.in.String(mixed))
	}
}

func TestGLB(t *testing.T) {
	s := newSystem(t)
	ser := s.mustType(t, "java/io/Serializable")
	num := s.mustType(t, "java/lang/Number")
	str := s.mustType(t, "java/lang/String")
	cmp := s.mustType(t, "java/lang/Comparable")

	if got := s.GLB([]types.TypeID{s.object(), ser}); len(got) != 1 || got[0] != ser {
		t.Fatalf("glb(Object, Serializable) = %v", got)
	}
	if got := s.GLB([]types.TypeID{ser, num}); len(got) != 1 || got[0] != num {
		t.Fatalf("glb(Serializable, Number) = %v", got)
	}
	if got := s.GLB([]types.TypeID{num, str}); got != nil {
		t.Fatalf("glb of unrelated classes should be unsatisfiable, got %v", got)
	}
	got := s.GLB([]types.TypeID{cmp, num})
	if len(got) != 2 || got[0] != num {
		t.Fatalf("glb(Comparable, Number) = %v, want class first", got)
	}
}

func TestSubtypingWithWildcards(t *testing.T) {
	s := newSystem(t)
	in := s.in
	list := s.mustType(t, "java/util/List")
	arrayList := s.mustType(t, "java/util/ArrayList")
	str := s.mustType(t, "java/lang/String")
	cs := s.mustType(t, "java/lang/CharSequence")

	alStr := in.Parameterized(arrayList, []types.TypeID{str}, types.NoTypeID)
	listExtCS := in.Parameterized(list, []types.TypeID{in.Wildcard(list, 0, types.WildExtends, cs, nil)}, types.NoTypeID)
	listObj := in.Parameterized(list, []types.TypeID{s.object()}, types.NoTypeID)
	listSuperStr := in.Parameterized(list, []types.TypeID{in.Wildcard(list, 0, types.WildSuper, str, nil)}, types.NoTypeID)
	listCS := in.Parameterized(list, []types.TypeID{cs}, types.NoTypeID)

	if !s.IsSubtype(alStr, listExtCS) {
		t.Fatalf("ArrayList<String> should be a List<? extends CharSequence>")
	}
	if s.IsSubtype(alStr, listObj) {
		t.Fatalf("ArrayList<String> must not be a List<Object>")
	}
	if !s.IsSubtype(listCS, listSuperStr) {
		t.Fatalf("List<CharSequence> should be a List<? super String>")
	}
	if !s.IsSubtype(alStr, in.Raw(list, types.NoTypeID)) {
		t.Fatalf("ArrayList<String> should be a raw List")
	}
	proj := s.AsSuper(alStr, list)
	if in.GenericOf(proj) != list || in.TypeArgs(proj)[0] != str {
		t.Fatalf("AsSuper(ArrayList<String>, List) = %s", in.String(proj))
	}
}

func TestConversions(t *testing.T) {
	s := newSystem(t)
	in := s.in
	b := in.Builtins()
	integer := s.mustType(t, "java/lang/Integer")
	list := s.mustType(t, "java/util/List")
	arrayList := s.mustType(t, "java/util/ArrayList")
	listStr := in.Parameterized(list, []types.TypeID{s.mustType(t, "java/lang/String")}, types.NoTypeID)

	cases := []struct {
		name     string
		from, to types.TypeID
		strict   Conversion
		loose    Conversion
	}{
		{"identity", b.Int, b.Int, ConvIdentity, ConvIdentity},
		{"widen int to long", b.Int, b.Long, ConvWidening, ConvWidening},
		{"no narrowing", b.Long, b.Int, ConvNone, ConvNone},
		{"box int to Object", b.Int, s.object(), ConvNone, ConvBoxing},
		{"box int to Integer", b.Int, integer, ConvNone, ConvBoxing},
		{"unbox Integer to long", integer, b.Long, ConvNone, ConvUnboxing},
		{"raw to parameterized", in.Raw(arrayList, types.NoTypeID), listStr, ConvUnchecked, ConvUnchecked},
		{"null to reference", b.Null, integer, ConvWidening, ConvWidening},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := s.Strict(c.from, c.to); got != c.strict {
				t.Fatalf("strict = %s, want %s", got, c.strict)
			}
			if got := s.Loose(c.from, c.to); got != c.loose {
				t.Fatalf("loose = %s, want %s", got, c.loose)
			}
		})
	}
}

func TestCaptureIsFreshPerSite(t *testing.T) {
	s := newSystem(t)
	in := s.in
	list := s.mustType(t, "java/util/List")
	num := s.mustType(t, "java/lang/Number")
	wild := in.Parameterized(list, []types.TypeID{in.Wildcard(list, 0, types.WildExtends, num, nil)}, types.NoTypeID)

	c1, c2 := s.Capture(wild), s.Capture(wild)
	if c1 == c2 {
		t.Fatalf("two captures of the same type must differ")
	}
	arg := in.TypeArgs(c1)[0]
	if in.KindOf(arg) != types.KindCapture {
		t.Fatalf("captured argument kind = %v", in.KindOf(arg))
	}
	if !s.IsSubtype(arg, num) {
		t.Fatalf("capture of ? extends Number should be a Number")
	}
	if !s.IsSubtype(c1, wild) {
		t.Fatalf("captured type should be a subtype of its source")
	}
	plain := in.Parameterized(list, []types.TypeID{num}, types.NoTypeID)
	if s.Capture(plain) != plain {
		t.Fatalf("capture without wildcards must be the identity")
	}
}

func TestArraySubtyping(t *testing.T) {
	s := newSystem(t)
	in := s.in
	strs := in.Array(s.mustType(t, "java/lang/String"), 1)
	objs := in.Array(s.object(), 1)
	ints := in.Array(in.Builtins().Int, 1)

	if !s.IsSubtype(strs, objs) {
		t.Fatalf("String[] should be an Object[]")
	}
	if s.IsSubtype(ints, objs) {
		t.Fatalf("int[] must not be an Object[]")
	}
	if !s.IsSubtype(ints, s.Known(env.KnownCloneable)) || !s.IsSubtype(ints, s.object()) {
		t.Fatalf("arrays are Cloneable objects")
	}
}

func TestMemberViews(t *testing.T) {
	s := newSystem(t)
	in := s.in
	list := s.mustType(t, "java/util/List")
	arrayList := s.mustType(t, "java/util/ArrayList")
	str := s.mustType(t, "java/lang/String")
	get := in.MethodsNamed(list, "get")[0]

	alStr := in.Parameterized(arrayList, []types.TypeID{str}, types.NoTypeID)
	view := s.MethodIn(alStr, get)
	info := in.Method(view)
	if info.Variant != types.VariantMemberOfParameterized || info.Return != str {
		t.Fatalf("ArrayList<String>.get = %s (%v)", in.MethodString(view), info.Variant)
	}
	if in.GenericOf(info.Declaring) != list {
		t.Fatalf("declaring = %s, want List<String>", in.String(info.Declaring))
	}
	if s.MethodIn(alStr, get) != view {
		t.Fatalf("member view is not memoized")
	}

	raw := s.MethodIn(in.Raw(arrayList, types.NoTypeID), get)
	if in.Method(raw).Variant != types.VariantMemberOfRaw || in.Method(raw).Return != s.object() {
		t.Fatalf("raw ArrayList.get = %s", in.MethodString(raw))
	}
	if s.MethodIn(list, get) != get {
		t.Fatalf("the declaring generic sees the method unchanged")
	}
	inherited := in.Method(s.MethodIn(arrayList, get))
	if inherited.Return != in.TypeVars(arrayList)[0] {
		t.Fatalf("ArrayList<E>.get returns %s, want E", in.String(inherited.Return))
	}
}
