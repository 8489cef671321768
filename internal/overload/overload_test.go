package overload

import (
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

const pubStatic = types.ModPublic | types.ModStatic

type fixture struct {
	r   *Resolver
	env *env.Environment
	in  *types.Interner
}

func newFixture(t *testing.T, features config.Features, extra ...*binary.Descriptor) fixture {
	t.Helper()
	core := binary.CoreLibrary()
	for _, d := range extra {
		core.Add(d)
	}
	e := env.New(types.NewInterner(), core, env.Options{Config: config.Default()})
	return fixture{r: New(typesys.New(e), Options{Features: features}), env: e, in: e.Types()}
}

func allFeatures() config.Features {
	return config.FeaturesFor(config.LevelLatest)
}

func (f fixture) typ(t *testing.T, name string) types.TypeID {
	t.Helper()
	id := f.env.LookupType(name)
	if id == types.NoTypeID {
		t.Fatalf("%s not found", name)
	}
	return id
}

func (f fixture) sel(t *testing.T, owner, name string, args ...types.TypeID) types.MethodID {
	t.Helper()
	o := f.typ(t, owner)
	return f.r.Select(name, o, f.in.MethodsNamed(o, name), args, Site{})
}

func (f fixture) descriptor(m types.MethodID) string {
	return f.in.MethodDescriptor(m)
}

func TestStrictBeatsBoxingRegardlessOfOrder(t *testing.T) {
	for _, order := range [][2]string{{"(I)V", "(Ljava/lang/Object;)V"}, {"(Ljava/lang/Object;)V", "(I)V"}} {
		f := newFixture(t, allFeatures(), binary.NewClass("p/S").
			Method(pubStatic, "g", order[0], "").
			Method(pubStatic, "g", order[1], "").
			Build())
		m := f.sel(t, "p/S", "g", f.in.Builtins().Int)
		if got := f.descriptor(m); got != "(I)V" {
			t.Fatalf("order %v: picked %s, want (I)V", order, got)
		}
	}
}

func TestWideningBeatsBoxing(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(pubStatic, "k", "(Ljava/lang/Integer;)V", "").
		Method(pubStatic, "k", "(J)V", "").
		Build())
	if got := f.descriptor(f.sel(t, "p/S", "k", f.in.Builtins().Int)); got != "(J)V" {
		t.Fatalf("picked %s, want (J)V", got)
	}
}

func TestMostSpecificPrefersSubtype(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(pubStatic, "f", "(Ljava/lang/Object;)V", "").
		Method(pubStatic, "f", "(Ljava/lang/String;)V", "").
		Build())
	str := f.typ(t, "java/lang/String")
	if got := f.descriptor(f.sel(t, "p/S", "f", str)); got != "(Ljava/lang/String;)V" {
		t.Fatalf("f(String) expected, got %s", got)
	}
	if got := f.descriptor(f.sel(t, "p/S", "f", f.in.Object())); got != "(Ljava/lang/Object;)V" {
		t.Fatalf("f(Object) expected, got %s", got)
	}
}

func TestAmbiguousCall(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(pubStatic, "a", "(Ljava/lang/Object;Ljava/lang/String;)V", "").
		Method(pubStatic, "a", "(Ljava/lang/String;Ljava/lang/Object;)V", "").
		Build())
	str := f.typ(t, "java/lang/String")
	m := f.sel(t, "p/S", "a", str, str)
	if f.in.MethodReason(m) != types.Ambiguous {
		t.Fatalf("reason = %v, want ambiguous", f.in.MethodReason(m))
	}
	if f.in.Method(m).Closest == types.NoMethodID {
		t.Fatalf("ambiguous result should carry a closest match")
	}
}

func TestVarargsWithNoTrailingArguments(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(pubStatic|types.ModVarargs, "h", "(I[I)V", "").
		Build())
	b := f.in.Builtins()
	m := f.sel(t, "p/S", "h", b.Int)
	if !f.in.IsValidMethod(m) {
		t.Fatalf("h(1) should resolve, got %v", f.in.MethodReason(m))
	}
	o := f.typ(t, "p/S")
	if _, level := f.r.Applicability(m, []types.TypeID{b.Int}, Site{}); level != VarargsCompatible {
		t.Fatalf("level = %v, want varargs", level)
	}
	if _, level := f.r.Applicability(f.in.MethodsNamed(o, "h")[0], []types.TypeID{b.Int, b.Int, b.Int}, Site{}); level != VarargsCompatible {
		t.Fatalf("three arguments: level = %v", level)
	}
	arr := f.in.Array(b.Int, 1)
	if _, level := f.r.Applicability(m, []types.TypeID{b.Int, arr}, Site{}); level != Compatible {
		t.Fatalf("array passed directly: level = %v, want compatible", level)
	}
}

func TestFixedArityBeatsVarargs(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(pubStatic|types.ModVarargs, "v", "([Ljava/lang/Object;)V", "").
		Method(pubStatic, "v", "(Ljava/lang/Object;)V", "").
		Build())
	if got := f.descriptor(f.sel(t, "p/S", "v", f.typ(t, "java/lang/String"))); got != "(Ljava/lang/Object;)V" {
		t.Fatalf("picked %s", got)
	}
}

func TestPhasesFollowFeatures(t *testing.T) {
	d := binary.NewClass("p/S").
		Method(pubStatic|types.ModVarargs, "h", "(I[I)V", "").
		Method(pubStatic, "box", "(Ljava/lang/Integer;)V", "").
		Build()
	f := newFixture(t, config.FeaturesFor(config.Level(4)), d)
	b := f.in.Builtins()
	if m := f.sel(t, "p/S", "h", b.Int); f.in.MethodReason(m) != types.NotFound {
		t.Fatalf("varargs disabled: reason = %v", f.in.MethodReason(m))
	}
	if m := f.sel(t, "p/S", "box", b.Int); f.in.MethodReason(m) != types.NotFound {
		t.Fatalf("autobox disabled: reason = %v", f.in.MethodReason(m))
	}
}

func TestNotFoundAndNotVisible(t *testing.T) {
	f := newFixture(t, allFeatures(), binary.NewClass("p/S").
		Method(types.ModPrivate|types.ModStatic, "secret", "(I)V", "").
		Method(pubStatic, "two", "(II)V", "").
		Build())
	in := f.in
	s := f.typ(t, "p/S")
	b := in.Builtins()

	hide := Site{CanSee: func(m types.MethodID) bool { return !in.Method(m).Modifiers.IsPrivate() }}
	m := f.r.Select("secret", s, in.MethodsNamed(s, "secret"), []types.TypeID{b.Int}, hide)
	if in.MethodReason(m) != types.NotVisible || in.Method(m).Closest == types.NoMethodID {
		t.Fatalf("secret: reason = %v", in.MethodReason(m))
	}
	m = f.sel(t, "p/S", "two", b.Int)
	if in.MethodReason(m) != types.NotFound || in.Method(m).Closest != in.MethodsNamed(s, "two")[0] {
		t.Fatalf("two: reason = %v closest = %d", in.MethodReason(m), in.Method(m).Closest)
	}
	m = f.sel(t, "p/S", "none")
	if in.MethodReason(m) != types.NotFound {
		t.Fatalf("none: reason = %v", in.MethodReason(m))
	}
}

func TestGenericCandidateIsInstantiated(t *testing.T) {
	f := newFixture(t, allFeatures())
	in := f.in
	str := f.typ(t, "java/lang/String")
	m := f.sel(t, "java/util/Objects", "requireNonNull", str)
	if in.Method(m).Return != str || in.Method(m).Variant != types.VariantGenericInvocation {
		t.Fatalf("requireNonNull(String) = %s", in.MethodString(m))
	}
	objs := f.typ(t, "java/util/Objects")
	explicit := f.r.Select("requireNonNull", objs, in.MethodsNamed(objs, "requireNonNull"), []types.TypeID{str},
		Site{TypeArgs: []types.TypeID{str, str}})
	if in.MethodReason(explicit) != types.TypeArgumentArityMismatch {
		t.Fatalf("reason = %v", in.MethodReason(explicit))
	}
}

func TestAbstractMethodsMergeThrownExceptions(t *testing.T) {
	abs := types.ModPublic | types.ModAbstract
	f := newFixture(t, allFeatures(),
		binary.NewInterface("p/I1").Method(abs, "run", "()V", "", "java/lang/Exception").Build(),
		binary.NewInterface("p/I2").Method(abs, "run", "()V", "", "java/io/IOException").Build(),
		binary.NewInterface("p/J").Implements("p/I1", "p/I2").Build(),
	)
	in := f.in
	i1, i2 := f.typ(t, "p/I1"), f.typ(t, "p/I2")
	cands := append(in.MethodsNamed(i1, "run"), in.MethodsNamed(i2, "run")...)
	m := f.r.Select("run", f.typ(t, "p/J"), cands, nil, Site{})
	info := in.Method(m)
	if !in.IsValidMethod(m) {
		t.Fatalf("run() should resolve, got %v", in.MethodReason(m))
	}
	if info.Variant != types.VariantMostSpecificException {
		t.Fatalf("variant = %v", info.Variant)
	}
	if len(info.Thrown) != 1 || info.Thrown[0] != f.typ(t, "java/io/IOException") {
		t.Fatalf("thrown = %v", info.Thrown)
	}
}

func TestStaticFactoryShape(t *testing.T) {
	f := newFixture(t, allFeatures())
	in := f.in
	al := f.typ(t, "java/util/ArrayList")
	ctor := in.Constructors(al)[0]
	fac := f.r.StaticFactory(ctor)
	info := in.Method(fac)
	if info.Variant != types.VariantStaticFactory || !info.Modifiers.IsStatic() || info.Original != ctor {
		t.Fatalf("factory = %+v", info)
	}
	if len(info.TypeVars) != 1 || info.TypeVars[0] == in.TypeVars(al)[0] {
		t.Fatalf("factory must own fresh type variables")
	}
	if in.GenericOf(info.Return) != al || in.TypeArgs(info.Return)[0] != info.TypeVars[0] {
		t.Fatalf("factory returns %s", in.String(info.Return))
	}
	if f.r.StaticFactory(ctor) != fac {
		t.Fatalf("factories are memoized per constructor")
	}
}

func TestDiamond(t *testing.T) {
	f := newFixture(t, allFeatures())
	in := f.in
	al := f.typ(t, "java/util/ArrayList")
	str := f.typ(t, "java/lang/String")
	listStr := in.Parameterized(f.typ(t, "java/util/List"), []types.TypeID{str}, types.NoTypeID)

	alloc, ctor := f.r.ResolveDiamond(al, nil, Site{Expected: listStr})
	want := in.Parameterized(al, []types.TypeID{str}, types.NoTypeID)
	if alloc != want {
		t.Fatalf("new ArrayList<>() as List<String> allocates %s", in.String(alloc))
	}
	if in.OriginalMethod(ctor) != in.Constructors(al)[0] || in.Method(ctor).Declaring != want {
		t.Fatalf("constructor = %s", in.MethodString(ctor))
	}

	alStr := in.Parameterized(al, []types.TypeID{str}, types.NoTypeID)
	alloc, _ = f.r.ResolveDiamond(al, []types.TypeID{alStr}, Site{})
	if alloc != want {
		t.Fatalf("new ArrayList<>(ArrayList<String>) allocates %s", in.String(alloc))
	}

	alloc, _ = f.r.ResolveDiamond(al, nil, Site{})
	if in.TypeArgs(alloc)[0] != in.Object() {
		t.Fatalf("unconstrained diamond allocates %s", in.String(alloc))
	}

	_, bad := f.r.ResolveDiamond(al, []types.TypeID{str, str}, Site{})
	if in.MethodReason(bad) != types.NotFound || !in.IsConstructor(in.Method(bad).Closest) {
		t.Fatalf("bad diamond: reason = %v closest = %d", in.MethodReason(bad), in.Method(bad).Closest)
	}
}
