package env

import (
	"errors"
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

func newTestEnv(t *testing.T, extra ...*binary.Descriptor) *Environment {
	t.Helper()
	core := binary.CoreLibrary()
	for _, d := range extra {
		core.Add(d)
	}
	return New(types.NewInterner(), core, Options{Config: config.Default()})
}

type countingRecorder struct {
	completions map[string]int
}

func (r *countingRecorder) Lookup(string)  {}
func (r *countingRecorder) Problem(string) {}
func (r *countingRecorder) Candidates(int) {}
func (r *countingRecorder) Completion(slot string) {
	r.completions[slot]++
}

func TestUnknownSuperclassIsMissing(t *testing.T) {
	e := newTestEnv(t, binary.NewClass("p/A").
		Super("p/Gone").
		Field(types.ModPublic, "x", "I", "").
		Method(types.ModPublic, "m", "()V", "").
		Build())
	in := e.Types()

	a := e.LookupType("p/A")
	if a == types.NoTypeID {
		t.Fatalf("p/A not found")
	}
	sup := in.Superclass(a)
	if in.KindOf(sup) != types.KindMissing {
		t.Fatalf("superclass kind = %v, want missing", in.KindOf(sup))
	}
	if in.Superclass(sup) != in.Object() {
		t.Fatalf("missing type must extend the root class")
	}
	if !in.HasFlag(a, types.HasMissingType) {
		t.Fatalf("expected HasMissingType on p.A")
	}
	if len(in.Fields(a)) != 1 || len(in.MethodsNamed(a, "m")) != 1 {
		t.Fatalf("members not listed: fields=%d methods=%d", len(in.Fields(a)), len(in.MethodsNamed(a, "m")))
	}
	found := false
	for _, f := range e.Findings() {
		if f.Kind == FindingMissingType && f.Name == "p.Gone" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing type not recorded: %+v", e.Findings())
	}
}

func TestMissingParameterTypeFlagsMethod(t *testing.T) {
	e := newTestEnv(t, binary.NewClass("p/B").
		Method(types.ModPublic, "take", "(Lq/Nope;)V", "").
		Build())
	in := e.Types()
	b := e.LookupType("p/B")
	m := in.MethodsNamed(b, "take")[0]
	info := in.Method(m)
	if info.Flags&types.MemberHasMissingType == 0 {
		t.Fatalf("method should carry MemberHasMissingType")
	}
	if !in.HasFlag(b, types.HasMissingType) {
		t.Fatalf("declaring class should carry HasMissingType")
	}
}

func TestCyclicHierarchyTerminates(t *testing.T) {
	e := newTestEnv(t,
		binary.NewClass("p/A").Super("p/B").Build(),
		binary.NewClass("p/B").Super("p/A").Build(),
	)
	in := e.Types()
	a, b := e.LookupType("p/A"), e.LookupType("p/B")

	_ = in.Superclass(a)
	for _, id := range []types.TypeID{a, b} {
		if !in.HasFlag(id, types.HierarchyHasProblems) {
			t.Fatalf("%s: expected HierarchyHasProblems", in.QualifiedName(id))
		}
	}
	// walking up must reach the root
	seen := 0
	for cur := a; cur != types.NoTypeID; cur = in.Superclass(cur) {
		seen++
		if seen > 5 {
			t.Fatalf("superclass chain does not terminate")
		}
	}
}

func TestSelfCycle(t *testing.T) {
	e := newTestEnv(t, binary.NewInterface("p/I").Implements("p/I").Build())
	in := e.Types()
	i := e.LookupType("p/I")
	if got := in.Interfaces(i); len(got) != 0 {
		t.Fatalf("self edge must be cut, got %v", got)
	}
	if in.HierarchyState(i) != types.SlotProblem {
		t.Fatalf("state = %v, want problem", in.HierarchyState(i))
	}
}

func TestResolutionIsIdempotent(t *testing.T) {
	rec := &countingRecorder{completions: map[string]int{}}
	e := New(types.NewInterner(), binary.CoreLibrary(), Options{Config: config.Default(), Metrics: rec})
	in := e.Types()
	list := e.LookupType("java/util/List")

	first := in.MethodsNamed(list, "get")
	second := in.MethodsNamed(list, "get")
	if len(first) != 1 || first[0] != second[0] {
		t.Fatalf("MethodsNamed not stable: %v vs %v", first, second)
	}
	m1 := in.Method(first[0])
	m2 := in.Method(first[0])
	if m1.Return != m2.Return || m1.Params[0] != m2.Params[0] {
		t.Fatalf("signature changed between calls")
	}
	if rec.completions["method"] != 1 {
		t.Fatalf("method completed %d times", rec.completions["method"])
	}
	if in.MethodState(first[0]) != types.SlotResolved {
		t.Fatalf("state = %v", in.MethodState(first[0]))
	}
}

func TestGenericSignatures(t *testing.T) {
	e := newTestEnv(t)
	in := e.Types()
	list := e.LookupType("java/util/List")
	arrayList := e.LookupType("java/util/ArrayList")

	tvs := in.TypeVars(list)
	if len(tvs) != 1 {
		t.Fatalf("List type vars = %d", len(tvs))
	}
	get := in.Method(in.MethodsNamed(list, "get")[0])
	if get.Return != tvs[0] {
		t.Fatalf("List.get returns %s, want E", in.String(get.Return))
	}
	if get.Params[0] != in.Builtins().Int {
		t.Fatalf("List.get param = %s", in.String(get.Params[0]))
	}

	sup := in.Superclass(arrayList)
	if in.KindOf(sup) != types.KindParameterized || in.GenericOf(sup) != e.LookupType("java/util/AbstractList") {
		t.Fatalf("ArrayList superclass = %s", in.String(sup))
	}
	if args := in.TypeArgs(sup); len(args) != 1 || args[0] != in.TypeVars(arrayList)[0] {
		t.Fatalf("AbstractList argument should be ArrayList's E, got %s", in.String(sup))
	}

	of := in.MethodsNamed(list, "of")
	var varargs types.MethodID
	for _, m := range of {
		if in.IsVarargs(m) {
			varargs = m
		}
	}
	info := in.Method(varargs)
	if len(info.TypeVars) != 1 {
		t.Fatalf("List.of type vars = %d", len(info.TypeVars))
	}
	tv, _ := in.TypeVarInfo(info.TypeVars[0])
	if tv.DeclMethod != varargs {
		t.Fatalf("method type variable not backfilled: %+v", tv)
	}
	if in.ElementType(info.Params[0]) != info.TypeVars[0] {
		t.Fatalf("varargs param = %s", in.String(info.Params[0]))
	}
}

func TestRawWithoutArguments(t *testing.T) {
	e := newTestEnv(t, binary.NewClass("p/Legacy").
		Method(types.ModPublic, "items", "()Ljava/util/List;", "").
		Build())
	in := e.Types()
	m := in.MethodsNamed(e.LookupType("p/Legacy"), "items")[0]
	if ret := in.Method(m).Return; !in.IsRaw(ret) {
		t.Fatalf("descriptor-only List should be raw, got %s", in.String(ret))
	}
}

func TestInnerConstructorDropsOuterInstance(t *testing.T) {
	e := newTestEnv(t,
		binary.NewClass("p/Outer").MemberTypes("p/Outer$Inner").Build(),
		binary.NewClass("p/Outer$Inner").Member("p/Outer").
			Ctor("(Lp/Outer;I)V", "").
			Build(),
	)
	in := e.Types()
	inner := e.LookupType("p/Outer$Inner")
	if in.Enclosing(inner) != e.LookupType("p/Outer") {
		t.Fatalf("enclosing not linked")
	}
	ctors := in.Constructors(inner)
	if len(ctors) != 1 {
		t.Fatalf("constructors = %d", len(ctors))
	}
	if in.MethodRaw(ctors[0]).Arity != 1 {
		t.Fatalf("arity = %d, want 1", in.MethodRaw(ctors[0]).Arity)
	}
	if params := in.Method(ctors[0]).Params; len(params) != 1 || params[0] != in.Builtins().Int {
		t.Fatalf("params = %v", params)
	}
	if in.QualifiedName(inner) != "p.Outer.Inner" {
		t.Fatalf("qualified name = %q", in.QualifiedName(inner))
	}
}

type brokenProvider struct{}

var errDisk = errors.New("disk on fire")

func (brokenProvider) Find(name string) (*binary.Descriptor, error) {
	if name == "java/lang/Object" {
		return binary.NewClass(name).Build(), nil
	}
	return nil, errDisk
}

func TestProviderFailureAborts(t *testing.T) {
	e := New(types.NewInterner(), brokenProvider{}, Options{})
	defer func() {
		r := recover()
		a, ok := AsAbort(r)
		if !ok {
			t.Fatalf("expected Abort, got %v", r)
		}
		if a.Name != "p/X" || !errors.Is(a, errDisk) {
			t.Fatalf("abort = %v", a)
		}
	}()
	e.LookupType("p/X")
	t.Fatalf("lookup should have aborted")
}

func TestNotFoundIsNotAnAbort(t *testing.T) {
	e := newTestEnv(t)
	if id := e.LookupType("no/Such"); id != types.NoTypeID {
		t.Fatalf("expected NoTypeID, got %d", id)
	}
	if e.IsPackage("no") {
		t.Fatalf("unknown package reported")
	}
	if !e.IsPackage("java.util") || !e.IsPackage("java") {
		t.Fatalf("core packages should be known")
	}
}

func TestBoxing(t *testing.T) {
	e := newTestEnv(t)
	in := e.Types()
	integer := e.Box(in.Builtins().Int)
	if in.QualifiedName(integer) != "java.lang.Integer" {
		t.Fatalf("box(int) = %s", in.String(integer))
	}
	if e.Unbox(integer) != in.Builtins().Int {
		t.Fatalf("unbox(Integer) failed")
	}
	if e.Unbox(e.Known(KnownString)) != types.NoTypeID {
		t.Fatalf("String is not a box")
	}
}

func TestArrayMembers(t *testing.T) {
	e := newTestEnv(t)
	in := e.Types()
	arr := in.Array(e.Known(KnownString), 1)
	if e.ArrayLength() != e.ArrayLength() {
		t.Fatalf("length field must be shared")
	}
	clone := e.ArrayClone(arr)
	if in.Method(clone).Return != arr || e.ArrayClone(arr) != clone {
		t.Fatalf("clone() must return the array type")
	}
}

func repeatable(container string) binary.Annotation {
	return binary.Annotation{
		Type:     "java/lang/annotation/Repeatable",
		Elements: []binary.Element{{Name: "value", Value: binary.Value{Kind: binary.ValueClass, Str: "L" + container + ";"}}},
	}
}

func runtimeRetention() binary.Annotation {
	return binary.Annotation{
		Type: "java/lang/annotation/Retention",
		Elements: []binary.Element{{Name: "value", Value: binary.Value{
			Kind: binary.ValueEnum, Str: "Ljava/lang/annotation/RetentionPolicy;", Name: "RUNTIME",
		}}},
	}
}

func TestContainerAnnotation(t *testing.T) {
	e := newTestEnv(t,
		binary.NewAnnotationType("p/Tag").Annotate(repeatable("p/Tags")).Annotate(runtimeRetention()).Build(),
		binary.NewAnnotationType("p/Tags").Annotate(runtimeRetention()).Method(0, "value", "()[Lp/Tag;", "").Build(),
		binary.NewAnnotationType("p/Bad").Annotate(repeatable("p/BadBox")).Annotate(runtimeRetention()).Build(),
		binary.NewAnnotationType("p/BadBox").Method(0, "value", "()[Lp/Bad;", "").Build(),
		binary.NewAnnotationType("p/Plain").Build(),
	)
	container, reason := e.ContainerAnnotation(e.LookupType("p/Tag"))
	if reason != types.NoProblem || container != e.LookupType("p/Tags") {
		t.Fatalf("well-formed container rejected: %v", reason)
	}
	// CLASS retention container for a RUNTIME annotation
	if _, reason := e.ContainerAnnotation(e.LookupType("p/Bad")); reason != types.DefectiveContainerAnnotationType {
		t.Fatalf("reason = %v, want defective", reason)
	}
	if c, reason := e.ContainerAnnotation(e.LookupType("p/Plain")); c != types.NoTypeID || reason != types.NoProblem {
		t.Fatalf("non-repeatable annotation: %d %v", c, reason)
	}
	if !e.Types().HasFlag(e.LookupType("p/Bad"), types.ContainerChecked) {
		t.Fatalf("ContainerChecked not set")
	}
}

func TestNullDefaultPropagation(t *testing.T) {
	opts := config.Default()
	opts.NullDefault = true
	opts.NonNullByDefault = []string{"p.NonNullApi"}
	core := binary.CoreLibrary()
	core.Add(binary.NewAnnotationType("p/NonNullApi").Build())
	core.Add(binary.NewClass("p/package-info").Mods(types.ModSynthetic | types.ModInterface).
		Annotate(binary.Annotation{Type: "p/NonNullApi"}).Build())
	core.Add(binary.NewClass("p/Svc").Method(types.ModPublic, "run", "()V", "").Build())
	core.Add(binary.NewClass("q/Other").Method(types.ModPublic, "run", "()V", "").Build())
	e := New(types.NewInterner(), core, Options{Config: opts})
	in := e.Types()

	run := in.MethodsNamed(e.LookupType("p/Svc"), "run")[0]
	if in.MethodRaw(run).Flags&types.MemberNonNullDefault == 0 {
		t.Fatalf("package default not applied")
	}
	other := in.MethodsNamed(e.LookupType("q/Other"), "run")[0]
	if in.MethodRaw(other).Flags&types.MemberNonNullDefault != 0 {
		t.Fatalf("default leaked into another package")
	}
}
