package infer

import (
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
	"github.com/groovy/groovy-eclipse-sub042/internal/typesys"
)

type fixture struct {
	e   *Engine
	env *env.Environment
	in  *types.Interner
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	e := env.New(types.NewInterner(), binary.CoreLibrary(), env.Options{Config: config.Default()})
	return fixture{e: New(typesys.New(e)), env: e, in: e.Types()}
}

func (f fixture) typ(t *testing.T, name string) types.TypeID {
	t.Helper()
	id := f.env.LookupType(name)
	if id == types.NoTypeID {
		t.Fatalf("%s not found", name)
	}
	return id
}

func (f fixture) method(t *testing.T, owner, name string, arity int) types.MethodID {
	t.Helper()
	for _, m := range f.in.MethodsNamed(f.typ(t, owner), name) {
		if f.in.Method(m).Arity == arity {
			return m
		}
	}
	t.Fatalf("%s.%s/%d not found", owner, name, arity)
	return types.NoMethodID
}

func (f fixture) param(t *testing.T, generic string, args ...string) types.TypeID {
	t.Helper()
	ids := make([]types.TypeID, len(args))
	for i, a := range args {
		ids[i] = f.typ(t, a)
	}
	return f.in.Parameterized(f.typ(t, generic), ids, types.NoTypeID)
}

func TestInferFromArgument(t *testing.T) {
	f := newFixture(t)
	str := f.typ(t, "java/lang/String")
	m := f.method(t, "java/util/Collections", "singletonList", 1)

	got := f.e.Infer(m, Call{Args: []types.TypeID{str}})
	if got == types.NoMethodID {
		t.Fatalf("inference failed")
	}
	info := f.in.Method(got)
	if info.Variant != types.VariantGenericInvocation || f.in.OriginalMethod(got) != m {
		t.Fatalf("variant = %v original = %d", info.Variant, f.in.OriginalMethod(got))
	}
	want := f.param(t, "java/util/List", "java/lang/String")
	if info.Return != want {
		t.Fatalf("return = %s, want %s", f.in.String(info.Return), f.in.String(want))
	}
	if again := f.e.Infer(m, Call{Args: []types.TypeID{str}}); again != got {
		t.Fatalf("instantiation is not memoized")
	}
}

func TestInferBoxesPrimitiveArguments(t *testing.T) {
	f := newFixture(t)
	m := f.method(t, "java/util/Objects", "requireNonNull", 1)
	got := f.e.Infer(m, Call{Args: []types.TypeID{f.in.Builtins().Int}})
	if ret := f.in.Method(got).Return; ret != f.typ(t, "java/lang/Integer") {
		t.Fatalf("return = %s, want Integer", f.in.String(ret))
	}
}

func TestInferVarargsUsesLub(t *testing.T) {
	f := newFixture(t)
	m := f.method(t, "java/util/Arrays", "asList", 1)
	integer, double := f.typ(t, "java/lang/Integer"), f.typ(t, "java/lang/Double")

	got := f.e.Infer(m, Call{Args: []types.TypeID{integer, double}, Varargs: true})
	if got == types.NoMethodID {
		t.Fatalf("inference failed")
	}
	ret := f.in.Method(got).Return
	arg := f.in.TypeArgs(ret)[0]
	if members := f.in.IntersectionMembers(arg); len(members) == 0 || members[0] != f.typ(t, "java/lang/Number") {
		t.Fatalf("element type = %s, want Number & ...", f.in.String(arg))
	}
	if f.e.Infer(m, Call{Args: []types.TypeID{integer, double}}) != types.NoMethodID {
		t.Fatalf("two arguments must not match one array parameter without varargs")
	}
}

func TestInferFromExpectedType(t *testing.T) {
	f := newFixture(t)
	m := f.method(t, "java/util/Collections", "emptyList", 0)
	listStr := f.param(t, "java/util/List", "java/lang/String")

	got := f.e.Infer(m, Call{Expected: listStr})
	if ret := f.in.Method(got).Return; ret != listStr {
		t.Fatalf("return = %s, want %s", f.in.String(ret), f.in.String(listStr))
	}
	plain := f.e.Infer(m, Call{})
	if ret := f.in.Method(plain).Return; f.in.TypeArgs(ret)[0] != f.in.Object() {
		t.Fatalf("unconstrained return = %s, want List<Object>", f.in.String(ret))
	}
}

func TestInferCombinesLowerAndUpperBounds(t *testing.T) {
	f := newFixture(t)
	m := f.method(t, "java/util/Collections", "max", 2)
	args := []types.TypeID{
		f.param(t, "java/util/ArrayList", "java/lang/String"),
		f.param(t, "java/util/Comparator", "java/lang/CharSequence"),
	}
	got := f.e.Infer(m, Call{Args: args})
	if ret := f.in.Method(got).Return; ret != f.typ(t, "java/lang/String") {
		t.Fatalf("max returns %s, want String", f.in.String(ret))
	}
}

func TestInferChecksDeclaredBounds(t *testing.T) {
	f := newFixture(t)
	sort := f.method(t, "java/util/Collections", "sort", 1)

	ok := f.e.Infer(sort, Call{Args: []types.TypeID{f.param(t, "java/util/List", "java/lang/String")}})
	if ok == types.NoMethodID {
		t.Fatalf("sort(List<String>) should be inferable")
	}
	bad := f.e.Infer(sort, Call{Args: []types.TypeID{f.param(t, "java/util/List", "java/lang/Object")}})
	if bad != types.NoMethodID {
		t.Fatalf("sort(List<Object>) violates Comparable bound")
	}
}

func TestExplicitTypeArguments(t *testing.T) {
	f := newFixture(t)
	in := f.in
	str := f.typ(t, "java/lang/String")
	req := f.method(t, "java/util/Objects", "requireNonNull", 1)
	sort := f.method(t, "java/util/Collections", "sort", 1)

	got := f.e.Infer(req, Call{Args: []types.TypeID{str}, TypeArgs: []types.TypeID{str}})
	if !in.IsValidMethod(got) || in.Method(got).Return != str {
		t.Fatalf("explicit <String> failed: %s", in.MethodString(got))
	}
	arity := f.e.Infer(req, Call{TypeArgs: []types.TypeID{str, str}})
	if in.MethodReason(arity) != types.TypeArgumentArityMismatch {
		t.Fatalf("reason = %v", in.MethodReason(arity))
	}
	mismatch := f.e.Infer(sort, Call{TypeArgs: []types.TypeID{in.Object()}})
	if in.MethodReason(mismatch) != types.ParameterizedMethodTypeMismatch {
		t.Fatalf("reason = %v", in.MethodReason(mismatch))
	}
}

func TestExplicitTypeArgumentProblemsKeepCallArguments(t *testing.T) {
	f := newFixture(t)
	in := f.in
	str := f.typ(t, "java/lang/String")
	list := f.param(t, "java/util/List", "java/lang/Object")
	req := f.method(t, "java/util/Objects", "requireNonNull", 1)
	sort := f.method(t, "java/util/Collections", "sort", 1)

	arity := f.e.Infer(req, Call{Args: []types.TypeID{str}, TypeArgs: []types.TypeID{str, str}})
	if p := in.Method(arity).Params; len(p) != 1 || p[0] != str {
		t.Fatalf("arity problem params = %s", in.MethodString(arity))
	}
	mismatch := f.e.Infer(sort, Call{Args: []types.TypeID{list}, TypeArgs: []types.TypeID{in.Object()}})
	if in.MethodReason(mismatch) != types.ParameterizedMethodTypeMismatch {
		t.Fatalf("reason = %v", in.MethodReason(mismatch))
	}
	if p := in.Method(mismatch).Params; len(p) != 1 || p[0] != list {
		t.Fatalf("mismatch problem params = %s", in.MethodString(mismatch))
	}
	if in.Method(mismatch).Closest != sort {
		t.Fatal("closest is not the declared method")
	}
}

func TestNonGenericMethodIsUnchanged(t *testing.T) {
	f := newFixture(t)
	m := f.method(t, "java/util/Objects", "equals", 2)
	if got := f.e.Infer(m, Call{Args: []types.TypeID{f.in.Object(), f.in.Object()}}); got != m {
		t.Fatalf("non-generic method was derived")
	}
}
