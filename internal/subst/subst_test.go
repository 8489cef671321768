package subst

import (
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

type world struct {
	in     *types.Interner
	env    Env
	object types.TypeID
	str    types.TypeID
	num    types.TypeID
	list   types.TypeID
	e      types.TypeID
	hmap   types.TypeID
	k, v   types.TypeID
	outer  types.TypeID
	t      types.TypeID
	inner  types.TypeID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	in := types.NewInterner()
	w := &world{in: in, env: Plain(in)}
	w.object = in.RegisterClass(types.ClassInfo{Package: "java.lang", Name: "Object"})
	in.SetObject(w.object)
	w.str = in.RegisterClass(types.ClassInfo{Package: "java.lang", Name: "String"})
	w.num = in.RegisterClass(types.ClassInfo{Package: "java.lang", Name: "Number"})
	w.list = in.RegisterClass(types.ClassInfo{Package: "java.util", Name: "List", Sort: types.SortInterface})
	w.e = in.NewTypeVar("E", 0, w.list)
	in.SetTypeVars(w.list, []types.TypeID{w.e})
	w.hmap = in.RegisterClass(types.ClassInfo{Package: "java.util", Name: "Map", Sort: types.SortInterface})
	w.k = in.NewTypeVar("K", 0, w.hmap)
	w.v = in.NewTypeVar("V", 1, w.hmap)
	in.SetTypeVars(w.hmap, []types.TypeID{w.k, w.v})
	w.outer = in.RegisterClass(types.ClassInfo{Package: "p", Name: "Outer"})
	w.t = in.NewTypeVar("T", 0, w.outer)
	in.SetTypeVars(w.outer, []types.TypeID{w.t})
	w.inner = in.RegisterClass(types.ClassInfo{Package: "p", Name: "Inner", Enclosing: w.outer})
	in.SetTypeVars(w.inner, nil)
	return w
}

func (w *world) sample() []types.TypeID {
	in := w.in
	return []types.TypeID{
		in.Builtins().Int,
		w.str,
		w.list,
		w.e,
		in.Array(w.e, 2),
		in.Parameterized(w.hmap, []types.TypeID{w.k, in.Parameterized(w.list, []types.TypeID{w.v}, types.NoTypeID)}, types.NoTypeID),
		in.Raw(w.list, types.NoTypeID),
		in.Wildcard(w.list, 0, types.WildExtends, w.e, nil),
		in.Wildcard(w.list, 0, types.WildUnbound, types.NoTypeID, nil),
		in.Intersection([]types.TypeID{w.num, w.e}),
		in.Capture(in.Wildcard(w.list, 0, types.WildSuper, w.str, nil), 7),
		in.Parameterized(w.inner, nil, in.Parameterized(w.outer, []types.TypeID{w.t}, types.NoTypeID)),
		in.Annotate(w.e, []types.Annotation{{Type: "NonNull"}}),
	}
}

func TestIdentityMappingReturnsSameBinding(t *testing.T) {
	w := newWorld(t)
	id := NewMap([]types.TypeID{w.e, w.k, w.v, w.t}, []types.TypeID{w.e, w.k, w.v, w.t})
	for _, typ := range w.sample() {
		if got := Type(w.env, id, typ); got != typ {
			t.Errorf("identity changed %s into %s", w.in.String(typ), w.in.String(got))
		}
		if got := Type(w.env, nil, typ); got != typ {
			t.Errorf("nil mapping changed %s", w.in.String(typ))
		}
	}
	ts := w.sample()
	if out := Types(w.env, id, ts); &out[0] != &ts[0] {
		t.Fatalf("Types must return the input slice when nothing changed")
	}
}

func TestSubstituteParameterized(t *testing.T) {
	w := newWorld(t)
	in := w.in
	m := NewMap([]types.TypeID{w.k, w.v}, []types.TypeID{w.str, w.num})
	src := in.Parameterized(w.hmap, []types.TypeID{w.k, in.Parameterized(w.list, []types.TypeID{w.v}, types.NoTypeID)}, types.NoTypeID)
	want := in.Parameterized(w.hmap, []types.TypeID{w.str, in.Parameterized(w.list, []types.TypeID{w.num}, types.NoTypeID)}, types.NoTypeID)
	if got := Type(w.env, m, src); got != want {
		t.Fatalf("got %s, want %s", in.String(got), in.String(want))
	}
	if got := Type(w.env, m, w.hmap); got != in.Parameterized(w.hmap, []types.TypeID{w.str, w.num}, types.NoTypeID) {
		t.Fatalf("generic declaration must become parameterized, got %s", in.String(got))
	}
}

func TestArrayDimensionsAccumulate(t *testing.T) {
	w := newWorld(t)
	m := NewMap([]types.TypeID{w.e}, []types.TypeID{w.in.Array(w.str, 1)})
	got := Type(w.env, m, w.in.Array(w.e, 2))
	if got != w.in.Array(w.str, 3) {
		t.Fatalf("E[][] with E=String[] gave %s", w.in.String(got))
	}
}

func TestRawModePropagatesToMembers(t *testing.T) {
	w := newWorld(t)
	in := w.in
	outerT := in.Parameterized(w.outer, []types.TypeID{w.t}, types.NoTypeID)
	member := in.Parameterized(w.inner, nil, outerT)

	got := Type(w.env, Erase(in), member)
	rawOuter := in.Raw(w.outer, types.NoTypeID)
	if got != in.Raw(w.inner, rawOuter) {
		t.Fatalf("member of raw must be raw, got %s", in.String(got))
	}
	if got := Type(w.env, Erase(in), in.Parameterized(w.list, []types.TypeID{w.str}, types.NoTypeID)); got != in.Raw(w.list, types.NoTypeID) {
		t.Fatalf("raw mode must turn List<String> raw, got %s", in.String(got))
	}
}

func TestForParameterized(t *testing.T) {
	w := newWorld(t)
	in := w.in
	ls := in.Parameterized(w.list, []types.TypeID{w.str}, types.NoTypeID)
	m := ForParameterized(in, ls)
	if got := Type(w.env, m, in.Array(w.e, 1)); got != in.Array(w.str, 1) {
		t.Fatalf("E[] through List<String> gave %s", in.String(got))
	}

	raw := ForParameterized(in, in.Raw(w.list, types.NoTypeID))
	if !raw.IsRaw() {
		t.Fatalf("raw receiver must give a raw mapping")
	}
	if got := Type(w.env, raw, w.e); got != w.object {
		t.Fatalf("E through raw List gave %s", in.String(got))
	}
	if got := Type(w.env, raw, w.k); got != w.k {
		t.Fatalf("foreign variables are untouched by a raw mapping, got %s", in.String(got))
	}
}

func TestCompositionLaw(t *testing.T) {
	w := newWorld(t)
	in := w.in
	m1 := NewMap([]types.TypeID{w.k}, []types.TypeID{in.Parameterized(w.list, []types.TypeID{w.e}, types.NoTypeID)})
	m2 := NewMap([]types.TypeID{w.e, w.v}, []types.TypeID{w.str, w.num})
	composed := Compose(w.env, m1, m2)
	for _, typ := range w.sample() {
		seq := Type(w.env, m2, Type(w.env, m1, typ))
		if got := Type(w.env, composed, typ); got != seq {
			t.Errorf("compose(%s) = %s, sequential = %s", in.String(typ), in.String(got), in.String(seq))
		}
	}
}

func TestComposeWithNilMaps(t *testing.T) {
	w := newWorld(t)
	m := NewMap([]types.TypeID{w.e}, []types.TypeID{w.str})
	if got := Compose(w.env, nil, m); got.Len() != 1 || Type(w.env, got, w.e) != w.str {
		t.Fatalf("nil first: %v", got.Vars())
	}
	if got := Compose(w.env, m, nil); got.Len() != 1 || Type(w.env, got, w.e) != w.str {
		t.Fatalf("nil second: %v", got.Vars())
	}
	if got := Compose(w.env, nil, nil); got.Len() != 0 || got.IsRaw() {
		t.Fatalf("both nil: %v", got.Vars())
	}
}

type recordingEnv struct {
	Env
	calls int
}

func (r *recordingEnv) GLB(ts []types.TypeID) []types.TypeID {
	r.calls++
	return ts[1:]
}

func TestWildcardBoundsRecomputeGLB(t *testing.T) {
	w := newWorld(t)
	in := w.in
	env := &recordingEnv{Env: Plain(in)}
	wc := in.Wildcard(w.list, 0, types.WildExtends, w.k, []types.TypeID{w.v})
	m := NewMap([]types.TypeID{w.k, w.v}, []types.TypeID{w.object, w.num})
	got := Type(env, m, wc)
	if env.calls != 1 {
		t.Fatalf("glb calls = %d, want 1", env.calls)
	}
	if want := in.Wildcard(w.list, 0, types.WildExtends, w.num, nil); got != want {
		t.Fatalf("got %s, want %s", in.String(got), in.String(want))
	}
}

func TestAnnotationsSurviveSubstitution(t *testing.T) {
	w := newWorld(t)
	annotated := w.in.Annotate(w.e, []types.Annotation{{Type: "NonNull"}})
	got := Type(w.env, NewMap([]types.TypeID{w.e}, []types.TypeID{w.str}), annotated)
	if w.in.Prototype(got) != w.str || !types.HasAnnotation(w.in.TypeAnnotations(got), "NonNull") {
		t.Fatalf("got %s", w.in.String(got))
	}
}
