// Package subst maps type-variable occurrences to types through nested
// generic structure. Substitution is pure: when nothing under a type
// changes, the identical TypeID (or slice) is returned.
package subst

import (
	"maps"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Mapping supplies replacements for type variables.
type Mapping interface {
	// Lookup returns the replacement of tv.
	Lookup(tv types.TypeID) (types.TypeID, bool)
	// IsRaw reports erase-to-raw mode: parameterized results become raw.
	IsRaw() bool
}

// Map is an explicit variable map, optionally in raw mode.
type Map struct {
	in     *types.Interner
	vars   map[types.TypeID]types.TypeID
	raw    bool
	owners map[types.TypeID]struct{}
}

// NewMap pairs vars with args positionally. Extra entries on either side
// are ignored.
func NewMap(vars, args []types.TypeID) *Map {
	m := &Map{vars: make(map[types.TypeID]types.TypeID, len(vars))}
	for i := 0; i < len(vars) && i < len(args); i++ {
		m.vars[vars[i]] = args[i]
	}
	return m
}

// FromPairs builds a map from an explicit variable table.
func FromPairs(vars map[types.TypeID]types.TypeID) *Map {
	return &Map{vars: maps.Clone(vars)}
}

// Erase returns the raw-mode mapping that replaces every type variable by
// its erasure.
func Erase(in *types.Interner) *Map {
	return &Map{in: in, raw: true}
}

// Lookup implements Mapping.
func (m *Map) Lookup(tv types.TypeID) (types.TypeID, bool) {
	if m == nil {
		return types.NoTypeID, false
	}
	if v, ok := m.vars[tv]; ok {
		return v, true
	}
	if m.raw && m.in != nil {
		if m.owners != nil {
			info, _ := m.in.TypeVarInfo(tv)
			if _, ok := m.owners[info.DeclType]; !ok {
				return types.NoTypeID, false
			}
		}
		return m.in.Erasure(tv), true
	}
	return types.NoTypeID, false
}

// IsRaw implements Mapping.
func (m *Map) IsRaw() bool { return m != nil && m.raw }

// Len returns the number of explicit entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.vars)
}

// Vars returns a copy of the explicit entries.
func (m *Map) Vars() map[types.TypeID]types.TypeID {
	if m == nil {
		return nil
	}
	return maps.Clone(m.vars)
}

func (m *Map) entries() map[types.TypeID]types.TypeID {
	if m == nil {
		return nil
	}
	return m.vars
}

// ForParameterized maps the declared type variables of t and of its
// parameterized enclosing types to their arguments. A raw type (or a raw
// enclosing type) yields a raw-mode mapping erasing the variables of the
// raw generics.
func ForParameterized(in *types.Interner, t types.TypeID) *Map {
	m := &Map{in: in, vars: make(map[types.TypeID]types.TypeID)}
	for cur := t; cur != types.NoTypeID; {
		info, ok := in.ParamInfo(cur)
		if !ok {
			break
		}
		switch in.KindOf(cur) {
		case types.KindParameterized:
			tvs := in.TypeVars(info.Generic)
			for i := 0; i < len(tvs) && i < len(info.Args); i++ {
				m.vars[tvs[i]] = info.Args[i]
			}
		case types.KindRaw:
			m.raw = true
			if m.owners == nil {
				m.owners = make(map[types.TypeID]struct{})
			}
			m.owners[info.Generic] = struct{}{}
		}
		cur = info.Enclosing
	}
	return m
}

// Compose returns a mapping equivalent to applying first and then second:
// Type(env, Compose(env, m1, m2), t) == Type(env, m2, Type(env, m1, t)) when
// the variable sets of m1 and m2 do not overlap.
func Compose(env Env, first, second *Map) *Map {
	out := &Map{vars: make(map[types.TypeID]types.TypeID, first.Len()+second.Len())}
	for v, t := range first.entries() {
		out.vars[v] = Type(env, second, t)
	}
	for v, t := range second.entries() {
		if _, ok := out.vars[v]; !ok {
			out.vars[v] = t
		}
	}
	out.raw = first.IsRaw() || second.IsRaw()
	if out.raw {
		out.in = env.Types()
	}
	return out
}
