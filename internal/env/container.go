package env

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

type containerResult struct {
	container types.TypeID
	reason    types.ProblemReason
}

var retentionRank = map[string]int{"SOURCE": 0, "CLASS": 1, "RUNTIME": 2}

// ContainerAnnotation validates the container named by @Repeatable on the
// annotation type repeatable. It returns NoTypeID and NoProblem for
// annotation types that are not repeatable, the container and NoProblem for
// a well-formed one, and DefectiveContainerAnnotationType otherwise.
func (e *Environment) ContainerAnnotation(repeatable types.TypeID) (types.TypeID, types.ProblemReason) {
	repeatable = e.in.GenericOf(repeatable)
	if res, ok := e.containers[repeatable]; ok {
		return res.container, res.reason
	}
	res := e.checkContainer(repeatable)
	e.containers[repeatable] = res
	e.in.AddFlags(repeatable, types.ContainerChecked)
	if res.reason != types.NoProblem {
		e.record(FindingDefectiveContainer, repeatable, e.in.QualifiedName(res.container))
		e.rec.Problem(res.reason.String())
	}
	return res.container, res.reason
}

func (e *Environment) checkContainer(repeatable types.TypeID) containerResult {
	annots := e.in.ClassAnnotations(repeatable)
	var rep *types.Annotation
	for i := range annots {
		if annots[i].Type == KnownName(KnownRepeatable) {
			rep = &annots[i]
			break
		}
	}
	if rep == nil {
		return containerResult{}
	}
	value, _ := rep.Value("value")
	container := e.classValue(value)
	defective := containerResult{container: container, reason: types.DefectiveContainerAnnotationType}
	if container == types.NoTypeID || e.in.SortOf(container) != types.SortAnnotation {
		return defective
	}

	want := e.in.Array(repeatable, 1)
	valueOK := false
	for _, m := range e.in.MethodsNamed(container, "value") {
		if e.in.Method(m).Arity == 0 && e.in.Erasure(e.in.Method(m).Return) == want {
			valueOK = true
		}
	}
	if !valueOK {
		return defective
	}
	if retention(e.in.ClassAnnotations(container)) < retention(annots) {
		return defective
	}
	containerAnnots := e.in.ClassAnnotations(container)
	for _, k := range []Known{KnownDocumented, KnownInherited} {
		name := KnownName(k)
		if types.HasAnnotation(annots, name) && !types.HasAnnotation(containerAnnots, name) {
			return defective
		}
	}
	if !targetsSubset(containerAnnots, annots) {
		return defective
	}
	return containerResult{container: container}
}

// classValue resolves a class-valued annotation element: a TypeID from
// source or a field descriptor from a binary.
func (e *Environment) classValue(v any) types.TypeID {
	switch v := v.(type) {
	case types.TypeID:
		return e.in.GenericOf(v)
	case string:
		if strings.HasPrefix(v, "L") && strings.HasSuffix(v, ";") {
			v = v[1 : len(v)-1]
		}
		return e.LookupType(v)
	}
	return types.NoTypeID
}

// retention ranks the @Retention of an annotation type; CLASS when absent.
func retention(annots []types.Annotation) int {
	for _, a := range annots {
		if a.Type != KnownName(KnownRetention) {
			continue
		}
		if v, ok := a.Value("value"); ok {
			if name, ok := v.(string); ok {
				if r, ok := retentionRank[name]; ok {
					return r
				}
			}
		}
	}
	return retentionRank["CLASS"]
}

func targets(annots []types.Annotation) (map[string]bool, bool) {
	for _, a := range annots {
		if a.Type != KnownName(KnownTarget) {
			continue
		}
		set := make(map[string]bool)
		v, _ := a.Value("value")
		switch v := v.(type) {
		case []any:
			for _, el := range v {
				if s, ok := el.(string); ok {
					set[s] = true
				}
			}
		case string:
			set[v] = true
		}
		return set, true
	}
	return nil, false
}

// targetsSubset reports whether the container may only appear where the
// repeated annotation may.
func targetsSubset(container, repeated []types.Annotation) bool {
	rt, ok := targets(repeated)
	if !ok {
		return true
	}
	ct, ok := targets(container)
	if !ok {
		return false
	}
	for t := range ct {
		if !rt[t] {
			return false
		}
	}
	return true
}
