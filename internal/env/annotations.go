package env

import (
	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// convertAnnotations turns binary annotations into bindings. Type names
// become dotted source names, enum constants their constant name, class
// values their descriptor and nested annotations types.Annotation values.
func convertAnnotations(in []binary.Annotation) []types.Annotation {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Annotation, len(in))
	for i, a := range in {
		out[i] = convertAnnotation(a)
	}
	return out
}

func convertAnnotation(a binary.Annotation) types.Annotation {
	ta := types.Annotation{Type: binary.SourceName(a.Type)}
	for _, el := range a.Elements {
		ta.Elements = append(ta.Elements, types.AnnotationElement{Name: el.Name, Value: convertValue(el.Value)})
	}
	return ta
}

func convertValue(v binary.Value) any {
	switch v.Kind {
	case binary.ValueArray:
		out := make([]any, len(v.List))
		for i, el := range v.List {
			out[i] = convertValue(el)
		}
		return out
	case binary.ValueAnnotation:
		if v.Annot != nil {
			return convertAnnotation(*v.Annot)
		}
		return nil
	default:
		return v.Go()
	}
}

// nonNullDefault reports whether null-default propagation applies to the
// members of id: the class, an enclosing class or its package-info carries
// one of the configured annotations.
func (e *Environment) nonNullDefault(id types.TypeID) bool {
	if len(e.nonNull) == 0 {
		return false
	}
	if e.in.HasFlag(id, types.NonNullByDefault) {
		return true
	}
	hit := e.hasNonNull(e.in.ClassAnnotations(id))
	if !hit {
		if enc := e.in.Enclosing(id); enc != types.NoTypeID {
			hit = e.nonNullDefault(enc)
		} else {
			info := e.LookupType(binary.BinaryName(e.in.Package(id), "package-info"))
			hit = info != types.NoTypeID && e.hasNonNull(e.in.ClassAnnotations(info))
		}
	}
	if hit {
		e.in.AddFlags(id, types.NonNullByDefault)
	}
	return hit
}

func (e *Environment) hasNonNull(annots []types.Annotation) bool {
	for _, name := range e.nonNull {
		if types.HasAnnotation(annots, name) {
			return true
		}
	}
	return false
}
