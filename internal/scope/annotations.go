package scope

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

const packageInfo = "package-info"

// classAnnotations resolves the declaration annotations of a source class
// once, in the scope around the class body.
func (t *Table) classAnnotations(id types.TypeID, cd *classDecl) {
	if t.annotated[id] {
		return
	}
	t.annotated[id] = true
	s := cd.scope
	if sc := t.Scopes.Get(s); sc != nil && sc.Kind == ScopeClass {
		s = sc.Parent
	}
	if annots := t.annotations(s, cd.decl.Annotations); annots != nil {
		t.in.SetClassAnnotations(id, annots)
	}
}

// packageAnnotations resolves the annotations of a source package-info.
func (t *Table) packageAnnotations(pkg string) {
	name := packageInfo
	if pkg != "" {
		name = strings.ReplaceAll(pkg, ".", "/") + "/" + packageInfo
	}
	id := t.env.LookupType(name)
	if cd, ok := t.in.Decl(id).(*classDecl); ok {
		t.classAnnotations(id, cd)
	}
}

func (t *Table) annotations(s ScopeID, list []*decl.Annotation) []types.Annotation {
	if len(list) == 0 {
		return nil
	}
	out := make([]types.Annotation, 0, len(list))
	for _, a := range list {
		out = append(out, t.annotation(s, a))
	}
	return out
}

// annotation converts an annotation use. The type name becomes the
// qualified name of the resolved annotation type, or stays as written when
// it cannot be resolved.
func (t *Table) annotation(s ScopeID, a *decl.Annotation) types.Annotation {
	out := types.Annotation{Type: a.Name}
	if typ := t.ResolveQualifiedType(s, strings.Split(a.Name, ".")); t.in.IsValid(typ) {
		out.Type = t.in.QualifiedName(typ)
	}
	for _, el := range a.Elements {
		out.Elements = append(out.Elements, types.AnnotationElement{Name: el.Name, Value: t.annotationValue(s, el.Value)})
	}
	return out
}

func (t *Table) annotationValue(s ScopeID, v any) any {
	switch v := v.(type) {
	case *decl.TypeRef:
		return t.ResolveTypeRef(s, v)
	case decl.EnumRef:
		return v.Constant()
	case *decl.Annotation:
		return t.annotation(s, v)
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = t.annotationValue(s, el)
		}
		return out
	default:
		return v
	}
}
