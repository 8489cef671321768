package types

import (
	"fmt"
	"strings"
)

// AnnotationElement is one name=value pair of an annotation.
type AnnotationElement struct {
	Name  string
	Value any
}

// Annotation is a resolved annotation instance. Type is the qualified name
// of the annotation type.
type Annotation struct {
	Type     string
	Elements []AnnotationElement
}

// Value returns the element called name.
func (a Annotation) Value(name string) (any, bool) {
	for _, e := range a.Elements {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

func (a Annotation) String() string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(a.Type)
	if len(a.Elements) == 0 {
		return sb.String()
	}
	sb.WriteByte('(')
	for i, e := range a.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", e.Name, e.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Overlay holds the type-use annotations of an annotated clone.
type Overlay struct {
	Annotations []Annotation
}

// Annotate returns a clone of id carrying annots. The clone shares kind,
// payload and every lazily resolved slot with its prototype. Annotating a
// clone re-annotates its prototype; nil annots returns the prototype.
func (in *Interner) Annotate(id TypeID, annots []Annotation) TypeID {
	proto := in.Prototype(id)
	if len(annots) == 0 {
		return proto
	}
	tt, ok := in.Lookup(proto)
	if !ok {
		return id
	}
	var sb strings.Builder
	sb.WriteString(newKey("N").id(uint32(proto)).String())
	for _, a := range annots {
		sb.WriteByte('|')
		sb.WriteString(a.String())
	}
	key := sb.String()
	if cid, ok := in.index[key]; ok {
		return cid
	}
	slot := appendSlot(&in.overlays, Overlay{Annotations: annots})
	return in.intern(key, Type{Kind: tt.Kind, Payload: tt.Payload, Proto: proto, Overlay: slot})
}

// Prototype returns the unannotated binding behind a clone, or id itself.
func (in *Interner) Prototype(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Proto == NoTypeID {
		return id
	}
	return tt.Proto
}

// IsAnnotated reports whether id is an annotated clone.
func (in *Interner) IsAnnotated(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Overlay != 0
}

// TypeAnnotations returns the type-use annotations of a clone.
func (in *Interner) TypeAnnotations(id TypeID) []Annotation {
	tt, ok := in.Lookup(id)
	if !ok || tt.Overlay == 0 {
		return nil
	}
	return in.overlays[tt.Overlay].Annotations
}

// Same reports whether two bindings denote the same type ignoring type-use
// annotations.
func (in *Interner) Same(a, b TypeID) bool {
	return a == b || in.Prototype(a) == in.Prototype(b)
}

// HasAnnotation reports whether annots contains an annotation of typeName.
func HasAnnotation(annots []Annotation, typeName string) bool {
	for _, a := range annots {
		if a.Type == typeName {
			return true
		}
	}
	return false
}
