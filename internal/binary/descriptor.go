// Package binary supplies precompiled type descriptors to the lookup
// environment: an in-memory provider with a built-in core library, a class
// file reader, a class path provider over directories and jars, and
// provider chaining.
package binary

import (
	"errors"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// ErrNotFound is returned by providers that do not know a type. Any other
// error is treated as a fatal read failure by the lookup environment.
var ErrNotFound = errors.New("binary: type not found")

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotFound reports whether err means "no such type".
func IsNotFound(err error) bool { return isNotFound(err) }

// Provider finds descriptors by binary name (java/util/Map$Entry).
type Provider interface {
	Find(binaryName string) (*Descriptor, error)
}

// Lister is implemented by providers that can enumerate their contents.
type Lister interface {
	Names() ([]string, error)
}

// AnnotationPosition says which structural element an annotation is
// attached to.
type AnnotationPosition uint8

const (
	PosDeclaration AnnotationPosition = iota
	PosTypeParameter
	PosField
	PosMethodParameter
	PosReturn
	PosThrows
	PosSuperType
)

func (p AnnotationPosition) String() string {
	switch p {
	case PosTypeParameter:
		return "type-parameter"
	case PosField:
		return "field"
	case PosMethodParameter:
		return "parameter"
	case PosReturn:
		return "return"
	case PosThrows:
		return "throws"
	case PosSuperType:
		return "supertype"
	default:
		return "declaration"
	}
}

// ValueKind tags an annotation element or constant value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueInt
	ValueLong
	ValueFloat
	ValueDouble
	ValueChar
	ValueString
	ValueClass
	ValueEnum
	ValueArray
	ValueAnnotation
)

// Value is a constant or annotation element value. Class values hold a
// field descriptor in Str; enum values hold the enum type descriptor in Str
// and the constant name in Name.
type Value struct {
	Kind  ValueKind   `msgpack:"k"`
	Int   int64       `msgpack:"i,omitempty"`
	Float float64     `msgpack:"f,omitempty"`
	Str   string      `msgpack:"s,omitempty"`
	Name  string      `msgpack:"n,omitempty"`
	List  []Value     `msgpack:"l,omitempty"`
	Annot *Annotation `msgpack:"a,omitempty"`
}

// Go converts the value to a plain Go value: bool, int64, float64, rune,
// string or []any.
func (v Value) Go() any {
	switch v.Kind {
	case ValueBool:
		return v.Int != 0
	case ValueInt, ValueLong:
		return v.Int
	case ValueFloat, ValueDouble:
		return v.Float
	case ValueChar:
		return rune(v.Int)
	case ValueString, ValueClass:
		return v.Str
	case ValueEnum:
		return v.Name
	case ValueArray:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = e.Go()
		}
		return out
	case ValueAnnotation:
		if v.Annot != nil {
			return v.Annot.Type
		}
	}
	return nil
}

// Element is a name=value pair of an annotation.
type Element struct {
	Name  string `msgpack:"n"`
	Value Value  `msgpack:"v"`
}

// Annotation is an annotation recorded on a binary element. Type is the
// binary name of the annotation type. Index selects the parameter or type
// parameter for positional annotations.
type Annotation struct {
	Type     string             `msgpack:"t"`
	Position AnnotationPosition `msgpack:"p,omitempty"`
	Index    int                `msgpack:"x,omitempty"`
	Elements []Element          `msgpack:"e,omitempty"`
}

// Element returns the named element value.
func (a Annotation) Element(name string) (Value, bool) {
	for _, e := range a.Elements {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// FieldDescriptor describes one field.
type FieldDescriptor struct {
	Name        string          `msgpack:"n"`
	Descriptor  string          `msgpack:"d"`
	Signature   string          `msgpack:"s,omitempty"`
	Modifiers   types.Modifiers `msgpack:"m"`
	Constant    *Value          `msgpack:"c,omitempty"`
	Annotations []Annotation    `msgpack:"a,omitempty"`
}

// MethodDescriptor describes one method or constructor (<init>).
type MethodDescriptor struct {
	Name        string          `msgpack:"n"`
	Descriptor  string          `msgpack:"d"`
	Signature   string          `msgpack:"s,omitempty"`
	Modifiers   types.Modifiers `msgpack:"m"`
	Exceptions  []string        `msgpack:"x,omitempty"`
	ParamNames  []string        `msgpack:"p,omitempty"`
	Annotations []Annotation    `msgpack:"a,omitempty"`
}

// AnnotationsAt returns the annotations at pos (and index, for positional
// kinds).
func (m *MethodDescriptor) AnnotationsAt(pos AnnotationPosition, index int) []Annotation {
	return filterAnnotations(m.Annotations, pos, index)
}

// Descriptor is everything the lookup environment needs to know about a
// precompiled class.
type Descriptor struct {
	Name        string             `msgpack:"n"`
	Modifiers   types.Modifiers    `msgpack:"m"`
	Sort        types.ClassSort    `msgpack:"k"`
	Super       string             `msgpack:"s,omitempty"`
	Interfaces  []string           `msgpack:"i,omitempty"`
	Signature   string             `msgpack:"g,omitempty"`
	Enclosing   string             `msgpack:"e,omitempty"`
	MemberTypes []string           `msgpack:"t,omitempty"`
	Fields      []FieldDescriptor  `msgpack:"f,omitempty"`
	Methods     []MethodDescriptor `msgpack:"x,omitempty"`
	Annotations []Annotation       `msgpack:"a,omitempty"`
	// Origin names where the descriptor came from (a directory, a jar, the
	// core library).
	Origin string `msgpack:"o,omitempty"`
}

// AnnotationsAt returns class-level annotations at pos and index.
func (d *Descriptor) AnnotationsAt(pos AnnotationPosition, index int) []Annotation {
	return filterAnnotations(d.Annotations, pos, index)
}

// Package returns the dotted package name.
func (d *Descriptor) Package() string {
	i := strings.LastIndexByte(d.Name, '/')
	if i < 0 {
		return ""
	}
	return strings.ReplaceAll(d.Name[:i], "/", ".")
}

// SimpleName returns the source simple name; for member types the segment
// after the last '$'.
func (d *Descriptor) SimpleName() string {
	name := d.Name[strings.LastIndexByte(d.Name, '/')+1:]
	if d.Enclosing != "" {
		if i := strings.LastIndexByte(name, '$'); i >= 0 {
			return name[i+1:]
		}
	}
	return name
}

// QualifiedName returns the dotted source name.
func (d *Descriptor) QualifiedName() string {
	return SourceName(d.Name)
}

// SourceName converts a binary name to dotted source form
// (java/util/Map$Entry -> java.util.Map.Entry).
func SourceName(binaryName string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(binaryName)
}

// BinaryName converts a dotted package and a nested simple-name chain into
// a binary name.
func BinaryName(pkg string, names ...string) string {
	nested := strings.Join(names, "$")
	if pkg == "" {
		return nested
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + nested
}

func filterAnnotations(all []Annotation, pos AnnotationPosition, index int) []Annotation {
	var out []Annotation
	for _, a := range all {
		if a.Position == pos && (a.Index == index || index < 0) {
			out = append(out, a)
		}
	}
	return out
}
