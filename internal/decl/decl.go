// Package decl is the declaration model of a parsed compilation unit. The
// source walker produces it; the scope table binds it. Only the parts that
// name resolution needs are kept: headers, member signatures and a reduced
// statement/expression tree for method bodies.
package decl

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Unit is one compilation unit.
type Unit struct {
	File    source.FileID
	Path    string
	Package string // dotted, "" for the unnamed package

	// Annotations of a package-info unit.
	PackageAnnotations []*Annotation
	Imports            []*Import
	Types              []*TypeDecl
}

// Import is a single-type, on-demand or static import. Name is dotted and
// excludes the trailing ".*".
type Import struct {
	Name     string
	OnDemand bool
	Static   bool
	Span     source.Span
}

// Simple returns the last segment of the imported name.
func (i *Import) Simple() string {
	if j := strings.LastIndexByte(i.Name, '.'); j >= 0 {
		return i.Name[j+1:]
	}
	return i.Name
}

// Qualifier returns the imported name without its last segment.
func (i *Import) Qualifier() string {
	if j := strings.LastIndexByte(i.Name, '.'); j >= 0 {
		return i.Name[:j]
	}
	return ""
}

// TypeDecl is a class, interface, enum, record or annotation type.
type TypeDecl struct {
	Name        string
	Kind        types.ClassSort
	Modifiers   types.Modifiers
	Annotations []*Annotation
	TypeParams  []*TypeParam
	Super       *TypeRef
	Interfaces  []*TypeRef
	Fields      []*FieldDecl
	Methods     []*MethodDecl
	Members     []*TypeDecl

	// Enum constants and record components.
	Constants  []string
	Components []*Param

	Span source.Span

	// Binding is set when the unit is declared.
	Binding types.TypeID
}

// IsInterface reports interfaces and annotation types.
func (d *TypeDecl) IsInterface() bool {
	return d.Kind == types.SortInterface || d.Kind == types.SortAnnotation
}

// TypeParam is a declared type variable.
type TypeParam struct {
	Name   string
	Bounds []*TypeRef
	Span   source.Span
}

// TypeRef is a reference to a type as written. Name is dotted; primitive
// names and "void" are allowed.
type TypeRef struct {
	Name string
	Args []*TypeArg
	Dims int
	Span source.Span
}

// Parts splits the dotted name.
func (r *TypeRef) Parts() []string {
	return strings.Split(r.Name, ".")
}

func (r *TypeRef) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for range r.Dims {
		sb.WriteString("[]")
	}
	return sb.String()
}

// TypeArg is a type argument: a type, or a wildcard with an optional bound.
type TypeArg struct {
	Wildcard  bool
	BoundKind types.WildcardKind
	Type      *TypeRef
}

func (a *TypeArg) String() string {
	if !a.Wildcard {
		return a.Type.String()
	}
	switch {
	case a.Type == nil:
		return "?"
	case a.BoundKind == types.WildSuper:
		return "? super " + a.Type.String()
	default:
		return "? extends " + a.Type.String()
	}
}

// Annotation is an annotation use. Element values are string, int64,
// float64, bool, *TypeRef for class literals, EnumRef, *Annotation or []any.
type Annotation struct {
	Name     string
	Elements []Element
	Span     source.Span
}

// Element is one name=value pair; a single-element annotation uses "value".
type Element struct {
	Name  string
	Value any
}

// EnumRef is an enum constant used as an element value, as written.
type EnumRef struct {
	Name string
}

// Constant returns the simple constant name.
func (r EnumRef) Constant() string {
	if j := strings.LastIndexByte(r.Name, '.'); j >= 0 {
		return r.Name[j+1:]
	}
	return r.Name
}

// FieldDecl is one declared field. Multi-variable declarations produce one
// FieldDecl per variable.
type FieldDecl struct {
	Name        string
	Modifiers   types.Modifiers
	Annotations []*Annotation
	Type        *TypeRef
	// Constant holds the value of a literal initializer of a final field.
	Constant any
	Init     Expr
	Span     source.Span

	Binding types.FieldID
}

// MethodDecl is a method or constructor.
type MethodDecl struct {
	Name        string
	Constructor bool
	Modifiers   types.Modifiers
	Annotations []*Annotation
	TypeParams  []*TypeParam
	Params      []*Param
	Result      *TypeRef // nil for constructors
	Throws      []*TypeRef
	Body        *Block
	Span        source.Span

	Binding types.MethodID
}

// Varargs reports whether the last parameter is variable arity.
func (m *MethodDecl) Varargs() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Varargs
}

// Param is a formal parameter or record component.
type Param struct {
	Name    string
	Type    *TypeRef
	Varargs bool
	Final   bool
	Span    source.Span
}
