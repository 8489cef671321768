// Package sig parses binary generic signatures and descriptors into a small
// syntax tree that the lookup environment resolves to bindings.
package sig

import (
	"fmt"
	"strings"
)

// Kind is the shape of a signature type.
type Kind uint8

const (
	KindBase Kind = iota + 1
	KindClass
	KindTypeVar
	KindArray
)

// Segment is one class name segment. The first segment carries the
// slash-separated binary name, following segments the simple name of an
// inner class.
type Segment struct {
	Name string
	Args []Arg
}

// Arg is a type argument. Wild is 0 for an exact argument, or one of '*',
// '+', '-'.
type Arg struct {
	Wild byte
	Type *Type
}

// Type is a parsed field/type signature.
type Type struct {
	Kind     Kind
	Base     byte
	Segments []Segment
	Var      string
	Elem     *Type
}

// BinaryName joins the class segments into a binary name, e.g.
// java/util/Map$Entry.
func (t *Type) BinaryName() string {
	if t == nil || t.Kind != KindClass {
		return ""
	}
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = s.Name
	}
	return strings.Join(parts, "$")
}

// Dims returns the array depth and the innermost element.
func (t *Type) Dims() (int, *Type) {
	n := 0
	for t != nil && t.Kind == KindArray {
		n++
		t = t.Elem
	}
	return n, t
}

// IsGeneric reports whether any segment carries arguments.
func (t *Type) IsGeneric() bool {
	if t == nil {
		return false
	}
	if t.Kind == KindArray {
		return t.Elem.IsGeneric()
	}
	for _, s := range t.Segments {
		if len(s.Args) > 0 {
			return true
		}
	}
	return t.Kind == KindTypeVar
}

func (t *Type) String() string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t *Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindBase:
		sb.WriteByte(t.Base)
	case KindTypeVar:
		sb.WriteByte('T')
		sb.WriteString(t.Var)
		sb.WriteByte(';')
	case KindArray:
		sb.WriteByte('[')
		writeType(sb, t.Elem)
	case KindClass:
		sb.WriteByte('L')
		for i, s := range t.Segments {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(s.Name)
			if len(s.Args) == 0 {
				continue
			}
			sb.WriteByte('<')
			for _, a := range s.Args {
				if a.Wild != 0 {
					sb.WriteByte(a.Wild)
				}
				writeType(sb, a.Type)
			}
			sb.WriteByte('>')
		}
		sb.WriteByte(';')
	}
}

// TypeParam is a formal type parameter with its bounds. ClassBound is nil
// when the parameter only has interface bounds.
type TypeParam struct {
	Name            string
	ClassBound      *Type
	InterfaceBounds []*Type
}

// Bounds returns all bounds, class bound first.
func (p TypeParam) Bounds() []*Type {
	out := make([]*Type, 0, 1+len(p.InterfaceBounds))
	if p.ClassBound != nil {
		out = append(out, p.ClassBound)
	}
	return append(out, p.InterfaceBounds...)
}

// Class is a parsed class signature.
type Class struct {
	TypeParams []TypeParam
	Super      *Type
	Interfaces []*Type
}

// Method is a parsed method signature or descriptor. Return is a base type
// 'V' for void.
type Method struct {
	TypeParams []TypeParam
	Params     []*Type
	Return     *Type
	Throws     []*Type
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("signature %q: offset %d: %s", e.Input, e.Pos, e.Msg)
}
