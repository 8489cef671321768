package javasrc

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var typeNodes = map[string]bool{
	"type_identifier":        true,
	"scoped_type_identifier": true,
	"generic_type":           true,
	"array_type":             true,
	"integral_type":          true,
	"floating_point_type":    true,
	"boolean_type":           true,
	"void_type":              true,
	"annotated_type":         true,
}

func isTypeNode(typ string) bool { return typeNodes[typ] }

// typeRef reads a type node; nil when n is not one.
func (w *walker) typeRef(n *sitter.Node) *decl.TypeRef {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_identifier", "identifier":
		return &decl.TypeRef{Name: w.ident(n), Span: w.span(n)}
	case "scoped_type_identifier":
		return &decl.TypeRef{Name: w.dotted(n), Span: w.span(n)}
	case "generic_type":
		var ref *decl.TypeRef
		var args *sitter.Node
		for _, c := range named(n) {
			if c.Type() == "type_arguments" {
				args = c
			} else if ref == nil {
				ref = w.typeRef(c)
			}
		}
		if ref == nil {
			return nil
		}
		ref.Args = w.typeArgs(args)
		ref.Span = w.span(n)
		return ref
	case "array_type":
		elem := w.typeRef(n.ChildByFieldName("element"))
		if elem == nil {
			return nil
		}
		elem = withDims(elem, w.dims(n.ChildByFieldName("dimensions")))
		elem.Span = w.span(n)
		return elem
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return &decl.TypeRef{Name: strings.TrimSpace(w.text(n)), Span: w.span(n)}
	case "annotated_type":
		for _, c := range named(n) {
			if isTypeNode(c.Type()) {
				return w.typeRef(c)
			}
		}
	}
	return nil
}

// typesIn reads the types listed under n, looking through type_list.
func (w *walker) typesIn(n *sitter.Node) []*decl.TypeRef {
	var out []*decl.TypeRef
	for _, c := range named(n) {
		if c.Type() == "type_list" {
			out = append(out, w.typesIn(c)...)
			continue
		}
		if ref := w.typeRef(c); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

func (w *walker) typeArgs(n *sitter.Node) []*decl.TypeArg {
	var out []*decl.TypeArg
	for _, c := range named(n) {
		if c.Type() != "wildcard" {
			if ref := w.typeRef(c); ref != nil {
				out = append(out, &decl.TypeArg{Type: ref})
			}
			continue
		}
		arg := &decl.TypeArg{Wildcard: true, BoundKind: types.WildUnbound}
		for i := 0; i < int(c.ChildCount()); i++ {
			wc := c.Child(i)
			switch wc.Type() {
			case "extends":
				arg.BoundKind = types.WildExtends
			case "super":
				arg.BoundKind = types.WildSuper
			default:
				if wc.IsNamed() && isTypeNode(wc.Type()) {
					arg.Type = w.typeRef(wc)
				}
			}
		}
		if arg.Type == nil {
			arg.BoundKind = types.WildUnbound
		}
		out = append(out, arg)
	}
	return out
}

// dims counts the bracket pairs of a dimensions node.
func (w *walker) dims(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return strings.Count(w.text(n), "[")
}

func withDims(ref *decl.TypeRef, dims int) *decl.TypeRef {
	if dims == 0 {
		return ref
	}
	cp := *ref
	cp.Dims += dims
	return &cp
}

func (w *walker) literal(n *sitter.Node) *decl.Literal {
	text := strings.TrimSpace(w.text(n))
	lit := &decl.Literal{Text: text, Span: w.span(n)}
	switch n.Type() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		lit.Kind = decl.LitInt
		if strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
			lit.Kind = decl.LitLong
		}
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		lit.Kind = decl.LitDouble
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			lit.Kind = decl.LitFloat
		}
	case "string_literal", "text_block":
		lit.Kind = decl.LitString
	case "character_literal":
		lit.Kind = decl.LitChar
	case "true", "false":
		lit.Kind = decl.LitBool
	case "null_literal":
		lit.Kind = decl.LitNull
	default:
		return nil
	}
	return lit
}

// literalValue converts a literal to the Go value used for constants and
// annotation elements. Unparseable numbers keep their spelling.
func literalValue(lit *decl.Literal) any {
	text := strings.ReplaceAll(lit.Text, "_", "")
	switch lit.Kind {
	case decl.LitInt, decl.LitLong:
		text = strings.TrimRight(text, "lL")
		if strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B") {
			if v, err := strconv.ParseInt(text[2:], 2, 64); err == nil {
				return v
			}
		}
		if v, err := strconv.ParseInt(text, 0, 64); err == nil {
			return v
		}
		if v, err := strconv.ParseUint(text, 0, 64); err == nil {
			return int64(v)
		}
	case decl.LitFloat, decl.LitDouble:
		if v, err := strconv.ParseFloat(strings.TrimRight(text, "fFdD"), 64); err == nil {
			return v
		}
	case decl.LitBool:
		return text == "true"
	case decl.LitString:
		if strings.HasPrefix(lit.Text, `"""`) {
			return strings.TrimSuffix(strings.TrimPrefix(lit.Text, `"""`), `"""`)
		}
		if s, err := strconv.Unquote(lit.Text); err == nil {
			return s
		}
		return strings.Trim(lit.Text, `"`)
	case decl.LitChar:
		if s, err := strconv.Unquote(lit.Text); err == nil {
			return s
		}
		return strings.Trim(lit.Text, "'")
	case decl.LitNull:
		return nil
	}
	return lit.Text
}
