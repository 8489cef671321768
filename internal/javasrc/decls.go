package javasrc

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

func (w *walker) unit(root *sitter.Node) *decl.Unit {
	u := &decl.Unit{File: w.file}
	for _, c := range named(root) {
		switch c.Type() {
		case "package_declaration":
			for _, pc := range named(c) {
				switch pc.Type() {
				case "identifier", "scoped_identifier":
					u.Package = w.dotted(pc)
				case "annotation", "marker_annotation":
					u.PackageAnnotations = append(u.PackageAnnotations, w.annotation(pc))
				}
			}
		case "import_declaration":
			u.Imports = append(u.Imports, w.importDecl(c))
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if td := w.typeDecl(c); td != nil {
				u.Types = append(u.Types, td)
			}
		}
	}
	return u
}

func (w *walker) importDecl(n *sitter.Node) *decl.Import {
	imp := &decl.Import{Span: w.span(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			imp.Static = true
		case "identifier", "scoped_identifier":
			imp.Name = w.dotted(c)
		case "asterisk":
			imp.OnDemand = true
		}
	}
	return imp
}

// dotted renders a possibly qualified name, dropping annotations and type
// arguments of qualifiers.
func (w *walker) dotted(n *sitter.Node) string {
	switch n.Type() {
	case "identifier", "type_identifier":
		return w.ident(n)
	case "this", "super":
		return n.Type()
	}
	var parts []string
	for _, c := range named(n) {
		switch c.Type() {
		case "annotation", "marker_annotation", "type_arguments":
			continue
		}
		parts = append(parts, w.dotted(c))
	}
	return strings.Join(parts, ".")
}

// modifiers reads the modifiers child of a declaration.
func (w *walker) modifiers(n *sitter.Node) (types.Modifiers, []*decl.Annotation) {
	mn := childOfType(n, "modifiers")
	if mn == nil {
		return 0, nil
	}
	var (
		mods   types.Modifiers
		annots []*decl.Annotation
	)
	for i := 0; i < int(mn.ChildCount()); i++ {
		c := mn.Child(i)
		switch c.Type() {
		case "annotation", "marker_annotation":
			annots = append(annots, w.annotation(c))
		default:
			if m, ok := types.ModifierByKeyword(w.text(c)); ok {
				mods |= m
			}
		}
	}
	for _, a := range annots {
		if a.Name == "Deprecated" || a.Name == "java.lang.Deprecated" {
			mods |= types.ModDeprecated
		}
	}
	return mods, annots
}

func (w *walker) typeDecl(n *sitter.Node) *decl.TypeDecl {
	name := w.ident(n.ChildByFieldName("name"))
	if name == "" {
		w.report(diag.SynMissingMember, n, "type declaration without a name")
		return nil
	}
	td := &decl.TypeDecl{Name: name, Span: w.span(n)}
	td.Modifiers, td.Annotations = w.modifiers(n)
	switch n.Type() {
	case "class_declaration":
		td.Kind = types.SortClass
		if s := n.ChildByFieldName("superclass"); s != nil {
			if refs := w.typesIn(s); len(refs) > 0 {
				td.Super = refs[0]
			}
		}
	case "interface_declaration":
		td.Kind = types.SortInterface
		if ext := childOfType(n, "extends_interfaces"); ext != nil {
			td.Interfaces = w.typesIn(ext)
		}
	case "enum_declaration":
		td.Kind = types.SortEnum
	case "record_declaration":
		td.Kind = types.SortRecord
		td.Components = w.params(n.ChildByFieldName("parameters"))
	case "annotation_type_declaration":
		td.Kind = types.SortAnnotation
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		td.TypeParams = w.typeParams(tp)
	}
	if it := n.ChildByFieldName("interfaces"); it != nil {
		td.Interfaces = w.typesIn(it)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.members(td, body)
	}
	return td
}

func (w *walker) members(td *decl.TypeDecl, body *sitter.Node) {
	for _, c := range named(body) {
		switch c.Type() {
		case "enum_constant":
			td.Constants = append(td.Constants, w.ident(c.ChildByFieldName("name")))
		case "enum_body_declarations":
			w.members(td, c)
		case "field_declaration", "constant_declaration":
			td.Fields = append(td.Fields, w.fields(td, c)...)
		case "method_declaration", "constructor_declaration",
			"compact_constructor_declaration", "annotation_type_element_declaration":
			if md := w.method(td, c); md != nil {
				td.Methods = append(td.Methods, md)
			}
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if member := w.typeDecl(c); member != nil {
				td.Members = append(td.Members, member)
			}
		}
	}
}

func (w *walker) fields(td *decl.TypeDecl, n *sitter.Node) []*decl.FieldDecl {
	mods, annots := w.modifiers(n)
	base := w.typeRef(n.ChildByFieldName("type"))
	if base == nil {
		w.report(diag.SynUnsupported, n, "field type cannot be read")
		return nil
	}
	var out []*decl.FieldDecl
	for _, c := range named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		fd := &decl.FieldDecl{
			Name:        w.ident(c.ChildByFieldName("name")),
			Modifiers:   mods,
			Annotations: annots,
			Type:        withDims(base, w.dims(c.ChildByFieldName("dimensions"))),
			Span:        w.span(c),
		}
		if v := c.ChildByFieldName("value"); v != nil {
			fd.Init = w.expr(v)
			if mods.IsFinal() || td.IsInterface() {
				if lit, ok := fd.Init.(*decl.Literal); ok {
					fd.Constant = literalValue(lit)
				}
			}
		}
		out = append(out, fd)
	}
	return out
}

func (w *walker) method(td *decl.TypeDecl, n *sitter.Node) *decl.MethodDecl {
	md := &decl.MethodDecl{Span: w.span(n)}
	md.Modifiers, md.Annotations = w.modifiers(n)
	switch n.Type() {
	case "constructor_declaration":
		md.Constructor = true
		md.Name = td.Name
	case "compact_constructor_declaration":
		md.Constructor = true
		md.Name = td.Name
		md.Params = append(md.Params, td.Components...)
	default:
		md.Name = w.ident(n.ChildByFieldName("name"))
		if md.Name == "" {
			w.report(diag.SynMissingMember, n, "method declaration without a name")
			return nil
		}
		typ := n.ChildByFieldName("type")
		if typ != nil && typ.Type() != "void_type" {
			md.Result = w.typeRef(typ)
			if md.Result == nil {
				w.report(diag.SynUnsupported, typ, fmt.Sprintf("return type of %s cannot be read", md.Name))
				return nil
			}
			md.Result = withDims(md.Result, w.dims(n.ChildByFieldName("dimensions")))
		}
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		md.TypeParams = w.typeParams(tp)
	}
	if ps := n.ChildByFieldName("parameters"); ps != nil {
		md.Params = w.params(ps)
	}
	if th := childOfType(n, "throws"); th != nil {
		md.Throws = w.typesIn(th)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		md.Body = w.block(body)
	}
	return md
}

func (w *walker) params(n *sitter.Node) []*decl.Param {
	var out []*decl.Param
	for _, c := range named(n) {
		switch c.Type() {
		case "formal_parameter":
			mods, _ := w.modifiers(c)
			typ := w.typeRef(c.ChildByFieldName("type"))
			if typ == nil {
				w.report(diag.SynUnsupported, c, "parameter type cannot be read")
				continue
			}
			out = append(out, &decl.Param{
				Name:  w.ident(c.ChildByFieldName("name")),
				Type:  withDims(typ, w.dims(c.ChildByFieldName("dimensions"))),
				Final: mods.IsFinal(),
				Span:  w.span(c),
			})
		case "spread_parameter":
			mods, _ := w.modifiers(c)
			p := &decl.Param{Varargs: true, Final: mods.IsFinal(), Span: w.span(c)}
			for _, sc := range named(c) {
				if sc.Type() == "variable_declarator" {
					p.Name = w.ident(sc.ChildByFieldName("name"))
				} else if p.Type == nil && isTypeNode(sc.Type()) {
					p.Type = w.typeRef(sc)
				}
			}
			if p.Type == nil {
				w.report(diag.SynUnsupported, c, "variable arity parameter type cannot be read")
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func (w *walker) typeParams(n *sitter.Node) []*decl.TypeParam {
	var out []*decl.TypeParam
	for _, c := range named(n) {
		if c.Type() != "type_parameter" {
			continue
		}
		tp := &decl.TypeParam{Span: w.span(c)}
		for _, pc := range named(c) {
			switch pc.Type() {
			case "type_identifier", "identifier":
				tp.Name = w.ident(pc)
			case "type_bound":
				tp.Bounds = w.typesIn(pc)
			}
		}
		out = append(out, tp)
	}
	return out
}

func (w *walker) annotation(n *sitter.Node) *decl.Annotation {
	a := &decl.Annotation{Span: w.span(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		a.Name = w.dotted(name)
	}
	args := n.ChildByFieldName("arguments")
	for _, c := range named(args) {
		if c.Type() == "element_value_pair" {
			a.Elements = append(a.Elements, decl.Element{
				Name:  w.ident(c.ChildByFieldName("key")),
				Value: w.elementValue(c.ChildByFieldName("value")),
			})
			continue
		}
		a.Elements = append(a.Elements, decl.Element{Name: "value", Value: w.elementValue(c)})
	}
	return a
}

func (w *walker) elementValue(n *sitter.Node) any {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "annotation", "marker_annotation":
		return w.annotation(n)
	case "element_value_array_initializer":
		var out []any
		for _, c := range named(n) {
			out = append(out, w.elementValue(c))
		}
		return out
	case "class_literal":
		for _, c := range named(n) {
			if ref := w.typeRef(c); ref != nil {
				return ref
			}
		}
		return nil
	case "identifier", "scoped_identifier", "field_access":
		return decl.EnumRef{Name: w.dotted(n)}
	case "parenthesized_expression":
		if cs := named(n); len(cs) == 1 {
			return w.elementValue(cs[0])
		}
	}
	if lit := w.literal(n); lit != nil {
		return literalValue(lit)
	}
	return w.text(n)
}
