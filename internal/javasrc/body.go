package javasrc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
)

func (w *walker) block(n *sitter.Node) *decl.Block {
	b := &decl.Block{Span: w.span(n)}
	for _, c := range named(n) {
		b.Stmts = append(b.Stmts, w.stmts(c)...)
	}
	return b
}

// stmts reduces one statement. Statements without a modelled expression
// or nested block vanish.
func (w *walker) stmts(n *sitter.Node) []decl.Stmt {
	switch n.Type() {
	case "block", "constructor_body":
		return []decl.Stmt{w.block(n)}
	case "local_variable_declaration":
		return w.locals(n)
	case "expression_statement":
		cs := named(n)
		if len(cs) == 0 {
			return nil
		}
		if x := w.expr(cs[0]); x != nil {
			return []decl.Stmt{&decl.ExprStmt{X: x, Span: w.span(n)}}
		}
		return nil
	case "return_statement":
		ret := &decl.Return{Span: w.span(n)}
		if cs := named(n); len(cs) > 0 {
			ret.X = w.expr(cs[0])
			if ret.X == nil {
				return nil
			}
		}
		return []decl.Stmt{ret}
	case "explicit_constructor_invocation":
		call := &decl.CtorCall{Span: w.span(n)}
		if c := n.ChildByFieldName("constructor"); c != nil {
			call.Super = c.Type() == "super"
		}
		args, ok := w.args(n.ChildByFieldName("arguments"))
		if !ok {
			return nil
		}
		call.Args = args
		return []decl.Stmt{call}
	case "enhanced_for_statement":
		b := &decl.Block{Span: w.span(n)}
		if x := w.expr(n.ChildByFieldName("value")); x != nil {
			b.Stmts = append(b.Stmts, &decl.ExprStmt{X: x, Span: x.Pos()})
		}
		if typ := n.ChildByFieldName("type"); typ != nil && w.text(typ) != "var" {
			if ref := w.typeRef(typ); ref != nil {
				name := n.ChildByFieldName("name")
				b.Stmts = append(b.Stmts, &decl.LocalDecl{
					Name: w.ident(name),
					Type: withDims(ref, w.dims(n.ChildByFieldName("dimensions"))),
					Span: w.span(name),
				})
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.Stmts = append(b.Stmts, w.stmts(body)...)
		}
		return []decl.Stmt{b}
	case "line_comment", "block_comment":
		return nil
	}
	if !isStatementNode(n.Type()) {
		return nil
	}
	// Other statements contribute their conditions and nested statements.
	var out []decl.Stmt
	for _, c := range named(n) {
		if x := w.expr(c); x != nil {
			out = append(out, &decl.ExprStmt{X: x, Span: x.Pos()})
			continue
		}
		if isStatementNode(c.Type()) {
			out = append(out, w.stmts(c)...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return []decl.Stmt{&decl.Block{Stmts: out, Span: w.span(n)}}
}

func (w *walker) locals(n *sitter.Node) []decl.Stmt {
	mods, _ := w.modifiers(n)
	typNode := n.ChildByFieldName("type")
	var base *decl.TypeRef
	if typNode != nil && w.text(typNode) != "var" {
		base = w.typeRef(typNode)
		if base == nil {
			return nil
		}
	}
	var out []decl.Stmt
	for _, c := range named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		name := c.ChildByFieldName("name")
		ld := &decl.LocalDecl{Name: w.ident(name), Final: mods.IsFinal(), Span: w.span(c)}
		if base != nil {
			ld.Type = withDims(base, w.dims(c.ChildByFieldName("dimensions")))
		}
		if v := c.ChildByFieldName("value"); v != nil {
			ld.Init = w.expr(v)
		}
		if ld.Type == nil && ld.Init == nil {
			continue
		}
		out = append(out, ld)
	}
	return out
}

// args reduces an argument list; ok is false when some argument is not
// modelled.
func (w *walker) args(n *sitter.Node) ([]decl.Expr, bool) {
	var out []decl.Expr
	for _, c := range named(n) {
		x := w.expr(c)
		if x == nil {
			return nil, false
		}
		out = append(out, x)
	}
	return out, true
}

// expr reduces an expression; nil when it is not modelled.
func (w *walker) expr(n *sitter.Node) decl.Expr {
	if n == nil {
		return nil
	}
	if lit := w.literal(n); lit != nil {
		return lit
	}
	sp := w.span(n)
	switch n.Type() {
	case "identifier":
		return &decl.Name{Name: w.ident(n), Span: sp}
	case "this":
		return &decl.This{Span: sp}
	case "super":
		return &decl.Name{Name: "super", Span: sp}
	case "parenthesized_expression":
		if cs := named(n); len(cs) == 1 {
			return w.expr(cs[0])
		}
	case "field_access":
		obj := n.ChildByFieldName("object")
		field := n.ChildByFieldName("field")
		if obj == nil || field == nil {
			return nil
		}
		if field.Type() == "this" {
			return &decl.This{Qualifier: w.dotted(obj), Span: sp}
		}
		if isNameChain(obj) {
			return &decl.Name{Name: w.dotted(n), Span: sp}
		}
		x := w.expr(obj)
		if x == nil {
			return nil
		}
		return &decl.Select{X: x, Name: w.ident(field), Span: sp}
	case "method_invocation":
		call := &decl.Call{Name: w.ident(n.ChildByFieldName("name")), Span: sp}
		if obj := n.ChildByFieldName("object"); obj != nil {
			call.Receiver = w.expr(obj)
			if call.Receiver == nil {
				return nil
			}
		}
		if ta := n.ChildByFieldName("type_arguments"); ta != nil {
			for _, a := range w.typeArgs(ta) {
				call.TypeArgs = append(call.TypeArgs, a.Type)
			}
		}
		args, ok := w.args(n.ChildByFieldName("arguments"))
		if !ok {
			return nil
		}
		call.Args = args
		return call
	case "object_creation_expression":
		typ := n.ChildByFieldName("type")
		ref := w.typeRef(typ)
		if ref == nil || childOfType(n, "class_body") != nil {
			return nil
		}
		args, ok := w.args(n.ChildByFieldName("arguments"))
		if !ok {
			return nil
		}
		return &decl.New{Type: ref, Diamond: isDiamond(typ), Args: args, Span: sp}
	case "ternary_expression":
		c := w.expr(n.ChildByFieldName("condition"))
		a := w.expr(n.ChildByFieldName("consequence"))
		b := w.expr(n.ChildByFieldName("alternative"))
		if c == nil || a == nil || b == nil {
			return nil
		}
		return &decl.Cond{Cond: c, Then: a, Else: b, Span: sp}
	case "cast_expression":
		ref := w.typeRef(n.ChildByFieldName("type"))
		x := w.expr(n.ChildByFieldName("value"))
		if ref == nil || x == nil {
			return nil
		}
		return &decl.Cast{Type: ref, X: x, Span: sp}
	case "assignment_expression":
		l := w.expr(n.ChildByFieldName("left"))
		r := w.expr(n.ChildByFieldName("right"))
		if l == nil || r == nil {
			return nil
		}
		return &decl.Assign{Target: l, Value: r, Span: sp}
	case "array_creation_expression":
		ref := w.typeRef(n.ChildByFieldName("type"))
		if ref == nil {
			return nil
		}
		dims := 0
		na := &decl.NewArray{Span: sp}
		for _, c := range named(n) {
			switch c.Type() {
			case "dimensions_expr":
				dims++
			case "dimensions":
				dims += w.dims(c)
			case "array_initializer":
				for _, e := range named(c) {
					if x := w.expr(e); x != nil {
						na.Elems = append(na.Elems, x)
					}
				}
			}
		}
		na.Type = withDims(ref, dims)
		return na
	}
	return nil
}

func isStatementNode(typ string) bool {
	switch typ {
	case "block", "constructor_body", "local_variable_declaration", "expression_statement",
		"return_statement", "explicit_constructor_invocation", "switch_block",
		"switch_block_statement_group", "switch_rule", "catch_clause", "finally_clause",
		"labeled_statement", "synchronized_statement":
		return true
	}
	return strings.HasSuffix(typ, "_statement")
}

func isNameChain(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier":
		return true
	case "field_access":
		obj, field := n.ChildByFieldName("object"), n.ChildByFieldName("field")
		return obj != nil && field != nil && field.Type() == "identifier" && isNameChain(obj)
	}
	return false
}

// isDiamond reports "C<>" in an allocation.
func isDiamond(typ *sitter.Node) bool {
	if typ == nil || typ.Type() != "generic_type" {
		return false
	}
	args := childOfType(typ, "type_arguments")
	return args != nil && args.NamedChildCount() == 0
}
