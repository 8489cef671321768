// Package javasrc reads Java source files into decl trees using the
// tree-sitter Java grammar. Identifiers are NFC-normalized on the way in.
package javasrc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// maxSyntaxErrors bounds the syntax diagnostics reported per file.
const maxSyntaxErrors = 16

// Parser turns files of a FileSet into declaration units. A Parser is not
// safe for concurrent use; the driver keeps one per worker.
type Parser struct {
	fs   *source.FileSet
	strs *source.Interner
	ts   *sitter.Parser
}

// NewParser creates a parser reading from fs.
func NewParser(fs *source.FileSet) *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(java.GetLanguage())
	return &Parser{fs: fs, strs: source.NewInterner(), ts: ts}
}

// Close releases the tree-sitter parser.
func (p *Parser) Close() {
	p.ts.Close()
}

// Parse reads file id. Syntax errors come back as diagnostics and the unit
// keeps every declaration that could be recovered; the error is reserved
// for failures of the parser itself.
func (p *Parser) Parse(ctx context.Context, id source.FileID) (*decl.Unit, []diag.Diagnostic, error) {
	f := p.fs.Get(id)
	if f == nil {
		return nil, nil, fmt.Errorf("file %d is not in the file set", id)
	}
	tree, err := p.ts.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	defer tree.Close()

	w := &walker{strs: p.strs, file: id, src: f.Content}
	root := tree.RootNode()
	u := w.unit(root)
	u.Path = f.Path
	if root.HasError() {
		w.syntaxErrors(root)
	}
	return u, w.diags, nil
}

// ParseSource adds content to the file set under name and parses it.
func (p *Parser) ParseSource(ctx context.Context, name string, content []byte) (*decl.Unit, []diag.Diagnostic, error) {
	return p.Parse(ctx, p.fs.AddVirtual(name, content))
}

type walker struct {
	strs  *source.Interner
	file  source.FileID
	src   []byte
	diags []diag.Diagnostic
}

func (w *walker) span(n *sitter.Node) source.Span {
	return source.Span{File: w.file, Start: n.StartByte(), End: n.EndByte()}
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.src)
}

// ident returns the normalized spelling of an identifier node.
func (w *walker) ident(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return w.strs.MustLookup(w.strs.Intern(w.text(n)))
}

func (w *walker) report(code diag.Code, n *sitter.Node, msg string) {
	w.diags = append(w.diags, diag.NewError(code, w.span(n), msg))
}

// syntaxErrors reports ERROR and missing nodes, outermost first.
func (w *walker) syntaxErrors(root *sitter.Node) {
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if len(w.diags) >= maxSyntaxErrors {
			return
		}
		switch {
		case n.IsMissing():
			w.report(diag.SynParseError, n, fmt.Sprintf("syntax error, missing %s", n.Type()))
			return
		case n.Type() == "ERROR":
			w.report(diag.SynParseError, n, "syntax error, unexpected input")
			return
		case !n.HasError():
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
}

func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range named(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}
