package javasrc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/testkit"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

func parse(t *testing.T, src string) (*decl.Unit, []diag.Diagnostic) {
	t.Helper()
	p := NewParser(source.NewFileSet())
	defer p.Close()
	u, diags, err := p.ParseSource(context.Background(), "Test.java", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, u)
	return u, diags
}

const boxSource = `package com.example.util;

import java.util.List;
import java.util.*;
import static java.util.Collections.emptyList;

@Deprecated
public class Box<E extends Comparable<? super E>> extends AbstractBox<E> implements Iterable<E>, java.io.Serializable {
    public static final int LIMIT = 0x10;
    private final String name = "box", label;
    protected List<? extends Number>[] buckets;

    public Box(String name) {
        this(name, 1);
    }

    Box(String name, int size) {
        super();
    }

    @SafeVarargs
    public static <T> Box<T> of(T first, T... rest) throws IllegalStateException {
        List<String> xs = new java.util.ArrayList<>();
        var copy = first;
        int n = rest.length;
        xs.add(name);
        return null;
    }

    int[] sizes() { return null; }

    static class Node {}
}
`

func TestParseClassHeader(t *testing.T) {
	u, diags := parse(t, boxSource)
	assert.Empty(t, diags)
	assert.Equal(t, "com.example.util", u.Package)
	require.Len(t, u.Imports, 3)
	assert.Equal(t, decl.Import{Name: "java.util.List", Span: u.Imports[0].Span}, *u.Imports[0])
	assert.True(t, u.Imports[1].OnDemand)
	assert.Equal(t, "java.util", u.Imports[1].Name)
	assert.True(t, u.Imports[2].Static)
	assert.Equal(t, "emptyList", u.Imports[2].Simple())

	require.Len(t, u.Types, 1)
	box := u.Types[0]
	assert.Equal(t, "Box", box.Name)
	assert.Equal(t, types.SortClass, box.Kind)
	assert.True(t, box.Modifiers.IsPublic())
	assert.True(t, box.Modifiers.IsDeprecated())
	require.Len(t, box.TypeParams, 1)
	assert.Equal(t, "E", box.TypeParams[0].Name)
	require.Len(t, box.TypeParams[0].Bounds, 1)
	assert.Equal(t, "Comparable<? super E>", box.TypeParams[0].Bounds[0].String())
	assert.Equal(t, "AbstractBox<E>", box.Super.String())
	require.Len(t, box.Interfaces, 2)
	assert.Equal(t, "java.io.Serializable", box.Interfaces[1].Name)
	require.Len(t, box.Members, 1)
	assert.Equal(t, "Node", box.Members[0].Name)
}

func TestParseMembers(t *testing.T) {
	u, _ := parse(t, boxSource)
	box := u.Types[0]

	require.Len(t, box.Fields, 4)
	assert.Equal(t, "LIMIT", box.Fields[0].Name)
	assert.Equal(t, int64(16), box.Fields[0].Constant)
	assert.Equal(t, "box", box.Fields[1].Constant)
	assert.Equal(t, "label", box.Fields[2].Name)
	assert.Nil(t, box.Fields[2].Constant)
	assert.Equal(t, "List<? extends Number>[]", box.Fields[3].Type.String())

	require.Len(t, box.Methods, 4)
	ctor := box.Methods[0]
	assert.True(t, ctor.Constructor)
	assert.Equal(t, "Box", ctor.Name)
	require.Len(t, ctor.Body.Stmts, 1)
	call, ok := ctor.Body.Stmts[0].(*decl.CtorCall)
	require.True(t, ok)
	assert.False(t, call.Super)
	assert.Len(t, call.Args, 2)

	of := box.Methods[2]
	assert.Equal(t, "of", of.Name)
	assert.True(t, of.Modifiers.IsStatic())
	assert.True(t, of.Varargs())
	assert.Equal(t, "T", of.Params[1].Type.Name)
	assert.Equal(t, 0, of.Params[1].Type.Dims)
	assert.Equal(t, "Box<T>", of.Result.String())
	require.Len(t, of.TypeParams, 1)
	require.Len(t, of.Throws, 1)
	assert.Equal(t, "IllegalStateException", of.Throws[0].Name)

	sizes := box.Methods[3]
	assert.Equal(t, "int", sizes.Result.Name)
	assert.Equal(t, 1, sizes.Result.Dims)
}

func TestParseBody(t *testing.T) {
	u, _ := parse(t, boxSource)
	of := u.Types[0].Methods[2]
	stmts := of.Body.Stmts
	require.Len(t, stmts, 5)

	xs := stmts[0].(*decl.LocalDecl)
	assert.Equal(t, "xs", xs.Name)
	alloc, ok := xs.Init.(*decl.New)
	require.True(t, ok)
	assert.True(t, alloc.Diamond)
	assert.Equal(t, "java.util.ArrayList", alloc.Type.Name)

	copyDecl := stmts[1].(*decl.LocalDecl)
	assert.Nil(t, copyDecl.Type)
	assert.Equal(t, &decl.Name{Name: "first", Span: copyDecl.Init.Pos()}, copyDecl.Init)

	n := stmts[2].(*decl.LocalDecl)
	assert.Equal(t, &decl.Name{Name: "rest.length", Span: n.Init.Pos()}, n.Init)

	add := stmts[3].(*decl.ExprStmt).X.(*decl.Call)
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, "xs", add.Receiver.(*decl.Name).Name)
	require.Len(t, add.Args, 1)

	ret := stmts[4].(*decl.Return)
	assert.Equal(t, decl.LitNull, ret.X.(*decl.Literal).Kind)
	assert.Less(t, xs.Span.Start, n.Span.Start)
}

func TestParseEnumRecordAnnotation(t *testing.T) {
	u, diags := parse(t, `
package p;

enum Color { RED, GREEN; Color next() { return RED; } }

record Point(int x, int y) {
    Point {
        if (x < 0) { throw new IllegalArgumentException(); }
    }
}

@java.lang.annotation.Retention(java.lang.annotation.RetentionPolicy.RUNTIME)
@Repeatable(Tags.class)
@interface Tag { String value() default ""; int[] weights(); }

interface Shape extends Comparable<Shape>, Cloneable {
    double PI = 3.14;
    double area();
}
`)
	assert.Empty(t, diags)
	require.Len(t, u.Types, 4)

	color := u.Types[0]
	assert.Equal(t, types.SortEnum, color.Kind)
	assert.Equal(t, []string{"RED", "GREEN"}, color.Constants)
	require.Len(t, color.Methods, 1)

	point := u.Types[1]
	assert.Equal(t, types.SortRecord, point.Kind)
	require.Len(t, point.Components, 2)
	assert.Equal(t, "y", point.Components[1].Name)
	require.Len(t, point.Methods, 1)
	assert.True(t, point.Methods[0].Constructor)
	assert.Len(t, point.Methods[0].Params, 2)

	tag := u.Types[2]
	assert.Equal(t, types.SortAnnotation, tag.Kind)
	require.Len(t, tag.Annotations, 2)
	ret := tag.Annotations[0]
	assert.Equal(t, "java.lang.annotation.Retention", ret.Name)
	require.Len(t, ret.Elements, 1)
	assert.Equal(t, "value", ret.Elements[0].Name)
	assert.Equal(t, "RUNTIME", ret.Elements[0].Value.(decl.EnumRef).Constant())
	container, ok := tag.Annotations[1].Elements[0].Value.(*decl.TypeRef)
	require.True(t, ok)
	assert.Equal(t, "Tags", container.Name)
	require.Len(t, tag.Methods, 2)
	assert.Equal(t, "String", tag.Methods[0].Result.Name)
	assert.Equal(t, 1, tag.Methods[1].Result.Dims)

	shape := u.Types[3]
	assert.Equal(t, types.SortInterface, shape.Kind)
	require.Len(t, shape.Interfaces, 2)
	assert.Equal(t, 3.14, shape.Fields[0].Constant)
	assert.Nil(t, shape.Methods[0].Body)
}

func TestPackageAnnotations(t *testing.T) {
	u, _ := parse(t, "@NonNullByDefault\npackage com.example;\n")
	assert.Equal(t, "com.example", u.Package)
	require.Len(t, u.PackageAnnotations, 1)
	assert.Equal(t, "NonNullByDefault", u.PackageAnnotations[0].Name)
}

func TestIdentifiersAreNormalized(t *testing.T) {
	u, _ := parse(t, "class Cafe\u0301 { int e\u0301te\u0301; }")
	require.Len(t, u.Types, 1)
	assert.Equal(t, "Caf\u00e9", u.Types[0].Name)
	assert.Equal(t, "\u00e9t\u00e9", u.Types[0].Fields[0].Name)
}

func TestSyntaxErrorsAreReported(t *testing.T) {
	u, diags := parse(t, "class A { void m( { } class B {}")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.SynParseError, diags[0].Code)
	assert.NotNil(t, u)
}

func TestUnmodelledExpressionsAreDropped(t *testing.T) {
	u, _ := parse(t, "class A { void m(int a) { int b = a + 1; foo(a * 2); bar(a); } }")
	stmts := u.Types[0].Methods[0].Body.Stmts
	require.Len(t, stmts, 2)
	b := stmts[0].(*decl.LocalDecl)
	assert.Equal(t, "b", b.Name)
	assert.Nil(t, b.Init)
	assert.Equal(t, "bar", stmts[1].(*decl.ExprStmt).X.(*decl.Call).Name)
}

func TestSpansNest(t *testing.T) {
	fs := source.NewFileSet()
	p := NewParser(fs)
	defer p.Close()
	u, diags, err := p.ParseSource(context.Background(), "Box.java", []byte(boxSource))
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NoError(t, testkit.CheckSpanInvariants(u, fs.Get(u.File)))
}
