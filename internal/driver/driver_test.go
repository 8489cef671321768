package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// writeTree creates files relative to a temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func check(t *testing.T, opts Options, files map[string]string) *Result {
	t.Helper()
	if opts.Config.MaxDiagnostics == 0 {
		opts.Config = config.Default()
	}
	res, err := Check(context.Background(), opts, []string{writeTree(t, files)})
	require.NoError(t, err)
	return res
}

func messages(res *Result, code diag.Code) []string {
	var out []string
	for _, d := range res.Bag.Items() {
		if d.Code == code {
			out = append(out, d.Message)
		}
	}
	return out
}

func errorsOf(res *Result) []string {
	var out []string
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevError {
			out = append(out, fmt.Sprintf("%s %s", d.Code.ID(), d.Message))
		}
	}
	return out
}

var cleanTree = map[string]string{
	"com/example/Shape.java": `package com.example;

import java.util.List;
import java.util.ArrayList;

public abstract class Shape implements Comparable<Shape> {
    protected String name;
    static int count;

    protected Shape(String name) {
        this.name = name;
        count = count;
    }

    public abstract int area();

    public int compareTo(Shape other) {
        return 0;
    }

    static List<Shape> all(Shape first, Shape... rest) {
        List<Shape> out = new ArrayList<>();
        out.add(first);
        int n = rest.length;
        Object o = n > 0 ? "some" : out;
        return out;
    }
}
`,
	"com/example/Square.java": `package com.example;

public class Square extends Shape {
    private final int side;

    public Square(int side) {
        super("square");
        this.side = side;
    }

    public int area() {
        String label = name;
        var copy = this;
        return side;
    }

    Square twice() {
        return new Square(side);
    }
}
`,
}

func TestCheckCleanSources(t *testing.T) {
	res := check(t, Options{}, cleanTree)
	assert.Empty(t, errorsOf(res))
	require.Len(t, res.Units, 2)
	assert.NotEmpty(t, res.RunID)
	for _, u := range res.Units {
		assert.True(t, u.Checked)
		assert.False(t, u.Aborted)
		assert.Zero(t, u.Problems)
		assert.Equal(t, "com.example", u.Package)
	}
	assert.Equal(t, []string{"com.example.Shape"}, res.Units[0].Types)
}

func TestCheckReportsUnresolvedNames(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/A.java": `package p;

import java.util.Nope;

class A {
    Missing field;

    void m() {
        undefined();
        int x = y;
        String s = "a";
        s.noSuchMethod(1);
    }
}
`,
	})
	notFound := messages(res, diag.ResNotFound)
	joined := strings.Join(notFound, "\n")
	assert.Contains(t, joined, "java.util.Nope")
	assert.Contains(t, joined, "Missing cannot be resolved to a type")
	assert.Contains(t, joined, "undefined")
	assert.Contains(t, joined, "y cannot be resolved")
	assert.Contains(t, joined, "noSuchMethod")
	require.Len(t, res.Units, 1)
	assert.Equal(t, res.Units[0].Problems, len(notFound))

	for _, d := range res.Bag.Items() {
		if d.Code == diag.ResNotFound {
			assert.Less(t, d.Primary.Start, d.Primary.End, d.Message)
		}
	}
}

func TestCheckResolvesTypeNamesAsReceivers(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/A.java": `package p;

class U {
    static int twice(int x) { return x; }
}

class A {
    int v = U.twice(2);
    String s = String.valueOf(1);
    Integer i = Integer.valueOf(1);

    int m() {
        String U = "shadow";
        return U.length();
    }
}
`,
	})
	assert.Empty(t, errorsOf(res))
}

func TestCheckReportsUnknownReceiver(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/A.java": `package p;
class A { int v = Nowhere.twice(2); }
`,
	})
	notFound := messages(res, diag.ResNotFound)
	require.Len(t, notFound, 1)
	assert.Contains(t, notFound[0], "Nowhere")
}

func TestCheckReportsVisibilityAndStaticContext(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/Secret.java": `package p;
public class Secret {
    private int hidden;
    int plain;
    static void s() { plain = 1; }
}
`,
		"q/User.java": `package q;
public class User {
    void m(p.Secret s) {
        int a = s.hidden;
    }
}
`,
	})
	assert.Len(t, messages(res, diag.ResNotVisible), 1)
	assert.Len(t, messages(res, diag.ResNonStaticReferenceInStaticContext), 1)
}

func TestCheckHierarchyCycle(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/A.java": "package p; class A extends B {}",
		"p/B.java": "package p; class B extends A { void m() { toString(); } }",
	})
	cyc := messages(res, diag.ResHierarchyHasProblems)
	require.NotEmpty(t, cyc)
	assert.Contains(t, cyc[0], "cyclic")
}

func TestCheckDefectiveContainer(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/Tag.java": `package p;
import java.lang.annotation.Repeatable;
@Repeatable(Tags.class)
@interface Tag {}
`,
		"p/Tags.java": `package p;
@interface Tags { int value(); }
`,
	})
	msgs := messages(res, diag.ResDefectiveContainerAnnotationType)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "p.Tags")
}

func TestCheckSyntaxErrors(t *testing.T) {
	res := check(t, Options{}, map[string]string{
		"p/Bad.java": "package p; class Bad { void m( { }",
	})
	assert.NotEmpty(t, messages(res, diag.SynParseError))
	assert.True(t, res.Bag.HasErrors())
}

func TestCheckMissingClassPathEntry(t *testing.T) {
	opts := Options{Config: config.Default()}
	opts.Config.ClassPath = []string{filepath.Join(t.TempDir(), "missing.jar")}
	res := check(t, opts, map[string]string{"p/A.java": "package p; class A {}"})
	var warned bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOClassPathError {
			warned = true
			assert.Equal(t, diag.SevWarning, d.Severity)
		}
	}
	assert.True(t, warned)
}

func TestCheckMinSeverityHidesWarnings(t *testing.T) {
	opts := Options{Config: config.Default(), Timings: true}
	opts.Config.ClassPath = []string{filepath.Join(t.TempDir(), "missing.jar")}
	opts.Config.MinSeverity = diag.SevError
	res := check(t, opts, map[string]string{"p/A.java": "package p; class A {}"})
	assert.Zero(t, res.Bag.Count(diag.IOClassPathError))
	assert.Equal(t, 1, res.Bag.Count(diag.ObsTimings), "timings survive the filter")
}

func TestCheckTimingsAndPhases(t *testing.T) {
	var events []observ.Event
	opts := Options{
		Config:   config.Default(),
		Timings:  true,
		Observer: func(ev observ.Event) { events = append(events, ev) },
	}
	res := check(t, opts, cleanTree)
	assert.Len(t, messages(res, diag.ObsTimings), 1)

	var ended []string
	for _, ev := range events {
		if ev.Status == observ.Finished {
			ended = append(ended, ev.Phase)
		}
	}
	assert.Equal(t, []string{"load", "parse", "bind", "check"}, ended)
	assert.Len(t, res.Timer.Report().Phases, 4)

	counts, err := res.Metrics.Counts()
	require.NoError(t, err)
	assert.Positive(t, counts["jbind_resolve_lookups_total/name"])
}

func TestCheckLevelGatesDiamond(t *testing.T) {
	files := map[string]string{
		"p/A.java": `package p;
import java.util.*;
class A {
    List<String> xs = new ArrayList<>();
}
`,
	}
	latest := check(t, Options{}, files)
	assert.Empty(t, errorsOf(latest))

	opts := Options{Config: config.Default().WithLevel(config.Level(6))}
	old := check(t, opts, files)
	assert.Empty(t, errorsOf(old))
}

func TestSourcePathUnitsAreDeclaredNotChecked(t *testing.T) {
	lib := writeTree(t, map[string]string{
		"lib/Helper.java": `package lib;
public class Helper {
    public static int twice(int x) { return x; }
    void broken() { nothing(); }
}
`,
	})
	opts := Options{Config: config.Default()}
	opts.Config.SourcePath = []string{lib}
	res := check(t, opts, map[string]string{
		"app/Main.java": `package app;
import lib.Helper;
class Main { int v = Helper.twice(2); }
`,
	})
	assert.Empty(t, errorsOf(res))
	require.Len(t, res.Units, 2)
	assert.True(t, res.Units[0].Checked)
	assert.False(t, res.Units[1].Checked)
}

type failingProvider struct{}

func (failingProvider) Find(name string) (*binary.Descriptor, error) {
	if name == "Boom" {
		return nil, errors.New("corrupt class file")
	}
	return nil, fmt.Errorf("%s: %w", name, binary.ErrNotFound)
}

func TestFatalAbortEndsOnlyTheUnit(t *testing.T) {
	opts := Options{Config: config.Default(), Provider: failingProvider{}}
	res := check(t, opts, map[string]string{
		"A.java": "class A extends Boom {}",
		"B.java": "class B { void m() { undefined(); } }",
	})
	aborts := messages(res, diag.ResFatalAbort)
	require.Len(t, aborts, 1)
	assert.Contains(t, aborts[0], "corrupt class file")

	require.Len(t, res.Units, 2)
	assert.True(t, res.Units[0].Aborted)
	assert.False(t, res.Units[1].Aborted)
	assert.Len(t, messages(res, diag.ResNotFound), 1)
}

func TestSessionLookupClass(t *testing.T) {
	dir := writeTree(t, cleanTree)
	s, err := Open(context.Background(), Options{Config: config.Default()}, []string{dir})
	require.NoError(t, err)
	defer s.Close()

	list, err := s.LookupClass("java.util.List")
	require.NoError(t, err)
	assert.Equal(t, "java.util.List", s.Types().QualifiedName(list))

	shape, err := s.LookupClass("com.example.Shape")
	require.NoError(t, err)
	assert.Equal(t, types.SortClass, s.Types().SortOf(shape))

	_, err = s.LookupClass("no.such.Type")
	assert.Error(t, err)
}
