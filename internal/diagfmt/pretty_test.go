package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// TestPathModes checks the path rendering modes.
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A { Missing m; }\n")
	fileID := fs.AddVirtual("/home/user/project/src/p/A.java", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.ResNotFound,
		source.Span{File: fileID, Start: 10, End: 17},
		"Missing cannot be resolved to a type"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/p/A.java:1:11"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/p/A.java:1:11"},
		{name: "Basename only", mode: PathModeBasename, contains: "A.java:1:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR RES4001") {
				t.Errorf("expected severity and code in output, got:\n%s", output)
			}
			if !strings.Contains(output, "Missing cannot be resolved") {
				t.Error("expected message in output")
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "A.java", expected: "A.java:1:"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/B.java", expected: "B.java:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("class B {}\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.ResMissingType,
				source.Span{File: fileID, Start: 6, End: 7}, "test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()
			if !strings.HasPrefix(output, tt.expected) && !strings.Contains(output, "/"+tt.expected) {
				t.Errorf("expected output to mention %q, got:\n%s", tt.expected, output)
			}
			if strings.Contains(tt.path, "/very/") && strings.Contains(output, "/very/") {
				t.Errorf("expected long path to be shortened, got:\n%s", output)
			}
		})
	}
}

func TestPrettyMarkerAlignment(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n\tString s = \"héllo\"; Missing m;\n}\n")
	start := uint32(strings.Index(string(content), "Missing"))
	fileID := fs.AddVirtual("A.java", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.ResNotFound,
		source.Span{File: fileID, Start: start, End: start + 7}, "Missing cannot be resolved to a type"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, source and marker lines, got:\n%s", buf.String())
	}
	src, marker := lines[1], lines[2]
	if !strings.Contains(marker, "^~~~~~~") {
		t.Fatalf("expected a seven column marker, got %q", marker)
	}
	// the marker sits under the name in display columns
	srcCol := strings.Index(src, "Missing") - strings.Count(src[:strings.Index(src, "Missing")], "é")
	markCol := strings.Index(marker, "^")
	if srcCol != markCol {
		t.Fatalf("marker at column %d, name at %d:\n%s\n%s", markCol, srcCol, src, marker)
	}
}

func TestPrettyNotesAndContext(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("package p;\nclass A extends B {}\nclass B extends A {}\n")
	fileID := fs.AddVirtual("A.java", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 11, End: 31}
	d := diag.New(diag.SevError, diag.ResHierarchyHasProblems, primary, "the hierarchy of p.A is cyclic")
	d = d.WithNote(source.Span{File: fileID, Start: 32, End: 52}, "p.B extends p.A")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true, Summary: true})
	output := buf.String()

	if !strings.Contains(output, "note: A.java:3:1: p.B extends p.A") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "1 | package p;") {
		t.Fatalf("expected leading context line, got:\n%s", output)
	}
	if !strings.HasSuffix(output, "1 error, 0 warnings\n") {
		t.Fatalf("expected summary line, got:\n%s", output)
	}
}

func TestPrettyUnlocatedDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("A.java", []byte("class A {}\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.IOClassPathError, source.Span{}, "class path entry lib.jar does not exist"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	output := buf.String()
	if output != "WARNING IO1002: class path entry lib.jar does not exist\n" {
		t.Fatalf("unexpected output:\n%s", output)
	}

	buf.Reset()
	Short(&buf, bag, fs, PathModeBasename)
	if buf.String() != output {
		t.Fatalf("short output differs:\n%s", buf.String())
	}
}

func TestShortFormat(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("A.java", []byte("class A { Missing m; }\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.ResNotFound, source.Span{File: fileID, Start: 10, End: 17}, "Missing cannot be resolved to a type"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "A.java:1:11: ERROR RES4001: Missing cannot be resolved to a type\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
