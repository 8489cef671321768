package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("p/A.java", []byte("package p;\nclass A {\n  Missing m;\n}\n"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.ResNotFound,
		source.Span{File: fileID, Start: 23, End: 30}, "Missing cannot be resolved to a type")
	d = d.WithNote(source.Span{File: fileID, Start: 11, End: 18}, "while resolving p.A")
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.IOClassPathError, source.Span{}, "class path entry lib.jar does not exist"))
	return bag, fs
}

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "RES4001" || d.Title != "Cannot be resolved" {
		t.Errorf("unexpected header: %+v", d)
	}
	if d.Location == nil {
		t.Fatal("expected a location")
	}
	if d.Location.File != "A.java" || d.Location.StartByte != 23 || d.Location.EndByte != 30 {
		t.Errorf("unexpected location: %+v", *d.Location)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 3 {
		t.Errorf("expected 3:3, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location == nil || d.Notes[0].Location.StartLine != 2 {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}

	io := output.Diagnostics[1]
	if io.Location != nil {
		t.Errorf("expected class path warning without location, got %+v", *io.Location)
	}
}

func TestJSONWithoutPositionsOrNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})

	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartCol != 0 {
		t.Errorf("positions should be omitted, got %+v", *d.Location)
	}
	if len(d.Notes) != 0 {
		t.Errorf("notes should be omitted, got %+v", d.Notes)
	}
}

func TestJSONMaxCountsTrimmed(t *testing.T) {
	bag, fs := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", out.Count)
	}
	if out.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", out.Dropped)
	}
}

func TestJSONTimingNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "pipeline timings").
		WithNote(source.Span{}, `{"kind":"pipeline"}`))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("expected timing payload note, got %+v", out.Diagnostics[0])
	}
	if out.Diagnostics[0].Notes[0].Location != nil {
		t.Fatalf("timing note should not be located")
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "jbind", ToolVersion: "0.1.0", InvocationArgs: []string{"check", "."}}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "jbind" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if run.Tool.Driver.Rules[0].ID != "IO1002" {
		t.Errorf("rules should be sorted by code, got %s first", run.Tool.Driver.Rules[0].ID)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || len(run.Results[0].Locations) != 1 {
		t.Fatalf("unexpected results: %+v", run.Results)
	}
	if region := run.Results[0].Locations[0].PhysicalLocation.Region; region.StartLine != 3 {
		t.Errorf("unexpected region: %+v", region)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("errors should mark the invocation unsuccessful")
	}
}
