package diagfmt

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative or basename.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "auto", "":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8
	PathMode  PathMode
	Width     uint8 // max source line width, 0 means unlimited
	ShowNotes bool
	// Summary appends an "N errors, M warnings" line.
	Summary bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	Max              int // trims the output, not the Bag
	IncludeNotes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return f.Path
}

// located reports whether d points into a source file. I/O and pipeline
// diagnostics carry the zero span and have no location.
func located(d diag.Diagnostic, fs *source.FileSet) bool {
	if fs.Get(d.Primary.File) == nil {
		return false
	}
	if d.Primary != (source.Span{}) {
		return true
	}
	id := d.Code.ID()
	return !strings.HasPrefix(id, "IO") && !strings.HasPrefix(id, "OBS")
}
