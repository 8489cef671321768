package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for humans. It walks bag.Items() in order, so
// callers sort the bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by Context lines of source around the span with a ^~~~ marker
// under it, then its notes in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
		header := fmt.Sprintf("%s %s: %s",
			p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		if located(d, fs) {
			header = p.path.Sprint(position(fs, d.Primary, opts.PathMode)) + ": " + header
		}
		fmt.Fprintln(w, header)
		if located(d, fs) {
			snippet(w, fs, d.Primary, opts, p)
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			if d.Code == diag.ObsTimings || fs.Get(n.Span.File) == nil || n.Span == (source.Span{}) {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), position(fs, n.Span, opts.PathMode), n.Msg)
			snippet(w, fs, n.Span, opts, p)
		}
	}
	if opts.Summary {
		fmt.Fprintf(w, "%d %s, %d %s\n", errs, plural(errs, "error"), warns, plural(warns, "warning"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func position(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

// snippet prints the lines of sp with opts.Context lines of surrounding
// source. The marker is aligned by display width so tabs and wide runes
// keep it under the right characters.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	if end.Line < start.Line {
		end = start
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := end.Line + ctx
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if int(ln) > len(f.LineIdx)+1 {
			break
		}
		line := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), line)
		if ln < start.Line || ln > end.Line {
			continue
		}
		raw := f.GetLine(ln)
		from, to := 0, len(raw)
		if ln == start.Line {
			from = min(int(start.Col)-1, len(raw))
		}
		if ln == end.Line {
			to = min(int(end.Col)-1, len(raw))
		}
		pad := runewidth.StringWidth(expandTabs(raw[:from]))
		width := max(runewidth.StringWidth(expandTabs(raw[from:max(from, to)])), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
