package diagfmt

import (
	"fmt"
	"io"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// Short writes one line per diagnostic, without source excerpts. The
// format is stable and used for golden files.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		if located(d, fs) {
			fmt.Fprintf(w, "%s: %s %s: %s\n", position(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
	}
}
