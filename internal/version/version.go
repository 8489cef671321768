package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build information for the jbind CLI. The variables are plain strings so
// they can be set with -ldflags "-X".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders v with its major, minor and patch parts in different
// colors. Anything after the patch number is kept as is; versions that do
// not have three parts come back unchanged.
func Colored(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return v
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(patch) + rest
}
