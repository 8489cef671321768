package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate are optional
	_ = GitCommit
	_ = BuildDate
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate }()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2024-01-15T10:30:00Z")
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	tests := map[string]string{
		"0.1.0-dev":   "0.1.0-dev",
		"1.2.3":       "1.2.3",
		"1.2.3+build": "1.2.3+build",
		"dev":         "dev",
	}
	for in, want := range tests {
		if got := Colored(in); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}
