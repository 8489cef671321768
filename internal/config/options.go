// Package config holds jbind options: the compliance level with its
// feature gates, class and source paths, caching, null-default annotations
// and tracing. Options load from jbind.toml or jbind.yaml.
package config

import "github.com/groovy/groovy-eclipse-sub042/internal/diag"

// DefaultNonNullAnnotations are recognised when null-default propagation is
// enabled and no names are configured.
var DefaultNonNullAnnotations = []string{
	"org.eclipse.jdt.annotation.NonNullByDefault",
	"javax.annotation.ParametersAreNonnullByDefault",
}

// Features are the language gates derived from the compliance level. A file
// may force individual gates.
type Features struct {
	Generics bool
	Varargs  bool
	Autobox  bool
	Diamond  bool
}

// TraceOptions mirror the trace flags.
type TraceOptions struct {
	Output   string
	Level    string
	Mode     string
	Format   string
	RingSize int
}

// Options configure one run.
type Options struct {
	Compliance Level
	Features   Features

	ClassPath  []string
	SourcePath []string
	NoCore     bool
	CacheDir   string

	NullDefault      bool
	NonNullByDefault []string

	MaxDiagnostics int
	// MinSeverity hides less severe diagnostics from the result.
	MinSeverity diag.Severity
	Jobs        int

	Trace TraceOptions

	// Path of the file the options came from, "" for defaults.
	Path string
}

// Default returns the options for the latest compliance level.
func Default() Options {
	return Options{
		Compliance:     LevelLatest,
		Features:       FeaturesFor(LevelLatest),
		MaxDiagnostics: 200,
		Trace:          TraceOptions{Level: "off", Mode: "stream", Format: "text", RingSize: 4096},
	}
}

// FeaturesFor derives the gates of a level.
func FeaturesFor(l Level) Features {
	return Features{
		Generics: l.Generics(),
		Varargs:  l.Varargs(),
		Autobox:  l.Autobox(),
		Diamond:  l.Diamond(),
	}
}

// WithLevel switches the compliance level and re-derives the gates.
func (o Options) WithLevel(l Level) Options {
	o.Compliance = l
	o.Features = FeaturesFor(l)
	return o
}

// NonNullAnnotations returns the configured null-default annotation names,
// nil when propagation is disabled.
func (o Options) NonNullAnnotations() []string {
	if !o.NullDefault {
		return nil
	}
	if len(o.NonNullByDefault) > 0 {
		return o.NonNullByDefault
	}
	return DefaultNonNullAnnotations
}
