package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
)

// FileNames lists the manifest names searched for, in order.
var FileNames = []string{"jbind.toml", "jbind.yaml", "jbind.yml"}

type fileConfig struct {
	Compliance string `toml:"compliance" yaml:"compliance"`
	Features   struct {
		Generics *bool `toml:"generics" yaml:"generics"`
		Varargs  *bool `toml:"varargs" yaml:"varargs"`
		Autobox  *bool `toml:"autobox" yaml:"autobox"`
		Diamond  *bool `toml:"diamond" yaml:"diamond"`
	} `toml:"features" yaml:"features"`
	Paths struct {
		ClassPath  []string `toml:"classpath" yaml:"classpath"`
		SourcePath []string `toml:"sourcepath" yaml:"sourcepath"`
		NoCore     bool     `toml:"no_core" yaml:"no_core"`
	} `toml:"paths" yaml:"paths"`
	Cache struct {
		Dir string `toml:"dir" yaml:"dir"`
	} `toml:"cache" yaml:"cache"`
	Null struct {
		Enabled     bool     `toml:"enabled" yaml:"enabled"`
		Annotations []string `toml:"annotations" yaml:"annotations"`
	} `toml:"nullness" yaml:"nullness"`
	Diagnostics struct {
		Max         int    `toml:"max" yaml:"max"`
		MinSeverity string `toml:"min_severity" yaml:"min_severity"`
	} `toml:"diagnostics" yaml:"diagnostics"`
	Jobs  int `toml:"jobs" yaml:"jobs"`
	Trace struct {
		Output   string `toml:"output" yaml:"output"`
		Level    string `toml:"level" yaml:"level"`
		Mode     string `toml:"mode" yaml:"mode"`
		Format   string `toml:"format" yaml:"format"`
		RingSize int    `toml:"ring_size" yaml:"ring_size"`
	} `toml:"trace" yaml:"trace"`
}

// Find walks up from startDir to the first directory holding one of
// FileNames.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest manifest above startDir, or the defaults when
// none exists.
func Discover(startDir string) (Options, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Options{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a TOML or YAML manifest. Relative paths are resolved against
// the manifest directory.
func Load(path string) (Options, error) {
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Options{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.DecodeFile(path, &fc)
		if err != nil {
			return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Options{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	}
	opts, err := fc.options(filepath.Dir(path))
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	opts.Path = path
	return opts, nil
}

func (fc *fileConfig) options(base string) (Options, error) {
	opts := Default()
	level, err := ParseLevel(fc.Compliance)
	if err != nil {
		return Options{}, err
	}
	opts = opts.WithLevel(level)
	override := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	override(&opts.Features.Generics, fc.Features.Generics)
	override(&opts.Features.Varargs, fc.Features.Varargs)
	override(&opts.Features.Autobox, fc.Features.Autobox)
	override(&opts.Features.Diamond, fc.Features.Diamond)

	opts.ClassPath = absPaths(base, fc.Paths.ClassPath)
	opts.SourcePath = absPaths(base, fc.Paths.SourcePath)
	opts.NoCore = fc.Paths.NoCore
	if fc.Cache.Dir != "" {
		opts.CacheDir = absPath(base, fc.Cache.Dir)
	}
	opts.NullDefault = fc.Null.Enabled
	opts.NonNullByDefault = fc.Null.Annotations
	if fc.Diagnostics.Max > 0 {
		opts.MaxDiagnostics = fc.Diagnostics.Max
	}
	if fc.Diagnostics.MinSeverity != "" {
		sev, err := diag.ParseSeverity(fc.Diagnostics.MinSeverity)
		if err != nil {
			return Options{}, err
		}
		opts.MinSeverity = sev
	}
	if fc.Jobs < 0 {
		return Options{}, fmt.Errorf("jobs must not be negative, got %d", fc.Jobs)
	}
	opts.Jobs = fc.Jobs

	t := fc.Trace
	if t.Output != "" {
		opts.Trace.Output = t.Output
	}
	if t.Level != "" {
		opts.Trace.Level = t.Level
	}
	if t.Mode != "" {
		opts.Trace.Mode = t.Mode
	}
	if t.Format != "" {
		opts.Trace.Format = t.Format
	}
	if t.RingSize > 0 {
		opts.Trace.RingSize = t.RingSize
	}
	return opts, nil
}

func absPath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

func absPaths(base string, ps []string) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, absPath(base, p))
	}
	return out
}
