package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/binary/cache"
	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// load builds the provider chain and reads every input file into the file
// set. Unreadable files and class path entries become diagnostics.
func (s *Session) load(ctx context.Context, paths []string) error {
	idx := s.begin("load")
	note := ""
	defer func() { s.end(idx, note) }()

	provider, err := s.providers()
	if err != nil {
		return err
	}
	s.provider = provider

	checked, err := listJavaFiles(paths)
	if err != nil {
		return err
	}
	if len(paths) == 1 {
		if st, err := os.Stat(paths[0]); err == nil && st.IsDir() {
			s.Files.SetBaseDir(paths[0])
		}
	}
	extra, err := listJavaFiles(s.opts.Config.SourcePath)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(checked))
	for _, p := range checked {
		seen[filepath.Clean(p)] = true
	}

	add := func(path string, check bool) {
		id, err := s.Files.Load(path)
		if err != nil {
			diag.ReportError(s.reporter, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot read %s: %v", path, err)).Emit()
			return
		}
		s.inputs = append(s.inputs, input{path: path, file: id, checked: check})
	}
	for _, p := range checked {
		if err := ctx.Err(); err != nil {
			return err
		}
		add(p, true)
	}
	for _, p := range extra {
		if !seen[filepath.Clean(p)] {
			add(p, false)
		}
	}
	note = fmt.Sprintf("%d files", len(s.inputs))
	return nil
}

// providers assembles core library, class path and cache. A class path
// entry that cannot be opened is reported and skipped; a cache that cannot
// be opened fails the run.
func (s *Session) providers() (binary.Provider, error) {
	cfg := s.opts.Config
	var chain binary.ChainProvider
	if s.opts.Provider != nil {
		chain = append(chain, s.opts.Provider)
	}
	for _, entry := range cfg.ClassPath {
		if _, err := os.Stat(entry); errors.Is(err, fs.ErrNotExist) {
			diag.ReportWarning(s.reporter, diag.IOClassPathError, source.Span{}, fmt.Sprintf("class path entry %s does not exist", entry)).Emit()
			continue
		}
		pp, err := binary.NewPathProvider([]string{entry})
		if err != nil {
			diag.ReportError(s.reporter, diag.IOClassPathError, source.Span{}, err.Error()).Emit()
			continue
		}
		chain = append(chain, pp)
		s.closers = append(s.closers, pp.Close)
	}
	if !cfg.NoCore {
		chain = append(chain, binary.CoreLibrary())
	}

	var provider binary.Provider = chain
	if cfg.CacheDir != "" {
		store, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open descriptor cache: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		provider = cache.NewProvider(store, chain)
	}
	return provider, nil
}

// listJavaFiles expands paths into a sorted list of .java files. Files
// named explicitly are kept whatever their extension.
func listJavaFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		st, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !st.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".java") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	// deterministic order
	sort.Strings(files)
	return files, nil
}
