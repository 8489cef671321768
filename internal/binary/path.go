package binary

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type pathEntry struct {
	origin string
	fsys   fs.FS
	closer func() error
}

// PathProvider reads class files from a class path of directories and
// jar/zip archives. Decoded descriptors are memoized.
type PathProvider struct {
	entries []pathEntry

	mu    sync.Mutex
	cache map[string]*Descriptor
}

// SplitClassPath splits an OS list-separated class path.
func SplitClassPath(cp string) []string {
	var out []string
	for _, p := range filepath.SplitList(cp) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewPathProvider opens every class path entry. Entries that do not exist
// are skipped; archives that cannot be opened are an error.
func NewPathProvider(paths []string) (*PathProvider, error) {
	p := &PathProvider{cache: make(map[string]*Descriptor)}
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("class path entry %s: %w", path, err)
		}
		if info.IsDir() {
			p.entries = append(p.entries, pathEntry{origin: path, fsys: os.DirFS(path)})
			continue
		}
		zr, err := zip.OpenReader(path)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("open archive %s: %w", path, err)
		}
		p.entries = append(p.entries, pathEntry{origin: path, fsys: zr, closer: zr.Close})
	}
	return p, nil
}

// Find implements Provider.
func (p *PathProvider) Find(name string) (*Descriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.cache[name]; ok {
		return d, nil
	}
	for _, e := range p.entries {
		data, err := fs.ReadFile(e.fsys, name+".class")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", name, e.origin, err)
		}
		d, err := ReadClass(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s from %s: %w", name, e.origin, err)
		}
		if d.Name != name {
			return nil, fmt.Errorf("decode %s from %s: %w: declares %s", name, e.origin, ErrMalformed, d.Name)
		}
		d.Origin = e.origin
		p.cache[name] = d
		return d, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Names implements Lister by walking every entry for .class files.
func (p *PathProvider) Names() ([]string, error) {
	seen := make(map[string]struct{})
	for _, e := range p.entries {
		err := fs.WalkDir(e.fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".class") || strings.HasSuffix(path, "module-info.class") {
				return nil
			}
			seen[strings.TrimSuffix(path, ".class")] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", e.origin, err)
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out, nil
}

// Close releases open archives.
func (p *PathProvider) Close() error {
	var errs []error
	for _, e := range p.entries {
		if e.closer != nil {
			errs = append(errs, e.closer())
		}
	}
	return errors.Join(errs...)
}
