package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
)

// Provider serves descriptors from a Store, falling back to next and
// recording what it loads.
type Provider struct {
	store *Store
	next  binary.Provider

	hits   atomic.Int64
	misses atomic.Int64
}

// NewProvider wraps next with a cache.
func NewProvider(store *Store, next binary.Provider) *Provider {
	return &Provider{store: store, next: next}
}

// Find implements binary.Provider.
func (p *Provider) Find(name string) (*binary.Descriptor, error) {
	d, ok, err := p.store.Get(name)
	if err != nil {
		return nil, err
	}
	if ok {
		p.hits.Add(1)
		return d, nil
	}
	p.misses.Add(1)
	d, err = p.next.Find(name)
	if err != nil {
		return nil, err
	}
	if err := p.store.Put(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Counters returns cache hits and misses since creation.
func (p *Provider) Counters() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}

// Warm loads names from next in parallel (at most limit at a time) and
// stores them in one batch. Names the provider does not know are skipped.
func Warm(ctx context.Context, store *Store, next binary.Provider, names []string, limit int) (int, error) {
	if limit <= 0 {
		limit = 1
	}
	var (
		mu    sync.Mutex
		found []*binary.Descriptor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := next.Find(name)
			if binary.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("warm %s: %w", name, err)
			}
			mu.Lock()
			found = append(found, d)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := store.PutAll(found); err != nil {
		return 0, err
	}
	return len(found), nil
}
