package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Bag collects diagnostics up to a limit. It is safe for concurrent use.
type Bag struct {
	mu      sync.Mutex
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag holding at most max diagnostics (0 means unlimited).
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add appends d unless the limit is reached; it reports whether d was
// kept.
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force adds d regardless of the limit.
func (b *Bag) Force(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

// Dropped reports how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of stored diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns the stored diagnostics. The slice must not be modified.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items
}

// Count returns how many diagnostics carry code.
func (b *Bag) Count(code Code) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for i := range b.items {
		if b.items[i].Code == code {
			n++
		}
	}
	return n
}

// Sort orders by file, start, end, severity (desc) and code.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeated diagnostics with the same code, span and message.
func (b *Bag) Dedup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%d:%s:%s", d.Code, d.Primary, d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	b.items = out
}

// Prune removes diagnostics less severe than min and returns how many
// were removed.
func (b *Bag) Prune(min Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items[:0]
	for _, d := range b.items {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	n := len(b.items) - len(out)
	b.items = out
	return n
}
