package diag

import (
	"sync"

	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter suppresses repeated diagnostics with the same code, primary
// span and message. The same unresolved name tends to be hit from every
// signature that mentions it.
type DedupReporter struct {
	mu   sync.Mutex
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := dedupKey{code: code, span: primary, msg: msg}
	r.mu.Lock()
	if _, ok := r.seen[key]; ok {
		r.mu.Unlock()
		return
	}
	r.seen[key] = struct{}{}
	r.mu.Unlock()
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
