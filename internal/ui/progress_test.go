package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
)

func TestApplyEventTracksPhases(t *testing.T) {
	m := NewProgressModel("check", nil).(*progressModel)
	m.applyEvent(observ.Event{Phase: "load", Status: observ.Started})
	if got := m.fraction(); got != 0.125 {
		t.Fatalf("fraction after start = %v, want 0.125", got)
	}
	m.applyEvent(observ.Event{Phase: "load", Status: observ.Finished, Elapsed: 2 * time.Millisecond})
	m.applyEvent(observ.Event{Phase: "unknown", Status: observ.Started})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction after end = %v, want 0.25", got)
	}
	view := m.View()
	if !strings.Contains(view, "load (2.0ms)") {
		t.Fatalf("view lacks load timing:\n%s", view)
	}
	if !strings.Contains(view, "queued") {
		t.Fatalf("view lacks queued phases:\n%s", view)
	}
}

func TestDoneOnClosedChannel(t *testing.T) {
	events := make(chan observ.Event)
	close(events)
	m := NewProgressModel("check", events).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("got %T, want doneMsg", msg)
	}
	m.Update(msg)
	if !m.done || !strings.Contains(m.View(), "done: check") {
		t.Fatalf("model not finished:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語テキスト", 7); got != "日本..." {
		t.Fatalf("truncate = %q", got)
	}
}
