package observ

import (
	"strings"
	"testing"
)

func TestTimerNotifiesAndReports(t *testing.T) {
	var events []Event
	tm := NewTimer(func(ev Event) { events = append(events, ev) })

	load := tm.Start("load")
	tm.Stop(load, "3 files")
	parse := tm.Start("parse")
	tm.Stop(parse, "")
	if d := tm.Stop(parse, "again"); d != 0 {
		t.Fatalf("second Stop measured %v", d)
	}
	tm.Start("bind") // never finished

	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	if events[1].Status != Finished || events[1].Phase != "load" {
		t.Fatalf("unexpected event: %+v", events[1])
	}

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("report has %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Note != "3 files" || r.Phases[1].Note != "" {
		t.Fatalf("notes: %+v", r.Phases)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "load") || !strings.Contains(sum, "3 files") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}
	if strings.Contains(sum, "bind") {
		t.Fatalf("unfinished phase in summary:\n%s", sum)
	}
}

func TestNilObserver(t *testing.T) {
	tm := NewTimer(nil)
	tm.Stop(tm.Start("check"), "")
	if got := len(tm.Report().Phases); got != 1 {
		t.Fatalf("phases = %d", got)
	}
}
