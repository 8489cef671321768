package diag

import (
	"testing"

	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		ResNotFound:     "RES4001",
		SynParseError:   "SYN2001",
		IOLoadFileError: "IO1001",
		UnknownCode:     "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportError(r, ResNotFound, source.Span{File: 1, Start: 9, End: 10}, "b").Emit()
	ReportWarning(r, ResMissingType, source.Span{File: 0, Start: 3, End: 4}, "a").Emit()
	ReportError(r, ResAmbiguous, source.Span{File: 0, Start: 1, End: 2}, "dropped").Emit()

	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	bag.Sort()
	if bag.Items()[0].Message != "a" {
		t.Fatalf("unexpected order: %+v", bag.Items())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 5}
	for range 3 {
		ReportError(r, ResNotFound, sp, "Foo cannot be resolved to a type").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
}

func TestBagPrune(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevInfo, ObsTimings, source.Span{}, "timings"))
	bag.Add(New(SevWarning, ResMissingType, source.Span{}, "w"))
	bag.Add(NewError(ResNotFound, source.Span{}, "e"))
	if n := bag.Prune(SevWarning); n != 1 {
		t.Fatalf("Prune removed %d, want 1", n)
	}
	if bag.Len() != 2 || bag.Count(ObsTimings) != 0 {
		t.Fatalf("unexpected items: %+v", bag.Items())
	}
	if sev, err := ParseSeverity("WARN"); err != nil || sev != SevWarning {
		t.Fatalf("ParseSeverity(WARN) = %v, %v", sev, err)
	}
}
