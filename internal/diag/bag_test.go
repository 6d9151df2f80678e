package diag

import "testing"

func TestBag_AddRespectsCapacity(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(CodecUnknownMarker, 0, "first")) {
		t.Fatalf("first Add should succeed")
	}
	if !b.Add(NewError(CodecTruncatedStream, 1, "second")) {
		t.Fatalf("second Add should succeed")
	}
	if b.Add(NewError(CodecDanglingBackref, 2, "third")) {
		t.Fatalf("third Add should fail: bag is at capacity")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBag_HasErrorsAndWarnings(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, CacheSchemaMismatch, 0, "stale cache"))
	if b.HasErrors() {
		t.Fatalf("HasErrors should be false with only a warning present")
	}
	if !b.HasWarnings() {
		t.Fatalf("HasWarnings should be true")
	}
	b.Add(NewError(CodecUnknownMarker, 5, "bad marker"))
	if !b.HasErrors() {
		t.Fatalf("HasErrors should be true once an error diagnostic is added")
	}
}

func TestBag_SortOrdersByPositionThenSeverityThenCode(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, CacheSchemaMismatch, 10, "later, warning"))
	b.Add(NewError(CodecUnknownMarker, 10, "later, error"))
	b.Add(NewError(CodecTruncatedStream, 0, "earliest"))
	b.Sort()

	items := b.Items()
	if items[0].Primary != 0 {
		t.Fatalf("Sort should put the earliest position first, got %+v", items)
	}
	if items[1].Severity != SevError || items[1].Primary != 10 {
		t.Fatalf("at the same position, Sort should put the error before the warning, got %+v", items[1])
	}
}

func TestBag_DedupDropsRepeats(t *testing.T) {
	b := NewBag(4)
	b.Add(NewError(CodecUnknownMarker, 3, "bad marker"))
	b.Add(NewError(CodecUnknownMarker, 3, "bad marker (again)"))
	b.Add(NewError(CodecUnknownMarker, 4, "bad marker elsewhere"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Dedup should collapse the two diagnostics sharing code+position, got %d items", b.Len())
	}
}

func TestBag_MergeGrowsCapacity(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(CodecUnknownMarker, 0, "a"))
	other := NewBag(1)
	other.Add(NewError(CodecTruncatedStream, 1, "b"))

	a.Merge(other)
	if a.Len() != 2 {
		t.Fatalf("Merge should combine both bags' items, got %d", a.Len())
	}
	if a.Cap() < 2 {
		t.Fatalf("Merge should grow capacity to fit, got cap=%d", a.Cap())
	}
}
