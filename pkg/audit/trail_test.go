package audit

import (
	"strconv"
	"testing"
)

func TestTrailKeepsInsertionOrder(t *testing.T) {
	trail := NewTrail(8)
	for i := 0; i < 3; i++ {
		trail.Record(Entry{Query: "q" + strconv.Itoa(i)})
	}

	entries := trail.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Query != "q"+strconv.Itoa(i) {
			t.Errorf("entries[%d].Query = %q", i, e.Query)
		}
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Errorf("entries[%d] missing id or timestamp", i)
		}
	}
}

func TestTrailOverwritesOldest(t *testing.T) {
	trail := NewTrail(4)
	for i := 0; i < 6; i++ {
		trail.Record(Entry{Query: "q" + strconv.Itoa(i)})
	}

	if trail.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", trail.Len())
	}
	entries := trail.Entries()
	if entries[0].Query != "q2" || entries[3].Query != "q5" {
		t.Errorf("entries = %v", entries)
	}
}
