// Package audit keeps a bounded in-memory record of executed statements.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded statement execution. Parameter values are not
// stored, only the statement text and its outcome.
type Entry struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Fingerprint string        `json:"fingerprint"`
	Query       string        `json:"query"`
	Duration    time.Duration `json:"duration"`
	RowCount    int64         `json:"row_count"`
	Error       string        `json:"error,omitempty"`
}

// Trail is a fixed-capacity ring of entries. Once full, new records
// overwrite the oldest.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewTrail creates a trail holding up to capacity entries.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = 256
	}
	return &Trail{entries: make([]Entry, capacity)}
}

// Record appends an entry, assigning its id and timestamp.
func (t *Trail) Record(entry Entry) Entry {
	entry.ID = uuid.NewString()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[t.next] = entry
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
	return entry
}

// Entries returns recorded entries oldest first.
func (t *Trail) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		out := make([]Entry, t.next)
		copy(out, t.entries[:t.next])
		return out
	}
	out := make([]Entry, 0, len(t.entries))
	out = append(out, t.entries[t.next:]...)
	out = append(out, t.entries[:t.next]...)
	return out
}

// Len reports how many entries are currently held.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return len(t.entries)
	}
	return t.next
}
