// Package insights stores short analyst notes collected while exploring a
// database. Notes live in memory for the lifetime of the process.
package insights

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Insight is one recorded note.
type Insight struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds insights in insertion order.
type Store struct {
	mu       sync.RWMutex
	insights []Insight
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append records a note and returns it with id and timestamp assigned.
func (s *Store) Append(text, source string) Insight {
	insight := Insight{
		ID:        uuid.NewString(),
		Text:      text,
		Source:    source,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = append(s.insights, insight)
	return insight
}

// List returns all insights oldest first.
func (s *Store) List() []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Insight, len(s.insights))
	copy(out, s.insights)
	return out
}

// Len reports the number of stored insights.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.insights)
}
