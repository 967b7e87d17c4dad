package reporting

import (
	"sync"
	"time"
)

// DefaultJournalCapacity bounds the in-memory journal.
const DefaultJournalCapacity = 1000

// Journal keeps the most recent entries in memory. It is safe for concurrent use.
type Journal struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewJournal creates a Journal holding at most capacity entries; a non-positive
// capacity selects DefaultJournalCapacity.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &Journal{capacity: capacity, now: time.Now}
}

// Record appends e, stamping it when Timestamp is zero. The oldest entry is
// dropped once the journal is full.
func (j *Journal) Record(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now()
	}
	if len(j.entries) == j.capacity {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:len(j.entries)-1]
	}
	j.entries = append(j.entries, e)
}

// Entries returns a copy of the journal in recording order.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Retrospective summarizes the current journal contents.
func (j *Journal) Retrospective() (*RetrospectiveReport, error) {
	return NewRetrospectiveReporter().GenerateRetrospective(j.Entries())
}
