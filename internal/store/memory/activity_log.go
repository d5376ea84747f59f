// Package memory provides the process-lifetime activity log.
package memory

import (
	"context"
	"sync"

	"example.com/salesvault/internal/domain"
)

// ActivityLog is an append-only, in-memory domain.ActivityLog. It is safe for concurrent use.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []domain.ActivityEntry
}

// NewActivityLog constructs an empty log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Append implements domain.ActivityLog.
func (l *ActivityLog) Append(ctx context.Context, entry domain.ActivityEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	return nil
}

// Latest returns the most recently appended entry.
func (l *ActivityLog) Latest(ctx context.Context) (domain.ActivityEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return domain.ActivityEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// List returns a copy of all entries in submission order.
func (l *ActivityLog) List(ctx context.Context) []domain.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *ActivityLog) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
