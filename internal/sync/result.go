package sync

import (
	"fmt"
	"sync"
	"time"
)

// Summary is the accumulated tally of one sync run. Exactly one of
// created/updated/failed is counted per reconciled product, so
// Created + Updated + Failed equals the number of SKU-bearing catalog
// records. Total also counts the records skipped for a missing SKU.
type Summary struct {
	Total     int `json:"total"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Published int `json:"published"`
}

// RunResult is the terminal state of a sync run, returned to the caller
// whether or not individual items failed. Success is a derived convenience
// flag, true when no item failed.
type RunResult struct {
	Success bool     `json:"success"`
	Logs    []string `json:"logs"`
	Summary Summary  `json:"summary"`
}

// ProgressLog is the append-only, timestamped event sequence produced as a
// side channel of a run. Appends are safe for concurrent use within a
// batch; entries are never mutated or removed.
type ProgressLog struct {
	mu      sync.Mutex
	entries []string
}

// NewProgressLog creates an empty progress log
func NewProgressLog() *ProgressLog {
	return &ProgressLog{}
}

// Appendf appends one formatted, timestamp-prefixed entry
func (l *ProgressLog) Appendf(format string, args ...any) {
	entry := time.Now().UTC().Format(time.RFC3339) + " " + fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns the ordered sequence appended so far
func (l *ProgressLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
