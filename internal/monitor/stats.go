// Package monitor provides real-time statistics for the sweep.
package monitor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats collects sweep metrics in a lock-free manner.
type Stats struct {
	entries   atomic.Uint64
	kept      atomic.Uint64
	removed   atomic.Uint64
	pages     atomic.Uint64
	startTime time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordEntry increments the total entry counter.
func (s *Stats) RecordEntry() {
	s.entries.Add(1)
}

// RecordKept increments the kept counter.
func (s *Stats) RecordKept() {
	s.kept.Add(1)
}

// RecordRemoved increments the removed counter.
func (s *Stats) RecordRemoved() {
	s.removed.Add(1)
}

// RecordPage increments the pages-requested counter.
func (s *Stats) RecordPage() {
	s.pages.Add(1)
}

// Entries returns the total number of evaluated entries.
func (s *Stats) Entries() uint64 {
	return s.entries.Load()
}

// Kept returns the number of entries kept on the page.
func (s *Stats) Kept() uint64 {
	return s.kept.Load()
}

// Removed returns the number of entries detached from the page.
func (s *Stats) Removed() uint64 {
	return s.removed.Load()
}

// Pages returns the number of load-more invocations requested.
func (s *Stats) Pages() uint64 {
	return s.pages.Load()
}

// Elapsed returns the time since monitoring started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Summary returns a formatted summary string.
func (s *Stats) Summary() string {
	entries := s.Entries()
	removed := s.Removed()

	removeRate := float64(0)
	if entries > 0 {
		removeRate = float64(removed) / float64(entries) * 100
	}

	return fmt.Sprintf(
		"── Summary ──\n"+
			"  Entries seen:    %d\n"+
			"  Removed:         %d (%.1f%%)\n"+
			"  Kept:            %d\n"+
			"  Pages requested: %d\n"+
			"  Duration:        %s\n"+
			"─────────────",
		entries, removed, removeRate,
		s.Kept(), s.Pages(),
		s.Elapsed().Round(time.Millisecond),
	)
}
