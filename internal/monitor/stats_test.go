package monitor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Counters(t *testing.T) {
	s := NewStats()

	for i := 0; i < 5; i++ {
		s.RecordEntry()
	}
	s.RecordKept()
	s.RecordKept()
	s.RecordRemoved()
	s.RecordRemoved()
	s.RecordRemoved()
	s.RecordPage()

	assert.Equal(t, uint64(5), s.Entries())
	assert.Equal(t, uint64(2), s.Kept())
	assert.Equal(t, uint64(3), s.Removed())
	assert.Equal(t, uint64(1), s.Pages())
	assert.GreaterOrEqual(t, s.Elapsed().Nanoseconds(), int64(0))
}

func TestStats_Summary(t *testing.T) {
	s := NewStats()
	s.RecordEntry()
	s.RecordEntry()
	s.RecordEntry()
	s.RecordEntry()
	s.RecordRemoved()
	s.RecordKept()
	s.RecordKept()
	s.RecordKept()
	s.RecordPage()
	s.RecordPage()

	sum := s.Summary()
	assert.Contains(t, sum, "Entries seen:    4")
	assert.Contains(t, sum, "Removed:         1 (25.0%)")
	assert.Contains(t, sum, "Kept:            3")
	assert.Contains(t, sum, "Pages requested: 2")
}

func TestStats_SummaryWithoutEntries(t *testing.T) {
	s := NewStats()
	assert.Contains(t, s.Summary(), "Removed:         0 (0.0%)")
}

func TestStats_ConcurrentRecording(t *testing.T) {
	s := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.RecordEntry()
				s.RecordKept()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8000), s.Entries())
	assert.Equal(t, uint64(8000), s.Kept())
}
